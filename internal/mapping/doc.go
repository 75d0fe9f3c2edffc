// Package mapping provides the YAML document format for mapping specifications,
// its loader, the transform registry backing function rules, compilation into
// rule.Spec values, and structural validation.
//
// YAML turns specifications into reviewable, reusable data; the Go constructors in
// package rule remain available for specs built in code.
//
// # Schema Overview
//
//	version: "1"
//	transforms:
//	  - name: specsSummary
//	    description: cpu / ram / gpu
//	mappings:
//	  product:
//	    productId: id                         # reference
//	    finalPrice: priceInfo.finalPrice      # dotted path
//	    specsSummary: !func specsSummary      # registered transform
//	    label: !tmpl "{{.name}} ({{.id}})"    # text/template over the source
//	    variants:                             # array at "variants"
//	      - sku: sku
//	    related:                              # array at "links.related"
//	      from: links.related
//	      map: !spec link
//	    pricing:                              # nested object, same source
//	      base: priceInfo.basePrice
//	    legacy: null                          # no field
//	  link:
//	    href: url
//
// # Rule Shapes
//
// Every value under a mapping is classified by shape, in this order:
//  1. !func NAME or !tmpl TEXT: function rule
//  2. a string: reference ("" means no field)
//  3. null: no field
//  4. a sequence: array rule over its first element (a mapping or !spec NAME)
//  5. a mapping with both "from" and "map": from/map rule
//  6. !spec NAME or any other mapping: nested rule
//
// Numbers and booleans are not rules and produce no field.
//
// A nested mapping that declares destination fields named exactly "from" and "map"
// is read as a from/map rule. Validation flags such objects when they carry any other
// key, since that usually means a nested mapping was intended.
//
// # Key Order
//
// Mapping nodes are decoded through yaml.Node, so destination fields keep the order in
// which they are written.
package mapping
