// Package resolve looks up values inside arbitrary Go source values by key or dotted path.
//
// Two strategies are available, selected per call by a Mode:
//
//   - PathTraversal splits the key on "." and walks from the root, one property per
//     segment. A missing step yields nil rather than an error.
//   - DeepKeySearch treats the key as a single property name and searches the whole
//     object graph depth-first, returning the first owner found. Reference cycles are
//     tolerated through a visited set.
//
// Property access works on records, string-keyed maps, structs (Go name or json tag),
// slices and arrays (decimal index), and gabs containers.
package resolve

import (
	"strings"
)

// Resolve returns the value addressed by keyOrPath in src, or nil if it cannot be found.
func Resolve(src any, keyOrPath string, mode Mode) any {
	if mode == DeepKeySearch {
		return DeepKey(src, keyOrPath)
	}

	return Path(src, keyOrPath)
}

// Path resolves a dotted path from the root of src.
// "id" and "priceInfo.finalPrice" are handled uniformly; dots always separate segments.
func Path(src any, path string) any {
	current := src

	for _, segment := range SplitPath(path) {
		if current == nil {
			return nil
		}

		current, _ = Field(current, segment)
	}

	return current
}

// SplitPath splits a dotted path into its segments. Empty segments are kept.
func SplitPath(path string) []string {
	return strings.Split(path, ".")
}

// DeepKey searches src for a property called name and returns its value.
//
// The search is depth-first in pre-order: each visited object is checked for an own
// property first, then its object-shaped children are visited in key order (see Field
// for the per-shape ordering; Go maps are visited in sorted key order). The first match
// wins, even when the matched value is nil or zero.
func DeepKey(src any, name string) any {
	v, _ := LookupDeep(src, name)
	return v
}

// LookupDeep is DeepKey that also reports whether a property was found.
func LookupDeep(src any, name string) (any, bool) {
	s := &deepSearch{
		name:    name,
		visited: make(map[identityKey]struct{}),
	}

	return s.visit(src)
}

type deepSearch struct {
	name    string
	visited map[identityKey]struct{}
}

func (s *deepSearch) visit(node any) (any, bool) {
	if !isObject(node) {
		return nil, false
	}

	if id, ok := identity(node); ok {
		if _, seen := s.visited[id]; seen {
			return nil, false
		}

		s.visited[id] = struct{}{}
	}

	if v, ok := Field(node, s.name); ok {
		return v, true
	}

	for _, e := range entries(node) {
		if !isObject(e.value) {
			continue
		}

		if v, ok := s.visit(e.value); ok {
			return v, true
		}
	}

	return nil, false
}
