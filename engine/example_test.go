package engine_test

import (
	"encoding/json"
	"fmt"

	"object-mapper/engine"
	"object-mapper/rule"
)

func ExampleMapWith() {
	src := map[string]any{
		"id":   301,
		"name": "Gaming Laptop",
		"priceInfo": map[string]any{
			"basePrice":  1500,
			"finalPrice": 1400,
		},
		"tags": []any{"electronics", "laptop"},
	}

	out, err := engine.MapWith(src, rule.Spec{
		{Name: "productId", Rule: rule.Ref("id")},
		{Name: "title", Rule: rule.Ref("name")},
		{Name: "finalPrice", Rule: rule.Ref("priceInfo.finalPrice")},
		{Name: "categories", Rule: rule.Ref("tags")},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	data, _ := json.Marshal(out)
	fmt.Println(string(data))
	// Output:
	// {"productId":301,"title":"Gaming Laptop","finalPrice":1400,"categories":["electronics","laptop"]}
}

func ExampleWithDeepKeySearch() {
	src := map[string]any{
		"priceInfo": map[string]any{"finalPrice": 1400},
	}

	out, _ := engine.MapWith(src, rule.Spec{
		{Name: "finalPrice", Rule: rule.Ref("finalPrice")},
	}, engine.WithDeepKeySearch())

	data, _ := json.Marshal(out)
	fmt.Println(string(data))
	// Output:
	// {"finalPrice":1400}
}

func ExampleBind() {
	lines := engine.Bind(rule.Spec{
		{Name: "orderId", Rule: rule.Ref("id")},
		{Name: "lines", Rule: rule.FromMap("items", rule.Spec{
			{Name: "sku", Rule: rule.Ref("code")},
			{Name: "qty", Rule: rule.Ref("quantity")},
		})},
	})

	out, _ := lines.Map(map[string]any{
		"id": "A-1",
		"items": []any{
			map[string]any{"code": "X", "quantity": 2},
			map[string]any{"code": "Y", "quantity": 1},
		},
	})

	data, _ := json.Marshal(out)
	fmt.Println(string(data))
	// Output:
	// {"orderId":"A-1","lines":[{"sku":"X","qty":2},{"sku":"Y","qty":1}]}
}
