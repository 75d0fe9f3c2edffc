package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"object-mapper/record"
	"object-mapper/resolve"
	"object-mapper/rule"
)

func mustJSON(t *testing.T, v any) string {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)

	return string(data)
}

func TestMapWith_DirectFieldCopy(t *testing.T) {
	t.Parallel()

	out, err := MapWith(map[string]any{"a": 5}, rule.Spec{{Name: "x", Rule: rule.Ref("a")}})
	require.NoError(t, err)

	assert.Equal(t, `{"x":5}`, mustJSON(t, out))
}

func TestMapWith_DottedPath(t *testing.T) {
	t.Parallel()

	spec := rule.Spec{{Name: "x", Rule: rule.Ref("a.b")}}

	out, err := MapWith(map[string]any{"a": map[string]any{"b": 7}}, spec)
	require.NoError(t, err)
	assert.Equal(t, `{"x":7}`, mustJSON(t, out))

	out, err = MapWith(map[string]any{"a": nil}, spec)
	require.NoError(t, err)
	assert.True(t, record.Has(out, "x"))

	v, _ := out.Get("x")
	assert.Nil(t, v)
}

func TestMapWith_DeepKeySearch(t *testing.T) {
	t.Parallel()

	spec := rule.Spec{{Name: "x", Rule: rule.Ref("b")}}

	out, err := MapWith(map[string]any{"a": map[string]any{"b": 9}}, spec, WithDeepKeySearch())
	require.NoError(t, err)
	assert.Equal(t, `{"x":9}`, mustJSON(t, out))

	deeper := map[string]any{"l1": map[string]any{"l2": map[string]any{"l3": map[string]any{"b": 10}}}}
	out, err = MapWith(deeper, spec, WithMode(resolve.DeepKeySearch))
	require.NoError(t, err)
	assert.Equal(t, `{"x":10}`, mustJSON(t, out))

	cyclic := map[string]any{"a": 1}
	cyclic["self"] = cyclic

	out, err = MapWith(cyclic, rule.Spec{{Name: "x", Rule: rule.Ref("missing")}, {Name: "y", Rule: rule.Ref("a")}}, WithDeepKeySearch())
	require.NoError(t, err)
	assert.Equal(t, `{"x":null,"y":1}`, mustJSON(t, out))
}

func TestMapWith_ArrayRule(t *testing.T) {
	t.Parallel()

	spec := rule.Spec{{Name: "items", Rule: rule.Array(rule.Spec{{Name: "y", Rule: rule.Ref("v")}})}}

	t.Run("maps each element in order", func(t *testing.T) {
		t.Parallel()

		src := map[string]any{"items": []any{map[string]any{"v": 1}, map[string]any{"v": 2}}}

		out, err := MapWith(src, spec)
		require.NoError(t, err)
		assert.Equal(t, `{"items":[{"y":1},{"y":2}]}`, mustJSON(t, out))
	})

	t.Run("typed slices", func(t *testing.T) {
		t.Parallel()

		type item struct {
			V int `json:"v"`
		}

		out, err := MapWith(map[string]any{"items": []item{{V: 3}, {V: 4}, {V: 5}}}, spec)
		require.NoError(t, err)
		assert.Equal(t, `{"items":[{"y":3},{"y":4},{"y":5}]}`, mustJSON(t, out))
	})

	for name, value := range map[string]any{
		"number":   42,
		"string":   "items",
		"object":   map[string]any{"v": 1},
		"bytes":    []byte("[1,2]"),
		"raw json": json.RawMessage(`[{"v":1}]`),
		"missing":  nil,
	} {
		t.Run("non-array "+name+" yields empty", func(t *testing.T) {
			t.Parallel()

			src := map[string]any{}
			if value != nil {
				src["items"] = value
			}

			out, err := MapWith(src, spec)
			require.NoError(t, err)
			assert.Equal(t, `{"items":[]}`, mustJSON(t, out))
		})
	}

	t.Run("uses mode for the array lookup", func(t *testing.T) {
		t.Parallel()

		src := map[string]any{"wrapper": map[string]any{"items": []any{map[string]any{"v": "deep"}}}}

		out, err := MapWith(src, spec, WithDeepKeySearch())
		require.NoError(t, err)
		assert.Equal(t, `{"items":[{"y":"deep"}]}`, mustJSON(t, out))
	})
}

func TestMapWith_FromMapRule(t *testing.T) {
	t.Parallel()

	spec := rule.Spec{{Name: "out", Rule: rule.FromMap("raw", rule.Spec{{Name: "y", Rule: rule.Ref("v")}})}}

	out, err := MapWith(map[string]any{"raw": []any{map[string]any{"v": 3}}}, spec)
	require.NoError(t, err)
	assert.Equal(t, `{"out":[{"y":3}]}`, mustJSON(t, out))

	out, err = MapWith(map[string]any{"out": []any{map[string]any{"v": 3}}}, spec)
	require.NoError(t, err)
	assert.Equal(t, `{"out":[]}`, mustJSON(t, out))

	out, err = MapWith(map[string]any{"raw": 42}, spec)
	require.NoError(t, err)
	assert.Equal(t, `{"out":[]}`, mustJSON(t, out))

	nested := rule.Spec{{Name: "links", Rule: rule.FromMap("data.links", rule.Spec{{Name: "href", Rule: rule.Ref("url")}})}}
	out, err = MapWith(map[string]any{"data": map[string]any{"links": []any{map[string]any{"url": "/a"}}}}, nested)
	require.NoError(t, err)
	assert.Equal(t, `{"links":[{"href":"/a"}]}`, mustJSON(t, out))
}

func TestMapWith_RuleOmissionVersusUndefinedValue(t *testing.T) {
	t.Parallel()

	spec := rule.Spec{
		{Name: "x", Rule: nil},
		{Name: "y", Rule: rule.Ref("missingField")},
		{Name: "z", Rule: rule.Ref("")},
	}

	out, err := MapWith(map[string]any{}, spec)
	require.NoError(t, err)

	assert.False(t, record.Has(out, "x"))
	assert.False(t, record.Has(out, "z"))
	assert.True(t, record.Has(out, "y"))
	assert.Equal(t, []string{"y"}, record.Keys(out))
}

func TestMapWith_FunctionRule(t *testing.T) {
	t.Parallel()

	type specs struct {
		CPU, RAM, GPU string
	}

	src := map[string]any{
		"specs": specs{CPU: "Intel i7", RAM: "16GB", GPU: "RTX 3060"},
		"tags":  []string{"a", "b"},
	}

	var calls int

	spec := rule.Spec{
		{Name: "summary", Rule: rule.FuncOf(func(s any) any {
			calls++
			sp := resolve.Path(s, "specs").(specs)

			return sp.CPU + " / " + sp.RAM + " / " + sp.GPU
		})},
		{Name: "whole", Rule: rule.FuncOf(func(s any) any { return s })},
		{Name: "list", Rule: rule.FuncOf(func(any) any { return []int{1, 2} })},
		{Name: "nothing", Rule: rule.FuncOf(func(any) any { return nil })},
	}

	out, err := MapWith(src, spec)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"summary", "whole", "list", "nothing"}, record.Keys(out))

	summary, _ := out.Get("summary")
	assert.Equal(t, "Intel i7 / 16GB / RTX 3060", summary)

	whole, _ := out.Get("whole")
	assert.Equal(t, src, whole)

	list, _ := out.Get("list")
	assert.Equal(t, []int{1, 2}, list)
}

func TestMapWith_FunctionErrorsPropagateUnchanged(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	spec := rule.Spec{
		{Name: "ok", Rule: rule.Ref("a")},
		{Name: "nested", Rule: rule.Nested(rule.Spec{
			{Name: "bad", Rule: rule.Func(func(any) (any, error) { return nil, boom })},
		})},
	}

	out, err := MapWith(map[string]any{"a": 1}, spec)
	assert.Nil(t, out)
	assert.Same(t, boom, err)

	items := rule.Spec{{Name: "items", Rule: rule.Array(rule.Spec{
		{Name: "bad", Rule: rule.Func(func(any) (any, error) { return nil, boom })},
	})}}

	_, err = MapWith(map[string]any{"items": []any{1}}, items)
	assert.Same(t, boom, err)
}

func TestMapWith_FunctionPanicsPropagate(t *testing.T) {
	t.Parallel()

	spec := rule.Spec{{Name: "x", Rule: rule.FuncOf(func(any) any { panic("exploded") })}}

	assert.PanicsWithValue(t, "exploded", func() {
		_, _ = MapWith(nil, spec)
	})
}

func TestMapWith_NestedRuleUsesSameSource(t *testing.T) {
	t.Parallel()

	src := map[string]any{
		"id":   1,
		"name": "laptop",
		"info": map[string]any{"id": "inner-id"},
	}

	spec := rule.Spec{
		{Name: "meta", Rule: rule.Nested(rule.Spec{
			{Name: "identifier", Rule: rule.Ref("id")},
			{Name: "deeper", Rule: rule.Nested(rule.Spec{
				{Name: "label", Rule: rule.Ref("name")},
			})},
		})},
	}

	out, err := MapWith(src, spec)
	require.NoError(t, err)
	assert.Equal(t, `{"meta":{"identifier":1,"deeper":{"label":"laptop"}}}`, mustJSON(t, out))
}

func TestMapWith_OrderFollowsDeclaration(t *testing.T) {
	t.Parallel()

	spec := rule.Spec{
		{Name: "zeta", Rule: rule.Ref("a")},
		{Name: "alpha", Rule: rule.Ref("b")},
		{Name: "mid", Rule: rule.Ref("c")},
		{Name: "zeta", Rule: rule.Ref("c")},
	}

	out, err := MapWith(map[string]any{"a": 1, "b": 2, "c": 3}, spec)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":3,"alpha":2,"mid":3}`, mustJSON(t, out))
}

func TestMapWith_FreshResultPerCall(t *testing.T) {
	t.Parallel()

	spec := rule.Spec{{Name: "x", Rule: rule.Ref("a")}}
	e := New()

	first, err := e.Map(map[string]any{"a": 1}, spec)
	require.NoError(t, err)

	second, err := e.Map(map[string]any{"a": 2}, spec)
	require.NoError(t, err)

	assert.NotSame(t, first, second)

	v, _ := first.Get("x")
	assert.Equal(t, 1, v)
}

func TestMap_DepthLimit(t *testing.T) {
	t.Parallel()

	t.Run("self referencing spec", func(t *testing.T) {
		t.Parallel()

		spec := make(rule.Spec, 1)
		spec[0] = rule.Field{Name: "again", Rule: rule.Nested(spec)}

		_, err := MapWith(map[string]any{}, spec, WithMaxDepth(5))
		require.Error(t, err)
		require.ErrorIs(t, err, ErrDepthExceeded)

		var depthErr *DepthError
		require.ErrorAs(t, err, &depthErr)
		assert.Equal(t, 5, depthErr.Limit)
		assert.Equal(t, []string{"again", "again", "again", "again", "again"}, depthErr.Path)
		assert.Contains(t, err.Error(), `"again.again.again.again.again"`)
	})

	t.Run("exact limit succeeds", func(t *testing.T) {
		t.Parallel()

		spec := rule.Spec{{Name: "a", Rule: rule.Nested(rule.Spec{{Name: "b", Rule: rule.Ref("x")}})}}

		_, err := MapWith(nil, spec, WithMaxDepth(2))
		require.NoError(t, err)

		_, err = MapWith(nil, spec, WithMaxDepth(1))
		require.ErrorIs(t, err, ErrDepthExceeded)
	})

	t.Run("array elements count as a level", func(t *testing.T) {
		t.Parallel()

		spec := rule.Spec{{Name: "items", Rule: rule.Array(rule.Spec{{Name: "v", Rule: rule.Ref("v")}})}}

		_, err := MapWith(map[string]any{"items": []any{map[string]any{}}}, spec, WithMaxDepth(1))
		require.ErrorIs(t, err, ErrDepthExceeded)

		_, err = MapWith(map[string]any{"items": []any{}}, spec, WithMaxDepth(1))
		require.NoError(t, err)
	})

	t.Run("invalid limit restores default", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, DefaultMaxDepth, New(WithMaxDepth(0)).MaxDepth())
	})
}

func TestApply(t *testing.T) {
	t.Parallel()

	e := New()
	src := map[string]any{"tags": []any{map[string]any{"n": "a"}}, "p": map[string]any{"q": 1}}

	v, err := e.Apply(src, rule.Ref("p.q"), "ignored")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = e.Apply(src, rule.Array(rule.Spec{{Name: "name", Rule: rule.Ref("n")}}), "tags")
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"a"}]`, mustJSON(t, v))

	v, err = e.Apply(src, nil, "x")
	require.NoError(t, err)
	assert.Nil(t, v)

	ptr := rule.Ref("p")
	v, err = e.Apply(src, &ptr, "x")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"q": 1}, v)
}

func TestModel(t *testing.T) {
	t.Parallel()

	m := Bind(rule.Spec{{Name: "title", Rule: rule.Ref("name")}}, WithMaxDepth(3))
	assert.Equal(t, []string{"title"}, m.Spec().Names())

	out, err := m.Map(map[string]any{"name": "laptop"})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"laptop"}`, mustJSON(t, out))
}

type itemDTO struct {
	Label string `json:"label"`
}

type productDTO struct {
	ProductID  int       `json:"productId"`
	Title      string    `json:"title"`
	FinalPrice float64   `json:"finalPrice"`
	Items      []itemDTO `json:"items"`
	Meta       struct {
		Origin string `json:"origin"`
	} `json:"meta"`
}

func TestMapInto(t *testing.T) {
	t.Parallel()

	spec := rule.Spec{
		{Name: "productId", Rule: rule.Ref("id")},
		{Name: "title", Rule: rule.Ref("name")},
		{Name: "finalPrice", Rule: rule.Ref("priceInfo.finalPrice")},
		{Name: "items", Rule: rule.FromMap("parts", rule.Spec{{Name: "label", Rule: rule.Ref("name")}})},
		{Name: "meta", Rule: rule.Nested(rule.Spec{{Name: "origin", Rule: rule.Ref("vendor")}})},
	}

	src := map[string]any{
		"id":        301,
		"name":      "Gaming Laptop",
		"priceInfo": map[string]any{"finalPrice": 1400.5},
		"parts":     []any{map[string]any{"name": "cpu"}, map[string]any{"name": "gpu"}},
		"vendor":    "acme",
	}

	got, err := MapInto[productDTO](New(), src, spec)
	require.NoError(t, err)

	want := productDTO{
		ProductID:  301,
		Title:      "Gaming Laptop",
		FinalPrice: 1400.5,
		Items:      []itemDTO{{Label: "cpu"}, {Label: "gpu"}},
	}
	want.Meta.Origin = "acme"

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("MapInto() mismatch (-want +got):\n%s", diff)
	}

	viaModel, err := MapModelInto[productDTO](Bind(spec), src)
	require.NoError(t, err)
	assert.Equal(t, got, viaModel)
}

func TestMapInto_NoCoercion(t *testing.T) {
	t.Parallel()

	_, err := MapInto[productDTO](New(), map[string]any{"id": "not-a-number"}, rule.Spec{
		{Name: "productId", Rule: rule.Ref("id")},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode mapped record")
}

func TestLogger_ReportsCoercion(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	spec := rule.Spec{
		{Name: "items", Rule: rule.Array(rule.Spec{})},
		{Name: "skipped", Rule: nil},
	}

	_, err := MapWith(map[string]any{"items": 12}, spec, WithLogger(logger))
	require.NoError(t, err)

	logs := buf.String()
	assert.True(t, strings.Contains(logs, "non-array value"), logs)
	assert.True(t, strings.Contains(logs, "type=int"), logs)
	assert.True(t, strings.Contains(logs, "field=skipped"), logs)
}

func TestEngine_ConcurrentUse(t *testing.T) {
	t.Parallel()

	e := New(WithDeepKeySearch())
	spec := rule.Spec{{Name: "v", Rule: rule.Ref("target")}}

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			out, err := e.Map(map[string]any{"wrap": map[string]any{"target": i}}, spec)
			assert.NoError(t, err)

			v, _ := out.Get("v")
			assert.Equal(t, i, v)
		}()
	}

	wg.Wait()
	assert.Equal(t, resolve.DeepKeySearch, e.Mode())
}
