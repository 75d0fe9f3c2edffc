package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestOf_KeepsInsertionOrder(t *testing.T) {
	r := Of("zeta", 1, "alpha", 2, "mid", nil)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, Keys(r))
	assert.True(t, Has(r, "mid"))
	assert.False(t, Has(r, "missing"))

	v, ok := r.Get("mid")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestOf_Panics(t *testing.T) {
	assert.Panics(t, func() { Of("a") })
	assert.Panics(t, func() { Of(1, 2) })
}

func TestSet_OverwriteKeepsPosition(t *testing.T) {
	r := New()
	r.Set("a", 1)
	r.Set("b", 2)
	r.Set("a", 3)

	assert.Equal(t, []string{"a", "b"}, Keys(r))

	v, _ := r.Get("a")
	assert.Equal(t, 3, v)
}

func TestMarshalJSON_Order(t *testing.T) {
	r := Of("b", 1, "a", Of("y", true, "x", nil), "c", []any{Of("k", "v")})

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":1,"a":{"y":true,"x":null},"c":[{"k":"v"}]}`, string(data))
	assert.Equal(t, `{"b":1,"a":{"y":true,"x":null},"c":[{"k":"v"}]}`, string(data))
}

func TestMarshalYAML_Order(t *testing.T) {
	r := Of("second", 2, "first", 1)

	data, err := yaml.Marshal(r)
	require.NoError(t, err)
	assert.Equal(t, "second: 2\nfirst: 1\n", string(data))
}

func TestToMap(t *testing.T) {
	r := Of(
		"name", "laptop",
		"nested", Of("inner", 1),
		"list", []any{Of("v", 1), "plain"},
		"raw", map[string]any{"deep": Of("x", 2)},
	)

	got := ToMap(r)

	assert.Equal(t, map[string]any{
		"name":   "laptop",
		"nested": map[string]any{"inner": 1},
		"list":   []any{map[string]any{"v": 1}, "plain"},
		"raw":    map[string]any{"deep": map[string]any{"x": 2}},
	}, got)
	assert.Nil(t, ToMap(nil))
	assert.Nil(t, Keys(nil))
}
