package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirst(t *testing.T) {
	v, ok := First([]string{"a", "b"})
	assert.True(t, ok)
	assert.Equal(t, "a", v)

	_, ok = First([]int(nil))
	assert.False(t, ok)
	assert.True(t, IsEmpty([]int(nil)))
}

func TestDuplicates(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, Duplicates([]string{"a", "b", "a", "b", "a", "c"}))
	assert.Nil(t, Duplicates([]string{"x", "y"}))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SortedKeys(map[string]int{"c": 1, "a": 2, "b": 3}))
}
