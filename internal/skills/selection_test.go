package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelection_Toggle(t *testing.T) {
	sel := NewSelection("Go")

	assert.False(t, sel.Toggle("Go"))
	assert.False(t, sel.Has("Go"))
	assert.Equal(t, 0, sel.Len())

	assert.True(t, sel.Toggle("Go"))
	assert.True(t, sel.Has("Go"))
	assert.Equal(t, 1, sel.Len())
}

func TestSelection_KeepsInsertionOrderAcrossRemovals(t *testing.T) {
	sel := NewSelection("a", "b", "c", "d")

	sel.Remove("b")
	sel.Add("e")
	sel.Add("a") // duplicate is ignored

	assert.Equal(t, []string{"a", "c", "d", "e"}, sel.Names())

	sel.Remove("c")
	assert.Equal(t, []string{"a", "d", "e"}, sel.Names())
	assert.True(t, sel.Has("e"))
}

func TestSelection_NamesIsACopy(t *testing.T) {
	sel := NewSelection("Go")
	names := sel.Names()
	names[0] = "mutated"

	assert.Equal(t, []string{"Go"}, sel.Names())
}
