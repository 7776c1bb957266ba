package tool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func namedTool(name string) *FunctionTool {
	return NewFunctionTool(name, "desc "+name, map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}, func(_ context.Context, _ map[string]any) (any, error) {
		return name, nil
	})
}

func TestRegistry_LookupAndNames(t *testing.T) {
	r, err := NewRegistry(namedTool("search"), namedTool("capture"), namedTool("submit"))
	assert.NoError(t, err)

	got, ok := r.Get("capture")
	assert.True(t, ok)
	assert.Equal(t, "capture", got.Name())

	_, ok = r.Get("missing")
	assert.False(t, ok)

	// Names are sorted for deterministic catalogues
	assert.Equal(t, []string{"capture", "search", "submit"}, r.Names())
}

func TestRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry(namedTool("search"), namedTool("search"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate tool name")
}

func TestRegistry_EmptyName(t *testing.T) {
	_, err := NewRegistry(namedTool(""))
	assert.Error(t, err)
}

func TestRegistry_Definitions(t *testing.T) {
	r := MustNewRegistry(namedTool("b_tool"), namedTool("a_tool"))
	defs := r.Definitions()
	assert.Len(t, defs, 2)
	assert.Equal(t, "a_tool", defs[0].Name)
	assert.Equal(t, "b_tool", defs[1].Name)
	assert.Equal(t, "desc a_tool", defs[0].Description)
	assert.NotNil(t, defs[0].Parameters)
}
