package tool

import (
	"context"
	"errors"
	"testing"

	"github.com/bettersg/checkmate-agent/internal/util"
	"github.com/stretchr/testify/assert"
)

// -------------------- Schema & Validation Tests --------------------

type sampleSchema struct {
	Query   string   `json:"query" description:"Search query"`
	Limit   *int     `json:"limit" description:"Optional result limit"`
	Sources []string `json:"sources,omitempty" description:"Optional source list"`
}

func TestCreateSchema(t *testing.T) {
	schema := util.CreateSchema(sampleSchema{})
	props, ok := schema["properties"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, props, "query")
	assert.Contains(t, props, "limit")
	assert.Contains(t, props, "sources")

	sources, _ := props["sources"].(map[string]any)
	assert.Equal(t, "array", sources["type"])
	assert.Equal(t, map[string]any{"type": "string"}, sources["items"])

	// Required only includes non-pointer, non-omitempty exported fields
	req, _ := schema["required"].([]string)
	assert.ElementsMatch(t, []string{"query"}, req)
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{"type": "string"},
		},
		// Use []any to mirror a JSON decoded schema shape
		"required": []any{"url"},
	}

	err := util.ValidateParameters(map[string]any{"url": "https://example.com"}, schema)
	assert.NoError(t, err)

	err = util.ValidateParameters(map[string]any{}, schema)
	assert.Error(t, err)
	if vErr, ok := err.(*ValidationError); ok {
		assert.Equal(t, "url", vErr.Field)
	} else {
		t.Fatalf("expected ValidationError, got %T", err)
	}

	err = util.ValidateParameters(map[string]any{"url": 42}, schema)
	assert.Error(t, err)
	if vErr, ok := err.(*ValidationError); ok {
		assert.Contains(t, vErr.Message, "expected type string")
	} else {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

// -------------------- FunctionTool Tests --------------------

func searchParams() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"q": map[string]any{"type": "string"},
		},
		"required": []string{"q"},
	}
}

func TestFunctionTool_Success(t *testing.T) {
	echo := NewFunctionTool("echo", "Echo the query", searchParams(), func(_ context.Context, args map[string]any) (any, error) {
		return "got: " + args["q"].(string), nil
	})

	result, err := echo.Call(context.Background(), map[string]any{"q": "hello"})
	assert.NoError(t, err)
	assert.Equal(t, "got: hello", result)
}

func TestFunctionTool_ValidationError(t *testing.T) {
	echo := NewFunctionTool("echo", "Echo the query", searchParams(), func(_ context.Context, args map[string]any) (any, error) {
		return args["q"], nil
	})

	_, err := echo.Call(context.Background(), map[string]any{})
	assert.Error(t, err)
	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", toolErr.Code)
	assert.Equal(t, "echo", toolErr.Tool)
}

func TestFunctionTool_ExecutionError(t *testing.T) {
	failing := NewFunctionTool("failing", "Always fails", searchParams(), func(_ context.Context, _ map[string]any) (any, error) {
		return nil, errors.New("upstream unavailable")
	})

	_, err := failing.Call(context.Background(), map[string]any{"q": "x"})
	assert.Error(t, err)
	toolErr, ok := err.(*ToolError)
	assert.True(t, ok)
	assert.Equal(t, "EXECUTION_ERROR", toolErr.Code)
	assert.Contains(t, toolErr.Message, "upstream unavailable")
}

func TestFunctionTool_PreservesToolError(t *testing.T) {
	custom := NewToolError("rated", "quota exhausted", "RATE_LIMITED")
	rated := NewFunctionTool("rated", "Rate limited", searchParams(), func(_ context.Context, _ map[string]any) (any, error) {
		return nil, custom
	})

	_, err := rated.Call(context.Background(), map[string]any{"q": "x"})
	assert.Same(t, custom, err)
}

func TestFunctionToolFromStruct(t *testing.T) {
	tl := NewFunctionToolFromStruct("typed", "Built from struct", sampleSchema{}, func(_ context.Context, args map[string]any) (any, error) {
		return args["query"], nil
	})

	assert.Equal(t, "typed", tl.Name())
	_, err := tl.Call(context.Background(), map[string]any{"query": "ok"})
	assert.NoError(t, err)

	_, err = tl.Call(context.Background(), map[string]any{})
	assert.Error(t, err)
}
