package model

import (
	"context"

	"github.com/bettersg/checkmate-agent/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Request captures the normalized model input produced by the agent loop and
// the reviewer/summariser helpers.
type Request struct {
	Instructions string           `json:"instructions"` // System prompt
	Contents     []core.Content   `json:"contents"`     // Conversation so far
	Tools        []ToolDefinition `json:"tools,omitempty"`

	// AllowedFunctionNames constrains the model to call only the named
	// subset of Tools. When set the model must respond with function
	// calls (never bare text). Empty means no constraint.
	AllowedFunctionNames []string `json:"allowed_function_names,omitempty"`

	// ResponseSchema forces structured JSON output matching the schema.
	// Mutually exclusive with tool calling in practice; used by the
	// reviewer and summariser.
	ResponseSchema map[string]any `json:"response_schema,omitempty"`

	// Temperature overrides the adapter default when non-nil.
	Temperature *float64 `json:"temperature,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the single message returned by a model invocation. Content
// parts are either text or function call requests.
type Response struct {
	Content      core.Content `json:"content"`
	FinishReason string       `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "gemini", "openai", "anthropic", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the minimal interface required to drive generation. Implementations
// must be safe for concurrent use by multiple simultaneous agent runs.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}
