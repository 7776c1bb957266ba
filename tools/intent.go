package tools

import (
	"context"

	"github.com/bettersg/checkmate-agent/tool"
)

// NewInferIntentTool returns the tool the model must call on its first turn.
// It has no side effects; forcing the call makes the model commit to a
// classification of the submission before doing anything else.
func NewInferIntentTool() *tool.FunctionTool {
	return tool.NewFunctionTool(
		InferIntentToolName,
		"Infers the intent behind the message sent in, i.e. what the sender is trying to find out or achieve.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"reasoning": map[string]any{
					"type":        "string",
					"description": "Your reasoning on what the sender's intent is, based on the content of the message.",
				},
				"intent": map[string]any{
					"type":        "string",
					"description": "A concise statement of the sender's probable intent, e.g. to check whether the message is a scam, or to verify a claim.",
				},
			},
			"required": []string{"reasoning", "intent"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			return "Intent noted. Proceed with the check.", nil
		},
	)
}
