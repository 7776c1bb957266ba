package tools

import (
	"context"

	"github.com/bettersg/checkmate-agent/tool"
)

// NewPlanNextStepTool returns the planning gate. Like intent inference it has
// no side effects; the value is in making the model articulate its next
// action before it is allowed to act.
func NewPlanNextStepTool() *tool.FunctionTool {
	return tool.NewFunctionTool(
		PlanNextStepToolName,
		"Plans the next step of the fact-checking process, given what has been learnt so far.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"reasoning": map[string]any{
					"type":        "string",
					"description": "Your reasoning on what has been established so far and what remains unclear.",
				},
				"next_step": map[string]any{
					"type":        "string",
					"description": "The single next action you intend to take, e.g. search for a claim, screenshot a link, or submit the report.",
				},
			},
			"required": []string{"reasoning", "next_step"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			return "Plan noted. Proceed.", nil
		},
	)
}
