package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bettersg/checkmate-agent/core"
	"github.com/bettersg/checkmate-agent/model"
	"github.com/bettersg/checkmate-agent/tool"
)

const reviewSystemPrompt = `#Instructions

You are playing the role of an editor for a credibility/fact-checking service.

You will be provided with a report that is written for the public, on a piece of information that has been submitted.

Your role is to review the submission for:

- clarity
- presence of logical errors or inconsistencies
- credibility of sources used

Points to note:
- Do not nitpick, work on the assumption that the drafter is competent
- You have no ability to do your own research. Do not attempt to use your own knowledge, assume that the facts within the note are correct.`

var reviewResponseSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"feedback": map[string]any{
			"type":        "string",
			"description": "Your feedback on the report, if any",
		},
		"passedReview": map[string]any{
			"type":        "boolean",
			"description": "A boolean indicating whether the item passed the review",
		},
	},
	"required": []string{"feedback", "passedReview"},
}

// Verdict is the reviewer's structured judgment of a submitted report.
type Verdict struct {
	Feedback     string `json:"feedback"`
	PassedReview bool   `json:"passedReview"`
}

// Reviewer judges a drafted report with a second model call. A passing
// verdict is the run's terminal condition; a failing one carries feedback the
// drafting model folds back in.
type Reviewer struct {
	llm model.Model
}

// NewReviewer constructs a Reviewer over the given model.
func NewReviewer(llm model.Model) *Reviewer {
	return &Reviewer{llm: llm}
}

// Review sends the report and its sources to the editor model and parses the
// structured verdict.
func (r *Reviewer) Review(ctx context.Context, report string, sources []string) (Verdict, error) {
	formatted := "<None>"
	if len(sources) > 0 {
		formatted = "- " + strings.Join(sources, "\n- ")
	}
	userPrompt := fmt.Sprintf("Report: %s\n*****\nSources:%s", report, formatted)

	temperature := 0.5
	resp, err := r.llm.Generate(ctx, model.Request{
		Instructions: reviewSystemPrompt,
		Contents: []core.Content{{
			Role:  core.RoleUser,
			Parts: []core.Part{core.TextPart{Text: userPrompt}},
		}},
		ResponseSchema: reviewResponseSchema,
		Temperature:    &temperature,
	})
	if err != nil {
		return Verdict{}, err
	}

	var verdict Verdict
	if err := json.Unmarshal([]byte(responseText(resp)), &verdict); err != nil {
		return Verdict{}, fmt.Errorf("reviewer returned malformed verdict: %w", err)
	}
	return verdict, nil
}

// NewSubmitReportTool wraps a Reviewer as the submission tool. Calling it
// concludes the run only if the verdict passes; the agent reads the verdict
// out of this tool's response.
func NewSubmitReportTool(reviewer *Reviewer) *tool.FunctionTool {
	return tool.NewFunctionTool(
		SubmitReportToolName,
		"Submits a report, which concludes the task.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"report": map[string]any{
					"type":        "string",
					"description": "The content of the report. This should be enough context for readers to stay safe and informed. Try and be succinct.",
				},
				"sources": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":        "string",
						"description": "A link from which you sourced content for your report.",
					},
					"description": "A list of links from which your report is based. Avoid including the original link sent in for checking as that is obvious.",
				},
				"isControversial": map[string]any{
					"type":        "boolean",
					"description": "True if the content contains political or religious viewpoints likely to be divisive.",
				},
				"isVideo": map[string]any{
					"type":        "boolean",
					"description": "True if the content or URL points to a video (e.g., YouTube, TikTok, Instagram Reels, Facebook videos).",
				},
				"isAccessBlocked": map[string]any{
					"type":        "boolean",
					"description": "True if the content or URL is inaccessible/removed/blocked. An example is being led to a login page instead of post content.",
				},
			},
			"required": []string{"report", "sources", "isControversial", "isVideo", "isAccessBlocked"},
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			report, _ := args["report"].(string)
			var sources []string
			if raw, ok := args["sources"].([]any); ok {
				for _, s := range raw {
					if str, ok := s.(string); ok {
						sources = append(sources, str)
					}
				}
			}
			verdict, err := reviewer.Review(ctx, report, sources)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"feedback":     verdict.Feedback,
				"passedReview": verdict.PassedReview,
			}, nil
		},
	)
}

// responseText concatenates the text parts of a model response.
func responseText(resp *model.Response) string {
	var sb strings.Builder
	for _, p := range resp.Content.Parts {
		if tp, ok := p.(core.TextPart); ok {
			sb.WriteString(tp.Text)
		}
	}
	return sb.String()
}
