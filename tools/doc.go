// Package tools provides the fact-checking tool set registered with the
// agent: intent inference and planning gates, web search, website screenshot
// capture, and the report submission tool whose review verdict terminates a
// run. Tool names are exported so callers can wire phase gating and media
// expansion without retyping string literals.
package tools

// Tool names as declared to the model.
const (
	InferIntentToolName  = "infer_intent"
	PlanNextStepToolName = "plan_next_step"
	SearchToolName       = "search_google"
	ScreenshotToolName   = "get_website_screenshot"
	SubmitReportToolName = "submit_report_for_review"
)
