// Package checkmate generates community notes for dubious content. A user
// submission (text, or an image with optional caption) is handed to a
// tool-calling agent that researches it, drafts a report, and submits the
// report for an editorial review; once the review passes, the report is
// condensed into a short community note.
package checkmate

import (
	"context"
	"errors"
	"time"

	"github.com/bettersg/checkmate-agent/agent"
	"github.com/bettersg/checkmate-agent/core"
	"github.com/bettersg/checkmate-agent/logging"
	"github.com/bettersg/checkmate-agent/model"
	"github.com/bettersg/checkmate-agent/tool"
	"github.com/bettersg/checkmate-agent/tools"
)

const factCheckSystemPrompt = `You are a model powering CheckMate, a product that allows users based in Singapore to send in dubious content they aren't sure whether to trust, and checks such content on their behalf.

Such content is sent via WhatsApp, and can be a text message or an image message.

Your task is to fact-check or otherwise assess the credibility of the content, and produce a report for the public.

You work in steps, and at each step you call exactly one or more of the tools made available to you. Start by inferring the intent of whoever sent the message in, then work towards a report. Use the search tool to check claims against the web, and the screenshot tool when the content of a link matters. Links in messages can be central to the check, e.g. for scams and phishing.

When your report is ready, submit it for review. If the review fails, take the feedback into account and resubmit. The report should carry enough context for readers to stay safe and informed, and should be grounded in the sources you actually consulted.`

// ErrInvalidSubmission indicates the request did not carry exactly one of
// text or image url.
var ErrInvalidSubmission = errors.New("checkmate: exactly one of text or image url must be provided")

// Request is one note-generation submission.
type Request struct {
	Text        string `json:"text,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Caption     string `json:"caption,omitempty"`
	AddPlanning bool   `json:"addPlanning,omitempty"`
}

// Response is the full outcome document for one submission. On failure only
// Success, ErrorMessage, Trace and the timings are meaningful.
type Response struct {
	Success         bool               `json:"success"`
	Report          string             `json:"report,omitempty"`
	CommunityNote   string             `json:"community_note,omitempty"`
	Sources         []string           `json:"sources,omitempty"`
	IsControversial bool               `json:"isControversial"`
	IsVideo         bool               `json:"isVideo"`
	IsAccessBlocked bool               `json:"isAccessBlocked"`
	Trace           []agent.TraceEvent `json:"agent_trace"`
	ErrorMessage    string             `json:"error,omitempty"`
	AgentTimeTaken  float64            `json:"agent_time_taken"`
	TotalTimeTaken  float64            `json:"total_time_taken"`
}

// Options configures a Checker.
type Options struct {
	// SystemPrompt overrides the default fact-checking instructions.
	SystemPrompt string
	Logger       logging.Logger
}

// Checker owns the model handle, the tool registry, and the summariser, and
// runs one agent per submission. A single Checker serves concurrent requests.
type Checker struct {
	llm        model.Model
	registry   *tool.Registry
	summariser *tools.Summariser
	opts       Options
}

// NewChecker constructs a Checker.
func NewChecker(llm model.Model, registry *tool.Registry, summariser *tools.Summariser, optFns ...func(o *Options)) *Checker {
	opts := Options{
		SystemPrompt: factCheckSystemPrompt,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Checker{llm: llm, registry: registry, summariser: summariser, opts: opts}
}

// GenerateNote runs the full pipeline for one submission. A failed run is
// reported inside the Response, not as an error; the error return is reserved
// for invalid input.
func (c *Checker) GenerateNote(ctx context.Context, req Request) (*Response, error) {
	if (req.Text == "") == (req.ImageURL == "") {
		return nil, ErrInvalidSubmission
	}

	var parts []core.Part
	if req.Text != "" {
		parts = core.TextParts(req.Text)
	} else {
		parts = core.ImageParts(req.ImageURL, req.Caption)
	}

	runner := agent.New(c.llm, c.registry, func(o *agent.Options) {
		o.SystemPrompt = c.opts.SystemPrompt
		o.IncludePlanningStep = req.AddPlanning
		o.IntentToolName = tools.InferIntentToolName
		o.PlanToolName = tools.PlanNextStepToolName
		o.TerminalToolName = tools.SubmitReportToolName
		o.MediaToolNames = []string{tools.ScreenshotToolName}
		o.Logger = c.opts.Logger
	})

	start := time.Now()
	result := runner.Run(ctx, parts)
	agentDuration := time.Since(start).Seconds()

	resp := &Response{
		Success:        result.Success,
		Trace:          result.Trace,
		ErrorMessage:   result.Err,
		AgentTimeTaken: agentDuration,
	}

	if result.Success {
		resp.Report = result.Report()
		resp.Sources = result.StringSlice("sources")
		resp.IsControversial = result.Bool("isControversial")
		resp.IsVideo = result.Bool("isVideo")
		resp.IsAccessBlocked = result.Bool("isAccessBlocked")

		if resp.Report != "" && c.summariser != nil {
			note, err := c.summariser.Summarise(ctx, tools.Submission{
				Text:     req.Text,
				ImageURL: req.ImageURL,
				Caption:  req.Caption,
			}, resp.Report)
			if err != nil {
				// The long-form report still stands on its own.
				c.opts.Logger.Warn("checkmate.summary.failed", "error", err.Error())
			} else {
				resp.CommunityNote = note
			}
		}
	}

	resp.TotalTimeTaken = time.Since(start).Seconds()
	return resp, nil
}
