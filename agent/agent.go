package agent

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/bettersg/checkmate-agent/core"
	"github.com/bettersg/checkmate-agent/logging"
	"github.com/bettersg/checkmate-agent/model"
	"github.com/bettersg/checkmate-agent/tool"
)

// Default tool names for the phase gates and the terminal condition. They can
// be overridden per agent, so the loop itself stays free of domain coupling.
const (
	defaultIntentTool     = "infer_intent"
	defaultPlanTool       = "plan_next_step"
	defaultTerminalTool   = "submit_report_for_review"
	defaultScreenshotTool = "get_website_screenshot"
)

// correctiveText is injected as a user turn when the model responds with
// anything other than tool calls.
const correctiveText = "Error, not calling tools properly"

// phase restricts which tools the model may call on a given turn.
type phase int

const (
	phaseIntent phase = iota
	phasePlan
	phaseAct
)

// Options configures an Agent.
type Options struct {
	// SystemPrompt is the instruction text sent on every model turn.
	SystemPrompt string
	// IncludePlanningStep interleaves a side-effect-free planning turn
	// between acting turns when true.
	IncludePlanningStep bool
	// MaxMessages caps the accumulated conversation length (default 50).
	MaxMessages int
	// MaxProtocolViolations caps consecutive zero-tool-call turns before
	// the run is abandoned (default 5).
	MaxProtocolViolations int
	// Tool-name wiring; defaults cover the standard fact-check tool set.
	IntentToolName   string
	PlanToolName     string
	TerminalToolName string
	MediaToolNames   []string

	Logger logging.Logger
}

// Agent drives one fact-check conversation per Run invocation. The model
// handle and registry are read-only and shared; each Run owns its
// conversation exclusively, so a single Agent is safe for concurrent runs.
type Agent struct {
	llm        model.Model
	registry   *tool.Registry
	dispatcher *Dispatcher
	defs       []model.ToolDefinition
	actNames   []string
	opts       Options
}

// New constructs an Agent over a model and a tool registry.
func New(llm model.Model, registry *tool.Registry, optFns ...func(o *Options)) *Agent {
	opts := Options{
		IncludePlanningStep:   true,
		MaxMessages:           50,
		MaxProtocolViolations: 5,
		IntentToolName:        defaultIntentTool,
		PlanToolName:          defaultPlanTool,
		TerminalToolName:      defaultTerminalTool,
		MediaToolNames:        []string{defaultScreenshotTool},
		Logger:                logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	a := &Agent{
		llm:        llm,
		registry:   registry,
		dispatcher: NewDispatcher(registry, opts.MediaToolNames, opts.Logger),
		defs:       registry.Definitions(),
		opts:       opts,
	}
	for _, name := range registry.Names() {
		if name != opts.IntentToolName && name != opts.PlanToolName {
			a.actNames = append(a.actNames, name)
		}
	}
	return a
}

// Run drives the loop from the initial user parts to a terminal Result. It
// never returns an error: model transport failures, budget exhaustion and
// protocol breakdowns all land in the Result together with the trace
// accumulated so far.
func (a *Agent) Run(ctx context.Context, initialParts []core.Part) Result {
	messages := []core.Content{{Role: core.RoleUser, Parts: initialParts}}

	var payload map[string]any
	current := phaseIntent
	violations := 0

	for len(messages) < a.opts.MaxMessages {
		resp, err := a.llm.Generate(ctx, model.Request{
			Instructions:         a.opts.SystemPrompt,
			Contents:             messages,
			Tools:                a.defs,
			AllowedFunctionNames: a.allowedTools(current),
		})
		if err != nil {
			a.opts.Logger.Error("agent.model.error", "error", err.Error())
			return failure(err.Error(), ProcessTrace(messages, a.opts.Logger))
		}

		messages = append(messages, core.Content{Role: core.RoleModel, Parts: resp.Content.Parts})

		calls := resp.Content.GetFunctionCalls()
		for _, p := range resp.Content.Parts {
			if _, ok := p.(core.FunctionCallPart); !ok {
				messages = append(messages, core.Content{
					Role:  core.RoleUser,
					Parts: []core.Part{core.TextPart{Text: correctiveText}},
				})
			}
		}

		// A turn without any tool call is a protocol violation: the
		// corrective message above stands in for tool results and the
		// phase repeats rather than advancing. Bounded so a stuck model
		// fails fast instead of burning the whole message budget.
		if len(calls) == 0 {
			violations++
			a.opts.Logger.Warn("agent.protocol_violation", "consecutive", violations)
			if violations >= a.opts.MaxProtocolViolations {
				return failure(
					"model failed to call tools after repeated corrections",
					ProcessTrace(messages, a.opts.Logger),
				)
			}
			continue
		}
		violations = 0

		// Capture the submission's arguments at request time; they become
		// the payload only if the review verdict passes below.
		for _, fc := range calls {
			if fc.Name == a.opts.TerminalToolName {
				payload = parseArguments(fc.Arguments)
			}
		}

		// Fan out all dispatches concurrently; the turn advances only
		// once every sibling completes. A failing dispatch never cancels
		// the others, it just contributes an error response part.
		results := make([][]core.Part, len(calls))
		var wg sync.WaitGroup
		for i, fc := range calls {
			wg.Add(1)
			go func(idx int, fc core.FunctionCall) {
				defer wg.Done()
				results[idx] = a.dispatcher.Dispatch(ctx, fc)
			}(i, fc)
		}
		wg.Wait()

		merged := flattenAndOrganise(results)

		for _, p := range merged {
			fr, ok := p.(core.FunctionResponsePart)
			if !ok || fr.FunctionResponse.Name != a.opts.TerminalToolName {
				continue
			}
			if passedReview(fr.FunctionResponse.Response) {
				return Result{
					Success: true,
					Payload: payload,
					Trace:   ProcessTrace(messages, a.opts.Logger),
				}
			}
			// Review not passed: the feedback folds back into the
			// conversation as an ordinary tool result below and the
			// model is expected to resubmit.
			a.opts.Logger.Info("agent.review.not_passed")
		}

		messages = append(messages, core.Content{Role: core.RoleUser, Parts: merged})
		current = a.nextPhase(current)
	}

	return failure("turn budget exceeded", ProcessTrace(messages, a.opts.Logger))
}

// allowedTools computes the callable tool-name set for a phase.
func (a *Agent) allowedTools(p phase) []string {
	switch p {
	case phaseIntent:
		return []string{a.opts.IntentToolName}
	case phasePlan:
		return []string{a.opts.PlanToolName}
	default:
		return a.actNames
	}
}

// nextPhase advances the turn-phase state machine after a turn that actually
// dispatched tool calls. Planning alternates with acting only when enabled.
func (a *Agent) nextPhase(p phase) phase {
	if !a.opts.IncludePlanningStep || p == phasePlan {
		return phaseAct
	}
	return phasePlan
}

// passedReview inspects a submission tool response for a passing verdict.
// The reviewer's result travels as {"result": {"passedReview": bool, ...}}.
func passedReview(resp any) bool {
	m, ok := resp.(map[string]any)
	if !ok {
		return false
	}
	result, ok := m["result"].(map[string]any)
	if !ok {
		return false
	}
	passed, _ := result["passedReview"].(bool)
	return passed
}

func parseArguments(raw string) map[string]any {
	args := map[string]any{}
	if raw != "" {
		_ = json.Unmarshal([]byte(raw), &args)
	}
	return args
}
