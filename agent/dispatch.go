package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bettersg/checkmate-agent/core"
	"github.com/bettersg/checkmate-agent/logging"
	"github.com/bettersg/checkmate-agent/tool"
)

// Dispatcher invokes a requested tool by name with model-supplied arguments,
// isolates failures, and normalizes results into one-or-more parts. Dispatch
// never propagates a fault: tool errors and panics are converted into
// function response parts the model can react to, so the loop's fan-in step
// never observes an exception.
type Dispatcher struct {
	registry *tool.Registry
	media    map[string]bool // tools whose success expands into result + media parts
	logger   logging.Logger
}

// NewDispatcher constructs a Dispatcher over a registry. mediaTools names the
// tools (e.g. a screenshot capture) whose successful result is a
// core.FilePartFile to be appended as a separate media part.
func NewDispatcher(registry *tool.Registry, mediaTools []string, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	media := make(map[string]bool, len(mediaTools))
	for _, name := range mediaTools {
		media[name] = true
	}
	return &Dispatcher{registry: registry, media: media, logger: logger}
}

// Dispatch executes one function call and returns its normalized result
// parts. Most tools produce a single function response part; a designated
// media-producing tool expands a successful result into an acknowledgment
// response part followed by a file part carrying the captured artifact. A
// failure from any tool, media-producing or not, collapses to a single
// function response part naming the failure.
func (d *Dispatcher) Dispatch(ctx context.Context, fc core.FunctionCall) []core.Part {
	impl, ok := d.registry.Get(fc.Name)
	if !ok {
		// Loop-issued calls are constrained to registry names, so this
		// only fires for a misbehaving model; fail closed either way.
		d.logger.Error("dispatch.unknown_tool", "tool", fc.Name)
		return errorParts(fc.Name, fmt.Sprintf("function %s is not registered", fc.Name))
	}

	args := map[string]any{}
	if fc.Arguments != "" {
		if err := json.Unmarshal([]byte(fc.Arguments), &args); err != nil {
			return errorParts(fc.Name, fmt.Sprintf("function %s received malformed arguments: %v", fc.Name, err))
		}
	}

	start := time.Now()
	result, err := d.safeCall(ctx, impl, fc.Name, args)
	d.logger.Info(
		"dispatch.executed",
		"tool", fc.Name,
		"duration_ms", time.Since(start).Milliseconds(),
		"error", err != nil,
	)

	if err != nil {
		return errorParts(fc.Name, fmt.Sprintf("function %s generated an exception: %v", fc.Name, err))
	}

	if d.media[fc.Name] {
		if file, ok := result.(core.FilePartFile); ok {
			return []core.Part{
				core.NewFunctionResponsePart(fc.Name, "Screenshot successfully taken and will be subsequently appended."),
				core.FilePart{File: file},
			}
		}
	}

	return []core.Part{core.NewFunctionResponsePart(fc.Name, result)}
}

// safeCall invokes the tool recovering any panic into an error so a
// misbehaving tool can never take down the run or its sibling dispatches.
func (d *Dispatcher) safeCall(ctx context.Context, impl tool.Tool, name string, args map[string]any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("dispatch.panic", "tool", name, "recover", fmt.Sprintf("%v", r))
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return impl.Call(ctx, args)
}

func errorParts(name, message string) []core.Part {
	return []core.Part{core.NewFunctionResponsePart(name, message)}
}
