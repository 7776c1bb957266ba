package agent

import (
	"encoding/json"

	"github.com/bettersg/checkmate-agent/core"
	"github.com/bettersg/checkmate-agent/logging"
)

// TraceEvent is one entry of the flattened, replay-friendly event log derived
// from a conversation. Media payloads are never inlined, only a placeholder
// marker.
type TraceEvent struct {
	Role     string `json:"role"`
	Name     string `json:"name,omitempty"`
	Text     string `json:"text,omitempty"`
	Response any    `json:"response,omitempty"`
}

// ProcessTrace converts the raw conversation into a flat event log for audit
// and debugging. It is pure and idempotent: processing the same conversation
// twice yields identical output. Malformed model parts are skipped with a
// logged warning rather than aborting trace production.
func ProcessTrace(conversation []core.Content, logger logging.Logger) []TraceEvent {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	events := make([]TraceEvent, 0, len(conversation))
	for _, content := range conversation {
		if content.Role == core.RoleUser {
			events = append(events, processUserContent(content)...)
		} else {
			events = append(events, processModelContent(content, logger)...)
		}
	}
	return events
}

func processUserContent(content core.Content) []TraceEvent {
	var events []TraceEvent
	for _, p := range content.Parts {
		switch v := p.(type) {
		case core.FunctionResponsePart:
			events = append(events, TraceEvent{
				Role:     core.RoleUser,
				Name:     v.FunctionResponse.Name,
				Response: v.FunctionResponse.Response,
			})
		case core.TextPart:
			events = append(events, TraceEvent{Role: core.RoleUser, Text: v.Text})
		case core.FilePart:
			marker := "<IMAGE_DATA>"
			if v.File.URI == "" {
				marker = "<INLINE_DATA>"
			}
			events = append(events, TraceEvent{Role: core.RoleUser, Text: marker})
		}
	}
	return events
}

func processModelContent(content core.Content, logger logging.Logger) []TraceEvent {
	var events []TraceEvent
	for _, p := range content.Parts {
		fc, ok := p.(core.FunctionCallPart)
		if !ok {
			if _, isText := p.(core.TextPart); !isText {
				logger.Warn("trace.model_part.skipped", "part_type", partType(p))
			}
			continue
		}
		var args map[string]any
		if fc.FunctionCall.Arguments != "" {
			if err := json.Unmarshal([]byte(fc.FunctionCall.Arguments), &args); err != nil {
				logger.Warn("trace.function_call.bad_args", "tool", fc.FunctionCall.Name, "error", err.Error())
				continue
			}
		}
		events = append(events, TraceEvent{
			Role:     core.RoleModel,
			Name:     fc.FunctionCall.Name,
			Response: args,
		})
	}
	return events
}

func partType(p core.Part) string {
	switch p.(type) {
	case core.TextPart:
		return "text"
	case core.FilePart:
		return "file"
	case core.FunctionCallPart:
		return "function_call"
	case core.FunctionResponsePart:
		return "function_response"
	default:
		return "unknown"
	}
}
