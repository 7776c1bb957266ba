package agent

// Result is the terminal outcome of one agent run. It is constructed exactly
// once, at loop exit, from either a passing terminal tool call, an
// unrecovered failure, or budget exhaustion. Run never raises to its caller;
// every failure path lands here together with the trace accumulated so far.
type Result struct {
	Success bool           `json:"success"`
	Payload map[string]any `json:"payload,omitempty"` // Terminal tool call arguments
	Trace   []TraceEvent   `json:"agent_trace"`
	Err     string         `json:"error,omitempty"`
}

// Report extracts the report text from a successful payload, empty otherwise.
func (r Result) Report() string {
	report, _ := r.Payload["report"].(string)
	return report
}

// StringSlice extracts a list-of-strings payload field (e.g. "sources").
// Model-supplied JSON decodes lists as []any; both shapes are handled.
func (r Result) StringSlice(key string) []string {
	switch v := r.Payload[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Bool extracts a boolean payload field (e.g. "isControversial").
func (r Result) Bool(key string) bool {
	b, _ := r.Payload[key].(bool)
	return b
}

func failure(errText string, trace []TraceEvent) Result {
	return Result{Success: false, Err: errText, Trace: trace}
}
