package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/bettersg/checkmate-agent/core"
)

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Enqueued responses are returned in order; enqueued errors simulate
// transport failures. Requests are recorded for later inspection.
type MockModel struct {
	mu    sync.Mutex
	info  Info
	steps []mockStep
	seen  []Request
}

type mockStep struct {
	resp *Response
	err  error
}

// NewMockModel constructs a MockModel with basic tool support enabled.
func NewMockModel(name string) *MockModel {
	return &MockModel{
		info: Info{Name: name, Provider: "mock", SupportsTools: true},
	}
}

// Enqueue registers the next response to return from Generate.
func (m *MockModel) Enqueue(resp Response) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, mockStep{resp: &resp})
}

// EnqueueFunctionCalls registers a model turn consisting solely of function
// call parts, one per supplied call.
func (m *MockModel) EnqueueFunctionCalls(calls ...core.FunctionCall) {
	parts := make([]core.Part, 0, len(calls))
	for _, fc := range calls {
		parts = append(parts, core.FunctionCallPart{FunctionCall: fc})
	}
	m.Enqueue(Response{
		Content:      core.Content{Role: core.RoleModel, Parts: parts},
		FinishReason: "tool_calls",
	})
}

// EnqueueText registers a model turn consisting of a single text part.
func (m *MockModel) EnqueueText(text string) {
	m.Enqueue(Response{
		Content:      core.Content{Role: core.RoleModel, Parts: []core.Part{core.TextPart{Text: text}}},
		FinishReason: "stop",
	})
}

// EnqueueError registers a transport failure to surface from Generate.
func (m *MockModel) EnqueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, mockStep{err: err})
}

// Requests returns a snapshot of every Request seen so far.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.seen))
	copy(out, m.seen)
	return out
}

// Generate implements Model returning the next scripted step.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seen = append(m.seen, req)
	if len(m.steps) == 0 {
		return nil, fmt.Errorf("mock model: no scripted response left")
	}

	step := m.steps[0]
	m.steps = m.steps[1:]
	if step.err != nil {
		return nil, step.err
	}
	return step.resp, nil
}

// Info implements Model interface.
func (m *MockModel) Info() Info { return m.info }
