package agent

import (
	"testing"

	"github.com/bettersg/checkmate-agent/core"
	"github.com/bettersg/checkmate-agent/logging"
	"github.com/stretchr/testify/assert"
)

func sampleConversation() []core.Content {
	return []core.Content{
		{
			Role: core.RoleUser,
			Parts: []core.Part{
				core.TextPart{Text: "User sent in: check this"},
				core.FilePart{File: core.FilePartFile{URI: "https://example.com/img.jpg", MimeType: "image/jpeg"}},
			},
		},
		{
			Role: core.RoleModel,
			Parts: []core.Part{
				core.FunctionCallPart{FunctionCall: core.FunctionCall{
					Name:      "search_google",
					Arguments: `{"q":"check this"}`,
				}},
			},
		},
		{
			Role: core.RoleUser,
			Parts: []core.Part{
				core.NewFunctionResponsePart("search_google", "no results"),
				core.FilePart{File: core.FilePartFile{Bytes: "aGVsbG8=", MimeType: "image/png"}},
			},
		},
	}
}

func TestProcessTrace(t *testing.T) {
	events := ProcessTrace(sampleConversation(), logging.NoOpLogger{})
	assert.Len(t, events, 5)

	assert.Equal(t, TraceEvent{Role: "user", Text: "User sent in: check this"}, events[0])
	assert.Equal(t, TraceEvent{Role: "user", Text: "<IMAGE_DATA>"}, events[1])

	assert.Equal(t, "model", events[2].Role)
	assert.Equal(t, "search_google", events[2].Name)
	assert.Equal(t, map[string]any{"q": "check this"}, events[2].Response)

	assert.Equal(t, "user", events[3].Role)
	assert.Equal(t, "search_google", events[3].Name)
	assert.Equal(t, map[string]any{"result": "no results"}, events[3].Response)

	// Inline media never reaches the trace, only a marker
	assert.Equal(t, TraceEvent{Role: "user", Text: "<INLINE_DATA>"}, events[4])
}

func TestProcessTrace_Idempotent(t *testing.T) {
	conversation := sampleConversation()
	first := ProcessTrace(conversation, nil)
	second := ProcessTrace(conversation, nil)
	assert.Equal(t, first, second)
}

func TestProcessTrace_SkipsMalformedModelParts(t *testing.T) {
	conversation := []core.Content{
		{
			Role: core.RoleModel,
			Parts: []core.Part{
				core.TextPart{Text: "stray text"},
				core.FunctionCallPart{FunctionCall: core.FunctionCall{Name: "broken", Arguments: "{not json"}},
				core.FunctionCallPart{FunctionCall: core.FunctionCall{Name: "ok", Arguments: `{"a":1}`}},
			},
		},
	}

	events := ProcessTrace(conversation, logging.NoOpLogger{})
	assert.Len(t, events, 1)
	assert.Equal(t, "ok", events[0].Name)
}

func TestProcessTrace_EmptyConversation(t *testing.T) {
	assert.Empty(t, ProcessTrace(nil, nil))
}
