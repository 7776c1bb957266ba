package core

// Conversation roles. The loop only ever produces these two; adapters map
// them onto whatever role vocabulary their provider expects.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Part represents a polymorphic segment of role-based content. Concrete part
// types implement the unexported isPart marker enabling a closed set.
type Part interface{ isPart() }

// TextPart is a plain text content segment.
type TextPart struct {
	Text string // Plain UTF-8 text
}

// isPart implements the Part interface for TextPart.
func (TextPart) isPart() {}

// FilePart is a media attachment segment (e.g. a captured screenshot or a
// submitted image). The payload lives in File; media bytes are never inlined
// into traces, only a placeholder marker.
type FilePart struct {
	File FilePartFile
}

// isPart implements the Part interface for FilePart.
func (FilePart) isPart() {}

// FilePartFile references media either by external URI or by inlined
// base64-encoded bytes. Exactly one of URI / Bytes should be set.
type FilePartFile struct {
	URI      string // External retrieval URI (if not inlined)
	Bytes    string // Base64 encoded contents (if inlined)
	MimeType string // MIME type of the referenced media
}

// FunctionCall describes a tool/function invocation request issued by the
// model. Arguments carry the serialized JSON argument payload.
type FunctionCall struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Arguments string `json:"arguments,omitempty"`
}

// FunctionCallPart wraps a FunctionCall as a content part.
type FunctionCallPart struct {
	FunctionCall FunctionCall
}

// isPart implements the Part interface for FunctionCallPart.
func (FunctionCallPart) isPart() {}

// FunctionResponse describes the outcome of a function call. Response holds
// the payload on success or a descriptive failure payload; the dispatcher
// never surfaces raw errors past this type.
type FunctionResponse struct {
	ID       string      `json:"id,omitempty"`
	Name     string      `json:"name"`
	Response interface{} `json:"response,omitempty"`
}

// FunctionResponsePart wraps a FunctionResponse as a content part.
type FunctionResponsePart struct {
	FunctionResponse FunctionResponse
}

// isPart implements the Part interface for FunctionResponsePart.
func (FunctionResponsePart) isPart() {}

// Content holds role + ordered parts.
type Content struct {
	Role  string `json:"role,omitempty"` // RoleUser or RoleModel
	Parts []Part `json:"parts"`          // Ordered heterogeneous parts
}

// GetFunctionCalls returns any FunctionCall parts contained within the
// content preserving their original order.
func (c Content) GetFunctionCalls() []FunctionCall {
	var calls []FunctionCall
	for _, p := range c.Parts {
		if fc, ok := p.(FunctionCallPart); ok {
			calls = append(calls, fc.FunctionCall)
		}
	}
	return calls
}

// GetFunctionResponses returns any FunctionResponse parts contained within
// the content preserving their original order.
func (c Content) GetFunctionResponses() []FunctionResponse {
	var responses []FunctionResponse
	for _, p := range c.Parts {
		if fr, ok := p.(FunctionResponsePart); ok {
			responses = append(responses, fr.FunctionResponse)
		}
	}
	return responses
}
