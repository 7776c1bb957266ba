package core

// TextParts builds the initial user parts for a text submission.
func TextParts(text string) []Part {
	return []Part{
		TextPart{Text: "User sent in: " + text},
	}
}

// ImageParts builds the initial user parts for an image submission. The
// image is referenced by URL; an optional caption follows as text.
func ImageParts(imageURL, caption string) []Part {
	parts := []Part{
		TextPart{Text: "User sent in the following image:"},
		FilePart{File: FilePartFile{URI: imageURL, MimeType: "image/jpeg"}},
	}
	if caption != "" {
		parts = append(parts, TextPart{Text: "User's caption: " + caption})
	}
	return parts
}

// NewFunctionResponsePart wraps a tool result payload the way tool results
// travel through the conversation, namely under a "result" key.
func NewFunctionResponsePart(name string, result interface{}) FunctionResponsePart {
	return FunctionResponsePart{
		FunctionResponse: FunctionResponse{
			Name:     name,
			Response: map[string]interface{}{"result": result},
		},
	}
}
