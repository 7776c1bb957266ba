package agent

import (
	"testing"

	"github.com/bettersg/checkmate-agent/core"
	"github.com/stretchr/testify/assert"
)

func TestFlattenAndOrganise_ResponsesFirst(t *testing.T) {
	results := [][]core.Part{
		{
			core.NewFunctionResponsePart("get_website_screenshot", "Screenshot successfully taken and will be subsequently appended."),
			core.FilePart{File: core.FilePartFile{URI: "/artifacts/abc", MimeType: "image/png"}},
		},
		{core.NewFunctionResponsePart("search_google", "results")},
	}

	merged := flattenAndOrganise(results)
	assert.Len(t, merged, 3)

	first, ok := merged[0].(core.FunctionResponsePart)
	assert.True(t, ok)
	assert.Equal(t, "get_website_screenshot", first.FunctionResponse.Name)

	second, ok := merged[1].(core.FunctionResponsePart)
	assert.True(t, ok)
	assert.Equal(t, "search_google", second.FunctionResponse.Name)

	_, ok = merged[2].(core.FilePart)
	assert.True(t, ok)
}

func TestFlattenAndOrganise_StableWithinGroups(t *testing.T) {
	results := [][]core.Part{
		{core.TextPart{Text: "a"}},
		{core.NewFunctionResponsePart("first", 1)},
		{core.TextPart{Text: "b"}},
		{core.NewFunctionResponsePart("second", 2)},
	}

	merged := flattenAndOrganise(results)
	assert.Equal(t, "first", merged[0].(core.FunctionResponsePart).FunctionResponse.Name)
	assert.Equal(t, "second", merged[1].(core.FunctionResponsePart).FunctionResponse.Name)
	assert.Equal(t, "a", merged[2].(core.TextPart).Text)
	assert.Equal(t, "b", merged[3].(core.TextPart).Text)
}

func TestFlattenAndOrganise_Empty(t *testing.T) {
	assert.Empty(t, flattenAndOrganise(nil))
	assert.Empty(t, flattenAndOrganise([][]core.Part{{}, {}}))
}
