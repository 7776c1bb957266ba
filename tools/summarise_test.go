package tools

import (
	"context"
	"testing"

	"github.com/bettersg/checkmate-agent/core"
	"github.com/bettersg/checkmate-agent/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummariser_Text(t *testing.T) {
	llm := model.NewMockModel("summariser")
	llm.EnqueueText(`{"community_note":"🚨 This is a scam. Do not click the link."}`)

	note, err := NewSummariser(llm).Summarise(context.Background(), Submission{Text: "Win a free iPhone!"}, "long form report")
	require.NoError(t, err)
	assert.Equal(t, "🚨 This is a scam. Do not click the link.", note)

	reqs := llm.Requests()
	require.Len(t, reqs, 1)
	assert.NotNil(t, reqs[0].ResponseSchema)

	parts := reqs[0].Contents[0].Parts
	require.Len(t, parts, 2)
	assert.Contains(t, parts[0].(core.TextPart).Text, "Win a free iPhone!")
	assert.Contains(t, parts[1].(core.TextPart).Text, "***Report***: long form report")
}

func TestSummariser_Image(t *testing.T) {
	llm := model.NewMockModel("summariser")
	llm.EnqueueText(`{"community_note":"✅ This is largely true."}`)

	note, err := NewSummariser(llm).Summarise(context.Background(), Submission{
		ImageURL: "https://example.com/img.jpg",
		Caption:  "is this real",
	}, "report")
	require.NoError(t, err)
	assert.NotEmpty(t, note)

	parts := llm.Requests()[0].Contents[0].Parts
	var sawImage bool
	for _, p := range parts {
		if fp, ok := p.(core.FilePart); ok {
			sawImage = true
			assert.Equal(t, "https://example.com/img.jpg", fp.File.URI)
		}
	}
	assert.True(t, sawImage)
}

func TestSummariser_InvalidSubmissions(t *testing.T) {
	llm := model.NewMockModel("summariser")
	s := NewSummariser(llm)

	_, err := s.Summarise(context.Background(), Submission{Text: "t", ImageURL: "u"}, "report")
	assert.Error(t, err)

	_, err = s.Summarise(context.Background(), Submission{}, "report")
	assert.Error(t, err)

	assert.Empty(t, llm.Requests())
}

func TestSummariser_EmptyNote(t *testing.T) {
	llm := model.NewMockModel("summariser")
	llm.EnqueueText(`{"community_note":""}`)

	_, err := NewSummariser(llm).Summarise(context.Background(), Submission{Text: "t"}, "report")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no community note generated")
}
