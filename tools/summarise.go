package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bettersg/checkmate-agent/core"
	"github.com/bettersg/checkmate-agent/model"
)

const summarySystemPrompt = `You are a model powering CheckMate, a product that allows users based in Singapore to send in dubious content they aren't sure whether to trust, and checks such content on their behalf.

Such content is sent via WhatsApp, and can be a text message or an image message.

Given the following inputs:
- content submitted by the user
- long-form report generated by a fact-checking model

Your job is to summarise the report into an X-style community note of around 50-100 words. This should be clear.

The note should also be written with the assumption that users have short attention spans. Thus, it should start with a clear statement that gives the user clarity on the message. For example (but not limited to):
[For messages that are clearly scams, i.e. attempts to obtain money/personal information via deception] - 🚨 This is a scam
[For messages indicative of illegality, e.g. unlicensed moneylending, gambling] - 🚨 This is suspicious
[For messages that are clearly falsehoods] - ❌ This is largely untrue
[For messages that are otherwise harmful] - 🛑 This is likely harmful
[For messages that are from legitimate sources] - ✅ This a legitimate <something>
[For information/commentary that is broadly accurate] - ✅ This is largely true
[For information/commentary that is misleading or unbalanced] - ⚠️ Take this with a pinch of salt
[For content that otherwise warrants caution] - ⚠️ Be cautious

A good note would start with a clear statement like the above, and then justify it while summarising the key points of the report. There's no need to describe/summarise what's in the message itself.`

var summaryResponseSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"community_note": map[string]any{
			"type":        "string",
			"description": "The community note you generated, which should start with a clear statement, followed by a concise elaboration.",
		},
	},
	"required": []string{"community_note"},
}

// Submission is the original user content a report was drafted about. Exactly
// one of Text or ImageURL is set; Caption accompanies an image.
type Submission struct {
	Text     string
	ImageURL string
	Caption  string
}

// Summariser condenses a long-form report into a short community note,
// grounded in the original submission so the note addresses what the user
// actually sent in.
type Summariser struct {
	llm model.Model
}

// NewSummariser constructs a Summariser over the given model.
func NewSummariser(llm model.Model) *Summariser {
	return &Summariser{llm: llm}
}

// Summarise produces the community note for a finished report.
func (s *Summariser) Summarise(ctx context.Context, sub Submission, report string) (string, error) {
	if sub.Text != "" && sub.ImageURL != "" {
		return "", errors.New("only one of text or image url should be provided")
	}

	var parts []core.Part
	switch {
	case sub.Text != "":
		parts = core.TextParts(sub.Text)
	case sub.ImageURL != "":
		parts = core.ImageParts(sub.ImageURL, sub.Caption)
	default:
		return "", errors.New("either text or image url must be provided")
	}
	parts = append(parts, core.TextPart{Text: fmt.Sprintf("***Report***: %s\n****End Report***", report)})

	temperature := 0.1
	resp, err := s.llm.Generate(ctx, model.Request{
		Instructions: summarySystemPrompt,
		Contents: []core.Content{{
			Role:  core.RoleUser,
			Parts: parts,
		}},
		ResponseSchema: summaryResponseSchema,
		Temperature:    &temperature,
	})
	if err != nil {
		return "", err
	}

	var out struct {
		CommunityNote string `json:"community_note"`
	}
	if err := json.Unmarshal([]byte(responseText(resp)), &out); err != nil {
		return "", fmt.Errorf("summariser returned malformed response: %w", err)
	}
	if out.CommunityNote == "" {
		return "", errors.New("no community note generated")
	}
	return out.CommunityNote, nil
}
