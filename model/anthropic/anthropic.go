// Package anthropic provides a model wrapper for the Anthropic Claude API.
// The allowed-function constraint is enforced by filtering the tool list to
// the allowed subset and setting tool_choice to "any". Structured JSON output
// (ResponseSchema) is approximated by an appended system instruction since
// the Messages API has no native response schema.
package anthropic

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/shared/constant"

	"github.com/bettersg/checkmate-agent/core"
	"github.com/bettersg/checkmate-agent/model"
)

// Options configures the Anthropic model adapter (temperature, model id,
// max tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Model wraps the Anthropic Messages API behind the generic model.Model interface.
type Model struct {
	client *anthropic.Client
	opts   Options
}

// NewModel creates a new Anthropic model using the official client
func NewModel(optFns ...func(o *Options)) *Model {
	opts := defaultOptions(optFns...)

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}
	client := anthropic.NewClient(clientOpts...)

	return &Model{client: &client, opts: opts}
}

// NewModelFromClient creates a new Anthropic model from an existing client
func NewModelFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Model {
	return &Model{client: client, opts: defaultOptions(optFns...)}
}

func defaultOptions(optFns ...func(o *Options)) Options {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.1,
		MaxTokens:   4096,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// Generate implements model.Model for the Anthropic Messages API.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	temperature := m.opts.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		Messages:    m.buildMessages(req.Contents),
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(temperature),
	}

	if system := m.buildSystem(req); len(system) > 0 {
		params.System = system
	}

	if defs := allowedTools(req); len(defs) > 0 {
		params.Tools = m.buildTools(defs)
		if len(req.AllowedFunctionNames) > 0 {
			params.ToolChoice = anthropic.ToolChoiceUnionParam{
				OfAny: &anthropic.ToolChoiceAnyParam{},
			}
		}
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var parts []core.Part
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			textBlock := block.AsText()
			if textBlock.Text != "" {
				parts = append(parts, core.TextPart{Text: textBlock.Text})
			}
		case "tool_use":
			toolBlock := block.AsToolUse()
			args := ""
			if toolBlock.Input != nil {
				if argsBytes, err := json.Marshal(toolBlock.Input); err == nil {
					args = string(argsBytes)
				}
			}
			parts = append(parts, core.FunctionCallPart{
				FunctionCall: core.FunctionCall{
					ID:        toolBlock.ID,
					Name:      toolBlock.Name,
					Arguments: args,
				},
			})
		}
	}

	finishReason := "stop"
	if resp.StopReason != "" {
		finishReason = string(resp.StopReason)
	}

	return &model.Response{
		Content:      core.Content{Role: core.RoleModel, Parts: parts},
		FinishReason: finishReason,
		Usage: &model.TokenUsage{
			PromptTokens:     int(resp.Usage.InputTokens),
			CompletionTokens: int(resp.Usage.OutputTokens),
			TotalTokens:      int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}, nil
}

// buildSystem assembles system blocks from the instructions plus, when a
// response schema is requested, a JSON-only directive carrying the schema.
func (m *Model) buildSystem(req model.Request) []anthropic.TextBlockParam {
	var blocks []anthropic.TextBlockParam
	if req.Instructions != "" {
		blocks = append(blocks, anthropic.TextBlockParam{Text: req.Instructions})
	}
	if req.ResponseSchema != nil {
		if raw, err := json.Marshal(req.ResponseSchema); err == nil {
			blocks = append(blocks, anthropic.TextBlockParam{
				Text: "Respond only with a JSON object matching this schema:\n" + string(raw),
			})
		}
	}
	return blocks
}

// buildMessages converts normalized contents to Anthropic message format.
func (m *Model) buildMessages(contents []core.Content) []anthropic.MessageParam {
	var messages []anthropic.MessageParam

	// Index tool responses by originating call ID so they can be attached
	// as tool_result blocks right after the corresponding tool_use.
	toolResponses := make(map[string]string)
	for _, c := range contents {
		for _, fr := range c.GetFunctionResponses() {
			if fr.ID == "" {
				continue
			}
			toolResponses[fr.ID] = responseText(fr.Response)
		}
	}

	for _, c := range contents {
		switch c.Role {
		case core.RoleModel:
			content := m.buildAssistantContent(c.Parts)
			if len(content) > 0 {
				messages = append(messages, anthropic.NewAssistantMessage(content...))
			}
			messages = appendToolResults(messages, c, toolResponses)
		default:
			content := m.buildUserContent(c.Parts)
			if len(content) > 0 {
				messages = append(messages, anthropic.NewUserMessage(content...))
			}
		}
	}

	return messages
}

// appendToolResults emits a user message of tool_result blocks for every tool
// call of the preceding assistant turn that has a recorded response.
func appendToolResults(
	messages []anthropic.MessageParam,
	c core.Content,
	toolResponses map[string]string,
) []anthropic.MessageParam {
	var blocks []anthropic.ContentBlockParamUnion
	for _, fc := range c.GetFunctionCalls() {
		if fc.ID == "" {
			continue
		}
		if resp, ok := toolResponses[fc.ID]; ok {
			blocks = append(blocks, anthropic.NewToolResultBlock(fc.ID, resp, false))
			delete(toolResponses, fc.ID)
		}
	}
	if len(blocks) > 0 {
		messages = append(messages, anthropic.NewUserMessage(blocks...))
	}
	return messages
}

// buildUserContent builds content blocks for user messages.
func (m *Model) buildUserContent(parts []core.Part) []anthropic.ContentBlockParamUnion {
	var content []anthropic.ContentBlockParamUnion
	for _, p := range parts {
		switch v := p.(type) {
		case core.TextPart:
			if v.Text != "" {
				content = append(content, anthropic.NewTextBlock(v.Text))
			}
		case core.FilePart:
			// Media travels as a reference; bytes are never inlined.
			content = append(content, anthropic.NewTextBlock("[media: "+v.File.URI+"]"))
		case core.FunctionResponsePart:
			if v.FunctionResponse.ID == "" {
				content = append(content, anthropic.NewTextBlock(
					fmt.Sprintf("%s returned: %s", v.FunctionResponse.Name, responseText(v.FunctionResponse.Response)),
				))
			}
		}
	}
	return content
}

// buildAssistantContent builds content blocks for assistant messages.
func (m *Model) buildAssistantContent(parts []core.Part) []anthropic.ContentBlockParamUnion {
	var content []anthropic.ContentBlockParamUnion
	for _, p := range parts {
		switch part := p.(type) {
		case core.TextPart:
			if part.Text != "" {
				content = append(content, anthropic.NewTextBlock(part.Text))
			}
		case core.FunctionCallPart:
			var input interface{}
			if part.FunctionCall.Arguments != "" {
				if err := json.Unmarshal([]byte(part.FunctionCall.Arguments), &input); err != nil {
					input = part.FunctionCall.Arguments // fallback to string
				}
			}
			content = append(content, anthropic.NewToolUseBlock(
				part.FunctionCall.ID,
				input,
				part.FunctionCall.Name,
			))
		}
	}
	return content
}

// buildTools converts normalized tool definitions to Anthropic tool format.
func (m *Model) buildTools(tools []model.ToolDefinition) []anthropic.ToolUnionParam {
	anthropicTools := make([]anthropic.ToolUnionParam, len(tools))

	for i, tool := range tools {
		inputSchema := anthropic.ToolInputSchemaParam{
			Type: constant.Object("object"),
		}
		if tool.Parameters != nil {
			if properties, exists := tool.Parameters["properties"]; exists {
				inputSchema.Properties = properties
			}
			switch required := tool.Parameters["required"].(type) {
			case []string:
				inputSchema.Required = required
			case []interface{}:
				for _, r := range required {
					if s, ok := r.(string); ok {
						inputSchema.Required = append(inputSchema.Required, s)
					}
				}
			}
		}

		anthropicTools[i] = anthropic.ToolUnionParamOfTool(inputSchema, tool.Name)
	}

	return anthropicTools
}

// allowedTools filters the tool catalogue to the allowed subset.
func allowedTools(req model.Request) []model.ToolDefinition {
	if len(req.AllowedFunctionNames) == 0 {
		return req.Tools
	}
	allowed := make(map[string]bool, len(req.AllowedFunctionNames))
	for _, name := range req.AllowedFunctionNames {
		allowed[name] = true
	}
	defs := make([]model.ToolDefinition, 0, len(req.Tools))
	for _, t := range req.Tools {
		if allowed[t.Name] {
			defs = append(defs, t)
		}
	}
	return defs
}

func responseText(resp any) string {
	if s, ok := resp.(string); ok {
		return s
	}
	if raw, err := json.Marshal(resp); err == nil {
		return string(raw)
	}
	return fmt.Sprintf("%v", resp)
}

// Info returns metadata describing this Anthropic model implementation.
func (m *Model) Info() model.Info {
	return model.Info{
		Name:          string(m.opts.Model),
		Provider:      "anthropic",
		SupportsTools: true,
	}
}
