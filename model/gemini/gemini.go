// Package gemini provides an implementation of model.Model using the Google
// Gemini API. It adapts the normalized Request/Response structures into the
// genai SDK's content format and back, and uses the native function-calling
// config to constrain the model to an allowed subset of tools.
package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/bettersg/checkmate-agent/core"
	"github.com/bettersg/checkmate-agent/model"
)

// Options configure the Gemini model adapter.
type Options struct {
	Model       string
	Temperature float64
	APIKey      string
}

// Model wraps the Gemini API behind the generic model.Model interface.
type Model struct {
	client *genai.Client
	opts   Options
}

// NewModel creates a new Gemini model using the official client. The API key
// falls back to the GOOGLE_API_KEY / GEMINI_API_KEY environment variables
// when not set explicitly.
func NewModel(ctx context.Context, optFns ...func(o *Options)) (*Model, error) {
	opts := defaultOptions(optFns...)

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	return &Model{client: client, opts: opts}, nil
}

// NewModelFromClient creates a new Gemini model from an existing client.
func NewModelFromClient(client *genai.Client, optFns ...func(o *Options)) *Model {
	return &Model{client: client, opts: defaultOptions(optFns...)}
}

func defaultOptions(optFns ...func(o *Options)) Options {
	opts := Options{
		Model:       "gemini-2.0-flash",
		Temperature: 0.1,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// Generate implements model.Model for the Gemini API.
func (m *Model) Generate(ctx context.Context, req model.Request) (*model.Response, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(m.opts.Temperature)),
	}
	if req.Temperature != nil {
		config.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.Instructions != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.Instructions}},
		}
	}
	if len(req.Tools) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: buildDeclarations(req.Tools)}}
	}
	if len(req.AllowedFunctionNames) > 0 {
		config.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode:                 genai.FunctionCallingConfigModeAny,
				AllowedFunctionNames: req.AllowedFunctionNames,
			},
		}
	}
	if req.ResponseSchema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = toSchema(req.ResponseSchema)
	}

	contents, err := buildContents(req.Contents)
	if err != nil {
		return nil, err
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.opts.Model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("gemini api error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini api: no candidates returned")
	}

	candidate := resp.Candidates[0]
	parts := make([]core.Part, 0, len(candidate.Content.Parts))
	for _, p := range candidate.Content.Parts {
		switch {
		case p.FunctionCall != nil:
			args := ""
			if p.FunctionCall.Args != nil {
				if raw, err := json.Marshal(p.FunctionCall.Args); err == nil {
					args = string(raw)
				}
			}
			parts = append(parts, core.FunctionCallPart{FunctionCall: core.FunctionCall{
				Name:      p.FunctionCall.Name,
				Arguments: args,
			}})
		case p.Text != "":
			parts = append(parts, core.TextPart{Text: p.Text})
		}
	}

	out := &model.Response{
		Content:      core.Content{Role: core.RoleModel, Parts: parts},
		FinishReason: string(candidate.FinishReason),
	}
	if resp.UsageMetadata != nil {
		out.Usage = &model.TokenUsage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}
	return out, nil
}

// Info returns metadata describing this Gemini model implementation.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.opts.Model, Provider: "gemini", SupportsTools: true}
}

// buildDeclarations converts normalized tool definitions into genai function declarations.
func buildDeclarations(tools []model.ToolDefinition) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  toSchema(t.Parameters),
		})
	}
	return decls
}

// buildContents converts normalized contents into genai contents. The user /
// model role vocabulary matches Gemini's natively.
func buildContents(contents []core.Content) ([]*genai.Content, error) {
	out := make([]*genai.Content, 0, len(contents))
	for _, c := range contents {
		parts := make([]*genai.Part, 0, len(c.Parts))
		for _, p := range c.Parts {
			gp, err := buildPart(p)
			if err != nil {
				return nil, err
			}
			parts = append(parts, gp)
		}
		out = append(out, &genai.Content{Role: c.Role, Parts: parts})
	}
	return out, nil
}

func buildPart(p core.Part) (*genai.Part, error) {
	switch v := p.(type) {
	case core.TextPart:
		return &genai.Part{Text: v.Text}, nil
	case core.FilePart:
		if v.File.URI != "" {
			return &genai.Part{FileData: &genai.FileData{
				FileURI:  v.File.URI,
				MIMEType: v.File.MimeType,
			}}, nil
		}
		data, err := base64.StdEncoding.DecodeString(v.File.Bytes)
		if err != nil {
			return nil, fmt.Errorf("decode inline media: %w", err)
		}
		return &genai.Part{InlineData: &genai.Blob{
			Data:     data,
			MIMEType: v.File.MimeType,
		}}, nil
	case core.FunctionCallPart:
		args := map[string]any{}
		if v.FunctionCall.Arguments != "" {
			if err := json.Unmarshal([]byte(v.FunctionCall.Arguments), &args); err != nil {
				return nil, fmt.Errorf("decode function call args: %w", err)
			}
		}
		return &genai.Part{FunctionCall: &genai.FunctionCall{
			Name: v.FunctionCall.Name,
			Args: args,
		}}, nil
	case core.FunctionResponsePart:
		resp, ok := v.FunctionResponse.Response.(map[string]any)
		if !ok {
			resp = map[string]any{"result": v.FunctionResponse.Response}
		}
		return &genai.Part{FunctionResponse: &genai.FunctionResponse{
			Name:     v.FunctionResponse.Name,
			Response: resp,
		}}, nil
	default:
		return nil, fmt.Errorf("unsupported part type %T", p)
	}
}

// toSchema converts the minimal map-based JSON schema used by the tool layer
// into the genai Schema representation. Unknown keys are ignored.
func toSchema(s map[string]any) *genai.Schema {
	if s == nil {
		return nil
	}

	schema := &genai.Schema{Type: toSchemaType(s["type"])}
	if desc, ok := s["description"].(string); ok {
		schema.Description = desc
	}
	if props, ok := s["properties"].(map[string]any); ok {
		schema.Properties = make(map[string]*genai.Schema, len(props))
		for name, prop := range props {
			if pm, ok := prop.(map[string]any); ok {
				schema.Properties[name] = toSchema(pm)
			}
		}
	}
	if items, ok := s["items"].(map[string]any); ok {
		schema.Items = toSchema(items)
	}
	switch req := s["required"].(type) {
	case []string:
		schema.Required = req
	case []any:
		for _, v := range req {
			if name, ok := v.(string); ok {
				schema.Required = append(schema.Required, name)
			}
		}
	}
	return schema
}

func toSchemaType(v any) genai.Type {
	t, _ := v.(string)
	switch t {
	case "string":
		return genai.TypeString
	case "integer":
		return genai.TypeInteger
	case "number":
		return genai.TypeNumber
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeObject
	}
}
