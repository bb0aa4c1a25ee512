package copywriter

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const genaiProviderName = "genai"

type GenAIOptions struct {
	APIKey string
	Model  string
	// BaseURL overrides the Gemini API endpoint; tests point it at httptest.
	BaseURL    string
	HTTPClient *http.Client
}

// GenAIBackend uses the Google Gen AI SDK with a native response schema.
type GenAIBackend struct {
	client *genai.Client
	model  string
}

func NewGenAIBackend(ctx context.Context, opts GenAIOptions) (*GenAIBackend, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("genai: %w", ErrMissingAPIKey)
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultGeminiModel
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
	}
	if base := strings.TrimSpace(opts.BaseURL); base != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("genai: create client: %w", err)
	}
	return &GenAIBackend{client: client, model: model}, nil
}

func (b *GenAIBackend) Name() string { return genaiProviderName }

func (b *GenAIBackend) Complete(ctx context.Context, p Prompt) (string, error) {
	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(p.Text), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenAISchema(p.Schema),
	})
	if err != nil {
		return "", fmt.Errorf("genai: generate content: %w", err)
	}
	if resp == nil {
		return "", nil
	}
	return resp.Text(), nil
}

func toGenAISchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Description:      s.Description,
		Items:            toGenAISchema(s.Items),
		Required:         s.Required,
		PropertyOrdering: s.Order,
	}
	switch s.Type {
	case TypeObject:
		out.Type = genai.TypeObject
	case TypeArray:
		out.Type = genai.TypeArray
	default:
		out.Type = genai.TypeString
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenAISchema(prop)
		}
	}
	return out
}

var _ Backend = (*GenAIBackend)(nil)
