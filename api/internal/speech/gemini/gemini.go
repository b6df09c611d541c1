package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"speech-coach/api/internal/speech"
)

// Provider calls Gemini with inline media. A client is opened per call because the
// API key changes between attempts.
type Provider struct {
	// Endpoint overrides the API endpoint, mostly for proxies.
	Endpoint string
}

func New(endpoint string) *Provider {
	return &Provider{Endpoint: strings.TrimSpace(endpoint)}
}

func (p *Provider) Name() string { return "gemini" }

// Generate runs one generateContent call and returns the first text part.
func (p *Provider) Generate(ctx context.Context, apiKey string, in speech.Prompt) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", errors.New("gemini: API key is empty")
	}
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if p.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.Endpoint))
	}
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("gemini: client: %w", Classify(err))
	}
	defer cl.Close()

	m := cl.GenerativeModel(strings.TrimSpace(in.Model))
	if m == nil {
		return "", fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = GenerationConfig(in)

	resp, err := m.GenerateContent(ctx, Parts(in)...)
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", Classify(err))
	}
	txt := firstText(resp)
	if strings.TrimSpace(txt) == "" {
		return "", fmt.Errorf("gemini: empty response%s", blockReason(resp))
	}
	return txt, nil
}

// GenerationConfig maps prompt parameters onto the model config.
func GenerationConfig(in speech.Prompt) genai.GenerationConfig {
	cfg := genai.GenerationConfig{
		Temperature: ptrFloat32(in.Temperature),
	}
	if in.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = ptrInt32(in.MaxOutputTokens)
	}
	if in.JSONMode {
		cfg.ResponseMIMEType = "application/json"
	}
	return cfg
}

// Parts builds the user turn: instruction text followed by the inline media blob.
func Parts(in speech.Prompt) []genai.Part {
	return []genai.Part{
		genai.Text(in.Instruction),
		&genai.Blob{MIMEType: in.MIMEType, Data: in.Media},
	}
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return ""
}

func blockReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || resp.PromptFeedback == nil || resp.PromptFeedback.BlockReason == genai.BlockReasonUnspecified {
		return ""
	}
	return " (blocked: " + resp.PromptFeedback.BlockReason.String() + ")"
}

func ptrFloat32(v float32) *float32 { return &v }
func ptrInt32(v int32) *int32       { return &v }
