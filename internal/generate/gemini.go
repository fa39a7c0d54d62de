package generate

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"readmekit/internal/extract"
)

// GeminiGenerator implements Generator using Gemini text generation.
type GeminiGenerator struct {
	client        *genai.Client
	model         string
	promptBuilder *PromptBuilder
}

func NewGeminiGenerator(ctx context.Context, apiKey, modelName string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiGenerator{
		client:        client,
		model:         modelName,
		promptBuilder: &PromptBuilder{},
	}, nil
}

func (g *GeminiGenerator) Model() string { return g.model }

func (g *GeminiGenerator) Generate(ctx context.Context, doc extract.ContextDocument) (string, error) {
	contents := genai.Text(g.promptBuilder.BuildReadmePrompt(doc))
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", g.model)
	}
	return text, nil
}
