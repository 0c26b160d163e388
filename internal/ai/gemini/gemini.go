package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"interviewcoach/internal/ai"
	"interviewcoach/internal/config"
)

// Provider talks to the Gemini API through the GenAI client
type Provider struct {
	client *genai.Client
	models config.GeminiModels
}

// New creates a Gemini provider with the per-task model split
func New(ctx context.Context, apiKey string, models config.GeminiModels) (*Provider, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Provider{client: client, models: models}, nil
}

func (p *Provider) Name() string { return "gemini" }

func (p *Provider) Generate(ctx context.Context, task ai.Task, prompt string) (string, error) {
	return p.generate(ctx, task, prompt, nil)
}

func (p *Provider) GenerateJSON(ctx context.Context, task ai.Task, prompt string) (string, error) {
	return p.generate(ctx, task, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
}

func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("text must not be empty")
	}

	resp, err := p.client.Models.EmbedContent(ctx, p.models.Embedding, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("embed content: %w", err)
	}
	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil || len(resp.Embeddings[0].Values) == 0 {
		return nil, errors.New("gemini api returned empty embedding")
	}
	return resp.Embeddings[0].Values, nil
}

func (p *Provider) generate(ctx context.Context, task ai.Task, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model(task), genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	output := strings.TrimSpace(resp.Text())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return output, nil
}

func (p *Provider) model(task ai.Task) string {
	switch task {
	case ai.TaskClaims:
		return p.models.Claims
	case ai.TaskFollowUp:
		return p.models.FollowUp
	case ai.TaskFeedback:
		return p.models.Feedback
	case ai.TaskEmbedding:
		return p.models.Embedding
	}
	return p.models.Claims
}
