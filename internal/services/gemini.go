package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type GeminiService interface {
	GenerateText(ctx context.Context, prompt string, temperature float32) (string, error)
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiService struct {
	models    contentGenerator
	modelName string
	log       *zap.Logger
}

func NewGeminiService(ctx context.Context, apiKey, modelName string, log *zap.Logger) (GeminiService, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key: %w", ErrNotConfigured)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiService{
		models:    client.Models,
		modelName: modelName,
		log:       log,
	}, nil
}

// GenerateText implements GeminiService.
func (g *geminiService) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		MaxOutputTokens: 2048,
	}

	resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt), config)
	if err != nil {
		return "", &UpstreamError{Service: "gemini", Timeout: isTimeout(err), Err: err}
	}

	if resp == nil {
		return "", fmt.Errorf("gemini returned nil response: %w", ErrGenerationEmpty)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		g.log.Warn("gemini response without text",
			zap.String("model", g.modelName),
			zap.Int("candidates", len(resp.Candidates)),
		)
		return "", fmt.Errorf("gemini: %w", ErrGenerationEmpty)
	}

	return text, nil
}
