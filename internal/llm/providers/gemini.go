package providers

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"careerpilot-api/internal/config"
	"careerpilot-api/internal/logging"
)

// GeminiProvider implements the LLM provider interface using Google's Gemini
type GeminiProvider struct {
	client *genai.Client
	config *config.Config
	logger logging.Logger
}

// NewGeminiProvider creates a new Gemini provider instance
func NewGeminiProvider(cfg *config.Config) (*GeminiProvider, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.LLM.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}, nil
}

// Complete sends a prompt to Gemini and returns the raw text response
func (gp *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := gp.client.Models.GenerateContent(
		ctx,
		gp.config.LLM.Model,
		[]*genai.Content{
			genai.NewContentFromText(prompt, genai.RoleUser),
		},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(gp.config.LLM.Temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to call Gemini API: %w", err)
	}

	responseText := resp.Text()
	if strings.TrimSpace(responseText) == "" {
		return "", fmt.Errorf("no text content in Gemini response")
	}

	gp.logger.Debug("Gemini response received", map[string]interface{}{
		"response_length": len(responseText),
	})

	return responseText, nil
}

// IsHealthy checks if the Gemini provider is healthy and available
func (gp *GeminiProvider) IsHealthy(ctx context.Context) error {
	if gp.config.LLM.APIKey == "" {
		return fmt.Errorf("Gemini API key not configured - set GEMINI_API_KEY environment variable")
	}

	_, err := gp.client.Models.GenerateContent(
		ctx,
		gp.config.LLM.Model,
		[]*genai.Content{
			genai.NewContentFromText("Hello", genai.RoleUser),
		},
		nil,
	)
	if err != nil {
		return fmt.Errorf("Gemini API health check failed: %w", err)
	}

	return nil
}

// GetProviderName returns the name of the LLM provider
func (gp *GeminiProvider) GetProviderName() string {
	return "gemini"
}
