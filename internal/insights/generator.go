package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"careerpilot-api/internal/llm"
	"careerpilot-api/internal/logging"
	"careerpilot-api/pkg/models"
	"careerpilot-api/pkg/utils"
)

// Generator produces industry insight payloads
type Generator interface {
	Generate(ctx context.Context, industry string) (*models.InsightPayload, error)
}

// LLMGenerator generates insight payloads by prompting an LLM provider
// and parsing its JSON response.
type LLMGenerator struct {
	provider llm.Provider
	validate *validator.Validate
	logger   logging.Logger
}

// NewLLMGenerator creates a generator backed by the given provider
func NewLLMGenerator(provider llm.Provider) *LLMGenerator {
	return &LLMGenerator{
		provider: provider,
		validate: validator.New(),
		logger:   logging.GetGlobalLogger(),
	}
}

// Generate produces a fresh insight payload for the given industry.
// A failed model call surfaces as ErrGenerationFailed; a response that
// cannot be parsed or validated surfaces as ErrMalformedResponse.
func (g *LLMGenerator) Generate(ctx context.Context, industry string) (*models.InsightPayload, error) {
	industry = utils.NormalizeIndustry(industry)
	if industry == "" {
		return nil, fmt.Errorf("%w: industry is required", utils.ErrGenerationFailed)
	}

	prompt := buildInsightPrompt(industry)

	responseText, err := g.provider.Complete(ctx, prompt)
	if err != nil {
		g.logger.Error("Insight generation call failed", map[string]interface{}{
			"industry": industry,
			"provider": g.provider.GetProviderName(),
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", utils.ErrGenerationFailed, err)
	}

	cleaned := StripCodeFences(responseText)

	var payload models.InsightPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		g.logger.Error("Insight response is not valid JSON", map[string]interface{}{
			"industry": industry,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", utils.ErrMalformedResponse, err)
	}

	if err := g.validate.Struct(&payload); err != nil {
		g.logger.Error("Insight response failed validation", map[string]interface{}{
			"industry": industry,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", utils.ErrMalformedResponse, err)
	}

	g.logger.Info("Generated industry insight", map[string]interface{}{
		"industry":     industry,
		"demand_level": payload.DemandLevel,
		"provider":     g.provider.GetProviderName(),
	})

	return &payload, nil
}

// StripCodeFences removes markdown code fences that models often wrap
// around JSON output.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

// buildInsightPrompt creates the prompt asking the model for a structured
// market analysis of an industry.
func buildInsightPrompt(industry string) string {
	return fmt.Sprintf(`Analyze the current state of the %s industry and provide insights in ONLY the following JSON format without any additional notes or explanations:

{
  "salary_ranges": [
    { "role": "string", "min": number, "max": number, "median": number, "location": "string" }
  ],
  "growth_rate": number,
  "demand_level": "High" | "Medium" | "Low",
  "top_skills": ["skill1", "skill2"],
  "market_outlook": "Positive" | "Neutral" | "Negative",
  "key_trends": ["trend1", "trend2"],
  "recommended_skills": ["skill1", "skill2"]
}

IMPORTANT: Return ONLY the JSON. No additional text, notes, or markdown formatting.
Include at least 5 common roles for salary ranges.
Growth rate should be a percentage.
Include at least 5 skills and trends.`, industry)
}
