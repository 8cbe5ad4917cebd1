package generation

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"dandi.backend/internal/domain/entities"
	domainerrors "dandi.backend/internal/domain/errors"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiGenerator produces summaries through the Gemini API using native
// schema-constrained JSON output. The schema mirrors the validate tags on
// entities.RepositorySummary; the pipeline still validates post-hoc.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini-backed summary generator
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Close releases the underlying client
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// Generate submits the README to Gemini and decodes the structured result.
func (g *GeminiGenerator) Generate(ctx context.Context, readme string) (*entities.RepositorySummary, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.7)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = summarySchema()

	resp, err := model.GenerateContent(ctx, genai.Text(buildPrompt(readme)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainerrors.ErrSummaryGenerationFailed, err)
	}

	text, err := candidateText(resp)
	if err != nil {
		return nil, err
	}
	return parseSummaryJSON(text)
}

func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: empty response", domainerrors.ErrSummaryGenerationFailed)
	}
	var out string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out += string(text)
		}
	}
	if out == "" {
		return "", fmt.Errorf("%w: no text parts in response", domainerrors.ErrSummaryGenerationFailed)
	}
	return out, nil
}

// summarySchema declares the response schema sent with every Gemini call.
func summarySchema() *genai.Schema {
	stringItem := &genai.Schema{Type: genai.TypeString}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {
				Type:        genai.TypeString,
				Description: "Detailed summary, 100-1000 characters",
			},
			"cool_facts": {
				Type:        genai.TypeArray,
				Items:       stringItem,
				Description: "3-7 interesting facts about the project",
			},
			"technologies": {
				Type:        genai.TypeArray,
				Items:       stringItem,
				Description: "1-10 technologies used",
			},
			"key_features": {
				Type:        genai.TypeArray,
				Items:       stringItem,
				Description: "1-5 most important features",
			},
			"difficulty_level": {
				Type: genai.TypeString,
				Enum: []string{
					entities.DifficultyBeginner,
					entities.DifficultyIntermediate,
					entities.DifficultyAdvanced,
				},
			},
			"estimated_study_time": {
				Type:        genai.TypeString,
				Description: "Estimated time to study and understand the codebase",
			},
		},
		Required: []string{
			"summary",
			"cool_facts",
			"technologies",
			"key_features",
			"difficulty_level",
			"estimated_study_time",
		},
	}
}
