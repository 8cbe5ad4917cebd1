package generation

import (
	"encoding/json"
	"fmt"
	"strings"

	"dandi.backend/internal/domain/entities"
	domainerrors "dandi.backend/internal/domain/errors"
)

const promptTemplate = `Analyze this GitHub repository README content and provide a comprehensive summary.
Focus on the main features, purpose, and unique aspects of the project.

README Content:
%s

Required sections in your analysis:
1. A detailed summary (100-1000 characters)
2. 3-7 interesting facts about the project
3. List of technologies used (1-10)
4. Key features (1-5 most important features)
5. Project difficulty level (Beginner/Intermediate/Advanced)
6. Estimated time to study and understand the codebase

Make sure to:
- Keep the summary informative and well-structured
- Focus on technical aspects and implementation details
- Include unique or innovative approaches used
- Consider the project's complexity and learning curve`

// formatInstructions is appended for providers without native schema support.
const formatInstructions = `

Respond with a single JSON object, no prose around it, in exactly this shape:
{
  "summary": "string, 100-1000 characters",
  "cool_facts": ["3 to 7 strings"],
  "technologies": ["1 to 10 strings"],
  "key_features": ["1 to 5 strings"],
  "difficulty_level": "Beginner | Intermediate | Advanced",
  "estimated_study_time": "string"
}`

func buildPrompt(readme string) string {
	return fmt.Sprintf(promptTemplate, readme)
}

// parseSummaryJSON decodes a model response into a RepositorySummary.
// Markdown code fences around the JSON are tolerated since chat models
// frequently wrap output in them.
func parseSummaryJSON(text string) (*entities.RepositorySummary, error) {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
		cleaned = strings.TrimSpace(cleaned)
	}

	var summary entities.RepositorySummary
	if err := json.Unmarshal([]byte(cleaned), &summary); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", domainerrors.ErrSummaryGenerationFailed, err)
	}
	return &summary, nil
}
