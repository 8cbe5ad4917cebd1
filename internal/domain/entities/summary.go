package entities

import "time"

// Difficulty levels a summary may assign to a repository.
const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

// RepositorySummary is the structured summary produced for a GitHub
// repository README. It is constructed fresh per request and never persisted.
//
// The validate tags are the authoritative schema for generated output: every
// generator integration must pass this gate post-hoc, regardless of whether
// the upstream call promised schema-conforming output.
type RepositorySummary struct {
	Summary            string    `json:"summary" validate:"required,min=100,max=1000"`
	CoolFacts          []string  `json:"cool_facts" validate:"required,min=3,max=7,dive,required"`
	Technologies       []string  `json:"technologies" validate:"required,min=1,max=10,dive,required"`
	KeyFeatures        []string  `json:"key_features" validate:"required,min=1,max=5,dive,required"`
	DifficultyLevel    string    `json:"difficulty_level" validate:"required,oneof=Beginner Intermediate Advanced"`
	EstimatedStudyTime string    `json:"estimated_study_time" validate:"required"`
	ProcessedAt        time.Time `json:"processed_at"`
	Repository         string    `json:"repository"`
	FullReadme         string    `json:"fullReadme"`
}

type SummarizeInput struct {
	GitHubURL string `json:"gitHubUrl"`
}
