package usecases

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"dandi.backend/internal/domain/entities"
	domainerrors "dandi.backend/internal/domain/errors"
	"dandi.backend/pkg/logger"
)

// ReadmeFetcher retrieves raw README content for a repository.
type ReadmeFetcher interface {
	GetReadme(ctx context.Context, owner, repo string) (string, error)
}

// SummaryGenerator turns README text into a structured summary. Whether the
// provider constrains output natively or returns free text to parse, the
// result still has to pass the usecase's schema gate.
type SummaryGenerator interface {
	Generate(ctx context.Context, readme string) (*entities.RepositorySummary, error)
}

// SummaryUsecase runs the three-stage summary pipeline: reference extraction,
// content retrieval, structured generation. Each stage fails with its own
// domain error and no stage retries.
type SummaryUsecase struct {
	fetcher   ReadmeFetcher
	generator SummaryGenerator
	validate  *validator.Validate
	now       func() time.Time
}

// NewSummaryUsecase creates a new summary usecase
func NewSummaryUsecase(fetcher ReadmeFetcher, generator SummaryGenerator) *SummaryUsecase {
	return &SummaryUsecase{
		fetcher:   fetcher,
		generator: generator,
		validate:  validator.New(),
		now:       time.Now,
	}
}

// ExtractRepoRef parses a GitHub repository URL into (owner, repo). The two
// path segments after the host are used; anything less is a malformed
// reference.
func ExtractRepoRef(rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", "", fmt.Errorf("%w: %q", domainerrors.ErrInvalidRepositoryReference, rawURL)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] == "" || segments[1] == "" {
		return "", "", fmt.Errorf("%w: missing owner/repo in %q", domainerrors.ErrInvalidRepositoryReference, rawURL)
	}
	return segments[0], segments[1], nil
}

// Summarize fetches the README for repositoryURL and generates a validated
// structured summary.
func (u *SummaryUsecase) Summarize(ctx context.Context, repositoryURL string) (*entities.RepositorySummary, error) {
	owner, repo, err := ExtractRepoRef(repositoryURL)
	if err != nil {
		return nil, err
	}

	readme, err := u.fetcher.GetReadme(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	summary, err := u.generator.Generate(ctx, readme)
	if err != nil {
		return nil, err
	}

	// Hard gate: generation output is validated post-hoc even when the
	// provider promised schema-conforming output.
	if err := u.validate.Struct(summary); err != nil {
		logger.Warn(ctx, "generated summary failed schema validation",
			zap.String("repository", repositoryURL),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: schema validation: %v", domainerrors.ErrSummaryGenerationFailed, err)
	}

	summary.ProcessedAt = u.now()
	summary.Repository = repositoryURL
	summary.FullReadme = readme
	return summary, nil
}
