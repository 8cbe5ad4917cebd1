package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"dandi.backend/internal/domain/entities"
	"dandi.backend/internal/usecases"
	"dandi.backend/pkg/logger"
	"dandi.backend/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("development")
}

type apiKeyRepoStub struct {
	createFn        func(ctx context.Context, key *entities.ApiKey) error
	findByKeyFn     func(ctx context.Context, key string) (*entities.ApiKey, error)
	findByIDFn      func(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error)
	listFn          func(ctx context.Context, pagination utils.PaginationParams) ([]*entities.ApiKey, int64, error)
	updateFn        func(ctx context.Context, key *entities.ApiKey) error
	deleteFn        func(ctx context.Context, id uuid.UUID) error
	incrementFn     func(ctx context.Context, id uuid.UUID, usedAt time.Time) error
	touchLastUsedFn func(ctx context.Context, id uuid.UUID, usedAt time.Time) error
}

func (s *apiKeyRepoStub) Create(ctx context.Context, key *entities.ApiKey) error {
	if s.createFn != nil {
		return s.createFn(ctx, key)
	}
	return nil
}

func (s *apiKeyRepoStub) FindByKey(ctx context.Context, key string) (*entities.ApiKey, error) {
	if s.findByKeyFn != nil {
		return s.findByKeyFn(ctx, key)
	}
	return nil, errors.New("unused")
}

func (s *apiKeyRepoStub) FindByID(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, id)
	}
	return nil, errors.New("unused")
}

func (s *apiKeyRepoStub) List(ctx context.Context, pagination utils.PaginationParams) ([]*entities.ApiKey, int64, error) {
	if s.listFn != nil {
		return s.listFn(ctx, pagination)
	}
	return []*entities.ApiKey{}, 0, nil
}

func (s *apiKeyRepoStub) Update(ctx context.Context, key *entities.ApiKey) error {
	if s.updateFn != nil {
		return s.updateFn(ctx, key)
	}
	return nil
}

func (s *apiKeyRepoStub) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	return nil
}

func (s *apiKeyRepoStub) IncrementUsage(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	if s.incrementFn != nil {
		return s.incrementFn(ctx, id, usedAt)
	}
	return nil
}

func (s *apiKeyRepoStub) TouchLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	if s.touchLastUsedFn != nil {
		return s.touchLastUsedFn(ctx, id, usedAt)
	}
	return nil
}

type readmeFetcherStub struct {
	readme string
	err    error
}

func (f *readmeFetcherStub) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.readme, nil
}

type generatorStub struct {
	summary *entities.RepositorySummary
	err     error
}

func (g *generatorStub) Generate(ctx context.Context, readme string) (*entities.RepositorySummary, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.summary, nil
}

func testSummary() *entities.RepositorySummary {
	return &entities.RepositorySummary{
		Summary:            strings.Repeat("A CLI tool for widget processing. ", 5),
		CoolFacts:          []string{"fact one", "fact two", "fact three"},
		Technologies:       []string{"Go"},
		KeyFeatures:        []string{"fast"},
		DifficultyLevel:    entities.DifficultyBeginner,
		EstimatedStudyTime: "2 hours",
	}
}

func newApiKeyHandlerWithStub(repo *apiKeyRepoStub) *ApiKeyHandler {
	return NewApiKeyHandler(usecases.NewApiKeyUsecase(repo))
}
