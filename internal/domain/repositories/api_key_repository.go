package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"dandi.backend/internal/domain/entities"
	"dandi.backend/pkg/utils"
)

// ApiKeyRepository is the persistence contract for API keys.
//
// IncrementUsage performs the usage update as a single SQL statement with the
// addition evaluated in the store (`usage = usage + 1`), so concurrent
// increments never lose updates. The admission check in the validator still
// reads a snapshot, which means two in-flight validations of a key at the
// limit boundary can both be admitted; usage accounting is advisory.
type ApiKeyRepository interface {
	Create(ctx context.Context, apiKey *entities.ApiKey) error
	FindByKey(ctx context.Context, key string) (*entities.ApiKey, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error)
	List(ctx context.Context, pagination utils.PaginationParams) ([]*entities.ApiKey, int64, error)
	Update(ctx context.Context, apiKey *entities.ApiKey) error
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementUsage(ctx context.Context, id uuid.UUID, usedAt time.Time) error
	TouchLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error
}
