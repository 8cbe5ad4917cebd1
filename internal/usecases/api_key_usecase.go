package usecases

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"dandi.backend/internal/domain/entities"
	domainerrors "dandi.backend/internal/domain/errors"
	"dandi.backend/internal/domain/repositories"
	"dandi.backend/pkg/logger"
	"dandi.backend/pkg/utils"
)

// KeyPrefix is prepended to every generated key token
const KeyPrefix = "pk_live_"

var apiKeyRandRead = rand.Read

// ApiKeyUsecase owns the API key lifecycle: issuance, administration and
// validation with quota enforcement.
type ApiKeyUsecase struct {
	apiKeyRepo repositories.ApiKeyRepository
	now        func() time.Time
}

// NewApiKeyUsecase creates a new API key usecase
func NewApiKeyUsecase(apiKeyRepo repositories.ApiKeyRepository) *ApiKeyUsecase {
	return &ApiKeyUsecase{
		apiKeyRepo: apiKeyRepo,
		now:        time.Now,
	}
}

// CreateApiKey generates a fresh key token and persists the record.
// The token is returned in full; the dashboard is responsible for how it is
// surfaced to the user.
func (u *ApiKeyUsecase) CreateApiKey(ctx context.Context, input *entities.CreateApiKeyInput) (*entities.ApiKey, error) {
	raw, err := generateRandomHex(32)
	if err != nil {
		return nil, domainerrors.InternalError(err)
	}

	entity := &entities.ApiKey{
		Name:         input.Name,
		Description:  input.Description,
		Key:          KeyPrefix + raw,
		Usage:        0,
		MonthlyLimit: input.MonthlyLimit,
		CreatedAt:    u.now(),
	}

	if err := u.apiKeyRepo.Create(ctx, entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// ListApiKeys returns keys most-recent-first.
func (u *ApiKeyUsecase) ListApiKeys(ctx context.Context, pagination utils.PaginationParams) ([]*entities.ApiKey, int64, error) {
	return u.apiKeyRepo.List(ctx, pagination)
}

// GetApiKey returns a single key by id.
func (u *ApiKeyUsecase) GetApiKey(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error) {
	return u.apiKeyRepo.FindByID(ctx, id)
}

// UpdateApiKey edits the mutable attributes. Key token and id are immutable.
func (u *ApiKeyUsecase) UpdateApiKey(ctx context.Context, id uuid.UUID, input *entities.UpdateApiKeyInput) (*entities.ApiKey, error) {
	key, err := u.apiKeyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key.Name = input.Name
	key.Description = input.Description
	key.MonthlyLimit = input.MonthlyLimit

	if err := u.apiKeyRepo.Update(ctx, key); err != nil {
		return nil, err
	}
	return key, nil
}

// DeleteApiKey removes a key permanently.
func (u *ApiKeyUsecase) DeleteApiKey(ctx context.Context, id uuid.UUID) error {
	return u.apiKeyRepo.Delete(ctx, id)
}

// MarkUsed stamps last_used_at without touching the usage counter. The
// dashboard calls this when a key value is consumed outside the validation
// path, e.g. copy-to-clipboard.
func (u *ApiKeyUsecase) MarkUsed(ctx context.Context, id uuid.UUID) error {
	return u.apiKeyRepo.TouchLastUsed(ctx, id, u.now())
}

// Validate checks a presented key and, when admitted, increments its usage
// counter as a side effect. The returned result is a tagged variant; this
// method never reports an error to the caller.
//
// The quota check runs strictly before the increment. The increment itself is
// best-effort: a store failure after admission is logged and the request
// still proceeds, since usage accounting is advisory.
func (u *ApiKeyUsecase) Validate(ctx context.Context, presentedKey string) *entities.ValidationResult {
	if presentedKey == "" {
		return &entities.ValidationResult{Status: entities.ValidationMissingKey}
	}

	key, err := u.apiKeyRepo.FindByKey(ctx, presentedKey)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			// Wrong key and unknown key are indistinguishable on purpose,
			// to avoid key enumeration.
			return &entities.ValidationResult{Status: entities.ValidationInvalid}
		}
		logger.Error(ctx, "api key lookup failed", zap.Error(err))
		return &entities.ValidationResult{Status: entities.ValidationStoreError}
	}

	if key.MonthlyLimit != nil && key.Usage >= *key.MonthlyLimit {
		return &entities.ValidationResult{Status: entities.ValidationQuotaExceeded}
	}

	if err := u.apiKeyRepo.IncrementUsage(ctx, key.ID, u.now()); err != nil {
		logger.Warn(ctx, "usage increment failed, proceeding anyway",
			zap.String("key_id", key.ID.String()),
			zap.Error(err),
		)
	}

	return &entities.ValidationResult{
		Status: entities.ValidationValid,
		KeyData: &entities.KeyData{
			Name:         key.Name,
			Usage:        key.Usage,
			MonthlyLimit: key.MonthlyLimit,
		},
	}
}

// generateRandomHex returns n hex chars from a cryptographically secure
// source. The key token is a bearer secret, so a predictable sequence would
// be a vulnerability.
func generateRandomHex(n int) (string, error) {
	bytes := make([]byte, n/2)
	if _, err := apiKeyRandRead(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
