package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"dandi.backend/internal/domain/entities"
	domainerrors "dandi.backend/internal/domain/errors"
	"dandi.backend/internal/domain/repositories"
	"dandi.backend/internal/infrastructure/models"
	"dandi.backend/pkg/utils"
)

// apiKeyRepo implements repositories.ApiKeyRepository
type apiKeyRepo struct {
	db *gorm.DB
}

// NewApiKeyRepository creates a new API key repository
func NewApiKeyRepository(db *gorm.DB) repositories.ApiKeyRepository {
	return &apiKeyRepo{db: db}
}

func (r *apiKeyRepo) Create(ctx context.Context, apiKey *entities.ApiKey) error {
	m := r.toModel(apiKey)
	if m.ID == uuid.Nil {
		m.ID = utils.GenerateUUIDv7()
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	*apiKey = *r.toEntity(m)
	return nil
}

func (r *apiKeyRepo) FindByKey(ctx context.Context, key string) (*entities.ApiKey, error) {
	var m models.ApiKey
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *apiKeyRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error) {
	var m models.ApiKey
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// List returns keys most-recent-first.
func (r *apiKeyRepo) List(ctx context.Context, pagination utils.PaginationParams) ([]*entities.ApiKey, int64, error) {
	var ms []models.ApiKey
	var totalCount int64

	query := r.db.WithContext(ctx).Model(&models.ApiKey{})
	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if pagination.Limit > 0 {
		query = query.Offset(pagination.CalculateOffset()).Limit(pagination.Limit)
	}
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	keys := make([]*entities.ApiKey, 0, len(ms))
	for _, m := range ms {
		model := m
		keys = append(keys, r.toEntity(&model))
	}
	return keys, totalCount, nil
}

// Update persists the mutable fields only. Key and CreatedAt are immutable
// post-creation and never touched here.
func (r *apiKeyRepo) Update(ctx context.Context, apiKey *entities.ApiKey) error {
	result := r.db.WithContext(ctx).Model(&models.ApiKey{}).
		Where("id = ?", apiKey.ID).
		Updates(map[string]interface{}{
			"name":          apiKey.Name,
			"description":   apiKey.Description,
			"monthly_limit": null.Int64FromPtr(apiKey.MonthlyLimit),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *apiKeyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ApiKey{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// IncrementUsage bumps the usage counter and stamps last_used_at in a single
// UPDATE. The addition runs in the store, so the row-level increment itself
// is atomic; see the interface doc for the admission-check caveat.
func (r *apiKeyRepo) IncrementUsage(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.ApiKey{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"usage":        gorm.Expr("usage + ?", 1),
			"last_used_at": usedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// TouchLastUsed stamps last_used_at without changing usage. Used when a key
// value is consumed outside the validation path.
func (r *apiKeyRepo) TouchLastUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.ApiKey{}).
		Where("id = ?", id).
		UpdateColumn("last_used_at", usedAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *apiKeyRepo) toEntity(m *models.ApiKey) *entities.ApiKey {
	return &entities.ApiKey{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Key:          m.Key,
		Usage:        m.Usage,
		MonthlyLimit: m.MonthlyLimit.Ptr(),
		CreatedAt:    m.CreatedAt,
		LastUsedAt:   m.LastUsedAt.Ptr(),
	}
}

func (r *apiKeyRepo) toModel(e *entities.ApiKey) *models.ApiKey {
	return &models.ApiKey{
		ID:           e.ID,
		Name:         e.Name,
		Description:  e.Description,
		Key:          e.Key,
		Usage:        e.Usage,
		MonthlyLimit: null.Int64FromPtr(e.MonthlyLimit),
		CreatedAt:    e.CreatedAt,
		LastUsedAt:   null.TimeFromPtr(e.LastUsedAt),
	}
}
