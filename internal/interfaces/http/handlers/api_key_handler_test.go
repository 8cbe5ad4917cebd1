package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"dandi.backend/internal/domain/entities"
	domainerrors "dandi.backend/internal/domain/errors"
	"dandi.backend/pkg/utils"
)

func newApiKeyRouter(h *ApiKeyHandler) *gin.Engine {
	r := gin.New()
	r.POST("/api-keys", h.CreateApiKey)
	r.GET("/api-keys", h.ListApiKeys)
	r.GET("/api-keys/:id", h.GetApiKey)
	r.PUT("/api-keys/:id", h.UpdateApiKey)
	r.DELETE("/api-keys/:id", h.DeleteApiKey)
	r.POST("/api-keys/:id/mark-used", h.MarkUsed)
	return r
}

func TestApiKeyHandler_CreateApiKey(t *testing.T) {
	h := newApiKeyHandlerWithStub(&apiKeyRepoStub{})
	r := newApiKeyRouter(h)

	body := `{"name":"Dashboard Key","description":"for the dashboard","monthly_limit":100}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api-keys", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var got entities.ApiKey
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Dashboard Key", got.Name)
	assert.Regexp(t, `^pk_live_[0-9a-f]{32}$`, got.Key)
	require.NotNil(t, got.MonthlyLimit)
	assert.Equal(t, int64(100), *got.MonthlyLimit)
}

func TestApiKeyHandler_CreateApiKey_MissingName(t *testing.T) {
	h := newApiKeyHandlerWithStub(&apiKeyRepoStub{})
	r := newApiKeyRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api-keys", strings.NewReader(`{"description":"no name"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApiKeyHandler_CreateApiKey_NonPositiveLimit(t *testing.T) {
	h := newApiKeyHandlerWithStub(&apiKeyRepoStub{})
	r := newApiKeyRouter(h)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api-keys", strings.NewReader(`{"name":"k","monthly_limit":0}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApiKeyHandler_ListApiKeys(t *testing.T) {
	limit := int64(10)
	repo := &apiKeyRepoStub{
		listFn: func(ctx context.Context, pagination utils.PaginationParams) ([]*entities.ApiKey, int64, error) {
			return []*entities.ApiKey{
				{ID: uuid.New(), Name: "newer", MonthlyLimit: &limit},
				{ID: uuid.New(), Name: "older"},
			}, 2, nil
		},
	}
	r := newApiKeyRouter(newApiKeyHandlerWithStub(repo))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api-keys?page=1&limit=10", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Data []entities.ApiKey    `json:"data"`
		Meta utils.PaginationMeta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Data, 2)
	assert.Equal(t, "newer", got.Data[0].Name)
	assert.Equal(t, int64(2), got.Meta.TotalCount)
	assert.Equal(t, 1, got.Meta.Page)
}

func TestApiKeyHandler_ListApiKeys_StoreFailure(t *testing.T) {
	repo := &apiKeyRepoStub{
		listFn: func(ctx context.Context, pagination utils.PaginationParams) ([]*entities.ApiKey, int64, error) {
			return nil, 0, errors.New("connection refused")
		},
	}
	r := newApiKeyRouter(newApiKeyHandlerWithStub(repo))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api-keys", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestApiKeyHandler_GetApiKey(t *testing.T) {
	id := uuid.New()
	repo := &apiKeyRepoStub{
		findByIDFn: func(ctx context.Context, gotID uuid.UUID) (*entities.ApiKey, error) {
			require.Equal(t, id, gotID)
			return &entities.ApiKey{ID: id, Name: "mine"}, nil
		},
	}
	r := newApiKeyRouter(newApiKeyHandlerWithStub(repo))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api-keys/"+id.String(), nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"mine"`)
}

func TestApiKeyHandler_GetApiKey_BadID(t *testing.T) {
	r := newApiKeyRouter(newApiKeyHandlerWithStub(&apiKeyRepoStub{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api-keys/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API Key ID")
}

func TestApiKeyHandler_GetApiKey_NotFound(t *testing.T) {
	repo := &apiKeyRepoStub{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error) {
			return nil, domainerrors.ErrNotFound
		},
	}
	r := newApiKeyRouter(newApiKeyHandlerWithStub(repo))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api-keys/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApiKeyHandler_UpdateApiKey(t *testing.T) {
	id := uuid.New()
	repo := &apiKeyRepoStub{
		findByIDFn: func(ctx context.Context, gotID uuid.UUID) (*entities.ApiKey, error) {
			return &entities.ApiKey{ID: id, Name: "before", Key: "pk_live_0123456789abcdef0123456789abcdef"}, nil
		},
	}
	r := newApiKeyRouter(newApiKeyHandlerWithStub(repo))

	body := `{"name":"after","description":"edited","monthly_limit":25}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api-keys/"+id.String(), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got entities.ApiKey
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "after", got.Name)
	assert.Equal(t, "edited", got.Description)
	require.NotNil(t, got.MonthlyLimit)
	assert.Equal(t, int64(25), *got.MonthlyLimit)
}

func TestApiKeyHandler_UpdateApiKey_NotFound(t *testing.T) {
	repo := &apiKeyRepoStub{
		findByIDFn: func(ctx context.Context, id uuid.UUID) (*entities.ApiKey, error) {
			return nil, domainerrors.ErrNotFound
		},
	}
	r := newApiKeyRouter(newApiKeyHandlerWithStub(repo))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api-keys/"+uuid.NewString(), strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApiKeyHandler_DeleteApiKey(t *testing.T) {
	deleted := false
	repo := &apiKeyRepoStub{
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	r := newApiKeyRouter(newApiKeyHandlerWithStub(repo))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api-keys/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, deleted)
	assert.Contains(t, w.Body.String(), "deleted successfully")
}

func TestApiKeyHandler_DeleteApiKey_NotFound(t *testing.T) {
	repo := &apiKeyRepoStub{
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			return domainerrors.ErrNotFound
		},
	}
	r := newApiKeyRouter(newApiKeyHandlerWithStub(repo))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api-keys/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApiKeyHandler_MarkUsed(t *testing.T) {
	touched := false
	repo := &apiKeyRepoStub{
		touchLastUsedFn: func(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
			touched = true
			return nil
		},
	}
	r := newApiKeyRouter(newApiKeyHandlerWithStub(repo))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api-keys/"+uuid.NewString()+"/mark-used", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, touched)
}
