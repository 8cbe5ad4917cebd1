package entities

import (
	"time"

	"github.com/google/uuid"
)

// ApiKey represents a bearer API key issued to a dashboard user.
// The key token itself is immutable after creation; only name, description
// and monthly limit can be edited.
type ApiKey struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Key          string     `json:"key"`
	Usage        int64      `json:"usage"`
	MonthlyLimit *int64     `json:"monthly_limit,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	LastUsedAt   *time.Time `json:"last_used_at,omitempty"`
}

type CreateApiKeyInput struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	MonthlyLimit *int64 `json:"monthly_limit" binding:"omitempty,gt=0"`
}

type UpdateApiKeyInput struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	MonthlyLimit *int64 `json:"monthly_limit" binding:"omitempty,gt=0"`
}

// ValidationStatus tags the outcome of a key validation call.
type ValidationStatus string

const (
	ValidationValid         ValidationStatus = "valid"
	ValidationMissingKey    ValidationStatus = "missing_key"
	ValidationInvalid       ValidationStatus = "invalid"
	ValidationQuotaExceeded ValidationStatus = "quota_exceeded"
	ValidationStoreError    ValidationStatus = "store_error"
)

// KeyData is the public slice of a key returned on successful validation.
// Usage is the value seen at lookup time, before the increment.
type KeyData struct {
	Name         string `json:"name"`
	Usage        int64  `json:"usage"`
	MonthlyLimit *int64 `json:"monthly_limit"`
}

// ValidationResult is the tagged outcome of validating a presented key.
// It never carries an error past the validator boundary; the HTTP layer maps
// statuses to transport codes.
type ValidationResult struct {
	Status  ValidationStatus `json:"status"`
	KeyData *KeyData         `json:"keyData,omitempty"`
}

// Valid reports whether the presented key was admitted.
func (r *ValidationResult) Valid() bool {
	return r.Status == ValidationValid
}
