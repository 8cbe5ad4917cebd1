package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

type ApiKey struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	Name         string     `gorm:"type:varchar(100);not null"`
	Description  string     `gorm:"type:text"`
	Key          string     `gorm:"type:varchar(64);uniqueIndex;not null"` // pk_live_<32 hex>
	Usage        int64      `gorm:"not null;default:0"`
	MonthlyLimit null.Int64 `gorm:"column:monthly_limit"`
	CreatedAt    time.Time
	LastUsedAt   null.Time
}

func (ApiKey) TableName() string {
	return "api_keys"
}
