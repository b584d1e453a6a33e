package models

import (
	"time"

	"github.com/google/uuid"
)

// Country anchors the location hierarchy.
type Country struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code         string    `gorm:"column:code;not null;uniqueIndex"`
	Name         string    `gorm:"column:name;not null"`
	Locale       string    `gorm:"column:locale;not null"`
	CurrencyCode string    `gorm:"column:currency_code;not null"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	Cities       []City    `gorm:"foreignKey:CountryID"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
