package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// City belongs to a country and groups districts.
type City struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CountryID uuid.UUID      `gorm:"column:country_id;type:uuid;not null"`
	Country   *Country       `gorm:"foreignKey:CountryID"`
	Name      string         `gorm:"column:name;not null"`
	PlateCode string         `gorm:"column:plate_code;not null;uniqueIndex"`
	IsActive  bool           `gorm:"column:is_active;not null"`
	Districts []District     `gorm:"foreignKey:CityID"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}
