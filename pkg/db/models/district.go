package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// District is the finest location granularity a listing can carry.
type District struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CityID    uuid.UUID      `gorm:"column:city_id;type:uuid;not null"`
	City      *City          `gorm:"foreignKey:CityID"`
	Name      string         `gorm:"column:name;not null"`
	IsActive  bool           `gorm:"column:is_active;not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}
