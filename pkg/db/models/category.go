package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a node in the listing taxonomy tree.
type Category struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string         `gorm:"column:name;not null"`
	Slug        string         `gorm:"column:slug;not null;uniqueIndex"`
	Description *string        `gorm:"column:description"`
	IsActive    bool           `gorm:"column:is_active;not null"`
	ParentID    *uuid.UUID     `gorm:"column:parent_id;type:uuid"`
	Parent      *Category      `gorm:"foreignKey:ParentID"`
	Children    []Category     `gorm:"foreignKey:ParentID"`
	Listings    []Listing      `gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}
