package models

import (
	"time"

	"github.com/google/uuid"
)

// MediaAttachment links a media object to an owning entity within a named
// collection.
type MediaAttachment struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	MediaID    uuid.UUID `gorm:"column:media_id;type:uuid;not null"`
	Media      *Media    `gorm:"foreignKey:MediaID"`
	EntityType string    `gorm:"column:entity_type;not null"`
	EntityID   uuid.UUID `gorm:"column:entity_id;type:uuid;not null"`
	Collection string    `gorm:"column:collection;not null"`
	Position   int       `gorm:"column:position;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

const (
	AttachmentEntityListing = "listing"

	CollectionImages = "images"
)
