package models

import (
	"time"

	"github.com/google/uuid"
)

// Media captures metadata for uploaded objects across the platform.
type Media struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	DiskKey   string    `gorm:"column:disk_key;not null;unique"`
	FileName  string    `gorm:"column:file_name;not null"`
	MimeType  string    `gorm:"column:mime_type;not null"`
	SizeBytes int64     `gorm:"column:size_bytes;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
