package media

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trampala/trampala-backend/pkg/db/models"
)

// Repository exposes media metadata persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a media repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create persists a media record.
func (r *Repository) Create(ctx context.Context, media *models.Media) (*models.Media, error) {
	if err := r.db.WithContext(ctx).Create(media).Error; err != nil {
		return nil, err
	}
	return media, nil
}

// FindByID retrieves a media record by ID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	var m models.Media
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes a media record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Media{}).Error
}

// CreateAttachment inserts a media attachment join row.
func (r *Repository) CreateAttachment(ctx context.Context, attachment *models.MediaAttachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// ListAttachments returns a collection's attachments in position order with
// their media rows preloaded.
func (r *Repository) ListAttachments(ctx context.Context, entityType string, entityID uuid.UUID, collection string) ([]models.MediaAttachment, error) {
	var attachments []models.MediaAttachment
	err := r.db.WithContext(ctx).
		Preload("Media").
		Where("entity_type = ? AND entity_id = ? AND collection = ?", entityType, entityID, collection).
		Order("position asc, created_at asc").
		Find(&attachments).
		Error
	if err != nil {
		return nil, err
	}
	return attachments, nil
}

// DeleteAttachments removes all join rows for a collection.
func (r *Repository) DeleteAttachments(ctx context.Context, entityType string, entityID uuid.UUID, collection string) error {
	return r.db.WithContext(ctx).
		Where("entity_type = ? AND entity_id = ? AND collection = ?", entityType, entityID, collection).
		Delete(&models.MediaAttachment{}).
		Error
}
