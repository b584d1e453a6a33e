package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trampala/trampala-backend/pkg/db/models"
	pkgerrors "github.com/trampala/trampala-backend/pkg/errors"
)

// Upload carries one incoming file.
type Upload struct {
	FileName  string
	MimeType  string
	SizeBytes int64
	Content   io.Reader
}

// ImageDTO is the wire representation of one attached image.
type ImageDTO struct {
	MediaID  uuid.UUID `json:"media_id"`
	FileName string    `json:"file_name"`
	MimeType string    `json:"mime_type"`
	URL      string    `json:"url"`
}

// Service persists media rows and attachment joins and streams bytes through
// the configured Storage. Mutating calls run inside the caller's transaction
// so listing writes and their images commit atomically.
type Service struct {
	repo    *Repository
	storage Storage
}

// NewService constructs a media service.
func NewService(repo *Repository, storage Storage) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if storage == nil {
		return nil, fmt.Errorf("media storage required")
	}
	return &Service{repo: repo, storage: storage}, nil
}

// Attach stores the upload and joins it to the entity's collection.
func (s *Service) Attach(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, collection string, upload Upload) (*models.Media, error) {
	fileName := strings.TrimSpace(upload.FileName)
	if fileName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file_name is required")
	}
	if upload.Content == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file content is required")
	}

	txRepo := s.repo.WithTx(tx)

	mediaID := uuid.New()
	diskKey := BuildDiskKey(entityType, mediaID, fileName)

	mediaRow := &models.Media{
		ID:        mediaID,
		DiskKey:   diskKey,
		FileName:  fileName,
		MimeType:  strings.TrimSpace(upload.MimeType),
		SizeBytes: upload.SizeBytes,
	}
	if _, err := txRepo.Create(ctx, mediaRow); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert media")
	}

	attachment := &models.MediaAttachment{
		MediaID:    mediaID,
		EntityType: entityType,
		EntityID:   entityID,
		Collection: collection,
	}
	if err := txRepo.CreateAttachment(ctx, attachment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert media attachment")
	}

	if err := s.storage.Save(ctx, diskKey, upload.Content); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: save file")
	}
	return mediaRow, nil
}

// Replace clears the collection and attaches the upload in its place. The
// returned disk keys belong to the replaced rows and must be handed to
// RemoveStored once the surrounding transaction has committed.
func (s *Service) Replace(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, collection string, upload Upload) (*models.Media, []string, error) {
	staleKeys, err := s.Clear(ctx, tx, entityType, entityID, collection)
	if err != nil {
		return nil, nil, err
	}
	mediaRow, err := s.Attach(ctx, tx, entityType, entityID, collection, upload)
	if err != nil {
		return nil, nil, err
	}
	return mediaRow, staleKeys, nil
}

// Clear detaches and deletes every media row in the collection and returns
// the disk keys of the removed rows. Bytes stay on disk until the caller
// commits and invokes RemoveStored, so a rollback never loses files.
func (s *Service) Clear(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, collection string) ([]string, error) {
	txRepo := s.repo.WithTx(tx)

	attachments, err := txRepo.ListAttachments(ctx, entityType, entityID, collection)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list media attachments")
	}
	if len(attachments) == 0 {
		return nil, nil
	}

	if err := txRepo.DeleteAttachments(ctx, entityType, entityID, collection); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete media attachments")
	}
	keys := make([]string, 0, len(attachments))
	for _, attachment := range attachments {
		if err := txRepo.Delete(ctx, attachment.MediaID); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete media")
		}
		if attachment.Media != nil {
			keys = append(keys, attachment.Media.DiskKey)
		}
	}
	return keys, nil
}

// RemoveStored deletes the bytes behind keys that Clear or Replace already
// unlinked. Best effort: the rows are gone, so a leftover file is an orphan
// to sweep, never a correctness problem.
func (s *Service) RemoveStored(ctx context.Context, keys []string) error {
	var firstErr error
	for _, key := range keys {
		if err := s.storage.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage: delete file")
		}
	}
	return firstErr
}

// URLs lists the collection's images with resolved URLs.
func (s *Service) URLs(ctx context.Context, entityType string, entityID uuid.UUID, collection string) ([]ImageDTO, error) {
	attachments, err := s.repo.ListAttachments(ctx, entityType, entityID, collection)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list media attachments")
	}
	images := make([]ImageDTO, 0, len(attachments))
	for _, attachment := range attachments {
		if attachment.Media == nil {
			continue
		}
		images = append(images, ImageDTO{
			MediaID:  attachment.MediaID,
			FileName: attachment.Media.FileName,
			MimeType: attachment.Media.MimeType,
			URL:      s.storage.URL(attachment.Media.DiskKey),
		})
	}
	return images, nil
}
