package listings

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/trampala/trampala-backend/internal/media"
	"github.com/trampala/trampala-backend/pkg/db/models"
	"github.com/trampala/trampala-backend/pkg/enums"
	pkgerrors "github.com/trampala/trampala-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupListingService(t *testing.T) (*service, *gorm.DB) {
	t.Helper()
	db := setupListingsTestDB(t)

	mediaDDL := []string{
		`CREATE TABLE IF NOT EXISTS media (
  id TEXT PRIMARY KEY,
  disk_key TEXT NOT NULL UNIQUE,
  file_name TEXT NOT NULL,
  mime_type TEXT NOT NULL,
  size_bytes INTEGER NOT NULL,
  created_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS media_attachments (
  id TEXT PRIMARY KEY,
  media_id TEXT NOT NULL,
  entity_type TEXT NOT NULL,
  entity_id TEXT NOT NULL,
  collection TEXT NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`,
	}
	for _, stmt := range mediaDDL {
		require.NoError(t, db.Exec(stmt).Error)
	}

	storage, err := media.NewDiskStorage(t.TempDir(), "/media")
	require.NoError(t, err)
	mediaSvc, err := media.NewService(media.NewRepository(db), storage)
	require.NoError(t, err)

	svc, err := NewService(NewRepository(db), mediaSvc, gormTxRunner{db: db})
	require.NoError(t, err)
	return svc.(*service), db
}

func validCreateInput(withImage bool) CreateListingInput {
	input := CreateListingInput{
		Name:        "Vintage bicycle",
		Description: "Three speed, rides fine",
		CategoryID:  uuid.New(),
		CityID:      uuid.New(),
		UserID:      uuid.New(),
	}
	if withImage {
		input.Image = &media.Upload{
			FileName:  "bike.jpg",
			MimeType:  "image/jpeg",
			SizeBytes: 4,
			Content:   strings.NewReader("jpeg"),
		}
	}
	return input
}

func TestServiceCreateStartsPending(t *testing.T) {
	svc, _ := setupListingService(t)
	ctx := context.Background()

	dto, err := svc.Create(ctx, validCreateInput(true))
	require.NoError(t, err)
	require.Equal(t, enums.ListingStatusPending.String(), dto.Status)
	require.Regexp(t, `^LST-\d{4}-\d{6}$`, dto.UniqueNumber)
	require.Len(t, dto.Images, 1)
	require.Equal(t, "bike.jpg", dto.Images[0].FileName)
	require.Nil(t, dto.ApprovedAt)
	require.Nil(t, dto.RejectionReason)
}

func TestServiceCreateValidatesInput(t *testing.T) {
	svc, _ := setupListingService(t)
	ctx := context.Background()

	input := validCreateInput(false)
	input.Name = "  "
	_, err := svc.Create(ctx, input)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	input = validCreateInput(false)
	input.CategoryID = uuid.Nil
	_, err = svc.Create(ctx, input)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestServiceCreateRetriesOnNumberCollision(t *testing.T) {
	svc, db := setupListingService(t)
	ctx := context.Background()

	taken := "LST-2026-000111"
	seedListing(t, db, func(l *models.Listing) { l.UniqueNumber = taken })

	calls := 0
	svc.newNumber = func(time.Time) string {
		calls++
		if calls == 1 {
			return taken
		}
		return "LST-2026-000222"
	}

	dto, err := svc.Create(ctx, validCreateInput(false))
	require.NoError(t, err)
	require.Equal(t, "LST-2026-000222", dto.UniqueNumber)
	require.Equal(t, 2, calls)
}

func TestServiceCreateFailsAfterBoundedAttempts(t *testing.T) {
	svc, db := setupListingService(t)
	ctx := context.Background()

	taken := "LST-2026-000333"
	seedListing(t, db, func(l *models.Listing) { l.UniqueNumber = taken })

	calls := 0
	svc.newNumber = func(time.Time) string {
		calls++
		return taken
	}

	_, err := svc.Create(ctx, validCreateInput(false))
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeConflict, appErr.Code())
	require.Equal(t, maxNumberAttempts, calls)
}

func TestServiceUpdatePatchSemantics(t *testing.T) {
	svc, _ := setupListingService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateInput(true))
	require.NoError(t, err)

	description := "Now with a new saddle"
	updated, err := svc.Update(ctx, created.ID, UpdateListingInput{Description: &description})
	require.NoError(t, err)
	require.Equal(t, created.Name, updated.Name, "unset fields stay untouched")
	require.Equal(t, description, updated.Description)
	require.Equal(t, created.UniqueNumber, updated.UniqueNumber)
	require.Len(t, updated.Images, 1)

	updated, err = svc.Update(ctx, created.ID, UpdateListingInput{
		Image: &media.Upload{
			FileName:  "closeup.png",
			MimeType:  "image/png",
			SizeBytes: 3,
			Content:   strings.NewReader("png"),
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Images, 1)
	require.Equal(t, "closeup.png", updated.Images[0].FileName)
}

func TestServiceApproveThenReject(t *testing.T) {
	svc, _ := setupListingService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateInput(false))
	require.NoError(t, err)
	moderator := uuid.New()

	approved, err := svc.Approve(ctx, created.ID, moderator)
	require.NoError(t, err)
	require.Equal(t, enums.ListingStatusApproved.String(), approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	require.Nil(t, approved.RejectionReason)

	rejected, err := svc.Reject(ctx, created.ID, moderator, "")
	require.NoError(t, err)
	require.Equal(t, enums.ListingStatusRejected.String(), rejected.Status)
	require.Equal(t, DefaultRejectionReason, *rejected.RejectionReason)
	require.Nil(t, rejected.ApprovedAt)
}

func TestServiceRestoreSemantics(t *testing.T) {
	svc, _ := setupListingService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateInput(false))
	require.NoError(t, err)

	restored, err := svc.Restore(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, restored, "restoring a live listing reports false")

	require.NoError(t, svc.Delete(ctx, created.ID))

	restored, err = svc.Restore(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, restored)

	_, err = svc.Restore(ctx, uuid.New())
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestServiceForceDeleteRequiresTombstone(t *testing.T) {
	svc, db := setupListingService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, validCreateInput(true))
	require.NoError(t, err)

	err = svc.ForceDelete(ctx, created.ID)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	require.Equal(t, pkgerrors.CodeStateConflict, appErr.Code())

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.NoError(t, svc.ForceDelete(ctx, created.ID))

	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Listing{}).Where("id = ?", created.ID).Count(&count).Error)
	require.Zero(t, count)

	var attachments int64
	require.NoError(t, db.Model(&models.MediaAttachment{}).Where("entity_id = ?", created.ID).Count(&attachments).Error)
	require.Zero(t, attachments)
}

func TestServiceStats(t *testing.T) {
	svc, _ := setupListingService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, validCreateInput(false))
	require.NoError(t, err)
	_, err = svc.Create(ctx, validCreateInput(false))
	require.NoError(t, err)

	_, err = svc.Approve(ctx, first.ID, uuid.New())
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.Total)
	require.EqualValues(t, 1, stats.Pending)
	require.EqualValues(t, 1, stats.Approved)
}
