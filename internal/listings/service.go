package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trampala/trampala-backend/internal/media"
	"github.com/trampala/trampala-backend/pkg/db"
	"github.com/trampala/trampala-backend/pkg/db/models"
	"github.com/trampala/trampala-backend/pkg/enums"
	pkgerrors "github.com/trampala/trampala-backend/pkg/errors"
	"github.com/trampala/trampala-backend/pkg/pagination"
)

// CreateListingInput carries a submission from the delivery layer. Status is
// never accepted from the caller, every new listing starts pending.
type CreateListingInput struct {
	Name        string
	Description string
	CategoryID  uuid.UUID
	CountryID   *uuid.UUID
	CityID      uuid.UUID
	DistrictID  *uuid.UUID
	UserID      uuid.UUID
	Image       *media.Upload
}

// UpdateListingInput applies PATCH semantics, nil fields stay untouched. A
// new image replaces the existing collection.
type UpdateListingInput struct {
	Name        *string
	Description *string
	CategoryID  *uuid.UUID
	CountryID   *uuid.UUID
	CityID      *uuid.UUID
	DistrictID  *uuid.UUID
	Image       *media.Upload
}

// Service orchestrates listing persistence, the approval workflow and media
// attachment. It is the only component that constructs listings.
type Service interface {
	Create(ctx context.Context, input CreateListingInput) (*ListingDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateListingInput) (*ListingDTO, error)
	Find(ctx context.Context, id uuid.UUID, includeTrashed bool) (*models.Listing, error)
	Details(ctx context.Context, id uuid.UUID) (*ListingDTO, error)
	All(ctx context.Context, p pagination.Params) ([]ListingDTO, int64, error)
	Approved(ctx context.Context, p pagination.Params) ([]ListingDTO, int64, error)
	Pending(ctx context.Context, p pagination.Params) ([]ListingDTO, int64, error)
	Rejected(ctx context.Context, p pagination.Params) ([]ListingDTO, int64, error)
	ByUser(ctx context.Context, userID uuid.UUID, p pagination.Params) ([]ListingDTO, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (bool, error)
	ForceDelete(ctx context.Context, id uuid.UUID) error
	Approve(ctx context.Context, id, moderatorID uuid.UUID) (*ListingDTO, error)
	Reject(ctx context.Context, id, moderatorID uuid.UUID, reason string) (*ListingDTO, error)
	Stats(ctx context.Context) (*ListingStats, error)
}

type mediaManager interface {
	Attach(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, collection string, upload media.Upload) (*models.Media, error)
	Replace(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, collection string, upload media.Upload) (*models.Media, []string, error)
	Clear(ctx context.Context, tx *gorm.DB, entityType string, entityID uuid.UUID, collection string) ([]string, error)
	RemoveStored(ctx context.Context, keys []string) error
	URLs(ctx context.Context, entityType string, entityID uuid.UUID, collection string) ([]media.ImageDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      *Repository
	media     mediaManager
	tx        txRunner
	newNumber func(time.Time) string
}

// NewService constructs a listing service.
func NewService(repo *Repository, mediaSvc mediaManager, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("listing repository required")
	}
	if mediaSvc == nil {
		return nil, fmt.Errorf("media service required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, media: mediaSvc, tx: tx, newNumber: newUniqueNumber}, nil
}

func (s *service) Create(ctx context.Context, input CreateListingInput) (*ListingDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if input.CategoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category_id is required")
	}
	if input.CityID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "city_id is required")
	}
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user_id is required")
	}

	listing := &models.Listing{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CategoryID:  input.CategoryID,
		CountryID:   input.CountryID,
		CityID:      input.CityID,
		DistrictID:  input.DistrictID,
		UserID:      input.UserID,
		Status:      enums.ListingStatusPending,
	}

	// The unique_number constraint is the real guarantee, the loop only
	// absorbs the occasional collision before failing loudly.
	var lastErr error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		listing.UniqueNumber = s.newNumber(time.Now())
		lastErr = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.WithTx(tx).Create(ctx, listing); err != nil {
				return err
			}
			if input.Image != nil {
				_, err := s.media.Attach(ctx, tx, models.AttachmentEntityListing, listing.ID, models.CollectionImages, *input.Image)
				return err
			}
			return nil
		})
		if lastErr == nil {
			break
		}
		if !db.IsUniqueViolation(lastErr, "unique_number") {
			return nil, wrapPersistence(lastErr, "db: create listing")
		}
	}
	if lastErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, lastErr, "listing number allocation exhausted")
	}

	return s.Details(ctx, listing.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateListingInput) (*ListingDTO, error) {
	listing, err := s.Find(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		listing.Name = name
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "description cannot be empty")
		}
		listing.Description = description
	}
	if input.CategoryID != nil {
		listing.CategoryID = *input.CategoryID
	}
	if input.CountryID != nil {
		listing.CountryID = input.CountryID
	}
	if input.CityID != nil {
		listing.CityID = *input.CityID
	}
	if input.DistrictID != nil {
		listing.DistrictID = input.DistrictID
	}

	var staleKeys []string
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Save(ctx, listing); err != nil {
			return err
		}
		if input.Image != nil {
			_, keys, err := s.media.Replace(ctx, tx, models.AttachmentEntityListing, listing.ID, models.CollectionImages, *input.Image)
			staleKeys = keys
			return err
		}
		return nil
	})
	if err != nil {
		return nil, wrapPersistence(err, "db: update listing")
	}
	// Replaced bytes are removed only after the commit; a leftover file is
	// an orphan to sweep, never a dangling DB row.
	_ = s.media.RemoveStored(ctx, staleKeys)

	return s.Details(ctx, id)
}

func (s *service) Find(ctx context.Context, id uuid.UUID, includeTrashed bool) (*models.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id, includeTrashed)
	if err != nil {
		return nil, notFoundOrDependency(err, "load listing")
	}
	return listing, nil
}

func (s *service) Details(ctx context.Context, id uuid.UUID) (*ListingDTO, error) {
	listing, err := s.Find(ctx, id, false)
	if err != nil {
		return nil, err
	}
	return s.toDTO(ctx, listing)
}

func (s *service) All(ctx context.Context, p pagination.Params) ([]ListingDTO, int64, error) {
	return s.toPage(ctx, p, s.repo.All)
}

func (s *service) Approved(ctx context.Context, p pagination.Params) ([]ListingDTO, int64, error) {
	return s.toPage(ctx, p, s.repo.Approved)
}

func (s *service) Pending(ctx context.Context, p pagination.Params) ([]ListingDTO, int64, error) {
	return s.toPage(ctx, p, s.repo.Pending)
}

func (s *service) Rejected(ctx context.Context, p pagination.Params) ([]ListingDTO, int64, error) {
	return s.toPage(ctx, p, s.repo.Rejected)
}

func (s *service) ByUser(ctx context.Context, userID uuid.UUID, p pagination.Params) ([]ListingDTO, int64, error) {
	return s.toPage(ctx, p, func(ctx context.Context, p pagination.Params) ([]models.Listing, int64, error) {
		return s.repo.ByUser(ctx, userID, p)
	})
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Find(ctx, id, false); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete listing")
	}
	return nil
}

func (s *service) Restore(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := s.Find(ctx, id, true); err != nil {
		return false, err
	}
	restored, err := s.repo.Restore(ctx, id)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: restore listing")
	}
	return restored, nil
}

func (s *service) ForceDelete(ctx context.Context, id uuid.UUID) error {
	listing, err := s.Find(ctx, id, true)
	if err != nil {
		return err
	}
	if !listing.DeletedAt.Valid {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "listing must be deleted before it can be purged")
	}

	var staleKeys []string
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		keys, err := s.media.Clear(ctx, tx, models.AttachmentEntityListing, id, models.CollectionImages)
		if err != nil {
			return err
		}
		staleKeys = keys
		return s.repo.WithTx(tx).HardDelete(ctx, id)
	})
	if err != nil {
		return wrapPersistence(err, "db: purge listing")
	}
	_ = s.media.RemoveStored(ctx, staleKeys)
	return nil
}

func (s *service) Approve(ctx context.Context, id, moderatorID uuid.UUID) (*ListingDTO, error) {
	if moderatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "moderator id is required")
	}
	return s.transition(ctx, id, func(listing *models.Listing) {
		Approve(listing, moderatorID, time.Now().UTC())
	})
}

func (s *service) Reject(ctx context.Context, id, moderatorID uuid.UUID, reason string) (*ListingDTO, error) {
	if moderatorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "moderator id is required")
	}
	return s.transition(ctx, id, func(listing *models.Listing) {
		Reject(listing, reason, time.Now().UTC())
	})
}

func (s *service) Stats(ctx context.Context) (*ListingStats, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count listings")
	}
	pending, err := s.repo.CountByStatus(ctx, enums.ListingStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count pending listings")
	}
	approved, err := s.repo.CountByStatus(ctx, enums.ListingStatusApproved)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count approved listings")
	}
	return &ListingStats{Total: total, Pending: pending, Approved: approved}, nil
}

// transition loads the listing, applies the workflow mutation and saves it
// inside one transaction, then returns the refreshed aggregate.
func (s *service) transition(ctx context.Context, id uuid.UUID, mutate func(*models.Listing)) (*ListingDTO, error) {
	listing, err := s.Find(ctx, id, false)
	if err != nil {
		return nil, err
	}

	mutate(listing)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Save(ctx, listing)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save listing status")
	}

	return s.Details(ctx, id)
}

func (s *service) toPage(ctx context.Context, p pagination.Params, query func(context.Context, pagination.Params) ([]models.Listing, int64, error)) ([]ListingDTO, int64, error) {
	rows, total, err := query(ctx, p)
	if err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list listings")
	}
	dtos := make([]ListingDTO, 0, len(rows))
	for i := range rows {
		dto, err := s.toDTO(ctx, &rows[i])
		if err != nil {
			return nil, 0, err
		}
		dtos = append(dtos, *dto)
	}
	return dtos, total, nil
}

func (s *service) toDTO(ctx context.Context, listing *models.Listing) (*ListingDTO, error) {
	images, err := s.media.URLs(ctx, models.AttachmentEntityListing, listing.ID, models.CollectionImages)
	if err != nil {
		return nil, err
	}
	return NewListingDTO(listing, images), nil
}

func notFoundOrDependency(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: "+action)
}

func wrapPersistence(err error, message string) error {
	if appErr := pkgerrors.As(err); appErr != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
