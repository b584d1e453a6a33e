package listings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trampala/trampala-backend/pkg/db/models"
	"github.com/trampala/trampala-backend/pkg/enums"
	"github.com/trampala/trampala-backend/pkg/pagination"
)

// Repository exposes listing persistence and the paginated query surface.
// Business rules live in the service, queries here only compose filters.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a listing repository bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

type pageQuery struct {
	where    string
	args     []any
	order    string
	approver bool
}

func withRelations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Category").
		Preload("Country").
		Preload("City").
		Preload("District").
		Preload("User")
}

func (r *Repository) page(ctx context.Context, p pagination.Params, pq pageQuery) ([]models.Listing, int64, error) {
	n := p.Normalize()

	count := r.db.WithContext(ctx).Model(&models.Listing{})
	if pq.where != "" {
		count = count.Where(pq.where, pq.args...)
	}
	var total int64
	if err := count.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := withRelations(r.db.WithContext(ctx))
	if pq.approver {
		q = q.Preload("Approver")
	}
	if pq.where != "" {
		q = q.Where(pq.where, pq.args...)
	}

	var rows []models.Listing
	err := q.Order(pq.order).Offset(n.Offset()).Limit(n.PerPage).Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// All returns every listing, newest first.
func (r *Repository) All(ctx context.Context, p pagination.Params) ([]models.Listing, int64, error) {
	return r.page(ctx, p, pageQuery{order: "created_at desc"})
}

// Approved returns the public feed, most recently approved first.
func (r *Repository) Approved(ctx context.Context, p pagination.Params) ([]models.Listing, int64, error) {
	return r.page(ctx, p, pageQuery{
		where: "status = ?",
		args:  []any{enums.ListingStatusApproved},
		order: "approved_at desc",
	})
}

// Pending returns the moderation queue oldest first so reviews stay FIFO.
func (r *Repository) Pending(ctx context.Context, p pagination.Params) ([]models.Listing, int64, error) {
	return r.page(ctx, p, pageQuery{
		where: "status = ?",
		args:  []any{enums.ListingStatusPending},
		order: "created_at asc",
	})
}

// Rejected returns rejected listings, most recently rejected first, with the
// moderator who acted preloaded.
func (r *Repository) Rejected(ctx context.Context, p pagination.Params) ([]models.Listing, int64, error) {
	return r.page(ctx, p, pageQuery{
		where:    "status = ?",
		args:     []any{enums.ListingStatusRejected},
		order:    "rejected_at desc",
		approver: true,
	})
}

// ByUser returns one user's listings, newest first.
func (r *Repository) ByUser(ctx context.Context, userID uuid.UUID, p pagination.Params) ([]models.Listing, int64, error) {
	return r.page(ctx, p, pageQuery{
		where: "user_id = ?",
		args:  []any{userID},
		order: "created_at desc",
	})
}

// FindByID retrieves one listing with relations. includeTrashed lifts the
// soft-delete scope for restore and purge flows.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID, includeTrashed bool) (*models.Listing, error) {
	q := withRelations(r.db.WithContext(ctx)).Preload("Approver")
	if includeTrashed {
		q = q.Unscoped()
	}
	var listing models.Listing
	if err := q.First(&listing, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

// Create persists a new listing row.
func (r *Repository) Create(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Create(listing).Error
}

// Save writes every column of the listing, including cleared nullable fields.
func (r *Repository) Save(ctx context.Context, listing *models.Listing) error {
	return r.db.WithContext(ctx).Save(listing).Error
}

// Delete soft-deletes the listing.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Listing{}).Error
}

// Restore clears the tombstone. It reports false when the listing was not
// soft-deleted, which callers surface as "nothing to restore".
func (r *Repository) Restore(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Unscoped().Model(&models.Listing{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Update("deleted_at", nil)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// HardDelete permanently removes the row, tombstoned or not.
func (r *Repository) HardDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(&models.Listing{}).Error
}

// Count returns the total number of live listings.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Listing{}).Count(&total).Error
	return total, err
}

// CountByStatus returns the number of live listings in one workflow state.
func (r *Repository) CountByStatus(ctx context.Context, status enums.ListingStatus) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Listing{}).
		Where("status = ?", status).
		Count(&total).Error
	return total, err
}
