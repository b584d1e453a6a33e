package listings

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/trampala/trampala-backend/pkg/db/models"
	"github.com/trampala/trampala-backend/pkg/enums"
	"github.com/trampala/trampala-backend/pkg/pagination"
)

func setupListingsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL DEFAULT '',
  role TEXT NOT NULL DEFAULT 'member',
  is_active BOOLEAN NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  slug TEXT NOT NULL UNIQUE,
  description TEXT,
  is_active BOOLEAN NOT NULL DEFAULT 1,
  parent_id TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS countries (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  locale TEXT NOT NULL DEFAULT '',
  currency_code TEXT NOT NULL DEFAULT '',
  is_active BOOLEAN NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS cities (
  id TEXT PRIMARY KEY,
  country_id TEXT NOT NULL,
  name TEXT NOT NULL,
  plate_code TEXT NOT NULL UNIQUE,
  is_active BOOLEAN NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS districts (
  id TEXT PRIMARY KEY,
  city_id TEXT NOT NULL,
  name TEXT NOT NULL,
  is_active BOOLEAN NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS listings (
  id TEXT PRIMARY KEY,
  unique_number TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  category_id TEXT NOT NULL,
  country_id TEXT,
  city_id TEXT NOT NULL,
  district_id TEXT,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  approved_by TEXT,
  approved_at DATETIME,
  rejected_at DATETIME,
  rejection_reason TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

var listingSeq int

func seedListing(t *testing.T, db *gorm.DB, mutate func(*models.Listing)) *models.Listing {
	t.Helper()
	listingSeq++
	listing := &models.Listing{
		ID:           uuid.New(),
		UniqueNumber: fmt.Sprintf("LST-2026-%06d", listingSeq),
		Name:         fmt.Sprintf("listing %d", listingSeq),
		Description:  "a description",
		CategoryID:   uuid.New(),
		CityID:       uuid.New(),
		UserID:       uuid.New(),
		Status:       enums.ListingStatusPending,
	}
	if mutate != nil {
		mutate(listing)
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}

func TestRepositoryApprovedOrdersByApprovalDesc(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	old := seedListing(t, db, func(l *models.Listing) {
		l.Status = enums.ListingStatusApproved
		at := base
		l.ApprovedAt = &at
	})
	recent := seedListing(t, db, func(l *models.Listing) {
		l.Status = enums.ListingStatusApproved
		at := base.Add(48 * time.Hour)
		l.ApprovedAt = &at
	})
	seedListing(t, db, nil) // pending, excluded

	rows, total, err := repo.Approved(ctx, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, rows, 2)
	require.Equal(t, recent.ID, rows[0].ID)
	require.Equal(t, old.ID, rows[1].ID)
}

func TestRepositoryPendingIsFIFO(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	second := seedListing(t, db, func(l *models.Listing) { l.CreatedAt = base.Add(time.Hour) })
	first := seedListing(t, db, func(l *models.Listing) { l.CreatedAt = base })

	rows, total, err := repo.Pending(ctx, pagination.Params{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Equal(t, first.ID, rows[0].ID)
	require.Equal(t, second.ID, rows[1].ID)
}

func TestRepositoryByUserPaginates(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	owner := uuid.New()
	for i := 0; i < 3; i++ {
		seedListing(t, db, func(l *models.Listing) {
			l.UserID = owner
			l.CreatedAt = time.Date(2026, 8, 1+i, 0, 0, 0, 0, time.UTC)
		})
	}
	seedListing(t, db, nil) // someone else's

	rows, total, err := repo.ByUser(ctx, owner, pagination.Params{Page: 1, PerPage: 2})
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, rows, 2)
	require.True(t, rows[0].CreatedAt.After(rows[1].CreatedAt))

	rows, _, err = repo.ByUser(ctx, owner, pagination.Params{Page: 2, PerPage: 2})
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestRepositoryFindByIDRespectsTombstone(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	listing := seedListing(t, db, nil)
	require.NoError(t, repo.Delete(ctx, listing.ID))

	_, err := repo.FindByID(ctx, listing.ID, false)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	found, err := repo.FindByID(ctx, listing.ID, true)
	require.NoError(t, err)
	require.True(t, found.DeletedAt.Valid)
}

func TestRepositoryRestore(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	listing := seedListing(t, db, nil)

	restored, err := repo.Restore(ctx, listing.ID)
	require.NoError(t, err)
	require.False(t, restored, "restoring a live listing reports false")

	require.NoError(t, repo.Delete(ctx, listing.ID))

	restored, err = repo.Restore(ctx, listing.ID)
	require.NoError(t, err)
	require.True(t, restored)

	found, err := repo.FindByID(ctx, listing.ID, false)
	require.NoError(t, err)
	require.False(t, found.DeletedAt.Valid)
}

func TestRepositoryCounts(t *testing.T) {
	db := setupListingsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedListing(t, db, nil)
	seedListing(t, db, func(l *models.Listing) { l.Status = enums.ListingStatusApproved })
	rejected := seedListing(t, db, func(l *models.Listing) { l.Status = enums.ListingStatusRejected })
	require.NoError(t, repo.Delete(ctx, rejected.ID))

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, total, "soft-deleted listings are not counted")

	pending, err := repo.CountByStatus(ctx, enums.ListingStatusPending)
	require.NoError(t, err)
	require.EqualValues(t, 1, pending)
}
