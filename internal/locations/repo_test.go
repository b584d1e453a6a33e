package locations

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/trampala/trampala-backend/pkg/db/models"
	pkgerrors "github.com/trampala/trampala-backend/pkg/errors"
)

func setupLocationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	countries := `
CREATE TABLE IF NOT EXISTS countries (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  locale TEXT NOT NULL,
  currency_code TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	cities := `
CREATE TABLE IF NOT EXISTS cities (
  id TEXT PRIMARY KEY,
  country_id TEXT NOT NULL,
  name TEXT NOT NULL,
  plate_code TEXT NOT NULL UNIQUE,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`
	districts := `
CREATE TABLE IF NOT EXISTS districts (
  id TEXT PRIMARY KEY,
  city_id TEXT NOT NULL,
  name TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME,
  deleted_at DATETIME
);`
	require.NoError(t, db.Exec(countries).Error)
	require.NoError(t, db.Exec(cities).Error)
	require.NoError(t, db.Exec(districts).Error)
	return db
}

func seedHierarchy(t *testing.T, db *gorm.DB) (*models.Country, *models.City) {
	t.Helper()
	country := &models.Country{
		Code:         "TR",
		Name:         "Turkiye",
		Locale:       "tr_TR",
		CurrencyCode: "TRY",
		IsActive:     true,
	}
	require.NoError(t, db.Create(country).Error)

	city := &models.City{
		CountryID: country.ID,
		Name:      "Istanbul",
		PlateCode: "34",
		IsActive:  true,
	}
	require.NoError(t, db.Create(city).Error)

	for _, name := range []string{"Kadikoy", "Besiktas"} {
		district := &models.District{CityID: city.ID, Name: name, IsActive: true}
		require.NoError(t, db.Create(district).Error)
	}
	hidden := &models.District{CityID: city.ID, Name: "Hidden", IsActive: false}
	require.NoError(t, db.Create(hidden).Error)

	return country, city
}

func TestHierarchyListingActiveScopedAndOrdered(t *testing.T) {
	db := setupLocationsTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	country, city := seedHierarchy(t, db)
	inactive := &models.Country{Code: "XX", Name: "Nowhere", Locale: "en_US", CurrencyCode: "USD", IsActive: false}
	require.NoError(t, db.Create(inactive).Error)

	countries, err := svc.Countries(ctx)
	require.NoError(t, err)
	require.Len(t, countries, 1)
	require.Equal(t, "TR", countries[0].Code)

	cities, err := svc.Cities(ctx, country.ID)
	require.NoError(t, err)
	require.Len(t, cities, 1)
	require.Equal(t, "Istanbul", cities[0].Name)

	districts, err := svc.Districts(ctx, city.ID)
	require.NoError(t, err)
	require.Len(t, districts, 2)
	require.Equal(t, "Besiktas", districts[0].Name)
	require.Equal(t, "Kadikoy", districts[1].Name)
}

func TestHierarchyMissingParents(t *testing.T) {
	db := setupLocationsTestDB(t)
	repo := NewRepository(db)
	svc, err := NewService(repo)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Cities(ctx, uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())

	_, err = svc.Districts(ctx, uuid.New())
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
