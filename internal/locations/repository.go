package locations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trampala/trampala-backend/pkg/db/models"
)

// Repository wraps read access to the location hierarchy. Locations are
// seeded by migrations and never mutated through the API.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ActiveCountries lists active countries ordered by name.
func (r *Repository) ActiveCountries(ctx context.Context) ([]models.Country, error) {
	var countries []models.Country
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name asc").
		Find(&countries).
		Error
	if err != nil {
		return nil, err
	}
	return countries, nil
}

// CountryByID loads a single country.
func (r *Repository) CountryByID(ctx context.Context, id uuid.UUID) (*models.Country, error) {
	var country models.Country
	if err := r.db.WithContext(ctx).First(&country, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &country, nil
}

// CitiesForCountry lists the active cities of a country ordered by name.
func (r *Repository) CitiesForCountry(ctx context.Context, countryID uuid.UUID) ([]models.City, error) {
	var cities []models.City
	err := r.db.WithContext(ctx).
		Where("country_id = ? AND is_active = ?", countryID, true).
		Order("name asc").
		Find(&cities).
		Error
	if err != nil {
		return nil, err
	}
	return cities, nil
}

// CityByID loads a single city.
func (r *Repository) CityByID(ctx context.Context, id uuid.UUID) (*models.City, error) {
	var city models.City
	if err := r.db.WithContext(ctx).First(&city, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &city, nil
}

// DistrictsForCity lists the active districts of a city ordered by name.
func (r *Repository) DistrictsForCity(ctx context.Context, cityID uuid.UUID) ([]models.District, error) {
	var districts []models.District
	err := r.db.WithContext(ctx).
		Where("city_id = ? AND is_active = ?", cityID, true).
		Order("name asc").
		Find(&districts).
		Error
	if err != nil {
		return nil, err
	}
	return districts, nil
}

// DistrictByID loads a single district.
func (r *Repository) DistrictByID(ctx context.Context, id uuid.UUID) (*models.District, error) {
	var district models.District
	if err := r.db.WithContext(ctx).First(&district, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &district, nil
}
