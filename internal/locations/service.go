package locations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trampala/trampala-backend/pkg/db/models"
	pkgerrors "github.com/trampala/trampala-backend/pkg/errors"
)

// Service exposes the read-only location hierarchy.
type Service interface {
	Countries(ctx context.Context) ([]models.Country, error)
	Cities(ctx context.Context, countryID uuid.UUID) ([]models.City, error)
	Districts(ctx context.Context, cityID uuid.UUID) ([]models.District, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a location service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("location repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Countries(ctx context.Context) ([]models.Country, error) {
	countries, err := s.repo.ActiveCountries(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list countries")
	}
	return countries, nil
}

func (s *service) Cities(ctx context.Context, countryID uuid.UUID) ([]models.City, error) {
	if _, err := s.repo.CountryByID(ctx, countryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "country not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load country")
	}
	cities, err := s.repo.CitiesForCountry(ctx, countryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list cities")
	}
	return cities, nil
}

func (s *service) Districts(ctx context.Context, cityID uuid.UUID) ([]models.District, error) {
	if _, err := s.repo.CityByID(ctx, cityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "city not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load city")
	}
	districts, err := s.repo.DistrictsForCity(ctx, cityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list districts")
	}
	return districts, nil
}
