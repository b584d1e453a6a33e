package controllers

import (
	"net/http"

	"github.com/trampala/trampala-backend/api/responses"
	locationsvc "github.com/trampala/trampala-backend/internal/locations"
	"github.com/trampala/trampala-backend/pkg/logger"
)

// ListCountries returns the active countries.
func ListCountries(svc locationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		countries, err := svc.Countries(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "countries retrieved", countries)
	}
}

// ListCities returns a country's active cities.
func ListCities(svc locationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		countryID, err := pathUUID(r, "countryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cities, err := svc.Cities(r.Context(), countryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "cities retrieved", cities)
	}
}

// ListDistricts returns a city's active districts.
func ListDistricts(svc locationsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cityID, err := pathUUID(r, "cityId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		districts, err := svc.Districts(r.Context(), cityID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "districts retrieved", districts)
	}
}
