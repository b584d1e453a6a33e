package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/trampala/trampala-backend/api/middleware"
	"github.com/trampala/trampala-backend/api/responses"
	"github.com/trampala/trampala-backend/api/validators"
	listingsvc "github.com/trampala/trampala-backend/internal/listings"
	"github.com/trampala/trampala-backend/internal/policy"
	"github.com/trampala/trampala-backend/pkg/config"
	"github.com/trampala/trampala-backend/pkg/logger"
	"github.com/trampala/trampala-backend/pkg/pagination"
	pkgerrors "github.com/trampala/trampala-backend/pkg/errors"
)

// ApprovedListings serves the public feed of approved listings, newest
// approval first.
func ApprovedListings(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return paginatedListings(svc, logg, "listings retrieved", func(svc listingsvc.Service, r *http.Request, p pagination.Params) ([]listingsvc.ListingDTO, int64, error) {
		return svc.Approved(r.Context(), p)
	})
}

// AllListings serves every live listing regardless of status. Admin only.
func AllListings(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return paginatedListings(svc, logg, "listings retrieved", func(svc listingsvc.Service, r *http.Request, p pagination.Params) ([]listingsvc.ListingDTO, int64, error) {
		return svc.All(r.Context(), p)
	})
}

// PendingListings serves the moderation queue in submission order. Admin only.
func PendingListings(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return paginatedListings(svc, logg, "pending listings retrieved", func(svc listingsvc.Service, r *http.Request, p pagination.Params) ([]listingsvc.ListingDTO, int64, error) {
		return svc.Pending(r.Context(), p)
	})
}

// RejectedListings serves rejected listings, most recent rejection first.
// Admin only.
func RejectedListings(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return paginatedListings(svc, logg, "rejected listings retrieved", func(svc listingsvc.Service, r *http.Request, p pagination.Params) ([]listingsvc.ListingDTO, int64, error) {
		return svc.Rejected(r.Context(), p)
	})
}

// MyListings serves the authenticated user's own listings in every status.
func MyListings(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return paginatedListings(svc, logg, "listings retrieved", func(svc listingsvc.Service, r *http.Request, p pagination.Params) ([]listingsvc.ListingDTO, int64, error) {
		actor := middleware.ActorFromContext(r.Context())
		return svc.ByUser(r.Context(), actor.UserID, p)
	})
}

func paginatedListings(svc listingsvc.Service, logg *logger.Logger, message string, fetch func(listingsvc.Service, *http.Request, pagination.Params) ([]listingsvc.ListingDTO, int64, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}
		params, err := validators.PageParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, total, err := fetch(svc, r, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WritePaginated(w, message, items, pagination.Meta(params, total), pagination.Links(r.URL.Path, params, total))
	}
}

// ListingDetails serves one listing. Approved listings are public, everything
// else is visible only to the owner or an admin.
func ListingDetails(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}
		id, err := pathUUID(r, "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listing, err := svc.Find(r.Context(), id, false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor := middleware.ActorFromContext(r.Context())
		if !policy.CanView(actor, listing) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found"))
			return
		}
		dto, err := svc.Details(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "listing retrieved", dto)
	}
}

// CreateListing accepts a multipart form with listing fields and an optional
// image and submits the listing into the moderation queue.
func CreateListing(svc listingsvc.Service, cfg config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}
		upload, err := validators.ImageUpload(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := listingsvc.CreateListingInput{
			Name:        validators.SanitizeString(r.FormValue("name"), 255),
			Description: validators.SanitizeString(r.FormValue("description"), 5000),
			UserID:      middleware.ActorFromContext(r.Context()).UserID,
			Image:       upload,
		}
		if input.CategoryID, err = formUUID(r, "category_uuid"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.CityID, err = formUUID(r, "city_uuid"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.CountryID, err = optionalFormUUID(r, "country_uuid"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if input.DistrictID, err = optionalFormUUID(r, "district_uuid"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, "listing submitted for review", dto)
	}
}

// UpdateListing applies a partial multipart update to a listing the actor
// owns. Fields absent from the form stay untouched, a new image replaces the
// current one.
func UpdateListing(svc listingsvc.Service, cfg config.MediaConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}
		id, err := pathUUID(r, "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listing, err := svc.Find(r.Context(), id, false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor := middleware.ActorFromContext(r.Context())
		if !policy.CanUpdate(actor, listing) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "you may not modify this listing"))
			return
		}

		upload, err := validators.ImageUpload(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := listingsvc.UpdateListingInput{Image: upload}
		if v, ok := formValue(r, "name"); ok {
			name := validators.SanitizeString(v, 255)
			input.Name = &name
		}
		if v, ok := formValue(r, "description"); ok {
			desc := validators.SanitizeString(v, 5000)
			input.Description = &desc
		}
		for _, field := range []struct {
			name string
			dst  **uuid.UUID
		}{
			{"category_uuid", &input.CategoryID},
			{"country_uuid", &input.CountryID},
			{"city_uuid", &input.CityID},
			{"district_uuid", &input.DistrictID},
		} {
			if v, ok := formValue(r, field.name); ok {
				parsed, err := uuid.Parse(v)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, field.name+" must be a valid uuid"))
					return
				}
				*field.dst = &parsed
			}
		}

		dto, err := svc.Update(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "listing updated", dto)
	}
}

// DeleteListing soft deletes a listing the actor owns.
func DeleteListing(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}
		id, err := pathUUID(r, "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		listing, err := svc.Find(r.Context(), id, false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor := middleware.ActorFromContext(r.Context())
		if !policy.CanDelete(actor, listing) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "you may not delete this listing"))
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "listing deleted", nil)
	}
}

// RestoreListing brings a soft deleted listing back. Admin only.
func RestoreListing(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}
		id, err := pathUUID(r, "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		restored, err := svc.Restore(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !restored {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeStateConflict, "listing is not deleted"))
			return
		}
		responses.WriteSuccess(w, "listing restored", nil)
	}
}

// ForceDeleteListing permanently purges a soft deleted listing and its
// images. Admin only.
func ForceDeleteListing(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}
		id, err := pathUUID(r, "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.ForceDelete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "listing permanently deleted", nil)
	}
}

// ApproveListing approves a pending or rejected listing. Admin only.
func ApproveListing(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}
		id, err := pathUUID(r, "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		actor := middleware.ActorFromContext(r.Context())
		dto, err := svc.Approve(r.Context(), id, actor.UserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "listing approved", dto)
	}
}

type rejectListingRequest struct {
	Reason string `json:"reason"`
}

// RejectListing rejects a listing with an optional reason. An empty body or
// blank reason falls back to the default rejection reason. Admin only.
func RejectListing(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}
		id, err := pathUUID(r, "listingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req rejectListingRequest
		if r.Body != nil && r.ContentLength != 0 {
			if err := validators.DecodeJSONBody(r, &req); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		actor := middleware.ActorFromContext(r.Context())
		dto, err := svc.Reject(r.Context(), id, actor.UserID, validators.SanitizeString(req.Reason, 500))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "listing rejected", dto)
	}
}

// ListingStats reports listing totals for the moderation dashboard. Admin
// only.
func ListingStats(svc listingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "listing service unavailable"))
			return
		}
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, "listing stats retrieved", stats)
	}
}

func formValue(r *http.Request, name string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func formUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := validators.SanitizeString(r.FormValue(name), 64)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a valid uuid")
	}
	return id, nil
}

func optionalFormUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := validators.SanitizeString(r.FormValue(name), 64)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, name+" must be a valid uuid")
	}
	return &id, nil
}
