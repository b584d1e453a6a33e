package listings

import (
	"time"

	"github.com/google/uuid"

	"github.com/trampala/trampala-backend/internal/media"
	"github.com/trampala/trampala-backend/pkg/db/models"
)

// RefDTO is a compact reference to a taxonomy record.
type RefDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug,omitempty"`
}

// PersonDTO is a compact reference to a user.
type PersonDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ListingDTO is the wire representation of a listing aggregate.
type ListingDTO struct {
	ID              uuid.UUID        `json:"id"`
	UniqueNumber    string           `json:"unique_number"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Status          string           `json:"status"`
	Category        *RefDTO          `json:"category,omitempty"`
	Country         *RefDTO          `json:"country,omitempty"`
	City            *RefDTO          `json:"city,omitempty"`
	District        *RefDTO          `json:"district,omitempty"`
	Owner           *PersonDTO       `json:"owner,omitempty"`
	Approver        *PersonDTO       `json:"approver,omitempty"`
	ApprovedAt      *time.Time       `json:"approved_at,omitempty"`
	RejectedAt      *time.Time       `json:"rejected_at,omitempty"`
	RejectionReason *string          `json:"rejection_reason,omitempty"`
	Images          []media.ImageDTO `json:"images"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ListingStats carries the moderation dashboard counters.
type ListingStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
}

// NewListingDTO maps a loaded listing and its resolved images onto the wire
// shape.
func NewListingDTO(listing *models.Listing, images []media.ImageDTO) *ListingDTO {
	if listing == nil {
		return nil
	}
	if images == nil {
		images = []media.ImageDTO{}
	}

	dto := &ListingDTO{
		ID:              listing.ID,
		UniqueNumber:    listing.UniqueNumber,
		Name:            listing.Name,
		Description:     listing.Description,
		Status:          listing.Status.String(),
		ApprovedAt:      listing.ApprovedAt,
		RejectedAt:      listing.RejectedAt,
		RejectionReason: listing.RejectionReason,
		Images:          images,
		CreatedAt:       listing.CreatedAt,
		UpdatedAt:       listing.UpdatedAt,
	}

	if listing.Category != nil {
		dto.Category = &RefDTO{ID: listing.Category.ID, Name: listing.Category.Name, Slug: listing.Category.Slug}
	}
	if listing.Country != nil {
		dto.Country = &RefDTO{ID: listing.Country.ID, Name: listing.Country.Name}
	}
	if listing.City != nil {
		dto.City = &RefDTO{ID: listing.City.ID, Name: listing.City.Name}
	}
	if listing.District != nil {
		dto.District = &RefDTO{ID: listing.District.ID, Name: listing.District.Name}
	}
	if listing.User != nil {
		dto.Owner = &PersonDTO{ID: listing.User.ID, Name: listing.User.Name, Email: listing.User.Email}
	}
	if listing.Approver != nil {
		dto.Approver = &PersonDTO{ID: listing.Approver.ID, Name: listing.Approver.Name, Email: listing.Approver.Email}
	}
	return dto
}
