package policy

import (
	"github.com/google/uuid"

	"github.com/trampala/trampala-backend/pkg/db/models"
	"github.com/trampala/trampala-backend/pkg/enums"
)

// Actor is the authenticated principal a request acts as.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

func (a Actor) owns(listing *models.Listing) bool {
	return listing != nil && listing.UserID == a.UserID
}

// CanView allows anyone to see approved listings, otherwise only the owner
// or an admin.
func CanView(actor Actor, listing *models.Listing) bool {
	if listing == nil {
		return false
	}
	if listing.Status == enums.ListingStatusApproved {
		return true
	}
	return actor.owns(listing) || actor.IsAdmin()
}

// CanUpdate allows the owner or an admin.
func CanUpdate(actor Actor, listing *models.Listing) bool {
	return actor.owns(listing) || actor.IsAdmin()
}

// CanDelete allows the owner or an admin.
func CanDelete(actor Actor, listing *models.Listing) bool {
	return actor.owns(listing) || actor.IsAdmin()
}

// CanRestore allows the owner or an admin.
func CanRestore(actor Actor, listing *models.Listing) bool {
	return actor.owns(listing) || actor.IsAdmin()
}

// CanModerate gates approve and reject to admins.
func CanModerate(actor Actor) bool {
	return actor.IsAdmin()
}

// CanForceDelete gates permanent removal to admins.
func CanForceDelete(actor Actor) bool {
	return actor.IsAdmin()
}

// CanViewPending gates the moderation queue to admins.
func CanViewPending(actor Actor) bool {
	return actor.IsAdmin()
}

// CanViewStats gates the moderation counters to admins.
func CanViewStats(actor Actor) bool {
	return actor.IsAdmin()
}
