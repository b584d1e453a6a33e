package policy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/trampala/trampala-backend/pkg/db/models"
	"github.com/trampala/trampala-backend/pkg/enums"
)

func TestCanView(t *testing.T) {
	ownerID := uuid.New()
	owner := Actor{UserID: ownerID, Role: enums.UserRoleMember}
	stranger := Actor{UserID: uuid.New(), Role: enums.UserRoleMember}
	admin := Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}

	tests := []struct {
		name    string
		actor   Actor
		status  enums.ListingStatus
		allowed bool
	}{
		{"anyone sees approved", stranger, enums.ListingStatusApproved, true},
		{"stranger blocked from pending", stranger, enums.ListingStatusPending, false},
		{"stranger blocked from rejected", stranger, enums.ListingStatusRejected, false},
		{"owner sees own pending", owner, enums.ListingStatusPending, true},
		{"owner sees own rejected", owner, enums.ListingStatusRejected, true},
		{"admin sees pending", admin, enums.ListingStatusPending, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			listing := &models.Listing{UserID: ownerID, Status: tt.status}
			require.Equal(t, tt.allowed, CanView(tt.actor, listing))
		})
	}

	require.False(t, CanView(admin, nil))
}

func TestOwnerOrAdminPredicates(t *testing.T) {
	ownerID := uuid.New()
	listing := &models.Listing{UserID: ownerID, Status: enums.ListingStatusPending}

	owner := Actor{UserID: ownerID, Role: enums.UserRoleMember}
	stranger := Actor{UserID: uuid.New(), Role: enums.UserRoleMember}
	admin := Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}

	for name, predicate := range map[string]func(Actor, *models.Listing) bool{
		"update":  CanUpdate,
		"delete":  CanDelete,
		"restore": CanRestore,
	} {
		t.Run(name, func(t *testing.T) {
			require.True(t, predicate(owner, listing))
			require.True(t, predicate(admin, listing))
			require.False(t, predicate(stranger, listing))
		})
	}
}

func TestAdminOnlyPredicates(t *testing.T) {
	member := Actor{UserID: uuid.New(), Role: enums.UserRoleMember}
	admin := Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}

	for name, predicate := range map[string]func(Actor) bool{
		"moderate":     CanModerate,
		"force delete": CanForceDelete,
		"view pending": CanViewPending,
		"view stats":   CanViewStats,
	} {
		t.Run(name, func(t *testing.T) {
			require.True(t, predicate(admin))
			require.False(t, predicate(member))
		})
	}
}
