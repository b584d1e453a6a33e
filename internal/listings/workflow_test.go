package listings

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/trampala/trampala-backend/pkg/db/models"
	"github.com/trampala/trampala-backend/pkg/enums"
)

func TestApproveClearsRejectionFields(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	reason := "spam"
	rejectedAt := now.Add(-time.Hour)
	listing := &models.Listing{
		Status:          enums.ListingStatusRejected,
		RejectionReason: &reason,
		RejectedAt:      &rejectedAt,
	}

	moderator := uuid.New()
	Approve(listing, moderator, now)

	require.Equal(t, enums.ListingStatusApproved, listing.Status)
	require.Equal(t, moderator, *listing.ApprovedBy)
	require.Equal(t, now, *listing.ApprovedAt)
	require.Nil(t, listing.RejectionReason)
	require.Nil(t, listing.RejectedAt)
}

func TestRejectClearsApprovalFields(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	moderator := uuid.New()
	approvedAt := now.Add(-time.Hour)
	listing := &models.Listing{
		Status:     enums.ListingStatusApproved,
		ApprovedBy: &moderator,
		ApprovedAt: &approvedAt,
	}

	Reject(listing, "duplicate", now)

	require.Equal(t, enums.ListingStatusRejected, listing.Status)
	require.Equal(t, "duplicate", *listing.RejectionReason)
	require.Equal(t, now, *listing.RejectedAt)
	require.Nil(t, listing.ApprovedBy)
	require.Nil(t, listing.ApprovedAt)
}

func TestRejectDefaultsReason(t *testing.T) {
	listing := &models.Listing{Status: enums.ListingStatusPending}

	Reject(listing, "   ", time.Now())

	require.Equal(t, DefaultRejectionReason, *listing.RejectionReason)
}

func TestNewUniqueNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^LST-\d{4}-\d{6}$`)
	now := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 50; i++ {
		number := newUniqueNumber(now)
		require.Regexp(t, pattern, number)
		require.Contains(t, number, "LST-2026-")
	}
}
