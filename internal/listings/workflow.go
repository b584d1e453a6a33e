package listings

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultRejectionReason is recorded when a moderator rejects without
// supplying a reason.
const DefaultRejectionReason = "Inappropriate content"

// Approvable is the moderation surface of a record that moves through the
// pending/approved/rejected workflow.
type Approvable interface {
	MarkApproved(moderatorID uuid.UUID, at time.Time)
	MarkRejected(reason string, at time.Time)
}

// Approve transitions the record to approved. Repeated calls overwrite the
// previous approval, last write wins.
func Approve(a Approvable, moderatorID uuid.UUID, now time.Time) {
	a.MarkApproved(moderatorID, now)
}

// Reject transitions the record to rejected. A blank reason falls back to
// DefaultRejectionReason.
func Reject(a Approvable, reason string, now time.Time) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = DefaultRejectionReason
	}
	a.MarkRejected(reason, now)
}
