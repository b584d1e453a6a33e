package listings

import (
	"fmt"
	"math/rand"
	"time"
)

const (
	uniqueNumberPrefix = "LST"
	// maxNumberAttempts bounds the insert retry loop when a generated
	// reference collides with an existing row.
	maxNumberAttempts = 5
)

// newUniqueNumber produces a candidate reference like LST-2026-042137.
// Uniqueness is enforced by the database constraint on listings.unique_number,
// callers retry on violation.
func newUniqueNumber(now time.Time) string {
	return fmt.Sprintf("%s-%d-%06d", uniqueNumberPrefix, now.Year(), rand.Intn(1000000))
}
