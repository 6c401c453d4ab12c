package booking

import (
	"context"
	"time"
)

// =============================================================================
// RETENTION - 10-year anonymize-or-delete job
// =============================================================================

// RetentionYears is how long reservation records keep their personal data.
const RetentionYears = 10

// Anonymized is the placeholder written over contact fields.
const (
	AnonymizedName  = "Anonymous"
	AnonymizedEmail = "anonymous@example.com"
	AnonymizedPhone = "0000000000"
)

// RetentionResult reports what a retention run did.
type RetentionResult struct {
	Cutoff     time.Time
	Anonymized int
	Deleted    int
}

// RunRetention processes reservations created more than RetentionYears
// ago. When anonymize is true, contact fields are blanked and the
// records kept for occupancy history; otherwise the records are deleted.
func RunRetention(ctx context.Context, store RetentionStore, now time.Time, anonymize bool) (RetentionResult, error) {
	cutoff := now.AddDate(-RetentionYears, 0, 0)
	result := RetentionResult{Cutoff: cutoff}

	var err error
	if anonymize {
		result.Anonymized, err = store.AnonymizeReservationsBefore(ctx, cutoff)
	} else {
		result.Deleted, err = store.DeleteReservationsBefore(ctx, cutoff)
	}
	return result, err
}
