/*
capacity.go - The capacity guard

Admission control for pitches: a category with maxConcurrent = N permits
up to N simultaneously overlapping reservations, not N total. Overlap is
strict half-open: an existing stay ending the day a candidate arrives
does not block it (checkout morning, checkin afternoon).

The guard itself is read-only and takes no locks; atomicity against
racing requests comes from running it inside the store transaction that
also inserts the record (see service.go).
*/
package booking

import (
	"context"
)

// Guard checks whether admitting a candidate reservation would exceed
// the configured capacity for its category.
type Guard struct {
	Capacities   CapacityReader
	Reservations ReservationStore
}

func NewGuard(capacities CapacityReader, reservations ReservationStore) *Guard {
	return &Guard{Capacities: capacities, Reservations: reservations}
}

// Check returns nil when the candidate fits, ErrCapacityExceeded when the
// dates are full, and ErrCapacityUndefined when the category has no
// configured limit. Both dates must be set.
func (g *Guard) Check(ctx context.Context, candidate *Reservation) error {
	if candidate.StartDate.IsZero() || candidate.EndDate.IsZero() {
		return ErrMissingDates
	}

	category := candidate.Subtype.Category()
	row, err := g.Capacities.GetCapacity(ctx, category)
	if err != nil {
		return err
	}
	if row == nil {
		return &CapacityUndefinedError{Category: category}
	}

	overlapping, err := g.Reservations.CountOverlapping(ctx,
		candidate.Subtype.Siblings(),
		candidate.StartDate, candidate.EndDate,
		candidate.ID)
	if err != nil {
		return err
	}

	if overlapping >= row.MaxConcurrent {
		return &CapacityExceededError{
			Category:      category,
			StartDate:     candidate.StartDate,
			EndDate:       candidate.EndDate,
			MaxConcurrent: row.MaxConcurrent,
			Overlapping:   overlapping,
		}
	}
	return nil
}
