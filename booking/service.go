/*
service.go - Reservation admission

Admit is the one write path for new reservations: validate the draft,
then run the capacity count and the insert inside a single store
transaction. The count-and-compare and the insert used to be two
independent steps, which let two concurrent requests both pass the check
and both persist; wrapping them in WithTx closes that window.
*/
package booking

import (
	"context"
	"time"
)

// Service coordinates draft validation, capacity checking, and persistence.
type Service struct {
	Capacities   CapacityStore
	Reservations TxReservationStore

	// Now anchors "arrival not in the past" validation. Overridable in
	// tests; defaults to time.Now.
	Now func() time.Time
}

func NewService(capacities CapacityStore, reservations TxReservationStore) *Service {
	return &Service{
		Capacities:   capacities,
		Reservations: reservations,
		Now:          time.Now,
	}
}

// Admit validates the draft and, atomically, checks capacity and persists
// the reservation. On success the reservation carries its assigned ID and
// timestamps.
func (s *Service) Admit(ctx context.Context, r *Reservation) error {
	if err := r.Validate(s.Now()); err != nil {
		return err
	}

	return s.Reservations.WithTx(ctx, func(txStore AdmissionStore) error {
		guard := NewGuard(txStore, txStore)
		if err := guard.Check(ctx, r); err != nil {
			return err
		}
		return txStore.CreateReservation(ctx, r)
	})
}

// Update revalidates and re-checks capacity for an already persisted
// reservation, excluding its own identity from the overlap count, then
// saves in the same transaction.
func (s *Service) Update(ctx context.Context, r *Reservation) error {
	if err := r.Validate(s.Now()); err != nil {
		return err
	}

	return s.Reservations.WithTx(ctx, func(txStore AdmissionStore) error {
		guard := NewGuard(txStore, txStore)
		if err := guard.Check(ctx, r); err != nil {
			return err
		}
		return txStore.UpdateReservation(ctx, r)
	})
}

// CheckAvailability runs the capacity guard without persisting anything.
// Used by the form wizard before it lets the customer continue.
func (s *Service) CheckAvailability(ctx context.Context, r *Reservation) error {
	guard := NewGuard(s.Capacities, s.Reservations)
	return guard.Check(ctx, r)
}
