/*
store.go - Persistence interfaces for the reservation domain

PURPOSE:
  Defines the interface between domain logic and the database. Tariffs,
  supplement schedules, and capacity rows are admin-edited configuration:
  read-many, write-rarely, last writer wins. Reservations are the only
  high-churn table and the only one with a transactional contract.

ATOMIC ADMISSION:
  TxReservationStore.WithTx exists so the capacity count and the insert
  run as one atomic unit. Two concurrent requests racing on the same
  dates must not both pass the count-and-compare; see service.go.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store
  - booking/store: in-memory store for testing and development
*/
package booking

import (
	"context"
	"time"

	"github.com/maineblanc/booking-engine/pricing"
)

// =============================================================================
// CONFIGURATION STORES - Admin-edited, read-many/write-rarely
// =============================================================================

// TariffStore persists tariff rows. SaveTariff validates, normalizes the
// derived occupant count, and attaches the shared supplement schedule
// when the row has none. Upsert by (category, season, is_worker) key.
type TariffStore interface {
	pricing.TariffSource

	ListTariffs(ctx context.Context) ([]pricing.Tariff, error)
	SaveTariff(ctx context.Context, t *pricing.Tariff) error
}

// ScheduleStore persists the shared supplement schedule. EnsureSchedule
// returns the first schedule, creating a zero-priced default when none
// exists, so "the" schedule is always available.
type ScheduleStore interface {
	pricing.ScheduleSource

	EnsureSchedule(ctx context.Context) (*pricing.SupplementSchedule, error)
	SaveSchedule(ctx context.Context, s *pricing.SupplementSchedule) error
}

// CapacityReader is the read side of CapacityStore: everything the
// capacity guard needs. GetCapacity returns (nil, nil) when the
// category has no row.
type CapacityReader interface {
	GetCapacity(ctx context.Context, category pricing.Category) (*CapacityRow, error)
}

// CapacityStore persists the per-category occupancy limits.
type CapacityStore interface {
	CapacityReader

	ListCapacities(ctx context.Context) ([]CapacityRow, error)
	SaveCapacity(ctx context.Context, row *CapacityRow) error
}

// =============================================================================
// RESERVATION STORE
// =============================================================================

// ReservationStore persists reservation records. Create assigns the ID
// and timestamps; Update touches UpdatedAt. Both call Normalize and
// attach the shared supplement schedule when absent. There is no Delete:
// records leave only through the retention job.
type ReservationStore interface {
	CreateReservation(ctx context.Context, r *Reservation) error
	UpdateReservation(ctx context.Context, r *Reservation) error
	GetReservation(ctx context.Context, id ReservationID) (*Reservation, error)
	ListReservations(ctx context.Context) ([]Reservation, error)

	// CountOverlapping counts persisted reservations whose subtype is in
	// the given set and whose [start, end) range strictly overlaps the
	// candidate's. exclude removes the candidate's own persisted identity
	// so updates don't count against themselves; pass "" for new records.
	CountOverlapping(ctx context.Context, subtypes []pricing.Subtype, start, end time.Time, exclude ReservationID) (int, error)

	// MarkDepositPaid flips the deposit flag, the one state transition a
	// confirmed reservation goes through.
	MarkDepositPaid(ctx context.Context, id ReservationID) error
}

// AdmissionStore is the view WithTx hands to fn: the reservation
// operations plus the capacity read, all running inside the same
// transaction. The guard must read capacity through this view — a
// read through the outer store from inside fn would not be part of
// the transaction, and on pooled-connection stores it would block on
// the connection the transaction holds.
type AdmissionStore interface {
	ReservationStore
	CapacityReader
}

// TxReservationStore wraps ReservationStore with transaction support for
// the count-then-insert admission sequence.
type TxReservationStore interface {
	ReservationStore

	// WithTx executes fn atomically. If fn returns an error the
	// transaction rolls back.
	WithTx(ctx context.Context, fn func(AdmissionStore) error) error
}

// =============================================================================
// ENQUIRY STORE
// =============================================================================

// EnquiryStore persists free-form reservation requests (no payment, no
// capacity hold; the campsite answers by email).
type EnquiryStore interface {
	CreateEnquiry(ctx context.Context, e *Enquiry) error
	ListEnquiries(ctx context.Context) ([]Enquiry, error)
}

// =============================================================================
// RETENTION STORE
// =============================================================================

// RetentionStore supports the data-retention job over old reservations.
type RetentionStore interface {
	// AnonymizeReservationsBefore blanks the contact fields of
	// reservations created before cutoff. Returns the affected count.
	AnonymizeReservationsBefore(ctx context.Context, cutoff time.Time) (int, error)

	// DeleteReservationsBefore removes reservations created before
	// cutoff. Returns the affected count.
	DeleteReservationsBefore(ctx context.Context, cutoff time.Time) (int, error)
}
