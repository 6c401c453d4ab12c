/*
Package booking provides the reservation domain: the persisted
reservation record, draft validation, the capacity guard that prevents
overbooking, and the admission service that ties them together.

LIFECYCLE:
  A reservation starts as an unpersisted draft held by the form wizard's
  session. Once validated, capacity-checked, and paid, it is persisted
  with DepositPaid set. The only mutations after that are marking the
  deposit paid and admin edits; records are never deleted by the normal
  flow (see retention.go for the 10-year job).

On every persist the record recomputes its category from its subtype and
is assigned the shared supplement schedule if it has none. Stores call
Normalize to enforce this.
*/
package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/maineblanc/booking-engine/pricing"
)

// =============================================================================
// RESERVATION - Persisted booking record
// =============================================================================

type ReservationID string

type Reservation struct {
	ID ReservationID

	// Customer contact.
	LastName   string
	FirstName  string
	Address    string
	PostalCode string
	City       string
	Phone      string
	Email      string

	// Stay.
	StartDate   time.Time
	EndDate     time.Time
	Subtype     pricing.Subtype
	Category    pricing.Category // derived from Subtype on every save
	Electricity pricing.Electricity

	// Party.
	Adults         int
	ChildrenOver8  int
	ChildrenUnder8 int
	Pets           int
	ExtraVehicles  int
	ExtraTents     int

	// Dimensions, required conditionally by subtype.
	TentLength    decimal.NullDecimal
	TentWidth     decimal.NullDecimal
	VehicleLength decimal.NullDecimal
	CableLength   decimal.NullDecimal // required iff electricity

	DepositPaid bool
	ScheduleID  pricing.ScheduleID // snapshot reference, assigned if absent

	// System-assigned, immutable by the customer.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Normalize recomputes the derived category and must run on every persist,
// insert or update, so the stored category never drifts from the subtype.
// The supplement schedule is assigned by the store when absent, since only
// the store knows which schedule exists.
func (r *Reservation) Normalize() {
	r.Category = r.Subtype.Category()
}

// PricingRequest converts the reservation into the calculator's input.
// Pricing is recomputed live from current tariffs; totals are not frozen
// into the record at booking time.
func (r *Reservation) PricingRequest() pricing.Request {
	return pricing.Request{
		Subtype:        r.Subtype,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		Electricity:    r.Electricity,
		Adults:         r.Adults,
		ChildrenOver8:  r.ChildrenOver8,
		ChildrenUnder8: r.ChildrenUnder8,
		Pets:           r.Pets,
		ExtraVehicles:  r.ExtraVehicles,
		ExtraTents:     r.ExtraTents,
	}
}

// Overlaps reports strict half-open interval overlap with [start, end).
// Same-day checkout/checkin does not overlap.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return r.StartDate.Before(end) && r.EndDate.After(start)
}

// =============================================================================
// DRAFT VALIDATION
// =============================================================================

// MaxStayNights is the longest accepted stay; longer requests are asked
// to contact the campsite directly.
const MaxStayNights = 21

// MaxPeople is the largest party a single pitch accepts.
const MaxPeople = 6

// Validate enforces the booking-form business rules on a draft before it
// enters the capacity check. now anchors the "arrival not in the past"
// rule; pass the current date.
func (r *Reservation) Validate(now time.Time) error {
	errs := NewValidationError()

	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		errs.Add("dates", "arrival and departure dates are required")
		return errs
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if r.StartDate.Before(today) {
		errs.Add("start_date", "arrival date cannot be in the past")
	}
	if !r.EndDate.After(r.StartDate) {
		errs.Add("end_date", "departure date must be after the arrival date")
	}
	if nights := int(r.EndDate.Sub(r.StartDate).Hours() / 24); nights > MaxStayNights {
		errs.Add("end_date", "the maximum stay is 3 weeks; please contact the campsite for longer stays")
	}

	if !r.Subtype.Valid() {
		errs.Add("subtype", "unknown accommodation type")
	}
	if !r.Electricity.Valid() {
		errs.Add("electricity", "electricity must be yes or no")
	}

	if r.Adults < 1 {
		errs.Add("adults", "at least one adult is required")
	}
	if r.ChildrenOver8 < 0 || r.ChildrenUnder8 < 0 || r.Pets < 0 || r.ExtraVehicles < 0 || r.ExtraTents < 0 {
		errs.Add("counts", "counts cannot be negative")
	}
	if r.Adults+r.ChildrenOver8+r.ChildrenUnder8 > MaxPeople {
		errs.Add("adults", "a pitch accepts at most 6 people; please contact the campsite for larger groups")
	}

	if r.Subtype.IsTentPitch() {
		if !r.TentLength.Valid {
			errs.Add("tent_length", "tent length is required for tent pitches")
		}
		if !r.TentWidth.Valid {
			errs.Add("tent_width", "tent width is required for tent pitches")
		}
	}
	if r.Subtype.IsVehiclePitch() && !r.VehicleLength.Valid {
		errs.Add("vehicle_length", "vehicle length is required for caravans, vans and camping-cars")
	}
	if r.Electricity == pricing.ElectricityYes && !r.CableLength.Valid {
		errs.Add("cable_length", "cable length is required when electricity is requested")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// =============================================================================
// CAPACITY ROW - Max concurrent occupancy per category
// =============================================================================

type CapacityRow struct {
	Category      pricing.Category
	MaxConcurrent int

	// Display-only counts, never enforced.
	NumberLocations   int
	NumberMobileHomes int
}

func (c *CapacityRow) Validate() error {
	errs := NewValidationError()
	if !c.Category.Valid() {
		errs.Add("category", "unknown accommodation category")
	}
	if c.MaxConcurrent < 1 {
		errs.Add("max_concurrent", "maximum concurrent occupancy must be at least 1")
	}
	if c.NumberLocations < 0 || c.NumberMobileHomes < 0 {
		errs.Add("counts", "counts cannot be negative")
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}
