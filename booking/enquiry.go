package booking

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/maineblanc/booking-engine/pricing"
)

// =============================================================================
// ENQUIRY - Free-form reservation request
// =============================================================================

// Enquiry is a reservation request sent through the contact form: dates,
// accommodation, party, and a message. Nothing is priced or held; the
// campsite answers by email. Accommodation is free-form because the form
// also offers choices with no pricing category (mobile homes).
type Enquiry struct {
	ID string

	LastName   string
	FirstName  string
	Address    string
	PostalCode string
	City       string
	Phone      string
	Email      string
	Message    string

	StartDate     time.Time
	EndDate       time.Time
	Accommodation string

	Adults         int
	ChildrenOver8  int
	ChildrenUnder8 int
	Pets           int

	TentLength    decimal.NullDecimal
	TentWidth     decimal.NullDecimal
	VehicleLength decimal.NullDecimal
	Electricity   pricing.Electricity
	CableLength   decimal.NullDecimal

	CreatedAt time.Time
}

// Validate applies the enquiry form rules. Looser than reservation
// drafts: no stay-length cap and no party-size cap, since the campsite
// answers these by hand.
func (e *Enquiry) Validate(now time.Time) error {
	errs := NewValidationError()

	if e.StartDate.IsZero() || e.EndDate.IsZero() {
		errs.Add("dates", "arrival and departure dates are required")
		return errs
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if e.StartDate.Before(today) {
		errs.Add("start_date", "arrival date cannot be in the past")
	}
	if !e.EndDate.After(e.StartDate) {
		errs.Add("end_date", "departure date must be after the arrival date")
	}

	if e.Accommodation == "" {
		errs.Add("accommodation", "accommodation type is required")
	}
	if e.Adults < 1 {
		errs.Add("adults", "at least one adult is required")
	}

	subtype := pricing.Subtype(e.Accommodation)
	if subtype.IsTentPitch() && (!e.TentLength.Valid || !e.TentWidth.Valid) {
		errs.Add("tent_dimensions", "tent length and width are required for tent pitches")
	}
	if subtype.IsVehiclePitch() {
		if !e.VehicleLength.Valid {
			errs.Add("vehicle_length", "vehicle length is required for caravans, vans and camping-cars")
		}
		if e.Electricity == pricing.ElectricityYes && !e.CableLength.Valid {
			errs.Add("cable_length", "cable length is required when electricity is requested")
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
