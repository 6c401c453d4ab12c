package pricing

import "github.com/shopspring/decimal"

// =============================================================================
// SUPPLEMENT SCHEDULE - Shared per-extra prices
// =============================================================================

type ScheduleID string

// SupplementSchedule holds the campsite's per-extra prices. The site runs
// a single shared schedule: stores guarantee one exists (creating a
// zero-priced default when none does) and "the" schedule is the first row
// found. Visitor prices are informational and never enter the deposit.
type SupplementSchedule struct {
	ID ScheduleID

	ExtraAdultPrice   decimal.Decimal
	ChildOver8Price   decimal.Decimal
	ChildUnder8Price  decimal.Decimal
	PetPrice          decimal.Decimal
	ExtraVehiclePrice decimal.NullDecimal
	ExtraTentPrice    decimal.NullDecimal

	VisitorPriceWithoutPool decimal.NullDecimal
	VisitorPriceWithPool    decimal.NullDecimal
}

// Validate rejects negative prices. Zero is fine; a new schedule starts
// all-zero.
func (s *SupplementSchedule) Validate() error {
	errs := NewValidationError()

	for field, p := range map[string]decimal.Decimal{
		"extra_adult_price":   s.ExtraAdultPrice,
		"child_over_8_price":  s.ChildOver8Price,
		"child_under_8_price": s.ChildUnder8Price,
		"pet_price":           s.PetPrice,
	} {
		if p.IsNegative() {
			errs.Add(field, "price cannot be negative")
		}
	}
	for field, p := range map[string]decimal.NullDecimal{
		"extra_vehicle_price":        s.ExtraVehiclePrice,
		"extra_tent_price":           s.ExtraTentPrice,
		"visitor_price_without_pool": s.VisitorPriceWithoutPool,
		"visitor_price_with_pool":    s.VisitorPriceWithPool,
	} {
		if p.Valid && p.Decimal.IsNegative() {
			errs.Add(field, "price cannot be negative")
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

func nullOrZero(p decimal.NullDecimal) decimal.Decimal {
	if !p.Valid {
		return decimal.Zero
	}
	return p.Decimal
}
