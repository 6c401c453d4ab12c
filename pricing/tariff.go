/*
tariff.go - Tariff rows and their write-time invariants

A Tariff is one row of the campsite's price table, keyed by
(Category, Season, IsWorker). Customer rows carry per-night prices for
one or two occupants, with and without power. Worker rows carry the
weekday and weekend worker rates instead and leave Season empty.

Price fields are nullable on purpose: the admin leaves fields blank
where a rate does not apply (camping-cars have no 1-person rate), and
the calculator treats a blank field as contributing zero.
*/
package pricing

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// TARIFF - One row of the price table
// =============================================================================

type TariffID string

type Tariff struct {
	ID       TariffID
	Category Category
	// Season is empty for worker rows.
	Season   Season
	IsWorker bool

	// Customer rates, per night.
	Price1PersonWithPower    decimal.NullDecimal
	Price2PersonsWithPower   decimal.NullDecimal
	Price1PersonWithoutPower decimal.NullDecimal
	Price2PersonsWithoutPower decimal.NullDecimal

	// Worker rates, per night. Week price includes power.
	WorkerWeekPrice            decimal.NullDecimal
	WorkerWeekendWithPower     decimal.NullDecimal
	WorkerWeekendWithoutPower  decimal.NullDecimal

	// IncludedOccupants is derived at write time, never set by the admin:
	// 2 for camping-cars or when any 2-person price is set, else 1.
	IncludedOccupants int

	// ScheduleID references the shared supplement schedule. Assigned on
	// save when absent.
	ScheduleID ScheduleID
}

// Normalize derives IncludedOccupants. Runs on every save.
func (t *Tariff) Normalize() {
	switch {
	case t.Category == CategoryCampingCar:
		t.IncludedOccupants = 2
	case t.Price2PersonsWithPower.Valid || t.Price2PersonsWithoutPower.Valid:
		t.IncludedOccupants = 2
	default:
		t.IncludedOccupants = 1
	}
}

// Validate enforces write-time business rules. Camping-cars have a single
// fixed rate regardless of one or two occupants, so their 1-person fields
// must stay empty.
func (t *Tariff) Validate() error {
	errs := NewValidationError()

	if !t.Category.Valid() {
		errs.Add("category", "unknown accommodation category")
	}

	if t.Category == CategoryCampingCar {
		if t.Price1PersonWithPower.Valid || t.Price1PersonWithoutPower.Valid {
			errs.Add("category", "camping-car rates are identical for 1 or 2 occupants; leave the 1-person fields empty and use the 2-person fields only")
		}
	}

	if !t.IsWorker && t.Season == "" {
		errs.Add("season", "season is required for non-worker tariffs")
	}

	for field, p := range map[string]decimal.NullDecimal{
		"price_1_person_with_power":     t.Price1PersonWithPower,
		"price_2_persons_with_power":    t.Price2PersonsWithPower,
		"price_1_person_without_power":  t.Price1PersonWithoutPower,
		"price_2_persons_without_power": t.Price2PersonsWithoutPower,
		"worker_week_price":             t.WorkerWeekPrice,
		"worker_weekend_with_power":     t.WorkerWeekendWithPower,
		"worker_weekend_without_power":  t.WorkerWeekendWithoutPower,
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

// basePrice returns the nightly rate for the given occupancy and power
// flag. A blank field prices as zero.
func (t *Tariff) basePrice(includedOccupants int, power bool) decimal.Decimal {
	var p decimal.NullDecimal
	if includedOccupants >= 2 {
		if power {
			p = t.Price2PersonsWithPower
		} else {
			p = t.Price2PersonsWithoutPower
		}
	} else {
		if power {
			p = t.Price1PersonWithPower
		} else {
			p = t.Price1PersonWithoutPower
		}
	}
	if !p.Valid {
		return decimal.Zero
	}
	return p.Decimal
}
