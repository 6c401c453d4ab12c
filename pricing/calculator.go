/*
calculator.go - Quote computation

PURPOSE:
  Turns a reservation request into a Quote: season, nights, base price,
  supplement charges, total, and the 15% deposit collected online.

ALGORITHM:
  1. Resolve the pricing category from the requested subtype
  2. Classify the season from the arrival date
  3. Fetch the non-worker tariff for (category, season); a miss is a
     TariffNotFoundError, not a free stay
  4. Pick the 1- or 2-occupant nightly rate matching the power flag
     (camping-cars always price as 2 occupants)
  5. nights = max(departure - arrival, 1); same-day still prices 1 night
  6. Add per-extra charges from the supplement schedule
  7. Round once at the end, half up, to currency precision

The calculator reads tariffs and schedules through small source
interfaces so tests inject fixtures directly and callers can pin an
explicit schedule instead of relying on the shared one.
*/
package pricing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SOURCES - What the calculator needs from storage
// =============================================================================

// TariffSource resolves a tariff row by its exact key.
// Returns (nil, nil) when no row matches.
type TariffSource interface {
	FindTariff(ctx context.Context, category Category, season Season, isWorker bool) (*Tariff, error)
}

// ScheduleSource resolves the shared supplement schedule.
// Returns (nil, nil) when none is configured.
type ScheduleSource interface {
	FirstSchedule(ctx context.Context) (*SupplementSchedule, error)
}

// =============================================================================
// REQUEST / QUOTE
// =============================================================================

// Request is a reservation-shaped pricing input. The form layer has
// already validated shapes and ranges; the calculator trusts the counts.
type Request struct {
	Subtype     Subtype
	StartDate   time.Time
	EndDate     time.Time
	Electricity Electricity

	Adults         int
	ChildrenOver8  int
	ChildrenUnder8 int
	Pets           int
	ExtraVehicles  int
	ExtraTents     int
}

// Nights returns the billable night count: the calendar difference
// clamped to a minimum of one night.
func (r Request) Nights() int {
	nights := daysBetween(r.StartDate, r.EndDate)
	if nights < 1 {
		return 1
	}
	return nights
}

func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// Quote is a fully priced reservation request.
type Quote struct {
	Category          Category
	Season            Season
	Nights            int
	IncludedOccupants int

	BaseNightly decimal.Decimal
	Base        decimal.Decimal // BaseNightly * Nights
	Supplements decimal.Decimal
	Total       decimal.Decimal
	Deposit     decimal.Decimal
}

// RemainingBalance is the amount still due on arrival.
func (q Quote) RemainingBalance() decimal.Decimal {
	return q.Total.Sub(q.Deposit)
}

// =============================================================================
// CALCULATOR
// =============================================================================

type Calculator struct {
	Tariffs   TariffSource
	Schedules ScheduleSource
}

func NewCalculator(tariffs TariffSource, schedules ScheduleSource) *Calculator {
	return &Calculator{Tariffs: tariffs, Schedules: schedules}
}

// Quote prices a request against the current tariff table and the shared
// supplement schedule.
func (c *Calculator) Quote(ctx context.Context, req Request) (Quote, error) {
	schedule, err := c.Schedules.FirstSchedule(ctx)
	if err != nil {
		return Quote{}, err
	}
	return c.QuoteWithSchedule(ctx, req, schedule)
}

// QuoteWithSchedule prices a request with an explicit supplement schedule.
// A nil schedule applies no per-extra charges.
func (c *Calculator) QuoteWithSchedule(ctx context.Context, req Request, schedule *SupplementSchedule) (Quote, error) {
	category := req.Subtype.Category()
	season := ClassifySeason(req.StartDate)

	tariff, err := c.Tariffs.FindTariff(ctx, category, season, false)
	if err != nil {
		return Quote{}, err
	}
	if tariff == nil {
		return Quote{}, &TariffNotFoundError{Category: category, Season: season}
	}

	// Camping-cars price as two occupants regardless of party size;
	// everyone else gets the 2-person rate only from the second adult.
	included := 1
	if category == CategoryCampingCar || req.Adults >= 2 {
		included = 2
	}

	power := req.Electricity == ElectricityYes
	baseNightly := tariff.basePrice(included, power)

	nights := decimal.NewFromInt(int64(req.Nights()))
	base := baseNightly.Mul(nights)

	supplements := decimal.Zero
	if schedule != nil {
		extraAdults := req.Adults - included
		if extraAdults < 0 {
			extraAdults = 0
		}
		supplements = supplements.
			Add(schedule.ExtraAdultPrice.Mul(decimal.NewFromInt(int64(extraAdults)))).
			Add(schedule.ChildOver8Price.Mul(decimal.NewFromInt(int64(req.ChildrenOver8)))).
			Add(schedule.ChildUnder8Price.Mul(decimal.NewFromInt(int64(req.ChildrenUnder8)))).
			Add(schedule.PetPrice.Mul(decimal.NewFromInt(int64(req.Pets)))).
			Add(nullOrZero(schedule.ExtraVehiclePrice).Mul(decimal.NewFromInt(int64(req.ExtraVehicles)))).
			Add(nullOrZero(schedule.ExtraTentPrice).Mul(decimal.NewFromInt(int64(req.ExtraTents)))).
			Mul(nights)
	}

	total := RoundMoney(base.Add(supplements))
	deposit := RoundMoney(total.Mul(DepositRate))

	return Quote{
		Category:          category,
		Season:            season,
		Nights:            req.Nights(),
		IncludedOccupants: included,
		BaseNightly:       baseNightly,
		Base:              base,
		Supplements:       supplements,
		Total:             total,
		Deposit:           deposit,
	}, nil
}
