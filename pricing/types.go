/*
Package pricing provides the campsite pricing engine.

PURPOSE:
  This package contains the domain types and algorithms that turn a
  reservation request into a priced quote: season classification,
  category/subtype mapping, tariff and supplement lookup, and the
  total/deposit calculation.

KEY CONCEPTS IN THIS FILE (types.go):
  - Category: the coarse accommodation class used as a pricing and
    capacity key (tent, caravan, camping-car, worker pitch)
  - Subtype: the fine-grained accommodation choice shown to customers,
    mapped many-to-one onto a Category
  - Season: low/mid/high classification of a date (see season.go)
  - Electricity: the with/without power flag carried by requests

DESIGN PRINCIPLES:
  1. Precision: all monetary values are decimal.Decimal, never float
  2. Totality: Subtype.Category() is a total function; no subtype is
     left without a category
  3. No hidden state: the calculator receives its tariff and schedule
     explicitly (see calculator.go)

SEE ALSO:
  - season.go: date to season classification
  - tariff.go: tariff rows and write-time validation
  - calculator.go: quote computation
*/
package pricing

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// CATEGORY - Coarse accommodation class (pricing and capacity key)
// =============================================================================

type Category string

const (
	CategoryTent       Category = "tent"
	CategoryCaravan    Category = "caravan"
	CategoryCampingCar Category = "camping_car"
	// CategoryOther covers the weekend worker pitches. No customer-facing
	// subtype maps to it; its tariff rows are the worker rates.
	CategoryOther Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTent, CategoryCaravan, CategoryCampingCar, CategoryOther:
		return true
	}
	return false
}

// =============================================================================
// SUBTYPE - Customer-facing accommodation choice
// =============================================================================

type Subtype string

const (
	SubtypeTent       Subtype = "tent"
	SubtypeCarTent    Subtype = "car_tent"
	SubtypeCaravan    Subtype = "caravan"
	SubtypeFourgon    Subtype = "fourgon"
	SubtypeVan        Subtype = "van"
	SubtypeCampingCar Subtype = "camping_car"
)

// AllSubtypes lists every customer-facing subtype, in form display order.
var AllSubtypes = []Subtype{
	SubtypeTent, SubtypeCarTent, SubtypeCaravan,
	SubtypeFourgon, SubtypeVan, SubtypeCampingCar,
}

// Category maps a subtype onto its pricing category. Total: unknown
// subtypes fall into CategoryOther rather than failing.
func (s Subtype) Category() Category {
	switch s {
	case SubtypeTent, SubtypeCarTent:
		return CategoryTent
	case SubtypeCaravan, SubtypeFourgon, SubtypeVan:
		return CategoryCaravan
	case SubtypeCampingCar:
		return CategoryCampingCar
	default:
		return CategoryOther
	}
}

// Siblings returns every subtype sharing this subtype's category.
// Capacity counting is done over sibling sets, not single subtypes.
func (s Subtype) Siblings() []Subtype {
	cat := s.Category()
	var out []Subtype
	for _, st := range AllSubtypes {
		if st.Category() == cat {
			out = append(out, st)
		}
	}
	return out
}

func (s Subtype) Valid() bool {
	return s.Category() != CategoryOther
}

// IsTentPitch reports whether the subtype requires tent dimensions.
func (s Subtype) IsTentPitch() bool {
	return s == SubtypeTent || s == SubtypeCarTent
}

// IsVehiclePitch reports whether the subtype requires a vehicle length.
func (s Subtype) IsVehiclePitch() bool {
	switch s {
	case SubtypeCaravan, SubtypeFourgon, SubtypeVan, SubtypeCampingCar:
		return true
	}
	return false
}

// =============================================================================
// SEASON
// =============================================================================

type Season string

const (
	SeasonLow  Season = "low"
	SeasonMid  Season = "mid"
	SeasonHigh Season = "high"
)

// =============================================================================
// ELECTRICITY - With/without power flag, as the form layer sends it
// =============================================================================

type Electricity string

const (
	ElectricityYes Electricity = "yes"
	ElectricityNo  Electricity = "no"
)

func (e Electricity) Valid() bool { return e == ElectricityYes || e == ElectricityNo }

// =============================================================================
// MONEY HELPERS
// =============================================================================

// DepositRate is the fraction of the total collected online at booking time.
var DepositRate = decimal.NewFromFloat(0.15)

// RoundMoney rounds to currency precision, half up, applied once at the
// end of a computation rather than per line item.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// MustDecimal parses a decimal string, returning zero on bad input.
// For fixtures and configuration defaults.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
