package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maineblanc/booking-engine/pricing"
)

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: pricing.MustDecimal(s), Valid: true}
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestTariff_Validate_CampingCarRejects1PersonPrices(t *testing.T) {
	// GIVEN: A camping-car tariff with a 1-person price filled in
	// WHEN: Validating before save
	// THEN: The write is rejected; camping-cars price identically for 1 or 2

	tariff := &pricing.Tariff{
		Category:              pricing.CategoryCampingCar,
		Season:                pricing.SeasonMid,
		Price1PersonWithPower: nd("18.00"),
	}

	err := tariff.Validate()
	require.Error(t, err)

	var verr *pricing.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "category")
	assert.True(t, pricing.IsClientError(err))
}

func TestTariff_Validate_CampingCar2PersonOnlyAccepted(t *testing.T) {
	tariff := &pricing.Tariff{
		Category:               pricing.CategoryCampingCar,
		Season:                 pricing.SeasonMid,
		Price2PersonsWithPower: nd("24.00"),
	}
	assert.NoError(t, tariff.Validate())
}

func TestTariff_Validate_SeasonRequiredForCustomerRows(t *testing.T) {
	// Worker rows leave Season empty; customer rows must not.
	tariff := &pricing.Tariff{Category: pricing.CategoryTent}
	err := tariff.Validate()
	require.Error(t, err)

	var verr *pricing.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "season")

	worker := &pricing.Tariff{
		Category:        pricing.CategoryOther,
		IsWorker:        true,
		WorkerWeekPrice: nd("9.50"),
	}
	assert.NoError(t, worker.Validate())
}

func TestTariff_Validate_NegativePriceRejected(t *testing.T) {
	tariff := &pricing.Tariff{
		Category:                 pricing.CategoryTent,
		Season:                   pricing.SeasonLow,
		Price1PersonWithoutPower: decimal.NullDecimal{Decimal: pricing.MustDecimal("-1"), Valid: true},
	}
	err := tariff.Validate()
	require.Error(t, err)

	var verr *pricing.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "price_1_person_without_power")
}

// =============================================================================
// DERIVED OCCUPANT COUNT
// =============================================================================

func TestTariff_Normalize_IncludedOccupants(t *testing.T) {
	// GIVEN: Tariff rows in each occupancy configuration
	// WHEN: Normalizing (as every save does)
	// THEN: Camping-cars and 2-person-priced rows derive 2, the rest 1

	cases := []struct {
		name   string
		tariff pricing.Tariff
		want   int
	}{
		{
			name:   "camping-car always 2",
			tariff: pricing.Tariff{Category: pricing.CategoryCampingCar, Season: pricing.SeasonLow},
			want:   2,
		},
		{
			name: "2-person with power set",
			tariff: pricing.Tariff{
				Category: pricing.CategoryTent, Season: pricing.SeasonLow,
				Price2PersonsWithPower: nd("30.00"),
			},
			want: 2,
		},
		{
			name: "2-person without power set",
			tariff: pricing.Tariff{
				Category: pricing.CategoryCaravan, Season: pricing.SeasonHigh,
				Price2PersonsWithoutPower: nd("28.00"),
			},
			want: 2,
		},
		{
			name: "only 1-person prices",
			tariff: pricing.Tariff{
				Category: pricing.CategoryTent, Season: pricing.SeasonLow,
				Price1PersonWithPower: nd("20.00"),
			},
			want: 1,
		},
		{
			name:   "no prices at all",
			tariff: pricing.Tariff{Category: pricing.CategoryTent, Season: pricing.SeasonLow},
			want:   1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.tariff.Normalize()
			assert.Equal(t, tc.want, tc.tariff.IncludedOccupants)
		})
	}
}
