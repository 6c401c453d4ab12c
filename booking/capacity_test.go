package booking_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maineblanc/booking-engine/booking"
	"github.com/maineblanc/booking-engine/booking/store"
	"github.com/maineblanc/booking-engine/pricing"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newGuardFixture(t *testing.T) (*booking.Guard, *store.TxMemory) {
	t.Helper()
	mem := store.NewTxMemory()
	return booking.NewGuard(mem, mem), mem
}

func caravanStay(start, end time.Time) *booking.Reservation {
	r := validDraft()
	r.StartDate = start
	r.EndDate = end
	return r
}

func seedReservation(t *testing.T, mem *store.TxMemory, r *booking.Reservation) *booking.Reservation {
	t.Helper()
	require.NoError(t, mem.CreateReservation(context.Background(), r))
	return r
}

func seedCapacity(t *testing.T, mem *store.TxMemory, category pricing.Category, max int) {
	t.Helper()
	require.NoError(t, mem.SaveCapacity(context.Background(), &booking.CapacityRow{
		Category:      category,
		MaxConcurrent: max,
	}))
}

// =============================================================================
// CAPACITY SCENARIOS
// =============================================================================

func TestGuard_RejectsOverlappingStay_AtLimit(t *testing.T) {
	// GIVEN: Caravan capacity 1, an existing stay Sep 20-25
	// WHEN: A candidate wants Sep 24-27 (one shared night)
	// THEN: Admission is refused with the occupancy context

	guard, mem := newGuardFixture(t)
	ctx := context.Background()

	seedCapacity(t, mem, pricing.CategoryCaravan, 1)
	seedReservation(t, mem, caravanStay(date(2025, time.September, 20), date(2025, time.September, 25)))

	err := guard.Check(ctx, caravanStay(date(2025, time.September, 24), date(2025, time.September, 27)))
	require.Error(t, err)

	var exceeded *booking.CapacityExceededError
	require.ErrorAs(t, err, &exceeded)
	assert.Equal(t, pricing.CategoryCaravan, exceeded.Category)
	assert.Equal(t, 1, exceeded.MaxConcurrent)
	assert.Equal(t, 1, exceeded.Overlapping)
	assert.True(t, booking.IsClientError(err))
}

func TestGuard_AcceptsSameDayTurnover(t *testing.T) {
	// GIVEN: The same setup
	// WHEN: A candidate arrives the day the existing stay departs
	// THEN: No overlap; checkout morning, checkin afternoon

	guard, mem := newGuardFixture(t)
	ctx := context.Background()

	seedCapacity(t, mem, pricing.CategoryCaravan, 1)
	seedReservation(t, mem, caravanStay(date(2025, time.September, 20), date(2025, time.September, 25)))

	err := guard.Check(ctx, caravanStay(date(2025, time.September, 25), date(2025, time.September, 27)))
	assert.NoError(t, err)
}

func TestGuard_CountsSiblingSubtypes(t *testing.T) {
	// GIVEN: Caravan capacity 1, an existing VAN on the dates
	// WHEN: A caravan candidate overlaps
	// THEN: Refused; vans, fourgons and caravans share the pitches

	guard, mem := newGuardFixture(t)
	ctx := context.Background()

	seedCapacity(t, mem, pricing.CategoryCaravan, 1)
	van := caravanStay(date(2025, time.September, 20), date(2025, time.September, 25))
	van.Subtype = pricing.SubtypeVan
	seedReservation(t, mem, van)

	err := guard.Check(ctx, caravanStay(date(2025, time.September, 22), date(2025, time.September, 24)))
	assert.ErrorIs(t, err, booking.ErrCapacityExceeded)
}

func TestGuard_IgnoresOtherCategories(t *testing.T) {
	// A tent on the same dates does not consume caravan capacity.
	guard, mem := newGuardFixture(t)
	ctx := context.Background()

	seedCapacity(t, mem, pricing.CategoryCaravan, 1)
	tent := caravanStay(date(2025, time.September, 20), date(2025, time.September, 25))
	tent.Subtype = pricing.SubtypeTent
	tent.VehicleLength = nd("0")
	tent.TentLength = nd("4.0")
	tent.TentWidth = nd("3.0")
	seedReservation(t, mem, tent)

	err := guard.Check(ctx, caravanStay(date(2025, time.September, 22), date(2025, time.September, 24)))
	assert.NoError(t, err)
}

func TestGuard_AllowsUpToTheLimit(t *testing.T) {
	// GIVEN: Capacity 2 and one overlapping stay
	// WHEN: A second candidate overlaps
	// THEN: Accepted; a third is refused

	guard, mem := newGuardFixture(t)
	ctx := context.Background()

	seedCapacity(t, mem, pricing.CategoryCaravan, 2)
	seedReservation(t, mem, caravanStay(date(2025, time.September, 20), date(2025, time.September, 25)))

	second := caravanStay(date(2025, time.September, 22), date(2025, time.September, 26))
	require.NoError(t, guard.Check(ctx, second))
	seedReservation(t, mem, second)

	third := caravanStay(date(2025, time.September, 23), date(2025, time.September, 24))
	assert.ErrorIs(t, guard.Check(ctx, third), booking.ErrCapacityExceeded)
}

func TestGuard_ExcludesOwnIdentityOnUpdate(t *testing.T) {
	// GIVEN: Capacity 1 and a persisted stay
	// WHEN: That same reservation re-checks shifted dates
	// THEN: It does not collide with itself

	guard, mem := newGuardFixture(t)
	ctx := context.Background()

	seedCapacity(t, mem, pricing.CategoryCaravan, 1)
	existing := seedReservation(t, mem, caravanStay(date(2025, time.September, 20), date(2025, time.September, 25)))

	moved := caravanStay(date(2025, time.September, 21), date(2025, time.September, 26))
	moved.ID = existing.ID
	assert.NoError(t, guard.Check(ctx, moved))

	// A different reservation on those dates still collides.
	stranger := caravanStay(date(2025, time.September, 21), date(2025, time.September, 26))
	assert.ErrorIs(t, guard.Check(ctx, stranger), booking.ErrCapacityExceeded)
}

// =============================================================================
// CONFIGURATION GAPS
// =============================================================================

func TestGuard_UndefinedCapacity_IsConfigErrorNotFull(t *testing.T) {
	// GIVEN: No capacity row for caravans at all
	// WHEN: Checking a caravan stay
	// THEN: CapacityUndefinedError - a config gap, deliberately distinct
	//       from "fully booked"

	guard, _ := newGuardFixture(t)

	err := guard.Check(context.Background(), caravanStay(date(2025, time.September, 20), date(2025, time.September, 25)))
	require.Error(t, err)

	var undefined *booking.CapacityUndefinedError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, pricing.CategoryCaravan, undefined.Category)

	assert.True(t, booking.IsConfigError(err))
	assert.False(t, booking.IsClientError(err))
	assert.NotErrorIs(t, err, booking.ErrCapacityExceeded)
}

func TestGuard_MissingDates_Rejected(t *testing.T) {
	guard, mem := newGuardFixture(t)
	seedCapacity(t, mem, pricing.CategoryCaravan, 1)

	r := validDraft()
	r.StartDate = time.Time{}

	err := guard.Check(context.Background(), r)
	assert.ErrorIs(t, err, booking.ErrMissingDates)
}
