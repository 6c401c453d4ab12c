package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maineblanc/booking-engine/api"
	"github.com/maineblanc/booking-engine/booking"
	"github.com/maineblanc/booking-engine/booking/store"
	"github.com/maineblanc/booking-engine/config"
	"github.com/maineblanc/booking-engine/pricing"
	"github.com/maineblanc/booking-engine/store/sqlite"
)

// =============================================================================
// FIXTURE
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *store.TxMemory) {
	t.Helper()
	mem := store.NewTxMemory()
	router := api.NewRouter(api.NewHandler(mem), &config.Config{})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, mem
}

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: pricing.MustDecimal(s), Valid: true}
}

// seedPricing installs a low-season tent tariff and a priced supplement
// schedule so quote endpoints have something to price against.
func seedPricing(t *testing.T, mem *store.TxMemory) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, mem.SaveTariff(ctx, &pricing.Tariff{
		Category:                  pricing.CategoryTent,
		Season:                    pricing.SeasonLow,
		Price1PersonWithoutPower:  nd("20.00"),
		Price2PersonsWithoutPower: nd("30.00"),
		Price1PersonWithPower:     nd("23.00"),
		Price2PersonsWithPower:    nd("33.00"),
	}))

	schedule, err := mem.EnsureSchedule(ctx)
	require.NoError(t, err)
	schedule.ExtraAdultPrice = pricing.MustDecimal("10.00")
	schedule.ChildOver8Price = pricing.MustDecimal("5.00")
	schedule.ChildUnder8Price = pricing.MustDecimal("3.00")
	schedule.PetPrice = pricing.MustDecimal("2.00")
	require.NoError(t, mem.SaveSchedule(ctx, schedule))
}

func seedCapacity(t *testing.T, mem *store.TxMemory, category pricing.Category, max int) {
	t.Helper()
	require.NoError(t, mem.SaveCapacity(context.Background(), &booking.CapacityRow{
		Category:      category,
		MaxConcurrent: max,
	}))
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

func decodeMap(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return out
}

// caravanPayload is a valid booking form for a far-future caravan stay,
// so the arrival-date rule passes regardless of when the suite runs.
func caravanPayload() map[string]any {
	return map[string]any{
		"last_name":      "Moreau",
		"first_name":     "Paul",
		"address":        "12 quai du Port",
		"postal_code":    "56000",
		"city":           "Vannes",
		"phone":          "0297000000",
		"email":          "paul@example.com",
		"start_date":     "2030-09-20",
		"end_date":       "2030-09-25",
		"subtype":        "caravan",
		"electricity":    "no",
		"adults":         2,
		"vehicle_length": "5.5",
	}
}

// =============================================================================
// QUOTE
// =============================================================================

func TestAPI_Quote(t *testing.T) {
	srv, mem := newTestServer(t)
	seedPricing(t, mem)

	resp, raw := do(t, srv, http.MethodPost, "/api/quote", map[string]any{
		"start_date":  "2030-02-10",
		"end_date":    "2030-02-12",
		"subtype":     "tent",
		"electricity": "no",
		"adults":      2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", raw)

	body := decodeMap(t, raw)
	assert.Equal(t, "tent", body["category"])
	assert.Equal(t, "low", body["season"])
	assert.Equal(t, float64(2), body["nights"])
	assert.Equal(t, "30.00", body["base_nightly"])
	assert.Equal(t, "60.00", body["total"])
	assert.Equal(t, "9.00", body["deposit"])
	assert.Equal(t, "51.00", body["remaining_balance"])
}

func TestAPI_Quote_WithSupplements(t *testing.T) {
	srv, mem := newTestServer(t)
	seedPricing(t, mem)

	resp, raw := do(t, srv, http.MethodPost, "/api/quote", map[string]any{
		"start_date":  "2030-02-10",
		"end_date":    "2030-02-12",
		"subtype":     "tent",
		"electricity": "no",
		"adults":      3,
		"pets":        1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", raw)

	body := decodeMap(t, raw)
	// (10 extra adult + 2 pet) x 2 nights on top of 60.
	assert.Equal(t, "24.00", body["supplements"])
	assert.Equal(t, "84.00", body["total"])
}

func TestAPI_Quote_MissingTariff(t *testing.T) {
	srv, mem := newTestServer(t)
	seedPricing(t, mem) // tent only

	resp, raw := do(t, srv, http.MethodPost, "/api/quote", map[string]any{
		"start_date":  "2030-02-10",
		"end_date":    "2030-02-12",
		"subtype":     "caravan",
		"electricity": "no",
		"adults":      2,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "body: %s", raw)
	assert.NotEmpty(t, decodeMap(t, raw)["error"])
}

func TestAPI_Quote_StructuralValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	// Three pets exceeds the form limit.
	resp, raw := do(t, srv, http.MethodPost, "/api/quote", map[string]any{
		"start_date":  "2030-02-10",
		"end_date":    "2030-02-12",
		"subtype":     "tent",
		"electricity": "no",
		"adults":      2,
		"pets":        3,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeMap(t, raw)
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok, "body: %s", raw)
	assert.Contains(t, fields, "pets")
}

// =============================================================================
// AVAILABILITY
// =============================================================================

func TestAPI_Availability(t *testing.T) {
	srv, mem := newTestServer(t)
	seedCapacity(t, mem, pricing.CategoryCaravan, 1)

	create, raw := do(t, srv, http.MethodPost, "/api/reservations/", caravanPayload())
	require.Equal(t, http.StatusCreated, create.StatusCode, "body: %s", raw)

	// Overlapping dates: the single caravan pitch is taken.
	resp, raw := do(t, srv, http.MethodPost, "/api/availability", map[string]any{
		"start_date": "2030-09-24",
		"end_date":   "2030-09-27",
		"subtype":    "caravan",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decodeMap(t, raw)
	assert.Equal(t, false, body["available"])
	assert.NotEmpty(t, body["reason"])

	// Back-to-back with checkout day is fine.
	resp, raw = do(t, srv, http.MethodPost, "/api/availability", map[string]any{
		"start_date": "2030-09-25",
		"end_date":   "2030-09-27",
		"subtype":    "caravan",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeMap(t, raw)["available"])
}

func TestAPI_Availability_CapacityUndefined(t *testing.T) {
	srv, _ := newTestServer(t)

	// No capacity row for tents: a config gap, not "fully booked".
	resp, raw := do(t, srv, http.MethodPost, "/api/availability", map[string]any{
		"start_date": "2030-09-24",
		"end_date":   "2030-09-27",
		"subtype":    "tent",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, false, decodeMap(t, raw)["available"])
}

// =============================================================================
// RESERVATIONS
// =============================================================================

func TestAPI_CreateReservation(t *testing.T) {
	srv, mem := newTestServer(t)
	seedCapacity(t, mem, pricing.CategoryCaravan, 1)

	resp, raw := do(t, srv, http.MethodPost, "/api/reservations/", caravanPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)

	body := decodeMap(t, raw)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "caravan", body["category"])
	assert.Equal(t, false, body["deposit_paid"])
	// No caravan tariff is seeded, so the reservation renders unpriced.
	assert.Nil(t, body["quote"])

	// Same dates again: the pitch is taken.
	resp, raw = do(t, srv, http.MethodPost, "/api/reservations/", caravanPayload())
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "body: %s", raw)
}

func TestAPI_CreateReservation_ValidationFailure(t *testing.T) {
	srv, mem := newTestServer(t)
	seedCapacity(t, mem, pricing.CategoryCaravan, 1)

	payload := caravanPayload()
	delete(payload, "email")

	resp, raw := do(t, srv, http.MethodPost, "/api/reservations/", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	fields, ok := decodeMap(t, raw)["fields"].(map[string]any)
	require.True(t, ok, "body: %s", raw)
	assert.Contains(t, fields, "email")

	// Nothing persisted.
	all, err := mem.ListReservations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAPI_CreateReservation_DomainValidationFailure(t *testing.T) {
	srv, mem := newTestServer(t)
	seedCapacity(t, mem, pricing.CategoryCaravan, 1)

	// Structurally fine, but the caravan needs its vehicle length.
	payload := caravanPayload()
	delete(payload, "vehicle_length")

	resp, raw := do(t, srv, http.MethodPost, "/api/reservations/", payload)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %s", raw)

	fields, ok := decodeMap(t, raw)["fields"].(map[string]any)
	require.True(t, ok, "body: %s", raw)
	assert.Contains(t, fields, "vehicle_length")
}

func TestAPI_ReservationLifecycle(t *testing.T) {
	srv, mem := newTestServer(t)
	seedCapacity(t, mem, pricing.CategoryCaravan, 1)

	_, raw := do(t, srv, http.MethodPost, "/api/reservations/", caravanPayload())
	id, _ := decodeMap(t, raw)["id"].(string)
	require.NotEmpty(t, id)

	// Fetch it back.
	resp, raw := do(t, srv, http.MethodGet, "/api/reservations/"+id, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Moreau", decodeMap(t, raw)["last_name"])

	// Edit: same dates, new city. Self-exclusion keeps the capacity
	// check from colliding with the record's own stay.
	payload := caravanPayload()
	payload["city"] = "Lorient"
	resp, raw = do(t, srv, http.MethodPut, "/api/reservations/"+id, payload)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", raw)
	assert.Equal(t, "Lorient", decodeMap(t, raw)["city"])

	// Pay the deposit.
	resp, raw = do(t, srv, http.MethodPost, fmt.Sprintf("/api/reservations/%s/deposit-paid", id), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decodeMap(t, raw)["deposit_paid"])

	// Listing shows it.
	resp, raw = do(t, srv, http.MethodGet, "/api/reservations/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(raw, &list))
	assert.Len(t, list, 1)
}

func TestAPI_CreateReservation_SQLiteStore(t *testing.T) {
	// The production wiring: handler over the SQLite store, admission
	// running its capacity check and insert in a database transaction.
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	router := api.NewRouter(api.NewHandler(s), &config.Config{})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	require.NoError(t, s.SaveCapacity(context.Background(), &booking.CapacityRow{
		Category:      pricing.CategoryCaravan,
		MaxConcurrent: 1,
	}))

	resp, raw := do(t, srv, http.MethodPost, "/api/reservations/", caravanPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)
	assert.NotEmpty(t, decodeMap(t, raw)["id"])

	resp, raw = do(t, srv, http.MethodPost, "/api/reservations/", caravanPayload())
	assert.Equal(t, http.StatusConflict, resp.StatusCode, "body: %s", raw)
}

func TestAPI_GetReservation_NotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := do(t, srv, http.MethodGet, "/api/reservations/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// =============================================================================
// ENQUIRIES
// =============================================================================

func TestAPI_Enquiries(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, raw := do(t, srv, http.MethodPost, "/api/enquiries", map[string]any{
		"last_name":     "Petit",
		"first_name":    "Anne",
		"address":       "3 rue Haute",
		"postal_code":   "44000",
		"city":          "Nantes",
		"phone":         "0240000000",
		"email":         "anne@example.com",
		"message":       "Is the pool open in June?",
		"start_date":    "2030-07-10",
		"end_date":      "2030-07-15",
		"accommodation": "tent",
		"adults":        2,
		"tent_length":   "3.2",
		"tent_width":    "2.5",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "body: %s", raw)
	assert.NotEmpty(t, decodeMap(t, raw)["id"])

	resp, raw = do(t, srv, http.MethodGet, "/api/admin/enquiries", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Petit", list[0]["last_name"])
}

// =============================================================================
// ADMIN CONFIG
// =============================================================================

func TestAPI_AdminTariffs(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, raw := do(t, srv, http.MethodPut, "/api/admin/tariffs", map[string]any{
		"category":                      "tent",
		"season":                        "low",
		"price_1_person_without_power":  "20.00",
		"price_2_persons_without_power": "30.00",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", raw)
	body := decodeMap(t, raw)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, float64(2), body["included_occupants"])

	resp, raw = do(t, srv, http.MethodGet, "/api/admin/tariffs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "30.00", list[0]["price_2_persons_without_power"])
}

func TestAPI_AdminTariffs_RejectsCampingCarSoloPrice(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, raw := do(t, srv, http.MethodPut, "/api/admin/tariffs", map[string]any{
		"category":                     "camping_car",
		"season":                       "low",
		"price_1_person_without_power": "24.00",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %s", raw)
}

func TestAPI_AdminSupplements(t *testing.T) {
	srv, _ := newTestServer(t)

	// First GET creates the zero-priced default.
	resp, raw := do(t, srv, http.MethodGet, "/api/admin/supplements", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0.00", decodeMap(t, raw)["extra_adult_price"])

	resp, raw = do(t, srv, http.MethodPut, "/api/admin/supplements", map[string]any{
		"extra_adult_price":   "10.00",
		"child_over_8_price":  "5.00",
		"child_under_8_price": "3.00",
		"pet_price":           "2.00",
		"extra_vehicle_price": "4.00",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", raw)

	resp, raw = do(t, srv, http.MethodGet, "/api/admin/supplements", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeMap(t, raw)
	assert.Equal(t, "10.00", body["extra_adult_price"])
	assert.Equal(t, "4.00", body["extra_vehicle_price"])
}

func TestAPI_AdminCapacities(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, raw := do(t, srv, http.MethodPut, "/api/admin/capacities", map[string]any{
		"category":         "caravan",
		"max_concurrent":   1,
		"number_locations": 25,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", raw)

	resp, raw = do(t, srv, http.MethodGet, "/api/admin/capacities", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(raw, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "caravan", list[0]["category"])
	assert.Equal(t, float64(1), list[0]["max_concurrent"])
}

func TestAPI_AdminRetention(t *testing.T) {
	srv, mem := newTestServer(t)
	seedCapacity(t, mem, pricing.CategoryCaravan, 1)

	_, raw := do(t, srv, http.MethodPost, "/api/reservations/", caravanPayload())
	require.NotEmpty(t, decodeMap(t, raw)["id"])

	// A fresh reservation is a decade inside the retention window.
	resp, raw := do(t, srv, http.MethodPost, "/api/admin/retention", map[string]any{
		"anonymize": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", raw)
	body := decodeMap(t, raw)
	assert.Equal(t, float64(0), body["anonymized"])
	assert.Equal(t, float64(0), body["deleted"])
	assert.NotEmpty(t, body["cutoff"])
}

func TestAPI_AdminRetention_EmptyBody(t *testing.T) {
	// No body means defaults: an anonymize run, never a delete.
	srv, _ := newTestServer(t)

	resp, raw := do(t, srv, http.MethodPost, "/api/admin/retention", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body: %s", raw)
	body := decodeMap(t, raw)
	assert.Equal(t, float64(0), body["anonymized"])
	assert.Equal(t, float64(0), body["deleted"])
}

func TestAPI_Healthz(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, raw := do(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", decodeMap(t, raw)["status"])
}
