/*
handlers.go - HTTP API handlers for the booking engine

PURPOSE:
  Exposes pricing quotes, availability checks, reservation admission,
  and the admin configuration tables via REST. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Customer flow:
    POST   /api/quote                       Price a prospective stay
    POST   /api/availability                Capacity check for dates
    POST   /api/reservations                Validate + atomically admit
    GET    /api/reservations                List reservations
    GET    /api/reservations/{id}           Get one, with live price
    PUT    /api/reservations/{id}           Edit, re-checking capacity
    POST   /api/reservations/{id}/deposit-paid
    POST   /api/enquiries                   Free-form reservation request

  Admin:
    GET/PUT /api/admin/tariffs              Tariff table
    GET/PUT /api/admin/supplements          Shared supplement schedule
    GET/PUT /api/admin/capacities           Per-category limits
    GET     /api/admin/enquiries            Enquiry inbox
    POST    /api/admin/retention            Run the 10-year job

ERROR HANDLING:
  - 400: malformed JSON, structural validation, business-rule validation
  - 404: missing reservation
  - 409: capacity exceeded (the dates are genuinely full)
  - 422: configuration gaps - missing tariff or capacity row. Kept apart
    from 409 so a config mistake never reads as "fully booked"
  - 500: everything else

SECURITY NOTE:
  No authentication. The admin routes are expected to sit behind the
  back-office's own access control.
*/
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/maineblanc/booking-engine/booking"
	"github.com/maineblanc/booking-engine/pricing"
)

// Store is the full persistence surface the handlers need. Both the
// SQLite store and the in-memory store satisfy it.
type Store interface {
	booking.TariffStore
	booking.ScheduleStore
	booking.CapacityStore
	booking.TxReservationStore
	booking.EnquiryStore
	booking.RetentionStore
}

// validate reports JSON field names, not Go ones, so error responses
// match what the client actually sent.
var validate = func() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}()

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      Store
	Calculator *pricing.Calculator
	Service    *booking.Service
}

// NewHandler wires the calculator and admission service onto the store.
func NewHandler(store Store) *Handler {
	return &Handler{
		Store:      store,
		Calculator: pricing.NewCalculator(store, store),
		Service:    booking.NewService(store, store),
	}
}

// =============================================================================
// QUOTE
// =============================================================================

// GetQuote prices a prospective stay at current tariffs.
// POST /api/quote
func (h *Handler) GetQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	pricingReq, err := req.toPricingRequest()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid quote request", err)
		return
	}
	if !pricingReq.Subtype.Valid() {
		writeError(w, http.StatusBadRequest, "Unknown accommodation type", nil)
		return
	}

	quote, err := h.Calculator.Quote(r.Context(), pricingReq)
	if err != nil {
		h.writeDomainError(w, "Failed to price the stay", err)
		return
	}

	writeJSON(w, http.StatusOK, toQuoteDTO(&quote))
}

// =============================================================================
// AVAILABILITY
// =============================================================================

// CheckAvailability runs the capacity guard without persisting anything.
// POST /api/availability
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid availability request", err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid availability request", err)
		return
	}

	candidate := &booking.Reservation{
		ID:        booking.ReservationID(req.ExcludeID),
		StartDate: start,
		EndDate:   end,
		Subtype:   pricing.Subtype(req.Subtype),
	}

	err = h.Service.CheckAvailability(r.Context(), candidate)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, AvailabilityDTO{Available: true})
	case errors.Is(err, booking.ErrCapacityExceeded):
		writeJSON(w, http.StatusConflict, AvailabilityDTO{Available: false, Reason: err.Error()})
	case errors.Is(err, booking.ErrCapacityUndefined):
		writeJSON(w, http.StatusUnprocessableEntity, AvailabilityDTO{Available: false, Reason: err.Error()})
	case errors.Is(err, booking.ErrMissingDates):
		writeError(w, http.StatusBadRequest, "Invalid availability request", err)
	default:
		writeError(w, http.StatusInternalServerError, "Failed to check availability", err)
	}
}

// =============================================================================
// RESERVATIONS
// =============================================================================

// CreateReservation validates the draft and admits it atomically: the
// capacity count and the insert happen in one store transaction.
// POST /api/reservations
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req ReservationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	reservation, err := req.toReservation()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid reservation request", err)
		return
	}

	if err := h.Service.Admit(r.Context(), reservation); err != nil {
		h.writeDomainError(w, "Failed to create reservation", err)
		return
	}

	log.Info().
		Str("reservation_id", string(reservation.ID)).
		Str("subtype", string(reservation.Subtype)).
		Str("start_date", reservation.StartDate.Format("2006-01-02")).
		Str("end_date", reservation.EndDate.Format("2006-01-02")).
		Msg("reservation admitted")

	writeJSON(w, http.StatusCreated, toReservationDTO(reservation, h.quoteFor(r, reservation)))
}

// ListReservations returns all reservations, most recent first.
// GET /api/reservations
func (h *Handler) ListReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.Store.ListReservations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list reservations", err)
		return
	}

	dtos := make([]ReservationDTO, len(reservations))
	for i := range reservations {
		dtos[i] = toReservationDTO(&reservations[i], nil)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetReservation returns one reservation with its live price.
// GET /api/reservations/{id}
func (h *Handler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id := booking.ReservationID(chi.URLParam(r, "id"))

	reservation, err := h.Store.GetReservation(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get reservation", err)
		return
	}

	writeJSON(w, http.StatusOK, toReservationDTO(reservation, h.quoteFor(r, reservation)))
}

// UpdateReservation edits a persisted reservation, re-running validation
// and the capacity check with the record's own identity excluded from
// the overlap count.
// PUT /api/reservations/{id}
func (h *Handler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	id := booking.ReservationID(chi.URLParam(r, "id"))

	existing, err := h.Store.GetReservation(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get reservation", err)
		return
	}

	var req ReservationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	reservation, err := req.toReservation()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid reservation request", err)
		return
	}
	reservation.ID = id
	reservation.DepositPaid = existing.DepositPaid
	reservation.ScheduleID = existing.ScheduleID

	if err := h.Service.Update(r.Context(), reservation); err != nil {
		h.writeDomainError(w, "Failed to update reservation", err)
		return
	}

	writeJSON(w, http.StatusOK, toReservationDTO(reservation, h.quoteFor(r, reservation)))
}

// MarkDepositPaid records the online deposit payment.
// POST /api/reservations/{id}/deposit-paid
func (h *Handler) MarkDepositPaid(w http.ResponseWriter, r *http.Request) {
	id := booking.ReservationID(chi.URLParam(r, "id"))

	if err := h.Store.MarkDepositPaid(r.Context(), id); err != nil {
		h.writeDomainError(w, "Failed to mark deposit paid", err)
		return
	}

	reservation, err := h.Store.GetReservation(r.Context(), id)
	if err != nil {
		h.writeDomainError(w, "Failed to get reservation", err)
		return
	}
	writeJSON(w, http.StatusOK, toReservationDTO(reservation, h.quoteFor(r, reservation)))
}

// quoteFor prices a reservation at current tariffs. A missing tariff is
// not an error here: the reservation exists regardless, it just renders
// without a price.
func (h *Handler) quoteFor(r *http.Request, reservation *booking.Reservation) *pricing.Quote {
	quote, err := h.Calculator.Quote(r.Context(), reservation.PricingRequest())
	if err != nil {
		if !pricing.IsNotFound(err) {
			log.Warn().Err(err).Str("reservation_id", string(reservation.ID)).Msg("failed to price reservation")
		}
		return nil
	}
	return &quote
}

// =============================================================================
// ENQUIRIES
// =============================================================================

// CreateEnquiry stores a free-form reservation request. Nothing is
// priced or held; the campsite answers by email.
// POST /api/enquiries
func (h *Handler) CreateEnquiry(w http.ResponseWriter, r *http.Request) {
	var req EnquiryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	enquiry, err := req.toEnquiry()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid enquiry", err)
		return
	}
	if err := enquiry.Validate(time.Now()); err != nil {
		h.writeDomainError(w, "Invalid enquiry", err)
		return
	}

	if err := h.Store.CreateEnquiry(r.Context(), enquiry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to store enquiry", err)
		return
	}

	writeJSON(w, http.StatusCreated, toEnquiryDTO(enquiry))
}

// ListEnquiries returns the enquiry inbox, most recent first.
// GET /api/admin/enquiries
func (h *Handler) ListEnquiries(w http.ResponseWriter, r *http.Request) {
	enquiries, err := h.Store.ListEnquiries(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list enquiries", err)
		return
	}

	dtos := make([]EnquiryDTO, len(enquiries))
	for i := range enquiries {
		dtos[i] = toEnquiryDTO(&enquiries[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// ADMIN: TARIFFS
// =============================================================================

// ListTariffs returns the full tariff table.
// GET /api/admin/tariffs
func (h *Handler) ListTariffs(w http.ResponseWriter, r *http.Request) {
	tariffs, err := h.Store.ListTariffs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list tariffs", err)
		return
	}

	dtos := make([]TariffDTO, len(tariffs))
	for i := range tariffs {
		dtos[i] = toTariffDTO(&tariffs[i])
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveTariff upserts a tariff row by its (category, season, worker) key.
// PUT /api/admin/tariffs
func (h *Handler) SaveTariff(w http.ResponseWriter, r *http.Request) {
	var req TariffRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tariff, err := req.toTariff()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid tariff", err)
		return
	}

	if err := h.Store.SaveTariff(r.Context(), tariff); err != nil {
		h.writeDomainError(w, "Failed to save tariff", err)
		return
	}

	writeJSON(w, http.StatusOK, toTariffDTO(tariff))
}

// =============================================================================
// ADMIN: SUPPLEMENTS
// =============================================================================

// GetSupplements returns the shared supplement schedule, creating the
// zero-priced default when none exists yet.
// GET /api/admin/supplements
func (h *Handler) GetSupplements(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.Store.EnsureSchedule(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load supplement schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, toScheduleDTO(schedule))
}

// SaveSupplements replaces the shared supplement schedule's prices.
// PUT /api/admin/supplements
func (h *Handler) SaveSupplements(w http.ResponseWriter, r *http.Request) {
	var req SupplementScheduleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	schedule, err := req.toSchedule()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid supplement schedule", err)
		return
	}

	// Writes land on the existing shared row, not a second schedule.
	existing, err := h.Store.EnsureSchedule(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load supplement schedule", err)
		return
	}
	schedule.ID = existing.ID

	if err := h.Store.SaveSchedule(r.Context(), schedule); err != nil {
		h.writeDomainError(w, "Failed to save supplement schedule", err)
		return
	}

	writeJSON(w, http.StatusOK, toScheduleDTO(schedule))
}

// =============================================================================
// ADMIN: CAPACITIES
// =============================================================================

// ListCapacities returns the per-category occupancy limits.
// GET /api/admin/capacities
func (h *Handler) ListCapacities(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Store.ListCapacities(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list capacities", err)
		return
	}

	dtos := make([]CapacityDTO, len(rows))
	for i, row := range rows {
		dtos[i] = CapacityDTO{
			Category:          string(row.Category),
			MaxConcurrent:     row.MaxConcurrent,
			NumberLocations:   row.NumberLocations,
			NumberMobileHomes: row.NumberMobileHomes,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveCapacity upserts a per-category occupancy limit.
// PUT /api/admin/capacities
func (h *Handler) SaveCapacity(w http.ResponseWriter, r *http.Request) {
	var req CapacityRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	row := &booking.CapacityRow{
		Category:          pricing.Category(req.Category),
		MaxConcurrent:     req.MaxConcurrent,
		NumberLocations:   req.NumberLocations,
		NumberMobileHomes: req.NumberMobileHomes,
	}

	if err := h.Store.SaveCapacity(r.Context(), row); err != nil {
		h.writeDomainError(w, "Failed to save capacity", err)
		return
	}

	writeJSON(w, http.StatusOK, CapacityDTO{
		Category:          string(row.Category),
		MaxConcurrent:     row.MaxConcurrent,
		NumberLocations:   row.NumberLocations,
		NumberMobileHomes: row.NumberMobileHomes,
	})
}

// =============================================================================
// ADMIN: RETENTION
// =============================================================================

// RunRetention anonymizes or deletes reservations past the retention
// period.
// POST /api/admin/retention
func (h *Handler) RunRetention(w http.ResponseWriter, r *http.Request) {
	// An empty body runs with the defaults, like the CLI. Anonymize
	// defaults to true: deleting rows takes an explicit request.
	req := RetentionRequest{Anonymize: true}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return
	}

	result, err := booking.RunRetention(r.Context(), h.Store, time.Now(), req.Anonymize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Retention run failed", err)
		return
	}

	log.Info().
		Time("cutoff", result.Cutoff).
		Int("anonymized", result.Anonymized).
		Int("deleted", result.Deleted).
		Msg("retention run complete")

	writeJSON(w, http.StatusOK, RetentionResultDTO{
		Cutoff:     result.Cutoff.Format("2006-01-02"),
		Anonymized: result.Anonymized,
		Deleted:    result.Deleted,
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// decodeAndValidate parses the JSON body and runs the struct-tag rules.
// Writes the error response itself; callers just bail on false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON", err)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			fields := make(map[string]string, len(fieldErrs))
			for _, fe := range fieldErrs {
				fields[fe.Field()] = "failed " + fe.Tag() + " validation"
			}
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Fields: fields})
			return false
		}
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// writeDomainError maps domain error types to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	var bookingValidation *booking.ValidationError
	var pricingValidation *pricing.ValidationError

	switch {
	case errors.As(err, &bookingValidation):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Fields: bookingValidation.Fields})
	case errors.As(err, &pricingValidation):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Fields: pricingValidation.Fields})
	case errors.Is(err, booking.ErrMissingDates):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, booking.ErrCapacityExceeded):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, booking.ErrCapacityUndefined), errors.Is(err, pricing.ErrTariffNotFound):
		writeError(w, http.StatusUnprocessableEntity, message, err)
	case errors.Is(err, booking.ErrNotFound):
		writeError(w, http.StatusNotFound, message, err)
	default:
		log.Error().Err(err).Msg(message)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
