/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Prices cross the wire as decimal strings with two fractional digits
  ("30.00"), never as floats. Dimensions (tent size, cable length) are
  decimal strings too; empty string or absence means not provided.

VALIDATION:
  Structural rules (required fields, ranges, the 2-pet limit) live in
  struct tags checked by go-playground/validator. Business rules (date
  ordering, conditional dimensions, party size) stay in the domain
  types; the handlers run both.
*/
package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maineblanc/booking-engine/booking"
	"github.com/maineblanc/booking-engine/pricing"
)

// =============================================================================
// QUOTE
// =============================================================================

// QuoteRequest asks for the price of a prospective stay.
type QuoteRequest struct {
	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	Subtype     string `json:"subtype" validate:"required"`
	Electricity string `json:"electricity" validate:"required,oneof=yes no"`

	Adults         int `json:"adults" validate:"min=1"`
	ChildrenOver8  int `json:"children_over_8" validate:"min=0"`
	ChildrenUnder8 int `json:"children_under_8" validate:"min=0"`
	Pets           int `json:"pets" validate:"min=0,max=2"`
	ExtraVehicles  int `json:"extra_vehicles" validate:"min=0"`
	ExtraTents     int `json:"extra_tents" validate:"min=0"`
}

// QuoteDTO is a priced stay.
type QuoteDTO struct {
	Category          string `json:"category"`
	Season            string `json:"season"`
	Nights            int    `json:"nights"`
	IncludedOccupants int    `json:"included_occupants"`
	BaseNightly       string `json:"base_nightly"`
	Base              string `json:"base"`
	Supplements       string `json:"supplements"`
	Total             string `json:"total"`
	Deposit           string `json:"deposit"`
	RemainingBalance  string `json:"remaining_balance"`
}

func toQuoteDTO(q *pricing.Quote) *QuoteDTO {
	return &QuoteDTO{
		Category:          string(q.Category),
		Season:            string(q.Season),
		Nights:            q.Nights,
		IncludedOccupants: q.IncludedOccupants,
		BaseNightly:       q.BaseNightly.StringFixed(2),
		Base:              q.Base.StringFixed(2),
		Supplements:       q.Supplements.StringFixed(2),
		Total:             q.Total.StringFixed(2),
		Deposit:           q.Deposit.StringFixed(2),
		RemainingBalance:  q.RemainingBalance().StringFixed(2),
	}
}

func (req *QuoteRequest) toPricingRequest() (pricing.Request, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return pricing.Request{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return pricing.Request{}, fmt.Errorf("end_date: %w", err)
	}
	return pricing.Request{
		Subtype:        pricing.Subtype(req.Subtype),
		StartDate:      start,
		EndDate:        end,
		Electricity:    pricing.Electricity(req.Electricity),
		Adults:         req.Adults,
		ChildrenOver8:  req.ChildrenOver8,
		ChildrenUnder8: req.ChildrenUnder8,
		Pets:           req.Pets,
		ExtraVehicles:  req.ExtraVehicles,
		ExtraTents:     req.ExtraTents,
	}, nil
}

// =============================================================================
// AVAILABILITY
// =============================================================================

// AvailabilityRequest asks whether a stay would fit the capacity limits.
// ExcludeID removes a persisted reservation from the count so edits
// don't collide with themselves.
type AvailabilityRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Subtype   string `json:"subtype" validate:"required"`
	ExcludeID string `json:"exclude_id,omitempty"`
}

// AvailabilityDTO reports the capacity check outcome. Reason is empty
// when available.
type AvailabilityDTO struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// =============================================================================
// RESERVATION
// =============================================================================

// ReservationRequest is the booking form payload: contact, stay, party,
// and the conditional dimension fields as decimal strings.
type ReservationRequest struct {
	LastName   string `json:"last_name" validate:"required"`
	FirstName  string `json:"first_name" validate:"required"`
	Address    string `json:"address" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	City       string `json:"city" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Email      string `json:"email" validate:"required,email"`

	StartDate   string `json:"start_date" validate:"required"`
	EndDate     string `json:"end_date" validate:"required"`
	Subtype     string `json:"subtype" validate:"required"`
	Electricity string `json:"electricity" validate:"required,oneof=yes no"`

	Adults         int `json:"adults" validate:"min=1"`
	ChildrenOver8  int `json:"children_over_8" validate:"min=0"`
	ChildrenUnder8 int `json:"children_under_8" validate:"min=0"`
	Pets           int `json:"pets" validate:"min=0,max=2"`
	ExtraVehicles  int `json:"extra_vehicles" validate:"min=0"`
	ExtraTents     int `json:"extra_tents" validate:"min=0"`

	TentLength    string `json:"tent_length,omitempty"`
	TentWidth     string `json:"tent_width,omitempty"`
	VehicleLength string `json:"vehicle_length,omitempty"`
	CableLength   string `json:"cable_length,omitempty"`
}

func (req *ReservationRequest) toReservation() (*booking.Reservation, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end_date: %w", err)
	}

	r := &booking.Reservation{
		LastName:       req.LastName,
		FirstName:      req.FirstName,
		Address:        req.Address,
		PostalCode:     req.PostalCode,
		City:           req.City,
		Phone:          req.Phone,
		Email:          req.Email,
		StartDate:      start,
		EndDate:        end,
		Subtype:        pricing.Subtype(req.Subtype),
		Electricity:    pricing.Electricity(req.Electricity),
		Adults:         req.Adults,
		ChildrenOver8:  req.ChildrenOver8,
		ChildrenUnder8: req.ChildrenUnder8,
		Pets:           req.Pets,
		ExtraVehicles:  req.ExtraVehicles,
		ExtraTents:     req.ExtraTents,
	}

	if r.TentLength, err = parseOptionalDecimal(req.TentLength); err != nil {
		return nil, fmt.Errorf("tent_length: %w", err)
	}
	if r.TentWidth, err = parseOptionalDecimal(req.TentWidth); err != nil {
		return nil, fmt.Errorf("tent_width: %w", err)
	}
	if r.VehicleLength, err = parseOptionalDecimal(req.VehicleLength); err != nil {
		return nil, fmt.Errorf("vehicle_length: %w", err)
	}
	if r.CableLength, err = parseOptionalDecimal(req.CableLength); err != nil {
		return nil, fmt.Errorf("cable_length: %w", err)
	}
	return r, nil
}

// ReservationDTO is a persisted reservation. Quote is the live price of
// the stay at current tariffs; nothing is frozen at booking time, so an
// admin tariff change reprices existing reservations too.
type ReservationDTO struct {
	ID string `json:"id"`

	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	Address    string `json:"address"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`

	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Subtype     string `json:"subtype"`
	Category    string `json:"category"`
	Electricity string `json:"electricity"`

	Adults         int `json:"adults"`
	ChildrenOver8  int `json:"children_over_8"`
	ChildrenUnder8 int `json:"children_under_8"`
	Pets           int `json:"pets"`
	ExtraVehicles  int `json:"extra_vehicles"`
	ExtraTents     int `json:"extra_tents"`

	TentLength    string `json:"tent_length,omitempty"`
	TentWidth     string `json:"tent_width,omitempty"`
	VehicleLength string `json:"vehicle_length,omitempty"`
	CableLength   string `json:"cable_length,omitempty"`

	DepositPaid bool      `json:"deposit_paid"`
	Quote       *QuoteDTO `json:"quote,omitempty"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

func toReservationDTO(r *booking.Reservation, quote *pricing.Quote) ReservationDTO {
	dto := ReservationDTO{
		ID:             string(r.ID),
		LastName:       r.LastName,
		FirstName:      r.FirstName,
		Address:        r.Address,
		PostalCode:     r.PostalCode,
		City:           r.City,
		Phone:          r.Phone,
		Email:          r.Email,
		StartDate:      r.StartDate.Format("2006-01-02"),
		EndDate:        r.EndDate.Format("2006-01-02"),
		Subtype:        string(r.Subtype),
		Category:       string(r.Category),
		Electricity:    string(r.Electricity),
		Adults:         r.Adults,
		ChildrenOver8:  r.ChildrenOver8,
		ChildrenUnder8: r.ChildrenUnder8,
		Pets:           r.Pets,
		ExtraVehicles:  r.ExtraVehicles,
		ExtraTents:     r.ExtraTents,
		TentLength:     nullDecimalString(r.TentLength),
		TentWidth:      nullDecimalString(r.TentWidth),
		VehicleLength:  nullDecimalString(r.VehicleLength),
		CableLength:    nullDecimalString(r.CableLength),
		DepositPaid:    r.DepositPaid,
		CreatedAt:      r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      r.UpdatedAt.Format(time.RFC3339),
	}
	if quote != nil {
		dto.Quote = toQuoteDTO(quote)
	}
	return dto
}

// =============================================================================
// ENQUIRY
// =============================================================================

// EnquiryRequest is the reservation-request contact form payload.
// Accommodation is free text: the form also offers choices that have no
// pricing category.
type EnquiryRequest struct {
	LastName   string `json:"last_name" validate:"required"`
	FirstName  string `json:"first_name" validate:"required"`
	Address    string `json:"address" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
	City       string `json:"city" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Message    string `json:"message,omitempty"`

	StartDate     string `json:"start_date" validate:"required"`
	EndDate       string `json:"end_date" validate:"required"`
	Accommodation string `json:"accommodation" validate:"required"`

	Adults         int `json:"adults" validate:"min=1"`
	ChildrenOver8  int `json:"children_over_8" validate:"min=0"`
	ChildrenUnder8 int `json:"children_under_8" validate:"min=0"`
	Pets           int `json:"pets" validate:"min=0,max=2"`

	TentLength    string `json:"tent_length,omitempty"`
	TentWidth     string `json:"tent_width,omitempty"`
	VehicleLength string `json:"vehicle_length,omitempty"`
	Electricity   string `json:"electricity" validate:"omitempty,oneof=yes no"`
	CableLength   string `json:"cable_length,omitempty"`
}

func (req *EnquiryRequest) toEnquiry() (*booking.Enquiry, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("start_date: %w", err)
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end_date: %w", err)
	}

	electricity := pricing.Electricity(req.Electricity)
	if req.Electricity == "" {
		electricity = pricing.ElectricityNo
	}

	e := &booking.Enquiry{
		LastName:       req.LastName,
		FirstName:      req.FirstName,
		Address:        req.Address,
		PostalCode:     req.PostalCode,
		City:           req.City,
		Phone:          req.Phone,
		Email:          req.Email,
		Message:        req.Message,
		StartDate:      start,
		EndDate:        end,
		Accommodation:  req.Accommodation,
		Adults:         req.Adults,
		ChildrenOver8:  req.ChildrenOver8,
		ChildrenUnder8: req.ChildrenUnder8,
		Pets:           req.Pets,
		Electricity:    electricity,
	}

	if e.TentLength, err = parseOptionalDecimal(req.TentLength); err != nil {
		return nil, fmt.Errorf("tent_length: %w", err)
	}
	if e.TentWidth, err = parseOptionalDecimal(req.TentWidth); err != nil {
		return nil, fmt.Errorf("tent_width: %w", err)
	}
	if e.VehicleLength, err = parseOptionalDecimal(req.VehicleLength); err != nil {
		return nil, fmt.Errorf("vehicle_length: %w", err)
	}
	if e.CableLength, err = parseOptionalDecimal(req.CableLength); err != nil {
		return nil, fmt.Errorf("cable_length: %w", err)
	}
	return e, nil
}

// EnquiryDTO is a persisted enquiry in admin listings.
type EnquiryDTO struct {
	ID            string `json:"id"`
	LastName      string `json:"last_name"`
	FirstName     string `json:"first_name"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Message       string `json:"message,omitempty"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Accommodation string `json:"accommodation"`
	Adults        int    `json:"adults"`
	CreatedAt     string `json:"created_at"`
}

func toEnquiryDTO(e *booking.Enquiry) EnquiryDTO {
	return EnquiryDTO{
		ID:            e.ID,
		LastName:      e.LastName,
		FirstName:     e.FirstName,
		Email:         e.Email,
		Phone:         e.Phone,
		Message:       e.Message,
		StartDate:     e.StartDate.Format("2006-01-02"),
		EndDate:       e.EndDate.Format("2006-01-02"),
		Accommodation: e.Accommodation,
		Adults:        e.Adults,
		CreatedAt:     e.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// ADMIN: TARIFFS, SUPPLEMENTS, CAPACITIES, RETENTION
// =============================================================================

// TariffRequest upserts a tariff row. Prices are decimal strings; empty
// or absent means no price for that combination.
type TariffRequest struct {
	Category string `json:"category" validate:"required"`
	Season   string `json:"season" validate:"omitempty,oneof=low mid high"`
	IsWorker bool   `json:"is_worker"`

	Price1PersonWithPower     string `json:"price_1_person_with_power,omitempty"`
	Price2PersonsWithPower    string `json:"price_2_persons_with_power,omitempty"`
	Price1PersonWithoutPower  string `json:"price_1_person_without_power,omitempty"`
	Price2PersonsWithoutPower string `json:"price_2_persons_without_power,omitempty"`

	WorkerWeekPrice           string `json:"worker_week_price,omitempty"`
	WorkerWeekendWithPower    string `json:"worker_weekend_with_power,omitempty"`
	WorkerWeekendWithoutPower string `json:"worker_weekend_without_power,omitempty"`
}

func (req *TariffRequest) toTariff() (*pricing.Tariff, error) {
	t := &pricing.Tariff{
		Category: pricing.Category(req.Category),
		Season:   pricing.Season(req.Season),
		IsWorker: req.IsWorker,
	}

	var err error
	if t.Price1PersonWithPower, err = parseOptionalDecimal(req.Price1PersonWithPower); err != nil {
		return nil, fmt.Errorf("price_1_person_with_power: %w", err)
	}
	if t.Price2PersonsWithPower, err = parseOptionalDecimal(req.Price2PersonsWithPower); err != nil {
		return nil, fmt.Errorf("price_2_persons_with_power: %w", err)
	}
	if t.Price1PersonWithoutPower, err = parseOptionalDecimal(req.Price1PersonWithoutPower); err != nil {
		return nil, fmt.Errorf("price_1_person_without_power: %w", err)
	}
	if t.Price2PersonsWithoutPower, err = parseOptionalDecimal(req.Price2PersonsWithoutPower); err != nil {
		return nil, fmt.Errorf("price_2_persons_without_power: %w", err)
	}
	if t.WorkerWeekPrice, err = parseOptionalDecimal(req.WorkerWeekPrice); err != nil {
		return nil, fmt.Errorf("worker_week_price: %w", err)
	}
	if t.WorkerWeekendWithPower, err = parseOptionalDecimal(req.WorkerWeekendWithPower); err != nil {
		return nil, fmt.Errorf("worker_weekend_with_power: %w", err)
	}
	if t.WorkerWeekendWithoutPower, err = parseOptionalDecimal(req.WorkerWeekendWithoutPower); err != nil {
		return nil, fmt.Errorf("worker_weekend_without_power: %w", err)
	}
	return t, nil
}

// TariffDTO is a tariff row in admin listings.
type TariffDTO struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Season   string `json:"season,omitempty"`
	IsWorker bool   `json:"is_worker"`

	Price1PersonWithPower     string `json:"price_1_person_with_power,omitempty"`
	Price2PersonsWithPower    string `json:"price_2_persons_with_power,omitempty"`
	Price1PersonWithoutPower  string `json:"price_1_person_without_power,omitempty"`
	Price2PersonsWithoutPower string `json:"price_2_persons_without_power,omitempty"`

	WorkerWeekPrice           string `json:"worker_week_price,omitempty"`
	WorkerWeekendWithPower    string `json:"worker_weekend_with_power,omitempty"`
	WorkerWeekendWithoutPower string `json:"worker_weekend_without_power,omitempty"`

	IncludedOccupants int `json:"included_occupants"`
}

func toTariffDTO(t *pricing.Tariff) TariffDTO {
	return TariffDTO{
		ID:                        string(t.ID),
		Category:                  string(t.Category),
		Season:                    string(t.Season),
		IsWorker:                  t.IsWorker,
		Price1PersonWithPower:     nullDecimalString(t.Price1PersonWithPower),
		Price2PersonsWithPower:    nullDecimalString(t.Price2PersonsWithPower),
		Price1PersonWithoutPower:  nullDecimalString(t.Price1PersonWithoutPower),
		Price2PersonsWithoutPower: nullDecimalString(t.Price2PersonsWithoutPower),
		WorkerWeekPrice:           nullDecimalString(t.WorkerWeekPrice),
		WorkerWeekendWithPower:    nullDecimalString(t.WorkerWeekendWithPower),
		WorkerWeekendWithoutPower: nullDecimalString(t.WorkerWeekendWithoutPower),
		IncludedOccupants:         t.IncludedOccupants,
	}
}

// SupplementScheduleRequest upserts the shared supplement schedule.
type SupplementScheduleRequest struct {
	ExtraAdultPrice  string `json:"extra_adult_price" validate:"required"`
	ChildOver8Price  string `json:"child_over_8_price" validate:"required"`
	ChildUnder8Price string `json:"child_under_8_price" validate:"required"`
	PetPrice         string `json:"pet_price" validate:"required"`

	ExtraVehiclePrice       string `json:"extra_vehicle_price,omitempty"`
	ExtraTentPrice          string `json:"extra_tent_price,omitempty"`
	VisitorPriceWithoutPool string `json:"visitor_price_without_pool,omitempty"`
	VisitorPriceWithPool    string `json:"visitor_price_with_pool,omitempty"`
}

func (req *SupplementScheduleRequest) toSchedule() (*pricing.SupplementSchedule, error) {
	s := &pricing.SupplementSchedule{}

	var err error
	if s.ExtraAdultPrice, err = decimal.NewFromString(req.ExtraAdultPrice); err != nil {
		return nil, fmt.Errorf("extra_adult_price: %w", err)
	}
	if s.ChildOver8Price, err = decimal.NewFromString(req.ChildOver8Price); err != nil {
		return nil, fmt.Errorf("child_over_8_price: %w", err)
	}
	if s.ChildUnder8Price, err = decimal.NewFromString(req.ChildUnder8Price); err != nil {
		return nil, fmt.Errorf("child_under_8_price: %w", err)
	}
	if s.PetPrice, err = decimal.NewFromString(req.PetPrice); err != nil {
		return nil, fmt.Errorf("pet_price: %w", err)
	}
	if s.ExtraVehiclePrice, err = parseOptionalDecimal(req.ExtraVehiclePrice); err != nil {
		return nil, fmt.Errorf("extra_vehicle_price: %w", err)
	}
	if s.ExtraTentPrice, err = parseOptionalDecimal(req.ExtraTentPrice); err != nil {
		return nil, fmt.Errorf("extra_tent_price: %w", err)
	}
	if s.VisitorPriceWithoutPool, err = parseOptionalDecimal(req.VisitorPriceWithoutPool); err != nil {
		return nil, fmt.Errorf("visitor_price_without_pool: %w", err)
	}
	if s.VisitorPriceWithPool, err = parseOptionalDecimal(req.VisitorPriceWithPool); err != nil {
		return nil, fmt.Errorf("visitor_price_with_pool: %w", err)
	}
	return s, nil
}

// SupplementScheduleDTO is the shared schedule in admin responses.
type SupplementScheduleDTO struct {
	ID               string `json:"id"`
	ExtraAdultPrice  string `json:"extra_adult_price"`
	ChildOver8Price  string `json:"child_over_8_price"`
	ChildUnder8Price string `json:"child_under_8_price"`
	PetPrice         string `json:"pet_price"`

	ExtraVehiclePrice       string `json:"extra_vehicle_price,omitempty"`
	ExtraTentPrice          string `json:"extra_tent_price,omitempty"`
	VisitorPriceWithoutPool string `json:"visitor_price_without_pool,omitempty"`
	VisitorPriceWithPool    string `json:"visitor_price_with_pool,omitempty"`
}

func toScheduleDTO(s *pricing.SupplementSchedule) *SupplementScheduleDTO {
	return &SupplementScheduleDTO{
		ID:                      string(s.ID),
		ExtraAdultPrice:         s.ExtraAdultPrice.StringFixed(2),
		ChildOver8Price:         s.ChildOver8Price.StringFixed(2),
		ChildUnder8Price:        s.ChildUnder8Price.StringFixed(2),
		PetPrice:                s.PetPrice.StringFixed(2),
		ExtraVehiclePrice:       nullDecimalString(s.ExtraVehiclePrice),
		ExtraTentPrice:          nullDecimalString(s.ExtraTentPrice),
		VisitorPriceWithoutPool: nullDecimalString(s.VisitorPriceWithoutPool),
		VisitorPriceWithPool:    nullDecimalString(s.VisitorPriceWithPool),
	}
}

// CapacityRequest upserts a per-category occupancy limit.
type CapacityRequest struct {
	Category          string `json:"category" validate:"required"`
	MaxConcurrent     int    `json:"max_concurrent" validate:"min=1"`
	NumberLocations   int    `json:"number_locations" validate:"min=0"`
	NumberMobileHomes int    `json:"number_mobile_homes" validate:"min=0"`
}

// CapacityDTO is a capacity row in admin listings.
type CapacityDTO struct {
	Category          string `json:"category"`
	MaxConcurrent     int    `json:"max_concurrent"`
	NumberLocations   int    `json:"number_locations"`
	NumberMobileHomes int    `json:"number_mobile_homes"`
}

// RetentionRequest triggers a retention run over old reservations.
// Anonymize defaults to true when the body is empty or omits it.
type RetentionRequest struct {
	Anonymize bool `json:"anonymize"`
}

// RetentionResultDTO reports what the run did.
type RetentionResultDTO struct {
	Cutoff     string `json:"cutoff"`
	Anonymized int    `json:"anonymized"`
	Deleted    int    `json:"deleted"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

func parseOptionalDecimal(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid decimal %q", s)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func nullDecimalString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
