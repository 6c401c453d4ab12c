// Package store provides in-memory implementations of the booking
// persistence interfaces, for testing and development.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maineblanc/booking-engine/booking"
	"github.com/maineblanc/booking-engine/pricing"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory holds two locks: mu guards reservations and enquiries, cfgMu
// guards the admin-edited tables (tariffs, schedules, capacities).
// WithTx holds mu while the capacity guard reads config under cfgMu, so
// the order is always mu before cfgMu.
type Memory struct {
	mu           sync.RWMutex
	reservations map[booking.ReservationID]booking.Reservation
	enquiries    []booking.Enquiry

	cfgMu      sync.RWMutex
	tariffs    map[tariffKey]pricing.Tariff
	schedules  []pricing.SupplementSchedule
	capacities map[pricing.Category]booking.CapacityRow
}

type tariffKey struct {
	Category pricing.Category
	Season   pricing.Season
	IsWorker bool
}

func NewMemory() *Memory {
	return &Memory{
		tariffs:      make(map[tariffKey]pricing.Tariff),
		capacities:   make(map[pricing.Category]booking.CapacityRow),
		reservations: make(map[booking.ReservationID]booking.Reservation),
	}
}

// =============================================================================
// TARIFFS (booking.TariffStore)
// =============================================================================

func (m *Memory) FindTariff(_ context.Context, category pricing.Category, season pricing.Season, isWorker bool) (*pricing.Tariff, error) {
	m.cfgMu.RLock()
	defer m.cfgMu.RUnlock()

	t, ok := m.tariffs[tariffKey{category, season, isWorker}]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *Memory) ListTariffs(_ context.Context) ([]pricing.Tariff, error) {
	m.cfgMu.RLock()
	defer m.cfgMu.RUnlock()

	out := make([]pricing.Tariff, 0, len(m.tariffs))
	for _, t := range m.tariffs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) SaveTariff(ctx context.Context, t *pricing.Tariff) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.Normalize()

	if t.ScheduleID == "" {
		schedule, err := m.EnsureSchedule(ctx)
		if err != nil {
			return err
		}
		t.ScheduleID = schedule.ID
	}

	m.cfgMu.Lock()
	defer m.cfgMu.Unlock()

	if t.ID == "" {
		t.ID = pricing.TariffID(uuid.NewString())
	}
	m.tariffs[tariffKey{t.Category, t.Season, t.IsWorker}] = *t
	return nil
}

// =============================================================================
// SUPPLEMENT SCHEDULES (booking.ScheduleStore)
// =============================================================================

func (m *Memory) FirstSchedule(_ context.Context) (*pricing.SupplementSchedule, error) {
	m.cfgMu.RLock()
	defer m.cfgMu.RUnlock()

	if len(m.schedules) == 0 {
		return nil, nil
	}
	s := m.schedules[0]
	return &s, nil
}

func (m *Memory) EnsureSchedule(_ context.Context) (*pricing.SupplementSchedule, error) {
	m.cfgMu.Lock()
	defer m.cfgMu.Unlock()

	if len(m.schedules) == 0 {
		m.schedules = append(m.schedules, pricing.SupplementSchedule{
			ID: pricing.ScheduleID(uuid.NewString()),
		})
	}
	s := m.schedules[0]
	return &s, nil
}

func (m *Memory) SaveSchedule(_ context.Context, s *pricing.SupplementSchedule) error {
	if err := s.Validate(); err != nil {
		return err
	}

	m.cfgMu.Lock()
	defer m.cfgMu.Unlock()

	if s.ID == "" {
		s.ID = pricing.ScheduleID(uuid.NewString())
	}
	for i := range m.schedules {
		if m.schedules[i].ID == s.ID {
			m.schedules[i] = *s
			return nil
		}
	}
	m.schedules = append(m.schedules, *s)
	return nil
}

// =============================================================================
// CAPACITIES (booking.CapacityStore)
// =============================================================================

func (m *Memory) GetCapacity(_ context.Context, category pricing.Category) (*booking.CapacityRow, error) {
	m.cfgMu.RLock()
	defer m.cfgMu.RUnlock()

	row, ok := m.capacities[category]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (m *Memory) ListCapacities(_ context.Context) ([]booking.CapacityRow, error) {
	m.cfgMu.RLock()
	defer m.cfgMu.RUnlock()

	out := make([]booking.CapacityRow, 0, len(m.capacities))
	for _, row := range m.capacities {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

func (m *Memory) SaveCapacity(_ context.Context, row *booking.CapacityRow) error {
	if err := row.Validate(); err != nil {
		return err
	}

	m.cfgMu.Lock()
	defer m.cfgMu.Unlock()
	m.capacities[row.Category] = *row
	return nil
}

// =============================================================================
// RESERVATIONS (booking.ReservationStore)
// =============================================================================

func (m *Memory) CreateReservation(ctx context.Context, r *booking.Reservation) error {
	r.Normalize()
	if r.ScheduleID == "" {
		schedule, err := m.EnsureSchedule(ctx)
		if err != nil {
			return err
		}
		r.ScheduleID = schedule.ID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if r.ID == "" {
		r.ID = booking.ReservationID(uuid.NewString())
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	m.reservations[r.ID] = *r
	return nil
}

func (m *Memory) UpdateReservation(ctx context.Context, r *booking.Reservation) error {
	r.Normalize()
	if r.ScheduleID == "" {
		schedule, err := m.EnsureSchedule(ctx)
		if err != nil {
			return err
		}
		r.ScheduleID = schedule.ID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.reservations[r.ID]
	if !ok {
		return fmt.Errorf("reservation %s: %w", r.ID, booking.ErrNotFound)
	}
	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = time.Now().UTC()
	m.reservations[r.ID] = *r
	return nil
}

func (m *Memory) GetReservation(_ context.Context, id booking.ReservationID) (*booking.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.reservations[id]
	if !ok {
		return nil, fmt.Errorf("reservation %s: %w", id, booking.ErrNotFound)
	}
	return &r, nil
}

func (m *Memory) ListReservations(_ context.Context) ([]booking.Reservation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]booking.Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) CountOverlapping(_ context.Context, subtypes []pricing.Subtype, start, end time.Time, exclude booking.ReservationID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inSet := make(map[pricing.Subtype]bool, len(subtypes))
	for _, st := range subtypes {
		inSet[st] = true
	}

	count := 0
	for _, r := range m.reservations {
		if r.ID == exclude || !inSet[r.Subtype] {
			continue
		}
		if r.Overlaps(start, end) {
			count++
		}
	}
	return count, nil
}

func (m *Memory) MarkDepositPaid(_ context.Context, id booking.ReservationID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reservations[id]
	if !ok {
		return fmt.Errorf("reservation %s: %w", id, booking.ErrNotFound)
	}
	r.DepositPaid = true
	r.UpdatedAt = time.Now().UTC()
	m.reservations[id] = r
	return nil
}

// =============================================================================
// ENQUIRIES (booking.EnquiryStore)
// =============================================================================

func (m *Memory) CreateEnquiry(_ context.Context, e *booking.Enquiry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()
	m.enquiries = append(m.enquiries, *e)
	return nil
}

func (m *Memory) ListEnquiries(_ context.Context) ([]booking.Enquiry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]booking.Enquiry, len(m.enquiries))
	copy(out, m.enquiries)
	return out, nil
}

// =============================================================================
// RETENTION (booking.RetentionStore)
// =============================================================================

func (m *Memory) AnonymizeReservationsBefore(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for id, r := range m.reservations {
		if r.CreatedAt.Before(cutoff) {
			r.LastName = booking.AnonymizedName
			r.FirstName = booking.AnonymizedName
			r.Address = booking.AnonymizedName
			r.PostalCode = "00000"
			r.City = booking.AnonymizedName
			r.Phone = booking.AnonymizedPhone
			r.Email = booking.AnonymizedEmail
			m.reservations[id] = r
			count++
		}
	}
	return count, nil
}

func (m *Memory) DeleteReservationsBefore(_ context.Context, cutoff time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for id, r := range m.reservations {
		if r.CreatedAt.Before(cutoff) {
			delete(m.reservations, id)
			count++
		}
	}
	return count, nil
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE (booking.TxReservationStore)
// =============================================================================

// TxMemory wraps Memory with transaction support, simulated with a
// snapshot of the reservations table and rollback on error. The whole
// store is locked for the duration of fn, which serializes concurrent
// admissions the same way a database transaction would.
type TxMemory struct {
	*Memory
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

func (tm *TxMemory) WithTx(ctx context.Context, fn func(booking.AdmissionStore) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	snapshot := make(map[booking.ReservationID]booking.Reservation, len(tm.reservations))
	for id, r := range tm.reservations {
		snapshot[id] = r
	}

	view := &txMemoryView{parent: tm.Memory}
	if err := fn(view); err != nil {
		tm.reservations = snapshot
		return err
	}
	return nil
}

// txMemoryView runs against the parent's reservation map without
// re-locking mu, which WithTx already holds. Config reads go through
// the parent's cfgMu methods, respecting the mu-then-cfgMu order.
type txMemoryView struct {
	parent *Memory
}

func (tv *txMemoryView) GetCapacity(ctx context.Context, category pricing.Category) (*booking.CapacityRow, error) {
	return tv.parent.GetCapacity(ctx, category)
}

func (tv *txMemoryView) CreateReservation(ctx context.Context, r *booking.Reservation) error {
	r.Normalize()
	if r.ScheduleID == "" {
		schedule, err := tv.parent.EnsureSchedule(ctx)
		if err != nil {
			return err
		}
		r.ScheduleID = schedule.ID
	}
	if r.ID == "" {
		r.ID = booking.ReservationID(uuid.NewString())
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	tv.parent.reservations[r.ID] = *r
	return nil
}

func (tv *txMemoryView) UpdateReservation(ctx context.Context, r *booking.Reservation) error {
	r.Normalize()
	existing, ok := tv.parent.reservations[r.ID]
	if !ok {
		return fmt.Errorf("reservation %s: %w", r.ID, booking.ErrNotFound)
	}
	if r.ScheduleID == "" {
		r.ScheduleID = existing.ScheduleID
	}
	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = time.Now().UTC()
	tv.parent.reservations[r.ID] = *r
	return nil
}

func (tv *txMemoryView) GetReservation(_ context.Context, id booking.ReservationID) (*booking.Reservation, error) {
	r, ok := tv.parent.reservations[id]
	if !ok {
		return nil, fmt.Errorf("reservation %s: %w", id, booking.ErrNotFound)
	}
	return &r, nil
}

func (tv *txMemoryView) ListReservations(_ context.Context) ([]booking.Reservation, error) {
	out := make([]booking.Reservation, 0, len(tv.parent.reservations))
	for _, r := range tv.parent.reservations {
		out = append(out, r)
	}
	return out, nil
}

func (tv *txMemoryView) CountOverlapping(_ context.Context, subtypes []pricing.Subtype, start, end time.Time, exclude booking.ReservationID) (int, error) {
	inSet := make(map[pricing.Subtype]bool, len(subtypes))
	for _, st := range subtypes {
		inSet[st] = true
	}
	count := 0
	for _, r := range tv.parent.reservations {
		if r.ID == exclude || !inSet[r.Subtype] {
			continue
		}
		if r.Overlaps(start, end) {
			count++
		}
	}
	return count, nil
}

func (tv *txMemoryView) MarkDepositPaid(_ context.Context, id booking.ReservationID) error {
	r, ok := tv.parent.reservations[id]
	if !ok {
		return fmt.Errorf("reservation %s: %w", id, booking.ErrNotFound)
	}
	r.DepositPaid = true
	r.UpdatedAt = time.Now().UTC()
	tv.parent.reservations[id] = r
	return nil
}
