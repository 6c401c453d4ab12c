/*
Package sqlite provides the SQLite-backed implementation of the booking
storage interfaces.

INTERFACES IMPLEMENTED:
  booking.TariffStore        tariff table, upsert by (category, season, worker)
  booking.ScheduleStore      shared supplement schedule, default seeded
  booking.CapacityStore      per-category occupancy limits
  booking.TxReservationStore reservation records + atomic admission
  booking.EnquiryStore       free-form reservation requests
  booking.RetentionStore     10-year anonymize/delete job

DECIMALS:
  Monetary values and dimensions are stored as TEXT in the decimal's
  canonical string form, never as REAL. SQLite would happily round-trip
  a price through IEEE 754 and produce cents that don't add up.

CONCURRENCY:
  Two mutexes on top of SQLite's own locking: mu serializes reservation
  writes and WithTx, cfgMu guards the admin-edited tables. The pool is
  capped at one connection, so everything inside WithTx - the capacity
  read included - must go through the transaction; a query through the
  outer *sql.DB would wait on the connection the transaction pins.
  Where both locks are held the order is mu before cfgMu.

MIGRATION:
  Schema is auto-migrated on New(). Fine for a single-tenant site; a
  multi-instance deployment would want versioned migrations instead.
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/maineblanc/booking-engine/booking"
	"github.com/maineblanc/booking-engine/pricing"
)

// Store implements all booking storage interfaces using SQLite.
type Store struct {
	db *sql.DB

	mu    sync.RWMutex // reservations, enquiries, WithTx
	cfgMu sync.RWMutex // tariffs, schedules, capacities
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases coherent and avoids
	// SQLITE_BUSY under concurrent writers.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Supplement schedules (the site runs one shared row)
	CREATE TABLE IF NOT EXISTS supplement_schedules (
		id TEXT PRIMARY KEY,
		extra_adult_price TEXT NOT NULL DEFAULT '0',
		child_over_8_price TEXT NOT NULL DEFAULT '0',
		child_under_8_price TEXT NOT NULL DEFAULT '0',
		pet_price TEXT NOT NULL DEFAULT '0',
		extra_vehicle_price TEXT,
		extra_tent_price TEXT,
		visitor_price_without_pool TEXT,
		visitor_price_with_pool TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Tariff table, one row per (category, season, worker-flag)
	CREATE TABLE IF NOT EXISTS tariffs (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		season TEXT NOT NULL DEFAULT '',
		is_worker BOOLEAN NOT NULL DEFAULT FALSE,
		price_1_person_with_power TEXT,
		price_2_persons_with_power TEXT,
		price_1_person_without_power TEXT,
		price_2_persons_without_power TEXT,
		worker_week_price TEXT,
		worker_weekend_with_power TEXT,
		worker_weekend_without_power TEXT,
		included_occupants INTEGER NOT NULL DEFAULT 1,
		schedule_id TEXT REFERENCES supplement_schedules(id),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_tariffs_key
		ON tariffs(category, season, is_worker);

	-- Capacity limits per category
	CREATE TABLE IF NOT EXISTS capacities (
		category TEXT PRIMARY KEY,
		max_concurrent INTEGER NOT NULL DEFAULT 1,
		number_locations INTEGER NOT NULL DEFAULT 0,
		number_mobile_homes INTEGER NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL
	);

	-- Reservations
	CREATE TABLE IF NOT EXISTS reservations (
		id TEXT PRIMARY KEY,
		last_name TEXT NOT NULL,
		first_name TEXT NOT NULL,
		address TEXT NOT NULL,
		postal_code TEXT NOT NULL,
		city TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		subtype TEXT NOT NULL,
		category TEXT NOT NULL,
		electricity TEXT NOT NULL,
		adults INTEGER NOT NULL DEFAULT 1,
		children_over_8 INTEGER NOT NULL DEFAULT 0,
		children_under_8 INTEGER NOT NULL DEFAULT 0,
		pets INTEGER NOT NULL DEFAULT 0,
		extra_vehicles INTEGER NOT NULL DEFAULT 0,
		extra_tents INTEGER NOT NULL DEFAULT 0,
		tent_length TEXT,
		tent_width TEXT,
		vehicle_length TEXT,
		cable_length TEXT,
		deposit_paid BOOLEAN NOT NULL DEFAULT FALSE,
		schedule_id TEXT REFERENCES supplement_schedules(id),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Hot path: the overlap count behind every capacity check
	CREATE INDEX IF NOT EXISTS idx_reservations_subtype_dates
		ON reservations(subtype, start_date, end_date);
	CREATE INDEX IF NOT EXISTS idx_reservations_created_at
		ON reservations(created_at);

	-- Enquiries (free-form reservation requests)
	CREATE TABLE IF NOT EXISTS enquiries (
		id TEXT PRIMARY KEY,
		last_name TEXT NOT NULL,
		first_name TEXT NOT NULL,
		address TEXT NOT NULL,
		postal_code TEXT NOT NULL,
		city TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		accommodation TEXT NOT NULL,
		adults INTEGER NOT NULL DEFAULT 1,
		children_over_8 INTEGER NOT NULL DEFAULT 0,
		children_under_8 INTEGER NOT NULL DEFAULT 0,
		pets INTEGER NOT NULL DEFAULT 0,
		tent_length TEXT,
		tent_width TEXT,
		vehicle_length TEXT,
		electricity TEXT NOT NULL DEFAULT 'no',
		cable_length TEXT,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// execer abstracts *sql.DB and *sql.Tx so the same statements run inside
// and outside transactions.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

const dateFormat = "2006-01-02"

// =============================================================================
// DECIMAL HELPERS - TEXT round-trip, never REAL
// =============================================================================

func nullDecimalString(d decimal.NullDecimal) sql.NullString {
	if !d.Valid {
		return sql.NullString{}
	}
	return sql.NullString{String: d.Decimal.String(), Valid: true}
}

func parseNullDecimal(s sql.NullString) decimal.NullDecimal {
	if !s.Valid {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// =============================================================================
// TARIFFS (booking.TariffStore)
// =============================================================================

const tariffColumns = `id, category, season, is_worker,
	price_1_person_with_power, price_2_persons_with_power,
	price_1_person_without_power, price_2_persons_without_power,
	worker_week_price, worker_weekend_with_power, worker_weekend_without_power,
	included_occupants, schedule_id`

func (s *Store) FindTariff(ctx context.Context, category pricing.Category, season pricing.Season, isWorker bool) (*pricing.Tariff, error) {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+tariffColumns+` FROM tariffs WHERE category = ? AND season = ? AND is_worker = ?`,
		category, season, isWorker)

	t, err := scanTariff(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find tariff: %w", err)
	}
	return t, nil
}

func (s *Store) ListTariffs(ctx context.Context) ([]pricing.Tariff, error) {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tariffColumns+` FROM tariffs ORDER BY category, season, is_worker`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tariffs: %w", err)
	}
	defer rows.Close()

	var tariffs []pricing.Tariff
	for rows.Next() {
		t, err := scanTariff(rows)
		if err != nil {
			return nil, err
		}
		tariffs = append(tariffs, *t)
	}
	return tariffs, rows.Err()
}

// SaveTariff validates, derives the included occupant count, attaches the
// shared supplement schedule when absent, and upserts by the tariff key.
func (s *Store) SaveTariff(ctx context.Context, t *pricing.Tariff) error {
	if err := t.Validate(); err != nil {
		return err
	}
	t.Normalize()

	if t.ScheduleID == "" {
		schedule, err := s.EnsureSchedule(ctx)
		if err != nil {
			return err
		}
		t.ScheduleID = schedule.ID
	}

	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()

	if t.ID == "" {
		t.ID = pricing.TariffID(uuid.NewString())
	}
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tariffs (`+tariffColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(category, season, is_worker) DO UPDATE SET
			price_1_person_with_power = excluded.price_1_person_with_power,
			price_2_persons_with_power = excluded.price_2_persons_with_power,
			price_1_person_without_power = excluded.price_1_person_without_power,
			price_2_persons_without_power = excluded.price_2_persons_without_power,
			worker_week_price = excluded.worker_week_price,
			worker_weekend_with_power = excluded.worker_weekend_with_power,
			worker_weekend_without_power = excluded.worker_weekend_without_power,
			included_occupants = excluded.included_occupants,
			schedule_id = excluded.schedule_id,
			updated_at = excluded.updated_at`,
		t.ID, t.Category, t.Season, t.IsWorker,
		nullDecimalString(t.Price1PersonWithPower),
		nullDecimalString(t.Price2PersonsWithPower),
		nullDecimalString(t.Price1PersonWithoutPower),
		nullDecimalString(t.Price2PersonsWithoutPower),
		nullDecimalString(t.WorkerWeekPrice),
		nullDecimalString(t.WorkerWeekendWithPower),
		nullDecimalString(t.WorkerWeekendWithoutPower),
		t.IncludedOccupants, string(t.ScheduleID),
		now, now)
	if err != nil {
		return fmt.Errorf("failed to save tariff: %w", err)
	}
	return nil
}

func scanTariff(row rowScanner) (*pricing.Tariff, error) {
	var (
		t          pricing.Tariff
		p1w, p2w   sql.NullString
		p1wo, p2wo sql.NullString
		ww, wew    sql.NullString
		wewo       sql.NullString
		scheduleID sql.NullString
	)

	err := row.Scan(&t.ID, &t.Category, &t.Season, &t.IsWorker,
		&p1w, &p2w, &p1wo, &p2wo, &ww, &wew, &wewo,
		&t.IncludedOccupants, &scheduleID)
	if err != nil {
		return nil, err
	}

	t.Price1PersonWithPower = parseNullDecimal(p1w)
	t.Price2PersonsWithPower = parseNullDecimal(p2w)
	t.Price1PersonWithoutPower = parseNullDecimal(p1wo)
	t.Price2PersonsWithoutPower = parseNullDecimal(p2wo)
	t.WorkerWeekPrice = parseNullDecimal(ww)
	t.WorkerWeekendWithPower = parseNullDecimal(wew)
	t.WorkerWeekendWithoutPower = parseNullDecimal(wewo)
	t.ScheduleID = pricing.ScheduleID(scheduleID.String)
	return &t, nil
}

// =============================================================================
// SUPPLEMENT SCHEDULES (booking.ScheduleStore)
// =============================================================================

const scheduleColumns = `id, extra_adult_price, child_over_8_price, child_under_8_price,
	pet_price, extra_vehicle_price, extra_tent_price,
	visitor_price_without_pool, visitor_price_with_pool`

func (s *Store) FirstSchedule(ctx context.Context) (*pricing.SupplementSchedule, error) {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()

	return firstSchedule(ctx, s.db)
}

func firstSchedule(ctx context.Context, db execer) (*pricing.SupplementSchedule, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+scheduleColumns+` FROM supplement_schedules ORDER BY created_at LIMIT 1`)

	schedule, err := scanSchedule(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load supplement schedule: %w", err)
	}
	return schedule, nil
}

func insertDefaultSchedule(ctx context.Context, db execer) (*pricing.SupplementSchedule, error) {
	schedule := &pricing.SupplementSchedule{ID: pricing.ScheduleID(uuid.NewString())}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.ExecContext(ctx, `
		INSERT INTO supplement_schedules (`+scheduleColumns+`, created_at, updated_at)
		VALUES (?, '0', '0', '0', '0', NULL, NULL, NULL, NULL, ?, ?)`,
		string(schedule.ID), now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create default supplement schedule: %w", err)
	}
	return schedule, nil
}

// EnsureSchedule returns the shared schedule, creating a zero-priced
// default when none exists yet.
func (s *Store) EnsureSchedule(ctx context.Context) (*pricing.SupplementSchedule, error) {
	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()

	schedule, err := firstSchedule(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if schedule != nil {
		return schedule, nil
	}
	return insertDefaultSchedule(ctx, s.db)
}

func (s *Store) SaveSchedule(ctx context.Context, schedule *pricing.SupplementSchedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()

	if schedule.ID == "" {
		schedule.ID = pricing.ScheduleID(uuid.NewString())
	}
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO supplement_schedules (`+scheduleColumns+`, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			extra_adult_price = excluded.extra_adult_price,
			child_over_8_price = excluded.child_over_8_price,
			child_under_8_price = excluded.child_under_8_price,
			pet_price = excluded.pet_price,
			extra_vehicle_price = excluded.extra_vehicle_price,
			extra_tent_price = excluded.extra_tent_price,
			visitor_price_without_pool = excluded.visitor_price_without_pool,
			visitor_price_with_pool = excluded.visitor_price_with_pool,
			updated_at = excluded.updated_at`,
		string(schedule.ID),
		schedule.ExtraAdultPrice.String(),
		schedule.ChildOver8Price.String(),
		schedule.ChildUnder8Price.String(),
		schedule.PetPrice.String(),
		nullDecimalString(schedule.ExtraVehiclePrice),
		nullDecimalString(schedule.ExtraTentPrice),
		nullDecimalString(schedule.VisitorPriceWithoutPool),
		nullDecimalString(schedule.VisitorPriceWithPool),
		now, now)
	if err != nil {
		return fmt.Errorf("failed to save supplement schedule: %w", err)
	}
	return nil
}

func scanSchedule(row rowScanner) (*pricing.SupplementSchedule, error) {
	var (
		schedule                    pricing.SupplementSchedule
		extraAdult, childOver       string
		childUnder, pet             string
		extraVehicle, extraTent     sql.NullString
		visitorWithout, visitorWith sql.NullString
	)

	err := row.Scan(&schedule.ID, &extraAdult, &childOver, &childUnder, &pet,
		&extraVehicle, &extraTent, &visitorWithout, &visitorWith)
	if err != nil {
		return nil, err
	}

	schedule.ExtraAdultPrice = parseDecimal(extraAdult)
	schedule.ChildOver8Price = parseDecimal(childOver)
	schedule.ChildUnder8Price = parseDecimal(childUnder)
	schedule.PetPrice = parseDecimal(pet)
	schedule.ExtraVehiclePrice = parseNullDecimal(extraVehicle)
	schedule.ExtraTentPrice = parseNullDecimal(extraTent)
	schedule.VisitorPriceWithoutPool = parseNullDecimal(visitorWithout)
	schedule.VisitorPriceWithPool = parseNullDecimal(visitorWith)
	return &schedule, nil
}

// =============================================================================
// CAPACITIES (booking.CapacityStore)
// =============================================================================

func (s *Store) GetCapacity(ctx context.Context, category pricing.Category) (*booking.CapacityRow, error) {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return getCapacity(ctx, s.db, category)
}

func getCapacity(ctx context.Context, db execer, category pricing.Category) (*booking.CapacityRow, error) {
	var row booking.CapacityRow
	err := db.QueryRowContext(ctx,
		`SELECT category, max_concurrent, number_locations, number_mobile_homes
		 FROM capacities WHERE category = ?`, category).
		Scan(&row.Category, &row.MaxConcurrent, &row.NumberLocations, &row.NumberMobileHomes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get capacity: %w", err)
	}
	return &row, nil
}

func (s *Store) ListCapacities(ctx context.Context) ([]booking.CapacityRow, error) {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT category, max_concurrent, number_locations, number_mobile_homes
		 FROM capacities ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to list capacities: %w", err)
	}
	defer rows.Close()

	var out []booking.CapacityRow
	for rows.Next() {
		var row booking.CapacityRow
		if err := rows.Scan(&row.Category, &row.MaxConcurrent, &row.NumberLocations, &row.NumberMobileHomes); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (s *Store) SaveCapacity(ctx context.Context, row *booking.CapacityRow) error {
	if err := row.Validate(); err != nil {
		return err
	}

	s.cfgMu.Lock()
	defer s.cfgMu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO capacities (category, max_concurrent, number_locations, number_mobile_homes, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET
			max_concurrent = excluded.max_concurrent,
			number_locations = excluded.number_locations,
			number_mobile_homes = excluded.number_mobile_homes,
			updated_at = excluded.updated_at`,
		row.Category, row.MaxConcurrent, row.NumberLocations, row.NumberMobileHomes,
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save capacity: %w", err)
	}
	return nil
}

// =============================================================================
// RESERVATIONS (booking.ReservationStore)
// =============================================================================

const reservationColumns = `id, last_name, first_name, address, postal_code, city, phone, email,
	start_date, end_date, subtype, category, electricity,
	adults, children_over_8, children_under_8, pets, extra_vehicles, extra_tents,
	tent_length, tent_width, vehicle_length, cable_length,
	deposit_paid, schedule_id, created_at, updated_at`

func (s *Store) CreateReservation(ctx context.Context, r *booking.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return createReservation(ctx, s.db, r)
}

func createReservation(ctx context.Context, db execer, r *booking.Reservation) error {
	r.Normalize()
	if err := attachSchedule(ctx, db, r); err != nil {
		return err
	}

	if r.ID == "" {
		r.ID = booking.ReservationID(uuid.NewString())
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	_, err := db.ExecContext(ctx, `
		INSERT INTO reservations (`+reservationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(r.ID), r.LastName, r.FirstName, r.Address, r.PostalCode, r.City, r.Phone, r.Email,
		r.StartDate.Format(dateFormat), r.EndDate.Format(dateFormat),
		r.Subtype, r.Category, r.Electricity,
		r.Adults, r.ChildrenOver8, r.ChildrenUnder8, r.Pets, r.ExtraVehicles, r.ExtraTents,
		nullDecimalString(r.TentLength), nullDecimalString(r.TentWidth),
		nullDecimalString(r.VehicleLength), nullDecimalString(r.CableLength),
		r.DepositPaid, string(r.ScheduleID),
		now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (s *Store) UpdateReservation(ctx context.Context, r *booking.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return updateReservation(ctx, s.db, r)
}

func updateReservation(ctx context.Context, db execer, r *booking.Reservation) error {
	r.Normalize()
	if err := attachSchedule(ctx, db, r); err != nil {
		return err
	}
	r.UpdatedAt = time.Now().UTC()

	res, err := db.ExecContext(ctx, `
		UPDATE reservations SET
			last_name = ?, first_name = ?, address = ?, postal_code = ?, city = ?,
			phone = ?, email = ?,
			start_date = ?, end_date = ?, subtype = ?, category = ?, electricity = ?,
			adults = ?, children_over_8 = ?, children_under_8 = ?, pets = ?,
			extra_vehicles = ?, extra_tents = ?,
			tent_length = ?, tent_width = ?, vehicle_length = ?, cable_length = ?,
			deposit_paid = ?, schedule_id = ?, updated_at = ?
		WHERE id = ?`,
		r.LastName, r.FirstName, r.Address, r.PostalCode, r.City, r.Phone, r.Email,
		r.StartDate.Format(dateFormat), r.EndDate.Format(dateFormat),
		r.Subtype, r.Category, r.Electricity,
		r.Adults, r.ChildrenOver8, r.ChildrenUnder8, r.Pets, r.ExtraVehicles, r.ExtraTents,
		nullDecimalString(r.TentLength), nullDecimalString(r.TentWidth),
		nullDecimalString(r.VehicleLength), nullDecimalString(r.CableLength),
		r.DepositPaid, string(r.ScheduleID), r.UpdatedAt.Format(time.RFC3339),
		string(r.ID))
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("reservation %s: %w", r.ID, booking.ErrNotFound)
	}
	return nil
}

// attachSchedule assigns the shared supplement schedule to records that
// have none, creating the default when the table is empty.
func attachSchedule(ctx context.Context, db execer, r *booking.Reservation) error {
	if r.ScheduleID != "" {
		return nil
	}
	schedule, err := firstSchedule(ctx, db)
	if err != nil {
		return err
	}
	if schedule == nil {
		schedule, err = insertDefaultSchedule(ctx, db)
		if err != nil {
			return err
		}
	}
	r.ScheduleID = schedule.ID
	return nil
}

func (s *Store) GetReservation(ctx context.Context, id booking.ReservationID) (*booking.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return getReservation(ctx, s.db, id)
}

func getReservation(ctx context.Context, db execer, id booking.ReservationID) (*booking.Reservation, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, string(id))

	r, err := scanReservation(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("reservation %s: %w", id, booking.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return r, nil
}

func (s *Store) ListReservations(ctx context.Context) ([]booking.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return listReservations(ctx, s.db)
}

func listReservations(ctx context.Context, db execer) ([]booking.Reservation, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+reservationColumns+` FROM reservations ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	var out []booking.Reservation
	for rows.Next() {
		r, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) CountOverlapping(ctx context.Context, subtypes []pricing.Subtype, start, end time.Time, exclude booking.ReservationID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return countOverlapping(ctx, s.db, subtypes, start, end, exclude)
}

// countOverlapping is the count behind every capacity check: strict
// half-open overlap, so same-day checkout/checkin never collides.
func countOverlapping(ctx context.Context, db execer, subtypes []pricing.Subtype, start, end time.Time, exclude booking.ReservationID) (int, error) {
	if len(subtypes) == 0 {
		return 0, nil
	}

	query := `SELECT COUNT(*) FROM reservations
		WHERE start_date < ? AND end_date > ? AND id != ? AND subtype IN (?` +
		repeatPlaceholder(len(subtypes)-1) + `)`

	args := []any{end.Format(dateFormat), start.Format(dateFormat), string(exclude)}
	for _, st := range subtypes {
		args = append(args, string(st))
	}

	var count int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count overlapping reservations: %w", err)
	}
	return count, nil
}

func repeatPlaceholder(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		out += ", ?"
	}
	return out
}

func (s *Store) MarkDepositPaid(ctx context.Context, id booking.ReservationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return markDepositPaid(ctx, s.db, id)
}

func markDepositPaid(ctx context.Context, db execer, id booking.ReservationID) error {
	res, err := db.ExecContext(ctx,
		`UPDATE reservations SET deposit_paid = TRUE, updated_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), string(id))
	if err != nil {
		return fmt.Errorf("failed to mark deposit paid: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("reservation %s: %w", id, booking.ErrNotFound)
	}
	return nil
}

func scanReservation(row rowScanner) (*booking.Reservation, error) {
	var (
		r                     booking.Reservation
		startDate, endDate    string
		tentLength, tentWidth sql.NullString
		vehicleLength         sql.NullString
		cableLength           sql.NullString
		scheduleID            sql.NullString
		createdAt, updatedAt  string
	)

	err := row.Scan(&r.ID, &r.LastName, &r.FirstName, &r.Address, &r.PostalCode, &r.City,
		&r.Phone, &r.Email, &startDate, &endDate, &r.Subtype, &r.Category, &r.Electricity,
		&r.Adults, &r.ChildrenOver8, &r.ChildrenUnder8, &r.Pets, &r.ExtraVehicles, &r.ExtraTents,
		&tentLength, &tentWidth, &vehicleLength, &cableLength,
		&r.DepositPaid, &scheduleID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	r.StartDate, _ = time.Parse(dateFormat, startDate)
	r.EndDate, _ = time.Parse(dateFormat, endDate)
	r.TentLength = parseNullDecimal(tentLength)
	r.TentWidth = parseNullDecimal(tentWidth)
	r.VehicleLength = parseNullDecimal(vehicleLength)
	r.CableLength = parseNullDecimal(cableLength)
	r.ScheduleID = pricing.ScheduleID(scheduleID.String)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &r, nil
}

// =============================================================================
// TRANSACTIONAL STORE (booking.TxReservationStore)
// =============================================================================

// WithTx executes fn within a database transaction. The store mutex is
// held for the duration so the capacity count and the insert form one
// atomic unit relative to other admissions. fn must do all its reads
// through the view it receives: the transaction pins the pool's only
// connection, so a query through s.db from inside fn would block on it.
func (s *Store) WithTx(ctx context.Context, fn func(booking.AdmissionStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}
	return sqlTx.Commit()
}

// txStore exposes the reservation operations, and the capacity read the
// guard needs, against an open transaction.
type txStore struct {
	tx *sql.Tx
}

func (t *txStore) GetCapacity(ctx context.Context, category pricing.Category) (*booking.CapacityRow, error) {
	return getCapacity(ctx, t.tx, category)
}

func (t *txStore) CreateReservation(ctx context.Context, r *booking.Reservation) error {
	return createReservation(ctx, t.tx, r)
}

func (t *txStore) UpdateReservation(ctx context.Context, r *booking.Reservation) error {
	return updateReservation(ctx, t.tx, r)
}

func (t *txStore) GetReservation(ctx context.Context, id booking.ReservationID) (*booking.Reservation, error) {
	return getReservation(ctx, t.tx, id)
}

func (t *txStore) ListReservations(ctx context.Context) ([]booking.Reservation, error) {
	return listReservations(ctx, t.tx)
}

func (t *txStore) CountOverlapping(ctx context.Context, subtypes []pricing.Subtype, start, end time.Time, exclude booking.ReservationID) (int, error) {
	return countOverlapping(ctx, t.tx, subtypes, start, end, exclude)
}

func (t *txStore) MarkDepositPaid(ctx context.Context, id booking.ReservationID) error {
	return markDepositPaid(ctx, t.tx, id)
}

// =============================================================================
// ENQUIRIES (booking.EnquiryStore)
// =============================================================================

func (s *Store) CreateEnquiry(ctx context.Context, e *booking.Enquiry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	e.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO enquiries
		(id, last_name, first_name, address, postal_code, city, phone, email, message,
		 start_date, end_date, accommodation,
		 adults, children_over_8, children_under_8, pets,
		 tent_length, tent_width, vehicle_length, electricity, cable_length, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.LastName, e.FirstName, e.Address, e.PostalCode, e.City, e.Phone, e.Email, e.Message,
		e.StartDate.Format(dateFormat), e.EndDate.Format(dateFormat), e.Accommodation,
		e.Adults, e.ChildrenOver8, e.ChildrenUnder8, e.Pets,
		nullDecimalString(e.TentLength), nullDecimalString(e.TentWidth),
		nullDecimalString(e.VehicleLength), e.Electricity, nullDecimalString(e.CableLength),
		e.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to create enquiry: %w", err)
	}
	return nil
}

func (s *Store) ListEnquiries(ctx context.Context) ([]booking.Enquiry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, last_name, first_name, address, postal_code, city, phone, email, message,
		       start_date, end_date, accommodation,
		       adults, children_over_8, children_under_8, pets,
		       tent_length, tent_width, vehicle_length, electricity, cable_length, created_at
		FROM enquiries ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list enquiries: %w", err)
	}
	defer rows.Close()

	var out []booking.Enquiry
	for rows.Next() {
		var (
			e                     booking.Enquiry
			startDate, endDate    string
			tentLength, tentWidth sql.NullString
			vehicleLength         sql.NullString
			cableLength           sql.NullString
			createdAt             string
		)
		err := rows.Scan(&e.ID, &e.LastName, &e.FirstName, &e.Address, &e.PostalCode, &e.City,
			&e.Phone, &e.Email, &e.Message, &startDate, &endDate, &e.Accommodation,
			&e.Adults, &e.ChildrenOver8, &e.ChildrenUnder8, &e.Pets,
			&tentLength, &tentWidth, &vehicleLength, &e.Electricity, &cableLength, &createdAt)
		if err != nil {
			return nil, err
		}
		e.StartDate, _ = time.Parse(dateFormat, startDate)
		e.EndDate, _ = time.Parse(dateFormat, endDate)
		e.TentLength = parseNullDecimal(tentLength)
		e.TentWidth = parseNullDecimal(tentWidth)
		e.VehicleLength = parseNullDecimal(vehicleLength)
		e.CableLength = parseNullDecimal(cableLength)
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// =============================================================================
// RETENTION (booking.RetentionStore)
// =============================================================================

func (s *Store) AnonymizeReservationsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE reservations SET
			last_name = ?, first_name = ?, address = ?, postal_code = '00000',
			city = ?, phone = ?, email = ?
		WHERE created_at < ?`,
		booking.AnonymizedName, booking.AnonymizedName, booking.AnonymizedName,
		booking.AnonymizedName, booking.AnonymizedPhone, booking.AnonymizedEmail,
		cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to anonymize reservations: %w", err)
	}
	affected, err := res.RowsAffected()
	return int(affected), err
}

func (s *Store) DeleteReservationsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM reservations WHERE created_at < ?`,
		cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("failed to delete reservations: %w", err)
	}
	affected, err := res.RowsAffected()
	return int(affected), err
}
