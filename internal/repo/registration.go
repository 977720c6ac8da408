// Package repo contains all database access logic for the Motorfair API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/motorfair/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// uniqueViolation is the Postgres SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// RegistrationRepo defines the persistence operations for Registrations.
// All cross-process coordination in the admission pipeline flows through this
// table's constraints: the service layer never does read-then-write sequences
// for creation or check-in.
type RegistrationRepo interface {
	// Create inserts a new registration and returns the persisted record
	// (with DB-generated id and created_at populated).
	// Returns domain.ErrDuplicateSession if a registration with the same
	// payment_session_id already exists — including when this call loses a
	// race against a concurrent insert of the same session.
	Create(ctx context.Context, reg domain.Registration) (domain.Registration, error)

	// GetByID retrieves a single registration by its UUID primary key.
	// Returns domain.ErrNotFound if no registration with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Registration, error)

	// GetBySessionID retrieves the registration created for a payment
	// session. Returns domain.ErrNotFound when the session has no record.
	GetBySessionID(ctx context.Context, sessionID string) (domain.Registration, error)

	// GetByCredential retrieves a registration by exact credential match.
	// Returns domain.ErrNotFound for any token with no record, valid-looking
	// or not.
	GetByCredential(ctx context.Context, credential string) (domain.Registration, error)

	// ListByEvent returns all registrations for an event, newest first.
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Registration, error)

	// ListByUser returns all registrations made by a vendor, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Registration, error)

	// ListByVehicle returns all registrations for a vehicle, newest first.
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Registration, error)

	// CheckIn flips checked_in from false to true as a single conditional
	// update. Exactly one caller ever observes alreadyCheckedIn == false;
	// every later or racing caller observes true. Returns domain.ErrNotFound
	// if the registration does not exist.
	CheckIn(ctx context.Context, id uuid.UUID) (alreadyCheckedIn bool, err error)
}

// pgRegistrationRepo is the Postgres implementation of RegistrationRepo.
type pgRegistrationRepo struct {
	db db
}

// NewRegistrationRepo constructs a RegistrationRepo backed by the provided db.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewRegistrationRepo(db db) RegistrationRepo {
	return &pgRegistrationRepo{db: db}
}

const registrationColumns = `id, event_id, vehicle_id, user_id, payment_status,
	payment_session_id, credential, checked_in, created_at`

// Create inserts a new registration row and returns the full persisted record.
// The unique constraint on payment_session_id is the idempotency guarantee:
// when two deliveries of the same completion event race, exactly one insert
// survives and the loser gets domain.ErrDuplicateSession.
func (r *pgRegistrationRepo) Create(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	const q = `
		INSERT INTO registrations (event_id, vehicle_id, user_id, payment_status,
		                           payment_session_id, credential, checked_in)
		VALUES (@event_id, @vehicle_id, @user_id, @payment_status,
		        @payment_session_id, @credential, @checked_in)
		RETURNING ` + registrationColumns

	args := pgx.NamedArgs{
		"event_id":           reg.EventID,
		"vehicle_id":         reg.VehicleID,
		"user_id":            reg.UserID,
		"payment_status":     reg.PaymentStatus,
		"payment_session_id": reg.PaymentSessionID,
		"credential":         reg.Credential,
		"checked_in":         reg.CheckedIn,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanRegistration(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation &&
			pgErr.ConstraintName == "registrations_payment_session_id_key" {
			return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.Create: %w", domain.ErrDuplicateSession)
		}
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a registration by primary key.
func (r *pgRegistrationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Registration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM registrations WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanRegistration(row)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetBySessionID retrieves a registration by its payment session identifier.
func (r *pgRegistrationRepo) GetBySessionID(ctx context.Context, sessionID string) (domain.Registration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM registrations WHERE payment_session_id = @session_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"session_id": sessionID})
	result, err := scanRegistration(row)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.GetBySessionID: %w", err)
	}
	return result, nil
}

// GetByCredential retrieves a registration by exact credential match.
func (r *pgRegistrationRepo) GetByCredential(ctx context.Context, credential string) (domain.Registration, error) {
	const q = `SELECT ` + registrationColumns + ` FROM registrations WHERE credential = @credential`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"credential": credential})
	result, err := scanRegistration(row)
	if err != nil {
		return domain.Registration{}, fmt.Errorf("repo.RegistrationRepo.GetByCredential: %w", err)
	}
	return result, nil
}

// ListByEvent returns all registrations for an event ordered by created_at descending.
func (r *pgRegistrationRepo) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Registration, error) {
	return r.list(ctx, "event_id", eventID)
}

// ListByUser returns all registrations made by a vendor ordered by created_at descending.
func (r *pgRegistrationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Registration, error) {
	return r.list(ctx, "user_id", userID)
}

// ListByVehicle returns all registrations for a vehicle ordered by created_at descending.
func (r *pgRegistrationRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Registration, error) {
	return r.list(ctx, "vehicle_id", vehicleID)
}

// list is the shared implementation of the ListBy* lookups. The column name
// is always one of the three fixed strings above, never caller input.
func (r *pgRegistrationRepo) list(ctx context.Context, column string, id uuid.UUID) ([]domain.Registration, error) {
	q := `SELECT ` + registrationColumns + `
		FROM registrations
		WHERE ` + column + ` = @id
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, fmt.Errorf("repo.RegistrationRepo.ListBy %s: %w", column, err)
	}
	defer rows.Close()

	var regs []domain.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.RegistrationRepo.ListBy %s: scan: %w", column, err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.RegistrationRepo.ListBy %s: rows: %w", column, err)
	}

	return regs, nil
}

// CheckIn performs the admission state transition as one atomic
// read-modify-write. The WHERE clause is the compare half of the
// compare-and-set: only a row still holding checked_in = false is updated,
// so concurrent gate devices can never both observe a fresh admit.
func (r *pgRegistrationRepo) CheckIn(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `
		UPDATE registrations
		SET checked_in = true
		WHERE id = @id AND checked_in = false`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return false, fmt.Errorf("repo.RegistrationRepo.CheckIn: %w", err)
	}
	if tag.RowsAffected() == 1 {
		// This caller won the flip.
		return false, nil
	}

	// No row updated: either the registration is already checked in or it
	// does not exist. One more read distinguishes the two — the flip itself
	// stays atomic either way.
	const existsQ = `SELECT checked_in FROM registrations WHERE id = @id`
	var checkedIn bool
	if err := r.db.QueryRow(ctx, existsQ, pgx.NamedArgs{"id": id}).Scan(&checkedIn); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, fmt.Errorf("repo.RegistrationRepo.CheckIn: %w", domain.ErrNotFound)
		}
		return false, fmt.Errorf("repo.RegistrationRepo.CheckIn: %w", err)
	}
	return checkedIn, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanRegistration maps a single database row into a domain.Registration.
func scanRegistration(s scanner) (domain.Registration, error) {
	var (
		reg       domain.Registration
		id        pgtype.UUID
		eventID   pgtype.UUID
		vehicleID pgtype.UUID
		userID    pgtype.UUID
	)

	err := s.Scan(&id, &eventID, &vehicleID, &userID, &reg.PaymentStatus,
		&reg.PaymentSessionID, &reg.Credential, &reg.CheckedIn, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Registration{}, domain.ErrNotFound
		}
		return domain.Registration{}, err
	}

	reg.ID = uuid.UUID(id.Bytes)
	reg.EventID = uuid.UUID(eventID.Bytes)
	reg.VehicleID = uuid.UUID(vehicleID.Bytes)
	reg.UserID = uuid.UUID(userID.Bytes)

	return reg, nil
}
