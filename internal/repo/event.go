package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/motorfair/backend/internal/domain"
)

// EventRepo defines the persistence operations for Events the admission
// pipeline needs. Administrative edits happen in a separate surface.
type EventRepo interface {
	// Create inserts a new event and returns the persisted record.
	Create(ctx context.Context, event domain.Event) (domain.Event, error)

	// GetByID retrieves a single event by its UUID primary key.
	// Returns domain.ErrNotFound if no event with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error)

	// List returns all events ordered by scheduled_at ascending.
	List(ctx context.Context) ([]domain.Event, error)
}

type pgEventRepo struct {
	db db
}

// NewEventRepo constructs an EventRepo backed by the provided db connection.
func NewEventRepo(db db) EventRepo {
	return &pgEventRepo{db: db}
}

// Create inserts a new event row and returns the full persisted record.
func (r *pgEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	const q = `
		INSERT INTO events (name, scheduled_at, location, address, capacity, description)
		VALUES (@name, @scheduled_at, @location, @address, @capacity, @description)
		RETURNING id, name, scheduled_at, location, address, capacity, description, created_at`

	args := pgx.NamedArgs{
		"name":         event.Name,
		"scheduled_at": event.ScheduledAt,
		"location":     event.Location,
		"address":      event.Address,
		"capacity":     event.Capacity,
		"description":  event.Description,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves an event by primary key.
func (r *pgEventRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	const q = `
		SELECT id, name, scheduled_at, location, address, capacity, description, created_at
		FROM events
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanEvent(row)
	if err != nil {
		return domain.Event{}, fmt.Errorf("repo.EventRepo.GetByID: %w", err)
	}
	return result, nil
}

// List returns all events ordered by scheduled_at ascending (soonest first).
func (r *pgEventRepo) List(ctx context.Context) ([]domain.Event, error) {
	const q = `
		SELECT id, name, scheduled_at, location, address, capacity, description, created_at
		FROM events
		ORDER BY scheduled_at ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.EventRepo.List: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.EventRepo.List: scan: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.EventRepo.List: rows: %w", err)
	}

	return events, nil
}

// scanEvent maps a single database row into a domain.Event.
func scanEvent(s scanner) (domain.Event, error) {
	var (
		e  domain.Event
		id pgtype.UUID
	)

	err := s.Scan(&id, &e.Name, &e.ScheduledAt, &e.Location, &e.Address,
		&e.Capacity, &e.Description, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Event{}, domain.ErrNotFound
		}
		return domain.Event{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	return e, nil
}
