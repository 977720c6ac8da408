package service

import (
	"context"
	"fmt"

	"github.com/motorfair/backend/internal/domain"
	"github.com/motorfair/backend/internal/repo"
)

// EventService serves the operator's event surface: the schedule of upcoming
// events a dashboard lists registrations against.
type EventService struct {
	events repo.EventRepo
}

// NewEventService constructs an EventService.
func NewEventService(events repo.EventRepo) *EventService {
	return &EventService{events: events}
}

// List returns all events, soonest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	events, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.EventService.List: %w", err)
	}
	if events == nil {
		return []domain.Event{}, nil
	}
	return events, nil
}
