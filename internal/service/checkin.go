package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/motorfair/backend/internal/credential"
	"github.com/motorfair/backend/internal/domain"
	"github.com/motorfair/backend/internal/repo"
)

// CheckinService resolves scanned credentials and performs the admission
// state transition. It is invoked concurrently by multiple gate devices; all
// coordination happens through the registration store's conditional update,
// never through in-process state.
type CheckinService struct {
	registrations repo.RegistrationRepo
	events        repo.EventRepo
	vehicles      repo.VehicleRepo
	users         repo.UserRepo
	codec         *credential.Codec
}

// NewCheckinService constructs a CheckinService backed by the provided repos.
func NewCheckinService(
	registrations repo.RegistrationRepo,
	events repo.EventRepo,
	vehicles repo.VehicleRepo,
	users repo.UserRepo,
	codec *credential.Codec,
) *CheckinService {
	return &CheckinService{
		registrations: registrations,
		events:        events,
		vehicles:      vehicles,
		users:         users,
		codec:         codec,
	}
}

// Validate resolves a scanned token to its registration plus the associated
// event, vehicle, and user. Pure read — nothing is mutated, so the operator
// can inspect before committing to admit.
//
// A token that fails signature verification never reaches the store; it maps
// to domain.ErrNotFound like any other unknown credential, because the gate
// operator needs no distinction between "forged" and "unknown".
func (s *CheckinService) Validate(ctx context.Context, token string) (domain.CheckinDetails, error) {
	if _, err := s.codec.Decode(token); err != nil {
		return domain.CheckinDetails{}, fmt.Errorf("service.CheckinService.Validate: %s: %w", err, domain.ErrNotFound)
	}

	reg, err := s.registrations.GetByCredential(ctx, token)
	if err != nil {
		return domain.CheckinDetails{}, fmt.Errorf("service.CheckinService.Validate: %w", err)
	}

	event, err := s.events.GetByID(ctx, reg.EventID)
	if err != nil {
		return domain.CheckinDetails{}, fmt.Errorf("service.CheckinService.Validate: event: %w", err)
	}
	vehicle, err := s.vehicles.GetByID(ctx, reg.VehicleID)
	if err != nil {
		return domain.CheckinDetails{}, fmt.Errorf("service.CheckinService.Validate: vehicle: %w", err)
	}
	user, err := s.users.GetByID(ctx, reg.UserID)
	if err != nil {
		return domain.CheckinDetails{}, fmt.Errorf("service.CheckinService.Validate: user: %w", err)
	}

	return domain.CheckinDetails{
		Registration: reg,
		Event:        event,
		Vehicle:      vehicle,
		User:         user,
	}, nil
}

// CheckIn commits the admission. The returned flag distinguishes a fresh
// admit from a re-presented pass so gate staff can flag a possible duplicate
// physical pass. Safe under concurrent invocation: the store's conditional
// update guarantees exactly one caller observes alreadyCheckedIn == false.
func (s *CheckinService) CheckIn(ctx context.Context, registrationID uuid.UUID) (alreadyCheckedIn bool, err error) {
	already, err := s.registrations.CheckIn(ctx, registrationID)
	if err != nil {
		return false, fmt.Errorf("service.CheckinService.CheckIn: %w", err)
	}
	return already, nil
}
