// Package service contains the business logic for the Motorfair admission
// pipeline. Services validate inputs, enforce the idempotency and check-in
// rules, and orchestrate repo calls. No SQL lives here — services depend on
// repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/motorfair/backend/internal/credential"
	"github.com/motorfair/backend/internal/domain"
	"github.com/motorfair/backend/internal/payment"
	"github.com/motorfair/backend/internal/repo"
)

// RegistrationService turns completed payment sessions into registrations and
// serves the operator's read surface.
type RegistrationService struct {
	registrations repo.RegistrationRepo
	codec         *credential.Codec
	now           func() time.Time
}

// NewRegistrationService constructs a RegistrationService.
func NewRegistrationService(registrations repo.RegistrationRepo, codec *credential.Codec) *RegistrationService {
	return &RegistrationService{
		registrations: registrations,
		codec:         codec,
		now:           time.Now,
	}
}

// ProcessCompletion creates the registration for a completed checkout
// session. It is idempotent on the session ID: redelivered webhooks return
// the existing record with created == false and no error.
//
// The fast path checks for an existing record first; the slow path relies on
// the store's unique constraint to resolve a race between two concurrent
// deliveries, reinterpreting the loser's constraint violation as the
// duplicate case. Callers never see domain.ErrDuplicateSession.
func (s *RegistrationService) ProcessCompletion(ctx context.Context, adm payment.Admission) (reg domain.Registration, created bool, err error) {
	existing, err := s.registrations.GetBySessionID(ctx, adm.SessionID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Registration{}, false, fmt.Errorf("service.RegistrationService.ProcessCompletion: %w", err)
	}

	token := s.codec.Mint(adm.UserID, adm.EventID, adm.VehicleID, s.now())

	reg, err = s.registrations.Create(ctx, domain.Registration{
		EventID:          adm.EventID,
		VehicleID:        adm.VehicleID,
		UserID:           adm.UserID,
		PaymentStatus:    domain.PaymentCompleted,
		PaymentSessionID: adm.SessionID,
		Credential:       token,
		CheckedIn:        false,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateSession) {
			// Lost the insert race — fetch the winner's record.
			winner, getErr := s.registrations.GetBySessionID(ctx, adm.SessionID)
			if getErr != nil {
				return domain.Registration{}, false, fmt.Errorf("service.RegistrationService.ProcessCompletion: fetch after race: %w", getErr)
			}
			return winner, false, nil
		}
		return domain.Registration{}, false, fmt.Errorf("service.RegistrationService.ProcessCompletion: %w", err)
	}
	return reg, true, nil
}

// ListByEvent returns all registrations for an event, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *RegistrationService) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Registration, error) {
	regs, err := s.registrations.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("service.RegistrationService.ListByEvent: %w", err)
	}
	if regs == nil {
		return []domain.Registration{}, nil
	}
	return regs, nil
}

// Pass returns the registration's credential rendered as a QR data URL for
// display in the vendor's pass screen.
func (s *RegistrationService) Pass(ctx context.Context, id uuid.UUID) (string, error) {
	reg, err := s.registrations.GetByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("service.RegistrationService.Pass: %w", err)
	}
	url, err := s.codec.DataURL(reg.Credential, 256)
	if err != nil {
		return "", fmt.Errorf("service.RegistrationService.Pass: %w", err)
	}
	return url, nil
}
