package service_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/motorfair/backend/internal/domain"
	"github.com/motorfair/backend/internal/repo"
)

// ---- mock RegistrationRepo -------------------------------------------------

type mockRegistrationRepo struct {
	create          func(ctx context.Context, reg domain.Registration) (domain.Registration, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.Registration, error)
	getBySessionID  func(ctx context.Context, sessionID string) (domain.Registration, error)
	getByCredential func(ctx context.Context, credential string) (domain.Registration, error)
	listByEvent     func(ctx context.Context, eventID uuid.UUID) ([]domain.Registration, error)
	listByUser      func(ctx context.Context, userID uuid.UUID) ([]domain.Registration, error)
	listByVehicle   func(ctx context.Context, vehicleID uuid.UUID) ([]domain.Registration, error)
	checkIn         func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (m *mockRegistrationRepo) Create(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	return m.create(ctx, reg)
}
func (m *mockRegistrationRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Registration, error) {
	return m.getByID(ctx, id)
}
func (m *mockRegistrationRepo) GetBySessionID(ctx context.Context, sessionID string) (domain.Registration, error) {
	return m.getBySessionID(ctx, sessionID)
}
func (m *mockRegistrationRepo) GetByCredential(ctx context.Context, credential string) (domain.Registration, error) {
	return m.getByCredential(ctx, credential)
}
func (m *mockRegistrationRepo) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Registration, error) {
	return m.listByEvent(ctx, eventID)
}
func (m *mockRegistrationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Registration, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockRegistrationRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]domain.Registration, error) {
	return m.listByVehicle(ctx, vehicleID)
}
func (m *mockRegistrationRepo) CheckIn(ctx context.Context, id uuid.UUID) (bool, error) {
	return m.checkIn(ctx, id)
}

// compile-time check
var _ repo.RegistrationRepo = (*mockRegistrationRepo)(nil)

// ---- mock EventRepo --------------------------------------------------------

type mockEventRepo struct {
	create  func(ctx context.Context, event domain.Event) (domain.Event, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Event, error)
	list    func(ctx context.Context) ([]domain.Event, error)
}

func (m *mockEventRepo) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	return m.create(ctx, event)
}
func (m *mockEventRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Event, error) {
	return m.getByID(ctx, id)
}
func (m *mockEventRepo) List(ctx context.Context) ([]domain.Event, error) {
	return m.list(ctx)
}

var _ repo.EventRepo = (*mockEventRepo)(nil)

// ---- mock VehicleRepo ------------------------------------------------------

type mockVehicleRepo struct {
	create  func(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Vehicle, error)
}

func (m *mockVehicleRepo) Create(ctx context.Context, vehicle domain.Vehicle) (domain.Vehicle, error) {
	return m.create(ctx, vehicle)
}
func (m *mockVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Vehicle, error) {
	return m.getByID(ctx, id)
}

var _ repo.VehicleRepo = (*mockVehicleRepo)(nil)

// ---- mock UserRepo ---------------------------------------------------------

type mockUserRepo struct {
	create  func(ctx context.Context, user domain.User) (domain.User, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.create(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)
