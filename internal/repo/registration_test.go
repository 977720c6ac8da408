package repo_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorfair/backend/internal/domain"
	"github.com/motorfair/backend/internal/repo"
	"github.com/motorfair/backend/testutil"
)

// repos bundles the repositories a registration test needs: a registration
// row cannot exist without its user, event, and vehicle parents.
type repos struct {
	users         repo.UserRepo
	events        repo.EventRepo
	vehicles      repo.VehicleRepo
	registrations repo.RegistrationRepo
}

// newTestRepos opens a transaction against the test database and returns
// repos backed by that transaction. The transaction is automatically rolled
// back when the test finishes, giving free per-test isolation.
func newTestRepos(t *testing.T) repos {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test — no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})

	return repos{
		users:         repo.NewUserRepo(tx),
		events:        repo.NewEventRepo(tx),
		vehicles:      repo.NewVehicleRepo(tx),
		registrations: repo.NewRegistrationRepo(tx),
	}
}

// createFixtures inserts a user, event, and vehicle and returns a registration
// template referencing them. Callers can override fields afterwards.
func createFixtures(t *testing.T, rs repos) domain.Registration {
	t.Helper()
	ctx := context.Background()

	user, err := rs.users.Create(ctx, domain.User{
		Email: fmt.Sprintf("vendor-%s@example.com", uuid.NewString()[:8]),
		Name:  "Test Vendor",
	})
	require.NoError(t, err)

	event, err := rs.events.Create(ctx, domain.Event{
		Name:        "Harbor Night Market",
		ScheduledAt: time.Date(2026, 7, 4, 17, 0, 0, 0, time.UTC),
		Location:    "Pier 9",
		Address:     "9 Harbor Way",
		Capacity:    40,
	})
	require.NoError(t, err)

	vehicle, err := rs.vehicles.Create(ctx, domain.Vehicle{
		UserID: user.ID,
		Make:   "Citroën",
		Model:  "HY Van",
		Year:   1972,
		Status: domain.ApprovalApproved,
	})
	require.NoError(t, err)

	return domain.Registration{
		EventID:          event.ID,
		VehicleID:        vehicle.ID,
		UserID:           user.ID,
		PaymentStatus:    domain.PaymentCompleted,
		PaymentSessionID: "cs_test_" + uuid.NewString(),
		Credential:       "cred-" + uuid.NewString(),
	}
}

func TestRegistrationRepo_Create(t *testing.T) {
	rs := newTestRepos(t)
	ctx := context.Background()

	input := createFixtures(t, rs)
	got, err := rs.registrations.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.EventID, got.EventID)
	assert.Equal(t, input.VehicleID, got.VehicleID)
	assert.Equal(t, input.UserID, got.UserID)
	assert.Equal(t, domain.PaymentCompleted, got.PaymentStatus)
	assert.Equal(t, input.PaymentSessionID, got.PaymentSessionID)
	assert.Equal(t, input.Credential, got.Credential)
	assert.False(t, got.CheckedIn, "new registrations start not checked in")
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestRegistrationRepo_Create_DuplicateSession(t *testing.T) {
	rs := newTestRepos(t)
	ctx := context.Background()

	input := createFixtures(t, rs)
	first, err := rs.registrations.Create(ctx, input)
	require.NoError(t, err)

	// Same session, different credential — the redelivery case.
	dup := input
	dup.Credential = "cred-" + uuid.NewString()
	_, err = rs.registrations.Create(ctx, dup)

	assert.ErrorIs(t, err, domain.ErrDuplicateSession)

	// The surviving record is the first one.
	got, err := rs.registrations.GetBySessionID(ctx, input.PaymentSessionID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, first.Credential, got.Credential)
}

func TestRegistrationRepo_Create_DuplicateCredential(t *testing.T) {
	rs := newTestRepos(t)
	ctx := context.Background()

	input := createFixtures(t, rs)
	_, err := rs.registrations.Create(ctx, input)
	require.NoError(t, err)

	// Different session but colliding credential: not a duplicate delivery,
	// a genuine store error — the two sentinels must stay distinct.
	collide := input
	collide.PaymentSessionID = "cs_test_" + uuid.NewString()
	_, err = rs.registrations.Create(ctx, collide)

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDuplicateSession)
}

func TestRegistrationRepo_GetBySessionID_NotFound(t *testing.T) {
	rs := newTestRepos(t)

	_, err := rs.registrations.GetBySessionID(context.Background(), "cs_never_seen")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistrationRepo_GetByCredential(t *testing.T) {
	rs := newTestRepos(t)
	ctx := context.Background()

	created, err := rs.registrations.Create(ctx, createFixtures(t, rs))
	require.NoError(t, err)

	got, err := rs.registrations.GetByCredential(ctx, created.Credential)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestRegistrationRepo_GetByCredential_NotFound(t *testing.T) {
	rs := newTestRepos(t)

	_, err := rs.registrations.GetByCredential(context.Background(), "bogus-token")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistrationRepo_ListByEvent(t *testing.T) {
	rs := newTestRepos(t)
	ctx := context.Background()

	input := createFixtures(t, rs)
	created, err := rs.registrations.Create(ctx, input)
	require.NoError(t, err)

	regs, err := rs.registrations.ListByEvent(ctx, input.EventID)

	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, created.ID, regs[0].ID)

	// A different event has no registrations.
	other, err := rs.registrations.ListByEvent(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRegistrationRepo_ListByUser(t *testing.T) {
	rs := newTestRepos(t)
	ctx := context.Background()

	input := createFixtures(t, rs)
	created, err := rs.registrations.Create(ctx, input)
	require.NoError(t, err)

	regs, err := rs.registrations.ListByUser(ctx, input.UserID)

	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, created.ID, regs[0].ID)

	other, err := rs.registrations.ListByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRegistrationRepo_ListByVehicle(t *testing.T) {
	rs := newTestRepos(t)
	ctx := context.Background()

	input := createFixtures(t, rs)
	created, err := rs.registrations.Create(ctx, input)
	require.NoError(t, err)

	regs, err := rs.registrations.ListByVehicle(ctx, input.VehicleID)

	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, created.ID, regs[0].ID)

	other, err := rs.registrations.ListByVehicle(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestRegistrationRepo_CheckIn_FirstAndRepeat(t *testing.T) {
	rs := newTestRepos(t)
	ctx := context.Background()

	created, err := rs.registrations.Create(ctx, createFixtures(t, rs))
	require.NoError(t, err)

	already, err := rs.registrations.CheckIn(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, already, "first check-in should report a fresh admit")

	already, err = rs.registrations.CheckIn(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, already, "re-scan should report already checked in")

	got, err := rs.registrations.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.CheckedIn, "flag must stay true after repeat scans")
}

func TestRegistrationRepo_CheckIn_NotFound(t *testing.T) {
	rs := newTestRepos(t)

	_, err := rs.registrations.CheckIn(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestRegistrationRepo_CheckIn_Concurrent drives the multi-gate-device race
// against the real database: N devices scan the same pass simultaneously and
// exactly one may observe a fresh admit.
//
// This test runs on the pool (not a rolled-back transaction) because the race
// needs real concurrent connections, so it cleans up after itself.
func TestRegistrationRepo_CheckIn_Concurrent(t *testing.T) {
	pool := testutil.NewPool(t)
	rs := repos{
		users:         repo.NewUserRepo(pool),
		events:        repo.NewEventRepo(pool),
		vehicles:      repo.NewVehicleRepo(pool),
		registrations: repo.NewRegistrationRepo(pool),
	}
	ctx := context.Background()

	input := createFixtures(t, rs)
	created, err := rs.registrations.Create(ctx, input)
	require.NoError(t, err)
	t.Cleanup(func() { cleanupRegistration(t, pool, created) })

	const devices = 8
	var (
		wg          sync.WaitGroup
		mu          sync.Mutex
		freshAdmits int
	)
	for i := 0; i < devices; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			already, err := rs.registrations.CheckIn(ctx, created.ID)
			assert.NoError(t, err)
			if !already {
				mu.Lock()
				freshAdmits++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, freshAdmits, "exactly one device may observe a fresh admit")
}

// TestRegistrationRepo_Create_ConcurrentSameSession races N inserts of the
// same payment session against the real database: exactly one row survives
// and every loser sees the duplicate sentinel.
func TestRegistrationRepo_Create_ConcurrentSameSession(t *testing.T) {
	pool := testutil.NewPool(t)
	rs := repos{
		users:         repo.NewUserRepo(pool),
		events:        repo.NewEventRepo(pool),
		vehicles:      repo.NewVehicleRepo(pool),
		registrations: repo.NewRegistrationRepo(pool),
	}
	ctx := context.Background()

	input := createFixtures(t, rs)

	const deliveries = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		creates    int
		duplicates int
	)
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			attempt := input
			attempt.Credential = fmt.Sprintf("cred-%s-%d", uuid.NewString(), i)
			_, err := rs.registrations.Create(ctx, attempt)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				creates++
			case assert.ErrorIs(t, err, domain.ErrDuplicateSession):
				duplicates++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, creates, "exactly one insert may win")
	assert.Equal(t, deliveries-1, duplicates)

	winner, err := rs.registrations.GetBySessionID(ctx, input.PaymentSessionID)
	require.NoError(t, err)
	t.Cleanup(func() { cleanupRegistration(t, pool, winner) })
}

// cleanupRegistration removes the rows a pool-based test created, children first.
func cleanupRegistration(t *testing.T, pool *pgxpool.Pool, reg domain.Registration) {
	t.Helper()
	ctx := context.Background()
	for _, q := range []struct {
		sql string
		id  uuid.UUID
	}{
		{"DELETE FROM registrations WHERE id = $1", reg.ID},
		{"DELETE FROM vehicles WHERE id = $1", reg.VehicleID},
		{"DELETE FROM events WHERE id = $1", reg.EventID},
		{"DELETE FROM users WHERE id = $1", reg.UserID},
	} {
		if _, err := pool.Exec(ctx, q.sql, q.id); err != nil {
			t.Logf("cleanup: %s: %v", q.sql, err)
		}
	}
}
