package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/resthub/internal/domain/users"
	"github.com/GriffinCanCode/resthub/internal/infrastructure/resilience"
)

// flakyRepository fails every call while down is set
type flakyRepository struct {
	*MemoryRepository
	down  bool
	calls int
}

var errStoreDown = errors.New("store unreachable")

func (f *flakyRepository) FindByID(ctx context.Context, id int) (users.User, error) {
	f.calls++
	if f.down {
		return users.User{}, errStoreDown
	}
	return f.MemoryRepository.FindByID(ctx, id)
}

func TestGuardedRepositoryContract(t *testing.T) {
	exerciseRepository(t, NewGuardedRepository(NewMemoryRepository(), resilience.Settings{TripAfter: 1}))
}

func TestGuardedRepositoryTrips(t *testing.T) {
	ctx := context.Background()
	inner := &flakyRepository{MemoryRepository: NewMemoryRepository(), down: true}
	repo := NewGuardedRepository(inner, resilience.Settings{TripAfter: 2, Cooldown: time.Hour})

	for i := 0; i < 2; i++ {
		_, err := repo.FindByID(ctx, 1)
		assert.ErrorIs(t, err, errStoreDown)
	}

	_, err := repo.FindByID(ctx, 1)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, resilience.StateOpen, repo.Breaker().State())
}

func TestGuardedRepositoryIgnoresMissingUsers(t *testing.T) {
	ctx := context.Background()
	repo := NewGuardedRepository(NewMemoryRepository(), resilience.Settings{TripAfter: 1})

	for i := 0; i < 3; i++ {
		_, err := repo.FindByID(ctx, 42)
		require.ErrorIs(t, err, users.ErrNotFound)
	}
	assert.Equal(t, resilience.StateClosed, repo.Breaker().State())
}
