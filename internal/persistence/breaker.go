package persistence

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/resthub/internal/domain/users"
	"github.com/GriffinCanCode/resthub/internal/infrastructure/resilience"
)

// GuardedRepository fails fast while the wrapped store is unhealthy.
// Missing users and cancelled requests are not counted against the store.
type GuardedRepository struct {
	repo    users.Repository
	breaker *resilience.Breaker
}

// NewGuardedRepository wraps repo with a breaker built from settings.
// settings.IsFailure is replaced.
func NewGuardedRepository(repo users.Repository, settings resilience.Settings) *GuardedRepository {
	settings.IsFailure = isStoreFailure
	return &GuardedRepository{repo: repo, breaker: resilience.New(settings)}
}

func isStoreFailure(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, users.ErrNotFound), errors.Is(err, context.Canceled):
		return false
	default:
		return true
	}
}

// Breaker exposes the underlying breaker
func (g *GuardedRepository) Breaker() *resilience.Breaker {
	return g.breaker
}

func (g *GuardedRepository) FindAll(ctx context.Context) (list []users.User, err error) {
	err = g.breaker.Do(ctx, func(ctx context.Context) error {
		list, err = g.repo.FindAll(ctx)
		return err
	})
	return list, err
}

func (g *GuardedRepository) FindByID(ctx context.Context, id int) (u users.User, err error) {
	err = g.breaker.Do(ctx, func(ctx context.Context) error {
		u, err = g.repo.FindByID(ctx, id)
		return err
	})
	return u, err
}

func (g *GuardedRepository) Save(ctx context.Context, in users.User) (u users.User, err error) {
	err = g.breaker.Do(ctx, func(ctx context.Context) error {
		u, err = g.repo.Save(ctx, in)
		return err
	})
	return u, err
}

func (g *GuardedRepository) Delete(ctx context.Context, u users.User) error {
	return g.breaker.Do(ctx, func(ctx context.Context) error {
		return g.repo.Delete(ctx, u)
	})
}
