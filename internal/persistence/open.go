package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/resthub/internal/domain/users"
	"github.com/GriffinCanCode/resthub/internal/infrastructure/config"
	"github.com/GriffinCanCode/resthub/internal/infrastructure/resilience"
)

// Open builds the repository named by cfg.Backend. logger may be nil.
func Open(ctx context.Context, cfg config.UsersConfig, logger *zap.Logger) (users.Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Backend {
	case config.BackendMemory, "":
		return NewMemoryRepository(), nil
	case config.BackendFile:
		return NewFileRepository(cfg.File)
	case config.BackendDynamoDB:
		client, err := NewDynamoClient(ctx, cfg.DynamoRegion, cfg.DynamoEndpoint)
		if err != nil {
			return nil, err
		}
		return guard(NewDynamoRepository(client, cfg.DynamoTable), cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown users backend %q", cfg.Backend)
	}
}

// guard wraps remote repositories in a circuit breaker unless disabled
func guard(repo users.Repository, cfg config.UsersConfig, logger *zap.Logger) users.Repository {
	if cfg.BreakerThreshold == 0 {
		return repo
	}
	return NewGuardedRepository(repo, resilience.Settings{
		Name:      "users-" + cfg.Backend,
		TripAfter: cfg.BreakerThreshold,
		Cooldown:  cfg.BreakerCooldown,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Users store circuit changed state",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})
}
