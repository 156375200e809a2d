package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/example/meetbot/internal/application"
	"github.com/example/meetbot/internal/persistence/sqlite"
	"github.com/example/meetbot/internal/persistence/sqlite/migration"
)

// adminDisplayName is stored for bootstrap administrators until they are renamed.
const adminDisplayName = "Администратор"

type storage struct {
	pool   *sqlite.ConnectionPool
	facade *application.Facade
}

// openStorage opens the database, applies pending migrations and builds the
// facade over it.
func openStorage(ctx context.Context, deps *Dependencies) (*storage, error) {
	pool, err := sqlite.NewConnectionPool(ctx, migration.DefaultSQLiteConfig(deps.Config.SQLitePath))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	applied, err := pool.Migrate(ctx, deps.Logger)
	if err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	if applied > 0 {
		deps.Logger.InfoContext(ctx, "database migrated", "applied", applied, "path", deps.Config.SQLitePath)
	}

	repos := repositories(
		sqlite.NewMeetingRepository(pool),
		sqlite.NewCatalogRepository(pool),
		sqlite.NewUserRepository(pool),
	)
	return &storage{
		pool:   pool,
		facade: application.NewFacade(repos, time.Now, deps.Logger),
	}, nil
}

func (s *storage) Close() error {
	return s.pool.Close()
}

// ensureAdmins registers every configured administrator identity.
func (s *storage) ensureAdmins(ctx context.Context, ids []int64) (int, error) {
	for i, id := range ids {
		if _, err := s.facade.EnsureAdmin(ctx, id, adminDisplayName); err != nil {
			return i, fmt.Errorf("ensure administrator %d: %w", id, err)
		}
	}
	return len(ids), nil
}
