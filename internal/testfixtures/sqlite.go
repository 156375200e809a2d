package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/meetbot/internal/persistence"
	"github.com/example/meetbot/internal/persistence/sqlite"
	"github.com/example/meetbot/internal/persistence/sqlite/migration"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style tests.
type SQLiteHarness struct {
	Pool     *sqlite.ConnectionPool
	Meetings persistence.MeetingRepository
	Catalog  persistence.CatalogRepository
	Users    persistence.UserRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens a migrated database in a temporary directory. The
// harness is closed automatically when the test finishes.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "meetbot.db")
	pool, err := sqlite.NewConnectionPool(context.Background(), migration.TempFileTestSQLiteConfig(path))
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}

	if _, err := pool.Migrate(context.Background(), nil); err != nil {
		_ = pool.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Pool:     pool,
		Meetings: sqlite.NewMeetingRepository(pool),
		Catalog:  sqlite.NewCatalogRepository(pool),
		Users:    sqlite.NewUserRepository(pool),
		cleanup: func() {
			_ = pool.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}
