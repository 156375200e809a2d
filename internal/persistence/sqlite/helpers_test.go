package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/meetbot/internal/persistence"
	"github.com/example/meetbot/internal/persistence/sqlite/migration"
)

func setupPool(t *testing.T) *ConnectionPool {
	t.Helper()

	path := filepath.Join(t.TempDir(), "meetbot.db")
	pool, err := NewConnectionPool(context.Background(), migration.TempFileTestSQLiteConfig(path))
	if err != nil {
		t.Fatalf("failed to open pool: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	if _, err := pool.Migrate(context.Background(), nil); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return pool
}

type catalogFixture struct {
	complexA, complexB  int64
	orgA1, orgA2, orgB1 int64
}

func seedCatalog(t *testing.T, pool *ConnectionPool) catalogFixture {
	t.Helper()

	ctx := context.Background()
	repo := NewCatalogRepository(pool)
	var f catalogFixture
	var err error
	if f.complexA, err = repo.EnsureComplex(ctx, "Комплекс А"); err != nil {
		t.Fatalf("EnsureComplex: %v", err)
	}
	if f.complexB, err = repo.EnsureComplex(ctx, "Комплекс Б"); err != nil {
		t.Fatalf("EnsureComplex: %v", err)
	}
	if f.orgA1, err = repo.EnsureOrganization(ctx, f.complexA, "Департамент 1"); err != nil {
		t.Fatalf("EnsureOrganization: %v", err)
	}
	if f.orgA2, err = repo.EnsureOrganization(ctx, f.complexA, "Агентство 2"); err != nil {
		t.Fatalf("EnsureOrganization: %v", err)
	}
	if f.orgB1, err = repo.EnsureOrganization(ctx, f.complexB, "Комитет 3"); err != nil {
		t.Fatalf("EnsureOrganization: %v", err)
	}
	return f
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func newMeeting(orgID int64, on time.Time, status string, created time.Time) persistence.Meeting {
	m := persistence.Meeting{
		UserID:         100,
		UserName:       "Иван Петров",
		OrganizationID: orgID,
		MeetingDate:    on,
		Status:         status,
		Summary:        "обсудили планы",
		CreatedAt:      created,
	}
	if status == "held" {
		m.DurationMinutes = intPtr(45)
	}
	return m
}
