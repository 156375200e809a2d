package testfixtures

import (
	"context"
	"testing"
)

func TestSQLiteHarnessProvidesMigratedRepositories(t *testing.T) {
	harness := NewSQLiteHarness(t)
	ctx := context.Background()

	if err := harness.Pool.Ping(ctx); err != nil {
		t.Fatalf("expected live pool, got %v", err)
	}

	complexID, err := harness.Catalog.EnsureComplex(ctx, "Комплекс")
	if err != nil {
		t.Fatalf("EnsureComplex: %v", err)
	}
	if _, err := harness.Catalog.EnsureOrganization(ctx, complexID, "Департамент"); err != nil {
		t.Fatalf("EnsureOrganization: %v", err)
	}

	years, err := harness.Meetings.ListYears(ctx)
	if err != nil {
		t.Fatalf("ListYears: %v", err)
	}
	if len(years) != 0 {
		t.Fatalf("expected empty store, got %v", years)
	}

	users, err := harness.Users.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(users) != 0 {
		t.Fatalf("expected no users, got %d", len(users))
	}

	harness.Close()
	harness.Close()
}
