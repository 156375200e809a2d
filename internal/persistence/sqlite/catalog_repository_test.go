package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/example/meetbot/internal/persistence"
)

func TestCatalogRepository_EnsureIsIdempotent(t *testing.T) {
	pool := setupPool(t)
	repo := NewCatalogRepository(pool)
	ctx := context.Background()

	first, err := repo.EnsureComplex(ctx, "Комплекс А")
	if err != nil {
		t.Fatalf("EnsureComplex failed: %v", err)
	}
	second, err := repo.EnsureComplex(ctx, "  Комплекс А ")
	if err != nil {
		t.Fatalf("EnsureComplex failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected same id, got %d and %d", first, second)
	}

	org1, err := repo.EnsureOrganization(ctx, first, "Департамент")
	if err != nil {
		t.Fatalf("EnsureOrganization failed: %v", err)
	}
	org2, err := repo.EnsureOrganization(ctx, first, "Департамент")
	if err != nil {
		t.Fatalf("EnsureOrganization failed: %v", err)
	}
	if org1 != org2 {
		t.Fatalf("expected same organization id, got %d and %d", org1, org2)
	}
}

func TestCatalogRepository_OrganizationOwnedByOtherComplex(t *testing.T) {
	pool := setupPool(t)
	f := seedCatalog(t, pool)
	repo := NewCatalogRepository(pool)

	_, err := repo.EnsureOrganization(context.Background(), f.complexB, "Департамент 1")
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestCatalogRepository_UnknownComplex(t *testing.T) {
	repo := NewCatalogRepository(setupPool(t))

	_, err := repo.EnsureOrganization(context.Background(), 999, "Сирота")
	if !errors.Is(err, persistence.ErrForeignKeyViolation) {
		t.Fatalf("expected ErrForeignKeyViolation, got %v", err)
	}
}

func TestCatalogRepository_Listing(t *testing.T) {
	pool := setupPool(t)
	f := seedCatalog(t, pool)
	repo := NewCatalogRepository(pool)
	ctx := context.Background()

	complexes, err := repo.ListComplexes(ctx)
	if err != nil {
		t.Fatalf("ListComplexes failed: %v", err)
	}
	if len(complexes) != 2 || complexes[0].ID != f.complexA || complexes[1].ID != f.complexB {
		t.Fatalf("expected complexes in insertion order, got %+v", complexes)
	}

	orgs, err := repo.ListOrganizations(ctx, f.complexA)
	if err != nil {
		t.Fatalf("ListOrganizations failed: %v", err)
	}
	if len(orgs) != 2 || orgs[0].Name != "Агентство 2" || orgs[1].Name != "Департамент 1" {
		t.Fatalf("expected organizations sorted by name, got %+v", orgs)
	}

	org, err := repo.GetOrganization(ctx, f.orgB1)
	if err != nil {
		t.Fatalf("GetOrganization failed: %v", err)
	}
	if org.ComplexID != f.complexB || org.Name != "Комитет 3" {
		t.Fatalf("unexpected organization: %+v", org)
	}

	if _, err := repo.GetOrganization(ctx, 12345); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
