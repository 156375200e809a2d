package application

import (
	"context"
	"fmt"
	"log/slog"
)

// CatalogRepository captures the persistence operations for the complex and
// organization hierarchy.
type CatalogRepository interface {
	ListComplexes(ctx context.Context) ([]Complex, error)
	ListOrganizations(ctx context.Context, complexID int64) ([]Organization, error)
	GetOrganization(ctx context.Context, id int64) (Organization, error)
	EnsureComplex(ctx context.Context, name string) (int64, error)
	EnsureOrganization(ctx context.Context, complexID int64, name string) (int64, error)
}

// CatalogEntry is one complex with the names of its organizations.
type CatalogEntry struct {
	Complex       string
	Organizations []string
}

// CatalogService exposes the read-only classification hierarchy.
type CatalogService struct {
	catalog CatalogRepository
	logger  *slog.Logger
}

// NewCatalogService constructs a catalog service.
func NewCatalogService(catalog CatalogRepository) *CatalogService {
	return NewCatalogServiceWithLogger(catalog, nil)
}

// NewCatalogServiceWithLogger constructs a catalog service with a specified logger.
func NewCatalogServiceWithLogger(catalog CatalogRepository, logger *slog.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, logger: defaultLogger(logger)}
}

// ListComplexes returns every complex in catalog order.
func (s *CatalogService) ListComplexes(ctx context.Context) ([]Complex, error) {
	if s == nil || s.catalog == nil {
		return nil, fmt.Errorf("catalog repository not configured")
	}
	complexes, err := s.catalog.ListComplexes(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return complexes, nil
}

// ListOrganizations returns the organizations of one complex ordered by name.
func (s *CatalogService) ListOrganizations(ctx context.Context, complexID int64) ([]Organization, error) {
	if s == nil || s.catalog == nil {
		return nil, fmt.Errorf("catalog repository not configured")
	}
	orgs, err := s.catalog.ListOrganizations(ctx, complexID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return orgs, nil
}

// GetOrganization loads one organization.
func (s *CatalogService) GetOrganization(ctx context.Context, id int64) (Organization, error) {
	if s == nil || s.catalog == nil {
		return Organization{}, fmt.Errorf("catalog repository not configured")
	}
	org, err := s.catalog.GetOrganization(ctx, id)
	if err != nil {
		return Organization{}, mapRepoError(err)
	}
	return org, nil
}

// Seed makes sure every listed complex and organization exists. Existing rows
// are left untouched, so seeding twice is harmless.
func (s *CatalogService) Seed(ctx context.Context, entries []CatalogEntry) (organizations int, err error) {
	if s == nil || s.catalog == nil {
		return 0, fmt.Errorf("catalog repository not configured")
	}

	logger := serviceLogger(ctx, s.logger, "CatalogService", "Seed", "complexes", len(entries))
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to seed catalog", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "catalog seeded", "organizations", organizations)
	}()

	for _, entry := range entries {
		name := NormalizeText(entry.Complex)
		if name == "" {
			err = fieldError("complex", "complex name is required")
			return
		}
		var complexID int64
		complexID, err = s.catalog.EnsureComplex(ctx, name)
		if err != nil {
			err = mapRepoError(err)
			return
		}
		for _, orgName := range entry.Organizations {
			orgName = NormalizeText(orgName)
			if orgName == "" {
				continue
			}
			if _, err = s.catalog.EnsureOrganization(ctx, complexID, orgName); err != nil {
				err = mapRepoError(err)
				return
			}
			organizations++
		}
	}
	return
}
