package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/meetbot/internal/persistence"
)

// CatalogRepository implements persistence.CatalogRepository using SQLite.
type CatalogRepository struct {
	pool   *ConnectionPool
	helper *QueryHelper
	mapper *ErrorMapper
}

// NewCatalogRepository creates a new SQLite catalog repository.
func NewCatalogRepository(pool *ConnectionPool) *CatalogRepository {
	return &CatalogRepository{
		pool:   pool,
		helper: NewQueryHelper(pool),
		mapper: NewErrorMapper(),
	}
}

// EnsureComplex returns the id of the named complex, creating it when absent.
func (r *CatalogRepository) EnsureComplex(ctx context.Context, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, persistence.ErrConstraintViolation
	}

	var id int64
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO complexes (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, `SELECT id FROM complexes WHERE name = ?`, name).Scan(&id)
	})
	if err != nil {
		return 0, r.mapper.MapError(err)
	}
	return id, nil
}

// EnsureOrganization returns the id of the named organization under complexID,
// creating it when absent. A name already taken by another complex yields
// ErrDuplicate.
func (r *CatalogRepository) EnsureOrganization(ctx context.Context, complexID int64, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, persistence.ErrConstraintViolation
	}

	var id int64
	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO organizations (complex_id, name) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
			complexID, name,
		); err != nil {
			return err
		}

		var owner int64
		if err := tx.QueryRowContext(ctx, `SELECT id, complex_id FROM organizations WHERE name = ?`, name).Scan(&id, &owner); err != nil {
			return err
		}
		if owner != complexID {
			return fmt.Errorf("%w: organization %q belongs to complex %d", persistence.ErrDuplicate, name, owner)
		}
		return nil
	})
	if err != nil {
		return 0, r.mapper.MapError(err)
	}
	return id, nil
}

// ListComplexes returns complexes in insertion order.
func (r *CatalogRepository) ListComplexes(ctx context.Context) ([]persistence.Complex, error) {
	rows, err := r.helper.Query(ctx, `SELECT id, name FROM complexes ORDER BY id`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var complexes []persistence.Complex
	for rows.Next() {
		var c persistence.Complex
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan complex: %w", err)
		}
		complexes = append(complexes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate complexes: %w", err)
	}
	return complexes, nil
}

// ListOrganizations returns the organizations of one complex sorted by name.
func (r *CatalogRepository) ListOrganizations(ctx context.Context, complexID int64) ([]persistence.Organization, error) {
	rows, err := r.helper.Query(ctx,
		`SELECT id, complex_id, name FROM organizations WHERE complex_id = ? ORDER BY name, id`,
		complexID,
	)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var orgs []persistence.Organization
	for rows.Next() {
		var o persistence.Organization
		if err := rows.Scan(&o.ID, &o.ComplexID, &o.Name); err != nil {
			return nil, fmt.Errorf("failed to scan organization: %w", err)
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate organizations: %w", err)
	}
	return orgs, nil
}

// GetOrganization returns one organization by id.
func (r *CatalogRepository) GetOrganization(ctx context.Context, id int64) (persistence.Organization, error) {
	var o persistence.Organization
	err := r.helper.QueryRow(ctx, `SELECT id, complex_id, name FROM organizations WHERE id = ?`, id).
		Scan(&o.ID, &o.ComplexID, &o.Name)
	if err != nil {
		return persistence.Organization{}, r.mapper.MapError(err)
	}
	return o, nil
}

var _ persistence.CatalogRepository = (*CatalogRepository)(nil)
