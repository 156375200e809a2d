package migration

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"time"
)

// Manager applies pending migrations from a file system.
type Manager struct {
	scanner  FileScanner
	executor Executor
	files    fs.FS
	logger   *slog.Logger
}

// NewManager creates a Manager.
func NewManager(scanner FileScanner, executor Executor, files fs.FS, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{scanner: scanner, executor: executor, files: files, logger: logger.With("component", "migration")}
}

// Run applies every pending migration in version order and returns how many
// were applied. It stops at the first failure; earlier migrations stay applied.
func (m *Manager) Run(ctx context.Context) (int, error) {
	start := time.Now()
	if err := m.executor.InitializeVersionTable(ctx); err != nil {
		return 0, fmt.Errorf("failed to initialize version table: %w", err)
	}

	status, err := m.Status(ctx)
	if err != nil {
		return 0, err
	}
	if len(status.Pending) == 0 {
		m.logger.InfoContext(ctx, "database schema up to date", "version", status.CurrentVersion)
		return 0, nil
	}

	m.logger.InfoContext(ctx, "applying migrations", "from_version", status.CurrentVersion, "pending", len(status.Pending))
	for i, migration := range status.Pending {
		migrationStart := time.Now()
		logger := m.logger.With("version", migration.Version, "file", migration.FilePath)

		if err := m.executor.ExecuteMigration(ctx, migration); err != nil {
			logger.ErrorContext(ctx, "migration failed", "error", err)
			return i, NewMigrationError(migration.Version, migration.FilePath, "execute migration",
				fmt.Errorf("%w: %w", ErrMigrationFailed, err))
		}
		elapsed := time.Since(migrationStart)
		if err := m.executor.RecordMigration(ctx, migration, elapsed); err != nil {
			return i, NewMigrationError(migration.Version, migration.FilePath, "record migration", err)
		}
		logger.InfoContext(ctx, "migration applied", "description", migration.Description, "duration", elapsed)
	}

	m.logger.InfoContext(ctx, "migrations complete", "applied", len(status.Pending), "duration", time.Since(start))
	return len(status.Pending), nil
}

// Status compares the files with the version table. It fails when the
// sequence has gaps, when an applied version has no file, or when an applied
// file was edited.
func (m *Manager) Status(ctx context.Context) (Status, error) {
	available, err := m.scanner.ScanMigrations(m.files)
	if err != nil {
		return Status{}, fmt.Errorf("failed to scan migrations: %w", err)
	}
	applied, err := m.executor.GetAppliedVersions(ctx)
	if err != nil {
		return Status{}, fmt.Errorf("failed to get applied versions: %w", err)
	}
	if err := validateSequence(available, applied); err != nil {
		return Status{}, err
	}

	appliedByVersion := make(map[int]AppliedMigration, len(applied))
	for _, a := range applied {
		n, _ := strconv.Atoi(a.Version)
		appliedByVersion[n] = a
	}

	status := Status{Applied: applied}
	for _, migration := range available {
		n, _ := strconv.Atoi(migration.Version)
		record, done := appliedByVersion[n]
		if !done {
			status.Pending = append(status.Pending, migration)
			continue
		}
		if record.Checksum != "" && record.Checksum != migration.Checksum {
			return Status{}, NewMigrationError(migration.Version, migration.FilePath, "verify checksum", ErrChecksumMismatch)
		}
		status.CurrentVersion = migration.Version
	}
	return status, nil
}

func validateSequence(available []Migration, applied []AppliedMigration) error {
	versions := make(map[int]bool, len(available))
	for i, migration := range available {
		n, err := strconv.Atoi(migration.Version)
		if err != nil {
			return NewMigrationError(migration.Version, migration.FilePath, "validate sequence",
				fmt.Errorf("%w: version '%s' is not numeric", ErrInvalidVersion, migration.Version))
		}
		if i > 0 {
			prev, _ := strconv.Atoi(available[i-1].Version)
			if n != prev+1 {
				return fmt.Errorf("%w: missing migration version %03d in sequence", ErrVersionConflict, prev+1)
			}
		}
		versions[n] = true
	}
	for _, a := range applied {
		n, err := strconv.Atoi(a.Version)
		if err != nil || !versions[n] {
			return fmt.Errorf("%w: applied migration %s not found in available migrations", ErrVersionConflict, a.Version)
		}
	}
	return nil
}
