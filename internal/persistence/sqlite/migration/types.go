package migration

import (
	"context"
	"io/fs"
	"time"
)

// Migration is one versioned SQL file.
type Migration struct {
	Version     string // numeric prefix, e.g. "001"
	Description string
	SQL         string
	FilePath    string
	Checksum    string // hex sha256 of SQL
}

// AppliedMigration is a row of schema_migrations.
type AppliedMigration struct {
	Version       string
	AppliedAt     time.Time
	ExecutionTime time.Duration
	Checksum      string
}

// Status describes the migration state of a database.
type Status struct {
	CurrentVersion string
	Applied        []AppliedMigration
	Pending        []Migration
}

// FileScanner discovers migrations in a file system.
type FileScanner interface {
	ScanMigrations(fsys fs.FS) ([]Migration, error)
	ValidateFileName(filename string) error
}

// Executor applies migrations and tracks them.
type Executor interface {
	InitializeVersionTable(ctx context.Context) error
	ExecuteMigration(ctx context.Context, migration Migration) error
	RecordMigration(ctx context.Context, migration Migration, executionTime time.Duration) error
	GetAppliedVersions(ctx context.Context) ([]AppliedMigration, error)
}
