package migration

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func TestScanner_ScanMigrations(t *testing.T) {
	tests := []struct {
		name          string
		files         fstest.MapFS
		expectedOrder []string
		expectErr     error
	}{
		{
			name: "sorts by numeric version",
			files: fstest.MapFS{
				"010_late.sql":           {Data: []byte("CREATE TABLE c (id INTEGER);")},
				"002_add_users.sql":      {Data: []byte("CREATE TABLE b (id INTEGER);")},
				"001_initial_schema.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
			},
			expectedOrder: []string{"001", "002", "010"},
		},
		{
			name: "ignores non-SQL files and directories",
			files: fstest.MapFS{
				"001_initial_schema.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
				"README.md":              {Data: []byte("# notes")},
				"old/002_legacy.sql":     {Data: []byte("CREATE TABLE z (id INTEGER);")},
			},
			expectedOrder: []string{"001"},
		},
		{
			name:          "empty directory",
			files:         fstest.MapFS{},
			expectedOrder: nil,
		},
		{
			name: "rejects bad file names",
			files: fstest.MapFS{
				"initial.sql": {Data: []byte("CREATE TABLE a (id INTEGER);")},
			},
			expectErr: ErrInvalidMigrationFile,
		},
		{
			name: "rejects duplicate versions",
			files: fstest.MapFS{
				"001_a.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
				"0001_b.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
			},
			expectErr: ErrDuplicateVersion,
		},
		{
			name: "rejects comment-only files",
			files: fstest.MapFS{
				"001_empty.sql": {Data: []byte("-- nothing here\n")},
			},
			expectErr: ErrInvalidMigrationFile,
		},
		{
			name: "rejects unbalanced parentheses",
			files: fstest.MapFS{
				"001_broken.sql": {Data: []byte("CREATE TABLE a (id INTEGER;")},
			},
			expectErr: ErrInvalidMigrationFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			migrations, err := NewScanner().ScanMigrations(tt.files)
			if tt.expectErr != nil {
				if !errors.Is(err, tt.expectErr) {
					t.Fatalf("expected %v, got %v", tt.expectErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ScanMigrations returned error: %v", err)
			}
			if len(migrations) != len(tt.expectedOrder) {
				t.Fatalf("expected %d migrations, got %d", len(tt.expectedOrder), len(migrations))
			}
			for i, version := range tt.expectedOrder {
				if migrations[i].Version != version {
					t.Fatalf("position %d: expected version %s, got %s", i, version, migrations[i].Version)
				}
				if len(migrations[i].Checksum) != 64 {
					t.Fatalf("expected sha256 hex checksum, got %q", migrations[i].Checksum)
				}
			}
		})
	}
}

func TestScanner_Description(t *testing.T) {
	files := fstest.MapFS{
		"001_initial_schema.sql": {Data: []byte("-- Description: users and meetings\nCREATE TABLE a (id INTEGER);")},
		"002_add_index.sql":      {Data: []byte("CREATE INDEX i ON a(id);")},
	}
	migrations, err := NewScanner().ScanMigrations(files)
	if err != nil {
		t.Fatalf("ScanMigrations returned error: %v", err)
	}
	if migrations[0].Description != "users and meetings" {
		t.Fatalf("expected description from comment, got %q", migrations[0].Description)
	}
	if migrations[1].Description != "add index" {
		t.Fatalf("expected description from file name, got %q", migrations[1].Description)
	}
}

func TestSplitStatements(t *testing.T) {
	script := `
-- leading comment
CREATE TABLE a (
    id INTEGER -- inline
);

-- between
CREATE INDEX idx_a ON a(id);
`
	statements := splitStatements(script)
	if len(statements) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(statements), statements)
	}
	if !strings.HasPrefix(statements[0], "CREATE TABLE a") || !strings.HasPrefix(statements[1], "CREATE INDEX") {
		t.Fatalf("unexpected statements: %q", statements)
	}
}
