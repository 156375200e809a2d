package migration

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var migrationFilePattern = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_-]+)\.sql$`)

// Scanner implements FileScanner.
type Scanner struct{}

// NewScanner creates a Scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// ScanMigrations reads every .sql file at the root of fsys, sorted by
// numeric version.
func (s *Scanner) ScanMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, NewMigrationError("", ".", "read directory", err)
	}

	var migrations []Migration
	seen := make(map[int]string)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		m, err := s.parseFile(fsys, entry.Name())
		if err != nil {
			return nil, err
		}
		n, _ := strconv.Atoi(m.Version)
		if other, dup := seen[n]; dup {
			return nil, NewMigrationError(m.Version, entry.Name(), "check duplicates",
				fmt.Errorf("%w: version %s found in both %s and %s", ErrDuplicateVersion, m.Version, other, entry.Name()))
		}
		seen[n] = entry.Name()
		migrations = append(migrations, m)
	}

	sort.Slice(migrations, func(i, j int) bool {
		a, _ := strconv.Atoi(migrations[i].Version)
		b, _ := strconv.Atoi(migrations[j].Version)
		return a < b
	})
	return migrations, nil
}

// ValidateFileName checks the {version}_{description}.sql convention.
func (s *Scanner) ValidateFileName(filename string) error {
	matches := migrationFilePattern.FindStringSubmatch(filename)
	if matches == nil {
		return fmt.Errorf("%w: filename '%s' does not match pattern '{version}_{description}.sql'",
			ErrInvalidMigrationFile, filename)
	}
	if _, err := strconv.Atoi(matches[1]); err != nil {
		return fmt.Errorf("%w: version '%s' in filename '%s' is not a valid number",
			ErrInvalidVersion, matches[1], filename)
	}
	return nil
}

func (s *Scanner) parseFile(fsys fs.FS, name string) (Migration, error) {
	if err := s.ValidateFileName(name); err != nil {
		return Migration{}, NewMigrationError("", name, "validate filename", err)
	}
	matches := migrationFilePattern.FindStringSubmatch(name)
	version := matches[1]

	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Migration{}, NewMigrationError(version, name, "read file", err)
	}
	sql := string(content)
	if len(splitStatements(sql)) == 0 {
		return Migration{}, NewMigrationError(version, name, "validate content",
			fmt.Errorf("%w: no SQL statements found", ErrInvalidMigrationFile))
	}
	if err := checkBalanced(sql); err != nil {
		return Migration{}, NewMigrationError(version, name, "validate SQL syntax", err)
	}

	description := descriptionFromContent(sql)
	if description == "" {
		description = strings.ReplaceAll(matches[2], "_", " ")
	}

	sum := sha256.Sum256(content)
	return Migration{
		Version:     version,
		Description: description,
		SQL:         sql,
		FilePath:    path.Clean(name),
		Checksum:    hex.EncodeToString(sum[:]),
	}, nil
}

// checkBalanced catches truncated files: unmatched parentheses or an open
// string literal outside comments.
func checkBalanced(sql string) error {
	depth := 0
	var quote rune
	for _, line := range strings.Split(sql, "\n") {
		if quote == 0 {
			if i := strings.Index(line, "--"); i >= 0 {
				line = line[:i]
			}
		}
		for _, r := range line {
			switch {
			case quote != 0:
				if r == quote {
					quote = 0
				}
			case r == '\'' || r == '"':
				quote = r
			case r == '(':
				depth++
			case r == ')':
				depth--
				if depth < 0 {
					return fmt.Errorf("%w: unmatched closing parenthesis", ErrInvalidMigrationFile)
				}
			}
		}
	}
	if quote != 0 {
		return fmt.Errorf("%w: unterminated string literal", ErrInvalidMigrationFile)
	}
	if depth != 0 {
		return fmt.Errorf("%w: unmatched opening parenthesis", ErrInvalidMigrationFile)
	}
	return nil
}

// descriptionFromContent returns the text of a leading "-- Description:" comment.
func descriptionFromContent(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "--") {
			break
		}
		if rest, ok := strings.CutPrefix(line, "-- Description:"); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}
