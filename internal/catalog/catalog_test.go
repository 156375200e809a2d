package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	entries := Default()
	if len(entries) != 9 {
		t.Fatalf("expected 9 complexes, got %d", len(entries))
	}
	if entries[0].Complex != "1. Градостроительство и имущество" {
		t.Fatalf("expected catalog order kept, got %q", entries[0].Complex)
	}

	total := 0
	for _, e := range entries {
		total += len(e.Organizations)
	}
	if total != 44 {
		t.Fatalf("expected 44 organizations, got %d", total)
	}
	if last := entries[8]; len(last.Organizations) != 1 || last.Organizations[0] != "Депфин" {
		t.Fatalf("unexpected last complex %+v", last)
	}
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"empty", "complexes: []", "no complexes"},
		{"unnamed complex", "complexes:\n  - organizations: [A]", "has no name"},
		{"duplicate complex", "complexes:\n  - name: X\n  - name: X", "listed twice"},
		{"shared organization", "complexes:\n  - name: X\n    organizations: [A]\n  - name: Y\n    organizations: [A]", "listed under"},
		{"blank organization", "complexes:\n  - name: X\n    organizations: [\" \"]", "without a name"},
		{"unknown field", "complexes:\n  - name: X\n    oivs: [A]", "decode catalog"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadFileTrimsNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := "complexes:\n  - name: \"  Комплекс  \"\n    organizations: [\" Орган \"]\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if entries[0].Complex != "Комплекс" || entries[0].Organizations[0] != "Орган" {
		t.Fatalf("expected trimmed names, got %+v", entries[0])
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
