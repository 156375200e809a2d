// Package catalog holds the default classification hierarchy seeded by
// `meetbot init`.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/example/meetbot/internal/application"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type document struct {
	Complexes []struct {
		Name          string   `yaml:"name"`
		Organizations []string `yaml:"organizations"`
	} `yaml:"complexes"`
}

// Default returns the embedded catalog.
func Default() []application.CatalogEntry {
	entries, err := Parse(bytes.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
	}
	return entries
}

// LoadFile reads a catalog from path.
func LoadFile(path string) ([]application.CatalogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a catalog document. Names are trimmed; empty names and an
// organization listed under two complexes are rejected.
func Parse(r io.Reader) ([]application.CatalogEntry, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Complexes) == 0 {
		return nil, fmt.Errorf("catalog has no complexes")
	}

	owner := make(map[string]string)
	seen := make(map[string]bool)
	entries := make([]application.CatalogEntry, 0, len(doc.Complexes))
	for i, c := range doc.Complexes {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, fmt.Errorf("complex %d has no name", i+1)
		}
		if seen[name] {
			return nil, fmt.Errorf("complex %q listed twice", name)
		}
		seen[name] = true

		entry := application.CatalogEntry{Complex: name}
		for _, org := range c.Organizations {
			org = strings.TrimSpace(org)
			if org == "" {
				return nil, fmt.Errorf("complex %q has an organization without a name", name)
			}
			if prev, ok := owner[org]; ok {
				return nil, fmt.Errorf("organization %q listed under %q and %q", org, prev, name)
			}
			owner[org] = name
			entry.Organizations = append(entry.Organizations, org)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
