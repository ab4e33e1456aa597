package bundler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// importMapEntry is one prefix -> target rewrite rule.
type importMapEntry struct {
	Prefix string
	Target string
}

// ImportMap is a WICG-style ordered prefix-rewrite table (spec.md §4.2).
// Entries are sorted longest-prefix-first so a lookup's first match is
// always the most specific one sharing a common root ("packages via
// trailing slashes").
type ImportMap struct {
	entries []importMapEntry
}

// importMapDoc is the on-the-wire JSON shape: {"imports": {prefix: target}}.
// Anything else is rejected per spec.md §6.
type importMapDoc struct {
	Imports map[string]string `json:"imports"`
}

// ParseImportMap parses an import map JSON document.
func ParseImportMap(data []byte) (*ImportMap, error) {
	var doc importMapDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("bundler: invalid import map JSON: %w", err)
	}
	if doc.Imports == nil {
		return nil, fmt.Errorf("bundler: import map must have a top-level \"imports\" object")
	}

	m := &ImportMap{}
	for prefix, target := range doc.Imports {
		m.entries = append(m.entries, importMapEntry{Prefix: prefix, Target: target})
	}
	sort.Slice(m.entries, func(i, j int) bool {
		return len(m.entries[i].Prefix) > len(m.entries[j].Prefix)
	})
	return m, nil
}

// Lookup applies the import map to specifier, per spec.md §4.2's four
// lookup rules. ok is false when no entry's prefix matches, or when the
// specifier has an extension that doesn't exactly match
// prefix+extension (Open Question (a) of spec.md §9: this implementation
// requires an exact `prefix+ext` match for extension-qualified
// specifiers, treating any other extensioned specifier under that prefix
// as unmapped, which is the authoritative behavior per the worked
// examples in spec.md §8).
func (m *ImportMap) Lookup(specifier string) (target string, ok bool) {
	if m == nil {
		return "", false
	}

	for _, e := range m.entries {
		if !strings.HasPrefix(specifier, e.Prefix) {
			continue
		}

		target := e.Target
		if strings.HasPrefix(target, "./") {
			target = cwd() + target[1:]
		}

		ext := filepath.Ext(specifier)
		if ext != "" {
			if specifier == e.Prefix+ext {
				return target + ext, true
			}
			return "", false
		}

		return strings.Replace(specifier, e.Prefix, target, 1), true
	}

	return "", false
}

func cwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}
