// Package scoring normalizes free-text team names and scores answers against a question.
package scoring

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var defaultAliasesYAML []byte

// ErrAliasConflict is returned when one alias would resolve to two canonical names.
var ErrAliasConflict = errors.New("alias mapped to more than one canonical name")

// stripped are the separators removed outright (not replaced by a space).
var stripped = map[rune]struct{}{
	'・':      {}, // U+30FB katakana middle dot
	'･':      {}, // U+FF65 halfwidth katakana middle dot
	'·':      {}, // U+00B7 middle dot
	'.':      {},
	'．':      {}, // U+FF0E fullwidth full stop
	'\uFEFF': {}, // zero width no-break space, not covered by unicode.IsSpace
}

var defaultTable = MustParseAliases(defaultAliasesYAML)

// reduce lower-cases name and drops separators and whitespace.
func reduce(name string) string {
	lowered := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsSpace(r) {
			continue
		}
		if _, ok := stripped[r]; ok {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// AliasTable resolves reduced names to their reduced canonical form. It is read-only once built.
type AliasTable struct {
	keys map[string]string
}

// NewAliasTable builds a table from canonical name -> alternate names. Each canonical name also
// resolves to itself.
func NewAliasTable(aliases map[string][]string) (*AliasTable, error) {
	t := &AliasTable{keys: make(map[string]string, len(aliases)*2)}
	owner := make(map[string]string, len(aliases)*2)
	add := func(alias, canonical string) error {
		key := reduce(alias)
		if key == "" {
			return nil
		}
		if prev, ok := owner[key]; ok && prev != canonical {
			return fmt.Errorf("%w: %q under %q and %q", ErrAliasConflict, alias, prev, canonical)
		}
		owner[key] = canonical
		t.keys[key] = reduce(canonical)
		return nil
	}
	for canonical, names := range aliases {
		if err := add(canonical, canonical); err != nil {
			return nil, err
		}
		for _, name := range names {
			if err := add(name, canonical); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}

// ParseAliases reads a YAML mapping of canonical name to a list of aliases.
func ParseAliases(data []byte) (*AliasTable, error) {
	raw := map[string][]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse aliases: %w", err)
	}
	return NewAliasTable(raw)
}

// LoadAliases reads an alias file from disk.
func LoadAliases(path string) (*AliasTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseAliases(data)
}

// MustParseAliases is ParseAliases for embedded tables that are known to be valid.
func MustParseAliases(data []byte) *AliasTable {
	t, err := ParseAliases(data)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultAliases returns the built-in J.League alias table.
func DefaultAliases() *AliasTable {
	return defaultTable
}

// Len reports how many distinct keys the table resolves.
func (t *AliasTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Normalize reduces name and resolves it through the table. A nil table only reduces.
func (t *AliasTable) Normalize(name string) string {
	key := reduce(name)
	if t == nil {
		return key
	}
	if canonical, ok := t.keys[key]; ok {
		return canonical
	}
	return key
}

// Normalize canonicalizes a team name with the default alias table.
func Normalize(name string) string {
	return defaultTable.Normalize(name)
}
