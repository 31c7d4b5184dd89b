// Package dataset loads and validates the static prefecture data a quiz is drawn from.
package dataset

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"jleague-quiz/internal/domain"
	"jleague-quiz/internal/scoring"
)

// DefaultID is the id of the embedded dataset.
const DefaultID = "jleague"

//go:embed jleague.yaml
var jleagueYAML []byte

var loadDefault = sync.OnceValue(func() domain.Dataset {
	ds, err := Parse(jleagueYAML)
	if err != nil {
		panic(err)
	}
	return ds
})

// Default returns the embedded J.League dataset. Callers receive their own copy.
func Default() domain.Dataset {
	return Clone(loadDefault())
}

// Parse decodes and validates a YAML dataset.
func Parse(data []byte) (domain.Dataset, error) {
	var ds domain.Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return domain.Dataset{}, fmt.Errorf("%w: %v", domain.ErrInvalidDataset, err)
	}
	if err := Validate(ds); err != nil {
		return domain.Dataset{}, err
	}
	if ds.Title == "" {
		ds.Title = ds.ID
	}
	return ds, nil
}

// LoadFile reads a YAML dataset from disk.
func LoadFile(path string) (domain.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("read dataset: %w", err)
	}
	return Parse(data)
}

// Validate checks that every prefecture is named, unique and has at least one team, and that no two
// teams of a prefecture normalize to the same answer.
func Validate(ds domain.Dataset) error {
	if strings.TrimSpace(ds.ID) == "" {
		return fmt.Errorf("%w: missing id", domain.ErrInvalidDataset)
	}
	if len(ds.Prefectures) == 0 {
		return fmt.Errorf("%w: %s has no prefectures", domain.ErrInvalidDataset, ds.ID)
	}
	seen := make(map[string]struct{}, len(ds.Prefectures))
	for i, p := range ds.Prefectures {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("%w: prefecture %d has no name", domain.ErrInvalidDataset, i)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: duplicate prefecture %s", domain.ErrInvalidDataset, p.Name)
		}
		seen[p.Name] = struct{}{}
		if len(p.Teams) == 0 {
			return fmt.Errorf("%w: %s has no teams", domain.ErrInvalidDataset, p.Name)
		}
		keys := make(map[string]string, len(p.Teams))
		for _, team := range p.Teams {
			if strings.TrimSpace(team) == "" {
				return fmt.Errorf("%w: %s has a blank team name", domain.ErrInvalidDataset, p.Name)
			}
			key := scoring.Normalize(team)
			if prev, dup := keys[key]; dup {
				return fmt.Errorf("%w: %s lists %s and %s as the same team", domain.ErrInvalidDataset, p.Name, prev, team)
			}
			keys[key] = team
		}
	}
	return nil
}

// Clone deep-copies a dataset so callers may reorder it freely.
func Clone(ds domain.Dataset) domain.Dataset {
	out := domain.Dataset{ID: ds.ID, Title: ds.Title, Prefectures: make([]domain.Prefecture, len(ds.Prefectures))}
	for i, p := range ds.Prefectures {
		out.Prefectures[i] = domain.Prefecture{Name: p.Name, Teams: append([]string(nil), p.Teams...)}
	}
	return out
}
