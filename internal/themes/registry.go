package themes

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var ErrEmptyRegistry = errors.New("theme registry is empty")

// Registry is the fixed, ordered theme catalogue. The first entry is the
// default.
type Registry struct {
	themes []Theme
}

// NewRegistry validates every theme and rejects duplicate ids.
func NewRegistry(themes ...Theme) (*Registry, error) {
	if len(themes) == 0 {
		return nil, ErrEmptyRegistry
	}
	seen := make(map[string]int, len(themes))
	for i, theme := range themes {
		if err := theme.Validate(); err != nil {
			return nil, fmt.Errorf("invalid theme %q: %w", theme.ID, err)
		}
		if prev, ok := seen[theme.ID]; ok {
			return nil, fmt.Errorf("duplicate theme id %q at positions %d and %d", theme.ID, prev+1, i+1)
		}
		seen[theme.ID] = i
	}
	return &Registry{themes: slices.Clone(themes)}, nil
}

// All yields the themes in declaration order.
func (r *Registry) All() iter.Seq[Theme] {
	return slices.Values(r.themes)
}

func (r *Registry) List() []Theme {
	return slices.Clone(r.themes)
}

func (r *Registry) Len() int {
	return len(r.themes)
}

// FindByID scans the catalogue. A miss is reported with false, never an error.
func (r *Registry) FindByID(id string) (Theme, bool) {
	for _, theme := range r.themes {
		if theme.ID == id {
			return theme, true
		}
	}
	return Theme{}, false
}

func (r *Registry) Default() Theme {
	return r.themes[0]
}
