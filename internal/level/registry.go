package level

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
)

// Registry holds levels by ID.
type Registry struct {
	levels map[string]*Level
	order  []string
}

// NewRegistry creates a registry from loaded levels. Later duplicates of an
// ID replace earlier ones.
func NewRegistry(levels []*Level) *Registry {
	r := &Registry{levels: make(map[string]*Level, len(levels))}
	for _, lvl := range levels {
		if _, exists := r.levels[lvl.ID]; !exists {
			r.order = append(r.order, lvl.ID)
		}
		r.levels[lvl.ID] = lvl
	}
	return r
}

// LoadBuiltinRegistry loads every embedded level, sorted by file name.
func LoadBuiltinRegistry() (*Registry, error) {
	names, err := fs.Glob(levelFS, "*.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	levels := make([]*Level, 0, len(names))
	for _, name := range names {
		lvl, err := Load[Level](name)
		if err != nil {
			return nil, err
		}
		if err := lvl.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		levels = append(levels, &lvl)
	}
	if len(levels) == 0 {
		return nil, errors.New("no built-in levels embedded")
	}
	return NewRegistry(levels), nil
}

// MustLoadBuiltinRegistry loads the built-in registry, panicking on error.
func MustLoadBuiltinRegistry() *Registry {
	registry, err := LoadBuiltinRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the level with the given ID, or nil if not found.
func (r *Registry) GetByID(id string) *Level {
	return r.levels[id]
}

// IDs returns level IDs in load order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

// Next returns the level after id in load order, wrapping around.
func (r *Registry) Next(id string) *Level {
	if len(r.order) == 0 {
		return nil
	}
	for i, candidate := range r.order {
		if candidate == id {
			return r.levels[r.order[(i+1)%len(r.order)]]
		}
	}
	return r.levels[r.order[0]]
}

// Count returns the number of levels in the registry.
func (r *Registry) Count() int {
	return len(r.order)
}
