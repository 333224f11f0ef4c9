package domain

import (
	"errors"
	"fmt"
	"sort"
)

// ErrConfigNotFound is returned when a test id has no definition in the registry.
var ErrConfigNotFound = errors.New("test config not found")

// Registry is the immutable mapping from test id to its definition.
// It is safe for concurrent use; nothing mutates it after NewRegistry returns.
type Registry struct {
	configs map[string]TestConfig
	ids     []string
}

// NewRegistry validates and takes a private copy of every config.
func NewRegistry(configs ...TestConfig) (*Registry, error) {
	r := &Registry{configs: make(map[string]TestConfig, len(configs))}
	for _, c := range configs {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.configs[c.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate test id %q", ErrInvalidConfig, c.ID)
		}
		r.configs[c.ID] = c.Normalize()
		r.ids = append(r.ids, c.ID)
	}
	sort.Strings(r.ids)
	return r, nil
}

// Lookup returns the definition for id.
func (r *Registry) Lookup(id string) (TestConfig, bool) {
	if r == nil {
		return TestConfig{}, false
	}
	c, ok := r.configs[id]
	return c, ok
}

// Get is Lookup that fails with ErrConfigNotFound.
func (r *Registry) Get(id string) (TestConfig, error) {
	c, ok := r.Lookup(id)
	if !ok {
		return TestConfig{}, fmt.Errorf("%w: %q", ErrConfigNotFound, id)
	}
	return c, nil
}

// IDs returns all registered test ids in sorted order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.ids...)
}

// Len returns the number of registered tests.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.configs)
}
