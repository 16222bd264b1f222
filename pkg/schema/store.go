package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Store resolves setting ids to descriptors. Implementations must return a
// *LookupError for ids they do not declare.
type Store interface {
	Get(id string) (Descriptor, error)
}

// MapStore is an immutable, map-backed Store. It is safe for concurrent
// readers.
type MapStore struct {
	descriptors map[string]Descriptor
	order       []string
}

var _ Store = (*MapStore)(nil)

// NewMapStore builds a store and validates the descriptors, returning a
// *ConfigError when any blocking issue is found. Warnings do not fail
// construction.
func NewMapStore(descriptors ...Descriptor) (*MapStore, error) {
	store, err := newMapStore(descriptors)
	if err != nil {
		return nil, err
	}
	if issues := Errors(Validate(store)); len(issues) > 0 {
		return nil, &ConfigError{Issues: issues}
	}
	return store, nil
}

// NewMapStoreUnchecked builds a store without semantic validation. Duplicate
// or empty ids still fail.
func NewMapStoreUnchecked(descriptors ...Descriptor) (*MapStore, error) {
	return newMapStore(descriptors)
}

// MustNewMapStore panics when NewMapStore fails. Useful for tests and static
// layouts.
func MustNewMapStore(descriptors ...Descriptor) *MapStore {
	store, err := NewMapStore(descriptors...)
	if err != nil {
		panic(err)
	}
	return store
}

func newMapStore(descriptors []Descriptor) (*MapStore, error) {
	store := &MapStore{
		descriptors: make(map[string]Descriptor, len(descriptors)),
		order:       make([]string, 0, len(descriptors)),
	}
	for idx, desc := range descriptors {
		id := strings.TrimSpace(desc.ID)
		if id == "" {
			return nil, fmt.Errorf("schema: descriptor at index %d has an empty id", idx)
		}
		if _, exists := store.descriptors[id]; exists {
			return nil, fmt.Errorf("schema: duplicate setting %q", id)
		}
		desc = desc.Clone()
		desc.ID = id
		desc.Parent = strings.TrimSpace(desc.Parent)
		store.descriptors[id] = desc
		store.order = append(store.order, id)
	}
	return store, nil
}

// Get returns the descriptor for id or a *LookupError.
func (s *MapStore) Get(id string) (Descriptor, error) {
	if s == nil {
		return Descriptor{}, &LookupError{ID: id}
	}
	desc, ok := s.descriptors[id]
	if !ok {
		return Descriptor{}, &LookupError{ID: id}
	}
	return desc.Clone(), nil
}

// Has reports whether id is declared.
func (s *MapStore) Has(id string) bool {
	if s == nil {
		return false
	}
	_, ok := s.descriptors[id]
	return ok
}

// IDs returns the declared ids in declaration order.
func (s *MapStore) IDs() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Descriptors returns every descriptor in declaration order.
func (s *MapStore) Descriptors() []Descriptor {
	if s == nil {
		return nil
	}
	out := make([]Descriptor, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.descriptors[id].Clone())
	}
	return out
}

// Children returns the ids that declare parent as their Parent, sorted.
func (s *MapStore) Children(parent string) []string {
	if s == nil {
		return nil
	}
	var out []string
	for id, desc := range s.descriptors {
		if desc.Parent == parent {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Len reports how many descriptors the store holds.
func (s *MapStore) Len() int {
	if s == nil {
		return 0
	}
	return len(s.descriptors)
}
