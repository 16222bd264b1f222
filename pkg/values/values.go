// Package values holds the current value of each setting and notifies
// subscribers when one changes.
package values

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-settingsgen/pkg/schema"
)

// Entry is the current resolved value of one setting. Resolution only reads
// StatusValue.
type Entry struct {
	ID          string  `json:"id"`
	StatusValue string  `json:"statusValue,omitempty"`
	RangeValue  float64 `json:"rangeValue,omitempty"`
}

// Listener receives the entry that was written.
type Listener func(Entry)

// Store is a concurrency-safe in-memory value store.
type Store struct {
	mu        sync.RWMutex
	entries   map[string]Entry
	listeners map[int]Listener
	nextID    int
}

// NewStore returns a store pre-populated with entries.
func NewStore(entries ...Entry) *Store {
	s := &Store{
		entries:   make(map[string]Entry, len(entries)),
		listeners: make(map[int]Listener),
	}
	for _, entry := range entries {
		s.entries[entry.ID] = entry
	}
	return s
}

// Get returns the entry for id.
func (s *Store) Get(id string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	return entry, ok
}

// Set writes entry and notifies subscribers synchronously. Listeners run
// outside the lock so they may read the store.
func (s *Store) Set(entry Entry) {
	if s == nil || strings.TrimSpace(entry.ID) == "" {
		return
	}
	s.mu.Lock()
	s.entries[entry.ID] = entry
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(entry)
	}
}

// SetStatus is shorthand for updating only the status value of id.
func (s *Store) SetStatus(id, value string) {
	entry, _ := s.Get(id)
	entry.ID = id
	entry.StatusValue = value
	s.Set(entry)
}

// SetRange is shorthand for updating only the range value of id.
func (s *Store) SetRange(id string, value float64) {
	entry, _ := s.Get(id)
	entry.ID = id
	entry.RangeValue = value
	s.Set(entry)
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// Snapshot returns a copy of all entries keyed by id.
func (s *Store) Snapshot() map[string]Entry {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]Entry, len(s.entries))
	for id, entry := range s.entries {
		out[id] = entry
	}
	return out
}

// Export flattens entries into plain values. The field is picked by the
// descriptor kind in descriptors: the status value for selectors, the number
// for ranges. Entries without a known descriptor, or with a nil descriptors,
// fall back to whichever field is set.
func (s *Store) Export(descriptors schema.Store) map[string]any {
	snapshot := s.Snapshot()
	out := make(map[string]any, len(snapshot))
	for id, entry := range snapshot {
		if descriptors != nil {
			if desc, err := descriptors.Get(id); err == nil {
				switch {
				case desc.Status:
					out[id] = entry.StatusValue
					continue
				case desc.SelectRange:
					out[id] = entry.RangeValue
					continue
				}
			}
		}
		if entry.StatusValue != "" {
			out[id] = entry.StatusValue
			continue
		}
		out[id] = entry.RangeValue
	}
	return out
}

func (s *Store) snapshotListeners() []Listener {
	if len(s.listeners) == 0 {
		return nil
	}
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.listeners[id])
	}
	return out
}

// Seed writes default entries for every descriptor that has no entry yet.
// Selectors default to Default or their first option; ranges to Default or
// their minimum. Seeding does not notify subscribers.
func Seed(store *Store, descriptors []schema.Descriptor) {
	if store == nil {
		return
	}
	store.mu.Lock()
	defer store.mu.Unlock()
	for _, desc := range descriptors {
		if _, exists := store.entries[desc.ID]; exists {
			continue
		}
		if entry, ok := DefaultEntry(desc); ok {
			store.entries[desc.ID] = entry
		}
	}
}

// DefaultEntry computes the initial entry for a descriptor.
func DefaultEntry(desc schema.Descriptor) (Entry, bool) {
	switch {
	case desc.Status:
		value := strings.TrimSpace(desc.Default)
		if value == "" && len(desc.Options) > 0 {
			value = desc.Options[0].Value
		}
		return Entry{ID: desc.ID, StatusValue: value}, true
	case desc.SelectRange:
		entry := Entry{ID: desc.ID}
		if desc.Range != nil {
			entry.RangeValue = desc.Range.Min
		}
		if raw := strings.TrimSpace(desc.Default); raw != "" {
			if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
				entry.RangeValue = parsed
			}
		}
		return entry, true
	default:
		return Entry{}, false
	}
}
