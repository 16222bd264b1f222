// Package panel is the reactive shell around group composition. It owns the
// live schema, the value store and the group layout, and recomputes the
// visible controls whenever a value changes or the schema is replaced.
package panel

import (
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-settingsgen/pkg/group"
	"github.com/goliatone/go-settingsgen/pkg/schema"
	"github.com/goliatone/go-settingsgen/pkg/values"
)

// Section is one composed group ready to render.
type Section struct {
	ID       string
	Title    string
	Parent   string
	Controls []group.Control
}

// Snapshot is the full set of visible controls at one point in time.
type Snapshot struct {
	Title    string
	Sections []Section
}

// Control returns the visible control with id, if any.
func (s Snapshot) Control(id string) (group.Control, bool) {
	for _, section := range s.Sections {
		for _, ctrl := range section.Controls {
			if ctrl.ID == id {
				return ctrl, true
			}
		}
	}
	return group.Control{}, false
}

// Listener receives every recomputed snapshot, or the error that prevented
// recomputation.
type Listener func(Snapshot, error)

// Option configures a Panel.
type Option func(*Panel)

// WithLogger routes recompute diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Panel) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTitle sets the panel title reported in snapshots.
func WithTitle(title string) Option {
	return func(p *Panel) {
		p.title = title
	}
}

type descriptorLister interface {
	Descriptors() []schema.Descriptor
}

// Panel recomputes group composition on every change notification.
type Panel struct {
	mu        sync.RWMutex
	title     string
	store     schema.Store
	groups    []group.Group
	values    *values.Store
	logger    *zap.Logger
	listeners map[int]Listener
	nextID    int
	detach    func()
	closed    bool
}

// New builds a panel over store and groups. When vals is nil an empty value
// store is created. Missing values are seeded from descriptor defaults when the
// store can list its descriptors.
func New(store schema.Store, groups []group.Group, vals *values.Store, options ...Option) *Panel {
	if vals == nil {
		vals = values.NewStore()
	}
	p := &Panel{
		store:     store,
		groups:    cloneGroups(groups),
		values:    vals,
		logger:    zap.NewNop(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	seed(vals, store)
	p.detach = vals.Subscribe(func(entry values.Entry) {
		p.logger.Debug("setting changed",
			zap.String("setting", entry.ID),
			zap.String("status", entry.StatusValue),
			zap.Float64("range", entry.RangeValue))
		p.notify()
	})
	return p
}

// FromDocument builds a validated store from doc and uses its groups as the
// layout.
func FromDocument(doc *schema.Document, vals *values.Store, options ...Option) (*Panel, error) {
	if doc == nil {
		return nil, errors.New("panel: document is required")
	}
	store, err := doc.Store()
	if err != nil {
		return nil, err
	}
	opts := append([]Option{WithTitle(doc.Title)}, options...)
	return New(store, group.FromConfigs(doc.Groups), vals, opts...), nil
}

// Snapshot composes every group against the current schema and values.
func (p *Panel) Snapshot() (Snapshot, error) {
	p.mu.RLock()
	store := p.store
	groups := p.groups
	title := p.title
	p.mu.RUnlock()

	composed, err := group.ComposeAll(store, p.values, groups)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{Title: title, Sections: make([]Section, 0, len(groups))}
	for idx, g := range groups {
		snap.Sections = append(snap.Sections, Section{
			ID:       g.ID,
			Title:    g.Title,
			Parent:   g.Parent,
			Controls: composed[idx],
		})
	}
	return snap, nil
}

// Subscribe registers fn for recompute notifications and returns a function
// that removes it.
func (p *Panel) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

// SetValue writes entry to the value store; subscribers are notified through
// the store subscription.
func (p *Panel) SetValue(entry values.Entry) {
	p.values.Set(entry)
}

// Values exposes the backing value store.
func (p *Panel) Values() *values.Store {
	return p.values
}

// Schema returns the live schema store.
func (p *Panel) Schema() schema.Store {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.store
}

// ReplaceSchema swaps the schema and layout, seeds defaults for new settings
// and notifies subscribers.
func (p *Panel) ReplaceSchema(store schema.Store, groups []group.Group) {
	p.mu.Lock()
	p.store = store
	p.groups = cloneGroups(groups)
	p.mu.Unlock()

	seed(p.values, store)
	p.logger.Info("schema replaced", zap.Int("groups", len(groups)))
	p.notify()
}

// ReplaceDocument validates doc and swaps it in. On error the current schema
// stays live.
func (p *Panel) ReplaceDocument(doc *schema.Document) error {
	if doc == nil {
		return errors.New("panel: document is required")
	}
	store, err := doc.Store()
	if err != nil {
		return err
	}
	p.mu.Lock()
	if doc.Title != "" {
		p.title = doc.Title
	}
	p.mu.Unlock()
	p.ReplaceSchema(store, group.FromConfigs(doc.Groups))
	return nil
}

// Close detaches the panel from its value store and stops all notifications.
// Snapshot keeps working.
func (p *Panel) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	if p.detach != nil {
		p.detach()
	}
}

func (p *Panel) notify() {
	p.mu.RLock()
	if p.closed || len(p.listeners) == 0 {
		p.mu.RUnlock()
		return
	}
	ids := make([]int, 0, len(p.listeners))
	for id := range p.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, p.listeners[id])
	}
	p.mu.RUnlock()

	snap, err := p.Snapshot()
	if err != nil {
		p.logger.Error("recompute panel", zap.Error(err))
	}
	for _, fn := range listeners {
		fn(snap, err)
	}
}

func seed(vals *values.Store, store schema.Store) {
	if lister, ok := store.(descriptorLister); ok {
		values.Seed(vals, lister.Descriptors())
	}
}

func cloneGroups(groups []group.Group) []group.Group {
	out := make([]group.Group, 0, len(groups))
	for _, g := range groups {
		g.Children = append([]string(nil), g.Children...)
		out = append(out, g)
	}
	return out
}
