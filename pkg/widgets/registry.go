// Package widgets picks the presentation variant for a resolved control.
package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-settingsgen/pkg/group"
	"github.com/goliatone/go-settingsgen/pkg/resolver"
)

const (
	WidgetSelect    = "select"
	WidgetSegmented = "segmented"
	WidgetSlider    = "slider"
)

// builtinKinds binds the built-in widgets to the control kind they present.
var builtinKinds = map[string]resolver.ControlKind{
	WidgetSelect:    resolver.ControlSelect,
	WidgetSegmented: resolver.ControlSelect,
	WidgetSlider:    resolver.ControlRange,
}

// Suits reports whether widget can present a control of kind. Widgets outside
// the built-in set are assumed to suit any kind.
func Suits(widget string, kind resolver.ControlKind) bool {
	bound, ok := builtinKinds[strings.TrimSpace(widget)]
	return !ok || bound == kind
}

// segmentedMaxOptions is the largest option count rendered as a segmented
// control.
const segmentedMaxOptions = 3

// Matcher reports whether a widget suits ctrl.
type Matcher func(ctrl group.Control) bool

type rule struct {
	name     string
	priority int
	match    Matcher
}

// Registry maps controls to widget names. A descriptor's Widget hint wins
// when it suits the resolved kind; otherwise the highest-priority matching rule does, earlier registrations
// breaking ties.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry returns a registry with the select, segmented and slider rules.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.Register(WidgetSegmented, 80, func(ctrl group.Control) bool {
		n := len(ctrl.Descriptor.Options)
		return ctrl.Kind == resolver.ControlSelect && n > 0 && n <= segmentedMaxOptions
	})
	reg.Register(WidgetSelect, 70, func(ctrl group.Control) bool {
		return ctrl.Kind == resolver.ControlSelect
	})
	reg.Register(WidgetSlider, 60, func(ctrl group.Control) bool {
		return ctrl.Kind == resolver.ControlRange
	})
	return reg
}

// Register adds a rule. Blank names and nil matchers are ignored.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	name = strings.TrimSpace(name)
	if r == nil || matcher == nil || name == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	// Keep rules ordered by descending priority; insert after equal
	// priorities so registration order breaks ties.
	idx := sort.Search(len(r.rules), func(i int) bool {
		return r.rules[i].priority < priority
	})
	r.rules = append(r.rules, rule{})
	copy(r.rules[idx+1:], r.rules[idx:])
	r.rules[idx] = rule{name: name, priority: priority, match: matcher}
}

// Resolve returns the widget for ctrl. ControlNone never resolves.
func (r *Registry) Resolve(ctrl group.Control) (string, bool) {
	if !ctrl.Kind.Visible() {
		return "", false
	}
	if hint := strings.TrimSpace(ctrl.Descriptor.Widget); hint != "" && Suits(hint, ctrl.Kind) {
		return hint, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, entry := range r.rules {
		if entry.match(ctrl) {
			return entry.name, true
		}
	}
	return "", false
}

// Names lists the distinct widget names with a rule, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{}, len(r.rules))
	var out []string
	for _, entry := range r.rules {
		if _, dup := seen[entry.name]; dup {
			continue
		}
		seen[entry.name] = struct{}{}
		out = append(out, entry.name)
	}
	sort.Strings(out)
	return out
}

// DefaultFor is the widget renderers fall back to when a hint names a widget
// they have no template for.
func DefaultFor(kind resolver.ControlKind) string {
	if kind == resolver.ControlRange {
		return WidgetSlider
	}
	return WidgetSelect
}
