// Package group composes a parent setting and its children into the ordered
// list of visible controls for one settings group.
package group

import (
	"errors"
	"strings"

	"github.com/goliatone/go-settingsgen/pkg/resolver"
	"github.com/goliatone/go-settingsgen/pkg/schema"
	"github.com/goliatone/go-settingsgen/pkg/values"
)

// Group declares which settings compose one visual group, in display order.
type Group struct {
	ID       string
	Title    string
	Parent   string
	Children []string
}

// FromConfig converts a schema group declaration.
func FromConfig(cfg schema.GroupConfig) Group {
	return Group{
		ID:       cfg.ID,
		Title:    cfg.Title,
		Parent:   cfg.Parent,
		Children: append([]string(nil), cfg.Children...),
	}
}

// FromConfigs converts every declaration in order.
func FromConfigs(cfgs []schema.GroupConfig) []Group {
	out := make([]Group, 0, len(cfgs))
	for _, cfg := range cfgs {
		out = append(out, FromConfig(cfg))
	}
	return out
}

// Control is one visible setting together with the data a renderer needs.
type Control struct {
	ID         string
	Kind       resolver.ControlKind
	Descriptor schema.Descriptor
	Entry      values.Entry
	// Child is false for the group's parent control.
	Child bool
}

// ValueSource supplies current entries. *values.Store satisfies it.
type ValueSource interface {
	Get(id string) (values.Entry, bool)
}

// Compose resolves the parent without parent context, then each child in
// declared order with the parent's current entry. Controls that resolve to
// ControlNone are left out. Any unknown id fails the whole group and no
// controls are returned.
func Compose(store schema.Store, vals ValueSource, g Group) ([]Control, error) {
	if strings.TrimSpace(g.Parent) == "" {
		return nil, errors.New("group: parent is required")
	}

	out := make([]Control, 0, len(g.Children)+1)
	parent, err := resolveControl(store, vals, g.Parent, nil)
	if err != nil {
		return nil, err
	}
	if parent.Kind.Visible() {
		out = append(out, parent)
	}

	var parentEntry *values.Entry
	if vals != nil {
		if entry, ok := vals.Get(g.Parent); ok {
			parentEntry = &entry
		}
	}

	for _, id := range g.Children {
		child, err := resolveControl(store, vals, id, parentEntry)
		if err != nil {
			return nil, err
		}
		if !child.Kind.Visible() {
			continue
		}
		child.Child = true
		out = append(out, child)
	}
	return out, nil
}

// ComposeAll composes every group in order. The first failing group aborts the
// layout.
func ComposeAll(store schema.Store, vals ValueSource, groups []Group) ([][]Control, error) {
	out := make([][]Control, 0, len(groups))
	for _, g := range groups {
		controls, err := Compose(store, vals, g)
		if err != nil {
			return nil, err
		}
		out = append(out, controls)
	}
	return out, nil
}

func resolveControl(store schema.Store, vals ValueSource, id string, parent *values.Entry) (Control, error) {
	if store == nil {
		return Control{}, &schema.LookupError{ID: id}
	}
	desc, err := store.Get(id)
	if err != nil {
		return Control{}, err
	}
	ctrl := Control{
		ID:         id,
		Kind:       resolver.ResolveDescriptor(desc, parent),
		Descriptor: desc,
	}
	if vals != nil {
		if entry, ok := vals.Get(id); ok {
			ctrl.Entry = entry
		}
	}
	if ctrl.Entry.ID == "" {
		ctrl.Entry.ID = id
	}
	return ctrl, nil
}
