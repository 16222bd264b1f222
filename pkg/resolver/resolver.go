// Package resolver decides which control, if any, represents a setting.
//
// Rules are evaluated in order and the first match wins:
//
//  1. A descriptor gated on its parent resolves to ControlNone when a parent
//     entry is supplied and its status value is not an accepted condition.
//  2. Status resolves to ControlSelect.
//  3. SelectRange resolves to ControlRange.
//  4. Anything else resolves to ControlNone.
//
// Without a parent entry rule 1 is skipped, so settings rendered outside a
// group are never hidden for lack of context.
package resolver

import (
	"github.com/goliatone/go-settingsgen/pkg/schema"
	"github.com/goliatone/go-settingsgen/pkg/values"
)

// ControlKind is the category of widget a setting maps to.
type ControlKind int

const (
	ControlNone ControlKind = iota
	ControlSelect
	ControlRange
)

func (k ControlKind) String() string {
	switch k {
	case ControlSelect:
		return "select"
	case ControlRange:
		return "range"
	default:
		return "none"
	}
}

// Visible reports whether the kind produces output.
func (k ControlKind) Visible() bool {
	return k != ControlNone
}

// Resolve looks id up in store and applies ResolveDescriptor. Lookup failures
// are returned unchanged.
func Resolve(store schema.Store, id string, parent *values.Entry) (ControlKind, error) {
	if store == nil {
		return ControlNone, &schema.LookupError{ID: id}
	}
	desc, err := store.Get(id)
	if err != nil {
		return ControlNone, err
	}
	return ResolveDescriptor(desc, parent), nil
}

// ResolveDescriptor applies the resolution rules to a descriptor.
func ResolveDescriptor(desc schema.Descriptor, parent *values.Entry) ControlKind {
	if desc.Gated() && parent != nil && !desc.AllowsParentStatus(parent.StatusValue) {
		return ControlNone
	}
	switch {
	case desc.Status:
		return ControlSelect
	case desc.SelectRange:
		return ControlRange
	default:
		return ControlNone
	}
}
