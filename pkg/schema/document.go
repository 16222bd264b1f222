package schema

import (
	"fmt"
	"strings"
)

// GroupConfig declares one settings group: the parent setting followed by its
// children in display order.
type GroupConfig struct {
	ID       string   `json:"id" yaml:"id"`
	Title    string   `json:"title,omitempty" yaml:"title,omitempty"`
	Parent   string   `json:"parent" yaml:"parent"`
	Children []string `json:"children,omitempty" yaml:"children,omitempty"`
}

// Document is the merged result of one or more schema files.
type Document struct {
	Title    string
	Settings []Descriptor
	Groups   []GroupConfig

	sources map[string]Source
}

// NewDocument returns an empty document ready for Merge.
func NewDocument(title string) *Document {
	return &Document{Title: title, sources: make(map[string]Source)}
}

// Merge appends settings and groups declared by src, rejecting ids that were
// already declared by another source.
func (d *Document) Merge(src Source, settings []Descriptor, groups []GroupConfig) error {
	if d.sources == nil {
		d.sources = make(map[string]Source)
	}
	location := locationOf(src)
	for _, desc := range settings {
		id := strings.TrimSpace(desc.ID)
		if id == "" {
			return fmt.Errorf("schema: %s declares a setting with an empty id", location)
		}
		if prev, exists := d.sources[id]; exists {
			return fmt.Errorf("schema: duplicate setting %q (%s and %s)", id, locationOf(prev), location)
		}
		d.sources[id] = src
		desc.ID = id
		d.Settings = append(d.Settings, desc)
	}
	for _, grp := range groups {
		grp.ID = strings.TrimSpace(grp.ID)
		if grp.ID == "" {
			grp.ID = strings.TrimSpace(grp.Parent)
		}
		for _, existing := range d.Groups {
			if existing.ID == grp.ID {
				return fmt.Errorf("schema: duplicate group %q (%s)", grp.ID, location)
			}
		}
		grp.Children = append([]string(nil), grp.Children...)
		d.Groups = append(d.Groups, grp)
	}
	return nil
}

// Clone returns a deep copy so callers can patch descriptors without affecting
// d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := NewDocument(d.Title)
	for _, desc := range d.Settings {
		out.Settings = append(out.Settings, desc.Clone())
	}
	for _, grp := range d.Groups {
		grp.Children = append([]string(nil), grp.Children...)
		out.Groups = append(out.Groups, grp)
	}
	for id, src := range d.sources {
		out.sources[id] = src
	}
	return out
}

// SourceOf reports which source declared id.
func (d *Document) SourceOf(id string) (Source, bool) {
	if d == nil {
		return nil, false
	}
	src, ok := d.sources[id]
	return src, ok
}

// Store builds a validated MapStore from the document's settings.
func (d *Document) Store() (*MapStore, error) {
	if d == nil {
		return NewMapStore()
	}
	store, err := NewMapStoreUnchecked(d.Settings...)
	if err != nil {
		return nil, err
	}
	if issues := Errors(d.Validate(store)); len(issues) > 0 {
		return nil, &ConfigError{Issues: issues}
	}
	return store, nil
}

// Validate runs descriptor validation plus group checks and annotates each
// issue with the source that declared the offending setting.
func (d *Document) Validate(store *MapStore) []Issue {
	issues := Validate(store)
	for _, grp := range d.Groups {
		if grp.Parent == "" {
			issues = append(issues, Issue{Message: fmt.Sprintf("group %q declares no parent", grp.ID)})
			continue
		}
		if !store.Has(grp.Parent) {
			issues = append(issues, Issue{ID: grp.Parent, Message: fmt.Sprintf("group %q references an undeclared parent", grp.ID)})
		}
		for _, child := range grp.Children {
			if !store.Has(child) {
				issues = append(issues, Issue{ID: child, Message: fmt.Sprintf("group %q references an undeclared child", grp.ID)})
			}
		}
	}
	for idx := range issues {
		if src, ok := d.sources[issues[idx].ID]; ok {
			issues[idx].Source = locationOf(src)
		}
	}
	return issues
}

func locationOf(src Source) string {
	if src == nil {
		return ""
	}
	return src.Location()
}
