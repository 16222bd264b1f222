// Package theming resolves go-theme manifests into renderer configuration for
// settings panels.
package theming

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

var (
	// ErrThemeNotFound is returned when a selection names an unregistered theme.
	ErrThemeNotFound = errors.New("theming: theme not found")
	// ErrVariantNotFound is returned when the theme does not declare the variant.
	ErrVariantNotFound = errors.New("theming: variant not found")
)

type manifestRegistry interface {
	theme.ThemeProvider
	Register(manifest *theme.Manifest) error
}

// StaticSelector answers theme selections from an in-memory set of manifests.
// Manifests are also registered with a go-theme registry so callers needing a
// theme.ThemeProvider can share the same set.
type StaticSelector struct {
	mu             sync.RWMutex
	registry       manifestRegistry
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*StaticSelector)(nil)

// NewStaticSelector registers manifests and uses defaultTheme/defaultVariant
// when a selection leaves them blank. The first manifest becomes the default
// theme when defaultTheme is empty.
func NewStaticSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*StaticSelector, error) {
	s := &StaticSelector{
		registry:       theme.NewRegistry(),
		manifests:      make(map[string]*theme.Manifest),
		defaultTheme:   strings.TrimSpace(defaultTheme),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if err := s.Register(manifest); err != nil {
			return nil, err
		}
	}
	if s.defaultTheme == "" && len(manifests) > 0 {
		s.defaultTheme = manifests[0].Name
	}
	if s.defaultTheme != "" {
		if _, ok := s.manifests[s.defaultTheme]; !ok {
			return nil, fmt.Errorf("%w: default %q", ErrThemeNotFound, s.defaultTheme)
		}
	}
	return s, nil
}

// Register adds a manifest. Names must be unique.
func (s *StaticSelector) Register(manifest *theme.Manifest) error {
	if manifest == nil {
		return errors.New("theming: manifest is nil")
	}
	name := strings.TrimSpace(manifest.Name)
	if name == "" {
		return errors.New("theming: manifest name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.manifests[name]; exists {
		return fmt.Errorf("theming: theme %q already registered", name)
	}
	if err := s.registry.Register(manifest); err != nil {
		return fmt.Errorf("theming: register %q: %w", name, err)
	}
	s.manifests[name] = manifest
	return nil
}

// Provider exposes the backing go-theme registry.
func (s *StaticSelector) Provider() theme.ThemeProvider {
	return s.registry
}

// Themes lists registered theme names in sorted order.
func (s *StaticSelector) Themes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Select resolves name and variant. Query options are accepted for interface
// compatibility and ignored.
func (s *StaticSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	variant = strings.TrimSpace(variant)
	if name == "" {
		name = s.defaultTheme
		if variant == "" {
			variant = s.defaultVariant
		}
	}
	if name == "" {
		return nil, fmt.Errorf("%w: no theme requested and no default configured", ErrThemeNotFound)
	}

	s.mu.RLock()
	manifest, ok := s.manifests[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q in theme %q", ErrVariantNotFound, variant, name)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}
