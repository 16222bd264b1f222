package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-settingsgen/pkg/schema"
	"github.com/goliatone/go-settingsgen/pkg/values"
)

// Transformer patches a document and seeds values before the panel is built.
type Transformer interface {
	Transform(ctx context.Context, doc *schema.Document, vals *values.Store) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, doc *schema.Document, vals *values.Store) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, doc *schema.Document, vals *values.Store) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, doc, vals)
}

// PresetTransformer applies declarative overrides loaded from a YAML or JSON
// document:
//
//	title: Field laptop
//	settings:
//	  floodLayer: {label: Inundation, default: "on"}
//	values:
//	  basemap: satellite
//	  floodOpacity: 0.4
//
// Values are written only for settings the value store does not hold yet.
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Title    string                 `yaml:"title"`
	Settings map[string]presetPatch `yaml:"settings"`
	Values   map[string]any         `yaml:"values"`
}

type presetPatch struct {
	Label       *string `yaml:"label"`
	Description *string `yaml:"description"`
	Widget      *string `yaml:"widget"`
	Icon        *string `yaml:"icon"`
	Default     *string `yaml:"default"`
}

// NewPresetTransformer parses a preset document.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from fsys.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform patches descriptors and seeds values. Unknown setting ids are
// reported together.
func (p *PresetTransformer) Transform(ctx context.Context, doc *schema.Document, vals *values.Store) error {
	if p == nil || doc == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if p.document.Title != "" {
		doc.Title = p.document.Title
	}

	index := make(map[string]int, len(doc.Settings))
	for idx, desc := range doc.Settings {
		index[desc.ID] = idx
	}

	var unknown []string
	for id, patch := range p.document.Settings {
		idx, ok := index[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		applyPatch(&doc.Settings[idx], patch)
	}

	for id, raw := range p.document.Values {
		idx, ok := index[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		if vals == nil {
			continue
		}
		if _, exists := vals.Get(id); exists {
			continue
		}
		entry, err := presetEntry(doc.Settings[idx], raw)
		if err != nil {
			return err
		}
		vals.Set(entry)
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("preset transformer: unknown settings %s", strings.Join(unknown, ", "))
	}
	return nil
}

func applyPatch(desc *schema.Descriptor, patch presetPatch) {
	if patch.Label != nil {
		desc.Label = *patch.Label
	}
	if patch.Description != nil {
		desc.Description = *patch.Description
	}
	if patch.Widget != nil {
		desc.Widget = *patch.Widget
	}
	if patch.Icon != nil {
		desc.Icon = *patch.Icon
	}
	if patch.Default != nil {
		desc.Default = *patch.Default
	}
}

func presetEntry(desc schema.Descriptor, raw any) (values.Entry, error) {
	entry := values.Entry{ID: desc.ID}
	switch v := raw.(type) {
	case string:
		entry.StatusValue = v
	case bool:
		entry.StatusValue = fmt.Sprint(v)
	case int:
		entry.RangeValue = float64(v)
	case float64:
		entry.RangeValue = v
	default:
		return values.Entry{}, fmt.Errorf("preset transformer: setting %q has unsupported value %v", desc.ID, raw)
	}
	if desc.SelectRange && !desc.Status && entry.StatusValue != "" {
		return values.Entry{}, fmt.Errorf("preset transformer: setting %q expects a number", desc.ID)
	}
	return entry, nil
}
