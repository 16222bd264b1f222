package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-settingsgen/pkg/schema"
)

// Load parses an OpenAPI document and extracts its settings.
func Load(ctx context.Context, data []byte, options ...Option) (*schema.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}
	opts := newLoaderOptions(options)

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: opts.ExternalRefs,
	}
	api, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if opts.Validate {
		if err := api.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}

	settings, err := collectSettings(api)
	if err != nil {
		return nil, err
	}
	groups, err := collectGroups(api)
	if err != nil {
		return nil, err
	}

	title := ""
	if api.Info != nil {
		title = api.Info.Title
	}
	doc := schema.NewDocument(title)
	for _, cs := range settings {
		src := schema.SourceFromOpenAPI(opts.Location, "/components/schemas/"+cs.component)
		if err := doc.Merge(src, []schema.Descriptor{cs.descriptor}, nil); err != nil {
			return nil, err
		}
	}
	if err := doc.Merge(schema.SourceFromOpenAPI(opts.Location, groupsExtensionKey), nil, groups); err != nil {
		return nil, err
	}
	return doc, nil
}

type componentSetting struct {
	component  string
	descriptor schema.Descriptor
}

// collectSettings returns the x-setting components sorted by component name.
func collectSettings(api *openapi3.T) ([]componentSetting, error) {
	if api.Components == nil || len(api.Components.Schemas) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(api.Components.Schemas))
	for name := range api.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	var settings []componentSetting
	for _, name := range names {
		ref := api.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		raw, ok := ref.Value.Extensions[settingExtensionKey]
		if !ok {
			continue
		}
		var ext settingExtension
		if err := decodeExtension(raw, &ext); err != nil {
			return nil, fmt.Errorf("openapi parser: component %q: %w", name, err)
		}
		desc, err := descriptorFrom(name, ref.Value, ext)
		if err != nil {
			return nil, fmt.Errorf("openapi parser: component %q: %w", name, err)
		}
		settings = append(settings, componentSetting{component: name, descriptor: desc})
	}
	return settings, nil
}

func collectGroups(api *openapi3.T) ([]schema.GroupConfig, error) {
	raw, ok := api.Extensions[groupsExtensionKey]
	if !ok {
		return nil, nil
	}
	var groups []schema.GroupConfig
	if err := decodeExtension(raw, &groups); err != nil {
		return nil, fmt.Errorf("openapi parser: %s: %w", groupsExtensionKey, err)
	}
	return groups, nil
}

// descriptorFrom maps a component schema onto a descriptor. A range needs both
// minimum and maximum; one bound on its own is rejected.
func descriptorFrom(component string, src *openapi3.Schema, ext settingExtension) (schema.Descriptor, error) {
	id := strings.TrimSpace(ext.ID)
	if id == "" {
		id = component
	}
	desc := schema.Descriptor{
		ID:                    id,
		Parent:                strings.TrimSpace(ext.Parent),
		ParentStatusCondition: append([]string(nil), ext.ParentStatusCondition...),
		Status:                ext.Status,
		SelectRange:           ext.SelectRange,
		Label:                 src.Title,
		Description:           src.Description,
		Icon:                  ext.Icon,
		Widget:                ext.Widget,
		Default:               formatValue(src.Default),
	}
	for _, value := range src.Enum {
		text := formatValue(value)
		desc.Options = append(desc.Options, schema.Option{Value: text, Label: ext.OptionLabels[text]})
	}
	switch {
	case src.Min != nil && src.Max != nil:
		rng := &schema.Range{Min: *src.Min, Max: *src.Max, Unit: ext.Unit}
		if src.MultipleOf != nil {
			rng.Step = *src.MultipleOf
		}
		desc.Range = rng
	case src.Min != nil:
		return schema.Descriptor{}, errors.New("minimum declared without maximum")
	case src.Max != nil:
		return schema.Descriptor{}, errors.New("maximum declared without minimum")
	}
	return desc, nil
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
