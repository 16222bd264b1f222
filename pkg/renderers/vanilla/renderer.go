package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-settingsgen/pkg/group"
	"github.com/goliatone/go-settingsgen/pkg/panel"
	"github.com/goliatone/go-settingsgen/pkg/render"
	rendertemplate "github.com/goliatone/go-settingsgen/pkg/render/template"
	gotemplate "github.com/goliatone/go-settingsgen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-settingsgen/pkg/resolver"
	"github.com/goliatone/go-settingsgen/pkg/widgets"
)

const (
	panelTemplate = "templates/panel.tmpl"
	// PartialPrefix namespaces theme partial overrides, e.g. "settings.slider".
	PartialPrefix = "settings."
	// StylesheetAsset is the theme asset key for the panel stylesheet.
	StylesheetAsset = "vanilla.stylesheet"
)

// builtinPartials maps widget names to the bundled control templates.
var builtinPartials = map[string]string{
	widgets.WidgetSelect:    "templates/controls/select.tmpl",
	widgets.WidgetSegmented: "templates/controls/segmented.tmpl",
	widgets.WidgetSlider:    "templates/controls/slider.tmpl",
}

// DefaultPartials returns the bundled widget templates keyed by theme partial
// name. Theme layers use it as their fallback set.
func DefaultPartials() map[string]string {
	out := make(map[string]string, len(builtinPartials))
	for widget, path := range builtinPartials {
		out[PartialPrefix+widget] = path
	}
	return out
}

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	widgets          *widgets.Registry
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithWidgetRegistry overrides how controls map to widget templates.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.widgets = registry
		}
	}
}

// Renderer emits an HTML settings panel.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	widgets   *widgets.Registry
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.widgets == nil {
		cfg.widgets = widgets.NewRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, widgets: cfg.widgets}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes one fieldset per section and one control per visible
// setting.
func (r *Renderer) Render(ctx context.Context, snap panel.Snapshot, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap = render.Prepare(snap, opts)
	errs := render.MapErrorPayload(snap, opts.Errors)
	classes := chromeClasses()
	partials := partialsFor(opts.Theme)

	sections := make([]map[string]any, 0, len(snap.Sections))
	for _, section := range snap.Sections {
		controls := make([]string, 0, len(section.Controls))
		for _, ctrl := range section.Controls {
			markup, err := r.renderControl(ctrl, errs.For(ctrl.ID), partials, classes)
			if err != nil {
				return nil, err
			}
			if markup != "" {
				controls = append(controls, markup)
			}
		}
		sections = append(sections, map[string]any{
			"id":       section.ID,
			"title":    section.Title,
			"errors":   errs.ForSection(section.ID),
			"controls": controls,
		})
	}

	hidden := make([]map[string]any, 0, len(opts.HiddenFields))
	for _, field := range render.SortedHiddenFields(opts.HiddenFields) {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	view := map[string]any{
		"title":      opts.ResolveTitle(snap),
		"classes":    classes,
		"errors":     errs.Panel,
		"hidden":     hidden,
		"sections":   sections,
		"theme":      themeView(opts.Theme),
		"stylesheet": stylesheetURL(opts.Theme),
	}
	result, err := r.templates.RenderTemplate(panelTemplate, view)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) renderControl(ctrl group.Control, errs []string, partials map[string]string, classes map[string]any) (string, error) {
	widget, ok := r.widgets.Resolve(ctrl)
	if !ok {
		return "", nil
	}
	tpl, ok := partials[PartialPrefix+widget]
	if !ok {
		tpl = partials[PartialPrefix+widgets.DefaultFor(ctrl.Kind)]
	}
	if tpl == "" {
		return "", fmt.Errorf("vanilla renderer: no template for widget %q (setting %q)", widget, ctrl.ID)
	}

	out, err := r.templates.RenderTemplate(tpl, map[string]any{
		"control": controlView(ctrl, widget, errs),
		"classes": classes,
	})
	if err != nil {
		return "", fmt.Errorf("vanilla renderer: render setting %q: %w", ctrl.ID, err)
	}
	return out, nil
}

func controlView(ctrl group.Control, widget string, errs []string) map[string]any {
	desc := ctrl.Descriptor
	view := map[string]any{
		"id":          ctrl.ID,
		"label":       desc.DisplayLabel(),
		"description": sanitizeHelp(desc.Description),
		"icon":        sanitizeIcon(desc.Icon),
		"kind":        ctrl.Kind.String(),
		"widget":      widget,
		"child":       ctrl.Child,
		"errors":      errs,
	}
	switch ctrl.Kind {
	case resolver.ControlSelect:
		options := make([]map[string]any, 0, len(desc.Options))
		for _, opt := range desc.Options {
			options = append(options, map[string]any{
				"value":    opt.Value,
				"label":    opt.DisplayLabel(),
				"selected": opt.Value == ctrl.Entry.StatusValue,
			})
		}
		view["options"] = options
		view["value"] = ctrl.Entry.StatusValue
	case resolver.ControlRange:
		view["value"] = ctrl.Entry.RangeValue
		if rng := desc.Range; rng != nil {
			view["min"] = rng.Min
			view["max"] = rng.Max
			view["step"] = rng.Step
			view["unit"] = rng.Unit
		} else {
			view["min"] = 0.0
			view["max"] = 1.0
		}
	}
	return view
}

func partialsFor(cfg *theme.RendererConfig) map[string]string {
	out := DefaultPartials()
	if cfg == nil {
		return out
	}
	for key, value := range cfg.Partials {
		if strings.HasPrefix(key, PartialPrefix) && strings.TrimSpace(value) != "" {
			out[key] = value
		}
	}
	return out
}

func themeView(cfg *theme.RendererConfig) map[string]any {
	if cfg == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":    cfg.Theme,
		"variant": cfg.Variant,
		"style":   cssVarsStyle(cfg.CSSVars),
	}
}

func stylesheetURL(cfg *theme.RendererConfig) string {
	if cfg == nil || cfg.AssetURL == nil {
		return ""
	}
	return cfg.AssetURL(StylesheetAsset)
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s;", key, vars[key]))
	}
	return strings.Join(parts, " ")
}
