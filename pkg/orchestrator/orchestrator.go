package orchestrator

import (
	"context"
	"errors"
	"fmt"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-settingsgen/pkg/panel"
	"github.com/goliatone/go-settingsgen/pkg/render"
	"github.com/goliatone/go-settingsgen/pkg/renderers/tui"
	"github.com/goliatone/go-settingsgen/pkg/renderers/vanilla"
	"github.com/goliatone/go-settingsgen/pkg/schema"
	"github.com/goliatone/go-settingsgen/pkg/theming"
	"github.com/goliatone/go-settingsgen/pkg/values"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer that patches the document and seeds
// values before the panel is built.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithThemeSelector resolves theme/variant choices ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeFallbacks replaces the partials used when a theme does not override
// a control template. Defaults to the vanilla control templates.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// WithDefaultDocument supplies the document used when a request carries none.
// Defaults to the embedded dashboard schema.
func WithDefaultDocument(doc *schema.Document) Option {
	return func(o *Orchestrator) {
		o.defaultDocument = doc
	}
}

// WithLogger routes pipeline diagnostics to logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates document → panel → theme → renderer. It applies
// defaults (embedded schema, vanilla and tui renderers) while remaining open to
// dependency injection.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	defaultDocument *schema.Document
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render.
type Request struct {
	// Document is the schema to render. Optional; the default document is used
	// when nil. Transformers mutate it in place.
	Document *schema.Document

	// Values holds current setting values. Optional; defaults are seeded for
	// every setting without a value. Interactive renderers write answers back.
	Values *values.Store

	// Renderer names the renderer. Blank selects the default.
	Renderer string

	// ThemeName and ThemeVariant are passed to the theme selector.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries per-request overrides. A non-nil Theme skips theme
	// selection; Live is always set to the request's panel.
	RenderOptions render.RenderOptions
}

// Generate builds the panel for req and renders its current snapshot.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	doc := req.Document
	if doc == nil {
		doc = o.defaultDocument.Clone()
	}
	if doc == nil {
		return nil, errors.New("orchestrator: document is required")
	}

	vals := req.Values
	if vals == nil {
		vals = values.NewStore()
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, doc, vals); err != nil {
			return nil, fmt.Errorf("orchestrator: transform document: %w", err)
		}
	}

	p, err := panel.FromDocument(doc, vals, panel.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build panel: %w", err)
	}
	defer p.Close()

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	opts.Live = p
	if opts.Theme == nil {
		cfg, err := theming.Resolve(o.themeSelector, req.ThemeName, req.ThemeVariant, o.themeFallbacks)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: select theme: %w", err)
		}
		opts.Theme = cfg
	}

	snap, err := p.Snapshot()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: compose panel: %w", err)
	}
	o.logger.Debug("rendering settings panel",
		zap.String("renderer", renderer.Name()),
		zap.Int("sections", len(snap.Sections)))

	output, err := renderer.Render(ctx, snap, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}
	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	renderer, err := o.registry.Resolve(target)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", target, err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry == nil {
		o.registry = render.NewRegistry()
		html, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(html)
		terminal, err := tui.New(tui.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: tui renderer: %w", err)
			return
		}
		o.registry.MustRegister(terminal)
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = vanilla.DefaultPartials()
	}
	if o.defaultDocument == nil {
		doc, err := schema.LoadFS(schema.EmbeddedFS())
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load embedded schema: %w", err)
			return
		}
		o.defaultDocument = doc
	}
}
