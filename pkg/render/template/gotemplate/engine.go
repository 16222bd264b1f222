// Package gotemplate backs template.TemplateRenderer with the
// github.com/goliatone/go-template engine, a cached pongo2 template set.
package gotemplate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-settingsgen/pkg/render/template"
)

const defaultExtension = ".tmpl"

// Option configures the engine before construction.
type Option func(*engineOptions)

type engineOptions struct {
	dir       string
	files     fs.FS
	extension string
	globals   map[string]any
	filters   map[string]FilterFunc
	extra     []gotemplatepkg.Option
}

// WithBaseDir loads templates from a directory on disk. It is consulted before
// any fs.FS passed to WithFS, so a directory can override embedded templates.
func WithBaseDir(dir string) Option {
	return func(o *engineOptions) {
		o.dir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files.
func WithFS(files fs.FS) Option {
	return func(o *engineOptions) {
		o.files = files
	}
}

// WithExtension sets the suffix appended to template names that lack it.
func WithExtension(ext string) Option {
	return func(o *engineOptions) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		o.extension = ext
	}
}

// WithGlobalData seeds values every template sees.
func WithGlobalData(data map[string]any) Option {
	return func(o *engineOptions) {
		for key, value := range data {
			if o.globals == nil {
				o.globals = make(map[string]any, len(data))
			}
			o.globals[strings.TrimSpace(key)] = value
		}
	}
}

// WithFilters registers filters at construction. Names already known to pongo2
// are skipped.
func WithFilters(filters map[string]FilterFunc) Option {
	return func(o *engineOptions) {
		for name, fn := range filters {
			if o.filters == nil {
				o.filters = make(map[string]FilterFunc, len(filters))
			}
			o.filters[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGoTemplateOptions hands options straight to the go-template engine. They
// run after the options above and win on conflict.
func WithGoTemplateOptions(opts ...gotemplatepkg.Option) Option {
	return func(o *engineOptions) {
		for _, opt := range opts {
			if opt != nil {
				o.extra = append(o.extra, opt)
			}
		}
	}
}

// Engine satisfies template.TemplateRenderer on top of a go-template engine.
type Engine struct {
	inner *gotemplatepkg.Engine
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an Engine. At least one of WithBaseDir or WithFS is required.
func New(options ...Option) (*Engine, error) {
	opts := engineOptions{extension: defaultExtension}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	if opts.dir == "" && opts.files == nil {
		return nil, errors.New("gotemplate: a template directory or fs.FS is required")
	}

	funcs := builtinFilters()
	for name, fn := range opts.filters {
		if name == "" || fn == nil {
			continue
		}
		funcs[name] = adaptFilter(fn)
	}

	engineOpts := []gotemplatepkg.Option{
		gotemplatepkg.WithExtension(opts.extension),
		gotemplatepkg.WithTemplateFunc(funcs),
	}
	if opts.dir != "" {
		engineOpts = append(engineOpts, gotemplatepkg.WithBaseDir(opts.dir))
	}
	if opts.files != nil {
		engineOpts = append(engineOpts, gotemplatepkg.WithFS(opts.files))
	}
	if len(opts.globals) > 0 {
		engineOpts = append(engineOpts, gotemplatepkg.WithGlobalData(opts.globals))
	}
	engineOpts = append(engineOpts, opts.extra...)

	inner, err := gotemplatepkg.NewRenderer(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: %w", err)
	}
	return &Engine{inner: inner}, nil
}

// RenderTemplate renders the named template, appending the extension when the
// name lacks it. Parsed templates are cached by the engine.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.inner == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	rendered, err := e.inner.RenderTemplate(name, data, out...)
	if err != nil {
		return "", fmt.Errorf("gotemplate: %w", err)
	}
	return rendered, nil
}

// RenderString renders an inline template.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.inner == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	rendered, err := e.inner.RenderString(templateContent, data, out...)
	if err != nil {
		return "", fmt.Errorf("gotemplate: %w", err)
	}
	return rendered, nil
}

// RegisterFilter registers a filter. pongo2 filters are process-wide, so a
// name that already exists is rejected.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if e == nil || e.inner == nil {
		return errors.New("gotemplate: engine is nil")
	}
	name = strings.TrimSpace(name)
	if name == "" || fn == nil {
		return errors.New("gotemplate: filter name and function are required")
	}
	if err := e.inner.RegisterFilter(name, fn); err != nil {
		return fmt.Errorf("gotemplate: %w", err)
	}
	return nil
}

// GlobalContext merges data into the globals every template sees.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.inner == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if data == nil {
		return nil
	}
	if err := e.inner.GlobalContext(data); err != nil {
		return fmt.Errorf("gotemplate: %w", err)
	}
	return nil
}

// builtinFilters returns the filters every engine registers. pongo2 keeps the
// first registration of a name.
func builtinFilters() map[string]any {
	return map[string]any{
		"decimal": pongo2.FilterFunction(filterDecimal),
		"unit":    pongo2.FilterFunction(filterUnit),
	}
}
