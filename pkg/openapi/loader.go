package openapi

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-settingsgen/pkg/schema"
)

// LoaderOptions configures how documents are read and parsed.
type LoaderOptions struct {
	// Location names the document in diagnostics. Defaults to "openapi".
	Location string
	// Validate runs kin-openapi document validation before extraction.
	Validate bool
	// ExternalRefs allows $ref pointers to other files.
	ExternalRefs bool
}

// Option mutates LoaderOptions.
type Option func(*LoaderOptions)

// WithLocation names the document in diagnostics.
func WithLocation(location string) Option {
	return func(opts *LoaderOptions) {
		opts.Location = location
	}
}

// WithValidation toggles kin-openapi document validation.
func WithValidation(enabled bool) Option {
	return func(opts *LoaderOptions) {
		opts.Validate = enabled
	}
}

// WithExternalRefs toggles resolution of external $ref pointers.
func WithExternalRefs(enabled bool) Option {
	return func(opts *LoaderOptions) {
		opts.ExternalRefs = enabled
	}
}

func newLoaderOptions(options []Option) LoaderOptions {
	cfg := LoaderOptions{Location: "openapi", Validate: true}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}

// LoadFile reads an OpenAPI document from disk.
func LoadFile(ctx context.Context, path string, options ...Option) (*schema.Document, error) {
	if path == "" {
		return nil, errors.New("openapi loader: file path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: read %s: %w", path, err)
	}
	return Load(ctx, data, append([]Option{WithLocation(path)}, options...)...)
}

// LoadFS reads an OpenAPI document from filesystem.
func LoadFS(ctx context.Context, filesystem fs.FS, name string, options ...Option) (*schema.Document, error) {
	if filesystem == nil {
		return nil, errors.New("openapi loader: filesystem is not configured")
	}
	if name == "" {
		return nil, errors.New("openapi loader: fs path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(filesystem, name)
	if err != nil {
		return nil, fmt.Errorf("openapi loader: read %s: %w", name, err)
	}
	return Load(ctx, data, append([]Option{WithLocation(name)}, options...)...)
}
