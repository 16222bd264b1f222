// Package settingsgen renders conditional settings panels from declarative
// schemas. The sub-packages can be used directly; this package bundles the
// common entry points.
package settingsgen

import (
	"context"
	"io/fs"
	"os"

	"github.com/goliatone/go-settingsgen/pkg/openapi"
	"github.com/goliatone/go-settingsgen/pkg/orchestrator"
	"github.com/goliatone/go-settingsgen/pkg/render"
	"github.com/goliatone/go-settingsgen/pkg/renderers/vanilla"
	"github.com/goliatone/go-settingsgen/pkg/schema"
)

// RenderOptions aliases render.RenderOptions.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders doc with the named renderer ("" selects vanilla). A nil
// doc renders the embedded dashboard schema.
func GenerateHTML(ctx context.Context, doc *schema.Document, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Document: doc,
		Renderer: rendererName,
	})
}

// LoadDir loads every schema file under dir.
func LoadDir(dir string) (*schema.Document, error) {
	return schema.LoadFS(os.DirFS(dir))
}

// LoadOpenAPI extracts settings from an OpenAPI document on disk.
func LoadOpenAPI(ctx context.Context, path string, options ...openapi.Option) (*schema.Document, error) {
	return openapi.LoadFile(ctx, path, options...)
}

// EmbeddedSchema exposes the bundled dashboard schema.
func EmbeddedSchema() fs.FS {
	return schema.EmbeddedFS()
}

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// StylesheetFS exposes the vanilla panel stylesheet for serving alongside
// rendered HTML.
//
//	mux.Handle("/settings/",
//	  http.StripPrefix("/settings/",
//	    http.FileServerFS(settingsgen.StylesheetFS()),
//	  ),
//	)
func StylesheetFS() fs.FS {
	return vanilla.AssetsFS()
}
