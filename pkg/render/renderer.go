package render

import (
	"context"

	"github.com/goliatone/go-settingsgen/pkg/panel"
)

// Renderer converts a panel snapshot into a byte representation (HTML, JSON,
// etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, snap panel.Snapshot, options RenderOptions) ([]byte, error)
}
