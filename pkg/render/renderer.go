package render

import (
	"context"

	"github.com/goliatone/go-leadform/pkg/leadform"
)

// Renderer converts a controller snapshot into a byte representation (HTML,
// JSON, terminal text).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view leadform.View, options RenderOptions) ([]byte, error)
}
