package render

import (
	"context"

	"github.com/goliatone/go-orderstatus/pkg/orderstatus"
)

// Renderer turns a component snapshot into a byte representation (HTML,
// serialized answers, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view orderstatus.View, options RenderOptions) ([]byte, error)
}
