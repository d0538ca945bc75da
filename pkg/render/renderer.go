package render

import (
	"context"

	"github.com/goliatone/go-formcontrol/pkg/model"
)

// Renderer converts a page tree into a byte representation (HTML, terminal
// transcript, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page model.Page, options RenderOptions) ([]byte, error)
}
