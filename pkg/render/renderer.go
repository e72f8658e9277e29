package render

import (
	"context"
)

// Renderer turns a View into a byte representation (HTML page, table,
// JSON document).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View) ([]byte, error)
}
