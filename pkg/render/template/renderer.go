package template

import (
	"io"
)

// TemplateRenderer executes a named template with view data. Implementations
// append their configured extension when name lacks one and also write the
// result to every out.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
