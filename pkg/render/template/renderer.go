package template

import (
	"io"
)

// TemplateRenderer is the engine seam the HTML renderer depends on. Output is
// returned and, when writers are supplied, also copied to each of them.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
}
