package leadform

import (
	"io/fs"

	"github.com/goliatone/go-leadform/pkg/renderers/html"
)

// AssetsFS exposes the stylesheet and the on-change validation script so Go
// applications can serve them without the component.
//
// Typical mount:
//
//	mux.Handle("/leadform-assets/",
//	  http.StripPrefix("/leadform-assets/",
//	    http.FileServerFS(leadform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return html.AssetsFS()
}

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}
