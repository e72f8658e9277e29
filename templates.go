package userform

import (
	"io/fs"

	"github.com/goliatone/go-userform/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in HTML page templates so callers can
// copy or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// AssetsFS exposes the stylesheet bundle so Go applications can serve it
// alongside their own pages.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(userform.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return html.AssetsFS()
}
