package formcontrol

import (
	"io/fs"

	vanilla "github.com/goliatone/go-formcontrol/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	fsys := vanilla.TemplatesFS()
	return fsys
}

// AssetsFS exposes the embedded stylesheet so Go applications can serve it
// without a build step.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formcontrol.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
