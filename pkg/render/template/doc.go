// Package template defines the template engine seam used by the vanilla
// renderer. The gotemplate subpackage provides two implementations over the
// same files: a pongo2 template set and a go-template engine.
package template
