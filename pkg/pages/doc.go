// Package pages composes the two screens served by formcontrol: the disabled
// identity form and the shop profile form. Each screen owns its field
// bindings so the HTTP server and the terminal prompter can drive changes and
// recompose the page afterwards.
package pages
