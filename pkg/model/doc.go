// Package model defines the page trees consumed by renderers. A Page holds a
// flat list of Elements; controls nest their children and carry the
// formctx.Flags they provide to that subtree. Inputs and textareas may point at
// a field.Binding, which holds the controlled value and is never serialised.
// Text-bearing elements accept a translation key (TextKey, PlaceholderKey)
// that render.LocalizePage resolves before rendering, keeping the literal text
// as the fallback.
package model
