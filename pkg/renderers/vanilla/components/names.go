package components

import "github.com/goliatone/go-formcontrol/pkg/model"

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameControl      = "control"
	NameGroup        = "group"
	NameLabel        = "label"
	NameInput        = "input"
	NameHelper       = "helper"
	NameTextarea     = "textarea"
	NameImagePreview = "image_preview"
	NameButton       = "button"
)

// NameFor maps an element kind onto its default component name.
func NameFor(kind model.Kind) string {
	switch kind {
	case model.KindControl:
		return NameControl
	case model.KindGroup:
		return NameGroup
	case model.KindLabel:
		return NameLabel
	case model.KindInput:
		return NameInput
	case model.KindHelper:
		return NameHelper
	case model.KindTextarea:
		return NameTextarea
	case model.KindImagePreview:
		return NameImagePreview
	case model.KindButton:
		return NameButton
	default:
		return string(kind)
	}
}
