package components

import (
	"strings"

	"github.com/goliatone/go-formcontrol/pkg/formctx"
	"github.com/goliatone/go-formcontrol/pkg/model"
)

// Semantic class names. The fc- prefix is reserved: caller supplied classes
// starting with it are dropped so state modifiers cannot be spoofed.
const (
	ClassControl      = "fc-control"
	ClassGroup        = "fc-group"
	ClassLabel        = "fc-label"
	ClassInput        = "fc-input"
	ClassHelper       = "fc-helper"
	ClassTextarea     = "fc-textarea"
	ClassPreview      = "fc-preview"
	ClassPreviewImage = "fc-preview__image"
	ClassButton       = "fc-button"
	ClassHidden       = "hidden"
)

func controlClasses(el model.Element) string {
	return joinClasses(
		ClassControl,
		modifier(ClassControl, "invalid", el.Flags.Invalid),
		modifier(ClassControl, "required", el.Flags.Required),
		modifier(ClassControl, "disabled", el.Flags.Disabled),
		sanitizeClassList(el.Class),
	)
}

func labelClasses(el model.Element, flags formctx.Flags) string {
	return joinClasses(
		ClassLabel,
		modifier(ClassLabel, "required", flags.Required),
		modifier(ClassLabel, "disabled", flags.Disabled),
		modifier(ClassLabel, "invalid", flags.Invalid),
		sanitizeClassList(el.Class),
	)
}

func inputClasses(el model.Element, flags formctx.Flags) string {
	return joinClasses(
		ClassInput,
		modifier(ClassInput, "file", strings.EqualFold(el.InputType, "file")),
		modifier(ClassInput, "disabled", flags.Disabled),
		modifier(ClassInput, "invalid", flags.Invalid),
		sanitizeClassList(el.Class),
	)
}

func helperClasses(el model.Element) string {
	variant := el.Variant
	if variant == "" {
		variant = model.HelperNormal
	}
	return joinClasses(
		ClassHelper,
		ClassHelper+"--"+string(variant),
		sanitizeClassList(el.Class),
	)
}

func previewImageClasses(el model.Element) string {
	return joinClasses(
		modifier("", ClassHidden, strings.TrimSpace(el.Src) == ""),
		ClassPreviewImage,
		sanitizeClassList(el.Class),
	)
}

func modifier(base, name string, on bool) string {
	if !on {
		return ""
	}
	if base == "" {
		return name
	}
	return base + "--" + name
}

func joinClasses(parts ...string) string {
	keep := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			keep = append(keep, part)
		}
	}
	return strings.Join(keep, " ")
}

func sanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.HasPrefix(token, "fc-") {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}
