package pages

import (
	"html"
	"strings"

	"github.com/goliatone/go-formcontrol/pkg/field"
	"github.com/goliatone/go-formcontrol/pkg/formctx"
	"github.com/goliatone/go-formcontrol/pkg/model"
)

// Shop page identifiers.
const (
	ShopPageID          = "shop"
	ShopProfileControl  = "profile"
	ShopDetailsControl  = "details"
	ShopNameField       = "name"
	ShopDescField       = "description"
	ShopDomainField     = "domain"
	ShopFileInputID     = "file_input"
	ShopFileInputHelpID = "file_input_help"

	// DefaultDomainBase prefixes the domain helper text.
	DefaultDomainBase = "https://dalda.shop/"
)

// ShopOption customises the shop profile composition.
type ShopOption func(*shopConfig)

type shopConfig struct {
	domainBase string
}

// WithDomainBase overrides the URL shown ahead of the domain value. A trailing
// slash is added when missing.
func WithDomainBase(base string) ShopOption {
	return func(cfg *shopConfig) {
		base = strings.TrimSpace(base)
		if base == "" {
			return
		}
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		cfg.domainBase = base
	}
}

// ShopProfileState holds the shop profile bindings. ImageData is the preview
// source, usually a data URL; the preview stays hidden while it is empty.
type ShopProfileState struct {
	Name        *field.Binding
	Description *field.Binding
	Domain      *field.Binding
	ImageData   string

	options []ShopOption
}

// NewShopProfileState returns an empty state. The options are reused every
// time Page recomposes the screen.
func NewShopProfileState(options ...ShopOption) *ShopProfileState {
	return &ShopProfileState{
		Name:        field.New(),
		Description: field.New(),
		Domain:      field.New(),
		options:     options,
	}
}

// Name implements Screen.
func (s *ShopProfileState) Name() string { return ShopPageID }

// Bindings implements Screen.
func (s *ShopProfileState) Bindings() map[string]*field.Binding {
	return map[string]*field.Binding{
		ShopNameField:   s.Name,
		ShopDescField:   s.Description,
		ShopDomainField: s.Domain,
	}
}

// Page implements Screen.
func (s *ShopProfileState) Page() model.Page {
	return ShopProfileForm(s, s.options...)
}

// DomainURL returns the public URL for the current domain value.
func (s *ShopProfileState) DomainURL(options ...ShopOption) string {
	cfg := resolveShopConfig(append(append([]ShopOption(nil), s.options...), options...))
	return cfg.domainBase + s.Domain.Value()
}

// ShopProfileForm composes the profile image control, the preview, the shop
// details control and the submit button. The domain helper reflects the
// domain binding at composition time, so recompose after a change. Helper
// text is markup; the bound domain is escaped before it joins the base URL.
func ShopProfileForm(state *ShopProfileState, options ...ShopOption) model.Page {
	if state == nil {
		state = NewShopProfileState()
	}
	cfg := resolveShopConfig(options)

	profile := model.Control(formctx.Flags{Required: true, Disabled: true}, []model.Element{
		model.Label("프로필 이미지 등록", model.WithTextKey("shop.image.label")),
		model.Input(nil,
			model.WithType("file"),
			model.WithID(ShopFileInputID),
			model.WithAttr("aria-describedby", ShopFileInputHelpID),
			model.WithAttr("accept", "image/*"),
			model.WithClass("block w-full cursor-pointer rounded-lg border border-gray-300 bg-gray-50 text-sm text-gray-900 focus:outline-none"),
		),
	}, model.WithID(ShopProfileControl), model.WithClass("w-full shrink-0 p-2"))

	preview := model.ImagePreview(state.ImageData, "preview",
		model.WithClass("aspect-square w-1/2 rounded-full p-2"),
	)

	details := model.Control(formctx.Flags{Required: true}, []model.Element{
		model.Group([]model.Element{
			model.Label("가게명", model.WithTextKey("shop.name.label")),
			model.Input(state.Name, model.WithName(ShopNameField), model.WithClass("w-full")),
			model.Helper(model.HelperNormal, "프로필에 보여줄 가게명을 입력해주세요 :)",
				model.WithTextKey("shop.name.help"),
			),
		}),
		model.Group([]model.Element{
			model.Label("가게 설명", model.WithTextKey("shop.description.label")),
			model.Textarea(4,
				model.WithName(ShopDescField),
				model.WithBinding(state.Description),
				model.WithPlaceholder("프로필에 보여줄 가게에 대한 설명이 필요해요 :)", "shop.description.placeholder"),
				model.WithClass("block w-full rounded-lg border bg-gray-50 p-2 text-sm text-gray-900"),
			),
		}),
		model.Group([]model.Element{
			model.Label("도메인", model.WithTextKey("shop.domain.label")),
			model.Input(state.Domain, model.WithName(ShopDomainField), model.WithClass("w-full")),
			model.Helper(model.HelperNormal, cfg.domainBase+html.EscapeString(state.Domain.Value())),
		}),
	}, model.WithID(ShopDetailsControl), model.WithClass("flex w-full shrink-0 flex-col gap-3 p-2"))

	return model.Page{
		ID:       ShopPageID,
		Title:    "가게 프로필",
		TitleKey: "shop.title",
		Class:    "mx-auto flex min-h-screen max-w-sm flex-col border bg-white",
		Elements: []model.Element{
			profile,
			preview,
			details,
			model.SubmitButton(ShopProfileControl, "확인",
				model.WithTextKey("shop.submit"),
				model.WithClass("w-full rounded-md bg-blue-500 p-3 text-white hover:bg-blue-400"),
			),
		},
	}
}

func resolveShopConfig(options []ShopOption) shopConfig {
	cfg := shopConfig{domainBase: DefaultDomainBase}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
