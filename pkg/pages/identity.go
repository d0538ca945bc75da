package pages

import (
	"github.com/goliatone/go-formcontrol/pkg/field"
	"github.com/goliatone/go-formcontrol/pkg/formctx"
	"github.com/goliatone/go-formcontrol/pkg/model"
)

// Identity page identifiers.
const (
	IdentityPageID        = "identity"
	IdentityIDControl     = "login_id"
	IdentityPassControl   = "login_password"
	IdentityIDField       = "id"
	IdentityPasswordField = "password"
)

const identityControlClass = "flex w-full shrink-0 flex-col gap-3 p-2"

// IdentityState holds the identity screen bindings.
type IdentityState struct {
	ID       *field.Binding
	Password *field.Binding
}

// NewIdentityState returns a state with both fields empty.
func NewIdentityState() *IdentityState {
	return &IdentityState{ID: field.New(), Password: field.New()}
}

// Name implements Screen.
func (s *IdentityState) Name() string { return IdentityPageID }

// Bindings implements Screen.
func (s *IdentityState) Bindings() map[string]*field.Binding {
	return map[string]*field.Binding{
		IdentityIDField:       s.ID,
		IdentityPasswordField: s.Password,
	}
}

// Page implements Screen.
func (s *IdentityState) Page() model.Page {
	return IdentityForm(s)
}

// IdentityForm composes two disabled controls, each holding a label and a
// full width input.
func IdentityForm(state *IdentityState) model.Page {
	if state == nil {
		state = NewIdentityState()
	}
	disabled := formctx.Flags{Disabled: true}

	return model.Page{
		ID:       IdentityPageID,
		Title:    "로그인",
		TitleKey: "identity.title",
		Elements: []model.Element{
			model.Control(disabled, []model.Element{
				model.Label("아이디",
					model.WithTextKey("identity.id.label"),
					model.WithClass("cursor-auto"),
				),
				model.Input(state.ID,
					model.WithName(IdentityIDField),
					model.WithClass("w-full"),
				),
			}, model.WithID(IdentityIDControl), model.WithClass(identityControlClass)),
			model.Control(disabled, []model.Element{
				model.Label("패스워드", model.WithTextKey("identity.password.label")),
				model.Input(state.Password,
					model.WithName(IdentityPasswordField),
					model.WithType("password"),
					model.WithClass("w-full"),
				),
			}, model.WithID(IdentityPassControl), model.WithClass(identityControlClass)),
		},
	}
}
