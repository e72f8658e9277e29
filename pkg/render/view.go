package render

import (
	"github.com/goliatone/go-userform/pkg/form"
	"github.com/goliatone/go-userform/pkg/model"
)

// FlashKind classifies a one-shot status message.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a status message shown once above the form.
type Flash struct {
	Kind    FlashKind `json:"kind"`
	Message string    `json:"message"`
}

// View is everything a renderer needs for one screen: the user list and,
// optionally, a form.
type View struct {
	Registry *model.Registry
	Users    []model.User
	// State is nil for list-only renderers.
	State   *form.State
	Loading bool
	Flash   *Flash
	// FormErrors are messages that do not belong to a single field.
	FormErrors []string
	// FieldErrors are backend messages keyed by field name. They show when
	// the form has no visible error of its own for that field.
	FieldErrors map[string][]string
	Hidden     map[string]string
	// Action is the form submission URL.
	Action string
}

// FieldView is the render-ready snapshot of one form field.
type FieldView struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	InputType   string `json:"inputType"`
	Value       string `json:"value"`
	Placeholder string `json:"placeholder"`
	Required    bool   `json:"required"`
	FullWidth   bool   `json:"fullWidth"`
	Error       string `json:"error"`
}

// Fields snapshots the form in registry order. Only visible errors (touched
// fields) are included.
func (v View) Fields() []FieldView {
	state := v.State
	if state == nil {
		return nil
	}
	descriptors := state.Registry().Fields()
	out := make([]FieldView, 0, len(descriptors))
	for _, field := range descriptors {
		out = append(out, FieldView{
			Name:        field.Name,
			Label:       field.Label,
			InputType:   field.Behavior().InputType,
			Value:       state.Text(field.Name),
			Placeholder: field.Placeholder(),
			Required:    field.Required,
			FullWidth:   field.FullWidth,
			Error:       v.fieldError(field.Name),
		})
	}
	return out
}

func (v View) fieldError(name string) string {
	if msg := v.State.VisibleError(name); msg != "" {
		return msg
	}
	if msgs := v.FieldErrors[name]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// WithErrorPayload folds a backend error payload into the view.
func (v View) WithErrorPayload(payload map[string][]string) View {
	if len(payload) == 0 || v.Registry == nil {
		return v
	}
	mapping := MapErrorPayload(v.Registry, payload)
	v.FieldErrors = mapping.Fields
	v.FormErrors = MergeFormErrors(v.FormErrors, mapping.Form...)
	return v
}

// SubmitLabel is the submit button caption for the mode and loading flag.
func SubmitLabel(mode model.Mode, loading bool) string {
	switch {
	case loading:
		return "Saving..."
	case mode == model.ModeEdit:
		return "Update User"
	default:
		return "Add User"
	}
}

// Rows returns the users as string rows in registry column order.
func Rows(reg *model.Registry, users []model.User) [][]string {
	names := reg.Names()
	rows := make([][]string, 0, len(users))
	for _, user := range users {
		row := make([]string, 0, len(names)+1)
		row = append(row, user.ID.String())
		for _, name := range names {
			row = append(row, user.Get(name))
		}
		rows = append(rows, row)
	}
	return rows
}

// Headers returns the column captions matching Rows.
func Headers(reg *model.Registry) []string {
	fields := reg.Fields()
	out := make([]string, 0, len(fields)+1)
	out = append(out, "ID")
	for _, field := range fields {
		out = append(out, field.Label)
	}
	return out
}
