package model

import "strings"

// Kind is the closed set of field kinds the form engine understands.
type Kind string

const (
	KindText  Kind = "text"
	KindEmail Kind = "email"
	KindTel   Kind = "tel"
	KindDate  Kind = "date"
)

// Validator checks the canonical text form of a value. A nil error means the
// value passed; otherwise the error message is shown next to the field.
// Validators never see date values as time.Time, only as YYYY-MM-DD strings.
type Validator func(value string) error

// FieldDescriptor describes one form field. Descriptors are static and are
// shared by every form instance, so callers must treat them as read-only.
type FieldDescriptor struct {
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	Kind      Kind      `json:"kind"`
	Required  bool      `json:"required"`
	Validator Validator `json:"-"`
	// FullWidth is a layout hint only.
	FullWidth bool `json:"fullWidth,omitempty"`
	// MaxDigits caps tel input at the point of entry. Zero means no cap.
	MaxDigits int `json:"maxDigits,omitempty"`
}

// Behavior returns the dispatch entry for the descriptor kind.
func (f FieldDescriptor) Behavior() KindBehavior {
	return f.Kind.Behavior()
}

// Placeholder returns the input placeholder used by renderers.
func (f FieldDescriptor) Placeholder() string {
	if f.Kind == KindDate {
		return ""
	}
	return "Enter " + strings.ToLower(f.Label)
}

// Mode reports whether a form creates a new record or edits an existing one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)
