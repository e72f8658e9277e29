package validation

import (
	"github.com/goliatone/go-userform/pkg/model"
)

// Engine validates form values against a descriptor registry. It is
// stateless; callers own the values and the resulting error maps.
type Engine struct {
	registry *model.Registry
}

// NewEngine binds an engine to reg.
func NewEngine(reg *model.Registry) *Engine {
	return &Engine{registry: reg}
}

// Registry returns the registry the engine validates against.
func (e *Engine) Registry() *model.Registry {
	return e.registry
}

// ValidateField returns the error message for value, or "" when the value is
// valid. Unknown field names are inert and always valid.
func (e *Engine) ValidateField(name string, value any) string {
	field, ok := e.registry.Lookup(name)
	if !ok {
		return ""
	}
	if field.Required && model.IsBlank(value) {
		return RequiredMessage(field)
	}
	if field.Validator == nil {
		return ""
	}
	text, _ := field.Behavior().Text(value)
	if err := field.Validator(text); err != nil {
		return err.Error()
	}
	return ""
}

// ValidateAll validates every descriptor in registry order and marks every
// field touched. ok is true when no field failed.
func (e *Engine) ValidateAll(values model.Values) (model.Errors, model.Touched, bool) {
	errs := make(model.Errors)
	touched := make(model.Touched, e.registry.Len())
	for _, field := range e.registry.Fields() {
		if msg := e.ValidateField(field.Name, values[field.Name]); msg != "" {
			errs[field.Name] = msg
		}
		touched[field.Name] = true
	}
	return errs, touched, len(errs) == 0
}

// RequiredMessage is the message reported for blank required fields.
func RequiredMessage(field model.FieldDescriptor) string {
	return field.Label + " is required"
}

// ShapeInput applies the kind's entry-time filter to raw input. ok is false
// when the input must be rejected; the caller keeps the previous value.
func ShapeInput(field model.FieldDescriptor, raw string) (string, bool) {
	return field.Behavior().Shape(field, raw)
}
