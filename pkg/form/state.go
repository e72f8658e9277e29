// Package form implements the per-instance form state machine: values,
// touched flags and field errors across user input events.
package form

import (
	"time"

	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/validation"
)

// State is a single form instance. It is either Empty (no seed, create mode)
// or Populated (seeded from a record, edit mode). A State is owned by one
// event loop and is not safe for concurrent use.
type State struct {
	engine     *validation.Engine
	seed       *model.User
	values     model.Values
	errors     model.Errors
	touched    model.Touched
	generation uint64
}

// Option configures a State.
type Option func(*State)

// WithSeed starts the state populated from seed.
func WithSeed(seed *model.User) Option {
	return func(s *State) {
		s.seed = cloneSeed(seed)
	}
}

// New constructs a State for reg. Without WithSeed it starts Empty.
func New(reg *model.Registry, options ...Option) *State {
	s := &State{engine: validation.NewEngine(reg)}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.load(s.seed)
	return s
}

// Load switches the state to seed (nil means Empty). Values are rebuilt from
// scratch and errors and touched flags are cleared unconditionally.
func (s *State) Load(seed *model.User) {
	s.load(cloneSeed(seed))
}

// Reset returns the state to Empty.
func (s *State) Reset() {
	s.load(nil)
}

func (s *State) load(seed *model.User) {
	reg := s.engine.Registry()
	s.seed = seed
	if seed == nil {
		s.values = reg.BlankValues()
	} else {
		s.values = seed.Values(reg)
	}
	s.errors = make(model.Errors)
	s.touched = make(model.Touched)
	s.generation++
}

// Registry returns the descriptor registry backing the form.
func (s *State) Registry() *model.Registry {
	return s.engine.Registry()
}

// Mode is derived from the seed: create without one, edit with one.
func (s *State) Mode() model.Mode {
	if s.seed == nil {
		return model.ModeCreate
	}
	return model.ModeEdit
}

// Seed returns a copy of the record being edited, or nil in create mode.
func (s *State) Seed() *model.User {
	return cloneSeed(s.seed)
}

// Generation increments on every seed change. Callers awaiting a persistence
// call compare it to detect that the form moved on in the meantime.
func (s *State) Generation() uint64 {
	return s.generation
}

// OnChange applies raw keyboard input to name. Input is shaped by the field
// kind first; rejected input leaves the stored value untouched and returns
// false. Touched fields are re-validated immediately, untouched ones keep
// their error state so messages do not flash while the user is typing.
func (s *State) OnChange(name, raw string) bool {
	field, ok := s.Registry().Lookup(name)
	if !ok {
		return false
	}
	shaped, ok := validation.ShapeInput(field, raw)
	if !ok {
		return false
	}
	s.values[name] = shaped
	if s.touched[name] {
		s.validate(name)
	}
	return true
}

// OnBlur marks name touched and validates it.
func (s *State) OnBlur(name string) {
	if _, ok := s.Registry().Lookup(name); !ok {
		return
	}
	s.touched[name] = true
	s.validate(name)
}

// OnDateChange stores a picked date. A zero time clears the field. Date
// selection is deliberate, so the field is marked touched and validated
// right away. It returns false for unknown or non-date fields.
func (s *State) OnDateChange(name string, value time.Time) bool {
	field, ok := s.Registry().Lookup(name)
	if !ok || field.Kind != model.KindDate {
		return false
	}
	if value.IsZero() {
		s.values[name] = nil
	} else {
		s.values[name] = value
	}
	s.touched[name] = true
	s.validate(name)
	return true
}

// ValidateAll validates every field, marks every field touched and reports
// whether the form is valid.
func (s *State) ValidateAll() bool {
	errs, touched, ok := s.engine.ValidateAll(s.values)
	s.errors = errs
	s.touched = touched
	return ok
}

func (s *State) validate(name string) {
	if msg := s.engine.ValidateField(name, s.values[name]); msg != "" {
		s.errors[name] = msg
		return
	}
	delete(s.errors, name)
}

// Values returns a copy of the current values.
func (s *State) Values() model.Values {
	return s.values.Clone()
}

// Value returns the current value of name.
func (s *State) Value(name string) any {
	return s.values[name]
}

// Text returns the current value of name in canonical text form; dates read
// as YYYY-MM-DD and absent values as "".
func (s *State) Text(name string) string {
	field, ok := s.Registry().Lookup(name)
	if !ok {
		return ""
	}
	text, _ := field.Behavior().Text(s.values[name])
	return text
}

// Errors returns a copy of the current field errors.
func (s *State) Errors() model.Errors {
	return s.errors.Clone()
}

// Error returns the current error for name, "" when valid.
func (s *State) Error(name string) string {
	return s.errors[name]
}

// Touched returns a copy of the touched flags.
func (s *State) Touched() model.Touched {
	return s.touched.Clone()
}

// IsTouched reports whether the user interacted with name.
func (s *State) IsTouched(name string) bool {
	return s.touched[name]
}

// VisibleError returns the error renderers should display for name: only
// touched fields show their message.
func (s *State) VisibleError(name string) string {
	if !s.touched[name] {
		return ""
	}
	return s.errors[name]
}

// Payload returns the normalized payload of the current values.
func (s *State) Payload() model.Payload {
	return model.Normalize(s.Registry(), s.values)
}

func cloneSeed(seed *model.User) *model.User {
	if seed == nil {
		return nil
	}
	fields := make(map[string]string, len(seed.Fields))
	for key, value := range seed.Fields {
		fields[key] = value
	}
	return &model.User{ID: seed.ID, Fields: fields}
}
