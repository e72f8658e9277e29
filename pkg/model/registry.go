package model

import (
	"errors"
	"fmt"
	"strings"

	internalmodel "github.com/goliatone/go-userform/internal/model"
)

// Registry is an ordered, read-only sequence of field descriptors. Order
// defines both render order and list column order.
type Registry struct {
	fields []FieldDescriptor
	index  map[string]int
}

// NewRegistry validates the descriptors and freezes them into a Registry.
// Names must be unique and non-blank; kinds must be supported. Blank labels
// are derived from the field name.
func NewRegistry(fields ...FieldDescriptor) (*Registry, error) {
	if len(fields) == 0 {
		return nil, errors.New("model: registry requires at least one field")
	}
	reg := &Registry{
		fields: make([]FieldDescriptor, 0, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			return nil, errors.New("model: field name is required")
		}
		if _, exists := reg.index[name]; exists {
			return nil, fmt.Errorf("model: duplicate field name %q", name)
		}
		if field.Kind == "" {
			field.Kind = KindText
		}
		if !field.Kind.Valid() {
			return nil, fmt.Errorf("model: field %q has unsupported kind %q", name, field.Kind)
		}
		field.Name = name
		if strings.TrimSpace(field.Label) == "" {
			field.Label = internalmodel.DefaultLabeler(name)
		}
		reg.index[name] = len(reg.fields)
		reg.fields = append(reg.fields, field)
	}
	return reg, nil
}

// MustRegistry is NewRegistry for static definitions; it panics on error.
func MustRegistry(fields ...FieldDescriptor) *Registry {
	reg, err := NewRegistry(fields...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Fields returns a copy of the descriptors in registry order.
func (r *Registry) Fields() []FieldDescriptor {
	if r == nil {
		return nil
	}
	out := make([]FieldDescriptor, len(r.fields))
	copy(out, r.fields)
	return out
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (FieldDescriptor, bool) {
	if r == nil {
		return FieldDescriptor{}, false
	}
	idx, ok := r.index[name]
	if !ok {
		return FieldDescriptor{}, false
	}
	return r.fields[idx], true
}

// Names returns the field names in registry order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.fields))
	for i, field := range r.fields {
		out[i] = field.Name
	}
	return out
}

// Len reports the number of descriptors.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// BlankValues returns the values of an empty form: "" for string kinds and
// nil for dates.
func (r *Registry) BlankValues() Values {
	values := make(Values, r.Len())
	for _, field := range r.Fields() {
		values[field.Name] = field.Behavior().Blank()
	}
	return values
}
