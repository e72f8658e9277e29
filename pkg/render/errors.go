package render

import (
	"strings"

	"github.com/goliatone/go-userform/pkg/model"
)

// ErrorMapping splits a backend error payload into field-level messages keyed
// by descriptor name and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// wrapperKeys are envelope segments backends put in front of field names.
var wrapperKeys = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
}

// MapErrorPayload resolves backend error keys (plain names, JSON pointers,
// dotted paths under body/payload wrappers) to registry field names. Unknown
// keys become form-level errors so messages are not lost.
func MapErrorPayload(reg *model.Registry, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{
		Fields: make(map[string][]string),
	}
	if len(payload) == 0 || reg == nil {
		return mapping
	}

	for key, messages := range payload {
		messages = uniqueMessages(messages)
		if len(messages) == 0 {
			continue
		}
		if name := fieldForKey(reg, key); name != "" {
			mapping.Fields[name] = uniqueMessages(append(mapping.Fields[name], messages...))
			continue
		}
		mapping.Form = append(mapping.Form, messages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = uniqueMessages(mapping.Form)
	return mapping
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping repeats while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	return uniqueMessages(append(combined, extras...))
}

// fieldForKey returns the registry field named by the last matching segment
// of key, or "" when key is form-level.
func fieldForKey(reg *model.Registry, key string) string {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return ""
	}
	segments := keySegments(key)
	for i := len(segments) - 1; i >= 0; i-- {
		if _, wrapper := wrapperKeys[strings.ToLower(segments[i])]; wrapper {
			continue
		}
		if _, ok := reg.Lookup(segments[i]); ok {
			return segments[i]
		}
	}
	return ""
}

// keySegments splits JSON pointers, JSONPath-ish ("$.data[0].phone") and
// dotted keys into unescaped segments.
func keySegments(key string) []string {
	clean := strings.NewReplacer("[", ".", "]", "").Replace(strings.TrimSpace(key))
	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/' || r == '#' || r == '$'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// uniqueMessages trims messages and drops blanks and repeats, keeping order.
func uniqueMessages(messages []string) []string {
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
