package model

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical serialized form of date values.
const DateLayout = "2006-01-02"

// KindBehavior holds the per-kind rules used by the state machine, the
// validation engine and the submission boundary.
type KindBehavior struct {
	// InputType is the HTML input type renderers should emit.
	InputType string
	// Blank returns the value of an untouched, empty field.
	Blank func() any
	// Shape filters raw keyboard input before it reaches the form values.
	// Returning false rejects the input and leaves the stored value as is.
	Shape func(field FieldDescriptor, raw string) (string, bool)
	// Text returns the canonical string form of a stored value. ok is false
	// when the value is absent.
	Text func(value any) (text string, ok bool)
	// Decode converts a persisted string into the in-memory value.
	Decode func(stored string) any
}

var kindTable = map[Kind]KindBehavior{
	KindText:  stringKind("text"),
	KindEmail: stringKind("email"),
	KindTel: {
		InputType: "tel",
		Blank:     blankString,
		Shape:     shapeDigits,
		Text:      stringText,
		Decode:    decodeString,
	},
	KindDate: {
		InputType: "date",
		Blank:     func() any { return nil },
		Shape:     rejectText,
		Text:      dateText,
		Decode:    decodeDate,
	},
}

// Behavior returns the dispatch entry for the kind. Unknown kinds behave like
// plain text.
func (k Kind) Behavior() KindBehavior {
	if behavior, ok := kindTable[k]; ok {
		return behavior
	}
	return kindTable[KindText]
}

// Valid reports whether the kind is part of the supported set.
func (k Kind) Valid() bool {
	_, ok := kindTable[k]
	return ok
}

func stringKind(inputType string) KindBehavior {
	return KindBehavior{
		InputType: inputType,
		Blank:     blankString,
		Shape:     passThrough,
		Text:      stringText,
		Decode:    decodeString,
	}
}

func blankString() any { return "" }

func passThrough(_ FieldDescriptor, raw string) (string, bool) {
	return raw, true
}

func rejectText(_ FieldDescriptor, _ string) (string, bool) {
	return "", false
}

// shapeDigits keeps digits only. Input whose digit count exceeds the field
// cap is rejected outright rather than truncated.
func shapeDigits(field FieldDescriptor, raw string) (string, bool) {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if field.MaxDigits > 0 && len(digits) > field.MaxDigits {
		return "", false
	}
	return digits, true
}

func stringText(value any) (string, bool) {
	switch typed := value.(type) {
	case nil:
		return "", false
	case string:
		return typed, true
	case fmt.Stringer:
		return typed.String(), true
	default:
		return fmt.Sprint(typed), true
	}
}

func dateText(value any) (string, bool) {
	switch typed := value.(type) {
	case nil:
		return "", false
	case time.Time:
		if typed.IsZero() {
			return "", false
		}
		return typed.Format(DateLayout), true
	case *time.Time:
		if typed == nil || typed.IsZero() {
			return "", false
		}
		return typed.Format(DateLayout), true
	case string:
		if strings.TrimSpace(typed) == "" {
			return "", false
		}
		return typed, true
	default:
		return fmt.Sprint(typed), true
	}
}

func decodeString(stored string) any {
	return stored
}

// decodeDate parses YYYY-MM-DD (or an RFC 3339 timestamp, which some backends
// emit). Unparseable input yields nil so the field reads as empty.
func decodeDate(stored string) any {
	trimmed := strings.TrimSpace(stored)
	if trimmed == "" {
		return nil
	}
	if parsed, err := time.Parse(DateLayout, trimmed); err == nil {
		return parsed
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	}
	return nil
}

// ParseDate parses user-entered dates in the canonical layout.
func ParseDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse(DateLayout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("model: invalid date %q, expected YYYY-MM-DD", raw)
	}
	return parsed, nil
}

// IsBlank reports whether a stored value counts as empty for required checks:
// nil, a zero time, or a string that is empty after trimming.
func IsBlank(value any) bool {
	switch typed := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case time.Time:
		return typed.IsZero()
	case *time.Time:
		return typed == nil || typed.IsZero()
	default:
		return strings.TrimSpace(fmt.Sprint(typed)) == ""
	}
}
