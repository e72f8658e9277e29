package validation_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"pgregory.net/rapid"

	"github.com/goliatone/go-userform/pkg/fields"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/validation"
)

func newEngine() *validation.Engine {
	return validation.NewEngine(fields.Users())
}

func TestValidateField_RequiredBlank(t *testing.T) {
	engine := newEngine()
	for _, field := range fields.Users().Fields() {
		if !field.Required {
			continue
		}
		for _, blank := range []any{"", "   ", nil} {
			msg := engine.ValidateField(field.Name, blank)
			if msg == "" {
				t.Fatalf("%s: expected required message for %#v", field.Name, blank)
			}
			if !strings.Contains(msg, field.Label) {
				t.Fatalf("%s: expected label in %q", field.Name, msg)
			}
		}
	}
}

func TestValidateField_UnknownFieldIsInert(t *testing.T) {
	if msg := newEngine().ValidateField("nickname", ""); msg != "" {
		t.Fatalf("expected unknown field to be valid, got %q", msg)
	}
}

func TestValidateField_Rules(t *testing.T) {
	cases := []struct {
		name  string
		field string
		value any
		want  string
	}{
		{"first name valid", fields.FirstName, "Al", ""},
		{"first name short", fields.FirstName, "A", "First name must be at least 2 characters"},
		{"first name digits", fields.FirstName, "Al3x", "First name should not contain numbers"},
		{"last name short", fields.LastName, "L", "Last name must be at least 2 characters"},
		{"last name digits", fields.LastName, "Lee2", "Last name should not contain numbers"},
		{"email valid", fields.Email, "a@b.co", ""},
		{"email invalid", fields.Email, "not-an-email", "Please enter a valid email address (e.g. name@example.com)"},
		{"email whitespace", fields.Email, "a b@c.de", "Please enter a valid email address (e.g. name@example.com)"},
		{"phone short", fields.Phone, "12345", "Phone number must be exactly 10 digits"},
		{"phone letters", fields.Phone, "abc1234567", "Phone number must contain only digits"},
		{"phone valid", fields.Phone, "1234567890", ""},
		{"dob date", fields.DOB, time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC), ""},
		{"dob missing", fields.DOB, nil, "Date of Birth is required"},
		{"dob zero", fields.DOB, time.Time{}, "Date of Birth is required"},
		{"address empty", fields.Address, "", ""},
		{"address any", fields.Address, "12 Main St", ""},
	}

	engine := newEngine()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := engine.ValidateField(tc.field, tc.value); got != tc.want {
				t.Fatalf("ValidateField(%s, %#v) = %q, want %q", tc.field, tc.value, got, tc.want)
			}
		})
	}
}

func TestValidateField_DateValidatorSeesCanonicalText(t *testing.T) {
	var seen string
	reg := model.MustRegistry(model.FieldDescriptor{
		Name:     "start",
		Kind:     model.KindDate,
		Required: true,
		Validator: func(value string) error {
			seen = value
			return nil
		},
	})
	engine := validation.NewEngine(reg)
	if msg := engine.ValidateField("start", time.Date(2024, 2, 9, 15, 4, 0, 0, time.UTC)); msg != "" {
		t.Fatalf("unexpected message %q", msg)
	}
	if seen != "2024-02-09" {
		t.Fatalf("expected validator to receive 2024-02-09, got %q", seen)
	}
}

func TestValidateAll_MarksEveryFieldTouched(t *testing.T) {
	errs, touched, ok := newEngine().ValidateAll(fields.Users().BlankValues())
	if ok {
		t.Fatalf("expected blank form to be invalid")
	}
	for _, name := range fields.Users().Names() {
		if !touched[name] {
			t.Fatalf("expected %s to be touched", name)
		}
	}
	want := model.Errors{
		fields.FirstName: "First Name is required",
		fields.LastName:  "Last Name is required",
		fields.Email:     "Email Address is required",
		fields.Phone:     "Phone Number is required",
		fields.DOB:       "Date of Birth is required",
	}
	if diff := cmp.Diff(want, errs); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAll_Idempotent(t *testing.T) {
	engine := newEngine()
	rapid.Check(t, func(t *rapid.T) {
		values := model.Values{}
		for _, name := range fields.Users().Names() {
			if name == fields.DOB {
				if rapid.Bool().Draw(t, "hasDOB") {
					values[name] = time.Date(rapid.IntRange(1900, 2020).Draw(t, "year"), time.January, 1, 0, 0, 0, 0, time.UTC)
				}
				continue
			}
			values[name] = rapid.String().Draw(t, name)
		}
		first, _, okFirst := engine.ValidateAll(values)
		second, _, okSecond := engine.ValidateAll(values)
		if okFirst != okSecond {
			t.Fatalf("validity changed between runs")
		}
		if diff := cmp.Diff(first, second); diff != "" {
			t.Fatalf("errors changed between runs:\n%s", diff)
		}
	})
}

func TestShapeInput_Phone(t *testing.T) {
	phone, _ := fields.Users().Lookup(fields.Phone)
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.String().Draw(t, "raw")
		shaped, ok := validation.ShapeInput(phone, raw)
		if !ok {
			return
		}
		if len(shaped) > fields.PhoneDigits {
			t.Fatalf("shaped value %q exceeds %d digits", shaped, fields.PhoneDigits)
		}
		for _, r := range shaped {
			if r < '0' || r > '9' {
				t.Fatalf("shaped value %q contains non-digit", shaped)
			}
		}
	})

	if _, ok := validation.ShapeInput(phone, "12a3456789012"); ok {
		t.Fatalf("expected 12 digit input to be rejected")
	}
	if got, ok := validation.ShapeInput(phone, "(555) 123-4567"); !ok || got != "5551234567" {
		t.Fatalf("expected 5551234567, got %q (ok=%v)", got, ok)
	}
}
