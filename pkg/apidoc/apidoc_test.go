package apidoc_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/goliatone/go-userform/pkg/apidoc"
	"github.com/goliatone/go-userform/pkg/fields"
)

func validBody() map[string]any {
	return map[string]any{
		"firstName": "Ada",
		"lastName":  "Lovelace",
		"email":     "ada@example.com",
		"phone":     "5551234567",
		"dob":       "1990-05-01",
		"address":   "",
	}
}

func TestDocument_Validates(t *testing.T) {
	doc, err := apidoc.Document(context.Background(), fields.Users(), apidoc.Options{})
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	for _, path := range []string{"/users", "/users/{id}"} {
		if doc.Paths.Value(path) == nil {
			t.Fatalf("expected path %s", path)
		}
	}
	input := doc.Components.Schemas["UserInput"]
	if input == nil || input.Value == nil {
		t.Fatalf("expected UserInput schema")
	}
	if got := len(input.Value.Required); got != 5 {
		t.Fatalf("expected 5 required fields, got %d", got)
	}
	if !input.Value.Properties["dob"].Value.Nullable {
		t.Fatalf("expected dob to be nullable")
	}
}

func TestRaw_UsesCollectionOption(t *testing.T) {
	raw, err := apidoc.Raw(fields.Users(), apidoc.Options{Collection: "/api/users"})
	if err != nil {
		t.Fatalf("raw: %v", err)
	}
	var decoded struct {
		Paths map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := decoded.Paths["/api/users/{id}"]; !ok {
		t.Fatalf("expected item path under custom collection, got %v", decoded.Paths)
	}
}

func TestRaw_RequiresRegistry(t *testing.T) {
	if _, err := apidoc.Raw(nil, apidoc.Options{}); err == nil {
		t.Fatalf("expected error for nil registry")
	}
}

func TestValidatePayload(t *testing.T) {
	validator, err := apidoc.NewValidator(context.Background(), fields.Users())
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	if err := validator.ValidatePayload(validBody()); err != nil {
		t.Fatalf("expected valid body, got %v", err)
	}

	nullDate := validBody()
	nullDate["dob"] = nil
	if err := validator.ValidatePayload(nullDate); err != nil {
		t.Fatalf("expected null dob to pass schema, got %v", err)
	}

	bad := validBody()
	delete(bad, "firstName")
	bad["phone"] = "555-123"
	err = validator.ValidatePayload(bad)
	var payloadErr *apidoc.PayloadError
	if !errors.As(err, &payloadErr) {
		t.Fatalf("expected PayloadError, got %v", err)
	}
	messages := payloadErr.FieldMessages()
	if len(messages["firstName"]) == 0 {
		t.Fatalf("expected firstName issue, got %v", messages)
	}
	if len(messages["phone"]) == 0 {
		t.Fatalf("expected phone issue, got %v", messages)
	}
}

func TestValidatePayload_RejectsNonStringValues(t *testing.T) {
	validator, err := apidoc.NewValidator(context.Background(), fields.Users())
	if err != nil {
		t.Fatalf("validator: %v", err)
	}
	body := validBody()
	body["lastName"] = 42.0
	if err := validator.ValidatePayload(body); err == nil {
		t.Fatalf("expected type error for numeric lastName")
	}
}
