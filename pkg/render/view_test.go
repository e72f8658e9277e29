package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-userform/pkg/fields"
	"github.com/goliatone/go-userform/pkg/form"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/render"
)

func TestView_FieldsShowOnlyTouchedErrors(t *testing.T) {
	state := form.New(fields.Users())
	state.OnChange(fields.FirstName, "A")
	state.OnChange(fields.Email, "bad")
	state.OnBlur(fields.Email)

	view := render.View{Registry: fields.Users(), State: state}
	got := map[string]render.FieldView{}
	for _, field := range view.Fields() {
		got[field.Name] = field
	}

	if got[fields.FirstName].Error != "" {
		t.Fatalf("untouched field should hide its error, got %q", got[fields.FirstName].Error)
	}
	if got[fields.Email].Error != "Please enter a valid email address (e.g. name@example.com)" {
		t.Fatalf("unexpected email error %q", got[fields.Email].Error)
	}
	if got[fields.Phone].InputType != "tel" || got[fields.DOB].InputType != "date" {
		t.Fatalf("unexpected input types %#v", got)
	}
	if got[fields.DOB].Placeholder != "" || got[fields.FirstName].Placeholder != "Enter first name" {
		t.Fatalf("unexpected placeholders %#v", got)
	}
	if !got[fields.Address].FullWidth {
		t.Fatalf("address should span the full width")
	}
}

func TestView_WithErrorPayload(t *testing.T) {
	state := form.New(fields.Users())
	view := render.View{Registry: fields.Users(), State: state}.WithErrorPayload(map[string][]string{
		"email":   {"Email already registered"},
		"message": {"Request rejected"},
	})

	for _, field := range view.Fields() {
		if field.Name == fields.Email && field.Error != "Email already registered" {
			t.Fatalf("expected backend email error, got %q", field.Error)
		}
	}
	if diff := cmp.Diff([]string{"Request rejected"}, view.FormErrors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitLabel(t *testing.T) {
	cases := []struct {
		mode    model.Mode
		loading bool
		want    string
	}{
		{model.ModeCreate, false, "Add User"},
		{model.ModeEdit, false, "Update User"},
		{model.ModeEdit, true, "Saving..."},
	}
	for _, tc := range cases {
		if got := render.SubmitLabel(tc.mode, tc.loading); got != tc.want {
			t.Fatalf("SubmitLabel(%s, %v) = %q, want %q", tc.mode, tc.loading, got, tc.want)
		}
	}
}

func TestRowsAndHeaders(t *testing.T) {
	reg := fields.Users()
	users := []model.User{{ID: "7", Fields: map[string]string{"firstName": "Ada", "email": "ada@example.com"}}}

	headers := render.Headers(reg)
	if headers[0] != "ID" || headers[1] != "First Name" || len(headers) != reg.Len()+1 {
		t.Fatalf("unexpected headers %v", headers)
	}
	rows := render.Rows(reg, users)
	if diff := cmp.Diff([]string{"7", "Ada", "", "ada@example.com", "", "", ""}, rows[0]); diff != "" {
		t.Fatalf("row mismatch (-want +got):\n%s", diff)
	}
}

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, render.View) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer("table"))
	registry.MustRegister(namedRenderer("json"))

	if err := registry.Register(namedRenderer("json")); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if diff := cmp.Diff([]string{"json", "table"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if _, err := registry.Get("yaml"); !errors.Is(err, render.ErrUnknownRenderer) {
		t.Fatalf("expected unknown renderer error, got %v", err)
	}
	if !registry.Has("table") {
		t.Fatalf("expected table renderer")
	}
}

func TestMergeAndSortHiddenFields(t *testing.T) {
	merged := render.MergeHiddenFields(map[string]string{" existing ": "keep", "": "ignored"},
		render.Hidden("id", 7),
		render.Hidden("  ", "skip"),
	)
	want := map[string]string{"existing": "keep", "id": "7"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}
	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{{Name: "existing", Value: "keep"}, {Name: "id", Value: "7"}}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}
