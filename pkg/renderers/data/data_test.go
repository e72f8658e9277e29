package data_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-userform/pkg/fields"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/render"
	"github.com/goliatone/go-userform/pkg/renderers/data"
	"github.com/goliatone/go-userform/pkg/testsupport"
)

func view() render.View {
	return render.View{
		Registry: fields.Users(),
		Users:    []model.User{testsupport.SampleUser("7")},
	}
}

func TestJSON(t *testing.T) {
	out, err := data.JSON{}.Render(context.Background(), view())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded[0]["id"] != float64(7) || decoded[0]["firstName"] != "Ada" {
		t.Fatalf("unexpected document %v", decoded)
	}

	empty, err := data.JSON{}.Render(context.Background(), render.View{})
	if err != nil || strings.TrimSpace(string(empty)) != "[]" {
		t.Fatalf("expected empty array, got %q (%v)", empty, err)
	}
}

func TestYAML_KeepsRegistryOrder(t *testing.T) {
	out, err := data.YAML{}.Render(context.Background(), view())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	var decoded []yaml.Node
	if err := yaml.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var keys []string
	for i := 0; i < len(decoded[0].Content); i += 2 {
		keys = append(keys, decoded[0].Content[i].Value)
	}
	want := []string{"id", "firstName", "lastName", "email", "phone", "dob", "address"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(string(out), `id: "7"`) {
		t.Fatalf("expected quoted id, got:\n%s", out)
	}
}

func TestRegister(t *testing.T) {
	registry := render.NewRegistry()
	if err := data.Register(registry); err != nil {
		t.Fatalf("register: %v", err)
	}
	if diff := cmp.Diff([]string{"json", "yaml"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}
