package userform

import (
	"context"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-userform/pkg/testsupport"
)

func TestEmbeddedTemplatesContainsPage(t *testing.T) {
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/page.tmpl"); err != nil {
		t.Fatalf("expected page template to be readable: %v", err)
	}
}

func TestAssetsFSContainsStylesheet(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), "userform.css")
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), ".form-field") {
		t.Fatalf("expected stylesheet to style form fields")
	}
}

func TestRenderUsers(t *testing.T) {
	out, err := RenderUsers(context.Background(), testsupport.NewMemStore(testsupport.SampleUser("1")), "yaml")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), "firstName: Ada") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
