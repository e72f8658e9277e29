package html_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-userform/pkg/fields"
	"github.com/goliatone/go-userform/pkg/form"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/render"
	"github.com/goliatone/go-userform/pkg/renderers/html"
	"github.com/goliatone/go-userform/pkg/testsupport"
)

func renderView(t *testing.T, view render.View) string {
	t.Helper()
	renderer, err := html.New()
	require.NoError(t, err)
	out, err := renderer.Render(context.Background(), view)
	require.NoError(t, err)
	return string(out)
}

func TestRenderer_CreateFormAndEmptyList(t *testing.T) {
	state := form.New(fields.Users())
	page := renderView(t, render.View{Registry: fields.Users(), State: state, Action: "/form"})

	assert.Contains(t, page, `action="/form"`)
	assert.Contains(t, page, `placeholder="Enter first name"`)
	assert.Contains(t, page, `type="tel"`)
	assert.Contains(t, page, `type="date"`)
	assert.Contains(t, page, "form-field--full")
	assert.Contains(t, page, "Add User")
	assert.Contains(t, page, "No users yet.")
	assert.NotContains(t, page, "Cancel")
	assert.NotContains(t, page, `name="id"`)

	first := strings.Index(page, `name="firstName"`)
	address := strings.Index(page, `name="address"`)
	assert.True(t, first > 0 && address > first, "fields should render in registry order")
}

func TestRenderer_EditFormCarriesID(t *testing.T) {
	seed := testsupport.SampleUser("7")
	state := form.New(fields.Users(), form.WithSeed(&seed))
	page := renderView(t, render.View{
		Registry: fields.Users(),
		State:    state,
		Users:    []model.User{seed},
		Action:   "/form",
	})

	assert.Contains(t, page, `<input type="hidden" name="id" value="7">`)
	assert.Contains(t, page, "Update User")
	assert.Contains(t, page, "Cancel")
	assert.Contains(t, page, `value="1990-05-01"`)
	assert.Contains(t, page, `href="/form?id=7"`)
	assert.Contains(t, page, "<td>Lovelace</td>")
}

func TestRenderer_LoadingLabel(t *testing.T) {
	state := form.New(fields.Users())
	page := renderView(t, render.View{Registry: fields.Users(), State: state, Loading: true})
	assert.Contains(t, page, "Saving...")
	assert.Contains(t, page, "disabled")
}

func TestRenderer_ShowsOnlyTouchedErrors(t *testing.T) {
	state := form.New(fields.Users())
	state.ValidateAll()
	state.OnChange(fields.FirstName, "Al")
	state.OnBlur(fields.FirstName)

	page := renderView(t, render.View{Registry: fields.Users(), State: state})
	assert.Contains(t, page, "Last Name is required")
	assert.NotContains(t, page, "First Name is required")
	assert.Contains(t, page, `aria-invalid="true"`)
}

func TestRenderer_EscapesValuesAndStripsMessageMarkup(t *testing.T) {
	state := form.New(fields.Users())
	state.OnChange(fields.Address, `"><script>alert(1)</script>`)
	page := renderView(t, render.View{
		Registry:   fields.Users(),
		State:      state,
		Flash:      &render.Flash{Kind: render.FlashError, Message: "<b>Backend</b> down & out"},
		FormErrors: []string{"<i>Rejected</i>"},
	})

	assert.NotContains(t, page, "<script>")
	assert.NotContains(t, page, "<b>Backend</b>")
	assert.Contains(t, page, "Backend down &amp; out")
	assert.Contains(t, page, "flash-error")
	assert.Contains(t, page, ">Rejected<")
}

func TestRenderer_ListOnly(t *testing.T) {
	page := renderView(t, render.View{
		Registry: fields.Users(),
		Users:    []model.User{testsupport.SampleUser("3")},
	})
	assert.NotContains(t, page, `class="user-form"`)
	assert.Contains(t, page, "<td>Ada</td>")
}

func TestRenderer_Metadata(t *testing.T) {
	renderer, err := html.New(html.WithTitle("People"))
	require.NoError(t, err)
	assert.Equal(t, "html", renderer.Name())
	assert.Equal(t, "text/html; charset=utf-8", renderer.ContentType())

	out, err := renderer.Render(context.Background(), render.View{Registry: fields.Users()})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<title>People</title>")
}
