// Package html renders the user registry page: the form followed by the
// user list, using pongo2 templates.
package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"

	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/render"
	rendertemplate "github.com/goliatone/go-userform/pkg/render/template"
	"github.com/goliatone/go-userform/pkg/render/template/pongo"
)

const defaultTitle = "User Registry"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	title            string
}

// WithTemplatesFS supplies an alternate template bundle. It must contain
// templates/page.tmpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTitle sets the page title.
func WithTitle(title string) Option {
	return func(cfg *config) {
		if title != "" {
			cfg.title = title
		}
	}
}

type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	title      string
	stylesheet string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), title: defaultTitle}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:  renderer,
		title:      cfg.title,
		stylesheet: defaultStylesheet(),
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, view render.View) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("html renderer: template renderer is nil")
	}
	if view.Registry == nil {
		if view.State == nil {
			return nil, errors.New("html renderer: view has no registry")
		}
		view.Registry = view.State.Registry()
	}

	result, err := r.templates.RenderTemplate("templates/page.tmpl", r.data(view))
	if err != nil {
		return nil, fmt.Errorf("html renderer: render template: %w", err)
	}
	return []byte(result), nil
}

type userRow struct {
	ID      string   `json:"id"`
	Cells   []string `json:"cells"`
	EditURL string   `json:"editURL"`
}

func (r *Renderer) data(view render.View) map[string]any {
	headers := render.Headers(view.Registry)
	rows := render.Rows(view.Registry, view.Users)
	users := make([]userRow, 0, len(rows))
	for i, cells := range rows {
		id := view.Users[i].ID.String()
		users = append(users, userRow{
			ID:      id,
			Cells:   cells,
			EditURL: editURL(view.Action, id),
		})
	}

	data := map[string]any{
		"title":      r.title,
		"stylesheet": r.stylesheet,
		"action":     view.Action,
		"headers":    headers,
		"columns":    len(headers) + 1,
		"users":      users,
		"loading":    view.Loading,
		"formErrors": plainMessages(view.FormErrors),
	}
	if view.Flash != nil && view.Flash.Message != "" {
		data["flash"] = render.Flash{Kind: view.Flash.Kind, Message: plainMessage(view.Flash.Message)}
	}
	if view.State != nil {
		mode := view.State.Mode()
		data["fields"] = view.Fields()
		data["submitLabel"] = render.SubmitLabel(mode, view.Loading)
		data["editing"] = mode == model.ModeEdit

		hidden := view.Hidden
		if seed := view.State.Seed(); seed != nil {
			hidden = render.MergeHiddenFields(hidden, render.Hidden("id", seed.ID))
		}
		data["hiddenFields"] = render.SortedHiddenFields(hidden)
	}
	return data
}

func editURL(action, id string) string {
	if action == "" {
		action = "."
	}
	return action + "?id=" + url.QueryEscape(id)
}
