// Package server exposes the user registry over HTTP: a JSON API shaped like
// the json-server backend the form talks to, its OpenAPI description, and a
// server-rendered form page.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/goliatone/go-userform/internal/logging"
	"github.com/goliatone/go-userform/pkg/apidoc"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/render"
	"github.com/goliatone/go-userform/pkg/renderers/html"
	"github.com/goliatone/go-userform/pkg/store"
	"github.com/goliatone/go-userform/pkg/validation"
)

// Mux is the minimal interface required to register net/http handlers.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

type Server struct {
	opts      Options
	store     store.Store
	registry  *model.Registry
	engine    *validation.Engine
	validator *apidoc.Validator
	renderer  render.Renderer
	logger    *slog.Logger
}

// New builds a server for reg backed by s.
func New(ctx context.Context, s store.Store, reg *model.Registry, fns ...OptionFn) (*Server, error) {
	if s == nil {
		return nil, errors.New("server: store is required")
	}
	if reg == nil {
		return nil, errors.New("server: registry is required")
	}
	opts := NewOptions(fns...)

	validator, err := apidoc.NewValidator(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("server: build payload validator: %w", err)
	}

	renderer := opts.Renderer
	if renderer == nil {
		renderer, err = html.New()
		if err != nil {
			return nil, fmt.Errorf("server: build renderer: %w", err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Server{
		opts:      opts,
		store:     s,
		registry:  reg,
		engine:    validation.NewEngine(reg),
		validator: validator,
		renderer:  renderer,
		logger:    logger,
	}, nil
}

// RegisterRoutes mounts every route under basePath and returns the patterns
// registered.
func (s *Server) RegisterRoutes(mux Mux, basePath string) ([]string, error) {
	if mux == nil {
		return nil, errors.New("server: missing mux")
	}

	apiPath := mountPath(basePath, s.opts.APIPath)
	formPath := mountPath(basePath, s.opts.FormPath)
	docPath := mountPath(basePath, s.opts.DocPath)

	doc, err := apidoc.Raw(s.registry, apidoc.Options{Collection: apiPath})
	if err != nil {
		return nil, fmt.Errorf("server: render api document: %w", err)
	}

	api := &apiHandler{server: s}
	pages := &pageHandler{server: s, action: formPath}
	guard := s.opts.Guard

	routes := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{"GET " + apiPath, api.list},
		{"POST " + apiPath, guarded(guard, api.create)},
		{"PUT " + apiPath + "/{id}", guarded(guard, api.update)},
		{"DELETE " + apiPath + "/{id}", guarded(guard, api.remove)},
		{"GET " + docPath, serveDocument(doc)},
		{"GET " + formPath, pages.show},
		{"POST " + formPath, guarded(guard, pages.submit)},
		{"GET " + rootPattern(basePath), redirectTo(formPath)},
	}

	patterns := make([]string, 0, len(routes))
	for _, route := range routes {
		mux.Handle(route.pattern, route.handler)
		patterns = append(patterns, route.pattern)
	}
	return patterns, nil
}

// Handler returns a ServeMux with every route mounted at the root, wrapped
// with request logging.
func (s *Server) Handler() (http.Handler, error) {
	mux := http.NewServeMux()
	if _, err := s.RegisterRoutes(mux, ""); err != nil {
		return nil, err
	}
	return requestLogger(s.logger, mux), nil
}

func serveDocument(doc []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write(doc)
	}
}

func redirectTo(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

func rootPattern(basePath string) string {
	root := mountPath(basePath, "/")
	if !strings.HasSuffix(root, "/") {
		root += "/"
	}
	return root + "{$}"
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	if routePath == "/" {
		return basePath
	}
	return basePath + routePath
}
