package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-userform/pkg/fields"
	"github.com/goliatone/go-userform/pkg/form"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/render"
	"github.com/goliatone/go-userform/pkg/renderers/data"
	"github.com/goliatone/go-userform/pkg/renderers/tui"
	"github.com/goliatone/go-userform/pkg/store"
	"github.com/goliatone/go-userform/pkg/submission"
)

const defaultRendererName = "table"

// Orchestrator holds the assembled collaborators.
type Orchestrator struct {
	store           store.Store
	fields          *model.Registry
	registry        *render.Registry
	defaultRenderer string
	logger          *slog.Logger
	tracer          trace.TracerProvider

	coordinator *submission.Coordinator
}

// Option mutates the orchestrator configuration.
type Option func(*Orchestrator)

// WithStore sets the persistence API. Required.
func WithStore(s store.Store) Option {
	return func(o *Orchestrator) {
		o.store = s
	}
}

// WithFields replaces the field registry. Defaults to fields.Users().
func WithFields(reg *model.Registry) Option {
	return func(o *Orchestrator) {
		if reg != nil {
			o.fields = reg
		}
	}
}

// WithRegistry supplies a custom renderer registry. When omitted the table,
// json and yaml renderers are registered.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer sets the renderer used when callers omit a name.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithLogger sets the logger handed to the coordinator.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTracerProvider wraps the store so every persistence call runs inside a
// span from provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(o *Orchestrator) {
		o.tracer = provider
	}
}

// New constructs an orchestrator and applies defaults.
func New(options ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	if o.store == nil {
		return nil, errors.New("orchestrator: store is required")
	}
	if err := o.applyDefaults(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Orchestrator) applyDefaults() error {
	if o.fields == nil {
		o.fields = fields.Users()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		if err := o.registry.Register(tui.TableRenderer{}); err != nil {
			return fmt.Errorf("orchestrator: default renderers: %w", err)
		}
		if err := data.Register(o.registry); err != nil {
			return fmt.Errorf("orchestrator: default renderers: %w", err)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.tracer != nil {
		o.store = store.Traced(o.store, o.tracer)
	}
	o.coordinator = submission.New(o.store, submission.WithLogger(o.logger))
	return nil
}

// Store returns the persistence API, traced when a provider was configured.
func (o *Orchestrator) Store() store.Store {
	return o.store
}

// Fields returns the field registry.
func (o *Orchestrator) Fields() *model.Registry {
	return o.fields
}

// Renderers returns the renderer registry.
func (o *Orchestrator) Renderers() *render.Registry {
	return o.registry
}

// Coordinator returns the shared submission coordinator.
func (o *Orchestrator) Coordinator() *submission.Coordinator {
	return o.coordinator
}

// NewForm returns a form in create mode for a zero id, or in edit mode
// seeded with the stored record otherwise.
func (o *Orchestrator) NewForm(ctx context.Context, id model.ID) (*form.State, error) {
	if id.IsZero() {
		return form.New(o.fields), nil
	}
	user, err := store.Find(ctx, o.store, id)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load user %s: %w", id, err)
	}
	return form.New(o.fields, form.WithSeed(&user)), nil
}

// RenderUsers lists the stored records and renders them with the named
// renderer, or the default renderer when name is empty.
func (o *Orchestrator) RenderUsers(ctx context.Context, name string) ([]byte, error) {
	renderer, err := o.rendererFor(name)
	if err != nil {
		return nil, err
	}
	users, err := o.coordinator.List(ctx)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, render.View{Registry: o.fields, Users: users})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	target := name
	if target == "" {
		target = o.defaultRenderer
	}
	renderer, err := o.registry.Get(target)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", target, err)
	}
	return renderer, nil
}
