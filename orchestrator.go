package userform

import (
	"context"

	"github.com/goliatone/go-userform/pkg/fields"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/orchestrator"
	"github.com/goliatone/go-userform/pkg/store"
)

// User aliases model.User for callers that only import the root package.
type User = model.User

// ID aliases model.ID.
type ID = model.ID

// Payload aliases model.Payload, the normalized body sent to a store.
type Payload = model.Payload

// Store aliases the persistence API.
type Store = store.Store

// Fields returns the registry of user form fields.
func Fields() *model.Registry {
	return fields.Users()
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) (*orchestrator.Orchestrator, error) {
	return orchestrator.New(options...)
}

// RenderUsers lists s and renders the records with the named renderer
// ("table", "json" or "yaml"). An empty name selects the table.
func RenderUsers(ctx context.Context, s Store, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	o, err := orchestrator.New(append([]orchestrator.Option{orchestrator.WithStore(s)}, options...)...)
	if err != nil {
		return nil, err
	}
	return o.RenderUsers(ctx, rendererName)
}
