// Package demo implements the live-demo persistence strategy: a local store
// that seeds itself from a remote backend the first time it is listed empty.
// Mutations never reach the remote.
package demo

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/store"
)

// Local is the writable side of the strategy.
type Local interface {
	store.Store
	Import(ctx context.Context, users []model.User) error
}

// Store combines a local store with a read-only remote seed source.
type Store struct {
	local  Local
	remote store.Store
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for seeding events.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs the demo strategy.
func New(local Local, remote store.Store, options ...Option) *Store {
	s := &Store{
		local:  local,
		remote: remote,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// List returns the local records. When there are none, the remote list is
// fetched, saved locally and returned.
func (s *Store) List(ctx context.Context) ([]model.User, error) {
	users, err := s.local.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) > 0 || s.remote == nil {
		return users, nil
	}

	remote, err := s.remote.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("demo: seed from remote: %w", err)
	}
	if len(remote) == 0 {
		return []model.User{}, nil
	}
	if err := s.local.Import(ctx, remote); err != nil {
		return nil, fmt.Errorf("demo: save seed: %w", err)
	}
	s.logger.Info("seeded local store from remote", "users", len(remote))
	return s.local.List(ctx)
}

// Create stores payload locally; the local store assigns the id.
func (s *Store) Create(ctx context.Context, payload model.Payload) (model.User, error) {
	return s.local.Create(ctx, payload)
}

// Update merges payload into the local record.
func (s *Store) Update(ctx context.Context, id model.ID, payload model.Payload) (model.User, error) {
	return s.local.Update(ctx, id, payload)
}

// Delete removes the local record.
func (s *Store) Delete(ctx context.Context, id model.ID) (model.ID, error) {
	return s.local.Delete(ctx, id)
}
