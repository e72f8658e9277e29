// Package submission coordinates full-form validation, normalization and
// dispatch of a form to the persistence API.
package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/goliatone/go-userform/pkg/form"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/store"
)

// Coordinator submits forms to a store. The loading flag doubles as the
// double-submit guard: while a call is outstanding further calls fail with
// ErrBusy.
type Coordinator struct {
	store   store.Store
	logger  *slog.Logger
	loading atomic.Bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLogger sets the logger used for submission events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a Coordinator around s.
func New(s store.Store, options ...Option) *Coordinator {
	c := &Coordinator{
		store:  s,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Loading reports whether a persistence call is outstanding.
func (c *Coordinator) Loading() bool {
	return c.loading.Load()
}

// Submit validates state, normalizes its values and dispatches them to the
// store: Create in create mode, Update with the seed id in edit mode.
//
// Validation failures return *ValidationError without calling the store.
// On a successful create the state resets to Empty, unless the form was
// re-seeded while the call was outstanding. On a successful update the state
// is left as is. Store failures are wrapped with ErrPersistence and leave the
// state unchanged; there is no retry.
func (c *Coordinator) Submit(ctx context.Context, state *form.State) (model.User, error) {
	if !state.ValidateAll() {
		errs := state.Errors()
		c.logger.Debug("submission blocked by validation", "fields", len(errs))
		return model.User{}, &ValidationError{Errors: errs}
	}

	payload := state.Payload()
	mode := state.Mode()
	generation := state.Generation()

	var user model.User
	err := c.guard(func() error {
		var callErr error
		if mode == model.ModeEdit {
			user, callErr = c.store.Update(ctx, state.Seed().ID, payload)
		} else {
			user, callErr = c.store.Create(ctx, payload)
		}
		return callErr
	})
	if err != nil {
		if errors.Is(err, ErrBusy) {
			return model.User{}, err
		}
		c.logger.Error("submission failed", "mode", mode, "error", err)
		return model.User{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	c.logger.Info("submission saved", "mode", mode, "id", user.ID.String())
	if mode == model.ModeCreate && state.Generation() == generation {
		state.Reset()
	}
	return user, nil
}

// List returns every record. A nil result from the store reads as empty.
func (c *Coordinator) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := c.guard(func() error {
		var callErr error
		users, callErr = c.store.List(ctx)
		return callErr
	})
	if err != nil {
		if errors.Is(err, ErrBusy) {
			return nil, err
		}
		c.logger.Error("list failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// Delete removes the record with id.
func (c *Coordinator) Delete(ctx context.Context, id model.ID) (model.ID, error) {
	var deleted model.ID
	err := c.guard(func() error {
		var callErr error
		deleted, callErr = c.store.Delete(ctx, id)
		return callErr
	})
	if err != nil {
		if errors.Is(err, ErrBusy) {
			return "", err
		}
		c.logger.Error("delete failed", "id", id.String(), "error", err)
		return "", fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	c.logger.Info("user deleted", "id", deleted.String())
	return deleted, nil
}

func (c *Coordinator) guard(fn func() error) error {
	if !c.loading.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer c.loading.Store(false)
	return fn()
}
