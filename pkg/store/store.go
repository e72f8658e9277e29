// Package store defines the four-operation persistence API the form core
// talks to. Implementations live in subpackages: httpstore (REST backend),
// sqlitestore (local database) and demo (local store seeded from a remote).
package store

import (
	"context"
	"errors"

	"github.com/goliatone/go-userform/pkg/model"
)

// ErrNotFound is returned when an id does not match any record.
var ErrNotFound = errors.New("store: user not found")

// Store persists user records. Id assignment on Create belongs to the
// implementation.
type Store interface {
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, payload model.Payload) (model.User, error)
	Update(ctx context.Context, id model.ID, payload model.Payload) (model.User, error)
	Delete(ctx context.Context, id model.ID) (model.ID, error)
}

// Find returns the record with id by listing the store. The API has no
// single-record read, matching the backends it fronts.
func Find(ctx context.Context, s Store, id model.ID) (model.User, error) {
	users, err := s.List(ctx)
	if err != nil {
		return model.User{}, err
	}
	for _, user := range users {
		if user.ID == id {
			return user, nil
		}
	}
	return model.User{}, ErrNotFound
}
