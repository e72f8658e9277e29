package testsupport

import (
	"context"
	"strconv"
	"sync"

	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/store"
)

// MemStore is an in-memory store.Store. Ids are sequential integers. Set Err
// to make every call fail with it.
type MemStore struct {
	mu    sync.Mutex
	users []model.User
	next  int

	Err error
	// Calls counts Create, Update and Delete invocations.
	Calls int
}

var _ store.Store = (*MemStore)(nil)

// NewMemStore returns a store holding users in order.
func NewMemStore(users ...model.User) *MemStore {
	m := &MemStore{next: 1}
	for _, user := range users {
		m.users = append(m.users, user)
		if n, err := strconv.Atoi(user.ID.String()); err == nil && n >= m.next {
			m.next = n + 1
		}
	}
	return m
}

func (m *MemStore) List(context.Context) ([]model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]model.User, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *MemStore) Create(_ context.Context, payload model.Payload) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return model.User{}, m.Err
	}
	user := model.NewUser(model.ID(strconv.Itoa(m.next)), payload)
	m.next++
	m.users = append(m.users, user)
	return user, nil
}

func (m *MemStore) Update(_ context.Context, id model.ID, payload model.Payload) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return model.User{}, m.Err
	}
	for i, user := range m.users {
		if user.ID == id {
			m.users[i] = model.NewUser(id, payload)
			return m.users[i], nil
		}
	}
	return model.User{}, store.ErrNotFound
}

func (m *MemStore) Delete(_ context.Context, id model.ID) (model.ID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	for i, user := range m.users {
		if user.ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return id, nil
		}
	}
	return "", store.ErrNotFound
}

// SampleUser returns a valid user record with the given id.
func SampleUser(id model.ID) model.User {
	return model.User{
		ID: id,
		Fields: map[string]string{
			"firstName": "Ada",
			"lastName":  "Lovelace",
			"email":     "ada@example.com",
			"phone":     "5551234567",
			"dob":       "1990-05-01",
			"address":   "12 Analytical St",
		},
	}
}
