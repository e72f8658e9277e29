package demo_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-userform/pkg/fields"
	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/store/demo"
	"github.com/goliatone/go-userform/pkg/store/sqlitestore"
)

type remoteStub struct {
	users []model.User
	err   error
	lists int
}

func (r *remoteStub) List(context.Context) ([]model.User, error) {
	r.lists++
	return r.users, r.err
}

func (r *remoteStub) Create(context.Context, model.Payload) (model.User, error) {
	return model.User{}, errors.New("remote is read-only")
}

func (r *remoteStub) Update(context.Context, model.ID, model.Payload) (model.User, error) {
	return model.User{}, errors.New("remote is read-only")
}

func (r *remoteStub) Delete(context.Context, model.ID) (model.ID, error) {
	return "", errors.New("remote is read-only")
}

func openLocal(t *testing.T) *sqlitestore.Store {
	t.Helper()
	local, err := sqlitestore.Open(filepath.Join(t.TempDir(), "demo.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = local.Close() })
	return local
}

func TestList_SeedsFromRemoteOnce(t *testing.T) {
	remote := &remoteStub{users: []model.User{
		model.NewUser("1", model.Payload{fields.FirstName: "Leanne"}),
		model.NewUser("2", model.Payload{fields.FirstName: "Ervin"}),
	}}
	s := demo.New(openLocal(t), remote)
	ctx := context.Background()

	users, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, model.ID("1"), users[0].ID)

	_, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, remote.lists, "remote is only consulted while the local store is empty")
}

func TestMutationsStayLocal(t *testing.T) {
	remote := &remoteStub{}
	s := demo.New(openLocal(t), remote)
	ctx := context.Background()

	created, err := s.Create(ctx, model.Payload{fields.FirstName: "Ada"})
	require.NoError(t, err)

	_, err = s.Update(ctx, created.ID, model.Payload{fields.LastName: "Lovelace"})
	require.NoError(t, err)

	users, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Lovelace", users[0].Get(fields.LastName))
	assert.Equal(t, 0, remote.lists)

	_, err = s.Delete(ctx, created.ID)
	require.NoError(t, err)
}

func TestList_RemoteFailure(t *testing.T) {
	boom := errors.New("offline")
	s := demo.New(openLocal(t), &remoteStub{err: boom})
	_, err := s.List(context.Background())
	assert.ErrorIs(t, err, boom)
}
