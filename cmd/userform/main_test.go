package main

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-userform/internal/config"
	"github.com/goliatone/go-userform/pkg/renderers/tui"
	"github.com/goliatone/go-userform/pkg/store"
	"github.com/goliatone/go-userform/pkg/testsupport"
)

type scriptedDriver struct {
	inputs  []string
	confirm []bool
	infos   []string
}

func (d *scriptedDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted for " + cfg.Message)
	}
	answer := d.inputs[0]
	d.inputs = d.inputs[1:]
	return answer, nil
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	if len(d.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	answer := d.confirm[0]
	d.confirm = d.confirm[1:]
	return answer, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	return 0, nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

type harness struct {
	app    *app
	mem    *testsupport.MemStore
	driver *scriptedDriver
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newHarness(t *testing.T, mem *testsupport.MemStore) *harness {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	h := &harness{
		mem:    mem,
		driver: &scriptedDriver{},
		out:    &bytes.Buffer{},
		errOut: &bytes.Buffer{},
	}
	h.app = newApp(h.out, h.errOut)
	h.app.driver = h.driver
	h.app.openStore = func(context.Context, config.Config, *slog.Logger) (store.Store, func() error, error) {
		return mem, func() error { return nil }, nil
	}
	return h
}

func (h *harness) run(args ...string) error {
	root := newRootCmd(h.app)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func TestList_Table(t *testing.T) {
	h := newHarness(t, testsupport.NewMemStore(testsupport.SampleUser("1")))

	require.NoError(t, h.run("list"))
	assert.Contains(t, h.out.String(), "Email Address")
	assert.Contains(t, h.out.String(), "ada@example.com")
}

func TestList_JSON(t *testing.T) {
	h := newHarness(t, testsupport.NewMemStore(testsupport.SampleUser("1")))

	require.NoError(t, h.run("list", "-o", "json"))
	assert.Contains(t, h.out.String(), `"firstName": "Ada"`)
}

func TestList_ConnectionFailure(t *testing.T) {
	mem := testsupport.NewMemStore()
	mem.Err = errors.New("connection refused")
	h := newHarness(t, mem)

	require.Error(t, h.run("list"))
	assert.Contains(t, h.errOut.String(), "API Connection Failed")
}

func TestAdd_CreatesUser(t *testing.T) {
	mem := testsupport.NewMemStore()
	h := newHarness(t, mem)
	h.driver.inputs = []string{"Grace", "Hopper", "grace@example.com", "5550001111", "1906-12-09", ""}

	require.NoError(t, h.run("add"))

	users, err := mem.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Grace", users[0].Get("firstName"))
	assert.Contains(t, h.driver.infos, tui.DefaultTheme.InfoPrefix+"User registered successfully!")
}

func TestEdit_UnknownUser(t *testing.T) {
	h := newHarness(t, testsupport.NewMemStore())

	err := h.run("edit", "42")
	require.ErrorIs(t, err, store.ErrNotFound)
	assert.Contains(t, h.errOut.String(), "User not found")
}

func TestDelete_WithConfirmation(t *testing.T) {
	mem := testsupport.NewMemStore(testsupport.SampleUser("1"))
	h := newHarness(t, mem)
	h.driver.confirm = []bool{true}

	require.NoError(t, h.run("delete", "1"))
	assert.Contains(t, h.out.String(), "User deleted successfully")
	assert.Equal(t, 1, mem.Calls)
}

func TestDelete_Declined(t *testing.T) {
	mem := testsupport.NewMemStore(testsupport.SampleUser("1"))
	h := newHarness(t, mem)
	h.driver.confirm = []bool{false}

	require.NoError(t, h.run("delete", "1"))
	assert.Zero(t, mem.Calls)
}

func TestDelete_SkipsPromptWithYes(t *testing.T) {
	mem := testsupport.NewMemStore(testsupport.SampleUser("1"))
	h := newHarness(t, mem)

	require.NoError(t, h.run("delete", "1", "--yes"))
	assert.Equal(t, 1, mem.Calls)
}

func TestOpenAPI_YAML(t *testing.T) {
	h := newHarness(t, testsupport.NewMemStore())

	require.NoError(t, h.run("openapi", "-o", "yaml"))
	assert.Contains(t, h.out.String(), "openapi: 3.0.3")
	assert.Contains(t, h.out.String(), "/users/{id}:")
}

func TestOpenAPI_UnknownFormat(t *testing.T) {
	h := newHarness(t, testsupport.NewMemStore())

	require.Error(t, h.run("openapi", "-o", "xml"))
}

func TestConfig_MissingExplicitFile(t *testing.T) {
	h := newHarness(t, testsupport.NewMemStore())

	require.Error(t, h.run("list", "--config", "missing.yaml"))
}

func TestConfig_InvalidStoreFlag(t *testing.T) {
	h := newHarness(t, testsupport.NewMemStore())

	err := h.run("list", "--store", "ftp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown store")
}
