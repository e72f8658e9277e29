package orchestrator_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/goliatone/go-userform/pkg/model"
	"github.com/goliatone/go-userform/pkg/orchestrator"
	"github.com/goliatone/go-userform/pkg/render"
	"github.com/goliatone/go-userform/pkg/store"
	"github.com/goliatone/go-userform/pkg/submission"
	"github.com/goliatone/go-userform/pkg/testsupport"
)

func TestNew_RequiresStore(t *testing.T) {
	_, err := orchestrator.New()
	require.Error(t, err)
}

func TestNew_RegistersDefaultRenderers(t *testing.T) {
	o, err := orchestrator.New(orchestrator.WithStore(testsupport.NewMemStore()))
	require.NoError(t, err)

	assert.Equal(t, []string{"json", "table", "yaml"}, o.Renderers().List())
	assert.Equal(t, 6, o.Fields().Len())
	assert.NotNil(t, o.Coordinator())
}

func TestRenderUsers(t *testing.T) {
	ctx := context.Background()
	o, err := orchestrator.New(orchestrator.WithStore(testsupport.NewMemStore(testsupport.SampleUser("1"))))
	require.NoError(t, err)

	table, err := o.RenderUsers(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, string(table), "Ada")
	assert.Contains(t, string(table), "First Name")

	out, err := o.RenderUsers(ctx, "json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(string(out)), "["))

	_, err = o.RenderUsers(ctx, "xml")
	require.Error(t, err)
	assert.ErrorIs(t, err, render.ErrUnknownRenderer)
}

func TestRenderUsers_PersistenceFailure(t *testing.T) {
	mem := testsupport.NewMemStore()
	mem.Err = errors.New("offline")
	o, err := orchestrator.New(orchestrator.WithStore(mem))
	require.NoError(t, err)

	_, err = o.RenderUsers(context.Background(), "")
	require.ErrorIs(t, err, submission.ErrPersistence)
}

func TestRenderUsers_CustomRegistry(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(stubRenderer{})
	o, err := orchestrator.New(
		orchestrator.WithStore(testsupport.NewMemStore()),
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer("stub"),
	)
	require.NoError(t, err)

	out, err := o.RenderUsers(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "0 users", string(out))
}

func TestNewForm(t *testing.T) {
	ctx := context.Background()
	o, err := orchestrator.New(orchestrator.WithStore(testsupport.NewMemStore(testsupport.SampleUser("4"))))
	require.NoError(t, err)

	create, err := o.NewForm(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, model.ModeCreate, create.Mode())

	edit, err := o.NewForm(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, model.ModeEdit, edit.Mode())
	assert.Equal(t, "Ada", edit.Text("firstName"))

	_, err = o.NewForm(ctx, "99")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTracerProvider(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	o, err := orchestrator.New(
		orchestrator.WithStore(testsupport.NewMemStore()),
		orchestrator.WithTracerProvider(provider),
	)
	require.NoError(t, err)

	_, err = o.Coordinator().List(context.Background())
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "store.List", spans[0].Name())
}

type stubRenderer struct{}

func (stubRenderer) Name() string        { return "stub" }
func (stubRenderer) ContentType() string { return "text/plain" }

func (stubRenderer) Render(_ context.Context, view render.View) ([]byte, error) {
	return []byte(strconv.Itoa(len(view.Users)) + " users"), nil
}
