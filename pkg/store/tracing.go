package store

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-userform/pkg/model"
)

const tracerName = "github.com/goliatone/go-userform/pkg/store"

type tracedStore struct {
	next   Store
	tracer trace.Tracer
}

// Traced wraps s so every operation runs inside a span. A nil provider uses
// the global one.
func Traced(s Store, provider trace.TracerProvider) Store {
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	return &tracedStore{next: s, tracer: provider.Tracer(tracerName)}
}

func (t *tracedStore) List(ctx context.Context) ([]model.User, error) {
	ctx, span := t.tracer.Start(ctx, "store.List")
	defer span.End()
	users, err := t.next.List(ctx)
	span.SetAttributes(attribute.Int("users.count", len(users)))
	return users, record(span, err)
}

func (t *tracedStore) Create(ctx context.Context, payload model.Payload) (model.User, error) {
	ctx, span := t.tracer.Start(ctx, "store.Create")
	defer span.End()
	user, err := t.next.Create(ctx, payload)
	span.SetAttributes(attribute.String("user.id", user.ID.String()))
	return user, record(span, err)
}

func (t *tracedStore) Update(ctx context.Context, id model.ID, payload model.Payload) (model.User, error) {
	ctx, span := t.tracer.Start(ctx, "store.Update", trace.WithAttributes(attribute.String("user.id", id.String())))
	defer span.End()
	user, err := t.next.Update(ctx, id, payload)
	return user, record(span, err)
}

func (t *tracedStore) Delete(ctx context.Context, id model.ID) (model.ID, error) {
	ctx, span := t.tracer.Start(ctx, "store.Delete", trace.WithAttributes(attribute.String("user.id", id.String())))
	defer span.End()
	deleted, err := t.next.Delete(ctx, id)
	return deleted, record(span, err)
}

func record(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
