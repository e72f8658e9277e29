package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/goliatone/go-userform/internal/config"
	"github.com/goliatone/go-userform/pkg/store"
	"github.com/goliatone/go-userform/pkg/store/demo"
	"github.com/goliatone/go-userform/pkg/store/httpstore"
	"github.com/goliatone/go-userform/pkg/store/sqlitestore"
)

func openStore(_ context.Context, cfg config.Config, logger *slog.Logger) (store.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Store {
	case config.StoreRemote:
		remote, err := newRemote(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return remote, noop, nil
	case config.StoreLocal:
		local, err := sqlitestore.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open local store: %w", err)
		}
		return local, local.Close, nil
	case config.StoreDemo:
		remote, err := newRemote(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		local, err := sqlitestore.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open local store: %w", err)
		}
		return demo.New(local, remote, demo.WithLogger(logger)), local.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}

func newRemote(cfg config.Config, logger *slog.Logger) (*httpstore.Client, error) {
	client, err := httpstore.New(cfg.APIURL,
		httpstore.WithTimeout(cfg.Timeout),
		httpstore.WithCacheTTL(cfg.CacheTTL),
		httpstore.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("open remote store: %w", err)
	}
	return client, nil
}

// newTracerProvider exports spans synchronously to w so short-lived commands
// print them before exiting.
func newTracerProvider(w io.Writer) (*sdktrace.TracerProvider, func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, nil, fmt.Errorf("create stdout exporter: %w", err)
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", "userform"))),
	)
	return provider, provider.Shutdown, nil
}
