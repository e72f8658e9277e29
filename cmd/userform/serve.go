package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-userform/internal/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the form page and JSON API over HTTP",
		Long: `Serve the user registry over HTTP.

Routes:
  GET  /form           form page with the user list (?id= edits a user)
  POST /form           form submission
  GET  /users          list users
  POST /users          create a user
  PUT  /users/{id}     update a user
  DELETE /users/{id}   delete a user
  GET  /openapi.json   OpenAPI description of the API`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := cmd.Context()
			o, closeFn, err := a.orchestrator(ctx)
			if err != nil {
				return err
			}
			defer func() { err = errors.Join(err, closeFn()) }()

			srv, err := server.New(ctx, o.Store(), o.Fields(), server.WithLogger(a.logger))
			if err != nil {
				return err
			}
			handler, err := srv.Handler()
			if err != nil {
				return err
			}
			return a.listen(ctx, handler)
		},
	}
	cmd.Flags().String("addr", "", "listen address (default :8080)")
	_ = a.v.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))
	return cmd
}

// listen serves until ctx is cancelled, then drains open connections.
func (a *app) listen(ctx context.Context, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:              a.cfg.Serve.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("listening", "addr", httpServer.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("serve: shutdown: %w", err)
	}
	a.logger.Info("server stopped")
	return nil
}
