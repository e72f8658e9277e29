package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-userform/internal/config"
	"github.com/goliatone/go-userform/internal/logging"
	"github.com/goliatone/go-userform/pkg/orchestrator"
	"github.com/goliatone/go-userform/pkg/renderers/tui"
	"github.com/goliatone/go-userform/pkg/store"
)

// storeFactory opens the configured store. The returned close function
// releases whatever the store holds open.
type storeFactory func(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.Store, func() error, error)

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     config.Config
	logger  *slog.Logger

	out    io.Writer
	errOut io.Writer

	driver    tui.PromptDriver
	openStore storeFactory
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		v:         viper.New(),
		out:       out,
		errOut:    errOut,
		logger:    logging.Discard(),
		openStore: openStore,
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "userform",
		Short: "Register, edit and list users",
		Long: `userform manages user records through a validated form.

Records live in a json-server style REST backend (store: remote), a local
SQLite database (store: local), or a local database seeded from the backend
the first time it is empty (store: demo).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load()
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./userform.yaml or ~/.config/userform/userform.yaml)")
	flags.String("store", config.StoreRemote, "persistence backend: remote, local or demo")
	flags.String("api-url", "", "base URL of the REST backend")
	flags.String("db-path", "", "SQLite database path for the local and demo stores")
	flags.Duration("timeout", 0, "request timeout for the REST backend")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: text or json")
	flags.Bool("trace", false, "print a trace span for every store call to stderr")

	bindings := map[string]string{
		"store":      "store",
		"api_url":    "api-url",
		"db_path":    "db-path",
		"timeout":    "timeout",
		"log.level":  "log-level",
		"log.format": "log-format",
		"trace":      "trace",
	}
	for key, flag := range bindings {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newServeCmd(a),
		newOpenAPICmd(a),
	)
	return root
}

// load resolves configuration. Flags only override the file and environment
// when they were set, so their zero defaults never mask configured values.
func (a *app) load() error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(cfg.Log.Level, cfg.Log.Format, a.errOut)
	return nil
}

// orchestrator opens the store and assembles the collaborators. Callers
// must invoke the returned close function.
func (a *app) orchestrator(ctx context.Context) (*orchestrator.Orchestrator, func() error, error) {
	s, closeStore, err := a.openStore(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{closeStore}

	options := []orchestrator.Option{
		orchestrator.WithStore(s),
		orchestrator.WithLogger(a.logger),
	}
	if a.cfg.Trace {
		provider, shutdown, err := newTracerProvider(a.errOut)
		if err != nil {
			_ = closeStore()
			return nil, nil, err
		}
		options = append(options, orchestrator.WithTracerProvider(provider))
		closers = append([]func() error{func() error { return shutdown(context.WithoutCancel(ctx)) }}, closers...)
	}

	closeAll := func() error {
		var errs []error
		for _, fn := range closers {
			if fn == nil {
				continue
			}
			errs = append(errs, fn())
		}
		return errors.Join(errs...)
	}

	o, err := orchestrator.New(options...)
	if err != nil {
		_ = closeAll()
		return nil, nil, err
	}
	return o, closeAll, nil
}

func (a *app) session(o *orchestrator.Orchestrator) (*tui.Session, error) {
	driver := a.driver
	if driver == nil {
		driver = tui.NewSurveyDriver(a.out)
	}
	return tui.New(o.Coordinator(), tui.WithPromptDriver(driver), tui.WithLogger(a.logger))
}

// fail prints msg the way the interactive session reports errors and
// returns err for the exit status.
func (a *app) fail(msg string, err error) error {
	fmt.Fprintln(a.errOut, tui.DefaultTheme.ErrorPrefix+msg)
	return err
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
