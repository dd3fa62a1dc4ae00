package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/coach/internal/coach"
	"github.com/MikeSquared-Agency/coach/internal/config"
	"github.com/MikeSquared-Agency/coach/internal/hermes"
	"github.com/MikeSquared-Agency/coach/internal/store"
)

// app carries the resolved configuration for one invocation.
type app struct {
	cfg    config.Config
	output string
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Load()}

	root := &cobra.Command{
		Use:           "coach",
		Short:         "Score communication samples and track skill progression",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.output != "json" && a.output != "yaml" {
				return invalidArgs("--output must be json or yaml, got %q", a.output)
			}
			setupLogging(a.cfg.LogLevel, cmd.ErrOrStderr())
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfg.Dir, "dir", a.cfg.Dir, "data directory for the file and sqlite backends")
	pf.StringVar(&a.cfg.Backend, "backend", a.cfg.Backend, "storage backend: file, sqlite or postgres")
	pf.StringVarP(&a.output, "output", "o", "json", "output format: json or yaml")
	pf.StringVar(&a.cfg.LogLevel, "log-level", a.cfg.LogLevel, "log level: debug, info, warn or error")

	root.AddCommand(
		newAnalyzeCmd(a),
		newStateCmd(a),
		newServeCmd(a),
		newWatchCmd(a),
	)
	return root
}

// openService opens the configured backend and, when NATS_URL is set, the
// event client. The returned func releases both.
func (a *app) openService(ctx context.Context) (*coach.Service, func(), error) {
	logger := slog.Default()

	backend, err := store.Open(ctx, store.Options{
		Kind:        a.cfg.Backend,
		Dir:         a.cfg.Dir,
		SQLitePath:  a.cfg.SQLitePath,
		DatabaseURL: a.cfg.DatabaseURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open %s backend: %w", a.cfg.Backend, err)
	}

	var events coach.Publisher
	var hc *hermes.Client
	if a.cfg.EventsEnabled() {
		hc, err = hermes.NewClient(ctx, a.cfg.NatsURL, a.cfg.NatsToken, logger)
		if err != nil {
			backend.Close()
			return nil, nil, err
		}
		events = hc
		logger.Debug("NATS connected", "url", a.cfg.NatsURL)
	}

	closeAll := func() {
		if hc != nil {
			hc.Close()
		}
		if err := backend.Close(); err != nil {
			logger.Warn("failed to close backend", "error", err)
		}
	}
	return coach.NewService(backend, events, logger), closeAll, nil
}
