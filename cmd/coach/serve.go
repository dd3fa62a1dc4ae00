package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/coach/internal/api"
	"github.com/MikeSquared-Agency/coach/internal/hermes"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			slog.Info("coach starting", "port", a.cfg.Port, "backend", a.cfg.Backend)

			svc, closeAll, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer closeAll()

			srv := api.NewServer(a.cfg.Port, a.cfg.APIToken, svc, slog.Default())
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			slog.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Warn("http shutdown", "error", err)
			}
			slog.Info("coach stopped")
			return nil
		},
	}
	cmd.Flags().IntVar(&a.cfg.Port, "port", a.cfg.Port, "HTTP port")
	return cmd
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print coach events from NATS as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.EventsEnabled() {
				return invalidArgs("watch requires NATS_URL")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			hc, err := hermes.NewClient(ctx, a.cfg.NatsURL, a.cfg.NatsToken, slog.Default())
			if err != nil {
				return err
			}
			defer hc.Close()

			events := make(chan hermes.Event, 64)
			if err := hc.Subscribe(hermes.SubjectAll, func(subject string, data []byte) {
				select {
				case events <- hermes.Event{Subject: subject, Data: data}:
				default:
					slog.Warn("dropping event, output is behind", "subject", subject)
				}
			}); err != nil {
				return err
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				case ev := <-events:
					decoded, err := ev.Decode()
					if err != nil {
						slog.Warn("undecodable event", "subject", ev.Subject, "error", err)
						continue
					}
					if err := render(cmd.OutOrStdout(), a.output, decoded); err != nil {
						return err
					}
				}
			}
		},
	}
}
