package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/etc-team/bestellung/pkg/config"
	"github.com/etc-team/bestellung/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cfg := config.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Load(); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log := logger.Run(cfg.LogLevel)
			defer func() { _ = log.Sync() }()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			a, err := newApp(cfg, log, reg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Infow("starting",
				"address", cfg.RunAddress,
				"metrics_address", cfg.MetricsAddress,
				"auth_enabled", a.gate.Enabled(),
				"second_factor", cfg.SecondFactorEnabled(),
				"odoo", cfg.OdooBaseURL,
			)
			return run(ctx, cfg, a)
		},
	}

	cfg.BindFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cfg *config.Config, a *app) error {
	servers := []*http.Server{{
		Addr:              cfg.RunAddress,
		Handler:           a.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if cfg.MetricsAddress != "" {
		servers = append(servers, &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           a.metrics,
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		go func(srv *http.Server) {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}(srv)
	}

	var runErr error
	select {
	case <-ctx.Done():
		logger.Log(ctx).Info("shutting down")
	case runErr = <-errCh:
		logger.Log(ctx).Errorf("server failed, %v", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log(ctx).Errorf("can't shut down %s, %v", srv.Addr, err)
			runErr = errors.Join(runErr, err)
		}
	}
	return runErr
}
