package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"formpilot/infrastructure/metrics"
	"formpilot/presentation/api"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func newServeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the automation HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			m := metrics.MustNewMetrics(reg)

			engine, cleanup, err := a.engine(ctx, m)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(a.cfg.Auth.Tokens) == 0 {
				a.logger.Warn("No auth tokens configured; every run request will be rejected")
			}

			srv := api.NewServer(engine, api.Options{
				Addr:              a.cfg.Server.Addr,
				ReadTimeout:       a.cfg.Server.ReadTimeout,
				WriteTimeout:      a.cfg.Server.WriteTimeout,
				ShutdownTimeout:   a.cfg.Server.ShutdownTimeout,
				CORSOrigins:       a.cfg.Server.CORSOrigins,
				Users:             a.cfg.Auth.Users(),
				MaxConcurrentRuns: a.cfg.Engine.MaxConcurrentRuns,
				Gatherer:          reg,
				Rejections:        m,
			}, a.logger)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				return srv.Shutdown(context.Background())
			}
		},
	}
}
