package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dashwright/dashwright/internal/server"
)

const shutdownGrace = 10 * time.Second

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard generation HTTP API",
		Long: `Run the dashboard generation HTTP API.

The server exposes the layout engine and the full generation pipeline
under /api/v1 and serves the catalog of published dashboards. It shuts
down gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger := loggerFromContext(ctx)

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, cfg, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			store, err := cfg.OpenCatalog(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			srv, err := server.New(server.Options{
				Addr:    cfg.Server.Addr,
				Runner:  runner,
				Catalog: store,
				Logger:  logger,
			})
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Server listening", "addr", cfg.Server.Addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to server.addr, then :8080)")

	return cmd
}
