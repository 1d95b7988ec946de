package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				fc.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := newRuntime(ctx, fc)
			if err != nil {
				return err
			}
			defer rt.Close()

			svc, err := newAccountService(rt.backend)
			if err != nil {
				return err
			}
			if seed {
				if _, created, err := svc.SeedAdmin(ctx); err != nil {
					return fmt.Errorf("seed admin: %w", err)
				} else if created {
					logger.Warn("default administrator created; change its password")
				}
			}

			sweeperDone := rt.engine.StartSweeper(ctx)

			httpServer := &http.Server{
				Addr:              fc.Addr,
				Handler:           newRouter(rt.engine, svc, fc.Metrics, logger),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server starting", "addr", fc.Addr, "backend", fc.Backend, "tls", fc.TLS)
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case <-ctx.Done():
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("listen: %w", err)
				}
			}
			logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			<-sweeperDone
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	cmd.Flags().BoolVar(&seed, "seed-admin", false, "Create the default administrator on startup")
	return cmd
}
