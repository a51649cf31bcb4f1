package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/fjod/go_cart/storefront/internal/mockapi"
	"github.com/fjod/go_cart/storefront/internal/telemetry"
	"github.com/fjod/go_cart/storefront/pkg/logger"
	"github.com/spf13/cobra"
)

func newMockAPICmd(opts *rootOptions) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:         "mock-api",
		Short:       "Serve an in-memory storefront API for local use",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationStandalone: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			if port == "" {
				port = cfg.MockAPIPort
			}
			log := logger.NewWithWriter(os.Stderr, cfg.LogLevel, cfg.LogFormat)

			shutdownTracing, err := telemetry.Setup(cfg.Tracing, os.Stderr)
			if err != nil {
				return err
			}
			defer shutdownTracing(context.Background())

			st := mockapi.NewMemoryStore()
			mockapi.Seed(st)
			api := mockapi.NewServer(st, mockapi.WithLogger(log), mockapi.WithRequestTimeout(30*time.Second))

			srv := &http.Server{
				Addr:         ":" + port,
				Handler:      api.Handler(),
				ReadTimeout:  10 * time.Second,
				WriteTimeout: 10 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				log.Info("mock API starting", "addr", srv.Addr, "base_path", mockapi.BasePath,
					"demo_user", mockapi.DemoUsername)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
				return nil
			case <-cmd.Context().Done():
			}

			log.Info("shutting down server...")
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			log.Info("server exited")
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides MOCK_API_PORT)")
	return cmd
}
