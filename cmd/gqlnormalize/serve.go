package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/Protocol-Lattice/gqlnormalize/config"
	"github.com/Protocol-Lattice/gqlnormalize/handler"
	"github.com/Protocol-Lattice/gqlnormalize/registry"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(v *viper.Viper, cfgFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve normalization over HTTP and websocket",
		Long: `serve exposes POST /normalize, GET /queries/{id}, GET /stream (websocket)
and POST /upload (multipart query files).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *cfgFile)
			if err != nil {
				return err
			}
			logger, err := cfg.Logger()
			if err != nil {
				return err
			}
			defer logger.Sync() // nolint

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
	cmd.Flags().String(config.KeyListen, ":8080", "address to listen on")
	cmd.Flags().Int(config.KeyCacheSize, registry.DefaultSize, "number of canonical queries kept in memory")
	bindFlags(v, cmd.Flags(), config.KeyListen, config.KeyCacheSize)
	return cmd
}

// serve runs the HTTP server until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	reg, err := registry.New(cfg.CacheSize, cfg.NormalizerOptions()...)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           handler.New(reg, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gqlnormalize server is running", zap.String("addr", cfg.Listen))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- errors.Wrapf(err, "listen on %s", cfg.Listen)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "server forced to shutdown")
	}
	logger.Info("server exited")
	return nil
}
