// @title        greetpay API
// @version      1.0
// @description  Health probe, greeting lookup and payment timestamp echo.
// @BasePath     /api
package main

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

	"github.com/projecthelena/greetpay/internal/api"
	"github.com/projecthelena/greetpay/internal/clock"
	"github.com/projecthelena/greetpay/internal/config"
	"github.com/projecthelena/greetpay/internal/logging"
	"github.com/projecthelena/greetpay/internal/probe"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var listen, logLevel, logFormat string

	cmd := &cobra.Command{
		Use:          "greetpay",
		Short:        "Serve the greeting and payment echo API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("listen") {
				cfg.ListenAddr = listen
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides LISTEN_ADDR)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides LOG_LEVEL)")
	cmd.Flags().StringVar(&logFormat, "log-format", "", "log format: json or console (overrides LOG_FORMAT)")
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}
	logger := logging.New("greetpay")

	var checkers []probe.Checker
	if cfg.RedisAddr != "" {
		redisProbe := probe.NewRedis(cfg.RedisAddr)
		defer func() {
			if err := redisProbe.Close(); err != nil {
				logger.Warn().Err(err).Msg("close redis probe")
			}
		}()
		checkers = append(checkers, redisProbe)
	}

	router := api.NewRouter(cfg, clock.System{}, checkers...)
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.ListenAddr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info().Msg("server exiting")
	return nil
}
