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

	"github.com/iwvelando/greenseat-forecast/internal/server"
	"github.com/iwvelando/greenseat-forecast/internal/snapshot"
	"github.com/iwvelando/greenseat-forecast/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(logLevel *string) *cobra.Command {
	var configLocation string
	var address string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator as a JSON HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// A missing .env file is fine.
			_ = godotenv.Load()

			cfg, err := server.LoadConfig(configLocation)
			if err != nil {
				return err
			}
			cfg.ApplyEnv(os.Getenv)
			if address != "" {
				cfg.Address = address
			}

			logger, err := initializeLogger(cfg.Logging, *logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServer(ctx, logger, cfg)
		},
	}

	c.Flags().StringVarP(&configLocation, "config", "c", constants.DefaultServerConfigFile, "path to the server configuration file")
	c.Flags().StringVar(&address, "address", "", "listen address override")
	return c
}

func runServer(ctx context.Context, logger *zap.Logger, cfg *server.Config) error {
	store, closeStore, err := server.OpenStore(ctx, logger, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store: %w", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close snapshot store",
				zap.String("op", "main.serve"),
				zap.Error(err),
			)
		}
	}()

	snapshots := snapshot.NewService(logger, store, cfg.Storage.SnapshotTTL())
	handler := server.NewHandler(logger, snapshots, server.Options{
		MaxBodySize:    cfg.BodySizeBytes(),
		Version:        version,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			zap.String("op", "main.serve"),
			zap.String("address", cfg.Address),
			zap.String("storage", cfg.Storage.Backend),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server", zap.String("op", "main.serve"))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
