package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parking-allocator/internal/app"
	"parking-allocator/internal/artifact"
	"parking-allocator/internal/config"
	"parking-allocator/internal/logging"
	"parking-allocator/internal/parking"
	"parking-allocator/internal/server"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetryProvider, err := newTelemetry(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize telemetry", "error", err)
		return 1
	}
	defer shutdownTelemetry(telemetryProvider)

	logging.Init(cfg.OTelServiceName, cfg.Environment)

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	logging.Info(ctx, "Starting allocation run", "mode", cfg.Mode, "seed", seed)

	runner := &app.Runner{
		Config:    cfg,
		Telemetry: telemetryProvider,
		Rand:      rand.New(rand.NewPCG(seed, seed)),
	}
	if cfg.UploadEnabled() {
		uploader, err := artifact.NewS3Uploader(ctx, artifact.S3Config{
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretKey,
			Endpoint:        cfg.S3Endpoint,
			MaxTries:        cfg.UploadMaxTries,
			InitialInterval: cfg.UploadRetryPeriod,
		})
		if err != nil {
			logging.Error(ctx, "Upload disabled, S3 client unavailable", "error", err)
		} else {
			runner.Uploader = uploader
		}
	}

	report, err := runner.Run(ctx)
	if err != nil {
		logging.Error(ctx, "Allocation run failed", "error", err)
		return 1
	}

	switch cfg.Mode {
	case config.ModeRun:
	case config.ModeServe:
		serve(ctx, cfg, report.Lot)
	default:
		logging.Warn(ctx, "Unknown mode, not serving", "mode", cfg.Mode)
	}

	return 0
}

func newTelemetry(ctx context.Context, cfg *config.Config) (*parking.TelemetryProvider, error) {
	if cfg.OTelDisabled {
		return parking.NewNoopTelemetryProvider(), nil
	}
	return parking.NewTelemetryProvider(ctx, parking.TelemetryConfig{
		ServiceName:  cfg.OTelServiceName,
		OTLPEndpoint: cfg.OTelEndpoint,
		Environment:  cfg.Environment,
	})
}

func serve(ctx context.Context, cfg *config.Config, lot *parking.InstrumentedLot) {
	srv := server.NewServer(cfg.Port, cfg.OTelServiceName, lot)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Start()
	}()

	select {
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "Server error", "error", err)
		}
		return
	case <-ctx.Done():
		logging.Info(context.Background(), "Received shutdown signal...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error(shutdownCtx, "Server shutdown error", "error", err)
	}
}

func shutdownTelemetry(telemetryProvider *parking.TelemetryProvider) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
		slog.Error("Error shutting down telemetry", "error", err)
	}
}
