// Package app wires one allocation run: size the lot, park the vehicles,
// write the parking map and hand it to the remote sink.
package app

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"parking-allocator/internal/artifact"
	"parking-allocator/internal/config"
	"parking-allocator/internal/logging"
	"parking-allocator/internal/parking"
)

type Runner struct {
	Config    *config.Config
	Telemetry *parking.TelemetryProvider
	// Uploader may be nil; uploads are then skipped.
	Uploader artifact.Uploader
	Rand     parking.RandomSource
}

type Report struct {
	Lot        *parking.InstrumentedLot
	Result     *parking.AllocationResult
	Snapshot   []byte
	OutputPath string
	Uploaded   bool
	UploadErr  error
}

// Run performs a single allocation. Only a bad lot size or a failed local
// write is returned as an error; upload problems land in the report.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	cfg := r.Config

	ctx, span := r.Telemetry.Tracer().Start(ctx, "allocation.run",
		trace.WithAttributes(
			attribute.Int("lot.floor_area", cfg.FloorArea),
			attribute.Int("vehicles.count", len(cfg.Plates)),
		))
	defer span.End()

	lot, err := parking.NewLot(cfg.FloorArea, cfg.SpotLength, cfg.SpotWidth)
	if err != nil {
		return nil, failRun(span, "size lot", err)
	}

	ipl, err := parking.NewInstrumentedLot(lot, r.Telemetry)
	if err != nil {
		return nil, failRun(span, "instrument lot", err)
	}

	logging.Info(ctx, "Parking lot created",
		"capacity", lot.Capacity(),
		"vehicles", len(cfg.Plates),
	)

	vehicles := make([]*parking.Vehicle, len(cfg.Plates))
	for i, plate := range cfg.Plates {
		vehicles[i] = parking.NewVehicle(plate)
	}

	result := parking.Allocate(ctx, ipl, vehicles, r.Rand)

	if ipl.Available() == 0 {
		logging.Info(ctx, "Parking lot is full.")
	}
	logging.Info(ctx, "Allocation finished",
		"parked", len(result.Parked),
		"unparked", len(result.Unparked),
		"attempts", result.Attempts,
		"collisions", result.Collisions,
	)

	snapshot, err := ipl.Snapshot()
	if err != nil {
		return nil, failRun(span, "render snapshot", err)
	}

	if err := artifact.WriteFile(cfg.OutputPath, snapshot); err != nil {
		return nil, failRun(span, "write parking map", err)
	}
	logging.Info(ctx, "Parking map written", "path", cfg.OutputPath)

	report := &Report{
		Lot:        ipl,
		Result:     result,
		Snapshot:   snapshot,
		OutputPath: cfg.OutputPath,
	}

	if r.Uploader == nil || !cfg.UploadEnabled() {
		return report, nil
	}

	if err := r.Uploader.Upload(ctx, cfg.OutputPath, cfg.S3Bucket, cfg.S3Key); err != nil {
		span.AddEvent("upload_failed")
		logging.Error(ctx, "Error uploading parking map", "error", err)
		report.UploadErr = err
		return report, nil
	}

	report.Uploaded = true
	return report, nil
}

// failRun marks the run span as failed and names the step that failed.
func failRun(span trace.Span, step string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return fmt.Errorf("%s: %w", step, err)
}
