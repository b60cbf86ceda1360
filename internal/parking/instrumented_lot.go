package parking

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type InstrumentedLot struct {
	*Lot
	telemetry *TelemetryProvider

	// Metrics
	assignOperations  metric.Int64Counter
	releaseOperations metric.Int64Counter
	occupancyGauge    metric.Int64UpDownCounter
	operationDuration metric.Float64Histogram
	totalSpotsGauge   metric.Int64UpDownCounter
}

func NewInstrumentedLot(lot *Lot, telemetry *TelemetryProvider) (*InstrumentedLot, error) {
	meter := telemetry.Meter()

	assignOperations, err := meter.Int64Counter("parking_assign_operations_total",
		metric.WithDescription("Total number of spot assignment attempts"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	releaseOperations, err := meter.Int64Counter("parking_release_operations_total",
		metric.WithDescription("Total number of spot release operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	occupancyGauge, err := meter.Int64UpDownCounter("parking_lot_occupancy",
		metric.WithDescription("Current number of occupied parking spots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram("operation_duration_seconds",
		metric.WithDescription("Duration of parking lot operations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	totalSpotsGauge, err := meter.Int64UpDownCounter("parking_lot_total_spots",
		metric.WithDescription("Total number of parking spots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	ipl := &InstrumentedLot{
		Lot:               lot,
		telemetry:         telemetry,
		assignOperations:  assignOperations,
		releaseOperations: releaseOperations,
		occupancyGauge:    occupancyGauge,
		operationDuration: operationDuration,
		totalSpotsGauge:   totalSpotsGauge,
	}

	totalSpotsGauge.Add(context.Background(), int64(lot.Capacity()))
	if occupied := lot.Occupied(); occupied > 0 {
		occupancyGauge.Add(context.Background(), int64(occupied))
	}

	return ipl, nil
}

func (ipl *InstrumentedLot) Assign(ctx context.Context, plate string, spot int) bool {
	ctx, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.assign",
		trace.WithAttributes(
			attribute.String("vehicle.license_plate", plate),
			attribute.Int("spot.index", spot),
		))
	defer span.End()

	start := time.Now()

	ok := ipl.Lot.Assign(plate, spot)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "assign"),
	}

	if ok {
		labels = append(labels, attribute.String("status", "success"))
		span.AddEvent("spot_assigned", trace.WithAttributes(
			attribute.Int("spot.index", spot),
		))
		ipl.occupancyGauge.Add(ctx, 1)
	} else {
		labels = append(labels, attribute.String("status", "rejected"))
		span.AddEvent("spot_rejected")
	}

	ipl.assignOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	ipl.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return ok
}

func (ipl *InstrumentedLot) Release(ctx context.Context, spot int) (*Vehicle, error) {
	ctx, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.release",
		trace.WithAttributes(
			attribute.Int("spot.index", spot),
		))
	defer span.End()

	start := time.Now()

	vehicle, err := ipl.Lot.Release(spot)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "release"),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", "failed"))
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.SetAttributes(attribute.String("vehicle.license_plate", vehicle.LicensePlate))
		span.AddEvent("spot_released")
		ipl.occupancyGauge.Add(ctx, -1)
	}

	ipl.releaseOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	ipl.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return vehicle, err
}

func (ipl *InstrumentedLot) Status(ctx context.Context) []*Slot {
	ctx, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.status")
	defer span.End()

	start := time.Now()

	occupiedSlots := ipl.Lot.Status()

	span.SetAttributes(
		attribute.Int("occupied_spots_count", len(occupiedSlots)),
		attribute.Int("total_capacity", ipl.Capacity()),
	)

	ipl.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
		attribute.String("operation", "status"),
		attribute.String("status", "success"),
	))

	return occupiedSlots
}

func (ipl *InstrumentedLot) SpotFor(ctx context.Context, plate string) (int, bool) {
	ctx, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot.spot_for",
		trace.WithAttributes(
			attribute.String("vehicle.license_plate", plate),
		))
	defer span.End()

	start := time.Now()

	spot, ok := ipl.Lot.SpotFor(plate)

	labels := []attribute.KeyValue{
		attribute.String("operation", "spot_for"),
	}

	if ok {
		span.AddEvent("vehicle_found", trace.WithAttributes(
			attribute.Int("spot.index", spot),
		))
		labels = append(labels, attribute.String("status", "found"))
	} else {
		span.AddEvent("vehicle_not_found")
		labels = append(labels, attribute.String("status", "not_found"))
	}

	ipl.operationDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(labels...))

	return spot, ok
}
