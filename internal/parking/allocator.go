package parking

import (
	"context"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RandomSource picks an index in [0, n). *rand.Rand from math/rand/v2
// satisfies it.
type RandomSource interface {
	IntN(n int) int
}

type AllocationTarget interface {
	Assigner
	Capacity() int
	SpotFor(ctx context.Context, plate string) (int, bool)
}

type AllocationResult struct {
	Parked     Assignments
	Unparked   []string
	Attempts   int
	Collisions int
}

// Allocate parks vehicles in order, each into a spot drawn uniformly from
// the spots not yet known to be taken. A rejected spot is dropped from the
// pool and another is drawn. Allocation stops when every vehicle has been
// handled or the pool is empty; vehicles left over stay unparked.
func Allocate(ctx context.Context, lot AllocationTarget, vehicles []*Vehicle, rng RandomSource) *AllocationResult {
	result := &AllocationResult{
		Parked: make(Assignments),
	}

	pool := make([]int, lot.Capacity())
	for i := range pool {
		pool[i] = i
	}

	queue := slices.Clone(vehicles)
	for len(queue) > 0 && len(pool) > 0 {
		vehicle := queue[0]
		queue = queue[1:]

		// A plate already in the lot would be rejected by every spot and
		// drain the pool.
		if _, dup := lot.SpotFor(ctx, vehicle.LicensePlate); dup {
			result.Unparked = append(result.Unparked, vehicle.LicensePlate)
			continue
		}

		parked := false
		for len(pool) > 0 {
			pick := rng.IntN(len(pool))
			spot := pool[pick]
			pool = slices.Delete(pool, pick, pick+1)

			result.Attempts++
			if vehicle.Park(ctx, lot, spot) {
				result.Parked[vehicle.LicensePlate] = spot
				parked = true
				break
			}
			result.Collisions++
		}

		if !parked {
			result.Unparked = append(result.Unparked, vehicle.LicensePlate)
		}
	}

	for _, vehicle := range queue {
		result.Unparked = append(result.Unparked, vehicle.LicensePlate)
	}

	trace.SpanFromContext(ctx).AddEvent("allocation_finished", trace.WithAttributes(
		attribute.Int("vehicles.parked", len(result.Parked)),
		attribute.Int("vehicles.unparked", len(result.Unparked)),
		attribute.Int("attempts", result.Attempts),
	))

	return result
}
