package parking

import (
	"context"
	"fmt"

	"parking-allocator/internal/logging"
)

// Assigner places a plate into a spot and reports whether it succeeded.
type Assigner interface {
	Assign(ctx context.Context, plate string, spot int) bool
}

type Vehicle struct {
	LicensePlate string
}

func NewVehicle(licensePlate string) *Vehicle {
	return &Vehicle{
		LicensePlate: licensePlate,
	}
}

func (v *Vehicle) String() string {
	return fmt.Sprintf("Car with license plate %s", v.LicensePlate)
}

// Park asks the lot for the given spot and logs the outcome.
func (v *Vehicle) Park(ctx context.Context, lot Assigner, spot int) bool {
	if lot.Assign(ctx, v.LicensePlate, spot) {
		logging.Info(ctx, fmt.Sprintf("%s parked successfully in spot %d", v, spot),
			"license_plate", v.LicensePlate,
			"spot", spot,
		)
		return true
	}

	logging.Warn(ctx, fmt.Sprintf("%s could not be parked in spot %d. Spot is unavailable.", v, spot),
		"license_plate", v.LicensePlate,
		"spot", spot,
	)
	return false
}
