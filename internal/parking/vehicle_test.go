package parking

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"parking-allocator/internal/logging"
)

type recordingAssigner struct {
	result bool
	plates []string
	spots  []int
}

func (r *recordingAssigner) Assign(_ context.Context, plate string, spot int) bool {
	r.plates = append(r.plates, plate)
	r.spots = append(r.spots, spot)
	return r.result
}

func TestNewVehicle(t *testing.T) {
	vehicle := NewVehicle("ABC1234")

	if vehicle.LicensePlate != "ABC1234" {
		t.Errorf("Expected license plate ABC1234, got %s", vehicle.LicensePlate)
	}

	if vehicle.String() != "Car with license plate ABC1234" {
		t.Errorf("Unexpected string form %q", vehicle.String())
	}
}

func TestVehicleParkDelegates(t *testing.T) {
	var buf bytes.Buffer
	logging.InitWithWriter(&buf, "test", "test")

	assigner := &recordingAssigner{result: true}
	ok := NewVehicle("ABC1234").Park(context.Background(), assigner, 4)

	assert.True(t, ok)
	assert.Equal(t, []string{"ABC1234"}, assigner.plates)
	assert.Equal(t, []int{4}, assigner.spots)
	assert.Contains(t, buf.String(), "Car with license plate ABC1234 parked successfully in spot 4")
}

func TestVehicleParkReportsFailure(t *testing.T) {
	var buf bytes.Buffer
	logging.InitWithWriter(&buf, "test", "test")

	ok := NewVehicle("XYZ5678").Park(context.Background(), &recordingAssigner{result: false}, 1)

	assert.False(t, ok)
	assert.Contains(t, buf.String(), "could not be parked in spot 1")
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestVehicleParkAgainstLot(t *testing.T) {
	ipl := newTestInstrumentedLot(t, 2)
	ctx := context.Background()

	assert.True(t, NewVehicle("ABC1234").Park(ctx, ipl, 1))
	assert.False(t, NewVehicle("XYZ5678").Park(ctx, ipl, 1))
	assert.Equal(t, Assignments{"ABC1234": 1}, ipl.Assignments())
}
