package parking

import (
	"errors"
	"maps"
	"math"
)

var (
	ErrInvalidSpotSize = errors.New("spot length and width must be positive and their product must fit in an int")
	ErrSpotOutOfRange  = errors.New("spot index out of range")
	ErrSpotEmpty       = errors.New("spot is already empty")
)

// Assignments maps a license plate to the index of the spot it occupies.
type Assignments map[string]int

// Lot is a fixed set of equally sized spots. Spot indices run from 0 to
// capacity-1 and the capacity never changes after construction.
//
// A Lot is not safe for concurrent use.
type Lot struct {
	capacity    int
	slots       []*Slot
	assignments Assignments
}

// NewLot sizes a lot from its floor area and the footprint of one spot.
// A floor area smaller than one spot gives a lot with no usable spots.
func NewLot(floorArea, spotLength, spotWidth int) (*Lot, error) {
	if spotLength <= 0 || spotWidth <= 0 {
		return nil, ErrInvalidSpotSize
	}
	if spotLength > math.MaxInt/spotWidth {
		return nil, ErrInvalidSpotSize
	}
	return NewLotWithCapacity(floorArea / (spotLength * spotWidth)), nil
}

func NewLotWithCapacity(capacity int) *Lot {
	if capacity < 0 {
		capacity = 0
	}

	slots := make([]*Slot, capacity)
	for i := 0; i < capacity; i++ {
		slots[i] = NewSlot(i)
	}

	return &Lot{
		capacity:    capacity,
		slots:       slots,
		assignments: make(Assignments),
	}
}

func (l *Lot) Capacity() int {
	return l.capacity
}

func (l *Lot) Occupied() int {
	return len(l.assignments)
}

func (l *Lot) Available() int {
	return l.capacity - len(l.assignments)
}

// Assign parks the plate in the given spot. It reports false without
// touching the lot when the index is out of range, the spot is taken, or
// the plate is already parked elsewhere.
func (l *Lot) Assign(plate string, spot int) bool {
	if spot < 0 || spot >= l.capacity {
		return false
	}

	slot := l.slots[spot]
	if slot.IsOccupied() {
		return false
	}

	if _, parked := l.assignments[plate]; parked {
		return false
	}

	slot.Park(NewVehicle(plate))
	l.assignments[plate] = spot
	return true
}

func (l *Lot) Release(spot int) (*Vehicle, error) {
	if spot < 0 || spot >= l.capacity {
		return nil, ErrSpotOutOfRange
	}

	slot := l.slots[spot]
	if !slot.IsOccupied() {
		return nil, ErrSpotEmpty
	}

	vehicle := slot.Leave()
	delete(l.assignments, vehicle.LicensePlate)
	return vehicle, nil
}

func (l *Lot) SpotFor(plate string) (int, bool) {
	spot, ok := l.assignments[plate]
	return spot, ok
}

func (l *Lot) Slots() []*Slot {
	slots := make([]*Slot, len(l.slots))
	copy(slots, l.slots)
	return slots
}

// Status returns the occupied slots in index order.
func (l *Lot) Status() []*Slot {
	var occupiedSlots []*Slot
	for _, slot := range l.slots {
		if slot.IsOccupied() {
			occupiedSlots = append(occupiedSlots, slot)
		}
	}
	return occupiedSlots
}

func (l *Lot) Assignments() Assignments {
	return maps.Clone(l.assignments)
}

// Snapshot renders the current assignments as indented JSON.
func (l *Lot) Snapshot() ([]byte, error) {
	return FormatAssignments(l.assignments)
}
