package parking

type Slot struct {
	Index   int
	Vehicle *Vehicle
}

func NewSlot(index int) *Slot {
	return &Slot{
		Index:   index,
		Vehicle: nil,
	}
}

func (s *Slot) IsOccupied() bool {
	return s.Vehicle != nil
}

func (s *Slot) Park(vehicle *Vehicle) {
	s.Vehicle = vehicle
}

func (s *Slot) Leave() *Vehicle {
	vehicle := s.Vehicle
	s.Vehicle = nil
	return vehicle
}
