package parking

import (
	"encoding/json"
	"fmt"
)

// FormatAssignments encodes the plate to spot mapping as JSON indented with
// two spaces. encoding/json sorts map keys, so equal maps give equal bytes.
func FormatAssignments(assignments Assignments) ([]byte, error) {
	if assignments == nil {
		assignments = Assignments{}
	}

	data, err := json.MarshalIndent(assignments, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode assignments: %w", err)
	}
	return data, nil
}

func ParseAssignments(data []byte) (Assignments, error) {
	assignments := Assignments{}
	if err := json.Unmarshal(data, &assignments); err != nil {
		return nil, fmt.Errorf("decode assignments: %w", err)
	}
	return assignments, nil
}
