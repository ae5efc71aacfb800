package domain

import "fmt"

// BristolType is a Bristol stool scale classification, 1 (hard lumps) to 7 (watery).
type BristolType int

const (
	BristolMin BristolType = 1
	BristolMax BristolType = 7

	// BristolTypes is the number of classifications on the scale.
	BristolTypes = int(BristolMax)
)

func (t BristolType) Valid() bool {
	return t >= BristolMin && t <= BristolMax
}

// Index maps a valid type to a zero-based table index.
func (t BristolType) Index() int {
	return int(t) - 1
}

// Constipated reports whether the type leans toward constipation (types 1-3).
func (t BristolType) Constipated() bool {
	return t <= 3
}

// Loose reports whether the type leans toward diarrhea (types 5-7).
func (t BristolType) Loose() bool {
	return t >= 5
}

// Severe reports the two ends of the scale.
func (t BristolType) Severe() bool {
	return t == 1 || t == 7
}

// ParseBristolType validates a raw value from the request boundary.
func ParseBristolType(v int) (BristolType, error) {
	t := BristolType(v)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidBristolType, v)
	}
	return t, nil
}
