package shared

import "regexp"

// coordinatePattern matches universe coordinates like "A00:00:00:01":
// galaxy letter, then sector, system and orbital position as two-digit pairs.
var coordinatePattern = regexp.MustCompile(`^[A-Z][0-9]{2}:[0-9]{2}:[0-9]{2}:[0-9]{2}$`)

// Coordinate is a value object identifying a celestial body in the universe.
// Bases are keyed by the coordinate of the body they occupy.
type Coordinate struct {
	value string
}

// NewCoordinate creates a Coordinate, validating the canonical format
func NewCoordinate(coord string) (Coordinate, error) {
	if !coordinatePattern.MatchString(coord) {
		return Coordinate{}, NewInvalidArgumentError("coordinate", "must match format A00:00:00:01")
	}
	return Coordinate{value: coord}, nil
}

// MustNewCoordinate creates a Coordinate, panicking if invalid.
// Use this only when the coordinate is known valid (e.g., from the database).
func MustNewCoordinate(coord string) Coordinate {
	c, err := NewCoordinate(coord)
	if err != nil {
		panic(err)
	}
	return c
}

// Value returns the string value of the Coordinate
func (c Coordinate) Value() string {
	return c.value
}

// String returns the canonical string form
func (c Coordinate) String() string {
	return c.value
}

// Equals checks if two Coordinates refer to the same body
func (c Coordinate) Equals(other Coordinate) bool {
	return c.value == other.value
}

// IsZero checks if the Coordinate is the zero value (uninitialized)
func (c Coordinate) IsZero() bool {
	return c.value == ""
}
