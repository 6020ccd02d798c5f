package astro

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is matched by every *InputError.
var ErrInvalidInput = errors.New("invalid input")

// InputError reports a coordinate or date the solver cannot represent.
// Callers must not use any partial output when they receive one.
type InputError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is(err, ErrInvalidInput) match any InputError.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Location is an observer on the Earth's surface. It is a comparable value:
// replace it, do not mutate it while a calculation is using it.
type Location struct {
	Latitude  float64 // degrees, north positive
	Longitude float64 // degrees, east positive
	Elevation float64 // metres above sea level
}

// minElevation is the shore of the Dead Sea, rounded down.
const minElevation = -500

// Validate checks that every field is finite and in range.
func (l Location) Validate() error {
	switch {
	case math.IsNaN(l.Latitude) || l.Latitude < -90 || l.Latitude > 90:
		return &InputError{Field: "latitude", Value: l.Latitude, Reason: "must be between -90 and 90"}
	case math.IsNaN(l.Longitude) || l.Longitude < -180 || l.Longitude > 180:
		return &InputError{Field: "longitude", Value: l.Longitude, Reason: "must be between -180 and 180"}
	case math.IsNaN(l.Elevation) || math.IsInf(l.Elevation, 0) || l.Elevation < minElevation:
		return &InputError{Field: "elevation", Value: l.Elevation, Reason: "must be a finite height above -500 m"}
	}
	return nil
}

func (l Location) String() string {
	return fmt.Sprintf("%.4f, %.4f", l.Latitude, l.Longitude)
}
