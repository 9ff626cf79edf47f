package geo

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when a coordinate is non-finite or outside its valid range.
var ErrInvalidInput = errors.New("invalid input")

// Point is an immutable geographic coordinate in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewPoint creates a Point, rejecting non-finite or out-of-range values.
func NewPoint(latitude, longitude float64) (Point, error) {
	p := Point{Latitude: latitude, Longitude: longitude}
	if err := p.Validate(); err != nil {
		return Point{}, err
	}
	return p, nil
}

// Validate returns ErrInvalidInput if the latitude is outside [-90, 90], the longitude
// is outside [-180, 180], or either value is NaN or infinite.
func (p Point) Validate() error {
	if math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) {
		return fmt.Errorf("%w: latitude is not a finite number", ErrInvalidInput)
	}
	if math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) {
		return fmt.Errorf("%w: longitude is not a finite number", ErrInvalidInput)
	}
	if p.Latitude < -90 || p.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v must be between -90 and 90", ErrInvalidInput, p.Latitude)
	}
	if p.Longitude < -180 || p.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v must be between -180 and 180", ErrInvalidInput, p.Longitude)
	}
	return nil
}

// Equal reports whether both coordinates are identical.
func (p Point) Equal(other Point) bool {
	return p.Latitude == other.Latitude && p.Longitude == other.Longitude
}

// String formats the point as "lat,lng".
func (p Point) String() string {
	return fmt.Sprintf("%.6f,%.6f", p.Latitude, p.Longitude)
}
