// Package vehicle describes the vehicles travelers carry parcels with.
package vehicle

import "fmt"

// Type is the vehicle a traveler uses for a journey.
type Type string

const (
	GearedMotorbike Type = "geared_motorbike"
	Scooter         Type = "scooter"
	Car             Type = "car"
)

// IsValid returns true if the vehicle type is recognized.
func (t Type) IsValid() bool {
	switch t {
	case GearedMotorbike, Scooter, Car:
		return true
	}
	return false
}

// AverageSpeedKmh is the urban average used for travel time estimates.
func (t Type) AverageSpeedKmh() float64 {
	switch t {
	case GearedMotorbike:
		return 30
	case Scooter:
		return 25
	default:
		return 20
	}
}

// Parse converts a string to a Type, returning an error if invalid.
func Parse(s string) (Type, error) {
	t := Type(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid vehicle type: %s", s)
	}
	return t, nil
}
