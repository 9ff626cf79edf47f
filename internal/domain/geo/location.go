package geo

import (
	"fmt"
	"strings"
)

// Location is a coordinate with the address a user typed for it.
type Location struct {
	Address string `json:"address"`
	Point
}

// NewLocation validates the coordinate and requires a non-blank address.
func NewLocation(address string, lat, lng float64) (Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Location{}, fmt.Errorf("%w: address is required", ErrInvalidInput)
	}
	p, err := NewPoint(lat, lng)
	if err != nil {
		return Location{}, err
	}
	return Location{Address: address, Point: p}, nil
}
