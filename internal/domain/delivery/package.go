package delivery

import (
	"fmt"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/vehicle"
)

// PackageSize is the parcel size class chosen by the sender.
type PackageSize string

const (
	PackageSmall  PackageSize = "S"
	PackageMedium PackageSize = "M"
	PackageLarge  PackageSize = "L"
)

// IsValid returns true if the package size is recognized.
func (p PackageSize) IsValid() bool {
	switch p {
	case PackageSmall, PackageMedium, PackageLarge:
		return true
	}
	return false
}

// RequiredVehicle returns the vehicle class able to carry the package: small parcels ride on a
// geared motorbike, medium ones need a scooter's footboard, large ones need a car.
func (p PackageSize) RequiredVehicle() (vehicle.Type, error) {
	switch p {
	case PackageSmall:
		return vehicle.GearedMotorbike, nil
	case PackageMedium:
		return vehicle.Scooter, nil
	case PackageLarge:
		return vehicle.Car, nil
	}
	return "", fmt.Errorf("unknown package size: %s", p)
}

// RouteSpecification is a value object describing the straight-line trip from pickup to drop.
type RouteSpecification struct {
	DistanceKm           float64 `json:"distance_km"`
	EstimatedDurationMin int     `json:"estimated_duration_min"`
}

// Payment is the amount owed by the sender and whether it has been settled.
type Payment struct {
	AmountCents int64         `json:"amount_cents"`
	Currency    string        `json:"currency"`
	Status      PaymentStatus `json:"status"`
}
