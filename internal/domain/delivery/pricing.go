package delivery

import "fmt"

// PricingStrategy defines the interface for calculating delivery prices.
type PricingStrategy interface {
	// Calculate returns the price in paise for the given parameters.
	Calculate(params PricingParams) (int64, error)
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	DistanceKm  float64
	PackageSize PackageSize
}

// FlatSizePricingStrategy charges a fixed fare per package size regardless of distance.
type FlatSizePricingStrategy struct{}

// NewFlatSizePricingStrategy creates a new FlatSizePricingStrategy.
func NewFlatSizePricingStrategy() *FlatSizePricingStrategy {
	return &FlatSizePricingStrategy{}
}

// Calculate returns INR 50 for S, INR 100 for M and INR 200 for L, in paise.
func (s *FlatSizePricingStrategy) Calculate(params PricingParams) (int64, error) {
	if params.DistanceKm < 0 {
		return 0, fmt.Errorf("distance cannot be negative")
	}

	switch params.PackageSize {
	case PackageSmall:
		return 5000, nil
	case PackageMedium:
		return 10000, nil
	case PackageLarge:
		return 20000, nil
	default:
		return 0, fmt.Errorf("unknown package size for pricing: %s", params.PackageSize)
	}
}
