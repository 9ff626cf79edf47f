package application

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/matching"
)

// MatchingDefaults are applied when a request does not choose a strategy or radius.
type MatchingDefaults struct {
	Strategy          matching.Strategy
	StrictRadiusKm    float64
	FlexibleRadiusKm  float64
	// CandidatePageSize is how many pending deliveries an order check loads at a time.
	CandidatePageSize int
}

const defaultCandidatePageSize = 500

func (d MatchingDefaults) pageSize() int {
	if d.CandidatePageSize <= 0 {
		return defaultCandidatePageSize
	}
	return d.CandidatePageSize
}

// DefaultMatchingDefaults mirrors the engine's own defaults.
func DefaultMatchingDefaults() MatchingDefaults {
	return MatchingDefaults{
		Strategy:          matching.StrategyStrict,
		StrictRadiusKm:    matching.DefaultStrictRadiusKm,
		FlexibleRadiusKm:  matching.DefaultFlexibleRadiusKm,
		CandidatePageSize: defaultCandidatePageSize,
	}
}

// resolve picks the strategy and radius for one request. A zero radius selects the configured
// radius of the chosen strategy. Negative or non-finite radii fail even when nothing is matched.
func (d MatchingDefaults) resolve(strategy string, radiusKm float64) (matching.Strategy, matching.Config, error) {
	s, err := matching.ParseStrategy(strategy, d.Strategy)
	if err != nil {
		return "", matching.Config{}, err
	}
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm < 0 {
		return "", matching.Config{}, fmt.Errorf("%w: radius %v must be a non-negative number", geo.ErrInvalidInput, radiusKm)
	}
	if radiusKm == 0 {
		radiusKm = d.StrictRadiusKm
		if s == matching.StrategyFlexible {
			radiusKm = d.FlexibleRadiusKm
		}
	}
	return s, matching.Config{RadiusKm: radiusKm}, nil
}

// MatchingSettings holds the current defaults and can be swapped while requests are served.
type MatchingSettings struct {
	current atomic.Pointer[MatchingDefaults]
}

// NewMatchingSettings creates MatchingSettings holding d.
func NewMatchingSettings(d MatchingDefaults) *MatchingSettings {
	s := &MatchingSettings{}
	s.Store(d)
	return s
}

// Load returns the current defaults.
func (s *MatchingSettings) Load() MatchingDefaults {
	return *s.current.Load()
}

// Store replaces the defaults.
func (s *MatchingSettings) Store(d MatchingDefaults) {
	s.current.Store(&d)
}
