package matching

import (
	"fmt"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/geo"
)

// Strategy selects the matching predicate.
type Strategy string

const (
	StrategyStrict   Strategy = "strict"
	StrategyFlexible Strategy = "flexible"
)

// IsValid returns true if the strategy is recognized.
func (s Strategy) IsValid() bool {
	return s == StrategyStrict || s == StrategyFlexible
}

// ParseStrategy converts a string to a Strategy. An empty string yields fallback.
func ParseStrategy(s string, fallback Strategy) (Strategy, error) {
	if s == "" {
		return fallback, nil
	}
	strategy := Strategy(s)
	if !strategy.IsValid() {
		return "", fmt.Errorf("%w: unknown matching strategy %q", geo.ErrInvalidInput, s)
	}
	return strategy, nil
}

// MatchFunc is the signature shared by the matching predicates.
type MatchFunc func(candidate DeliveryCandidate, route Route, cfg Config) (Result, error)

func (s Strategy) matcher() (MatchFunc, error) {
	switch s {
	case StrategyStrict:
		return MatchesRouteStrict, nil
	case StrategyFlexible:
		return MatchesRouteFlexible, nil
	}
	return nil, fmt.Errorf("%w: unknown matching strategy %q", geo.ErrInvalidInput, s)
}

// Match runs the predicate selected by strategy.
func Match(strategy Strategy, candidate DeliveryCandidate, route Route, cfg Config) (Result, error) {
	match, err := strategy.matcher()
	if err != nil {
		return Result{}, err
	}
	return match(candidate, route, cfg)
}
