// Package matching decides whether a delivery lies on a traveler's route.
package matching

import (
	"fmt"
	"math"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/geo"
)

// Default tolerances applied when Config.RadiusKm is zero.
const (
	DefaultStrictRadiusKm   = 1.5
	DefaultFlexibleRadiusKm = 2.0
)

// Route is the straight segment between a journey's start and end.
type Route struct {
	Start geo.Point `json:"start"`
	End   geo.Point `json:"end"`
}

// IsDegenerate reports whether start and end coincide.
func (r Route) IsDegenerate() bool {
	return r.Start.Equal(r.End)
}

// Area returns a box holding every pickup or drop point that can match the route at radiusKm
// under either strategy.
func (r Route) Area(radiusKm float64) geo.BoundingBox {
	return geo.BoundingBoxAround(radiusKm, r.Start, r.End)
}

// DeliveryCandidate is the pickup and drop point of a delivery request.
type DeliveryCandidate struct {
	Pickup geo.Point `json:"pickup"`
	Drop   geo.Point `json:"drop"`
}

// Config carries the caller-supplied tolerance. A zero RadiusKm selects the default of the
// strategy in use.
type Config struct {
	RadiusKm float64 `json:"radius_km"`
}

func (c Config) radiusOr(defaultKm float64) (float64, error) {
	switch {
	case math.IsNaN(c.RadiusKm) || math.IsInf(c.RadiusKm, 0):
		return 0, fmt.Errorf("%w: radius is not a finite number", geo.ErrInvalidInput)
	case c.RadiusKm < 0:
		return 0, fmt.Errorf("%w: radius %v must not be negative", geo.ErrInvalidInput, c.RadiusKm)
	case c.RadiusKm == 0:
		return defaultKm, nil
	}
	return c.RadiusKm, nil
}

// Rule names the condition that produced a positive match.
type Rule string

const (
	RuleNone            Rule = ""
	RuleStrict          Rule = "strict"
	RuleNearSegment     Rule = "near_segment"
	RuleEndpoints       Rule = "endpoints"
	RuleStartAndSegment Rule = "start_and_segment"
	RuleSegmentAndEnd   Rule = "segment_and_end"
)

// Result is the outcome of a single match. Matched is authoritative; the distances are the
// perpendicular distances of pickup and drop to the route and are filled in regardless of
// the outcome.
type Result struct {
	Matched          bool    `json:"matched"`
	PickupDistanceKm float64 `json:"pickup_distance_km"`
	DropDistanceKm   float64 `json:"drop_distance_km"`
	Rule             Rule    `json:"rule,omitempty"`
}

func validate(candidate DeliveryCandidate, route Route) error {
	points := []struct {
		name  string
		point geo.Point
	}{
		{"route start", route.Start},
		{"route end", route.End},
		{"pickup", candidate.Pickup},
		{"drop", candidate.Drop},
	}
	for _, p := range points {
		if err := p.point.Validate(); err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
	}
	return nil
}
