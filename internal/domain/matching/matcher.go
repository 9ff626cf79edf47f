package matching

import (
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/geo"
)

// MatchesRouteStrict matches when pickup and drop both lie within the radius of the route
// segment and the pickup is not farther from the route start than the drop, so the parcel
// travels in the traveler's direction. On a degenerate route there is no direction and only
// the two distances are checked.
func MatchesRouteStrict(candidate DeliveryCandidate, route Route, cfg Config) (Result, error) {
	radius, err := cfg.radiusOr(DefaultStrictRadiusKm)
	if err != nil {
		return Result{}, err
	}
	if err := validate(candidate, route); err != nil {
		return Result{}, err
	}

	result := Result{
		PickupDistanceKm: geo.PerpendicularDistanceKm(candidate.Pickup, route.Start, route.End),
		DropDistanceKm:   geo.PerpendicularDistanceKm(candidate.Drop, route.Start, route.End),
	}
	if result.PickupDistanceKm > radius || result.DropDistanceKm > radius {
		return result, nil
	}

	if !route.IsDegenerate() {
		fromStartToPickup := geo.GreatCircleDistanceKm(route.Start, candidate.Pickup)
		fromStartToDrop := geo.GreatCircleDistanceKm(route.Start, candidate.Drop)
		if fromStartToPickup > fromStartToDrop {
			return result, nil
		}
	}

	result.Matched = true
	result.Rule = RuleStrict
	return result, nil
}

// MatchesRouteFlexible trades precision for recall. The first rule that holds wins:
//
//  1. pickup and drop are both near the segment (strict without the ordering check)
//  2. pickup is near the route start and drop is near the route end
//  3. pickup is near the route start and drop is near the segment
//  4. pickup is near the segment and drop is near the route end
//
// The reported distances are always the perpendicular ones.
func MatchesRouteFlexible(candidate DeliveryCandidate, route Route, cfg Config) (Result, error) {
	radius, err := cfg.radiusOr(DefaultFlexibleRadiusKm)
	if err != nil {
		return Result{}, err
	}
	if err := validate(candidate, route); err != nil {
		return Result{}, err
	}

	pickupToSegment := geo.PerpendicularDistanceKm(candidate.Pickup, route.Start, route.End)
	dropToSegment := geo.PerpendicularDistanceKm(candidate.Drop, route.Start, route.End)
	result := Result{
		PickupDistanceKm: pickupToSegment,
		DropDistanceKm:   dropToSegment,
	}

	pickupNearSegment := pickupToSegment <= radius
	dropNearSegment := dropToSegment <= radius
	if pickupNearSegment && dropNearSegment {
		return result.matched(RuleNearSegment), nil
	}

	pickupNearStart := geo.GreatCircleDistanceKm(candidate.Pickup, route.Start) <= radius
	dropNearEnd := geo.GreatCircleDistanceKm(candidate.Drop, route.End) <= radius

	switch {
	case pickupNearStart && dropNearEnd:
		return result.matched(RuleEndpoints), nil
	case pickupNearStart && dropNearSegment:
		return result.matched(RuleStartAndSegment), nil
	case pickupNearSegment && dropNearEnd:
		return result.matched(RuleSegmentAndEnd), nil
	}
	return result, nil
}

func (r Result) matched(rule Rule) Result {
	r.Matched = true
	r.Rule = rule
	return r
}
