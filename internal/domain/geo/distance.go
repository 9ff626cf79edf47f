// Package geo holds the distance primitives used by route matching.
package geo

import "math"

// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
const EarthRadiusKm = 6371.0

// GreatCircleDistanceKm returns the Haversine distance between a and b in kilometres.
// Inputs are expected to be valid (see Point.Validate).
func GreatCircleDistanceKm(a, b Point) float64 {
	lat1 := degreesToRadians(a.Latitude)
	lat2 := degreesToRadians(b.Latitude)
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLng := degreesToRadians(b.Longitude - a.Longitude)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(lat1)*math.Cos(lat2)*sinLng*sinLng

	// Rounding can push h slightly outside [0, 1] for antipodal points.
	h = math.Max(0, math.Min(1, h))

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ProjectOntoSegment returns the point of segment [start, end] closest to p together with
// the clamped projection parameter t in [0, 1].
//
// The projection treats latitude/longitude as planar coordinates. That is only a fair
// approximation over a few kilometres away from the poles and the antimeridian; do not reuse
// it for long segments.
func ProjectOntoSegment(p, start, end Point) (Point, float64) {
	cLat := end.Latitude - start.Latitude
	cLng := end.Longitude - start.Longitude
	aLat := p.Latitude - start.Latitude
	aLng := p.Longitude - start.Longitude

	var t float64
	if lengthSq := cLat*cLat + cLng*cLng; lengthSq != 0 {
		t = (aLat*cLat + aLng*cLng) / lengthSq
	}
	t = math.Max(0, math.Min(1, t))

	return Point{
		Latitude:  start.Latitude + t*cLat,
		Longitude: start.Longitude + t*cLng,
	}, t
}

// PerpendicularDistanceKm returns the distance in kilometres from p to the segment
// [start, end]. The closest point is found with the planar projection of ProjectOntoSegment
// and then measured with GreatCircleDistanceKm, so the result is in the same unit as every
// other distance here. A degenerate segment (start == end) yields the distance to start.
func PerpendicularDistanceKm(p, start, end Point) float64 {
	closest, _ := ProjectOntoSegment(p, start, end)
	return GreatCircleDistanceKm(p, closest)
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
