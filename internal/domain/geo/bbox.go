package geo

import "math"

// boxSlackDeg keeps points exactly on the radius inside the box despite rounding.
const boxSlackDeg = 1e-9

// BoundingBox is a latitude/longitude rectangle in decimal degrees. When AllLongitudes is set
// the longitude bounds are ignored.
type BoundingBox struct {
	MinLat        float64
	MaxLat        float64
	MinLng        float64
	MaxLng        float64
	AllLongitudes bool
}

// BoundingBoxAround returns a box holding every point within radiusKm great-circle distance of
// the rectangle spanned by points. It may hold farther points too, never fewer. A box that
// reaches a pole or crosses the antimeridian covers all longitudes.
func BoundingBoxAround(radiusKm float64, points ...Point) BoundingBox {
	if len(points) == 0 {
		return BoundingBox{MinLat: -90, MaxLat: 90, MinLng: -180, MaxLng: 180, AllLongitudes: true}
	}

	minLat, maxLat := points[0].Latitude, points[0].Latitude
	minLng, maxLng := points[0].Longitude, points[0].Longitude
	for _, p := range points[1:] {
		minLat = math.Min(minLat, p.Latitude)
		maxLat = math.Max(maxLat, p.Latitude)
		minLng = math.Min(minLng, p.Longitude)
		maxLng = math.Max(maxLng, p.Longitude)
	}

	// Haversine gives d/R >= |dLat| and sin(d/2R) >= cos(maxAbsLat)*sin(|dLng|/2).
	angle := math.Max(radiusKm, 0) / EarthRadiusKm
	dLat := radiansToDegrees(angle) + boxSlackDeg

	box := BoundingBox{
		MinLat: math.Max(-90, minLat-dLat),
		MaxLat: math.Min(90, maxLat+dLat),
		MinLng: -180,
		MaxLng: 180,
	}

	extreme := math.Max(math.Abs(box.MinLat), math.Abs(box.MaxLat))
	ratio := math.Sin(angle/2) / math.Cos(degreesToRadians(extreme))
	if angle >= math.Pi || extreme >= 90 || ratio >= 1 {
		box.AllLongitudes = true
		return box
	}

	dLng := radiansToDegrees(2*math.Asin(ratio)) + boxSlackDeg
	if minLng-dLng < -180 || maxLng+dLng > 180 {
		box.AllLongitudes = true
		return box
	}
	box.MinLng = minLng - dLng
	box.MaxLng = maxLng + dLng
	return box
}

// Contains reports whether p lies inside the box, edges included.
func (b BoundingBox) Contains(p Point) bool {
	if p.Latitude < b.MinLat || p.Latitude > b.MaxLat {
		return false
	}
	return b.AllLongitudes || (p.Longitude >= b.MinLng && p.Longitude <= b.MaxLng)
}

func radiansToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}
