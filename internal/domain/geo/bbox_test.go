package geo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundingBoxAround_RouteArea(t *testing.T) {
	box := BoundingBoxAround(2, mgRoad, koramanga)

	assert.False(t, box.AllLongitudes)
	assert.Less(t, box.MinLat, koramanga.Latitude)
	assert.Greater(t, box.MaxLat, mgRoad.Latitude)
	assert.True(t, box.Contains(mgRoad))
	assert.True(t, box.Contains(koramanga))
	assert.True(t, box.Contains(Point{Latitude: 12.9716, Longitude: 77.5826}))

	whitefield := Point{Latitude: 12.9698, Longitude: 77.7500}
	hebbal := Point{Latitude: 13.0358, Longitude: 77.5970}
	assert.False(t, box.Contains(whitefield))
	assert.False(t, box.Contains(hebbal))
}

func TestBoundingBoxAround_EdgeOfRadius(t *testing.T) {
	radius := 1.5
	box := BoundingBoxAround(radius, mgRoad)

	north := Point{Latitude: mgRoad.Latitude + radiansToDegrees(radius/EarthRadiusKm), Longitude: mgRoad.Longitude}
	assert.InDelta(t, radius, GreatCircleDistanceKm(mgRoad, north), 1e-9)
	assert.True(t, box.Contains(north))

	justOutside := Point{Latitude: north.Latitude + 0.001, Longitude: mgRoad.Longitude}
	assert.False(t, box.Contains(justOutside))
}

// Every point the matcher could accept must survive the box pre-filter.
func TestBoundingBoxAround_HoldsEveryNearbyPoint(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		start := Point{Latitude: rng.Float64()*140 - 70, Longitude: rng.Float64()*340 - 170}
		end := Point{
			Latitude:  start.Latitude + rng.Float64()*0.1 - 0.05,
			Longitude: start.Longitude + rng.Float64()*0.1 - 0.05,
		}
		radius := 0.5 + rng.Float64()*2
		box := BoundingBoxAround(radius, start, end)

		p := Point{
			Latitude:  start.Latitude + rng.Float64()*0.2 - 0.1,
			Longitude: start.Longitude + rng.Float64()*0.2 - 0.1,
		}
		if PerpendicularDistanceKm(p, start, end) <= radius || GreatCircleDistanceKm(p, start) <= radius {
			assert.True(t, box.Contains(p), "route %v-%v radius %.3f point %v", start, end, radius, p)
		}
	}
}

func TestBoundingBoxAround_AllLongitudes(t *testing.T) {
	nearAntimeridian := BoundingBoxAround(2, Point{Latitude: 0, Longitude: 179.99})
	assert.True(t, nearAntimeridian.AllLongitudes)
	assert.True(t, nearAntimeridian.Contains(Point{Latitude: 0, Longitude: -179.99}))

	nearPole := BoundingBoxAround(2, Point{Latitude: 89.99, Longitude: 10})
	assert.True(t, nearPole.AllLongitudes)
	assert.Equal(t, 90.0, nearPole.MaxLat)

	empty := BoundingBoxAround(2)
	assert.True(t, empty.Contains(Point{Latitude: -45, Longitude: 120}))
}
