package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/geo"
)

func TestMatchAll_IndexAligned(t *testing.T) {
	reversed := DeliveryCandidate{Pickup: alongRoute.Drop, Drop: alongRoute.Pickup}
	farOff := DeliveryCandidate{
		Pickup: bengaluruRoute.Start,
		Drop:   geo.Point{Latitude: 12.9833, Longitude: 77.6459},
	}

	candidates := []DeliveryCandidate{alongRoute, reversed, farOff, alongRoute}

	results, err := MatchAll(context.Background(), StrategyStrict, bengaluruRoute, candidates, Config{})
	require.NoError(t, err)
	require.Len(t, results, len(candidates))

	for i, candidate := range candidates {
		want, err := MatchesRouteStrict(candidate, bengaluruRoute, Config{})
		require.NoError(t, err)
		assert.Equal(t, want, results[i], "candidate %d", i)
	}
	assert.True(t, results[0].Matched)
	assert.False(t, results[1].Matched)
	assert.False(t, results[2].Matched)
}

func TestMatchAll_InvalidCandidate(t *testing.T) {
	candidates := []DeliveryCandidate{
		alongRoute,
		{Pickup: geo.Point{Latitude: -95, Longitude: 0}, Drop: alongRoute.Drop},
	}

	results, err := MatchAll(context.Background(), StrategyFlexible, bengaluruRoute, candidates, Config{})
	assert.ErrorIs(t, err, geo.ErrInvalidInput)
	assert.Contains(t, err.Error(), "candidate 1")
	assert.Nil(t, results)
}

func TestMatchAll_UnknownStrategy(t *testing.T) {
	_, err := MatchAll(context.Background(), Strategy("nearest"), bengaluruRoute, []DeliveryCandidate{alongRoute}, Config{})
	assert.ErrorIs(t, err, geo.ErrInvalidInput)
}

func TestMatchAll_Empty(t *testing.T) {
	results, err := MatchAll(context.Background(), StrategyStrict, bengaluruRoute, nil, Config{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMatchAll_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := MatchAll(ctx, StrategyStrict, bengaluruRoute, []DeliveryCandidate{alongRoute, alongRoute}, Config{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMatchRoutes(t *testing.T) {
	opposite := Route{Start: bengaluruRoute.End, End: bengaluruRoute.Start}
	elsewhere := Route{
		Start: geo.Point{Latitude: 13.0827, Longitude: 80.2707},
		End:   geo.Point{Latitude: 13.0500, Longitude: 80.2500},
	}

	results, err := MatchRoutes(context.Background(), StrategyStrict, alongRoute,
		[]Route{bengaluruRoute, opposite, elsewhere}, Config{})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].Matched)
	assert.False(t, results[1].Matched, "same segment travelled the other way")
	assert.False(t, results[2].Matched)
	assert.Greater(t, results[2].PickupDistanceKm, 100.0)

	_, err = MatchRoutes(context.Background(), StrategyStrict, alongRoute,
		[]Route{bengaluruRoute, {Start: geo.Point{Latitude: 0, Longitude: 200}}}, Config{})
	assert.ErrorIs(t, err, geo.ErrInvalidInput)
	assert.Contains(t, err.Error(), "route 1")
}

func BenchmarkMatchAll(b *testing.B) {
	candidates := make([]DeliveryCandidate, 1000)
	for i := range candidates {
		candidates[i] = alongRoute
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = MatchAll(ctx, StrategyFlexible, bengaluruRoute, candidates, Config{})
	}
}
