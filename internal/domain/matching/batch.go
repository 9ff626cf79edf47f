package matching

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MatchAll evaluates one route against many delivery candidates in parallel. The returned
// slice is index-aligned with candidates. The first invalid input cancels the remaining work
// and is returned; ctx only bounds the batch as a whole.
func MatchAll(ctx context.Context, strategy Strategy, route Route, candidates []DeliveryCandidate, cfg Config) ([]Result, error) {
	match, err := strategy.matcher()
	if err != nil {
		return nil, err
	}

	return fanOut(ctx, len(candidates), func(i int) (Result, error) {
		res, err := match(candidates[i], route, cfg)
		if err != nil {
			return Result{}, fmt.Errorf("candidate %d: %w", i, err)
		}
		return res, nil
	})
}

// MatchRoutes evaluates one delivery candidate against many routes in parallel. The returned
// slice is index-aligned with routes.
func MatchRoutes(ctx context.Context, strategy Strategy, candidate DeliveryCandidate, routes []Route, cfg Config) ([]Result, error) {
	match, err := strategy.matcher()
	if err != nil {
		return nil, err
	}

	return fanOut(ctx, len(routes), func(i int) (Result, error) {
		res, err := match(candidate, routes[i], cfg)
		if err != nil {
			return Result{}, fmt.Errorf("route %d: %w", i, err)
		}
		return res, nil
	})
}

func fanOut(ctx context.Context, n int, evaluate func(i int) (Result, error)) ([]Result, error) {
	results := make([]Result, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := 0; i < n; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := evaluate(i)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
