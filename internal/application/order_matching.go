package application

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/domain"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/contracts/dto"
	deliveryDomain "github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/delivery"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/geo"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/matching"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/vehicle"
)

// CheckOrdersRequest describes a trip a traveler wants to carry deliveries along.
type CheckOrdersRequest struct {
	StartLocation dto.LocationDTO `json:"start_location"`
	EndLocation   dto.LocationDTO `json:"end_location"`
	VehicleType   string          `json:"vehicle_type"`
	Strategy      string          `json:"strategy"`
	RadiusKm      float64         `json:"radius_km"`
}

// MatchedDeliveryDTO is a pending delivery that lies on the traveler's route.
type MatchedDeliveryDTO struct {
	Delivery DeliveryDTO     `json:"delivery"`
	Match    matching.Result `json:"match"`
}

// CheckAvailableOrders returns the pending deliveries on the requested route, closest first.
func (s *DeliveryService) CheckAvailableOrders(ctx context.Context, travelerID uuid.UUID, req CheckOrdersRequest) ([]MatchedDeliveryDTO, error) {
	start, err := toLocation("start_location", req.StartLocation)
	if err != nil {
		return nil, err
	}
	end, err := toLocation("end_location", req.EndLocation)
	if err != nil {
		return nil, err
	}

	var vt vehicle.Type
	if req.VehicleType != "" {
		vt, err = vehicle.Parse(req.VehicleType)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
	}

	route := matching.Route{Start: start.Point, End: end.Point}
	return s.matchPending(ctx, travelerID, route, vt, req.Strategy, req.RadiusKm)
}

// CheckJourneyOrders runs the order check against one of the traveler's active journeys, using the
// journey's vehicle type.
func (s *DeliveryService) CheckJourneyOrders(ctx context.Context, travelerID, journeyID uuid.UUID, strategy string, radiusKm float64) ([]MatchedDeliveryDTO, error) {
	j, err := s.journeyRepo.FindByID(ctx, journeyID)
	if err != nil {
		return nil, err
	}
	if !j.IsOwnedBy(travelerID) {
		return nil, domain.NewForbiddenError("journey does not belong to this traveler")
	}
	if !j.IsActive() {
		return nil, domain.NewValidationError(fmt.Sprintf("journey is %s", j.Status()))
	}
	return s.matchPending(ctx, travelerID, j.Route(), j.VehicleType(), strategy, radiusKm)
}

func (s *DeliveryService) matchPending(
	ctx context.Context,
	travelerID uuid.UUID,
	route matching.Route,
	vt vehicle.Type,
	strategy string,
	radiusKm float64,
) ([]MatchedDeliveryDTO, error) {
	defaults := s.settings.Load()
	strat, cfg, err := defaults.resolve(strategy, radiusKm)
	if err != nil {
		return nil, err
	}

	area := route.Area(cfg.RadiusKm)
	query := deliveryDomain.PendingQuery{
		VehicleType: vt,
		Area:        &area,
		Limit:       defaults.pageSize(),
	}

	matched := make([]MatchedDeliveryDTO, 0)
	evaluated, pages := 0, 0
	for {
		page, err := s.repo.FindPending(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("failed to load pending deliveries: %w", err)
		}
		pages++

		found, n, err := matchPage(ctx, travelerID, route, strat, cfg, page)
		if err != nil {
			return nil, err
		}
		matched = append(matched, found...)
		evaluated += n

		if len(page) < query.Limit {
			break
		}
		query.After = deliveryDomain.CursorAfter(page[len(page)-1])
	}

	sort.SliceStable(matched, func(a, b int) bool {
		return detourKm(matched[a].Match) < detourKm(matched[b].Match)
	})

	s.logger.Debug("order check evaluated",
		zap.String("traveler_id", travelerID.String()),
		zap.String("strategy", string(strat)),
		zap.Float64("radius_km", cfg.RadiusKm),
		zap.Int("pages", pages),
		zap.Int("candidates", evaluated),
		zap.Int("matched", len(matched)),
	)
	return matched, nil
}

// matchPage runs the matcher over one page and returns the matches and the number of
// deliveries evaluated.
func matchPage(
	ctx context.Context,
	travelerID uuid.UUID,
	route matching.Route,
	strat matching.Strategy,
	cfg matching.Config,
	page []*deliveryDomain.DeliveryRequest,
) ([]MatchedDeliveryDTO, int, error) {
	// A sender who also travels never sees their own parcels.
	candidates := make([]matching.DeliveryCandidate, 0, len(page))
	eligible := make([]*deliveryDomain.DeliveryRequest, 0, len(page))
	for _, d := range page {
		if d.SenderID() == travelerID {
			continue
		}
		eligible = append(eligible, d)
		candidates = append(candidates, d.Candidate())
	}

	results, err := matching.MatchAll(ctx, strat, route, candidates, cfg)
	if err != nil {
		return nil, 0, err
	}

	var matched []MatchedDeliveryDTO
	for i, r := range results {
		if r.Matched {
			matched = append(matched, MatchedDeliveryDTO{Delivery: toDeliveryDTO(eligible[i]), Match: r})
		}
	}
	return matched, len(candidates), nil
}

func detourKm(r matching.Result) float64 {
	return r.PickupDistanceKm + r.DropDistanceKm
}

// RouteDTO is the traveler's trip in a match request.
type RouteDTO struct {
	Start dto.PointDTO `json:"start"`
	End   dto.PointDTO `json:"end"`
}

// CandidateDTO is the delivery being checked in a match request.
type CandidateDTO struct {
	Pickup dto.PointDTO `json:"pickup"`
	Drop   dto.PointDTO `json:"drop"`
}

// MatchRequest evaluates one delivery against one route without touching storage.
type MatchRequest struct {
	Strategy  string       `json:"strategy"`
	Route     RouteDTO     `json:"route"`
	Candidate CandidateDTO `json:"candidate"`
	RadiusKm  float64      `json:"radius_km"`
}

// toPoint only checks presence; the matcher range-checks the coordinates.
func toPoint(field string, p dto.PointDTO) (geo.Point, error) {
	if p.Latitude == nil || p.Longitude == nil {
		return geo.Point{}, domain.NewValidationError(field + ": latitude and longitude are required")
	}
	return geo.Point{Latitude: *p.Latitude, Longitude: *p.Longitude}, nil
}

func (r MatchRequest) points() (matching.Route, matching.DeliveryCandidate, error) {
	var (
		route     matching.Route
		candidate matching.DeliveryCandidate
		err       error
	)
	if route.Start, err = toPoint("route.start", r.Route.Start); err != nil {
		return route, candidate, err
	}
	if route.End, err = toPoint("route.end", r.Route.End); err != nil {
		return route, candidate, err
	}
	if candidate.Pickup, err = toPoint("candidate.pickup", r.Candidate.Pickup); err != nil {
		return route, candidate, err
	}
	if candidate.Drop, err = toPoint("candidate.drop", r.Candidate.Drop); err != nil {
		return route, candidate, err
	}
	return route, candidate, nil
}

// MatchResponse echoes the strategy and radius that were applied.
type MatchResponse struct {
	Strategy matching.Strategy `json:"strategy"`
	RadiusKm float64           `json:"radius_km"`
	matching.Result
}

// MatchService exposes the route matcher directly.
type MatchService struct {
	settings *MatchingSettings
}

// NewMatchService creates a new MatchService.
func NewMatchService(settings *MatchingSettings) *MatchService {
	return &MatchService{settings: settings}
}

// Evaluate runs the selected strategy. Invalid coordinates surface as geo.ErrInvalidInput.
func (s *MatchService) Evaluate(req MatchRequest) (*MatchResponse, error) {
	strat, cfg, err := s.settings.Load().resolve(req.Strategy, req.RadiusKm)
	if err != nil {
		return nil, err
	}
	route, candidate, err := req.points()
	if err != nil {
		return nil, err
	}
	result, err := matching.Match(strat, candidate, route, cfg)
	if err != nil {
		return nil, err
	}
	return &MatchResponse{Strategy: strat, RadiusKm: cfg.RadiusKm, Result: result}, nil
}
