package application

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/domain"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/kafka"
	deliveryDomain "github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/delivery"
	journeyDomain "github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/journey"
	userDomain "github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/user"
)

var errStorage = errors.New("storage unavailable")

type fakeDeliveryRepo struct {
	mu        sync.Mutex
	items     []*deliveryDomain.DeliveryRequest
	updateErr error

	pendingQueries []deliveryDomain.PendingQuery
}

func (r *fakeDeliveryRepo) FindByID(_ context.Context, id uuid.UUID) (*deliveryDomain.DeliveryRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.items {
		if d.ID() == id {
			return d, nil
		}
	}
	return nil, domain.NewNotFoundError("delivery", id.String())
}

func (r *fakeDeliveryRepo) filter(keep func(*deliveryDomain.DeliveryRequest) bool) []*deliveryDomain.DeliveryRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*deliveryDomain.DeliveryRequest
	for _, d := range r.items {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

func (r *fakeDeliveryRepo) FindBySenderID(_ context.Context, senderID uuid.UUID, _, _ int) ([]*deliveryDomain.DeliveryRequest, int64, error) {
	out := r.filter(func(d *deliveryDomain.DeliveryRequest) bool { return d.SenderID() == senderID })
	return out, int64(len(out)), nil
}

func (r *fakeDeliveryRepo) FindByTravelerID(_ context.Context, travelerID uuid.UUID, _, _ int) ([]*deliveryDomain.DeliveryRequest, int64, error) {
	out := r.filter(func(d *deliveryDomain.DeliveryRequest) bool { return d.IsAssignedTo(travelerID) })
	return out, int64(len(out)), nil
}

func (r *fakeDeliveryRepo) FindPending(_ context.Context, q deliveryDomain.PendingQuery) ([]*deliveryDomain.DeliveryRequest, error) {
	r.mu.Lock()
	r.pendingQueries = append(r.pendingQueries, q)
	r.mu.Unlock()

	out := r.filter(func(d *deliveryDomain.DeliveryRequest) bool {
		if d.Status() != deliveryDomain.StatusPending || (q.VehicleType != "" && d.VehicleType() != q.VehicleType) {
			return false
		}
		if q.Area != nil && !(q.Area.Contains(d.Pickup().Point) && q.Area.Contains(d.Drop().Point)) {
			return false
		}
		return q.After == nil || after(d, q.After)
	})
	sort.Slice(out, func(i, j int) bool { return after(out[j], deliveryDomain.CursorAfter(out[i])) })
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// after reports whether d sorts after cursor c in (created_at, id) order.
func after(d *deliveryDomain.DeliveryRequest, c *deliveryDomain.PendingCursor) bool {
	if !d.CreatedAt().Equal(c.CreatedAt) {
		return d.CreatedAt().After(c.CreatedAt)
	}
	return d.ID().String() > c.ID.String()
}

func (r *fakeDeliveryRepo) ListAll(_ context.Context, _, _ int) ([]*deliveryDomain.DeliveryRequest, int64, error) {
	out := r.filter(func(*deliveryDomain.DeliveryRequest) bool { return true })
	return out, int64(len(out)), nil
}

func (r *fakeDeliveryRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, d := range r.filter(func(*deliveryDomain.DeliveryRequest) bool { return true }) {
		counts[string(d.Status())]++
	}
	return counts, nil
}

func (r *fakeDeliveryRepo) Save(_ context.Context, d *deliveryDomain.DeliveryRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, d)
	return nil
}

func (r *fakeDeliveryRepo) Update(_ context.Context, _ *deliveryDomain.DeliveryRequest) error {
	return r.updateErr
}

type fakeJourneyRepo struct {
	items map[uuid.UUID]*journeyDomain.Journey
}

func newFakeJourneyRepo() *fakeJourneyRepo {
	return &fakeJourneyRepo{items: make(map[uuid.UUID]*journeyDomain.Journey)}
}

func (r *fakeJourneyRepo) FindByID(_ context.Context, id uuid.UUID) (*journeyDomain.Journey, error) {
	j, ok := r.items[id]
	if !ok {
		return nil, domain.NewNotFoundError("journey", id.String())
	}
	return j, nil
}

func (r *fakeJourneyRepo) FindByTravelerID(_ context.Context, travelerID uuid.UUID) ([]*journeyDomain.Journey, error) {
	var out []*journeyDomain.Journey
	for _, j := range r.items {
		if j.IsOwnedBy(travelerID) {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].CreatedAt().After(out[b].CreatedAt()) })
	return out, nil
}

func (r *fakeJourneyRepo) Save(_ context.Context, j *journeyDomain.Journey) error {
	r.items[j.ID()] = j
	return nil
}

func (r *fakeJourneyRepo) Update(_ context.Context, j *journeyDomain.Journey) error {
	r.items[j.ID()] = j
	return nil
}

type fakeUserRepo struct {
	byID map[uuid.UUID]*userDomain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[uuid.UUID]*userDomain.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*userDomain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("user", id.String())
	}
	return u, nil
}

func (r *fakeUserRepo) FindByMobile(_ context.Context, mobile string) (*userDomain.User, error) {
	for _, u := range r.byID {
		if u.Mobile() == mobile {
			return u, nil
		}
	}
	return nil, domain.NewNotFoundError("user", mobile)
}

func (r *fakeUserRepo) Save(_ context.Context, u *userDomain.User) error {
	r.byID[u.ID()] = u
	return nil
}

type publishedEvent struct {
	topic string
	event kafka.CloudEvent
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) PublishEvent(_ context.Context, topic string, event kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{topic: topic, event: event})
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.event.Type
	}
	return out
}

func (p *fakePublisher) last() publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

type fakeOTPStore struct {
	codes map[uuid.UUID]string
	ttls  map[uuid.UUID]time.Duration
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{codes: make(map[uuid.UUID]string), ttls: make(map[uuid.UUID]time.Duration)}
}

func (s *fakeOTPStore) Save(_ context.Context, deliveryID uuid.UUID, code string, ttl time.Duration) error {
	s.codes[deliveryID] = code
	s.ttls[deliveryID] = ttl
	return nil
}

func (s *fakeOTPStore) Verify(_ context.Context, deliveryID uuid.UUID, code string) (bool, error) {
	if stored, ok := s.codes[deliveryID]; ok && stored == code {
		delete(s.codes, deliveryID)
		return true, nil
	}
	return false, nil
}
