package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/domain"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/contracts/events"
)

func journeyRequest() CreateJourneyRequest {
	return CreateJourneyRequest{
		StartLocation: location("MG Road", 12.9716, 77.5946),
		EndLocation:   location("Koramangala", 12.9352, 77.6245),
		VehicleType:   "scooter",
	}
}

func TestCreateJourney(t *testing.T) {
	repo := newFakeJourneyRepo()
	publisher := &fakePublisher{}
	svc := NewJourneyService(repo, publisher, zap.NewNop())
	traveler := uuid.New()

	got, err := svc.CreateJourney(context.Background(), traveler, journeyRequest())
	require.NoError(t, err)
	assert.Equal(t, traveler, got.TravelerID)
	assert.Equal(t, "active", got.Status)
	assert.Equal(t, "scooter", got.VehicleType)
	assert.Equal(t, "MG Road", got.StartLocation.Address)

	ev := publisher.last()
	assert.Equal(t, events.TopicJourneyEvents, ev.topic)
	assert.Equal(t, events.JourneyCreated, ev.event.Type)

	mine, err := svc.GetMyJourneys(context.Background(), traveler)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, got.ID, mine[0].ID)
}

func TestCreateJourney_Invalid(t *testing.T) {
	svc := NewJourneyService(newFakeJourneyRepo(), &fakePublisher{}, zap.NewNop())
	var validationErr *domain.ValidationError

	req := journeyRequest()
	req.VehicleType = "bicycle"
	_, err := svc.CreateJourney(context.Background(), uuid.New(), req)
	assert.ErrorAs(t, err, &validationErr)

	req = journeyRequest()
	req.StartLocation.Address = "  "
	_, err = svc.CreateJourney(context.Background(), uuid.New(), req)
	assert.ErrorAs(t, err, &validationErr)
}

func TestUpdateJourneyStatus(t *testing.T) {
	svc := NewJourneyService(newFakeJourneyRepo(), &fakePublisher{}, zap.NewNop())
	ctx := context.Background()
	traveler := uuid.New()

	created, err := svc.CreateJourney(ctx, traveler, journeyRequest())
	require.NoError(t, err)

	_, err = svc.UpdateJourneyStatus(ctx, uuid.New(), created.ID, UpdateJourneyStatusRequest{Status: "completed"})
	var forbidden *domain.ForbiddenError
	require.ErrorAs(t, err, &forbidden)

	done, err := svc.UpdateJourneyStatus(ctx, traveler, created.ID, UpdateJourneyStatusRequest{Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)
	assert.Equal(t, created.Version+1, done.Version)

	_, err = svc.UpdateJourneyStatus(ctx, traveler, created.ID, UpdateJourneyStatusRequest{Status: "cancelled"})
	var stateErr *domain.InvalidStateError
	assert.ErrorAs(t, err, &stateErr)

	_, err = svc.UpdateJourneyStatus(ctx, traveler, created.ID, UpdateJourneyStatusRequest{Status: "paused"})
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
