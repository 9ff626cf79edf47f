package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/auth"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/domain"
)

func newAuthService() (*AuthService, *auth.JWTManager) {
	jwtManager := auth.NewJWTManager("test-secret", 15*time.Minute, time.Hour)
	return NewAuthService(newFakeUserRepo(), jwtManager, zap.NewNop()), jwtManager
}

func TestSignupAndLogin(t *testing.T) {
	svc, jwtManager := newAuthService()
	ctx := context.Background()

	signed, err := svc.Signup(ctx, SignupRequest{
		Name: "Asha", Mobile: "9876543210", Password: "secret1", Role: "traveler", UPIID: "asha@upi",
	})
	require.NoError(t, err)
	assert.Equal(t, "traveler", signed.User.Role)
	assert.Equal(t, "asha@upi", signed.User.UPIID)

	claims, err := jwtManager.ValidateAccessToken(signed.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, signed.User.ID, claims.UserID)
	assert.Equal(t, auth.RoleTraveler, claims.Role)

	logged, err := svc.Login(ctx, LoginRequest{Mobile: "9876543210", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, signed.User.ID, logged.User.ID)

	me, err := svc.Me(ctx, signed.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", me.Name)
}

func TestSignup_DuplicateMobile(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()
	req := SignupRequest{Name: "Ravi", Mobile: "9123456780", Password: "secret1", Role: "sender"}

	_, err := svc.Signup(ctx, req)
	require.NoError(t, err)

	_, err = svc.Signup(ctx, req)
	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestSignup_TravelerNeedsUPI(t *testing.T) {
	svc, _ := newAuthService()

	_, err := svc.Signup(context.Background(), SignupRequest{
		Name: "Ravi", Mobile: "9123456780", Password: "secret1", Role: "traveler",
	})
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Name: "Ravi", Mobile: "9123456780", Password: "secret1", Role: "sender"})
	require.NoError(t, err)

	var unauthorized *domain.UnauthorizedError
	_, err = svc.Login(ctx, LoginRequest{Mobile: "9123456780", Password: "nope"})
	assert.ErrorAs(t, err, &unauthorized)

	_, err = svc.Login(ctx, LoginRequest{Mobile: "9000000000", Password: "secret1"})
	assert.ErrorAs(t, err, &unauthorized)
}

func TestMe_NotFound(t *testing.T) {
	svc, _ := newAuthService()
	_, err := svc.Me(context.Background(), uuid.New())
	var notFound *domain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestRefresh(t *testing.T) {
	svc, jwtManager := newAuthService()
	ctx := context.Background()

	signed, err := svc.Signup(ctx, SignupRequest{Name: "Ravi", Mobile: "9123456780", Password: "secret1", Role: "sender"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: signed.Tokens.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, signed.User.ID, refreshed.User.ID)

	claims, err := jwtManager.ValidateAccessToken(refreshed.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, signed.User.ID, claims.UserID)
	assert.Equal(t, auth.RoleSender, claims.Role)

	var unauthorized *domain.UnauthorizedError
	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: signed.Tokens.AccessToken})
	assert.ErrorAs(t, err, &unauthorized, "an access token cannot be refreshed")

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: "garbage"})
	assert.ErrorAs(t, err, &unauthorized)

	orphan, err := jwtManager.GenerateTokenPair(uuid.New(), auth.RoleSender)
	require.NoError(t, err)
	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: orphan.RefreshToken})
	assert.ErrorAs(t, err, &unauthorized, "the account must still exist")
}
