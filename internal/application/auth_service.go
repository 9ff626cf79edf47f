package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/auth"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/domain"
	userDomain "github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/user"
)

// SignupRequest is the request DTO for registering an account.
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=sender traveler"`
	UPIID    string `json:"upi_id"`
}

// LoginRequest is the request DTO for logging in.
type LoginRequest struct {
	Mobile   string `json:"mobile" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserDTO is the API response representation of a user.
type UserDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Mobile    string    `json:"mobile"`
	Role      string    `json:"role"`
	UPIID     string    `json:"upi_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthResponse is returned by signup, login and refresh.
type AuthResponse struct {
	User   UserDTO         `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

// AuthService implements account registration and login.
type AuthService struct {
	repo       userDomain.Repository
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo userDomain.Repository, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{repo: repo, jwtManager: jwtManager, logger: logger}
}

// Signup creates an account and logs it in. Mobile numbers are unique.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	_, err := s.repo.FindByMobile(ctx, req.Mobile)
	switch {
	case err == nil:
		return nil, domain.NewConflictError("an account with this mobile already exists")
	case !isNotFound(err):
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := userDomain.NewUser(req.Name, req.Mobile, hash, auth.Role(req.Role), req.UPIID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", u.ID().String()),
		zap.String("role", string(u.Role())),
	)
	return s.issue(u)
}

// Login checks the credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.repo.FindByMobile(ctx, req.Mobile)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.NewUnauthorizedError("invalid mobile or password")
		}
		return nil, err
	}
	if !auth.CheckPassword(u.PasswordHash(), req.Password) {
		return nil, domain.NewUnauthorizedError("invalid mobile or password")
	}
	return s.issue(u)
}

// Refresh issues a new token pair for the owner of a valid refresh token. The role is read from
// the stored account, not the old token.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*AuthResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, domain.NewUnauthorizedError("invalid or expired refresh token")
	}
	u, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.NewUnauthorizedError("invalid or expired refresh token")
		}
		return nil, err
	}
	return s.issue(u)
}

// Me returns the profile of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := toUserDTO(u)
	return &result, nil
}

func (s *AuthService) issue(u *userDomain.User) (*AuthResponse, error) {
	tokens, err := s.jwtManager.GenerateTokenPair(u.ID(), u.Role())
	if err != nil {
		return nil, fmt.Errorf("failed to issue tokens: %w", err)
	}
	return &AuthResponse{User: toUserDTO(u), Tokens: tokens}, nil
}

func isNotFound(err error) bool {
	var nf *domain.NotFoundError
	return errors.As(err, &nf)
}

func toUserDTO(u *userDomain.User) UserDTO {
	return UserDTO{
		ID:        u.ID(),
		Name:      u.Name(),
		Mobile:    u.Mobile(),
		Role:      string(u.Role()),
		UPIID:     u.UPIID(),
		CreatedAt: u.CreatedAt(),
	}
}
