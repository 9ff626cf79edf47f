// Package user models accounts of senders, travelers and admins.
package user

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/auth"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/domain"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/delivery"
)

// User is the aggregate root for an account.
type User struct {
	id           uuid.UUID
	name         string
	mobile       string
	passwordHash string
	role         auth.Role
	upiID        string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewUser creates a user. Travelers must register a UPI id to be paid out.
func NewUser(name, mobile, passwordHash string, role auth.Role, upiID string) (*User, error) {
	name = strings.TrimSpace(name)
	upiID = strings.TrimSpace(upiID)

	if name == "" {
		return nil, domain.NewValidationError("name is required")
	}
	if !delivery.IsValidContact(mobile) {
		return nil, domain.NewValidationError("mobile must be a 10 digit number")
	}
	if passwordHash == "" {
		return nil, domain.NewValidationError("password is required")
	}
	if role != auth.RoleSender && role != auth.RoleTraveler {
		return nil, domain.NewValidationError("role must be sender or traveler")
	}
	if role == auth.RoleTraveler && upiID == "" {
		return nil, domain.NewValidationError("UPI id is required for travelers")
	}

	now := time.Now().UTC()
	return &User{
		id:           uuid.New(),
		name:         name,
		mobile:       mobile,
		passwordHash: passwordHash,
		role:         role,
		upiID:        upiID,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstruct rebuilds a User from persistence data (no validation).
func Reconstruct(id uuid.UUID, name, mobile, passwordHash string, role auth.Role, upiID string, createdAt, updatedAt time.Time) *User {
	return &User{
		id:           id,
		name:         name,
		mobile:       mobile,
		passwordHash: passwordHash,
		role:         role,
		upiID:        upiID,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Name() string         { return u.name }
func (u *User) Mobile() string       { return u.mobile }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Role() auth.Role      { return u.role }
func (u *User) UPIID() string        { return u.upiID }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// Repository defines persistence operations for users.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByMobile(ctx context.Context, mobile string) (*User, error)
	Save(ctx context.Context, u *User) error
}
