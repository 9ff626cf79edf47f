package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/auth"
	"github.com/Kilat-Pet-Delivery/service-routematch/internal/common/domain"
	userDomain "github.com/Kilat-Pet-Delivery/service-routematch/internal/domain/user"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Mobile       string    `gorm:"type:varchar(10);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:text;not null"`
	Role         string    `gorm:"type:varchar(20);not null"`
	UPIID        string    `gorm:"column:upi_id;type:varchar(100)"`
	CreatedAt    time.Time `gorm:"type:timestamptz;not null"`
	UpdatedAt    time.Time `gorm:"type:timestamptz;not null"`
}

// TableName sets the table name.
func (UserModel) TableName() string { return "users" }

// GormUserRepository implements user.Repository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID returns a user by ID.
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*userDomain.User, error) {
	return r.findOne(ctx, "id = ?", id, id.String())
}

// FindByMobile returns the user registered with mobile.
func (r *GormUserRepository) FindByMobile(ctx context.Context, mobile string) (*userDomain.User, error) {
	return r.findOne(ctx, "mobile = ?", mobile, mobile)
}

func (r *GormUserRepository) findOne(ctx context.Context, query string, arg interface{}, key string) (*userDomain.User, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("User", key)
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return toUserDomain(&model), nil
}

// Save persists a new user. A duplicate mobile number is reported as a conflict.
func (r *GormUserRepository) Save(ctx context.Context, u *userDomain.User) error {
	model := toUserModel(u)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewConflictError("an account with this mobile already exists")
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func toUserModel(u *userDomain.User) UserModel {
	return UserModel{
		ID:           u.ID(),
		Name:         u.Name(),
		Mobile:       u.Mobile(),
		PasswordHash: u.PasswordHash(),
		Role:         string(u.Role()),
		UPIID:        u.UPIID(),
		CreatedAt:    u.CreatedAt(),
		UpdatedAt:    u.UpdatedAt(),
	}
}

func toUserDomain(m *UserModel) *userDomain.User {
	return userDomain.Reconstruct(
		m.ID, m.Name, m.Mobile, m.PasswordHash,
		auth.Role(m.Role), m.UPIID,
		m.CreatedAt, m.UpdatedAt,
	)
}
