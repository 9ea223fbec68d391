package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/agencia/backend/internal/domain/identity"
	"github.com/agencia/backend/internal/domain/shared"
	"github.com/agencia/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM.
// It also serves as the commission seller directory.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := dbFor(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUsername finds a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	var model models.UserModel
	err := dbFor(ctx, r.db).
		First(&model, "username = ?", strings.ToLower(strings.TrimSpace(username))).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	var model models.UserModel
	model.FromDomain(user)
	return dbFor(ctx, r.db).Save(&model).Error
}

// CategoryOf returns the seller category used by commission recalculation
func (r *GormUserRepository) CategoryOf(ctx context.Context, sellerID uuid.UUID) (identity.SellerCategory, error) {
	var model models.UserModel
	if err := dbFor(ctx, r.db).Select("category").First(&model, "id = ?", sellerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return model.Category, nil
}
