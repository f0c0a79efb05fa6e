package persistence

import (
	"context"
	"errors"

	"github.com/freelancepro/backend/internal/domain/identity"
	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProfileRepository implements ProfileRepository using GORM
type GormProfileRepository struct {
	db *gorm.DB
}

// NewGormProfileRepository creates a new GormProfileRepository
func NewGormProfileRepository(db *gorm.DB) *GormProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindByUser finds the profile of the user
func (r *GormProfileRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*identity.UserProfile, error) {
	var profile identity.UserProfile
	if err := r.db.WithContext(ctx).
		First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Save upserts the user's profile. The first settings update creates the
// row; later updates overwrite it.
func (r *GormProfileRepository) Save(ctx context.Context, profile *identity.UserProfile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		}).
		Create(profile).Error
}

// Ensure GormProfileRepository implements ProfileRepository
var _ identity.ProfileRepository = (*GormProfileRepository)(nil)
