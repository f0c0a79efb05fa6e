package identity

import (
	"context"
	"errors"

	"github.com/freelancepro/backend/internal/domain/identity"
	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettingsService reads and updates the user's business settings. A user
// without a stored profile gets the defaults; the row is only written on
// the first update.
type SettingsService struct {
	profiles identity.ProfileRepository
	logger   *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(profiles identity.ProfileRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{
		profiles: profiles,
		logger:   logger,
	}
}

// GetSettings returns the user's profile, or defaults when none exists
func (s *SettingsService) GetSettings(ctx context.Context, userID uuid.UUID) (*identity.UserProfile, error) {
	profile, err := s.profiles.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return identity.NewUserProfile(userID)
		}
		return nil, err
	}
	return profile, nil
}

// UpdateSettings applies new settings, creating the profile on first use
func (s *SettingsService) UpdateSettings(ctx context.Context, userID uuid.UUID, businessName string, hourlyRate decimal.Decimal, paymentTermsDays int) (*identity.UserProfile, error) {
	profile, err := s.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := profile.UpdateSettings(businessName, hourlyRate, paymentTermsDays); err != nil {
		return nil, err
	}

	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("Settings updated", zap.String("user_id", userID.String()))
	return profile, nil
}
