package identity

import (
	"context"
	"time"

	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserProfile holds the per-user business settings surfaced on the
// settings screen. The user identity itself lives in the upstream
// gateway; this record is keyed by the user ID it hands us.
type UserProfile struct {
	UserID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	BusinessName      string          `gorm:"size:255" json:"business_name"`
	DefaultHourlyRate decimal.Decimal `gorm:"type:decimal(10,2)" json:"default_hourly_rate"`
	PaymentTermsDays  int             `gorm:"not null;default:30" json:"payment_terms_days"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// TableName returns the table name for GORM
func (UserProfile) TableName() string {
	return "user_profiles"
}

// NewUserProfile creates a profile with defaults for a first-time user
func NewUserProfile(userID uuid.UUID) (*UserProfile, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	now := time.Now()
	return &UserProfile{
		UserID:           userID,
		PaymentTermsDays: 30,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// UpdateSettings applies new settings values
func (p *UserProfile) UpdateSettings(businessName string, hourlyRate decimal.Decimal, paymentTermsDays int) error {
	if len(businessName) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Business name cannot exceed 255 characters")
	}
	if hourlyRate.IsNegative() {
		return shared.NewDomainError("INVALID_RATE", "Hourly rate cannot be negative")
	}
	if paymentTermsDays < 0 {
		return shared.NewDomainError("INVALID_TERMS", "Payment terms cannot be negative")
	}
	p.BusinessName = businessName
	p.DefaultHourlyRate = hourlyRate
	p.PaymentTermsDays = paymentTermsDays
	p.UpdatedAt = time.Now()
	return nil
}

// ProfileRepository defines persistence operations for user profiles
type ProfileRepository interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
	Save(ctx context.Context, profile *UserProfile) error
}
