package persistence

import (
	"context"

	"github.com/freelancepro/backend/internal/domain/billing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceSequenceRepository hands out invoice numbers from the
// per-user sequence table. Used when a number is needed outside the
// invoice creation transaction.
type GormInvoiceSequenceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceSequenceRepository creates a new GormInvoiceSequenceRepository
func NewGormInvoiceSequenceRepository(db *gorm.DB) *GormInvoiceSequenceRepository {
	return &GormInvoiceSequenceRepository{db: db}
}

// NextNumber allocates and returns the next invoice number for the user.
// The allocation commits immediately; a number handed out here is burned
// even if the caller never uses it.
func (r *GormInvoiceSequenceRepository) NextNumber(ctx context.Context, userID uuid.UUID) (string, error) {
	var value int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		v, err := nextSequenceValue(tx, userID)
		if err != nil {
			return err
		}
		value = v
		return nil
	})
	if err != nil {
		return "", err
	}
	return billing.FormatInvoiceNumber(value), nil
}

// Ensure GormInvoiceSequenceRepository implements NumberAllocator
var _ billing.NumberAllocator = (*GormInvoiceSequenceRepository)(nil)
