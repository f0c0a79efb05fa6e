package persistence

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceSequence is the per-user invoice number counter. One row per
// user, locked for the duration of the allocating transaction so two
// concurrent creates can never read the same value.
type InvoiceSequence struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}
