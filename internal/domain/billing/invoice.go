package billing

import (
	"fmt"
	"regexp"
	"time"

	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/freelancepro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusUnpaid InvoiceStatus = "UNPAID"
	InvoiceStatusPaid   InvoiceStatus = "PAID"
)

// IsValid checks if the status is a valid InvoiceStatus
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// invoiceNumberPattern matches the INV-NNNN numbering scheme. The numeric
// part grows past four digits once a user exceeds 9999 invoices.
var invoiceNumberPattern = regexp.MustCompile(`^INV-\d{4,}$`)

// Invoice is the append-mostly ledger record of this system. It is created
// by the billing workflow, mutated only by RecordPayment, and read by the
// earnings reports. Uniqueness of (user_id, invoice_number) is enforced
// by the idx_invoices_user_number index created in the schema migrations.
type Invoice struct {
	shared.UserOwnedEntity
	ProjectID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id"`
	InvoiceNumber string          `gorm:"size:20;not null;index" json:"invoice_number"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Status        InvoiceStatus   `gorm:"size:10;not null" json:"status"`
	PaidAt        *time.Time      `json:"paid_at"`
	DueDate       time.Time       `gorm:"not null" json:"due_date"`
	Notes         string          `gorm:"size:500" json:"notes"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates a new unpaid invoice
func NewInvoice(
	userID uuid.UUID,
	projectID uuid.UUID,
	invoiceNumber string,
	amount valueobject.Money,
	dueDate time.Time,
	notes string,
) (*Invoice, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if projectID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROJECT", "Project ID cannot be empty")
	}
	if !invoiceNumberPattern.MatchString(invoiceNumber) {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", fmt.Sprintf("Invoice number %q does not match INV-NNNN", invoiceNumber))
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	if amount.Currency() != valueobject.DefaultCurrency {
		return nil, shared.NewDomainError("INVALID_CURRENCY", fmt.Sprintf("Only %s invoices are supported", valueobject.DefaultCurrency))
	}
	if len(notes) > 500 {
		return nil, shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 500 characters")
	}

	return &Invoice{
		UserOwnedEntity: shared.NewUserOwnedEntity(userID),
		ProjectID:       projectID,
		InvoiceNumber:   invoiceNumber,
		Amount:          amount.Amount(),
		Status:          InvoiceStatusUnpaid,
		DueDate:         dueDate,
		Notes:           notes,
	}, nil
}

// RecordPayment flips the invoice to PAID and stamps the payment instant.
// Paying an already-paid invoice is rejected.
func (i *Invoice) RecordPayment(paidAt time.Time) error {
	if i.Status == InvoiceStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Invoice is already paid")
	}
	if paidAt.IsZero() {
		return shared.NewDomainError("INVALID_PAID_AT", "Payment instant cannot be zero")
	}

	i.Status = InvoiceStatusPaid
	i.PaidAt = &paidAt
	i.UpdatedAt = time.Now()
	return nil
}

// IsPaid returns true if the invoice has been paid
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoiceStatusPaid
}

// CheckIntegrity verifies the status/paid-at invariant: every PAID invoice
// carries a payment instant and every UNPAID invoice carries none. Readers
// call this on rows loaded from storage; a violation is reported, never
// silently repaired.
func (i *Invoice) CheckIntegrity() error {
	if !i.Status.IsValid() {
		return shared.NewDomainError("DATA_INTEGRITY_VIOLATION",
			fmt.Sprintf("Invoice %s has unknown status %q", i.InvoiceNumber, i.Status))
	}
	if i.Status == InvoiceStatusPaid && i.PaidAt == nil {
		return shared.NewDomainError("DATA_INTEGRITY_VIOLATION",
			fmt.Sprintf("Invoice %s is PAID but has no paid_at", i.InvoiceNumber))
	}
	if i.Status == InvoiceStatusUnpaid && i.PaidAt != nil {
		return shared.NewDomainError("DATA_INTEGRITY_VIOLATION",
			fmt.Sprintf("Invoice %s is UNPAID but has paid_at set", i.InvoiceNumber))
	}
	if i.Amount.IsNegative() {
		return shared.NewDomainError("DATA_INTEGRITY_VIOLATION",
			fmt.Sprintf("Invoice %s has negative amount", i.InvoiceNumber))
	}
	return nil
}

// FormatInvoiceNumber renders a sequence value as an invoice number,
// zero-padded to four digits
func FormatInvoiceNumber(sequence int64) string {
	return fmt.Sprintf("INV-%04d", sequence)
}
