package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/freelancepro/backend/internal/domain/billing"
	"github.com/freelancepro/backend/internal/domain/identity"
	"github.com/freelancepro/backend/internal/domain/project"
	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/freelancepro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateInvoiceInput carries the caller-supplied fields for a new invoice.
// The invoice number is never part of the input; it is allocated inside
// the creation transaction.
type CreateInvoiceInput struct {
	ProjectID uuid.UUID
	Amount    decimal.Decimal
	DueDate   time.Time
	Notes     string
}

// InvoiceService orchestrates invoice creation, payment recording and
// lookup. Number allocation happens inside the repository transaction so
// two concurrent creates for the same user can never observe the same
// sequence value.
type InvoiceService struct {
	invoices    billing.InvoiceRepository
	projects    project.ProjectRepository
	profiles    identity.ProfileRepository
	idempotency shared.IdempotencyStore
	idemConfig  shared.IdempotencyConfig
	logger      *zap.Logger
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoices billing.InvoiceRepository,
	projects project.ProjectRepository,
	profiles identity.ProfileRepository,
	idempotency shared.IdempotencyStore,
	idemConfig shared.IdempotencyConfig,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices:    invoices,
		projects:    projects,
		profiles:    profiles,
		idempotency: idempotency,
		idemConfig:  idemConfig,
		logger:      logger,
	}
}

// CreateInvoice creates an invoice for one of the user's projects. The
// invoice number is allocated atomically with the insert. When the caller
// supplies an Idempotency-Key, a retried request with the same key is
// rejected instead of allocating a second number.
func (s *InvoiceService) CreateInvoice(ctx context.Context, userID uuid.UUID, input CreateInvoiceInput, idempotencyKey string) (*billing.Invoice, error) {
	if idempotencyKey != "" && s.idemConfig.Enabled {
		key := fmt.Sprintf("invoice:create:%s:%s", userID, idempotencyKey)
		fresh, err := s.idempotency.MarkProcessed(ctx, key, s.idemConfig.TTL)
		if err != nil {
			// The store being down must not block invoicing.
			s.logger.Warn("Idempotency check failed, proceeding without it",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		} else if !fresh {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST", "This request was already processed")
		}
	}

	proj, err := s.projects.FindByIDForUser(ctx, userID, input.ProjectID)
	if err != nil {
		return nil, err
	}

	dueDate := input.DueDate
	if dueDate.IsZero() {
		dueDate = s.defaultDueDate(ctx, userID)
	}

	amount := valueobject.NewMoneyUSD(input.Amount)

	invoice, err := s.invoices.CreateWithNumber(ctx, userID, func(number string) (*billing.Invoice, error) {
		return billing.NewInvoice(userID, proj.ID, number, amount, dueDate, input.Notes)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("project_id", proj.ID.String()),
	)
	return invoice, nil
}

// defaultDueDate derives the due date from the user's payment terms,
// falling back to the standard terms when no profile exists yet.
func (s *InvoiceService) defaultDueDate(ctx context.Context, userID uuid.UUID) time.Time {
	days := 30
	profile, err := s.profiles.FindByUser(ctx, userID)
	if err == nil {
		days = profile.PaymentTermsDays
	}
	return time.Now().AddDate(0, 0, days)
}

// RecordPayment marks an invoice as paid at the given instant
func (s *InvoiceService) RecordPayment(ctx context.Context, userID, invoiceID uuid.UUID, paidAt time.Time) (*billing.Invoice, error) {
	invoice, err := s.invoices.FindByIDForUser(ctx, userID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := invoice.RecordPayment(paidAt); err != nil {
		return nil, err
	}

	if err := s.invoices.Update(ctx, invoice); err != nil {
		return nil, err
	}

	s.logger.Info("Payment recorded",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Time("paid_at", paidAt),
	)
	return invoice, nil
}

// GetInvoice returns a single invoice owned by the user
func (s *InvoiceService) GetInvoice(ctx context.Context, userID, invoiceID uuid.UUID) (*billing.Invoice, error) {
	return s.invoices.FindByIDForUser(ctx, userID, invoiceID)
}

// ListInvoices returns the user's invoices with pagination
func (s *InvoiceService) ListInvoices(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]billing.Invoice, int64, error) {
	return s.invoices.FindByUser(ctx, userID, filter)
}

// DeleteInvoice removes an unpaid invoice. Paid invoices are part of the
// earnings history and cannot be deleted.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, userID, invoiceID uuid.UUID) error {
	invoice, err := s.invoices.FindByIDForUser(ctx, userID, invoiceID)
	if err != nil {
		return err
	}
	if invoice.IsPaid() {
		return shared.NewDomainError("INVALID_STATE", "Paid invoices cannot be deleted")
	}
	return s.invoices.Delete(ctx, userID, invoiceID)
}
