package billing

import (
	"context"
	"time"

	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InvoiceRepository is the ledger accessor: a read-mostly view over a
// user's invoice records plus the append path used by invoice creation.
type InvoiceRepository interface {
	// FindByIDForUser returns the invoice if it exists and belongs to the user
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Invoice, error)

	// FindByUser returns the user's invoices with pagination
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Invoice, int64, error)

	// FindByProject returns all invoices of a single project in creation order
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]Invoice, error)

	// FindPaidByUser returns all PAID invoices of the user
	FindPaidByUser(ctx context.Context, userID uuid.UUID) ([]Invoice, error)

	// FindPaidBetween returns PAID invoices with paid_at in [start, end)
	FindPaidBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]Invoice, error)

	// CreateWithNumber atomically allocates the next invoice number for the
	// user and inserts the invoice built from it, in one transaction.
	// Retries internally on allocation conflicts; exhausting retries
	// surfaces shared.ErrAllocationConflict.
	CreateWithNumber(ctx context.Context, userID uuid.UUID, build func(number string) (*Invoice, error)) (*Invoice, error)

	// Update persists changes to an existing invoice
	Update(ctx context.Context, invoice *Invoice) error

	// Delete removes an invoice owned by the user
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// NumberAllocator assigns sequential invoice numbers. Allocation is
// serializable per user: concurrent calls for the same user never produce
// the same number, and different users never contend.
type NumberAllocator interface {
	// NextNumber allocates and returns the next invoice number for the user
	NextNumber(ctx context.Context, userID uuid.UUID) (string, error)
}
