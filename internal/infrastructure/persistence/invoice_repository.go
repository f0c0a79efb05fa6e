package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/freelancepro/backend/internal/domain/billing"
	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// allocationRetries bounds how often a create is retried when the unique
// index on (user_id, invoice_number) rejects the allocated number.
const allocationRetries = 3

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForUser finds an invoice by ID owned by the user
func (r *GormInvoiceRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*billing.Invoice, error) {
	var invoice billing.Invoice
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByUser finds the user's invoices with pagination
func (r *GormInvoiceRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]billing.Invoice, int64, error) {
	query := r.db.WithContext(ctx).Model(&billing.Invoice{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invoices []billing.Invoice
	if err := r.applyFilter(query, filter).Find(&invoices).Error; err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// FindByProject finds all invoices of a single project in creation order
func (r *GormInvoiceRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindPaidByUser finds all PAID invoices of the user
func (r *GormInvoiceRepository) FindPaidByUser(ctx context.Context, userID uuid.UUID) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, billing.InvoiceStatusPaid).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindPaidBetween finds PAID invoices with paid_at in [start, end)
func (r *GormInvoiceRepository) FindPaidBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]billing.Invoice, error) {
	var invoices []billing.Invoice
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND paid_at >= ? AND paid_at < ?",
			userID, billing.InvoiceStatusPaid, start, end).
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// CreateWithNumber allocates the next invoice number and inserts the
// invoice built from it, both inside one transaction. The sequence row is
// locked for the duration of the transaction, so concurrent creates for
// the same user serialize on the allocation. The unique index on
// (user_id, invoice_number) backstops the lock; a duplicate insert rolls
// back and the whole allocation is retried with a fresh number.
func (r *GormInvoiceRepository) CreateWithNumber(ctx context.Context, userID uuid.UUID, build func(number string) (*billing.Invoice, error)) (*billing.Invoice, error) {
	var created *billing.Invoice

	for attempt := 0; attempt < allocationRetries; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			seq, err := nextSequenceValue(tx, userID)
			if err != nil {
				return err
			}

			invoice, err := build(billing.FormatInvoiceNumber(seq))
			if err != nil {
				return err
			}

			if err := tx.Create(invoice).Error; err != nil {
				return err
			}
			created = invoice
			return nil
		})
		if err == nil {
			return created, nil
		}
		if !isDuplicateKey(err) {
			return nil, err
		}
		// Another writer won the race; retry with a fresh number.
	}

	return nil, shared.ErrAllocationConflict
}

// nextSequenceValue bumps and returns the user's invoice counter within
// the given transaction. The row is created on first use.
func nextSequenceValue(tx *gorm.DB, userID uuid.UUID) (int64, error) {
	query := tx.Model(&InvoiceSequence{})
	// SQLite serializes writers on its own and rejects FOR UPDATE.
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var seq InvoiceSequence
	err := query.Where("user_id = ?", userID).First(&seq).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		seq = InvoiceSequence{UserID: userID, LastValue: 0}
		if err := tx.Create(&seq).Error; err != nil {
			return 0, err
		}
	case err != nil:
		return 0, err
	}

	seq.LastValue++
	if err := tx.Model(&InvoiceSequence{}).
		Where("user_id = ?", userID).
		Update("last_value", seq.LastValue).Error; err != nil {
		return 0, err
	}
	return seq.LastValue, nil
}

// isDuplicateKey reports whether err is a unique constraint violation
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite reports constraint violations as plain errors.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Update persists changes to an existing invoice
func (r *GormInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

// Delete removes an invoice owned by the user
func (r *GormInvoiceRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&billing.Invoice{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Sorting goes through the whitelist so only known column names
	// reach the ORDER BY clause.
	sortField := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return query
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ billing.InvoiceRepository = (*GormInvoiceRepository)(nil)
