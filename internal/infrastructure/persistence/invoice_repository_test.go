package persistence

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/freelancepro/backend/internal/domain/billing"
	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/freelancepro/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupInvoiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&billing.Invoice{}, &InvoiceSequence{})
	require.NoError(t, err)

	// The composite unique index lives in the schema migrations for
	// postgres; recreate it here for the in-memory database.
	err = db.Exec("CREATE UNIQUE INDEX idx_invoices_user_number ON invoices(user_id, invoice_number)").Error
	require.NoError(t, err)

	return db
}

func mustBuildInvoice(t *testing.T, userID, projectID uuid.UUID, amount string) func(number string) (*billing.Invoice, error) {
	money, err := valueobject.NewMoneyUSDFromString(amount)
	require.NoError(t, err)
	due := time.Now().AddDate(0, 0, 30)
	return func(number string) (*billing.Invoice, error) {
		return billing.NewInvoice(userID, projectID, number, money, due, "")
	}
}

func TestGormInvoiceRepository_CreateWithNumber(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	projectID := uuid.New()

	t.Run("allocates sequential numbers", func(t *testing.T) {
		first, err := repo.CreateWithNumber(ctx, userID, mustBuildInvoice(t, userID, projectID, "100.00"))
		require.NoError(t, err)
		assert.Equal(t, "INV-0001", first.InvoiceNumber)

		second, err := repo.CreateWithNumber(ctx, userID, mustBuildInvoice(t, userID, projectID, "200.00"))
		require.NoError(t, err)
		assert.Equal(t, "INV-0002", second.InvoiceNumber)
	})

	t.Run("sequences are independent per user", func(t *testing.T) {
		otherUser := uuid.New()
		otherProject := uuid.New()

		invoice, err := repo.CreateWithNumber(ctx, otherUser, mustBuildInvoice(t, otherUser, otherProject, "50.00"))
		require.NoError(t, err)
		assert.Equal(t, "INV-0001", invoice.InvoiceNumber)
	})

	t.Run("build error aborts the transaction", func(t *testing.T) {
		before := currentSequence(t, db, userID)

		_, err := repo.CreateWithNumber(ctx, userID, func(number string) (*billing.Invoice, error) {
			return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
		})
		require.Error(t, err)
		assert.True(t, shared.HasCode(err, "INVALID_AMOUNT"))

		// The rollback must release the burned number.
		assert.Equal(t, before, currentSequence(t, db, userID))
	})
}

func TestGormInvoiceRepository_CreateWithNumber_Concurrent(t *testing.T) {
	db := setupInvoiceTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A single connection keeps every goroutine on the same in-memory
	// database; sqlite opens a fresh empty one per connection otherwise.
	sqlDB.SetMaxOpenConns(1)

	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	projectID := uuid.New()
	build := mustBuildInvoice(t, userID, projectID, "10.00")

	const writers = 8
	numbers := make(chan string, writers)
	errs := make(chan error, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			invoice, err := repo.CreateWithNumber(ctx, userID, build)
			if err != nil {
				errs <- err
				return
			}
			numbers <- invoice.InvoiceNumber
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		t.Errorf("concurrent create failed: %v", err)
	}

	seen := make(map[string]bool)
	for number := range numbers {
		assert.False(t, seen[number], "number %s allocated twice", number)
		seen[number] = true
	}
	require.Len(t, seen, writers)

	// Every value of the contiguous block must have been handed out.
	for i := 1; i <= writers; i++ {
		assert.Contains(t, seen, billing.FormatInvoiceNumber(int64(i)))
	}
}

func currentSequence(t *testing.T, db *gorm.DB, userID uuid.UUID) int64 {
	var seq InvoiceSequence
	err := db.First(&seq, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0
	}
	require.NoError(t, err)
	return seq.LastValue
}

func TestGormInvoiceRepository_FindPaidBetween(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	projectID := uuid.New()

	createPaid := func(amount string, paidAt time.Time) *billing.Invoice {
		invoice, err := repo.CreateWithNumber(ctx, userID, mustBuildInvoice(t, userID, projectID, amount))
		require.NoError(t, err)
		require.NoError(t, invoice.RecordPayment(paidAt))
		require.NoError(t, repo.Update(ctx, invoice))
		return invoice
	}

	start := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)

	createPaid("100.00", start)                     // inclusive lower bound
	createPaid("200.00", end.Add(-time.Second))     // inside
	createPaid("300.00", end)                       // exclusive upper bound
	createPaid("400.00", start.Add(-time.Second))   // before range

	// Unpaid invoices never show up regardless of dates.
	_, err := repo.CreateWithNumber(ctx, userID, mustBuildInvoice(t, userID, projectID, "500.00"))
	require.NoError(t, err)

	found, err := repo.FindPaidBetween(ctx, userID, start, end)
	require.NoError(t, err)
	require.Len(t, found, 2)

	total := found[0].Amount.Add(found[1].Amount)
	assert.Equal(t, "300", total.String())
}

func TestGormInvoiceRepository_FindByIDForUser(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	projectID := uuid.New()

	created, err := repo.CreateWithNumber(ctx, userID, mustBuildInvoice(t, userID, projectID, "100.00"))
	require.NoError(t, err)

	t.Run("finds own invoice", func(t *testing.T) {
		found, err := repo.FindByIDForUser(ctx, userID, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.InvoiceNumber, found.InvoiceNumber)
	})

	t.Run("other user's lookup is not found", func(t *testing.T) {
		_, err := repo.FindByIDForUser(ctx, uuid.New(), created.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInvoiceRepository_Delete(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	created, err := repo.CreateWithNumber(ctx, userID, mustBuildInvoice(t, userID, uuid.New(), "100.00"))
	require.NoError(t, err)

	t.Run("other user cannot delete", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New(), created.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("owner deletes", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, userID, created.ID))
		_, err := repo.FindByIDForUser(ctx, userID, created.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormInvoiceRepository_FindByUser_Sorting(t *testing.T) {
	db := setupInvoiceTestDB(t)
	repo := NewGormInvoiceRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	projectID := uuid.New()

	for _, amount := range []string{"300.00", "100.00", "200.00"} {
		_, err := repo.CreateWithNumber(ctx, userID, mustBuildInvoice(t, userID, projectID, amount))
		require.NoError(t, err)
	}

	t.Run("whitelisted field orders rows", func(t *testing.T) {
		invoices, total, err := repo.FindByUser(ctx, userID, shared.Filter{
			Page:     1,
			PageSize: 10,
			OrderBy:  "amount",
			OrderDir: "asc",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, invoices, 3)
		assert.Equal(t, "100", invoices[0].Amount.String())
		assert.Equal(t, "200", invoices[1].Amount.String())
		assert.Equal(t, "300", invoices[2].Amount.String())
	})

	t.Run("unknown order field falls back to the default", func(t *testing.T) {
		// Raw, this would fail with "no such column".
		invoices, _, err := repo.FindByUser(ctx, userID, shared.Filter{
			Page:     1,
			PageSize: 10,
			OrderBy:  "no_such_column",
			OrderDir: "asc",
		})
		require.NoError(t, err)
		assert.Len(t, invoices, 3)
	})

	t.Run("order field is never treated as a sql fragment", func(t *testing.T) {
		invoices, _, err := repo.FindByUser(ctx, userID, shared.Filter{
			Page:     1,
			PageSize: 10,
			OrderBy:  "(SELECT count(*) FROM invoice_sequences)",
			OrderDir: "asc",
		})
		require.NoError(t, err)
		assert.Len(t, invoices, 3)

		// The whitelist replaces the expression with the default field,
		// so the result matches an explicit created_at ordering.
		byDefault, _, err := repo.FindByUser(ctx, userID, shared.Filter{
			Page:     1,
			PageSize: 10,
			OrderBy:  "created_at",
			OrderDir: "asc",
		})
		require.NoError(t, err)
		require.Len(t, byDefault, 3)
		for i := range byDefault {
			assert.Equal(t, byDefault[i].InvoiceNumber, invoices[i].InvoiceNumber)
		}
	})
}

func TestGormInvoiceSequenceRepository_NextNumber(t *testing.T) {
	db := setupInvoiceTestDB(t)
	allocator := NewGormInvoiceSequenceRepository(db)
	ctx := context.Background()

	userID := uuid.New()

	first, err := allocator.NextNumber(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", first)

	second, err := allocator.NextNumber(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "INV-0002", second)

	other, err := allocator.NextNumber(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", other)
}
