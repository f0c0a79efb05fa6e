package report

import (
	"context"
	"testing"
	"time"

	"github.com/freelancepro/backend/internal/domain/billing"
	"github.com/freelancepro/backend/internal/domain/project"
	"github.com/freelancepro/backend/internal/domain/report"
	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockInvoiceRepository struct {
	mock.Mock
}

func (m *mockInvoiceRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]billing.Invoice, int64, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]billing.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *mockInvoiceRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]billing.Invoice, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) FindPaidByUser(ctx context.Context, userID uuid.UUID) ([]billing.Invoice, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) FindPaidBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]billing.Invoice, error) {
	args := m.Called(ctx, userID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) CreateWithNumber(ctx context.Context, userID uuid.UUID, build func(number string) (*billing.Invoice, error)) (*billing.Invoice, error) {
	args := m.Called(ctx, userID, build)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *mockInvoiceRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type mockProjectRepository struct {
	mock.Mock
}

func (m *mockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *mockProjectRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *mockProjectRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]project.Project, int64, error) {
	args := m.Called(ctx, userID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]project.Project), args.Get(1).(int64), args.Error(2)
}

func (m *mockProjectRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]project.Project, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *mockProjectRepository) Save(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProjectRepository) Update(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProjectRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func paidAt(t time.Time, amount string) billing.Invoice {
	at := t
	return billing.Invoice{
		Amount: decimal.RequireFromString(amount),
		Status: billing.InvoiceStatusPaid,
		PaidAt: &at,
	}
}

func TestEarningsService_GetSummary(t *testing.T) {
	invoices := new(mockInvoiceRepository)
	projects := new(mockProjectRepository)
	service := NewEarningsService(invoices, projects, zap.NewNop())

	// Wednesday, so the week bucket starts Monday June 15th.
	now := time.Date(2026, time.June, 17, 14, 0, 0, 0, time.UTC)
	userID := uuid.New()

	paid := []billing.Invoice{
		paidAt(time.Date(2026, time.June, 17, 9, 0, 0, 0, time.UTC), "100.00"),  // today
		paidAt(time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC), "50.00"),  // this week, not today
		paidAt(time.Date(2026, time.June, 2, 8, 0, 0, 0, time.UTC), "25.00"),    // this month, not this week
		paidAt(time.Date(2025, time.December, 1, 8, 0, 0, 0, time.UTC), "10.00"), // lifetime only
	}
	invoices.On("FindPaidByUser", mock.Anything, userID).Return(paid, nil)

	summary, err := service.GetSummary(context.Background(), userID, now)
	require.NoError(t, err)

	assert.Equal(t, "185", summary.NetEarnings.String())
	assert.Equal(t, "175", summary.MonthlyEarnings.String())
	assert.Equal(t, "150", summary.WeeklyEarnings.String())
	assert.Equal(t, "100", summary.TodayEarnings.String())
	invoices.AssertExpectations(t)
}

func TestEarningsService_GetSummary_NoInvoices(t *testing.T) {
	invoices := new(mockInvoiceRepository)
	projects := new(mockProjectRepository)
	service := NewEarningsService(invoices, projects, zap.NewNop())

	userID := uuid.New()
	invoices.On("FindPaidByUser", mock.Anything, userID).Return([]billing.Invoice{}, nil)

	summary, err := service.GetSummary(context.Background(), userID, time.Now())
	require.NoError(t, err)

	assert.True(t, summary.NetEarnings.IsZero())
	assert.True(t, summary.TodayEarnings.IsZero())
}

func TestEarningsService_GetMonthlySeries(t *testing.T) {
	invoices := new(mockInvoiceRepository)
	projects := new(mockProjectRepository)
	service := NewEarningsService(invoices, projects, zap.NewNop())

	now := time.Date(2026, time.June, 17, 14, 0, 0, 0, time.UTC)
	userID := uuid.New()

	// The fetch window must cover both the oldest trailing month
	// (July 2025) and the start of the previous calendar year.
	expectedFrom := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	expectedTo := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)

	paid := []billing.Invoice{
		paidAt(time.Date(2026, time.June, 3, 10, 0, 0, 0, time.UTC), "300.00"),
		paidAt(time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC), "200.00"),
		paidAt(time.Date(2025, time.August, 20, 10, 0, 0, 0, time.UTC), "100.00"),
		paidAt(time.Date(2025, time.March, 1, 10, 0, 0, 0, time.UTC), "150.00"),
	}
	invoices.On("FindPaidBetween", mock.Anything, userID, expectedFrom, expectedTo).Return(paid, nil)

	series, err := service.GetMonthlySeries(context.Background(), userID, now)
	require.NoError(t, err)
	require.Len(t, series.Data, report.MonthlySeriesLength)

	// Oldest first: July 2025 through June 2026.
	assert.Equal(t, "Jul 2025", series.Data[0].Label)
	assert.Equal(t, "Jun 2026", series.Data[11].Label)

	assert.Equal(t, "100", series.Data[1].Amount.String()) // Aug 2025
	assert.Equal(t, "200", series.Data[6].Amount.String()) // Jan 2026
	assert.Equal(t, "300", series.Data[11].Amount.String())

	assert.Equal(t, "500", series.YearToDateTotal.String())
	assert.Equal(t, "250", series.PreviousYearTotal.String())
	assert.Equal(t, "100", series.GrowthRate.String())
	invoices.AssertExpectations(t)
}

func TestEarningsService_GetWeeklySeries(t *testing.T) {
	invoices := new(mockInvoiceRepository)
	projects := new(mockProjectRepository)
	service := NewEarningsService(invoices, projects, zap.NewNop())

	now := time.Date(2026, time.June, 17, 14, 0, 0, 0, time.UTC)
	userID := uuid.New()

	// Eight trailing weeks reach back to Monday April 27th, but the
	// year-to-date total needs January 1st.
	expectedFrom := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	expectedTo := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)

	paid := []billing.Invoice{
		paidAt(time.Date(2026, time.June, 16, 10, 0, 0, 0, time.UTC), "80.00"),
		paidAt(time.Date(2026, time.May, 5, 10, 0, 0, 0, time.UTC), "40.00"),
		paidAt(time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC), "20.00"),
	}
	invoices.On("FindPaidBetween", mock.Anything, userID, expectedFrom, expectedTo).Return(paid, nil)

	series, err := service.GetWeeklySeries(context.Background(), userID, now)
	require.NoError(t, err)
	require.Len(t, series.Data, report.WeeklySeriesLength)

	assert.Equal(t, "80", series.Data[7].Amount.String())
	assert.Equal(t, "140", series.YearToDateTotal.String())
	invoices.AssertExpectations(t)
}

func TestEarningsService_GetProjectEarnings(t *testing.T) {
	invoices := new(mockInvoiceRepository)
	projects := new(mockProjectRepository)
	service := NewEarningsService(invoices, projects, zap.NewNop())

	userID := uuid.New()
	proj, err := project.NewProject(userID, uuid.New(), "Site redesign", "", decimal.NewFromInt(90))
	require.NoError(t, err)

	at := time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)
	projectInvoices := []billing.Invoice{
		{Amount: decimal.RequireFromString("150.00"), Status: billing.InvoiceStatusPaid, PaidAt: &at},
		{Amount: decimal.RequireFromString("30.00"), Status: billing.InvoiceStatusUnpaid},
	}

	projects.On("FindByIDForUser", mock.Anything, userID, proj.ID).Return(proj, nil)
	invoices.On("FindByProject", mock.Anything, proj.ID).Return(projectInvoices, nil)

	result, err := service.GetProjectEarnings(context.Background(), userID, proj.ID)
	require.NoError(t, err)

	assert.Equal(t, "180", result.TotalInvoiced.String())
	assert.Equal(t, "150", result.TotalPaid.String())
	assert.Equal(t, "30", result.Outstanding.String())
	assert.Equal(t, "83.33", result.PaymentCompletionRate.String())
	projects.AssertExpectations(t)
	invoices.AssertExpectations(t)
}

func TestEarningsService_GetProjectEarnings_NotFound(t *testing.T) {
	invoices := new(mockInvoiceRepository)
	projects := new(mockProjectRepository)
	service := NewEarningsService(invoices, projects, zap.NewNop())

	userID := uuid.New()
	projectID := uuid.New()
	projects.On("FindByIDForUser", mock.Anything, userID, projectID).Return(nil, shared.ErrNotFound)

	_, err := service.GetProjectEarnings(context.Background(), userID, projectID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	invoices.AssertNotCalled(t, "FindByProject")
}
