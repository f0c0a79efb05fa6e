package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	reportapp "github.com/freelancepro/backend/internal/application/report"
	"github.com/freelancepro/backend/internal/domain/billing"
	"github.com/freelancepro/backend/internal/domain/project"
	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/freelancepro/backend/internal/domain/shared/valueobject"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockInvoiceRepository implements billing.InvoiceRepository for testing
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]billing.Invoice, int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]billing.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]billing.Invoice, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindPaidByUser(ctx context.Context, userID uuid.UUID) ([]billing.Invoice, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindPaidBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]billing.Invoice, error) {
	args := m.Called(ctx, userID, start, end)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) CreateWithNumber(ctx context.Context, userID uuid.UUID, build func(number string) (*billing.Invoice, error)) (*billing.Invoice, error) {
	args := m.Called(ctx, userID, build)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockProjectRepository implements project.ProjectRepository for testing
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]project.Project, int64, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]project.Project), args.Get(1).(int64), args.Error(2)
}

func (m *MockProjectRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]project.Project, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]project.Project), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) Update(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// Test setup helpers

var testUserID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func authedRequest(method, target string, body *bytes.Buffer) *http.Request {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-User-ID", testUserID.String())
	return req
}

func paidInvoice(t *testing.T, projectID uuid.UUID, amount string, paidAt time.Time) billing.Invoice {
	t.Helper()
	money, err := valueobject.NewMoneyUSDFromString(amount)
	require.NoError(t, err)
	inv, err := billing.NewInvoice(testUserID, projectID, "INV-0001", money, paidAt.AddDate(0, 0, 14), "")
	require.NoError(t, err)
	require.NoError(t, inv.RecordPayment(paidAt))
	return *inv
}

func setupReportHandler(invoices *MockInvoiceRepository, projects *MockProjectRepository) *ReportHandler {
	service := reportapp.NewEarningsService(invoices, projects, zap.NewNop())
	return NewReportHandler(service)
}

// Tests

func TestReportHandler_GetSummary_Success(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	projects := new(MockProjectRepository)
	handler := setupReportHandler(invoices, projects)

	projectID := uuid.New()
	invoices.On("FindPaidByUser", mock.Anything, testUserID).Return([]billing.Invoice{
		paidInvoice(t, projectID, "150", time.Now()),
	}, nil)

	router := setupTestRouter()
	router.GET("/reports/summary", handler.GetSummary)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/reports/summary", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			NetEarnings   decimal.Decimal `json:"net_earnings"`
			TodayEarnings decimal.Decimal `json:"today_earnings"`
			Currency      string          `json:"currency"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "150", resp.Data.NetEarnings.String())
	assert.Equal(t, "150", resp.Data.TodayEarnings.String())
	assert.Equal(t, "USD", resp.Data.Currency)
	invoices.AssertExpectations(t)
}

func TestReportHandler_GetSummary_MissingUser(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	projects := new(MockProjectRepository)
	handler := setupReportHandler(invoices, projects)

	router := setupTestRouter()
	router.GET("/reports/summary", handler.GetSummary)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/summary", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	invoices.AssertNotCalled(t, "FindPaidByUser", mock.Anything, mock.Anything)
}

func TestReportHandler_GetMonthlySeries_Success(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	projects := new(MockProjectRepository)
	handler := setupReportHandler(invoices, projects)

	invoices.On("FindPaidBetween", mock.Anything, testUserID, mock.Anything, mock.Anything).
		Return([]billing.Invoice{}, nil)

	router := setupTestRouter()
	router.GET("/reports/monthly", handler.GetMonthlySeries)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/reports/monthly", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Data []json.RawMessage `json:"data"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Data, 12)
	invoices.AssertExpectations(t)
}

func TestReportHandler_GetProjectEarnings_Success(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	projects := new(MockProjectRepository)
	handler := setupReportHandler(invoices, projects)

	proj, err := project.NewProject(testUserID, uuid.New(), "Website redesign", "", decimal.NewFromInt(90))
	require.NoError(t, err)

	projects.On("FindByIDForUser", mock.Anything, testUserID, proj.ID).Return(proj, nil)
	invoices.On("FindByProject", mock.Anything, proj.ID).Return([]billing.Invoice{
		paidInvoice(t, proj.ID, "200", time.Now().Add(-time.Hour)),
	}, nil)

	router := setupTestRouter()
	router.GET("/projects/:id/earnings", handler.GetProjectEarnings)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/projects/"+proj.ID.String()+"/earnings", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			TotalPaid decimal.Decimal `json:"total_paid"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "200", resp.Data.TotalPaid.String())
	projects.AssertExpectations(t)
	invoices.AssertExpectations(t)
}

func TestReportHandler_GetProjectEarnings_NotFound(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	projects := new(MockProjectRepository)
	handler := setupReportHandler(invoices, projects)

	projectID := uuid.New()
	projects.On("FindByIDForUser", mock.Anything, testUserID, projectID).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.GET("/projects/:id/earnings", handler.GetProjectEarnings)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/projects/"+projectID.String()+"/earnings", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	invoices.AssertNotCalled(t, "FindByProject", mock.Anything, mock.Anything)
}

func TestReportHandler_GetProjectEarnings_InvalidID(t *testing.T) {
	invoices := new(MockInvoiceRepository)
	projects := new(MockProjectRepository)
	handler := setupReportHandler(invoices, projects)

	router := setupTestRouter()
	router.GET("/projects/:id/earnings", handler.GetProjectEarnings)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authedRequest(http.MethodGet, "/projects/not-a-uuid/earnings", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
