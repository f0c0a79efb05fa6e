package handler

import (
	"time"

	billingapp "github.com/freelancepro/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceHandler handles invoice-related API endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *billingapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *billingapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
	}
}

// CreateInvoiceRequest represents a request to create a new invoice.
// The invoice number is allocated server-side and never accepted from
// the client. When due_date is omitted the user's payment terms apply.
type CreateInvoiceRequest struct {
	ProjectID string     `json:"project_id" binding:"required,uuid"`
	Amount    float64    `json:"amount" binding:"required,gt=0"`
	DueDate   *time.Time `json:"due_date"`
	Notes     string     `json:"notes" binding:"max=500"`
}

// RecordPaymentRequest represents a request to mark an invoice paid
type RecordPaymentRequest struct {
	PaidAt *time.Time `json:"paid_at"`
}

// Create creates an invoice for one of the caller's projects. A retried
// request carrying the same Idempotency-Key header is rejected with a
// conflict instead of allocating a second invoice number.
func (h *InvoiceHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	input := billingapp.CreateInvoiceInput{
		ProjectID: projectID,
		Amount:    decimal.NewFromFloat(req.Amount),
		Notes:     req.Notes,
	}
	if req.DueDate != nil {
		input.DueDate = *req.DueDate
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), userID, input, c.GetHeader("Idempotency-Key"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, invoice)
}

// RecordPayment marks an invoice as paid. The payment timestamp defaults
// to the current time when not supplied.
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	// The body is optional; an absent paid_at means "paid now".
	var req RecordPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindingError(c, err)
			return
		}
	}

	paidAt := time.Now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}

	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), userID, invoiceID, paidAt)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// GetByID retrieves one of the caller's invoices
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), userID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List retrieves a paginated list of the caller's invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	filter, err := listFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	invoices, total, err := h.invoiceService.ListInvoices(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, invoices, total, filter.Page, filter.PageSize)
}

// Delete removes an unpaid invoice. Paid invoices are part of the
// earnings history and cannot be deleted.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), userID, invoiceID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
