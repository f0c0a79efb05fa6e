package handler

import (
	"time"

	reportapp "github.com/freelancepro/backend/internal/application/report"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReportHandler handles earnings report API endpoints
type ReportHandler struct {
	BaseHandler
	earningsService *reportapp.EarningsService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(earningsService *reportapp.EarningsService) *ReportHandler {
	return &ReportHandler{
		earningsService: earningsService,
	}
}

// GetSummary returns the lifetime, month-to-date, week-to-date and today
// earnings totals for the current user.
func (h *ReportHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	summary, err := h.earningsService.GetSummary(c.Request.Context(), userID, time.Now())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetMonthlySeries returns the trailing-twelve-months earnings chart with
// year-to-date, previous-year and growth figures.
func (h *ReportHandler) GetMonthlySeries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	series, err := h.earningsService.GetMonthlySeries(c.Request.Context(), userID, time.Now())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, series)
}

// GetWeeklySeries returns the trailing-eight-weeks earnings chart.
func (h *ReportHandler) GetWeeklySeries(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	series, err := h.earningsService.GetWeeklySeries(c.Request.Context(), userID, time.Now())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, series)
}

// GetProjectEarnings returns the per-project earnings snapshot: invoiced
// and paid totals, outstanding balance, completion rate, status breakdown
// and the most recent payments.
func (h *ReportHandler) GetProjectEarnings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID format")
		return
	}

	earnings, err := h.earningsService.GetProjectEarnings(c.Request.Context(), userID, projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, earnings)
}
