package handler

import (
	identityapp "github.com/freelancepro/backend/internal/application/identity"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SettingsHandler handles user profile settings endpoints
type SettingsHandler struct {
	BaseHandler
	settingsService *identityapp.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *identityapp.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// UpdateSettingsRequest represents a request to update profile settings
type UpdateSettingsRequest struct {
	BusinessName     string  `json:"business_name" binding:"max=255"`
	HourlyRate       float64 `json:"hourly_rate" binding:"gte=0"`
	PaymentTermsDays int     `json:"payment_terms_days" binding:"required,gt=0"`
}

// Get returns the caller's settings. Users who never saved settings get
// the defaults rather than a 404.
func (h *SettingsHandler) Get(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	profile, err := h.settingsService.GetSettings(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, profile)
}

// Update saves the caller's settings, creating the profile on first use
func (h *SettingsHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	profile, err := h.settingsService.UpdateSettings(
		c.Request.Context(), userID, req.BusinessName, decimal.NewFromFloat(req.HourlyRate), req.PaymentTermsDays,
	)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, profile)
}
