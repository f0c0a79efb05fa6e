package handler

import (
	partnerapp "github.com/freelancepro/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ClientHandler handles client-related API endpoints
type ClientHandler struct {
	BaseHandler
	clientService *partnerapp.ClientService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *partnerapp.ClientService) *ClientHandler {
	return &ClientHandler{
		clientService: clientService,
	}
}

// CreateClientRequest represents a request to create a new client
type CreateClientRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Email   string `json:"email" binding:"omitempty,email,max=255"`
	Company string `json:"company" binding:"max=255"`
	Phone   string `json:"phone" binding:"max=50"`
}

// UpdateClientRequest represents a request to update a client
type UpdateClientRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Email   string `json:"email" binding:"omitempty,email,max=255"`
	Company string `json:"company" binding:"max=255"`
	Phone   string `json:"phone" binding:"max=50"`
}

// Create creates a new client
func (h *ClientHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), userID, req.Name, req.Email, req.Company, req.Phone)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, client)
}

// GetByID retrieves a client by ID
func (h *ClientHandler) GetByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), userID, clientID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, client)
}

// List retrieves a paginated list of the caller's clients, optionally
// filtered by a search term over name, email and company
func (h *ClientHandler) List(c *gin.Context) {
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

	clients, total, err := h.clientService.ListClients(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, clients, total, filter.Page, filter.PageSize)
}

// Update updates a client's contact details
func (h *ClientHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), userID, clientID, req.Name, req.Email, req.Company, req.Phone)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, client)
}

// Delete removes a client. Clients with projects cannot be deleted.
func (h *ClientHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), userID, clientID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
