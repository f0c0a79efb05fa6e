package handler

import (
	projectapp "github.com/freelancepro/backend/internal/application/project"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectHandler handles project-related API endpoints
type ProjectHandler struct {
	BaseHandler
	projectService *projectapp.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *projectapp.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// CreateProjectRequest represents a request to create a new project
type CreateProjectRequest struct {
	ClientID    string   `json:"client_id" binding:"required,uuid"`
	Name        string   `json:"name" binding:"required,min=1,max=255"`
	Description string   `json:"description" binding:"max=1000"`
	HourlyRate  *float64 `json:"hourly_rate" binding:"omitempty,gte=0"`
}

// Create creates a new project for one of the caller's clients
func (h *ProjectHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid user ID")
		return
	}

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		h.BadRequest(c, "Invalid client ID format")
		return
	}

	hourlyRate := decimal.Zero
	if req.HourlyRate != nil {
		hourlyRate = decimal.NewFromFloat(*req.HourlyRate)
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), userID, clientID, req.Name, req.Description, hourlyRate)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, project)
}

// GetByID retrieves a project by ID
func (h *ProjectHandler) GetByID(c *gin.Context) {
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

	project, err := h.projectService.GetProject(c.Request.Context(), userID, projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, project)
}

// List retrieves a paginated list of the caller's projects
func (h *ProjectHandler) List(c *gin.Context) {
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

	projects, total, err := h.projectService.ListProjects(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, projects, total, filter.Page, filter.PageSize)
}

// Complete marks an active project as completed
func (h *ProjectHandler) Complete(c *gin.Context) {
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

	project, err := h.projectService.CompleteProject(c.Request.Context(), userID, projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, project)
}

// Archive archives a project
func (h *ProjectHandler) Archive(c *gin.Context) {
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

	project, err := h.projectService.ArchiveProject(c.Request.Context(), userID, projectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, project)
}

// Delete removes a project. Projects with invoices cannot be deleted.
func (h *ProjectHandler) Delete(c *gin.Context) {
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

	if err := h.projectService.DeleteProject(c.Request.Context(), userID, projectID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
