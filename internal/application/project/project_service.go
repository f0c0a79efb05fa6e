package project

import (
	"context"

	"github.com/freelancepro/backend/internal/domain/billing"
	"github.com/freelancepro/backend/internal/domain/partner"
	"github.com/freelancepro/backend/internal/domain/project"
	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProjectService manages the user's projects
type ProjectService struct {
	projects project.ProjectRepository
	clients  partner.ClientRepository
	invoices billing.InvoiceRepository
	logger   *zap.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projects project.ProjectRepository,
	clients partner.ClientRepository,
	invoices billing.InvoiceRepository,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		projects: projects,
		clients:  clients,
		invoices: invoices,
		logger:   logger,
	}
}

// CreateProject starts a project for one of the user's clients
func (s *ProjectService) CreateProject(ctx context.Context, userID, clientID uuid.UUID, name, description string, hourlyRate decimal.Decimal) (*project.Project, error) {
	// The client must exist and belong to the caller.
	if _, err := s.clients.FindByIDForUser(ctx, userID, clientID); err != nil {
		return nil, err
	}

	proj, err := project.NewProject(userID, clientID, name, description, hourlyRate)
	if err != nil {
		return nil, err
	}

	if err := s.projects.Save(ctx, proj); err != nil {
		return nil, err
	}

	s.logger.Info("Project created",
		zap.String("project_id", proj.ID.String()),
		zap.String("client_id", clientID.String()),
	)
	return proj, nil
}

// GetProject returns a single project owned by the user
func (s *ProjectService) GetProject(ctx context.Context, userID, projectID uuid.UUID) (*project.Project, error) {
	return s.projects.FindByIDForUser(ctx, userID, projectID)
}

// ListProjects returns the user's projects with pagination
func (s *ProjectService) ListProjects(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]project.Project, int64, error) {
	return s.projects.FindByUser(ctx, userID, filter)
}

// CompleteProject marks a project as completed
func (s *ProjectService) CompleteProject(ctx context.Context, userID, projectID uuid.UUID) (*project.Project, error) {
	proj, err := s.projects.FindByIDForUser(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if err := proj.Complete(); err != nil {
		return nil, err
	}

	if err := s.projects.Update(ctx, proj); err != nil {
		return nil, err
	}
	return proj, nil
}

// ArchiveProject marks a project as archived
func (s *ProjectService) ArchiveProject(ctx context.Context, userID, projectID uuid.UUID) (*project.Project, error) {
	proj, err := s.projects.FindByIDForUser(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if err := proj.Archive(); err != nil {
		return nil, err
	}

	if err := s.projects.Update(ctx, proj); err != nil {
		return nil, err
	}
	return proj, nil
}

// DeleteProject removes a project without invoices. Projects with
// invoices carry earnings history and cannot be deleted.
func (s *ProjectService) DeleteProject(ctx context.Context, userID, projectID uuid.UUID) error {
	if _, err := s.projects.FindByIDForUser(ctx, userID, projectID); err != nil {
		return err
	}

	invoices, err := s.invoices.FindByProject(ctx, projectID)
	if err != nil {
		return err
	}
	if len(invoices) > 0 {
		return shared.NewDomainError("INVALID_STATE", "Project with invoices cannot be deleted")
	}

	return s.projects.Delete(ctx, userID, projectID)
}
