package project

import (
	"context"

	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
	ProjectStatusArchived  ProjectStatus = "ARCHIVED"
)

// IsValid checks if the status is a valid ProjectStatus
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusArchived:
		return true
	}
	return false
}

// String returns the string representation of ProjectStatus
func (s ProjectStatus) String() string {
	return string(s)
}

// Project represents a body of work billed to a single client
type Project struct {
	shared.UserOwnedEntity
	ClientID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"client_id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description string          `gorm:"size:1000" json:"description"`
	HourlyRate  decimal.Decimal `gorm:"type:decimal(10,2)" json:"hourly_rate"`
	Status      ProjectStatus   `gorm:"size:20;not null" json:"status"`
}

// TableName returns the table name for GORM
func (Project) TableName() string {
	return "projects"
}

// NewProject creates a new active project for a client
func NewProject(userID, clientID uuid.UUID, name, description string, hourlyRate decimal.Decimal) (*Project, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if clientID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLIENT", "Client ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_NAME", "Project name cannot exceed 255 characters")
	}
	if hourlyRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Hourly rate cannot be negative")
	}

	return &Project{
		UserOwnedEntity: shared.NewUserOwnedEntity(userID),
		ClientID:        clientID,
		Name:            name,
		Description:     description,
		HourlyRate:      hourlyRate,
		Status:          ProjectStatusActive,
	}, nil
}

// Complete marks the project as completed
func (p *Project) Complete() error {
	if p.Status != ProjectStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active projects can be completed")
	}
	p.Status = ProjectStatusCompleted
	return nil
}

// Archive marks the project as archived
func (p *Project) Archive() error {
	if p.Status == ProjectStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Project is already archived")
	}
	p.Status = ProjectStatusArchived
	return nil
}

// ProjectRepository defines persistence operations for projects
type ProjectRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Project, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Project, int64, error)
	FindByClient(ctx context.Context, clientID uuid.UUID) ([]Project, error)
	Save(ctx context.Context, project *Project) error
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
