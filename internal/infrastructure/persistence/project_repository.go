package persistence

import (
	"context"
	"errors"

	"github.com/freelancepro/backend/internal/domain/project"
	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProjectRepository implements ProjectRepository using GORM
type GormProjectRepository struct {
	db *gorm.DB
}

// NewGormProjectRepository creates a new GormProjectRepository
func NewGormProjectRepository(db *gorm.DB) *GormProjectRepository {
	return &GormProjectRepository{db: db}
}

// FindByID finds a project by its ID
func (r *GormProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var proj project.Project
	if err := r.db.WithContext(ctx).First(&proj, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &proj, nil
}

// FindByIDForUser finds a project by ID owned by the user
func (r *GormProjectRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*project.Project, error) {
	var proj project.Project
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&proj).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &proj, nil
}

// FindByUser finds the user's projects with pagination
func (r *GormProjectRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]project.Project, int64, error) {
	query := r.db.WithContext(ctx).Model(&project.Project{}).Where("user_id = ?", userID)

	if filter.Search != "" {
		query = query.Where("name LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	// Sorting goes through the whitelist so only known column names
	// reach the ORDER BY clause.
	sortField := ValidateSortField(filter.OrderBy, ProjectSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	var projects []project.Project
	if err := query.Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// FindByClient finds all projects of a single client
func (r *GormProjectRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]project.Project, error) {
	var projects []project.Project
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Save persists a new project
func (r *GormProjectRepository) Save(ctx context.Context, proj *project.Project) error {
	return r.db.WithContext(ctx).Create(proj).Error
}

// Update persists changes to an existing project
func (r *GormProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	return r.db.WithContext(ctx).Save(proj).Error
}

// Delete removes a project owned by the user
func (r *GormProjectRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&project.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormProjectRepository implements ProjectRepository
var _ project.ProjectRepository = (*GormProjectRepository)(nil)
