package persistence

import (
	"context"
	"errors"

	"github.com/freelancepro/backend/internal/domain/partner"
	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClientRepository implements ClientRepository using GORM
type GormClientRepository struct {
	db *gorm.DB
}

// NewGormClientRepository creates a new GormClientRepository
func NewGormClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// FindByIDForUser finds a client by ID owned by the user
func (r *GormClientRepository) FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*partner.Client, error) {
	var client partner.Client
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// FindByUser finds the user's clients with pagination
func (r *GormClientRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]partner.Client, int64, error) {
	query := r.db.WithContext(ctx).Model(&partner.Client{}).Where("user_id = ?", userID)

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR company LIKE ?",
			searchPattern, searchPattern, searchPattern)
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
	sortField := ValidateSortField(filter.OrderBy, ClientSortFields, "name")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	var clients []partner.Client
	if err := query.Find(&clients).Error; err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

// Save persists a new client
func (r *GormClientRepository) Save(ctx context.Context, client *partner.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// Update persists changes to an existing client
func (r *GormClientRepository) Update(ctx context.Context, client *partner.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// Delete removes a client owned by the user
func (r *GormClientRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&partner.Client{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormClientRepository implements ClientRepository
var _ partner.ClientRepository = (*GormClientRepository)(nil)
