package shared

import (
	"time"

	"github.com/google/uuid"
)

// Entity is the base interface for all domain entities
type Entity interface {
	GetID() uuid.UUID
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity provides common fields for all entities
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetID returns the entity ID
func (e *BaseEntity) GetID() uuid.UUID {
	return e.ID
}

// GetCreatedAt returns the creation timestamp
func (e *BaseEntity) GetCreatedAt() time.Time {
	return e.CreatedAt
}

// GetUpdatedAt returns the last update timestamp
func (e *BaseEntity) GetUpdatedAt() time.Time {
	return e.UpdatedAt
}

// NewBaseEntity creates a new base entity with generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UserOwnedEntity extends BaseEntity with a user scope.
// Every record in this system belongs to exactly one user; the owning
// user ID arrives from the upstream gateway, never from session state.
type UserOwnedEntity struct {
	BaseEntity
	UserID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// NewUserOwnedEntity creates a new user-scoped entity
func NewUserOwnedEntity(userID uuid.UUID) UserOwnedEntity {
	return UserOwnedEntity{
		BaseEntity: NewBaseEntity(),
		UserID:     userID,
	}
}

// GetUserID returns the owning user ID
func (e *UserOwnedEntity) GetUserID() uuid.UUID {
	return e.UserID
}
