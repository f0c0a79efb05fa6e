package partner

import (
	"context"

	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Client represents a customer of the freelancer. Projects (and through
// them, invoices) hang off a client.
type Client struct {
	shared.UserOwnedEntity
	Name    string `gorm:"size:255;not null" json:"name"`
	Email   string `gorm:"size:255" json:"email"`
	Company string `gorm:"size:255" json:"company"`
	Phone   string `gorm:"size:50" json:"phone"`
	Notes   string `gorm:"size:1000" json:"notes"`
}

// TableName returns the table name for GORM
func (Client) TableName() string {
	return "clients"
}

// NewClient creates a new client
func NewClient(userID uuid.UUID, name, email, company, phone string) (*Client, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 255 {
		return nil, shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 255 characters")
	}

	return &Client{
		UserOwnedEntity: shared.NewUserOwnedEntity(userID),
		Name:            name,
		Email:           email,
		Company:         company,
		Phone:           phone,
	}, nil
}

// UpdateDetails applies new contact details to the client
func (c *Client) UpdateDetails(name, email, company, phone string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_NAME", "Client name cannot exceed 255 characters")
	}
	c.Name = name
	c.Email = email
	c.Company = company
	c.Phone = phone
	return nil
}

// ClientRepository defines persistence operations for clients
type ClientRepository interface {
	FindByIDForUser(ctx context.Context, userID, id uuid.UUID) (*Client, error)
	FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]Client, int64, error)
	Save(ctx context.Context, client *Client) error
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
