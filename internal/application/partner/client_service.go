package partner

import (
	"context"

	"github.com/freelancepro/backend/internal/domain/partner"
	"github.com/freelancepro/backend/internal/domain/project"
	"github.com/freelancepro/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClientService manages the user's client roster
type ClientService struct {
	clients  partner.ClientRepository
	projects project.ProjectRepository
	logger   *zap.Logger
}

// NewClientService creates a new client service
func NewClientService(
	clients partner.ClientRepository,
	projects project.ProjectRepository,
	logger *zap.Logger,
) *ClientService {
	return &ClientService{
		clients:  clients,
		projects: projects,
		logger:   logger,
	}
}

// CreateClient adds a client to the user's roster
func (s *ClientService) CreateClient(ctx context.Context, userID uuid.UUID, name, email, company, phone string) (*partner.Client, error) {
	client, err := partner.NewClient(userID, name, email, company, phone)
	if err != nil {
		return nil, err
	}

	if err := s.clients.Save(ctx, client); err != nil {
		return nil, err
	}

	s.logger.Info("Client created",
		zap.String("client_id", client.ID.String()),
		zap.String("user_id", userID.String()),
	)
	return client, nil
}

// GetClient returns a single client owned by the user
func (s *ClientService) GetClient(ctx context.Context, userID, clientID uuid.UUID) (*partner.Client, error) {
	return s.clients.FindByIDForUser(ctx, userID, clientID)
}

// ListClients returns the user's clients with pagination
func (s *ClientService) ListClients(ctx context.Context, userID uuid.UUID, filter shared.Filter) ([]partner.Client, int64, error) {
	return s.clients.FindByUser(ctx, userID, filter)
}

// UpdateClient applies new contact details to a client
func (s *ClientService) UpdateClient(ctx context.Context, userID, clientID uuid.UUID, name, email, company, phone string) (*partner.Client, error) {
	client, err := s.clients.FindByIDForUser(ctx, userID, clientID)
	if err != nil {
		return nil, err
	}

	if err := client.UpdateDetails(name, email, company, phone); err != nil {
		return nil, err
	}

	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient removes a client that has no projects. Clients with
// projects keep the earnings history anchored and cannot be deleted.
func (s *ClientService) DeleteClient(ctx context.Context, userID, clientID uuid.UUID) error {
	if _, err := s.clients.FindByIDForUser(ctx, userID, clientID); err != nil {
		return err
	}

	projects, err := s.projects.FindByClient(ctx, clientID)
	if err != nil {
		return err
	}
	if len(projects) > 0 {
		return shared.NewDomainError("INVALID_STATE", "Client with projects cannot be deleted")
	}

	return s.clients.Delete(ctx, userID, clientID)
}
