package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/philippe-delaval/Lesot-bon/internal/dto"
	"github.com/philippe-delaval/Lesot-bon/internal/model"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrClientCodeTaken = errors.New("client code already in use")
)

// ClientService manages the customer directory.
type ClientService struct {
	clients repository.ClientRepository
	logger  *zap.Logger
}

func NewClientService(clients repository.ClientRepository, logger *zap.Logger) *ClientService {
	return &ClientService{clients: clients, logger: logger}
}

func (s *ClientService) Create(ctx context.Context, req *dto.CreateClientRequest, actorID string) (*model.Client, error) {
	client := &model.Client{
		Code:       req.Code,
		NomSociete: req.NomSociete,
		NomContact: req.NomContact,
		Email:      req.Email,
		Telephone:  req.Telephone,
		Adresse:    req.Adresse,
		CodePostal: req.CodePostal,
		Ville:      req.Ville,
		Notes:      req.Notes,
		Active:     true,
	}
	client.CreatedBy = &actorID

	if err := s.clients.Create(ctx, client); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrClientCodeTaken
		}
		return nil, err
	}

	s.logger.Info("client created", zap.String("client_id", client.ClientID), zap.String("code", client.Code))
	return client, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*model.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return client, nil
}

func (s *ClientService) List(ctx context.Context, filter repository.ClientFilter, page, pageSize int) ([]model.Client, int64, error) {
	return s.clients.List(ctx, filter, (page-1)*pageSize, pageSize)
}

func (s *ClientService) Update(ctx context.Context, id string, req *dto.UpdateClientRequest, actorID string) (*model.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	client.Code = req.Code
	client.NomSociete = req.NomSociete
	client.NomContact = req.NomContact
	client.Email = req.Email
	client.Telephone = req.Telephone
	client.Adresse = req.Adresse
	client.CodePostal = req.CodePostal
	client.Ville = req.Ville
	client.Notes = req.Notes
	if req.Active != nil {
		client.Active = *req.Active
	}
	client.UpdatedBy = &actorID
	client.Version = req.Version

	if err := s.clients.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) Delete(ctx context.Context, id string, actorID string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.clients.Delete(ctx, id, actorID)
}
