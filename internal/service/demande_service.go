package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/philippe-delaval/Lesot-bon/internal/dto"
	"github.com/philippe-delaval/Lesot-bon/internal/model"
	"github.com/philippe-delaval/Lesot-bon/internal/policy"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
)

var (
	ErrDemandeNotFound       = errors.New("demande not found")
	ErrNotAuthorized         = errors.New("operation not allowed for this user")
	ErrDemandeNotConvertible = errors.New("demande cannot be converted")
)

// DemandeService manages the staffing-request workflow. Every mutation goes
// through a policy gate keyed on the acting user.
type DemandeService struct {
	demandes     repository.DemandeRepository
	attachements repository.AttachementRepository
	clients      repository.ClientRepository
	logger       *zap.Logger
	now          func() time.Time
}

func NewDemandeService(demandes repository.DemandeRepository, attachements repository.AttachementRepository, clients repository.ClientRepository, logger *zap.Logger) *DemandeService {
	return &DemandeService{
		demandes:     demandes,
		attachements: attachements,
		clients:      clients,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *DemandeService) Create(ctx context.Context, req *dto.CreateDemandeRequest, actor policy.Actor) (*model.Demande, error) {
	if req.ClientID != nil {
		if _, err := s.clients.GetByID(ctx, *req.ClientID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, err
		}
	}

	demande := &model.Demande{
		Titre:                    req.Titre,
		Description:              req.Description,
		Priorite:                 defaultStr(req.Priorite, model.PrioriteNormale),
		Statut:                   model.DemandeEnAttente,
		CreateurID:               actor.UserID,
		ClientID:                 req.ClientID,
		LieuIntervention:         req.LieuIntervention,
		DateDemande:              s.now(),
		DateSouhaiteIntervention: req.DateSouhaiteIntervention,
	}
	demande.CreatedBy = &actor.UserID

	if err := s.demandes.Create(ctx, demande); err != nil {
		return nil, err
	}

	s.logger.Info("demande created",
		zap.String("demande_id", demande.DemandeID),
		zap.String("numero", demande.NumeroDemande))
	return demande, nil
}

func (s *DemandeService) Get(ctx context.Context, id string, actor policy.Actor) (*model.Demande, error) {
	demande, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewDemande(actor, demande) {
		return nil, ErrNotAuthorized
	}
	return demande, nil
}

func (s *DemandeService) List(ctx context.Context, filter repository.DemandeFilter, actor policy.Actor, page, pageSize int) ([]model.Demande, int64, error) {
	// members only see what they created or received
	if actor.Role == model.UserRoleMembre && filter.CreateurID == "" && filter.ReceveurID == "" {
		filter.CreateurID = actor.UserID
	}
	return s.demandes.List(ctx, filter, (page-1)*pageSize, pageSize)
}

func (s *DemandeService) Update(ctx context.Context, id string, req *dto.UpdateDemandeRequest, actor policy.Actor) (*model.Demande, error) {
	demande, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpdateDemande(actor, demande) {
		return nil, ErrNotAuthorized
	}

	demande.Titre = req.Titre
	demande.Description = req.Description
	if req.Priorite != "" {
		demande.Priorite = req.Priorite
	}
	demande.ClientID = req.ClientID
	demande.LieuIntervention = req.LieuIntervention
	demande.DateSouhaiteIntervention = req.DateSouhaiteIntervention
	demande.UpdatedBy = &actor.UserID
	demande.Version = req.Version

	if err := s.demandes.Update(ctx, demande); err != nil {
		return nil, err
	}
	return demande, nil
}

func (s *DemandeService) Delete(ctx context.Context, id string, actor policy.Actor) error {
	demande, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanDeleteDemande(actor, demande) {
		return ErrNotAuthorized
	}
	return s.demandes.Delete(ctx, id, actor.UserID)
}

// Assigner routes a pending demande to a receiver. Creator only.
func (s *DemandeService) Assigner(ctx context.Context, id string, req *dto.AssignDemandeRequest, actor policy.Actor) (*model.Demande, error) {
	demande, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanAssignDemande(actor, demande) {
		return nil, ErrNotAuthorized
	}
	if !demande.Assigner(req.ReceveurID, s.now()) {
		return nil, ErrInvalidTransition
	}
	demande.UpdatedBy = &actor.UserID
	if err := s.demandes.Update(ctx, demande); err != nil {
		return nil, err
	}

	s.logger.Info("demande assignee",
		zap.String("demande_id", id),
		zap.String("receveur_id", req.ReceveurID))
	return demande, nil
}

// Demarrer moves an assigned demande into progress.
func (s *DemandeService) Demarrer(ctx context.Context, id string, actor policy.Actor) (*model.Demande, error) {
	demande, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanCompleteDemande(actor, demande) {
		return nil, ErrNotAuthorized
	}
	if !demande.Demarrer() {
		return nil, ErrInvalidTransition
	}
	demande.UpdatedBy = &actor.UserID
	if err := s.demandes.Update(ctx, demande); err != nil {
		return nil, err
	}
	return demande, nil
}

// Terminer completes the demande. Receiver only.
func (s *DemandeService) Terminer(ctx context.Context, id string, req *dto.CompleteDemandeRequest, actor policy.Actor) (*model.Demande, error) {
	demande, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanCompleteDemande(actor, demande) {
		return nil, ErrNotAuthorized
	}
	if !demande.Terminer(req.NotesReceveur, s.now()) {
		return nil, ErrInvalidTransition
	}
	demande.UpdatedBy = &actor.UserID
	if err := s.demandes.Update(ctx, demande); err != nil {
		return nil, err
	}

	s.logger.Info("demande terminee", zap.String("demande_id", id))
	return demande, nil
}

// Annuler cancels a non-terminal demande. Creator only.
func (s *DemandeService) Annuler(ctx context.Context, id string, actor policy.Actor) (*model.Demande, error) {
	demande, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanCancelDemande(actor, demande) {
		return nil, ErrNotAuthorized
	}
	if !demande.Annuler() {
		return nil, ErrInvalidTransition
	}
	demande.UpdatedBy = &actor.UserID
	if err := s.demandes.Update(ctx, demande); err != nil {
		return nil, err
	}
	return demande, nil
}

// ConvertirEnAttachement creates an attachement from a completed demande,
// carrying over the client linkage and the intervention location, and links
// it back on the demande.
func (s *DemandeService) ConvertirEnAttachement(ctx context.Context, id string, actor policy.Actor) (*model.Attachement, error) {
	demande, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanConvertDemande(actor, demande) {
		if !demande.PeutEtreConvertie() {
			return nil, ErrDemandeNotConvertible
		}
		return nil, ErrNotAuthorized
	}

	nomClient := demande.Titre
	if demande.ClientID != nil {
		if client, err := s.clients.GetByID(ctx, *demande.ClientID); err == nil {
			nomClient = client.NomSociete
		}
	}

	attachement := &model.Attachement{
		ClientID:           demande.ClientID,
		DemandeID:          &demande.DemandeID,
		NomClient:          nomClient,
		LieuIntervention:   demande.LieuIntervention,
		DescriptionTravaux: demande.Description,
	}
	attachement.CreatedBy = &actor.UserID

	if err := s.attachements.Create(ctx, attachement); err != nil {
		return nil, err
	}

	demande.AttachementID = &attachement.AttachementID
	demande.UpdatedBy = &actor.UserID
	if err := s.demandes.Update(ctx, demande); err != nil {
		return nil, err
	}

	s.logger.Info("demande convertie en attachement",
		zap.String("demande_id", id),
		zap.String("attachement_id", attachement.AttachementID),
		zap.String("numero_dossier", attachement.NumeroDossier))
	return attachement, nil
}

func (s *DemandeService) load(ctx context.Context, id string) (*model.Demande, error) {
	demande, err := s.demandes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDemandeNotFound
		}
		return nil, err
	}
	return demande, nil
}
