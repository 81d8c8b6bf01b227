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
	ErrAttachementNotFound = errors.New("attachement not found")
	ErrAttachementSigne    = errors.New("attachement is signed and immutable")
)

// AttachementService manages the finalized work-order records.
type AttachementService struct {
	attachements repository.AttachementRepository
	logger       *zap.Logger
	now          func() time.Time
}

func NewAttachementService(attachements repository.AttachementRepository, logger *zap.Logger) *AttachementService {
	return &AttachementService{attachements: attachements, logger: logger, now: time.Now}
}

func (s *AttachementService) Create(ctx context.Context, req *dto.CreateAttachementRequest, actorID string) (*model.Attachement, error) {
	attachement := &model.Attachement{
		ClientID:           req.ClientID,
		DemandeID:          req.DemandeID,
		NomClient:          req.NomClient,
		LieuIntervention:   req.LieuIntervention,
		DescriptionTravaux: req.DescriptionTravaux,
		FournituresLignes:  req.FournituresLignes,
		DateIntervention:   req.DateIntervention,
	}
	attachement.CreatedBy = &actorID

	if err := s.attachements.Create(ctx, attachement); err != nil {
		return nil, err
	}

	s.logger.Info("attachement created",
		zap.String("attachement_id", attachement.AttachementID),
		zap.String("numero_dossier", attachement.NumeroDossier))
	return attachement, nil
}

func (s *AttachementService) Get(ctx context.Context, id string) (*model.Attachement, error) {
	attachement, err := s.attachements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttachementNotFound
		}
		return nil, err
	}
	return attachement, nil
}

// GetByNumero resolves an attachement by its file number (ATT-YYYY-NNNN).
func (s *AttachementService) GetByNumero(ctx context.Context, numero string) (*model.Attachement, error) {
	attachement, err := s.attachements.GetByNumeroDossier(ctx, numero)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttachementNotFound
		}
		return nil, err
	}
	return attachement, nil
}

func (s *AttachementService) List(ctx context.Context, filter repository.AttachementFilter, page, pageSize int) ([]model.Attachement, int64, error) {
	return s.attachements.List(ctx, filter, (page-1)*pageSize, pageSize)
}

func (s *AttachementService) Update(ctx context.Context, id string, req *dto.UpdateAttachementRequest, actor policy.Actor) (*model.Attachement, error) {
	attachement, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanUpdateAttachement(actor, attachement) {
		if attachement.EstSigne() {
			return nil, ErrAttachementSigne
		}
		return nil, ErrNotAuthorized
	}

	attachement.ClientID = req.ClientID
	attachement.DemandeID = req.DemandeID
	attachement.NomClient = req.NomClient
	attachement.LieuIntervention = req.LieuIntervention
	attachement.DescriptionTravaux = req.DescriptionTravaux
	attachement.FournituresLignes = req.FournituresLignes
	attachement.DateIntervention = req.DateIntervention
	attachement.UpdatedBy = &actor.UserID
	attachement.Version = req.Version

	if err := s.attachements.Update(ctx, attachement); err != nil {
		return nil, err
	}
	return attachement, nil
}

// Signer records the signature paths and names. Once both signatures are on
// file the record becomes immutable; date_signature is stamped when the
// second one arrives.
func (s *AttachementService) Signer(ctx context.Context, id string, req *dto.SignerAttachementRequest, actor policy.Actor) (*model.Attachement, error) {
	attachement, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if attachement.EstSigne() {
		return nil, ErrAttachementSigne
	}

	if req.NomSignataireClient != "" {
		attachement.NomSignataireClient = req.NomSignataireClient
	}
	if req.NomSignataireEntreprise != "" {
		attachement.NomSignataireEntreprise = req.NomSignataireEntreprise
	}
	if req.SignatureClientPath != "" {
		attachement.SignatureClientPath = req.SignatureClientPath
	}
	if req.SignatureEntreprisePath != "" {
		attachement.SignatureEntreprisePath = req.SignatureEntreprisePath
	}
	if attachement.EstSigne() && attachement.DateSignature == nil {
		t := s.now()
		attachement.DateSignature = &t
	}
	attachement.UpdatedBy = &actor.UserID

	if err := s.attachements.Update(ctx, attachement); err != nil {
		return nil, err
	}

	if attachement.EstSigne() {
		s.logger.Info("attachement signe",
			zap.String("attachement_id", id),
			zap.String("numero_dossier", attachement.NumeroDossier))
	}
	return attachement, nil
}

func (s *AttachementService) Delete(ctx context.Context, id string, actor policy.Actor) error {
	attachement, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanDeleteAttachement(actor, attachement) {
		if attachement.EstSigne() {
			return ErrAttachementSigne
		}
		return ErrNotAuthorized
	}
	return s.attachements.Delete(ctx, id, actor.UserID)
}
