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
	ErrEmployeNotFound      = errors.New("employe not found")
	ErrMatriculeTaken       = errors.New("matricule already in use")
	ErrInvalidDisponibilite = errors.New("unknown disponibilite value")
)

var disponibilites = map[string]bool{
	model.DispoDisponible:   true,
	model.DispoIndisponible: true,
	model.DispoConge:        true,
	model.DispoArretMaladie: true,
	model.DispoFormation:    true,
}

// EmployeService manages the roster.
type EmployeService struct {
	employes repository.EmployeRepository
	logger   *zap.Logger
}

func NewEmployeService(employes repository.EmployeRepository, logger *zap.Logger) *EmployeService {
	return &EmployeService{employes: employes, logger: logger}
}

func (s *EmployeService) Create(ctx context.Context, req *dto.CreateEmployeRequest, actorID string) (*model.Employe, error) {
	employe := &model.Employe{
		Matricule:                req.Matricule,
		Nom:                      req.Nom,
		Prenom:                   req.Prenom,
		Email:                    req.Email,
		Telephone:                req.Telephone,
		StatutContrat:            defaultStr(req.StatutContrat, model.ContratCDI),
		RoleHierarchique:         defaultStr(req.RoleHierarchique, model.RoleOuvrier),
		ChargeProjetID:           req.ChargeProjetID,
		GestionnaireID:           req.GestionnaireID,
		HabilitationsElectriques: req.HabilitationsElectriques,
		Certifications:           req.Certifications,
		Competences:              req.Competences,
		DateDebut:                req.DateDebut,
		DateFin:                  req.DateFin,
		Disponibilite:            model.DispoDisponible,
		VehiculeAttribue:         req.VehiculeAttribue,
		Astreinte:                req.Astreinte,
		Notes:                    req.Notes,
	}
	employe.CreatedBy = &actorID

	if err := s.employes.Create(ctx, employe); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrMatriculeTaken
		}
		return nil, err
	}

	s.logger.Info("employe created",
		zap.String("employe_id", employe.EmployeID),
		zap.String("matricule", employe.Matricule))
	return employe, nil
}

func (s *EmployeService) Get(ctx context.Context, id string) (*model.Employe, error) {
	employe, err := s.employes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeNotFound
		}
		return nil, err
	}
	return employe, nil
}

// GetByMatricule resolves an employe by their badge number.
func (s *EmployeService) GetByMatricule(ctx context.Context, matricule string) (*model.Employe, error) {
	employe, err := s.employes.GetByMatricule(ctx, matricule)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeNotFound
		}
		return nil, err
	}
	return employe, nil
}

func (s *EmployeService) List(ctx context.Context, filter repository.EmployeFilter, page, pageSize int) ([]model.Employe, int64, error) {
	return s.employes.List(ctx, filter, (page-1)*pageSize, pageSize)
}

func (s *EmployeService) ListDisponibles(ctx context.Context) ([]model.Employe, error) {
	return s.employes.ListDisponibles(ctx)
}

func (s *EmployeService) Update(ctx context.Context, id string, req *dto.UpdateEmployeRequest, actorID string) (*model.Employe, error) {
	employe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	employe.Nom = req.Nom
	employe.Prenom = req.Prenom
	employe.Email = req.Email
	employe.Telephone = req.Telephone
	employe.StatutContrat = defaultStr(req.StatutContrat, employe.StatutContrat)
	employe.RoleHierarchique = defaultStr(req.RoleHierarchique, employe.RoleHierarchique)
	employe.ChargeProjetID = req.ChargeProjetID
	employe.GestionnaireID = req.GestionnaireID
	employe.HabilitationsElectriques = req.HabilitationsElectriques
	employe.Certifications = req.Certifications
	employe.Competences = req.Competences
	employe.DateDebut = req.DateDebut
	employe.DateFin = req.DateFin
	employe.VehiculeAttribue = req.VehiculeAttribue
	employe.Astreinte = req.Astreinte
	employe.Notes = req.Notes
	if req.Disponibilite != "" {
		employe.Disponibilite = req.Disponibilite
	}
	employe.UpdatedBy = &actorID
	employe.Version = req.Version

	if err := s.employes.Update(ctx, employe); err != nil {
		return nil, err
	}
	return employe, nil
}

// ChangerDisponibilite updates only the availability flag, used by the
// planning workflow when a conge or arret_maladie entry opens.
func (s *EmployeService) ChangerDisponibilite(ctx context.Context, id, disponibilite string) error {
	if !disponibilites[disponibilite] {
		return ErrInvalidDisponibilite
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.employes.UpdateDisponibilite(ctx, id, disponibilite)
}

func (s *EmployeService) Delete(ctx context.Context, id string, actorID string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.employes.Delete(ctx, id, actorID)
}

func defaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
