package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/philippe-delaval/Lesot-bon/internal/dto"
	"github.com/philippe-delaval/Lesot-bon/internal/model"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
)

var (
	ErrEquipeNotFound  = errors.New("equipe not found")
	ErrEquipeCodeTaken = errors.New("equipe code already in use")
	ErrEquipeComplete  = errors.New("equipe is at full capacity")
	ErrEquipeInactive  = errors.New("equipe is inactive")
	ErrMembreNotFound  = errors.New("employe is not an active member of this equipe")
)

// EquipeService manages teams and their memberships.
type EquipeService struct {
	equipes  repository.EquipeRepository
	employes repository.EmployeRepository
	logger   *zap.Logger
}

func NewEquipeService(equipes repository.EquipeRepository, employes repository.EmployeRepository, logger *zap.Logger) *EquipeService {
	return &EquipeService{equipes: equipes, employes: employes, logger: logger}
}

func (s *EquipeService) Create(ctx context.Context, req *dto.CreateEquipeRequest, actorID string) (*model.Equipe, error) {
	equipe := &model.Equipe{
		Nom:                 req.Nom,
		Code:                req.Code,
		Description:         req.Description,
		ChargeProjetID:      req.ChargeProjetID,
		Specialisation:      req.Specialisation,
		CapaciteMax:         req.CapaciteMax,
		CompetencesRequises: req.CompetencesRequises,
		VehiculesAttribues:  req.VehiculesAttribues,
		ZonesIntervention:   req.ZonesIntervention,
		HoraireDebut:        req.HoraireDebut,
		HoraireFin:          req.HoraireFin,
		Active:              true,
	}
	equipe.CreatedBy = &actorID

	if err := s.equipes.Create(ctx, equipe); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEquipeCodeTaken
		}
		return nil, err
	}

	s.logger.Info("equipe created", zap.String("equipe_id", equipe.EquipeID), zap.String("code", equipe.Code))
	return equipe, nil
}

func (s *EquipeService) Get(ctx context.Context, id string) (*model.Equipe, error) {
	equipe, err := s.equipes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEquipeNotFound
		}
		return nil, err
	}
	return equipe, nil
}

// GetByCode resolves an equipe by its short code.
func (s *EquipeService) GetByCode(ctx context.Context, code string) (*model.Equipe, error) {
	equipe, err := s.equipes.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEquipeNotFound
		}
		return nil, err
	}
	return equipe, nil
}

func (s *EquipeService) List(ctx context.Context, filter repository.EquipeFilter, page, pageSize int) ([]model.Equipe, int64, error) {
	return s.equipes.List(ctx, filter, (page-1)*pageSize, pageSize)
}

func (s *EquipeService) Update(ctx context.Context, id string, req *dto.UpdateEquipeRequest, actorID string) (*model.Equipe, error) {
	equipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	equipe.Nom = req.Nom
	equipe.Description = req.Description
	equipe.ChargeProjetID = req.ChargeProjetID
	equipe.Specialisation = req.Specialisation
	equipe.CapaciteMax = req.CapaciteMax
	equipe.CompetencesRequises = req.CompetencesRequises
	equipe.VehiculesAttribues = req.VehiculesAttribues
	equipe.ZonesIntervention = req.ZonesIntervention
	equipe.HoraireDebut = req.HoraireDebut
	equipe.HoraireFin = req.HoraireFin
	if req.Active != nil {
		equipe.Active = *req.Active
	}
	equipe.UpdatedBy = &actorID
	equipe.Version = req.Version

	if err := s.equipes.Update(ctx, equipe); err != nil {
		return nil, err
	}
	return equipe, nil
}

func (s *EquipeService) Delete(ctx context.Context, id string, actorID string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.equipes.Delete(ctx, id, actorID)
}

// AjouterEmploye joins an employe to the team. Fails on a full or inactive
// team; any prior active membership is closed in the same transaction.
func (s *EquipeService) AjouterEmploye(ctx context.Context, equipeID string, req *dto.AddMembreRequest) (*model.EquipeMembre, error) {
	equipe, err := s.Get(ctx, equipeID)
	if err != nil {
		return nil, err
	}
	if !equipe.Active {
		return nil, ErrEquipeInactive
	}
	if _, err := s.employes.GetByID(ctx, req.EmployeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeNotFound
		}
		return nil, err
	}

	role := req.RoleEquipe
	if role == "" {
		role = model.RoleEquipeMembre
	}

	membre, err := s.equipes.AddMembre(ctx, equipeID, req.EmployeID, role, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrEquipeComplete) {
			return nil, ErrEquipeComplete
		}
		return nil, err
	}

	s.logger.Info("membre ajoute",
		zap.String("equipe_id", equipeID),
		zap.String("employe_id", req.EmployeID),
		zap.String("role_equipe", role))
	return membre, nil
}

// RetirerEmploye closes the active membership of the employe in the team.
func (s *EquipeService) RetirerEmploye(ctx context.Context, equipeID, employeID string) error {
	if _, err := s.Get(ctx, equipeID); err != nil {
		return err
	}
	err := s.equipes.DeactivateMembre(ctx, equipeID, employeID, time.Now())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrMembreNotFound
	}
	return err
}

// Membres lists the team roster.
func (s *EquipeService) Membres(ctx context.Context, equipeID string, activesOnly bool) ([]model.EquipeMembre, error) {
	if _, err := s.Get(ctx, equipeID); err != nil {
		return nil, err
	}
	return s.equipes.ListMembres(ctx, equipeID, activesOnly)
}

// AffectationActive returns the current active membership of an employe,
// ErrMembreNotFound when they belong to no team.
func (s *EquipeService) AffectationActive(ctx context.Context, employeID string) (*model.EquipeMembre, error) {
	if _, err := s.employes.GetByID(ctx, employeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeNotFound
		}
		return nil, err
	}
	membre, err := s.equipes.GetActiveMembership(ctx, employeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembreNotFound
		}
		return nil, err
	}
	return membre, nil
}

// Effectif returns the active headcount and its staffing summary.
func (s *EquipeService) Effectif(ctx context.Context, equipeID string) (int, string, error) {
	equipe, err := s.Get(ctx, equipeID)
	if err != nil {
		return 0, "", err
	}
	n, err := s.equipes.CountActiveMembers(ctx, equipeID)
	if err != nil {
		return 0, "", err
	}
	return n, equipe.StatutEffectif(n), nil
}
