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

var ErrInterventionNotFound = errors.New("intervention not found")

// InterventionService manages field jobs: lifecycle transitions are applied
// on the model, persisted, and each hop is recorded in intervention_logs.
type InterventionService struct {
	interventions repository.InterventionRepository
	demandes      repository.DemandeRepository
	logger        *zap.Logger
	now           func() time.Time
}

func NewInterventionService(interventions repository.InterventionRepository, demandes repository.DemandeRepository, logger *zap.Logger) *InterventionService {
	return &InterventionService{
		interventions: interventions,
		demandes:      demandes,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *InterventionService) Create(ctx context.Context, req *dto.CreateInterventionRequest, actorID string) (*model.Intervention, error) {
	if req.DemandeID != nil {
		if _, err := s.demandes.GetByID(ctx, *req.DemandeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrDemandeNotFound
			}
			return nil, err
		}
	}

	intervention := &model.Intervention{
		DemandeID:            req.DemandeID,
		TechnicienID:         req.TechnicienID,
		ClientID:             req.ClientID,
		TypeIntervention:     req.TypeIntervention,
		DescriptionTechnique: req.DescriptionTechnique,
		CompetencesRequises:  req.CompetencesRequises,
		Priorite:             defaultStr(req.Priorite, model.PrioriteNormale),
		Statut:               model.InterventionPlanifiee,
		DatePlanifiee:        req.DatePlanifiee,
		DureeEstimeeMinutes:  req.DureeEstimeeMinutes,
		AdresseIntervention:  req.AdresseIntervention,
		CoutEstime:           req.CoutEstime,
	}
	intervention.CreatedBy = &actorID

	if err := s.interventions.Create(ctx, intervention); err != nil {
		return nil, err
	}

	s.log(ctx, intervention, "creation", "", model.InterventionPlanifiee, "")

	s.logger.Info("intervention created",
		zap.String("intervention_id", intervention.InterventionID),
		zap.String("numero", intervention.NumeroIntervention))
	return intervention, nil
}

func (s *InterventionService) Get(ctx context.Context, id string) (*model.Intervention, error) {
	intervention, err := s.interventions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInterventionNotFound
		}
		return nil, err
	}
	return intervention, nil
}

func (s *InterventionService) List(ctx context.Context, filter repository.InterventionFilter, page, pageSize int) ([]model.Intervention, int64, error) {
	return s.interventions.List(ctx, filter, (page-1)*pageSize, pageSize)
}

func (s *InterventionService) ListEnRetard(ctx context.Context) ([]model.Intervention, error) {
	return s.interventions.ListEnRetard(ctx, s.now())
}

func (s *InterventionService) Update(ctx context.Context, id string, req *dto.UpdateInterventionRequest, actorID string) (*model.Intervention, error) {
	intervention, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	intervention.TechnicienID = req.TechnicienID
	intervention.ClientID = req.ClientID
	intervention.TypeIntervention = req.TypeIntervention
	intervention.DescriptionTechnique = req.DescriptionTechnique
	intervention.CompetencesRequises = req.CompetencesRequises
	if req.Priorite != "" {
		intervention.Priorite = req.Priorite
	}
	intervention.DatePlanifiee = req.DatePlanifiee
	intervention.DureeEstimeeMinutes = req.DureeEstimeeMinutes
	intervention.AdresseIntervention = req.AdresseIntervention
	intervention.CoutEstime = req.CoutEstime
	intervention.UpdatedBy = &actorID
	intervention.Version = req.Version

	if err := s.interventions.Update(ctx, intervention); err != nil {
		return nil, err
	}
	return intervention, nil
}

func (s *InterventionService) Delete(ctx context.Context, id string, actorID string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.interventions.Delete(ctx, id, actorID)
}

// PartirEnRoute moves planifiee → en_route.
func (s *InterventionService) PartirEnRoute(ctx context.Context, id string, actorID string) (*model.Intervention, error) {
	return s.transition(ctx, id, actorID, "depart", func(i *model.Intervention) bool {
		return i.PartirEnRoute()
	})
}

// ArriverSurSite moves en_route → sur_site.
func (s *InterventionService) ArriverSurSite(ctx context.Context, id string, actorID string) (*model.Intervention, error) {
	return s.transition(ctx, id, actorID, "arrivee", func(i *model.Intervention) bool {
		return i.ArriverSurSite(s.now())
	})
}

// Demarrer moves sur_site → en_cours.
func (s *InterventionService) Demarrer(ctx context.Context, id string, actorID string) (*model.Intervention, error) {
	return s.transition(ctx, id, actorID, "demarrage", func(i *model.Intervention) bool {
		return i.Demarrer(s.now())
	})
}

// Terminer completes the job and computes its KPIs.
func (s *InterventionService) Terminer(ctx context.Context, id string, req *dto.TerminerInterventionRequest, actorID string) (*model.Intervention, error) {
	return s.transition(ctx, id, actorID, "terminaison", func(i *model.Intervention) bool {
		i.ActionsRealisees = req.ActionsRealisees
		i.RapportTechnique = req.RapportTechnique
		i.CoutReel = req.CoutReel
		i.NoteClient = req.NoteClient
		i.FirstTimeFix = req.FirstTimeFix
		return i.Terminer(req.Succes, req.Diagnostic, s.now())
	})
}

// Annuler cancels the job from any non-terminal state.
func (s *InterventionService) Annuler(ctx context.Context, id string, actorID string) (*model.Intervention, error) {
	return s.transition(ctx, id, actorID, "annulation", func(i *model.Intervention) bool {
		return i.Annuler()
	})
}

// Logs lists the audit trail of the intervention.
func (s *InterventionService) Logs(ctx context.Context, id string) ([]model.InterventionLog, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.interventions.ListLogs(ctx, id)
}

func (s *InterventionService) transition(ctx context.Context, id, actorID, action string, apply func(*model.Intervention) bool) (*model.Intervention, error) {
	intervention, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	avant := intervention.Statut
	if !apply(intervention) {
		return nil, ErrInvalidTransition
	}
	intervention.UpdatedBy = &actorID

	if err := s.interventions.Update(ctx, intervention); err != nil {
		return nil, err
	}

	s.log(ctx, intervention, action, avant, intervention.Statut, "")

	s.logger.Info("intervention transition",
		zap.String("intervention_id", id),
		zap.String("action", action),
		zap.String("statut_avant", avant),
		zap.String("statut_apres", intervention.Statut))
	return intervention, nil
}

// log appends an audit row; a failure here must not fail the transition.
func (s *InterventionService) log(ctx context.Context, i *model.Intervention, action, avant, apres, description string) {
	entry := &model.InterventionLog{
		InterventionID:  i.InterventionID,
		TechnicienID:    i.TechnicienID,
		Action:          action,
		StatutAvant:     avant,
		StatutApres:     apres,
		Description:     description,
		TimestampAction: s.now(),
	}
	if err := s.interventions.CreateLog(ctx, entry); err != nil {
		s.logger.Warn("intervention log write failed",
			zap.String("intervention_id", i.InterventionID),
			zap.Error(err))
	}
}
