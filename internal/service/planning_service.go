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
	ErrPlanningNotFound      = errors.New("planning not found")
	ErrPlanningConflict      = errors.New("employe already has a planning on this window")
	ErrPlanningNotEditable   = errors.New("planning can no longer be modified")
	ErrPlanningNotCancelable = errors.New("planning can no longer be cancelled")
	ErrInvalidWindow         = errors.New("date_debut must be before date_fin")
	ErrInvalidTransition     = errors.New("transition not allowed from current status")
)

// PlanningService manages schedule entries and their lifecycle.
type PlanningService struct {
	plannings repository.PlanningRepository
	employes  repository.EmployeRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewPlanningService(plannings repository.PlanningRepository, employes repository.EmployeRepository, logger *zap.Logger) *PlanningService {
	return &PlanningService{plannings: plannings, employes: employes, logger: logger, now: time.Now}
}

// Create validates the window, checks the employe exists, and inserts under
// the repository's conflict guard.
func (s *PlanningService) Create(ctx context.Context, req *dto.CreatePlanningRequest, actorID string) (*model.Planning, error) {
	if !req.DateDebut.Before(req.DateFin) {
		return nil, ErrInvalidWindow
	}
	if _, err := s.employes.GetByID(ctx, req.EmployeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeNotFound
		}
		return nil, err
	}

	planning := &model.Planning{
		EmployeID:           req.EmployeID,
		DemandeID:           req.DemandeID,
		EquipeID:            req.EquipeID,
		DateDebut:           req.DateDebut,
		DateFin:             req.DateFin,
		TypeAffectation:     req.TypeAffectation,
		Statut:              model.PlanningPlanifie,
		LieuIntervention:    req.LieuIntervention,
		CoordonneesGPS:      req.CoordonneesGPS,
		DescriptionTache:    req.DescriptionTache,
		MaterielsRequis:     req.MaterielsRequis,
		DureeEstimeeMinutes: req.DureeEstimeeMinutes,
		VehiculeUtilise:     req.VehiculeUtilise,
		CreeParID:           &actorID,
	}
	planning.CreatedBy = &actorID

	if err := s.plannings.CreateGuarded(ctx, planning); err != nil {
		if errors.Is(err, repository.ErrPlanningConflict) {
			return nil, ErrPlanningConflict
		}
		return nil, err
	}

	s.logger.Info("planning created",
		zap.String("planning_id", planning.PlanningID),
		zap.String("employe_id", planning.EmployeID),
		zap.Time("date_debut", planning.DateDebut))
	return planning, nil
}

func (s *PlanningService) Get(ctx context.Context, id string) (*model.Planning, error) {
	planning, err := s.plannings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanningNotFound
		}
		return nil, err
	}
	return planning, nil
}

func (s *PlanningService) List(ctx context.Context, filter repository.PlanningFilter, page, pageSize int) ([]model.Planning, int64, error) {
	return s.plannings.List(ctx, filter, (page-1)*pageSize, pageSize)
}

// Update rewrites an editable entry under the conflict guard.
func (s *PlanningService) Update(ctx context.Context, id string, req *dto.UpdatePlanningRequest, actorID string) (*model.Planning, error) {
	if !req.DateDebut.Before(req.DateFin) {
		return nil, ErrInvalidWindow
	}
	planning, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !planning.PeutEtreModifie(s.now()) {
		return nil, ErrPlanningNotEditable
	}

	planning.DemandeID = req.DemandeID
	planning.EquipeID = req.EquipeID
	planning.DateDebut = req.DateDebut
	planning.DateFin = req.DateFin
	planning.TypeAffectation = req.TypeAffectation
	planning.LieuIntervention = req.LieuIntervention
	planning.CoordonneesGPS = req.CoordonneesGPS
	planning.DescriptionTache = req.DescriptionTache
	planning.MaterielsRequis = req.MaterielsRequis
	planning.DureeEstimeeMinutes = req.DureeEstimeeMinutes
	planning.VehiculeUtilise = req.VehiculeUtilise
	planning.UpdatedBy = &actorID
	planning.Version = req.Version

	if err := s.plannings.UpdateGuarded(ctx, planning); err != nil {
		if errors.Is(err, repository.ErrPlanningConflict) {
			return nil, ErrPlanningConflict
		}
		return nil, err
	}
	return planning, nil
}

// Demarrer starts an entry: planifie → en_cours.
func (s *PlanningService) Demarrer(ctx context.Context, id string, actorID string) (*model.Planning, error) {
	planning, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !planning.Demarrer(s.now()) {
		return nil, ErrInvalidTransition
	}
	planning.UpdatedBy = &actorID
	if err := s.plannings.Update(ctx, planning); err != nil {
		return nil, err
	}
	return planning, nil
}

// Terminer closes an entry: en_cours → termine, recording the field report.
func (s *PlanningService) Terminer(ctx context.Context, id string, req *dto.TerminerPlanningRequest, actorID string) (*model.Planning, error) {
	planning, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !planning.Terminer(s.now()) {
		return nil, ErrInvalidTransition
	}
	planning.RapportIntervention = req.RapportIntervention
	planning.NoteClient = req.NoteClient
	planning.ObjectifsAtteints = req.ObjectifsAtteints
	planning.KilometresParcourus = req.KilometresParcourus
	planning.FraisDeplacement = req.FraisDeplacement
	planning.UpdatedBy = &actorID

	if err := s.plannings.Update(ctx, planning); err != nil {
		return nil, err
	}
	s.logger.Info("planning termine", zap.String("planning_id", id))
	return planning, nil
}

// Valider stamps the validator on the entry.
func (s *PlanningService) Valider(ctx context.Context, id string, req *dto.ValiderPlanningRequest, validateurID string) (*model.Planning, error) {
	planning, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	planning.Valider(validateurID, req.Commentaires, s.now())
	planning.UpdatedBy = &validateurID
	if err := s.plannings.Update(ctx, planning); err != nil {
		return nil, err
	}
	return planning, nil
}

// Annuler cancels a cancellable entry.
func (s *PlanningService) Annuler(ctx context.Context, id string, actorID string) (*model.Planning, error) {
	planning, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !planning.Annuler(s.now()) {
		return nil, ErrPlanningNotCancelable
	}
	planning.UpdatedBy = &actorID
	if err := s.plannings.Update(ctx, planning); err != nil {
		return nil, err
	}
	s.logger.Info("planning annule", zap.String("planning_id", id))
	return planning, nil
}

// Delete removes an entry that is still editable.
func (s *PlanningService) Delete(ctx context.Context, id string, actorID string) error {
	planning, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !planning.PeutEtreModifie(s.now()) {
		return ErrPlanningNotEditable
	}
	return s.plannings.Delete(ctx, id, actorID)
}

// Calendrier returns the FullCalendar events intersecting [debut, fin).
func (s *PlanningService) Calendrier(ctx context.Context, debut, fin time.Time, employeID, equipeID string) ([]dto.CalendarEvent, error) {
	if !debut.Before(fin) {
		return nil, ErrInvalidWindow
	}
	plannings, err := s.plannings.ListByPeriode(ctx, debut, fin, employeID, equipeID)
	if err != nil {
		return nil, err
	}
	events := make([]dto.CalendarEvent, 0, len(plannings))
	for i := range plannings {
		events = append(events, dto.NewCalendarEvent(&plannings[i]))
	}
	return events, nil
}

// VerifierDisponibilite reports whether the employe is free on the window.
func (s *PlanningService) VerifierDisponibilite(ctx context.Context, employeID string, debut, fin time.Time, excludeID string) (bool, error) {
	if !debut.Before(fin) {
		return false, ErrInvalidWindow
	}
	conflict, err := s.plannings.HasConflict(ctx, employeID, excludeID, debut, fin)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}
