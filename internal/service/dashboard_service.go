package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/dto"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
)

// DashboardService aggregates landing-page counters across the modules.
type DashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewDashboardService(repo *repository.Repository, logger *zap.Logger) *DashboardService {
	return &DashboardService{repo: repo, logger: logger, now: time.Now}
}

// Stats collects the dashboard counters. Each block is independent; the
// first failing query aborts.
func (s *DashboardService) Stats(ctx context.Context) (*dto.DashboardStats, error) {
	stats := &dto.DashboardStats{}

	parStatut, err := s.repo.Demande.CountByStatut(ctx)
	if err != nil {
		return nil, err
	}
	stats.DemandesParStatut = parStatut

	lundi := debutDeSemaine(s.now())
	semaine, err := s.repo.Planning.ListByPeriode(ctx, lundi, lundi.AddDate(0, 0, 7), "", "")
	if err != nil {
		return nil, err
	}
	stats.PlanningsSemaine = int64(len(semaine))

	retards, err := s.repo.Intervention.ListEnRetard(ctx, s.now())
	if err != nil {
		return nil, err
	}
	stats.InterventionsRetard = len(retards)

	ruptures, err := s.repo.Equipement.ListEnRupture(ctx)
	if err != nil {
		return nil, err
	}
	stats.EquipementsRupture = len(ruptures)

	disponibles, err := s.repo.Employe.ListDisponibles(ctx)
	if err != nil {
		return nil, err
	}
	stats.EmployesDisponibles = len(disponibles)

	_, actives, err := s.repo.Equipe.List(ctx, repository.EquipeFilter{ActivesOnly: true}, 0, 1)
	if err != nil {
		return nil, err
	}
	stats.EquipesActives = actives

	return stats, nil
}
