package service

import (
	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/config"
	"github.com/philippe-delaval/Lesot-bon/internal/repository"
	"github.com/philippe-delaval/Lesot-bon/pkg/jwt"
	"github.com/philippe-delaval/Lesot-bon/pkg/redis"
)

// Service aggregates all business services.
type Service struct {
	Auth         *AuthService
	Client       *ClientService
	Employe      *EmployeService
	Equipe       *EquipeService
	Planning     *PlanningService
	Equipement   *EquipementService
	Demande      *DemandeService
	Attachement  *AttachementService
	Intervention *InterventionService
	Export       *ExportService
	Dashboard    *DashboardService
}

// NewService wires the services. redisClient may be nil; auth then runs in
// degraded mode without a token blacklist.
func NewService(repo *repository.Repository, jwtManager *jwt.Manager, redisClient *redis.Client, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		Auth:         NewAuthService(repo.User, jwtManager, redisClient, logger),
		Client:       NewClientService(repo.Client, logger),
		Employe:      NewEmployeService(repo.Employe, logger),
		Equipe:       NewEquipeService(repo.Equipe, repo.Employe, logger),
		Planning:     NewPlanningService(repo.Planning, repo.Employe, logger),
		Equipement:   NewEquipementService(repo.Equipement, repo.Employe, logger),
		Demande:      NewDemandeService(repo.Demande, repo.Attachement, repo.Client, logger),
		Attachement:  NewAttachementService(repo.Attachement, logger),
		Intervention: NewInterventionService(repo.Intervention, repo.Demande, logger),
		Export:       NewExportService(repo.Planning, repo.Employe, logger),
		Dashboard:    NewDashboardService(repo, logger),
	}
}
