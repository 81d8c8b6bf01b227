package handler

import (
	"go.uber.org/zap"

	"github.com/philippe-delaval/Lesot-bon/internal/service"
)

// Handler aggregates all HTTP handlers.
type Handler struct {
	Auth         *AuthHandler
	Client       *ClientHandler
	Employe      *EmployeHandler
	Equipe       *EquipeHandler
	Planning     *PlanningHandler
	Equipement   *EquipementHandler
	Demande      *DemandeHandler
	Attachement  *AttachementHandler
	Intervention *InterventionHandler
	Dashboard    *DashboardHandler
}

// NewHandler wires the handlers onto the service layer.
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:         &AuthHandler{svc: svc.Auth, logger: logger},
		Client:       &ClientHandler{svc: svc.Client, logger: logger},
		Employe:      &EmployeHandler{svc: svc.Employe, logger: logger},
		Equipe:       &EquipeHandler{svc: svc.Equipe, logger: logger},
		Planning:     &PlanningHandler{svc: svc.Planning, export: svc.Export, logger: logger},
		Equipement:   &EquipementHandler{svc: svc.Equipement, logger: logger},
		Demande:      &DemandeHandler{svc: svc.Demande, logger: logger},
		Attachement:  &AttachementHandler{svc: svc.Attachement, logger: logger},
		Intervention: &InterventionHandler{svc: svc.Intervention, logger: logger},
		Dashboard:    &DashboardHandler{svc: svc.Dashboard, logger: logger},
	}
}
