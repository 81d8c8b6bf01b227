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
	ErrEquipementNotFound = errors.New("equipement not found")
	ErrStockInsuffisant   = errors.New("not enough stock available")
	ErrEquipementInactif  = errors.New("equipement is no longer active")
)

// EquipementService manages the inventory and its stock transitions. Every
// stock mutation runs through the repository's row-locked Mutate guard.
type EquipementService struct {
	equipements repository.EquipementRepository
	employes    repository.EmployeRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewEquipementService(equipements repository.EquipementRepository, employes repository.EmployeRepository, logger *zap.Logger) *EquipementService {
	return &EquipementService{equipements: equipements, employes: employes, logger: logger, now: time.Now}
}

func (s *EquipementService) Create(ctx context.Context, req *dto.CreateEquipementRequest, actorID string) (*model.Equipement, error) {
	equipement := &model.Equipement{
		Nom:                  req.Nom,
		Description:          req.Description,
		Type:                 req.Type,
		Categorie:            req.Categorie,
		Marque:               req.Marque,
		Modele:               req.Modele,
		NumeroSerie:          req.NumeroSerie,
		StockTotal:           req.StockTotal,
		StockDisponible:      req.StockTotal,
		StockMinimum:         req.StockMinimum,
		LocalisationDepot:    req.LocalisationDepot,
		PrixUnitaire:         req.PrixUnitaire,
		Fournisseur:          req.Fournisseur,
		DateAchat:            req.DateAchat,
		DateMiseService:      req.DateMiseService,
		DureeVieMois:         req.DureeVieMois,
		Etat:                 defaultStr(req.Etat, model.EtatBon),
		Statut:               model.EquipementDisponible,
		CompetencesAssociees: req.CompetencesAssociees,
		Transportable:        req.Transportable == nil || *req.Transportable,
		Actif:                true,
	}
	equipement.CreatedBy = &actorID

	if err := s.equipements.Create(ctx, equipement); err != nil {
		return nil, err
	}

	s.logger.Info("equipement created",
		zap.String("equipement_id", equipement.EquipementID),
		zap.String("reference", equipement.Reference))
	return equipement, nil
}

func (s *EquipementService) Get(ctx context.Context, id string) (*model.Equipement, error) {
	equipement, err := s.equipements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEquipementNotFound
		}
		return nil, err
	}
	return equipement, nil
}

// GetByReference resolves an item by its stock reference.
func (s *EquipementService) GetByReference(ctx context.Context, reference string) (*model.Equipement, error) {
	equipement, err := s.equipements.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEquipementNotFound
		}
		return nil, err
	}
	return equipement, nil
}

func (s *EquipementService) List(ctx context.Context, filter repository.EquipementFilter, page, pageSize int) ([]model.Equipement, int64, error) {
	return s.equipements.List(ctx, filter, (page-1)*pageSize, pageSize)
}

func (s *EquipementService) ListEnRupture(ctx context.Context) ([]model.Equipement, error) {
	return s.equipements.ListEnRupture(ctx)
}

func (s *EquipementService) ListMaintenanceDue(ctx context.Context) ([]model.Equipement, error) {
	return s.equipements.ListMaintenanceDue(ctx, s.now())
}

func (s *EquipementService) Update(ctx context.Context, id string, req *dto.UpdateEquipementRequest, actorID string) (*model.Equipement, error) {
	equipement, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	equipement.Nom = req.Nom
	equipement.Description = req.Description
	equipement.Type = req.Type
	equipement.Categorie = req.Categorie
	equipement.Marque = req.Marque
	equipement.Modele = req.Modele
	equipement.NumeroSerie = req.NumeroSerie
	equipement.StockTotal = req.StockTotal
	equipement.StockMinimum = req.StockMinimum
	equipement.LocalisationDepot = req.LocalisationDepot
	equipement.PrixUnitaire = req.PrixUnitaire
	equipement.Fournisseur = req.Fournisseur
	equipement.DateAchat = req.DateAchat
	equipement.DateMiseService = req.DateMiseService
	equipement.DureeVieMois = req.DureeVieMois
	if req.Etat != "" {
		equipement.Etat = req.Etat
	}
	equipement.CompetencesAssociees = req.CompetencesAssociees
	if req.Transportable != nil {
		equipement.Transportable = *req.Transportable
	}
	if req.Actif != nil {
		equipement.Actif = *req.Actif
	}
	equipement.UpdatedBy = &actorID
	equipement.Version = req.Version

	if err := s.equipements.Update(ctx, equipement); err != nil {
		return nil, err
	}
	return equipement, nil
}

func (s *EquipementService) Delete(ctx context.Context, id string, actorID string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.equipements.Delete(ctx, id, actorID)
}

// Reserver takes qty units off the available stock.
func (s *EquipementService) Reserver(ctx context.Context, id string, qty int) (*model.Equipement, error) {
	return s.mutate(ctx, id, func(e *model.Equipement) error {
		if !e.Actif {
			return ErrEquipementInactif
		}
		if !e.Reserver(qty, s.now()) {
			return ErrStockInsuffisant
		}
		return nil
	})
}

// Liberer returns qty units to the pool.
func (s *EquipementService) Liberer(ctx context.Context, id string, qty int) (*model.Equipement, error) {
	return s.mutate(ctx, id, func(e *model.Equipement) error {
		e.Liberer(qty, s.now())
		return nil
	})
}

// Utiliser reserves qty units and assigns them to a technician.
func (s *EquipementService) Utiliser(ctx context.Context, id string, req *dto.UtiliserEquipementRequest) (*model.Equipement, error) {
	if _, err := s.employes.GetByID(ctx, req.TechnicienID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeNotFound
		}
		return nil, err
	}
	return s.mutate(ctx, id, func(e *model.Equipement) error {
		if !e.Actif {
			return ErrEquipementInactif
		}
		if !e.Utiliser(req.TechnicienID, req.Quantite, s.now()) {
			return ErrStockInsuffisant
		}
		return nil
	})
}

// Retourner clears the technician assignment. Stock is released separately
// through Liberer.
func (s *EquipementService) Retourner(ctx context.Context, id string) (*model.Equipement, error) {
	return s.mutate(ctx, id, func(e *model.Equipement) error {
		e.Retourner(s.now())
		return nil
	})
}

// PlanifierMaintenance moves the item into maintenance.
func (s *EquipementService) PlanifierMaintenance(ctx context.Context, id string, req *dto.PlanifierMaintenanceRequest) (*model.Equipement, error) {
	return s.mutate(ctx, id, func(e *model.Equipement) error {
		e.PlanifierMaintenance(req.Date, req.Description, s.now())
		return nil
	})
}

// TerminerMaintenance closes the maintenance and sets the new condition.
func (s *EquipementService) TerminerMaintenance(ctx context.Context, id string, req *dto.TerminerMaintenanceRequest) (*model.Equipement, error) {
	return s.mutate(ctx, id, func(e *model.Equipement) error {
		e.TerminerMaintenance(req.Etat, req.Rapport, s.now())
		return nil
	})
}

func (s *EquipementService) mutate(ctx context.Context, id string, fn func(*model.Equipement) error) (*model.Equipement, error) {
	equipement, err := s.equipements.Mutate(ctx, id, fn)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEquipementNotFound
		}
		return nil, err
	}
	if equipement.EstEnRupture() {
		s.logger.Warn("equipement en rupture de stock",
			zap.String("equipement_id", equipement.EquipementID),
			zap.String("reference", equipement.Reference),
			zap.Int("stock_disponible", equipement.StockDisponible),
			zap.Int("stock_minimum", equipement.StockMinimum))
	}
	return equipement, nil
}
