package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/philippe-delaval/Lesot-bon/internal/model"
	pkgerrors "github.com/philippe-delaval/Lesot-bon/pkg/errors"
)

// DemandeFilter narrows request listings.
type DemandeFilter struct {
	Statut     string
	Priorite   string
	CreateurID string
	ReceveurID string
	ClientID   string
	Recherche  string // matches numero_demande, titre
}

// DemandeRepository is the staffing-request data-access interface.
type DemandeRepository interface {
	// Create inserts the demande, minting its number (DEM-YYYY-NNN) inside
	// the insert transaction.
	Create(ctx context.Context, demande *model.Demande) error
	GetByID(ctx context.Context, id string) (*model.Demande, error)
	GetByNumero(ctx context.Context, numero string) (*model.Demande, error)
	List(ctx context.Context, filter DemandeFilter, offset, limit int) ([]model.Demande, int64, error)
	CountByStatut(ctx context.Context) (map[string]int64, error)
	Update(ctx context.Context, demande *model.Demande) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type demandeRepo struct {
	db *gorm.DB
}

func NewDemandeRepo(db *gorm.DB) DemandeRepository {
	return &demandeRepo{db: db}
}

func (r *demandeRepo) Create(ctx context.Context, demande *model.Demande) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if demande.NumeroDemande == "" {
			prefix := fmt.Sprintf("DEM-%d-", time.Now().Year())
			numero, err := nextSequence(tx, "demandes", "numero_demande", prefix, 3)
			if err != nil {
				return err
			}
			demande.NumeroDemande = numero
		}
		return tx.Create(demande).Error
	})
}

func (r *demandeRepo) GetByID(ctx context.Context, id string) (*model.Demande, error) {
	var demande model.Demande
	err := r.db.WithContext(ctx).
		Preload("Createur").
		Preload("Receveur").
		Preload("Client").
		Preload("Attachement").
		Where("demande_id = ?", id).
		First(&demande).Error
	if err != nil {
		return nil, err
	}
	return &demande, nil
}

func (r *demandeRepo) GetByNumero(ctx context.Context, numero string) (*model.Demande, error) {
	var demande model.Demande
	err := r.db.WithContext(ctx).Where("numero_demande = ?", numero).First(&demande).Error
	if err != nil {
		return nil, err
	}
	return &demande, nil
}

func (r *demandeRepo) List(ctx context.Context, filter DemandeFilter, offset, limit int) ([]model.Demande, int64, error) {
	var demandes []model.Demande
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Demande{})
	if filter.Statut != "" {
		db = db.Where("statut = ?", filter.Statut)
	}
	if filter.Priorite != "" {
		db = db.Where("priorite = ?", filter.Priorite)
	}
	if filter.CreateurID != "" {
		db = db.Where("createur_id = ?", filter.CreateurID)
	}
	if filter.ReceveurID != "" {
		db = db.Where("receveur_id = ?", filter.ReceveurID)
	}
	if filter.ClientID != "" {
		db = db.Where("client_id = ?", filter.ClientID)
	}
	if filter.Recherche != "" {
		like := "%" + filter.Recherche + "%"
		db = db.Where("numero_demande ILIKE ? OR titre ILIKE ?", like, like)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Preload("Createur").
		Preload("Receveur").
		Offset(offset).Limit(limit).
		Order("date_demande DESC").
		Find(&demandes).Error
	return demandes, total, err
}

func (r *demandeRepo) CountByStatut(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Statut string
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&model.Demande{}).
		Select("statut, count(*) as n").
		Group("statut").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Statut] = r.N
	}
	return counts, nil
}

func (r *demandeRepo) Update(ctx context.Context, demande *model.Demande) error {
	oldVersion := demande.Version
	result := r.db.WithContext(ctx).
		Model(demande).
		Where("demande_id = ? AND version = ?", demande.DemandeID, oldVersion).
		Updates(map[string]interface{}{
			"titre":                      demande.Titre,
			"description":                demande.Description,
			"priorite":                   demande.Priorite,
			"statut":                     demande.Statut,
			"receveur_id":                demande.ReceveurID,
			"client_id":                  demande.ClientID,
			"lieu_intervention":          demande.LieuIntervention,
			"date_souhaite_intervention": demande.DateSouhaiteIntervention,
			"date_assignation":           demande.DateAssignation,
			"date_completion":            demande.DateCompletion,
			"notes_receveur":             demande.NotesReceveur,
			"attachement_id":             demande.AttachementID,
			"updated_by":                 demande.UpdatedBy,
			"version":                    oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	demande.Version = oldVersion + 1
	return nil
}

func (r *demandeRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Demande{}).
			Where("demande_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("demande_id = ?", id).Delete(&model.Demande{}).Error
	})
}
