package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/philippe-delaval/Lesot-bon/internal/model"
	pkgerrors "github.com/philippe-delaval/Lesot-bon/pkg/errors"
)

// EquipementFilter narrows inventory listings.
type EquipementFilter struct {
	Recherche string // matches reference, nom, marque
	Type      string
	Categorie string
	Statut    string
	Etat      string
	ActifOnly bool
}

// EquipementRepository is the inventory data-access interface.
type EquipementRepository interface {
	// Create inserts the item, minting its reference (TYPE3-YYYY-NNNN) inside
	// the insert transaction when none is provided.
	Create(ctx context.Context, equipement *model.Equipement) error
	GetByID(ctx context.Context, id string) (*model.Equipement, error)
	GetByReference(ctx context.Context, reference string) (*model.Equipement, error)
	List(ctx context.Context, filter EquipementFilter, offset, limit int) ([]model.Equipement, int64, error)
	ListEnRupture(ctx context.Context) ([]model.Equipement, error)
	ListMaintenanceDue(ctx context.Context, now time.Time) ([]model.Equipement, error)
	Update(ctx context.Context, equipement *model.Equipement) error
	// Mutate loads the item under a row lock, applies fn, and persists the
	// stock fields fn may have changed. Stock read-modify-write goes through
	// here so two concurrent reservations cannot both observe the same
	// availability.
	Mutate(ctx context.Context, id string, fn func(*model.Equipement) error) (*model.Equipement, error)
	Delete(ctx context.Context, id string, deletedBy string) error
}

type equipementRepo struct {
	db *gorm.DB
}

func NewEquipementRepo(db *gorm.DB) EquipementRepository {
	return &equipementRepo{db: db}
}

func (r *equipementRepo) Create(ctx context.Context, equipement *model.Equipement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if equipement.Reference == "" {
			prefix := fmt.Sprintf("%s-%d-", typeCode(equipement.Type), time.Now().Year())
			ref, err := nextSequence(tx, "equipements", "reference", prefix, 4)
			if err != nil {
				return err
			}
			equipement.Reference = ref
		}
		return tx.Create(equipement).Error
	})
}

// typeCode derives the 3-letter reference prefix from the equipment type.
func typeCode(t string) string {
	code := strings.ToUpper(t)
	code = strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r
		}
		return -1
	}, code)
	if len(code) < 3 {
		code = (code + "EQP")[:3]
	}
	return code[:3]
}

func (r *equipementRepo) GetByID(ctx context.Context, id string) (*model.Equipement, error) {
	var equipement model.Equipement
	err := r.db.WithContext(ctx).
		Preload("Technicien").
		Where("equipement_id = ?", id).
		First(&equipement).Error
	if err != nil {
		return nil, err
	}
	return &equipement, nil
}

func (r *equipementRepo) GetByReference(ctx context.Context, reference string) (*model.Equipement, error) {
	var equipement model.Equipement
	err := r.db.WithContext(ctx).Where("reference = ?", reference).First(&equipement).Error
	if err != nil {
		return nil, err
	}
	return &equipement, nil
}

func (r *equipementRepo) List(ctx context.Context, filter EquipementFilter, offset, limit int) ([]model.Equipement, int64, error) {
	var equipements []model.Equipement
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Equipement{})
	if filter.Recherche != "" {
		like := "%" + filter.Recherche + "%"
		db = db.Where("reference ILIKE ? OR nom ILIKE ? OR marque ILIKE ?", like, like, like)
	}
	if filter.Type != "" {
		db = db.Where("type = ?", filter.Type)
	}
	if filter.Categorie != "" {
		db = db.Where("categorie = ?", filter.Categorie)
	}
	if filter.Statut != "" {
		db = db.Where("statut = ?", filter.Statut)
	}
	if filter.Etat != "" {
		db = db.Where("etat = ?", filter.Etat)
	}
	if filter.ActifOnly {
		db = db.Where("actif = true")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Offset(offset).Limit(limit).Order("reference ASC").Find(&equipements).Error
	return equipements, total, err
}

func (r *equipementRepo) ListEnRupture(ctx context.Context) ([]model.Equipement, error) {
	var equipements []model.Equipement
	err := r.db.WithContext(ctx).
		Where("actif = true AND stock_disponible <= stock_minimum").
		Order("reference ASC").
		Find(&equipements).Error
	return equipements, err
}

func (r *equipementRepo) ListMaintenanceDue(ctx context.Context, now time.Time) ([]model.Equipement, error) {
	var equipements []model.Equipement
	err := r.db.WithContext(ctx).
		Where("actif = true AND prochaine_maintenance IS NOT NULL AND prochaine_maintenance < ?", now).
		Order("prochaine_maintenance ASC").
		Find(&equipements).Error
	return equipements, err
}

func (r *equipementRepo) Update(ctx context.Context, equipement *model.Equipement) error {
	oldVersion := equipement.Version
	result := r.db.WithContext(ctx).
		Model(equipement).
		Where("equipement_id = ? AND version = ?", equipement.EquipementID, oldVersion).
		Updates(map[string]interface{}{
			"nom":                   equipement.Nom,
			"description":           equipement.Description,
			"type":                  equipement.Type,
			"categorie":             equipement.Categorie,
			"marque":                equipement.Marque,
			"modele":                equipement.Modele,
			"numero_serie":          equipement.NumeroSerie,
			"stock_total":           equipement.StockTotal,
			"stock_minimum":         equipement.StockMinimum,
			"localisation_depot":    equipement.LocalisationDepot,
			"prix_unitaire":         equipement.PrixUnitaire,
			"fournisseur":           equipement.Fournisseur,
			"date_achat":            equipement.DateAchat,
			"date_mise_service":     equipement.DateMiseService,
			"duree_vie_mois":        equipement.DureeVieMois,
			"etat":                  equipement.Etat,
			"competences_associees": equipement.CompetencesAssociees,
			"transportable":         equipement.Transportable,
			"actif":                 equipement.Actif,
			"updated_by":            equipement.UpdatedBy,
			"version":               oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	equipement.Version = oldVersion + 1
	return nil
}

func (r *equipementRepo) Mutate(ctx context.Context, id string, fn func(*model.Equipement) error) (*model.Equipement, error) {
	var equipement model.Equipement
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("equipement_id = ?", id).
			First(&equipement).Error; err != nil {
			return err
		}

		if err := fn(&equipement); err != nil {
			return err
		}

		return tx.Model(&equipement).
			Where("equipement_id = ?", id).
			Updates(map[string]interface{}{
				"stock_disponible":       equipement.StockDisponible,
				"statut":                 equipement.Statut,
				"etat":                   equipement.Etat,
				"technicien_id":          equipement.TechnicienID,
				"prochaine_maintenance":  equipement.ProchaineMaintenance,
				"historique_maintenance": equipement.HistoriqueMaintenance,
				"historique_utilisation": equipement.HistoriqueUtilisation,
				"derniere_utilisation":   equipement.DerniereUtilisation,
				"nombre_utilisations":    equipement.NombreUtilisations,
				"version":                gorm.Expr("version + 1"),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	equipement.Version++
	return &equipement, nil
}

func (r *equipementRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Equipement{}).
			Where("equipement_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("equipement_id = ?", id).Delete(&model.Equipement{}).Error
	})
}
