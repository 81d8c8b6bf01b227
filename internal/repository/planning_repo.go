package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/philippe-delaval/Lesot-bon/internal/model"
	pkgerrors "github.com/philippe-delaval/Lesot-bon/pkg/errors"
)

// ErrPlanningConflict is returned by the guarded writes when the window
// overlaps another non-cancelled planning of the same employe.
var ErrPlanningConflict = errors.New("planning conflict")

// PlanningFilter narrows schedule listings.
type PlanningFilter struct {
	EmployeID       string
	EquipeID        string
	Statut          string
	TypeAffectation string
	Depuis          *time.Time
	Jusqua          *time.Time
}

// PlanningRepository is the schedule data-access interface.
type PlanningRepository interface {
	// CreateGuarded inserts the planning after re-checking the no-overlap
	// invariant under a row lock on the employe.
	CreateGuarded(ctx context.Context, planning *model.Planning) error
	// UpdateGuarded persists window/content changes under the same lock and
	// conflict check, with optimistic-lock versioning.
	UpdateGuarded(ctx context.Context, planning *model.Planning) error
	GetByID(ctx context.Context, id string) (*model.Planning, error)
	List(ctx context.Context, filter PlanningFilter, offset, limit int) ([]model.Planning, int64, error)
	ListByPeriode(ctx context.Context, debut, fin time.Time, employeID, equipeID string) ([]model.Planning, error)
	HasConflict(ctx context.Context, employeID, excludeID string, debut, fin time.Time) (bool, error)
	Update(ctx context.Context, planning *model.Planning) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type planningRepo struct {
	db *gorm.DB
}

func NewPlanningRepo(db *gorm.DB) PlanningRepository {
	return &planningRepo{db: db}
}

// conflictQuery selects non-cancelled plannings of the employe overlapping
// the half-open window [debut, fin). Touching boundaries do not overlap.
func conflictQuery(tx *gorm.DB, employeID, excludeID string, debut, fin time.Time) *gorm.DB {
	q := tx.Model(&model.Planning{}).
		Where("employe_id = ?", employeID).
		Where("statut <> ?", model.PlanningAnnule).
		Where("date_debut < ? AND date_fin > ?", fin, debut)
	if excludeID != "" {
		q = q.Where("planning_id <> ?", excludeID)
	}
	return q
}

func lockEmploye(tx *gorm.DB, employeID string) error {
	var employe model.Employe
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("employe_id").
		Where("employe_id = ?", employeID).
		First(&employe).Error
}

func (r *planningRepo) CreateGuarded(ctx context.Context, planning *model.Planning) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockEmploye(tx, planning.EmployeID); err != nil {
			return err
		}

		var count int64
		if err := conflictQuery(tx, planning.EmployeID, "", planning.DateDebut, planning.DateFin).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrPlanningConflict
		}

		return tx.Create(planning).Error
	})
}

func (r *planningRepo) UpdateGuarded(ctx context.Context, planning *model.Planning) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockEmploye(tx, planning.EmployeID); err != nil {
			return err
		}

		var count int64
		if err := conflictQuery(tx, planning.EmployeID, planning.PlanningID, planning.DateDebut, planning.DateFin).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrPlanningConflict
		}

		return updatePlanning(tx, planning)
	})
}

func (r *planningRepo) GetByID(ctx context.Context, id string) (*model.Planning, error) {
	var planning model.Planning
	err := r.db.WithContext(ctx).
		Preload("Employe").
		Preload("Equipe").
		Preload("Demande").
		Where("planning_id = ?", id).
		First(&planning).Error
	if err != nil {
		return nil, err
	}
	return &planning, nil
}

func (r *planningRepo) List(ctx context.Context, filter PlanningFilter, offset, limit int) ([]model.Planning, int64, error) {
	var plannings []model.Planning
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Planning{})
	if filter.EmployeID != "" {
		db = db.Where("employe_id = ?", filter.EmployeID)
	}
	if filter.EquipeID != "" {
		db = db.Where("equipe_id = ?", filter.EquipeID)
	}
	if filter.Statut != "" {
		db = db.Where("statut = ?", filter.Statut)
	}
	if filter.TypeAffectation != "" {
		db = db.Where("type_affectation = ?", filter.TypeAffectation)
	}
	if filter.Depuis != nil {
		db = db.Where("date_fin > ?", *filter.Depuis)
	}
	if filter.Jusqua != nil {
		db = db.Where("date_debut < ?", *filter.Jusqua)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Preload("Employe").
		Offset(offset).Limit(limit).
		Order("date_debut ASC").
		Find(&plannings).Error
	return plannings, total, err
}

// ListByPeriode returns every planning intersecting [debut, fin), for the
// calendar feed and the exports.
func (r *planningRepo) ListByPeriode(ctx context.Context, debut, fin time.Time, employeID, equipeID string) ([]model.Planning, error) {
	var plannings []model.Planning
	db := r.db.WithContext(ctx).
		Preload("Employe").
		Where("date_debut < ? AND date_fin > ?", fin, debut)
	if employeID != "" {
		db = db.Where("employe_id = ?", employeID)
	}
	if equipeID != "" {
		db = db.Where("equipe_id = ?", equipeID)
	}
	err := db.Order("date_debut ASC").Find(&plannings).Error
	return plannings, err
}

func (r *planningRepo) HasConflict(ctx context.Context, employeID, excludeID string, debut, fin time.Time) (bool, error) {
	var count int64
	err := conflictQuery(r.db.WithContext(ctx), employeID, excludeID, debut, fin).Count(&count).Error
	return count > 0, err
}

func (r *planningRepo) Update(ctx context.Context, planning *model.Planning) error {
	return updatePlanning(r.db.WithContext(ctx), planning)
}

func updatePlanning(tx *gorm.DB, planning *model.Planning) error {
	oldVersion := planning.Version
	result := tx.Model(planning).
		Where("planning_id = ? AND version = ?", planning.PlanningID, oldVersion).
		Updates(map[string]interface{}{
			"demande_id":            planning.DemandeID,
			"equipe_id":             planning.EquipeID,
			"date_debut":            planning.DateDebut,
			"date_fin":              planning.DateFin,
			"heure_debut_reelle":    planning.HeureDebutReelle,
			"heure_fin_reelle":      planning.HeureFinReelle,
			"type_affectation":      planning.TypeAffectation,
			"statut":                planning.Statut,
			"lieu_intervention":     planning.LieuIntervention,
			"coordonnees_gps":       planning.CoordonneesGPS,
			"description_tache":     planning.DescriptionTache,
			"materiels_requis":      planning.MaterielsRequis,
			"duree_estimee_minutes": planning.DureeEstimeeMinutes,
			"duree_reelle_minutes":  planning.DureeReelleMinutes,
			"vehicule_utilise":      planning.VehiculeUtilise,
			"kilometres_parcourus":  planning.KilometresParcourus,
			"frais_deplacement":     planning.FraisDeplacement,
			"valide_par_id":         planning.ValideParID,
			"date_validation":       planning.DateValidation,
			"commentaires":          planning.Commentaires,
			"rapport_intervention":  planning.RapportIntervention,
			"note_client":           planning.NoteClient,
			"objectifs_atteints":    planning.ObjectifsAtteints,
			"updated_by":            planning.UpdatedBy,
			"version":               oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	planning.Version = oldVersion + 1
	return nil
}

func (r *planningRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Planning{}).
			Where("planning_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("planning_id = ?", id).Delete(&model.Planning{}).Error
	})
}
