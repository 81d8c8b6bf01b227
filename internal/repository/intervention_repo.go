package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/philippe-delaval/Lesot-bon/internal/model"
	pkgerrors "github.com/philippe-delaval/Lesot-bon/pkg/errors"
)

// InterventionFilter narrows field-job listings.
type InterventionFilter struct {
	Statut       string
	Priorite     string
	TechnicienID string
	ClientID     string
	DemandeID    string
	Depuis       *time.Time
	Jusqua       *time.Time
}

// InterventionRepository is the field-job data-access interface.
type InterventionRepository interface {
	// Create inserts the intervention, minting its number (INT-YYYYMMDD-NNNN)
	// inside the insert transaction. The date part follows date_planifiee
	// when set.
	Create(ctx context.Context, intervention *model.Intervention) error
	GetByID(ctx context.Context, id string) (*model.Intervention, error)
	GetByNumero(ctx context.Context, numero string) (*model.Intervention, error)
	List(ctx context.Context, filter InterventionFilter, offset, limit int) ([]model.Intervention, int64, error)
	ListEnRetard(ctx context.Context, now time.Time) ([]model.Intervention, error)
	Update(ctx context.Context, intervention *model.Intervention) error
	Delete(ctx context.Context, id string, deletedBy string) error

	CreateLog(ctx context.Context, log *model.InterventionLog) error
	ListLogs(ctx context.Context, interventionID string) ([]model.InterventionLog, error)
}

type interventionRepo struct {
	db *gorm.DB
}

func NewInterventionRepo(db *gorm.DB) InterventionRepository {
	return &interventionRepo{db: db}
}

func (r *interventionRepo) Create(ctx context.Context, intervention *model.Intervention) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if intervention.NumeroIntervention == "" {
			day := time.Now()
			if intervention.DatePlanifiee != nil {
				day = *intervention.DatePlanifiee
			}
			prefix := fmt.Sprintf("INT-%s-", day.Format("20060102"))
			numero, err := nextSequence(tx, "interventions", "numero_intervention", prefix, 4)
			if err != nil {
				return err
			}
			intervention.NumeroIntervention = numero
		}
		return tx.Create(intervention).Error
	})
}

func (r *interventionRepo) GetByID(ctx context.Context, id string) (*model.Intervention, error) {
	var intervention model.Intervention
	err := r.db.WithContext(ctx).
		Preload("Demande").
		Preload("Technicien").
		Preload("Client").
		Where("intervention_id = ?", id).
		First(&intervention).Error
	if err != nil {
		return nil, err
	}
	return &intervention, nil
}

func (r *interventionRepo) GetByNumero(ctx context.Context, numero string) (*model.Intervention, error) {
	var intervention model.Intervention
	err := r.db.WithContext(ctx).Where("numero_intervention = ?", numero).First(&intervention).Error
	if err != nil {
		return nil, err
	}
	return &intervention, nil
}

func (r *interventionRepo) List(ctx context.Context, filter InterventionFilter, offset, limit int) ([]model.Intervention, int64, error) {
	var interventions []model.Intervention
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Intervention{})
	if filter.Statut != "" {
		db = db.Where("statut = ?", filter.Statut)
	}
	if filter.Priorite != "" {
		db = db.Where("priorite = ?", filter.Priorite)
	}
	if filter.TechnicienID != "" {
		db = db.Where("technicien_id = ?", filter.TechnicienID)
	}
	if filter.ClientID != "" {
		db = db.Where("client_id = ?", filter.ClientID)
	}
	if filter.DemandeID != "" {
		db = db.Where("demande_id = ?", filter.DemandeID)
	}
	if filter.Depuis != nil {
		db = db.Where("date_planifiee >= ?", *filter.Depuis)
	}
	if filter.Jusqua != nil {
		db = db.Where("date_planifiee < ?", *filter.Jusqua)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Preload("Technicien").
		Offset(offset).Limit(limit).
		Order("date_planifiee DESC NULLS LAST").
		Find(&interventions).Error
	return interventions, total, err
}

func (r *interventionRepo) ListEnRetard(ctx context.Context, now time.Time) ([]model.Intervention, error) {
	var interventions []model.Intervention
	err := r.db.WithContext(ctx).
		Preload("Technicien").
		Where("date_planifiee < ? AND statut NOT IN ?", now,
			[]string{model.InterventionEnCours, model.InterventionTerminee, model.InterventionAnnulee}).
		Order("date_planifiee ASC").
		Find(&interventions).Error
	return interventions, err
}

func (r *interventionRepo) Update(ctx context.Context, intervention *model.Intervention) error {
	oldVersion := intervention.Version
	result := r.db.WithContext(ctx).
		Model(intervention).
		Where("intervention_id = ? AND version = ?", intervention.InterventionID, oldVersion).
		Updates(map[string]interface{}{
			"technicien_id":         intervention.TechnicienID,
			"client_id":             intervention.ClientID,
			"type_intervention":     intervention.TypeIntervention,
			"description_technique": intervention.DescriptionTechnique,
			"competences_requises":  intervention.CompetencesRequises,
			"priorite":              intervention.Priorite,
			"statut":                intervention.Statut,
			"date_planifiee":        intervention.DatePlanifiee,
			"heure_arrivee":         intervention.HeureArrivee,
			"heure_debut_reelle":    intervention.HeureDebutReelle,
			"heure_fin_reelle":      intervention.HeureFinReelle,
			"duree_estimee_minutes": intervention.DureeEstimeeMinutes,
			"duree_reelle_minutes":  intervention.DureeReelleMinutes,
			"adresse_intervention":  intervention.AdresseIntervention,
			"cout_estime":           intervention.CoutEstime,
			"cout_reel":             intervention.CoutReel,
			"diagnostic":            intervention.Diagnostic,
			"actions_realisees":     intervention.ActionsRealisees,
			"rapport_technique":     intervention.RapportTechnique,
			"intervention_reussie":  intervention.InterventionReussie,
			"note_client":           intervention.NoteClient,
			"first_time_fix":        intervention.FirstTimeFix,
			"kpis":                  intervention.KPIs,
			"updated_by":            intervention.UpdatedBy,
			"version":               oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	intervention.Version = oldVersion + 1
	return nil
}

func (r *interventionRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Intervention{}).
			Where("intervention_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("intervention_id = ?", id).Delete(&model.Intervention{}).Error
	})
}

func (r *interventionRepo) CreateLog(ctx context.Context, log *model.InterventionLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *interventionRepo) ListLogs(ctx context.Context, interventionID string) ([]model.InterventionLog, error) {
	var logs []model.InterventionLog
	err := r.db.WithContext(ctx).
		Where("intervention_id = ?", interventionID).
		Order("timestamp_action ASC").
		Find(&logs).Error
	return logs, err
}
