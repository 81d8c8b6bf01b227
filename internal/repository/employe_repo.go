package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/philippe-delaval/Lesot-bon/internal/model"
	pkgerrors "github.com/philippe-delaval/Lesot-bon/pkg/errors"
)

// EmployeFilter narrows roster listings.
type EmployeFilter struct {
	Recherche        string // matches matricule, nom, prenom
	RoleHierarchique string
	Disponibilite    string
	StatutContrat    string
	Habilitation     string // jsonb containment on habilitations_electriques
	AstreinteOnly    bool
}

// EmployeRepository is the roster data-access interface.
type EmployeRepository interface {
	Create(ctx context.Context, employe *model.Employe) error
	GetByID(ctx context.Context, id string) (*model.Employe, error)
	GetByMatricule(ctx context.Context, matricule string) (*model.Employe, error)
	List(ctx context.Context, filter EmployeFilter, offset, limit int) ([]model.Employe, int64, error)
	ListDisponibles(ctx context.Context) ([]model.Employe, error)
	Update(ctx context.Context, employe *model.Employe) error
	UpdateDisponibilite(ctx context.Context, id, disponibilite string) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type employeRepo struct {
	db *gorm.DB
}

func NewEmployeRepo(db *gorm.DB) EmployeRepository {
	return &employeRepo{db: db}
}

func (r *employeRepo) Create(ctx context.Context, employe *model.Employe) error {
	return r.db.WithContext(ctx).Create(employe).Error
}

func (r *employeRepo) GetByID(ctx context.Context, id string) (*model.Employe, error) {
	var employe model.Employe
	err := r.db.WithContext(ctx).
		Preload("ChargeProjet").
		Where("employe_id = ?", id).
		First(&employe).Error
	if err != nil {
		return nil, err
	}
	return &employe, nil
}

func (r *employeRepo) GetByMatricule(ctx context.Context, matricule string) (*model.Employe, error) {
	var employe model.Employe
	err := r.db.WithContext(ctx).Where("matricule = ?", matricule).First(&employe).Error
	if err != nil {
		return nil, err
	}
	return &employe, nil
}

func (r *employeRepo) List(ctx context.Context, filter EmployeFilter, offset, limit int) ([]model.Employe, int64, error) {
	var employes []model.Employe
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Employe{})
	if filter.Recherche != "" {
		like := "%" + filter.Recherche + "%"
		db = db.Where("matricule ILIKE ? OR nom ILIKE ? OR prenom ILIKE ?", like, like, like)
	}
	if filter.RoleHierarchique != "" {
		db = db.Where("role_hierarchique = ?", filter.RoleHierarchique)
	}
	if filter.Disponibilite != "" {
		db = db.Where("disponibilite = ?", filter.Disponibilite)
	}
	if filter.StatutContrat != "" {
		db = db.Where("statut_contrat = ?", filter.StatutContrat)
	}
	if filter.Habilitation != "" {
		db = db.Where("habilitations_electriques @> ?", `["`+filter.Habilitation+`"]`)
	}
	if filter.AstreinteOnly {
		db = db.Where("astreinte = true")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Offset(offset).Limit(limit).Order("nom ASC, prenom ASC").Find(&employes).Error
	return employes, total, err
}

func (r *employeRepo) ListDisponibles(ctx context.Context) ([]model.Employe, error) {
	var employes []model.Employe
	err := r.db.WithContext(ctx).
		Where("disponibilite = ?", model.DispoDisponible).
		Order("nom ASC, prenom ASC").
		Find(&employes).Error
	return employes, err
}

func (r *employeRepo) Update(ctx context.Context, employe *model.Employe) error {
	oldVersion := employe.Version
	result := r.db.WithContext(ctx).
		Model(employe).
		Where("employe_id = ? AND version = ?", employe.EmployeID, oldVersion).
		Updates(map[string]interface{}{
			"nom":                       employe.Nom,
			"prenom":                    employe.Prenom,
			"email":                     employe.Email,
			"telephone":                 employe.Telephone,
			"statut_contrat":            employe.StatutContrat,
			"role_hierarchique":         employe.RoleHierarchique,
			"charge_projet_id":          employe.ChargeProjetID,
			"gestionnaire_id":           employe.GestionnaireID,
			"habilitations_electriques": employe.HabilitationsElectriques,
			"certifications":            employe.Certifications,
			"competences":               employe.Competences,
			"date_debut":                employe.DateDebut,
			"date_fin":                  employe.DateFin,
			"date_derniere_formation":   employe.DateDerniereFormation,
			"disponibilite":             employe.Disponibilite,
			"vehicule_attribue":         employe.VehiculeAttribue,
			"astreinte":                 employe.Astreinte,
			"notes":                     employe.Notes,
			"updated_by":                employe.UpdatedBy,
			"version":                   oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	employe.Version = oldVersion + 1
	return nil
}

func (r *employeRepo) UpdateDisponibilite(ctx context.Context, id, disponibilite string) error {
	return r.db.WithContext(ctx).
		Model(&model.Employe{}).
		Where("employe_id = ?", id).
		Update("disponibilite", disponibilite).Error
}

func (r *employeRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Employe{}).
			Where("employe_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("employe_id = ?", id).Delete(&model.Employe{}).Error
	})
}
