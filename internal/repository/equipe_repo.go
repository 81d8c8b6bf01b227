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

// ErrEquipeComplete is returned by AddMembre when the team already holds
// capacite_max active members.
var ErrEquipeComplete = errors.New("equipe complete")

// EquipeFilter narrows team listings.
type EquipeFilter struct {
	Recherche      string // matches code, nom
	Specialisation string
	ActivesOnly    bool
}

// EquipeRepository is the team data-access interface.
type EquipeRepository interface {
	Create(ctx context.Context, equipe *model.Equipe) error
	GetByID(ctx context.Context, id string) (*model.Equipe, error)
	GetByCode(ctx context.Context, code string) (*model.Equipe, error)
	List(ctx context.Context, filter EquipeFilter, offset, limit int) ([]model.Equipe, int64, error)
	Update(ctx context.Context, equipe *model.Equipe) error
	Delete(ctx context.Context, id string, deletedBy string) error

	CountActiveMembers(ctx context.Context, equipeID string) (int, error)
	ListMembres(ctx context.Context, equipeID string, activesOnly bool) ([]model.EquipeMembre, error)
	GetActiveMembership(ctx context.Context, employeID string) (*model.EquipeMembre, error)
	AddMembre(ctx context.Context, equipeID, employeID, roleEquipe string, now time.Time) (*model.EquipeMembre, error)
	DeactivateMembre(ctx context.Context, equipeID, employeID string, now time.Time) error
}

type equipeRepo struct {
	db *gorm.DB
}

func NewEquipeRepo(db *gorm.DB) EquipeRepository {
	return &equipeRepo{db: db}
}

func (r *equipeRepo) Create(ctx context.Context, equipe *model.Equipe) error {
	return r.db.WithContext(ctx).Create(equipe).Error
}

func (r *equipeRepo) GetByID(ctx context.Context, id string) (*model.Equipe, error) {
	var equipe model.Equipe
	err := r.db.WithContext(ctx).
		Preload("ChargeProjet").
		Preload("Membres", "active = true").
		Preload("Membres.Employe").
		Where("equipe_id = ?", id).
		First(&equipe).Error
	if err != nil {
		return nil, err
	}
	return &equipe, nil
}

func (r *equipeRepo) GetByCode(ctx context.Context, code string) (*model.Equipe, error) {
	var equipe model.Equipe
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&equipe).Error
	if err != nil {
		return nil, err
	}
	return &equipe, nil
}

func (r *equipeRepo) List(ctx context.Context, filter EquipeFilter, offset, limit int) ([]model.Equipe, int64, error) {
	var equipes []model.Equipe
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Equipe{})
	if filter.Recherche != "" {
		like := "%" + filter.Recherche + "%"
		db = db.Where("code ILIKE ? OR nom ILIKE ?", like, like)
	}
	if filter.Specialisation != "" {
		db = db.Where("specialisation = ?", filter.Specialisation)
	}
	if filter.ActivesOnly {
		db = db.Where("active = true")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Offset(offset).Limit(limit).Order("nom ASC").Find(&equipes).Error
	return equipes, total, err
}

func (r *equipeRepo) Update(ctx context.Context, equipe *model.Equipe) error {
	oldVersion := equipe.Version
	result := r.db.WithContext(ctx).
		Model(equipe).
		Where("equipe_id = ? AND version = ?", equipe.EquipeID, oldVersion).
		Updates(map[string]interface{}{
			"nom":                  equipe.Nom,
			"description":          equipe.Description,
			"charge_projet_id":     equipe.ChargeProjetID,
			"specialisation":       equipe.Specialisation,
			"capacite_max":         equipe.CapaciteMax,
			"competences_requises": equipe.CompetencesRequises,
			"vehicules_attribues":  equipe.VehiculesAttribues,
			"zones_intervention":   equipe.ZonesIntervention,
			"horaire_debut":        equipe.HoraireDebut,
			"horaire_fin":          equipe.HoraireFin,
			"active":               equipe.Active,
			"updated_by":           equipe.UpdatedBy,
			"version":              oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	equipe.Version = oldVersion + 1
	return nil
}

func (r *equipeRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Equipe{}).
			Where("equipe_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("equipe_id = ?", id).Delete(&model.Equipe{}).Error
	})
}

func (r *equipeRepo) CountActiveMembers(ctx context.Context, equipeID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.EquipeMembre{}).
		Where("equipe_id = ? AND active = true", equipeID).
		Count(&count).Error
	return int(count), err
}

func (r *equipeRepo) ListMembres(ctx context.Context, equipeID string, activesOnly bool) ([]model.EquipeMembre, error) {
	var membres []model.EquipeMembre
	db := r.db.WithContext(ctx).
		Preload("Employe").
		Where("equipe_id = ?", equipeID)
	if activesOnly {
		db = db.Where("active = true")
	}
	err := db.Order("date_debut_affectation ASC").Find(&membres).Error
	return membres, err
}

func (r *equipeRepo) GetActiveMembership(ctx context.Context, employeID string) (*model.EquipeMembre, error) {
	var membre model.EquipeMembre
	err := r.db.WithContext(ctx).
		Preload("Equipe").
		Where("employe_id = ? AND active = true", employeID).
		First(&membre).Error
	if err != nil {
		return nil, err
	}
	return &membre, nil
}

// AddMembre joins an employe to a team. The whole operation runs in one
// transaction: the equipe row is locked, the active headcount is checked
// against capacite_max, any prior active membership of the employe is closed,
// and the new pivot row is inserted.
func (r *equipeRepo) AddMembre(ctx context.Context, equipeID, employeID, roleEquipe string, now time.Time) (*model.EquipeMembre, error) {
	membre := &model.EquipeMembre{
		EquipeID:             equipeID,
		EmployeID:            employeID,
		RoleEquipe:           roleEquipe,
		DateDebutAffectation: now,
		Active:               true,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var equipe model.Equipe
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("equipe_id = ?", equipeID).
			First(&equipe).Error; err != nil {
			return err
		}

		var effectif int64
		if err := tx.Model(&model.EquipeMembre{}).
			Where("equipe_id = ? AND active = true", equipeID).
			Count(&effectif).Error; err != nil {
			return err
		}
		if !equipe.PeutAccueillir(int(effectif)) {
			return ErrEquipeComplete
		}

		if err := tx.Model(&model.EquipeMembre{}).
			Where("employe_id = ? AND active = true", employeID).
			Updates(map[string]interface{}{
				"active":               false,
				"date_fin_affectation": now,
			}).Error; err != nil {
			return err
		}

		return tx.Create(membre).Error
	})
	if err != nil {
		return nil, err
	}
	return membre, nil
}

func (r *equipeRepo) DeactivateMembre(ctx context.Context, equipeID, employeID string, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.EquipeMembre{}).
		Where("equipe_id = ? AND employe_id = ? AND active = true", equipeID, employeID).
		Updates(map[string]interface{}{
			"active":               false,
			"date_fin_affectation": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
