package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/philippe-delaval/Lesot-bon/internal/model"
	pkgerrors "github.com/philippe-delaval/Lesot-bon/pkg/errors"
)

// AttachementFilter narrows work-order listings.
type AttachementFilter struct {
	ClientID   string
	Recherche  string // matches numero_dossier, nom_client, lieu_intervention
	SignesOnly bool
}

// AttachementRepository is the work-order data-access interface.
type AttachementRepository interface {
	// Create inserts the attachement, minting its file number (ATT-YYYY-NNNN)
	// inside the insert transaction.
	Create(ctx context.Context, attachement *model.Attachement) error
	GetByID(ctx context.Context, id string) (*model.Attachement, error)
	GetByNumeroDossier(ctx context.Context, numero string) (*model.Attachement, error)
	List(ctx context.Context, filter AttachementFilter, offset, limit int) ([]model.Attachement, int64, error)
	Update(ctx context.Context, attachement *model.Attachement) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type attachementRepo struct {
	db *gorm.DB
}

func NewAttachementRepo(db *gorm.DB) AttachementRepository {
	return &attachementRepo{db: db}
}

func (r *attachementRepo) Create(ctx context.Context, attachement *model.Attachement) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if attachement.NumeroDossier == "" {
			prefix := fmt.Sprintf("ATT-%d-", time.Now().Year())
			numero, err := nextSequence(tx, "attachements", "numero_dossier", prefix, 4)
			if err != nil {
				return err
			}
			attachement.NumeroDossier = numero
		}
		return tx.Create(attachement).Error
	})
}

func (r *attachementRepo) GetByID(ctx context.Context, id string) (*model.Attachement, error) {
	var attachement model.Attachement
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Demande").
		Where("attachement_id = ?", id).
		First(&attachement).Error
	if err != nil {
		return nil, err
	}
	return &attachement, nil
}

func (r *attachementRepo) GetByNumeroDossier(ctx context.Context, numero string) (*model.Attachement, error) {
	var attachement model.Attachement
	err := r.db.WithContext(ctx).Where("numero_dossier = ?", numero).First(&attachement).Error
	if err != nil {
		return nil, err
	}
	return &attachement, nil
}

func (r *attachementRepo) List(ctx context.Context, filter AttachementFilter, offset, limit int) ([]model.Attachement, int64, error) {
	var attachements []model.Attachement
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Attachement{})
	if filter.ClientID != "" {
		db = db.Where("client_id = ?", filter.ClientID)
	}
	if filter.Recherche != "" {
		like := "%" + filter.Recherche + "%"
		db = db.Where("numero_dossier ILIKE ? OR nom_client ILIKE ? OR lieu_intervention ILIKE ?", like, like, like)
	}
	if filter.SignesOnly {
		db = db.Where("signature_client_path <> '' AND signature_entreprise_path <> ''")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Offset(offset).Limit(limit).Order("created_at DESC").Find(&attachements).Error
	return attachements, total, err
}

func (r *attachementRepo) Update(ctx context.Context, attachement *model.Attachement) error {
	oldVersion := attachement.Version
	result := r.db.WithContext(ctx).
		Model(attachement).
		Where("attachement_id = ? AND version = ?", attachement.AttachementID, oldVersion).
		Updates(map[string]interface{}{
			"client_id":                 attachement.ClientID,
			"demande_id":                attachement.DemandeID,
			"nom_client":                attachement.NomClient,
			"lieu_intervention":         attachement.LieuIntervention,
			"description_travaux":       attachement.DescriptionTravaux,
			"fournitures_lignes":        attachement.FournituresLignes,
			"date_intervention":         attachement.DateIntervention,
			"nom_signataire_client":     attachement.NomSignataireClient,
			"nom_signataire_entreprise": attachement.NomSignataireEntreprise,
			"signature_client_path":     attachement.SignatureClientPath,
			"signature_entreprise_path": attachement.SignatureEntreprisePath,
			"pdf_path":                  attachement.PDFPath,
			"date_signature":            attachement.DateSignature,
			"updated_by":                attachement.UpdatedBy,
			"version":                   oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	attachement.Version = oldVersion + 1
	return nil
}

func (r *attachementRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Attachement{}).
			Where("attachement_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("attachement_id = ?", id).Delete(&model.Attachement{}).Error
	})
}
