package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/philippe-delaval/Lesot-bon/internal/model"
	pkgerrors "github.com/philippe-delaval/Lesot-bon/pkg/errors"
)

// ClientFilter narrows client listings.
type ClientFilter struct {
	Recherche  string // matches code, nom_societe, ville
	ActifsOnly bool
}

// ClientRepository is the customer data-access interface.
type ClientRepository interface {
	Create(ctx context.Context, client *model.Client) error
	GetByID(ctx context.Context, id string) (*model.Client, error)
	List(ctx context.Context, filter ClientFilter, offset, limit int) ([]model.Client, int64, error)
	Update(ctx context.Context, client *model.Client) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type clientRepo struct {
	db *gorm.DB
}

func NewClientRepo(db *gorm.DB) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *model.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *clientRepo) GetByID(ctx context.Context, id string) (*model.Client, error) {
	var client model.Client
	err := r.db.WithContext(ctx).Where("client_id = ?", id).First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepo) List(ctx context.Context, filter ClientFilter, offset, limit int) ([]model.Client, int64, error) {
	var clients []model.Client
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Client{})
	if filter.Recherche != "" {
		like := "%" + filter.Recherche + "%"
		db = db.Where("code ILIKE ? OR nom_societe ILIKE ? OR ville ILIKE ?", like, like, like)
	}
	if filter.ActifsOnly {
		db = db.Where("active = true")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Offset(offset).Limit(limit).Order("nom_societe ASC").Find(&clients).Error
	return clients, total, err
}

func (r *clientRepo) Update(ctx context.Context, client *model.Client) error {
	oldVersion := client.Version
	result := r.db.WithContext(ctx).
		Model(client).
		Where("client_id = ? AND version = ?", client.ClientID, oldVersion).
		Updates(map[string]interface{}{
			"code":        client.Code,
			"nom_societe": client.NomSociete,
			"nom_contact": client.NomContact,
			"email":       client.Email,
			"telephone":   client.Telephone,
			"adresse":     client.Adresse,
			"code_postal": client.CodePostal,
			"ville":       client.Ville,
			"notes":       client.Notes,
			"active":      client.Active,
			"updated_by":  client.UpdatedBy,
			"version":     oldVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	client.Version = oldVersion + 1
	return nil
}

func (r *clientRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Client{}).
			Where("client_id = ?", id).
			Update("deleted_by", deletedBy).Error; err != nil {
			return err
		}
		return tx.Where("client_id = ?", id).Delete(&model.Client{}).Error
	})
}
