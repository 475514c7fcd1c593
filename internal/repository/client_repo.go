package repository

import (
	"context"

	"auditex/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClientRepository interface {
	Create(ctx context.Context, c *model.Client) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error)
	FindByNumeroIF(ctx context.Context, numeroIF string) (*model.Client, error)
	Update(ctx context.Context, c *model.Client) error
	// ListVisible is the explicit authorization predicate: admins pass
	// nonRestreint=true and see everything, collaborateurs only see clients
	// they are assigned to.
	ListVisible(ctx context.Context, collaborateurID uuid.UUID, nonRestreint bool, page, limit int) ([]model.Client, int64, error)
	EstVisible(ctx context.Context, clientID, collaborateurID uuid.UUID, nonRestreint bool) (bool, error)
	ReplaceCollaborateurs(ctx context.Context, clientID uuid.UUID, collaborateurs []model.Collaborateur) error
	AjouterCollaborateur(ctx context.Context, clientID, collaborateurID uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type clientRepo struct{ db *gorm.DB }

func NewClientRepository(db *gorm.DB) ClientRepository { return &clientRepo{db: db} }

func (r *clientRepo) Create(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clientRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).Preload("Collaborateurs").First(&c, "id = ?", id).Error
	return &c, err
}

func (r *clientRepo) FindByNumeroIF(ctx context.Context, numeroIF string) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).Where("numero_if = ?", numeroIF).First(&c).Error
	return &c, err
}

func (r *clientRepo) Update(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clientRepo) ListVisible(ctx context.Context, collaborateurID uuid.UUID, nonRestreint bool, page, limit int) ([]model.Client, int64, error) {
	var clients []model.Client
	var total int64
	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).Model(&model.Client{})
	if !nonRestreint {
		q = q.Joins("JOIN client_collaborateurs cc ON cc.client_id = clients.id").
			Where("cc.collaborateur_id = ?", collaborateurID)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Collaborateurs").
		Order("raison_sociale ASC").
		Offset(offset).Limit(limit).
		Find(&clients).Error

	return clients, total, err
}

func (r *clientRepo) EstVisible(ctx context.Context, clientID, collaborateurID uuid.UUID, nonRestreint bool) (bool, error) {
	if nonRestreint {
		var count int64
		err := r.db.WithContext(ctx).Model(&model.Client{}).Where("id = ?", clientID).Count(&count).Error
		return count > 0, err
	}
	var count int64
	err := r.db.WithContext(ctx).
		Table("client_collaborateurs").
		Where("client_id = ? AND collaborateur_id = ?", clientID, collaborateurID).
		Count(&count).Error
	return count > 0, err
}

func (r *clientRepo) ReplaceCollaborateurs(ctx context.Context, clientID uuid.UUID, collaborateurs []model.Collaborateur) error {
	return r.db.WithContext(ctx).
		Model(&model.Client{ID: clientID}).
		Association("Collaborateurs").
		Replace(collaborateurs)
}

func (r *clientRepo) AjouterCollaborateur(ctx context.Context, clientID, collaborateurID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Client{ID: clientID}).
		Association("Collaborateurs").
		Append(&model.Collaborateur{ID: collaborateurID})
}

func (r *clientRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Client{}).Count(&count).Error
	return count, err
}
