package repository

import (
	"context"

	"auditex/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CollaborateurRepository interface {
	Create(ctx context.Context, c *model.Collaborateur) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Collaborateur, error)
	FindByUsername(ctx context.Context, username string) (*model.Collaborateur, error)
	FindByEmail(ctx context.Context, email string) (*model.Collaborateur, error)
	Update(ctx context.Context, c *model.Collaborateur) error
	List(ctx context.Context, inclureInactifs bool) ([]model.Collaborateur, error)
	ListEnAttente(ctx context.Context) ([]model.Collaborateur, error)
	Count(ctx context.Context) (int64, error)
	CountEnAttente(ctx context.Context) (int64, error)
}

type collaborateurRepo struct{ db *gorm.DB }

func NewCollaborateurRepository(db *gorm.DB) CollaborateurRepository {
	return &collaborateurRepo{db: db}
}

func (r *collaborateurRepo) Create(ctx context.Context, c *model.Collaborateur) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *collaborateurRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Collaborateur, error) {
	var c model.Collaborateur
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *collaborateurRepo) FindByUsername(ctx context.Context, username string) (*model.Collaborateur, error) {
	var c model.Collaborateur
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&c).Error
	return &c, err
}

func (r *collaborateurRepo) FindByEmail(ctx context.Context, email string) (*model.Collaborateur, error) {
	var c model.Collaborateur
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&c).Error
	return &c, err
}

func (r *collaborateurRepo) Update(ctx context.Context, c *model.Collaborateur) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *collaborateurRepo) List(ctx context.Context, inclureInactifs bool) ([]model.Collaborateur, error) {
	var collaborateurs []model.Collaborateur
	q := r.db.WithContext(ctx).Order("username ASC")
	if !inclureInactifs {
		q = q.Where("actif = ?", true)
	}
	err := q.Find(&collaborateurs).Error
	return collaborateurs, err
}

func (r *collaborateurRepo) ListEnAttente(ctx context.Context) ([]model.Collaborateur, error) {
	var collaborateurs []model.Collaborateur
	err := r.db.WithContext(ctx).
		Where("statut_inscription = ?", model.InscriptionEnAttente).
		Order("created_at ASC").
		Find(&collaborateurs).Error
	return collaborateurs, err
}

func (r *collaborateurRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Collaborateur{}).Count(&count).Error
	return count, err
}

func (r *collaborateurRepo) CountEnAttente(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Collaborateur{}).
		Where("statut_inscription = ?", model.InscriptionEnAttente).
		Count(&count).Error
	return count, err
}
