package repository

import (
	"context"

	"auditex/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FactureRepository persists invoice lines. Create/Update/Delete take the
// transaction handle because a facture batch is saved all-or-nothing inside
// one declaration transaction.
type FactureRepository interface {
	Create(ctx context.Context, tx *gorm.DB, f *model.Facture) error
	Update(ctx context.Context, tx *gorm.DB, f *model.Facture) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Facture, error)
	ListByDeclaration(ctx context.Context, declarationID uuid.UUID) ([]model.Facture, error)
}

type factureRepo struct{ db *gorm.DB }

func NewFactureRepository(db *gorm.DB) FactureRepository { return &factureRepo{db: db} }

func (r *factureRepo) Create(ctx context.Context, tx *gorm.DB, f *model.Facture) error {
	return tx.WithContext(ctx).Create(f).Error
}

func (r *factureRepo) Update(ctx context.Context, tx *gorm.DB, f *model.Facture) error {
	return tx.WithContext(ctx).Save(f).Error
}

func (r *factureRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return tx.WithContext(ctx).Delete(&model.Facture{}, "id = ?", id).Error
}

func (r *factureRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Facture, error) {
	var f model.Facture
	err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error
	return &f, err
}

func (r *factureRepo) ListByDeclaration(ctx context.Context, declarationID uuid.UUID) ([]model.Facture, error) {
	var factures []model.Facture
	err := r.db.WithContext(ctx).
		Where("declaration_id = ?", declarationID).
		Order("created_at ASC, id ASC").
		Find(&factures).Error
	return factures, err
}
