package repository

import (
	"context"

	"auditex/internal/dto"
	"auditex/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeclarationRepository interface {
	Create(ctx context.Context, d *model.Declaration) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Declaration, error)
	// FindByTuple looks up the unique (client, type, periode, annee) tuple.
	// periode is nil for annual declarations.
	FindByTuple(ctx context.Context, clientID uuid.UUID, typeDeclaration string, periode *int, annee int) (*model.Declaration, error)
	Update(ctx context.Context, d *model.Declaration) error
	UpdateStatut(ctx context.Context, id uuid.UUID, statut string) error
	List(ctx context.Context, filter dto.DeclarationFilter, visibleClientIDs []uuid.UUID) ([]model.Declaration, int64, error)
	ListRecent(ctx context.Context, limit int) ([]model.Declaration, error)
	CountByStatut(ctx context.Context, statut string) (int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type declarationRepo struct{ db *gorm.DB }

func NewDeclarationRepository(db *gorm.DB) DeclarationRepository { return &declarationRepo{db: db} }

func (r *declarationRepo) DB() *gorm.DB { return r.db }

func (r *declarationRepo) Create(ctx context.Context, d *model.Declaration) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *declarationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Declaration, error) {
	var d model.Declaration
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Factures", func(db *gorm.DB) *gorm.DB {
			// Natural stored order — the spreadsheet export must not re-sort.
			return db.Order("created_at ASC, id ASC")
		}).
		First(&d, "id = ?", id).Error
	return &d, err
}

func (r *declarationRepo) FindByTuple(ctx context.Context, clientID uuid.UUID, typeDeclaration string, periode *int, annee int) (*model.Declaration, error) {
	q := r.db.WithContext(ctx).
		Where("client_id = ? AND type_declaration = ? AND annee = ?", clientID, typeDeclaration, annee)
	if periode != nil {
		q = q.Where("periode = ?", *periode)
	} else {
		q = q.Where("periode IS NULL")
	}
	var d model.Declaration
	err := q.First(&d).Error
	return &d, err
}

// Update writes the declaration columns only: the aggregate is loaded with
// its Client and Factures preloaded, and a bare Save would upsert those too.
func (r *declarationRepo) Update(ctx context.Context, d *model.Declaration) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(d).Error
}

func (r *declarationRepo) UpdateStatut(ctx context.Context, id uuid.UUID, statut string) error {
	return r.db.WithContext(ctx).
		Model(&model.Declaration{}).
		Where("id = ?", id).
		Update("statut", statut).Error
}

func (r *declarationRepo) List(ctx context.Context, filter dto.DeclarationFilter, visibleClientIDs []uuid.UUID) ([]model.Declaration, int64, error) {
	var declarations []model.Declaration
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Declaration{})

	if visibleClientIDs != nil {
		q = q.Where("client_id IN ?", visibleClientIDs)
	}
	if filter.ClientID != "" {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.Statut != "" && filter.Statut != "all" {
		q = q.Where("statut = ?", filter.Statut)
	}
	if filter.Annee != 0 {
		q = q.Where("annee = ?", filter.Annee)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Client").
		Order("annee DESC, periode DESC NULLS LAST").
		Offset(offset).Limit(filter.Limit).
		Find(&declarations).Error

	return declarations, total, err
}

func (r *declarationRepo) ListRecent(ctx context.Context, limit int) ([]model.Declaration, error) {
	var declarations []model.Declaration
	err := r.db.WithContext(ctx).
		Preload("Client").
		Order("annee DESC, periode DESC NULLS LAST").
		Limit(limit).
		Find(&declarations).Error
	return declarations, err
}

func (r *declarationRepo) CountByStatut(ctx context.Context, statut string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Declaration{}).
		Where("statut = ?", statut).
		Count(&count).Error
	return count, err
}
