package repository

import (
	"context"
	"errors"

	"bancapdv/internal/apperr"
	"bancapdv/internal/dto"
	"bancapdv/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DespesaRepository interface {
	DB() *gorm.DB
	Create(ctx context.Context, d *model.Despesa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Despesa, error)
	List(ctx context.Context, filter dto.DespesaFilter) ([]model.Despesa, int64, error)
	Update(ctx context.Context, d *model.Despesa) error
	UpdateTx(tx *gorm.DB, d *model.Despesa) error
}

type despesaRepo struct{ db *gorm.DB }

func NewDespesaRepository(db *gorm.DB) DespesaRepository { return &despesaRepo{db: db} }

func (r *despesaRepo) DB() *gorm.DB { return r.db }

func (r *despesaRepo) Create(ctx context.Context, d *model.Despesa) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *despesaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Despesa, error) {
	var d model.Despesa
	err := r.db.WithContext(ctx).Preload("Fornecedor").First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrRegistroNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *despesaRepo) List(ctx context.Context, filter dto.DespesaFilter) ([]model.Despesa, int64, error) {
	var despesas []model.Despesa
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Despesa{})
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	if filter.Pago != nil {
		q = q.Where("pago = ?", *filter.Pago)
	}
	if filter.Inicio != "" {
		q = q.Where("created_at >= ?", filter.Inicio)
	}
	if filter.Fim != "" {
		q = q.Where("created_at < (?::date + 1)", filter.Fim)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Fornecedor").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&despesas).Error
	return despesas, total, err
}

func (r *despesaRepo) Update(ctx context.Context, d *model.Despesa) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *despesaRepo) UpdateTx(tx *gorm.DB, d *model.Despesa) error {
	return tx.Save(d).Error
}
