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

type ProdutoRepository interface {
	DB() *gorm.DB
	Create(ctx context.Context, p *model.Produto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Produto, error)
	List(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error)
	Update(ctx context.Context, p *model.Produto) error
	SetAtivo(ctx context.Context, id uuid.UUID, ativo bool) error
	// DecrementarEstoqueTx only succeeds when enough stock exists — the
	// conditional UPDATE makes check and decrement a single atomic statement.
	DecrementarEstoqueTx(tx *gorm.DB, id uuid.UUID, quantidade int) error
	IncrementarEstoqueTx(tx *gorm.DB, id uuid.UUID, quantidade int) error
}

type produtoRepo struct{ db *gorm.DB }

func NewProdutoRepository(db *gorm.DB) ProdutoRepository { return &produtoRepo{db: db} }

func (r *produtoRepo) DB() *gorm.DB { return r.db }

func (r *produtoRepo) Create(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *produtoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrRegistroNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Produto, error) {
	var p model.Produto
	err := r.db.WithContext(ctx).Where("codigo_barras = ?", barcode).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrRegistroNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *produtoRepo) List(ctx context.Context, filter dto.ProdutoFilter) ([]model.Produto, int64, error) {
	var produtos []model.Produto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Produto{})
	if !filter.IncluirInativos {
		q = q.Where("ativo = true")
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	if filter.Busca != "" {
		q = q.Where("nome ILIKE ? OR codigo_barras = ?", "%"+filter.Busca+"%", filter.Busca)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("nome ASC").
		Offset((filter.Page - 1) * filter.Limit).Limit(filter.Limit).
		Find(&produtos).Error
	return produtos, total, err
}

func (r *produtoRepo) Update(ctx context.Context, p *model.Produto) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *produtoRepo) SetAtivo(ctx context.Context, id uuid.UUID, ativo bool) error {
	res := r.db.WithContext(ctx).Model(&model.Produto{}).Where("id = ?", id).Update("ativo", ativo)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrRegistroNaoEncontrado
	}
	return nil
}

func (r *produtoRepo) DecrementarEstoqueTx(tx *gorm.DB, id uuid.UUID, quantidade int) error {
	res := tx.Exec(`
		UPDATE produtos
		   SET estoque_atual = estoque_atual - ?
		 WHERE id = ? AND estoque_atual >= ?`,
		quantidade, id, quantidade)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrEstoqueInsuficiente
	}
	return nil
}

func (r *produtoRepo) IncrementarEstoqueTx(tx *gorm.DB, id uuid.UUID, quantidade int) error {
	return tx.Exec(`UPDATE produtos SET estoque_atual = estoque_atual + ? WHERE id = ?`,
		quantidade, id).Error
}
