package repository

import (
	"context"
	"errors"

	"bancapdv/internal/apperr"
	"bancapdv/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrCNPJDuplicado is the storage-level answer to registering the same
// supplier twice.
var ErrCNPJDuplicado = errors.New("já existe um fornecedor com este CNPJ")

type FornecedorRepository interface {
	Create(ctx context.Context, f *model.Fornecedor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Fornecedor, error)
	List(ctx context.Context, incluirInativos bool) ([]model.Fornecedor, error)
	Update(ctx context.Context, f *model.Fornecedor) error
	SetAtivo(ctx context.Context, id uuid.UUID, ativo bool) error
}

type fornecedorRepo struct{ db *gorm.DB }

func NewFornecedorRepository(db *gorm.DB) FornecedorRepository { return &fornecedorRepo{db: db} }

func (r *fornecedorRepo) Create(ctx context.Context, f *model.Fornecedor) error {
	if err := r.db.WithContext(ctx).Create(f).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrCNPJDuplicado
		}
		return err
	}
	return nil
}

func (r *fornecedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Fornecedor, error) {
	var f model.Fornecedor
	err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrRegistroNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fornecedorRepo) List(ctx context.Context, incluirInativos bool) ([]model.Fornecedor, error) {
	var fornecedores []model.Fornecedor
	q := r.db.WithContext(ctx).Order("razao_social ASC")
	if !incluirInativos {
		q = q.Where("ativo = true")
	}
	return fornecedores, q.Find(&fornecedores).Error
}

func (r *fornecedorRepo) Update(ctx context.Context, f *model.Fornecedor) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *fornecedorRepo) SetAtivo(ctx context.Context, id uuid.UUID, ativo bool) error {
	res := r.db.WithContext(ctx).Model(&model.Fornecedor{}).Where("id = ?", id).Update("ativo", ativo)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrRegistroNaoEncontrado
	}
	return nil
}
