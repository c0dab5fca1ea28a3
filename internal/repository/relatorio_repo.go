package repository

import (
	"context"

	"bancapdv/internal/dto"
	"bancapdv/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SomaAgrupada is one bucket of a grouped ledger aggregation.
type SomaAgrupada struct {
	Chave    string
	Entradas decimal.Decimal
	Saidas   decimal.Decimal
}

// RelatorioRepository is the read side consumed by report/PDF generation.
// Strictly no mutation: filtering, grouping and summing only.
type RelatorioRepository interface {
	Movimentacoes(ctx context.Context, filter dto.RelatorioFilter) ([]model.MovimentacaoCaixa, error)
	SomaPorCategoria(ctx context.Context, filter dto.RelatorioFilter) ([]SomaAgrupada, error)
	SomaPorForma(ctx context.Context, filter dto.RelatorioFilter) ([]SomaAgrupada, error)
	Sessoes(ctx context.Context, filter dto.RelatorioFilter) ([]model.SessaoCaixa, error)
}

type relatorioRepo struct{ db *gorm.DB }

func NewRelatorioRepository(db *gorm.DB) RelatorioRepository { return &relatorioRepo{db: db} }

func (r *relatorioRepo) baseMovimentacoes(ctx context.Context, filter dto.RelatorioFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.MovimentacaoCaixa{})
	if filter.Inicio != "" {
		q = q.Where("created_at >= ?", filter.Inicio)
	}
	if filter.Fim != "" {
		q = q.Where("created_at < (?::date + 1)", filter.Fim)
	}
	if filter.CaixaID != "" {
		q = q.Where("caixa_id = ?", filter.CaixaID)
	}
	if filter.SessaoID != "" {
		q = q.Where("sessao_id = ?", filter.SessaoID)
	}
	if filter.Categoria != "" {
		q = q.Where("categoria = ?", filter.Categoria)
	}
	if filter.FormaPagamento != "" {
		q = q.Where("forma_pagamento = ?", filter.FormaPagamento)
	}
	return q
}

func (r *relatorioRepo) Movimentacoes(ctx context.Context, filter dto.RelatorioFilter) ([]model.MovimentacaoCaixa, error) {
	var movs []model.MovimentacaoCaixa
	err := r.baseMovimentacoes(ctx, filter).Order("created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *relatorioRepo) SomaPorCategoria(ctx context.Context, filter dto.RelatorioFilter) ([]SomaAgrupada, error) {
	return r.somaAgrupada(ctx, filter, "categoria")
}

func (r *relatorioRepo) SomaPorForma(ctx context.Context, filter dto.RelatorioFilter) ([]SomaAgrupada, error) {
	return r.somaAgrupada(ctx, filter, "forma_pagamento")
}

func (r *relatorioRepo) somaAgrupada(ctx context.Context, filter dto.RelatorioFilter, coluna string) ([]SomaAgrupada, error) {
	var somas []SomaAgrupada
	err := r.baseMovimentacoes(ctx, filter).
		Select(coluna + ` AS chave,
			COALESCE(SUM(CASE WHEN tipo = 'entrada' THEN valor ELSE 0 END), 0) AS entradas,
			COALESCE(SUM(CASE WHEN tipo = 'saida'   THEN valor ELSE 0 END), 0) AS saidas`).
		Group(coluna).
		Order("chave ASC").
		Scan(&somas).Error
	return somas, err
}

func (r *relatorioRepo) Sessoes(ctx context.Context, filter dto.RelatorioFilter) ([]model.SessaoCaixa, error) {
	var sessoes []model.SessaoCaixa
	q := r.db.WithContext(ctx).Model(&model.SessaoCaixa{})
	if filter.Inicio != "" {
		q = q.Where("data_abertura >= ?", filter.Inicio)
	}
	if filter.Fim != "" {
		q = q.Where("data_abertura < (?::date + 1)", filter.Fim)
	}
	if filter.CaixaID != "" {
		q = q.Where("caixa_id = ?", filter.CaixaID)
	}
	err := q.Preload("Caixa").Order("data_abertura DESC").Find(&sessoes).Error
	return sessoes, err
}
