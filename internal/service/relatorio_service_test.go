package service

import (
	"context"
	"testing"

	"bancapdv/internal/dto"
	"bancapdv/internal/model"
	"bancapdv/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRelatorioRepo struct {
	porCategoria  []repository.SomaAgrupada
	porForma      []repository.SomaAgrupada
	movimentacoes []model.MovimentacaoCaixa
	sessoes       []model.SessaoCaixa
}

func (r *fakeRelatorioRepo) Movimentacoes(_ context.Context, _ dto.RelatorioFilter) ([]model.MovimentacaoCaixa, error) {
	return r.movimentacoes, nil
}

func (r *fakeRelatorioRepo) SomaPorCategoria(_ context.Context, _ dto.RelatorioFilter) ([]repository.SomaAgrupada, error) {
	return r.porCategoria, nil
}

func (r *fakeRelatorioRepo) SomaPorForma(_ context.Context, _ dto.RelatorioFilter) ([]repository.SomaAgrupada, error) {
	return r.porForma, nil
}

func (r *fakeRelatorioRepo) Sessoes(_ context.Context, _ dto.RelatorioFilter) ([]model.SessaoCaixa, error) {
	return r.sessoes, nil
}

var _ repository.RelatorioRepository = (*fakeRelatorioRepo)(nil)

func TestResumoPeriodo(t *testing.T) {
	repo := &fakeRelatorioRepo{
		porCategoria: []repository.SomaAgrupada{
			{Chave: "venda", Entradas: dec(500), Saidas: dec(20)},
			{Chave: "despesa", Entradas: dec(0), Saidas: dec(130)},
			{Chave: "sangria", Entradas: dec(0), Saidas: dec(200)},
		},
		porForma: []repository.SomaAgrupada{
			{Chave: "dinheiro", Entradas: dec(300), Saidas: dec(350)},
			{Chave: "pix", Entradas: dec(200), Saidas: dec(0)},
		},
	}
	svc := NewRelatorioService(repo)

	resumo, err := svc.ResumoPeriodo(context.Background(), dto.RelatorioFilter{})
	require.NoError(t, err)

	assert.Equal(t, "500", resumo.TotalEntradas.String())
	assert.Equal(t, "350", resumo.TotalSaidas.String())
	assert.Equal(t, "150", resumo.Saldo.String())

	// Per-bucket saldo is derived, not trusted from the caller.
	require.Len(t, resumo.PorCategoria, 3)
	assert.Equal(t, "480", resumo.PorCategoria[0].Saldo.String())
	assert.Equal(t, "-130", resumo.PorCategoria[1].Saldo.String())
	require.Len(t, resumo.PorForma, 2)
	assert.Equal(t, "-50", resumo.PorForma[0].Saldo.String())
}

func TestResumoPeriodoVazio(t *testing.T) {
	svc := NewRelatorioService(&fakeRelatorioRepo{})

	resumo, err := svc.ResumoPeriodo(context.Background(), dto.RelatorioFilter{})
	require.NoError(t, err)
	assert.Equal(t, "0", resumo.TotalEntradas.String())
	assert.Equal(t, "0", resumo.Saldo.String())
	assert.Empty(t, resumo.PorCategoria)
}
