package service

import (
	"context"
	"testing"

	"bancapdv/internal/apperr"
	"bancapdv/internal/dto"
	"bancapdv/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func produtoFixture(t *testing.T) (ProdutoService, *fakeProdutoRepo, *model.Produto) {
	t.Helper()
	repo := newFakeProdutoRepo()
	p := &model.Produto{
		CodigoBarras: "7899876543210",
		Nome:         "Jornal Diário",
		PrecoCusto:   dec(1),
		PrecoVenda:   dec(3),
		EstoqueAtual: 20,
		Ativo:        true,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return NewProdutoService(repo, nil), repo, p
}

func TestCriarProdutoPrecoNegativo(t *testing.T) {
	svc := NewProdutoService(newFakeProdutoRepo(), nil)

	_, err := svc.CriarProduto(context.Background(), dto.CriarProdutoRequest{
		CodigoBarras: "123", Nome: "Inválido", PrecoVenda: dec(-1),
	})
	assert.ErrorIs(t, err, apperr.ErrValorInvalido)
}

func TestAjustarEstoqueEntradaDeMercadoria(t *testing.T) {
	svc, repo, p := produtoFixture(t)

	resp, err := svc.AjustarEstoque(context.Background(), p.ID, dto.AjustarEstoqueRequest{
		Quantidade: 30, Motivo: "remessa do fornecedor",
	})
	require.NoError(t, err)
	assert.Equal(t, 50, resp.EstoqueAtual)
	assert.Equal(t, 50, repo.produtos[p.ID].EstoqueAtual)
}

func TestAjustarEstoqueRecontagemParaBaixo(t *testing.T) {
	svc, _, p := produtoFixture(t)

	resp, err := svc.AjustarEstoque(context.Background(), p.ID, dto.AjustarEstoqueRequest{
		Quantidade: -5, Motivo: "recontagem de inventário",
	})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.EstoqueAtual)
}

// A downward adjustment goes through the same conditional decrement as a sale:
// it can never drive stock below zero.
func TestAjustarEstoqueAbaixoDeZero(t *testing.T) {
	svc, repo, p := produtoFixture(t)

	_, err := svc.AjustarEstoque(context.Background(), p.ID, dto.AjustarEstoqueRequest{
		Quantidade: -21, Motivo: "recontagem de inventário",
	})
	assert.ErrorIs(t, err, apperr.ErrEstoqueInsuficiente)
	assert.Equal(t, 20, repo.produtos[p.ID].EstoqueAtual)
}

func TestAjustarEstoqueDeltaZero(t *testing.T) {
	svc, _, p := produtoFixture(t)

	_, err := svc.AjustarEstoque(context.Background(), p.ID, dto.AjustarEstoqueRequest{
		Quantidade: 0, Motivo: "nada",
	})
	assert.ErrorIs(t, err, apperr.ErrValorInvalido)
}

func TestDesativarEReativarProduto(t *testing.T) {
	svc, repo, p := produtoFixture(t)

	require.NoError(t, svc.DesativarProduto(context.Background(), p.ID))
	assert.False(t, repo.produtos[p.ID].Ativo)

	require.NoError(t, svc.ReativarProduto(context.Background(), p.ID))
	assert.True(t, repo.produtos[p.ID].Ativo)
}
