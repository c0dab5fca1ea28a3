package service

import (
	"context"
	"testing"
	"time"

	"bancapdv/internal/apperr"
	"bancapdv/internal/dto"
	"bancapdv/internal/model"
	"bancapdv/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeDespesaRepo struct {
	despesas map[uuid.UUID]*model.Despesa
}

func newFakeDespesaRepo() *fakeDespesaRepo {
	return &fakeDespesaRepo{despesas: make(map[uuid.UUID]*model.Despesa)}
}

func (r *fakeDespesaRepo) DB() *gorm.DB { return nil }

func (r *fakeDespesaRepo) Create(_ context.Context, d *model.Despesa) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.CreatedAt = time.Now()
	cp := *d
	r.despesas[d.ID] = &cp
	return nil
}

func (r *fakeDespesaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Despesa, error) {
	d, ok := r.despesas[id]
	if !ok {
		return nil, apperr.ErrRegistroNaoEncontrado
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDespesaRepo) List(_ context.Context, filter dto.DespesaFilter) ([]model.Despesa, int64, error) {
	var out []model.Despesa
	for _, d := range r.despesas {
		if filter.Pago != nil && d.Pago != *filter.Pago {
			continue
		}
		if filter.Categoria != "" && d.Categoria != filter.Categoria {
			continue
		}
		out = append(out, *d)
	}
	return out, int64(len(out)), nil
}

func (r *fakeDespesaRepo) Update(_ context.Context, d *model.Despesa) error {
	cp := *d
	r.despesas[d.ID] = &cp
	return nil
}

func (r *fakeDespesaRepo) UpdateTx(_ *gorm.DB, d *model.Despesa) error {
	cp := *d
	r.despesas[d.ID] = &cp
	return nil
}

var _ repository.DespesaRepository = (*fakeDespesaRepo)(nil)

func novaDespesa(t *testing.T, svc DespesaService, valor float64) uuid.UUID {
	t.Helper()
	resp, err := svc.CriarDespesa(context.Background(), dto.CriarDespesaRequest{
		Descricao: "Aluguel do ponto",
		Categoria: "aluguel",
		Valor:     dec(valor),
	})
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func TestCriarDespesaValorInvalido(t *testing.T) {
	svc := NewDespesaService(newFakeDespesaRepo(), nil)

	_, err := svc.CriarDespesa(context.Background(), dto.CriarDespesaRequest{
		Descricao: "Sem valor", Valor: dec(0),
	})
	assert.ErrorIs(t, err, apperr.ErrValorInvalido)
}

func TestPagarDespesaExterna(t *testing.T) {
	repo := newFakeDespesaRepo()
	svc := NewDespesaService(repo, nil)
	id := novaDespesa(t, svc, 800)

	resp, err := svc.PagarDespesa(context.Background(), uuid.New(), id, dto.PagarDespesaRequest{
		Origem: "externa", FormaPagamento: "pix",
	})
	require.NoError(t, err)
	assert.True(t, resp.Pago)
	assert.NotNil(t, resp.PagoEm)
	// An external payment never touches the cash ledger.
	assert.Nil(t, resp.MovimentacaoID)
}

func TestPagarDespesaPeloCaixa(t *testing.T) {
	caixaRepo := newFakeCaixaRepo()
	caixaSvc := NewCaixaService(caixaRepo, nil)
	caixaID := novoCaixa(t, caixaRepo, caixaSvc)
	sessao := abrirSessao(t, caixaSvc, caixaID, 200)

	repo := newFakeDespesaRepo()
	svc := NewDespesaService(repo, caixaSvc)
	id := novaDespesa(t, svc, 50)

	sid := sessao.ID
	resp, err := svc.PagarDespesa(context.Background(), uuid.New(), id, dto.PagarDespesaRequest{
		Origem: "caixa", SessaoID: &sid, FormaPagamento: "dinheiro",
	})
	require.NoError(t, err)
	require.True(t, resp.Pago)
	// Paid from the till: the despesa links to its ledger movement and the
	// session totals reflect the outflow.
	require.NotNil(t, resp.MovimentacaoID)

	sessaoID := uuid.MustParse(sessao.ID)
	movs, err := caixaSvc.ListarMovimentacoes(context.Background(), sessaoID)
	require.NoError(t, err)
	require.Len(t, movs, 2) // abertura + pagamento
	assert.Equal(t, "despesa", movs[1].Categoria)
	assert.Equal(t, "saida", movs[1].Tipo)
	assert.Equal(t, *resp.MovimentacaoID, movs[1].ID)

	atual, err := caixaSvc.ObterSessao(context.Background(), sessaoID)
	require.NoError(t, err)
	assert.Equal(t, "50", atual.TotalSaidas.String())
}

func TestPagarDespesaSessaoFechada(t *testing.T) {
	caixaRepo := newFakeCaixaRepo()
	caixaSvc := NewCaixaService(caixaRepo, nil)
	caixaID := novoCaixa(t, caixaRepo, caixaSvc)
	sessao := abrirSessao(t, caixaSvc, caixaID, 200)

	_, err := caixaSvc.FecharSessao(context.Background(), dto.FecharSessaoRequest{
		SessaoID: sessao.ID, ValorContado: dec(400),
	})
	require.NoError(t, err)

	repo := newFakeDespesaRepo()
	svc := NewDespesaService(repo, caixaSvc)
	id := novaDespesa(t, svc, 50)

	sid := sessao.ID
	_, err = svc.PagarDespesa(context.Background(), uuid.New(), id, dto.PagarDespesaRequest{
		Origem: "caixa", SessaoID: &sid, FormaPagamento: "dinheiro",
	})
	assert.ErrorIs(t, err, apperr.ErrSessaoFechada)

	// The despesa stays unpaid when the ledger posting is refused.
	d, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, d.Pago)
}

func TestPagarDespesaCaixaSemSessao(t *testing.T) {
	svc := NewDespesaService(newFakeDespesaRepo(), nil)
	id := novaDespesa(t, svc, 50)

	_, err := svc.PagarDespesa(context.Background(), uuid.New(), id, dto.PagarDespesaRequest{
		Origem: "caixa", FormaPagamento: "dinheiro",
	})
	assert.ErrorIs(t, err, apperr.ErrSemSessaoAberta)
}

func TestPagarDespesaDuplicada(t *testing.T) {
	repo := newFakeDespesaRepo()
	svc := NewDespesaService(repo, nil)
	id := novaDespesa(t, svc, 800)

	_, err := svc.PagarDespesa(context.Background(), uuid.New(), id, dto.PagarDespesaRequest{
		Origem: "externa", FormaPagamento: "pix",
	})
	require.NoError(t, err)

	_, err = svc.PagarDespesa(context.Background(), uuid.New(), id, dto.PagarDespesaRequest{
		Origem: "externa", FormaPagamento: "pix",
	})
	assert.ErrorIs(t, err, apperr.ErrDespesaJaPaga)
}
