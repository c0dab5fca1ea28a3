package service

import (
	"context"
	"fmt"
	"time"

	"bancapdv/internal/apperr"
	"bancapdv/internal/dto"
	"bancapdv/internal/model"
	"bancapdv/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DespesaService interface {
	CriarDespesa(ctx context.Context, req dto.CriarDespesaRequest) (*dto.DespesaResponse, error)
	ObterDespesa(ctx context.Context, id uuid.UUID) (*dto.DespesaResponse, error)
	ListarDespesas(ctx context.Context, filter dto.DespesaFilter) (*dto.DespesaListResponse, error)
	PagarDespesa(ctx context.Context, usuarioID, id uuid.UUID, req dto.PagarDespesaRequest) (*dto.DespesaResponse, error)
}

type despesaService struct {
	repo  repository.DespesaRepository
	caixa CaixaService
}

func NewDespesaService(repo repository.DespesaRepository, caixa CaixaService) DespesaService {
	return &despesaService{repo: repo, caixa: caixa}
}

func (s *despesaService) CriarDespesa(ctx context.Context, req dto.CriarDespesaRequest) (*dto.DespesaResponse, error) {
	if !req.Valor.IsPositive() {
		return nil, apperr.ErrValorInvalido
	}
	d := &model.Despesa{
		Descricao:   req.Descricao,
		Categoria:   req.Categoria,
		Valor:       req.Valor,
		Observacoes: req.Observacoes,
	}
	if d.Categoria == "" {
		d.Categoria = "geral"
	}
	if req.Vencimento != nil {
		v, err := time.Parse("2006-01-02", *req.Vencimento)
		if err != nil {
			return nil, fmt.Errorf("vencimento inválido: %w", err)
		}
		d.Vencimento = &v
	}
	if req.FornecedorID != nil {
		fid, err := uuid.Parse(*req.FornecedorID)
		if err != nil {
			return nil, fmt.Errorf("fornecedor_id inválido: %w", err)
		}
		d.FornecedorID = &fid
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return despesaToResponse(d), nil
}

func (s *despesaService) ObterDespesa(ctx context.Context, id uuid.UUID) (*dto.DespesaResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return despesaToResponse(d), nil
}

func (s *despesaService) ListarDespesas(ctx context.Context, filter dto.DespesaFilter) (*dto.DespesaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	despesas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DespesaResponse, 0, len(despesas))
	for i := range despesas {
		items = append(items, *despesaToResponse(&despesas[i]))
	}
	return &dto.DespesaListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// PagarDespesa settles an expense. With origem "caixa" the money leaves the
// till: a saida/despesa movement is posted against the named open session and
// linked back to the despesa, all inside one transaction, so the despesa can
// never read "pago" without its ledger entry existing. With origem "externa"
// (paid from the bank account, owner's pocket) only the despesa row changes.
func (s *despesaService) PagarDespesa(ctx context.Context, usuarioID, id uuid.UUID, req dto.PagarDespesaRequest) (*dto.DespesaResponse, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Pago {
		return nil, apperr.ErrDespesaJaPaga
	}

	agora := time.Now()

	if req.Origem == "externa" {
		d.Pago = true
		d.PagoEm = &agora
		if err := s.repo.Update(ctx, d); err != nil {
			return nil, err
		}
		return despesaToResponse(d), nil
	}

	if req.SessaoID == nil {
		return nil, apperr.ErrSemSessaoAberta
	}
	sessaoID, err := uuid.Parse(*req.SessaoID)
	if err != nil {
		return nil, fmt.Errorf("sessao_id inválido: %w", err)
	}
	sessao, err := s.caixa.ObterSessao(ctx, sessaoID)
	if err != nil {
		return nil, err
	}
	if sessao.Status != "aberta" {
		return nil, apperr.ErrSessaoFechada
	}
	caixaID, err := uuid.Parse(sessao.CaixaID)
	if err != nil {
		return nil, err
	}

	mov := &model.MovimentacaoCaixa{
		CaixaID:        caixaID,
		SessaoID:       &sessaoID,
		Tipo:           "saida",
		Categoria:      "despesa",
		Valor:          d.Valor,
		FormaPagamento: req.FormaPagamento,
		Descricao:      "Pagamento de despesa: " + d.Descricao,
		UsuarioID:      usuarioID,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.caixa.RegistrarMovimentacaoTx(tx, mov); err != nil {
			return err
		}
		d.Pago = true
		d.PagoEm = &agora
		d.MovimentacaoID = &mov.ID
		return s.repo.UpdateTx(tx, d)
	})
	if txErr != nil {
		return nil, txErr
	}
	return despesaToResponse(d), nil
}

func despesaToResponse(d *model.Despesa) *dto.DespesaResponse {
	resp := &dto.DespesaResponse{
		ID:        d.ID.String(),
		Descricao: d.Descricao,
		Categoria: d.Categoria,
		Valor:     d.Valor,
		Pago:      d.Pago,
		CreatedAt: d.CreatedAt.Format(timeLayout),
	}
	if d.Vencimento != nil {
		v := d.Vencimento.Format("2006-01-02")
		resp.Vencimento = &v
	}
	if d.PagoEm != nil {
		p := d.PagoEm.Format(timeLayout)
		resp.PagoEm = &p
	}
	if d.FornecedorID != nil {
		id := d.FornecedorID.String()
		resp.FornecedorID = &id
	}
	if d.MovimentacaoID != nil {
		id := d.MovimentacaoID.String()
		resp.MovimentacaoID = &id
	}
	resp.Observacoes = d.Observacoes
	return resp
}
