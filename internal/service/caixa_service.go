package service

import (
	"context"
	"fmt"
	"time"

	"bancapdv/internal/apperr"
	"bancapdv/internal/dto"
	"bancapdv/internal/model"
	"bancapdv/internal/repository"
	"bancapdv/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CaixaService owns the session state machine (aberta → fechada, no reopen)
// and the movement recorder. It is the single write path to the cash ledger:
// VendaService and DespesaService post their movements through
// RegistrarMovimentacaoTx so the totals bookkeeping lives in one place.
type CaixaService interface {
	CriarCaixa(ctx context.Context, req dto.CriarCaixaRequest) (*dto.CaixaResponse, error)
	ListarCaixas(ctx context.Context, incluirInativos bool) ([]dto.CaixaResponse, error)
	DesativarCaixa(ctx context.Context, id uuid.UUID) error

	AbrirSessao(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirSessaoRequest) (*dto.SessaoResponse, error)
	FecharSessao(ctx context.Context, req dto.FecharSessaoRequest) (*dto.FechamentoResponse, error)
	ObterSessao(ctx context.Context, id uuid.UUID) (*dto.SessaoResponse, error)
	ListarSessoes(ctx context.Context, caixaID *uuid.UUID, page, limit int) (*dto.SessaoListResponse, error)
	ListarMovimentacoes(ctx context.Context, sessaoID uuid.UUID) ([]dto.MovimentacaoResponse, error)

	// SessaoAberta gates sales and manual movements: no open till, no posting.
	SessaoAberta(ctx context.Context, caixaID uuid.UUID) (*model.SessaoCaixa, error)
	SessaoAbertaPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.SessaoCaixa, error)

	RegistrarMovimentacao(ctx context.Context, usuarioID uuid.UUID, req dto.MovimentacaoManualRequest) (*dto.MovimentacaoResponse, error)
	// RegistrarMovimentacaoTx appends one ledger entry and folds it into the
	// session totals inside the caller's transaction.
	RegistrarMovimentacaoTx(tx *gorm.DB, m *model.MovimentacaoCaixa) error
}

type caixaService struct {
	repo       repository.CaixaRepository
	dispatcher *worker.Dispatcher
}

func NewCaixaService(repo repository.CaixaRepository, dispatcher *worker.Dispatcher) CaixaService {
	return &caixaService{repo: repo, dispatcher: dispatcher}
}

// ── Caixas ───────────────────────────────────────────────────────────────────

func (s *caixaService) CriarCaixa(ctx context.Context, req dto.CriarCaixaRequest) (*dto.CaixaResponse, error) {
	caixa := &model.Caixa{
		Nome:      req.Nome,
		Descricao: req.Descricao,
		Ativo:     true,
	}
	if err := s.repo.CreateCaixa(ctx, caixa); err != nil {
		return nil, err
	}
	return caixaToResponse(caixa), nil
}

func (s *caixaService) ListarCaixas(ctx context.Context, incluirInativos bool) ([]dto.CaixaResponse, error) {
	caixas, err := s.repo.ListCaixas(ctx, incluirInativos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CaixaResponse, 0, len(caixas))
	for i := range caixas {
		resp = append(resp, *caixaToResponse(&caixas[i]))
	}
	return resp, nil
}

// DesativarCaixa soft-deactivates: historical sessions keep a valid reference.
func (s *caixaService) DesativarCaixa(ctx context.Context, id uuid.UUID) error {
	caixa, err := s.repo.FindCaixaByID(ctx, id)
	if err != nil {
		return apperr.ErrCaixaInvalido
	}
	caixa.Ativo = false
	return s.repo.UpdateCaixa(ctx, caixa)
}

// ── AbrirSessao ──────────────────────────────────────────────────────────────

// AbrirSessao opens a session for a caixa. The one-open-session invariant is
// NOT an application-level check-then-act: the insert races against the
// partial unique index, so of two terminals opening simultaneously exactly
// one wins and the other gets ErrSessaoJaAberta.
// An opening float > 0 is recorded as an entrada/abertura movement against
// the new session inside the same transaction.
func (s *caixaService) AbrirSessao(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirSessaoRequest) (*dto.SessaoResponse, error) {
	caixaID, err := uuid.Parse(req.CaixaID)
	if err != nil {
		return nil, fmt.Errorf("caixa_id inválido: %w", err)
	}
	caixa, err := s.repo.FindCaixaByID(ctx, caixaID)
	if err != nil || !caixa.Ativo {
		return nil, apperr.ErrCaixaInvalido
	}
	if req.ValorAbertura.IsNegative() {
		return nil, apperr.ErrValorInvalido
	}

	sessao := &model.SessaoCaixa{
		CaixaID:       caixaID,
		UsuarioID:     usuarioID,
		ValorAbertura: req.ValorAbertura,
		TotalVendas:   decimal.Zero,
		TotalEntradas: decimal.Zero,
		TotalSaidas:   decimal.Zero,
		Status:        "aberta",
		Observacoes:   req.Observacoes,
		DataAbertura:  time.Now(),
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateSessaoTx(tx, sessao); err != nil {
			return err
		}
		if req.ValorAbertura.IsPositive() {
			mov := &model.MovimentacaoCaixa{
				CaixaID:        caixaID,
				SessaoID:       &sessao.ID,
				Tipo:           "entrada",
				Categoria:      "abertura",
				Valor:          req.ValorAbertura,
				FormaPagamento: "dinheiro",
				Descricao:      "Fundo de troco",
				UsuarioID:      usuarioID,
			}
			return s.RegistrarMovimentacaoTx(tx, mov)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Re-read so the response carries the totals the opening float produced.
	aberta, err := s.repo.FindSessaoByID(ctx, sessao.ID)
	if err != nil {
		return nil, err
	}
	return sessaoToResponse(aberta), nil
}

// ── FecharSessao ─────────────────────────────────────────────────────────────

// FecharSessao reconciles counted cash against the ledger and closes the
// session. Expected cash is recomputed from stored movement rows — never from
// the running totals — so the figure stays reproducible for audit:
//
//	esperado  = valorAbertura + entradas(dinheiro) − saidas(dinheiro)
//	diferenca = valorContado − esperado
//
// Non-cash instruments (débito, crédito, pix) are excluded: they never sit in
// the drawer. A nonzero diferenca is recorded, never a reason to refuse the
// close.
//
// Ordering inside the transaction matters: the status flip runs FIRST, so its
// row lock serializes any in-flight recorder (which then fails the status
// guard), and only then is the ledger summed. A movement can therefore never
// slip between the reconciliation snapshot and the close.
func (s *caixaService) FecharSessao(ctx context.Context, req dto.FecharSessaoRequest) (*dto.FechamentoResponse, error) {
	sessaoID, err := uuid.Parse(req.SessaoID)
	if err != nil {
		return nil, fmt.Errorf("sessao_id inválido: %w", err)
	}
	sessao, err := s.repo.FindSessaoByID(ctx, sessaoID)
	if err != nil {
		return nil, err
	}
	if sessao.Status != "aberta" {
		return nil, apperr.ErrSessaoJaFechada
	}
	if req.ValorContado.IsNegative() {
		return nil, apperr.ErrValorInvalido
	}

	var esperado, diferenca decimal.Decimal
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.FecharSessaoTx(tx, sessaoID, repository.FechamentoSessao{
			ValorFechamento: req.ValorContado,
			Observacoes:     req.Observacoes,
		}); err != nil {
			return err
		}
		saldos, err := s.repo.SaldoPorFormaTx(tx, sessaoID)
		if err != nil {
			return err
		}
		// The abertura movement is part of the ledger, so the float
		// participates in the cash balance AND is added as the base amount.
		esperado = sessao.ValorAbertura.Add(saldos["dinheiro"])
		diferenca = req.ValorContado.Sub(esperado)
		return s.repo.ReconciliarSessaoTx(tx, sessaoID, esperado, diferenca)
	})
	if txErr != nil {
		return nil, txErr
	}

	fechada, err := s.repo.FindSessaoByID(ctx, sessaoID)
	if err != nil {
		return nil, err
	}

	// Closing report mail is best effort — the close already committed.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueFechamento(ctx, worker.FechamentoPayload{
			SessaoID: sessaoID.String(),
		})
	}

	return &dto.FechamentoResponse{
		Sessao:        *sessaoToResponse(fechada),
		ValorEsperado: esperado,
		ValorContado:  req.ValorContado,
		Diferenca:     diferenca,
	}, nil
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *caixaService) ObterSessao(ctx context.Context, id uuid.UUID) (*dto.SessaoResponse, error) {
	sessao, err := s.repo.FindSessaoByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return sessaoToResponse(sessao), nil
}

func (s *caixaService) ListarSessoes(ctx context.Context, caixaID *uuid.UUID, page, limit int) (*dto.SessaoListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	sessoes, total, err := s.repo.ListSessoes(ctx, caixaID, page, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SessaoResponse, 0, len(sessoes))
	for i := range sessoes {
		items = append(items, *sessaoToResponse(&sessoes[i]))
	}
	return &dto.SessaoListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *caixaService) ListarMovimentacoes(ctx context.Context, sessaoID uuid.UUID) ([]dto.MovimentacaoResponse, error) {
	movs, err := s.repo.ListMovimentacoes(ctx, sessaoID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimentacaoResponse, 0, len(movs))
	for i := range movs {
		resp = append(resp, *movimentacaoToResponse(&movs[i]))
	}
	return resp, nil
}

func (s *caixaService) SessaoAberta(ctx context.Context, caixaID uuid.UUID) (*model.SessaoCaixa, error) {
	sessao, err := s.repo.FindSessaoAbertaPorCaixa(ctx, caixaID)
	if err != nil {
		return nil, err
	}
	if sessao == nil {
		return nil, apperr.ErrSemSessaoAberta
	}
	return sessao, nil
}

func (s *caixaService) SessaoAbertaPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.SessaoCaixa, error) {
	sessao, err := s.repo.FindSessaoAbertaPorUsuario(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	if sessao == nil {
		return nil, apperr.ErrSemSessaoAberta
	}
	return sessao, nil
}

// ── Movement recorder ────────────────────────────────────────────────────────

// RegistrarMovimentacao records a manual entrada/saída. Movements may be
// recorded with no session (historical corrections) but when a session is
// named it must be open — movements cannot be back-dated onto a closed one.
func (s *caixaService) RegistrarMovimentacao(ctx context.Context, usuarioID uuid.UUID, req dto.MovimentacaoManualRequest) (*dto.MovimentacaoResponse, error) {
	caixaID, err := uuid.Parse(req.CaixaID)
	if err != nil {
		return nil, fmt.Errorf("caixa_id inválido: %w", err)
	}
	if !req.Valor.IsPositive() {
		return nil, apperr.ErrValorInvalido
	}

	var sessaoID *uuid.UUID
	if req.SessaoID != nil {
		id, err := uuid.Parse(*req.SessaoID)
		if err != nil {
			return nil, fmt.Errorf("sessao_id inválido: %w", err)
		}
		sessao, err := s.repo.FindSessaoByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if sessao.Status != "aberta" {
			return nil, apperr.ErrSessaoFechada
		}
		sessaoID = &id
	}

	mov := &model.MovimentacaoCaixa{
		CaixaID:        caixaID,
		SessaoID:       sessaoID,
		Tipo:           req.Tipo,
		Categoria:      req.Categoria,
		Valor:          req.Valor,
		FormaPagamento: req.FormaPagamento,
		Descricao:      req.Descricao,
		UsuarioID:      usuarioID,
		Observacoes:    req.Observacoes,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.RegistrarMovimentacaoTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}
	return movimentacaoToResponse(mov), nil
}

// RegistrarMovimentacaoTx is the single append point of the ledger. Within
// the caller's transaction it inserts the movement row and folds the value
// into the session totals with an atomic SQL increment, so concurrent
// recorders against the same session cannot lose updates. The increment's
// status guard also closes the record-vs-close race: if the session closed
// after the caller's precondition check, zero rows update, ErrSessaoFechada
// comes back, and the whole transaction rolls back.
func (s *caixaService) RegistrarMovimentacaoTx(tx *gorm.DB, m *model.MovimentacaoCaixa) error {
	if !m.Valor.IsPositive() {
		return apperr.ErrValorInvalido
	}
	if err := s.repo.CreateMovimentacaoTx(tx, m); err != nil {
		return err
	}
	if m.SessaoID == nil {
		return nil
	}

	dEntradas, dSaidas, dVendas := decimal.Zero, decimal.Zero, decimal.Zero
	switch m.Tipo {
	case "entrada":
		dEntradas = m.Valor
	case "saida":
		dSaidas = m.Valor
	}
	if m.Categoria == "venda" {
		if m.Tipo == "saida" {
			// Reversal of a sale payment (cancellation estorno).
			dVendas = m.Valor.Neg()
		} else {
			dVendas = m.Valor
		}
	}
	return s.repo.IncrementarTotaisTx(tx, *m.SessaoID, dEntradas, dSaidas, dVendas)
}

// ── Mapping helpers ──────────────────────────────────────────────────────────

const timeLayout = "2006-01-02T15:04:05Z07:00"

func caixaToResponse(c *model.Caixa) *dto.CaixaResponse {
	return &dto.CaixaResponse{
		ID:        c.ID.String(),
		Nome:      c.Nome,
		Descricao: c.Descricao,
		Ativo:     c.Ativo,
		CreatedAt: c.CreatedAt.Format(timeLayout),
	}
}

func sessaoToResponse(s *model.SessaoCaixa) *dto.SessaoResponse {
	resp := &dto.SessaoResponse{
		ID:                    s.ID.String(),
		CaixaID:               s.CaixaID.String(),
		UsuarioID:             s.UsuarioID.String(),
		ValorAbertura:         s.ValorAbertura,
		ValorFechamento:       s.ValorFechamento,
		ValorEsperado:         s.ValorEsperado,
		Diferenca:             s.Diferenca,
		TotalVendas:           s.TotalVendas,
		TotalEntradas:         s.TotalEntradas,
		TotalSaidas:           s.TotalSaidas,
		Status:                s.Status,
		Observacoes:           s.Observacoes,
		ObservacoesFechamento: s.ObservacoesFechamento,
		DataAbertura:          s.DataAbertura.Format(timeLayout),
	}
	if s.DataFechamento != nil {
		t := s.DataFechamento.Format(timeLayout)
		resp.DataFechamento = &t
	}
	return resp
}

func movimentacaoToResponse(m *model.MovimentacaoCaixa) *dto.MovimentacaoResponse {
	resp := &dto.MovimentacaoResponse{
		ID:             m.ID.String(),
		CaixaID:        m.CaixaID.String(),
		Tipo:           m.Tipo,
		Categoria:      m.Categoria,
		Valor:          m.Valor,
		FormaPagamento: m.FormaPagamento,
		Descricao:      m.Descricao,
		UsuarioID:      m.UsuarioID.String(),
		CreatedAt:      m.CreatedAt.Format(timeLayout),
	}
	if m.SessaoID != nil {
		id := m.SessaoID.String()
		resp.SessaoID = &id
	}
	if m.VendaID != nil {
		id := m.VendaID.String()
		resp.VendaID = &id
	}
	return resp
}
