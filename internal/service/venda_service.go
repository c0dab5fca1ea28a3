package service

import (
	"context"
	"fmt"

	"bancapdv/internal/apperr"
	"bancapdv/internal/dto"
	"bancapdv/internal/model"
	"bancapdv/internal/repository"
	"bancapdv/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VendaService interface {
	RegistrarVenda(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error)
	CancelarVenda(ctx context.Context, usuarioID, id uuid.UUID, motivo string) error
	ObterVenda(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error)
	ListarVendas(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error)
}

type vendaService struct {
	repo        repository.VendaRepository
	produtoRepo repository.ProdutoRepository
	caixa       CaixaService
	dispatcher  *worker.Dispatcher
}

func NewVendaService(
	repo repository.VendaRepository,
	produtoRepo repository.ProdutoRepository,
	caixa CaixaService,
	dispatcher *worker.Dispatcher,
) VendaService {
	return &vendaService{
		repo:        repo,
		produtoRepo: produtoRepo,
		caixa:       caixa,
		dispatcher:  dispatcher,
	}
}

// ── RegistrarVenda ────────────────────────────────────────────────────────────
// Settlement is one logical unit — no partial state survives a failure:
//  1. Gate: an open session must exist for the caixa (cashier discipline —
//     no sale posts without an open till, and stock is never touched when
//     the gate fails).
//  2. Pre-flight outside the transaction: resolve products, recompute totals
//     from catalog prices, check declared total and payment sufficiency.
//  3. Transaction: allocate numero → insert venda+itens+pagamentos →
//     conditional stock decrement per item → one ledger movement per payment,
//     folded into the session totals. Any failure rolls everything back.
//  4. Troco is reported to the caller but not recorded as a saída: it nets
//     out of the cash payment already in the ledger.

func (s *vendaService) RegistrarVenda(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVendaRequest) (*dto.VendaResponse, error) {
	caixaID, err := uuid.Parse(req.CaixaID)
	if err != nil {
		return nil, fmt.Errorf("caixa_id inválido: %w", err)
	}

	// 1. Gate on an open session, before anything else.
	sessao, err := s.caixa.SessaoAberta(ctx, caixaID)
	if err != nil {
		return nil, err
	}

	// 2. Resolve products and recompute totals (pre-flight, outside the tx).
	type itemResolvido struct {
		produtoID  uuid.UUID
		nome       string
		preco      decimal.Decimal
		quantidade int
		desconto   decimal.Decimal
		subtotal   decimal.Decimal
	}

	var resolvidos []itemResolvido
	subtotal := decimal.Zero

	for _, item := range req.Itens {
		pid, err := uuid.Parse(item.ProdutoID)
		if err != nil {
			return nil, fmt.Errorf("produto_id inválido: %w", err)
		}
		p, err := s.produtoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("produto %s não encontrado", item.ProdutoID)
		}
		if !p.Ativo {
			return nil, fmt.Errorf("produto %s está inativo e não pode ser vendido", p.Nome)
		}
		if p.EstoqueAtual < item.Quantidade {
			return nil, fmt.Errorf("%w: %s", apperr.ErrEstoqueInsuficiente, p.Nome)
		}
		linha := p.PrecoVenda.Mul(decimal.NewFromInt(int64(item.Quantidade))).Sub(item.Desconto)
		subtotal = subtotal.Add(linha)
		resolvidos = append(resolvidos, itemResolvido{
			produtoID:  pid,
			nome:       p.Nome,
			preco:      p.PrecoVenda,
			quantidade: item.Quantidade,
			desconto:   item.Desconto,
			subtotal:   linha,
		})
	}

	total := subtotal.Sub(req.Desconto)
	if !total.Equal(req.Total) {
		return nil, apperr.ErrTotalDivergente
	}

	totalPagamentos := decimal.Zero
	for _, pg := range req.Pagamentos {
		if !pg.Valor.IsPositive() {
			return nil, apperr.ErrValorInvalido
		}
		totalPagamentos = totalPagamentos.Add(pg.Valor)
	}
	if totalPagamentos.LessThan(total) {
		return nil, apperr.ErrPagamentoInsuficiente
	}
	troco := totalPagamentos.Sub(total)

	// 3. Settlement transaction.
	var venda model.Venda
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumeroTx(tx)
		if err != nil {
			return err
		}

		venda = model.Venda{
			Numero:      numero,
			CaixaID:     caixaID,
			SessaoID:    sessao.ID,
			UsuarioID:   usuarioID,
			ClienteNome: req.ClienteNome,
			Subtotal:    subtotal,
			Desconto:    req.Desconto,
			Total:       total,
			Troco:       troco,
			Estado:      "concluida",
		}
		for _, r := range resolvidos {
			venda.Itens = append(venda.Itens, model.VendaItem{
				ProdutoID:     r.produtoID,
				Quantidade:    r.quantidade,
				PrecoUnitario: r.preco,
				Desconto:      r.desconto,
				Subtotal:      r.subtotal,
			})
		}
		for _, pg := range req.Pagamentos {
			parcelas := pg.Parcelas
			if parcelas < 1 {
				parcelas = 1
			}
			venda.Pagamentos = append(venda.Pagamentos, model.VendaPagamento{
				Forma:    pg.Forma,
				Valor:    pg.Valor,
				Parcelas: parcelas,
			})
		}

		if err := s.repo.CreateTx(tx, &venda); err != nil {
			return err
		}

		// Stock decrement is a conditional UPDATE — the pre-flight check above
		// only produces a friendlier early failure; this is the authoritative
		// one and rolls the whole settlement back on a concurrent shortage.
		for _, r := range resolvidos {
			if err := s.produtoRepo.DecrementarEstoqueTx(tx, r.produtoID, r.quantidade); err != nil {
				return fmt.Errorf("baixa de estoque de %s: %w", r.nome, err)
			}
		}

		// One ledger movement per payment instrument.
		for _, pg := range req.Pagamentos {
			mov := &model.MovimentacaoCaixa{
				CaixaID:        caixaID,
				SessaoID:       &sessao.ID,
				Tipo:           "entrada",
				Categoria:      "venda",
				Valor:          pg.Valor,
				FormaPagamento: pg.Forma,
				Descricao:      fmt.Sprintf("Venda #%d", numero),
				VendaID:        &venda.ID,
				UsuarioID:      usuarioID,
			}
			if err := s.caixa.RegistrarMovimentacaoTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// Receipt PDF is generated off the hot path — best effort.
	if s.dispatcher != nil {
		payload := worker.ReciboPayload{VendaID: venda.ID.String()}
		if req.ClienteEmail != nil && *req.ClienteEmail != "" {
			payload.ClienteEmail = *req.ClienteEmail
		}
		_ = s.dispatcher.EnqueueRecibo(ctx, payload)
	}

	resp := vendaToResponse(&venda)
	resp.Troco = troco
	for i, r := range resolvidos {
		resp.Itens[i].Produto = r.nome
	}
	return resp, nil
}

// ── CancelarVenda ─────────────────────────────────────────────────────────────
// Cancelling reverses the sale's side effects without ever editing history:
// stock goes back, and each payment gets an offsetting saída movement that
// references the original venda. If the originating session is still open the
// offsets post against it (totals shrink atomically); once it closed they are
// recorded sessionless, as historical corrections — closed totals are
// immutable. The venda row itself is only flagged, never deleted, and its
// numero is never reused.

func (s *vendaService) CancelarVenda(ctx context.Context, usuarioID, id uuid.UUID, motivo string) error {
	venda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if venda.Estado == "cancelada" {
		return apperr.ErrVendaJaCancelada
	}

	// The offsets attach to the session only while it is still open.
	var sessaoID *uuid.UUID
	if aberta, err := s.caixa.SessaoAberta(ctx, venda.CaixaID); err == nil && aberta.ID == venda.SessaoID {
		sessaoID = &venda.SessaoID
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		for _, item := range venda.Itens {
			if err := s.produtoRepo.IncrementarEstoqueTx(tx, item.ProdutoID, item.Quantidade); err != nil {
				return err
			}
		}
		for _, pg := range venda.Pagamentos {
			mov := &model.MovimentacaoCaixa{
				CaixaID:        venda.CaixaID,
				SessaoID:       sessaoID,
				Tipo:           "saida",
				Categoria:      "venda",
				Valor:          pg.Valor,
				FormaPagamento: pg.Forma,
				Descricao:      fmt.Sprintf("Estorno venda #%d — %s", venda.Numero, motivo),
				VendaID:        &venda.ID,
				UsuarioID:      usuarioID,
			}
			if err := s.caixa.RegistrarMovimentacaoTx(tx, mov); err != nil {
				return err
			}
		}
		return s.repo.UpdateEstadoTx(tx, id, "cancelada")
	})
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *vendaService) ObterVenda(ctx context.Context, id uuid.UUID) (*dto.VendaResponse, error) {
	venda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return vendaToResponse(venda), nil
}

func (s *vendaService) ListarVendas(ctx context.Context, filter dto.VendaFilter) (*dto.VendaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Estado == "" {
		filter.Estado = "concluida"
	}
	vendas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VendaResponse, 0, len(vendas))
	for i := range vendas {
		items = append(items, *vendaToResponse(&vendas[i]))
	}
	return &dto.VendaListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

func vendaToResponse(v *model.Venda) *dto.VendaResponse {
	itens := make([]dto.ItemVendaResponse, 0, len(v.Itens))
	for _, item := range v.Itens {
		nome := ""
		if item.Produto != nil {
			nome = item.Produto.Nome
		}
		itens = append(itens, dto.ItemVendaResponse{
			Produto:       nome,
			Quantidade:    item.Quantidade,
			PrecoUnitario: item.PrecoUnitario,
			Desconto:      item.Desconto,
			Subtotal:      item.Subtotal,
		})
	}
	pagamentos := make([]dto.PagamentoRequest, 0, len(v.Pagamentos))
	for _, pg := range v.Pagamentos {
		pagamentos = append(pagamentos, dto.PagamentoRequest{
			Forma: pg.Forma, Valor: pg.Valor, Parcelas: pg.Parcelas,
		})
	}
	return &dto.VendaResponse{
		ID:          v.ID.String(),
		Numero:      v.Numero,
		CaixaID:     v.CaixaID.String(),
		SessaoID:    v.SessaoID.String(),
		Itens:       itens,
		Subtotal:    v.Subtotal,
		Desconto:    v.Desconto,
		Total:       v.Total,
		Pagamentos:  pagamentos,
		Troco:       v.Troco,
		Estado:      v.Estado,
		ClienteNome: v.ClienteNome,
		CreatedAt:   v.CreatedAt.Format(timeLayout),
	}
}
