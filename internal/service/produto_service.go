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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const precoCacheTTL = 5 * time.Minute

// PrecoCacheKey is the redis key of the public price lookup for a barcode.
func PrecoCacheKey(barcode string) string { return "preco:" + barcode }

type ProdutoService interface {
	CriarProduto(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error)
	ObterProduto(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error)
	BuscarPorCodigoBarras(ctx context.Context, barcode string) (*dto.ProdutoResponse, error)
	ListarProdutos(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error)
	AtualizarProduto(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error)
	AjustarEstoque(ctx context.Context, id uuid.UUID, req dto.AjustarEstoqueRequest) (*dto.ProdutoResponse, error)
	DesativarProduto(ctx context.Context, id uuid.UUID) error
	ReativarProduto(ctx context.Context, id uuid.UUID) error
}

type produtoService struct {
	repo repository.ProdutoRepository
	rdb  *redis.Client
}

func NewProdutoService(repo repository.ProdutoRepository, rdb *redis.Client) ProdutoService {
	return &produtoService{repo: repo, rdb: rdb}
}

func (s *produtoService) CriarProduto(ctx context.Context, req dto.CriarProdutoRequest) (*dto.ProdutoResponse, error) {
	if req.PrecoVenda.IsNegative() || req.PrecoCusto.IsNegative() {
		return nil, apperr.ErrValorInvalido
	}
	p := &model.Produto{
		CodigoBarras:  req.CodigoBarras,
		Nome:          req.Nome,
		Descricao:     req.Descricao,
		Categoria:     req.Categoria,
		PrecoCusto:    req.PrecoCusto,
		PrecoVenda:    req.PrecoVenda,
		EstoqueAtual:  req.EstoqueAtual,
		EstoqueMinimo: req.EstoqueMinimo,
		Ativo:         true,
	}
	if p.Categoria == "" {
		p.Categoria = "geral"
	}
	if req.FornecedorID != nil {
		fid, err := uuid.Parse(*req.FornecedorID)
		if err != nil {
			return nil, fmt.Errorf("fornecedor_id inválido: %w", err)
		}
		p.FornecedorID = &fid
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return produtoToResponse(p), nil
}

func (s *produtoService) ObterProduto(ctx context.Context, id uuid.UUID) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return produtoToResponse(p), nil
}

func (s *produtoService) BuscarPorCodigoBarras(ctx context.Context, barcode string) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	return produtoToResponse(p), nil
}

func (s *produtoService) ListarProdutos(ctx context.Context, filter dto.ProdutoFilter) (*dto.ProdutoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	produtos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProdutoResponse, 0, len(produtos))
	for i := range produtos {
		items = append(items, *produtoToResponse(&produtos[i]))
	}
	return &dto.ProdutoListResponse{Data: items, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *produtoService) AtualizarProduto(ctx context.Context, id uuid.UUID, req dto.AtualizarProdutoRequest) (*dto.ProdutoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nome != nil {
		p.Nome = *req.Nome
	}
	if req.Descricao != nil {
		p.Descricao = req.Descricao
	}
	if req.Categoria != nil {
		p.Categoria = *req.Categoria
	}
	if req.PrecoCusto != nil {
		if req.PrecoCusto.IsNegative() {
			return nil, apperr.ErrValorInvalido
		}
		p.PrecoCusto = *req.PrecoCusto
	}
	if req.PrecoVenda != nil {
		if req.PrecoVenda.IsNegative() {
			return nil, apperr.ErrValorInvalido
		}
		p.PrecoVenda = *req.PrecoVenda
	}
	if req.EstoqueMinimo != nil {
		p.EstoqueMinimo = *req.EstoqueMinimo
	}
	if req.FornecedorID != nil {
		fid, err := uuid.Parse(*req.FornecedorID)
		if err != nil {
			return nil, fmt.Errorf("fornecedor_id inválido: %w", err)
		}
		p.FornecedorID = &fid
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidatePrecoCache(ctx, p.CodigoBarras)
	return produtoToResponse(p), nil
}

// AjustarEstoque applies a manual delta (recount, breakage, shipment received).
// Negative deltas go through the same conditional decrement as sales, so a
// recount can never drive stock below zero.
func (s *produtoService) AjustarEstoque(ctx context.Context, id uuid.UUID, req dto.AjustarEstoqueRequest) (*dto.ProdutoResponse, error) {
	if req.Quantidade == 0 {
		return nil, apperr.ErrValorInvalido
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if req.Quantidade > 0 {
			return s.repo.IncrementarEstoqueTx(tx, id, req.Quantidade)
		}
		return s.repo.DecrementarEstoqueTx(tx, id, -req.Quantidade)
	})
	if txErr != nil {
		return nil, txErr
	}
	log.Info().Str("produto_id", id.String()).Int("delta", req.Quantidade).
		Str("motivo", req.Motivo).Msg("estoque ajustado manualmente")

	s.invalidatePrecoCache(ctx, p.CodigoBarras)
	atualizado, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return produtoToResponse(atualizado), nil
}

func (s *produtoService) DesativarProduto(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SetAtivo(ctx, id, false); err != nil {
		return err
	}
	s.invalidatePrecoCache(ctx, p.CodigoBarras)
	return nil
}

func (s *produtoService) ReativarProduto(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetAtivo(ctx, id, true)
}

// invalidatePrecoCache drops the cached public price entry after any write
// that can change what the lookup returns. Best effort: a miss just means the
// next lookup repopulates from postgres.
func (s *produtoService) invalidatePrecoCache(ctx context.Context, barcode string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, PrecoCacheKey(barcode)).Err(); err != nil {
		log.Warn().Err(err).Str("barcode", barcode).Msg("falha ao invalidar cache de preço")
	}
}

func produtoToResponse(p *model.Produto) *dto.ProdutoResponse {
	resp := &dto.ProdutoResponse{
		ID:            p.ID.String(),
		CodigoBarras:  p.CodigoBarras,
		Nome:          p.Nome,
		Descricao:     p.Descricao,
		Categoria:     p.Categoria,
		PrecoCusto:    p.PrecoCusto,
		PrecoVenda:    p.PrecoVenda,
		EstoqueAtual:  p.EstoqueAtual,
		EstoqueMinimo: p.EstoqueMinimo,
		Ativo:         p.Ativo,
		CreatedAt:     p.CreatedAt.Format(timeLayout),
	}
	if p.FornecedorID != nil {
		id := p.FornecedorID.String()
		resp.FornecedorID = &id
	}
	return resp
}
