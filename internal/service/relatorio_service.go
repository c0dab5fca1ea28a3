package service

import (
	"context"

	"bancapdv/internal/dto"
	"bancapdv/internal/repository"

	"github.com/shopspring/decimal"
)

// RelatorioService is the read facade over the ledger: period summaries and
// grouped breakdowns, always recomputed from stored movement rows.
type RelatorioService interface {
	ResumoPeriodo(ctx context.Context, filter dto.RelatorioFilter) (*dto.ResumoPeriodoResponse, error)
	Movimentacoes(ctx context.Context, filter dto.RelatorioFilter) ([]dto.MovimentacaoResponse, error)
	Sessoes(ctx context.Context, filter dto.RelatorioFilter) ([]dto.SessaoResponse, error)
}

type relatorioService struct {
	repo repository.RelatorioRepository
}

func NewRelatorioService(repo repository.RelatorioRepository) RelatorioService {
	return &relatorioService{repo: repo}
}

func (s *relatorioService) ResumoPeriodo(ctx context.Context, filter dto.RelatorioFilter) (*dto.ResumoPeriodoResponse, error) {
	porCategoria, err := s.repo.SomaPorCategoria(ctx, filter)
	if err != nil {
		return nil, err
	}
	porForma, err := s.repo.SomaPorForma(ctx, filter)
	if err != nil {
		return nil, err
	}

	resumo := &dto.ResumoPeriodoResponse{
		TotalEntradas: decimal.Zero,
		TotalSaidas:   decimal.Zero,
		PorCategoria:  somasToResponse(porCategoria),
		PorForma:      somasToResponse(porForma),
	}
	for _, soma := range porCategoria {
		resumo.TotalEntradas = resumo.TotalEntradas.Add(soma.Entradas)
		resumo.TotalSaidas = resumo.TotalSaidas.Add(soma.Saidas)
	}
	resumo.Saldo = resumo.TotalEntradas.Sub(resumo.TotalSaidas)
	return resumo, nil
}

func (s *relatorioService) Movimentacoes(ctx context.Context, filter dto.RelatorioFilter) ([]dto.MovimentacaoResponse, error) {
	movs, err := s.repo.Movimentacoes(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimentacaoResponse, 0, len(movs))
	for i := range movs {
		resp = append(resp, *movimentacaoToResponse(&movs[i]))
	}
	return resp, nil
}

func (s *relatorioService) Sessoes(ctx context.Context, filter dto.RelatorioFilter) ([]dto.SessaoResponse, error) {
	sessoes, err := s.repo.Sessoes(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.SessaoResponse, 0, len(sessoes))
	for i := range sessoes {
		resp = append(resp, *sessaoToResponse(&sessoes[i]))
	}
	return resp, nil
}

func somasToResponse(somas []repository.SomaAgrupada) []dto.SomaAgrupadaResponse {
	resp := make([]dto.SomaAgrupadaResponse, 0, len(somas))
	for _, s := range somas {
		resp = append(resp, dto.SomaAgrupadaResponse{
			Chave:    s.Chave,
			Entradas: s.Entradas,
			Saidas:   s.Saidas,
			Saldo:    s.Entradas.Sub(s.Saidas),
		})
	}
	return resp
}
