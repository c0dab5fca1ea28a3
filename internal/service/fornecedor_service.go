package service

import (
	"context"

	"bancapdv/internal/dto"
	"bancapdv/internal/model"
	"bancapdv/internal/repository"

	"github.com/google/uuid"
)

type FornecedorService interface {
	CriarFornecedor(ctx context.Context, req dto.CriarFornecedorRequest) (*dto.FornecedorResponse, error)
	ObterFornecedor(ctx context.Context, id uuid.UUID) (*dto.FornecedorResponse, error)
	ListarFornecedores(ctx context.Context, incluirInativos bool) ([]dto.FornecedorResponse, error)
	AtualizarFornecedor(ctx context.Context, id uuid.UUID, req dto.AtualizarFornecedorRequest) (*dto.FornecedorResponse, error)
	DesativarFornecedor(ctx context.Context, id uuid.UUID) error
	ReativarFornecedor(ctx context.Context, id uuid.UUID) error
}

type fornecedorService struct {
	repo repository.FornecedorRepository
}

func NewFornecedorService(repo repository.FornecedorRepository) FornecedorService {
	return &fornecedorService{repo: repo}
}

func (s *fornecedorService) CriarFornecedor(ctx context.Context, req dto.CriarFornecedorRequest) (*dto.FornecedorResponse, error) {
	f := &model.Fornecedor{
		RazaoSocial: req.RazaoSocial,
		CNPJ:        req.CNPJ,
		Telefone:    req.Telefone,
		Email:       req.Email,
		Endereco:    req.Endereco,
		Observacoes: req.Observacoes,
		Ativo:       true,
	}
	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	return fornecedorToResponse(f), nil
}

func (s *fornecedorService) ObterFornecedor(ctx context.Context, id uuid.UUID) (*dto.FornecedorResponse, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return fornecedorToResponse(f), nil
}

func (s *fornecedorService) ListarFornecedores(ctx context.Context, incluirInativos bool) ([]dto.FornecedorResponse, error) {
	fornecedores, err := s.repo.List(ctx, incluirInativos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.FornecedorResponse, 0, len(fornecedores))
	for i := range fornecedores {
		resp = append(resp, *fornecedorToResponse(&fornecedores[i]))
	}
	return resp, nil
}

// AtualizarFornecedor never changes the CNPJ: it identifies the supplier
// across historical purchase and expense records.
func (s *fornecedorService) AtualizarFornecedor(ctx context.Context, id uuid.UUID, req dto.AtualizarFornecedorRequest) (*dto.FornecedorResponse, error) {
	f, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RazaoSocial != nil {
		f.RazaoSocial = *req.RazaoSocial
	}
	if req.Telefone != nil {
		f.Telefone = req.Telefone
	}
	if req.Email != nil {
		f.Email = req.Email
	}
	if req.Endereco != nil {
		f.Endereco = req.Endereco
	}
	if req.Observacoes != nil {
		f.Observacoes = req.Observacoes
	}
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	return fornecedorToResponse(f), nil
}

func (s *fornecedorService) DesativarFornecedor(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetAtivo(ctx, id, false)
}

func (s *fornecedorService) ReativarFornecedor(ctx context.Context, id uuid.UUID) error {
	return s.repo.SetAtivo(ctx, id, true)
}

func fornecedorToResponse(f *model.Fornecedor) *dto.FornecedorResponse {
	return &dto.FornecedorResponse{
		ID:          f.ID.String(),
		RazaoSocial: f.RazaoSocial,
		CNPJ:        f.CNPJ,
		Telefone:    f.Telefone,
		Email:       f.Email,
		Endereco:    f.Endereco,
		Observacoes: f.Observacoes,
		Ativo:       f.Ativo,
		CreatedAt:   f.CreatedAt.Format(timeLayout),
	}
}
