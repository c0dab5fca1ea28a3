package dto

import "github.com/shopspring/decimal"

type ProdutoFilter struct {
	Busca           string `form:"busca"`
	Categoria       string `form:"categoria"`
	IncluirInativos bool   `form:"incluir_inativos"`
	Page            int    `form:"page,default=1"   validate:"min=1"`
	Limit           int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CriarProdutoRequest struct {
	CodigoBarras  string          `json:"codigo_barras"  validate:"required,min=3"`
	Nome          string          `json:"nome"           validate:"required,min=2"`
	Descricao     *string         `json:"descricao"`
	Categoria     string          `json:"categoria"`
	PrecoCusto    decimal.Decimal `json:"preco_custo"    validate:"min=0"`
	PrecoVenda    decimal.Decimal `json:"preco_venda"    validate:"required"`
	EstoqueAtual  int             `json:"estoque_atual"  validate:"min=0"`
	EstoqueMinimo int             `json:"estoque_minimo" validate:"min=0"`
	FornecedorID  *string         `json:"fornecedor_id"  validate:"omitempty,uuid"`
}

type AtualizarProdutoRequest struct {
	Nome          *string          `json:"nome"           validate:"omitempty,min=2"`
	Descricao     *string          `json:"descricao"`
	Categoria     *string          `json:"categoria"`
	PrecoCusto    *decimal.Decimal `json:"preco_custo"`
	PrecoVenda    *decimal.Decimal `json:"preco_venda"`
	EstoqueMinimo *int             `json:"estoque_minimo" validate:"omitempty,min=0"`
	FornecedorID  *string          `json:"fornecedor_id"  validate:"omitempty,uuid"`
}

type AjustarEstoqueRequest struct {
	Quantidade int    `json:"quantidade" validate:"required"`
	Motivo     string `json:"motivo"     validate:"required,min=3"`
}

type ProdutoResponse struct {
	ID            string          `json:"id"`
	CodigoBarras  string          `json:"codigo_barras"`
	Nome          string          `json:"nome"`
	Descricao     *string         `json:"descricao"`
	Categoria     string          `json:"categoria"`
	PrecoCusto    decimal.Decimal `json:"preco_custo"`
	PrecoVenda    decimal.Decimal `json:"preco_venda"`
	EstoqueAtual  int             `json:"estoque_atual"`
	EstoqueMinimo int             `json:"estoque_minimo"`
	FornecedorID  *string         `json:"fornecedor_id"`
	Ativo         bool            `json:"ativo"`
	CreatedAt     string          `json:"created_at"`
}

type ProdutoListResponse struct {
	Data  []ProdutoResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ConsultaPrecoResponse is the redis-cached public price lookup payload.
type ConsultaPrecoResponse struct {
	Nome              string          `json:"nome"`
	PrecoVenda        decimal.Decimal `json:"preco_venda"`
	EstoqueDisponivel int             `json:"estoque_disponivel"`
	Categoria         string          `json:"categoria"`
}
