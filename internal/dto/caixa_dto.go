package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CriarCaixaRequest struct {
	Nome      string  `json:"nome"      validate:"required,min=2"`
	Descricao *string `json:"descricao"`
}

type AbrirSessaoRequest struct {
	CaixaID       string          `json:"caixa_id"       validate:"required,uuid"`
	ValorAbertura decimal.Decimal `json:"valor_abertura" validate:"min=0"`
	Observacoes   *string         `json:"observacoes"`
}

type FecharSessaoRequest struct {
	SessaoID     string          `json:"sessao_id"     validate:"required,uuid"`
	ValorContado decimal.Decimal `json:"valor_contado" validate:"min=0"`
	Observacoes  *string         `json:"observacoes"`
}

type MovimentacaoManualRequest struct {
	CaixaID        string          `json:"caixa_id"        validate:"required,uuid"`
	SessaoID       *string         `json:"sessao_id"       validate:"omitempty,uuid"`
	Tipo           string          `json:"tipo"            validate:"required,oneof=entrada saida"`
	Categoria      string          `json:"categoria"       validate:"required,oneof=despesa receita sangria suprimento"`
	FormaPagamento string          `json:"forma_pagamento" validate:"required,oneof=dinheiro debito credito pix"`
	Valor          decimal.Decimal `json:"valor"           validate:"required"`
	Descricao      string          `json:"descricao"       validate:"required,min=3"`
	Observacoes    *string         `json:"observacoes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CaixaResponse struct {
	ID        string  `json:"id"`
	Nome      string  `json:"nome"`
	Descricao *string `json:"descricao"`
	Ativo     bool    `json:"ativo"`
	CreatedAt string  `json:"created_at"`
}

type SessaoResponse struct {
	ID              string           `json:"id"`
	CaixaID         string           `json:"caixa_id"`
	UsuarioID       string           `json:"usuario_id"`
	ValorAbertura   decimal.Decimal  `json:"valor_abertura"`
	ValorFechamento *decimal.Decimal `json:"valor_fechamento"`
	ValorEsperado   *decimal.Decimal `json:"valor_esperado"`
	Diferenca       *decimal.Decimal `json:"diferenca"`
	TotalVendas     decimal.Decimal  `json:"total_vendas"`
	TotalEntradas   decimal.Decimal  `json:"total_entradas"`
	TotalSaidas     decimal.Decimal  `json:"total_saidas"`
	Status          string           `json:"status"`
	// Observacoes is the opening note; the close records its own.
	Observacoes           *string `json:"observacoes"`
	ObservacoesFechamento *string `json:"observacoes_fechamento"`
	DataAbertura          string  `json:"data_abertura"`
	DataFechamento        *string `json:"data_fechamento"`
}

// FechamentoResponse reports the reconciliation outcome. A nonzero Diferenca
// never blocks the close — it is recorded and surfaced, nothing more.
type FechamentoResponse struct {
	Sessao        SessaoResponse  `json:"sessao"`
	ValorEsperado decimal.Decimal `json:"valor_esperado"`
	ValorContado  decimal.Decimal `json:"valor_contado"`
	Diferenca     decimal.Decimal `json:"diferenca"`
}

type MovimentacaoResponse struct {
	ID             string          `json:"id"`
	CaixaID        string          `json:"caixa_id"`
	SessaoID       *string         `json:"sessao_id"`
	Tipo           string          `json:"tipo"`
	Categoria      string          `json:"categoria"`
	Valor          decimal.Decimal `json:"valor"`
	FormaPagamento string          `json:"forma_pagamento"`
	Descricao      string          `json:"descricao"`
	VendaID        *string         `json:"venda_id"`
	UsuarioID      string          `json:"usuario_id"`
	CreatedAt      string          `json:"created_at"`
}

type SessaoListResponse struct {
	Data  []SessaoResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
