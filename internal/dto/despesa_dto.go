package dto

import "github.com/shopspring/decimal"

type DespesaFilter struct {
	Categoria string `form:"categoria"`
	Pago      *bool  `form:"pago"`
	Inicio    string `form:"inicio"` // YYYY-MM-DD
	Fim       string `form:"fim"`
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CriarDespesaRequest struct {
	Descricao    string          `json:"descricao"     validate:"required,min=3"`
	Categoria    string          `json:"categoria"`
	Valor        decimal.Decimal `json:"valor"         validate:"required"`
	Vencimento   *string         `json:"vencimento"    validate:"omitempty,datetime=2006-01-02"`
	FornecedorID *string         `json:"fornecedor_id" validate:"omitempty,uuid"`
	Observacoes  *string         `json:"observacoes"`
}

// PagarDespesaRequest settles a despesa. Origem "caixa" routes the payment
// through the cash ledger: a saida/despesa movement is recorded against the
// given open session. Origem "externa" only marks the despesa as paid.
type PagarDespesaRequest struct {
	Origem         string  `json:"origem"          validate:"required,oneof=caixa externa"`
	SessaoID       *string `json:"sessao_id"       validate:"omitempty,uuid"`
	FormaPagamento string  `json:"forma_pagamento" validate:"required,oneof=dinheiro debito credito pix"`
}

type DespesaResponse struct {
	ID             string          `json:"id"`
	Descricao      string          `json:"descricao"`
	Categoria      string          `json:"categoria"`
	Valor          decimal.Decimal `json:"valor"`
	Vencimento     *string         `json:"vencimento"`
	Pago           bool            `json:"pago"`
	PagoEm         *string         `json:"pago_em"`
	FornecedorID   *string         `json:"fornecedor_id"`
	MovimentacaoID *string         `json:"movimentacao_id"`
	Observacoes    *string         `json:"observacoes"`
	CreatedAt      string          `json:"created_at"`
}

type DespesaListResponse struct {
	Data  []DespesaResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
