package dto

import "github.com/shopspring/decimal"

// RelatorioFilter is bound from the query string of the report endpoints.
// All dimensions combine: period × caixa × categoria × forma de pagamento.
type RelatorioFilter struct {
	Inicio         string `form:"inicio" validate:"omitempty,datetime=2006-01-02"`
	Fim            string `form:"fim"    validate:"omitempty,datetime=2006-01-02"`
	CaixaID        string `form:"caixa_id"        validate:"omitempty,uuid"`
	SessaoID       string `form:"sessao_id"       validate:"omitempty,uuid"`
	Categoria      string `form:"categoria"       validate:"omitempty,oneof=venda despesa receita sangria suprimento abertura fechamento"`
	FormaPagamento string `form:"forma_pagamento" validate:"omitempty,oneof=dinheiro debito credito pix"`
}

type SomaAgrupadaResponse struct {
	Chave    string          `json:"chave"`
	Entradas decimal.Decimal `json:"entradas"`
	Saidas   decimal.Decimal `json:"saidas"`
	Saldo    decimal.Decimal `json:"saldo"`
}

type ResumoPeriodoResponse struct {
	TotalEntradas decimal.Decimal        `json:"total_entradas"`
	TotalSaidas   decimal.Decimal        `json:"total_saidas"`
	Saldo         decimal.Decimal        `json:"saldo"`
	PorCategoria  []SomaAgrupadaResponse `json:"por_categoria"`
	PorForma      []SomaAgrupadaResponse `json:"por_forma"`
}
