package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VendaFilter is bound from the query string of GET /v1/vendas.
type VendaFilter struct {
	Data    string `form:"data"`                     // YYYY-MM-DD; empty = today
	Estado  string `form:"estado,default=concluida"` // concluida | cancelada | all
	CaixaID string `form:"caixa_id"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVendaRequest struct {
	ProdutoID  string          `json:"produto_id" validate:"required,uuid"`
	Quantidade int             `json:"quantidade" validate:"required,min=1"`
	Desconto   decimal.Decimal `json:"desconto"   validate:"min=0"`
}

type PagamentoRequest struct {
	Forma    string          `json:"forma"    validate:"required,oneof=dinheiro debito credito pix"`
	Valor    decimal.Decimal `json:"valor"    validate:"required"`
	Parcelas int             `json:"parcelas" validate:"omitempty,min=1,max=12"`
}

type RegistrarVendaRequest struct {
	CaixaID     string             `json:"caixa_id"     validate:"required,uuid"`
	Itens       []ItemVendaRequest `json:"itens"        validate:"required,min=1,dive"`
	Pagamentos  []PagamentoRequest `json:"pagamentos"   validate:"required,min=1,dive"`
	Desconto    decimal.Decimal    `json:"desconto"     validate:"min=0"`
	// Total is recomputed server-side from catalog prices; a mismatch rejects
	// the sale (client-side tampering defense).
	Total       decimal.Decimal `json:"total"         validate:"required"`
	ClienteNome *string         `json:"cliente_nome"`
	// ClienteEmail: when present, the worker mails the PDF receipt.
	ClienteEmail *string `json:"cliente_email" validate:"omitempty,email"`
}

type CancelarVendaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVendaResponse struct {
	Produto       string          `json:"produto"`
	Quantidade    int             `json:"quantidade"`
	PrecoUnitario decimal.Decimal `json:"preco_unitario"`
	Desconto      decimal.Decimal `json:"desconto"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

type VendaResponse struct {
	ID          string              `json:"id"`
	Numero      int64               `json:"numero"`
	CaixaID     string              `json:"caixa_id"`
	SessaoID    string              `json:"sessao_id"`
	Itens       []ItemVendaResponse `json:"itens"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	Desconto    decimal.Decimal     `json:"desconto"`
	Total       decimal.Decimal     `json:"total"`
	Pagamentos  []PagamentoRequest  `json:"pagamentos"`
	Troco       decimal.Decimal     `json:"troco"`
	Estado      string              `json:"estado"`
	ClienteNome *string             `json:"cliente_nome"`
	CreatedAt   string              `json:"created_at"`
}

type VendaListResponse struct {
	Data  []VendaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
