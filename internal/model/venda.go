package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Venda is a completed sale. Estado: "concluida" | "cancelada".
// Numero comes from the vendas_numero_seq postgres sequence: strictly
// increasing, never reused — a cancelled sale keeps its number forever.
type Venda struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Numero       int64     `gorm:"uniqueIndex;not null"`
	CaixaID      uuid.UUID `gorm:"type:uuid;not null;index"`
	SessaoID     uuid.UUID `gorm:"type:uuid;not null;index"`
	UsuarioID    uuid.UUID `gorm:"type:uuid;not null"`
	ClienteNome  *string
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Desconto     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Troco        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'concluida'"`
	CreatedAt    time.Time

	Itens      []VendaItem      `gorm:"foreignKey:VendaID"`
	Pagamentos []VendaPagamento `gorm:"foreignKey:VendaID"`
	Usuario    *Usuario         `gorm:"foreignKey:UsuarioID"`
}

func (Venda) TableName() string { return "vendas" }

// VendaItem is one sale line. Subtotal = PrecoUnitario*Quantidade − Desconto.
type VendaItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProdutoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Quantidade    int             `gorm:"not null"`
	PrecoUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Desconto      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Produto *Produto `gorm:"foreignKey:ProdutoID"`
}

func (VendaItem) TableName() string { return "venda_itens" }

// VendaPagamento is one payment instrument used in a sale.
// Forma: "dinheiro" | "debito" | "credito" | "pix"
type VendaPagamento struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VendaID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Forma    string          `gorm:"type:varchar(20);not null"`
	Valor    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Parcelas int             `gorm:"not null;default:1"`
}

func (VendaPagamento) TableName() string { return "venda_pagamentos" }
