package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Despesa is an operating expense (rent, supplier invoice, utilities).
// Paying a despesa out of the till goes through the cash ledger: the payment
// produces a saida/despesa MovimentacaoCaixa linked via MovimentacaoID.
type Despesa struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Descricao      string          `gorm:"not null"`
	Categoria      string          `gorm:"not null;default:'geral'"`
	Valor          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Vencimento     *time.Time
	Pago           bool       `gorm:"not null;default:false"`
	PagoEm         *time.Time
	FornecedorID   *uuid.UUID `gorm:"type:uuid;index"`
	MovimentacaoID *uuid.UUID `gorm:"type:uuid"`
	Observacoes    *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Fornecedor *Fornecedor `gorm:"foreignKey:FornecedorID"`
}

func (Despesa) TableName() string { return "despesas" }
