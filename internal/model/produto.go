package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Produto is a catalog item sold at the banca.
type Produto struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoBarras  string    `gorm:"uniqueIndex;not null"`
	Nome          string    `gorm:"index;not null"`
	Descricao     *string
	Categoria     string          `gorm:"not null;default:'geral'"`
	PrecoCusto    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecoVenda    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	EstoqueAtual  int             `gorm:"not null;default:0"`
	EstoqueMinimo int             `gorm:"not null;default:3"`
	FornecedorID  *uuid.UUID      `gorm:"type:uuid;index"`
	Ativo         bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Fornecedor *Fornecedor `gorm:"foreignKey:FornecedorID"`
}

func (Produto) TableName() string { return "produtos" }
