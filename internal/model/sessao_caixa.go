package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SessaoCaixa represents one open-to-close period of a Caixa operated by one user.
// Status: "aberta" | "fechada"
//
// At most one session with status "aberta" may exist per caixa at any time;
// the constraint lives in a partial unique index (see infra.applySchemaPatches)
// so that two terminals racing to open the same register cannot both succeed.
type SessaoCaixa struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaixaID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	UsuarioID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ValorAbertura decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// ValorFechamento is the physically counted amount declared at close.
	ValorFechamento *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// ValorEsperado at close: ValorAbertura + entradas(dinheiro) − saidas(dinheiro).
	// Non-cash instruments are excluded from the physical reconciliation.
	ValorEsperado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Diferenca     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Running totals — updated only via atomic SQL increments, never read-modify-write.
	TotalVendas   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalEntradas decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalSaidas   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Status string `gorm:"type:varchar(20);not null;default:'aberta'"`
	// Observacoes is the opening note; the close writes its own column so a
	// close without a note never erases what was recorded at open.
	Observacoes           *string
	ObservacoesFechamento *string
	DataAbertura          time.Time
	DataFechamento        *time.Time

	Caixa         *Caixa              `gorm:"foreignKey:CaixaID"`
	Movimentacoes []MovimentacaoCaixa `gorm:"foreignKey:SessaoID"`
}

func (SessaoCaixa) TableName() string { return "sessoes_caixa" }

// MovimentacaoCaixa is one immutable entry in the cash ledger: a sale payment,
// a manual entry/exit, the opening float, or the closing settlement.
// Tipo: "entrada" | "saida"
// Categoria: "venda" | "despesa" | "receita" | "sangria" | "suprimento" |
//            "abertura" | "fechamento"
// FormaPagamento: "dinheiro" | "debito" | "credito" | "pix"
// Movements are NEVER updated or deleted — corrections are offsetting rows.
type MovimentacaoCaixa struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CaixaID uuid.UUID `gorm:"type:uuid;not null;index"`
	// SessaoID is optional: historical/manual corrections may be recorded after
	// the originating session closed. When present, the session must be open at
	// insert time.
	SessaoID       *uuid.UUID      `gorm:"type:uuid;index"`
	Tipo           string          `gorm:"type:varchar(10);not null"`
	Categoria      string          `gorm:"type:varchar(20);not null;index"`
	Valor          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FormaPagamento string          `gorm:"type:varchar(20);not null"`
	Descricao      string          `gorm:"not null"`
	// VendaID links sale-payment movements back to the originating Venda.
	VendaID     *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID   uuid.UUID  `gorm:"type:uuid;not null"`
	Observacoes *string
	CreatedAt   time.Time

	Sessao *SessaoCaixa `gorm:"foreignKey:SessaoID"`
}

func (MovimentacaoCaixa) TableName() string { return "movimentacoes_caixa" }
