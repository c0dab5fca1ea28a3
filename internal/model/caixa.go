package model

import (
	"time"

	"github.com/google/uuid"
)

// Caixa is a named till (physical or logical). Caixas are never hard-deleted:
// deactivation keeps historical sessions pointing at a valid register.
type Caixa struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"uniqueIndex;not null"`
	Descricao *string
	Ativo     bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides GORM's default pluralization for Portuguese names.
func (Caixa) TableName() string { return "caixas" }
