package repository

import (
	"context"
	"errors"

	"bancapdv/internal/apperr"
	"bancapdv/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// FechamentoSessao carries the counted amount and closing note persisted by
// FecharSessaoTx. The reconciliation figures (esperado, diferenca) are written
// separately by ReconciliarSessaoTx after the ledger is summed inside the
// closing transaction.
type FechamentoSessao struct {
	ValorFechamento decimal.Decimal
	Observacoes     *string
}

// CaixaRepository is the ledger store for caixas, sessões and movimentações.
// Movimentações are append-only: the interface deliberately exposes no update
// or delete for them — corrections are new offsetting rows.
type CaixaRepository interface {
	DB() *gorm.DB

	CreateCaixa(ctx context.Context, c *model.Caixa) error
	FindCaixaByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error)
	ListCaixas(ctx context.Context, incluirInativos bool) ([]model.Caixa, error)
	UpdateCaixa(ctx context.Context, c *model.Caixa) error

	CreateSessaoTx(tx *gorm.DB, s *model.SessaoCaixa) error
	FindSessaoByID(ctx context.Context, id uuid.UUID) (*model.SessaoCaixa, error)
	FindSessaoAbertaPorCaixa(ctx context.Context, caixaID uuid.UUID) (*model.SessaoCaixa, error)
	FindSessaoAbertaPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.SessaoCaixa, error)
	FecharSessaoTx(tx *gorm.DB, sessaoID uuid.UUID, f FechamentoSessao) error
	ReconciliarSessaoTx(tx *gorm.DB, sessaoID uuid.UUID, esperado, diferenca decimal.Decimal) error
	ListSessoes(ctx context.Context, caixaID *uuid.UUID, page, limit int) ([]model.SessaoCaixa, int64, error)

	CreateMovimentacaoTx(tx *gorm.DB, m *model.MovimentacaoCaixa) error
	ListMovimentacoes(ctx context.Context, sessaoID uuid.UUID) ([]model.MovimentacaoCaixa, error)
	IncrementarTotaisTx(tx *gorm.DB, sessaoID uuid.UUID, dEntradas, dSaidas, dVendas decimal.Decimal) error
	SaldoPorFormaTx(tx *gorm.DB, sessaoID uuid.UUID) (map[string]decimal.Decimal, error)
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) DB() *gorm.DB { return r.db }

// ── Caixas ───────────────────────────────────────────────────────────────────

func (r *caixaRepo) CreateCaixa(ctx context.Context, c *model.Caixa) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *caixaRepo) FindCaixaByID(ctx context.Context, id uuid.UUID) (*model.Caixa, error) {
	var c model.Caixa
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrRegistroNaoEncontrado
		}
		return nil, err
	}
	return &c, nil
}

func (r *caixaRepo) ListCaixas(ctx context.Context, incluirInativos bool) ([]model.Caixa, error) {
	var caixas []model.Caixa
	q := r.db.WithContext(ctx).Order("nome ASC")
	if !incluirInativos {
		q = q.Where("ativo = true")
	}
	return caixas, q.Find(&caixas).Error
}

func (r *caixaRepo) UpdateCaixa(ctx context.Context, c *model.Caixa) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// ── Sessões ──────────────────────────────────────────────────────────────────

// CreateSessaoTx inserts a new open session. The one-open-session-per-caixa
// invariant is enforced by the partial unique index uniq_sessoes_caixa_aberta;
// a concurrent open loses the race at the database and surfaces here as
// apperr.ErrSessaoJaAberta.
func (r *caixaRepo) CreateSessaoTx(tx *gorm.DB, s *model.SessaoCaixa) error {
	if err := tx.Create(s).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return apperr.ErrSessaoJaAberta
		}
		return err
	}
	return nil
}

func (r *caixaRepo) FindSessaoByID(ctx context.Context, id uuid.UUID) (*model.SessaoCaixa, error) {
	var s model.SessaoCaixa
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrSessaoNaoEncontrada
		}
		return nil, err
	}
	return &s, nil
}

func (r *caixaRepo) FindSessaoAbertaPorCaixa(ctx context.Context, caixaID uuid.UUID) (*model.SessaoCaixa, error) {
	return r.findSessaoAberta(ctx, "caixa_id = ?", caixaID)
}

func (r *caixaRepo) FindSessaoAbertaPorUsuario(ctx context.Context, usuarioID uuid.UUID) (*model.SessaoCaixa, error) {
	return r.findSessaoAberta(ctx, "usuario_id = ?", usuarioID)
}

// findSessaoAberta returns (nil, nil) when no open session matches — absence
// is an answer here, not an error.
func (r *caixaRepo) findSessaoAberta(ctx context.Context, cond string, arg interface{}) (*model.SessaoCaixa, error) {
	var s model.SessaoCaixa
	err := r.db.WithContext(ctx).Where(cond, arg).Where("status = 'aberta'").First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// FecharSessaoTx flips aberta → fechada exactly once. The status guard in the
// WHERE clause makes two concurrent closes serialize: the loser updates zero
// rows and gets apperr.ErrSessaoJaFechada. The UPDATE's row lock also holds
// off concurrent IncrementarTotaisTx callers, so the ledger the closing
// transaction sums afterwards is final. The closing note goes to its own
// column; the opening note is never touched here.
func (r *caixaRepo) FecharSessaoTx(tx *gorm.DB, sessaoID uuid.UUID, f FechamentoSessao) error {
	res := tx.Model(&model.SessaoCaixa{}).
		Where("id = ? AND status = 'aberta'", sessaoID).
		Updates(map[string]interface{}{
			"status":                 "fechada",
			"valor_fechamento":       f.ValorFechamento,
			"observacoes_fechamento": f.Observacoes,
			"data_fechamento":        gorm.Expr("now()"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrSessaoJaFechada
	}
	return nil
}

// ReconciliarSessaoTx persists the reconciliation snapshot computed from the
// ledger inside the closing transaction, after FecharSessaoTx sealed the
// session against further movements.
func (r *caixaRepo) ReconciliarSessaoTx(tx *gorm.DB, sessaoID uuid.UUID, esperado, diferenca decimal.Decimal) error {
	return tx.Model(&model.SessaoCaixa{}).
		Where("id = ?", sessaoID).
		Updates(map[string]interface{}{
			"valor_esperado": esperado,
			"diferenca":      diferenca,
		}).Error
}

func (r *caixaRepo) ListSessoes(ctx context.Context, caixaID *uuid.UUID, page, limit int) ([]model.SessaoCaixa, int64, error) {
	var sessoes []model.SessaoCaixa
	var total int64

	q := r.db.WithContext(ctx).Model(&model.SessaoCaixa{})
	if caixaID != nil {
		q = q.Where("caixa_id = ?", *caixaID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("data_abertura DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&sessoes).Error
	return sessoes, total, err
}

// ── Movimentações ────────────────────────────────────────────────────────────

func (r *caixaRepo) CreateMovimentacaoTx(tx *gorm.DB, m *model.MovimentacaoCaixa) error {
	return tx.Create(m).Error
}

func (r *caixaRepo) ListMovimentacoes(ctx context.Context, sessaoID uuid.UUID) ([]model.MovimentacaoCaixa, error) {
	var movs []model.MovimentacaoCaixa
	err := r.db.WithContext(ctx).
		Where("sessao_id = ?", sessaoID).
		Order("created_at ASC").
		Find(&movs).Error
	return movs, err
}

// IncrementarTotaisTx folds a movement into the session's running totals with
// a single SQL-level increment, so concurrent recorders never lose updates.
// The status guard rejects movements racing against a concurrent close:
// zero rows updated means the session closed underneath us and the enclosing
// transaction must roll back.
func (r *caixaRepo) IncrementarTotaisTx(tx *gorm.DB, sessaoID uuid.UUID, dEntradas, dSaidas, dVendas decimal.Decimal) error {
	res := tx.Exec(`
		UPDATE sessoes_caixa
		   SET total_entradas = total_entradas + ?,
		       total_saidas   = total_saidas   + ?,
		       total_vendas   = total_vendas   + ?
		 WHERE id = ? AND status = 'aberta'`,
		dEntradas, dSaidas, dVendas, sessaoID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrSessaoFechada
	}
	return nil
}

// SaldoPorFormaTx nets the session's ledger per payment instrument
// (entradas minus saidas). The closing reconciliation reads the "dinheiro"
// bucket inside the closing transaction, after the status flip, so the sum is
// exact and reproducible from stored movement rows alone.
func (r *caixaRepo) SaldoPorFormaTx(tx *gorm.DB, sessaoID uuid.UUID) (map[string]decimal.Decimal, error) {
	type linha struct {
		FormaPagamento string
		Saldo          decimal.Decimal
	}
	var linhas []linha
	err := tx.Model(&model.MovimentacaoCaixa{}).
		Select(`forma_pagamento, COALESCE(SUM(CASE WHEN tipo = 'entrada' THEN valor ELSE -valor END), 0) AS saldo`).
		Where("sessao_id = ?", sessaoID).
		Group("forma_pagamento").
		Scan(&linhas).Error
	if err != nil {
		return nil, err
	}
	saldos := make(map[string]decimal.Decimal, len(linhas))
	for _, l := range linhas {
		saldos[l.FormaPagamento] = l.Saldo
	}
	return saldos, nil
}
