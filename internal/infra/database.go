package infra

import (
	"fmt"

	"bancapdv/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches GORM
// cannot express (partial unique index, the sale number sequence).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus the schema patches. Also used by
// integration tests against a throwaway database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Caixa{},
		&model.SessaoCaixa{},
		&model.MovimentacaoCaixa{},
		&model.Fornecedor{},
		&model.Produto{},
		&model.Venda{},
		&model.VendaItem{},
		&model.VendaPagamento{},
		&model.Despesa{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot produce.
// Each statement is guarded by an existence check so re-running on an
// already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// One open session per register. The partial unique index makes the
		// invariant hold at the storage layer: of two concurrent opens for the
		// same caixa, exactly one insert commits.
		{"partial unique index on open sessions", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uniq_sessoes_caixa_aberta') THEN
    CREATE UNIQUE INDEX uniq_sessoes_caixa_aberta
        ON sessoes_caixa (caixa_id)
        WHERE status = 'aberta';
  END IF;
END $$`},

		// Gap-tolerant monotonic sale numbers come from a sequence, not from
		// MAX(numero)+1.
		{"sale number sequence", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_class WHERE relkind = 'S' AND relname = 'vendas_numero_seq') THEN
    CREATE SEQUENCE vendas_numero_seq START WITH 1 INCREMENT BY 1;
  END IF;
END $$`},

		// Ledger query paths: per-session listing and the per-form balance
		// aggregation used at close time.
		{"movement session index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimentacoes_sessao') THEN
    CREATE INDEX idx_movimentacoes_sessao
        ON movimentacoes_caixa (sessao_id, created_at);
  END IF;
END $$`},
		{"movement period index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimentacoes_periodo') THEN
    CREATE INDEX idx_movimentacoes_periodo
        ON movimentacoes_caixa (created_at);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
