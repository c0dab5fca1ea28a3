package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"bancapdv/internal/infra"
	"bancapdv/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// FechamentoWorker renders the closing report of a just-closed session and
// mails it to the store manager. The session is already closed and its totals
// immutable, so this is a pure read of the ledger.
type FechamentoWorker struct {
	caixaRepo    repository.CaixaRepository
	mailer       *infra.Mailer
	smtpCB       *infra.CircuitBreaker
	storagePath  string
	gerenteEmail string
}

func NewFechamentoWorker(caixaRepo repository.CaixaRepository, mailer *infra.Mailer, smtpCB *infra.CircuitBreaker, storagePath, gerenteEmail string) *FechamentoWorker {
	return &FechamentoWorker{
		caixaRepo:    caixaRepo,
		mailer:       mailer,
		smtpCB:       smtpCB,
		storagePath:  storagePath,
		gerenteEmail: gerenteEmail,
	}
}

func (w *FechamentoWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var p FechamentoPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("fechamento: payload inválido: %w", err)
	}
	id, err := uuid.Parse(p.SessaoID)
	if err != nil {
		return fmt.Errorf("fechamento: sessao_id inválido: %w", err)
	}

	sessao, err := w.caixaRepo.FindSessaoByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fechamento: sessão %s: %w", p.SessaoID, err)
	}
	movs, err := w.caixaRepo.ListMovimentacoes(ctx, id)
	if err != nil {
		return err
	}

	pdfPath, err := infra.GerarRelatorioFechamentoPDF(sessao, movs, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Str("sessao_id", p.SessaoID).Str("path", pdfPath).Msg("relatório de fechamento gerado")

	if w.gerenteEmail == "" {
		return nil
	}
	assunto := "Fechamento de caixa — " + sessao.DataAbertura.Format("02/01/2006")
	corpo := "Segue em anexo o relatório de fechamento da sessão de caixa."
	return w.smtpCB.Execute(func() error {
		return w.mailer.Enviar(w.gerenteEmail, assunto, corpo, pdfPath)
	})
}
