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

// ReciboWorker renders the PDF receipt of a completed sale and, when the
// customer left an email, mails it. Rendering happens off the sale's hot
// path: the settlement transaction has long committed by the time this runs.
type ReciboWorker struct {
	vendaRepo   repository.VendaRepository
	mailer      *infra.Mailer
	smtpCB      *infra.CircuitBreaker
	storagePath string
}

func NewReciboWorker(vendaRepo repository.VendaRepository, mailer *infra.Mailer, smtpCB *infra.CircuitBreaker, storagePath string) *ReciboWorker {
	return &ReciboWorker{vendaRepo: vendaRepo, mailer: mailer, smtpCB: smtpCB, storagePath: storagePath}
}

func (w *ReciboWorker) Handle(ctx context.Context, payload json.RawMessage) error {
	var p ReciboPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("recibo: payload inválido: %w", err)
	}
	id, err := uuid.Parse(p.VendaID)
	if err != nil {
		return fmt.Errorf("recibo: venda_id inválido: %w", err)
	}

	venda, err := w.vendaRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("recibo: venda %s: %w", p.VendaID, err)
	}

	pdfPath, err := infra.GerarReciboPDF(venda, w.storagePath)
	if err != nil {
		return err
	}
	log.Info().Int64("numero", venda.Numero).Str("path", pdfPath).Msg("recibo PDF gerado")

	if p.ClienteEmail == "" {
		return nil
	}
	assunto := fmt.Sprintf("Recibo da compra #%d", venda.Numero)
	corpo := fmt.Sprintf("Obrigado pela compra! Segue em anexo o recibo #%d.", venda.Numero)
	return w.smtpCB.Execute(func() error {
		return w.mailer.Enviar(p.ClienteEmail, assunto, corpo, pdfPath)
	})
}
