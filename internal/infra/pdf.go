package infra

// pdf.go — PDF generation using go-pdf/fpdf.
// Two documents come out of here:
//   - the customer receipt of a completed sale (thermal-paper sized)
//   - the closing report of a cash session, mailed to the manager
//
// Output files land under storagePath.

import (
	"fmt"
	"os"
	"path/filepath"

	"bancapdv/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GerarReciboPDF renders the receipt of a completed sale.
// Returns the absolute path of the generated file.
func GerarReciboPDF(venda *model.Venda, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("recibo_%d.pdf", venda.Numero)
	filePath := filepath.Join(storagePath, fileName)

	// 74mm × 105mm — close to thermal receipt paper
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8 // total margins = 8mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Banca PDV", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Recibo de Compra", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	// ── Sale info ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Venda Nº %d", venda.Numero), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venda.CreatedAt.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if venda.ClienteNome != nil && *venda.ClienteNome != "" {
		pdf.CellFormat(contentW, 4, "Cliente: "+*venda.ClienteNome, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Items ─────────────────────────────────────────────────────────────────
	col1 := contentW * 0.52 // product name
	col2 := contentW * 0.16 // qty
	col3 := contentW * 0.32 // subtotal

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Produto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Qtd", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range venda.Itens {
		nome := ""
		if item.Produto != nil {
			nome = item.Produto.Nome
		}
		if len(nome) > 22 {
			nome = nome[:21] + "…"
		}
		pdf.CellFormat(col1, 5, nome, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", item.Quantidade), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "R$ "+item.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	if !venda.Desconto.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Desconto:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, "-R$ "+venda.Desconto.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "R$ "+venda.Total.StringFixed(2), "", 1, "R", false, 0, "")

	// ── Payments ──────────────────────────────────────────────────────────────
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 7)
	for _, pag := range venda.Pagamentos {
		label := "Pagamento (" + pag.Forma + "):"
		pdf.CellFormat(col1+col2, 4, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "R$ "+pag.Valor.StringFixed(2), "", 1, "R", false, 0, "")
	}
	if venda.Troco.IsPositive() {
		pdf.CellFormat(col1+col2, 4, "Troco:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "R$ "+venda.Troco.StringFixed(2), "", 1, "R", false, 0, "")
	}

	// ── Footer ────────────────────────────────────────────────────────────────
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, "Obrigado pela preferência!", "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

// GerarRelatorioFechamentoPDF renders the closing report of a cash session:
// opening/closing figures, reconciliation result, and the full movement list.
func GerarRelatorioFechamentoPDF(sessao *model.SessaoCaixa, movs []model.MovimentacaoCaixa, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("fechamento_%s.pdf", sessao.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Relatório de Fechamento de Caixa", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 9)
	linha := func(label, valor string) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(55, 6, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(contentW-55, 6, valor, "", 1, "L", false, 0, "")
	}

	linha("Sessão:", sessao.ID.String())
	linha("Abertura:", sessao.DataAbertura.Format("02/01/2006 15:04"))
	if sessao.DataFechamento != nil {
		linha("Fechamento:", sessao.DataFechamento.Format("02/01/2006 15:04"))
	}
	linha("Fundo de troco:", "R$ "+sessao.ValorAbertura.StringFixed(2))
	linha("Total de vendas:", "R$ "+sessao.TotalVendas.StringFixed(2))
	linha("Total de entradas:", "R$ "+sessao.TotalEntradas.StringFixed(2))
	linha("Total de saídas:", "R$ "+sessao.TotalSaidas.StringFixed(2))
	if sessao.ValorEsperado != nil {
		linha("Valor esperado (dinheiro):", "R$ "+sessao.ValorEsperado.StringFixed(2))
	}
	if sessao.ValorFechamento != nil {
		linha("Valor contado:", "R$ "+sessao.ValorFechamento.StringFixed(2))
	}
	if sessao.Diferenca != nil {
		linha("Diferença:", "R$ "+sessao.Diferenca.StringFixed(2))
	}
	pdf.Ln(4)

	// ── Movement table ────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	cols := []float64{28, 18, 24, 24, 26, contentW - 120}
	headers := []string{"Hora", "Tipo", "Categoria", "Forma", "Valor", "Descrição"}
	for i, h := range headers {
		pdf.CellFormat(cols[i], 6, h, "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, m := range movs {
		valor := m.Valor
		if m.Tipo == "saida" {
			valor = valor.Neg()
		}
		descricao := m.Descricao
		if len(descricao) > 40 {
			descricao = descricao[:39] + "…"
		}
		pdf.CellFormat(cols[0], 5, m.CreatedAt.Format("02/01 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 5, m.Tipo, "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2], 5, m.Categoria, "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[3], 5, m.FormaPagamento, "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[4], 5, "R$ "+valor.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[5], 5, descricao, "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	saldo := sessao.TotalEntradas.Sub(sessao.TotalSaidas)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 6, "Saldo do período: R$ "+saldo.StringFixed(2), "", 1, "R", false, 0, "")

	if sessao.Diferenca != nil && !sessao.Diferenca.Equal(decimal.Zero) {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(180, 0, 0)
		pdf.CellFormat(contentW, 6, "ATENÇÃO: diferença de caixa registrada", "", 1, "R", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}
