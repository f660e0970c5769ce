// Package report exports audit records to the spreadsheet the legal team
// works from.
package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Micos01/analise-locacao/internal/model"
)

const sheetName = "Auditoria"

// headers in spreadsheet column order.
var headers = []string{
	"Arquivo",
	"Locador",
	"Locatário",
	"Status Assinatura",
	"Data Evidência",
	"Evidência",
	"Início Contrato",
	"Fim Contrato",
	"Aluguel Mensal",
	"Ação",
	"Justificativa",
	"Pilar Decisivo",
	"Recomendação Fiscal",
	"Custo Registro",
	"Memória de Cálculo",
	"Data Recuperada",
	"Método",
	"Auditado em",
}

// ExcelWriter writes audit records to an xlsx workbook. Rows are sorted
// by registration fee descending so the most expensive pending
// registrations surface first, matching how the legal team triages.
type ExcelWriter struct {
	path string
}

// NewExcelWriter creates a writer targeting path.
func NewExcelWriter(path string) *ExcelWriter {
	return &ExcelWriter{path: path}
}

// Write renders the records and saves the workbook, creating parent
// directories as needed.
func (w *ExcelWriter) Write(_ context.Context, records []model.AuditRecord) error {
	sorted := make([]model.AuditRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		fi, fj := feeValue(sorted[i]), feeValue(sorted[j])
		if fi != fj {
			return fi > fj
		}
		return sorted[i].Document.ID < sorted[j].Document.ID
	})

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	moneyFmt := `"R$" #,##0.00`
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return fmt.Errorf("failed to create money style: %w", err)
	}
	dateFmt := "dd/mm/yyyy"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	for i, rec := range sorted {
		row := i + 2
		values := []any{
			rec.Document.Name,
			rec.Facts.Landlord,
			rec.Facts.Tenant,
			string(rec.Facts.Signature),
			cellDate(rec.Facts.ProofDate),
			rec.Facts.Evidence,
			cellDate(rec.Facts.StartDate),
			cellDate(rec.Facts.EndDate),
			roundMoney(rec.Facts.MonthlyRent),
			string(rec.Decision.Action),
			rec.Decision.Rationale,
			string(rec.Decision.Pillar),
			string(rec.Decision.Advice),
			cellFee(rec.Decision.Fee),
			rec.Facts.Memo,
			cellBool(rec.Facts.AutoCorrected),
			rec.Method,
			rec.DecidedAt,
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
		}
	}

	if len(sorted) > 0 {
		last := len(sorted) + 1
		for _, col := range []string{"E", "G", "H", "R"} {
			if err := f.SetCellStyle(sheetName, col+"2", fmt.Sprintf("%s%d", col, last), dateStyle); err != nil {
				return fmt.Errorf("failed to style date column: %w", err)
			}
		}
		for _, col := range []string{"I", "N"} {
			if err := f.SetCellStyle(sheetName, col+"2", fmt.Sprintf("%s%d", col, last), moneyStyle); err != nil {
				return fmt.Errorf("failed to style money column: %w", err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func feeValue(rec model.AuditRecord) float64 {
	if rec.Decision.Fee == nil {
		return -1
	}
	return *rec.Decision.Fee
}

func cellDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func cellFee(fee *float64) any {
	if fee == nil {
		return nil
	}
	return roundMoney(*fee)
}

func cellBool(b bool) string {
	if b {
		return "SIM"
	}
	return ""
}

// roundMoney normalizes amounts to two decimal places before they reach
// the sheet, so formatting never hides residue from float arithmetic.
func roundMoney(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
