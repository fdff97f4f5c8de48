package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"receiptcheck/internal/repository"
)

// Service is a tiny façade over the receipts repository that produces
// XLSX bytes for exports.
type Service struct {
	receiptsRepo repository.ReceiptRepository
	logger       *slog.Logger
}

func NewService(repo repository.ReceiptRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{receiptsRepo: repo, logger: logger}
}

// ExportResultsXLSX returns an XLSX workbook (as bytes) with the most
// recent validation results, newest first. limit <= 0 exports everything
// the repository returns by default.
func (s *Service) ExportResultsXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	recs, err := s.receiptsRepo.ListResults(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Results"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if defIndex, _ := f.GetSheetIndex("Sheet1"); defIndex != -1 && defIndex != activeIndex {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Checked At",
		"Receipt Date",
		"Amount",
		"Payee",
		"Payee Kind",
		"Valid",
		"Matched Rule",
		"Score",
		"OCR Confidence",
		"Message",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		if !r.CreatedAt.IsZero() {
			write(1, r.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		if r.Date != nil {
			write(2, r.Date.Format("2006-01-02"))
		}
		if r.Amount != nil {
			write(3, fmt.Sprintf("%.2f", *r.Amount))
		}
		if r.Payee != nil {
			write(4, *r.Payee)
		}
		write(5, string(r.PayeeKind))
		if r.IsValid {
			write(6, "yes")
		} else {
			write(6, "no")
		}
		write(7, r.MatchedRule)
		write(8, fmt.Sprintf("%.1f", r.Score))
		write(9, fmt.Sprintf("%.1f", r.Confidence))
		write(10, truncate(r.Message, 200))

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 20)
	_ = f.SetColWidth(sheet, "B", "B", 14)
	_ = f.SetColWidth(sheet, "C", "C", 12)
	_ = f.SetColWidth(sheet, "D", "D", 24)
	_ = f.SetColWidth(sheet, "E", "E", 14)
	_ = f.SetColWidth(sheet, "F", "H", 12)
	_ = f.SetColWidth(sheet, "I", "I", 16)
	_ = f.SetColWidth(sheet, "J", "J", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
