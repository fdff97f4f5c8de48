package export

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"receiptcheck/constants"
	"receiptcheck/internal/entity"
	"receiptcheck/internal/repository"
)

type stubReceiptRepo struct {
	records []repository.ReceiptRecord
}

func (s *stubReceiptRepo) SaveResult(ctx context.Context, result *entity.ValidationResult) (uuid.UUID, error) {
	return uuid.Nil, nil
}

func (s *stubReceiptRepo) ListResults(ctx context.Context, limit int) ([]repository.ReceiptRecord, error) {
	return s.records, nil
}

func TestExportResultsXLSX(t *testing.T) {
	amount := 1500.0
	payee := "79879335515"
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	repo := &stubReceiptRepo{records: []repository.ReceiptRecord{
		{
			ID:          uuid.New(),
			Amount:      &amount,
			Payee:       &payee,
			PayeeKind:   constants.PayeePhone,
			Date:        &date,
			Confidence:  80,
			IsValid:     true,
			MatchedRule: "configured-values/phone",
			Score:       91.5,
			Message:     "✅ ok",
			CreatedAt:   time.Date(2024, 2, 1, 12, 30, 0, 0, time.UTC),
		},
	}}

	svc := NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	data, err := svc.ExportResultsXLSX(context.Background(), 0)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty workbook")
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	const sheet = "Results"
	if got, _ := f.GetCellValue(sheet, "A1"); got != "Checked At" {
		t.Errorf("A1 = %q, want header", got)
	}
	if got, _ := f.GetCellValue(sheet, "C2"); got != "1500.00" {
		t.Errorf("C2 = %q, want 1500.00", got)
	}
	if got, _ := f.GetCellValue(sheet, "D2"); got != payee {
		t.Errorf("D2 = %q, want %q", got, payee)
	}
	if got, _ := f.GetCellValue(sheet, "F2"); got != "yes" {
		t.Errorf("F2 = %q, want yes", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate kept = %q", got)
	}
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Errorf("truncate cut = %q", got)
	}
}
