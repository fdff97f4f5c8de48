package parser

import (
	"io"
	"log/slog"
	"testing"

	"receiptcheck/constants"
)

func testParser(t *testing.T) *Parser {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(DefaultConfig(), logger)
}

func TestExtractAmountKeyword(t *testing.T) {
	p := testParser(t)
	cases := []struct {
		text string
		want float64
	}{
		{"Сумма: 1500 руб", 1500},
		{"Итого: 2 500,50", 2500.50},
		{"К оплате 350.00", 350},
		{"Перевод 1500 руб выполнен", 1500},
	}
	for _, tc := range cases {
		parsed := p.ParseReceipt(tc.text, 90)
		if parsed.Amount == nil {
			t.Fatalf("ParseReceipt(%q): amount not found", tc.text)
		}
		if *parsed.Amount != tc.want {
			t.Errorf("ParseReceipt(%q): amount = %v, want %v", tc.text, *parsed.Amount, tc.want)
		}
	}
}

func TestExtractAmountCurrencySuffix(t *testing.T) {
	p := testParser(t)
	parsed := p.ParseReceipt("Оплачено 750 руб в 12:00", 90)
	if parsed.Amount == nil || *parsed.Amount != 750 {
		t.Fatalf("amount = %v, want 750", parsed.Amount)
	}
}

func TestExtractAmountExchangeRateExcluded(t *testing.T) {
	p := testParser(t)
	parsed := p.ParseReceipt("Курс: 1500 руб за 1 EUR", 90)
	if parsed.Amount != nil {
		t.Fatalf("exchange-rate amount should be excluded, got %v", *parsed.Amount)
	}
}

func TestExtractAmountBareDecimal(t *testing.T) {
	p := testParser(t)
	parsed := p.ParseReceipt("Оплата услуг 350.00", 90)
	if parsed.Amount == nil || *parsed.Amount != 350 {
		t.Fatalf("amount = %v, want 350", parsed.Amount)
	}
}

func TestBareDecimalInsideDateNotAmount(t *testing.T) {
	p := testParser(t)
	parsed := p.ParseReceipt("Дата операции 01.02.2024 12:30", 90)
	if parsed.Amount != nil {
		t.Fatalf("date fragment misread as amount: %v", *parsed.Amount)
	}
	if parsed.Date == nil {
		t.Fatal("date not found")
	}
	if got := parsed.Date.Format("2006-01-02"); got != "2024-02-01" {
		t.Errorf("date = %s, want 2024-02-01", got)
	}
	if parsed.Time == nil {
		t.Fatal("time not found")
	}
	if got := parsed.Time.Format("15:04"); got != "12:30" {
		t.Errorf("time = %s, want 12:30", got)
	}
}

func TestExtractDateYMDFirst(t *testing.T) {
	p := testParser(t)
	parsed := p.ParseReceipt("2024.03.05 перевод выполнен", 90)
	if parsed.Date == nil {
		t.Fatal("date not found")
	}
	if got := parsed.Date.Format("2006-01-02"); got != "2024-03-05" {
		t.Errorf("date = %s, want 2024-03-05", got)
	}
}

func TestExtractDateRussianMonth(t *testing.T) {
	p := testParser(t)
	parsed := p.ParseReceipt("5 марта 2024 года", 90)
	if parsed.Date == nil {
		t.Fatal("date not found")
	}
	if got := parsed.Date.Format("2006-01-02"); got != "2024-03-05" {
		t.Errorf("date = %s, want 2024-03-05", got)
	}
}

func TestExtractPayeePhoneKeyword(t *testing.T) {
	p := testParser(t)
	parsed := p.ParseReceipt("Перевод на телефон 8 987 933 55 15", 90)
	if parsed.Payee == nil {
		t.Fatal("payee not found")
	}
	if *parsed.Payee != "79879335515" {
		t.Errorf("payee = %q, want 79879335515", *parsed.Payee)
	}
	if parsed.PayeeKind != constants.PayeePhone {
		t.Errorf("kind = %q, want %q", parsed.PayeeKind, constants.PayeePhone)
	}
}

func TestExtractPayeeAccount(t *testing.T) {
	p := testParser(t)
	parsed := p.ParseReceipt("Счет: 40817810099910004312", 90)
	if parsed.Payee == nil {
		t.Fatal("payee not found")
	}
	if *parsed.Payee != "40817810099910004312" {
		t.Errorf("payee = %q, want account digits", *parsed.Payee)
	}
	if parsed.PayeeKind != constants.PayeeAccount {
		t.Errorf("kind = %q, want %q", parsed.PayeeKind, constants.PayeeAccount)
	}
}

func TestExtractPayeeCardBeatsPhone(t *testing.T) {
	p := testParser(t)
	parsed := p.ParseReceipt("Карта 2200590431900533 телефон 89879335515", 90)
	if parsed.Payee == nil {
		t.Fatal("payee not found")
	}
	if parsed.PayeeKind != constants.PayeeCard {
		t.Errorf("kind = %q, want %q (card outranks phone)", parsed.PayeeKind, constants.PayeeCard)
	}
	if *parsed.Payee != "2200590431900533" {
		t.Errorf("payee = %q, want card digits", *parsed.Payee)
	}
}

func TestExtractPayeeNamedCard(t *testing.T) {
	p := testParser(t)
	parsed := p.ParseReceipt("Получатель: Сбербанк • 4312", 90)
	if parsed.Payee == nil {
		t.Fatal("payee not found")
	}
	if parsed.PayeeKind != constants.PayeeCardMasked {
		t.Errorf("kind = %q, want %q", parsed.PayeeKind, constants.PayeeCardMasked)
	}
	if *parsed.Payee != "Сбербанк •• 4312" {
		t.Errorf("payee = %q, want %q", *parsed.Payee, "Сбербанк •• 4312")
	}
}

func TestRecoverPhoneFromDigitGroups(t *testing.T) {
	p := testParser(t)
	parsed := p.ParseReceipt("987 933 55 15", 90)
	if parsed.Payee == nil {
		t.Fatal("recovery produced no payee")
	}
	if *parsed.Payee != "79879335515" {
		t.Errorf("payee = %q, want 79879335515", *parsed.Payee)
	}
	if parsed.PayeeKind != constants.PayeePhone {
		t.Errorf("kind = %q, want %q", parsed.PayeeKind, constants.PayeePhone)
	}
}

func TestRecoverPhoneRejectsWideGaps(t *testing.T) {
	p := testParser(t)
	parsed := p.ParseReceipt("987 --- 933 --- 55 --- 15", 90)
	if parsed.Payee != nil {
		t.Errorf("groups split by wide gaps should not assemble, got %q", *parsed.Payee)
	}
}

func TestExtractItems(t *testing.T) {
	p := testParser(t)
	parsed := p.ParseReceipt("Хлеб 45.00\nМолоко 89,90\n\nИтого: 134.90", 90)
	if len(parsed.Items) < 2 {
		t.Fatalf("items = %d, want at least 2", len(parsed.Items))
	}
	if parsed.Items[0].Name != "Хлеб" || parsed.Items[0].Price != 45 {
		t.Errorf("item[0] = %+v", parsed.Items[0])
	}
	if parsed.Items[1].Name != "Молоко" || parsed.Items[1].Price != 89.90 {
		t.Errorf("item[1] = %+v", parsed.Items[1])
	}
}

func TestConfiguredPhonePatternExtracts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PhonePatterns = append(cfg.PhonePatterns, `(905)\D{3,5}(123)\D{3,5}(45)\D{3,5}(67)`)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := New(cfg, logger)

	// Wide gaps: no qualifying digit run, no keyword, recovery mode gives
	// up. Only the configured pattern can assemble this number.
	parsed := p.ParseReceipt("перевод абоненту 905 - 123 - 45 - 67", 90)
	if parsed.Payee == nil {
		t.Fatal("configured phone pattern produced no payee")
	}
	if *parsed.Payee != "79051234567" {
		t.Errorf("payee = %q, want 79051234567", *parsed.Payee)
	}
	if parsed.PayeeKind != constants.PayeePhone {
		t.Errorf("kind = %q, want %q", parsed.PayeeKind, constants.PayeePhone)
	}
}

func TestConfiguredAccountPatternClassifiesByLength(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AccountPatterns = append(cfg.AccountPatterns, `(\d{4})-(\d{4})-(\d{4})-(\d{4})`)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := New(cfg, logger)

	parsed := p.ParseReceipt("Карта получателя 2200-5904-3190-0533", 90)
	if parsed.Payee == nil {
		t.Fatal("configured account pattern produced no payee")
	}
	if *parsed.Payee != "2200590431900533" {
		t.Errorf("payee = %q, want joined card digits", *parsed.Payee)
	}
	if parsed.PayeeKind != constants.PayeeCard {
		t.Errorf("kind = %q, want %q (16 digits)", parsed.PayeeKind, constants.PayeeCard)
	}
}

func TestConfidenceClamped(t *testing.T) {
	p := testParser(t)
	if got := p.ParseReceipt("x", 140).Confidence; got != 100 {
		t.Errorf("confidence = %v, want 100", got)
	}
	if got := p.ParseReceipt("x", -5).Confidence; got != 0 {
		t.Errorf("confidence = %v, want 0", got)
	}
}

func TestBadConfiguredPatternSkipped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AmountPatterns = append([]string{`(\d+[.,]\d{2})\s*(?:руб`}, cfg.AmountPatterns...)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := New(cfg, logger)

	parsed := p.ParseReceipt("Оплачено 750 руб", 90)
	if parsed.Amount == nil || *parsed.Amount != 750 {
		t.Fatalf("amount = %v, want 750 despite one broken pattern", parsed.Amount)
	}
}
