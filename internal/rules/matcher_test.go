package rules

import (
	"io"
	"log/slog"
	"testing"

	"receiptcheck/constants"
	"receiptcheck/internal/entity"
)

func testMatcher() *Matcher {
	return NewMatcher(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func accountReceipt(amount float64, account string) *entity.ParsedReceipt {
	return &entity.ParsedReceipt{
		Amount:     floatPtr(amount),
		Payee:      strPtr(account),
		PayeeKind:  constants.PayeeAccount,
		Confidence: 90,
	}
}

func TestFirstFullMatchWins(t *testing.T) {
	m := testMatcher()
	ruleset := []entity.AcceptanceRule{
		{ID: 1, Name: "R1", ValidAccounts: []string{"40817810000000000001"}},
		{ID: 2, Name: "R2", ValidAmounts: []float64{50}},
	}

	// Account B fails R1's list; amount 50 satisfies R2.
	parsed := accountReceipt(50, "40817810000000000002")
	out := m.Match(parsed, ruleset)
	if !out.Matched {
		t.Fatal("expected a match")
	}
	if out.RuleName != "R2" {
		t.Errorf("matched rule = %q, want R2", out.RuleName)
	}
	if out.RulesEvaluated != 2 {
		t.Errorf("rules evaluated = %d, want 2", out.RulesEvaluated)
	}

	// Account A short-circuits at R1 even though R2 would also match.
	parsed = accountReceipt(50, "40817810000000000001")
	out = m.Match(parsed, ruleset)
	if !out.Matched || out.RuleName != "R1" {
		t.Fatalf("matched rule = %q, want R1", out.RuleName)
	}
	if out.RulesEvaluated != 1 {
		t.Errorf("rules evaluated = %d, want 1", out.RulesEvaluated)
	}
}

func TestAmountToleranceBoundary(t *testing.T) {
	m := testMatcher()
	rule := entity.AcceptanceRule{Name: "exact", ExpectedAmount: floatPtr(100), Tolerance: 0.01}

	within := &entity.ParsedReceipt{Amount: floatPtr(100.01), Confidence: 90}
	if out := m.Match(within, []entity.AcceptanceRule{rule}); !out.Matched {
		t.Error("100.01 should match expected 100 at tolerance 0.01")
	}

	beyond := &entity.ParsedReceipt{Amount: floatPtr(100.02), Confidence: 90}
	if out := m.Match(beyond, []entity.AcceptanceRule{rule}); out.Matched {
		t.Error("100.02 should not match expected 100 at tolerance 0.01")
	}
}

func TestAllConfiguredChecksMustHold(t *testing.T) {
	m := testMatcher()
	rule := entity.AcceptanceRule{
		Name:           "strict",
		ExpectedAmount: floatPtr(50),
		ValidAccounts:  []string{"40817810000000000001"},
		MinConfidence:  80,
	}

	parsed := accountReceipt(50, "40817810000000000001")
	parsed.Confidence = 70 // below the rule's floor
	out := m.Match(parsed, []entity.AcceptanceRule{rule})
	if out.Matched {
		t.Fatal("rule should fail on confidence alone")
	}
	if out.Checks["amount"] != true || out.Checks["account_list"] != true {
		t.Errorf("checks = %v, amount and account_list should pass", out.Checks)
	}
	if out.Checks["confidence"] != false {
		t.Errorf("checks = %v, confidence should fail", out.Checks)
	}
}

func TestRecipientSubstringEitherDirection(t *testing.T) {
	m := testMatcher()
	rule := entity.AcceptanceRule{Name: "named", ExpectedRecipient: strPtr("Иван Петров")}

	truncated := &entity.ParsedReceipt{
		Payee:      strPtr("иван петр"),
		PayeeKind:  constants.PayeeCardMasked,
		Confidence: 90,
	}
	if out := m.Match(truncated, []entity.AcceptanceRule{rule}); !out.Matched {
		t.Error("truncated payee should match expected recipient as substring")
	}

	other := &entity.ParsedReceipt{
		Payee:      strPtr("Мария Сидорова"),
		PayeeKind:  constants.PayeeCardMasked,
		Confidence: 90,
	}
	if out := m.Match(other, []entity.AcceptanceRule{rule}); out.Matched {
		t.Error("unrelated payee should not match")
	}
}

func TestPhoneListRequiresPhoneKind(t *testing.T) {
	m := testMatcher()
	rule := entity.AcceptanceRule{Name: "phone", ValidPhones: []string{"79879335515"}}

	phone := &entity.ParsedReceipt{
		Payee:      strPtr("79879335515"),
		PayeeKind:  constants.PayeePhone,
		Confidence: 90,
	}
	if out := m.Match(phone, []entity.AcceptanceRule{rule}); !out.Matched {
		t.Error("listed phone should match")
	}

	// Same digits parsed as something else must not satisfy the phone list.
	card := &entity.ParsedReceipt{
		Payee:      strPtr("79879335515"),
		PayeeKind:  constants.PayeeCard,
		Confidence: 90,
	}
	if out := m.Match(card, []entity.AcceptanceRule{rule}); out.Matched {
		t.Error("non-phone payee should not satisfy a phone list")
	}
}

func TestAccountListRejectsCardKind(t *testing.T) {
	m := testMatcher()
	rule := entity.AcceptanceRule{Name: "acct", ValidAccounts: []string{"2200590431900533"}}

	parsed := &entity.ParsedReceipt{
		Payee:      strPtr("2200590431900533"),
		PayeeKind:  constants.PayeeCard,
		Confidence: 90,
	}
	if out := m.Match(parsed, []entity.AcceptanceRule{rule}); out.Matched {
		t.Error("card payee should not satisfy an account list")
	}
}

func TestMaskedCardMatchesBySuffix(t *testing.T) {
	m := testMatcher()
	rule := entity.AcceptanceRule{Name: "card", ValidCards: []string{"2200590431900533"}}

	masked := &entity.ParsedReceipt{
		Payee:      strPtr("Сбербанк •• 0533"),
		PayeeKind:  constants.PayeeCardMasked,
		Confidence: 90,
	}
	if out := m.Match(masked, []entity.AcceptanceRule{rule}); !out.Matched {
		t.Error("masked card tail 0533 should match the listed card")
	}

	wrong := &entity.ParsedReceipt{
		Payee:      strPtr("Сбербанк •• 9999"),
		PayeeKind:  constants.PayeeCardMasked,
		Confidence: 90,
	}
	if out := m.Match(wrong, []entity.AcceptanceRule{rule}); out.Matched {
		t.Error("mismatched tail should not match")
	}
}

func TestRuleWithoutExpectationsNeverMatches(t *testing.T) {
	m := testMatcher()
	parsed := accountReceipt(50, "40817810000000000001")
	out := m.Match(parsed, []entity.AcceptanceRule{{Name: "empty"}})
	if out.Matched {
		t.Fatal("a rule with no expectations must not match")
	}
}

func TestNoRules(t *testing.T) {
	m := testMatcher()
	parsed := accountReceipt(50, "40817810000000000001")
	out := m.Match(parsed, nil)
	if out.Matched {
		t.Fatal("empty ruleset must not match")
	}
	if out.RulesEvaluated != 0 {
		t.Errorf("rules evaluated = %d, want 0", out.RulesEvaluated)
	}
}
