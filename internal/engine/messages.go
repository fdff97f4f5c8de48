package engine

import (
	"fmt"
	"strings"

	"receiptcheck/internal/entity"
)

// buildMessage produces the operator-facing, line-per-finding report. The
// wording follows the legacy checker so operators keep their muscle
// memory.
func (e *ValidationEngine) buildMessage(parsed *entity.ParsedReceipt, outcome entity.MatchOutcome, basic basicChecks, fields fieldChecks, values valueChecks) string {
	var lines []string
	doc := &e.snap.Document

	if outcome.Matched {
		lines = append(lines, fmt.Sprintf("✅ Чек успешно проверен по правилу '%s'", outcome.RuleName))
	} else {
		lines = append(lines, fmt.Sprintf("❌ Чек не соответствует ни одному из правил валидации (проверено правил: %d)", outcome.RulesEvaluated))
	}

	for _, err := range basic.errors {
		lines = append(lines, "❌ "+err)
	}
	for _, warn := range basic.warnings {
		lines = append(lines, "⚠️ "+warn)
	}

	for _, name := range fields.required {
		if fields.status[name] {
			lines = append(lines, fmt.Sprintf("✅ %s: найдено", name))
		} else {
			lines = append(lines, fmt.Sprintf("❌ %s: не найдено", name))
		}
	}

	if phone := parsed.Phone(); phone != nil {
		if values.phoneValid {
			lines = append(lines, fmt.Sprintf("✅ Телефон %s: валиден", *phone))
		} else {
			lines = append(lines, fmt.Sprintf("❌ Телефон %s: не найден в списке валидных", *phone))
		}
	}
	if parsed.Amount != nil {
		if values.amountValid {
			lines = append(lines, fmt.Sprintf("✅ Сумма %.2f: валидна", *parsed.Amount))
		} else {
			lines = append(lines, fmt.Sprintf("❌ Сумма %.2f: не найдена в списке валидных", *parsed.Amount))
		}
	}
	if acct := parsed.AccountOrCard(); acct != nil {
		if values.accountValid {
			lines = append(lines, fmt.Sprintf("✅ Счет %s: валиден", *acct))
		} else {
			lines = append(lines, fmt.Sprintf("❌ Счет %s: не найден в списке валидных", *acct))
		}
	}

	minConfidence := doc.MinConfidence()
	if parsed.Confidence >= minConfidence {
		lines = append(lines, fmt.Sprintf("✅ Уверенность распознавания: %.1f%%", parsed.Confidence))
	} else {
		lines = append(lines, fmt.Sprintf("❌ Уверенность распознавания: %.1f%% (минимум %.0f%%)", parsed.Confidence, minConfidence))
	}

	return strings.Join(lines, "\n")
}

// buildRecommendations suggests what the sender should fix. Purely
// advisory.
func (e *ValidationEngine) buildRecommendations(parsed *entity.ParsedReceipt, basic basicChecks, fields fieldChecks, values valueChecks) []string {
	var recs []string

	if parsed.Amount == nil {
		recs = append(recs, "Проверьте качество изображения чека - сумма должна быть четко видна")
	}
	if !parsed.HasPayee() {
		recs = append(recs, "Убедитесь, что номер телефона или банковский счет четко видны на чеке")
	}
	if phone := parsed.Phone(); phone != nil && !values.phoneValid {
		recs = append(recs, fmt.Sprintf("Номер телефона %s не найден в списке валидных", *phone))
	}
	if parsed.Amount != nil && !values.amountValid {
		recs = append(recs, fmt.Sprintf("Сумма %.2f не найдена в списке валидных", *parsed.Amount))
	}
	if parsed.Confidence < e.snap.Document.MinConfidence() {
		recs = append(recs, "Низкое качество распознавания - попробуйте сделать более четкое фото")
	}
	return recs
}
