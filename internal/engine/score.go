package engine

import "receiptcheck/internal/entity"

// Advisory confidence score, 0..100. Weights:
//
//	30  basic sanity (amount > 0, payee present, confidence above floor)
//	25  required fields found / required fields total
//	25  credentials present and list-valid, out of {phone, amount, account}
//	20  OCR confidence / 100
//
// The score never decides the verdict; it is monotonically non-decreasing
// in OCR confidence with everything else fixed.
func (e *ValidationEngine) score(parsed *entity.ParsedReceipt, basic basicChecks, fields fieldChecks, values valueChecks) float64 {
	score := 0.0

	if basic.ok() {
		score += 30.0
	}

	if n := len(fields.required); n > 0 {
		score += float64(fields.foundRequired()) / float64(n) * 25.0
	}

	score += float64(values.validCount()) / 3.0 * 25.0

	confidence := parsed.Confidence
	if confidence > 100 {
		confidence = 100
	}
	if confidence > 0 {
		score += confidence / 100.0 * 20.0
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}
