package entity

import (
	"time"

	"receiptcheck/constants"
)

// LineItem is a single "name price" row recognized inside the transcript.
type LineItem struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// ParsedReceipt is the structured view of one OCR transcript. Every field
// is best-effort: extraction gaps are nil pointers, never errors. A value
// is constructed once per extraction call and not mutated afterwards.
type ParsedReceipt struct {
	Amount    *float64            `json:"amount,omitempty"`
	Payee     *string             `json:"payee,omitempty"`
	PayeeKind constants.PayeeKind `json:"payee_kind,omitempty"`
	Date      *time.Time          `json:"date,omitempty"`
	Time      *time.Time          `json:"time,omitempty"`
	RawText   string              `json:"raw_text"`
	// Confidence is the OCR engine's certainty, clamped to [0,100].
	Confidence float64    `json:"confidence"`
	Items      []LineItem `json:"items,omitempty"`
}

// Phone returns the normalized recipient phone, or nil when the payee is
// not a phone.
func (r *ParsedReceipt) Phone() *string {
	if r.Payee != nil && r.PayeeKind == constants.PayeePhone {
		return r.Payee
	}
	return nil
}

// AccountOrCard returns the recipient account/card digits, or nil when the
// payee is a phone or absent. The masked named-card form keeps its digit
// tail inside the payee string.
func (r *ParsedReceipt) AccountOrCard() *string {
	if r.Payee == nil {
		return nil
	}
	switch r.PayeeKind {
	case constants.PayeeCard, constants.PayeeAccount, constants.PayeeCardMasked:
		return r.Payee
	}
	return nil
}

// HasPayee reports whether any recipient credential was extracted.
func (r *ParsedReceipt) HasPayee() bool {
	return r.Payee != nil && *r.Payee != ""
}
