package entity

// AcceptanceRule is one named combination of expectations. A rule matches
// only when every configured expectation holds; unset expectations are
// skipped. Rules are evaluated in the order supplied and are read-only for
// the duration of a validation pass.
type AcceptanceRule struct {
	ID   int    `json:"id"`
	Name string `json:"name"`

	// ExpectedAmount, when set, requires |parsed - expected| <= Tolerance.
	ExpectedAmount *float64 `json:"expected_amount,omitempty"`
	Tolerance      float64  `json:"tolerance"`

	// ExpectedRecipient matches case-insensitively as a substring in either
	// direction, tolerating OCR truncation on both sides.
	ExpectedRecipient *string `json:"expected_recipient,omitempty"`

	// Exact-match lists: the parsed value must be a literal member.
	ValidPhones   []string  `json:"valid_phones,omitempty"`
	ValidAmounts  []float64 `json:"valid_amounts,omitempty"`
	ValidAccounts []string  `json:"valid_accounts,omitempty"`
	ValidCards    []string  `json:"valid_cards,omitempty"`

	// MinConfidence, when > 0, requires parsed.Confidence >= MinConfidence.
	MinConfidence float64 `json:"min_confidence,omitempty"`

	// IssuanceFile references the certificate file a downstream collaborator
	// sends when this rule matches.
	IssuanceFile string `json:"issuance_file,omitempty"`
}

// HasExpectations reports whether the rule configures at least one check.
// A rule with no expectations would match everything and is rejected at
// config load.
func (r *AcceptanceRule) HasExpectations() bool {
	return r.ExpectedAmount != nil ||
		r.ExpectedRecipient != nil ||
		len(r.ValidPhones) > 0 ||
		len(r.ValidAmounts) > 0 ||
		len(r.ValidAccounts) > 0 ||
		len(r.ValidCards) > 0 ||
		r.MinConfidence > 0
}
