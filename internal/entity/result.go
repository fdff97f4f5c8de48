package entity

// MatchOutcome is the result of evaluating an ordered rule set against one
// parsed receipt. The first fully-matching rule short-circuits evaluation.
type MatchOutcome struct {
	Matched bool `json:"matched"`

	// Set only when Matched.
	RuleName     string `json:"rule_name,omitempty"`
	IssuanceFile string `json:"issuance_file,omitempty"`

	// RulesEvaluated counts the rules inspected before the outcome was
	// decided (all of them on a no-match).
	RulesEvaluated int `json:"rules_evaluated"`

	// Checks reports each configured expectation of the deciding rule
	// independently (amount, recipient, phone_list, ...). On a no-match it
	// belongs to the last rule evaluated.
	Checks map[string]bool `json:"checks,omitempty"`
}

// ValidationResult is the single user-visible outcome of a validation
// pass. Failure is always represented here, never as a raised error.
type ValidationResult struct {
	IsValid bool   `json:"is_valid"`
	Message string `json:"message"`

	// ConfidenceScore is advisory (0..100) and never decides IsValid.
	ConfidenceScore float64 `json:"confidence_score"`

	MatchedRuleName string   `json:"matched_rule_name,omitempty"`
	IssuanceFile    string   `json:"issuance_file,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`

	Receipt *ParsedReceipt `json:"receipt,omitempty"`
}
