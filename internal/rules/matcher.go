package rules

import (
	"log/slog"
	"math"
	"strings"

	"receiptcheck/constants"
	"receiptcheck/internal/entity"
)

// Matcher evaluates an ordered acceptance-rule set against one parsed
// receipt. Rules are read-only for the duration of a pass, so a Matcher
// is safe for concurrent use.
type Matcher struct {
	logger *slog.Logger
}

func NewMatcher(logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{logger: logger}
}

// Match walks the rules in the order supplied; a rule matches only when
// every expectation it configures holds, and the first full match wins.
func (m *Matcher) Match(parsed *entity.ParsedReceipt, ruleset []entity.AcceptanceRule) entity.MatchOutcome {
	var lastChecks map[string]bool
	for i, rule := range ruleset {
		checks := m.evaluate(parsed, &rule)
		lastChecks = checks
		if allTrue(checks) {
			m.logger.Info("match.ok", "rule", rule.Name, "rules_evaluated", i+1)
			return entity.MatchOutcome{
				Matched:        true,
				RuleName:       rule.Name,
				IssuanceFile:   rule.IssuanceFile,
				RulesEvaluated: i + 1,
				Checks:         checks,
			}
		}
		m.logger.Debug("match.rule_failed", "rule", rule.Name, "checks", checks)
	}

	m.logger.Info("match.none", "rules_evaluated", len(ruleset))
	return entity.MatchOutcome{
		Matched:        false,
		RulesEvaluated: len(ruleset),
		Checks:         lastChecks,
	}
}

// evaluate reports every configured expectation of one rule independently.
// Substring-match (expected_recipient) and exact-match lists are separate
// checks on purpose; configuring both means both must hold.
func (m *Matcher) evaluate(parsed *entity.ParsedReceipt, rule *entity.AcceptanceRule) map[string]bool {
	checks := make(map[string]bool)
	tolerance := rule.Tolerance
	if tolerance <= 0 {
		tolerance = constants.DefaultAmountTolerance
	}

	if rule.ExpectedAmount != nil {
		checks["amount"] = parsed.Amount != nil &&
			math.Abs(*parsed.Amount-*rule.ExpectedAmount) <= tolerance
	}

	if rule.ExpectedRecipient != nil {
		checks["recipient"] = parsed.HasPayee() &&
			substringEither(*parsed.Payee, *rule.ExpectedRecipient)
	}

	if len(rule.ValidPhones) > 0 {
		phone := parsed.Phone()
		checks["phone_list"] = phone != nil && containsString(rule.ValidPhones, *phone)
	}

	if len(rule.ValidAmounts) > 0 {
		ok := false
		if parsed.Amount != nil {
			for _, v := range rule.ValidAmounts {
				if math.Abs(*parsed.Amount-v) <= tolerance {
					ok = true
					break
				}
			}
		}
		checks["amount_list"] = ok
	}

	if len(rule.ValidAccounts) > 0 {
		acct := parsed.AccountOrCard()
		checks["account_list"] = acct != nil &&
			parsed.PayeeKind == constants.PayeeAccount &&
			containsString(rule.ValidAccounts, *acct)
	}

	if len(rule.ValidCards) > 0 {
		checks["card_list"] = CardInList(parsed, rule.ValidCards)
	}

	if rule.MinConfidence > 0 {
		checks["confidence"] = parsed.Confidence >= rule.MinConfidence
	}

	return checks
}

// CardInList checks literal membership for full card numbers; the masked
// "label •• 1234" form matches on its digit tail. Shared with the engine's
// advisory checks so score and verdict agree on what counts as a valid card.
func CardInList(parsed *entity.ParsedReceipt, validCards []string) bool {
	if parsed.Payee == nil {
		return false
	}
	switch parsed.PayeeKind {
	case constants.PayeeCard:
		return containsString(validCards, *parsed.Payee)
	case constants.PayeeCardMasked:
		tail := digitTail(*parsed.Payee)
		if tail == "" {
			return false
		}
		for _, card := range validCards {
			if strings.HasSuffix(card, tail) {
				return true
			}
		}
	}
	return false
}

func digitTail(s string) string {
	end := len(s)
	start := end
	for start > 0 && s[start-1] >= '0' && s[start-1] <= '9' {
		start--
	}
	return s[start:end]
}

// substringEither is the deliberately permissive recipient check: OCR may
// truncate either side, so containment in either direction counts.
func substringEither(a, b string) bool {
	la, lb := strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func allTrue(checks map[string]bool) bool {
	if len(checks) == 0 {
		return false // a rule with no expectations never matches
	}
	for _, ok := range checks {
		if !ok {
			return false
		}
	}
	return true
}
