package engine

import (
	"log/slog"
	"math"

	"receiptcheck/constants"
	"receiptcheck/internal/config"
	"receiptcheck/internal/entity"
	"receiptcheck/internal/parser"
	"receiptcheck/internal/rules"
)

// ValidationEngine orchestrates extraction, rule matching, advisory
// scoring and message synthesis over one immutable configuration
// snapshot. Construct a new engine after a config reload; engines in
// flight keep their snapshot.
type ValidationEngine struct {
	logger    *slog.Logger
	parser    *parser.Parser
	matcher   *rules.Matcher
	snap      *config.Snapshot
	maxAmount float64
}

func New(snap *config.Snapshot, logger *slog.Logger) *ValidationEngine {
	if logger == nil {
		logger = slog.Default()
	}
	if snap == nil {
		doc := config.DefaultDocument()
		snap = &config.Snapshot{Document: doc, Rules: doc.EffectiveRules()}
	}
	parserCfg := snap.Document.ParserConfig()
	return &ValidationEngine{
		logger:    logger,
		parser:    parser.New(parserCfg, logger),
		matcher:   rules.NewMatcher(logger),
		snap:      snap,
		maxAmount: parserCfg.MaxAmount,
	}
}

// ParseReceipt extracts candidate fields from a raw transcript. Absent
// fields are not errors.
func (e *ValidationEngine) ParseReceipt(text string, confidence float64) *entity.ParsedReceipt {
	return e.parser.ParseReceipt(text, confidence)
}

// ValidateReceipt decides the verdict for an already-parsed receipt
// against the supplied ordered rule set. The boolean outcome comes from
// the rule match alone; the advisory score and the itemized message are
// computed alongside and never flip the verdict.
func (e *ValidationEngine) ValidateReceipt(parsed *entity.ParsedReceipt, ruleset []entity.AcceptanceRule) *entity.ValidationResult {
	outcome := e.matcher.Match(parsed, ruleset)

	basic := e.checkBasic(parsed)
	fields := e.checkFields(parsed)
	values := e.checkValues(parsed)

	result := &entity.ValidationResult{
		IsValid:         outcome.Matched,
		ConfidenceScore: e.score(parsed, basic, fields, values),
		MatchedRuleName: outcome.RuleName,
		IssuanceFile:    outcome.IssuanceFile,
		Message:         e.buildMessage(parsed, outcome, basic, fields, values),
		Recommendations: e.buildRecommendations(parsed, basic, fields, values),
		Receipt:         parsed,
	}

	e.logger.Info("validate.done",
		"is_valid", result.IsValid,
		"matched_rule", result.MatchedRuleName,
		"score", math.Round(result.ConfidenceScore),
		"rules_evaluated", outcome.RulesEvaluated,
	)
	return result
}

// ValidateText is the full pipeline: extract, then validate against the
// snapshot's rules.
func (e *ValidationEngine) ValidateText(text string, confidence float64) *entity.ValidationResult {
	parsed := e.ParseReceipt(text, confidence)
	return e.ValidateReceipt(parsed, e.snap.Rules)
}

// Rules exposes the snapshot's ordered rule set (read-only).
func (e *ValidationEngine) Rules() []entity.AcceptanceRule {
	return e.snap.Rules
}

// basicChecks is the sanity block: amount positive, a payee present,
// confidence above the configured floor.
type basicChecks struct {
	errors   []string
	warnings []string
}

func (b basicChecks) ok() bool { return len(b.errors) == 0 }

func (e *ValidationEngine) checkBasic(parsed *entity.ParsedReceipt) basicChecks {
	var b basicChecks
	doc := &e.snap.Document

	switch {
	case parsed.Amount == nil:
		b.errors = append(b.errors, "Сумма не найдена в чеке")
	case *parsed.Amount <= 0:
		b.errors = append(b.errors, "Сумма должна быть больше нуля")
	case *parsed.Amount > e.maxAmount:
		b.warnings = append(b.warnings, "Очень большая сумма")
	}

	if !parsed.HasPayee() {
		b.errors = append(b.errors, "Не найден получатель (телефон или счет)")
	}

	if parsed.Confidence < doc.MinConfidence() {
		b.errors = append(b.errors, "Низкая уверенность распознавания")
	}
	return b
}

// fieldChecks maps every required and optional field name to whether the
// extractor found it.
type fieldChecks struct {
	status   map[string]bool
	required []string
}

func (f fieldChecks) ok() bool {
	for _, name := range f.required {
		if !f.status[name] {
			return false
		}
	}
	return true
}

func (f fieldChecks) foundRequired() int {
	n := 0
	for _, name := range f.required {
		if f.status[name] {
			n++
		}
	}
	return n
}

func (e *ValidationEngine) checkFields(parsed *entity.ParsedReceipt) fieldChecks {
	doc := &e.snap.Document
	f := fieldChecks{
		status:   make(map[string]bool),
		required: doc.RequiredFields(),
	}
	present := func(name string) bool {
		switch constants.Field(name) {
		case constants.FieldAmount:
			return parsed.Amount != nil
		case constants.FieldRecipient:
			return parsed.HasPayee()
		case constants.FieldDate:
			return parsed.Date != nil
		case constants.FieldTime:
			return parsed.Time != nil
		case constants.FieldItems:
			return len(parsed.Items) > 0
		}
		return false
	}
	for _, name := range f.required {
		f.status[name] = present(name)
	}
	for _, name := range doc.OptionalFields() {
		f.status[name] = present(name)
	}
	return f
}

// valueChecks reports, per credential, presence AND membership in the
// configured valid-value lists.
type valueChecks struct {
	phoneValid   bool
	amountValid  bool
	accountValid bool
}

func (v valueChecks) validCount() int {
	n := 0
	for _, ok := range []bool{v.phoneValid, v.amountValid, v.accountValid} {
		if ok {
			n++
		}
	}
	return n
}

func (e *ValidationEngine) checkValues(parsed *entity.ParsedReceipt) valueChecks {
	doc := &e.snap.Document
	var v valueChecks

	if phone := parsed.Phone(); phone != nil {
		for _, raw := range doc.PhoneValidation.ValidPhones {
			if parser.NormalizePhone(raw) == *phone {
				v.phoneValid = true
				break
			}
		}
	}

	if parsed.Amount != nil {
		tolerance := doc.AmountTolerance()
		for _, valid := range doc.AmountValidation.ValidAmounts {
			if math.Abs(*parsed.Amount-valid) <= tolerance {
				v.amountValid = true
				break
			}
		}
	}

	if acct := parsed.AccountOrCard(); acct != nil {
		if parsed.PayeeKind == constants.PayeeAccount {
			for _, valid := range doc.AccountValidation.ValidAccounts {
				if valid == *acct {
					v.accountValid = true
					break
				}
			}
		}
		if !v.accountValid {
			v.accountValid = rules.CardInList(parsed, doc.AccountValidation.ValidCards)
		}
	}
	return v
}
