package config

import (
	"receiptcheck/constants"
	"receiptcheck/internal/entity"
	"receiptcheck/internal/parser"
)

// PatternSpec is one configured regular expression with its operator-facing
// description.
type PatternSpec struct {
	Pattern     string `json:"pattern"`
	Description string `json:"description,omitempty"`
}

// PhoneValidation configures phone extraction and the exact-match list.
type PhoneValidation struct {
	Patterns    []PatternSpec `json:"patterns,omitempty"`
	ValidPhones []string      `json:"valid_phones,omitempty"`
	Keywords    []string      `json:"keywords,omitempty"`
}

// AmountValidation configures amount extraction, bounds and the valid list.
type AmountValidation struct {
	Patterns       []PatternSpec `json:"patterns,omitempty"`
	ValidAmounts   []float64     `json:"valid_amounts,omitempty"`
	Keywords       []string      `json:"keywords,omitempty"`
	ExclusionTerms []string      `json:"exclusion_terms,omitempty"`
	MinAmount      float64       `json:"min_amount,omitempty"`
	MaxAmount      float64       `json:"max_amount,omitempty"`
}

// AccountValidation configures account/card extraction and valid lists.
type AccountValidation struct {
	Patterns      []PatternSpec `json:"patterns,omitempty"`
	ValidAccounts []string      `json:"valid_accounts,omitempty"`
	ValidCards    []string      `json:"valid_cards,omitempty"`
	Keywords      []string      `json:"keywords,omitempty"`
}

// Requirements names which receipt fields the engine treats as required
// versus merely reported.
type Requirements struct {
	RequiredFields []string `json:"required_fields,omitempty"`
	OptionalFields []string `json:"optional_fields,omitempty"`
}

// Validation carries the pass-level thresholds.
type Validation struct {
	MinConfidence   float64      `json:"min_confidence,omitempty"`
	AmountTolerance float64      `json:"amount_tolerance,omitempty"`
	Requirements    Requirements `json:"requirements,omitempty"`
}

// Document is the on-disk configuration: loaded from JSON and validated
// against BuildConfigJSONSchema before use.
type Document struct {
	PhoneValidation   PhoneValidation         `json:"phone_validation"`
	AmountValidation  AmountValidation        `json:"amount_validation"`
	AccountValidation AccountValidation       `json:"account_validation"`
	Validation        Validation              `json:"validation"`
	Rules             []entity.AcceptanceRule `json:"rules,omitempty"`
}

// DefaultDocument is the built-in fallback used when the config file is
// missing or invalid. Validation still proceeds on these defaults.
func DefaultDocument() Document {
	pc := parser.DefaultConfig()
	return Document{
		PhoneValidation: PhoneValidation{
			Patterns:    specs(pc.PhonePatterns),
			ValidPhones: []string{"79879335515"},
			Keywords:    pc.PhoneKeywords,
		},
		AmountValidation: AmountValidation{
			Patterns:       specs(pc.AmountPatterns),
			ValidAmounts:   []float64{1500.00},
			Keywords:       pc.AmountKeywords,
			ExclusionTerms: pc.ExclusionTerms,
			MinAmount:      pc.MinAmount,
			MaxAmount:      pc.MaxAmount,
		},
		AccountValidation: AccountValidation{
			Patterns:      specs(pc.AccountPatterns),
			ValidAccounts: []string{"40817810099910004312"},
			ValidCards:    []string{"2200590431900533"},
			Keywords:      pc.AccountKeywords,
		},
		Validation: Validation{
			MinConfidence:   constants.DefaultMinConfidence,
			AmountTolerance: constants.DefaultAmountTolerance,
			Requirements: Requirements{
				RequiredFields: []string{string(constants.FieldAmount), string(constants.FieldRecipient)},
				OptionalFields: []string{string(constants.FieldDate), string(constants.FieldTime), string(constants.FieldItems)},
			},
		},
	}
}

func specs(patterns []string) []PatternSpec {
	out := make([]PatternSpec, len(patterns))
	for i, p := range patterns {
		out[i] = PatternSpec{Pattern: p}
	}
	return out
}

// ParserConfig projects the document onto the extractor's knobs.
func (d *Document) ParserConfig() parser.Config {
	def := parser.DefaultConfig()
	cfg := parser.Config{
		PhonePatterns:   patternStrings(d.PhoneValidation.Patterns, def.PhonePatterns),
		PhoneKeywords:   orDefault(d.PhoneValidation.Keywords, def.PhoneKeywords),
		AmountPatterns:  patternStrings(d.AmountValidation.Patterns, def.AmountPatterns),
		AmountKeywords:  orDefault(d.AmountValidation.Keywords, def.AmountKeywords),
		ExclusionTerms:  orDefault(d.AmountValidation.ExclusionTerms, def.ExclusionTerms),
		MinAmount:       d.AmountValidation.MinAmount,
		MaxAmount:       d.AmountValidation.MaxAmount,
		AccountPatterns: patternStrings(d.AccountValidation.Patterns, def.AccountPatterns),
		AccountKeywords: orDefault(d.AccountValidation.Keywords, def.AccountKeywords),
	}
	if cfg.MinAmount <= 0 {
		cfg.MinAmount = def.MinAmount
	}
	if cfg.MaxAmount <= 0 {
		cfg.MaxAmount = def.MaxAmount
	}
	return cfg
}

// MinConfidence returns the configured floor, defaulted.
func (d *Document) MinConfidence() float64 {
	if d.Validation.MinConfidence > 0 {
		return d.Validation.MinConfidence
	}
	return constants.DefaultMinConfidence
}

// AmountTolerance returns the configured tolerance, defaulted.
func (d *Document) AmountTolerance() float64 {
	if d.Validation.AmountTolerance > 0 {
		return d.Validation.AmountTolerance
	}
	return constants.DefaultAmountTolerance
}

// RequiredFields returns the required-field names, defaulted to
// amount + recipient.
func (d *Document) RequiredFields() []string {
	if len(d.Validation.Requirements.RequiredFields) > 0 {
		return d.Validation.Requirements.RequiredFields
	}
	return []string{string(constants.FieldAmount), string(constants.FieldRecipient)}
}

// OptionalFields returns the optional-field names, defaulted.
func (d *Document) OptionalFields() []string {
	if len(d.Validation.Requirements.OptionalFields) > 0 {
		return d.Validation.Requirements.OptionalFields
	}
	return []string{string(constants.FieldDate), string(constants.FieldTime), string(constants.FieldItems)}
}

// EffectiveRules returns the ordered acceptance rules. With no explicit
// rules configured, one is synthesized from the section valid-value lists,
// reproducing the legacy list-driven acceptance behavior through the rule
// engine. Phone list entries are normalized before any comparison.
func (d *Document) EffectiveRules() []entity.AcceptanceRule {
	tolerance := d.AmountTolerance()

	if len(d.Rules) > 0 {
		out := make([]entity.AcceptanceRule, 0, len(d.Rules))
		for i, r := range d.Rules {
			if !r.HasExpectations() {
				continue
			}
			if r.ID == 0 {
				r.ID = i + 1
			}
			if r.Tolerance <= 0 {
				r.Tolerance = tolerance
			}
			r.ValidPhones = normalizePhones(r.ValidPhones)
			out = append(out, r)
		}
		return out
	}

	synth := entity.AcceptanceRule{
		ID:            1,
		Name:          "configured-values",
		Tolerance:     tolerance,
		ValidAmounts:  d.AmountValidation.ValidAmounts,
		MinConfidence: d.MinConfidence(),
	}
	// Phone and account lists are alternative recipient credentials; split
	// the synthesized rule so either one is sufficient.
	var out []entity.AcceptanceRule
	if phones := normalizePhones(d.PhoneValidation.ValidPhones); len(phones) > 0 {
		r := synth
		r.Name = "configured-values/phone"
		r.ValidPhones = phones
		out = append(out, r)
	}
	if len(d.AccountValidation.ValidAccounts) > 0 {
		r := synth
		r.ID = len(out) + 1
		r.Name = "configured-values/account"
		r.ValidAccounts = d.AccountValidation.ValidAccounts
		out = append(out, r)
	}
	if len(d.AccountValidation.ValidCards) > 0 {
		r := synth
		r.ID = len(out) + 1
		r.Name = "configured-values/card"
		r.ValidCards = d.AccountValidation.ValidCards
		out = append(out, r)
	}
	return out
}

func normalizePhones(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, p := range raw {
		n := parser.NormalizePhone(p)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func patternStrings(specs []PatternSpec, fallback []string) []string {
	if len(specs) == 0 {
		return fallback
	}
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		if s.Pattern != "" {
			out = append(out, s.Pattern)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func orDefault(v, fallback []string) []string {
	if len(v) == 0 {
		return fallback
	}
	return v
}
