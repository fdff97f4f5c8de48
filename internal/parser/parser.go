package parser

import (
	"log/slog"
	"regexp"

	"receiptcheck/internal/entity"
)

// Parser turns a raw OCR transcript into a ParsedReceipt. It is stateless
// per call: the compiled configuration is read-only after New, so a single
// Parser is safe for concurrent use.
type Parser struct {
	logger *slog.Logger
	cfg    Config

	phonePatterns   []*regexp.Regexp
	amountPatterns  []*regexp.Regexp
	accountPatterns []*regexp.Regexp

	amountKeywordRes  []*regexp.Regexp
	phoneKeywordRes   []*regexp.Regexp
	accountKeywordRes []*regexp.Regexp
}

func New(cfg Config, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxAmount <= 0 {
		cfg.MaxAmount = DefaultConfig().MaxAmount
	}
	if cfg.MinAmount <= 0 {
		cfg.MinAmount = DefaultConfig().MinAmount
	}
	p := &Parser{logger: logger, cfg: cfg}
	p.phonePatterns = compileAll(cfg.PhonePatterns, "phone", logger)
	p.amountPatterns = compileAll(cfg.AmountPatterns, "amount", logger)
	p.accountPatterns = compileAll(cfg.AccountPatterns, "account", logger)
	p.amountKeywordRes = compileKeywords(cfg.AmountKeywords, `[\s:]*([\d\s.,]+)`, "amount_keyword", logger)
	p.phoneKeywordRes = compileKeywords(cfg.PhoneKeywords, `[\s:]*([\d\s\-()+]+)`, "phone_keyword", logger)
	p.accountKeywordRes = compileKeywords(cfg.AccountKeywords, `[\s:]*([\d\s]+)`, "account_keyword", logger)
	return p
}

// compileKeywords builds one anchored capture per keyword: the keyword
// itself, optional separators, then the raw token to normalize.
func compileKeywords(keywords []string, capture, kind string, logger *slog.Logger) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(kw) + capture)
		if err != nil {
			logger.Warn("parse.pattern_skipped", "kind", kind, "keyword", kw, "error", err)
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

// compileAll compiles configured patterns case-insensitively. A pattern
// that fails to compile is skipped and logged; extraction continues with
// the rest.
func compileAll(patterns []string, kind string, logger *slog.Logger) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, pat := range patterns {
		re, err := regexp.Compile("(?i)" + pat)
		if err != nil {
			logger.Warn("parse.pattern_skipped", "kind", kind, "pattern", pat, "error", err)
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

// ParseReceipt extracts every field independently, best-effort. Absence is
// represented as a nil field, never as an error.
func (p *Parser) ParseReceipt(text string, confidence float64) *entity.ParsedReceipt {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	parsed := &entity.ParsedReceipt{
		RawText:    text,
		Confidence: confidence,
	}

	// Dates first: their spans are off-limits for the bare-decimal amount
	// tier.
	var dateSpans [][2]int
	parsed.Date, parsed.Time, dateSpans = p.extractDateTime(text)

	parsed.Amount = p.extractAmount(text, dateSpans)
	parsed.Payee, parsed.PayeeKind = p.extractPayee(text)
	parsed.Items = extractItems(text)

	p.logger.Info("parse.done",
		"amount", parsed.Amount != nil,
		"payee", parsed.HasPayee(),
		"date", parsed.Date != nil,
		"items", len(parsed.Items),
		"confidence", confidence,
	)
	return parsed
}
