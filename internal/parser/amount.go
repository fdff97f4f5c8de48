package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Amount extraction runs in tiers; the first tier that yields a candidate
// wins, and within a tier the leftmost parseable candidate wins.
//
//	tier 1: keyword-anchored capture ("сумма: 1500")
//	tier 2: currency-suffixed capture ("1500 руб"), minus exchange contexts
//	tier 3: any bare two-fraction-digit decimal outside date spans

const exclusionRadius = 50 // runes around a currency match scanned for exclusion terms

var reBareDecimal = regexp.MustCompile(`\d+[.,]\d{2}`)

func (p *Parser) extractAmount(text string, dateSpans [][2]int) *float64 {
	if a := p.amountByKeyword(text); a != nil {
		return a
	}
	if a := p.amountByCurrency(text); a != nil {
		return a
	}
	return p.amountBareDecimal(text, dateSpans)
}

// amountByKeyword captures the digits run right after an amount keyword.
func (p *Parser) amountByKeyword(text string) *float64 {
	best := -1
	var bestVal float64
	for _, re := range p.amountKeywordRes {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			val, ok := parseAmountValue(text[m[2]:m[3]], p.cfg.MinAmount, p.cfg.MaxAmount)
			if !ok {
				continue
			}
			if best == -1 || m[0] < best {
				best, bestVal = m[0], val
			}
		}
	}
	if best == -1 {
		return nil
	}
	p.logger.Debug("parse.amount", "tier", "keyword", "value", bestVal)
	return &bestVal
}

// amountByCurrency tries the configured currency-suffixed patterns in
// declared order. A match whose surrounding context mentions an exclusion
// term (exchange-rate talk) is discarded even if otherwise valid.
func (p *Parser) amountByCurrency(text string) *float64 {
	for _, re := range p.amountPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			start, end := m[0], m[1]
			capStart, capEnd := start, end
			if len(m) >= 4 && m[2] >= 0 {
				capStart, capEnd = m[2], m[3]
			}
			if p.inExclusionContext(text, start, end) {
				p.logger.Debug("parse.amount_excluded", "token", text[capStart:capEnd])
				continue
			}
			if val, ok := parseAmountValue(text[capStart:capEnd], p.cfg.MinAmount, p.cfg.MaxAmount); ok {
				p.logger.Debug("parse.amount", "tier", "currency", "value", val)
				return &val
			}
		}
	}
	return nil
}

// amountBareDecimal accepts any NN.NN token that does not sit inside a
// span already claimed as a date.
func (p *Parser) amountBareDecimal(text string, dateSpans [][2]int) *float64 {
	for _, m := range reBareDecimal.FindAllStringIndex(text, -1) {
		claimed := false
		for _, span := range dateSpans {
			if overlaps(m[0], m[1], span[0], span[1]) {
				claimed = true
				break
			}
		}
		if claimed {
			continue
		}
		if val, ok := parseAmountValue(text[m[0]:m[1]], p.cfg.MinAmount, p.cfg.MaxAmount); ok {
			p.logger.Debug("parse.amount", "tier", "bare", "value", val)
			return &val
		}
	}
	return nil
}

func (p *Parser) inExclusionContext(text string, start, end int) bool {
	window := strings.ToLower(contextWindow(text, start, end, exclusionRadius))
	for _, term := range p.cfg.ExclusionTerms {
		if term != "" && strings.Contains(window, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

// parseAmountValue turns a raw captured token into a decimal: inner spaces
// are OCR artifacts and are dropped, a comma is a decimal point. Values
// outside [min, max] are rejected.
func parseAmountValue(raw string, min, max float64) (float64, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.TrimSuffix(cleaned, ".")
	if cleaned == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if val < min || val > max {
		return 0, false
	}
	return val, true
}
