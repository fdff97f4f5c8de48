package parser

import (
	"regexp"
	"sort"
	"strings"

	"receiptcheck/constants"
)

// Payee extraction priorities, first success wins:
//
//	1. named-card pattern "Сбербанк • 4312" -> "Сбербанк •• 4312"
//	2. contiguous 16-digit token (card)
//	3. contiguous 20-digit token (bank account)
//	4. 10-11 digit token starting with 7/8 (phone, normalized)
//
// Within a tier, a candidate sitting 0-30 runes after a relevant keyword
// beats keyword-less candidates; position breaks the remaining ties.
// Recovery mode reassembles a phone from adjacent 2-4 digit groups and is
// used only when every tier comes up empty.

const keywordRadius = 30 // runes between a keyword and the candidate it vouches for

var (
	reNamedCard  = regexp.MustCompile(`(\p{L}[\p{L} .\-]{0,30}?)\s*[•*]{1,2}\s*(\d{2,6})`)
	reDigitRun   = regexp.MustCompile(`\d+`)
	reDigitGroup = regexp.MustCompile(`\d{2,4}`)
)

type payeeCandidate struct {
	tier      int
	pos       int
	value     string
	kind      constants.PayeeKind
	keyworded bool
}

func (p *Parser) extractPayee(text string) (*string, constants.PayeeKind) {
	keywordEnds := p.payeeKeywordEnds(text)

	candidates := p.collectPayeeCandidates(text, keywordEnds)
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.keyworded != b.keyworded {
			return a.keyworded
		}
		return a.pos < b.pos
	})
	if len(candidates) > 0 {
		c := candidates[0]
		p.logger.Debug("parse.payee", "kind", c.kind, "tier", c.tier, "keyworded", c.keyworded)
		return &c.value, c.kind
	}

	// Recovery: the number survived OCR only as scattered digit groups.
	if phone := p.recoverPhone(text); phone != "" {
		p.logger.Debug("parse.payee", "kind", constants.PayeePhone, "tier", "recovery")
		return &phone, constants.PayeePhone
	}

	p.logger.Debug("parse.payee_absent")
	return nil, ""
}

func (p *Parser) collectPayeeCandidates(text string, keywordEnds []int) []payeeCandidate {
	var out []payeeCandidate

	near := func(pos int) bool {
		for _, end := range keywordEnds {
			if end <= pos && runesBetween(text, end, pos) <= keywordRadius {
				return true
			}
		}
		return false
	}

	// Tier 1: named-card "label • digits".
	for _, m := range reNamedCard.FindAllStringSubmatchIndex(text, -1) {
		label := strings.TrimSpace(text[m[2]:m[3]])
		digits := text[m[4]:m[5]]
		if label == "" {
			continue
		}
		out = append(out, payeeCandidate{
			tier:      1,
			pos:       m[0],
			value:     label + " •• " + digits,
			kind:      constants.PayeeCardMasked,
			keyworded: near(m[0]),
		})
	}

	// Tiers 2-4 work over maximal digit runs so a 20-digit account never
	// doubles as a 16-digit card plus change.
	for _, m := range reDigitRun.FindAllStringIndex(text, -1) {
		run := text[m[0]:m[1]]
		switch {
		case len(run) == 16:
			out = append(out, payeeCandidate{
				tier: 2, pos: m[0], value: run,
				kind: constants.PayeeCard, keyworded: near(m[0]),
			})
		case len(run) == 20:
			out = append(out, payeeCandidate{
				tier: 3, pos: m[0], value: run,
				kind: constants.PayeeAccount, keyworded: near(m[0]),
			})
		case (len(run) == 10 || len(run) == 11) && (run[0] == '7' || run[0] == '8'):
			if phone := NormalizePhone(run); phone != "" {
				out = append(out, payeeCandidate{
					tier: 4, pos: m[0], value: phone,
					kind: constants.PayeePhone, keyworded: near(m[0]),
				})
			}
		}
	}

	// Configured patterns: capture groups are concatenated, then normalized
	// and classified by length. This is where operator-supplied layouts
	// ("905 - 123 - 45 - 67") get their shot.
	for _, re := range p.phonePatterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			if phone := NormalizePhone(joinGroups(text, m)); phone != "" {
				out = append(out, payeeCandidate{
					tier: 4, pos: m[0], value: phone,
					kind: constants.PayeePhone, keyworded: near(m[0]),
				})
			}
		}
	}
	for _, re := range p.accountPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			acct := NormalizeAccount(joinGroups(text, m))
			if acct == "" {
				continue
			}
			tier, kind := 3, constants.PayeeAccount
			if len(acct) == 16 {
				tier, kind = 2, constants.PayeeCard
			}
			out = append(out, payeeCandidate{
				tier: tier, pos: m[0], value: acct,
				kind: kind, keyworded: near(m[0]),
			})
		}
	}

	// Keyword-anchored captures: the token after "телефон:"/"счет:" may be
	// spaced out ("8 987 933 55 15") and invisible to the digit-run scan.
	for _, re := range p.phoneKeywordRes {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			if phone := NormalizePhone(text[m[2]:m[3]]); phone != "" {
				out = append(out, payeeCandidate{
					tier: 4, pos: m[2], value: phone,
					kind: constants.PayeePhone, keyworded: true,
				})
			}
		}
	}
	for _, re := range p.accountKeywordRes {
		for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
			acct := NormalizeAccount(text[m[2]:m[3]])
			if acct == "" {
				continue
			}
			tier, kind := 3, constants.PayeeAccount
			if len(acct) == 16 {
				tier, kind = 2, constants.PayeeCard
			}
			out = append(out, payeeCandidate{
				tier: tier, pos: m[2], value: acct,
				kind: kind, keyworded: true,
			})
		}
	}

	return out
}

// payeeKeywordEnds returns the byte offset right after each payee keyword
// occurrence.
func (p *Parser) payeeKeywordEnds(text string) []int {
	var ends []int
	lower := strings.ToLower(text)
	keywords := make([]string, 0, len(p.cfg.PhoneKeywords)+len(p.cfg.AccountKeywords))
	keywords = append(keywords, p.cfg.PhoneKeywords...)
	keywords = append(keywords, p.cfg.AccountKeywords...)
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		for from := 0; ; {
			i := strings.Index(lower[from:], kw)
			if i < 0 {
				break
			}
			ends = append(ends, from+i+len(kw))
			from += i + len(kw)
		}
	}
	return ends
}

// recoverPhone reassembles a phone from adjacent 2-4 digit groups: at
// least three consecutive groups whose concatenation is 10-11 digits and
// normalizes successfully. Groups are adjacent when separated by at most
// two non-digit runes.
func (p *Parser) recoverPhone(text string) string {
	groups := reDigitGroup.FindAllStringIndex(text, -1)
	if len(groups) < 3 {
		return ""
	}

	for i := 0; i < len(groups)-2; i++ {
		var concat strings.Builder
		concat.WriteString(text[groups[i][0]:groups[i][1]])
		for j := i + 1; j < len(groups); j++ {
			if runesBetween(text, groups[j-1][1], groups[j][0]) > 2 {
				break
			}
			concat.WriteString(text[groups[j][0]:groups[j][1]])
			if j-i < 2 {
				continue // need >= 3 groups
			}
			s := concat.String()
			if len(s) > 11 {
				break
			}
			if len(s) >= 10 {
				if phone := NormalizePhone(s); phone != "" {
					return phone
				}
			}
		}
	}
	return ""
}
