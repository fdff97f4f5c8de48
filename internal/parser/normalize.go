package parser

import "strings"

// NormalizePhone canonicalizes a raw phone token to the 11-digit,
// leading-'7' form. It returns "" when the token cannot be a Russian
// phone number. The function is idempotent on its own output.
func NormalizePhone(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' || r == '+' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()

	switch {
	case len(cleaned) == 11 && cleaned[0] == '7':
		return cleaned
	case len(cleaned) == 11 && cleaned[0] == '8':
		return "7" + cleaned[1:]
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, "+7"):
		return cleaned[1:]
	case len(cleaned) == 10 && cleaned[0] != '7' && !strings.ContainsRune(cleaned, '+'):
		return "7" + cleaned
	}
	return ""
}

// NormalizeAccount strips non-digits and accepts the result only at the
// two credential lengths: 16 (card) or 20 (bank account).
func NormalizeAccount(raw string) string {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if len(cleaned) == 16 || len(cleaned) == 20 {
		return cleaned
	}
	return ""
}
