package parser

import (
	"receiptcheck/constants"
)

// Config carries the pattern lists, keyword lists and bounds the extractor
// runs with. Every variant-specific behavior of the old copy-paste parsers
// is data here, not a code branch.
type Config struct {
	PhonePatterns []string
	PhoneKeywords []string

	AmountPatterns []string
	AmountKeywords []string
	// ExclusionTerms reject currency-suffixed amounts found inside an
	// exchange-rate context ("курс 1500 руб за 1 EUR").
	ExclusionTerms []string
	MinAmount      float64
	MaxAmount      float64

	AccountPatterns []string
	AccountKeywords []string
}

// DefaultConfig mirrors the built-in fallback used when no config document
// is available.
func DefaultConfig() Config {
	return Config{
		PhonePatterns: []string{
			`(\+?7|8)[\s\-()]?(\d{3})[\s\-()]?(\d{3})[\s\-()]?(\d{2})[\s\-()]?(\d{2})`,
			`(\+?7|8)[\s\-()]?(\d{3})[\s\-()]?(\d{3})[\s\-()]?(\d{4})`,
			`(\+?7|8)(\d{10})`,
		},
		PhoneKeywords: []string{"телефон", "номер телефона", "мобильный", "на телефон", "контакт"},

		AmountPatterns: []string{
			`(\d+(?:[.,]\d{2})?)\s*(?:руб|₽|rub|р\.)`,
		},
		AmountKeywords: []string{"сумма", "итого", "к оплате", "перевод"},
		ExclusionTerms: []string{"курс", "обмен", "exchange"},
		MinAmount:      constants.DefaultMinAmount,
		MaxAmount:      constants.DefaultMaxAmount,

		AccountPatterns: []string{
			`(\d{20})`,
			`(\d{16})`,
		},
		AccountKeywords: []string{"счет", "счёт", "карта", "получатель"},
	}
}
