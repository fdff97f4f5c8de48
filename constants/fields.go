package constants

// Field is the canonical name for a receipt field referenced by the
// validation requirements (required_fields / optional_fields).
type Field string

// Stable values (these exact strings appear in config documents and DB rows).
const (
	FieldAmount    Field = "amount"
	FieldRecipient Field = "recipient"
	FieldDate      Field = "date"
	FieldTime      Field = "time"
	FieldItems     Field = "items"
)

// PayeeKind classifies the recipient credential extracted from a receipt.
type PayeeKind string

const (
	PayeePhone      PayeeKind = "PHONE"       // normalized 11-digit phone, leading '7'
	PayeeCard       PayeeKind = "CARD"        // contiguous 16-digit card number
	PayeeAccount    PayeeKind = "ACCOUNT"     // contiguous 20-digit bank account
	PayeeCardMasked PayeeKind = "CARD_MASKED" // "label •• 1234" named-card form
)

const (
	// DefaultMinConfidence is the OCR confidence floor when the config
	// document does not set validation.min_confidence.
	DefaultMinConfidence = 50.0

	// DefaultAmountTolerance is the allowed |parsed-expected| delta for
	// amount checks, in currency units.
	DefaultAmountTolerance = 0.01

	// Amount sanity bounds applied by every extraction tier.
	DefaultMinAmount = 0.01
	DefaultMaxAmount = 10_000_000
)
