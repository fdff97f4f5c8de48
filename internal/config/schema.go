package config

// BuildConfigJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. Config documents are validated against it at load time, so
// a typo'd key or a wrongly-typed list fails loudly instead of silently
// disabling a check.
func BuildConfigJSONSchema() map[string]any {
	patternList := map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"pattern":     map[string]any{"type": "string", "minLength": 1},
				"description": map[string]any{"type": "string"},
			},
			"required": []string{"pattern"},
		},
	}
	stringList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string", "minLength": 1},
	}
	numberList := map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "number", "exclusiveMinimum": 0.0},
	}
	digitsList := func(pattern string) map[string]any {
		return map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string", "pattern": pattern},
		}
	}

	rule := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"id":                 map[string]any{"type": "integer"},
			"name":               map[string]any{"type": "string", "minLength": 1},
			"expected_amount":    map[string]any{"type": "number", "exclusiveMinimum": 0.0},
			"tolerance":          map[string]any{"type": "number", "minimum": 0.0},
			"expected_recipient": map[string]any{"type": "string", "minLength": 1},
			"valid_phones":       stringList,
			"valid_amounts":      numberList,
			"valid_accounts":     digitsList(`^\d{20}$`),
			"valid_cards":        digitsList(`^\d{16}$`),
			"min_confidence":     map[string]any{"type": "number", "minimum": 0.0, "maximum": 100.0},
			"issuance_file":      map[string]any{"type": "string"},
		},
		"required": []string{"name"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"phone_validation": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"patterns":     patternList,
					"valid_phones": stringList,
					"keywords":     stringList,
				},
			},
			"amount_validation": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"patterns":        patternList,
					"valid_amounts":   numberList,
					"keywords":        stringList,
					"exclusion_terms": stringList,
					"min_amount":      map[string]any{"type": "number", "minimum": 0.0},
					"max_amount":      map[string]any{"type": "number", "exclusiveMinimum": 0.0},
				},
			},
			"account_validation": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"patterns":       patternList,
					"valid_accounts": digitsList(`^\d{20}$`),
					"valid_cards":    digitsList(`^\d{16}$`),
					"keywords":       stringList,
				},
			},
			"validation": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"min_confidence":   map[string]any{"type": "number", "minimum": 0.0, "maximum": 100.0},
					"amount_tolerance": map[string]any{"type": "number", "minimum": 0.0},
					"requirements": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"properties": map[string]any{
							"required_fields": stringList,
							"optional_fields": stringList,
						},
					},
				},
			},
			"rules": map[string]any{"type": "array", "items": rule},
		},
	}
}
