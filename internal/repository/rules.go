package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"receiptcheck/internal/entity"
)

// RuleRepository persists the ordered acceptance rule set. Rules loaded
// from the database are evaluated in position order, same as rules read
// from the JSON config.
type RuleRepository interface {
	ReplaceAll(ctx context.Context, ruleset []entity.AcceptanceRule) error
	ListActive(ctx context.Context) ([]entity.AcceptanceRule, error)
}

type sqliteRuleRepository struct {
	db *DB
}

func NewRuleRepository(db *DB) RuleRepository {
	return &sqliteRuleRepository{db: db}
}

// ReplaceAll swaps the stored rule set atomically. The incoming slice
// order becomes the evaluation order.
func (r *sqliteRuleRepository) ReplaceAll(ctx context.Context, ruleset []entity.AcceptanceRule) error {
	tx, err := r.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM acceptance_rules`); err != nil {
		return fmt.Errorf("clear rules: %w", err)
	}

	for i, rule := range ruleset {
		phones, err := encodeList(rule.ValidPhones)
		if err != nil {
			return err
		}
		amounts, err := encodeList(rule.ValidAmounts)
		if err != nil {
			return err
		}
		accounts, err := encodeList(rule.ValidAccounts)
		if err != nil {
			return err
		}
		cards, err := encodeList(rule.ValidCards)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
INSERT INTO acceptance_rules
  (position, name, expected_amount, tolerance, expected_recipient,
   valid_phones, valid_amounts, valid_accounts, valid_cards,
   min_confidence, issuance_file, is_active)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)`,
			i,
			rule.Name,
			nullableFloat(rule.ExpectedAmount),
			rule.Tolerance,
			nullableString(rule.ExpectedRecipient),
			phones,
			amounts,
			accounts,
			cards,
			rule.MinConfidence,
			rule.IssuanceFile,
		)
		if err != nil {
			return fmt.Errorf("insert rule %q: %w", rule.Name, err)
		}
	}
	return tx.Commit()
}

func (r *sqliteRuleRepository) ListActive(ctx context.Context) ([]entity.AcceptanceRule, error) {
	rows, err := r.db.conn.QueryContext(ctx, `
SELECT name, expected_amount, tolerance, expected_recipient,
       valid_phones, valid_amounts, valid_accounts, valid_cards,
       min_confidence, issuance_file
FROM acceptance_rules
WHERE is_active = 1
ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	var out []entity.AcceptanceRule
	for rows.Next() {
		var (
			rule         entity.AcceptanceRule
			amount       sql.NullFloat64
			recipient    sql.NullString
			phones       sql.NullString
			amounts      sql.NullString
			accounts     sql.NullString
			cards        sql.NullString
			issuanceFile sql.NullString
		)
		if err := rows.Scan(&rule.Name, &amount, &rule.Tolerance, &recipient,
			&phones, &amounts, &accounts, &cards,
			&rule.MinConfidence, &issuanceFile); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rule.ID = len(out) + 1
		if amount.Valid {
			rule.ExpectedAmount = &amount.Float64
		}
		if recipient.Valid && recipient.String != "" {
			rule.ExpectedRecipient = &recipient.String
		}
		rule.IssuanceFile = issuanceFile.String
		if err := decodeList(phones, &rule.ValidPhones); err != nil {
			return nil, err
		}
		if err := decodeList(amounts, &rule.ValidAmounts); err != nil {
			return nil, err
		}
		if err := decodeList(accounts, &rule.ValidAccounts); err != nil {
			return nil, err
		}
		if err := decodeList(cards, &rule.ValidCards); err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}

// List columns are stored as JSON arrays in TEXT; empty slices store NULL.
func encodeList[T any](list []T) (any, error) {
	if len(list) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return nil, fmt.Errorf("encode rule list: %w", err)
	}
	return string(raw), nil
}

func decodeList[T any](col sql.NullString, dst *[]T) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(col.String), dst); err != nil {
		return fmt.Errorf("decode rule list: %w", err)
	}
	return nil
}
