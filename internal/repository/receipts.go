package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"receiptcheck/constants"
	"receiptcheck/internal/entity"
)

// ReceiptRecord is a stored validation outcome.
type ReceiptRecord struct {
	ID          uuid.UUID
	Amount      *float64
	Payee       *string
	PayeeKind   constants.PayeeKind
	Date        *time.Time
	Time        *time.Time
	Confidence  float64
	IsValid     bool
	MatchedRule string
	Score       float64
	Message     string
	RawText     string
	CreatedAt   time.Time
}

// ReceiptRepository persists validation outcomes.
type ReceiptRepository interface {
	SaveResult(ctx context.Context, result *entity.ValidationResult) (uuid.UUID, error)
	ListResults(ctx context.Context, limit int) ([]ReceiptRecord, error)
}

type sqliteReceiptRepository struct {
	db *DB
}

func NewReceiptRepository(db *DB) ReceiptRepository {
	return &sqliteReceiptRepository{db: db}
}

func (r *sqliteReceiptRepository) SaveResult(ctx context.Context, result *entity.ValidationResult) (uuid.UUID, error) {
	if result == nil || result.Receipt == nil {
		return uuid.Nil, fmt.Errorf("save result: missing receipt")
	}
	parsed := result.Receipt
	id := uuid.New()

	var dateS, timeS any
	if parsed.Date != nil {
		dateS = parsed.Date.Format("2006-01-02")
	}
	if parsed.Time != nil {
		timeS = parsed.Time.Format("15:04:05")
	}

	_, err := r.db.conn.ExecContext(ctx, `
INSERT INTO receipts
  (id, amount, payee, payee_kind, receipt_date, receipt_time, confidence,
   is_valid, matched_rule, score, message, raw_text, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(),
		nullableFloat(parsed.Amount),
		nullableString(parsed.Payee),
		string(parsed.PayeeKind),
		dateS,
		timeS,
		parsed.Confidence,
		boolToInt(result.IsValid),
		result.MatchedRuleName,
		result.ConfidenceScore,
		result.Message,
		parsed.RawText,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert receipt: %w", err)
	}
	return id, nil
}

func (r *sqliteReceiptRepository) ListResults(ctx context.Context, limit int) ([]ReceiptRecord, error) {
	if limit <= 0 {
		limit = 1000
	}
	rows, err := r.db.conn.QueryContext(ctx, `
SELECT id, amount, payee, payee_kind, receipt_date, receipt_time,
       confidence, is_valid, matched_rule, score, message, raw_text, created_at
FROM receipts
ORDER BY created_at DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query receipts: %w", err)
	}
	defer rows.Close()

	var out []ReceiptRecord
	for rows.Next() {
		var (
			rec         ReceiptRecord
			idS         string
			amount      sql.NullFloat64
			payee       sql.NullString
			kind        sql.NullString
			dateS       sql.NullString
			timeS       sql.NullString
			isValid     int
			matchedRule sql.NullString
			message     sql.NullString
			rawText     sql.NullString
			createdAt   string
		)
		if err := rows.Scan(&idS, &amount, &payee, &kind, &dateS, &timeS,
			&rec.Confidence, &isValid, &matchedRule, &rec.Score, &message, &rawText, &createdAt); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		rec.ID, err = uuid.Parse(idS)
		if err != nil {
			return nil, fmt.Errorf("parse receipt id: %w", err)
		}
		if amount.Valid {
			rec.Amount = &amount.Float64
		}
		if payee.Valid && payee.String != "" {
			rec.Payee = &payee.String
		}
		if kind.Valid {
			rec.PayeeKind = constants.PayeeKind(kind.String)
		}
		if dateS.Valid && dateS.String != "" {
			if d, err := time.Parse("2006-01-02", dateS.String); err == nil {
				rec.Date = &d
			}
		}
		if timeS.Valid && timeS.String != "" {
			if t, err := time.Parse("15:04:05", timeS.String); err == nil {
				rec.Time = &t
			}
		}
		rec.IsValid = isValid != 0
		rec.MatchedRule = matchedRule.String
		rec.Message = message.String
		rec.RawText = rawText.String
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			rec.CreatedAt = ts
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func nullableString(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
