package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/customs/internal/common"
	"github.com/Veraticus/customs/internal/model"
	"github.com/Veraticus/customs/internal/submission"
)

var _ submission.Recorder = (*SQLiteStorage)(nil)

// DefaultListLimit caps ListCalculations when no limit is given.
const DefaultListLimit = 50

// ListOptions filters the journal.
type ListOptions struct {
	// Code keeps records whose code starts with this prefix.
	Code  string
	Since time.Time
	Limit int
}

// SaveCalculation appends a calculation to the journal.
func (s *SQLiteStorage) SaveCalculation(ctx context.Context, record *model.CalculationRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRecord(record); err != nil {
		return err
	}

	request, err := json.Marshal(record.Request)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	result, err := json.Marshal(record.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO calculations (
			id, created_at, code, display_name, country_origin, currency,
			price, total_uzs, duty_rate_type, request_json, result_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID,
		record.CreatedAt.UTC(),
		strings.TrimSpace(record.Request.Code),
		record.DisplayName,
		record.Request.CountryOrigin,
		record.Request.Currency,
		record.Request.Price,
		record.Result.TotalUZS,
		string(record.Result.DutyRateType),
		string(request),
		string(result),
	)
	if err != nil {
		return fmt.Errorf("failed to save calculation: %w", err)
	}
	return nil
}

// GetCalculation returns one record by id. An unknown id wraps common.ErrNotFound.
func (s *SQLiteStorage) GetCalculation(ctx context.Context, id string) (*model.CalculationRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, created_at, display_name, request_json, result_json
		FROM calculations WHERE id = ?`, id)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("calculation %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListCalculations returns records newest first.
func (s *SQLiteStorage) ListCalculations(ctx context.Context, opts ListOptions) ([]model.CalculationRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	var (
		where []string
		args  []any
	)
	if code := strings.TrimSpace(opts.Code); code != "" {
		where = append(where, "code LIKE ? ESCAPE '\\'")
		args = append(args, escapeLike(code)+"%")
	}
	if !opts.Since.IsZero() {
		where = append(where, "created_at >= ?")
		args = append(args, opts.Since.UTC())
	}

	query := `SELECT id, created_at, display_name, request_json, result_json FROM calculations`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list calculations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.CalculationRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate calculations: %w", err)
	}
	return records, nil
}

// CountCalculations returns the number of records in the journal.
func (s *SQLiteStorage) CountCalculations(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM calculations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count calculations: %w", err)
	}
	return n, nil
}

// DeleteCalculationsBefore removes records older than cutoff and reports how many went.
func (s *SQLiteStorage) DeleteCalculationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM calculations WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune calculations: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*model.CalculationRecord, error) {
	var (
		record      model.CalculationRecord
		displayName sql.NullString
		request     string
		result      string
	)
	if err := row.Scan(&record.ID, &record.CreatedAt, &displayName, &request, &result); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan calculation: %w", err)
	}

	record.DisplayName = displayName.String
	if err := json.Unmarshal([]byte(request), &record.Request); err != nil {
		return nil, fmt.Errorf("calculation %s: failed to decode request: %w", record.ID, err)
	}
	if err := json.Unmarshal([]byte(result), &record.Result); err != nil {
		return nil, fmt.Errorf("calculation %s: failed to decode result: %w", record.ID, err)
	}
	return &record, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
