package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/daryltucker/pi-accuracy/internal/model"
)

// ErrNotFound is returned when an analysis id is unknown.
var ErrNotFound = errors.New("analysis not found")

// Analysis is one reduction over a set of runs.
type Analysis struct {
	ID        string
	CreatedAt time.Time
	Reference string
	Records   []model.RunRecord
	Rows      []model.SummaryRow
}

// AnalysisInfo describes a stored analysis without its rows.
type AnalysisInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Reference string    `json:"reference"`
	Runs      int       `json:"runs"`
	Rows      int       `json:"rows"`
}

// SaveAnalysis stores a in a single transaction. An empty ID is replaced
// with a new one; a zero CreatedAt with the current time. The stored id is
// returned.
func (s *Store) SaveAnalysis(ctx context.Context, a Analysis) (string, error) {
	if a.ID == "" {
		a.ID = NewID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO analyses (id, created_at, reference) VALUES (?, ?, ?)`,
			a.ID, a.CreatedAt.UTC().Format(time.RFC3339Nano), a.Reference,
		); err != nil {
			return fmt.Errorf("insert analysis: %w", err)
		}

		for i, r := range a.Records {
			extra := "{}"
			if len(r.Parameters.Extra) > 0 {
				b, err := json.Marshal(r.Parameters.Extra)
				if err != nil {
					return fmt.Errorf("marshal extra parameters of run %d: %w", i, err)
				}
				extra = string(b)
			}

			var correct, waste sql.NullInt64
			if r.Accuracy != nil {
				correct = sql.NullInt64{Int64: int64(r.Accuracy.CorrectDigits), Valid: true}
				waste = sql.NullInt64{Int64: int64(r.Accuracy.WasteDigits), Valid: true}
			}

			if _, err := tx.ExecContext(ctx, `
				INSERT INTO run_records
					(analysis_id, seq, method, precision, iterations, extra,
					 correct_digits, waste_digits, walltime, dir, error)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				a.ID, i, r.Parameters.Method, r.Parameters.Precision, r.Parameters.Iterations, extra,
				correct, waste, r.Walltime, r.Dir, r.Error,
			); err != nil {
				return fmt.Errorf("insert run %d: %w", i, err)
			}
		}

		for i, row := range a.Rows {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO summary_rows
					(analysis_id, seq, method, iterations, precision, max_digits,
					 waste_digits, walltime, run_index)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				a.ID, i, row.Method, row.Iterations, row.Precision, row.MaxDigits,
				row.WasteDigits, row.Walltime, row.RunIndex,
			); err != nil {
				return fmt.Errorf("insert summary row %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return a.ID, nil
}

// ListAnalyses returns stored analyses, oldest first.
func (s *Store) ListAnalyses(ctx context.Context) ([]AnalysisInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.created_at, a.reference,
			(SELECT COUNT(*) FROM run_records r WHERE r.analysis_id = a.id),
			(SELECT COUNT(*) FROM summary_rows s WHERE s.analysis_id = a.id)
		FROM analyses a
		ORDER BY a.created_at, a.id`)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	var out []AnalysisInfo
	for rows.Next() {
		var info AnalysisInfo
		var created string
		if err := rows.Scan(&info.ID, &created, &info.Reference, &info.Runs, &info.Rows); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		if info.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created_at of %s: %w", info.ID, err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Summary returns the summary rows of one analysis in emitted order.
func (s *Store) Summary(ctx context.Context, id string) ([]model.SummaryRow, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT method, iterations, precision, max_digits, waste_digits, walltime, run_index
		FROM summary_rows
		WHERE analysis_id = ?
		ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("query summary of %s: %w", id, err)
	}
	defer rows.Close()

	out := []model.SummaryRow{}
	for rows.Next() {
		var r model.SummaryRow
		if err := rows.Scan(&r.Method, &r.Iterations, &r.Precision, &r.MaxDigits,
			&r.WasteDigits, &r.Walltime, &r.RunIndex); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Records returns the run records of one analysis in input order.
func (s *Store) Records(ctx context.Context, id string) ([]model.RunRecord, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT method, precision, iterations, extra, correct_digits, waste_digits,
			walltime, dir, error
		FROM run_records
		WHERE analysis_id = ?
		ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("query records of %s: %w", id, err)
	}
	defer rows.Close()

	out := []model.RunRecord{}
	for rows.Next() {
		var r model.RunRecord
		var extra string
		var correct, waste sql.NullInt64
		if err := rows.Scan(&r.Parameters.Method, &r.Parameters.Precision, &r.Parameters.Iterations,
			&extra, &correct, &waste, &r.Walltime, &r.Dir, &r.Error); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		if extra != "" && extra != "{}" {
			if err := json.Unmarshal([]byte(extra), &r.Parameters.Extra); err != nil {
				return nil, fmt.Errorf("decode extra parameters: %w", err)
			}
		}
		if correct.Valid && waste.Valid {
			r.Accuracy = &model.AccuracyResult{
				CorrectDigits: int(correct.Int64),
				WasteDigits:   int(waste.Int64),
			}
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) exists(ctx context.Context, id string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM analyses WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("lookup analysis %s: %w", id, err)
	}
	return nil
}
