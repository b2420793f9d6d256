package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/equitylens/backend/internal/contracts"
)

// ScoreRepository persists scoring runs to Postgres. Each run is stored as a
// full JSONB document alongside the columns the API queries on.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

// NewScoreRepository creates a new score repository
func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// Save appends one scoring run for a ticker
func (r *ScoreRepository) Save(ctx context.Context, result *contracts.ScoreResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal score result: %w", err)
	}

	var composite float64
	if result.Factors != nil {
		composite = result.Factors.CompositeScore
	}

	query := `
		INSERT INTO scores.runs (
			ticker, scored_at, composite, label, result
		) VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ticker, scored_at) DO UPDATE SET
			composite = EXCLUDED.composite,
			label = EXCLUDED.label,
			result = EXCLUDED.result
	`

	_, err = r.pool.Exec(ctx, query,
		result.Ticker, result.Timestamp, composite, result.Label, resultJSON,
	)

	if err != nil {
		return fmt.Errorf("failed to save score result: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recent scoring run for a ticker
func (r *ScoreRepository) GetLatest(ctx context.Context, ticker string) (*contracts.ScoreResult, error) {
	query := `
		SELECT result
		FROM scores.runs
		WHERE ticker = $1
		ORDER BY scored_at DESC
		LIMIT 1
	`

	var resultJSON []byte
	err := r.pool.QueryRow(ctx, query, ticker).Scan(&resultJSON)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("no score found for ticker %s", ticker)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest score: %w", err)
	}

	var result contracts.ScoreResult
	if err := json.Unmarshal(resultJSON, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score result: %w", err)
	}

	return &result, nil
}

// ListLatest retrieves the most recent scoring run per ticker, highest
// composite first.
func (r *ScoreRepository) ListLatest(ctx context.Context, limit int) ([]*contracts.ScoreResult, error) {
	query := `
		SELECT result
		FROM (
			SELECT DISTINCT ON (ticker) result, composite
			FROM scores.runs
			ORDER BY ticker, scored_at DESC
		) latest
		ORDER BY composite DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest scores: %w", err)
	}
	defer rows.Close()

	results := make([]*contracts.ScoreResult, 0)

	for rows.Next() {
		var resultJSON []byte
		if err := rows.Scan(&resultJSON); err != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", err)
		}

		var result contracts.ScoreResult
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal score result: %w", err)
		}

		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}

// History retrieves up to limit runs for a ticker, newest first.
func (r *ScoreRepository) History(ctx context.Context, ticker string, limit int) ([]*contracts.ScoreResult, error) {
	query := `
		SELECT result
		FROM scores.runs
		WHERE ticker = $1
		ORDER BY scored_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query score history: %w", err)
	}
	defer rows.Close()

	results := make([]*contracts.ScoreResult, 0)

	for rows.Next() {
		var resultJSON []byte
		if err := rows.Scan(&resultJSON); err != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", err)
		}

		var result contracts.ScoreResult
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal score result: %w", err)
		}

		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return results, nil
}
