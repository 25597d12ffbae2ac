package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"kalshi-hedge-fund/internal/types"
)

// FundRepo persists analyses, signals and executions.
type FundRepo struct {
	pool *pgxpool.Pool
}

// NewFundRepo creates a new FundRepo.
func NewFundRepo(pool *pgxpool.Pool) *FundRepo {
	return &FundRepo{pool: pool}
}

// SaveAnalysis stores a combined contract analysis.
func (r *FundRepo) SaveAnalysis(ctx context.Context, a types.Analysis) (uuid.UUID, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal analysis: %w", err)
	}

	id := uuid.New()
	query := `INSERT INTO analyses (id, contract_id, payload, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.pool.Exec(ctx, query, id, a.ContractID, payload, time.Now().UTC()); err != nil {
		return uuid.Nil, fmt.Errorf("insert analysis: %w", err)
	}
	return id, nil
}

// SaveSignal stores a generated signal.
func (r *FundRepo) SaveSignal(ctx context.Context, s types.Signal) (uuid.UUID, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal signal: %w", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO signals (id, contract_id, action, confidence, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.pool.Exec(ctx, query, id, s.ContractID, s.Action, s.Confidence, payload, time.Now().UTC()); err != nil {
		return uuid.Nil, fmt.Errorf("insert signal: %w", err)
	}
	return id, nil
}

// SaveExecution stores a trade execution result.
func (r *FundRepo) SaveExecution(ctx context.Context, e types.Execution) (uuid.UUID, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal execution: %w", err)
	}

	id := uuid.New()
	query := `
		INSERT INTO executions (id, contract_id, status, order_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.pool.Exec(ctx, query, id, e.ContractID, e.Status, nullString(e.OrderID), payload, time.Now().UTC()); err != nil {
		return uuid.Nil, fmt.Errorf("insert execution: %w", err)
	}
	return id, nil
}

// LatestAnalysis returns the most recent stored analysis for a contract.
func (r *FundRepo) LatestAnalysis(ctx context.Context, contractID string) (types.Analysis, error) {
	query := `
		SELECT payload FROM analyses
		WHERE contract_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var payload []byte
	err := r.pool.QueryRow(ctx, query, contractID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return types.Analysis{}, ErrNotFound
	}
	if err != nil {
		return types.Analysis{}, fmt.Errorf("select analysis: %w", err)
	}

	var a types.Analysis
	if err := json.Unmarshal(payload, &a); err != nil {
		return types.Analysis{}, fmt.Errorf("unmarshal analysis: %w", err)
	}
	return a, nil
}

// RecentSignals returns up to limit signals for a contract, newest first.
func (r *FundRepo) RecentSignals(ctx context.Context, contractID string, limit int) ([]types.Signal, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT payload FROM signals
		WHERE contract_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, contractID, limit)
	if err != nil {
		return nil, fmt.Errorf("select signals: %w", err)
	}
	defer rows.Close()

	var signals []types.Signal
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan signal: %w", err)
		}
		var s types.Signal
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, fmt.Errorf("unmarshal signal: %w", err)
		}
		signals = append(signals, s)
	}
	return signals, rows.Err()
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
