package prefstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"talent-match/internal/config"
	"talent-match/internal/domain/match"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres reads learned weight vectors and records feedback rows.
type Postgres struct {
	pool *pgxpool.Pool
}

// Connect opens a pooled connection to the preference database.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Postgres, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		strings.TrimSpace(cfg.DBHost),
		strings.TrimSpace(cfg.DBPort),
		strings.TrimSpace(cfg.DBUser),
		cfg.DBPassword,
		strings.TrimSpace(cfg.DBName),
		strings.TrimSpace(cfg.DBSSLMode),
	)

	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, err
	}

	pingCtx := ctx
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}

func (p *Postgres) GetWeights(ctx context.Context, userID uuid.UUID) (match.WeightVector, error) {
	var raw []byte
	var version string
	err := p.pool.QueryRow(ctx,
		`SELECT weights, version
		 FROM user_weight_vectors
		 WHERE user_id = $1
		 ORDER BY updated_at DESC
		 LIMIT 1`,
		userID,
	).Scan(&raw, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return match.WeightVector{}, ErrNotFound
		}
		return match.WeightVector{}, err
	}

	values := make(map[string]float64)
	if err := json.Unmarshal(raw, &values); err != nil {
		return match.WeightVector{}, fmt.Errorf("decode weight vector: %w", err)
	}
	return match.WeightVector{Values: values, Version: version}, nil
}

func (p *Postgres) RecordFeedback(ctx context.Context, userID, jobID uuid.UUID, outcome string) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO match_feedback (user_id, job_id, outcome, created_at)
		 VALUES ($1, $2, $3, NOW())`,
		userID, jobID, strings.TrimSpace(outcome),
	)
	return err
}

func (p *Postgres) FeedbackCount(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM match_feedback WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

var _ Store = (*Postgres)(nil)
