package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go-jobfinder-automation/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const schema = `
CREATE TABLE IF NOT EXISTS job_history (
	fingerprint   TEXT PRIMARY KEY,
	first_seen_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS job_runs (
	id              TEXT PRIMARY KEY,
	status          TEXT NOT NULL,
	fetched         INTEGER NOT NULL,
	accepted        INTEGER NOT NULL,
	rejected        INTEGER NOT NULL,
	provider_calls  INTEGER NOT NULL,
	failed_searches INTEGER NOT NULL,
	started_at      TIMESTAMPTZ NOT NULL,
	finished_at     TIMESTAMPTZ NOT NULL
);`

// Repository is a Postgres-backed history store. Reads are served from memory
// after Load; Add is buffered until Save.
type Repository struct {
	db     *pgxpool.Pool
	logger *zap.Logger

	mu      sync.Mutex
	seen    map[string]time.Time
	pending map[string]time.Time
	now     func() time.Time
}

func ConnectDB(ctx context.Context, connString string, logger *zap.Logger) (*Repository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database url: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour

	//transaction-mode poolers (PgBouncer, Supabase) can't use prepared statements
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable: %w", err)
	}

	return &Repository{
		db:      pool,
		logger:  logger,
		seen:    make(map[string]time.Time),
		pending: make(map[string]time.Time),
		now:     time.Now,
	}, nil
}

func (r *Repository) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

// ---------------- HISTORY OPERATIONS ----------------

// Load creates the schema if needed and reads every fingerprint into memory.
func (r *Repository) Load(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	rows, err := r.db.Query(ctx, "SELECT fingerprint, first_seen_at FROM job_history")
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	entries, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.HistoryEntry])
	if err != nil {
		return fmt.Errorf("failed to scan history: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = make(map[string]time.Time, len(entries))
	for _, e := range entries {
		r.seen[e.Fingerprint] = e.FirstSeenAt
	}
	r.logger.Info("Loaded job history from database", zap.Int("entries", len(entries)))
	return nil
}

func (r *Repository) IsSeen(fingerprint string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.seen[fingerprint]
	return exists
}

func (r *Repository) Add(fingerprint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	r.seen[fingerprint] = now
	r.pending[fingerprint] = now
}

func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

// Save upserts every fingerprint added since the last Save.
func (r *Repository) Save(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for fp, ts := range r.pending {
		batch.Queue(`
			INSERT INTO job_history (fingerprint, first_seen_at)
			VALUES ($1, $2)
			ON CONFLICT (fingerprint)
			DO UPDATE SET first_seen_at = EXCLUDED.first_seen_at`, fp, ts)
	}
	if err := r.db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}

	r.logger.Info("Saved job history to database", zap.Int("upserted", len(r.pending)))
	r.pending = make(map[string]time.Time)
	return nil
}

func (r *Repository) EvictOlderThan(ctx context.Context, days int) (int, error) {
	cutoff := models.EvictionCutoff(r.now(), days)

	tag, err := r.db.Exec(ctx, "DELETE FROM job_history WHERE first_seen_at <= $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to evict history: %w", err)
	}

	r.mu.Lock()
	for fp, ts := range r.seen {
		if models.Expired(ts, cutoff) {
			delete(r.seen, fp)
		}
	}
	r.mu.Unlock()

	removed := int(tag.RowsAffected())
	if removed > 0 {
		r.logger.Info("Evicted old history entries", zap.Int("removed", removed), zap.Int("days", days))
	}
	return removed, nil
}

// ---------------- RUN OPERATIONS ----------------

// SaveRun records the outcome of one pipeline execution.
func (r *Repository) SaveRun(ctx context.Context, run models.RunRecord) error {
	query := `
		INSERT INTO job_runs (id, status, fetched, accepted, rejected, provider_calls, failed_searches, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id)
		DO UPDATE SET status = EXCLUDED.status, finished_at = EXCLUDED.finished_at`

	_, err := r.db.Exec(ctx, query, run.ID, run.Status, run.Fetched, run.Accepted, run.Rejected,
		run.ProviderCalls, run.FailedSearches, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// RecentRuns returns the latest runs, newest first.
func (r *Repository) RecentRuns(ctx context.Context, limit int) ([]models.RunRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, status, fetched, accepted, rejected, provider_calls, failed_searches, started_at, finished_at
		FROM job_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	runs, err := pgx.CollectRows(rows, pgx.RowToStructByPos[models.RunRecord])
	if err != nil {
		return nil, fmt.Errorf("failed to scan runs: %w", err)
	}
	return runs, nil
}
