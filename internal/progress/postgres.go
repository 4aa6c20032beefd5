package progress

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Execer is the slice of the pgx pool API the reporter needs; pgxmock
// satisfies it for tests.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

const crawlJobsMigration = `
CREATE TABLE IF NOT EXISTS crawl_jobs (
	id              TEXT PRIMARY KEY,
	progress        DOUBLE PRECISION NOT NULL DEFAULT 0,
	note            TEXT,
	external_handle TEXT,
	updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// PostgresReporter persists progress rows in a crawl_jobs table so an
// external dashboard can poll them.
type PostgresReporter struct {
	pool    Execer
	closeFn func()
}

// NewPostgres connects a PostgresReporter and ensures its table exists.
func NewPostgres(ctx context.Context, connString string) (*PostgresReporter, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "progress: parse config")
	}
	cfg.MaxConns = 4
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "progress: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "progress: ping")
	}

	r := &PostgresReporter{pool: pool, closeFn: pool.Close}
	if _, err := pool.Exec(ctx, crawlJobsMigration); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "progress: migrate")
	}
	return r, nil
}

// NewPostgresWithPool wires an existing pool (or mock) without connecting.
func NewPostgresWithPool(pool Execer) *PostgresReporter {
	return &PostgresReporter{pool: pool}
}

// Update upserts the job's progress row.
func (r *PostgresReporter) Update(ctx context.Context, jobID string, percent float64, note, externalHandle string) error {
	if jobID == "" {
		return nil
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO crawl_jobs (id, progress, note, external_handle, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (id) DO UPDATE SET
		   progress = EXCLUDED.progress,
		   note = EXCLUDED.note,
		   external_handle = COALESCE(NULLIF(EXCLUDED.external_handle, ''), crawl_jobs.external_handle),
		   updated_at = now()`,
		jobID, Clamp(percent), note, externalHandle,
	)
	if err != nil {
		return eris.Wrapf(err, "progress: update job %s", jobID)
	}
	return nil
}

// Close releases the underlying pool, if this reporter owns one.
func (r *PostgresReporter) Close() {
	if r.closeFn != nil {
		r.closeFn()
	}
}
