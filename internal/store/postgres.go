package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/people-analytics/mailing-cli/internal/db"
	"github.com/people-analytics/mailing-cli/internal/model"
)

// PostgresSink implements Sink on a pgx connection pool. Lead batches go in
// via COPY.
type PostgresSink struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection.
var preparedStatements = map[string]string{
	"insert_run":   `INSERT INTO runs (id, prefix, run_group, started_at) VALUES ($1, $2, $3, $4)`,
	"complete_run": `UPDATE runs SET total = $1, recommended = $2, discarded = $3, files = $4, finished_at = $5 WHERE id = $6`,
}

// NewPostgres creates a PostgresSink with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresSink, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(4)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresSink{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool. Tests use it with pgxmock.
func NewPostgresWithPool(pool db.Pool) *PostgresSink {
	return &PostgresSink{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	prefix      TEXT NOT NULL,
	run_group   TEXT NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ,
	total       INT,
	recommended INT,
	discarded   INT,
	files       INT
);

CREATE TABLE IF NOT EXISTS leads (
	run_id         TEXT NOT NULL REFERENCES runs(id),
	batch_index    INT NOT NULL,
	name           TEXT NOT NULL,
	id_number      TEXT NOT NULL,
	phone          TEXT NOT NULL,
	phone2         TEXT NOT NULL,
	source_tag     TEXT NOT NULL,
	source_sheet   TEXT NOT NULL,
	city           TEXT NOT NULL,
	partition_key  TEXT NOT NULL,
	submitted_at   TIMESTAMPTZ,
	recommended    BOOLEAN NOT NULL,
	discard_reason TEXT NOT NULL,
	PRIMARY KEY (run_id, batch_index)
);

CREATE INDEX IF NOT EXISTS idx_leads_phone ON leads(phone);
CREATE INDEX IF NOT EXISTS idx_leads_id_number ON leads(id_number);
CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
`

func (s *PostgresSink) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresSink) CreateRun(ctx context.Context, run model.Run) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO runs (id, prefix, run_group, started_at) VALUES ($1, $2, $3, $4)`,
		run.ID, run.Prefix, run.Group, run.StartedAt,
	)
	return eris.Wrapf(err, "postgres: insert run %s", run.ID)
}

func (s *PostgresSink) AppendLeads(ctx context.Context, runID string, leads []*model.Lead) error {
	rows := make([][]any, len(leads))
	for i, l := range leads {
		rows[i] = leadRow(runID, l)
	}
	_, err := db.CopyFrom(ctx, s.pool, "leads", leadColumns, rows)
	return err
}

func (s *PostgresSink) CompleteRun(ctx context.Context, runID string, summary model.RunSummary) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET total = $1, recommended = $2, discarded = $3, files = $4, finished_at = $5 WHERE id = $6`,
		summary.Total, summary.Recommended, summary.Discarded, summary.Files, summary.FinishedAt, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: run %s not found", runID)
	}
	return nil
}

func (s *PostgresSink) Close() error {
	s.pool.Close()
	return nil
}
