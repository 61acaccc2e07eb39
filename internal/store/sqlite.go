package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/people-analytics/mailing-cli/internal/model"
)

// SQLiteSink implements Sink on a local file. It is the default: the tool
// usually runs on an analyst workstation without a Postgres nearby.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteSink{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	prefix      TEXT NOT NULL,
	run_group   TEXT NOT NULL,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME,
	total       INTEGER,
	recommended INTEGER,
	discarded   INTEGER,
	files       INTEGER
);

CREATE TABLE IF NOT EXISTS leads (
	run_id         TEXT NOT NULL REFERENCES runs(id),
	batch_index    INTEGER NOT NULL,
	name           TEXT NOT NULL,
	id_number      TEXT NOT NULL,
	phone          TEXT NOT NULL,
	phone2         TEXT NOT NULL,
	source_tag     TEXT NOT NULL,
	source_sheet   TEXT NOT NULL,
	city           TEXT NOT NULL,
	partition_key  TEXT NOT NULL,
	submitted_at   DATETIME,
	recommended    INTEGER NOT NULL,
	discard_reason TEXT NOT NULL,
	PRIMARY KEY (run_id, batch_index)
);

CREATE INDEX IF NOT EXISTS idx_leads_phone ON leads(phone);
CREATE INDEX IF NOT EXISTS idx_leads_id_number ON leads(id_number);
`

func (s *SQLiteSink) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteSink) CreateRun(ctx context.Context, run model.Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, prefix, run_group, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Prefix, run.Group, run.StartedAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: insert run %s", run.ID)
}

func (s *SQLiteSink) AppendLeads(ctx context.Context, runID string, leads []*model.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	placeholders := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(leadColumns)), ", ") + ")"
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO leads (`+strings.Join(leadColumns, ", ")+`) VALUES `+placeholders,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	for _, l := range leads {
		if _, err := stmt.ExecContext(ctx, leadRow(runID, l)...); err != nil {
			return eris.Wrapf(err, "sqlite: insert lead %d", l.Index)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit leads")
}

func (s *SQLiteSink) CompleteRun(ctx context.Context, runID string, summary model.RunSummary) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET total = ?, recommended = ?, discarded = ?, files = ?, finished_at = ? WHERE id = ?`,
		summary.Total, summary.Recommended, summary.Discarded, summary.Files, summary.FinishedAt.UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete run %s", runID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run %s not found", runID)
	}
	return nil
}

func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
