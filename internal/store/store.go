// Package store persists finished runs and their leads for cross-run audit
// queries.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/people-analytics/mailing-cli/internal/config"
	"github.com/people-analytics/mailing-cli/internal/model"
)

// Sink is the persistence interface for the mailing pipeline. Runs are
// created up front, their leads appended in bulk, and the summary written
// when the output files are on disk.
type Sink interface {
	Migrate(ctx context.Context) error
	CreateRun(ctx context.Context, run model.Run) error
	AppendLeads(ctx context.Context, runID string, leads []*model.Lead) error
	CompleteRun(ctx context.Context, runID string, summary model.RunSummary) error
	Close() error
}

// leadColumns is the column list shared by both sinks' leads table.
var leadColumns = []string{
	"run_id",
	"batch_index",
	"name",
	"id_number",
	"phone",
	"phone2",
	"source_tag",
	"source_sheet",
	"city",
	"partition_key",
	"submitted_at",
	"recommended",
	"discard_reason",
}

func leadRow(runID string, l *model.Lead) []any {
	return []any{
		runID,
		l.Index,
		l.Name,
		l.CPF,
		l.Phone,
		l.Phone2,
		l.SourceTag,
		l.Raw.SheetKey,
		l.City,
		l.PartitionKey,
		l.SubmittedAt,
		l.Recommended(),
		string(l.Flags.FirstReason()),
	}
}

// Open builds the configured sink.
func Open(ctx context.Context, cfg config.StoreConfig) (Sink, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, nil)
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}
