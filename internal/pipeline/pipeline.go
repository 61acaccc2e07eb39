// Package pipeline orchestrates one mailing run: ingest, normalize, dedupe,
// discard, history suppression, partition, and export.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/people-analytics/mailing-cli/internal/config"
	"github.com/people-analytics/mailing-cli/internal/dedupe"
	"github.com/people-analytics/mailing-cli/internal/discard"
	"github.com/people-analytics/mailing-cli/internal/export"
	"github.com/people-analytics/mailing-cli/internal/history"
	"github.com/people-analytics/mailing-cli/internal/ingest"
	"github.com/people-analytics/mailing-cli/internal/model"
	"github.com/people-analytics/mailing-cli/internal/partition"
	"github.com/people-analytics/mailing-cli/internal/report"
	"github.com/people-analytics/mailing-cli/internal/store"
	"github.com/people-analytics/mailing-cli/pkg/geocode"
)

// Pipeline runs the mailing batch end to end.
type Pipeline struct {
	cfg  *config.Config
	sink store.Sink
	geo  *geocode.Client
	now  func() time.Time
}

// Option configures optional pipeline dependencies.
type Option func(*Pipeline)

// WithSink persists the run and its leads.
func WithSink(sink store.Sink) Option {
	return func(p *Pipeline) { p.sink = sink }
}

// WithGeocoder enables address-based city resolution.
func WithGeocoder(geo *geocode.Client) Option {
	return func(p *Pipeline) { p.geo = geo }
}

// WithClock fixes the pipeline clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a Pipeline.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) workers() int {
	if p.cfg.Run.NormalizerWorkers > 0 {
		return p.cfg.Run.NormalizerWorkers
	}
	return 8
}

// Result is the outcome of one run.
type Result struct {
	Run      model.Run
	Summary  model.RunSummary
	Files    []string
	Matrices []report.CityMatrix
}

// Run executes the full mailing pipeline.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	now := p.now()
	run := model.Run{
		ID:        uuid.New().String(),
		Group:     p.resolveGroup(now),
		StartedAt: now,
	}
	run.Prefix = p.resolvePrefix(now, run.Group)

	log := zap.L().With(zap.String("run", run.ID), zap.String("prefix", run.Prefix))
	log.Info("pipeline: starting run")

	if p.sink != nil {
		if err := p.sink.CreateRun(ctx, run); err != nil {
			return nil, err
		}
	}

	// Ingest.
	raw := ingest.ReadAll(p.cfg.Paths.Input, p.cfg.Tables.Sheets, p.cfg.Tables.Layouts)
	if len(raw) == 0 {
		return nil, eris.New("pipeline: no leads ingested, check paths.input and the tables file")
	}
	log.Info("pipeline: ingested", zap.Int("leads", len(raw)))

	// Normalize.
	leads, err := p.normalizeAll(ctx, raw)
	if err != nil {
		return nil, err
	}
	sortBySubmission(leads)

	// Duplicate ordinals over the sorted batch.
	cpfKeys := make([]string, len(leads))
	phoneKeys := make([]string, len(leads))
	for i, l := range leads {
		cpfKeys[i] = l.CPF
		phoneKeys[i] = l.Phone
	}
	cpfOrdinals := dedupe.Ordinals(cpfKeys)
	phoneOrdinals := dedupe.Ordinals(phoneKeys)
	for i, l := range leads {
		l.CPFOrdinal = cpfOrdinals[i]
		l.PhoneOrdinal = phoneOrdinals[i]
	}

	// Record-level discards.
	engine := discard.NewEngine(p.cfg.Cities.Allowed)
	for _, l := range leads {
		engine.Evaluate(l)
	}

	// History suppression.
	if err := p.applyHistory(leads, now); err != nil {
		return nil, err
	}

	// Partition. Every lead gets a key for the audit workbook; only the
	// recommended ones are chunked into dialing files.
	partition.Assign(leads, p.cfg.Tables.SourceBreaks)
	var recommended []*model.Lead
	for _, l := range leads {
		if l.Recommended() {
			recommended = append(recommended, l)
		}
	}
	plans := partition.Build(recommended, p.cfg.Run.TargetFiles, p.cfg.Run.RowCap, p.cfg.Run.PartitionTargets)

	files, matrices, err := p.writeOutputs(run, leads, plans)
	if err != nil {
		return nil, err
	}

	summary := model.RunSummary{
		Total:       len(leads),
		Recommended: len(recommended),
		Discarded:   len(leads) - len(recommended),
		Files:       len(files),
		FinishedAt:  p.now(),
	}

	if p.sink != nil {
		// The output files are already on disk at this point; name them so
		// the operator knows the batch itself survived a persistence failure.
		if err := p.sink.AppendLeads(ctx, run.ID, leads); err != nil {
			log.Error("pipeline: sink append failed after export", zap.Strings("files", files))
			return nil, err
		}
		if err := p.sink.CompleteRun(ctx, run.ID, summary); err != nil {
			log.Error("pipeline: sink completion failed after export", zap.Strings("files", files))
			return nil, err
		}
	}

	log.Info("pipeline: run complete",
		zap.Int("total", summary.Total),
		zap.Int("recommended", summary.Recommended),
		zap.Int("discarded", summary.Discarded),
		zap.Int("files", summary.Files),
	)
	return &Result{Run: run, Summary: summary, Files: files, Matrices: matrices}, nil
}

// applyHistory loads the contact-center ledger and merges its suppression
// flags. A missing or unreadable ledger aborts only when history.required.
func (p *Pipeline) applyHistory(leads []*model.Lead, now time.Time) error {
	if p.cfg.History.Path == "" {
		if p.cfg.History.Required {
			return eris.New("pipeline: history.required is set but history.path is empty")
		}
		return nil
	}

	entries, err := history.ReadLedger(p.cfg.History.Path, history.LedgerOptions{
		Sheet:    p.cfg.History.Sheet,
		SkipRows: p.cfg.History.SkipRows,
	})
	if err != nil {
		if p.cfg.History.Required {
			return err
		}
		zap.L().Warn("pipeline: history ledger unavailable, continuing without suppression", zap.Error(err))
		return nil
	}

	flags := history.Reconcile(entries, now, history.Config{
		InboundQueue:       p.cfg.History.InboundQueue,
		SuccessDisposition: p.cfg.History.SuccessDisposition,
		SuccessWindowDays:  p.cfg.History.SuccessWindowDays,
		ContactWindowDays:  p.cfg.History.ContactWindowDays,
	})
	history.Merge(leads, flags)
	return nil
}

func (p *Pipeline) writeOutputs(run model.Run, leads []*model.Lead, plans []partition.Plan) ([]string, []report.CityMatrix, error) {
	for _, dir := range []string{p.cfg.Paths.Output, p.cfg.Paths.Central, p.cfg.Paths.Report} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, eris.Wrapf(err, "pipeline: create dir %s", dir)
		}
	}

	files, err := export.WritePartitions(plans, p.cfg.Paths.Output, run.Prefix, p.cfg.Run.OnExisting)
	if err != nil {
		return nil, nil, err
	}

	centralPath := filepath.Join(p.cfg.Paths.Central, run.Prefix+"_central.xlsx")
	if err := export.WriteCentral(centralPath, leads); err != nil {
		return nil, nil, err
	}

	matrices := report.Build(leads)
	if err := report.Write(matrices, p.cfg.Paths.Report, run.Prefix); err != nil {
		return nil, nil, err
	}
	return files, matrices, nil
}

// resolveGroup defaults the shift group by time of day when none is
// configured: before 11h is manha, before 14h tarde, after that noite.
func (p *Pipeline) resolveGroup(now time.Time) string {
	if p.cfg.Run.Group != "" {
		return p.cfg.Run.Group
	}
	switch {
	case now.Hour() < 11:
		return "manha"
	case now.Hour() < 14:
		return "tarde"
	default:
		return "noite"
	}
}

func (p *Pipeline) resolvePrefix(now time.Time, group string) string {
	if p.cfg.Run.Prefix != "" {
		return p.cfg.Run.Prefix
	}
	return now.Format("2006_01_02") + "_" + group
}
