package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/people-analytics/mailing-cli/internal/model"
)

func newTestSink(t *testing.T) *SQLiteSink {
	t.Helper()
	sink, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sink.Close() })
	require.NoError(t, sink.Migrate(context.Background()))
	return sink
}

func TestSQLiteRunLifecycle(t *testing.T) {
	ctx := context.Background()
	sink := newTestSink(t)

	run := model.Run{
		ID:        "run-1",
		Prefix:    "2026_08_30_manha",
		Group:     "manha",
		StartedAt: time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, sink.CreateRun(ctx, run))

	flagged := &model.Lead{
		Index: 1,
		Name:  "bia",
		Phone: "34991234568",
		Flags: model.DiscardSet{model.DiscardUnderage: true},
	}
	leads := []*model.Lead{
		{Index: 0, Name: "ana", CPF: "11144477735", Phone: "34991234567", City: "uberlandia", PartitionKey: "DEMAIS_UBERLANDIA", SubmittedAt: run.StartedAt},
		flagged,
	}
	require.NoError(t, sink.AppendLeads(ctx, run.ID, leads))

	require.NoError(t, sink.CompleteRun(ctx, run.ID, model.RunSummary{
		Total:       2,
		Recommended: 1,
		Discarded:   1,
		Files:       1,
		FinishedAt:  run.StartedAt.Add(time.Minute),
	}))

	var total, recommended int
	require.NoError(t, sink.db.QueryRow(`SELECT total, recommended FROM runs WHERE id = ?`, run.ID).Scan(&total, &recommended))
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, recommended)

	var reason string
	require.NoError(t, sink.db.QueryRow(`SELECT discard_reason FROM leads WHERE run_id = ? AND batch_index = 1`, run.ID).Scan(&reason))
	assert.Equal(t, "underage", reason)
}

func TestSQLiteCompleteUnknownRun(t *testing.T) {
	sink := newTestSink(t)
	err := sink.CompleteRun(context.Background(), "nope", model.RunSummary{})
	assert.Error(t, err)
}

func TestSQLiteAppendEmpty(t *testing.T) {
	sink := newTestSink(t)
	assert.NoError(t, sink.AppendLeads(context.Background(), "run-1", nil))
}
