package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/people-analytics/mailing-cli/internal/config"
	"github.com/people-analytics/mailing-cli/internal/model"
	"github.com/people-analytics/mailing-cli/internal/store"
)

var pipelineNow = time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)

func runConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()

	cfg := testConfig()
	cfg.Paths.Input = filepath.Join(root, "input")
	cfg.Paths.Output = filepath.Join(root, "mailing")
	cfg.Paths.Central = filepath.Join(root, "central")
	cfg.Paths.Report = filepath.Join(root, "report")
	cfg.Run.RowCap = 100
	cfg.Run.TargetFiles = 1
	cfg.Run.OnExisting = config.OnExistingAbort
	cfg.History.Required = false

	cfg.Tables.SourceBreaks = []string{"SALA"}
	cfg.Tables.Sheets = []config.Sheet{{
		Key:    "board",
		Path:   "board.csv",
		Layout: "board",
	}}
	cfg.Tables.Layouts = map[string]config.Layout{
		"board": {
			model.FieldName:        "NOME",
			model.FieldCPF:         "CPF",
			model.FieldPhone:       "TELEFONE",
			model.FieldAge:         "IDADE",
			model.FieldTargetCity:  "CIDADE",
			model.FieldSource:      "ORIGEM",
			model.FieldSubmittedAt: "DATA",
		},
	}

	require.NoError(t, os.MkdirAll(cfg.Paths.Input, 0o755))
	return cfg
}

func writeInput(t *testing.T, cfg *config.Config, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Paths.Input, "board.csv"), []byte(content), 0o644))
}

func TestRunEndToEnd(t *testing.T) {
	cfg := runConfig(t)
	writeInput(t, cfg,
		"NOME,CPF,TELEFONE,IDADE,CIDADE,ORIGEM,DATA\n"+
			"Ana Silva,11144477735,34991234567,25,Uberlandia,Indeed,2026-08-29 10:00:00\n"+
			// Same phone, later submission: phone-duplicate.
			"Ana S,,34991234567,25,Uberlandia,Indeed,2026-08-29 11:00:00\n"+
			"Bia Costa,,34991234568,17,Uberlandia,Tiktok,2026-08-29 09:00:00\n"+
			"Caio Souza,,34991234569,30,Curitiba,Indeed,2026-08-29 08:00:00\n"+
			"Duda Lima,,34991234570,22,Jundiai,Captacao de sala,2026-08-29 12:00:00\n")

	sink, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	defer sink.Close()
	require.NoError(t, sink.Migrate(context.Background()))

	p := New(cfg, WithSink(sink), WithClock(func() time.Time { return pipelineNow }))
	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026_08_30_manha", result.Run.Prefix)
	assert.Equal(t, 5, result.Summary.Total)
	// Ana (first), Duda survive; duplicate phone, underage, and off-site city drop.
	assert.Equal(t, 2, result.Summary.Recommended)
	assert.Equal(t, 3, result.Summary.Discarded)
	require.Len(t, result.Files, 2) // one per city partition

	assert.FileExists(t, filepath.Join(cfg.Paths.Output, "2026_08_30_manha_DEMAIS_UBERLANDIA_part_1.csv"))
	assert.FileExists(t, filepath.Join(cfg.Paths.Output, "2026_08_30_manha_SALA_JUNDIAI_part_1.csv"))
	assert.FileExists(t, filepath.Join(cfg.Paths.Central, "2026_08_30_manha_central.xlsx"))
	assert.FileExists(t, filepath.Join(cfg.Paths.Report, "2026_08_30_manha_report_uberlandia.csv"))

	require.NotEmpty(t, result.Matrices)
}

func TestRunNoLeads(t *testing.T) {
	cfg := runConfig(t)

	p := New(cfg, WithClock(func() time.Time { return pipelineNow }))
	_, err := p.Run(context.Background())
	assert.Error(t, err)
}

func TestRunHistoryRequiredButMissing(t *testing.T) {
	cfg := runConfig(t)
	writeInput(t, cfg,
		"NOME,CPF,TELEFONE,IDADE,CIDADE,ORIGEM,DATA\n"+
			"Ana Silva,,34991234567,25,Uberlandia,Indeed,2026-08-29 10:00:00\n")
	cfg.History.Required = true

	p := New(cfg, WithClock(func() time.Time { return pipelineNow }))
	_, err := p.Run(context.Background())
	assert.Error(t, err)
}

func TestRunPrefixOverride(t *testing.T) {
	cfg := runConfig(t)
	writeInput(t, cfg,
		"NOME,CPF,TELEFONE,IDADE,CIDADE,ORIGEM,DATA\n"+
			"Ana Silva,,34991234567,25,Uberlandia,Indeed,2026-08-29 10:00:00\n")
	cfg.Run.Prefix = "custom_run"

	p := New(cfg, WithClock(func() time.Time { return pipelineNow }))
	result, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "custom_run", result.Run.Prefix)
	assert.FileExists(t, filepath.Join(cfg.Paths.Output, "custom_run_DEMAIS_UBERLANDIA_part_1.csv"))
}
