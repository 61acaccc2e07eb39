package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/people-analytics/mailing-cli/internal/model"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Run.RowCap)
	assert.Equal(t, OnExistingAbort, cfg.Run.OnExisting)
	assert.Equal(t, "uberlandia", cfg.Cities.Default)
	assert.Contains(t, cfg.Cities.Allowed, "jundiai")
	assert.True(t, cfg.History.Required)
	assert.Equal(t, "Receptivo", cfg.History.InboundQueue)
	assert.Equal(t, 30, cfg.History.SuccessWindowDays)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)

	// Missing tables file falls back to the built-in source rules.
	assert.NotEmpty(t, cfg.Tables.SourceRules)
	assert.Empty(t, cfg.Tables.Sheets)
}

func TestLoadTables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sheets:
  - key: referral
    path: referrals.xlsx
    sheet: Mailing
    layout: referral
    default_source: INDIQUE UDIA
  - key: jobboard
    path: board.csv
    layout: jobboard
    separator: ","
    no_header: true
layouts:
  referral:
    name: "NOME DO AMIGO INDICADO"
    cpf: "CPF DO AMIGO INDICADO"
    target_city: "EM QUAL CIDADE SEU AMIGO QUER TRABALHAR?"
    submitted_at: "Hora de conclusão"
  jobboard:
    name: "0"
    phone: "2"
    target_city: "8"
    submitted_at: "9"
source_rules:
  - tag: INDEED
    keywords: [indeed]
  - tag: SALAS
    keywords: [sala]
source_breaks: [SALA]
`), 0o644))

	tables, err := LoadTables(path)
	require.NoError(t, err)

	require.Len(t, tables.Sheets, 2)
	assert.Equal(t, "referral", tables.Sheets[0].Key)
	assert.Equal(t, "INDIQUE UDIA", tables.Sheets[0].DefaultSource)
	assert.True(t, tables.Sheets[1].NoHeader)

	layout := tables.Layouts["jobboard"]
	assert.Equal(t, "2", layout[model.FieldPhone])

	// Rule order is preserved from the file.
	require.Len(t, tables.SourceRules, 2)
	assert.Equal(t, "INDEED", tables.SourceRules[0].Tag)
	assert.Equal(t, []string{"SALA"}, tables.SourceBreaks)
}

func TestLoadTablesMissingFile(t *testing.T) {
	tables, err := LoadTables(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, tables.SourceRules)
}
