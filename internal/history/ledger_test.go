package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

// writeLedgerXLSX builds a workbook shaped like the contact-center export:
// a preamble before the header on the Tratativas sheet.
func writeLedgerXLSX(t *testing.T, preamble int, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Tratativas")
	require.NoError(t, err)

	for i := 0; i < preamble; i++ {
		sheet.AddRow().AddCell().SetString("Relatorio")
	}
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cell := range rowData {
			row.AddCell().SetString(cell)
		}
	}

	path := filepath.Join(t.TempDir(), "tratativas.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

var ledgerHeader = []string{
	"TELEFONE CONTATO", "DATA TRATATIVA", "MOTIVO", "FLAG FINALIZADO", "FLAG ULTIMA TRATATIVA", "FILA",
}

func TestReadLedger(t *testing.T) {
	path := writeLedgerXLSX(t, 2, [][]string{
		ledgerHeader,
		{"34991234567", "2026-08-20 10:00:00", "Contato COM Sucesso", "1", "1", "Ativo"},
		// Zero-padded export form of a 10-digit number.
		{"03432123456", "2026-08-25", "Sem Contato", "0", "1", "Ativo"},
		// No phone: dropped.
		{"", "2026-08-25", "x", "1", "1", "Ativo"},
		// Unparseable date: dropped.
		{"34991234568", "soon", "x", "1", "1", "Ativo"},
	})

	entries, err := ReadLedger(path, LedgerOptions{SkipRows: 2})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first := entries[0]
	assert.Equal(t, "34991234567", first.Phone)
	assert.Equal(t, time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC), first.LastContact)
	assert.Equal(t, "Contato COM Sucesso", first.Disposition)
	assert.True(t, first.Closed)
	assert.True(t, first.Latest)
	assert.Equal(t, "Ativo", first.Queue)

	// Ledger phones go through the same normalization as lead phones, so
	// the join works despite the export's zero padding.
	second := entries[1]
	assert.Equal(t, "3432123456", second.Phone)
	assert.False(t, second.Closed)
}

func TestReadLedgerMissingColumn(t *testing.T) {
	path := writeLedgerXLSX(t, 2, [][]string{
		{"TELEFONE CONTATO", "DATA TRATATIVA"},
		{"34991234567", "2026-08-20"},
	})

	_, err := ReadLedger(path, LedgerOptions{SkipRows: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FLAG ULTIMA TRATATIVA")
}

func TestReadLedgerMissingFile(t *testing.T) {
	_, err := ReadLedger(filepath.Join(t.TempDir(), "nope.xlsx"), LedgerOptions{})
	assert.Error(t, err)
}
