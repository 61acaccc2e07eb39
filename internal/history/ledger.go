package history

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/people-analytics/mailing-cli/internal/fetcher"
	"github.com/people-analytics/mailing-cli/internal/model"
	"github.com/people-analytics/mailing-cli/internal/normalize"
)

// Ledger column headers as exported by the contact-center report. Headers
// are trimmed before matching — the export carries trailing spaces on some.
const (
	colPhone       = "TELEFONE CONTATO"
	colContactDate = "DATA TRATATIVA"
	colDisposition = "MOTIVO"
	colClosed      = "FLAG FINALIZADO"
	colLatest      = "FLAG ULTIMA TRATATIVA"
	colQueue       = "FILA"
)

// LedgerOptions locates the disposition sheet inside the report workbook.
type LedgerOptions struct {
	Sheet    string // worksheet name, default "Tratativas"
	SkipRows int    // preamble rows before the header, default 6
}

var ledgerDateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
	"01-02-06", // tealeg's default short date format
}

// ReadLedger loads and parses the contact-history workbook. Entries without
// a reconstructible phone or contact date are dropped with a debug log; a
// failure to read the workbook itself is returned to the caller, which
// decides whether a missing ledger aborts the run.
func ReadLedger(path string, opts LedgerOptions) ([]model.HistoryEntry, error) {
	if opts.Sheet == "" {
		opts.Sheet = "Tratativas"
	}
	if opts.SkipRows == 0 {
		opts.SkipRows = 6
	}

	rows, err := fetcher.ReadXLSX(path, fetcher.XLSXOptions{
		SheetName: opts.Sheet,
		SkipRows:  opts.SkipRows,
	})
	if err != nil {
		return nil, eris.Wrap(err, "history: read ledger")
	}
	if len(rows) == 0 {
		return nil, eris.Errorf("history: ledger sheet %q is empty", opts.Sheet)
	}

	log := zap.L().With(zap.String("path", path))

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colPhone, colContactDate, colLatest} {
		if _, ok := header[required]; !ok {
			return nil, eris.Errorf("history: ledger missing column %q", required)
		}
	}

	cell := func(row []string, name string) string {
		idx, ok := header[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	entries := make([]model.HistoryEntry, 0, len(rows)-1)
	dropped := 0
	for _, row := range rows[1:] {
		phone := normalize.Phone(cell(row, colPhone))
		if phone == "" {
			dropped++
			continue
		}

		contactDate, ok := parseLedgerDate(cell(row, colContactDate))
		if !ok {
			dropped++
			continue
		}

		entries = append(entries, model.HistoryEntry{
			Phone:       phone,
			LastContact: contactDate,
			Disposition: cell(row, colDisposition),
			Closed:      cell(row, colClosed) == "1",
			Latest:      cell(row, colLatest) == "1",
			Queue:       cell(row, colQueue),
		})
	}

	log.Info("history: ledger loaded",
		zap.Int("entries", len(entries)),
		zap.Int("dropped", dropped),
	)
	return entries, nil
}

func parseLedgerDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range ledgerDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
