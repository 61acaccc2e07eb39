// Package report summarizes a run: per city, how many leads each source
// contributed and where the discarded ones went.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/people-analytics/mailing-cli/internal/model"
)

// unmappedSource labels rows whose source classified to no tag.
const unmappedSource = "SEM ORIGEM"

// Row is one source line of a city matrix.
type Row struct {
	Source  string
	Raw     int // leads ingested from this source
	Clean   int // leads that survived every discard rule
	Reasons map[model.DiscardFlag]int
}

// CityMatrix is the per-source breakdown for one city, plus a total line.
type CityMatrix struct {
	City  string
	Rows  []Row
	Total Row
}

// Build aggregates the batch into one matrix per city. Discards are counted
// under their first reason only, so every lead lands in exactly one column.
func Build(leads []*model.Lead) []CityMatrix {
	type key struct{ city, source string }
	cells := make(map[key]*Row)
	cities := make(map[string]bool)

	for _, l := range leads {
		source := l.SourceTag
		if source == "" {
			source = unmappedSource
		}
		k := key{l.City, source}
		row, ok := cells[k]
		if !ok {
			row = &Row{Source: source, Reasons: make(map[model.DiscardFlag]int)}
			cells[k] = row
		}
		cities[l.City] = true

		row.Raw++
		if reason := l.Flags.FirstReason(); reason == "" {
			row.Clean++
		} else {
			row.Reasons[reason]++
		}
	}

	cityNames := make([]string, 0, len(cities))
	for city := range cities {
		cityNames = append(cityNames, city)
	}
	sort.Strings(cityNames)

	matrices := make([]CityMatrix, 0, len(cityNames))
	for _, city := range cityNames {
		var rows []Row
		for k, row := range cells {
			if k.city == city {
				rows = append(rows, *row)
			}
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Source < rows[j].Source })

		total := Row{Source: "TOTAL", Reasons: make(map[model.DiscardFlag]int)}
		for _, row := range rows {
			total.Raw += row.Raw
			total.Clean += row.Clean
			for reason, n := range row.Reasons {
				total.Reasons[reason] += n
			}
		}
		matrices = append(matrices, CityMatrix{City: city, Rows: rows, Total: total})
	}
	return matrices
}

// Write renders each city matrix as {prefix}_report_{CITY}.csv under outDir
// for the spreadsheet the coordinators paste into. Columns follow the fixed
// discard priority so reports from different days line up.
func Write(matrices []CityMatrix, outDir, prefix string) error {
	for _, m := range matrices {
		path := filepath.Join(outDir, fmt.Sprintf("%s_report_%s.csv", prefix, m.City))
		if err := writeMatrix(path, m); err != nil {
			return err
		}
		zap.L().Info("report: city matrix written",
			zap.String("city", m.City),
			zap.Int("raw", m.Total.Raw),
			zap.Int("clean", m.Total.Clean),
		)
	}
	return nil
}

func writeMatrix(path string, m CityMatrix) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	defer w.Flush()

	header := []string{"FONTE", "BRUTOS", "LIMPOS"}
	for _, reason := range model.DiscardPriority {
		header = append(header, string(reason))
	}
	if err := w.Write(header); err != nil {
		return eris.Wrap(err, "report: write header")
	}

	for _, row := range append(m.Rows, m.Total) {
		record := []string{row.Source, strconv.Itoa(row.Raw), strconv.Itoa(row.Clean)}
		for _, reason := range model.DiscardPriority {
			record = append(record, strconv.Itoa(row.Reasons[reason]))
		}
		if err := w.Write(record); err != nil {
			return eris.Wrap(err, "report: write row")
		}
	}
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "report: flush %s", path)
	}
	return nil
}
