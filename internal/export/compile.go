package export

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/people-analytics/mailing-cli/internal/fetcher"
	"github.com/people-analytics/mailing-cli/internal/model"
)

// centralColumns is the audit workbook header: the dialer columns plus the
// fields the analysts review when a batch is questioned.
var centralColumns = []string{
	"NAME",
	"ID_NUMBER",
	"PHONE_1",
	"PHONE_2",
	"SOURCE_LABEL",
	"CITY",
	"PARTITION",
	"SUBMITTED_AT",
	"RECOMMENDED",
	"DISCARD_REASON",
}

// WriteCentral writes the full batch, recommended and discarded alike, as one
// audit workbook. Discarded leads carry their first discard reason.
func WriteCentral(path string, leads []*model.Lead) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Mailing")
	if err != nil {
		return eris.Wrap(err, "export: add central sheet")
	}

	header := sheet.AddRow()
	for _, name := range centralColumns {
		header.AddCell().SetString(name)
	}

	for _, l := range leads {
		recommended := "0"
		if l.Recommended() {
			recommended = "1"
		}
		row := sheet.AddRow()
		for _, value := range []string{
			l.Name,
			l.CPF,
			l.Phone,
			l.Phone2,
			l.SourceTag,
			l.City,
			l.PartitionKey,
			l.SubmittedAt.Format("2006-01-02 15:04:05"),
			recommended,
			string(l.Flags.FirstReason()),
		} {
			row.AddCell().SetString(value)
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save central workbook %s", path)
	}
	zap.L().Info("export: central workbook written",
		zap.String("path", path),
		zap.Int("rows", len(leads)),
	)
	return nil
}

// CompileDir merges every partition file under dir into one workbook at
// outPath. The header is the union of the input headers in first-seen order,
// so files from different days or layouts still line up by column name.
// Files merge in name order, so the part numbering decides row order.
func CompileDir(dir, outPath string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, eris.Wrapf(err, "export: read dir %s", dir)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".csv", ".xlsx":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return 0, eris.Errorf("export: no partition files in %s", dir)
	}

	type sourceFile struct {
		header []string
		rows   [][]string
	}

	var (
		files    []sourceFile
		columns  []string
		colIndex = make(map[string]int)
	)
	for _, name := range names {
		rows, err := readPartitionFile(filepath.Join(dir, name))
		if err != nil {
			return 0, err
		}
		if len(rows) == 0 {
			continue
		}
		for _, col := range rows[0] {
			if _, ok := colIndex[col]; !ok {
				colIndex[col] = len(columns)
				columns = append(columns, col)
			}
		}
		files = append(files, sourceFile{header: rows[0], rows: rows[1:]})
	}

	out := xlsx.NewFile()
	sheet, err := out.AddSheet("Compilado")
	if err != nil {
		return 0, eris.Wrap(err, "export: add compiled sheet")
	}

	headerRow := sheet.AddRow()
	for _, col := range columns {
		headerRow.AddCell().SetString(col)
	}

	total := 0
	for _, f := range files {
		for _, cells := range f.rows {
			merged := make([]string, len(columns))
			for i, col := range f.header {
				if i < len(cells) {
					merged[colIndex[col]] = cells[i]
				}
			}
			row := sheet.AddRow()
			for _, cell := range merged {
				row.AddCell().SetString(cell)
			}
			total++
		}
	}

	if err := out.Save(outPath); err != nil {
		return total, eris.Wrapf(err, "export: save compiled workbook %s", outPath)
	}
	return total, nil
}

// CompiledName derives the compiled workbook name from the partition files'
// shared day: {YYYY_MM_DD}_compilado.xlsx for today.
func CompiledName(now time.Time) string {
	return now.Format("2006_01_02") + "_compilado.xlsx"
}

func readPartitionFile(path string) ([][]string, error) {
	if strings.ToLower(filepath.Ext(path)) == ".xlsx" {
		return fetcher.ReadXLSX(path, fetcher.XLSXOptions{})
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "export: open %s", path)
	}
	defer f.Close()
	return fetcher.ReadCSV(f, fetcher.CSVOptions{Delimiter: ';', TrimSpace: true})
}
