// Package export writes the dialing-system import files and the compiled
// run workbook.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/people-analytics/mailing-cli/internal/config"
	"github.com/people-analytics/mailing-cli/internal/model"
	"github.com/people-analytics/mailing-cli/internal/normalize"
	"github.com/people-analytics/mailing-cli/internal/partition"
)

// interviewMode is constant for every exported lead: the screening call is
// always remote.
const interviewMode = "ONLINE"

// dialerColumns is the fixed column order the dialing system imports. The
// partition key never reaches the file; it only names it.
var dialerColumns = []string{
	"NAME",
	"ID_NUMBER",
	"PHONE_1",
	"PHONE_2",
	"SOURCE_LABEL",
	"INTERVIEW_MODE",
	"CITY",
}

// WritePartitions writes each partition chunk as
// {prefix}_{partition-key}_part_{n}.csv under outDir, n 1-based. The
// onExisting strategy decides whether an already-present first file aborts
// the run. Returns the written file paths.
func WritePartitions(plans []partition.Plan, outDir, prefix string, onExisting config.OnExisting) ([]string, error) {
	log := zap.L()

	var written []string
	for _, plan := range plans {
		for i, chunk := range plan.Chunks {
			if len(chunk) == 0 {
				continue
			}
			path := filepath.Join(outDir, fmt.Sprintf("%s_%s_part_%d.csv", prefix, plan.Key, i+1))

			if onExisting != config.OnExistingOverwrite {
				if _, err := os.Stat(path); err == nil {
					return written, eris.Errorf("export: %s already exists (run.on_existing=abort)", path)
				}
			}

			if err := writeChunk(path, chunk); err != nil {
				return written, err
			}
			written = append(written, path)

			log.Debug("export: partition file written",
				zap.String("partition", plan.Key),
				zap.String("path", path),
				zap.Int("rows", len(chunk)),
			)
		}
	}
	return written, nil
}

func writeChunk(path string, leads []*model.Lead) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';' // dialing system import format
	defer w.Flush()

	if err := w.Write(dialerColumns); err != nil {
		return eris.Wrap(err, "export: write header")
	}
	for _, l := range leads {
		if err := w.Write(dialerRow(l)); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}
	if err := w.Error(); err != nil {
		return eris.Wrapf(err, "export: flush %s", path)
	}
	return nil
}

// dialerRow builds one import row. Name and city are re-normalized for
// display: the dialer shows them verbatim to the operator.
func dialerRow(l *model.Lead) []string {
	return []string{
		normalize.Name(l.Name),
		l.CPF, // already 11-digit zero-padded or empty
		l.Phone,
		l.Phone2,
		l.SourceTag,
		interviewMode,
		normalize.Name(l.City),
	}
}
