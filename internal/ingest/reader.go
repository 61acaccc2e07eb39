// Package ingest reads the configured source exports and maps their columns
// onto the canonical lead fields.
package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/people-analytics/mailing-cli/internal/config"
	"github.com/people-analytics/mailing-cli/internal/fetcher"
	"github.com/people-analytics/mailing-cli/internal/model"
)

// ReadAll reads every configured sheet from inputDir and returns the raw
// leads in source order. Per-source problems (missing file, unknown layout,
// missing required column) skip that source with a warning and never abort
// the whole run.
func ReadAll(inputDir string, sheets []config.Sheet, layouts map[string]config.Layout) []model.RawLead {
	log := zap.L()

	var all []model.RawLead
	for _, sheet := range sheets {
		layout, ok := layouts[sheet.Layout]
		if !ok {
			log.Warn("ingest: layout not found, skipping source",
				zap.String("sheet", sheet.Key),
				zap.String("layout", sheet.Layout),
			)
			continue
		}

		leads, err := readSheet(filepath.Join(inputDir, sheet.Path), sheet, layout)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Debug("ingest: source file not present this run",
					zap.String("sheet", sheet.Key),
					zap.String("path", sheet.Path),
				)
			} else {
				log.Warn("ingest: skipping unreadable source",
					zap.String("sheet", sheet.Key),
					zap.Error(err),
				)
			}
			continue
		}

		log.Info("ingest: source read",
			zap.String("sheet", sheet.Key),
			zap.Int("leads", len(leads)),
		)
		all = append(all, leads...)
	}
	return all
}

func readSheet(path string, sheet config.Sheet, layout config.Layout) ([]model.RawLead, error) {
	rows, err := readRows(path, sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	resolve, ok := resolveColumns(rows, sheet, layout)
	if !ok {
		zap.L().Warn("ingest: required column missing, skipping source",
			zap.String("sheet", sheet.Key),
		)
		return nil, nil
	}

	dataRows := rows
	if !sheet.NoHeader {
		dataRows = rows[1:]
	}

	leads := make([]model.RawLead, 0, len(dataRows))
	for _, row := range dataRows {
		if blankRow(row) {
			continue
		}
		lead := model.RawLead{
			SheetKey:     sheet.Key,
			Name:         resolve(row, model.FieldName),
			Email:        resolve(row, model.FieldEmail),
			CPF:          resolve(row, model.FieldCPF),
			Age:          resolve(row, model.FieldAge),
			Education:    resolve(row, model.FieldEducation),
			Phone:        resolve(row, model.FieldPhone),
			Phone2:       resolve(row, model.FieldPhone2),
			OriginCity:   resolve(row, model.FieldOriginCity),
			TargetCity:   resolve(row, model.FieldTargetCity),
			Address:      resolve(row, model.FieldAddress),
			Source:       resolve(row, model.FieldSource),
			SubmittedAt:  resolve(row, model.FieldSubmittedAt),
			EnrollmentID: resolve(row, model.FieldEnrollmentID),
			ReferrerName: resolve(row, model.FieldReferrerName),
		}
		if sheet.DefaultSource != "" {
			lead.Source = sheet.DefaultSource
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

func readRows(path string, sheet config.Sheet) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return fetcher.ReadXLSX(path, fetcher.XLSXOptions{SheetName: sheet.SheetName})
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		opts := fetcher.CSVOptions{TrimSpace: true, LazyQuotes: true}
		if sheet.Separator != "" {
			opts.Delimiter = rune(sheet.Separator[0])
		}
		return fetcher.ReadCSV(f, opts)
	}
}

// resolveColumns builds a field accessor for the sheet. For files with a
// header the layout values are header names; for headerless files they are
// 0-based column indexes. Returns ok=false when a required field cannot be
// resolved.
func resolveColumns(rows [][]string, sheet config.Sheet, layout config.Layout) (func([]string, model.Field) string, bool) {
	indexes := make(map[model.Field]int, len(layout))

	if sheet.NoHeader {
		for field, ref := range layout {
			idx, err := strconv.Atoi(ref)
			if err != nil || idx < 0 {
				continue
			}
			indexes[field] = idx
		}
	} else {
		header := make(map[string]int, len(rows[0]))
		for i, name := range rows[0] {
			header[strings.TrimSpace(name)] = i
		}
		for field, ref := range layout {
			if idx, ok := header[strings.TrimSpace(ref)]; ok {
				indexes[field] = idx
			}
		}
	}

	for _, required := range model.RequiredFields {
		if _, mapped := layout[required]; !mapped {
			return nil, false
		}
		if _, ok := indexes[required]; !ok {
			return nil, false
		}
	}

	return func(row []string, field model.Field) string {
		idx, ok := indexes[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}, true
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
