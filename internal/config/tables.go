package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/people-analytics/mailing-cli/internal/classify"
	"github.com/people-analytics/mailing-cli/internal/model"
)

// Sheet describes one input export: where it lives, which layout maps its
// columns, and an optional source label applied to every row.
type Sheet struct {
	Key           string `yaml:"key"`
	Path          string `yaml:"path"`            // relative to paths.input
	SheetName     string `yaml:"sheet,omitempty"` // XLSX only
	Layout        string `yaml:"layout"`
	Separator     string `yaml:"separator,omitempty"` // CSV only, default ","
	NoHeader      bool   `yaml:"no_header,omitempty"` // CSV without a header row; layout uses column indexes
	DefaultSource string `yaml:"default_source,omitempty"`
}

// Layout maps canonical field names to source columns. A value is either a
// header name or, for headerless files, a 0-based column index in string
// form ("0", "1", ...).
type Layout map[model.Field]string

// Tables bundles the ordered mapping tables: which sheets to read, how their
// columns map, how source labels classify, and which sources break into
// their own partition files. Declaration order is significant for source
// rules and breaks, so these live in a YAML file parsed with ordered
// sequences rather than in viper.
type Tables struct {
	Sheets       []Sheet           `yaml:"sheets"`
	Layouts      map[string]Layout `yaml:"layouts"`
	SourceRules  []classify.Rule   `yaml:"source_rules"`
	SourceBreaks []string          `yaml:"source_breaks"`
}

// LoadTables reads the mapping tables file. A missing file is not an error:
// the built-in source rules apply and no sheets are configured, which the
// run command reports before doing nothing.
func LoadTables(path string) (*Tables, error) {
	var tables Tables

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			tables.SourceRules = classify.DefaultRules()
			return &tables, nil
		}
		return nil, eris.Wrapf(err, "config: read tables file %s", path)
	}

	if err := yaml.Unmarshal(data, &tables); err != nil {
		return nil, eris.Wrapf(err, "config: parse tables file %s", path)
	}
	if len(tables.SourceRules) == 0 {
		tables.SourceRules = classify.DefaultRules()
	}
	return &tables, nil
}
