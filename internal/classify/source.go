// Package classify maps free-text source labels onto the canonical source
// tags used for partitioning and reporting.
package classify

import (
	"strings"

	"go.uber.org/zap"

	"github.com/people-analytics/mailing-cli/internal/normalize"
)

// Rule binds one canonical source tag to the lowercase keyword substrings
// that identify it. Rules are scanned in declared order; keep the more
// specific tags first.
type Rule struct {
	Tag      string   `yaml:"tag" mapstructure:"tag"`
	Keywords []string `yaml:"keywords" mapstructure:"keywords"`
}

// Source returns the tag of the first rule with a keyword contained in the
// cleaned label. An unmapped label is a recoverable condition: it is logged
// for operator follow-up and the empty tag is returned, keeping the lead in
// the batch.
func Source(label string, rules []Rule) string {
	if strings.TrimSpace(label) == "" {
		return ""
	}
	cleaned := normalize.Clean(label)
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(cleaned, kw) {
				return rule.Tag
			}
		}
	}
	zap.L().Warn("classify: unmapped source label", zap.String("label", label))
	return ""
}

// DefaultRules is the production source mapping, kept as fallback when the
// tables file defines none.
func DefaultRules() []Rule {
	return []Rule{
		{Tag: "INDEED", Keywords: []string{"indeed"}},
		{Tag: "INDIQUE AMIGOS", Keywords: []string{"indi"}},
		{Tag: "SENIOR", Keywords: []string{"senior", "site"}},
		{Tag: "G.R.S", Keywords: []string{"grs", "redessociais"}},
		{Tag: "CURRICULOS", Keywords: []string{"curricu"}},
		{Tag: "GOOGLE ADS", Keywords: []string{"rhcontratacao"}},
		{Tag: "GOOGLE EXT", Keywords: []string{"google"}},
		{Tag: "LINKEDIN", Keywords: []string{"linkedin"}},
		{Tag: "SALAS", Keywords: []string{"sala"}},
		{Tag: "CAPTACAO EXTERNA", Keywords: []string{"extern", "panflet"}},
		{Tag: "SINE", Keywords: []string{"sine"}},
		{Tag: "VEREADORES", Keywords: []string{"vereador"}},
		{Tag: "FACULDADES", Keywords: []string{"ifp", "uniube", "anhanguera", "grautech"}},
		{Tag: "EVENTOS", Keywords: []string{"event"}},
		{Tag: "LEADS SEMENTES", Keywords: []string{"semente"}},
		{Tag: "ORGANICO GA", Keywords: []string{"organico"}},
		{Tag: "TIKTOK", Keywords: []string{"tiktok"}},
		{Tag: "FACEBOOK MD 50+", Keywords: []string{"50"}},
		{Tag: "FACEBOOK MD", Keywords: []string{"tardenoite", "aberto", "facebook", "meta", "instagram"}},
		{Tag: "BASE EXTRA", Keywords: []string{"extra"}},
	}
}
