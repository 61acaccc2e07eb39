package normalize

import (
	"strings"

	"github.com/people-analytics/mailing-cli/internal/model"
)

// educationRule maps keyword substrings to a category. Rules are evaluated
// in order and the first hit wins, so "pós-graduação" must be tested before
// the bare "graduação" keyword.
type educationRule struct {
	keywords []string
	complete model.Education
	// incomplete, when set, is returned instead of complete if the cleaned
	// text also contains the incomplete marker.
	incomplete model.Education
}

const incompleteMarker = "incompleto"

var educationRules = []educationRule{
	{keywords: []string{"posgraduacao"}, complete: model.EducationPostgraduate},
	{keywords: []string{"mestrado"}, complete: model.EducationMasters},
	{keywords: []string{"doutorado"}, complete: model.EducationDoctorate},
	{
		keywords:   []string{"superior", "tecnico", "graduacao"},
		complete:   model.EducationHigherComplete,
		incomplete: model.EducationHigherIncomplete,
	},
	{
		keywords:   []string{"medio"},
		complete:   model.EducationSecondaryComplete,
		incomplete: model.EducationSecondaryIncomplete,
	},
	{
		keywords:   []string{"fundamental"},
		complete:   model.EducationPrimaryComplete,
		incomplete: model.EducationPrimaryIncomplete,
	},
}

// Education matches the cleaned text against the category keyword sets in
// priority order. No match means absent.
func Education(raw string) model.Education {
	cleaned := Clean(raw)
	if cleaned == "" {
		return model.EducationNone
	}
	for _, rule := range educationRules {
		for _, kw := range rule.keywords {
			if !strings.Contains(cleaned, kw) {
				continue
			}
			if rule.incomplete != model.EducationNone && strings.Contains(cleaned, incompleteMarker) {
				return rule.incomplete
			}
			return rule.complete
		}
	}
	return model.EducationNone
}
