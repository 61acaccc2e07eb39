// Package discard evaluates the exclusion predicates that decide whether a
// lead reaches the dialing list.
package discard

import (
	"strings"

	"github.com/people-analytics/mailing-cli/internal/model"
	"github.com/people-analytics/mailing-cli/internal/normalize"
)

// Rule pairs a discard flag with its predicate. The engine keeps rules in an
// ordered slice — the order doubles as the reporting priority, so it stays a
// testable contract rather than a map iteration accident.
type Rule struct {
	Flag model.DiscardFlag
	Pred func(l *model.Lead) bool
}

// Engine evaluates the record-level discard predicates. History-derived
// flags are merged separately by the history reconciler.
type Engine struct {
	rules []Rule
}

// NewEngine builds the rule set against the configured city allow-list.
func NewEngine(allowedCities []string) *Engine {
	cityValid := func(city string) bool {
		if city == "" {
			return false
		}
		cleaned := strings.ToLower(normalize.Clean(city))
		for _, allowed := range allowedCities {
			if strings.Contains(cleaned, strings.ToLower(allowed)) {
				return true
			}
		}
		return false
	}

	return &Engine{rules: []Rule{
		{model.DiscardCity, func(l *model.Lead) bool { return !cityValid(l.City) }},
		{model.DiscardPhoneInvalid, func(l *model.Lead) bool { return l.Phone == "" }},
		{model.DiscardCPFDuplicate, func(l *model.Lead) bool { return l.CPFOrdinal != 1 }},
		{model.DiscardPhoneDuplicate, func(l *model.Lead) bool { return l.PhoneOrdinal != 1 }},
		{model.DiscardUnderage, func(l *model.Lead) bool { return l.Age.Underage() }},
		// Absent education passes on purpose: most sources never supply the
		// column and the requirement only excludes confirmed primary-only.
		{model.DiscardEducation, func(l *model.Lead) bool { return l.Education.Primary() }},
	}}
}

// Evaluate runs every rule against the lead and records the true flags.
// Ordinals must already be assigned.
func (e *Engine) Evaluate(l *model.Lead) {
	if l.Flags == nil {
		l.Flags = make(model.DiscardSet)
	}
	for _, rule := range e.rules {
		if rule.Pred(l) {
			l.Flags.Set(rule.Flag)
		}
	}
}
