package pipeline

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/people-analytics/mailing-cli/internal/classify"
	"github.com/people-analytics/mailing-cli/internal/model"
	"github.com/people-analytics/mailing-cli/internal/normalize"
)

// submittedLayouts covers the timestamp formats the form exports use.
var submittedLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"1/2/06 15:04:05",
	"01-02-06",
}

// normalizeAll converts raw rows into leads, in parallel but order-preserving:
// each worker writes only its own index.
func (p *Pipeline) normalizeAll(ctx context.Context, raw []model.RawLead) ([]*model.Lead, error) {
	leads := make([]*model.Lead, len(raw))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers())
	for i := range raw {
		g.Go(func() error {
			leads[i] = p.normalizeOne(gctx, raw[i], i)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return leads, nil
}

func (p *Pipeline) normalizeOne(ctx context.Context, raw model.RawLead, index int) *model.Lead {
	now := p.now()

	l := &model.Lead{
		Raw:          raw,
		Index:        index,
		Name:         normalize.Name(raw.Name),
		Email:        normalize.Email(raw.Email),
		CPF:          normalize.CPF(raw.CPF),
		Phone:        normalize.Phone(raw.Phone),
		Phone2:       normalize.Phone(raw.Phone2),
		Age:          normalize.Age(raw.Age, now),
		Education:    normalize.Education(raw.Education),
		OriginCity:   raw.OriginCity,
		TargetCity:   raw.TargetCity,
		Address:      raw.Address,
		EnrollmentID: normalize.EnrollmentID(raw.EnrollmentID),
		ReferrerName: normalize.Name(raw.ReferrerName),
		SourceTag:    classify.Source(raw.Source, p.cfg.Tables.SourceRules),
	}
	l.SubmittedAt = parseSubmittedAt(raw.SubmittedAt)

	geoCity := p.standardizeAddress(ctx, l)
	l.City = resolveCity(l, geoCity, p.cfg.Cities.Allowed, p.cfg.Cities.Default)
	return l
}

// standardizeAddress canonicalizes the free-form address via Nominatim when
// a geocoder is wired. Lookup failures leave the raw address in place and
// never fail the lead; the returned city is a fallback for resolveCity.
func (p *Pipeline) standardizeAddress(ctx context.Context, l *model.Lead) string {
	if p.geo == nil || l.Address == "" {
		return ""
	}
	place, err := p.geo.Standardize(ctx, l.Address)
	if err != nil {
		zap.L().Debug("pipeline: geocode failed",
			zap.Int("lead", l.Index),
			zap.Error(err),
		)
		return ""
	}
	if !place.Matched {
		return ""
	}
	l.Address = place.DisplayName
	return place.City
}

// resolveCity picks the city the lead is dialed for: the target city, then
// the origin city, then the geocoded address city, then the default site.
// The picked value still goes through the allow-list normalization.
func resolveCity(l *model.Lead, geoCity string, allowed []string, defaultCity string) string {
	city := l.TargetCity
	if city == "" {
		city = l.OriginCity
	}
	if city == "" {
		city = geoCity
	}
	return normalize.City(city, allowed, defaultCity)
}

func parseSubmittedAt(s string) time.Time {
	for _, layout := range submittedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// sortBySubmission orders the batch by submission time, oldest first, so the
// earliest submission of a duplicate keeps ordinal 1. Date-only timestamps
// are shifted to the end of their day, pushing them behind timed entries of
// the same date. The sort is stable, so source order breaks ties.
func sortBySubmission(leads []*model.Lead) {
	key := func(l *model.Lead) time.Time {
		t := l.SubmittedAt
		if t.IsZero() {
			return time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
		}
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
			return t.Add(24*time.Hour - time.Second)
		}
		return t
	}
	sort.SliceStable(leads, func(i, j int) bool {
		return key(leads[i]).Before(key(leads[j]))
	})
}
