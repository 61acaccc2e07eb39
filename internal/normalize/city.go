package normalize

import "strings"

// CityOther is the sentinel tag for cities outside the allow-list. Leads
// tagged with it are discarded by the city rule.
const CityOther = "outra"

// City maps a free-text city to one of the allow-listed tags. Absent input
// falls back to defaultCity (the main operation site); anything that matches
// no allow-list entry becomes CityOther. Matching is by substring against the
// cleaned input, in allow-list order.
func City(raw string, allowed []string, defaultCity string) string {
	if strings.TrimSpace(raw) == "" {
		return defaultCity
	}
	cleaned := strings.ToLower(Clean(raw))
	for _, city := range allowed {
		if strings.Contains(cleaned, strings.ToLower(city)) {
			return city
		}
	}
	return CityOther
}
