package normalize

import (
	"strings"
	"time"

	"github.com/people-analytics/mailing-cli/internal/model"
)

// maxAge guards against garbage numeric input ("999").
const maxAge = 120

// birthDateLayouts are tried before the free-text rules so sources that
// export a real date column ("1998-04-07", "07/04/1998") resolve directly.
var birthDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02/01/2006 15:04:05",
}

// Age converts the many shapes the age column arrives in — a plain number, a
// birth date, a birth year, or a yes/no adulthood answer — into a canonical
// model.Age. Anything unrecognized is absent. now is injected so ages derived
// from dates are deterministic.
func Age(raw string, now time.Time) model.Age {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.Age{}
	}

	for _, layout := range birthDateLayouts {
		if born, err := time.Parse(layout, raw); err == nil {
			return yearsSince(born.Year(), now)
		}
	}

	text := strings.ToLower(Fold(raw))
	switch text {
	case "sim":
		return model.Age{Hint: model.AgeHintAdult}
	case "nao":
		return model.Age{Hint: model.AgeHintMinor}
	}

	digits := Digits(text)
	switch {
	case digits == "":
		return model.Age{}
	case len(digits) <= 3:
		years := atoi(digits)
		if years > maxAge {
			return model.Age{}
		}
		return model.Age{Years: years, Known: true}
	case len(digits) == 4:
		return yearsSince(atoi(digits), now)
	case len(digits) == 8:
		born, err := time.Parse("02012006", digits)
		if err != nil {
			return model.Age{}
		}
		return yearsSince(born.Year(), now)
	case len(digits) == 6:
		born, err := time.Parse("020106", digits)
		if err != nil {
			return model.Age{}
		}
		return yearsSince(born.Year(), now)
	}
	return model.Age{}
}

// yearsSince derives age as a plain year difference, matching how the
// call-center records it.
func yearsSince(birthYear int, now time.Time) model.Age {
	return model.Age{Years: now.Year() - birthYear, Known: true}
}

func atoi(digits string) int {
	n := 0
	for i := 0; i < len(digits); i++ {
		n = n*10 + int(digits[i]-'0')
	}
	return n
}
