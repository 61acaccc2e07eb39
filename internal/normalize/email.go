package normalize

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email strips embedded spaces and validates the local@domain.tld shape.
// Returns "" when the value is not a plausible address.
func Email(raw string) string {
	email := strings.ReplaceAll(raw, " ", "")
	if email == "" || !emailPattern.MatchString(email) {
		return ""
	}
	return email
}
