package normalize

import (
	"strconv"
	"strings"
)

// EnrollmentID canonicalizes a referring employee's enrollment number:
// digits only, positive, without leading zeros. Returns "" when absent or
// not a positive number.
func EnrollmentID(raw string) string {
	digits := Digits(raw)
	if digits == "" {
		return ""
	}
	n, err := strconv.ParseInt(strings.TrimLeft(digits, "0"), 10, 64)
	if err != nil || n <= 0 {
		return ""
	}
	return strconv.FormatInt(n, 10)
}
