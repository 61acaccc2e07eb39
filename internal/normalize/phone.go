package normalize

import "strings"

const (
	// defaultAreaCode is prefixed onto local numbers that arrive without one.
	defaultAreaCode = "34"
	// countryCode is stripped from numbers dialed with the country prefix.
	countryCode = "55"
	// mobileThreshold: local numbers starting at this digit or above are
	// mobiles and get the extra "9" when it is missing.
	mobileThreshold = '6'
)

// Phone reconstructs a dialable area-code-prefixed number from whatever the
// source captured. Returns "" when the digits cannot be reconciled into a
// 10 or 11 digit national number.
//
// The branch table is keyed on digit count after stripping formatting and
// leading zeros:
//
//	 8  local landline or short mobile, area code missing
//	 9  local mobile, area code missing
//	10  area code present, mobile "9" possibly missing; or "55" + 8 digits
//	11  complete, or "55" + 9 digits
//	12  "55" + area code + short mobile
//	13  "55" + complete number
func Phone(raw string) string {
	digits := strings.TrimLeft(Digits(raw), "0")
	if len(digits) < 8 || len(digits) > 13 {
		return ""
	}

	switch len(digits) {
	case 8:
		return prefixLocal(digits)
	case 9:
		return defaultAreaCode + digits
	case 10:
		if strings.HasPrefix(digits, countryCode) {
			return prefixLocal(digits[2:])
		}
		return insertMobileNine(digits)
	case 11:
		if strings.HasPrefix(digits, countryCode) {
			return defaultAreaCode + digits[2:]
		}
		return digits
	case 12:
		if strings.HasPrefix(digits, countryCode) {
			return insertMobileNine(digits[2:])
		}
	case 13:
		if strings.HasPrefix(digits, countryCode) {
			return digits[2:]
		}
	}
	return ""
}

// prefixLocal prepends the default area code to an 8-digit local number,
// adding the mobile "9" when the first digit marks a mobile.
func prefixLocal(local string) string {
	if local[0] < mobileThreshold {
		return defaultAreaCode + local
	}
	return defaultAreaCode + "9" + local
}

// insertMobileNine fixes a 10-digit number whose mobile "9" was dropped:
// the digit after the area code decides whether the number is a landline
// (left as-is) or a mobile (gets the "9" inserted).
func insertMobileNine(number string) string {
	if number[2] < mobileThreshold {
		return number
	}
	return number[:2] + "9" + number[2:]
}
