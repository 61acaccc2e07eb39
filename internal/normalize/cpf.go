package normalize

import "strings"

// CPF validates and canonicalizes a national ID to its 11-digit zero-padded
// form. Returns "" for anything that is not a checksum-valid CPF. Numbers
// made of a single repeated digit are rejected outright — several of them
// pass the checksum but are placeholder values in practice.
func CPF(raw string) string {
	digits := Digits(raw)
	if digits == "" || len(digits) > 11 {
		return ""
	}
	cpf := strings.Repeat("0", 11-len(digits)) + digits

	if allSameDigit(cpf) {
		return ""
	}

	d1 := checkDigit(cpf[:9], 10)
	d2 := checkDigit(cpf[:10], 11)
	if int(cpf[9]-'0') != d1 || int(cpf[10]-'0') != d2 {
		return ""
	}
	return cpf
}

// checkDigit computes one CPF verification digit: each digit is multiplied by
// a descending weight starting at weight, the sum is scaled by 10 and reduced
// mod 11 then mod 10.
func checkDigit(digits string, weight int) int {
	total := 0
	for i := 0; i < len(digits); i++ {
		total += int(digits[i]-'0') * (weight - i)
	}
	return total * 10 % 11 % 10
}

func allSameDigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
