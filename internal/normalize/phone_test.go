package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"8 digits landline gets area code", "32123456", "3432123456"},
		{"8 digits mobile gets area code and nine", "91234567", "34991234567"},
		{"9 digits gets area code", "991234567", "34991234567"},
		{"10 digits landline left alone", "3432123456", "3432123456"},
		{"10 digits mobile gets nine inserted", "3491234567", "34991234567"},
		{"10 digits with country code, landline remainder", "5532123456", "3432123456"},
		{"10 digits with country code, mobile remainder", "5591234567", "34991234567"},
		{"11 digits complete left alone", "34991234567", "34991234567"},
		{"11 digits with country code", "55991234567", "34991234567"},
		{"12 digits with country code, nine missing", "553491234567", "34991234567"},
		{"12 digits with country code, landline", "553432123456", "3432123456"},
		{"12 digits without country code rejected", "123491234567", ""},
		{"13 digits with country code stripped", "5534991234567", "34991234567"},
		{"13 digits without country code rejected", "1334991234567", ""},
		{"formatting stripped", "(34) 99123-4567", "34991234567"},
		{"leading zeros stripped before length check", "0034991234567", "34991234567"},
		{"7 digits rejected", "1234567", ""},
		{"14 digits rejected", "55349912345678", ""},
		{"empty rejected", "", ""},
		{"letters only rejected", "sem telefone", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Phone(tc.in))
		})
	}
}

func TestPhoneIdempotent(t *testing.T) {
	// A canonical number must survive a second pass unchanged.
	for _, in := range []string{"991234567", "3432123456", "5534991234567", "91234567"} {
		once := Phone(in)
		assert.NotEmpty(t, once)
		assert.Equal(t, once, Phone(once), "input %q", in)
	}
}
