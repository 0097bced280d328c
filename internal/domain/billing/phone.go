package billing

import (
	"strings"

	"github.com/smmpanel/backend/internal/domain/shared"
)

const (
	phoneCountryPrefix = "255"
	phoneLocalDigits   = 9
	phoneFullDigits    = 12
)

// ErrInvalidPhone is returned when a phone number cannot be normalized
var ErrInvalidPhone = shared.NewDomainError("INVALID_PHONE", "Phone number must be a 9-digit local or 255-prefixed 12-digit number")

// NormalizePhone converts a user-supplied phone number into the 12-digit
// international form used by the payment gateway. Non-digit characters are
// stripped, a 9-digit local number gets the 255 country prefix, and anything
// that does not end up as a 255-prefixed 12-digit number is rejected.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, c := range raw {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	digits := b.String()

	if len(digits) == phoneLocalDigits {
		digits = phoneCountryPrefix + digits
	}
	if len(digits) != phoneFullDigits || !strings.HasPrefix(digits, phoneCountryPrefix) {
		return "", ErrInvalidPhone
	}
	return digits, nil
}
