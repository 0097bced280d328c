package billing

import (
	"github.com/shopspring/decimal"

	"github.com/smmpanel/backend/internal/domain/shared"
)

// ErrInvalidAmount is returned when an amount string cannot be parsed or is
// below the one-shilling minimum
var ErrInvalidAmount = shared.NewDomainError("INVALID_AMOUNT", "Amount must be a positive number of at least 1")

var minorUnitsPerMajor = decimal.NewFromInt(100)

// ParseAmount converts a major-unit amount string (e.g. "123.45") into
// integer minor units (12345). Amounts below one major unit are rejected.
func ParseAmount(raw string) (int64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	minor := d.Mul(minorUnitsPerMajor).Round(0)
	if minor.LessThan(minorUnitsPerMajor) {
		return 0, ErrInvalidAmount
	}
	return minor.IntPart(), nil
}

// MajorUnits converts integer minor units back to a major-unit decimal
// for display and gateway payloads
func MajorUnits(minor int64) decimal.Decimal {
	return decimal.NewFromInt(minor).Div(minorUnitsPerMajor)
}
