// Package extract implements the SMS-to-transaction extraction
// pipeline: sender matching, per-field extraction, confidence scoring,
// and account resolution.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrUnparsableAmount indicates the amount text could not be converted
// to a decimal.
var ErrUnparsableAmount = errors.New("unparsable amount")

// ParseAmount converts locale-formatted amount text into an exact
// decimal. It accepts Indian digit grouping ("1,50,000.00"), western
// grouping ("1,500.00"), and European separators ("1.500,00"). Money is
// never represented as binary floating point.
func ParseAmount(text string) (decimal.Decimal, error) {
	cleaned := stripCurrencyMarkers(text)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnparsableAmount, text)
	}

	normalized := normalizeSeparators(cleaned)

	amount, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnparsableAmount, text)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative amount %q", ErrUnparsableAmount, text)
	}
	return amount, nil
}

func stripCurrencyMarkers(text string) string {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeSeparators rewrites the amount into plain "1234.56" form.
// When both separators appear, the rightmost one is the decimal point
// and the other is digit grouping. A lone comma followed by exactly
// one or two digits is a European decimal comma; otherwise commas are
// grouping.
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastComma >= 0:
		decimals := len(s) - lastComma - 1
		if strings.Count(s, ",") == 1 && (decimals == 1 || decimals == 2) {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case strings.Count(s, ".") > 1:
		// Multiple dots are grouping unless the final group looks like
		// decimals (one or two digits).
		decimals := len(s) - lastDot - 1
		if decimals == 1 || decimals == 2 {
			s = strings.ReplaceAll(s[:lastDot], ".", "") + s[lastDot:]
		} else {
			s = strings.ReplaceAll(s, ".", "")
		}
	}
	return s
}
