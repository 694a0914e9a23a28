package extract

import (
	"strings"
	"time"

	"github.com/paisaflow/paisaflow/internal/model"
)

// ParseDirection maps the extracted transaction-type text to a money
// direction. Unrecognized or missing type text defaults to expense,
// since the overwhelming majority of bank alerts are debits.
func ParseDirection(typeText string) model.TransactionDirection {
	switch strings.ToLower(strings.TrimSpace(typeText)) {
	case "credited", "received", "deposited", "refunded":
		return model.DirectionIncome
	case "transferred":
		return model.DirectionTransferOut
	default:
		return model.DirectionExpense
	}
}

// fallbackDateLayouts covers common formats when a bank pattern does
// not declare its own layouts.
var fallbackDateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"02-01-06",
	"02-Jan-06",
	"02-Jan-2006",
	"02Jan06",
	"2006-01-02",
}

// parseDate tries the bank's declared layouts first, then the
// fallbacks. The zero time and false are returned when nothing fits.
func parseDate(text string, layouts []string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	for _, layout := range fallbackDateLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
