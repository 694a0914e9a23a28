package registry

import (
	"fmt"

	"github.com/paisaflow/paisaflow/internal/model"
)

// SeedPatterns returns the built-in bank patterns loaded at startup.
// Each is pure configuration data; supporting a new bank means
// registering a new record, not writing new code.
func SeedPatterns() []model.BankPattern {
	return []model.BankPattern{
		{
			BankName:        "HDFC",
			SenderPattern:   `(?i)HDFC`,
			AmountPattern:   `(?i)(?:Rs\.?|INR|₹)\s*([\d,]+(?:\.\d{1,2})?)`,
			TypePattern:     `(?i)\b(debited|credited|spent|received|withdrawn|deposited)\b`,
			MerchantPattern: `(?i)\b(?:at|to|towards)\s+([A-Za-z0-9&._' -]+?)(?:\s+on\b|\s+from\b|\.|,|$)`,
			DatePattern:     `(\d{2}-\d{2}-\d{4})`,
			AccountPattern:  `(?i)(?:a/c|acct|account)\s*(?:no\.?\s*)?[Xx*]*(\d{3,6})`,
			DateLayouts:     []string{"02-01-2006"},
			IsActive:        true,
		},
		{
			BankName:        "ICICI",
			SenderPattern:   `(?i)ICICI`,
			AmountPattern:   `(?i)(?:Rs\.?|INR|₹)\s*([\d,]+(?:\.\d{1,2})?)`,
			TypePattern:     `(?i)\b(debited|credited|spent|received|withdrawn|deposited)\b`,
			MerchantPattern: `(?i);\s*([A-Za-z0-9&._' -]+?)\s+(?:credited|debited)|\b(?:at|to|towards)\s+([A-Za-z0-9&._' -]+?)(?:\s+on\b|\.|,|$)`,
			DatePattern:     `(\d{2}-[A-Za-z]{3}-\d{2})`,
			AccountPattern:  `(?i)(?:a/c|acct|account)\s*[Xx*]*(\d{3,6})`,
			DateLayouts:     []string{"02-Jan-06"},
			IsActive:        true,
		},
		{
			BankName:        "SBI",
			SenderPattern:   `(?i)\bSBI|SBIINB|SBIPSG`,
			AmountPattern:   `(?i)(?:Rs\.?|INR|₹)\s*([\d,]+(?:\.\d{1,2})?)`,
			TypePattern:     `(?i)\b(debited|credited|withdrawn|deposited|transferred)\b`,
			MerchantPattern: `(?i)\b(?:at|to|towards)\s+([A-Za-z0-9&._' -]+?)(?:\s+on\b|\.|,|$)`,
			DatePattern:     `(\d{2}[A-Za-z]{3}\d{2})`,
			AccountPattern:  `(?i)a/c\s*[Xx*]*(\d{3,6})`,
			DateLayouts:     []string{"02Jan06"},
			IsActive:        true,
		},
		{
			BankName:        "Axis",
			SenderPattern:   `(?i)AXIS`,
			AmountPattern:   `(?i)(?:Rs\.?|INR|₹)\s*([\d,]+(?:\.\d{1,2})?)`,
			TypePattern:     `(?i)\b(debited|credited|spent|received)\b`,
			MerchantPattern: `(?i)\b(?:at|to|towards)\s+([A-Za-z0-9&._' -]+?)(?:\s+on\b|\.|,|$)`,
			DatePattern:     `(\d{2}-\d{2}-\d{2})`,
			AccountPattern:  `(?i)(?:a/c|acct)\s*(?:no\.?\s*)?[Xx*]*(\d{3,6})`,
			DateLayouts:     []string{"02-01-06"},
			IsActive:        true,
		},
		{
			BankName:        "Kotak",
			SenderPattern:   `(?i)KOTAK`,
			AmountPattern:   `(?i)(?:Rs\.?|INR|₹)\s*([\d,]+(?:\.\d{1,2})?)`,
			TypePattern:     `(?i)\b(debited|credited|sent|received)\b`,
			MerchantPattern: `(?i)\b(?:at|to|towards)\s+([A-Za-z0-9&._' -]+?)(?:\s+on\b|\.|,|$)`,
			DatePattern:     `(\d{2}/\d{2}/\d{4})`,
			AccountPattern:  `(?i)(?:a/c|acct)\s*[Xx*]*(\d{3,6})`,
			DateLayouts:     []string{"02/01/2006"},
			IsActive:        true,
		},
	}
}

// DefaultTrustedSenders returns the sender identifiers covered by the
// seed pattern set. Messages from these senders earn the sender-trust
// confidence factor.
func DefaultTrustedSenders() []string {
	return []string{
		"HDFCBK", "HDFCBN",
		"ICICIB", "ICICIT",
		"SBIINB", "SBIPSG", "SBIUPI",
		"AXISBK",
		"KOTAKB",
	}
}

// Seed registers every built-in pattern into the registry.
func Seed(r *Registry) error {
	for _, pattern := range SeedPatterns() {
		if err := r.Register(pattern); err != nil {
			return fmt.Errorf("failed to seed pattern %s: %w", pattern.BankName, err)
		}
	}
	return nil
}
