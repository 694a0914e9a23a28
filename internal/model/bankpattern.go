package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// FieldName identifies one of the five extractable SMS fields.
type FieldName string

// Extractable field names.
const (
	FieldAmount   FieldName = "amount"
	FieldMerchant FieldName = "merchant"
	FieldDate     FieldName = "date"
	FieldType     FieldName = "type"
	FieldAccount  FieldName = "account"
)

// AllFields lists every extractable field in scoring order.
var AllFields = []FieldName{FieldAmount, FieldMerchant, FieldDate, FieldType, FieldAccount}

// BankPattern describes how one bank formats its transaction messages:
// a sender-matching pattern plus five independent field sub-patterns.
// Patterns are data, not code; new banks are added by registering a
// record, never by writing a new type.
type BankPattern struct {
	CreatedAt       time.Time
	BankName        string
	SenderPattern   string
	AmountPattern   string
	MerchantPattern string
	DatePattern     string
	TypePattern     string
	AccountPattern  string
	DateLayouts     []string
	IsActive        bool
}

// FieldPattern returns the sub-pattern for the named field.
func (p *BankPattern) FieldPattern(field FieldName) string {
	switch field {
	case FieldAmount:
		return p.AmountPattern
	case FieldMerchant:
		return p.MerchantPattern
	case FieldDate:
		return p.DatePattern
	case FieldType:
		return p.TypePattern
	case FieldAccount:
		return p.AccountPattern
	}
	return ""
}

// Validate ensures the pattern has a bank name, a sender pattern, and
// that every non-empty sub-pattern compiles.
func (p *BankPattern) Validate() error {
	if strings.TrimSpace(p.BankName) == "" {
		return fmt.Errorf("bank name is required")
	}
	if strings.TrimSpace(p.SenderPattern) == "" {
		return fmt.Errorf("sender pattern is required")
	}
	if _, err := regexp.Compile(p.SenderPattern); err != nil {
		return fmt.Errorf("invalid sender pattern: %w", err)
	}
	for _, field := range AllFields {
		expr := p.FieldPattern(field)
		if expr == "" {
			continue
		}
		if _, err := regexp.Compile(expr); err != nil {
			return fmt.Errorf("invalid %s pattern: %w", field, err)
		}
	}
	return nil
}
