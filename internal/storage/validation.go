package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/paisaflow/paisaflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidRule        = errors.New("invalid category rule")
	ErrInvalidMerchant    = errors.New("invalid merchant")
	ErrInvalidKeyword     = errors.New("invalid keyword mapping")
	ErrInvalidAccount     = errors.New("invalid account")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	switch txn.Direction {
	case model.DirectionIncome, model.DirectionExpense,
		model.DirectionTransferIn, model.DirectionTransferOut:
	default:
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidTransaction, txn.Direction)
	}
	if txn.Amount.IsNegative() {
		return fmt.Errorf("%w: negative amount", ErrInvalidTransaction)
	}
	return nil
}

func validateRule(rule *model.CategoryRule) error {
	if rule == nil {
		return fmt.Errorf("%w: rule", ErrNilParameter)
	}
	if strings.TrimSpace(rule.MerchantPattern) == "" {
		return fmt.Errorf("%w: missing merchant pattern", ErrInvalidRule)
	}
	if rule.CategoryID == 0 {
		return fmt.Errorf("%w: missing category", ErrInvalidRule)
	}
	if rule.Confidence < 0 || rule.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidRule)
	}
	return nil
}

func validateMerchant(merchant *model.MerchantInfo) error {
	if merchant == nil {
		return fmt.Errorf("%w: merchant", ErrNilParameter)
	}
	if strings.TrimSpace(merchant.NormalizedName) == "" {
		return fmt.Errorf("%w: missing normalized name", ErrInvalidMerchant)
	}
	if merchant.CategoryID == 0 {
		return fmt.Errorf("%w: missing category", ErrInvalidMerchant)
	}
	if merchant.Confidence < 0 || merchant.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidMerchant)
	}
	return nil
}

func validateKeyword(mapping *model.KeywordMapping) error {
	if mapping == nil {
		return fmt.Errorf("%w: mapping", ErrNilParameter)
	}
	if strings.TrimSpace(mapping.Keyword) == "" {
		return fmt.Errorf("%w: missing keyword", ErrInvalidKeyword)
	}
	if mapping.CategoryID == 0 {
		return fmt.Errorf("%w: missing category", ErrInvalidKeyword)
	}
	return nil
}

func validateAccount(account *model.Account) error {
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if strings.TrimSpace(account.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidAccount)
	}
	if strings.TrimSpace(account.Number) == "" {
		return fmt.Errorf("%w: missing number", ErrInvalidAccount)
	}
	return nil
}
