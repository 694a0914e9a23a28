package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/paisaflow/paisaflow/internal/common"
	"github.com/paisaflow/paisaflow/internal/model"
)

// layoutSeparator joins date layouts into one column. Layouts never
// contain it.
const layoutSeparator = "|"

// GetBankPatterns retrieves all stored bank patterns in creation
// order, so registry registration order survives restarts.
func (s *SQLiteStorage) GetBankPatterns(ctx context.Context) ([]model.BankPattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT bank_name, sender_pattern, amount_pattern, merchant_pattern,
		       date_pattern, type_pattern, account_pattern, date_layouts,
		       is_active, created_at
		FROM bank_patterns
		ORDER BY created_at, bank_name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bank patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patterns []model.BankPattern
	for rows.Next() {
		var pattern model.BankPattern
		var layouts string
		err := rows.Scan(
			&pattern.BankName,
			&pattern.SenderPattern,
			&pattern.AmountPattern,
			&pattern.MerchantPattern,
			&pattern.DatePattern,
			&pattern.TypePattern,
			&pattern.AccountPattern,
			&layouts,
			&pattern.IsActive,
			&pattern.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bank pattern: %w", err)
		}
		if layouts != "" {
			pattern.DateLayouts = strings.Split(layouts, layoutSeparator)
		}
		patterns = append(patterns, pattern)
	}
	return patterns, rows.Err()
}

// SaveBankPattern inserts or updates a bank pattern.
func (s *SQLiteStorage) SaveBankPattern(ctx context.Context, pattern *model.BankPattern) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if pattern == nil {
		return fmt.Errorf("%w: pattern", ErrNilParameter)
	}
	if err := pattern.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidPattern, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bank_patterns
			(bank_name, sender_pattern, amount_pattern, merchant_pattern,
			 date_pattern, type_pattern, account_pattern, date_layouts, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(bank_name) DO UPDATE SET
			sender_pattern = excluded.sender_pattern,
			amount_pattern = excluded.amount_pattern,
			merchant_pattern = excluded.merchant_pattern,
			date_pattern = excluded.date_pattern,
			type_pattern = excluded.type_pattern,
			account_pattern = excluded.account_pattern,
			date_layouts = excluded.date_layouts,
			is_active = excluded.is_active
	`, pattern.BankName, pattern.SenderPattern, pattern.AmountPattern,
		pattern.MerchantPattern, pattern.DatePattern, pattern.TypePattern,
		pattern.AccountPattern, strings.Join(pattern.DateLayouts, layoutSeparator),
		pattern.IsActive)
	if err != nil {
		return fmt.Errorf("failed to save bank pattern: %w", err)
	}
	return nil
}

// DeactivateBankPattern disables a stored bank pattern.
func (s *SQLiteStorage) DeactivateBankPattern(ctx context.Context, bankName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(bankName, "bankName"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE bank_patterns SET is_active = 0 WHERE bank_name = ?
	`, bankName)
	if err != nil {
		return fmt.Errorf("failed to deactivate bank pattern: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("bank %q: %w", bankName, common.ErrNotFound)
	}
	return nil
}
