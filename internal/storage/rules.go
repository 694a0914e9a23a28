package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/paisaflow/paisaflow/internal/model"
)

const ruleColumns = `id, merchant_pattern, category_id, confidence, use_count,
	is_user_defined, is_regex, is_active, last_used_at, created_at`

// GetActiveRules retrieves all active category rules in creation order.
func (s *SQLiteStorage) GetActiveRules(ctx context.Context) ([]model.CategoryRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+ruleColumns+` FROM category_rules WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.CategoryRule
	for rows.Next() {
		var rule model.CategoryRule
		var lastUsed sql.NullTime
		err := rows.Scan(
			&rule.ID,
			&rule.MerchantPattern,
			&rule.CategoryID,
			&rule.Confidence,
			&rule.UseCount,
			&rule.IsUserDefined,
			&rule.IsRegex,
			&rule.IsActive,
			&lastUsed,
			&rule.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		if lastUsed.Valid {
			rule.LastUsedAt = lastUsed.Time
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// SaveRule inserts a new rule (ID zero) or updates an existing one.
func (s *SQLiteStorage) SaveRule(ctx context.Context, rule *model.CategoryRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = time.Now()
	}

	if rule.ID == 0 {
		result, err := s.db.ExecContext(ctx, `
			INSERT INTO category_rules
				(merchant_pattern, category_id, confidence, use_count,
				 is_user_defined, is_regex, is_active, last_used_at, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, rule.MerchantPattern, rule.CategoryID, rule.Confidence, rule.UseCount,
			rule.IsUserDefined, rule.IsRegex, rule.IsActive, nullTime(rule.LastUsedAt), rule.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert rule: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get rule id: %w", err)
		}
		rule.ID = int(id)
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE category_rules SET
			merchant_pattern = ?, category_id = ?, confidence = ?, use_count = ?,
			is_user_defined = ?, is_regex = ?, is_active = ?, last_used_at = ?
		WHERE id = ?
	`, rule.MerchantPattern, rule.CategoryID, rule.Confidence, rule.UseCount,
		rule.IsUserDefined, rule.IsRegex, rule.IsActive, nullTime(rule.LastUsedAt), rule.ID)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}
	return nil
}

// IncrementRuleUse bumps a rule's usage counter and refreshes its
// last-used timestamp.
func (s *SQLiteStorage) IncrementRuleUse(ctx context.Context, ruleID int, usedAt time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE category_rules SET use_count = use_count + 1, last_used_at = ?
		WHERE id = ?
	`, usedAt, ruleID)
	if err != nil {
		return fmt.Errorf("failed to increment rule use: %w", err)
	}
	return nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
