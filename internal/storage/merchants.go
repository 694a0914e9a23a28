package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/paisaflow/paisaflow/internal/common"
	"github.com/paisaflow/paisaflow/internal/model"
)

// GetMerchant retrieves a merchant profile by normalized name.
func (s *SQLiteStorage) GetMerchant(ctx context.Context, normalizedName string) (*model.MerchantInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(normalizedName, "normalizedName"); err != nil {
		return nil, err
	}

	var merchant model.MerchantInfo
	var lastSeen sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT normalized_name, name, category_id, confidence, transaction_count, last_seen_at
		FROM merchants
		WHERE normalized_name = ?
	`, normalizedName).Scan(
		&merchant.NormalizedName,
		&merchant.Name,
		&merchant.CategoryID,
		&merchant.Confidence,
		&merchant.TransactionCount,
		&lastSeen,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("merchant %q: %w", normalizedName, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	if lastSeen.Valid {
		merchant.LastSeenAt = lastSeen.Time
	}
	return &merchant, nil
}

// SaveMerchant inserts or updates a merchant profile.
func (s *SQLiteStorage) SaveMerchant(ctx context.Context, merchant *model.MerchantInfo) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMerchant(merchant); err != nil {
		return err
	}

	if merchant.LastSeenAt.IsZero() {
		merchant.LastSeenAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO merchants
			(normalized_name, name, category_id, confidence, transaction_count, last_seen_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(normalized_name) DO UPDATE SET
			name = excluded.name,
			category_id = excluded.category_id,
			confidence = excluded.confidence,
			transaction_count = excluded.transaction_count,
			last_seen_at = excluded.last_seen_at
	`, merchant.NormalizedName, merchant.Name, merchant.CategoryID,
		merchant.Confidence, merchant.TransactionCount, merchant.LastSeenAt)
	if err != nil {
		return fmt.Errorf("failed to save merchant: %w", err)
	}
	return nil
}
