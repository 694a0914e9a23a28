package storage

import (
	"context"
	"fmt"

	"github.com/paisaflow/paisaflow/internal/model"
)

// GetKeywordMappings retrieves the full keyword dictionary.
func (s *SQLiteStorage) GetKeywordMappings(ctx context.Context) ([]model.KeywordMapping, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT keyword, category_id, is_default
		FROM keyword_mappings
		ORDER BY keyword
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query keyword mappings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var mappings []model.KeywordMapping
	for rows.Next() {
		var mapping model.KeywordMapping
		if err := rows.Scan(&mapping.Keyword, &mapping.CategoryID, &mapping.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan keyword mapping: %w", err)
		}
		mappings = append(mappings, mapping)
	}
	return mappings, rows.Err()
}

// SaveKeywordMapping inserts or updates a keyword mapping.
func (s *SQLiteStorage) SaveKeywordMapping(ctx context.Context, mapping *model.KeywordMapping) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKeyword(mapping); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO keyword_mappings (keyword, category_id, is_default)
		VALUES (?, ?, ?)
		ON CONFLICT(keyword) DO UPDATE SET
			category_id = excluded.category_id,
			is_default = excluded.is_default
	`, mapping.Keyword, mapping.CategoryID, mapping.IsDefault)
	if err != nil {
		return fmt.Errorf("failed to save keyword mapping: %w", err)
	}
	return nil
}
