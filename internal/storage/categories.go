package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/paisaflow/paisaflow/internal/common"
	"github.com/paisaflow/paisaflow/internal/model"
)

const categoryColumns = `id, name, icon, color, parent_id, is_default, created_at`

// GetCategories retrieves all categories ordered by name.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// GetCategoryByID retrieves a single category.
func (s *SQLiteStorage) GetCategoryByID(ctx context.Context, id int) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	category, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetCategoryByName retrieves a category by its unique name.
func (s *SQLiteStorage) GetCategoryByName(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE name = ?`, name)
	category, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %q: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetDefaultCategory retrieves the category flagged as the default
// fallback ("Uncategorized" in the seed set).
func (s *SQLiteStorage) GetDefaultCategory(ctx context.Context) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE is_default = 1 LIMIT 1`)
	category, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNoDefaultCategory
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a category. The hierarchy is single level:
// the parent, when given, must exist and must not itself have a
// parent, which rules out cycles by construction.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: category", ErrNilParameter)
	}
	if err := category.Validate(); err != nil {
		return nil, err
	}

	if category.ParentID != nil {
		parent, err := s.GetCategoryByID(ctx, *category.ParentID)
		if err != nil {
			return nil, fmt.Errorf("parent category: %w", err)
		}
		if parent.ParentID != nil {
			return nil, fmt.Errorf("%w: parent %q already has a parent", common.ErrCategoryCycle, parent.Name)
		}
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, icon, color, parent_id, is_default)
		VALUES (?, ?, ?, ?, ?)
	`, category.Name, category.Icon, category.Color, category.ParentID, category.IsDefault)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get category id: %w", err)
	}

	return s.GetCategoryByID(ctx, int(id))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner) (model.Category, error) {
	var category model.Category
	var parentID sql.NullInt64
	err := row.Scan(
		&category.ID,
		&category.Name,
		&category.Icon,
		&category.Color,
		&parentID,
		&category.IsDefault,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Category{}, err
		}
		return model.Category{}, fmt.Errorf("failed to scan category: %w", err)
	}
	if parentID.Valid {
		id := int(parentID.Int64)
		category.ParentID = &id
	}
	return category, nil
}
