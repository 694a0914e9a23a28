package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the
// application expects.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS accounts (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					number TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS categories (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					name TEXT UNIQUE NOT NULL,
					icon TEXT NOT NULL DEFAULT '',
					color TEXT NOT NULL DEFAULT '',
					parent_id INTEGER REFERENCES categories(id),
					is_default INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					date DATETIME NOT NULL,
					merchant_name TEXT NOT NULL DEFAULT '',
					account_id TEXT REFERENCES accounts(id),
					direction TEXT NOT NULL,
					amount TEXT NOT NULL,
					note TEXT NOT NULL DEFAULT '',
					category_id INTEGER REFERENCES categories(id),
					categorization_reason TEXT NOT NULL DEFAULT '',
					category_confidence REAL NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_date ON transactions(date)`,
				`CREATE INDEX idx_transactions_merchant ON transactions(merchant_name)`,

				`CREATE TABLE IF NOT EXISTS category_rules (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					merchant_pattern TEXT NOT NULL,
					category_id INTEGER NOT NULL REFERENCES categories(id),
					confidence REAL NOT NULL DEFAULT 0,
					use_count INTEGER NOT NULL DEFAULT 0,
					is_user_defined INTEGER NOT NULL DEFAULT 0,
					is_regex INTEGER NOT NULL DEFAULT 0,
					is_active INTEGER NOT NULL DEFAULT 1,
					last_used_at DATETIME,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_category_rules_pattern ON category_rules(merchant_pattern)`,

				`CREATE TABLE IF NOT EXISTS merchants (
					normalized_name TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					category_id INTEGER NOT NULL REFERENCES categories(id),
					confidence REAL NOT NULL DEFAULT 0,
					transaction_count INTEGER NOT NULL DEFAULT 0,
					last_seen_at DATETIME
				)`,

				`CREATE TABLE IF NOT EXISTS keyword_mappings (
					keyword TEXT PRIMARY KEY,
					category_id INTEGER NOT NULL REFERENCES categories(id),
					is_default INTEGER NOT NULL DEFAULT 0
				)`,

				`CREATE TABLE IF NOT EXISTS bank_patterns (
					bank_name TEXT PRIMARY KEY,
					sender_pattern TEXT NOT NULL,
					amount_pattern TEXT NOT NULL DEFAULT '',
					merchant_pattern TEXT NOT NULL DEFAULT '',
					date_pattern TEXT NOT NULL DEFAULT '',
					type_pattern TEXT NOT NULL DEFAULT '',
					account_pattern TEXT NOT NULL DEFAULT '',
					date_layouts TEXT NOT NULL DEFAULT '',
					is_active INTEGER NOT NULL DEFAULT 1,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Seed default categories and keyword dictionary",
		Up: func(tx *sql.Tx) error {
			categories := []struct {
				name      string
				icon      string
				color     string
				isDefault bool
			}{
				{"Uncategorized", "❓", "#9E9E9E", true},
				{"Food & Dining", "🍽️", "#FF7043", false},
				{"Groceries", "🛒", "#66BB6A", false},
				{"Transportation", "🚕", "#42A5F5", false},
				{"Shopping", "🛍️", "#AB47BC", false},
				{"Utilities", "💡", "#FFCA28", false},
				{"Entertainment", "🎬", "#EC407A", false},
				{"Health", "🏥", "#26A69A", false},
				{"Salary", "💰", "#8D6E63", false},
			}

			for _, cat := range categories {
				_, err := tx.Exec(`
					INSERT INTO categories (name, icon, color, is_default)
					VALUES (?, ?, ?, ?)
					ON CONFLICT(name) DO NOTHING
				`, cat.name, cat.icon, cat.color, cat.isDefault)
				if err != nil {
					return fmt.Errorf("failed to seed category %s: %w", cat.name, err)
				}
			}

			keywords := map[string]string{
				"restaurant":  "Food & Dining",
				"cafe":        "Food & Dining",
				"swiggy":      "Food & Dining",
				"zomato":      "Food & Dining",
				"supermarket": "Groceries",
				"grocery":     "Groceries",
				"bigbasket":   "Groceries",
				"uber":        "Transportation",
				"ola":         "Transportation",
				"metro":       "Transportation",
				"fuel":        "Transportation",
				"amazon":      "Shopping",
				"flipkart":    "Shopping",
				"myntra":      "Shopping",
				"electricity": "Utilities",
				"broadband":   "Utilities",
				"recharge":    "Utilities",
				"netflix":     "Entertainment",
				"spotify":     "Entertainment",
				"pharmacy":    "Health",
				"hospital":    "Health",
				"salary":      "Salary",
			}

			for keyword, categoryName := range keywords {
				_, err := tx.Exec(`
					INSERT INTO keyword_mappings (keyword, category_id, is_default)
					SELECT ?, id, 1 FROM categories WHERE name = ?
					ON CONFLICT(keyword) DO NOTHING
				`, keyword, categoryName)
				if err != nil {
					return fmt.Errorf("failed to seed keyword %s: %w", keyword, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Add rule and merchant lookup indexes",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_category_rules_category ON category_rules(category_id)`,
				`CREATE INDEX IF NOT EXISTS idx_merchants_category ON merchants(category_id)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(account_id)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category_id)`,
			}
			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate brings the database schema up to the expected version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	current, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}

		slog.Info("Applying migration",
			"version", migration.Version,
			"description", migration.Description)

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, migration.Version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version, or zero
// for a fresh database.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return 0, fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return s.schemaVersion(ctx)
}

func (s *SQLiteStorage) schemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(version) FROM schema_version`).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if !version.Valid {
		return 0, nil
	}
	return int(version.Int64), nil
}
