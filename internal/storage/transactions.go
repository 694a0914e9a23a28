package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/paisaflow/paisaflow/internal/common"
	"github.com/paisaflow/paisaflow/internal/model"
	"github.com/paisaflow/paisaflow/internal/service"
	"github.com/shopspring/decimal"
)

// SaveTransaction persists a transaction. Amounts are stored as text
// to preserve exact decimal values.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn *model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransaction(txn); err != nil {
		return err
	}

	if txn.Hash == "" {
		txn.Hash = txn.GenerateHash()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions
			(id, hash, date, merchant_name, account_id, direction, amount, note,
			 category_id, categorization_reason, category_confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			merchant_name = excluded.merchant_name,
			account_id = excluded.account_id,
			direction = excluded.direction,
			amount = excluded.amount,
			note = excluded.note,
			category_id = excluded.category_id,
			categorization_reason = excluded.categorization_reason,
			category_confidence = excluded.category_confidence
	`, txn.ID, txn.Hash, txn.Date, txn.MerchantName, nullString(txn.AccountID),
		string(txn.Direction), txn.Amount.String(), txn.Note,
		txn.CategoryID, string(txn.Reason), txn.Confidence)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: transactions.hash") {
			return fmt.Errorf("transaction %s: %w", txn.ID, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

// GetTransactionByID retrieves a single transaction.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+txnColumns+` FROM transactions WHERE id = ?`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// GetTransactions retrieves transactions matching the filter, newest
// first.
func (s *SQLiteStorage) GetTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + txnColumns + ` FROM transactions WHERE 1=1`
	var args []any

	if filter.StartDate != nil {
		query += ` AND date >= ?`
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		query += ` AND date <= ?`
		args = append(args, *filter.EndDate)
	}
	if filter.Merchant != "" {
		query += ` AND merchant_name = ?`
		args = append(args, filter.Merchant)
	}

	query += ` ORDER BY date DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

const txnColumns = `id, hash, date, merchant_name, account_id, direction, amount, note,
	category_id, categorization_reason, category_confidence`

func scanTransaction(row rowScanner) (model.Transaction, error) {
	var txn model.Transaction
	var accountID sql.NullString
	var categoryID sql.NullInt64
	var amount string
	err := row.Scan(
		&txn.ID,
		&txn.Hash,
		&txn.Date,
		&txn.MerchantName,
		&accountID,
		&txn.Direction,
		&amount,
		&txn.Note,
		&categoryID,
		&txn.Reason,
		&txn.Confidence,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, err
		}
		return model.Transaction{}, fmt.Errorf("failed to scan transaction: %w", err)
	}
	if accountID.Valid {
		txn.AccountID = accountID.String
	}
	if categoryID.Valid {
		id := int(categoryID.Int64)
		txn.CategoryID = &id
	}
	txn.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("corrupt amount %q for transaction %s: %w", amount, txn.ID, err)
	}
	return txn, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
