package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionDirection indicates the flow of money in a transaction.
type TransactionDirection string

// Transaction direction constants.
const (
	DirectionIncome      TransactionDirection = "INCOME"
	DirectionExpense     TransactionDirection = "EXPENSE"
	DirectionTransferIn  TransactionDirection = "TRANSFER_IN"
	DirectionTransferOut TransactionDirection = "TRANSFER_OUT"
)

// Transaction represents a single financial transaction, whether parsed
// from an SMS or entered manually. Amounts are exact decimals; binary
// floating point is never used for money.
type Transaction struct {
	Date         time.Time
	ID           string
	MerchantName string
	AccountID    string // empty when account resolution was ambiguous or absent
	Note         string
	Direction    TransactionDirection
	Hash         string
	CategoryID   *int // nil until categorized
	Reason       CategorizationReason
	Confidence   float64 // category confidence, not extraction confidence
	Amount       decimal.Decimal
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount.StringFixed(2),
		t.MerchantName,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Account represents a managed account the resolver can bind
// transactions to.
type Account struct {
	CreatedAt time.Time
	ID        string
	Name      string
	Number    string
}
