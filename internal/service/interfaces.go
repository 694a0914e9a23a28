// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/paisaflow/paisaflow/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Merchant  string
	Limit     int
	Offset    int
}

// Storage defines the contract for our persistence layer. The engine
// assumes it is durable and read-after-write consistent; it never
// implements storage mechanics itself.
type Storage interface {
	// Transaction operations
	SaveTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)

	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id int) (*model.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*model.Category, error)
	GetDefaultCategory(ctx context.Context) (*model.Category, error)
	CreateCategory(ctx context.Context, category *model.Category) (*model.Category, error)

	// Category rule operations
	GetActiveRules(ctx context.Context) ([]model.CategoryRule, error)
	SaveRule(ctx context.Context, rule *model.CategoryRule) error
	IncrementRuleUse(ctx context.Context, ruleID int, usedAt time.Time) error

	// Merchant profile operations
	GetMerchant(ctx context.Context, normalizedName string) (*model.MerchantInfo, error)
	SaveMerchant(ctx context.Context, merchant *model.MerchantInfo) error

	// Keyword mapping operations
	GetKeywordMappings(ctx context.Context) ([]model.KeywordMapping, error)
	SaveKeywordMapping(ctx context.Context, mapping *model.KeywordMapping) error

	// Account operations
	GetAccounts(ctx context.Context) ([]model.Account, error)
	SaveAccount(ctx context.Context, account *model.Account) error

	// Bank pattern operations
	GetBankPatterns(ctx context.Context) ([]model.BankPattern, error)
	SaveBankPattern(ctx context.Context, pattern *model.BankPattern) error
	DeactivateBankPattern(ctx context.Context, bankName string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Categorization is the outcome of one categorize call: the resolved
// category, how confident the resolution is, and which strategy fired.
type Categorization struct {
	Category   model.Category
	Reason     model.CategorizationReason
	Confidence float64
}

// Categorizer resolves a category for a finished transaction.
type Categorizer interface {
	Categorize(ctx context.Context, txn model.Transaction) (Categorization, error)
}

// Learner records a user's category correction so future resolutions
// of the same merchant favor the corrected category.
type Learner interface {
	Learn(ctx context.Context, txn model.Transaction, correctedCategoryID int) error
}

// Extractor turns a raw inbound message into an extraction result.
type Extractor interface {
	Extract(ctx context.Context, msg model.InboundMessage) model.ExtractionResult
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
