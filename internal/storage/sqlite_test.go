package storage

import (
	"context"
	"testing"
	"time"

	"github.com/paisaflow/paisaflow/internal/common"
	"github.com/paisaflow/paisaflow/internal/model"
	"github.com/paisaflow/paisaflow/internal/registry"
	"github.com/paisaflow/paisaflow/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestMigrate(t *testing.T) {
	store := setupTestStorage(t)

	version, err := store.schemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	t.Run("idempotent", func(t *testing.T) {
		require.NoError(t, store.Migrate(context.Background()))
	})
}

func TestMigrate_SeedsDefaults(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	def, err := store.GetDefaultCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Uncategorized", def.Name)
	assert.True(t, def.IsDefault)

	mappings, err := store.GetKeywordMappings(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, mappings)

	categories, err := store.GetCategories(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(categories), 9)
}

func TestCategories(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	t.Run("create and fetch", func(t *testing.T) {
		created, err := store.CreateCategory(ctx, &model.Category{
			Name: "Travel", Icon: "✈️", Color: "#1E88E5",
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)

		byName, err := store.GetCategoryByName(ctx, "Travel")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byName.ID)
		assert.Equal(t, "✈️", byName.Icon)
	})

	t.Run("child category", func(t *testing.T) {
		parent, err := store.GetCategoryByName(ctx, "Travel")
		require.NoError(t, err)

		child, err := store.CreateCategory(ctx, &model.Category{
			Name: "Flights", ParentID: &parent.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, child.ParentID)
		assert.Equal(t, parent.ID, *child.ParentID)
	})

	t.Run("grandchild rejected", func(t *testing.T) {
		child, err := store.GetCategoryByName(ctx, "Flights")
		require.NoError(t, err)

		_, err = store.CreateCategory(ctx, &model.Category{
			Name: "Budget Flights", ParentID: &child.ID,
		})
		assert.ErrorIs(t, err, common.ErrCategoryCycle)
	})

	t.Run("missing parent rejected", func(t *testing.T) {
		bogus := 9999
		_, err := store.CreateCategory(ctx, &model.Category{
			Name: "Orphan", ParentID: &bogus,
		})
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.GetCategoryByID(ctx, 9999)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestRules(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	food, err := store.GetCategoryByName(ctx, "Food & Dining")
	require.NoError(t, err)

	rule := &model.CategoryRule{
		MerchantPattern: "swiggy",
		CategoryID:      food.ID,
		Confidence:      0.8,
		IsUserDefined:   true,
		IsActive:        true,
	}
	require.NoError(t, store.SaveRule(ctx, rule))
	assert.NotZero(t, rule.ID)

	t.Run("round trip", func(t *testing.T) {
		rules, err := store.GetActiveRules(ctx)
		require.NoError(t, err)
		require.Len(t, rules, 1)
		assert.Equal(t, "swiggy", rules[0].MerchantPattern)
		assert.True(t, rules[0].IsUserDefined)
	})

	t.Run("increment use", func(t *testing.T) {
		usedAt := time.Now()
		require.NoError(t, store.IncrementRuleUse(ctx, rule.ID, usedAt))

		rules, err := store.GetActiveRules(ctx)
		require.NoError(t, err)
		require.Len(t, rules, 1)
		assert.Equal(t, 1, rules[0].UseCount)
		assert.WithinDuration(t, usedAt, rules[0].LastUsedAt, time.Second)
	})

	t.Run("update existing", func(t *testing.T) {
		rule.Confidence = 0.9
		require.NoError(t, store.SaveRule(ctx, rule))

		rules, err := store.GetActiveRules(ctx)
		require.NoError(t, err)
		require.Len(t, rules, 1)
		assert.InDelta(t, 0.9, rules[0].Confidence, 1e-9)
	})

	t.Run("inactive excluded", func(t *testing.T) {
		rule.IsActive = false
		require.NoError(t, store.SaveRule(ctx, rule))

		rules, err := store.GetActiveRules(ctx)
		require.NoError(t, err)
		assert.Empty(t, rules)
	})

	t.Run("invalid rejected", func(t *testing.T) {
		assert.Error(t, store.SaveRule(ctx, &model.CategoryRule{CategoryID: food.ID}))
		assert.Error(t, store.SaveRule(ctx, &model.CategoryRule{
			MerchantPattern: "x", CategoryID: food.ID, Confidence: 1.5,
		}))
	})
}

func TestMerchants(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	food, err := store.GetCategoryByName(ctx, "Food & Dining")
	require.NoError(t, err)

	t.Run("not found", func(t *testing.T) {
		_, err := store.GetMerchant(ctx, "nobody")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})

	t.Run("save and reload", func(t *testing.T) {
		merchant := &model.MerchantInfo{
			Name:             "ZOMATO",
			NormalizedName:   "zomato",
			CategoryID:       food.ID,
			Confidence:       0.7,
			TransactionCount: 3,
		}
		require.NoError(t, store.SaveMerchant(ctx, merchant))

		got, err := store.GetMerchant(ctx, "zomato")
		require.NoError(t, err)
		assert.Equal(t, "ZOMATO", got.Name)
		assert.InDelta(t, 0.7, got.Confidence, 1e-9)
		assert.Equal(t, 3, got.TransactionCount)
	})

	t.Run("upsert overwrites", func(t *testing.T) {
		merchant := &model.MerchantInfo{
			Name:             "ZOMATO",
			NormalizedName:   "zomato",
			CategoryID:       food.ID,
			Confidence:       0.9,
			TransactionCount: 4,
		}
		require.NoError(t, store.SaveMerchant(ctx, merchant))

		got, err := store.GetMerchant(ctx, "zomato")
		require.NoError(t, err)
		assert.InDelta(t, 0.9, got.Confidence, 1e-9)
	})
}

func TestKeywordMappings(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	shopping, err := store.GetCategoryByName(ctx, "Shopping")
	require.NoError(t, err)

	require.NoError(t, store.SaveKeywordMapping(ctx, &model.KeywordMapping{
		Keyword: "ikea", CategoryID: shopping.ID,
	}))

	mappings, err := store.GetKeywordMappings(ctx)
	require.NoError(t, err)

	var found bool
	for _, m := range mappings {
		if m.Keyword == "ikea" {
			found = true
			assert.Equal(t, shopping.ID, m.CategoryID)
			assert.False(t, m.IsDefault)
		}
	}
	assert.True(t, found)
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	require.NoError(t, store.SaveAccount(ctx, &model.Account{
		ID: "acct-1", Name: "Salary", Number: "50100123451234",
	}))

	accounts, err := store.GetAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "50100123451234", accounts[0].Number)

	t.Run("invalid rejected", func(t *testing.T) {
		assert.Error(t, store.SaveAccount(ctx, &model.Account{ID: "acct-2"}))
	})
}

func TestBankPatterns(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	for _, pattern := range registry.SeedPatterns() {
		p := pattern
		require.NoError(t, store.SaveBankPattern(ctx, &p))
	}

	patterns, err := store.GetBankPatterns(ctx)
	require.NoError(t, err)
	require.Len(t, patterns, len(registry.SeedPatterns()))
	for _, p := range patterns {
		if p.BankName == "HDFC" {
			assert.Equal(t, []string{"02-01-2006"}, p.DateLayouts)
		}
	}

	t.Run("deactivate", func(t *testing.T) {
		require.NoError(t, store.DeactivateBankPattern(ctx, "HDFC"))

		patterns, err := store.GetBankPatterns(ctx)
		require.NoError(t, err)
		for _, p := range patterns {
			if p.BankName == "HDFC" {
				assert.False(t, p.IsActive)
			}
		}
	})

	t.Run("deactivate unknown", func(t *testing.T) {
		assert.ErrorIs(t, store.DeactivateBankPattern(ctx, "NOPE"), common.ErrNotFound)
	})

	t.Run("invalid pattern rejected", func(t *testing.T) {
		err := store.SaveBankPattern(ctx, &model.BankPattern{
			BankName: "Broken", SenderPattern: `(`,
		})
		assert.ErrorIs(t, err, common.ErrInvalidPattern)
	})
}

func TestTransactions(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)

	require.NoError(t, store.SaveAccount(ctx, &model.Account{
		ID: "acct-1", Name: "Salary", Number: "1234",
	}))

	txn := &model.Transaction{
		ID:           "txn-1",
		Date:         time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC),
		MerchantName: "AMAZON",
		AccountID:    "acct-1",
		Direction:    model.DirectionExpense,
		Amount:       decimal.RequireFromString("1500.00"),
		Note:         "order 403-12",
	}
	require.NoError(t, store.SaveTransaction(ctx, txn))

	t.Run("round trip preserves exact amount", func(t *testing.T) {
		got, err := store.GetTransactionByID(ctx, "txn-1")
		require.NoError(t, err)
		assert.True(t, got.Amount.Equal(txn.Amount), "got %s", got.Amount)
		assert.Equal(t, model.DirectionExpense, got.Direction)
		assert.Equal(t, "acct-1", got.AccountID)
	})

	t.Run("category assignment persists", func(t *testing.T) {
		food, err := store.GetCategoryByName(ctx, "Food & Dining")
		require.NoError(t, err)

		txn.CategoryID = &food.ID
		txn.Reason = model.ReasonKeywordMatch
		txn.Confidence = 0.5
		require.NoError(t, store.SaveTransaction(ctx, txn))

		got, err := store.GetTransactionByID(ctx, "txn-1")
		require.NoError(t, err)
		require.NotNil(t, got.CategoryID)
		assert.Equal(t, food.ID, *got.CategoryID)
		assert.Equal(t, model.ReasonKeywordMatch, got.Reason)
		assert.InDelta(t, 0.5, got.Confidence, 1e-9)
	})

	t.Run("unbound account allowed", func(t *testing.T) {
		unbound := &model.Transaction{
			ID:        "txn-2",
			Date:      time.Date(2024, 12, 16, 0, 0, 0, 0, time.UTC),
			Direction: model.DirectionIncome,
			Amount:    decimal.RequireFromString("99.95"),
		}
		require.NoError(t, store.SaveTransaction(ctx, unbound))

		got, err := store.GetTransactionByID(ctx, "txn-2")
		require.NoError(t, err)
		assert.Empty(t, got.AccountID)
	})

	t.Run("duplicate hash rejected", func(t *testing.T) {
		dup := *txn
		dup.ID = "txn-3"
		dup.Hash = ""
		err := store.SaveTransaction(ctx, &dup)
		assert.ErrorIs(t, err, common.ErrDuplicateEntry)
	})

	t.Run("filter by merchant", func(t *testing.T) {
		txns, err := store.GetTransactions(ctx, service.TransactionFilter{Merchant: "AMAZON"})
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, "txn-1", txns[0].ID)
	})

	t.Run("filter by date range", func(t *testing.T) {
		start := time.Date(2024, 12, 16, 0, 0, 0, 0, time.UTC)
		txns, err := store.GetTransactions(ctx, service.TransactionFilter{StartDate: &start})
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, "txn-2", txns[0].ID)
	})
}
