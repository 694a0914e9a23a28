package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/paisaflow/paisaflow/internal/common"
	"github.com/paisaflow/paisaflow/internal/model"
	"github.com/paisaflow/paisaflow/internal/service"
)

// mockStorage is an in-memory service.Storage for engine tests.
type mockStorage struct {
	categories map[int]model.Category
	merchants  map[string]model.MerchantInfo
	keywords   []model.KeywordMapping
	rules      []model.CategoryRule
	nextRuleID int
	mu         sync.Mutex
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		categories: make(map[int]model.Category),
		merchants:  make(map[string]model.MerchantInfo),
		nextRuleID: 1,
	}
}

func (m *mockStorage) addCategory(id int, name string, isDefault bool) model.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	cat := model.Category{ID: id, Name: name, IsDefault: isDefault, CreatedAt: time.Now()}
	m.categories[id] = cat
	return cat
}

func (m *mockStorage) GetCategories(_ context.Context) ([]model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cats := make([]model.Category, 0, len(m.categories))
	for _, cat := range m.categories {
		cats = append(cats, cat)
	}
	return cats, nil
}

func (m *mockStorage) GetCategoryByID(_ context.Context, id int) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cat, ok := m.categories[id]
	if !ok {
		return nil, fmt.Errorf("category %d: %w", id, common.ErrNotFound)
	}
	return &cat, nil
}

func (m *mockStorage) GetCategoryByName(_ context.Context, name string) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cat := range m.categories {
		if cat.Name == name {
			return &cat, nil
		}
	}
	return nil, fmt.Errorf("category %q: %w", name, common.ErrNotFound)
}

func (m *mockStorage) GetDefaultCategory(_ context.Context) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, cat := range m.categories {
		if cat.IsDefault {
			return &cat, nil
		}
	}
	return nil, common.ErrNoDefaultCategory
}

func (m *mockStorage) CreateCategory(_ context.Context, category *model.Category) (*model.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories[category.ID] = *category
	return category, nil
}

func (m *mockStorage) GetActiveRules(_ context.Context) ([]model.CategoryRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rules := make([]model.CategoryRule, 0, len(m.rules))
	for _, rule := range m.rules {
		if rule.IsActive {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

func (m *mockStorage) SaveRule(_ context.Context, rule *model.CategoryRule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rule.ID == 0 {
		rule.ID = m.nextRuleID
		m.nextRuleID++
		m.rules = append(m.rules, *rule)
		return nil
	}
	for i := range m.rules {
		if m.rules[i].ID == rule.ID {
			m.rules[i] = *rule
			return nil
		}
	}
	m.rules = append(m.rules, *rule)
	return nil
}

func (m *mockStorage) IncrementRuleUse(_ context.Context, ruleID int, usedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rules {
		if m.rules[i].ID == ruleID {
			m.rules[i].UseCount++
			m.rules[i].LastUsedAt = usedAt
			return nil
		}
	}
	return common.ErrNotFound
}

func (m *mockStorage) GetMerchant(_ context.Context, normalizedName string) (*model.MerchantInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	merchant, ok := m.merchants[normalizedName]
	if !ok {
		return nil, fmt.Errorf("merchant %q: %w", normalizedName, common.ErrNotFound)
	}
	return &merchant, nil
}

func (m *mockStorage) SaveMerchant(_ context.Context, merchant *model.MerchantInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.merchants[merchant.NormalizedName] = *merchant
	return nil
}

func (m *mockStorage) GetKeywordMappings(_ context.Context) ([]model.KeywordMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.KeywordMapping(nil), m.keywords...), nil
}

func (m *mockStorage) SaveKeywordMapping(_ context.Context, mapping *model.KeywordMapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keywords = append(m.keywords, *mapping)
	return nil
}

func (m *mockStorage) SaveTransaction(_ context.Context, _ *model.Transaction) error { return nil }
func (m *mockStorage) GetTransactionByID(_ context.Context, _ string) (*model.Transaction, error) {
	return nil, common.ErrNotFound
}
func (m *mockStorage) GetTransactions(_ context.Context, _ service.TransactionFilter) ([]model.Transaction, error) {
	return nil, nil
}
func (m *mockStorage) GetAccounts(_ context.Context) ([]model.Account, error) { return nil, nil }
func (m *mockStorage) SaveAccount(_ context.Context, _ *model.Account) error  { return nil }
func (m *mockStorage) GetBankPatterns(_ context.Context) ([]model.BankPattern, error) {
	return nil, nil
}
func (m *mockStorage) SaveBankPattern(_ context.Context, _ *model.BankPattern) error { return nil }
func (m *mockStorage) DeactivateBankPattern(_ context.Context, _ string) error       { return nil }
func (m *mockStorage) Migrate(_ context.Context) error                               { return nil }
func (m *mockStorage) Close() error                                                  { return nil }
