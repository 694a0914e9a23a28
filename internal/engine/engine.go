// Package engine implements the categorization engine: an ordered
// strategy chain that resolves a category for a finished transaction
// and learns from user corrections.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/paisaflow/paisaflow/internal/common"
	"github.com/paisaflow/paisaflow/internal/model"
	"github.com/paisaflow/paisaflow/internal/service"
)

// Config holds configuration options for the categorization engine.
type Config struct {
	// MinMerchantConfidence is the threshold below which merchant
	// history is not trusted for automatic categorization.
	MinMerchantConfidence float64
	// KeywordConfidence is the fixed confidence assigned to keyword
	// fallback matches.
	KeywordConfidence float64
	// LearnStep is how much a repeated identical correction raises the
	// merchant's confidence.
	LearnStep float64
	// RelearnFloor is the confidence a merchant profile resets to when
	// a correction changes its category.
	RelearnFloor float64
	// NewRuleConfidence is the starting confidence of a rule created
	// from a correction.
	NewRuleConfidence float64
	// LockStripes sizes the per-merchant lock table.
	LockStripes int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MinMerchantConfidence: 0.5,
		KeywordConfidence:     0.5,
		LearnStep:             0.1,
		RelearnFloor:          0.6,
		NewRuleConfidence:     0.8,
		LockStripes:           64,
	}
}

// CategorizationEngine resolves categories through the ordered chain
// user rule -> merchant history -> keyword -> default, and records
// usage statistics as it goes. It never fails to produce a category as
// long as a default category exists.
type CategorizationEngine struct {
	store service.Storage
	locks *keyLocks
	cfg   Config
}

// New creates a categorization engine with default configuration.
func New(store service.Storage) *CategorizationEngine {
	return NewWithConfig(store, DefaultConfig())
}

// NewWithConfig creates a categorization engine with custom configuration.
func NewWithConfig(store service.Storage, cfg Config) *CategorizationEngine {
	return &CategorizationEngine{
		store: store,
		locks: newKeyLocks(cfg.LockStripes),
		cfg:   cfg,
	}
}

// Categorize resolves a category for the transaction. First strategy
// to produce a hit wins; the default category is the guaranteed
// fallback, so categorization itself never fails.
func (e *CategorizationEngine) Categorize(ctx context.Context, txn model.Transaction) (service.Categorization, error) {
	key := model.NormalizeMerchant(txn.MerchantName)

	unlock := e.locks.lock(key)
	defer unlock()

	if result, ok, err := e.byUserRule(ctx, txn); err != nil {
		return service.Categorization{}, err
	} else if ok {
		return result, nil
	}

	if result, ok, err := e.byMerchantHistory(ctx, key); err != nil {
		return service.Categorization{}, err
	} else if ok {
		return result, nil
	}

	if result, ok, err := e.byKeyword(ctx, txn, key); err != nil {
		return service.Categorization{}, err
	} else if ok {
		return result, nil
	}

	return e.byDefault(ctx)
}

// byUserRule finds the winning user-defined rule for the merchant:
// highest confidence among matches, ties broken by most recent use.
func (e *CategorizationEngine) byUserRule(ctx context.Context, txn model.Transaction) (service.Categorization, bool, error) {
	rules, err := e.store.GetActiveRules(ctx)
	if err != nil {
		return service.Categorization{}, false, fmt.Errorf("failed to load rules: %w", err)
	}

	var winner *model.CategoryRule
	for i := range rules {
		rule := &rules[i]
		if !rule.IsUserDefined {
			continue
		}
		matched, matchErr := common.MatchMerchantPattern(rule.MerchantPattern, txn.MerchantName, rule.IsRegex)
		if matchErr != nil {
			slog.Warn("Skipping rule with invalid pattern",
				"rule_id", rule.ID, "pattern", rule.MerchantPattern, "error", matchErr)
			continue
		}
		if !matched {
			continue
		}
		if winner == nil ||
			rule.Confidence > winner.Confidence ||
			(rule.Confidence == winner.Confidence && rule.LastUsedAt.After(winner.LastUsedAt)) {
			winner = rule
		}
	}

	if winner == nil {
		return service.Categorization{}, false, nil
	}

	category, err := e.store.GetCategoryByID(ctx, winner.CategoryID)
	if err != nil {
		return service.Categorization{}, false, fmt.Errorf("rule %d references missing category %d: %w", winner.ID, winner.CategoryID, err)
	}

	if err := e.store.IncrementRuleUse(ctx, winner.ID, time.Now()); err != nil {
		slog.Warn("Failed to record rule use", "rule_id", winner.ID, "error", err)
	}

	return service.Categorization{
		Category:   *category,
		Confidence: winner.Confidence,
		Reason:     model.ReasonUserRule,
	}, true, nil
}

// byMerchantHistory consults the merchant's running profile.
func (e *CategorizationEngine) byMerchantHistory(ctx context.Context, key string) (service.Categorization, bool, error) {
	if key == "" {
		return service.Categorization{}, false, nil
	}

	merchant, err := e.store.GetMerchant(ctx, key)
	if errors.Is(err, common.ErrNotFound) {
		return service.Categorization{}, false, nil
	}
	if err != nil {
		return service.Categorization{}, false, fmt.Errorf("failed to load merchant %q: %w", key, err)
	}

	if merchant.Confidence < e.cfg.MinMerchantConfidence {
		return service.Categorization{}, false, nil
	}

	category, err := e.store.GetCategoryByID(ctx, merchant.CategoryID)
	if err != nil {
		return service.Categorization{}, false, fmt.Errorf("merchant %q references missing category %d: %w", key, merchant.CategoryID, err)
	}

	merchant.TransactionCount++
	merchant.LastSeenAt = time.Now()
	if err := e.store.SaveMerchant(ctx, merchant); err != nil {
		slog.Warn("Failed to record merchant use", "merchant", key, "error", err)
	}

	return service.Categorization{
		Category:   *category,
		Confidence: merchant.Confidence,
		Reason:     model.ReasonMerchantHistory,
	}, true, nil
}

// byKeyword scans merchant and note text for keyword mappings. The
// longest matching keyword wins, so "electricity bill" beats "bill".
func (e *CategorizationEngine) byKeyword(ctx context.Context, txn model.Transaction, key string) (service.Categorization, bool, error) {
	mappings, err := e.store.GetKeywordMappings(ctx)
	if err != nil {
		return service.Categorization{}, false, fmt.Errorf("failed to load keyword mappings: %w", err)
	}

	haystack := strings.ToLower(key + " " + txn.Note)

	var winner *model.KeywordMapping
	for i := range mappings {
		mapping := &mappings[i]
		keyword := strings.ToLower(mapping.Keyword)
		if keyword == "" || !strings.Contains(haystack, keyword) {
			continue
		}
		if winner == nil || len(mapping.Keyword) > len(winner.Keyword) {
			winner = mapping
		}
	}

	if winner == nil {
		return service.Categorization{}, false, nil
	}

	category, err := e.store.GetCategoryByID(ctx, winner.CategoryID)
	if err != nil {
		return service.Categorization{}, false, fmt.Errorf("keyword %q references missing category %d: %w", winner.Keyword, winner.CategoryID, err)
	}

	return service.Categorization{
		Category:   *category,
		Confidence: e.cfg.KeywordConfidence,
		Reason:     model.ReasonKeywordMatch,
	}, true, nil
}

func (e *CategorizationEngine) byDefault(ctx context.Context) (service.Categorization, error) {
	category, err := e.store.GetDefaultCategory(ctx)
	if err != nil {
		return service.Categorization{}, fmt.Errorf("%w: %v", common.ErrNoDefaultCategory, err)
	}
	return service.Categorization{
		Category:   *category,
		Confidence: 0,
		Reason:     model.ReasonDefault,
	}, nil
}
