package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/paisaflow/paisaflow/internal/common"
	"github.com/paisaflow/paisaflow/internal/model"
)

// Learn records a user's category correction for a transaction. The
// merchant profile moves monotonically toward the corrected category:
// repeating the same correction only raises confidence, and a changed
// correction resets to the relearn floor before climbing again. A
// user-defined rule is bumped or created so the correction also wins
// the first chain stage.
func (e *CategorizationEngine) Learn(ctx context.Context, txn model.Transaction, correctedCategoryID int) error {
	if _, err := e.store.GetCategoryByID(ctx, correctedCategoryID); err != nil {
		return fmt.Errorf("corrected category %d: %w", correctedCategoryID, err)
	}

	key := model.NormalizeMerchant(txn.MerchantName)
	if key == "" {
		return fmt.Errorf("cannot learn from a transaction without a merchant name")
	}

	unlock := e.locks.lock(key)
	defer unlock()

	if err := e.learnMerchant(ctx, txn, key, correctedCategoryID); err != nil {
		return err
	}
	if err := e.learnRule(ctx, txn, key, correctedCategoryID); err != nil {
		return err
	}

	slog.Info("Recorded category correction",
		"merchant", key,
		"category_id", correctedCategoryID)
	return nil
}

func (e *CategorizationEngine) learnMerchant(ctx context.Context, txn model.Transaction, key string, categoryID int) error {
	now := time.Now()

	merchant, err := e.store.GetMerchant(ctx, key)
	switch {
	case errors.Is(err, common.ErrNotFound):
		merchant = &model.MerchantInfo{
			Name:             txn.MerchantName,
			NormalizedName:   key,
			CategoryID:       categoryID,
			Confidence:       e.cfg.RelearnFloor,
			TransactionCount: 1,
			LastSeenAt:       now,
		}
	case err != nil:
		return fmt.Errorf("failed to load merchant %q: %w", key, err)
	case merchant.CategoryID == categoryID:
		merchant.Confidence = min(1.0, merchant.Confidence+e.cfg.LearnStep)
		merchant.TransactionCount++
		merchant.LastSeenAt = now
	default:
		// New evidence pointing elsewhere: switch category and restart
		// from the floor rather than oscillating.
		merchant.CategoryID = categoryID
		merchant.Confidence = e.cfg.RelearnFloor
		merchant.TransactionCount++
		merchant.LastSeenAt = now
	}

	if err := e.store.SaveMerchant(ctx, merchant); err != nil {
		return fmt.Errorf("failed to save merchant %q: %w", key, err)
	}
	return nil
}

func (e *CategorizationEngine) learnRule(ctx context.Context, txn model.Transaction, key string, categoryID int) error {
	rules, err := e.store.GetActiveRules(ctx)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	now := time.Now()
	for i := range rules {
		rule := &rules[i]
		if !rule.IsUserDefined {
			continue
		}
		matched, matchErr := common.MatchMerchantPattern(rule.MerchantPattern, txn.MerchantName, rule.IsRegex)
		if matchErr != nil || !matched {
			continue
		}

		if rule.CategoryID != categoryID {
			// The correction supersedes what the rule used to say.
			rule.CategoryID = categoryID
			rule.Confidence = e.cfg.NewRuleConfidence
		}
		rule.UseCount++
		rule.LastUsedAt = now
		if err := e.store.SaveRule(ctx, rule); err != nil {
			return fmt.Errorf("failed to update rule %d: %w", rule.ID, err)
		}
		return nil
	}

	rule := &model.CategoryRule{
		CreatedAt:       now,
		LastUsedAt:      now,
		MerchantPattern: key,
		CategoryID:      categoryID,
		UseCount:        1,
		Confidence:      e.cfg.NewRuleConfidence,
		IsUserDefined:   true,
		IsActive:        true,
	}
	if err := e.store.SaveRule(ctx, rule); err != nil {
		return fmt.Errorf("failed to create rule for %q: %w", key, err)
	}
	return nil
}
