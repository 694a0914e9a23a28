package model

import (
	"fmt"
	"strings"
	"time"
)

// Category represents a spending category. Icon and color are
// presentation-only and carried through unchanged. The hierarchy is a
// single level: a category may name a parent, and the parent itself may
// not have one.
type Category struct {
	CreatedAt time.Time
	Name      string
	Icon      string
	Color     string
	ParentID  *int
	ID        int
	IsDefault bool
}

// Validate checks the category's own fields. Loop detection against the
// full category set is enforced by the store on save.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("category name is required")
	}
	if c.ParentID != nil && *c.ParentID == c.ID {
		return fmt.Errorf("category cannot be its own parent")
	}
	return nil
}

// CategorizationReason records which resolution strategy produced a
// category assignment.
type CategorizationReason string

// Categorization reasons, in resolution order.
const (
	ReasonUserRule        CategorizationReason = "USER_RULE"
	ReasonMerchantHistory CategorizationReason = "MERCHANT_HISTORY"
	ReasonKeywordMatch    CategorizationReason = "KEYWORD_MATCH"
	ReasonDefault         CategorizationReason = "DEFAULT"
)

// CategoryRule maps a merchant-name pattern to a category. Rules with
// IsUserDefined take precedence over every other signal.
type CategoryRule struct {
	CreatedAt       time.Time
	LastUsedAt      time.Time
	MerchantPattern string
	ID              int
	CategoryID      int
	UseCount        int
	Confidence      float64
	IsUserDefined   bool
	IsRegex         bool
	IsActive        bool
}

// MerchantInfo is a running profile of one merchant built from
// transaction history and user corrections.
type MerchantInfo struct {
	LastSeenAt       time.Time
	Name             string
	NormalizedName   string
	CategoryID       int
	TransactionCount int
	Confidence       float64
}

// KeywordMapping is a coarse fallback dictionary entry: any merchant or
// description containing the keyword suggests the category.
type KeywordMapping struct {
	Keyword    string
	CategoryID int
	IsDefault  bool
}

// NormalizeMerchant folds case and whitespace so "Uber  EATS" and
// "uber eats" resolve to the same merchant record.
func NormalizeMerchant(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
