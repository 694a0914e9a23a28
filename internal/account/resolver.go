// Package account maps partial account identifiers extracted from
// messages to managed accounts.
package account

import (
	"strings"

	"github.com/paisaflow/paisaflow/internal/model"
)

// Resolution is the outcome of matching an identifier fragment against
// the managed accounts. Ambiguity is a valid outcome, not an error: the
// caller must ask the user rather than have us guess.
type Resolution struct {
	AccountID string
	Resolved  bool
	Ambiguous bool
}

// Resolver matches account identifier fragments (typically the last few
// digits from an SMS) against known account numbers by suffix.
type Resolver struct{}

// NewResolver creates a new account resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve matches the fragment against the candidates' account numbers.
// Exactly one match resolves; zero matches is unresolved; two or more
// distinct accounts is unresolved and flagged ambiguous.
func (r *Resolver) Resolve(fragment string, candidates []model.Account) Resolution {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return Resolution{}
	}

	seen := make(map[string]bool)
	var matched []string
	for _, acct := range candidates {
		if !strings.HasSuffix(acct.Number, fragment) {
			continue
		}
		if seen[acct.ID] {
			continue
		}
		seen[acct.ID] = true
		matched = append(matched, acct.ID)
	}

	switch len(matched) {
	case 0:
		return Resolution{}
	case 1:
		return Resolution{AccountID: matched[0], Resolved: true}
	default:
		return Resolution{Ambiguous: true}
	}
}
