// Package registry holds the bank pattern registry used by the
// extraction pipeline to match inbound messages to bank formats.
package registry

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/paisaflow/paisaflow/internal/common"
	"github.com/paisaflow/paisaflow/internal/model"
)

// CompiledPattern is a registered bank pattern with its regular
// expressions compiled once at registration time. Compiled patterns are
// read-only after registration, which is what makes concurrent
// extraction safe.
type CompiledPattern struct {
	pattern model.BankPattern
	sender  *regexp.Regexp
	fields  map[model.FieldName]*regexp.Regexp
	seq     int
}

// Pattern returns the underlying bank pattern record.
func (c *CompiledPattern) Pattern() model.BankPattern {
	return c.pattern
}

// BankName returns the pattern's bank name.
func (c *CompiledPattern) BankName() string {
	return c.pattern.BankName
}

// MatchesSender reports whether the sender identifier matches this
// pattern's sender rule.
func (c *CompiledPattern) MatchesSender(senderID string) bool {
	return c.sender.MatchString(senderID)
}

// Field returns the compiled sub-pattern for the named field, or nil if
// the bank pattern does not define one.
func (c *CompiledPattern) Field(field model.FieldName) *regexp.Regexp {
	return c.fields[field]
}

// DateLayouts returns the date layouts this bank's messages use.
func (c *CompiledPattern) DateLayouts() []string {
	return c.pattern.DateLayouts
}

// Registry stores one matching profile per supported bank. Patterns are
// long-lived and read-mostly: registration and deactivation take the
// write lock, candidate lookup only the read lock.
type Registry struct {
	byBank  map[string]*CompiledPattern
	entries []*CompiledPattern
	mu      sync.RWMutex
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		byBank: make(map[string]*CompiledPattern),
	}
}

// Register validates, compiles, and stores a bank pattern. Registering
// a bank name that already exists replaces the previous pattern in
// place, keeping its original registration order.
func (r *Registry) Register(pattern model.BankPattern) error {
	if err := pattern.Validate(); err != nil {
		return fmt.Errorf("invalid bank pattern: %w", err)
	}

	compiled, err := compile(pattern)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byBank[pattern.BankName]; ok {
		compiled.seq = existing.seq
		r.entries[existing.seq] = compiled
		r.byBank[pattern.BankName] = compiled
		return nil
	}

	compiled.seq = len(r.entries)
	r.entries = append(r.entries, compiled)
	r.byBank[pattern.BankName] = compiled
	return nil
}

// FindCandidates returns all active patterns whose sender rule matches
// the given sender identifier, in registration order. Registration
// order is the deterministic tie-break used downstream.
func (r *Registry) FindCandidates(senderID string) []*CompiledPattern {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var candidates []*CompiledPattern
	for _, entry := range r.entries {
		if !entry.pattern.IsActive {
			continue
		}
		if entry.MatchesSender(senderID) {
			candidates = append(candidates, entry)
		}
	}
	return candidates
}

// Get returns the pattern registered for the named bank.
func (r *Registry) Get(bankName string) (model.BankPattern, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byBank[bankName]
	if !ok {
		return model.BankPattern{}, fmt.Errorf("bank %q: %w", bankName, common.ErrNotFound)
	}
	return entry.pattern, nil
}

// All returns every registered pattern in registration order,
// including inactive ones.
func (r *Registry) All() []model.BankPattern {
	r.mu.RLock()
	defer r.mu.RUnlock()

	patterns := make([]model.BankPattern, 0, len(r.entries))
	for _, entry := range r.entries {
		patterns = append(patterns, entry.pattern)
	}
	return patterns
}

// Deactivate disables the named bank's pattern without removing it.
func (r *Registry) Deactivate(bankName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byBank[bankName]
	if !ok {
		return fmt.Errorf("bank %q: %w", bankName, common.ErrNotFound)
	}
	entry.pattern.IsActive = false
	return nil
}

func compile(pattern model.BankPattern) (*CompiledPattern, error) {
	sender, err := regexp.Compile(pattern.SenderPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to compile sender pattern for %s: %w", pattern.BankName, err)
	}

	fields := make(map[model.FieldName]*regexp.Regexp)
	for _, field := range model.AllFields {
		expr := pattern.FieldPattern(field)
		if expr == "" {
			continue
		}
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s pattern for %s: %w", field, pattern.BankName, err)
		}
		fields[field] = re
	}

	return &CompiledPattern{
		pattern: pattern,
		sender:  sender,
		fields:  fields,
	}, nil
}
