package account

import (
	"testing"

	"github.com/paisaflow/paisaflow/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestResolver_Resolve(t *testing.T) {
	accounts := []model.Account{
		{ID: "acct-1", Name: "Salary", Number: "50100123451234"},
		{ID: "acct-2", Name: "Savings", Number: "50100987655678"},
		{ID: "acct-3", Name: "Joint", Number: "60200111145678"},
	}

	resolver := NewResolver()

	tests := []struct {
		name     string
		fragment string
		want     Resolution
	}{
		{
			name:     "single suffix match resolves",
			fragment: "1234",
			want:     Resolution{AccountID: "acct-1", Resolved: true},
		},
		{
			name:     "no match is unresolved",
			fragment: "0000",
			want:     Resolution{},
		},
		{
			name:     "shared suffix is ambiguous, never guessed",
			fragment: "5678",
			want:     Resolution{Ambiguous: true},
		},
		{
			name:     "longer fragment disambiguates",
			fragment: "45678",
			want:     Resolution{AccountID: "acct-3", Resolved: true},
		},
		{
			name:     "empty fragment is unresolved",
			fragment: "  ",
			want:     Resolution{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolver.Resolve(tt.fragment, accounts))
		})
	}
}

func TestResolver_Resolve_DuplicateCandidates(t *testing.T) {
	// The same account appearing twice in the candidate list is still a
	// single match.
	accounts := []model.Account{
		{ID: "acct-1", Number: "1111"},
		{ID: "acct-1", Number: "1111"},
	}

	got := NewResolver().Resolve("1111", accounts)
	assert.Equal(t, Resolution{AccountID: "acct-1", Resolved: true}, got)
}
