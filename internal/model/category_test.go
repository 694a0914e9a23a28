package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory_Validate(t *testing.T) {
	intPtr := func(i int) *int { return &i }

	tests := []struct {
		name     string
		category Category
		wantErr  bool
	}{
		{
			name:     "valid category",
			category: Category{ID: 1, Name: "Food & Dining"},
		},
		{
			name:     "valid child category",
			category: Category{ID: 2, Name: "Restaurants", ParentID: intPtr(1)},
		},
		{
			name:     "empty name",
			category: Category{ID: 1, Name: "  "},
			wantErr:  true,
		},
		{
			name:     "self parent",
			category: Category{ID: 3, Name: "Loops", ParentID: intPtr(3)},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.category.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeMerchant(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases", input: "AMAZON", want: "amazon"},
		{name: "collapses whitespace", input: "Uber   EATS ", want: "uber eats"},
		{name: "trims", input: "  Swiggy", want: "swiggy"},
		{name: "empty stays empty", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMerchant(tt.input))
		})
	}
}
