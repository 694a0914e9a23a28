package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain", input: "1500.00", want: "1500"},
		{name: "western grouping", input: "1,500.00", want: "1500"},
		{name: "indian grouping", input: "1,50,000.00", want: "150000"},
		{name: "european separators", input: "1.500,00", want: "1500"},
		{name: "european comma decimal", input: "42,50", want: "42.5"},
		{name: "grouping commas only", input: "1,500,000", want: "1500000"},
		{name: "multiple dots grouping", input: "1.500.000", want: "1500000"},
		{name: "currency prefix", input: "Rs.1500.00", want: "1500"},
		{name: "rupee symbol", input: "₹2,345.67", want: "2345.67"},
		{name: "inr prefix with space", input: "INR 99.95", want: "99.95"},
		{name: "no decimals", input: "Rs.500", want: "500"},
		{name: "single paisa digit", input: "10.5", want: "10.5"},
		{name: "empty", input: "", wantErr: true},
		{name: "no digits", input: "Rs.", wantErr: true},
		{name: "garbage", input: "amount pending", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnparsableAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseAmount_ExactDecimal(t *testing.T) {
	// Repeated arithmetic must not drift the way float64 would.
	amount, err := ParseAmount("0.10")
	require.NoError(t, err)

	sum := amount
	for i := 0; i < 9; i++ {
		sum = sum.Add(amount)
	}
	assert.Equal(t, "1", sum.String())
}
