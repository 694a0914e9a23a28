package extract

import (
	"testing"

	"github.com/paisaflow/paisaflow/internal/model"
	"github.com/paisaflow/paisaflow/internal/registry"
	"github.com/stretchr/testify/require"
)

func hdfcCandidate(t *testing.T) *registry.CompiledPattern {
	t.Helper()
	r := registry.New()
	require.NoError(t, registry.Seed(r))
	candidates := r.FindCandidates("HDFCBK")
	require.NotEmpty(t, candidates)
	return candidates[0]
}

func TestExtractFields_AllFields(t *testing.T) {
	body := "Rs.1500.00 debited from a/c **1234 at AMAZON on 15-12-2024"
	fields := ExtractFields(body, hdfcCandidate(t))

	require.Equal(t, 5, fields.Count())
	require.Equal(t, "1500.00", fields.Get(model.FieldAmount))
	require.Equal(t, "debited", fields.Get(model.FieldType))
	require.Equal(t, "AMAZON", fields.Get(model.FieldMerchant))
	require.Equal(t, "15-12-2024", fields.Get(model.FieldDate))
	require.Equal(t, "1234", fields.Get(model.FieldAccount))
	require.Equal(t, "HDFC", fields.BankName)
}

func TestExtractFields_PartialMatchKeepsOthers(t *testing.T) {
	// No date, no account fragment: the other fields still extract.
	body := "Rs.250.00 credited to your card at SWIGGY"
	fields := ExtractFields(body, hdfcCandidate(t))

	require.True(t, fields.Has(model.FieldAmount))
	require.True(t, fields.Has(model.FieldType))
	require.True(t, fields.Has(model.FieldMerchant))
	require.False(t, fields.Has(model.FieldDate))
	require.False(t, fields.Has(model.FieldAccount))
}

func TestExtractFields_NothingMatches(t *testing.T) {
	fields := ExtractFields("Your OTP is 482910. Do not share it.", hdfcCandidate(t))
	require.Zero(t, fields.Count())
}
