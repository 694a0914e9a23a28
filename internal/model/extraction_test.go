package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractionSuccess(t *testing.T) {
	txn := Transaction{
		ID:           "txn-1",
		MerchantName: "AMAZON",
		Direction:    DirectionExpense,
		Amount:       decimal.RequireFromString("1500.00"),
		Date:         time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC),
	}
	fields := ExtractedFields{
		Values:   map[FieldName]string{FieldAmount: "1500.00", FieldMerchant: "AMAZON"},
		BankName: "HDFC",
	}

	result := ExtractionSuccess(txn, 0.85, fields)

	assert.True(t, result.IsSuccessful())
	assert.Empty(t, result.Reason())
	assert.InDelta(t, 0.85, result.Confidence(), 1e-9)

	got, ok := result.Transaction()
	require.True(t, ok)
	assert.Equal(t, "AMAZON", got.MerchantName)
	assert.Equal(t, 2, result.Fields().Count())
}

func TestExtractionFailure(t *testing.T) {
	result := ExtractionFailure(ReasonUnknownBankFormat, 0, ExtractedFields{})

	assert.False(t, result.IsSuccessful())
	assert.Equal(t, ReasonUnknownBankFormat, result.Reason())
	assert.Zero(t, result.Confidence())

	_, ok := result.Transaction()
	assert.False(t, ok)
}

func TestExtractionResult_ConfidenceClamped(t *testing.T) {
	low := ExtractionFailure(ReasonProcessingTimeout, -0.5, ExtractedFields{})
	assert.Equal(t, 0.0, low.Confidence())

	high := ExtractionSuccess(Transaction{}, 1.7, ExtractedFields{})
	assert.Equal(t, 1.0, high.Confidence())
}

func TestExtractedFields(t *testing.T) {
	fields := ExtractedFields{
		Values: map[FieldName]string{
			FieldAmount: "250.00",
			FieldType:   "debited",
		},
	}

	assert.True(t, fields.Has(FieldAmount))
	assert.False(t, fields.Has(FieldMerchant))
	assert.Equal(t, "debited", fields.Get(FieldType))
	assert.Equal(t, 2, fields.Count())
}
