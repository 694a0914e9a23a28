package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBankPattern_Validate(t *testing.T) {
	tests := []struct {
		name    string
		pattern BankPattern
		wantErr bool
	}{
		{
			name: "valid pattern",
			pattern: BankPattern{
				BankName:      "HDFC",
				SenderPattern: `(?i)HDFC`,
				AmountPattern: `Rs\.?\s*([\d,]+\.?\d*)`,
			},
		},
		{
			name: "missing bank name",
			pattern: BankPattern{
				SenderPattern: `(?i)HDFC`,
			},
			wantErr: true,
		},
		{
			name: "missing sender pattern",
			pattern: BankPattern{
				BankName: "HDFC",
			},
			wantErr: true,
		},
		{
			name: "invalid sender regex",
			pattern: BankPattern{
				BankName:      "HDFC",
				SenderPattern: `(unclosed`,
			},
			wantErr: true,
		},
		{
			name: "invalid field regex",
			pattern: BankPattern{
				BankName:      "HDFC",
				SenderPattern: `(?i)HDFC`,
				DatePattern:   `[`,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pattern.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBankPattern_FieldPattern(t *testing.T) {
	pattern := BankPattern{
		AmountPattern:   "a",
		MerchantPattern: "m",
		DatePattern:     "d",
		TypePattern:     "t",
		AccountPattern:  "acc",
	}

	assert.Equal(t, "a", pattern.FieldPattern(FieldAmount))
	assert.Equal(t, "m", pattern.FieldPattern(FieldMerchant))
	assert.Equal(t, "d", pattern.FieldPattern(FieldDate))
	assert.Equal(t, "t", pattern.FieldPattern(FieldType))
	assert.Equal(t, "acc", pattern.FieldPattern(FieldAccount))
	assert.Empty(t, pattern.FieldPattern(FieldName("bogus")))
}
