package extract

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paisaflow/paisaflow/internal/account"
	"github.com/paisaflow/paisaflow/internal/model"
	"github.com/paisaflow/paisaflow/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAccountSource serves a fixed account list, optionally slowly.
type fakeAccountSource struct {
	err      error
	accounts []model.Account
	delay    time.Duration
}

func (f *fakeAccountSource) GetAccounts(_ context.Context) ([]model.Account, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.accounts, f.err
}

func newTestPipeline(t *testing.T, accounts *fakeAccountSource, cfg Config) *Pipeline {
	t.Helper()
	reg := registry.New()
	require.NoError(t, registry.Seed(reg))

	pipeline, err := NewPipeline(reg, account.NewResolver(), accounts, cfg)
	require.NoError(t, err)
	return pipeline
}

func TestNewPipeline_RejectsBadWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.Amount = 0.9

	reg := registry.New()
	_, err := NewPipeline(reg, account.NewResolver(), &fakeAccountSource{}, cfg)
	assert.Error(t, err)
}

func TestPipeline_Extract_HDFCDebit(t *testing.T) {
	pipeline := newTestPipeline(t, &fakeAccountSource{}, DefaultConfig())

	msg := model.InboundMessage{
		Sender:     "HDFCBK",
		Body:       "Rs.1500.00 debited at AMAZON on 15-12-2024",
		ReceivedAt: time.Now(),
	}

	result := pipeline.Extract(context.Background(), msg)

	require.True(t, result.IsSuccessful())
	txn, ok := result.Transaction()
	require.True(t, ok)
	assert.Equal(t, "1500", txn.Amount.String())
	assert.Equal(t, model.DirectionExpense, txn.Direction)
	assert.Equal(t, "AMAZON", txn.MerchantName)
	assert.Equal(t, time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC), txn.Date)
	assert.Empty(t, txn.AccountID)
	assert.GreaterOrEqual(t, result.Confidence(), 0.85)
	assert.NotEmpty(t, txn.ID)
	assert.NotEmpty(t, txn.Hash)
}

func TestPipeline_Extract_FullMatchTrustedSenderScoresOne(t *testing.T) {
	source := &fakeAccountSource{
		accounts: []model.Account{{ID: "acct-1", Number: "50100001234"}},
	}
	pipeline := newTestPipeline(t, source, DefaultConfig())

	msg := model.InboundMessage{
		Sender:     "VM-HDFCBK",
		Body:       "Rs.1,500.00 debited from a/c **1234 at AMAZON on 15-12-2024",
		ReceivedAt: time.Now(),
	}

	result := pipeline.Extract(context.Background(), msg)

	require.True(t, result.IsSuccessful())
	assert.InDelta(t, 1.0, result.Confidence(), 1e-9)

	txn, _ := result.Transaction()
	assert.Equal(t, "acct-1", txn.AccountID)
}

func TestPipeline_Extract_UnknownSender(t *testing.T) {
	pipeline := newTestPipeline(t, &fakeAccountSource{}, DefaultConfig())

	result := pipeline.Extract(context.Background(), model.InboundMessage{
		Sender: "PIZZAHUT",
		Body:   "Rs.500.00 debited at DOMINOS on 15-12-2024",
	})

	require.False(t, result.IsSuccessful())
	assert.Equal(t, model.ReasonUnknownBankFormat, result.Reason())
	assert.Zero(t, result.Confidence())
}

func TestPipeline_Extract_AmountMissing(t *testing.T) {
	pipeline := newTestPipeline(t, &fakeAccountSource{}, DefaultConfig())

	// Merchant, type, and date all present; only the amount token is
	// missing. Amount absence is the one hard failure.
	result := pipeline.Extract(context.Background(), model.InboundMessage{
		Sender: "HDFCBK",
		Body:   "debited at AMAZON on 15-12-2024 from a/c **1234",
	})

	require.False(t, result.IsSuccessful())
	assert.Equal(t, model.ReasonAmountParsingFailed, result.Reason())

	// Confidence still reflects the non-amount factors that were found:
	// type 0.20 + merchant 0.15 + date 0.10 + account 0.10 + pattern
	// 0.10 + trusted 0.05.
	assert.InDelta(t, 0.70, result.Confidence(), 1e-9)
}

func TestPipeline_Extract_InvalidBody(t *testing.T) {
	pipeline := newTestPipeline(t, &fakeAccountSource{}, DefaultConfig())

	result := pipeline.Extract(context.Background(), model.InboundMessage{
		Sender: "HDFCBK",
		Body:   "Your OTP is 482910. Do not share it with anyone.",
	})

	require.False(t, result.IsSuccessful())
	assert.Equal(t, model.ReasonInvalidSMSFormat, result.Reason())
	// Pattern matched the sender and the sender is trusted.
	assert.InDelta(t, 0.15, result.Confidence(), 1e-9)
}

func TestPipeline_Extract_AmbiguousAccountStillSucceeds(t *testing.T) {
	source := &fakeAccountSource{
		accounts: []model.Account{
			{ID: "acct-1", Number: "50101234"},
			{ID: "acct-2", Number: "60201234"},
		},
	}
	pipeline := newTestPipeline(t, source, DefaultConfig())

	result := pipeline.Extract(context.Background(), model.InboundMessage{
		Sender: "HDFCBK",
		Body:   "Rs.900.00 debited from a/c **1234 at FLIPKART on 01-01-2025",
	})

	require.True(t, result.IsSuccessful())
	txn, _ := result.Transaction()
	assert.Empty(t, txn.AccountID)
	// The account fragment was still extracted, so the factor counts.
	assert.InDelta(t, 1.0, result.Confidence(), 1e-9)
}

func TestPipeline_Extract_AccountSourceErrorIsNotFatal(t *testing.T) {
	source := &fakeAccountSource{err: errors.New("store offline")}
	pipeline := newTestPipeline(t, source, DefaultConfig())

	result := pipeline.Extract(context.Background(), model.InboundMessage{
		Sender: "HDFCBK",
		Body:   "Rs.900.00 debited from a/c **1234 at FLIPKART on 01-01-2025",
	})

	require.True(t, result.IsSuccessful())
	txn, _ := result.Transaction()
	assert.Empty(t, txn.AccountID)
}

func TestPipeline_Extract_Timeout(t *testing.T) {
	source := &fakeAccountSource{
		delay:    200 * time.Millisecond,
		accounts: []model.Account{{ID: "acct-1", Number: "1234"}},
	}

	cfg := DefaultConfig()
	cfg.Timeout = 20 * time.Millisecond
	pipeline := newTestPipeline(t, source, cfg)

	result := pipeline.Extract(context.Background(), model.InboundMessage{
		Sender: "HDFCBK",
		Body:   "Rs.900.00 debited from a/c **1234 at FLIPKART on 01-01-2025",
	})

	require.False(t, result.IsSuccessful())
	assert.Equal(t, model.ReasonProcessingTimeout, result.Reason())
	// Confidence computed before the abort point is preserved.
	assert.Greater(t, result.Confidence(), 0.0)
}

func TestPipeline_Extract_FallsBackToReceivedAtDate(t *testing.T) {
	pipeline := newTestPipeline(t, &fakeAccountSource{}, DefaultConfig())

	receivedAt := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	result := pipeline.Extract(context.Background(), model.InboundMessage{
		Sender:     "HDFCBK",
		Body:       "Rs.120.00 debited at CHAAYOS",
		ReceivedAt: receivedAt,
	})

	require.True(t, result.IsSuccessful())
	txn, _ := result.Transaction()
	assert.Equal(t, receivedAt, txn.Date)
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		text string
		want model.TransactionDirection
	}{
		{text: "debited", want: model.DirectionExpense},
		{text: "Credited", want: model.DirectionIncome},
		{text: "received", want: model.DirectionIncome},
		{text: "deposited", want: model.DirectionIncome},
		{text: "transferred", want: model.DirectionTransferOut},
		{text: "withdrawn", want: model.DirectionExpense},
		{text: "", want: model.DirectionExpense},
	}

	for _, tt := range tests {
		t.Run("direction_"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDirection(tt.text))
		})
	}
}
