package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paisaflow/paisaflow/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRetry(t *testing.T) {
	fastOpts := service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}

	t.Run("succeeds first try", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return nil
		}, fastOpts)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked")
			}
			return nil
		}, fastOpts)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		calls := 0
		err := WithRetry(context.Background(), func() error {
			calls++
			return errors.New("still broken")
		}, fastOpts)
		assert.ErrorIs(t, err, ErrMaxRetries)
		assert.Equal(t, 3, calls)
	})

	t.Run("non-retryable stops immediately", func(t *testing.T) {
		calls := 0
		underlying := errors.New("duplicate entry")
		err := WithRetry(context.Background(), func() error {
			calls++
			return &RetryableError{Err: underlying, Retryable: false}
		}, fastOpts)
		assert.ErrorIs(t, err, underlying)
		assert.Equal(t, 1, calls)
	})

	t.Run("honors cancellation between attempts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := WithRetry(ctx, func() error {
			return errors.New("transient")
		}, fastOpts)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestMatchMerchantPattern(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		merchant string
		isRegex  bool
		want     bool
		wantErr  bool
	}{
		{name: "exact match", pattern: "uber", merchant: "uber", want: true},
		{name: "case folded", pattern: "UBER", merchant: "uber", want: true},
		{name: "no substring without regex", pattern: "uber", merchant: "uber eats", want: false},
		{name: "regex substring", pattern: "uber.*", merchant: "UBER EATS", isRegex: true, want: true},
		{name: "regex no match", pattern: "^ola", merchant: "zomato", isRegex: true, want: false},
		{name: "bad regex", pattern: "(", merchant: "uber", isRegex: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MatchMerchantPattern(tt.pattern, tt.merchant, tt.isRegex)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
