package extract

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/paisaflow/paisaflow/internal/account"
	"github.com/paisaflow/paisaflow/internal/common"
	"github.com/paisaflow/paisaflow/internal/model"
	"github.com/paisaflow/paisaflow/internal/registry"
)

// DefaultTimeout bounds per-message processing. Extraction is pure CPU
// work and normally finishes in microseconds; the budget exists so a
// pathological pattern can never stall a batch.
const DefaultTimeout = 500 * time.Millisecond

// AccountSource supplies the managed accounts used for account
// resolution. service.Storage satisfies it.
type AccountSource interface {
	GetAccounts(ctx context.Context) ([]model.Account, error)
}

// Config holds pipeline configuration.
type Config struct {
	TrustedSenders []string
	Weights        model.ConfidenceWeights
	Timeout        time.Duration
}

// DefaultConfig returns the standard pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:        DefaultTimeout,
		TrustedSenders: registry.DefaultTrustedSenders(),
		Weights:        model.DefaultConfidenceWeights(),
	}
}

// Pipeline orchestrates one extraction pass per message: sender match,
// field extraction, confidence scoring, account resolution. It is
// stateless between calls and safe for concurrent use.
type Pipeline struct {
	registry *registry.Registry
	resolver *account.Resolver
	accounts AccountSource
	scorer   scorer
	timeout  time.Duration
}

// NewPipeline creates an extraction pipeline. The confidence weights
// are validated here so a bad weight table fails at startup, not per
// message.
func NewPipeline(reg *registry.Registry, resolver *account.Resolver, accounts AccountSource, cfg Config) (*Pipeline, error) {
	if err := cfg.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid confidence weights: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Pipeline{
		registry: reg,
		resolver: resolver,
		accounts: accounts,
		scorer:   newScorer(cfg.Weights, cfg.TrustedSenders),
		timeout:  cfg.Timeout,
	}, nil
}

// Extract runs one message through the pipeline. It never returns an
// error: every outcome, including timeout, is a typed ExtractionResult
// so batch processing can continue past a bad message.
func (p *Pipeline) Extract(ctx context.Context, msg model.InboundMessage) model.ExtractionResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()

	// Partial confidence is published at stage boundaries so a timeout
	// can still report how much evidence had been gathered.
	var partial atomic.Uint64

	resultCh := make(chan model.ExtractionResult, 1)
	go func() {
		resultCh <- p.run(ctx, msg, start, &partial)
	}()

	select {
	case result := <-resultCh:
		return result
	case <-ctx.Done():
		fields := model.ExtractedFields{Elapsed: time.Since(start)}
		confidence := math.Float64frombits(partial.Load())
		slog.Warn("Extraction timed out",
			"sender", msg.Sender,
			"elapsed", fields.Elapsed,
			"confidence", confidence)
		return model.ExtractionFailure(model.ReasonProcessingTimeout, confidence, fields)
	}
}

func (p *Pipeline) run(ctx context.Context, msg model.InboundMessage, start time.Time, partial *atomic.Uint64) model.ExtractionResult {
	// Stage 1: sender match.
	candidates := p.registry.FindCandidates(msg.Sender)
	if len(candidates) == 0 {
		fields := model.ExtractedFields{Elapsed: time.Since(start)}
		return model.ExtractionFailure(model.ReasonUnknownBankFormat, 0, fields)
	}

	if err := ctx.Err(); err != nil {
		return model.ExtractionFailure(model.ReasonProcessingTimeout, 0, model.ExtractedFields{Elapsed: time.Since(start)})
	}

	// Stage 2: field extraction. The candidate yielding the most fields
	// wins; ties go to registration order.
	fields := ExtractFields(msg.Body, candidates[0])
	for _, candidate := range candidates[1:] {
		next := ExtractFields(msg.Body, candidate)
		if next.Count() > fields.Count() {
			fields = next
		}
	}
	fields.Elapsed = time.Since(start)

	// Stage 3: amount parsing and confidence.
	amountText, hasAmount := fields.Values[model.FieldAmount]
	parsedAmount, amountErr := ParseAmount(amountText)
	amountOK := hasAmount && amountErr == nil

	var dateLayouts []string
	for _, candidate := range candidates {
		if candidate.BankName() == fields.BankName {
			dateLayouts = candidate.DateLayouts()
			break
		}
	}
	date, dateOK := parseDate(fields.Get(model.FieldDate), dateLayouts)

	factors := model.ConfidenceFactors{
		AmountExtracted:   amountOK,
		TypeExtracted:     fields.Has(model.FieldType),
		MerchantExtracted: fields.Has(model.FieldMerchant),
		DateExtracted:     dateOK,
		AccountExtracted:  fields.Has(model.FieldAccount),
		PatternMatched:    true,
		SenderTrusted:     p.scorer.senderTrusted(msg.Sender),
	}
	confidence := p.scorer.score(factors)
	partial.Store(math.Float64bits(confidence))

	if fields.Count() == 0 {
		// Sender matched but the body structure is unrecognizable.
		fields.Elapsed = time.Since(start)
		return model.ExtractionFailure(model.ReasonInvalidSMSFormat, confidence, fields)
	}

	// Amount is the one field whose absence blocks auto-creation.
	if !amountOK {
		fields.Elapsed = time.Since(start)
		return model.ExtractionFailure(model.ReasonAmountParsingFailed, confidence, fields)
	}

	if err := ctx.Err(); err != nil {
		return model.ExtractionFailure(model.ReasonProcessingTimeout, confidence, fields)
	}

	// Stage 4: account resolution. Ambiguity or no match still
	// succeeds; the transaction simply carries no bound account.
	accountID := ""
	if fragment := fields.Get(model.FieldAccount); fragment != "" {
		if accounts, err := p.accounts.GetAccounts(ctx); err != nil {
			common.LogError(err, "Failed to load accounts for resolution",
				common.Fields{"sender": msg.Sender})
		} else {
			resolution := p.resolver.Resolve(fragment, accounts)
			if resolution.Resolved {
				accountID = resolution.AccountID
			} else if resolution.Ambiguous {
				slog.Debug("Ambiguous account fragment, leaving unbound",
					"fragment", fragment, "sender", msg.Sender)
			}
		}
	}

	// Stage 5: result assembly.
	occurredAt := date
	if !dateOK {
		occurredAt = msg.ReceivedAt
	}

	txn := model.Transaction{
		ID:           uuid.NewString(),
		Date:         occurredAt,
		MerchantName: fields.Get(model.FieldMerchant),
		AccountID:    accountID,
		Direction:    ParseDirection(fields.Get(model.FieldType)),
		Amount:       parsedAmount,
	}
	txn.Hash = txn.GenerateHash()

	fields.Elapsed = time.Since(start)
	slog.Debug("Extraction succeeded",
		"bank", fields.BankName,
		"fields", fields.Count(),
		"confidence", confidence,
		"elapsed", fields.Elapsed)
	return model.ExtractionSuccess(txn, confidence, fields)
}
