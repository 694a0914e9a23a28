package model

import (
	"fmt"
	"math"
)

// ConfidenceFactors captures the independent pieces of evidence an
// extraction produced. Each factor contributes a fixed weight to the
// final score.
type ConfidenceFactors struct {
	AmountExtracted   bool
	TypeExtracted     bool
	MerchantExtracted bool
	DateExtracted     bool
	AccountExtracted  bool
	PatternMatched    bool
	SenderTrusted     bool
}

// ConfidenceWeights assigns a weight to each confidence factor. The
// weights must sum to exactly 1.0 so a fully-evidenced extraction
// scores 1.0.
type ConfidenceWeights struct {
	Amount   float64
	Type     float64
	Merchant float64
	Date     float64
	Account  float64
	Pattern  float64
	Sender   float64
}

// DefaultConfidenceWeights returns the standard weight table.
func DefaultConfidenceWeights() ConfidenceWeights {
	return ConfidenceWeights{
		Amount:   0.30,
		Type:     0.20,
		Merchant: 0.15,
		Date:     0.10,
		Account:  0.10,
		Pattern:  0.10,
		Sender:   0.05,
	}
}

// weightSumTolerance absorbs float64 representation error when checking
// that weights sum to 1.0.
const weightSumTolerance = 1e-9

// Validate ensures every weight is non-negative and the sum is 1.0.
func (w ConfidenceWeights) Validate() error {
	weights := []float64{w.Amount, w.Type, w.Merchant, w.Date, w.Account, w.Pattern, w.Sender}
	sum := 0.0
	for _, weight := range weights {
		if weight < 0 {
			return fmt.Errorf("confidence weight cannot be negative: %f", weight)
		}
		sum += weight
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("confidence weights must sum to 1.0, got %f", sum)
	}
	return nil
}

// Score computes the weighted confidence for a set of factors.
func (w ConfidenceWeights) Score(f ConfidenceFactors) float64 {
	score := 0.0
	if f.AmountExtracted {
		score += w.Amount
	}
	if f.TypeExtracted {
		score += w.Type
	}
	if f.MerchantExtracted {
		score += w.Merchant
	}
	if f.DateExtracted {
		score += w.Date
	}
	if f.AccountExtracted {
		score += w.Account
	}
	if f.PatternMatched {
		score += w.Pattern
	}
	if f.SenderTrusted {
		score += w.Sender
	}
	return score
}
