package model

import "time"

// ExtractedFields holds the raw text matched for each field of a
// message. Keys are present only for fields that actually matched.
type ExtractedFields struct {
	Values   map[FieldName]string
	BankName string
	Elapsed  time.Duration
}

// Has reports whether the named field was extracted.
func (f ExtractedFields) Has(field FieldName) bool {
	_, ok := f.Values[field]
	return ok
}

// Get returns the matched text for the named field.
func (f ExtractedFields) Get(field FieldName) string {
	return f.Values[field]
}

// Count returns the number of successfully extracted fields.
func (f ExtractedFields) Count() int {
	return len(f.Values)
}

// FailureReason classifies why extraction could not produce a
// transaction.
type FailureReason string

// Extraction failure reasons.
const (
	// ReasonUnknownBankFormat means no registered pattern matched the sender.
	ReasonUnknownBankFormat FailureReason = "UNKNOWN_BANK_FORMAT"
	// ReasonInvalidSMSFormat means a pattern matched the sender but the
	// body structure was unrecognizable.
	ReasonInvalidSMSFormat FailureReason = "INVALID_SMS_FORMAT"
	// ReasonAmountParsingFailed means the amount field was absent or
	// unparsable; amount is the one field whose absence blocks creation.
	ReasonAmountParsingFailed FailureReason = "AMOUNT_PARSING_FAILED"
	// ReasonProcessingTimeout means the pipeline exceeded its time budget.
	ReasonProcessingTimeout FailureReason = "PROCESSING_TIMEOUT"
)

// ExtractionResult is the outcome of running one message through the
// extraction pipeline: either a transaction with a confidence score, or
// a typed failure reason with whatever confidence was still computable.
// Results are constructed only through ExtractionSuccess and
// ExtractionFailure so the success invariant cannot be violated.
type ExtractionResult struct {
	transaction *Transaction
	fields      ExtractedFields
	reason      FailureReason
	confidence  float64
}

// ExtractionSuccess builds a successful result.
func ExtractionSuccess(txn Transaction, confidence float64, fields ExtractedFields) ExtractionResult {
	return ExtractionResult{
		transaction: &txn,
		fields:      fields,
		confidence:  clampConfidence(confidence),
	}
}

// ExtractionFailure builds a failed result carrying the confidence
// computed up to the point of failure.
func ExtractionFailure(reason FailureReason, confidence float64, fields ExtractedFields) ExtractionResult {
	return ExtractionResult{
		fields:     fields,
		reason:     reason,
		confidence: clampConfidence(confidence),
	}
}

// IsSuccessful reports whether a transaction was produced.
func (r ExtractionResult) IsSuccessful() bool {
	return r.transaction != nil
}

// Transaction returns the extracted transaction and whether one exists.
func (r ExtractionResult) Transaction() (Transaction, bool) {
	if r.transaction == nil {
		return Transaction{}, false
	}
	return *r.transaction, true
}

// Confidence returns the 0-1 confidence score. Valid for both success
// and failure results.
func (r ExtractionResult) Confidence() float64 {
	return r.confidence
}

// Reason returns the failure reason; empty for successful results.
func (r ExtractionResult) Reason() FailureReason {
	return r.reason
}

// Fields returns the per-field extraction details.
func (r ExtractionResult) Fields() ExtractedFields {
	return r.fields
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
