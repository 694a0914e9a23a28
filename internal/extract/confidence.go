package extract

import (
	"strings"

	"github.com/paisaflow/paisaflow/internal/model"
)

// scorer converts extraction evidence into a 0-1 confidence score
// using the fixed weight table.
type scorer struct {
	trusted []string
	weights model.ConfidenceWeights
}

func newScorer(weights model.ConfidenceWeights, trustedSenders []string) scorer {
	trusted := make([]string, 0, len(trustedSenders))
	for _, s := range trustedSenders {
		trusted = append(trusted, strings.ToUpper(s))
	}
	return scorer{weights: weights, trusted: trusted}
}

// senderTrusted reports whether the sender identifier carries one of
// the trusted IDs. Carrier prefixes like "VM-" or "AD-" are common, so
// containment is checked rather than equality.
func (s scorer) senderTrusted(senderID string) bool {
	upper := strings.ToUpper(senderID)
	for _, t := range s.trusted {
		if strings.Contains(upper, t) {
			return true
		}
	}
	return false
}

func (s scorer) score(factors model.ConfidenceFactors) float64 {
	return s.weights.Score(factors)
}
