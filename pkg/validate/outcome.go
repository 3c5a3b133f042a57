package validate

import (
	"fmt"

	"github.com/robotalks/hilval/pkg/device/comm"
)

// Outcome classifies a single exchange.
type Outcome int

// Outcomes
const (
	// Match means the device agrees with the reference prediction.
	Match Outcome = iota
	// Divergent means the device answered differently from the reference.
	Divergent
	// Timeout means the device didn't answer before the deadline.
	Timeout
)

var outcomeLabels = []string{"MATCH", "DIV", "TIMEOUT"}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if o >= 0 && int(o) < len(outcomeLabels) {
		return outcomeLabels[o]
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	for n, label := range outcomeLabels {
		if label == string(text) {
			*o = Outcome(n)
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", text)
}

// Classify derives the outcome of a prediction against the reference.
// It's Timeout iff pred is NoResponse.
func Classify(pred comm.Prediction, reference int) Outcome {
	switch {
	case !pred.IsValid():
		return Timeout
	case int(pred) == reference:
		return Match
	default:
		return Divergent
	}
}
