// internal/engine/hybrid/strategy.go
package hybrid

import (
	"github.com/law-makers/boardid/internal/engine"
)

// Decision is what auto mode does after the static attempt
type Decision int

const (
	// DecisionKeep returns the static result as is
	DecisionKeep Decision = iota

	// DecisionEscalate repeats the extraction in a live browser
	DecisionEscalate
)

// String returns the string representation of the decision
func (d Decision) String() string {
	switch d {
	case DecisionKeep:
		return "Keep"
	case DecisionEscalate:
		return "Escalate"
	default:
		return "Unknown"
	}
}

// Decide picks the next step from the static error and page body. Only
// relay exhaustion and misses on unrendered client shells are worth a browser.
func Decide(staticErr error, body string) Decision {
	switch engine.CodeOf(staticErr) {
	case engine.ErrCodeTransport:
		return DecisionEscalate
	case engine.ErrCodeNotFound:
		if LooksUnrendered(body) {
			return DecisionEscalate
		}
	}
	return DecisionKeep
}
