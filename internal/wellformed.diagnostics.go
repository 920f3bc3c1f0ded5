package internal

import (
	"fmt"
	"strings"
)

// FormatReason renders the diagnostic for a terminal matcher outcome.
// Lines are 1-indexed and positions 0-indexed.
func FormatReason(o Outcome) string {
	switch o.State {
	case StateMismatched:
		return fmt.Sprintf(ReasonFmtMismatched, o.Expected, o.Found, o.Position.Line, o.Position.Column)
	case StateUnexpected:
		return fmt.Sprintf(ReasonFmtUnexpected, o.Found, o.Position.Line, o.Position.Column)
	case StateUnclosed:
		return fmt.Sprintf(ReasonFmtUnclosed, strings.Join(ElementNames(o.Unclosed), ReasonUnclosedSep))
	default:
		return ReasonValid
	}
}

// ElementNames returns the names of elements in order
func ElementNames(elements []Element) []string {
	names := make([]string, len(elements))
	for i, e := range elements {
		names[i] = e.Name
	}
	return names
}
