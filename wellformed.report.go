package wellformed

import (
	"fmt"

	"github.com/itsatony/go-wellformed/internal"
)

// Outcome classifies how a validation ended. Every call ends in exactly one.
type Outcome string

// Outcome constants
const (
	OutcomeInputType            Outcome = OutcomeNameInputType
	OutcomeEmpty                Outcome = OutcomeNameEmpty
	OutcomeValid                Outcome = OutcomeNameValid
	OutcomeMismatchedTags       Outcome = OutcomeNameMismatchedTags
	OutcomeUnexpectedClosingTag Outcome = OutcomeNameUnexpectedClosingTag
	OutcomeUnclosedTags         Outcome = OutcomeNameUnclosedTags
	OutcomeTooLarge             Outcome = OutcomeNameTooLarge
)

// IsValid reports whether the outcome is a passing one
func (o Outcome) IsValid() bool {
	return o == OutcomeValid || o == OutcomeEmpty
}

// IsStructural reports whether the outcome is a nesting failure found by the matcher
func (o Outcome) IsStructural() bool {
	switch o {
	case OutcomeMismatchedTags, OutcomeUnexpectedClosingTag, OutcomeUnclosedTags:
		return true
	default:
		return false
	}
}

// Outcomes returns every outcome in a stable order
func Outcomes() []Outcome {
	return []Outcome{
		OutcomeInputType,
		OutcomeEmpty,
		OutcomeValid,
		OutcomeMismatchedTags,
		OutcomeUnexpectedClosingTag,
		OutcomeUnclosedTags,
		OutcomeTooLarge,
	}
}

// Position represents a location in the validated fragment
type Position struct {
	Offset int `json:"offset"` // Byte offset from start
	Line   int `json:"line"`   // 1-indexed line number
	Column int `json:"column"` // 0-indexed character position within the line
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf(PositionFmt, p.Line, p.Column)
}

// Element is an element left open at end of input
type Element struct {
	Name     string   `json:"name"`
	Position Position `json:"position"`
}

// Result is the two-field answer callers branch on
type Result struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

// Report is the full diagnostic behind a Result
type Report struct {
	Outcome Outcome `json:"outcome"`
	Valid   bool    `json:"valid"`
	Reason  string  `json:"reason"`

	// Position of the offending close tag for mismatched and unexpected outcomes.
	Position *Position `json:"position,omitempty"`

	// Expected is the open element a mismatched close tag should have closed.
	Expected string `json:"expected,omitempty"`

	// Found is the offending close tag name.
	Found string `json:"found,omitempty"`

	// Unclosed lists elements left open, innermost first.
	Unclosed []Element `json:"unclosed,omitempty"`

	// InputType names the dynamic type of a rejected non-string input.
	InputType string `json:"input_type,omitempty"`

	// MaxInputSize is the limit a too-large input exceeded.
	MaxInputSize int `json:"max_input_size,omitempty"`

	TokenCount int `json:"token_count"`
	InputSize  int `json:"input_size"`
}

// Result projects the report onto its two-field result
func (r *Report) Result() Result {
	return Result{Valid: r.Valid, Reason: r.Reason}
}

// UnclosedNames returns the names of unclosed elements, innermost first
func (r *Report) UnclosedNames() []string {
	names := make([]string, len(r.Unclosed))
	for i, e := range r.Unclosed {
		names[i] = e.Name
	}
	return names
}

// Err returns nil for passing reports and a structured error otherwise
func (r *Report) Err() error {
	if r.Valid {
		return nil
	}
	return NewReportError(r)
}

func newReport(outcome Outcome, reason string, size int) *Report {
	return &Report{
		Outcome:   outcome,
		Valid:     outcome.IsValid(),
		Reason:    reason,
		InputSize: size,
	}
}

// reportFromOutcome converts a terminal matcher outcome
func reportFromOutcome(o internal.Outcome, size int) *Report {
	report := newReport(outcomeFromState(o.State), internal.FormatReason(o), size)
	report.TokenCount = o.Tokens

	switch o.State {
	case internal.StateMismatched, internal.StateUnexpected:
		p := fromInternalPosition(o.Position)
		report.Position = &p
		report.Expected = o.Expected
		report.Found = o.Found
	case internal.StateUnclosed:
		report.Unclosed = make([]Element, len(o.Unclosed))
		for i, e := range o.Unclosed {
			report.Unclosed[i] = Element{Name: e.Name, Position: fromInternalPosition(e.Position)}
		}
	}
	return report
}

func outcomeFromState(s internal.MatchState) Outcome {
	switch s {
	case internal.StateMismatched:
		return OutcomeMismatchedTags
	case internal.StateUnexpected:
		return OutcomeUnexpectedClosingTag
	case internal.StateUnclosed:
		return OutcomeUnclosedTags
	default:
		return OutcomeValid
	}
}

func fromInternalPosition(p internal.Position) Position {
	return Position{Offset: p.Offset, Line: p.Line, Column: p.Column}
}
