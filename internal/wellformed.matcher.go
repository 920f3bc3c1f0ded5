package internal

import (
	"fmt"

	"go.uber.org/zap"
)

// Element is an open element stack entry
type Element struct {
	Name     string   // Lower-cased element name
	Position Position // Position of the open tag
}

// String returns a human-readable representation of the element
func (e Element) String() string {
	return fmt.Sprintf(ElementFmt, e.Name, e.Position)
}

// Outcome is the terminal state reached by the matcher
type Outcome struct {
	State    MatchState
	Expected string    // Top of stack when State is StateMismatched
	Found    string    // Offending close tag name for StateMismatched and StateUnexpected
	Position Position  // Offending close tag position for StateMismatched and StateUnexpected
	Unclosed []Element // Remaining open elements, innermost first, for StateUnclosed
	Tokens   int       // Tokens consumed, EOF excluded
}

// Matcher checks that the tags of a token stream nest properly
type Matcher struct {
	scanner *Scanner
	stack   []Element
	logger  *zap.Logger
}

// NewMatcher creates a matcher consuming tokens from scanner
func NewMatcher(scanner *Scanner, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Matcher{
		scanner: scanner,
		logger:  logger,
	}
}

// Match consumes tokens until the first structural failure or end of input.
// It never backtracks: the first inconsistency is final.
func (m *Matcher) Match() Outcome {
	m.logger.Debug(LogMsgMatcherStart)

	outcome := m.run()
	outcome.Tokens = m.scanner.Count()

	m.logger.Debug(LogMsgMatcherEnd,
		zap.String(LogFieldState, outcome.State.String()),
		zap.Int(LogFieldTokens, outcome.Tokens),
		zap.Int(LogFieldDepth, len(m.stack)))
	return outcome
}

func (m *Matcher) run() Outcome {
	for {
		tok := m.scanner.Next()

		switch tok.Type {
		case TokenTypeEOF:
			if len(m.stack) == 0 {
				return Outcome{State: StateValid}
			}
			return Outcome{State: StateUnclosed, Unclosed: m.unclosed()}

		case TokenTypeOpenTag:
			m.stack = append(m.stack, Element{Name: tok.Name, Position: tok.Position})
			m.logger.Debug(LogMsgTagPushed,
				zap.String(LogFieldTag, tok.Name),
				zap.Int(LogFieldDepth, len(m.stack)))

		case TokenTypeCloseTag:
			if len(m.stack) == 0 {
				m.logger.Debug(LogMsgTagUnexpected,
					zap.String(LogFieldFound, tok.Name),
					zap.Int(LogFieldLine, tok.Position.Line),
					zap.Int(LogFieldColumn, tok.Position.Column))
				return Outcome{State: StateUnexpected, Found: tok.Name, Position: tok.Position}
			}
			top := m.stack[len(m.stack)-1]
			if top.Name != tok.Name {
				m.logger.Debug(LogMsgTagMismatched,
					zap.String(LogFieldExpected, top.Name),
					zap.String(LogFieldFound, tok.Name),
					zap.Int(LogFieldLine, tok.Position.Line),
					zap.Int(LogFieldColumn, tok.Position.Column))
				return Outcome{
					State:    StateMismatched,
					Expected: top.Name,
					Found:    tok.Name,
					Position: tok.Position,
				}
			}
			m.stack = m.stack[:len(m.stack)-1]
			m.logger.Debug(LogMsgTagPopped,
				zap.String(LogFieldTag, tok.Name),
				zap.Int(LogFieldDepth, len(m.stack)))
		}
	}
}

// unclosed returns the stack in pop order
func (m *Matcher) unclosed() []Element {
	elements := make([]Element, 0, len(m.stack))
	for i := len(m.stack) - 1; i >= 0; i-- {
		elements = append(elements, m.stack[i])
	}
	return elements
}

// Match scans source and matches its tags in one pass
func Match(source string, logger *zap.Logger) Outcome {
	return NewMatcher(NewScanner(source, logger), logger).Match()
}
