package wellformed

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/itsatony/go-wellformed/internal"
	"go.uber.org/zap"
)

// Checker validates HTML fragments. A Checker holds no per-call state and is
// safe for concurrent use.
type Checker struct {
	config *checkerConfig
	logger *zap.Logger
}

// New creates a new Checker with the given options.
func New(opts ...Option) (*Checker, error) {
	config := defaultCheckerConfig()
	for _, opt := range opts {
		opt(config)
	}

	if config.maxInputSize < 0 {
		return nil, NewConfigError(ErrMsgNegativeMaxInput, MetaKeyMaxSize)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgCheckerCreated, zap.Int(MetaKeyMaxSize, config.maxInputSize))

	return &Checker{
		config: config,
		logger: logger,
	}, nil
}

// MustNew creates a new Checker and panics if there's an error.
func MustNew(opts ...Option) *Checker {
	checker, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return checker
}

// Check validates input and returns the full report.
func (c *Checker) Check(input string) *Report {
	size := len(input)

	if c.config.maxInputSize > 0 && size > c.config.maxInputSize {
		c.logger.Debug(LogMsgInputRejected,
			zap.String(LogFieldOutcome, OutcomeNameTooLarge),
			zap.Int(LogFieldSize, size))
		report := newReport(OutcomeTooLarge, fmt.Sprintf(ReasonFmtTooLarge, c.config.maxInputSize), size)
		report.MaxInputSize = c.config.maxInputSize
		return report
	}

	if strings.TrimSpace(input) == "" {
		return newReport(OutcomeEmpty, ReasonEmpty, size)
	}

	report := reportFromOutcome(internal.Match(input, c.logger), size)

	c.logger.Debug(LogMsgCheckComplete,
		zap.String(LogFieldOutcome, string(report.Outcome)),
		zap.Bool(LogFieldValid, report.Valid),
		zap.Int(LogFieldSize, size),
		zap.Int(LogFieldTokens, report.TokenCount))
	return report
}

// CheckValue validates an arbitrary value. Values whose kind is not string
// (nil, numbers, booleans, slices, maps, structs, pointers) are rejected.
func (c *Checker) CheckValue(v any) *Report {
	input, ok := asText(v)
	if !ok {
		report := newReport(OutcomeInputType, ReasonInputNotString, 0)
		report.InputType = typeName(v)
		c.logger.Debug(LogMsgInputRejected,
			zap.String(LogFieldOutcome, OutcomeNameInputType),
			zap.String(MetaKeyType, report.InputType))
		return report
	}
	return c.Check(input)
}

// Validate validates input and returns the two-field result.
func (c *Checker) Validate(input string) Result {
	return c.Check(input).Result()
}

// ValidateValue validates an arbitrary value and returns the two-field result.
func (c *Checker) ValidateValue(v any) Result {
	return c.CheckValue(v).Result()
}

// asText returns the string held by v. Named string types count as text.
func asText(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
