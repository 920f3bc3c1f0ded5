package wellformed

import (
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"
)

// Error message constants - ALL error messages must be constants
const (
	ErrMsgInputNotString   = "input must be a string"
	ErrMsgInputTooLarge    = "input exceeds maximum size"
	ErrMsgMalformedMarkup  = "markup is not well-formed"
	ErrMsgNegativeMaxInput = "max input size cannot be negative"
	ErrMsgStorageOpen      = "failed to open report storage"
)

// Configuration error messages
const (
	ErrMsgConfigRead          = "failed to read config file"
	ErrMsgConfigDecode        = "failed to decode config file"
	ErrMsgConfigLogLevel      = "unknown log level"
	ErrMsgConfigLogFormat     = "log format must be json or console"
	ErrMsgConfigLogger        = "failed to build logger"
	ErrMsgConfigNegative      = "value cannot be negative"
	ErrMsgConfigNotPositive   = "value must be positive"
	ErrMsgConfigStorageDriver = "unknown storage driver"
	ErrMsgConfigStorageDSN    = "storage driver requires a dsn"
	ErrMsgConfigServerAddress = "server address is empty"
)

// Error code constants for categorization
const (
	ErrCodeInput   = "WELLFORMED_INPUT"
	ErrCodeMarkup  = "WELLFORMED_MARKUP"
	ErrCodeStorage = "WELLFORMED_STORAGE"
	ErrCodeConfig  = "WELLFORMED_CONFIG"
)

// NewInputTypeError creates an error for a non-string input
func NewInputTypeError(typeName string) error {
	return cuserr.NewValidationError(ErrCodeInput, ErrMsgInputNotString).
		WithMetadata(MetaKeyType, typeName)
}

// NewInputTooLargeError creates an error for an input over the size limit
func NewInputTooLargeError(size, maxSize int) error {
	return cuserr.NewValidationError(ErrCodeInput, ErrMsgInputTooLarge).
		WithMetadata(MetaKeySize, strconv.Itoa(size)).
		WithMetadata(MetaKeyMaxSize, strconv.Itoa(maxSize))
}

// NewMarkupError creates an error describing a structural failure
func NewMarkupError(r *Report) error {
	err := cuserr.NewValidationError(ErrCodeMarkup, ErrMsgMalformedMarkup+": "+r.Reason).
		WithMetadata(MetaKeyOutcome, string(r.Outcome))
	if r.Position != nil {
		err = err.
			WithMetadata(MetaKeyLine, strconv.Itoa(r.Position.Line)).
			WithMetadata(MetaKeyColumn, strconv.Itoa(r.Position.Column)).
			WithMetadata(MetaKeyOffset, strconv.Itoa(r.Position.Offset))
	}
	if r.Expected != "" {
		err = err.WithMetadata(MetaKeyExpected, r.Expected)
	}
	if r.Found != "" {
		err = err.WithMetadata(MetaKeyFound, r.Found)
	}
	if len(r.Unclosed) > 0 {
		err = err.WithMetadata(MetaKeyTags, strings.Join(r.UnclosedNames(), TagListSeparator))
	}
	return err
}

// NewReportError maps a failing report onto the matching error constructor
func NewReportError(r *Report) error {
	switch r.Outcome {
	case OutcomeInputType:
		return NewInputTypeError(r.InputType)
	case OutcomeTooLarge:
		return NewInputTooLargeError(r.InputSize, r.MaxInputSize)
	default:
		return NewMarkupError(r)
	}
}

// NewConfigError creates a configuration error for the named field
func NewConfigError(msg, field string) error {
	return cuserr.NewValidationError(ErrCodeConfig, msg).
		WithMetadata(MetaKeyField, field)
}

// NewConfigLoadError wraps a failure to read or decode a config file
func NewConfigLoadError(msg, path string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeConfig, msg).
		WithMetadata(MetaKeyPath, path)
}

// NewStorageOpenError wraps a failure to open the configured storage driver
func NewStorageOpenError(driver string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeStorage, ErrMsgStorageOpen).
		WithMetadata(MetaKeyDriver, driver)
}
