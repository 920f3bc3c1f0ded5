package wellformed

import "time"

// Reason strings returned in Result.Reason. The mismatched, unexpected and
// unclosed reasons are formatted from the offending tags.
const (
	ReasonInputNotString = "Input must be a string"
	ReasonEmpty          = "Empty string is valid"
	ReasonValid          = "HTML is valid"
	ReasonFmtTooLarge    = "Input exceeds maximum size of %d bytes"
)

// PositionFmt formats a Position as line and column.
const PositionFmt = "line %d, position %d"

// Outcome name constants
const (
	OutcomeNameInputType            = "input_type_error"
	OutcomeNameEmpty                = "trivially_valid"
	OutcomeNameValid                = "structurally_valid"
	OutcomeNameMismatchedTags       = "mismatched_tags"
	OutcomeNameUnexpectedClosingTag = "unexpected_closing_tag"
	OutcomeNameUnclosedTags         = "unclosed_tags"
	OutcomeNameTooLarge             = "input_too_large"
)

// Default option values
const (
	DefaultMaxInputSize = 0 // unlimited
)

// Metadata key constants for structured errors
const (
	MetaKeyOutcome  = "outcome"
	MetaKeyLine     = "line"
	MetaKeyColumn   = "column"
	MetaKeyOffset   = "offset"
	MetaKeyExpected = "expected"
	MetaKeyFound    = "found"
	MetaKeyTags     = "tags"
	MetaKeyType     = "type"
	MetaKeySize     = "size"
	MetaKeyMaxSize  = "max_size"
	MetaKeyPath     = "path"
	MetaKeyField    = "field"
	MetaKeyDriver   = "driver"
)

// Log message constants
const (
	LogMsgCheckerCreated   = "checker created"
	LogMsgCheckComplete    = "validation complete"
	LogMsgInputRejected    = "input rejected"
	LogMsgCacheHit         = "validation cache hit"
	LogMsgReportSaved      = "validation report saved"
	LogMsgServerStarting   = "http server starting"
	LogMsgServerStopped    = "http server stopped"
	LogMsgRequestFailed    = "request failed"
	LogMsgMigrationApplied = "storage migration applied"
	LogMsgStorageOpened    = "report storage opened"
)

// Log field names
const (
	LogFieldOutcome   = "outcome"
	LogFieldValid     = "valid"
	LogFieldSize      = "input_size"
	LogFieldTokens    = "token_count"
	LogFieldDuration  = "duration"
	LogFieldReportID  = "report_id"
	LogFieldDriver    = "driver"
	LogFieldAddress   = "address"
	LogFieldPath      = "path"
	LogFieldStatus    = "status"
	LogFieldMigration = "migration"
)

// Separator used when joining element names in metadata
const (
	TagListSeparator = ","
)

// Config defaults and values
const (
	LogLevelInfo                 = "info"
	LogFormatJSON                = "json"
	LogFormatConsole             = "console"
	LogOutputStderr              = "stderr"
	EnvStorageDSN                = "WELLFORMED_STORAGE_DSN"
	DefaultConfigFile            = "wellformed.yaml"
	DefaultServerAddress         = ":8080"
	DefaultServerMaxBodyBytes    = 1 << 20
	DefaultServerReadTimeout     = 10 * time.Second
	DefaultServerWriteTimeout    = 15 * time.Second
	DefaultServerShutdownTimeout = 10 * time.Second
)

// Config field paths used in configuration errors
const (
	ConfigFieldLogLevel        = "log.level"
	ConfigFieldLogFormat       = "log.format"
	ConfigFieldCheckerMaxInput = "checker.max_input_size"
	ConfigFieldCacheTTL        = "cache.ttl"
	ConfigFieldCacheMaxEntries = "cache.max_entries"
	ConfigFieldCacheMaxInput   = "cache.max_input_size"
	ConfigFieldStorageDriver   = "storage.driver"
	ConfigFieldStorageDSN      = "storage.dsn"
	ConfigFieldStorageCacheTTL = "storage.cache_ttl"
	ConfigFieldServerAddress   = "server.address"
	ConfigFieldServerMaxBody   = "server.max_body_bytes"
	ConfigFieldServerTimeouts  = "server.timeouts"
)

// Filesystem storage constants
const (
	FilesystemDirPermissions  = 0755
	FilesystemFilePermissions = 0644
	FilesystemReportSuffix    = ".json"
	FilesystemTempSuffix      = ".tmp"
	ErrMsgInvalidStorageRoot  = "storage root directory is empty"
)

// PostgreSQL storage driver configuration defaults
const (
	PostgresTablePrefix            = "wellformed_"
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
)

// PostgreSQL error messages
const (
	ErrMsgPostgresConnectionFailed = "failed to connect to PostgreSQL"
	ErrMsgPostgresQueryFailed      = "PostgreSQL query failed"
	ErrMsgPostgresScanFailed       = "failed to scan PostgreSQL result"
	ErrMsgPostgresMigrationFailed  = "PostgreSQL migration failed"
	ErrMsgPostgresEmptyConnString  = "PostgreSQL connection string is empty"
	ErrMsgPostgresAlreadyClosed    = "PostgreSQL storage is already closed"
)
