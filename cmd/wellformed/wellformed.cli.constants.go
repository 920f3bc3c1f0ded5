package main

// Command names
const (
	CmdNameValidate = "validate"
	CmdNameBatch    = "batch"
	CmdNameTokens   = "tokens"
	CmdNameServe    = "serve"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Flag names - long form
const (
	FlagInput   = "input"
	FlagFormat  = "format"
	FlagConfig  = "config"
	FlagOutput  = "output"
	FlagStore   = "store"
	FlagTag     = "tag"
	FlagAddress = "address"
	FlagQuiet   = "quiet"
	FlagMaxSize = "max-size"
)

// Flag names - short form
const (
	FlagInputShort   = "i"
	FlagFormatShort  = "F"
	FlagConfigShort  = "c"
	FlagOutputShort  = "o"
	FlagAddressShort = "a"
	FlagQuietShort   = "q"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand    = "unknown command"
	ErrMsgMissingInput      = "input source required"
	ErrMsgMissingFiles      = "at least one file required"
	ErrMsgInvalidFlags      = "invalid arguments"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgConfigFailed      = "failed to load configuration"
	ErrMsgLoggerFailed      = "failed to build logger"
	ErrMsgCheckerFailed     = "failed to create checker"
	ErrMsgStorageFailed     = "failed to open report storage"
	ErrMsgStoreFailed       = "failed to store report"
	ErrMsgServeFailed       = "server failed"
	ErrMsgStdinInBatch      = "stdin is not supported in batch mode"
)

// Help text templates
const (
	HelpMainUsage = `go-wellformed - HTML well-formedness validator CLI

Usage:
    wellformed <command> [options]

Commands:
    validate    Validate one HTML fragment
    batch       Validate many files, optionally storing reports
    tokens      Print the token stream of a fragment
    serve       Run the HTTP validation API
    version     Show version information
    help        Show help for a command

Use "wellformed help <command>" for more information about a command.`

	HelpValidateUsage = `Validate one HTML fragment

Usage:
    wellformed validate [options]

Options:
    -i, --input <file>      Input file (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)
    --max-size <bytes>      Reject inputs larger than this (default: unlimited)
    -q, --quiet             Print nothing, report through the exit code

Exit codes:
    0 valid, 3 invalid, 4 input could not be read

Examples:
    wellformed validate -i page.html
    wellformed validate -i page.html -F json
    cat page.html | wellformed validate -i -`

	HelpBatchUsage = `Validate many files, optionally storing reports

Usage:
    wellformed batch [options] <file>...

Options:
    -c, --config <file>     Config file (default: wellformed.yaml if present)
    -F, --format <format>   Output format: text, json (default: text)
    -o, --output <file>     Output file (default: stdout)
    --store                 Persist a report per file to the configured storage
    --tag <tag>             Tag stored reports (repeatable)

Exit codes:
    0 all valid, 3 any invalid, 4 any file could not be read

Examples:
    wellformed batch templates/*.html
    wellformed batch -c wellformed.yaml --store --tag ci templates/*.html
    wellformed batch -F json -o results.json a.html b.html`

	HelpTokensUsage = `Print the token stream of a fragment

Usage:
    wellformed tokens [options]

Options:
    -i, --input <file>      Input file (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    wellformed tokens -i page.html
    echo '<p>hi</p>' | wellformed tokens -i - -F json`

	HelpServeUsage = `Run the HTTP validation API

Usage:
    wellformed serve [options]

Options:
    -c, --config <file>     Config file (default: wellformed.yaml if present)
    -a, --address <addr>    Listen address, overrides server.address

Routes:
    POST /v1/validate       Validate {"input": "..."}; ?detail=true, ?store=true
    GET  /v1/reports        List stored reports
    GET  /v1/reports/:id    Fetch a stored report
    GET  /healthz           Liveness
    GET  /metrics           Prometheus metrics

Examples:
    wellformed serve
    wellformed serve -c wellformed.yaml -a :9090`

	HelpVersionUsage = `Show version information

Usage:
    wellformed version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    wellformed help [command]

Commands:
    validate    Show help for validate command
    batch       Show help for batch command
    tokens      Show help for tokens command
    serve       Show help for serve command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "go-wellformed version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
	VersionsFile        = "versions.yaml"
)

// Validation output format templates
const (
	ValidationTextUnclosedFormat = "  <%s> opened at line %d, position %d"
	BatchTextLineFormat          = "%s: %s"
	BatchTextStoredFormat        = "%s: %s (report %s)"
	BatchTextSummary             = "%d file(s), %d invalid, %d unreadable"
	TokenTextFormat              = "%4d  %s"
)

// CLI metadata
const (
	CLIName = "wellformed"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)
