package internal

// TokenType represents the type of a lexical token
type TokenType string

// Token type constants
const (
	TokenTypeText        TokenType = "TEXT"
	TokenTypeOpenTag     TokenType = "OPEN_TAG"
	TokenTypeCloseTag    TokenType = "CLOSE_TAG"
	TokenTypeSelfClosing TokenType = "SELF_CLOSING_TAG"
	TokenTypeComment     TokenType = "COMMENT"
	TokenTypeDirective   TokenType = "DIRECTIVE"
	TokenTypeRawText     TokenType = "RAW_TEXT"
	TokenTypeEOF         TokenType = "EOF"
)

// MatchState identifies the state of the tag stack matcher
type MatchState int

// Matcher state constants
const (
	StateScanning MatchState = iota
	StateValid
	StateMismatched
	StateUnexpected
	StateUnclosed
)

// Matcher state names for debugging and logging
const (
	StateNameScanning   = "SCANNING"
	StateNameValid      = "VALID"
	StateNameMismatched = "MISMATCHED"
	StateNameUnexpected = "UNEXPECTED"
	StateNameUnclosed   = "UNCLOSED"
)

// String returns the string representation of the matcher state
func (s MatchState) String() string {
	switch s {
	case StateValid:
		return StateNameValid
	case StateMismatched:
		return StateNameMismatched
	case StateUnexpected:
		return StateNameUnexpected
	case StateUnclosed:
		return StateNameUnclosed
	default:
		return StateNameScanning
	}
}

// Character constants
const (
	CharLess        = '<'
	CharGreater     = '>'
	CharSlash       = '/'
	CharBang        = '!'
	CharQuestion    = '?'
	CharEquals      = '='
	CharDoubleQuote = '"'
	CharSingleQuote = '\''
	CharNewline     = '\n'
	CharSpace       = ' '
	CharTab         = '\t'
	CharCarriageRet = '\r'
	CharFormFeed    = '\f'
	CharHyphen      = '-'
	CharUnderscore  = '_'
	CharColon       = ':'
	CharDot         = '.'
)

// String constants for markup delimiters
const (
	StrCommentOpen   = "<!--"
	StrCommentClose  = "-->"
	StrDirectiveOpen = "<!"
	StrPIOpen        = "<?"
	StrCloseTagOpen  = "</"
)

// Diagnostic reason formats
const (
	ReasonValid         = "HTML is valid"
	ReasonFmtMismatched = "Mismatched tags: expected </%s> but found </%s> at line %d, position %d"
	ReasonFmtUnexpected = "Unexpected closing tag </%s> at line %d, position %d"
	ReasonFmtUnclosed   = "Unclosed tags: %s"
	ReasonUnclosedSep   = ", "
	PositionFmt         = "line %d, position %d"
	TokenFmtWithName    = "Token{%s <%s> @ %s}"
	TokenFmtWithoutName = "Token{%s @ %s}"
	TokenFmtWithValue   = "Token{%s: %q @ %s}"
	ElementFmt          = "<%s> @ %s"
)

// Log message constants
const (
	LogMsgScannerCreated = "scanner created"
	LogMsgScannerEOF     = "scanner reached end of input"
	LogMsgRawTextMode    = "entering raw text mode"
	LogMsgRawUnclosed    = "raw text block runs to end of input"
	LogMsgCommentOpen    = "comment runs to end of input"
	LogMsgMatcherStart   = "starting tag matching"
	LogMsgMatcherEnd     = "tag matching complete"
	LogMsgTagPushed      = "open tag pushed"
	LogMsgTagPopped      = "close tag matched"
	LogMsgTagMismatched  = "close tag does not match open tag"
	LogMsgTagUnexpected  = "close tag with empty stack"
)

// Log field names
const (
	LogFieldSource   = "source_length"
	LogFieldTokens   = "token_count"
	LogFieldTag      = "tag"
	LogFieldDepth    = "depth"
	LogFieldState    = "state"
	LogFieldLine     = "line"
	LogFieldColumn   = "column"
	LogFieldOffset   = "offset"
	LogFieldExpected = "expected"
	LogFieldFound    = "found"
)
