package internal

import (
	"iter"
	"strings"

	"go.uber.org/zap"
)

// Scanner converts an HTML fragment into a token stream.
// Tokens are produced lazily, one per call to Next.
type Scanner struct {
	source  string
	pos     int    // Current byte position
	line    int    // Current line (1-indexed)
	column  int    // Current column (0-indexed, in characters)
	rawName string // Pending raw text container, set after <script> or <style>
	lastGT  int    // Index of the last '>' in source, -1 if there is none
	count   int    // Tokens emitted so far, EOF excluded
	done    bool
	logger  *zap.Logger
}

// NewScanner creates a scanner over source
func NewScanner(source string, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgScannerCreated, zap.Int(LogFieldSource, len(source)))
	return &Scanner{
		source: source,
		line:   1,
		column: 0,
		lastGT: strings.LastIndexByte(source, CharGreater),
		logger: logger,
	}
}

// Next returns the next token. Once the input is exhausted every call
// returns an EOF token positioned at the end of the source.
func (s *Scanner) Next() Token {
	if s.rawName != "" {
		name := s.rawName
		s.rawName = ""
		if tok, ok := s.scanRawText(name); ok {
			return s.emit(tok)
		}
	}

	if s.isAtEnd() {
		if !s.done {
			s.done = true
			s.logger.Debug(LogMsgScannerEOF, zap.Int(LogFieldTokens, s.count))
		}
		return NewEOFToken(s.currentPosition())
	}

	if s.peek() == CharLess {
		if tok, ok := s.scanMarkup(); ok {
			return s.emit(tok)
		}
	}

	return s.emit(s.scanText())
}

// Tokenize drains the scanner and returns every token, EOF last
func (s *Scanner) Tokenize() []Token {
	var tokens []Token
	for {
		tok := s.Next()
		tokens = append(tokens, tok)
		if tok.IsEOF() {
			return tokens
		}
	}
}

// Tokens returns the remaining tokens as a sequence, EOF excluded
func (s *Scanner) Tokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for tok := s.Next(); !tok.IsEOF() && yield(tok); tok = s.Next() {
		}
	}
}

// Count returns the number of tokens emitted so far, EOF excluded
func (s *Scanner) Count() int {
	return s.count
}

func (s *Scanner) emit(tok Token) Token {
	s.count++
	return tok
}

// scanMarkup tries to scan a construct starting at '<'.
// It returns false when the '<' does not begin complete markup.
func (s *Scanner) scanMarkup() (Token, bool) {
	switch {
	case s.matchStr(StrCommentOpen):
		return s.scanComment(), true
	case s.matchStr(StrDirectiveOpen), s.matchStr(StrPIOpen):
		return s.scanDirective()
	case s.matchStr(StrCloseTagOpen) && isLetter(s.peekAt(2)):
		return s.scanTag(true)
	case isLetter(s.peekAt(1)):
		return s.scanTag(false)
	}
	return Token{}, false
}

// scanComment scans <!-- ... -->. An unterminated comment runs to the end of input.
func (s *Scanner) scanComment() Token {
	startPos := s.currentPosition()
	bodyStart := s.pos + len(StrCommentOpen)

	end := len(s.source)
	if idx := strings.Index(s.source[bodyStart:], StrCommentClose); idx >= 0 {
		end = bodyStart + idx + len(StrCommentClose)
	} else {
		s.logger.Debug(LogMsgCommentOpen, zap.Int(LogFieldOffset, startPos.Offset))
	}

	raw := s.source[s.pos:end]
	s.advanceN(len(raw))
	return NewCommentToken(raw, startPos)
}

// scanDirective scans <!DOCTYPE ...>, other <!...> declarations and <?...?>
// processing instructions up to the next '>'.
func (s *Scanner) scanDirective() (Token, bool) {
	if s.pos > s.lastGT {
		return Token{}, false
	}
	idx := strings.IndexByte(s.source[s.pos:], CharGreater)
	if idx < 0 {
		return Token{}, false
	}

	startPos := s.currentPosition()
	raw := s.source[s.pos : s.pos+idx+1]
	s.advanceN(len(raw))
	return NewDirectiveToken(raw, startPos), true
}

// scanTag scans an open or close tag. Attribute values are skipped quote-aware.
func (s *Scanner) scanTag(closing bool) (Token, bool) {
	nameStart := s.pos + 1
	if closing {
		nameStart += len(StrCloseTagOpen) - 1
	}
	nameEnd := nameStart
	for nameEnd < len(s.source) && isNameChar(s.source[nameEnd]) {
		nameEnd++
	}

	end := s.findTagEnd(nameEnd)
	if end < 0 {
		return Token{}, false
	}

	startPos := s.currentPosition()
	name := strings.ToLower(s.source[nameStart:nameEnd])
	raw := s.source[s.pos : end+1]
	s.advanceN(len(raw))

	if closing {
		return NewCloseTagToken(name, raw, startPos), true
	}

	if IsVoidElement(name) || isSelfClosingSyntax(s.source[nameEnd:end]) {
		return NewSelfClosingToken(name, raw, startPos), true
	}

	if IsRawTextElement(name) {
		s.logger.Debug(LogMsgRawTextMode, zap.String(LogFieldTag, name))
		s.rawName = name
	}

	return NewOpenTagToken(name, raw, startPos), true
}

// findTagEnd returns the index of the '>' that terminates the tag whose
// attributes start at from, or -1. A quote opens an attribute value only
// when it follows '=' and inside it '>' and the other quote are literal.
func (s *Scanner) findTagEnd(from int) int {
	if from > s.lastGT {
		return -1
	}

	var quote byte
	var prev byte
	for i := from; i < len(s.source); i++ {
		ch := s.source[i]
		if quote != 0 {
			if ch == quote {
				quote = 0
				prev = ch
			}
			continue
		}

		switch {
		case ch == CharGreater:
			return i
		case (ch == CharDoubleQuote || ch == CharSingleQuote) && prev == CharEquals:
			quote = ch
		case !isWhitespace(ch):
			prev = ch
		}
	}
	return -1
}

// scanRawText scans the body of a raw text element up to its close tag.
// An unterminated body runs to the end of input. Empty bodies produce no token.
func (s *Scanner) scanRawText(name string) (Token, bool) {
	startPos := s.currentPosition()

	end := s.findRawTextEnd(name)
	if end < 0 {
		s.logger.Debug(LogMsgRawUnclosed, zap.String(LogFieldTag, name))
		end = len(s.source)
	}
	if end == s.pos {
		return Token{}, false
	}

	content := s.source[s.pos:end]
	s.advanceN(len(content))
	return NewRawTextToken(name, content, startPos), true
}

// findRawTextEnd returns the offset of the next "</name" (case-insensitive)
// followed by whitespace, '/', '>' or end of input, or -1.
func (s *Scanner) findRawTextEnd(name string) int {
	needle := StrCloseTagOpen + name
	for i := s.pos; i+len(needle) <= len(s.source); i++ {
		if s.source[i] != CharLess || !hasPrefixFold(s.source[i:], needle) {
			continue
		}
		j := i + len(needle)
		if j == len(s.source) {
			return i
		}
		if ch := s.source[j]; isWhitespace(ch) || ch == CharSlash || ch == CharGreater {
			return i
		}
	}
	return -1
}

// scanText scans character data up to the next potential markup start.
// The first character is always consumed so a '<' that opens nothing
// becomes part of the text.
func (s *Scanner) scanText() Token {
	startPos := s.currentPosition()
	begin := s.pos

	s.advance()
	for !s.isAtEnd() {
		idx := strings.IndexByte(s.source[s.pos:], CharLess)
		if idx < 0 {
			s.advanceN(len(s.source) - s.pos)
			break
		}
		s.advanceN(idx)
		if s.isMarkupStart() {
			break
		}
		s.advance()
	}

	return NewTextToken(s.source[begin:s.pos], startPos)
}

// Helper methods

// isMarkupStart reports whether the current '<' may begin markup
func (s *Scanner) isMarkupStart() bool {
	next := s.peekAt(1)
	return isLetter(next) || next == CharSlash || next == CharBang || next == CharQuestion
}

// currentPosition returns the current position
func (s *Scanner) currentPosition() Position {
	return Position{
		Offset: s.pos,
		Line:   s.line,
		Column: s.column,
	}
}

// isAtEnd returns true if we've reached the end of source
func (s *Scanner) isAtEnd() bool {
	return s.pos >= len(s.source)
}

// peek returns the current byte without advancing
func (s *Scanner) peek() byte {
	return s.peekAt(0)
}

// peekAt returns the byte n positions ahead without advancing
func (s *Scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.source) {
		return 0
	}
	return s.source[s.pos+n]
}

// advance consumes and returns the current byte.
// UTF-8 continuation bytes do not move the column.
func (s *Scanner) advance() byte {
	if s.isAtEnd() {
		return 0
	}
	ch := s.source[s.pos]
	s.pos++
	if ch == CharNewline {
		s.line++
		s.column = 0
	} else if !isContinuationByte(ch) {
		s.column++
	}
	return ch
}

// advanceN advances by n bytes
func (s *Scanner) advanceN(n int) {
	for i := 0; i < n && !s.isAtEnd(); i++ {
		s.advance()
	}
}

// matchStr returns true if the remaining source starts with str
func (s *Scanner) matchStr(str string) bool {
	return strings.HasPrefix(s.source[s.pos:], str)
}

// isSelfClosingSyntax reports whether the attribute section of a tag ends with '/'
func isSelfClosingSyntax(attrs string) bool {
	trimmed := strings.TrimRight(attrs, " \t\n\r\f")
	return strings.HasSuffix(trimmed, string(CharSlash))
}

// hasPrefixFold is an ASCII case-insensitive strings.HasPrefix
func hasPrefixFold(str, prefix string) bool {
	if len(str) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if toLowerASCII(str[i]) != toLowerASCII(prefix[i]) {
			return false
		}
	}
	return true
}

// Character classification helpers

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isNameChar(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == CharHyphen || ch == CharUnderscore || ch == CharColon || ch == CharDot
}

// Whitespace is TAB, LF, FF, CR or SPACE
func isWhitespace(ch byte) bool {
	return ch == CharSpace || ch == CharTab || ch == CharNewline || ch == CharCarriageRet || ch == CharFormFeed
}

func isContinuationByte(ch byte) bool {
	return ch&0xC0 == 0x80
}

func toLowerASCII(ch byte) byte {
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}
