package internal

import "fmt"

// Position represents a location in the source fragment
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 0-indexed character position within the line
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf(PositionFmt, p.Line, p.Column)
}

// Token represents a lexical token produced by the scanner
type Token struct {
	Type     TokenType // The type of token
	Name     string    // Lower-cased element name for tags and raw text blocks
	Value    string    // Raw source text covered by the token
	Position Position  // Position of the token's first character
}

// String returns a human-readable representation of the token
func (t Token) String() string {
	if t.Name != "" {
		return fmt.Sprintf(TokenFmtWithName, t.Type, t.Name, t.Position)
	}
	if t.Value != "" {
		return fmt.Sprintf(TokenFmtWithValue, t.Type, t.Value, t.Position)
	}
	return fmt.Sprintf(TokenFmtWithoutName, t.Type, t.Position)
}

// IsEOF returns true if this is an end-of-input token
func (t Token) IsEOF() bool {
	return t.Type == TokenTypeEOF
}

// IsOpenTag returns true if this token opens an element that needs closing
func (t Token) IsOpenTag() bool {
	return t.Type == TokenTypeOpenTag
}

// IsCloseTag returns true if this is a close tag token
func (t Token) IsCloseTag() bool {
	return t.Type == TokenTypeCloseTag
}

// IsSelfClosing returns true for void elements and tags written with "/>"
func (t Token) IsSelfClosing() bool {
	return t.Type == TokenTypeSelfClosing
}

// NewEOFToken creates an EOF token at the given position
func NewEOFToken(pos Position) Token {
	return Token{
		Type:     TokenTypeEOF,
		Position: pos,
	}
}

// NewTextToken creates a text token with the given content
func NewTextToken(content string, pos Position) Token {
	return Token{
		Type:     TokenTypeText,
		Value:    content,
		Position: pos,
	}
}

// NewOpenTagToken creates an open tag token
func NewOpenTagToken(name, raw string, pos Position) Token {
	return Token{
		Type:     TokenTypeOpenTag,
		Name:     name,
		Value:    raw,
		Position: pos,
	}
}

// NewCloseTagToken creates a close tag token
func NewCloseTagToken(name, raw string, pos Position) Token {
	return Token{
		Type:     TokenTypeCloseTag,
		Name:     name,
		Value:    raw,
		Position: pos,
	}
}

// NewSelfClosingToken creates a self-closing tag token
func NewSelfClosingToken(name, raw string, pos Position) Token {
	return Token{
		Type:     TokenTypeSelfClosing,
		Name:     name,
		Value:    raw,
		Position: pos,
	}
}

// NewCommentToken creates a comment token
func NewCommentToken(raw string, pos Position) Token {
	return Token{
		Type:     TokenTypeComment,
		Value:    raw,
		Position: pos,
	}
}

// NewDirectiveToken creates a directive token (doctype, CDATA, processing instruction)
func NewDirectiveToken(raw string, pos Position) Token {
	return Token{
		Type:     TokenTypeDirective,
		Value:    raw,
		Position: pos,
	}
}

// NewRawTextToken creates a raw text token for the body of a script or style element
func NewRawTextToken(container, content string, pos Position) Token {
	return Token{
		Type:     TokenTypeRawText,
		Name:     container,
		Value:    content,
		Position: pos,
	}
}
