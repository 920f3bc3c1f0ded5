package internal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// tokenView drops the raw Value so expectations stay readable
type tokenView struct {
	Type     TokenType
	Name     string
	Position Position
}

func viewTokens(tokens []Token) []tokenView {
	views := make([]tokenView, len(tokens))
	for i, tok := range tokens {
		views[i] = tokenView{Type: tok.Type, Name: tok.Name, Position: tok.Position}
	}
	return views
}

func pos(offset, line, column int) Position {
	return Position{Offset: offset, Line: line, Column: column}
}

func assertTokensMatch(t *testing.T, expected []tokenView, actual []Token) {
	t.Helper()
	if diff := cmp.Diff(expected, viewTokens(actual)); diff != "" {
		t.Fatalf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestScanner_Tokenize_Basics(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenView
	}{
		{
			name:  "empty string",
			input: "",
			expected: []tokenView{
				{Type: TokenTypeEOF, Position: pos(0, 1, 0)},
			},
		},
		{
			name:  "plain text",
			input: "Hello",
			expected: []tokenView{
				{Type: TokenTypeText, Position: pos(0, 1, 0)},
				{Type: TokenTypeEOF, Position: pos(5, 1, 5)},
			},
		},
		{
			name:  "mismatched pair",
			input: "<div>Content</p>",
			expected: []tokenView{
				{Type: TokenTypeOpenTag, Name: "div", Position: pos(0, 1, 0)},
				{Type: TokenTypeText, Position: pos(5, 1, 5)},
				{Type: TokenTypeCloseTag, Name: "p", Position: pos(12, 1, 12)},
				{Type: TokenTypeEOF, Position: pos(16, 1, 16)},
			},
		},
		{
			name:  "upper case names are lowered",
			input: "<DIV></Div>",
			expected: []tokenView{
				{Type: TokenTypeOpenTag, Name: "div", Position: pos(0, 1, 0)},
				{Type: TokenTypeCloseTag, Name: "div", Position: pos(5, 1, 5)},
				{Type: TokenTypeEOF, Position: pos(11, 1, 11)},
			},
		},
		{
			name:  "multiline positions",
			input: "<ul>\n  <li>One</li>\n</ul>",
			expected: []tokenView{
				{Type: TokenTypeOpenTag, Name: "ul", Position: pos(0, 1, 0)},
				{Type: TokenTypeText, Position: pos(4, 1, 4)},
				{Type: TokenTypeOpenTag, Name: "li", Position: pos(7, 2, 2)},
				{Type: TokenTypeText, Position: pos(11, 2, 6)},
				{Type: TokenTypeCloseTag, Name: "li", Position: pos(14, 2, 9)},
				{Type: TokenTypeText, Position: pos(19, 2, 14)},
				{Type: TokenTypeCloseTag, Name: "ul", Position: pos(20, 3, 0)},
				{Type: TokenTypeEOF, Position: pos(25, 3, 5)},
			},
		},
		{
			name:  "columns count characters not bytes",
			input: "<p>héllo</p>",
			expected: []tokenView{
				{Type: TokenTypeOpenTag, Name: "p", Position: pos(0, 1, 0)},
				{Type: TokenTypeText, Position: pos(3, 1, 3)},
				{Type: TokenTypeCloseTag, Name: "p", Position: pos(9, 1, 8)},
				{Type: TokenTypeEOF, Position: pos(13, 1, 12)},
			},
		},
		{
			name:  "four byte character is one column",
			input: "<p>😀</p>",
			expected: []tokenView{
				{Type: TokenTypeOpenTag, Name: "p", Position: pos(0, 1, 0)},
				{Type: TokenTypeText, Position: pos(3, 1, 3)},
				{Type: TokenTypeCloseTag, Name: "p", Position: pos(7, 1, 4)},
				{Type: TokenTypeEOF, Position: pos(11, 1, 8)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := NewScanner(tt.input, zap.NewNop())
			assertTokensMatch(t, tt.expected, scanner.Tokenize())
		})
	}
}

func TestScanner_Tokenize_SelfClosing(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenView
	}{
		{
			name:  "slash syntax with attributes",
			input: `<img src="image.jpg" alt="Image" />`,
			expected: []tokenView{
				{Type: TokenTypeSelfClosing, Name: "img", Position: pos(0, 1, 0)},
				{Type: TokenTypeEOF, Position: pos(35, 1, 35)},
			},
		},
		{
			name:  "void element without slash",
			input: "<br>",
			expected: []tokenView{
				{Type: TokenTypeSelfClosing, Name: "br", Position: pos(0, 1, 0)},
				{Type: TokenTypeEOF, Position: pos(4, 1, 4)},
			},
		},
		{
			name:  "non-void element with slash",
			input: "<div/>",
			expected: []tokenView{
				{Type: TokenTypeSelfClosing, Name: "div", Position: pos(0, 1, 0)},
				{Type: TokenTypeEOF, Position: pos(6, 1, 6)},
			},
		},
		{
			name:  "whitespace around slash",
			input: "<span / >",
			expected: []tokenView{
				{Type: TokenTypeSelfClosing, Name: "span", Position: pos(0, 1, 0)},
				{Type: TokenTypeEOF, Position: pos(9, 1, 9)},
			},
		},
		{
			name:  "self-closed script does not enter raw text mode",
			input: `<script src="a.js" /><b></b>`,
			expected: []tokenView{
				{Type: TokenTypeSelfClosing, Name: "script", Position: pos(0, 1, 0)},
				{Type: TokenTypeOpenTag, Name: "b", Position: pos(21, 1, 21)},
				{Type: TokenTypeCloseTag, Name: "b", Position: pos(24, 1, 24)},
				{Type: TokenTypeEOF, Position: pos(28, 1, 28)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := NewScanner(tt.input, zap.NewNop())
			assertTokensMatch(t, tt.expected, scanner.Tokenize())
		})
	}
}

func TestScanner_Tokenize_CommentsAndDirectives(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenView
	}{
		{
			name:  "comment inside element",
			input: "<div><!-- Comment -->Content</div>",
			expected: []tokenView{
				{Type: TokenTypeOpenTag, Name: "div", Position: pos(0, 1, 0)},
				{Type: TokenTypeComment, Position: pos(5, 1, 5)},
				{Type: TokenTypeText, Position: pos(21, 1, 21)},
				{Type: TokenTypeCloseTag, Name: "div", Position: pos(28, 1, 28)},
				{Type: TokenTypeEOF, Position: pos(34, 1, 34)},
			},
		},
		{
			name:  "comment hides tags",
			input: "<!-- <div> </span> -->",
			expected: []tokenView{
				{Type: TokenTypeComment, Position: pos(0, 1, 0)},
				{Type: TokenTypeEOF, Position: pos(22, 1, 22)},
			},
		},
		{
			name:  "unterminated comment runs to end",
			input: "<div><!-- open",
			expected: []tokenView{
				{Type: TokenTypeOpenTag, Name: "div", Position: pos(0, 1, 0)},
				{Type: TokenTypeComment, Position: pos(5, 1, 5)},
				{Type: TokenTypeEOF, Position: pos(14, 1, 14)},
			},
		},
		{
			name:  "doctype",
			input: "<!DOCTYPE html><p>x</p>",
			expected: []tokenView{
				{Type: TokenTypeDirective, Position: pos(0, 1, 0)},
				{Type: TokenTypeOpenTag, Name: "p", Position: pos(15, 1, 15)},
				{Type: TokenTypeText, Position: pos(18, 1, 18)},
				{Type: TokenTypeCloseTag, Name: "p", Position: pos(19, 1, 19)},
				{Type: TokenTypeEOF, Position: pos(23, 1, 23)},
			},
		},
		{
			name:  "lower case doctype",
			input: "<!doctype html>",
			expected: []tokenView{
				{Type: TokenTypeDirective, Position: pos(0, 1, 0)},
				{Type: TokenTypeEOF, Position: pos(15, 1, 15)},
			},
		},
		{
			name:  "processing instruction",
			input: `<?xml version="1.0"?><a></a>`,
			expected: []tokenView{
				{Type: TokenTypeDirective, Position: pos(0, 1, 0)},
				{Type: TokenTypeOpenTag, Name: "a", Position: pos(21, 1, 21)},
				{Type: TokenTypeCloseTag, Name: "a", Position: pos(24, 1, 24)},
				{Type: TokenTypeEOF, Position: pos(28, 1, 28)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := NewScanner(tt.input, zap.NewNop())
			assertTokensMatch(t, tt.expected, scanner.Tokenize())
		})
	}
}

func TestScanner_Tokenize_RawText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenView
	}{
		{
			name:  "script inside div",
			input: `<div><script>console.log("test");</script></div>`,
			expected: []tokenView{
				{Type: TokenTypeOpenTag, Name: "div", Position: pos(0, 1, 0)},
				{Type: TokenTypeOpenTag, Name: "script", Position: pos(5, 1, 5)},
				{Type: TokenTypeRawText, Name: "script", Position: pos(13, 1, 13)},
				{Type: TokenTypeCloseTag, Name: "script", Position: pos(33, 1, 33)},
				{Type: TokenTypeCloseTag, Name: "div", Position: pos(42, 1, 42)},
				{Type: TokenTypeEOF, Position: pos(48, 1, 48)},
			},
		},
		{
			name:  "style with selector characters",
			input: "<style>p > a { color: red }</style>",
			expected: []tokenView{
				{Type: TokenTypeOpenTag, Name: "style", Position: pos(0, 1, 0)},
				{Type: TokenTypeRawText, Name: "style", Position: pos(7, 1, 7)},
				{Type: TokenTypeCloseTag, Name: "style", Position: pos(27, 1, 27)},
				{Type: TokenTypeEOF, Position: pos(35, 1, 35)},
			},
		},
		{
			name:  "close tag matched case-insensitively",
			input: "<script>x</SCRIPT>",
			expected: []tokenView{
				{Type: TokenTypeOpenTag, Name: "script", Position: pos(0, 1, 0)},
				{Type: TokenTypeRawText, Name: "script", Position: pos(8, 1, 8)},
				{Type: TokenTypeCloseTag, Name: "script", Position: pos(9, 1, 9)},
				{Type: TokenTypeEOF, Position: pos(18, 1, 18)},
			},
		},
		{
			name:  "longer name is not the close tag",
			input: "<script>a</scripts>b</script>",
			expected: []tokenView{
				{Type: TokenTypeOpenTag, Name: "script", Position: pos(0, 1, 0)},
				{Type: TokenTypeRawText, Name: "script", Position: pos(8, 1, 8)},
				{Type: TokenTypeCloseTag, Name: "script", Position: pos(20, 1, 20)},
				{Type: TokenTypeEOF, Position: pos(29, 1, 29)},
			},
		},
		{
			name:  "empty body emits no raw text",
			input: "<script></script>",
			expected: []tokenView{
				{Type: TokenTypeOpenTag, Name: "script", Position: pos(0, 1, 0)},
				{Type: TokenTypeCloseTag, Name: "script", Position: pos(8, 1, 8)},
				{Type: TokenTypeEOF, Position: pos(17, 1, 17)},
			},
		},
		{
			name:  "unterminated body runs to end",
			input: "<script>if (a < b) { x = '</div>' }",
			expected: []tokenView{
				{Type: TokenTypeOpenTag, Name: "script", Position: pos(0, 1, 0)},
				{Type: TokenTypeRawText, Name: "script", Position: pos(8, 1, 8)},
				{Type: TokenTypeEOF, Position: pos(35, 1, 35)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := NewScanner(tt.input, zap.NewNop())
			assertTokensMatch(t, tt.expected, scanner.Tokenize())
		})
	}
}

func TestScanner_Tokenize_QuoteAware(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []tokenView
	}{
		{
			name:  "greater-than and other quote inside values",
			input: `<a title="1 > 0" data-q='say "hi"'>x</a>`,
			expected: []tokenView{
				{Type: TokenTypeOpenTag, Name: "a", Position: pos(0, 1, 0)},
				{Type: TokenTypeText, Position: pos(35, 1, 35)},
				{Type: TokenTypeCloseTag, Name: "a", Position: pos(36, 1, 36)},
				{Type: TokenTypeEOF, Position: pos(40, 1, 40)},
			},
		},
		{
			name:  "whitespace around equals",
			input: `<p class = "a>b">x</p>`,
			expected: []tokenView{
				{Type: TokenTypeOpenTag, Name: "p", Position: pos(0, 1, 0)},
				{Type: TokenTypeText, Position: pos(17, 1, 17)},
				{Type: TokenTypeCloseTag, Name: "p", Position: pos(18, 1, 18)},
				{Type: TokenTypeEOF, Position: pos(22, 1, 22)},
			},
		},
		{
			name:  "quoted slash is not self-closing",
			input: `<a href="/">x</a>`,
			expected: []tokenView{
				{Type: TokenTypeOpenTag, Name: "a", Position: pos(0, 1, 0)},
				{Type: TokenTypeText, Position: pos(12, 1, 12)},
				{Type: TokenTypeCloseTag, Name: "a", Position: pos(13, 1, 13)},
				{Type: TokenTypeEOF, Position: pos(17, 1, 17)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scanner := NewScanner(tt.input, zap.NewNop())
			assertTokensMatch(t, tt.expected, scanner.Tokenize())
		})
	}
}

func TestScanner_Tokenize_TextFallback(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "less-than followed by space", input: "1 < 2 and <3"},
		{name: "unterminated open tag", input: `<div class="x"`},
		{name: "unterminated close tag", input: "</div"},
		{name: "bare bang", input: "wow <! nice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := NewScanner(tt.input, zap.NewNop()).Tokenize()
			require.NotEmpty(t, tokens)
			for _, tok := range tokens[:len(tokens)-1] {
				assert.Equal(t, TokenTypeText, tok.Type, "unexpected %s", tok)
			}
			assert.True(t, tokens[len(tokens)-1].IsEOF())
		})
	}
}

func TestScanner_TextValuesCoverSource(t *testing.T) {
	input := "<p a='1'>x <b>y</b> < z<!-- c --><br/></p>"
	scanner := NewScanner(input, nil)

	var rebuilt string
	for tok := range scanner.Tokens() {
		rebuilt += tok.Value
	}

	assert.Equal(t, input, rebuilt)
}

func TestScanner_Tokens_StopsEarly(t *testing.T) {
	scanner := NewScanner("<a></a><b></b>", zap.NewNop())

	var names []string
	for tok := range scanner.Tokens() {
		names = append(names, tok.Name)
		if len(names) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"a", "a"}, names)
	assert.Equal(t, 2, scanner.Count())
}

func TestScanner_Next_AfterEOF(t *testing.T) {
	scanner := NewScanner("x", zap.NewNop())

	assert.Equal(t, TokenTypeText, scanner.Next().Type)
	for i := 0; i < 3; i++ {
		tok := scanner.Next()
		assert.True(t, tok.IsEOF())
		assert.Equal(t, pos(1, 1, 1), tok.Position)
	}
	assert.Equal(t, 1, scanner.Count())
}

func TestToken_String(t *testing.T) {
	assert.Equal(t, "Token{OPEN_TAG <div> @ line 1, position 0}",
		NewOpenTagToken("div", "<div>", pos(0, 1, 0)).String())
	assert.Equal(t, `Token{TEXT: "hi" @ line 2, position 3}`,
		NewTextToken("hi", pos(9, 2, 3)).String())
	assert.Equal(t, "Token{EOF @ line 1, position 4}",
		NewEOFToken(pos(4, 1, 4)).String())
}
