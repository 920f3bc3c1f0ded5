package wellformed_test

import (
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/itsatony/go-wellformed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestValidate_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect wellformed.Result
	}{
		{
			name:   "mismatched close tag",
			input:  "<div>Content</p>",
			expect: wellformed.Result{Valid: false, Reason: "Mismatched tags: expected </div> but found </p> at line 1, position 12"},
		},
		{
			name:   "unclosed tags innermost first",
			input:  "<div><p>Content",
			expect: wellformed.Result{Valid: false, Reason: "Unclosed tags: p, div"},
		},
		{
			name:   "close tag with nothing open",
			input:  "</div>",
			expect: wellformed.Result{Valid: false, Reason: "Unexpected closing tag </div> at line 1, position 0"},
		},
		{
			name:   "self-closing void element with attributes",
			input:  `<img src="image.jpg" alt="Image" />`,
			expect: wellformed.Result{Valid: true, Reason: "HTML is valid"},
		},
		{
			name:   "comment between tags",
			input:  "<div><!-- Comment -->Content</div>",
			expect: wellformed.Result{Valid: true, Reason: "HTML is valid"},
		},
		{
			name:   "script body with quotes",
			input:  `<div><script>console.log("test");</script></div>`,
			expect: wellformed.Result{Valid: true, Reason: "HTML is valid"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, wellformed.Validate(tt.input))
		})
	}
}

func TestValidate_Structure(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		valid  bool
		reason string
	}{
		{"nested elements", "<ul><li>one</li><li>two</li></ul>", true, wellformed.ReasonValid},
		{"case insensitive names", "<DIV><Span></span></div>", true, wellformed.ReasonValid},
		{"void element without slash", "<p>line<br>break</p>", true, wellformed.ReasonValid},
		{"non-void trailing slash", "<div/><span />", true, wellformed.ReasonValid},
		{"doctype", "<!DOCTYPE html><html><body></body></html>", true, wellformed.ReasonValid},
		{"processing instruction", `<?xml version="1.0"?><root></root>`, true, wellformed.ReasonValid},
		{"tags inside comment", "<div><!-- </div><p> --></div>", true, wellformed.ReasonValid},
		{"tags inside script", "<script>if (a < b) { document.write('</div>') }</script>", true, wellformed.ReasonValid},
		{"tags inside style", "<style>p > a { color: red }</style><p></p>", true, wellformed.ReasonValid},
		{"gt inside quoted attribute", `<a title="x > y">link</a>`, true, wellformed.ReasonValid},
		{"opposite quote inside attribute", `<a href='/q?a="b"'>link</a>`, true, wellformed.ReasonValid},
		{"bare less-than in text", "<p>a < b and 1 <2</p>", true, wellformed.ReasonValid},
		{"plain text", "just some text", true, wellformed.ReasonValid},
		{
			"mismatch on second line",
			"<div>\n</span>",
			false,
			"Mismatched tags: expected </div> but found </span> at line 2, position 0",
		},
		{
			"mismatch does not search deeper in the stack",
			"<ul><li>one<li>two</ul>",
			false,
			"Mismatched tags: expected </li> but found </ul> at line 1, position 18",
		},
		{
			"unexpected after balanced content",
			"<p></p></p>",
			false,
			"Unexpected closing tag </p> at line 1, position 7",
		},
		{
			"first failure wins",
			"<a></b></c>",
			false,
			"Mismatched tags: expected </a> but found </b> at line 1, position 3",
		},
		{
			"void elements never listed as unclosed",
			"<div><br><img src=x><input><p>",
			false,
			"Unclosed tags: p, div",
		},
		{
			"unterminated comment consumes the rest",
			"<div><!-- </div>",
			false,
			"Unclosed tags: div",
		},
		{
			"unterminated script consumes the rest",
			"<div><script></div>",
			false,
			"Unclosed tags: script, div",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := wellformed.Validate(tt.input)
			assert.Equal(t, tt.valid, result.Valid)
			assert.Equal(t, tt.reason, result.Reason)
		})
	}
}

func TestValidate_EmptyAndWhitespace(t *testing.T) {
	inputs := []string{"", " ", "\n", "\t\t", " \r\n \t "}

	for _, input := range inputs {
		t.Run(strings.ReplaceAll(input, "\n", `\n`), func(t *testing.T) {
			result := wellformed.Validate(input)
			assert.True(t, result.Valid)
			assert.Equal(t, wellformed.ReasonEmpty, result.Reason)
		})
	}

	t.Run("whitespace around markup is not empty", func(t *testing.T) {
		result := wellformed.Validate("  <p></p>  ")
		assert.Equal(t, wellformed.Result{Valid: true, Reason: wellformed.ReasonValid}, result)
	})
}

type markup string

func TestValidateValue_InputGuard(t *testing.T) {
	s := "<p></p>"

	rejected := []struct {
		name  string
		value any
	}{
		{"nil", nil},
		{"int", 42},
		{"float", 3.14},
		{"bool", true},
		{"slice", []string{"<p></p>"}},
		{"map", map[string]any{"input": "<p></p>"}},
		{"struct", struct{ Input string }{Input: "<p></p>"}},
		{"pointer to string", &s},
	}

	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			result := wellformed.ValidateValue(tt.value)
			assert.Equal(t, wellformed.Result{Valid: false, Reason: "Input must be a string"}, result)
		})
	}

	t.Run("string", func(t *testing.T) {
		assert.True(t, wellformed.ValidateValue("<p></p>").Valid)
	})

	t.Run("named string type", func(t *testing.T) {
		assert.True(t, wellformed.ValidateValue(markup("<p></p>")).Valid)
		assert.False(t, wellformed.ValidateValue(markup("<p>")).Valid)
	})

	t.Run("empty string value", func(t *testing.T) {
		assert.Equal(t, wellformed.ReasonEmpty, wellformed.ValidateValue("").Reason)
	})
}

func TestValidate_UnterminatedDirectivesScanLinearly(t *testing.T) {
	for _, unit := range []string{"<!x", "<?x"} {
		t.Run(unit, func(t *testing.T) {
			input := strings.Repeat(unit, 400_000)

			start := time.Now()
			result := wellformed.Validate(input)
			elapsed := time.Since(start)

			assert.True(t, result.Valid)
			assert.Equal(t, "HTML is valid", result.Reason)
			assert.Less(t, elapsed, time.Second)
		})
	}

	t.Run("closing bracket at the end", func(t *testing.T) {
		result := wellformed.Validate(strings.Repeat("<!x", 1000) + "><b>")
		assert.False(t, result.Valid)
		assert.Equal(t, "Unclosed tags: b", result.Reason)
	})
}

func TestValidate_Idempotent(t *testing.T) {
	inputs := []string{
		"<div><p>Content</div>",
		"<div><p>",
		"</x>",
		"<section><article><h1>t</h1></article></section>",
	}

	for _, input := range inputs {
		first := wellformed.Check(input)

		var wg sync.WaitGroup
		reports := make([]*wellformed.Report, 32)
		for i := range reports {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				reports[i] = wellformed.Check(input)
			}(i)
		}
		wg.Wait()

		for _, r := range reports {
			assert.Equal(t, first, r)
		}
	}
}

// TestValidate_AgreesWithHTMLTokenizer checks that inputs reported valid have
// balanced open and close tags according to an independent tokenizer.
func TestValidate_AgreesWithHTMLTokenizer(t *testing.T) {
	inputs := []string{
		"<div><p>Content</p></div>",
		"<ul><li>one</li><li>two<br></li></ul>",
		`<img src="image.jpg" alt="Image" />`,
		"<div><!-- <span> --></div>",
		`<div><script>console.log("<p>");</script></div>`,
		`<a title="x > y" href='/q?a="b"'>link</a>`,
		"<!DOCTYPE html><html><head><meta charset=utf-8></head><body><p>a < b</p></body></html>",
		"<TABLE><TR><TD>cell</td></tr></table>",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			require.True(t, wellformed.Validate(input).Valid)

			balance := map[string]int{}
			z := html.NewTokenizer(strings.NewReader(input))
			for {
				tt := z.Next()
				if tt == html.ErrorToken {
					break
				}
				name, _ := z.TagName()
				switch tt {
				case html.StartTagToken:
					if !slices.Contains(wellformed.VoidElements(), string(name)) {
						balance[string(name)]++
					}
				case html.EndTagToken:
					balance[string(name)]--
				}
			}

			for name, n := range balance {
				assert.Zero(t, n, "unbalanced <%s>", name)
			}
		})
	}
}

func TestElementLists(t *testing.T) {
	assert.Contains(t, wellformed.VoidElements(), "img")
	assert.Contains(t, wellformed.VoidElements(), "br")
	assert.NotContains(t, wellformed.VoidElements(), "div")
	assert.Equal(t, []string{"script", "style"}, wellformed.RawTextElements())
}
