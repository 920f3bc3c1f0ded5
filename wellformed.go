// Package wellformed checks that the tags of an HTML fragment nest properly.
//
// It is a single-pass validator, not an HTML5 parser: there is no tag
// omission and no DOM. Void elements (br, img, ...) and tags written with a
// trailing "/>" never need closing, the bodies of script and style elements
// and of comments are not inspected, and tag names match case-insensitively.
// Scanning stops at the first mismatched or unexpected close tag.
//
// Basic usage:
//
//	result := wellformed.Validate("<div><p>Content</div>")
//	if !result.Valid {
//	    fmt.Println(result.Reason)
//	    // Mismatched tags: expected </p> but found </div> at line 1, position 15
//	}
//
// Values of unknown type (for example decoded JSON) go through ValidateValue,
// which rejects anything that is not a string:
//
//	wellformed.ValidateValue(42) // {false, "Input must be a string"}
//
// For the full diagnostic, including positions and the open element stack,
// use a Checker:
//
//	checker := wellformed.MustNew(wellformed.WithLogger(logger))
//	report := checker.Check(fragment)
//	if err := report.Err(); err != nil {
//	    return err
//	}
package wellformed

import "github.com/itsatony/go-wellformed/internal"

var defaultChecker = MustNew()

// Validate checks input with the default Checker.
func Validate(input string) Result {
	return defaultChecker.Validate(input)
}

// ValidateValue checks an arbitrary value with the default Checker.
func ValidateValue(v any) Result {
	return defaultChecker.ValidateValue(v)
}

// Check returns the full report for input using the default Checker.
func Check(input string) *Report {
	return defaultChecker.Check(input)
}

// VoidElements returns the element names that never take a closing tag.
func VoidElements() []string {
	return internal.VoidElements()
}

// RawTextElements returns the element names whose bodies are not inspected.
func RawTextElements() []string {
	return internal.RawTextElements()
}
