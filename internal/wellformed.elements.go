package internal

// voidElements never take a closing tag.
var voidElements = map[string]struct{}{
	"area":   {},
	"base":   {},
	"br":     {},
	"col":    {},
	"embed":  {},
	"hr":     {},
	"img":    {},
	"input":  {},
	"link":   {},
	"meta":   {},
	"param":  {},
	"source": {},
	"track":  {},
	"wbr":    {},
}

// rawTextElements have bodies that are not scanned for nested markup.
var rawTextElements = map[string]struct{}{
	"script": {},
	"style":  {},
}

// IsVoidElement reports whether name is a void element.
// The name must already be lower-cased.
func IsVoidElement(name string) bool {
	_, ok := voidElements[name]
	return ok
}

// IsRawTextElement reports whether name is a raw text element.
// The name must already be lower-cased.
func IsRawTextElement(name string) bool {
	_, ok := rawTextElements[name]
	return ok
}

// VoidElements returns the void element names in alphabetical order.
func VoidElements() []string {
	return []string{
		"area", "base", "br", "col", "embed", "hr", "img",
		"input", "link", "meta", "param", "source", "track", "wbr",
	}
}

// RawTextElements returns the raw text element names in alphabetical order.
func RawTextElements() []string {
	return []string{"script", "style"}
}
