package dom

import "github.com/microcosm-cc/bluemonday"

// inlineElements are kept inside paragraphs whatever the paragraph set is.
var inlineElements = []string{
	"li", "dt", "dd", "b", "strong", "i", "em", "u", "s", "mark", "code",
	"span", "br", "a", "sub", "sup", "figure", "figcaption", "img",
}

// NewSanitizer returns a policy that keeps the given paragraph tags and common
// inline formatting. Anything else is unwrapped to its text.
func NewSanitizer(paragraphs []string) *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(paragraphs...)
	p.AllowElements(inlineElements...)
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("class").Globally()
	p.AllowDataAttributes()
	return p
}
