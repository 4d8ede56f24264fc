package extract

import (
	"regexp"
	"strings"
)

// urlPattern matches http(s) URLs in free text. A closing parenthesis
// terminates a match so Markdown-style "(https://...)" links stay intact.
var urlPattern = regexp.MustCompile(`https?://[^\s)]+`)

// DefaultLinkResidueMax is the residual-prose threshold for MostlyLink.
// Tunable, not derived; kept at the value the service has always shipped.
const DefaultLinkResidueMax = 40

// ExpandLinks rewrites every occurrence of each entity's short URL with
// its expansion. Substitutions are literal, not regex. With no entities
// the text is returned unchanged.
func ExpandLinks(text string, entities []URLEntity) string {
	for _, e := range entities {
		if e.ShortURL == "" || e.ExpandedURL == "" {
			continue
		}
		text = strings.ReplaceAll(text, e.ShortURL, e.ExpandedURL)
	}
	return text
}

// FirstURL returns the first http(s) URL in text, or "".
func FirstURL(text string) string {
	return urlPattern.FindString(text)
}

// MostlyLink reports whether text is dominated by URLs with negligible
// surrounding prose: at least one URL, and at most residueMax characters
// left once URLs are stripped and whitespace collapsed.
func MostlyLink(text string, residueMax int) bool {
	if !urlPattern.MatchString(text) {
		return false
	}
	residue := urlPattern.ReplaceAllString(text, " ")
	residue = strings.Join(strings.Fields(residue), " ")
	return len(residue) <= residueMax
}
