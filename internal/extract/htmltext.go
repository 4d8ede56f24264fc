package extract

import (
	"regexp"
	"strings"
)

var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<script\b.*?</script>`)
	styleBlockPattern  = regexp.MustCompile(`(?is)<style\b.*?</style>`)
	htmlCommentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockBreakPattern  = regexp.MustCompile(`(?i)<br\s*/?>|</(?:p|div|li|h[1-6])\s*>`)
	anyTagPattern      = regexp.MustCompile(`<[^>]*>`)
	trailingWSPattern  = regexp.MustCompile(`[ \t]+\n`)
	manyNewlinePattern = regexp.MustCompile(`\n{3,}`)
	manySpacePattern   = regexp.MustCompile(`[ \t]{2,}`)
)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&quot;", `"`,
	"&#39;", "'",
	"&lt;", "<",
	"&gt;", ">",
)

// FlattenHTML reduces an HTML page to plain text. Script and style blocks
// and comments are dropped with their content, block-level closers become
// newlines, remaining tags are stripped, the six common named entities are
// decoded, and whitespace is normalized. Idempotent on text that carries
// no markup.
func FlattenHTML(html string) string {
	text := scriptBlockPattern.ReplaceAllString(html, "")
	text = styleBlockPattern.ReplaceAllString(text, "")
	text = htmlCommentPattern.ReplaceAllString(text, "")
	text = blockBreakPattern.ReplaceAllString(text, "\n")
	text = anyTagPattern.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)
	// &amp; decodes last so "&amp;lt;" stays a literal "&lt;".
	text = strings.ReplaceAll(text, "&amp;", "&")
	text = trailingWSPattern.ReplaceAllString(text, "\n")
	text = manyNewlinePattern.ReplaceAllString(text, "\n\n")
	text = manySpacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
