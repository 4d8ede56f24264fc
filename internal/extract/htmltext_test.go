package extract

import (
	"strings"
	"testing"
)

func TestFlattenHTMLStripsScriptAndStyle(t *testing.T) {
	t.Parallel()

	html := `<html><head><style>body { color: red; }</style>` +
		`<script type="text/javascript">var x = "<p>";</script></head>` +
		`<body><!-- nav --><p>First paragraph.</p><p>Second paragraph.</p></body></html>`
	got := FlattenHTML(html)
	want := "First paragraph.\nSecond paragraph."
	if got != want {
		t.Fatalf("FlattenHTML = %q, want %q", got, want)
	}
}

func TestFlattenHTMLBlockBreaksAndEntities(t *testing.T) {
	t.Parallel()

	html := `<div>a &amp; b</div><h2>Title</h2>line one<br/>line two &quot;quoted&quot; &#39;x&#39; &lt;tag&gt;&nbsp;end`
	got := FlattenHTML(html)
	want := "a & b\nTitle\nline one\nline two \"quoted\" 'x' <tag> end"
	if got != want {
		t.Fatalf("FlattenHTML = %q, want %q", got, want)
	}
}

func TestFlattenHTMLCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	html := "<p>one   two\t\tthree</p>\n\n\n\n<p>four</p>"
	got := FlattenHTML(html)
	want := "one two three\n\nfour"
	if got != want {
		t.Fatalf("FlattenHTML = %q, want %q", got, want)
	}
}

func TestFlattenHTMLIdempotentOnPlainText(t *testing.T) {
	t.Parallel()

	plain := "Just a plain sentence.\nAnd a second line."
	once := FlattenHTML(plain)
	twice := FlattenHTML(once)
	if once != plain || twice != once {
		t.Fatalf("FlattenHTML not idempotent: %q -> %q -> %q", plain, once, twice)
	}
}

func TestFlattenHTMLDoubleEscapedAmp(t *testing.T) {
	t.Parallel()

	// "&amp;lt;" is an escaped "&lt;", not a "<".
	if got := FlattenHTML("a &amp;lt; b"); got != "a &lt; b" {
		t.Fatalf("FlattenHTML = %q, want %q", got, "a &lt; b")
	}
}

func TestFlattenHTMLLongDocument(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("<p>paragraph body text</p>")
	}
	got := FlattenHTML(b.String())
	if strings.Contains(got, "<") || strings.Contains(got, ">") {
		t.Fatalf("FlattenHTML left markup behind: %q", got[:80])
	}
}
