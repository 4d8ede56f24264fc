package extract

import "testing"

func TestExpandLinks(t *testing.T) {
	t.Parallel()

	entities := []URLEntity{
		{ShortURL: "https://t.co/abc", ExpandedURL: "https://example.com/full-article"},
		{ShortURL: "https://t.co/def", ExpandedURL: "https://other.org/page"},
	}
	got := ExpandLinks("look https://t.co/abc and https://t.co/def", entities)
	want := "look https://example.com/full-article and https://other.org/page"
	if got != want {
		t.Fatalf("ExpandLinks = %q, want %q", got, want)
	}
}

func TestExpandLinksNoEntities(t *testing.T) {
	t.Parallel()

	text := "nothing to do here https://t.co/abc"
	if got := ExpandLinks(text, nil); got != text {
		t.Fatalf("ExpandLinks with nil entities = %q, want unchanged", got)
	}
	if got := ExpandLinks(text, []URLEntity{}); got != text {
		t.Fatalf("ExpandLinks with empty entities = %q, want unchanged", got)
	}
	if got := ExpandLinks(text, []URLEntity{{ShortURL: "", ExpandedURL: "x"}}); got != text {
		t.Fatalf("ExpandLinks with malformed entity = %q, want unchanged", got)
	}
}

func TestMostlyLink(t *testing.T) {
	t.Parallel()

	cases := []struct {
		text string
		want bool
	}{
		{"https://a.com/x", true},
		{"check https://a.com/x", true},
		{"Check this out: https://a.com/x and also https://b.com/y, pretty cool stuff overall", false},
		{"no urls at all in this text", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := MostlyLink(tc.text, DefaultLinkResidueMax); got != tc.want {
			t.Fatalf("MostlyLink(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestFirstURL(t *testing.T) {
	t.Parallel()

	if got := FirstURL("see https://a.com/x then https://b.com/y"); got != "https://a.com/x" {
		t.Fatalf("FirstURL = %q, want first match", got)
	}
	if got := FirstURL("no links"); got != "" {
		t.Fatalf("FirstURL = %q, want empty", got)
	}
}
