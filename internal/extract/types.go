// Package extract turns a caller-supplied locator (raw text or a status
// URL) into normalized plain text plus classification metadata.
package extract

import "time"

// TextKind classifies what an extracted document turned out to be.
type TextKind string

// Known text kinds, in descending precedence for classification.
const (
	KindArticle TextKind = "article"
	KindThread  TextKind = "thread"
	KindLink    TextKind = "link"
	KindTweet   TextKind = "tweet"
	KindText    TextKind = "text"
)

// Document is the pipeline output: normalized text ready for
// summarization, plus metadata about where it came from. Documents are
// produced fresh per request and never persisted by the pipeline.
type Document struct {
	Text        string
	Kind        TextKind
	ResolvedURL string
	ThreadCount int
	SourceURL   string
	PostID      string
	AuthorID    string
	CreatedAt   time.Time
}

// Post is a single unit of remote platform content as returned by the
// post-fetch collaborator.
type Post struct {
	ID             string
	Text           string
	AuthorID       string
	ConversationID string
	CreatedAt      time.Time
	Entities       []URLEntity
}

// URLEntity pairs a shortened link in post text with its expansion.
type URLEntity struct {
	ShortURL    string
	ExpandedURL string
}

// threadItem is held only during thread assembly.
type threadItem struct {
	id        string
	text      string
	createdAt time.Time
}
