// Package storage defines the bookmark persistence interface and an
// in-memory implementation for development and tests.
package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Bookmark is one persisted save: the extracted source text, its summary,
// and provenance metadata.
type Bookmark struct {
	ID             string    `json:"id"`
	SourceText     string    `json:"source_text"`
	Summary        string    `json:"summary"`
	TextKind       string    `json:"text_kind"`
	SourceURL      string    `json:"source_url,omitempty"`
	ResolvedURL    string    `json:"resolved_url,omitempty"`
	TweetID        string    `json:"tweet_id,omitempty"`
	TweetAuthorID  string    `json:"tweet_author_id,omitempty"`
	TweetCreatedAt time.Time `json:"tweet_created_at,omitempty"`
	ThreadCount    int       `json:"thread_count,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store persists bookmarks.
type Store interface {
	Save(ctx context.Context, b Bookmark) error
	List(ctx context.Context, limit int) ([]Bookmark, error)
}

// MemoryStore keeps bookmarks in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	bookmarks []Bookmark
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save appends a bookmark.
func (s *MemoryStore) Save(_ context.Context, b Bookmark) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookmarks = append(s.bookmarks, b)
	return nil
}

// List returns up to limit bookmarks, newest first.
func (s *MemoryStore) List(_ context.Context, limit int) ([]Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Bookmark, len(s.bookmarks))
	copy(out, s.bookmarks)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
