package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrUnrecognizedURL reports an input that looks like a URL but carries no
// status id, so there is nothing to fetch and no raw text to fall back to.
var ErrUnrecognizedURL = errors.New("URL is not a status link")

// Config controls pipeline heuristics and thread paging.
type Config struct {
	LinkResidueMax int
	PageSize       int
	ThreadMaxItems int
}

// Pipeline is the top-level extraction orchestrator. It owns no shared
// mutable state; every call runs a short sequential chain of at most one
// post fetch, one redirect resolution, one article fetch, and one
// paginated thread fetch.
type Pipeline struct {
	source  PostSource
	fetcher *Fetcher
	cfg     Config
	logger  *zap.Logger
}

// NewPipeline builds a Pipeline. The logger may be nil.
func NewPipeline(source PostSource, fetcher *Fetcher, cfg Config, logger *zap.Logger) *Pipeline {
	if cfg.LinkResidueMax == 0 {
		cfg.LinkResidueMax = DefaultLinkResidueMax
	}
	if cfg.PageSize <= 0 || cfg.PageSize > 100 {
		cfg.PageSize = 100
	}
	if cfg.ThreadMaxItems <= 0 {
		cfg.ThreadMaxItems = 40
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{source: source, fetcher: fetcher, cfg: cfg, logger: logger}
}

// Extract runs the extract-and-classify operation for the given locator.
// Raw text that is neither a URL nor a post id passes through unchanged
// with kind "text". Upstream failures on required fetches abort the whole
// operation; redirect resolution and article extraction are best-effort
// and degrade to their fallbacks.
func (p *Pipeline) Extract(ctx context.Context, input string, includeThread bool) (Document, error) {
	id, ok := ParsePostID(input)
	if !ok {
		if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
			return Document{}, ErrUnrecognizedURL
		}
		return Document{Text: strings.TrimSpace(input), Kind: KindText}, nil
	}

	post, err := p.source.Post(ctx, id)
	if err != nil {
		return Document{}, fmt.Errorf("fetch post %s: %w", id, err)
	}

	sourceURL := input
	if !strings.HasPrefix(input, "http://") && !strings.HasPrefix(input, "https://") {
		sourceURL = "https://x.com/i/web/status/" + id
	}
	expanded := ExpandLinks(post.Text, post.Entities)
	doc := Document{
		Text:      expanded,
		Kind:      KindTweet,
		SourceURL: sourceURL,
		PostID:    post.ID,
		AuthorID:  post.AuthorID,
		CreatedAt: post.CreatedAt,
	}

	wasLink := MostlyLink(expanded, p.cfg.LinkResidueMax)
	articleText := ""
	if wasLink {
		first := FirstURL(expanded)
		resolved := p.fetcher.ResolveRedirects(ctx, first)
		doc.ResolvedURL = resolved
		articleText = p.fetcher.ArticleText(ctx, resolved)
		if articleText == "" {
			p.logger.Debug("no article text", zap.String("url", resolved))
		}
	}

	threadCount := 0
	if includeThread && post.ConversationID != "" && post.AuthorID != "" {
		threadText, count, err := p.assembleThread(ctx, post.ConversationID, post.AuthorID)
		if err != nil {
			return Document{}, fmt.Errorf("assemble thread %s: %w", post.ConversationID, err)
		}
		if count >= 1 {
			doc.Text = threadText
			doc.ThreadCount = count
			threadCount = count
		}
	}

	// Article text takes precedence over thread text, which takes
	// precedence over the original post text.
	if articleText != "" {
		doc.Text = articleText
	}
	switch {
	case articleText != "":
		doc.Kind = KindArticle
	case includeThread && threadCount >= 1:
		doc.Kind = KindThread
	case wasLink:
		doc.Kind = KindLink
	default:
		doc.Kind = KindTweet
	}
	documentsExtracted.WithLabelValues(string(doc.Kind)).Inc()
	return doc, nil
}
