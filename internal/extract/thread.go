package extract

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// PostPage is one page of conversation search results. An empty NextToken
// means the upstream has no further page.
type PostPage struct {
	Posts     []Post
	NextToken string
}

// PostSource fetches platform content. Implementations talk to the
// platform API; any non-success upstream response is returned as an error
// carrying the upstream status and a body excerpt.
type PostSource interface {
	Post(ctx context.Context, id string) (Post, error)
	ConversationPage(ctx context.Context, conversationID, authorID string, pageSize int, nextToken string) (PostPage, error)
}

// assembleThread fetches all of the author's posts in the conversation,
// paging until maxItems posts have been collected or the upstream signals
// no further page. Items are sorted by creation time ascending (missing
// timestamps sort first), deduplicated by id keeping the first
// occurrence, and rendered as "(NN/total) text" joined by blank lines.
// Returns the rendered text and the deduplicated item count. Any upstream
// failure aborts the whole assembly.
func (p *Pipeline) assembleThread(ctx context.Context, conversationID, authorID string) (string, int, error) {
	var items []threadItem
	token := ""
	for {
		page, err := p.source.ConversationPage(ctx, conversationID, authorID, p.cfg.PageSize, token)
		if err != nil {
			return "", 0, fmt.Errorf("fetch conversation page: %w", err)
		}
		for _, post := range page.Posts {
			items = append(items, threadItem{
				id:        post.ID,
				text:      ExpandLinks(post.Text, post.Entities),
				createdAt: post.CreatedAt,
			})
		}
		if len(items) >= p.cfg.ThreadMaxItems || page.NextToken == "" {
			break
		}
		token = page.NextToken
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].createdAt.Before(items[j].createdAt)
	})

	seen := make(map[string]struct{}, len(items))
	deduped := items[:0]
	for _, item := range items {
		if _, ok := seen[item.id]; ok {
			continue
		}
		seen[item.id] = struct{}{}
		deduped = append(deduped, item)
	}

	if len(deduped) == 0 {
		return "", 0, nil
	}
	parts := make([]string, len(deduped))
	for i, item := range deduped {
		parts[i] = fmt.Sprintf("(%02d/%d) %s", i+1, len(deduped), item.text)
	}
	return strings.Join(parts, "\n\n"), len(deduped), nil
}
