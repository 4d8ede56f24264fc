// Package xapi implements extract.PostSource against the platform's v2
// HTTP API.
package xapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mquillen/summark/internal/extract"
)

const bodyExcerptMax = 300

// UpstreamError carries a non-success platform response: the status code
// and a truncated body excerpt, nothing else. Safe for direct display.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

// Config controls the platform client.
type Config struct {
	BearerToken string
	BaseURL     string
	Timeout     time.Duration
}

// Client talks to the platform API. Every call carries an explicit
// deadline; there is no retry logic here.
type Client struct {
	cfg  Config
	http *http.Client
}

// New builds a Client with the service defaults filled in.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.x.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{}}
}

type tweetJSON struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	AuthorID       string `json:"author_id"`
	ConversationID string `json:"conversation_id"`
	CreatedAt      string `json:"created_at"`
	Entities       *struct {
		URLs []struct {
			URL         string `json:"url"`
			ExpandedURL string `json:"expanded_url"`
		} `json:"urls"`
	} `json:"entities"`
}

func (t tweetJSON) toPost() extract.Post {
	post := extract.Post{
		ID:             t.ID,
		Text:           t.Text,
		AuthorID:       t.AuthorID,
		ConversationID: t.ConversationID,
	}
	if t.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, t.CreatedAt); err == nil {
			post.CreatedAt = ts
		}
	}
	if t.Entities != nil {
		for _, u := range t.Entities.URLs {
			post.Entities = append(post.Entities, extract.URLEntity{
				ShortURL:    u.URL,
				ExpandedURL: u.ExpandedURL,
			})
		}
	}
	return post
}

// Post fetches a single post by id.
func (c *Client) Post(ctx context.Context, id string) (extract.Post, error) {
	endpoint := fmt.Sprintf(
		"%s/2/tweets/%s?tweet.fields=author_id,created_at,conversation_id,entities",
		c.cfg.BaseURL, url.PathEscape(id),
	)
	var out struct {
		Data tweetJSON `json:"data"`
	}
	if err := c.get(ctx, endpoint, &out); err != nil {
		return extract.Post{}, err
	}
	return out.Data.toPost(), nil
}

// ConversationPage fetches one page of the author's posts in the given
// conversation via recent search.
func (c *Client) ConversationPage(
	ctx context.Context,
	conversationID, authorID string,
	pageSize int,
	nextToken string,
) (extract.PostPage, error) {
	q := url.Values{}
	q.Set("query", fmt.Sprintf("conversation_id:%s from:%s", conversationID, authorID))
	q.Set("max_results", strconv.Itoa(pageSize))
	q.Set("tweet.fields", "created_at,entities")
	if nextToken != "" {
		q.Set("next_token", nextToken)
	}
	endpoint := c.cfg.BaseURL + "/2/tweets/search/recent?" + q.Encode()

	var out struct {
		Data []tweetJSON `json:"data"`
		Meta struct {
			NextToken string `json:"next_token"`
		} `json:"meta"`
	}
	if err := c.get(ctx, endpoint, &out); err != nil {
		return extract.PostPage{}, err
	}
	page := extract.PostPage{NextToken: out.Meta.NextToken}
	for _, t := range out.Data {
		page.Posts = append(page.Posts, t.toPost())
	}
	return page, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call platform api: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, bodyExcerptMax))
		return &UpstreamError{Status: resp.StatusCode, Body: string(excerpt)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode platform response: %w", err)
	}
	return nil
}
