package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	post    Post
	postErr error
	pages   []PostPage
	pageErr error
	calls   int
}

func (f *fakeSource) Post(_ context.Context, _ string) (Post, error) {
	return f.post, f.postErr
}

func (f *fakeSource) ConversationPage(_ context.Context, _, _ string, _ int, _ string) (PostPage, error) {
	if f.pageErr != nil {
		return PostPage{}, f.pageErr
	}
	if f.calls >= len(f.pages) {
		return PostPage{}, nil
	}
	page := f.pages[f.calls]
	f.calls++
	return page, nil
}

func newTestPipeline(source PostSource) *Pipeline {
	fetcher := NewFetcher(FetcherConfig{
		ResolveTimeout: 2 * time.Second,
		ArticleTimeout: 2 * time.Second,
	})
	return NewPipeline(source, fetcher, Config{}, nil)
}

func TestExtractRawText(t *testing.T) {
	t.Parallel()

	doc, err := newTestPipeline(&fakeSource{}).Extract(context.Background(), "  just some thoughts  ", false)
	require.NoError(t, err)
	require.Equal(t, KindText, doc.Kind)
	require.Equal(t, "just some thoughts", doc.Text)
}

func TestExtractUnrecognizedURL(t *testing.T) {
	t.Parallel()

	_, err := newTestPipeline(&fakeSource{}).Extract(context.Background(), "https://example.com/article", false)
	require.ErrorIs(t, err, ErrUnrecognizedURL)
}

func TestExtractPlainTweet(t *testing.T) {
	t.Parallel()

	source := &fakeSource{post: Post{
		ID:       "123456789",
		Text:     "a perfectly ordinary remark about go programming and how it went today",
		AuthorID: "42",
	}}
	doc, err := newTestPipeline(source).Extract(context.Background(), "https://x.com/u/status/123456789", false)
	require.NoError(t, err)
	require.Equal(t, KindTweet, doc.Kind)
	require.Equal(t, "123456789", doc.PostID)
	require.Equal(t, "https://x.com/u/status/123456789", doc.SourceURL)
}

func TestExtractExpandsEntities(t *testing.T) {
	t.Parallel()

	source := &fakeSource{post: Post{
		ID:   "123456789",
		Text: "long commentary about the linked piece, definitely more than the residue threshold https://t.co/xyz",
		Entities: []URLEntity{
			{ShortURL: "https://t.co/xyz", ExpandedURL: "https://example.com/essay"},
		},
	}}
	doc, err := newTestPipeline(source).Extract(context.Background(), "123456789", false)
	require.NoError(t, err)
	require.Contains(t, doc.Text, "https://example.com/essay")
	require.NotContains(t, doc.Text, "t.co")
	require.Equal(t, KindTweet, doc.Kind)
	require.Equal(t, "https://x.com/i/web/status/123456789", doc.SourceURL)
}

func TestExtractLinkOnlyTweetWithoutArticle(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>too short</body></html>"))
	}))
	defer srv.Close()

	source := &fakeSource{post: Post{ID: "123456789", Text: srv.URL + "/page"}}
	doc, err := newTestPipeline(source).Extract(context.Background(), "123456789", false)
	require.NoError(t, err)
	require.Equal(t, KindLink, doc.Kind)
	require.Equal(t, srv.URL+"/page", doc.ResolvedURL)
	require.Equal(t, srv.URL+"/page", doc.Text)
}

func TestExtractArticleWins(t *testing.T) {
	t.Parallel()

	body := "<html><body>" + strings.Repeat("<p>Substantial article prose that easily clears the threshold.</p>", 30) + "</body></html>"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	source := &fakeSource{
		post: Post{
			ID:             "123456789",
			Text:           srv.URL + "/essay",
			AuthorID:       "42",
			ConversationID: "123456789",
		},
		pages: []PostPage{{Posts: []Post{
			{ID: "123456789", Text: "thread opener", CreatedAt: time.Unix(1, 0)},
			{ID: "123456790", Text: "thread reply", CreatedAt: time.Unix(2, 0)},
		}}},
	}
	doc, err := newTestPipeline(source).Extract(context.Background(), "123456789", true)
	require.NoError(t, err)
	require.Equal(t, KindArticle, doc.Kind)
	require.Contains(t, doc.Text, "Substantial article prose")
	require.NotContains(t, doc.Text, "thread opener")
	// Thread metadata is still recorded even though article text won.
	require.Equal(t, 2, doc.ThreadCount)
}

func TestExtractThreadAssembly(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		post: Post{
			ID:             "100000001",
			Text:           "opening post of a longer thread with plenty of residue text around it",
			AuthorID:       "7",
			ConversationID: "100000001",
		},
		pages: []PostPage{
			{
				Posts: []Post{
					{ID: "100000003", Text: "third", CreatedAt: time.Unix(30, 0)},
					{ID: "100000002", Text: "second", CreatedAt: time.Unix(20, 0)},
				},
				NextToken: "page2",
			},
			{
				Posts: []Post{
					// Re-returned id must not duplicate.
					{ID: "100000002", Text: "second again", CreatedAt: time.Unix(20, 0)},
					{ID: "100000001", Text: "first"},
				},
			},
		},
	}
	doc, err := newTestPipeline(source).Extract(context.Background(), "100000001", true)
	require.NoError(t, err)
	require.Equal(t, KindThread, doc.Kind)
	require.Equal(t, 3, doc.ThreadCount)
	want := "(01/3) first\n\n(02/3) second\n\n(03/3) third"
	require.Equal(t, want, doc.Text)
}

func TestExtractThreadUpstreamErrorAborts(t *testing.T) {
	t.Parallel()

	source := &fakeSource{
		post: Post{
			ID:             "100000001",
			Text:           "opener",
			AuthorID:       "7",
			ConversationID: "100000001",
		},
		pageErr: fmt.Errorf("upstream status 503: service unavailable"),
	}
	_, err := newTestPipeline(source).Extract(context.Background(), "100000001", true)
	require.Error(t, err)
	require.Contains(t, err.Error(), "503")
}

func TestExtractPostFetchErrorPropagates(t *testing.T) {
	t.Parallel()

	source := &fakeSource{postErr: fmt.Errorf("upstream status 404: not found")}
	_, err := newTestPipeline(source).Extract(context.Background(), "123456789", false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "fetch post 123456789")
}

func TestExtractThreadCapStopsPaging(t *testing.T) {
	t.Parallel()

	pages := make([]PostPage, 3)
	for p := 0; p < 3; p++ {
		var posts []Post
		for i := 0; i < 20; i++ {
			n := p*20 + i
			posts = append(posts, Post{
				ID:        fmt.Sprintf("2000000%02d", n),
				Text:      fmt.Sprintf("item %d", n),
				CreatedAt: time.Unix(int64(n), 0),
			})
		}
		pages[p] = PostPage{Posts: posts, NextToken: fmt.Sprintf("page%d", p+2)}
	}
	source := &fakeSource{
		post: Post{
			ID:             "200000000",
			Text:           "opener text long enough to avoid the mostly-link branch entirely here",
			AuthorID:       "7",
			ConversationID: "200000000",
		},
		pages: pages,
	}
	doc, err := newTestPipeline(source).Extract(context.Background(), "200000000", true)
	require.NoError(t, err)
	// Cap of 40 is reached after two pages; the third is never fetched.
	require.Equal(t, 40, doc.ThreadCount)
	require.Equal(t, 2, source.calls)
}
