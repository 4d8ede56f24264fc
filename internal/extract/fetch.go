package extract

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

const acceptHTML = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"

// FetcherConfig controls the outbound page fetches the pipeline performs.
type FetcherConfig struct {
	UserAgent       string
	PlatformDomains []string
	ResolveTimeout  time.Duration
	ArticleTimeout  time.Duration
	ArticleMinChars int
	ArticleMaxChars int
}

// Fetcher performs the pipeline's best-effort page fetches: redirect
// resolution and article retrieval. Both degrade to a documented fallback
// instead of returning errors.
type Fetcher struct {
	cfg FetcherConfig
}

// NewFetcher builds a Fetcher, filling unset config with the service
// defaults.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = "summark-bot/0.1"
	}
	if len(cfg.PlatformDomains) == 0 {
		cfg.PlatformDomains = []string{"x.com", "twitter.com"}
	}
	if cfg.ResolveTimeout == 0 {
		cfg.ResolveTimeout = 9 * time.Second
	}
	if cfg.ArticleTimeout == 0 {
		cfg.ArticleTimeout = 12 * time.Second
	}
	if cfg.ArticleMinChars == 0 {
		cfg.ArticleMinChars = 600
	}
	if cfg.ArticleMaxChars == 0 {
		cfg.ArticleMaxChars = 30000
	}
	return &Fetcher{cfg: cfg}
}

func (f *Fetcher) newCollector(timeout time.Duration) *colly.Collector {
	c := colly.NewCollector(
		colly.UserAgent(f.cfg.UserAgent),
		colly.IgnoreRobotsTxt(),
	)
	c.SetRequestTimeout(timeout)
	return c
}

// ResolveRedirects follows redirects from rawURL and returns the final
// URL. On any failure, including the hard timeout, the original URL is
// deemed final.
func (f *Fetcher) ResolveRedirects(ctx context.Context, rawURL string) string {
	if err := ctx.Err(); err != nil {
		return rawURL
	}
	final := rawURL
	c := f.newCollector(f.cfg.ResolveTimeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", acceptHTML)
	})
	c.OnResponse(func(r *colly.Response) {
		if r.Request != nil && r.Request.URL != nil {
			final = r.Request.URL.String()
		}
	})
	if err := c.Visit(rawURL); err != nil {
		return rawURL
	}
	c.Wait()
	return final
}

// ArticleText retrieves the page at rawURL and flattens its main text.
// It returns "" when no article text is available: platform-owned hosts
// (script-rendered, not worth fetching), non-2xx responses, non-HTML
// content, pages whose flattened text is shorter than the configured
// minimum, and any network failure all yield "". Text longer than the
// configured cap is truncated.
func (f *Fetcher) ArticleText(ctx context.Context, rawURL string) string {
	if err := ctx.Err(); err != nil {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || f.isPlatformHost(u.Hostname()) {
		return ""
	}
	var text string
	c := f.newCollector(f.cfg.ArticleTimeout)
	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", acceptHTML)
	})
	c.OnResponse(func(r *colly.Response) {
		contentType := strings.ToLower(r.Headers.Get("Content-Type"))
		if !strings.Contains(contentType, "html") {
			return
		}
		text = FlattenHTML(string(r.Body))
	})
	if err := c.Visit(rawURL); err != nil {
		return ""
	}
	c.Wait()
	if len(text) < f.cfg.ArticleMinChars {
		return ""
	}
	if len(text) > f.cfg.ArticleMaxChars {
		text = text[:f.cfg.ArticleMaxChars]
	}
	return text
}

func (f *Fetcher) isPlatformHost(host string) bool {
	host = strings.ToLower(host)
	for _, domain := range f.cfg.PlatformDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
