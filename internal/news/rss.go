package news

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/jonesrussell/gotweet/internal/httpclient"
	"github.com/jonesrussell/gotweet/internal/logger"
	"github.com/jonesrussell/gotweet/internal/models"
)

const (
	rssUserAgent = "gotweet/1.0 (news publisher)"

	// httpPrefix is the scheme prefix used to decide if a GUID is a URL.
	httpPrefix = "http"
)

// RSS fetches articles from a single RSS or Atom feed.
type RSS struct {
	feedURL string
	name    string
	parser  *gofeed.Parser
	client  *http.Client
	logger  logger.Logger
}

// NewRSS creates an RSS source for one feed URL.
func NewRSS(feedURL string, httpClient *http.Client, log logger.Logger) (*RSS, error) {
	parsed, err := url.Parse(feedURL)
	if err != nil || parsed.Host == "" || !strings.HasPrefix(parsed.Scheme, httpPrefix) {
		return nil, fmt.Errorf("rss: invalid feed URL %q", feedURL)
	}
	if httpClient == nil {
		httpClient = httpclient.New(nil)
	}

	return &RSS{
		feedURL: feedURL,
		name:    "rss:" + parsed.Host,
		parser:  gofeed.NewParser(),
		client:  httpClient,
		logger:  log,
	}, nil
}

// Name returns the source identifier with the feed host appended.
func (r *RSS) Name() string { return r.name }

// Fetch downloads and parses the feed. Entries without a usable link
// are skipped.
func (r *RSS) Fetch(ctx context.Context) ([]models.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.feedURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", rssUserAgent)

	start := time.Now()
	resp, err := r.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		r.logger.Warn("Feed request failed",
			logger.String("feed_url", r.feedURL),
			logger.Duration("duration", duration),
			logger.Error(err),
		)
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn("Feed returned non-OK status",
			logger.String("feed_url", r.feedURL),
			logger.Int("status_code", resp.StatusCode),
			logger.Duration("duration", duration),
		)
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	feed, err := r.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	sourceName := strings.TrimSpace(feed.Title)
	if sourceName == "" {
		sourceName = r.name
	}

	articles := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		link := feedLink(item)
		if link == "" {
			continue
		}

		articles = append(articles, models.Article{
			Title:       item.Title,
			Description: item.Description,
			URL:         link,
			SourceName:  sourceName,
			PublishedAt: feedPublishedAt(item.PublishedParsed),
		})
	}

	r.logger.Info("Fetched articles from feed",
		logger.String("feed_url", r.feedURL),
		logger.Int("article_count", len(articles)),
		logger.Duration("duration", duration),
	)

	return articles, nil
}

// feedLink returns the best available URL from a feed entry, falling
// back to the GUID when it looks like an HTTP URL.
func feedLink(item *gofeed.Item) string {
	if item.Link != "" {
		return item.Link
	}

	if strings.HasPrefix(item.GUID, httpPrefix) {
		return item.GUID
	}

	return ""
}

// feedPublishedAt converts a parsed time to RFC3339 in UTC so feed
// timestamps order lexicographically alongside API ones.
func feedPublishedAt(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.UTC().Format(time.RFC3339)
}
