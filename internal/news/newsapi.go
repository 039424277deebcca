package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonesrussell/gotweet/internal/httpclient"
	"github.com/jonesrussell/gotweet/internal/logger"
	"github.com/jonesrussell/gotweet/internal/models"
)

const (
	// DefaultNewsAPIBaseURL is the hosted NewsAPI endpoint.
	DefaultNewsAPIBaseURL = "https://newsapi.org"

	everythingPath = "/v2/everything"

	// DefaultLanguage restricts results to English articles.
	DefaultLanguage = "en"
	// DefaultPageSize is the number of articles requested per fetch.
	DefaultPageSize = 20
)

// NewsAPIConfig configures a NewsAPI source.
type NewsAPIConfig struct {
	APIKey   string
	Query    string
	BaseURL  string
	Language string
	PageSize int
}

// NewsAPI fetches articles from the NewsAPI "everything" endpoint,
// sorted newest first by the provider.
type NewsAPI struct {
	cfg    NewsAPIConfig
	client *http.Client
	logger logger.Logger
}

// newsAPIResponse is the provider's envelope. Code and Message are only
// set when Status is "error".
type newsAPIResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source      newsAPISource `json:"source"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	PublishedAt string        `json:"publishedAt"`
}

type newsAPISource struct {
	Name string `json:"name"`
}

// NewNewsAPI creates a NewsAPI source. A nil httpClient falls back to
// the shared default client.
func NewNewsAPI(cfg NewsAPIConfig, httpClient *http.Client, log logger.Logger) (*NewsAPI, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("newsapi: API key is required")
	}
	if cfg.Query == "" {
		return nil, errors.New("newsapi: query is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultNewsAPIBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if httpClient == nil {
		httpClient = httpclient.New(nil)
	}

	return &NewsAPI{
		cfg:    cfg,
		client: httpClient,
		logger: log,
	}, nil
}

// Name returns the source identifier.
func (n *NewsAPI) Name() string { return "newsapi" }

// Fetch queries the everything endpoint and maps the results. The
// provider signals errors both through HTTP status codes and through a
// status field in the body, so both are checked.
func (n *NewsAPI) Fetch(ctx context.Context) ([]models.Article, error) {
	endpoint := n.cfg.BaseURL + everythingPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	// The hosted API authenticates through the apiKey query parameter.
	query := url.Values{}
	query.Set("q", n.cfg.Query)
	query.Set("language", n.cfg.Language)
	query.Set("sortBy", "publishedAt")
	query.Set("pageSize", strconv.Itoa(n.cfg.PageSize))
	query.Set("apiKey", n.cfg.APIKey)
	req.URL.RawQuery = query.Encode()

	start := time.Now()
	resp, err := n.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		n.logger.Warn("NewsAPI request failed",
			logger.String("query", n.cfg.Query),
			logger.Duration("duration", duration),
			logger.Error(err),
		)
		return nil, fmt.Errorf("fetch articles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		n.logger.Warn("NewsAPI returned non-OK status",
			logger.String("query", n.cfg.Query),
			logger.Int("status_code", resp.StatusCode),
			logger.Duration("duration", duration),
		)
		return nil, fmt.Errorf("newsapi returned status %d", resp.StatusCode)
	}

	var parsed newsAPIResponse
	if err = json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		n.logger.Error("Failed to decode NewsAPI response",
			logger.String("query", n.cfg.Query),
			logger.Duration("duration", duration),
			logger.Error(err),
		)
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if parsed.Status != "ok" {
		return nil, fmt.Errorf("newsapi error: %s - %s", parsed.Code, parsed.Message)
	}

	articles := make([]models.Article, 0, len(parsed.Articles))
	for _, a := range parsed.Articles {
		articles = append(articles, models.Article{
			Title:       a.Title,
			Description: a.Description,
			URL:         a.URL,
			SourceName:  a.Source.Name,
			PublishedAt: a.PublishedAt,
		})
	}

	n.logger.Info("Fetched articles from NewsAPI",
		logger.String("query", n.cfg.Query),
		logger.Int("article_count", len(articles)),
		logger.Duration("duration", duration),
	)

	return articles, nil
}
