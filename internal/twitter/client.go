// Package twitter is the X API client: posting tweets and refreshing the
// OAuth2 credentials that authorize them.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jonesrussell/gotweet/internal/httpclient"
	"github.com/jonesrussell/gotweet/internal/logger"
)

const (
	// DefaultBaseURL is the X API host.
	DefaultBaseURL = "https://api.x.com"

	tweetPath = "/2/tweets"
)

var (
	// ErrNotAuthenticated means PostTweet was called before Refresh.
	ErrNotAuthenticated = errors.New("no access token, refresh credentials first")

	// ErrTweetRejected reports a non-success status from the tweet endpoint.
	ErrTweetRejected = errors.New("x api rejected tweet")

	// ErrMissingTweetID reports a success response without a tweet ID.
	ErrMissingTweetID = errors.New("x api response missing tweet id")
)

// Config holds the X app credentials and endpoint.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
}

// Client talks to the X API. Refresh must run before PostTweet; the
// refreshed access token is held for the rest of the run. The client is
// built for one sequential run and is not safe for concurrent use.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	client       *http.Client
	store        TokenStore
	logger       logger.Logger

	accessToken string
}

type tweetRequest struct {
	Text  string      `json:"text"`
	Reply *tweetReply `json:"reply,omitempty"`
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type tweetResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// NewClient creates an X API client.
func NewClient(cfg Config, store TokenStore, httpClient *http.Client, log logger.Logger) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("x client credentials are required")
	}
	if store == nil {
		return nil, errors.New("token store is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = httpclient.New(nil)
	}

	return &Client{
		baseURL:      cfg.BaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		client:       httpClient,
		store:        store,
		logger:       log,
	}, nil
}

// PostTweet posts text as a tweet, optionally as a reply to an existing
// tweet, and returns the created tweet's ID.
func (c *Client) PostTweet(ctx context.Context, text, inReplyToID string) (string, error) {
	if c.accessToken == "" {
		return "", ErrNotAuthenticated
	}

	methodLogger := c.logger.With(
		logger.String("method", "PostTweet"),
	)

	payload := tweetRequest{Text: text}
	if inReplyToID != "" {
		payload.Reply = &tweetReply{InReplyToTweetID: inReplyToID}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal tweet payload: %w", err)
	}

	endpoint := c.baseURL + tweetPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		methodLogger.Error("HTTP request failed",
			logger.String("endpoint", endpoint),
			logger.Error(err),
		)
		return "", fmt.Errorf("post tweet: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if !isSuccess(resp.StatusCode) {
		methodLogger.Error("X API rejected tweet",
			logger.Int("status_code", resp.StatusCode),
			logger.String("response_body", string(respBody)),
			logger.Duration("request_duration", time.Since(start)),
		)
		return "", fmt.Errorf("%w: status %d: %s", ErrTweetRejected, resp.StatusCode, respBody)
	}

	var parsed tweetResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Data.ID == "" {
		methodLogger.Error("Response missing tweet ID",
			logger.String("response_body", string(respBody)),
		)
		return "", fmt.Errorf("%w: %s", ErrMissingTweetID, respBody)
	}

	methodLogger.Debug("Tweet posted",
		logger.String("tweet_id", parsed.Data.ID),
		logger.String("in_reply_to", inReplyToID),
		logger.Duration("request_duration", time.Since(start)),
	)

	return parsed.Data.ID, nil
}

// The X API answers tweet creation with 201 and token refresh with 200;
// both count as success on either endpoint.
func isSuccess(code int) bool {
	return code == http.StatusOK || code == http.StatusCreated
}
