package twitter

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonesrussell/gotweet/internal/logger"
	"github.com/jonesrussell/gotweet/internal/models"
)

const oauthTokenPath = "/2/oauth2/token"

var (
	// ErrRefreshRejected reports a non-success status from the OAuth2
	// token endpoint, usually an expired or revoked refresh token.
	ErrRefreshRejected = errors.New("oauth2 refresh rejected")

	// ErrMissingTokens reports a token response without both tokens.
	ErrMissingTokens = errors.New("oauth2 response missing access_token or refresh_token")
)

// TokenStore persists the OAuth2 refresh token between runs.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges the stored refresh token for a fresh access token.
// X rotates the refresh token on every exchange, so the new one is
// persisted before Refresh returns; the access token is retained on the
// client for subsequent PostTweet calls.
func (c *Client) Refresh(ctx context.Context) (models.TokenPair, error) {
	methodLogger := c.logger.With(
		logger.String("method", "Refresh"),
	)

	current, err := c.store.Get(ctx)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("loading refresh token: %w", err)
	}

	// Confidential client: credentials travel in the Basic auth header,
	// the form body carries only the grant itself.
	form := url.Values{
		"refresh_token": {current},
		"grant_type":    {"refresh_token"},
	}

	endpoint := c.baseURL + oauthTokenPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("create request: %w", err)
	}

	creds := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	httpReq.Header.Set("Authorization", "Basic "+creds)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		methodLogger.Error("HTTP request failed",
			logger.String("endpoint", endpoint),
			logger.Error(err),
		)
		return models.TokenPair{}, fmt.Errorf("refresh token request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("read response: %w", err)
	}

	if !isSuccess(resp.StatusCode) {
		methodLogger.Error("OAuth2 refresh rejected",
			logger.Int("status_code", resp.StatusCode),
			logger.String("response_body", string(respBody)),
			logger.Duration("request_duration", time.Since(start)),
		)
		return models.TokenPair{}, fmt.Errorf(
			"%w: status %d: re-authorize the app if the refresh token expired", ErrRefreshRejected, resp.StatusCode)
	}

	var parsed tokenResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return models.TokenPair{}, fmt.Errorf("decode token response: %w", err)
	}
	if parsed.AccessToken == "" || parsed.RefreshToken == "" {
		methodLogger.Error("Token response incomplete",
			logger.Bool("has_access_token", parsed.AccessToken != ""),
			logger.Bool("has_refresh_token", parsed.RefreshToken != ""),
		)
		return models.TokenPair{}, ErrMissingTokens
	}

	if err := c.store.Save(ctx, parsed.RefreshToken); err != nil {
		return models.TokenPair{}, fmt.Errorf("storing rotated refresh token: %w", err)
	}

	c.accessToken = parsed.AccessToken

	methodLogger.Info("Access token refreshed",
		logger.Duration("request_duration", time.Since(start)),
	)

	return models.TokenPair{
		AccessToken:  parsed.AccessToken,
		RefreshToken: parsed.RefreshToken,
	}, nil
}
