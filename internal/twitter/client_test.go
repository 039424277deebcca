//nolint:testpackage // Setting the held access token requires same package access
package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gotweet/internal/logger"
)

type fakeStore struct {
	token   string
	getErr  error
	saveErr error
	saved   []string
}

func (s *fakeStore) Get(context.Context) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.token, nil
}

func (s *fakeStore) Save(_ context.Context, token string) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, token)
	return nil
}

func newTestClient(t *testing.T, baseURL string, store TokenStore) *Client {
	t.Helper()

	c, err := NewClient(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		BaseURL:      baseURL,
	}, store, nil, logger.NewNopLogger())
	require.NoError(t, err)

	return c
}

func TestNewClient_Validation(t *testing.T) {
	log := logger.NewNopLogger()

	_, err := NewClient(Config{ClientSecret: "s"}, &fakeStore{}, nil, log)
	assert.Error(t, err)

	_, err = NewClient(Config{ClientID: "i"}, &fakeStore{}, nil, log)
	assert.Error(t, err)

	_, err = NewClient(Config{ClientID: "i", ClientSecret: "s"}, nil, nil, log)
	assert.Error(t, err)
}

func TestPostTweet_Success(t *testing.T) {
	var gotReq tweetRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/tweets", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-access", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1850000000000000001"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, &fakeStore{})
	c.accessToken = "test-access"

	id, err := c.PostTweet(context.Background(), "Hello world", "")

	require.NoError(t, err)
	assert.Equal(t, "1850000000000000001", id)
	assert.Equal(t, "Hello world", gotReq.Text)
	assert.Nil(t, gotReq.Reply)
}

func TestPostTweet_Reply(t *testing.T) {
	var gotReq tweetRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write([]byte(`{"data":{"id":"2"}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, &fakeStore{})
	c.accessToken = "test-access"

	id, err := c.PostTweet(context.Background(), "Reply text", "1")

	require.NoError(t, err)
	assert.Equal(t, "2", id)
	require.NotNil(t, gotReq.Reply)
	assert.Equal(t, "1", gotReq.Reply.InReplyToTweetID)
}

func TestPostTweet_RejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"duplicate content"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, &fakeStore{})
	c.accessToken = "test-access"

	_, err := c.PostTweet(context.Background(), "Hello", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTweetRejected)
	assert.Contains(t, err.Error(), "403")
}

func TestPostTweet_MissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL, &fakeStore{})
	c.accessToken = "test-access"

	_, err := c.PostTweet(context.Background(), "Hello", "")

	assert.ErrorIs(t, err, ErrMissingTweetID)
}

func TestPostTweet_NotAuthenticated(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:0", &fakeStore{})

	_, err := c.PostTweet(context.Background(), "Hello", "")

	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
