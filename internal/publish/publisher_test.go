// internal/publish/publisher_test.go
package publish_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gotweet/internal/logger"
	"github.com/jonesrussell/gotweet/internal/models"
	"github.com/jonesrussell/gotweet/internal/publish"
)

type postCall struct {
	text      string
	inReplyTo string
}

// fakePoster records calls and fails at configured call indices.
type fakePoster struct {
	calls  []postCall
	failAt map[int]error
	nextID int
}

func (f *fakePoster) PostTweet(_ context.Context, text, inReplyToID string) (string, error) {
	idx := len(f.calls)
	f.calls = append(f.calls, postCall{text: text, inReplyTo: inReplyToID})

	if err, ok := f.failAt[idx]; ok {
		return "", err
	}

	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID), nil
}

func TestPublishThread_ChainsReplies(t *testing.T) {
	poster := &fakePoster{}
	pub := publish.NewPublisher(poster, logger.NewNopLogger())

	ids, err := pub.PublishThread(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)

	assert.Equal(t, []string{"id-1", "id-2", "id-3"}, ids)

	require.Len(t, poster.calls, 3)
	assert.Empty(t, poster.calls[0].inReplyTo)
	assert.Equal(t, "id-1", poster.calls[1].inReplyTo)
	assert.Equal(t, "id-2", poster.calls[2].inReplyTo)
}

func TestPublishThread_StopsAtFirstFailure(t *testing.T) {
	cause := errors.New("boom")
	poster := &fakePoster{failAt: map[int]error{1: cause}}
	pub := publish.NewPublisher(poster, logger.NewNopLogger())

	ids, err := pub.PublishThread(context.Background(), []string{"one", "two", "three"})

	var threadErr *publish.ThreadError
	require.ErrorAs(t, err, &threadErr)
	assert.Equal(t, 1, threadErr.Succeeded)
	assert.Equal(t, 1, threadErr.FailedIndex)
	require.ErrorIs(t, err, cause)

	assert.Equal(t, []string{"id-1"}, ids)

	// The third tweet is never attempted once the chain breaks.
	assert.Len(t, poster.calls, 2)
}

func TestPublishThread_FirstTweetFails(t *testing.T) {
	poster := &fakePoster{failAt: map[int]error{0: errors.New("rejected")}}
	pub := publish.NewPublisher(poster, logger.NewNopLogger())

	ids, err := pub.PublishThread(context.Background(), []string{"one", "two"})

	var threadErr *publish.ThreadError
	require.ErrorAs(t, err, &threadErr)
	assert.Equal(t, 0, threadErr.Succeeded)
	assert.Equal(t, 0, threadErr.FailedIndex)

	assert.Empty(t, ids)
	assert.Len(t, poster.calls, 1)
}

func TestPublishThread_EmptyInput(t *testing.T) {
	pub := publish.NewPublisher(&fakePoster{}, logger.NewNopLogger())

	_, err := pub.PublishThread(context.Background(), nil)
	require.ErrorIs(t, err, models.ErrEmptyInput)
}

func TestPublishStandalone_ContinuesPastFailures(t *testing.T) {
	poster := &fakePoster{failAt: map[int]error{1: errors.New("boom")}}
	pub := publish.NewPublisher(poster, logger.NewNopLogger())

	result, err := pub.PublishStandalone(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)

	assert.Equal(t, []string{"id-1", "id-2"}, result.PublishedIDs)
	assert.Equal(t, []int{1}, result.FailedIndices)

	require.Len(t, poster.calls, 3)
	for i, call := range poster.calls {
		assert.Empty(t, call.inReplyTo, "call %d should not be a reply", i)
	}
}

func TestPublishStandalone_AllFail(t *testing.T) {
	poster := &fakePoster{failAt: map[int]error{
		0: errors.New("boom"),
		1: errors.New("boom"),
	}}
	pub := publish.NewPublisher(poster, logger.NewNopLogger())

	result, err := pub.PublishStandalone(context.Background(), []string{"one", "two"})
	require.NoError(t, err)

	assert.Empty(t, result.PublishedIDs)
	assert.Equal(t, []int{0, 1}, result.FailedIndices)
}

func TestPublishStandalone_EmptyInput(t *testing.T) {
	pub := publish.NewPublisher(&fakePoster{}, logger.NewNopLogger())

	_, err := pub.PublishStandalone(context.Background(), nil)
	require.ErrorIs(t, err, models.ErrEmptyInput)
}

func TestDryRunPoster_SyntheticIDs(t *testing.T) {
	poster := publish.NewDryRunPoster(logger.NewNopLogger())
	ctx := context.Background()

	first, err := poster.PostTweet(ctx, "hello", "")
	require.NoError(t, err)
	second, err := poster.PostTweet(ctx, "world", first)
	require.NoError(t, err)

	assert.Equal(t, "dry-run-1", first)
	assert.Equal(t, "dry-run-2", second)
}

func TestDryRunPoster_ThreadRoundTrip(t *testing.T) {
	pub := publish.NewPublisher(publish.NewDryRunPoster(logger.NewNopLogger()), logger.NewNopLogger())

	ids, err := pub.PublishThread(context.Background(), []string{"one", "two", "three"})
	require.NoError(t, err)
	assert.Equal(t, []string{"dry-run-1", "dry-run-2", "dry-run-3"}, ids)
}
