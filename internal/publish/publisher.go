// Package publish posts prepared tweet sequences to X, either as a
// reply-chained thread or as independent standalone tweets.
package publish

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonesrussell/gotweet/internal/logger"
	"github.com/jonesrussell/gotweet/internal/models"
)

// Poster posts a single tweet, optionally as a reply, and returns the
// new tweet's ID. An empty inReplyToID posts a top-level tweet.
type Poster interface {
	PostTweet(ctx context.Context, text, inReplyToID string) (string, error)
}

// ThreadError reports a thread that stopped partway. Succeeded counts
// tweets already posted before the failure; FailedIndex is the
// zero-based position of the tweet that did not post. Tweets after
// FailedIndex were not attempted.
type ThreadError struct {
	Succeeded   int
	FailedIndex int
	Err         error
}

func (e *ThreadError) Error() string {
	return fmt.Sprintf("thread stopped at tweet %d after %d posted: %v",
		e.FailedIndex, e.Succeeded, e.Err)
}

func (e *ThreadError) Unwrap() error { return e.Err }

// Publisher posts tweet sequences through a Poster.
type Publisher struct {
	poster Poster
	logger logger.Logger
	tracer trace.Tracer
}

// NewPublisher creates a Publisher.
func NewPublisher(poster Poster, log logger.Logger) *Publisher {
	return &Publisher{
		poster: poster,
		logger: log,
		tracer: otel.Tracer("publisher"),
	}
}

// PublishThread posts tweets as one reply chain, each tweet replying to
// the immediately preceding one. Posting stops at the first failure so
// a broken chain never continues with orphaned replies; the returned
// ThreadError carries how many posted and which index failed. The IDs
// of tweets that did post are returned either way.
func (p *Publisher) PublishThread(ctx context.Context, tweets []string) ([]string, error) {
	if len(tweets) == 0 {
		return nil, fmt.Errorf("publishing thread: %w", models.ErrEmptyInput)
	}

	ctx, span := p.tracer.Start(ctx, "publish.thread",
		trace.WithAttributes(
			attribute.Int("tweet_count", len(tweets)),
		))
	defer span.End()

	ids := make([]string, 0, len(tweets))
	for i, text := range tweets {
		inReplyTo := ""
		if len(ids) > 0 {
			inReplyTo = ids[len(ids)-1]
		}

		id, err := p.postOne(ctx, text, inReplyTo, i)
		if err != nil {
			p.logger.Error("Thread stopped on tweet failure",
				logger.Int("failed_index", i),
				logger.Int("succeeded", len(ids)),
				logger.Error(err),
			)
			return ids, &ThreadError{Succeeded: len(ids), FailedIndex: i, Err: err}
		}

		ids = append(ids, id)
		p.logger.Debug("Thread tweet posted",
			logger.Int("position", i),
			logger.String("tweet_id", id),
		)
	}

	p.logger.Info("Thread published",
		logger.Int("tweet_count", len(ids)),
		logger.String("lead_tweet_id", ids[0]),
	)

	return ids, nil
}

// PublishStandalone posts each tweet independently, continuing past
// failures. The result carries the IDs that posted and the indices
// that did not.
func (p *Publisher) PublishStandalone(ctx context.Context, tweets []string) (models.PublishResult, error) {
	if len(tweets) == 0 {
		return models.PublishResult{}, fmt.Errorf("publishing standalone tweets: %w", models.ErrEmptyInput)
	}

	ctx, span := p.tracer.Start(ctx, "publish.standalone",
		trace.WithAttributes(
			attribute.Int("tweet_count", len(tweets)),
		))
	defer span.End()

	var result models.PublishResult
	for i, text := range tweets {
		id, err := p.postOne(ctx, text, "", i)
		if err != nil {
			p.logger.Warn("Standalone tweet failed",
				logger.Int("index", i),
				logger.Error(err),
			)
			result.FailedIndices = append(result.FailedIndices, i)
			continue
		}

		result.PublishedIDs = append(result.PublishedIDs, id)
		p.logger.Debug("Standalone tweet posted",
			logger.Int("index", i),
			logger.String("tweet_id", id),
		)
	}

	p.logger.Info("Standalone tweets published",
		logger.Int("posted", len(result.PublishedIDs)),
		logger.Int("failed", len(result.FailedIndices)),
	)

	return result, nil
}

// postOne posts a single tweet inside its own span.
func (p *Publisher) postOne(ctx context.Context, text, inReplyTo string, index int) (string, error) {
	ctx, span := p.tracer.Start(ctx, "publish.tweet",
		trace.WithAttributes(
			attribute.Int("index", index),
			attribute.String("in_reply_to", inReplyTo),
		))
	defer span.End()

	return p.poster.PostTweet(ctx, text, inReplyTo)
}
