package publish

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/jonesrussell/gotweet/internal/logger"
)

// DryRunPoster logs would-be tweets instead of posting them. IDs are
// synthetic and unique within the run, so reply chains still link up in
// the logs. Like the real client it serves one sequential run and is
// not safe for concurrent use.
type DryRunPoster struct {
	logger logger.Logger
	seq    int
}

// NewDryRunPoster creates a DryRunPoster.
func NewDryRunPoster(log logger.Logger) *DryRunPoster {
	return &DryRunPoster{logger: log}
}

// PostTweet logs the tweet and returns a synthetic ID.
func (d *DryRunPoster) PostTweet(_ context.Context, text, inReplyToID string) (string, error) {
	d.seq++
	id := fmt.Sprintf("dry-run-%d", d.seq)

	d.logger.Info("Dry run, tweet not posted",
		logger.String("tweet_id", id),
		logger.String("in_reply_to", inReplyToID),
		logger.Int("chars", utf8.RuneCountInString(text)),
		logger.String("text", text),
	)

	return id, nil
}
