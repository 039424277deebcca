package models

// PublishResult records what one publish operation achieved. It lives for
// the duration of the run only and is never persisted.
type PublishResult struct {
	// PublishedIDs holds the platform IDs of the tweets that were created,
	// in publish order.
	PublishedIDs []string `json:"published_ids"`

	// FailedIndices holds the input indices whose publish call failed.
	// For the reply-chain operation this has at most one entry, since the
	// chain stops at the first failure.
	FailedIndices []int `json:"failed_indices,omitempty"`
}

// RunStats summarizes one pipeline run for logging and metrics.
type RunStats struct {
	ArticlesFetched  int
	ThreadTweets     int
	StandaloneTweets int
	FallbackUsed     bool
	Succeeded        bool
}
