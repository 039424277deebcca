package metrics

import "time"

// RunRecord summarizes one completed run for the recent runs list.
type RunRecord struct {
	RunID            string    `json:"run_id"`
	LeadTitle        string    `json:"lead_title"`
	LeadTweetID      string    `json:"lead_tweet_id,omitempty"`
	ThreadTweets     int       `json:"thread_tweets"`
	StandaloneTweets int       `json:"standalone_tweets"`
	FallbackUsed     bool      `json:"fallback_used"`
	Succeeded        bool      `json:"succeeded"`
	FinishedAt       time.Time `json:"finished_at"`
}

// Stats is a point-in-time snapshot of the all-time counters.
type Stats struct {
	Runs             int64 `json:"runs"`
	RunsSucceeded    int64 `json:"runs_succeeded"`
	RunsFailed       int64 `json:"runs_failed"`
	ThreadsPublished int64 `json:"threads_published"`
	TweetsPosted     int64 `json:"tweets_posted"`
	Fallbacks        int64 `json:"generation_fallbacks"`
}
