package metrics

import "fmt"

const (
	// keyPrefix namespaces all metrics keys in Redis.
	keyPrefix = "gotweet:metrics"

	// KeyRecentRuns is the Redis key for the recent runs list.
	KeyRecentRuns = keyPrefix + ":recent:runs"

	// MaxRecentRuns is the maximum number of run summaries kept.
	MaxRecentRuns = 50

	// CounterRuns counts started runs.
	CounterRuns = "runs"
	// CounterRunsSucceeded counts runs that published their thread.
	CounterRunsSucceeded = "runs_succeeded"
	// CounterRunsFailed counts runs that stopped on a fatal error.
	CounterRunsFailed = "runs_failed"
	// CounterThreadsPublished counts fully published threads.
	CounterThreadsPublished = "threads_published"
	// CounterTweetsPosted counts individual tweets that posted.
	CounterTweetsPosted = "tweets_posted"
	// CounterFallbacks counts runs where the deterministic fallback
	// wrote the thread.
	CounterFallbacks = "generation_fallbacks"
)

// RedisKeys builds metrics key names consistently.
type RedisKeys struct {
	prefix string
}

// NewRedisKeys creates a new RedisKeys instance.
func NewRedisKeys(prefix string) *RedisKeys {
	return &RedisKeys{prefix: prefix}
}

// Daily returns the date-scoped key for a counter.
func (k *RedisKeys) Daily(day, counter string) string {
	return fmt.Sprintf("%s:daily:%s:%s", k.prefix, day, counter)
}

// Total returns the all-time key for a counter.
func (k *RedisKeys) Total(counter string) string {
	return fmt.Sprintf("%s:total:%s", k.prefix, counter)
}
