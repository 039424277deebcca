package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/gotweet/internal/logger"
)

const (
	// dailyTTL keeps per-day counters long enough to compare yesterday
	// against today.
	dailyTTL = 48 * time.Hour

	// recentRunsTTL bounds the recent runs list lifetime.
	recentRunsTTL = 7 * 24 * time.Hour

	defaultRecentLimit = 10

	scanBatchSize = 100
)

// Tracker implements Recorder using Redis.
type Tracker struct {
	client redis.UniversalClient
	keys   *RedisKeys
	logger logger.Logger
}

// NewTracker creates a Redis-backed metrics tracker.
func NewTracker(client redis.UniversalClient, log logger.Logger) *Tracker {
	return &Tracker{
		client: client,
		keys:   NewRedisKeys(keyPrefix),
		logger: log,
	}
}

// RecordRun increments the run's counters and pushes its summary onto
// the recent runs list. Everything goes through one pipeline so a
// recorded run is either fully counted or not at all.
func (t *Tracker) RecordRun(ctx context.Context, record RunRecord) error {
	if record.FinishedAt.IsZero() {
		record.FinishedAt = time.Now().UTC()
	}
	day := record.FinishedAt.UTC().Format(time.DateOnly)

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}

	pipe := t.client.Pipeline()

	t.incrCounter(ctx, pipe, day, CounterRuns, 1)
	if record.Succeeded {
		t.incrCounter(ctx, pipe, day, CounterRunsSucceeded, 1)
		t.incrCounter(ctx, pipe, day, CounterThreadsPublished, 1)
	} else {
		t.incrCounter(ctx, pipe, day, CounterRunsFailed, 1)
	}
	if total := record.ThreadTweets + record.StandaloneTweets; total > 0 {
		t.incrCounter(ctx, pipe, day, CounterTweetsPosted, int64(total))
	}
	if record.FallbackUsed {
		t.incrCounter(ctx, pipe, day, CounterFallbacks, 1)
	}

	pipe.LPush(ctx, KeyRecentRuns, data)
	pipe.LTrim(ctx, KeyRecentRuns, 0, MaxRecentRuns-1)
	pipe.Expire(ctx, KeyRecentRuns, recentRunsTTL)

	if _, execErr := pipe.Exec(ctx); execErr != nil {
		t.logger.Warn("Failed to record run metrics",
			logger.String("run_id", record.RunID),
			logger.Error(execErr),
		)
		return fmt.Errorf("record run: %w", execErr)
	}

	return nil
}

// incrCounter queues daily and total increments for one counter. Only
// the daily key expires.
func (t *Tracker) incrCounter(ctx context.Context, pipe redis.Pipeliner, day, counter string, n int64) {
	daily := t.keys.Daily(day, counter)
	pipe.IncrBy(ctx, daily, n)
	pipe.Expire(ctx, daily, dailyTTL)
	pipe.IncrBy(ctx, t.keys.Total(counter), n)
}

// GetStats reads the all-time counters in one pipeline round trip.
// Missing keys read as zero.
func (t *Tracker) GetStats(ctx context.Context) (*Stats, error) {
	pipe := t.client.Pipeline()

	cmds := make(map[string]*redis.StringCmd)
	for _, counter := range []string{
		CounterRuns, CounterRunsSucceeded, CounterRunsFailed,
		CounterThreadsPublished, CounterTweetsPosted, CounterFallbacks,
	} {
		cmds[counter] = pipe.Get(ctx, t.keys.Total(counter))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read counters: %w", err)
	}

	read := func(counter string) int64 {
		val, err := cmds[counter].Int64()
		if err != nil {
			return 0
		}
		return val
	}

	return &Stats{
		Runs:             read(CounterRuns),
		RunsSucceeded:    read(CounterRunsSucceeded),
		RunsFailed:       read(CounterRunsFailed),
		ThreadsPublished: read(CounterThreadsPublished),
		TweetsPosted:     read(CounterTweetsPosted),
		Fallbacks:        read(CounterFallbacks),
	}, nil
}

// GetRecentRuns returns the latest run summaries, newest first.
// Entries that no longer unmarshal are skipped with a warning.
func (t *Tracker) GetRecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > MaxRecentRuns {
		limit = MaxRecentRuns
	}

	results, err := t.client.LRange(ctx, KeyRecentRuns, 0, int64(limit-1)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []RunRecord{}, nil
		}
		return nil, fmt.Errorf("get recent runs: %w", err)
	}

	records := make([]RunRecord, 0, len(results))
	for _, result := range results {
		var record RunRecord
		if unmarshalErr := json.Unmarshal([]byte(result), &record); unmarshalErr != nil {
			t.logger.Warn("Failed to unmarshal run record",
				logger.Error(unmarshalErr),
			)
			continue
		}
		records = append(records, record)
	}

	return records, nil
}

// Reset deletes every metrics key, counters and recent runs alike, and
// returns how many keys were removed.
func (t *Tracker) Reset(ctx context.Context) (int64, error) {
	var deleted int64
	var cursor uint64

	for {
		keys, next, err := t.client.Scan(ctx, cursor, keyPrefix+":*", scanBatchSize).Result()
		if err != nil {
			return deleted, fmt.Errorf("scan metrics keys: %w", err)
		}

		if len(keys) > 0 {
			n, delErr := t.client.Del(ctx, keys...).Result()
			if delErr != nil {
				return deleted, fmt.Errorf("delete metrics keys: %w", delErr)
			}
			deleted += n
		}

		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}
