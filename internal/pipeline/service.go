// Package pipeline orchestrates one end-to-end publishing run: refresh
// credentials, fetch and select stories, generate tweet text, then post
// the thread and the standalone tweets.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonesrussell/gotweet/internal/logger"
	"github.com/jonesrussell/gotweet/internal/metrics"
	"github.com/jonesrussell/gotweet/internal/models"
	"github.com/jonesrussell/gotweet/internal/news"
	"github.com/jonesrussell/gotweet/internal/publish"
)

// DefaultMaxStandalone bounds how many supporting tweets one run posts.
const DefaultMaxStandalone = 2

// Authenticator refreshes posting credentials before the run starts.
type Authenticator interface {
	Refresh(ctx context.Context) (models.TokenPair, error)
}

// Selector picks the lead and supporting stories from fetched articles.
type Selector interface {
	Select(articles []models.Article) (models.StorySelection, error)
}

// Generator writes tweet text for the selected stories.
type Generator interface {
	GenerateThread(ctx context.Context, lead models.Article) ([]string, bool)
	GenerateSupporting(ctx context.Context, articles []models.Article, maxCount int) []string
}

// ThreadPublisher posts prepared tweet sequences.
type ThreadPublisher interface {
	PublishThread(ctx context.Context, tweets []string) ([]string, error)
	PublishStandalone(ctx context.Context, tweets []string) (models.PublishResult, error)
}

// Deps holds the collaborators a Service needs.
type Deps struct {
	Sources   []news.Source
	Auth      Authenticator
	Selector  Selector
	Generator Generator
	Publisher ThreadPublisher
	Recorder  metrics.Recorder
	Logger    logger.Logger
}

// Config holds run-level settings.
type Config struct {
	MaxStandalone int
}

// Service runs the publishing sequence once per invocation.
type Service struct {
	sources   []news.Source
	auth      Authenticator
	selector  Selector
	generator Generator
	publisher ThreadPublisher
	recorder  metrics.Recorder
	logger    logger.Logger
	tracer    trace.Tracer

	maxStandalone int
}

// New creates a pipeline Service.
func New(deps Deps, cfg Config) *Service {
	if cfg.MaxStandalone <= 0 {
		cfg.MaxStandalone = DefaultMaxStandalone
	}

	return &Service{
		sources:       deps.Sources,
		auth:          deps.Auth,
		selector:      deps.Selector,
		generator:     deps.Generator,
		publisher:     deps.Publisher,
		recorder:      deps.Recorder,
		logger:        deps.Logger,
		tracer:        otel.Tracer("pipeline"),
		maxStandalone: cfg.MaxStandalone,
	}
}

// Run executes one publishing run. The thread is required; supporting
// tweets are posted on a best-effort basis once the thread is out. The
// run's outcome is recorded in metrics whether it succeeds or fails.
func (s *Service) Run(ctx context.Context) (stats models.RunStats, err error) {
	runID := uuid.NewString()
	log := s.logger.With(logger.String("run_id", runID))

	ctx, span := s.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(
			attribute.String("run_id", runID),
		))
	defer span.End()

	start := time.Now()
	record := metrics.RunRecord{RunID: runID}

	defer func() {
		stats.Succeeded = err == nil

		record.Succeeded = stats.Succeeded
		record.ThreadTweets = stats.ThreadTweets
		record.StandaloneTweets = stats.StandaloneTweets
		record.FallbackUsed = stats.FallbackUsed
		record.FinishedAt = time.Now().UTC()
		s.record(ctx, record)

		log.Info("Run finished",
			logger.Bool("succeeded", stats.Succeeded),
			logger.Int("thread_tweets", stats.ThreadTweets),
			logger.Int("standalone_tweets", stats.StandaloneTweets),
			logger.Bool("fallback_used", stats.FallbackUsed),
			logger.Duration("duration", time.Since(start)),
		)
	}()

	log.Info("Run started",
		logger.Int("source_count", len(s.sources)),
	)

	// Credentials are refreshed up front so the run cannot get halfway
	// before discovering posting would fail.
	if _, authErr := s.auth.Refresh(ctx); authErr != nil {
		return stats, fmt.Errorf("refresh credentials: %w", authErr)
	}

	articles, fetchErr := s.fetchArticles(ctx, log)
	if fetchErr != nil {
		return stats, fetchErr
	}
	stats.ArticlesFetched = len(articles)

	log.Info("Articles fetched",
		logger.Int("article_count", len(articles)),
	)

	if len(articles) == 0 {
		return stats, fmt.Errorf("fetch articles: %w", models.ErrEmptyInput)
	}

	selection, selErr := s.selector.Select(articles)
	if selErr != nil {
		return stats, fmt.Errorf("select stories: %w", selErr)
	}
	record.LeadTitle = selection.Lead.Title

	log.Info("Stories selected",
		logger.String("lead_title", selection.Lead.Title),
		logger.Int("supporting_count", len(selection.Supporting)),
	)

	threadTweets, fromFallback := s.generator.GenerateThread(ctx, selection.Lead)
	stats.FallbackUsed = fromFallback

	standaloneTweets := s.generator.GenerateSupporting(ctx, selection.Supporting, s.maxStandalone)

	ids, pubErr := s.publisher.PublishThread(ctx, threadTweets)
	stats.ThreadTweets = len(ids)
	if len(ids) > 0 {
		record.LeadTweetID = ids[0]
	}
	if pubErr != nil {
		var threadErr *publish.ThreadError
		if errors.As(pubErr, &threadErr) {
			log.Error("Thread incomplete",
				logger.Int("tweets_posted", threadErr.Succeeded),
				logger.Int("failed_index", threadErr.FailedIndex),
				logger.Error(threadErr.Err),
			)
		}
		return stats, fmt.Errorf("publish thread: %w", pubErr)
	}

	if len(standaloneTweets) > 0 {
		result, saErr := s.publisher.PublishStandalone(ctx, standaloneTweets)
		if saErr != nil {
			// The thread is already out; losing the extras is not fatal.
			log.Warn("Standalone publishing failed",
				logger.Error(saErr),
			)
		}
		stats.StandaloneTweets = len(result.PublishedIDs)
	}

	return stats, nil
}

// fetchArticles collects articles from every source. One source failing
// is survivable as long as another delivers; all failing ends the run.
func (s *Service) fetchArticles(ctx context.Context, log logger.Logger) ([]models.Article, error) {
	if len(s.sources) == 0 {
		return nil, errors.New("no news sources configured")
	}

	var articles []models.Article
	var failures int

	for _, source := range s.sources {
		fetched, err := source.Fetch(ctx)
		if err != nil {
			failures++
			log.Warn("Source fetch failed",
				logger.String("source", source.Name()),
				logger.Error(err),
			)
			continue
		}
		articles = append(articles, fetched...)
	}

	if failures == len(s.sources) {
		return nil, errors.New("all news sources failed")
	}

	return articles, nil
}

// record stores the run's metrics. The tracker logs its own failures; a
// lost counter never fails the run.
func (s *Service) record(ctx context.Context, rec metrics.RunRecord) {
	if s.recorder == nil {
		return
	}
	_ = s.recorder.RecordRun(ctx, rec)
}
