package generate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/gotweet/internal/compose"
	"github.com/jonesrussell/gotweet/internal/logger"
	"github.com/jonesrussell/gotweet/internal/models"
)

const (
	// DefaultTimeout bounds a single backend attempt.
	DefaultTimeout = 20 * time.Second

	// DefaultTemperature is the sampling temperature for all backends.
	DefaultTemperature = 0.7

	// DefaultThreadMaxTokens caps output for thread generation.
	DefaultThreadMaxTokens = 400

	// DefaultShortMaxTokens caps output for supporting tweet generation.
	DefaultShortMaxTokens = 200

	// DefaultThreadSize is how many tweets a thread holds.
	DefaultThreadSize = 5
)

// Config tunes the generator. Zero values fall back to the defaults.
type Config struct {
	Timeout         time.Duration
	Temperature     float64
	ThreadMaxTokens int
	ShortMaxTokens  int
	ThreadSize      int
}

// Generator orchestrates the backend chain. Backends are tried in order;
// each attempt gets its own timeout and failures move on to the next
// backend without retrying.
type Generator struct {
	backends []Backend
	fallback *Fallback
	splitter *compose.Splitter
	cfg      Config
	log      logger.Logger
}

// New creates a Generator over the given backends, tried in order.
func New(backends []Backend, splitter *compose.Splitter, cfg Config, log logger.Logger) *Generator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.ThreadMaxTokens <= 0 {
		cfg.ThreadMaxTokens = DefaultThreadMaxTokens
	}
	if cfg.ShortMaxTokens <= 0 {
		cfg.ShortMaxTokens = DefaultShortMaxTokens
	}
	if cfg.ThreadSize <= 0 {
		cfg.ThreadSize = DefaultThreadSize
	}

	return &Generator{
		backends: backends,
		fallback: NewFallback(),
		splitter: splitter,
		cfg:      cfg,
		log:      log,
	}
}

// GenerateThread produces the thread for the lead story. The backend
// chain ends in the deterministic synthesizer, so the result always
// holds exactly the configured number of non-empty tweets. The second
// return reports whether the synthesizer supplied the text.
func (g *Generator) GenerateThread(ctx context.Context, lead models.Article) ([]string, bool) {
	req := models.GenerationRequest{
		Kind:          models.KindThread,
		Articles:      []models.Article{lead},
		ExpectedCount: g.cfg.ThreadSize,
	}
	opts := Options{
		System:      threadSystem(g.cfg.ThreadSize),
		User:        threadUser(lead, g.cfg.ThreadSize),
		MaxTokens:   g.cfg.ThreadMaxTokens,
		Temperature: g.cfg.Temperature,
	}

	chain := make([]Backend, 0, len(g.backends)+1)
	chain = append(chain, g.backends...)
	chain = append(chain, g.fallback)

	raw, backend, err := g.tryBackends(ctx, chain, req, opts)
	if err != nil {
		backend = g.fallback.Name()
	}

	tweets := g.splitter.Split(raw, g.cfg.ThreadSize)
	fromFallback := backend == g.fallback.Name()

	g.log.Info("Thread generated",
		logger.String("backend", backend),
		logger.Int("tweets", len(tweets)),
		logger.Bool("fallback", fromFallback),
	)

	return tweets, fromFallback
}

// GenerateSupporting produces at most maxCount standalone tweets, one
// per supporting story. Supporting tweets are best-effort: when every
// backend fails the result is empty and the run moves on without them.
func (g *Generator) GenerateSupporting(ctx context.Context, articles []models.Article, maxCount int) []string {
	if len(articles) == 0 || maxCount <= 0 {
		return nil
	}
	if len(articles) > maxCount {
		articles = articles[:maxCount]
	}

	req := models.GenerationRequest{
		Kind:          models.KindSupporting,
		Articles:      articles,
		ExpectedCount: len(articles),
	}
	opts := Options{
		System:      supportingSystem(),
		User:        supportingUser(articles),
		MaxTokens:   g.cfg.ShortMaxTokens,
		Temperature: g.cfg.Temperature,
	}

	raw, backend, err := g.tryBackends(ctx, g.backends, req, opts)
	if err != nil {
		g.log.Warn("Supporting tweet generation failed, skipping standalone tweets",
			logger.Int("stories", len(articles)),
			logger.Error(err),
		)
		return nil
	}

	tweets := g.splitter.Split(raw, req.ExpectedCount)

	g.log.Info("Supporting tweets generated",
		logger.String("backend", backend),
		logger.Int("tweets", len(tweets)),
	)

	return tweets
}

// tryBackends walks the chain until one backend returns text. Each
// attempt is bounded by the configured timeout and is independent; a
// failed attempt is logged and the next backend tried.
func (g *Generator) tryBackends(ctx context.Context, chain []Backend, req models.GenerationRequest, opts Options) (string, string, error) {
	var lastErr error

	for _, b := range chain {
		attemptCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		start := time.Now()
		raw, err := b.Generate(attemptCtx, req, opts)
		cancel()

		if err != nil {
			g.log.Warn("Generation backend failed",
				logger.String("backend", b.Name()),
				logger.Duration("duration", time.Since(start)),
				logger.Error(err),
			)
			lastErr = err
			continue
		}

		g.log.Debug("Generation backend succeeded",
			logger.String("backend", b.Name()),
			logger.Duration("duration", time.Since(start)),
			logger.Int("chars", len(raw)),
		)

		return raw, b.Name(), nil
	}

	if lastErr == nil {
		return "", "", errors.New("no generation backends configured")
	}
	return "", "", fmt.Errorf("all generation backends failed: %w", lastErr)
}
