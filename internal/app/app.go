// Package app wires configuration, storage, generation backends, and
// the publishing pipeline into a runnable application.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/gotweet/internal/compose"
	"github.com/jonesrussell/gotweet/internal/config"
	"github.com/jonesrussell/gotweet/internal/generate"
	"github.com/jonesrussell/gotweet/internal/httpclient"
	"github.com/jonesrussell/gotweet/internal/logger"
	"github.com/jonesrussell/gotweet/internal/metrics"
	"github.com/jonesrussell/gotweet/internal/models"
	"github.com/jonesrussell/gotweet/internal/news"
	"github.com/jonesrussell/gotweet/internal/pipeline"
	"github.com/jonesrussell/gotweet/internal/publish"
	redisclient "github.com/jonesrussell/gotweet/internal/redis"
	"github.com/jonesrussell/gotweet/internal/selector"
	"github.com/jonesrussell/gotweet/internal/tokenstore"
	"github.com/jonesrussell/gotweet/internal/twitter"
)

const serviceName = "gotweet"

// App holds the wired application and its shared resources.
type App struct {
	config      *config.Config
	logger      logger.Logger
	redisClient *redis.Client
	tokens      *tokenstore.Store
	tracker     *metrics.Tracker
	service     *pipeline.Service
	version     string
}

// Options contains configuration for creating a new App.
type Options struct {
	ConfigPath string
	Version    string
}

// New loads configuration and wires every component. The Redis
// connection is verified before the rest of the stack is built.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	appLogger, err := logger.NewLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	appLogger = appLogger.With(
		logger.String("service", serviceName),
		logger.String("version", opts.Version),
	)

	redisClient, err := redisclient.NewClient(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		_ = appLogger.Sync()
		return nil, fmt.Errorf("connect to Redis: %w", err)
	}

	app, err := wire(ctx, cfg, redisClient, appLogger, opts.Version)
	if err != nil {
		_ = redisClient.Close()
		_ = appLogger.Sync()
		return nil, err
	}

	return app, nil
}

// wire builds the component graph on an already verified Redis client.
func wire(
	ctx context.Context,
	cfg *config.Config,
	redisClient *redis.Client,
	appLogger logger.Logger,
	version string,
) (*App, error) {
	tokens := tokenstore.NewStore(redisClient, appLogger)
	tracker := metrics.NewTracker(redisClient, appLogger)

	sources, err := buildSources(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	backends, err := buildBackends(ctx, cfg)
	if err != nil {
		return nil, err
	}

	splitter := compose.NewSplitter(compose.NewFormatter(cfg.Publish.TweetMaxChars))

	generator := generate.New(backends, splitter, generate.Config{
		Timeout:         cfg.Generation.Timeout,
		Temperature:     cfg.Generation.Temperature,
		ThreadMaxTokens: cfg.Generation.ThreadMaxTokens,
		ShortMaxTokens:  cfg.Generation.ShortMaxTokens,
		ThreadSize:      cfg.Publish.ThreadSize,
	}, appLogger)

	poster, auth, err := buildPoster(cfg, tokens, appLogger)
	if err != nil {
		return nil, err
	}

	service := pipeline.New(pipeline.Deps{
		Sources: sources,
		Auth:    auth,
		Selector: selector.New(selector.Options{
			MaxAgeHours: cfg.News.MaxAgeHours,
			Keywords:    cfg.News.Keywords,
		}, appLogger),
		Generator: generator,
		Publisher: publish.NewPublisher(poster, appLogger),
		Recorder:  tracker,
		Logger:    appLogger,
	}, pipeline.Config{
		MaxStandalone: cfg.Publish.MaxStandalone,
	})

	return &App{
		config:      cfg,
		logger:      appLogger,
		redisClient: redisClient,
		tokens:      tokens,
		tracker:     tracker,
		service:     service,
		version:     version,
	}, nil
}

// buildSources creates one source per configured provider. NewsAPI and
// the RSS feeds share an HTTP client sized by the news timeout.
func buildSources(cfg *config.Config, log logger.Logger) ([]news.Source, error) {
	httpClient := httpclient.New(&httpclient.Config{Timeout: cfg.News.Timeout})

	var sources []news.Source

	if cfg.News.APIKey != "" {
		api, err := news.NewNewsAPI(news.NewsAPIConfig{
			APIKey:   cfg.News.APIKey,
			Query:    cfg.News.Query,
			BaseURL:  cfg.News.BaseURL,
			Language: cfg.News.Language,
			PageSize: cfg.News.PageSize,
		}, httpClient, log)
		if err != nil {
			return nil, fmt.Errorf("create newsapi source: %w", err)
		}
		sources = append(sources, api)
	}

	for _, feedURL := range cfg.News.Feeds {
		feed, err := news.NewRSS(feedURL, httpClient, log)
		if err != nil {
			return nil, fmt.Errorf("create rss source: %w", err)
		}
		sources = append(sources, feed)
	}

	return sources, nil
}

// buildBackends constructs the configured generation backends in
// fallback order.
func buildBackends(ctx context.Context, cfg *config.Config) ([]generate.Backend, error) {
	backends := make([]generate.Backend, 0, len(cfg.Generation.Backends))

	for _, name := range cfg.Generation.Backends {
		var (
			backend generate.Backend
			err     error
		)

		switch name {
		case "gemini":
			backend, err = generate.NewGemini(ctx, cfg.Generation.Gemini.APIKey, cfg.Generation.Gemini.Model)
		case "openai":
			backend, err = generate.NewOpenAI(cfg.Generation.OpenAI.APIKey, cfg.Generation.OpenAI.Model)
		case "anthropic":
			backend, err = generate.NewAnthropic(cfg.Generation.Anthropic.APIKey, cfg.Generation.Anthropic.Model)
		default:
			return nil, fmt.Errorf("unknown generation backend %q", name)
		}
		if err != nil {
			return nil, fmt.Errorf("create %s backend: %w", name, err)
		}

		backends = append(backends, backend)
	}

	return backends, nil
}

// buildPoster selects the real X client or the dry-run poster.
func buildPoster(
	cfg *config.Config,
	tokens *tokenstore.Store,
	log logger.Logger,
) (publish.Poster, pipeline.Authenticator, error) {
	if cfg.DryRun {
		return publish.NewDryRunPoster(log), noopAuthenticator{}, nil
	}

	client, err := twitter.NewClient(twitter.Config{
		ClientID:     cfg.Twitter.ClientID,
		ClientSecret: cfg.Twitter.ClientSecret,
		BaseURL:      cfg.Twitter.BaseURL,
	}, tokens, httpclient.New(&httpclient.Config{Timeout: cfg.Twitter.Timeout}), log)
	if err != nil {
		return nil, nil, fmt.Errorf("create x client: %w", err)
	}

	return client, client, nil
}

// noopAuthenticator satisfies the pipeline during dry runs without
// touching the real OAuth endpoint.
type noopAuthenticator struct{}

func (noopAuthenticator) Refresh(context.Context) (models.TokenPair, error) {
	return models.TokenPair{}, nil
}

// Run executes one publishing run.
func (a *App) Run(ctx context.Context) (models.RunStats, error) {
	if a.config.DryRun {
		a.logger.Info("Dry run enabled, tweets will be logged instead of posted")
	}

	return a.service.Run(ctx)
}

// TokenStore exposes the refresh token store for the token commands.
func (a *App) TokenStore() *tokenstore.Store {
	return a.tokens
}

// Metrics exposes the metrics tracker for the stats and flush commands.
func (a *App) Metrics() *metrics.Tracker {
	return a.tracker
}

// Logger returns the application logger.
func (a *App) Logger() logger.Logger {
	return a.logger
}

// Close cleans up shared resources.
func (a *App) Close() error {
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("Failed to close Redis client", logger.Error(err))
		}
	}

	return a.logger.Sync()
}
