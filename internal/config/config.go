package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultNewsTimeoutSeconds is the default news fetch timeout in seconds
	DefaultNewsTimeoutSeconds = 30
	// DefaultGenerationTimeoutSeconds is the default per-backend generation timeout in seconds
	DefaultGenerationTimeoutSeconds = 20
	// DefaultTwitterTimeoutSeconds is the default X API call timeout in seconds
	DefaultTwitterTimeoutSeconds = 15

	// DefaultThreadSize is the number of tweets in the lead-story thread
	DefaultThreadSize = 5
	// DefaultMaxStandalone is the number of standalone supporting tweets per run
	DefaultMaxStandalone = 2
	// DefaultTweetMaxChars leaves headroom under the platform's 280-char
	// weighting rules for emoji and URLs
	DefaultTweetMaxChars = 260

	// DefaultPageSize is the number of articles requested per fetch
	DefaultPageSize = 20
	// DefaultMaxAgeHours is the freshness window applied to fetched articles
	DefaultMaxAgeHours = 24
)

type Config struct {
	Debug      bool             `yaml:"debug"`   // Application debug mode (controls log level and format)
	DryRun     bool             `yaml:"dry_run"` // Log would-be tweets instead of posting
	News       NewsConfig       `yaml:"news"`
	Generation GenerationConfig `yaml:"generation"`
	Twitter    TwitterConfig    `yaml:"twitter"`
	Redis      RedisConfig      `yaml:"redis"`
	Publish    PublishConfig    `yaml:"publish"`
}

type NewsConfig struct {
	APIKey      string        `yaml:"api_key"`       // NewsAPI key; required unless feeds are configured
	BaseURL     string        `yaml:"base_url"`      // Default: https://newsapi.org
	Query       string        `yaml:"query"`         // Keyword search, e.g. "India"
	Language    string        `yaml:"language"`      // Default: en
	PageSize    int           `yaml:"page_size"`     // Default: 20
	MaxAgeHours int           `yaml:"max_age_hours"` // Freshness window; default 24, negative disables
	Keywords    []string      `yaml:"keywords"`      // Advisory relevance filter; empty disables
	Feeds       []string      `yaml:"feeds"`         // Optional RSS feed URLs
	Timeout     time.Duration `yaml:"timeout"`       // Default: 30s
}

type GenerationConfig struct {
	Backends        []string      `yaml:"backends"`          // Fallback order; entries: gemini, openai, anthropic
	Timeout         time.Duration `yaml:"timeout"`           // Per-attempt timeout, default: 20s
	Temperature     float64       `yaml:"temperature"`       // Default: 0.7
	ThreadMaxTokens int           `yaml:"thread_max_tokens"` // Default: 400
	ShortMaxTokens  int           `yaml:"short_max_tokens"`  // Default: 200
	Gemini          BackendConfig `yaml:"gemini"`
	OpenAI          BackendConfig `yaml:"openai"`
	Anthropic       BackendConfig `yaml:"anthropic"`
}

type BackendConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"` // Empty picks the backend's default model
}

type TwitterConfig struct {
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	BaseURL      string        `yaml:"base_url"` // Default: https://api.x.com
	Timeout      time.Duration `yaml:"timeout"`  // Default: 15s
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type PublishConfig struct {
	ThreadSize    int `yaml:"thread_size"`     // Default: 5
	MaxStandalone int `yaml:"max_standalone"`  // Default: 2
	TweetMaxChars int `yaml:"tweet_max_chars"` // Default: 260
}

// validBackends lists the generation backends this build knows how to construct.
var validBackends = map[string]bool{
	"gemini":    true,
	"openai":    true,
	"anthropic": true,
}

// Validate checks if the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	if c.Redis.URL == "" {
		return errors.New("redis.url is required")
	}
	if c.News.APIKey == "" && len(c.News.Feeds) == 0 {
		return errors.New("news.api_key is required when no news.feeds are configured")
	}
	if c.News.APIKey != "" && c.News.Query == "" {
		return errors.New("news.query is required when news.api_key is set")
	}
	if len(c.Generation.Backends) == 0 {
		return errors.New("generation.backends must name at least one backend")
	}
	for i, name := range c.Generation.Backends {
		if !validBackends[name] {
			return fmt.Errorf("generation.backends[%d]: unknown backend %q", i, name)
		}
		if c.backendKey(name) == "" {
			return fmt.Errorf("generation.%s.api_key is required when %q is listed", name, name)
		}
	}
	if !c.DryRun {
		if c.Twitter.ClientID == "" || c.Twitter.ClientSecret == "" {
			return errors.New("twitter.client_id and twitter.client_secret are required unless dry_run is set")
		}
	}
	if c.Publish.ThreadSize <= 0 {
		return fmt.Errorf("publish.thread_size must be positive, got %d", c.Publish.ThreadSize)
	}
	if c.Publish.TweetMaxChars < 40 {
		return fmt.Errorf("publish.tweet_max_chars must be at least 40, got %d", c.Publish.TweetMaxChars)
	}
	return nil
}

func (c *Config) backendKey(name string) string {
	switch name {
	case "gemini":
		return c.Generation.Gemini.APIKey
	case "openai":
		return c.Generation.OpenAI.APIKey
	case "anthropic":
		return c.Generation.Anthropic.APIKey
	}
	return ""
}

// setDefaults sets default values for configuration fields
func setDefaults(cfg *Config) {
	if cfg.News.BaseURL == "" {
		cfg.News.BaseURL = "https://newsapi.org"
	}
	if cfg.News.Language == "" {
		cfg.News.Language = "en"
	}
	if cfg.News.PageSize == 0 {
		cfg.News.PageSize = DefaultPageSize
	}
	if cfg.News.MaxAgeHours == 0 {
		cfg.News.MaxAgeHours = DefaultMaxAgeHours
	}
	if cfg.News.Timeout == 0 {
		cfg.News.Timeout = DefaultNewsTimeoutSeconds * time.Second
	}

	if len(cfg.Generation.Backends) == 0 {
		cfg.Generation.Backends = []string{"gemini"}
	}
	if cfg.Generation.Timeout == 0 {
		cfg.Generation.Timeout = DefaultGenerationTimeoutSeconds * time.Second
	}
	if cfg.Generation.Temperature == 0 {
		cfg.Generation.Temperature = 0.7
	}
	if cfg.Generation.ThreadMaxTokens == 0 {
		cfg.Generation.ThreadMaxTokens = 400
	}
	if cfg.Generation.ShortMaxTokens == 0 {
		cfg.Generation.ShortMaxTokens = 200
	}
	if cfg.Generation.Gemini.Model == "" {
		cfg.Generation.Gemini.Model = "gemini-2.5-flash"
	}

	if cfg.Twitter.BaseURL == "" {
		cfg.Twitter.BaseURL = "https://api.x.com"
	}
	if cfg.Twitter.Timeout == 0 {
		cfg.Twitter.Timeout = DefaultTwitterTimeoutSeconds * time.Second
	}

	if cfg.Publish.ThreadSize == 0 {
		cfg.Publish.ThreadSize = DefaultThreadSize
	}
	if cfg.Publish.MaxStandalone == 0 {
		cfg.Publish.MaxStandalone = DefaultMaxStandalone
	}
	if cfg.Publish.TweetMaxChars == 0 {
		cfg.Publish.TweetMaxChars = DefaultTweetMaxChars
	}
}

// overrideWithEnvVars overrides configuration with environment variables
func overrideWithEnvVars(cfg *Config) {
	if newsKey := os.Getenv("NEWS_API_KEY"); newsKey != "" {
		cfg.News.APIKey = newsKey
	}
	if newsQuery := os.Getenv("NEWS_QUERY"); newsQuery != "" {
		cfg.News.Query = newsQuery
	}
	if maxAge := os.Getenv("NEWS_MAX_AGE_HOURS"); maxAge != "" {
		if hours, err := strconv.Atoi(maxAge); err == nil {
			cfg.News.MaxAgeHours = hours
		}
	}
	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
		cfg.Generation.Gemini.APIKey = geminiKey
	}
	if openAIKey := os.Getenv("OPENAI_API_KEY"); openAIKey != "" {
		cfg.Generation.OpenAI.APIKey = openAIKey
	}
	if anthropicKey := os.Getenv("ANTHROPIC_API_KEY"); anthropicKey != "" {
		cfg.Generation.Anthropic.APIKey = anthropicKey
	}
	if clientID := os.Getenv("X_CLIENT_ID"); clientID != "" {
		cfg.Twitter.ClientID = clientID
	}
	if clientSecret := os.Getenv("X_CLIENT_SECRET"); clientSecret != "" {
		cfg.Twitter.ClientSecret = clientSecret
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		cfg.Redis.URL = redisURL
	}
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}
	// Parse APP_DEBUG environment variable
	if appDebug := os.Getenv("APP_DEBUG"); appDebug != "" {
		cfg.Debug = parseBool(appDebug)
	}
	if dryRun := os.Getenv("DRY_RUN"); dryRun != "" {
		cfg.DryRun = parseBool(dryRun)
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Set defaults
	setDefaults(&cfg)

	// Override with environment variables if present
	overrideWithEnvVars(&cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// parseBool parses a string value as a boolean.
// Returns true for "true", "1", "yes" (case-insensitive), false otherwise.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes"
}
