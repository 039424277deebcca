package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// minimalConfig is a config file that passes validation with no env vars set.
const minimalConfig = `dry_run: true
news:
  api_key: "test-news-key"
  query: "india"
generation:
  backends: ["gemini"]
  gemini:
    api_key: "test-gemini-key"
redis:
  url: "localhost:6379"
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write temp config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfigFile(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.News.BaseURL != "https://newsapi.org" {
		t.Errorf("News.BaseURL = %q, want default", cfg.News.BaseURL)
	}
	if cfg.News.Language != "en" {
		t.Errorf("News.Language = %q, want en", cfg.News.Language)
	}
	if cfg.News.PageSize != DefaultPageSize {
		t.Errorf("News.PageSize = %d, want %d", cfg.News.PageSize, DefaultPageSize)
	}
	if cfg.News.MaxAgeHours != DefaultMaxAgeHours {
		t.Errorf("News.MaxAgeHours = %d, want %d", cfg.News.MaxAgeHours, DefaultMaxAgeHours)
	}
	if cfg.News.Timeout != DefaultNewsTimeoutSeconds*time.Second {
		t.Errorf("News.Timeout = %v, want %ds", cfg.News.Timeout, DefaultNewsTimeoutSeconds)
	}
	if cfg.Generation.Timeout != DefaultGenerationTimeoutSeconds*time.Second {
		t.Errorf("Generation.Timeout = %v, want %ds", cfg.Generation.Timeout, DefaultGenerationTimeoutSeconds)
	}
	if cfg.Generation.Temperature != 0.7 {
		t.Errorf("Generation.Temperature = %v, want 0.7", cfg.Generation.Temperature)
	}
	if cfg.Generation.ThreadMaxTokens != 400 || cfg.Generation.ShortMaxTokens != 200 {
		t.Errorf("Generation token limits = %d/%d, want 400/200",
			cfg.Generation.ThreadMaxTokens, cfg.Generation.ShortMaxTokens)
	}
	if cfg.Generation.Gemini.Model != "gemini-2.5-flash" {
		t.Errorf("Generation.Gemini.Model = %q, want gemini-2.5-flash", cfg.Generation.Gemini.Model)
	}
	if cfg.Twitter.BaseURL != "https://api.x.com" {
		t.Errorf("Twitter.BaseURL = %q, want default", cfg.Twitter.BaseURL)
	}
	if cfg.Publish.ThreadSize != DefaultThreadSize {
		t.Errorf("Publish.ThreadSize = %d, want %d", cfg.Publish.ThreadSize, DefaultThreadSize)
	}
	if cfg.Publish.MaxStandalone != DefaultMaxStandalone {
		t.Errorf("Publish.MaxStandalone = %d, want %d", cfg.Publish.MaxStandalone, DefaultMaxStandalone)
	}
	if cfg.Publish.TweetMaxChars != DefaultTweetMaxChars {
		t.Errorf("Publish.TweetMaxChars = %d, want %d", cfg.Publish.TweetMaxChars, DefaultTweetMaxChars)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yml"))
	if err == nil {
		t.Fatal("Load() error = nil, want error for missing file")
	}
}

func TestConfigDebugFromEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{"true from env", "true", true},
		{"1 from env", "1", true},
		{"yes from env", "yes", true},
		{"false from env", "false", false},
		{"0 from env", "0", false},
		{"no env var", "", false}, // Should default to false
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv("APP_DEBUG", tt.envValue)
			} else {
				os.Unsetenv("APP_DEBUG")
			}

			cfg, err := Load(writeConfigFile(t, minimalConfig))
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			if cfg.Debug != tt.expected {
				t.Errorf("Config.Debug = %v, want %v (APP_DEBUG=%q)", cfg.Debug, tt.expected, tt.envValue)
			}
		})
	}
}

func TestSecretOverridesFromEnv(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "env-news-key")
	t.Setenv("GEMINI_API_KEY", "env-gemini-key")
	t.Setenv("X_CLIENT_ID", "env-client-id")
	t.Setenv("X_CLIENT_SECRET", "env-client-secret")
	t.Setenv("REDIS_URL", "redis.example.com:6379")

	cfg, err := Load(writeConfigFile(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.News.APIKey != "env-news-key" {
		t.Errorf("News.APIKey = %q, want env override", cfg.News.APIKey)
	}
	if cfg.Generation.Gemini.APIKey != "env-gemini-key" {
		t.Errorf("Generation.Gemini.APIKey = %q, want env override", cfg.Generation.Gemini.APIKey)
	}
	if cfg.Twitter.ClientID != "env-client-id" || cfg.Twitter.ClientSecret != "env-client-secret" {
		t.Errorf("Twitter credentials = %q/%q, want env overrides", cfg.Twitter.ClientID, cfg.Twitter.ClientSecret)
	}
	if cfg.Redis.URL != "redis.example.com:6379" {
		t.Errorf("Redis.URL = %q, want env override", cfg.Redis.URL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(cfg *Config) {},
			wantErr: "",
		},
		{
			name: "missing redis url",
			mutate: func(cfg *Config) {
				cfg.Redis.URL = ""
			},
			wantErr: "redis.url",
		},
		{
			name: "no news source at all",
			mutate: func(cfg *Config) {
				cfg.News.APIKey = ""
				cfg.News.Feeds = nil
			},
			wantErr: "news.api_key",
		},
		{
			name: "feeds allow missing api key",
			mutate: func(cfg *Config) {
				cfg.News.APIKey = ""
				cfg.News.Feeds = []string{"https://example.com/rss"}
			},
			wantErr: "",
		},
		{
			name: "api key without query",
			mutate: func(cfg *Config) {
				cfg.News.Query = ""
			},
			wantErr: "news.query",
		},
		{
			name: "unknown backend",
			mutate: func(cfg *Config) {
				cfg.Generation.Backends = []string{"gemini", "bard"}
			},
			wantErr: "unknown backend",
		},
		{
			name: "backend listed without key",
			mutate: func(cfg *Config) {
				cfg.Generation.Backends = []string{"openai"}
			},
			wantErr: "generation.openai.api_key",
		},
		{
			name: "twitter credentials required without dry run",
			mutate: func(cfg *Config) {
				cfg.DryRun = false
			},
			wantErr: "twitter.client_id",
		},
		{
			name: "dry run skips twitter credentials",
			mutate: func(cfg *Config) {
				cfg.DryRun = true
				cfg.Twitter.ClientID = ""
				cfg.Twitter.ClientSecret = ""
			},
			wantErr: "",
		},
		{
			name: "tweet limit too small",
			mutate: func(cfg *Config) {
				cfg.Publish.TweetMaxChars = 10
			},
			wantErr: "tweet_max_chars",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				DryRun: true,
				News:   NewsConfig{APIKey: "k", Query: "india"},
				Generation: GenerationConfig{
					Backends: []string{"gemini"},
					Gemini:   BackendConfig{APIKey: "k"},
				},
				Redis: RedisConfig{URL: "localhost:6379"},
			}
			setDefaults(cfg)
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() error = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
