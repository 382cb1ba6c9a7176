package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{1,5}$`)

// Config holds all application configuration.
type Config struct {
	Providers struct {
		AlphaVantageKey string `yaml:"alpha_vantage_key"`
		FinnhubKey      string `yaml:"finnhub_key"`
		RapidAPIKey     string `yaml:"rapidapi_key"`
		TimeoutSeconds  int    `yaml:"timeout_seconds"`
		MaxArticles     int    `yaml:"max_articles"`
	} `yaml:"providers"`
	Scorer struct {
		ModelEndpoint     string `yaml:"model_endpoint"`
		KeyPhraseEndpoint string `yaml:"keyphrase_endpoint"`
		HFToken           string `yaml:"hf_token"`
		MinTextLength     int    `yaml:"min_text_length"`
		RatePerMinute     int    `yaml:"rate_per_minute"`
		BreakerFailures   int    `yaml:"breaker_failures"`
		BreakerCooldown   int    `yaml:"breaker_cooldown_seconds"`
	} `yaml:"scorer"`
	Ingest struct {
		Watchlist      []string `yaml:"watchlist"`
		Cron           string   `yaml:"cron"`
		FreshnessHours int      `yaml:"freshness_hours"`
		ChunkSize      int      `yaml:"chunk_size"`
		LatestOnly     bool     `yaml:"latest_only"`
	} `yaml:"ingest"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("ALPHA_VANTAGE_KEY"); v != "" {
		cfg.Providers.AlphaVantageKey = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		cfg.Providers.FinnhubKey = v
	}
	if v := os.Getenv("RAPIDAPI_KEY"); v != "" {
		cfg.Providers.RapidAPIKey = v
	}
	if v := os.Getenv("HF_API_TOKEN"); v != "" {
		cfg.Scorer.HFToken = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Ingest.Watchlist = strings.Split(v, ",")
	}
	if v := os.Getenv("INGEST_CRON"); v != "" {
		cfg.Ingest.Cron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Providers.TimeoutSeconds == 0 {
		cfg.Providers.TimeoutSeconds = 15
	}
	if cfg.Providers.MaxArticles == 0 {
		cfg.Providers.MaxArticles = 50
	}
	if cfg.Scorer.ModelEndpoint == "" {
		cfg.Scorer.ModelEndpoint = "https://api-inference.huggingface.co/models/ProsusAI/finbert"
	}
	if cfg.Scorer.KeyPhraseEndpoint == "" {
		cfg.Scorer.KeyPhraseEndpoint = "https://api-inference.huggingface.co/models/ml6team/keyphrase-extraction-distilbert-inspec"
	}
	if cfg.Scorer.MinTextLength == 0 {
		cfg.Scorer.MinTextLength = 25
	}
	if cfg.Scorer.RatePerMinute == 0 {
		cfg.Scorer.RatePerMinute = 100
	}
	if cfg.Scorer.BreakerFailures == 0 {
		cfg.Scorer.BreakerFailures = 3
	}
	if cfg.Scorer.BreakerCooldown == 0 {
		cfg.Scorer.BreakerCooldown = 120
	}
	if cfg.Ingest.Cron == "" {
		cfg.Ingest.Cron = "0 0 */2 * * *" // every 2 hours
	}
	if cfg.Ingest.FreshnessHours == 0 {
		cfg.Ingest.FreshnessHours = 24
	}
	if cfg.Ingest.ChunkSize == 0 {
		cfg.Ingest.ChunkSize = 20
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/stockpulse.db"
	}
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}

	for i, s := range cfg.Ingest.Watchlist {
		cfg.Ingest.Watchlist[i] = strings.ToUpper(strings.TrimSpace(s))
	}

	return cfg, nil
}

// Validate checks that all required fields are set and well formed.
func (c *Config) Validate() error {
	if c.Providers.AlphaVantageKey == "" && c.Providers.FinnhubKey == "" && c.Providers.RapidAPIKey == "" {
		return fmt.Errorf("at least one provider API key is required")
	}
	for _, s := range c.Ingest.Watchlist {
		if !symbolPattern.MatchString(s) {
			return fmt.Errorf("invalid watchlist symbol %q", s)
		}
	}
	if c.Providers.TimeoutSeconds < 0 {
		return fmt.Errorf("providers.timeout_seconds must be positive")
	}
	return nil
}
