package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Aggregation settings. Language and Country are passed through to
	// source connectors that filter by locale; the built-in RSS and
	// Reddit connectors take their scope from the feed list instead.
	Language     string
	Country      string
	MaxNewsAge   time.Duration
	MaxResults   int
	TopStories   int
	RetentionCap int

	// Source settings
	FeedsConfigPath string
	Subreddits      []string
	RedditLimit     int
	RedditUserAgent string

	// Oracle settings
	GeminiAPIKey    string
	GeminiModel     string
	OllamaHost      string
	DeepSeekModel   string
	MaxOracleCalls  int // per-run budget across all oracles (0 = unlimited)
	RequestTimeout  time.Duration
	RetryAttempts   int
	RetryDelay      time.Duration

	// Script settings
	BrandName           string
	MaxRefineIterations int

	// Voice settings
	ElevenLabsAPIKey string
	VoiceID          string

	// Storage settings
	DataDir    string
	LedgerPath string

	// App settings
	Debug bool
}

func Load() (*Config, error) {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	cfg := &Config{
		// Default values
		Language:            "en",
		Country:             "US",
		MaxNewsAge:          24 * time.Hour,
		MaxResults:          50,
		TopStories:          9,
		RetentionCap:        1000,
		FeedsConfigPath:     "configs/feeds.yaml",
		RedditLimit:         15,
		RedditUserAgent:     "newscast/2.0",
		GeminiModel:         "gemini-1.5-flash",
		OllamaHost:          "http://localhost:11434",
		DeepSeekModel:       "deepseek-r1",
		MaxOracleCalls:      0,
		RequestTimeout:      30 * time.Second,
		RetryAttempts:       3,
		RetryDelay:          5 * time.Second,
		BrandName:           "Veritas Lens AI",
		MaxRefineIterations: 3,
		VoiceID:             "21m00Tcm4TlvDq8ikWAM",
		DataDir:             "data",
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.ElevenLabsAPIKey = os.Getenv("ELEVENLABS_API_KEY")

	if v := os.Getenv("LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("COUNTRY"); v != "" {
		cfg.Country = v
	}
	if v := getEnvInt("MAX_AGE_HOURS"); v > 0 {
		cfg.MaxNewsAge = time.Duration(v) * time.Hour
	}
	if v := getEnvInt("MAX_RESULTS"); v > 0 {
		cfg.MaxResults = v
	}
	if v := getEnvInt("TOP_STORIES"); v > 0 {
		cfg.TopStories = v
	}
	if v := getEnvInt("RETENTION_CAP"); v > 0 {
		cfg.RetentionCap = v
	}
	if v := getEnvInt("MAX_REFINE_ITERATIONS"); v > 0 {
		cfg.MaxRefineIterations = v
	}
	if v := getEnvInt("MAX_ORACLE_CALLS"); v > 0 {
		cfg.MaxOracleCalls = v
	}
	if v := getEnvInt("REDDIT_LIMIT"); v > 0 {
		cfg.RedditLimit = v
	}
	if v := getEnvInt("REQUEST_TIMEOUT_SECONDS"); v > 0 {
		cfg.RequestTimeout = time.Duration(v) * time.Second
	}
	if v := getEnvInt("RETRY_ATTEMPTS"); v > 0 {
		cfg.RetryAttempts = v
	}
	if v := getEnvInt("RETRY_DELAY_SECONDS"); v > 0 {
		cfg.RetryDelay = time.Duration(v) * time.Second
	}

	if v := os.Getenv("FEEDS_CONFIG_PATH"); v != "" {
		cfg.FeedsConfigPath = v
	}
	if v := os.Getenv("REDDIT_USER_AGENT"); v != "" {
		cfg.RedditUserAgent = v
	}
	if v := os.Getenv("REDDIT_SUBREDDITS"); v != "" {
		for _, sub := range strings.Split(v, ",") {
			if sub = strings.TrimSpace(sub); sub != "" {
				cfg.Subreddits = append(cfg.Subreddits, sub)
			}
		}
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		cfg.OllamaHost = v
	}
	if v := os.Getenv("DEEPSEEK_MODEL"); v != "" {
		cfg.DeepSeekModel = v
	}
	if v := os.Getenv("BRAND_NAME"); v != "" {
		cfg.BrandName = v
	}
	if v := os.Getenv("ELEVENLABS_VOICE_ID"); v != "" {
		cfg.VoiceID = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	cfg.LedgerPath = getEnvOrDefault("LEDGER_PATH", cfg.DataDir+"/seen_hashes.json")

	return cfg, cfg.Validate()
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return 0
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required")
	}
	if c.LedgerPath == "" {
		return fmt.Errorf("LEDGER_PATH is required")
	}
	if c.TopStories <= 0 {
		return fmt.Errorf("TOP_STORIES must be positive")
	}
	if c.MaxRefineIterations <= 0 {
		return fmt.Errorf("MAX_REFINE_ITERATIONS must be positive")
	}
	return nil
}
