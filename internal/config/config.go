package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultKeywords narrows each company query to regulatory and deal-flow news.
var DefaultKeywords = []string{
	"FDA", "EMA", "NMPA", "clinical trial", "Phase 3", "acquisition", "approval",
}

type Config struct {
	// Telegram settings
	BotToken string
	ChatID   string

	// Digest settings
	MaxItems       int
	DaysLookback   int
	MaxBullets     int
	BulletMaxChars int
	ExtraKeywords  []string

	// Translation settings
	TranslateURL string // optional endpoint override, tried first
	TargetLang   string

	// Roster settings
	CompaniesFile string

	// App settings
	Debug          bool
	RequestTimeout time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
}

func Load() (*Config, error) {
	// Local runs keep secrets in .env; missing file is fine.
	_ = godotenv.Load()

	cfg := &Config{
		MaxItems:       10,
		DaysLookback:   2,
		MaxBullets:     3,
		BulletMaxChars: 260,
		ExtraKeywords:  DefaultKeywords,
		TargetLang:     "zh",
		CompaniesFile:  "configs/companies.yaml",
		RequestTimeout: 15 * time.Second,
		RetryAttempts:  3,
		RetryDelay:     time.Second,
	}

	cfg.BotToken = strings.TrimSpace(os.Getenv("BOT_TOKEN"))
	cfg.ChatID = strings.TrimSpace(os.Getenv("CHAT_ID"))

	cfg.MaxItems = getEnvIntOrDefault("MAX_ITEMS", cfg.MaxItems)
	cfg.DaysLookback = getEnvIntOrDefault("DAYS_LOOKBACK", cfg.DaysLookback)
	cfg.MaxBullets = getEnvIntOrDefault("MAX_BULLETS", cfg.MaxBullets)
	cfg.BulletMaxChars = getEnvIntOrDefault("BULLET_MAX_CHARS", cfg.BulletMaxChars)

	if kw := ParseKeywordList(os.Getenv("EXTRA_KEYWORDS")); len(kw) > 0 {
		cfg.ExtraKeywords = kw
	}

	cfg.TranslateURL = strings.TrimSpace(os.Getenv("TRANSLATE_URL"))
	if lang := strings.TrimSpace(os.Getenv("TARGET_LANG")); lang != "" {
		cfg.TargetLang = lang
	}

	cfg.CompaniesFile = getEnvOrDefault("COMPANIES_FILE", cfg.CompaniesFile)

	if os.Getenv("DEBUG") == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

// ParseKeywordList splits a comma-separated override into trimmed keywords.
func ParseKeywordList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil && intValue > 0 {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.ChatID == "" {
		return fmt.Errorf("CHAT_ID is required")
	}
	return nil
}
