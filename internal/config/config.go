// Load envs from .env
// Load YAML config
// Override with env vars
// Provide default values

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultConfigFile = "configs/config.yaml"

type Config struct {
	APIKey       string `yaml:"-"`
	GoogleDomain string `yaml:"google_domain"`
	GL           string `yaml:"gl"`
	HL           string `yaml:"hl"`

	//Search criteria
	Queries    []string `yaml:"queries"`
	Locations  []string `yaml:"locations"`
	MaxPages   int      `yaml:"max_pages"`
	MaxRetries int      `yaml:"max_retries"`
	RateLimit  float64  `yaml:"rate_limit"`

	//Filters
	MinSalary          int      `yaml:"min_salary"`
	MaxDaysOld         int      `yaml:"max_days_old"`
	BlacklistCompanies []string `yaml:"blacklist_companies"`
	ExcludeKeywords    []string `yaml:"exclude_keywords"`
	ScheduleTypes      []string `yaml:"schedule_types"`
	TrustedDomains     []string `yaml:"trusted_domains"`

	//History
	HistoryFile          string `yaml:"history_file"`
	HistoryRetentionDays int    `yaml:"history_retention_days"`
	HistoryDatabaseURL   string `yaml:"-"`

	//Output
	OutputDir string `yaml:"output_dir"`

	//Email
	SMTPServer     string   `yaml:"smtp_server"`
	SMTPPort       int      `yaml:"smtp_port"`
	EmailAddress   string   `yaml:"-"`
	EmailPassword  string   `yaml:"-"`
	EmailReceivers []string `yaml:"email_receivers"`
	GitHubIssueURL string   `yaml:"github_issue_url"`

	//Telegram
	TelegramToken  string `yaml:"-"`
	TelegramChatID int64  `yaml:"telegram_chat_id"`

	//Cache
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"-"`
	RedisDB       int           `yaml:"redis_db"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`

	//Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	//Warnings collects values that were ignored while loading
	Warnings []string `yaml:"-"`
}

func Default() *Config {
	return &Config{
		GoogleDomain:         "google.ca",
		GL:                   "ca",
		HL:                   "en",
		Queries:              []string{"software developer"},
		Locations:            []string{"Toronto, Ontario, Canada"},
		MaxPages:             5,
		MaxRetries:           3,
		RateLimit:            1,
		MinSalary:            0,
		MaxDaysOld:           7,
		BlacklistCompanies:   []string{},
		ExcludeKeywords:      []string{},
		ScheduleTypes:        []string{"full-time"},
		TrustedDomains:       []string{},
		HistoryFile:          "data/history.json",
		HistoryRetentionDays: 90,
		OutputDir:            ".",
		SMTPServer:           "smtp.gmail.com",
		SMTPPort:             587,
		EmailReceivers:       []string{},
		CacheTTL:             6 * time.Hour,
		LogLevel:             "info",
		LogFormat:            "console",
	}
}

// Load reads .env, the optional YAML file named by CONFIG_FILE, and then
// environment variables, in increasing order of precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadFrom(os.Getenv("CONFIG_FILE"))
}

// LoadFrom is Load with an explicit YAML path. An empty path falls back to
// DefaultConfigFile, which may be missing.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if err := cfg.loadFile(path, explicit); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.clampRanges()
	return cfg, nil
}

// clampRanges resets out-of-range numbers, from either source, to their defaults.
func (c *Config) clampRanges() {
	def := Default()
	if c.MaxPages < 1 {
		c.warnf("max_pages must be at least 1, got %d, using default %d", c.MaxPages, def.MaxPages)
		c.MaxPages = def.MaxPages
	}
	if c.MaxRetries < 0 {
		c.warnf("max_retries must not be negative, got %d, using default %d", c.MaxRetries, def.MaxRetries)
		c.MaxRetries = def.MaxRetries
	}
	if c.HistoryRetentionDays < 0 {
		c.warnf("history_retention_days must not be negative, got %d, using default %d", c.HistoryRetentionDays, def.HistoryRetentionDays)
		c.HistoryRetentionDays = def.HistoryRetentionDays
	}
	if c.RateLimit < 0 {
		c.warnf("rate_limit must not be negative, got %g, using default %g", c.RateLimit, def.RateLimit)
		c.RateLimit = def.RateLimit
	}
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("could not read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("error parsing %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.APIKey = getEnvString("API_KEY", c.APIKey)
	c.GoogleDomain = getEnvString("GOOGLE_DOMAIN", c.GoogleDomain)
	c.GL = getEnvString("GL", c.GL)
	c.HL = getEnvString("HL", c.HL)

	c.Queries = getEnvList("SEARCH_QUERIES", c.Queries, splitSingle)
	c.Locations = getEnvList("LOCATIONS", c.Locations, splitSingle)
	c.MaxPages = c.getEnvInt("MAX_PAGES", c.MaxPages)
	c.MaxRetries = c.getEnvInt("MAX_RETRIES", c.MaxRetries)
	c.RateLimit = c.getEnvFloat("RATE_LIMIT", c.RateLimit)

	c.MinSalary = c.getEnvInt("MIN_SALARY", c.MinSalary)
	c.MaxDaysOld = c.getEnvInt("MAX_DAYS_OLD", c.MaxDaysOld)
	c.BlacklistCompanies = getEnvList("BLACKLIST_COMPANIES", c.BlacklistCompanies, splitComma)
	c.ExcludeKeywords = getEnvList("EXCLUDE_KEYWORDS", c.ExcludeKeywords, splitComma)
	c.ScheduleTypes = getEnvList("SCHEDULE_TYPES", c.ScheduleTypes, splitComma)
	c.TrustedDomains = getEnvList("TRUSTED_DOMAINS", c.TrustedDomains, splitComma)

	c.HistoryFile = getEnvString("HISTORY_FILE", c.HistoryFile)
	c.HistoryRetentionDays = c.getEnvInt("HISTORY_RETENTION_DAYS", c.HistoryRetentionDays)
	c.HistoryDatabaseURL = getEnvString("HISTORY_DATABASE_URL", c.HistoryDatabaseURL)
	c.OutputDir = getEnvString("OUTPUT_DIR", c.OutputDir)

	c.SMTPServer = getEnvString("SMTP_SERVER", c.SMTPServer)
	c.SMTPPort = c.getEnvInt("SMTP_PORT", c.SMTPPort)
	c.EmailAddress = getEnvString("EMAIL_ADDRESS", c.EmailAddress)
	c.EmailPassword = getEnvString("EMAIL_PASSWORD", c.EmailPassword)
	c.EmailReceivers = getEnvList("EMAIL_RECEIVER", c.EmailReceivers, splitComma)
	c.GitHubIssueURL = getEnvString("GITHUB_ISSUE_URL", c.GitHubIssueURL)

	c.TelegramToken = getEnvString("TELEGRAM_BOT_TOKEN", c.TelegramToken)
	if chatID := os.Getenv("TELEGRAM_CHAT_ID"); chatID != "" {
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			c.warnf("invalid TELEGRAM_CHAT_ID %q, telegram disabled", chatID)
		} else {
			c.TelegramChatID = id
		}
	}

	c.RedisAddr = getEnvString("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnvString("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = c.getEnvInt("REDIS_DB", c.RedisDB)
	c.CacheTTL = c.getEnvDuration("CACHE_TTL", c.CacheTTL)

	c.LogLevel = getEnvString("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnvString("LOG_FORMAT", c.LogFormat)
}

// Validate checks what a search run needs.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is required")
	}
	if len(c.Queries) == 0 || len(c.Locations) == 0 {
		return fmt.Errorf("at least one query and one location are required")
	}
	return nil
}

func (c *Config) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

//empty env values count as unset
func getEnvString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func (c *Config) getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		c.warnf("invalid integer for %s: %q, using default %d", key, value, fallback)
		return fallback
	}
	return n
}

func (c *Config) getEnvFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		c.warnf("invalid number for %s: %q, using default %g", key, value, fallback)
		return fallback
	}
	return f
}

func (c *Config) getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		c.warnf("invalid duration for %s: %q, using default %s", key, value, fallback)
		return fallback
	}
	return d
}

// getEnvList accepts a JSON array; anything else goes through fallbackSplit.
func getEnvList(key string, fallback []string, fallbackSplit func(string) []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}

	var list []string
	if err := json.Unmarshal([]byte(value), &list); err == nil {
		return list
	}
	return fallbackSplit(value)
}

//locations contain commas, so a non-JSON value is one entry
func splitSingle(value string) []string {
	return []string{value}
}

func splitComma(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	out := *c
	out.APIKey = redact(c.APIKey)
	out.EmailPassword = redact(c.EmailPassword)
	out.TelegramToken = redact(c.TelegramToken)
	out.RedisPassword = redact(c.RedisPassword)
	out.HistoryDatabaseURL = redact(c.HistoryDatabaseURL)
	return out
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
