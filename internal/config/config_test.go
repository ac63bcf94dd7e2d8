package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE", "API_KEY", "GOOGLE_DOMAIN", "GL", "HL", "SEARCH_QUERIES", "LOCATIONS",
	"MAX_PAGES", "MAX_RETRIES", "MIN_SALARY", "MAX_DAYS_OLD", "BLACKLIST_COMPANIES",
	"EXCLUDE_KEYWORDS", "SCHEDULE_TYPES", "TRUSTED_DOMAINS", "HISTORY_FILE",
	"HISTORY_RETENTION_DAYS", "HISTORY_DATABASE_URL", "OUTPUT_DIR", "SMTP_SERVER",
	"SMTP_PORT", "EMAIL_ADDRESS", "EMAIL_PASSWORD", "EMAIL_RECEIVER", "GITHUB_ISSUE_URL",
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	"CACHE_TTL", "LOG_LEVEL", "LOG_FORMAT", "RATE_LIMIT",
}

// clearEnv blanks every variable Load reads; empty values count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Empty(t, cfg.APIKey)
	assert.Equal(t, "google.ca", cfg.GoogleDomain)
	assert.Equal(t, "ca", cfg.GL)
	assert.Equal(t, "en", cfg.HL)
	assert.Equal(t, []string{"Toronto, Ontario, Canada"}, cfg.Locations)
	assert.Equal(t, []string{"software developer"}, cfg.Queries)
	assert.Equal(t, 5, cfg.MaxPages)
	assert.Equal(t, 1.0, cfg.RateLimit)
	assert.Equal(t, 0, cfg.MinSalary)
	assert.Equal(t, 7, cfg.MaxDaysOld)
	assert.Empty(t, cfg.BlacklistCompanies)
	assert.Empty(t, cfg.ExcludeKeywords)
	assert.Equal(t, []string{"full-time"}, cfg.ScheduleTypes)
	assert.Equal(t, "smtp.gmail.com", cfg.SMTPServer)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Empty(t, cfg.EmailAddress)
	assert.Empty(t, cfg.EmailReceivers)
	assert.Equal(t, 90, cfg.HistoryRetentionDays)
	assert.Empty(t, cfg.Warnings)

	assert.EqualError(t, cfg.Validate(), "API_KEY is required")
}

func TestLoad_EnvVars(t *testing.T) {
	clearEnv(t)
	for k, v := range map[string]string{
		"API_KEY":             "test_key",
		"GOOGLE_DOMAIN":       "google.com",
		"SEARCH_QUERIES":      `["data scientist", "machine learning engineer"]`,
		"LOCATIONS":           `["New York, New York, United States", "San Francisco, California, United States"]`,
		"MAX_PAGES":           "3",
		"MIN_SALARY":          "80000",
		"MAX_DAYS_OLD":        "14",
		"BLACKLIST_COMPANIES": `["Bad Corp", "Spam Inc"]`,
		"EXCLUDE_KEYWORDS":    `["Senior", "Lead"]`,
		"SCHEDULE_TYPES":      `["Part-time", "Contract"]`,
		"SMTP_SERVER":         "smtp.test.com",
		"SMTP_PORT":           "465",
		"EMAIL_ADDRESS":       "sender@test.com",
		"EMAIL_PASSWORD":      "password123",
		"EMAIL_RECEIVER":      `["rec1@test.com", "rec2@test.com"]`,
		"TELEGRAM_CHAT_ID":    "12345",
		"CACHE_TTL":           "30m",
	} {
		t.Setenv(k, v)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test_key", cfg.APIKey)
	assert.Equal(t, "google.com", cfg.GoogleDomain)
	assert.Equal(t, []string{"data scientist", "machine learning engineer"}, cfg.Queries)
	assert.Equal(t, []string{"New York, New York, United States", "San Francisco, California, United States"}, cfg.Locations)
	assert.Equal(t, 3, cfg.MaxPages)
	assert.Equal(t, 80000, cfg.MinSalary)
	assert.Equal(t, 14, cfg.MaxDaysOld)
	assert.Equal(t, []string{"Bad Corp", "Spam Inc"}, cfg.BlacklistCompanies)
	assert.Equal(t, []string{"Senior", "Lead"}, cfg.ExcludeKeywords)
	assert.Equal(t, []string{"Part-time", "Contract"}, cfg.ScheduleTypes)
	assert.Equal(t, "smtp.test.com", cfg.SMTPServer)
	assert.Equal(t, 465, cfg.SMTPPort)
	assert.Equal(t, "sender@test.com", cfg.EmailAddress)
	assert.Equal(t, "password123", cfg.EmailPassword)
	assert.Equal(t, []string{"rec1@test.com", "rec2@test.com"}, cfg.EmailReceivers)
	assert.Equal(t, int64(12345), cfg.TelegramChatID)
	assert.Equal(t, 30*time.Minute, cfg.CacheTTL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ListFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		get      func(*Config) []string
		expected []string
	}{
		{
			name:     "location as single string",
			key:      "LOCATIONS",
			value:    "London, United Kingdom",
			get:      func(c *Config) []string { return c.Locations },
			expected: []string{"London, United Kingdom"},
		},
		{
			name:     "location with invalid json",
			key:      "LOCATIONS",
			value:    "['Invalid JSON'",
			get:      func(c *Config) []string { return c.Locations },
			expected: []string{"['Invalid JSON'"},
		},
		{
			name:     "blacklist comma separated",
			key:      "BLACKLIST_COMPANIES",
			value:    "Bad Corp, Spam Inc",
			get:      func(c *Config) []string { return c.BlacklistCompanies },
			expected: []string{"Bad Corp", "Spam Inc"},
		},
		{
			name:     "receivers comma separated",
			key:      "EMAIL_RECEIVER",
			value:    "a@test.com,b@test.com",
			get:      func(c *Config) []string { return c.EmailReceivers },
			expected: []string{"a@test.com", "b@test.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, tt.get(cfg))
		})
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_PAGES", "invalid")
	t.Setenv("SMTP_PORT", "abc")
	t.Setenv("CACHE_TTL", "soon")
	t.Setenv("RATE_LIMIT", "fast")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxPages)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 6*time.Hour, cfg.CacheTTL)
	assert.Equal(t, 1.0, cfg.RateLimit)
	assert.Len(t, cfg.Warnings, 4)
}

func TestLoad_OutOfRangeNumbersFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_RETRIES", "-1")
	t.Setenv("MAX_PAGES", "0")
	t.Setenv("HISTORY_RETENTION_DAYS", "-7")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 5, cfg.MaxPages)
	assert.Equal(t, 90, cfg.HistoryRetentionDays)
	assert.Len(t, cfg.Warnings, 3)
}

func TestLoad_OutOfRangeFileValuesFallBack(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_retries: -2\n"), 0644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxRetries)
	require.Len(t, cfg.Warnings, 1)
	assert.Contains(t, cfg.Warnings[0], "max_retries")
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
queries: ["golang developer"]
locations: ["Vancouver, British Columbia, Canada"]
max_pages: 2
trusted_domains: ["linkedin.com"]
cache_ttl: 1h
`), 0644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MAX_PAGES", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"golang developer"}, cfg.Queries)
	assert.Equal(t, []string{"Vancouver, British Columbia, Canada"}, cfg.Locations)
	assert.Equal(t, []string{"linkedin.com"}, cfg.TrustedDomains)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, 4, cfg.MaxPages, "env overrides file")
	assert.Equal(t, "google.ca", cfg.GoogleDomain, "defaults survive")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.APIKey = "secret"
	cfg.EmailPassword = "pw"

	out := cfg.Redacted()
	assert.Equal(t, "********", out.APIKey)
	assert.Equal(t, "********", out.EmailPassword)
	assert.Empty(t, out.TelegramToken)
	assert.Equal(t, "secret", cfg.APIKey)
}
