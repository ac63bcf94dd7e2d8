package cmd

import (
	"context"
	"fmt"
	"os"

	"go-jobfinder-automation/internal/cache"
	"go-jobfinder-automation/internal/cache/redis"
	"go-jobfinder-automation/internal/config"
	"go-jobfinder-automation/internal/database"
	"go-jobfinder-automation/internal/dedup"
	"go-jobfinder-automation/internal/logger"
	"go-jobfinder-automation/internal/reporter"
	"go-jobfinder-automation/internal/scraper"
	"go-jobfinder-automation/internal/scraper/serpapi"

	"go.uber.org/zap"
)

// deps holds what every subcommand needs.
type deps struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadDeps(opts *rootOptions) (*deps, error) {
	path := opts.configFile
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.LogFormat = opts.logFormat
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	for _, w := range cfg.Warnings {
		log.Warn("Config value ignored", zap.String("detail", w))
	}
	return &deps{cfg: cfg, logger: log}, nil
}

func (d *deps) close() {
	_ = d.logger.Sync()
}

// historyStore picks Postgres when HISTORY_DATABASE_URL is set and the JSON
// file otherwise. The returned repository is nil for the file store.
func (d *deps) historyStore(ctx context.Context) (dedup.Store, *database.Repository, error) {
	if d.cfg.HistoryDatabaseURL == "" {
		return dedup.NewFileStore(d.cfg.HistoryFile, d.logger), nil, nil
	}
	repo, err := database.ConnectDB(ctx, d.cfg.HistoryDatabaseURL, d.logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open history database: %w", err)
	}
	return repo, repo, nil
}

// responseCache returns nil when Redis is not configured or unreachable;
// searches then always hit the provider.
func (d *deps) responseCache(ctx context.Context) cache.Cache {
	if d.cfg.RedisAddr == "" {
		return nil
	}
	opts := cache.DefaultOptions()
	opts.RedisAddr = d.cfg.RedisAddr
	opts.RedisPassword = d.cfg.RedisPassword
	opts.RedisDB = d.cfg.RedisDB
	opts.DefaultTTL = d.cfg.CacheTTL

	c := redis.New(opts)
	if err := c.Ping(ctx); err != nil {
		d.logger.Warn("Redis unreachable, caching disabled", zap.String("addr", d.cfg.RedisAddr), zap.Error(err))
		_ = c.Close()
		return nil
	}
	d.logger.Info("Caching provider responses", zap.String("addr", d.cfg.RedisAddr), zap.Duration("ttl", d.cfg.CacheTTL))
	return c
}

func (d *deps) finder(c cache.Cache) *scraper.Finder {
	cfg := d.cfg
	opts := []scraper.FinderOption{}
	if c != nil {
		opts = append(opts, scraper.WithCache(c))
	}
	client := serpapi.NewClient(cfg.APIKey, serpapi.WithRateLimit(cfg.RateLimit))
	return scraper.NewFinder(client, scraper.FinderConfig{
		MaxPages:     cfg.MaxPages,
		MaxRetries:   cfg.MaxRetries,
		GoogleDomain: cfg.GoogleDomain,
		GL:           cfg.GL,
		HL:           cfg.HL,
		CacheTTL:     cfg.CacheTTL,
	}, d.logger, opts...)
}

// telegram is nil unless both token and chat id are configured.
func (d *deps) telegram() *reporter.TelegramReporter {
	if d.cfg.TelegramToken == "" || d.cfg.TelegramChatID == 0 {
		return nil
	}
	t, err := reporter.NewTelegramReporter(d.cfg.TelegramToken, d.cfg.TelegramChatID)
	if err != nil {
		d.logger.Warn("Telegram disabled", zap.Error(err))
		return nil
	}
	return t
}

func (d *deps) emailNotifier() *reporter.EmailNotifier {
	return reporter.NewEmailNotifier(reporter.EmailConfig{
		SMTPServer:     d.cfg.SMTPServer,
		SMTPPort:       d.cfg.SMTPPort,
		Username:       d.cfg.EmailAddress,
		Password:       d.cfg.EmailPassword,
		Receivers:      d.cfg.EmailReceivers,
		GitHubIssueURL: d.cfg.GitHubIssueURL,
	}, d.logger)
}
