package scraper

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"go-jobfinder-automation/internal/cache"
	apperrors "go-jobfinder-automation/internal/errors"
	"go-jobfinder-automation/internal/models"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

type Outcome string

const (
	OutcomeComplete      Outcome = "complete"
	OutcomeProviderError Outcome = "provider_error"
	OutcomeFailed        Outcome = "failed"
)

// Result is what one (query, location) search produced.
// Jobs is empty when Outcome is OutcomeFailed.
type Result struct {
	Criteria Criteria
	Jobs     []models.RawJob
	Outcome  Outcome
	Pages    int
	Err      error
}

type FinderConfig struct {
	MaxPages     int
	MaxRetries   int
	GoogleDomain string
	GL           string
	HL           string
	CacheTTL     time.Duration
}

type Finder struct {
	provider   Provider
	cfg        FinderConfig
	cache      cache.Cache
	logger     *zap.Logger
	newBackOff func() backoff.BackOff
	calls      atomic.Int64
}

type FinderOption func(*Finder)

// WithCache stores each successful page so repeated runs skip the provider.
func WithCache(c cache.Cache) FinderOption {
	return func(f *Finder) {
		f.cache = c
	}
}

// WithBackOff replaces the retry schedule, mostly for tests.
func WithBackOff(newBackOff func() backoff.BackOff) FinderOption {
	return func(f *Finder) {
		f.newBackOff = newBackOff
	}
}

func NewFinder(provider Provider, cfg FinderConfig, logger *zap.Logger, opts ...FinderOption) *Finder {
	//a negative count would wrap to an unbounded retry budget
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.MaxPages < 1 {
		cfg.MaxPages = 1
	}
	f := &Finder{
		provider:   provider,
		cfg:        cfg,
		logger:     logger.With(zap.String("provider", provider.Name())),
		newBackOff: DefaultBackOff,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// DefaultBackOff waits 2^attempt seconds between retries: 1s, 2s, 4s, ...
func DefaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = 10 * time.Minute
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Calls is the number of provider requests made so far.
func (f *Finder) Calls() int {
	return int(f.calls.Load())
}

// Search pages through results for one criteria. Pagination stops on an
// empty page, a missing continuation token, MaxPages, or a provider error.
func (f *Finder) Search(ctx context.Context, criteria Criteria) Result {
	logger := f.logger.With(zap.String("query", criteria.Query), zap.String("location", criteria.Location))
	result := Result{Criteria: criteria, Outcome: OutcomeComplete}

	token := ""
	for page := 0; page < f.cfg.MaxPages; page++ {
		req := Request{
			Query:         criteria.QueryText(),
			Location:      criteria.Location,
			GoogleDomain:  f.cfg.GoogleDomain,
			GL:            f.cfg.GL,
			HL:            f.cfg.HL,
			NextPageToken: token,
		}

		resp, err := f.fetchPage(ctx, req, logger)
		if err != nil {
			logger.Error("Search failed", zap.Int("page", page+1), zap.Error(err))
			return Result{Criteria: criteria, Outcome: OutcomeFailed, Pages: result.Pages, Err: err}
		}

		if resp.Error != "" {
			logger.Warn("Provider returned an error, stopping pagination", zap.Int("page", page+1), zap.String("error", resp.Error))
			result.Outcome = OutcomeProviderError
			result.Err = apperrors.Provider(resp.Error, nil)
			break
		}

		result.Pages++
		for _, job := range resp.Jobs {
			job.SearchLocation = criteria.Location
			result.Jobs = append(result.Jobs, job)
		}
		logger.Debug("Fetched page", zap.Int("page", page+1), zap.Int("jobs", len(resp.Jobs)))

		token = resp.NextPageToken()
		if len(resp.Jobs) == 0 || token == "" {
			break
		}
	}

	logger.Info("Search finished", zap.Int("pages", result.Pages), zap.Int("jobs", len(result.Jobs)), zap.String("outcome", string(result.Outcome)))
	return result
}

func (f *Finder) fetchPage(ctx context.Context, req Request, logger *zap.Logger) (*Response, error) {
	key := cacheKey(req)
	if resp, ok := f.cached(ctx, key, logger); ok {
		return resp, nil
	}

	var resp *Response
	operation := func() error {
		f.calls.Add(1)
		r, err := f.provider.Search(ctx, req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		resp = r
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("Provider call failed, retrying", zap.Error(err), zap.Duration("wait", wait))
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(f.newBackOff(), uint64(f.cfg.MaxRetries)), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, apperrors.Fatal("provider retries exhausted", err)
	}

	if resp.Error == "" {
		f.store(ctx, key, resp, logger)
	}
	return resp, nil
}

func (f *Finder) cached(ctx context.Context, key string, logger *zap.Logger) (*Response, bool) {
	if f.cache == nil {
		return nil, false
	}
	data, err := f.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			logger.Warn("Cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		logger.Warn("Discarding unreadable cache entry", zap.Error(err))
		return nil, false
	}
	logger.Debug("Cache hit", zap.String("key", key))
	return &resp, true
}

func (f *Finder) store(ctx context.Context, key string, resp *Response, logger *zap.Logger) {
	if f.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		logger.Warn("Failed to encode response for cache", zap.Error(err))
		return
	}
	if err := f.cache.Set(ctx, key, data, f.cfg.CacheTTL); err != nil {
		logger.Warn("Cache write failed", zap.Error(err))
	}
}

func cacheKey(req Request) string {
	raw := strings.Join([]string{req.Query, req.Location, req.GoogleDomain, req.GL, req.HL, req.NextPageToken}, "\x1f")
	sum := sha256.Sum256([]byte(raw))
	return "serp:" + hex.EncodeToString(sum[:])
}
