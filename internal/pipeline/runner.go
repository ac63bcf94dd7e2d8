package pipeline

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go-jobfinder-automation/internal/dedup"
	apperrors "go-jobfinder-automation/internal/errors"
	"go-jobfinder-automation/internal/filter"
	"go-jobfinder-automation/internal/models"
	"go-jobfinder-automation/internal/parser"
	"go-jobfinder-automation/internal/scraper"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Searcher runs one (query, location) search across all of its pages.
type Searcher interface {
	Search(ctx context.Context, criteria scraper.Criteria) scraper.Result
	Calls() int
}

type ReportWriter interface {
	Write(jobs []models.RawJob) error
}

// RunRecorder persists a summary row per run. Optional.
type RunRecorder interface {
	SaveRun(ctx context.Context, run models.RunRecord) error
}

type Config struct {
	Queries       []string
	Locations     []string
	MinSalary     float64
	MaxDaysOld    int
	RetentionDays int
}

type FailedSearch struct {
	Criteria scraper.Criteria
	Err      error
}

// Result summarises one run.
type Result struct {
	RunID          string
	Accepted       []models.RawJob
	Fetched        int
	Duplicates     int
	Seen           int
	Rejected       int
	Rejections     map[filter.Rule]int
	PerLocation    map[string]int
	FailedSearches []FailedSearch
	ProviderCalls  int
	Evicted        int
	StartedAt      time.Time
	FinishedAt     time.Time

	searches int
}

// Status is FAILED when every search failed, PARTIAL when some did.
func (r *Result) Status() models.RunStatus {
	switch {
	case len(r.FailedSearches) == 0:
		return models.RunStatusCompleted
	case len(r.FailedSearches) == r.searches:
		return models.RunStatusFailed
	default:
		return models.RunStatusPartial
	}
}

// Record converts the result into a job_runs row.
func (r *Result) Record() models.RunRecord {
	return models.RunRecord{
		ID:             r.RunID,
		Status:         r.Status(),
		Fetched:        r.Fetched,
		Accepted:       len(r.Accepted),
		Rejected:       r.Rejected,
		ProviderCalls:  r.ProviderCalls,
		FailedSearches: len(r.FailedSearches),
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
	}
}

// Locations returns PerLocation keys in order.
func (r *Result) Locations() []string {
	locs := make([]string, 0, len(r.PerLocation))
	for loc := range r.PerLocation {
		locs = append(locs, loc)
	}
	sort.Strings(locs)
	return locs
}

type Runner struct {
	cfg      Config
	finder   Searcher
	matcher  *filter.Matcher
	history  dedup.Store
	reports  ReportWriter
	recorder RunRecorder
	logger   *zap.Logger
	now      func() time.Time
}

type Option func(*Runner)

func WithRecorder(recorder RunRecorder) Option {
	return func(r *Runner) {
		r.recorder = recorder
	}
}

func NewRunner(cfg Config, finder Searcher, matcher *filter.Matcher, history dedup.Store, reports ReportWriter, logger *zap.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:     cfg,
		finder:  finder,
		matcher: matcher,
		history: history,
		reports: reports,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one full search, filter and report cycle. Only a history that
// cannot be loaded aborts the run; failed searches, report and persistence
// errors are logged and counted.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:       uuid.NewString(),
		Rejections:  make(map[filter.Rule]int),
		PerLocation: make(map[string]int),
		StartedAt:   r.now(),
	}
	logger := r.logger.With(zap.String("run_id", res.RunID))
	logger.Info("Starting job search",
		zap.Int("queries", len(r.cfg.Queries)),
		zap.Int("locations", len(r.cfg.Locations)))

	if err := r.history.Load(ctx); err != nil {
		return nil, apperrors.IO("failed to load job history", err)
	}

	callsBefore := r.finder.Calls()
	var fetched []models.RawJob
	for _, query := range r.cfg.Queries {
		for _, location := range r.cfg.Locations {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			res.searches++

			criteria := scraper.Criteria{Query: query, Location: location}
			result := r.finder.Search(ctx, criteria)
			if result.Outcome == scraper.OutcomeFailed {
				res.FailedSearches = append(res.FailedSearches, FailedSearch{Criteria: criteria, Err: result.Err})
				logger.Error("Skipping search", zap.Stringer("criteria", criteria), zap.Error(result.Err))
				continue
			}
			fetched = append(fetched, result.Jobs...)
		}
	}
	res.Fetched = len(fetched)
	res.ProviderCalls = r.finder.Calls() - callsBefore

	unique, dupes := scraper.RemoveDuplicates(fetched)
	res.Duplicates = dupes
	logger.Info("Fetched jobs", zap.Int("fetched", res.Fetched), zap.Int("duplicates", dupes))

	for _, raw := range unique {
		r.consider(raw, res, logger)
	}

	logger.Info("Filtering finished",
		zap.Int("accepted", len(res.Accepted)),
		zap.Int("rejected", res.Rejected),
		zap.Int("already_seen", res.Seen))

	if err := r.reports.Write(res.Accepted); err != nil {
		logger.Error("Failed to write reports", zap.Error(err))
	}
	if err := r.history.Save(ctx); err != nil {
		logger.Error("Failed to save job history", zap.Error(err))
	}
	if r.cfg.RetentionDays > 0 {
		evicted, err := r.history.EvictOlderThan(ctx, r.cfg.RetentionDays)
		if err != nil {
			logger.Error("Failed to evict old history", zap.Error(err))
		}
		res.Evicted = evicted
	}

	res.FinishedAt = r.now()
	if r.recorder != nil {
		if err := r.recorder.SaveRun(ctx, res.Record()); err != nil {
			logger.Error("Failed to record run", zap.Error(err))
		}
	}

	logger.Info("Job search finished",
		zap.String("status", string(res.Status())),
		zap.Int("provider_calls", res.ProviderCalls),
		zap.Int("failed_searches", len(res.FailedSearches)),
		zap.Duration("elapsed", res.FinishedAt.Sub(res.StartedAt)))
	return res, nil
}

func (r *Runner) consider(raw models.RawJob, res *Result, logger *zap.Logger) {
	fp := dedup.Fingerprint(raw)
	if r.history.IsSeen(fp) {
		res.Seen++
		return
	}

	decision := r.matcher.Evaluate(raw)
	if decision.Accepted {
		job := parser.ParseJob(raw)
		if decision = filter.CheckRecency(job, r.cfg.MaxDaysOld); decision.Accepted {
			decision = filter.CheckSalary(job, r.cfg.MinSalary)
		}
	}
	if !decision.Accepted {
		res.Rejected++
		res.Rejections[decision.Rule]++
		logger.Debug("Rejected job",
			zap.String("title", raw.Title),
			zap.String("company", raw.CompanyDisplay()),
			zap.String("reason", decision.Reason))
		return
	}

	r.history.Add(fp)
	res.Accepted = append(res.Accepted, raw)
	res.PerLocation[locationLabel(raw)]++
}

func locationLabel(raw models.RawJob) string {
	if raw.SearchLocation != "" {
		return raw.SearchLocation
	}
	return "Unknown Location"
}

// Summary is a one-line description used in notifications.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d new jobs from %d fetched (%d rejected, %d already seen, %d failed searches)",
		len(r.Accepted), r.Fetched, r.Rejected, r.Seen, len(r.FailedSearches))
}
