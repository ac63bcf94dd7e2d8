package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go-jobfinder-automation/internal/filter"
	"go-jobfinder-automation/internal/pipeline"
	"go-jobfinder-automation/internal/report"
	"go-jobfinder-automation/internal/reporter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runOptions struct {
	sendEmail bool
	quiet     bool
}

func newRunCommand(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one search and write the reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(root)
			if err != nil {
				return err
			}
			defer d.close()

			res, err := runOnce(cmd.Context(), d, opts.sendEmail)
			if err != nil {
				return err
			}
			if !opts.quiet {
				renderSummary(cmd.OutOrStdout(), res)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.sendEmail, "send-email", false, "mail the Markdown report when the run finishes")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the summary table")
	return cmd
}

// runOnce wires the pipeline from config, executes it and sends notifications.
func runOnce(ctx context.Context, d *deps, sendEmail bool) (*pipeline.Result, error) {
	cfg := d.cfg
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	history, repo, err := d.historyStore(ctx)
	if err != nil {
		return nil, err
	}
	var opts []pipeline.Option
	if repo != nil {
		defer repo.Close()
		opts = append(opts, pipeline.WithRecorder(repo))
	}

	responses := d.responseCache(ctx)
	if responses != nil {
		defer responses.Close()
	}

	runner := pipeline.NewRunner(
		pipeline.Config{
			Queries:       cfg.Queries,
			Locations:     cfg.Locations,
			MinSalary:     float64(cfg.MinSalary),
			MaxDaysOld:    cfg.MaxDaysOld,
			RetentionDays: cfg.HistoryRetentionDays,
		},
		d.finder(responses),
		filter.NewMatcher(filter.Rules{
			BlacklistCompanies: cfg.BlacklistCompanies,
			ExcludeKeywords:    cfg.ExcludeKeywords,
			ScheduleTypes:      cfg.ScheduleTypes,
			TrustedDomains:     cfg.TrustedDomains,
		}),
		history,
		report.NewWriter(cfg.OutputDir, d.logger),
		d.logger,
		opts...,
	)

	tg := d.telegram()
	res, err := runner.Run(ctx)
	if err != nil {
		if tg != nil {
			if sendErr := tg.SendError(err); sendErr != nil {
				d.logger.Warn("Failed to send Telegram alert", zap.Error(sendErr))
			}
		}
		return nil, err
	}

	if tg != nil {
		if err := tg.SendSummary(runSummary(res, cfg.GitHubIssueURL)); err != nil {
			d.logger.Warn("Failed to send Telegram summary", zap.Error(err))
		}
	}

	if sendEmail {
		path := filepath.Join(cfg.OutputDir, report.MarkdownFile)
		if err := d.emailNotifier().SendReport(ctx, reporter.ReportSubject(res.FinishedAt), path); err != nil {
			d.logger.Error("Failed to send report email", zap.Error(err))
		}
	}
	return res, nil
}

func runSummary(res *pipeline.Result, issueURL string) reporter.RunSummary {
	return reporter.RunSummary{
		Date:           res.FinishedAt,
		Accepted:       len(res.Accepted),
		Fetched:        res.Fetched,
		PerLocation:    res.PerLocation,
		FailedSearches: len(res.FailedSearches),
		IssueURL:       issueURL,
	}
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

func elapsed(res *pipeline.Result) time.Duration {
	return res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond)
}
