package cmd

import (
	"context"

	"go-jobfinder-automation/internal/scheduler"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// DefaultSchedule is Monday morning, matching the weekly report cadence.
const DefaultSchedule = "0 9 * * 1"

func newScheduleCommand(root *rootOptions) *cobra.Command {
	var (
		spec      string
		runNow    bool
		sendEmail bool
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the search on a cron schedule until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(root)
			if err != nil {
				return err
			}
			defer d.close()

			if err := d.cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			s := scheduler.New(spec, func(ctx context.Context) error {
				res, err := runOnce(ctx, d, sendEmail)
				if err != nil {
					return err
				}
				d.logger.Info(res.Summary(), zap.String("run_id", res.RunID))
				return nil
			}, d.logger)

			if err := s.Start(ctx, runNow); err != nil {
				return err
			}
			<-ctx.Done()
			s.Stop()
			return nil
		},
	}
	cmd.Flags().StringVar(&spec, "cron", DefaultSchedule, "cron expression or descriptor such as @daily")
	cmd.Flags().BoolVar(&runNow, "now", false, "also run once immediately")
	cmd.Flags().BoolVar(&sendEmail, "send-email", false, "mail the Markdown report after each run")
	return cmd
}
