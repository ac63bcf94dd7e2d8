package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"go-jobfinder-automation/internal/report"
	"go-jobfinder-automation/internal/reporter"

	"github.com/spf13/cobra"
)

func newSendReportCommand(root *rootOptions) *cobra.Command {
	var (
		file    string
		subject string
	)
	cmd := &cobra.Command{
		Use:   "send-report",
		Short: "Mail the Markdown report to EMAIL_RECEIVER",
		Long: `Render the Markdown report as HTML and send it to every configured receiver.
Missing credentials, receivers or report file are logged and skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(root)
			if err != nil {
				return err
			}
			defer d.close()

			if file == "" {
				file = filepath.Join(d.cfg.OutputDir, report.MarkdownFile)
			}
			if subject == "" {
				subject = reporter.ReportSubject(time.Now())
			}
			if err := d.emailNotifier().SendReport(cmd.Context(), subject, file); err != nil {
				return fmt.Errorf("failed to send report: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "report to send (default <output_dir>/jobs.md)")
	cmd.Flags().StringVar(&subject, "subject", "", `subject line (default "Weekly Jobs Report - <date>")`)
	return cmd
}
