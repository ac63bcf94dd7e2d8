package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newConfigCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets hidden",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(root)
			if err != nil {
				return err
			}
			defer d.close()

			c := d.cfg.Redacted()
			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Setting", "Value"})
			t.AppendRows([]table.Row{
				{"API_KEY", c.APIKey},
				{"GOOGLE_DOMAIN / GL / HL", fmt.Sprintf("%s / %s / %s", c.GoogleDomain, c.GL, c.HL)},
				{"SEARCH_QUERIES", list(c.Queries)},
				{"LOCATIONS", list(c.Locations)},
				{"MAX_PAGES", c.MaxPages},
				{"MAX_RETRIES", c.MaxRetries},
				{"RATE_LIMIT", c.RateLimit},
				{"MIN_SALARY", c.MinSalary},
				{"MAX_DAYS_OLD", c.MaxDaysOld},
				{"BLACKLIST_COMPANIES", list(c.BlacklistCompanies)},
				{"EXCLUDE_KEYWORDS", list(c.ExcludeKeywords)},
				{"SCHEDULE_TYPES", list(c.ScheduleTypes)},
				{"TRUSTED_DOMAINS", list(c.TrustedDomains)},
				{"HISTORY_FILE", c.HistoryFile},
				{"HISTORY_RETENTION_DAYS", c.HistoryRetentionDays},
				{"HISTORY_DATABASE_URL", c.HistoryDatabaseURL},
				{"OUTPUT_DIR", c.OutputDir},
				{"SMTP", fmt.Sprintf("%s:%d", c.SMTPServer, c.SMTPPort)},
				{"EMAIL_ADDRESS", c.EmailAddress},
				{"EMAIL_PASSWORD", c.EmailPassword},
				{"EMAIL_RECEIVER", list(c.EmailReceivers)},
				{"TELEGRAM_BOT_TOKEN", c.TelegramToken},
				{"REDIS_ADDR", c.RedisAddr},
				{"CACHE_TTL", c.CacheTTL},
				{"LOG_LEVEL / LOG_FORMAT", c.LogLevel + " / " + c.LogFormat},
			})
			t.Render()

			for _, w := range c.Warnings {
				printf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}
			return nil
		},
	}
}

func list(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, "; ")
}
