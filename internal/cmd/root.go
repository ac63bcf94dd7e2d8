// Package cmd implements the scraper command-line interface.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	logLevel   string
	logFormat  string
}

// NewRootCommand builds the command tree. Running it without a subcommand
// executes a single search.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	run := newRunCommand(opts)

	root := &cobra.Command{
		Use:           "scraper",
		Short:         "Search Google Jobs, filter the results and write weekly reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run.RunE,
	}
	root.Flags().AddFlagSet(run.Flags())

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "YAML config file (default $CONFIG_FILE or configs/config.yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "console or json (overrides LOG_FORMAT)")

	root.AddCommand(
		run,
		newSendReportCommand(opts),
		newHistoryCommand(opts),
		newScheduleCommand(opts),
		newConfigCommand(opts),
	)
	return root
}

// Execute runs the CLI until it finishes or the process is interrupted.
func Execute() error {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand().ExecuteContext(ctx)
}
