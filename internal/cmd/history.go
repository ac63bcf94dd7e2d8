package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

func newHistoryCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect and maintain the seen-jobs history",
	}
	cmd.AddCommand(newHistoryPruneCommand(root), newHistoryRunsCommand(root))
	return cmd
}

func newHistoryPruneCommand(root *rootOptions) *cobra.Command {
	days := -1
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove history entries older than --days",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(root)
			if err != nil {
				return err
			}
			defer d.close()

			if days < 0 {
				days = d.cfg.HistoryRetentionDays
			}

			ctx := cmd.Context()
			store, repo, err := d.historyStore(ctx)
			if err != nil {
				return err
			}
			if repo != nil {
				defer repo.Close()
			}
			if err := store.Load(ctx); err != nil {
				return err
			}

			removed, err := store.EvictOlderThan(ctx, days)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "Removed %d entries older than %d days, %d remain\n", removed, days, store.Len())
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", days, "age limit in days (default HISTORY_RETENTION_DAYS)")
	return cmd
}

func newHistoryRunsCommand(root *rootOptions) *cobra.Command {
	limit := 10
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent runs recorded in the history database",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDeps(root)
			if err != nil {
				return err
			}
			defer d.close()

			ctx := cmd.Context()
			_, repo, err := d.historyStore(ctx)
			if err != nil {
				return err
			}
			if repo == nil {
				return errors.New("run records need HISTORY_DATABASE_URL")
			}
			defer repo.Close()

			//Load also creates the tables on a fresh database
			if err := repo.Load(ctx); err != nil {
				return err
			}
			runs, err := repo.RecentRuns(ctx, limit)
			if err != nil {
				return err
			}
			renderRuns(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", limit, "number of runs to show")
	return cmd
}
