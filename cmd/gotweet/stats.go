package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/gotweet/internal/logger"
)

func newStatsCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show publishing counters and recent run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(application)

			stats, err := application.Metrics().GetStats(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("Runs:              %d (%d succeeded, %d failed)\n",
				stats.Runs, stats.RunsSucceeded, stats.RunsFailed)
			fmt.Printf("Threads published: %d\n", stats.ThreadsPublished)
			fmt.Printf("Tweets posted:     %d\n", stats.TweetsPosted)
			fmt.Printf("Fallback threads:  %d\n", stats.Fallbacks)

			runs, err := application.Metrics().GetRecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				return nil
			}

			fmt.Println("\nRecent runs:")
			for _, r := range runs {
				status := "ok"
				if !r.Succeeded {
					status = "failed"
				}
				fmt.Printf("  %s  %-6s  thread=%d standalone=%d  %s\n",
					r.FinishedAt.Format(time.RFC3339), status,
					r.ThreadTweets, r.StandaloneTweets, r.LeadTitle)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of recent runs to show")

	return cmd
}

func newFlushMetricsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "flush-metrics",
		Short: "Delete all stored metrics counters and run history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(application)

			deleted, err := application.Metrics().Reset(cmd.Context())
			if err != nil {
				return err
			}

			application.Logger().Info("Metrics flushed",
				logger.Int64("keys_deleted", deleted))

			return nil
		},
	}
}
