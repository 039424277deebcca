package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/gotweet/internal/app"
)

var (
	cfgFile   string
	debugFlag bool
	dryRun    bool

	rootCmd = &cobra.Command{
		Use:   "gotweet",
		Short: "Automated news publishing to X",
		Long: `gotweet fetches the latest news, selects the strongest stories,
writes tweet threads with AI assistance, and posts them to X.

Running with no subcommand executes one publishing run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// Flags win over config file and environment.
			if debugFlag {
				_ = os.Setenv("APP_DEBUG", "true")
			}
			if dryRun {
				_ = os.Setenv("DRY_RUN", "true")
			}
		},
		RunE: runPublish,
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so config env overrides are visible.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yml", "path to configuration file")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "log would-be tweets instead of posting")

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newTokenCommand())
	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newFlushMetricsCommand())
	rootCmd.AddCommand(newVersionCommand())
}

// newApp builds the application for one command invocation.
func newApp(cmd *cobra.Command) (*app.App, error) {
	return app.New(cmd.Context(), app.Options{
		ConfigPath: cfgFile,
		Version:    version,
	})
}

// closeApp releases the application's resources, reporting rather than
// masking close failures.
func closeApp(application *app.App) {
	if err := application.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close application: %v\n", err)
	}
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Execute one publishing run",
		Args:  cobra.NoArgs,
		RunE:  runPublish,
	}
}

func runPublish(cmd *cobra.Command, _ []string) error {
	application, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(application)

	if _, err := application.Run(cmd.Context()); err != nil {
		return fmt.Errorf("publishing run: %w", err)
	}

	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("gotweet version %s\n", version)
		},
	}
}
