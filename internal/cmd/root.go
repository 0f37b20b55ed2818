// Package cmd wires the scheduling engine to Taskwarrior, Google Calendar
// and the terminal.
package cmd

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	dryRun    bool
	fromStdin bool
	algorithm string
	daysAhead int
)

var rootCmd = &cobra.Command{
	Use:   "taskcheck",
	Short: "Schedule Taskwarrior tasks into your available hours",
	Long: `taskcheck reads pending tasks from Taskwarrior, resolves your weekly
availability against calendar commitments and allocates each task's estimated
effort into concrete time slots, flagging anything that will miss its due date.

Running taskcheck with no subcommand performs a full scheduling pass and
writes the result back into each task.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchedule(cmd.Context())
	},
}

// ExecuteContext runs the CLI with ctx governing all network and subprocess
// calls.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "report the schedule without writing it back")
	rootCmd.Flags().BoolVar(&fromStdin, "stdin", false, "read the task export from stdin instead of running task")
	rootCmd.Flags().StringVar(&algorithm, "algorithm", "", "override the configured algorithm (sequential or parallel)")
	rootCmd.Flags().IntVar(&daysAhead, "days-ahead", 0, "override the configured scheduling horizon in days")
}

func newLogger() zerolog.Logger {
	lvl := zerolog.InfoLevel
	if verbose {
		lvl = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	return zerolog.New(cw).Level(lvl).With().
		Timestamp().
		Str("run_id", uuid.NewString()).
		Logger()
}
