package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"taskcheck/pkg/orgmode"
	"taskcheck/pkg/report"
	"taskcheck/pkg/scheduler"
)

var orgCmd = &cobra.Command{
	Use:   "org FILE...",
	Short: "Schedule TODO headings from org files",
	Long: `Parse TODO headings from the given org files and run a scheduling pass
over them. Headings opt in with an :EFFORT: property and a :TIME_MAP:
property naming a configured time map.

Org scheduling is report-only: nothing is written back to the files.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOrg(args)
	},
}

func init() {
	rootCmd.AddCommand(orgCmd)
}

func runOrg(paths []string) error {
	log := newLogger()

	cfg, templates, err := loadConfigWithMaps(log)
	if err != nil {
		return err
	}

	records, err := orgmode.ParseFiles(paths)
	if err != nil {
		return fmt.Errorf("failed to parse org files: %w", err)
	}
	log.Info().Int("tasks", len(records)).Msg("parsed org headings")

	opts := scheduler.Options{
		Templates:   templates,
		Algorithm:   scheduler.Algorithm(cfg.Scheduler.Algorithm),
		HorizonDays: cfg.Scheduler.DaysAhead,
		Now:         time.Now(),
		MinBlock:    cfg.MinBlock(),
		Logger:      log,
	}
	if algorithm != "" {
		opts.Algorithm = scheduler.Algorithm(algorithm)
	}
	if daysAhead > 0 {
		opts.HorizonDays = daysAhead
	}

	tasks, results, runErrs, err := scheduler.Run(records, opts)
	if err != nil {
		return err
	}
	for _, rerr := range runErrs {
		log.Warn().Str("task", rerr.UUID).Err(rerr.Err).Msg("heading excluded from scheduling")
	}

	report.Render(os.Stdout, tasks, results)
	return nil
}
