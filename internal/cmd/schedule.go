package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/api/calendar/v3"

	"taskcheck/pkg/auth"
	"taskcheck/pkg/config"
	"taskcheck/pkg/gcal"
	"taskcheck/pkg/interval"
	"taskcheck/pkg/report"
	"taskcheck/pkg/scheduler"
	"taskcheck/pkg/taskwarrior"
	"taskcheck/pkg/timemap"
)

// loadConfigWithMaps loads the config and builds its time maps, logging a
// warning for each malformed map rather than failing the run.
func loadConfigWithMaps(log zerolog.Logger) (*config.Config, map[string]timemap.TimeMap, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	templates, mapErrs := cfg.BuildTimeMaps()
	for name, merr := range mapErrs {
		log.Warn().Str("time_map", name).Err(merr).Msg("skipping malformed time map")
	}
	if len(templates) == 0 {
		log.Warn().Msg("no usable time maps configured, nothing can be scheduled")
	}
	return cfg, templates, nil
}

func runSchedule(ctx context.Context) error {
	log := newLogger()

	cfg, templates, err := loadConfigWithMaps(log)
	if err != nil {
		return err
	}

	tw := taskwarrior.NewClient()
	var exported []taskwarrior.Task
	if fromStdin {
		exported, err = tw.ParseTasks(os.Stdin)
	} else {
		exported, err = tw.Export()
	}
	if err != nil {
		return fmt.Errorf("failed to export tasks: %w", err)
	}
	records, recErrs := taskwarrior.Records(exported)
	for id, rerr := range recErrs {
		log.Warn().Str("task", id).Err(rerr).Msg("skipping malformed task")
	}
	log.Info().Int("tasks", len(records)).Msg("exported pending tasks")

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

	if opts.Algorithm == scheduler.Parallel {
		coeffs, cerr := tw.UrgencyCoefficients()
		if cerr != nil {
			log.Warn().Err(cerr).Msg("could not read urgency coefficients, ranks stay fixed")
		} else {
			opts.Rerank = taskwarrior.NewReranker(coeffs, records).Rerank
		}
	}

	opts.Blocks, err = fetchBlocks(ctx, cfg, opts.Now, opts.HorizonDays, log)
	if err != nil {
		return err
	}

	tasks, results, runErrs, err := scheduler.Run(records, opts)
	if err != nil {
		return err
	}
	for _, rerr := range runErrs {
		log.Warn().Str("task", rerr.UUID).Err(rerr.Err).Msg("task excluded from scheduling")
	}

	report.Render(os.Stdout, tasks, results)

	if dryRun {
		log.Info().Msg("dry run, not writing schedules back")
		return nil
	}
	for _, t := range tasks {
		res := results[t.UUID]
		if !res.Scheduled() {
			continue
		}
		if werr := tw.WriteSchedule(t.UUID, res.Start, res.Completion, t.SchedulingNote()); werr != nil {
			return werr
		}
	}
	log.Info().Int("tasks", len(tasks)).Msg("schedules written back")
	return nil
}

// fetchBlocks merges the busy intervals of every configured calendar,
// reusing cached results until they expire.
func fetchBlocks(ctx context.Context, cfg *config.Config, now time.Time, horizonDays int, log zerolog.Logger) (interval.Set, error) {
	if len(cfg.Calendars) == 0 {
		return nil, nil
	}

	cache, err := gcal.NewCache()
	if err != nil {
		log.Warn().Err(err).Msg("calendar cache unavailable")
	}

	names := make([]string, 0, len(cfg.Calendars))
	for name := range cfg.Calendars {
		names = append(names, name)
	}
	sort.Strings(names)

	var srv *calendar.Service
	var merged interval.Set
	for _, name := range names {
		cal := cfg.Calendars[name]
		key := fmt.Sprintf("%s@%s+%d", cal.CalendarID, now.Format("2006-01-02"), horizonDays)
		maxAge := time.Duration(cal.Expiration * float64(time.Hour))

		if cache != nil {
			if blocks, ok := cache.Get(key, maxAge); ok {
				log.Debug().Str("calendar", name).Msg("using cached calendar blocks")
				merged = merged.Union(blocks)
				continue
			}
		}

		if srv == nil {
			srv, err = auth.GetCalendarService(ctx, log)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to Google Calendar: %w", err)
			}
		}
		blocks, berr := gcal.NewSource(srv, cal.CalendarID, cal.AllDayBlocking).Blocks(now, horizonDays)
		if berr != nil {
			return nil, fmt.Errorf("failed to fetch calendar %q: %w", name, berr)
		}
		log.Debug().Str("calendar", name).Int("blocks", len(blocks)).Msg("fetched calendar blocks")
		if cache != nil {
			if perr := cache.Put(key, blocks); perr != nil {
				log.Warn().Str("calendar", name).Err(perr).Msg("could not cache calendar blocks")
			}
		}
		merged = merged.Union(blocks)
	}
	return merged, nil
}
