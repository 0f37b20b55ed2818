// Package config loads the taskcheck configuration: scheduler settings,
// named time maps and calendar sources.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"taskcheck/pkg/timemap"
)

const (
	xdgAppName = "taskcheck"
	configFile = "taskcheck.yaml"
)

type Config struct {
	Scheduler SchedulerConfig           `yaml:"scheduler"`
	TimeMaps  map[string]TimeMapConfig  `yaml:"time_maps"`
	Calendars map[string]CalendarConfig `yaml:"calendars"`
}

type SchedulerConfig struct {
	// DaysAhead bounds how far into the future availability is searched.
	DaysAhead int `yaml:"days_ahead"`
	// Algorithm is "sequential" or "parallel".
	Algorithm string `yaml:"algorithm"`
	// Block is the parallel algorithm's default chunk size in hours.
	Block float64 `yaml:"block"`
}

// TimeMapConfig maps lowercase weekday names to [start, end] pairs in
// fractional hours, e.g. monday: [[9, 12.5], [14, 17]].
type TimeMapConfig map[string][][]float64

type CalendarConfig struct {
	// CalendarID is the Google Calendar identifier ("primary" or an email).
	CalendarID string `yaml:"calendar_id"`
	// AllDayBlocking treats all-day events as blocking the whole day.
	AllDayBlocking bool `yaml:"event_all_day_is_blocking"`
	// Expiration is the block cache lifetime in hours.
	Expiration float64 `yaml:"expiration"`
}

func defaults() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			DaysAhead: 30,
			Algorithm: "parallel",
			Block:     2,
		},
	}
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName, configFile), nil
}

func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFile(path)
}

func LoadFile(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := defaults()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Scheduler.DaysAhead <= 0 {
		return nil, fmt.Errorf("scheduler.days_ahead must be positive, got %d", cfg.Scheduler.DaysAhead)
	}
	if cfg.Scheduler.Block <= 0 {
		return nil, fmt.Errorf("scheduler.block must be positive, got %v", cfg.Scheduler.Block)
	}
	return cfg, nil
}

func Save(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0600)
}

// MinBlock is the parallel algorithm's default chunk size.
func (c *Config) MinBlock() time.Duration {
	return time.Duration(c.Scheduler.Block * float64(time.Hour))
}

// BuildTimeMaps validates and converts the configured time maps. Failures
// are collected per map so one bad map does not reject the rest.
func (c *Config) BuildTimeMaps() (map[string]timemap.TimeMap, map[string]error) {
	maps := make(map[string]timemap.TimeMap, len(c.TimeMaps))
	bad := make(map[string]error)
	for name, days := range c.TimeMaps {
		windows := make(map[string][]timemap.Window, len(days))
		malformed := false
		for day, pairs := range days {
			for _, pair := range pairs {
				if len(pair) != 2 {
					bad[name] = fmt.Errorf("%s: expected [start, end] pair, got %v", day, pair)
					malformed = true
					break
				}
				windows[day] = append(windows[day], timemap.Window{Start: pair[0], End: pair[1]})
			}
			if malformed {
				break
			}
		}
		if malformed {
			continue
		}
		tm, err := timemap.New(windows)
		if err != nil {
			bad[name] = err
			continue
		}
		maps[name] = tm
	}
	return maps, bad
}

// StarterConfig is what `taskcheck init` writes: a commented example to
// adjust rather than an empty skeleton.
const StarterConfig = `scheduler:
  days_ahead: 30
  algorithm: parallel # or sequential
  block: 2 # default min block in hours for the parallel algorithm

time_maps:
  work:
    monday: [[9, 12.5], [14, 17]]
    tuesday: [[9, 12.5], [14, 17]]
    wednesday: [[9, 12.5], [14, 17]]
    thursday: [[9, 12.5], [14, 17]]
    friday: [[9, 12.5], [14, 17]]

calendars:
  # personal:
  #   calendar_id: primary
  #   event_all_day_is_blocking: true
  #   expiration: 6 # hours
`

// WriteStarter writes the starter config, refusing to clobber an existing one.
func WriteStarter() (string, error) {
	path, err := GetConfigPath()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return path, os.WriteFile(path, []byte(StarterConfig), 0600)
}
