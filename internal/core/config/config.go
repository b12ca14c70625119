// Package config handles configuration loading and validation for noticeq.
package config

import (
	"fmt"
	"maps"
	"os"
	"strings"
	"time"

	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/colonyops/noticeq/internal/core/styles"
	"github.com/colonyops/noticeq/internal/scheduler"
	"gopkg.in/yaml.v3"
)

// DefaultTarget is the presentation target used when none is configured.
const DefaultTarget = "terminal"

// Config holds the application configuration.
type Config struct {
	Theme     string          `yaml:"theme"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Rules     []Rule          `yaml:"rules"`
	Reminders []Reminder      `yaml:"reminders"`
	Feed      FeedConfig      `yaml:"feed"`
}

// SchedulerConfig mirrors [scheduler.Config] in file form.
type SchedulerConfig struct {
	Target        string                        `yaml:"target"`
	MaxVisible    int                           `yaml:"max_visible"`
	MaxPersistent int                           `yaml:"max_persistent"`
	MaxQueueSize  int                           `yaml:"max_queue_size"`
	Durations     map[notice.Kind]time.Duration `yaml:"durations"`
	Animations    *bool                         `yaml:"animations"` // nil = enabled
	RemovalDelay  time.Duration                 `yaml:"removal_delay"`
}

// Rule rewrites or drops notices whose source matches Pattern. Rules are
// evaluated in order and the first match wins.
type Rule struct {
	// Pattern is a doublestar glob matched against the notice source.
	Pattern    string        `yaml:"pattern"`
	Type       notice.Kind   `yaml:"type"`
	Persistent *bool         `yaml:"persistent"`
	Duration   time.Duration `yaml:"duration"`
	Drop       bool          `yaml:"drop"`
}

// Reminder is a notice raised on a cron schedule.
type Reminder struct {
	Name       string      `yaml:"name"`
	Schedule   string      `yaml:"schedule"` // standard cron spec or descriptor (@every 1h)
	Message    string      `yaml:"message"`
	Type       notice.Kind `yaml:"type"`
	Persistent bool        `yaml:"persistent"`
}

// FeedConfig limits how fast scripted and piped notices are submitted.
type FeedConfig struct {
	Rate  float64 `yaml:"rate"` // notices per second, 0 = unlimited
	Burst int     `yaml:"burst"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme: styles.DefaultTheme,
		Scheduler: SchedulerConfig{
			Target:        DefaultTarget,
			MaxVisible:    scheduler.DefaultMaxVisible,
			MaxPersistent: scheduler.DefaultMaxPersistent,
			MaxQueueSize:  scheduler.DefaultMaxQueueSize,
			RemovalDelay:  scheduler.DefaultRemovalDelay,
		},
		Feed: FeedConfig{
			Burst: 1,
		},
	}
}

// Load reads configuration from the given path. If configPath is empty or
// doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Scheduler.Target == "" {
		c.Scheduler.Target = defaults.Scheduler.Target
	}
	if c.Scheduler.MaxVisible == 0 {
		c.Scheduler.MaxVisible = defaults.Scheduler.MaxVisible
	}
	if c.Scheduler.MaxPersistent == 0 {
		c.Scheduler.MaxPersistent = defaults.Scheduler.MaxPersistent
	}
	if c.Scheduler.MaxQueueSize == 0 {
		c.Scheduler.MaxQueueSize = defaults.Scheduler.MaxQueueSize
	}
	if c.Scheduler.RemovalDelay == 0 {
		c.Scheduler.RemovalDelay = defaults.Scheduler.RemovalDelay
	}
	if c.Feed.Burst == 0 {
		c.Feed.Burst = defaults.Feed.Burst
	}
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if _, ok := styles.GetPalette(c.Theme); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", c.Theme, strings.Join(styles.ThemeNames(), ", "))
	}

	s := c.Scheduler
	if s.Target == "" {
		return fmt.Errorf("scheduler.target cannot be empty")
	}
	if s.MaxVisible < 1 {
		return fmt.Errorf("scheduler.max_visible must be at least 1")
	}
	if s.MaxPersistent < 1 {
		return fmt.Errorf("scheduler.max_persistent must be at least 1")
	}
	if s.MaxQueueSize < 1 {
		return fmt.Errorf("scheduler.max_queue_size must be at least 1")
	}
	if s.RemovalDelay < 0 {
		return fmt.Errorf("scheduler.removal_delay cannot be negative")
	}
	for kind, d := range s.Durations {
		if !kind.IsValid() {
			return fmt.Errorf("scheduler.durations: unknown notice kind %q", kind)
		}
		if d <= 0 {
			return fmt.Errorf("scheduler.durations.%s must be positive", kind)
		}
	}

	for i, r := range c.Rules {
		if r.Pattern == "" {
			return fmt.Errorf("rules[%d]: pattern is required", i)
		}
		if r.Type != "" && !r.Type.IsValid() {
			return fmt.Errorf("rules[%d]: unknown notice kind %q", i, r.Type)
		}
		if r.Duration < 0 {
			return fmt.Errorf("rules[%d]: duration cannot be negative", i)
		}
	}

	for i, r := range c.Reminders {
		if r.Schedule == "" {
			return fmt.Errorf("reminders[%d]: schedule is required", i)
		}
		if r.Message == "" {
			return fmt.Errorf("reminders[%d]: message is required", i)
		}
		if r.Type != "" && !r.Type.IsValid() {
			return fmt.Errorf("reminders[%d]: unknown notice kind %q", i, r.Type)
		}
	}

	if c.Feed.Rate < 0 {
		return fmt.Errorf("feed.rate cannot be negative")
	}
	if c.Feed.Burst < 1 {
		return fmt.Errorf("feed.burst must be at least 1")
	}

	return nil
}

// SchedulerConfig converts the file form into a [scheduler.Config].
func (c *Config) SchedulerConfig() scheduler.Config {
	s := c.Scheduler
	return scheduler.Config{
		Target:        s.Target,
		MaxVisible:    s.MaxVisible,
		MaxPersistent: s.MaxPersistent,
		MaxQueueSize:  s.MaxQueueSize,
		Durations:     maps.Clone(s.Durations),
		Animations:    s.Animations,
		RemovalDelay:  s.RemovalDelay,
	}
}
