package scheduler

import (
	"time"

	"github.com/colonyops/noticeq/internal/core/eventbus"
	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/rs/zerolog"
)

// Defaults applied by [Config] for unset or non-positive fields.
const (
	DefaultMaxVisible    = 3
	DefaultMaxPersistent = 2
	DefaultMaxQueueSize  = 15
	DefaultRemovalDelay  = 200 * time.Millisecond
)

// Config configures a [Scheduler] at Init time.
type Config struct {
	// Target names the presentation port to resolve. Required.
	Target        string
	MaxVisible    int
	MaxPersistent int
	MaxQueueSize  int
	// Durations overrides the default display duration per kind.
	Durations map[notice.Kind]time.Duration
	// Animations enables enter transitions and the removal delay.
	// nil means enabled.
	Animations *bool
	// RemovalDelay is the removal confirmation delay used when animations
	// are enabled. Without animations it is always zero.
	RemovalDelay time.Duration
}

// AnimationsEnabled reports the effective animation setting.
func (c Config) AnimationsEnabled() bool {
	return c.Animations == nil || *c.Animations
}

// withDefaults returns a copy with defaults filled in.
func (c Config) withDefaults() Config {
	if c.MaxVisible <= 0 {
		c.MaxVisible = DefaultMaxVisible
	}
	if c.MaxPersistent <= 0 {
		c.MaxPersistent = DefaultMaxPersistent
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = DefaultMaxQueueSize
	}
	if c.RemovalDelay <= 0 {
		c.RemovalDelay = DefaultRemovalDelay
	}
	return c
}

func (c Config) effectiveRemovalDelay() time.Duration {
	if !c.AnimationsEnabled() {
		return 0
	}
	return c.RemovalDelay
}

// Options holds construction options for a [Scheduler].
type Options struct {
	Logger zerolog.Logger
	Bus    *eventbus.EventBus
}

// Option is a function that configures [Options].
type Option func(*Options)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithEventBus publishes lifecycle events to bus.
func WithEventBus(bus *eventbus.EventBus) Option {
	return func(o *Options) {
		o.Bus = bus
	}
}
