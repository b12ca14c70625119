// Package feed turns external inputs into scheduler calls: JSON-lines
// scripts, piped text, cron reminders and source routing rules.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/colonyops/noticeq/internal/scheduler"
)

// Target is the part of the scheduler a feed drives.
type Target interface {
	ShowOptions(message string, o notice.Options) scheduler.Handle
	Dismiss(h scheduler.Handle)
	ClearAll()
	Enable()
	Disable()
}

// Runner serializes calls onto the scheduler goroutine. [clock.Loop]
// implements it.
type Runner interface {
	Post(fn func()) error
	Do(ctx context.Context, fn func()) error
}

// Action is what a step does to the scheduler.
type Action string

const (
	ActionShow    Action = "show"
	ActionDismiss Action = "dismiss"
	ActionClear   Action = "clear"
	ActionEnable  Action = "enable"
	ActionDisable Action = "disable"
)

// IsValid reports whether a is a known action. The empty action means show.
func (a Action) IsValid() bool {
	switch a {
	case "", ActionShow, ActionDismiss, ActionClear, ActionEnable, ActionDisable:
		return true
	default:
		return false
	}
}

// Duration is a time.Duration that decodes from a Go duration string
// ("1.5s") or a number of milliseconds.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*d = Duration(parsed)
		return nil
	}

	ms, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("parse duration %s: expected string or milliseconds", b)
	}
	*d = Duration(time.Duration(ms * float64(time.Millisecond)))
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Step is one scripted scheduler call.
type Step struct {
	// After is the pause before this step, relative to the previous one.
	After  Duration `json:"after,omitempty"`
	Action Action   `json:"action,omitempty"`
	// Ref names the notice created by a show step so a later dismiss step
	// can refer to it.
	Ref string `json:"ref,omitempty"`

	Message     string      `json:"message,omitempty"`
	Type        notice.Kind `json:"type,omitempty"`
	Duration    Duration    `json:"duration,omitempty"`
	Persistent  bool        `json:"persistent,omitempty"`
	Dismissible *bool       `json:"dismissible,omitempty"`
	Source      string      `json:"source,omitempty"`
}

// Options returns the notice options of a show step.
func (s Step) Options() notice.Options {
	return notice.Options{
		Kind:        s.Type,
		Duration:    time.Duration(s.Duration),
		Persistent:  s.Persistent,
		Dismissible: s.Dismissible,
		Source:      s.Source,
	}
}

// Validate checks a single step.
func (s Step) Validate() error {
	if !s.Action.IsValid() {
		return fmt.Errorf("unknown action %q", s.Action)
	}
	if s.After < 0 {
		return fmt.Errorf("after cannot be negative")
	}
	switch s.Action {
	case "", ActionShow:
		if s.Message == "" {
			return fmt.Errorf("show requires a message")
		}
	case ActionDismiss:
		if s.Ref == "" {
			return fmt.Errorf("dismiss requires a ref")
		}
	}
	return nil
}
