// Package notice defines the request model for short-lived status
// messages: their kinds, priority classes and lifecycle states.
package notice

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the type tag of a notice.
type Kind string

const (
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
	KindWarning Kind = "warning"
	KindError   Kind = "error"
)

// Kinds returns every known kind, lowest priority first.
func Kinds() []Kind {
	return []Kind{KindInfo, KindSuccess, KindWarning, KindError}
}

// ParseKind maps a type tag to a Kind. Matching is case-insensitive. An
// unknown or empty tag yields KindInfo and ok=false so callers can report
// it instead of silently accepting a typo.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindInfo:
		return KindInfo, true
	case KindSuccess:
		return KindSuccess, true
	case KindWarning:
		return KindWarning, true
	case KindError:
		return KindError, true
	default:
		return KindInfo, false
	}
}

// Priority returns the admission class of the kind.
func (k Kind) Priority() Priority {
	switch k {
	case KindError:
		return PriorityError
	case KindWarning:
		return PriorityWarning
	case KindSuccess, KindInfo:
		return PriorityLow
	default:
		return PriorityLow
	}
}

// IsValid reports whether k is one of the known kinds.
func (k Kind) IsValid() bool {
	_, ok := ParseKind(string(k))
	return ok && Kind(strings.ToLower(string(k))) == k
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown tags are an
// error here since they only reach this path from config or scripts.
func (k *Kind) UnmarshalText(b []byte) error {
	parsed, ok := ParseKind(string(b))
	if !ok {
		return fmt.Errorf("unknown notice kind %q", string(b))
	}
	*k = parsed
	return nil
}

// Priority is the ordered admission class of a request. Higher values win.
type Priority int

const (
	PriorityLow     Priority = 1 // info and success
	PriorityWarning Priority = 2
	PriorityError   Priority = 3
)

// PriorityMax is the only class allowed to preempt displayed notices.
const PriorityMax = PriorityError

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityWarning:
		return "warning"
	case PriorityError:
		return "error"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// Request is a normalized notice request. It is passed by value and never
// mutated after the scheduler stamps it on enqueue.
type Request struct {
	ID          uint64
	Message     string
	Kind        Kind
	Priority    Priority
	Duration    time.Duration // zero when Persistent
	Persistent  bool
	Dismissible bool
	Source      string
	EnqueuedAt  time.Time
	Seq         uint64
}

// Before reports whether r sorts ahead of other in admission order:
// higher priority first, then earlier arrival.
func (r Request) Before(other Request) bool {
	if r.Priority != other.Priority {
		return r.Priority > other.Priority
	}
	return r.Seq < other.Seq
}

// State is the lifecycle state of a request.
type State int

const (
	StateUnknown State = iota
	StateQueued
	StateEvicted
	StateRejected
	StateWithdrawn
	StateEntering
	StateVisible
	StateRemoving
	StateRemoved
)

var stateNames = map[State]string{
	StateUnknown:   "unknown",
	StateQueued:    "queued",
	StateEvicted:   "evicted",
	StateRejected:  "rejected",
	StateWithdrawn: "withdrawn",
	StateEntering:  "entering",
	StateVisible:   "visible",
	StateRemoving:  "removing",
	StateRemoved:   "removed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *State) UnmarshalText(b []byte) error {
	for state, name := range stateNames {
		if name == string(b) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown notice state %q", string(b))
}

// Displayed reports whether the state occupies a pool slot.
func (s State) Displayed() bool {
	return s == StateEntering || s == StateVisible || s == StateRemoving
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	switch s {
	case StateEvicted, StateRejected, StateWithdrawn, StateRemoved:
		return true
	default:
		return false
	}
}

// Reason explains why a displayed notice left the screen.
type Reason string

const (
	ReasonExpired   Reason = "expired"
	ReasonDismissed Reason = "dismissed"
	ReasonPreempted Reason = "preempted"
	ReasonCleared   Reason = "cleared"
)
