package notice

import "time"

// Default display durations per kind.
const (
	DefaultErrorDuration   = 5 * time.Second
	DefaultWarningDuration = 4 * time.Second
	DefaultSuccessDuration = 3 * time.Second
	DefaultInfoDuration    = 3 * time.Second
)

// DefaultDurations returns a fresh copy of the built-in duration table.
func DefaultDurations() map[Kind]time.Duration {
	return map[Kind]time.Duration{
		KindError:   DefaultErrorDuration,
		KindWarning: DefaultWarningDuration,
		KindSuccess: DefaultSuccessDuration,
		KindInfo:    DefaultInfoDuration,
	}
}

// Options is the record form of a notice request.
type Options struct {
	Kind        Kind          `json:"type" yaml:"type"`
	Duration    time.Duration `json:"duration" yaml:"duration"` // zero means the kind default
	Persistent  bool          `json:"persistent" yaml:"persistent"`
	Dismissible *bool         `json:"dismissible,omitempty" yaml:"dismissible,omitempty"` // nil means true
	Source      string        `json:"source,omitempty" yaml:"source,omitempty"`
}

// Option configures a request built by [Normalizer.Normalize].
type Option func(*Options)

// WithDuration overrides the display duration.
func WithDuration(d time.Duration) Option {
	return func(o *Options) {
		o.Duration = d
	}
}

// Persistent marks the notice as not auto-dismissing.
func Persistent() Option {
	return func(o *Options) {
		o.Persistent = true
	}
}

// NotDismissible hides the manual dismiss affordance.
func NotDismissible() Option {
	return func(o *Options) {
		f := false
		o.Dismissible = &f
	}
}

// WithSource tags the notice with the producer that raised it.
func WithSource(src string) Option {
	return func(o *Options) {
		o.Source = src
	}
}

// Normalizer turns raw calls into canonical requests. It holds only the
// duration table and has no side effects.
type Normalizer struct {
	durations map[Kind]time.Duration
}

// NewNormalizer builds a normalizer. Overrides replace the default
// duration for their kind; non-positive overrides are ignored.
func NewNormalizer(overrides map[Kind]time.Duration) Normalizer {
	durations := DefaultDurations()
	for k, d := range overrides {
		if k.IsValid() && d > 0 {
			durations[k] = d
		}
	}
	return Normalizer{durations: durations}
}

// Normalize builds a request from a message, a kind and options.
func (n Normalizer) Normalize(message string, kind Kind, opts ...Option) Request {
	o := Options{Kind: kind}
	for _, opt := range opts {
		opt(&o)
	}
	return n.NormalizeOptions(message, o)
}

// NormalizeOptions builds a request from the record calling convention.
func (n Normalizer) NormalizeOptions(message string, o Options) Request {
	kind, ok := ParseKind(string(o.Kind))
	if !ok {
		kind = KindInfo
	}

	req := Request{
		Message:     message,
		Kind:        kind,
		Priority:    kind.Priority(),
		Persistent:  o.Persistent,
		Dismissible: o.Dismissible == nil || *o.Dismissible,
		Source:      o.Source,
	}

	if !req.Persistent {
		req.Duration = o.Duration
		if req.Duration <= 0 {
			req.Duration = n.durationFor(kind)
		}
	}

	return req
}

func (n Normalizer) durationFor(kind Kind) time.Duration {
	if d, ok := n.durations[kind]; ok {
		return d
	}
	if d, ok := DefaultDurations()[kind]; ok {
		return d
	}
	return DefaultInfoDuration
}
