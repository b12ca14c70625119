// Package scheduler implements admission control and display scheduling
// for short-lived notices.
//
// Requests enter a bounded priority queue. A dispatcher moves the queue
// head into one of two bounded display pools (transient or persistent)
// whenever a slot is free, preempting a low priority transient notice when
// an error notice would otherwise wait. Each displayed notice is driven
// through Entering, Visible, Removing and Removed by timers on an injected
// clock, and every removal re-runs the dispatcher.
//
// A Scheduler is single-threaded: all methods, and every clock callback,
// must run on the same goroutine. Use a [clock.Loop] to serialize calls
// from other goroutines.
package scheduler

import (
	"github.com/colonyops/noticeq/internal/core/clock"
	"github.com/colonyops/noticeq/internal/core/eventbus"
	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/colonyops/noticeq/internal/core/present"
	"github.com/rs/zerolog"
)

// Handle identifies a submitted notice. The zero Handle means the request
// was rejected.
type Handle uint64

// Status is a read-only snapshot of the scheduler.
type Status struct {
	Queued     int  `json:"queued"`
	Transient  int  `json:"transient"`
	Persistent int  `json:"persistent"`
	Enabled    bool `json:"enabled"`
}

// Scheduler is the admission and display scheduler. The zero value is not
// usable; construct one with [New] and call [Scheduler.Init].
type Scheduler struct {
	clock    clock.Clock
	resolver present.Resolver
	log      zerolog.Logger
	bus      *eventbus.EventBus

	cfg         Config
	initialized bool
	enabled     bool

	normalizer notice.Normalizer
	queue      *admissionQueue
	capacity   *capacity
	lifecycle  *lifecycle
	displayed  map[uint64]*displayed

	nextID uint64

	processing bool
	pending    bool
}

// New creates an uninitialized scheduler. It stays disabled until Init
// resolves a presentation target.
func New(clk clock.Clock, resolver present.Resolver, opts ...Option) *Scheduler {
	o := &Options{Logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}

	return &Scheduler{
		clock:    clk,
		resolver: resolver,
		log:      o.Logger,
		bus:      o.Bus,
	}
}

// Init configures the scheduler and resolves its presentation target. Any
// previous state is destroyed first. It returns false, leaving the
// scheduler disabled, when the target cannot be resolved.
func (s *Scheduler) Init(cfg Config) bool {
	s.Destroy()

	cfg = cfg.withDefaults()

	if s.resolver == nil {
		s.log.Warn().Str("target", cfg.Target).Msg("no presentation resolver; notices disabled")
		return false
	}
	port, err := s.resolver.Resolve(cfg.Target)
	if err != nil || port == nil {
		s.log.Warn().Err(err).Str("target", cfg.Target).Msg("presentation target unavailable; notices disabled")
		return false
	}

	s.cfg = cfg
	s.normalizer = notice.NewNormalizer(cfg.Durations)
	s.queue = newAdmissionQueue(cfg.MaxQueueSize)
	s.capacity = newCapacity(cfg.MaxVisible, cfg.MaxPersistent)
	s.displayed = make(map[uint64]*displayed)
	s.lifecycle = &lifecycle{
		clock:        s.clock,
		port:         port,
		animated:     cfg.AnimationsEnabled(),
		removalDelay: cfg.effectiveRemovalDelay(),
		log:          s.log,
		bus:          s.bus,
		release:      s.release,
		settled:      s.process,
	}
	s.initialized = true
	s.enabled = true

	s.log.Debug().
		Str("target", cfg.Target).
		Int("max_visible", cfg.MaxVisible).
		Int("max_persistent", cfg.MaxPersistent).
		Int("max_queue_size", cfg.MaxQueueSize).
		Bool("animations", cfg.AnimationsEnabled()).
		Msg("notice scheduler initialized")
	return true
}

// Show submits a notice of the given kind.
func (s *Scheduler) Show(message string, kind notice.Kind, opts ...notice.Option) Handle {
	return s.submit(s.normalizer.Normalize(message, kind, opts...))
}

// ShowOptions submits a notice using the record calling convention.
func (s *Scheduler) ShowOptions(message string, o notice.Options) Handle {
	return s.submit(s.normalizer.NormalizeOptions(message, o))
}

// Success submits a success notice.
func (s *Scheduler) Success(message string, opts ...notice.Option) Handle {
	return s.Show(message, notice.KindSuccess, opts...)
}

// Error submits an error notice.
func (s *Scheduler) Error(message string, opts ...notice.Option) Handle {
	return s.Show(message, notice.KindError, opts...)
}

// Warning submits a warning notice.
func (s *Scheduler) Warning(message string, opts ...notice.Option) Handle {
	return s.Show(message, notice.KindWarning, opts...)
}

// Info submits an info notice.
func (s *Scheduler) Info(message string, opts ...notice.Option) Handle {
	return s.Show(message, notice.KindInfo, opts...)
}

func (s *Scheduler) submit(req notice.Request) Handle {
	if !s.initialized {
		s.log.Debug().Str("message", req.Message).Msg("scheduler not initialized; notice dropped")
		return 0
	}

	s.nextID++
	req.ID = s.nextID
	req.Seq = s.nextID
	req.EnqueuedAt = s.clock.Now()

	victim, evicted, ok := s.queue.enqueue(req)
	if !ok {
		s.log.Debug().
			Uint64("notice_id", req.ID).
			Str("kind", string(req.Kind)).
			Int("queued", s.queue.len()).
			Msg("admission queue full; notice rejected")
		s.bus.PublishNoticeRejected(eventbus.NoticeRejectedPayload{Request: req})
		return 0
	}

	if evicted {
		s.log.Debug().
			Uint64("notice_id", victim.ID).
			Uint64("by", req.ID).
			Msg("queued notice evicted")
		s.bus.PublishNoticeEvicted(eventbus.NoticeEvictedPayload{Request: victim, By: req})
	}
	s.bus.PublishNoticeQueued(eventbus.NoticeQueuedPayload{Request: req, Queued: s.queue.len()})

	s.process()
	return Handle(req.ID)
}

// Dismiss retires a displayed notice or withdraws a queued one. Unknown
// handles and notices already being removed are ignored.
func (s *Scheduler) Dismiss(h Handle) {
	if !s.initialized || h == 0 {
		return
	}
	id := uint64(h)

	if d, ok := s.displayed[id]; ok {
		s.lifecycle.retire(d, notice.ReasonDismissed)
		return
	}

	if req, ok := s.queue.remove(id); ok {
		s.log.Debug().Uint64("notice_id", id).Msg("queued notice withdrawn")
		s.bus.PublishNoticeWithdrawn(eventbus.NoticeWithdrawnPayload{Request: req})
	}
}

// ClearAll empties the queue and force-retires every displayed notice.
func (s *Scheduler) ClearAll() {
	if !s.initialized {
		return
	}

	s.queue.clear()
	for _, d := range s.capacity.all() {
		s.lifecycle.forceRemove(d, notice.ReasonCleared)
	}
}

// Enable resumes admission and runs the dispatcher once.
func (s *Scheduler) Enable() {
	if !s.initialized {
		return
	}
	s.enabled = true
	s.process()
}

// Disable stops admission. Displayed notices and their timers are kept.
func (s *Scheduler) Disable() {
	s.enabled = false
}

// Destroy cancels every timer, discards all state and leaves the scheduler
// uninitialized.
func (s *Scheduler) Destroy() {
	if !s.initialized {
		return
	}
	s.ClearAll()
	s.initialized = false
	s.enabled = false
	s.lifecycle = nil
}

// Status returns a snapshot of queue and pool occupancy.
func (s *Scheduler) Status() Status {
	if !s.initialized {
		return Status{}
	}
	return Status{
		Queued:     s.queue.len(),
		Transient:  s.capacity.transient.len(),
		Persistent: s.capacity.persistent.len(),
		Enabled:    s.enabled,
	}
}

// State returns the lifecycle state of a live notice. Notices that have
// finished, or were never accepted, report StateUnknown.
func (s *Scheduler) State(h Handle) notice.State {
	if !s.initialized {
		return notice.StateUnknown
	}
	if d, ok := s.displayed[uint64(h)]; ok {
		return d.state
	}
	if s.queue.contains(uint64(h)) {
		return notice.StateQueued
	}
	return notice.StateUnknown
}

// Queued returns the waiting requests in admission order.
func (s *Scheduler) Queued() []notice.Request {
	if !s.initialized {
		return nil
	}
	return s.queue.snapshot()
}

// process is the dispatcher. Calls made while it is already running, for
// example from a port or subscriber, only mark it pending; the running
// call then re-reads live state and goes again.
func (s *Scheduler) process() {
	if s.processing {
		s.pending = true
		return
	}

	s.processing = true
	defer func() { s.processing = false }()

	for {
		s.pending = false
		s.drain()
		if !s.pending {
			return
		}
	}
}

// drain admits queue heads while slots are free, preempting for error
// notices. Every admission shrinks the queue and every preemption frees
// exactly the slot the next admission takes, so the loop terminates.
func (s *Scheduler) drain() {
	for s.initialized && s.enabled {
		head, ok := s.queue.peek()
		if !ok {
			return
		}

		if s.capacity.canAdmit(head) {
			s.queue.dequeue()
			s.admit(head)
			continue
		}

		victim := s.capacity.findPreemptionCandidate(head)
		if victim == nil {
			return
		}
		s.preempt(victim, head)
	}
}

func (s *Scheduler) admit(req notice.Request) {
	d := &displayed{req: req}
	s.capacity.admit(d)
	s.displayed[req.ID] = d

	s.log.Debug().
		Uint64("notice_id", req.ID).
		Str("kind", string(req.Kind)).
		Bool("persistent", req.Persistent).
		Msg("notice admitted")

	s.lifecycle.activate(d)
}

func (s *Scheduler) preempt(victim *displayed, by notice.Request) {
	s.log.Debug().
		Uint64("notice_id", victim.req.ID).
		Uint64("by", by.ID).
		Msg("preempting notice")

	s.bus.PublishNoticePreempted(eventbus.NoticePreemptedPayload{Request: victim.req, By: by})
	s.lifecycle.forceRemove(victim, notice.ReasonPreempted)
}

func (s *Scheduler) release(d *displayed) {
	s.capacity.release(d)
	delete(s.displayed, d.req.ID)
}
