package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/noticeq/internal/core/clock"
	"github.com/colonyops/noticeq/internal/core/eventbus"
	"github.com/colonyops/noticeq/internal/core/history"
	"github.com/colonyops/noticeq/internal/core/logging"
	"github.com/colonyops/noticeq/internal/core/present"
	"github.com/colonyops/noticeq/internal/scheduler"
	"github.com/colonyops/noticeq/internal/store/jsonfile"
)

const (
	idlePoll = 50 * time.Millisecond

	// maxPersistedHistory bounds the history file.
	maxPersistedHistory = 500
)

// stack is a scheduler running on a real-time loop with the event bus and
// history attached. Every scheduler call goes through loop.
type stack struct {
	loop     *clock.Loop
	bus      *eventbus.EventBus
	sched    *scheduler.Scheduler
	history  *history.Log
	registry *present.Registry
}

func newStack(log zerolog.Logger) *stack {
	loop := clock.NewLoop()
	bus := eventbus.New()
	eventbus.RegisterDebugLogger(bus, logging.Sub(log, "events"))

	hist := history.New(history.DefaultLimit, loop.Now)
	hist.Attach(bus)

	registry := present.NewRegistry()
	sched := scheduler.New(loop, registry,
		scheduler.WithLogger(logging.Sub(log, "scheduler")),
		scheduler.WithEventBus(bus),
	)

	return &stack{
		loop:     loop,
		bus:      bus,
		sched:    sched,
		history:  hist,
		registry: registry,
	}
}

// run drives the loop until ctx is done. Cancellation is not an error.
func (s *stack) run(ctx context.Context) error {
	return ignoreCanceled(s.loop.Run(ctx))
}

// init initializes the scheduler on the loop.
func (s *stack) init(ctx context.Context, cfg scheduler.Config) error {
	var ok bool
	if err := s.loop.Do(ctx, func() { ok = s.sched.Init(cfg) }); err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("presentation target %q unavailable", cfg.Target)
	}
	return nil
}

// status reads a snapshot on the loop.
func (s *stack) status(ctx context.Context) (scheduler.Status, error) {
	var st scheduler.Status
	err := s.loop.Do(ctx, func() { st = s.sched.Status() })
	return st, err
}

// waitIdle blocks until no transient notice is on screen. Queued notices
// left at that point are blocked behind the persistent pool or by Disable
// and would never be admitted.
func (s *stack) waitIdle(ctx context.Context) error {
	t := time.NewTicker(idlePoll)
	defer t.Stop()

	for {
		st, err := s.status(ctx)
		if err != nil {
			return err
		}
		if st.Transient == 0 {
			return nil
		}

		select {
		case <-t.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// onChange calls fn on the loop after every event that moves occupancy.
func (s *stack) onChange(fn func(scheduler.Status)) {
	notify := func() { fn(s.sched.Status()) }

	s.bus.SubscribeNoticeQueued(func(eventbus.NoticeQueuedPayload) { notify() })
	s.bus.SubscribeNoticeShown(func(eventbus.NoticeShownPayload) { notify() })
	s.bus.SubscribeNoticeRemoved(func(eventbus.NoticeRemovedPayload) { notify() })
	s.bus.SubscribeNoticeEvicted(func(eventbus.NoticeEvictedPayload) { notify() })
	s.bus.SubscribeNoticeWithdrawn(func(eventbus.NoticeWithdrawnPayload) { notify() })
}

// persist appends this run's history to path. It must not race the loop.
func (s *stack) persist(ctx context.Context, path string, log zerolog.Logger) {
	if path == "" {
		return
	}

	entries := s.history.Recent(s.history.Len())
	store := jsonfile.NewHistoryStore(path)
	if err := store.Save(ctx, entries, maxPersistedHistory); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("history not saved")
		return
	}
	log.Debug().Int("entries", len(entries)).Str("path", path).Msg("history saved")
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
