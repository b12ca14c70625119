package scheduler

import (
	"container/list"
	"time"

	"github.com/colonyops/noticeq/internal/core/clock"
	"github.com/colonyops/noticeq/internal/core/eventbus"
	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/colonyops/noticeq/internal/core/present"
	"github.com/rs/zerolog"
)

// displayed is a request that holds a pool slot. It is owned by the
// lifecycle from Entering until Removed.
type displayed struct {
	req      notice.Request
	state    notice.State
	reason   notice.Reason
	artifact present.Artifact
	showing  bool // inside port.Show

	enterTimer   clock.Handle
	dismissTimer clock.Handle
	removalTimer clock.Handle

	slot *list.Element
}

// lifecycle drives displayed notices through
// Entering -> Visible -> Removing -> Removed and owns their timers.
type lifecycle struct {
	clock        clock.Clock
	port         present.Port
	animated     bool
	removalDelay time.Duration
	log          zerolog.Logger
	bus          *eventbus.EventBus

	// release frees the slot of a notice that reached Removed.
	release func(d *displayed)
	// settled runs after a removal timer has released a slot.
	settled func()
}

// activate creates the artifact and starts the enter transition. Without
// animations the notice becomes visible at once; with animations it waits
// two zero-delay turns of the clock so the port can apply its transition.
func (l *lifecycle) activate(d *displayed) {
	d.state = notice.StateEntering

	d.showing = true
	artifact := l.port.Show(d.req)
	d.showing = false
	d.artifact = artifact

	if d.state != notice.StateEntering {
		// Retired from inside Show; the removal skipped the port.
		l.port.Remove(artifact)
		return
	}

	l.bus.PublishNoticeShown(eventbus.NoticeShownPayload{Request: d.req, Persistent: d.req.Persistent})
	if d.state != notice.StateEntering {
		return
	}

	if !l.animated {
		l.enter(d)
		return
	}

	d.enterTimer = l.clock.Schedule(0, func() {
		d.enterTimer = l.clock.Schedule(0, func() {
			d.enterTimer = 0
			l.enter(d)
		})
	})
}

func (l *lifecycle) enter(d *displayed) {
	if d.state != notice.StateEntering {
		return
	}
	d.state = notice.StateVisible

	if e, ok := l.port.(present.Enterer); ok {
		e.Entered(d.artifact)
	}
	l.bus.PublishNoticeVisible(eventbus.NoticeVisiblePayload{Request: d.req})

	if d.req.Persistent {
		return
	}
	l.cancel(&d.dismissTimer)
	d.dismissTimer = l.clock.Schedule(d.req.Duration, func() {
		d.dismissTimer = 0
		l.retire(d, notice.ReasonExpired)
	})
}

// retire moves an Entering or Visible notice to Removing. It reports false
// for a notice that is already on its way out.
func (l *lifecycle) retire(d *displayed, reason notice.Reason) bool {
	if d.state != notice.StateEntering && d.state != notice.StateVisible {
		return false
	}

	l.cancel(&d.enterTimer)
	l.cancel(&d.dismissTimer)

	d.state = notice.StateRemoving
	d.reason = reason

	l.log.Debug().
		Uint64("notice_id", d.req.ID).
		Str("reason", string(reason)).
		Msg("retiring notice")

	if !d.showing {
		l.port.Remove(d.artifact)
	}
	l.bus.PublishNoticeRetiring(eventbus.NoticeRetiringPayload{Request: d.req, Reason: reason})

	l.cancel(&d.removalTimer)
	d.removalTimer = l.clock.Schedule(l.removalDelay, func() {
		d.removalTimer = 0
		l.finalize(d)
	})
	return true
}

func (l *lifecycle) finalize(d *displayed) {
	if d.state != notice.StateRemoving {
		return
	}
	l.remove(d)

	if l.settled != nil {
		l.settled()
	}
}

// forceRemove takes a notice straight to Removed, bypassing its timers,
// and releases its slot synchronously.
func (l *lifecycle) forceRemove(d *displayed, reason notice.Reason) {
	if d.state == notice.StateRemoved {
		return
	}

	l.cancel(&d.enterTimer)
	l.cancel(&d.dismissTimer)
	l.cancel(&d.removalTimer)

	if d.state != notice.StateRemoving {
		d.reason = reason
		if !d.showing {
			l.port.Remove(d.artifact)
		}
		l.bus.PublishNoticeRetiring(eventbus.NoticeRetiringPayload{Request: d.req, Reason: reason})
	}

	l.remove(d)
}

func (l *lifecycle) remove(d *displayed) {
	d.state = notice.StateRemoved
	if l.release != nil {
		l.release(d)
	}
	l.bus.PublishNoticeRemoved(eventbus.NoticeRemovedPayload{Request: d.req, Reason: d.reason})
}

func (l *lifecycle) cancel(h *clock.Handle) {
	if *h != 0 {
		l.clock.Cancel(*h)
		*h = 0
	}
}
