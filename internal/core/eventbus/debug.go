package eventbus

import (
	"fmt"

	"github.com/rs/zerolog"
)

// RegisterDebugLogger registers bus hooks that log all event activity at
// debug level and report subscriber panics as errors.
func RegisterDebugLogger(bus *EventBus, logger zerolog.Logger) {
	bus.OnPublish(func(event Event, payload any) {
		e := logger.Debug().Str("event", string(event))
		if id, ok := requestID(payload); ok {
			e = e.Uint64("notice_id", id)
		}
		e.Msg("event fired")
	})

	bus.OnPanic(func(event Event, _ any, recovered any) {
		logger.Error().
			Str("event", string(event)).
			Str("panic", fmt.Sprint(recovered)).
			Msg("subscriber panicked")
	})
}

func requestID(payload any) (uint64, bool) {
	switch p := payload.(type) {
	case NoticeQueuedPayload:
		return p.Request.ID, true
	case NoticeRejectedPayload:
		return p.Request.ID, true
	case NoticeEvictedPayload:
		return p.Request.ID, true
	case NoticeWithdrawnPayload:
		return p.Request.ID, true
	case NoticeShownPayload:
		return p.Request.ID, true
	case NoticeVisiblePayload:
		return p.Request.ID, true
	case NoticeRetiringPayload:
		return p.Request.ID, true
	case NoticeRemovedPayload:
		return p.Request.ID, true
	case NoticePreemptedPayload:
		return p.Request.ID, true
	default:
		return 0, false
	}
}
