// Package eventbus provides a typed publish/subscribe event bus for
// notice lifecycle events.
package eventbus

import "github.com/colonyops/noticeq/internal/core/notice"

// Event names a lifecycle event.
type Event string

const (
	EventNoticeEvicted   Event = "notice.evicted"
	EventNoticePreempted Event = "notice.preempted"
	EventNoticeQueued    Event = "notice.queued"
	EventNoticeRejected  Event = "notice.rejected"
	EventNoticeRemoved   Event = "notice.removed"
	EventNoticeRetiring  Event = "notice.retiring"
	EventNoticeShown     Event = "notice.shown"
	EventNoticeVisible   Event = "notice.visible"
	EventNoticeWithdrawn Event = "notice.withdrawn"
)

// Events lists every event with a zero payload, sorted A-Z.
var Events = map[Event]any{
	EventNoticeEvicted:   NoticeEvictedPayload{},
	EventNoticePreempted: NoticePreemptedPayload{},
	EventNoticeQueued:    NoticeQueuedPayload{},
	EventNoticeRejected:  NoticeRejectedPayload{},
	EventNoticeRemoved:   NoticeRemovedPayload{},
	EventNoticeRetiring:  NoticeRetiringPayload{},
	EventNoticeShown:     NoticeShownPayload{},
	EventNoticeVisible:   NoticeVisiblePayload{},
	EventNoticeWithdrawn: NoticeWithdrawnPayload{},
}

// NoticeQueuedPayload is emitted when a request enters the admission queue.
type NoticeQueuedPayload struct {
	Request notice.Request
	Queued  int // queue length after insertion
}

// NoticeRejectedPayload is emitted when a full queue turns a request away.
type NoticeRejectedPayload struct {
	Request notice.Request
}

// NoticeEvictedPayload is emitted when a queued request is dropped to make
// room for a higher priority one.
type NoticeEvictedPayload struct {
	Request notice.Request
	By      notice.Request
}

// NoticeWithdrawnPayload is emitted when a queued request is dismissed
// before it was ever shown.
type NoticeWithdrawnPayload struct {
	Request notice.Request
}

// NoticeShownPayload is emitted when a request claims a slot and its
// artifact is created.
type NoticeShownPayload struct {
	Request    notice.Request
	Persistent bool
}

// NoticeVisiblePayload is emitted when a notice finishes entering.
type NoticeVisiblePayload struct {
	Request notice.Request
}

// NoticeRetiringPayload is emitted when a notice starts its removal.
type NoticeRetiringPayload struct {
	Request notice.Request
	Reason  notice.Reason
}

// NoticeRemovedPayload is emitted when a notice releases its slot.
type NoticeRemovedPayload struct {
	Request notice.Request
	Reason  notice.Reason
}

// NoticePreemptedPayload is emitted when a displayed notice is forced out
// for a higher priority request.
type NoticePreemptedPayload struct {
	Request notice.Request
	By      notice.Request
}
