package eventbus

import "sync"

// EventBus delivers events synchronously, in subscription order, on the
// publishing goroutine. A subscriber panic is recovered and reported
// through OnPanic hooks so one bad subscriber cannot break the publisher.
// Publishing on a nil *EventBus is a no-op.
type EventBus struct {
	mu    sync.RWMutex
	subs  map[Event][]func(any)
	hooks hooks
}

// New creates an empty bus.
func New() *EventBus {
	return &EventBus{subs: make(map[Event][]func(any))}
}

func subscribe[T any](bus *EventBus, event Event, fn func(T)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], func(payload any) {
		fn(payload.(T))
	})
	bus.mu.Unlock()
	bus.runOnSubscribe(event)
}

func (bus *EventBus) send(event Event, payload any) {
	if bus == nil {
		return
	}

	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[event]))
	copy(subs, bus.subs[event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		bus.deliver(event, payload, fn)
	}
	bus.runOnPublish(event, payload)
}

func (bus *EventBus) deliver(event Event, payload any, fn func(any)) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(event, payload, r)
		}
	}()
	fn(payload)
}

func (bus *EventBus) SubscribeNoticeQueued(fn func(NoticeQueuedPayload)) {
	subscribe(bus, EventNoticeQueued, fn)
}

func (bus *EventBus) PublishNoticeQueued(p NoticeQueuedPayload) {
	bus.send(EventNoticeQueued, p)
}

func (bus *EventBus) SubscribeNoticeRejected(fn func(NoticeRejectedPayload)) {
	subscribe(bus, EventNoticeRejected, fn)
}

func (bus *EventBus) PublishNoticeRejected(p NoticeRejectedPayload) {
	bus.send(EventNoticeRejected, p)
}

func (bus *EventBus) SubscribeNoticeEvicted(fn func(NoticeEvictedPayload)) {
	subscribe(bus, EventNoticeEvicted, fn)
}

func (bus *EventBus) PublishNoticeEvicted(p NoticeEvictedPayload) {
	bus.send(EventNoticeEvicted, p)
}

func (bus *EventBus) SubscribeNoticeWithdrawn(fn func(NoticeWithdrawnPayload)) {
	subscribe(bus, EventNoticeWithdrawn, fn)
}

func (bus *EventBus) PublishNoticeWithdrawn(p NoticeWithdrawnPayload) {
	bus.send(EventNoticeWithdrawn, p)
}

func (bus *EventBus) SubscribeNoticeShown(fn func(NoticeShownPayload)) {
	subscribe(bus, EventNoticeShown, fn)
}

func (bus *EventBus) PublishNoticeShown(p NoticeShownPayload) {
	bus.send(EventNoticeShown, p)
}

func (bus *EventBus) SubscribeNoticeVisible(fn func(NoticeVisiblePayload)) {
	subscribe(bus, EventNoticeVisible, fn)
}

func (bus *EventBus) PublishNoticeVisible(p NoticeVisiblePayload) {
	bus.send(EventNoticeVisible, p)
}

func (bus *EventBus) SubscribeNoticeRetiring(fn func(NoticeRetiringPayload)) {
	subscribe(bus, EventNoticeRetiring, fn)
}

func (bus *EventBus) PublishNoticeRetiring(p NoticeRetiringPayload) {
	bus.send(EventNoticeRetiring, p)
}

func (bus *EventBus) SubscribeNoticeRemoved(fn func(NoticeRemovedPayload)) {
	subscribe(bus, EventNoticeRemoved, fn)
}

func (bus *EventBus) PublishNoticeRemoved(p NoticeRemovedPayload) {
	bus.send(EventNoticeRemoved, p)
}

func (bus *EventBus) SubscribeNoticePreempted(fn func(NoticePreemptedPayload)) {
	subscribe(bus, EventNoticePreempted, fn)
}

func (bus *EventBus) PublishNoticePreempted(p NoticePreemptedPayload) {
	bus.send(EventNoticePreempted, p)
}
