package eventbus_test

import (
	"testing"

	"github.com/colonyops/noticeq/internal/core/eventbus"
	"github.com/colonyops/noticeq/internal/core/eventbus/testbus"
	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_DeliversInSubscriptionOrder(t *testing.T) {
	bus := eventbus.New()

	var got []string
	bus.SubscribeNoticeShown(func(p eventbus.NoticeShownPayload) {
		got = append(got, "first:"+p.Request.Message)
	})
	bus.SubscribeNoticeShown(func(p eventbus.NoticeShownPayload) {
		got = append(got, "second:"+p.Request.Message)
	})

	bus.PublishNoticeShown(eventbus.NoticeShownPayload{Request: notice.Request{Message: "hi"}})

	assert.Equal(t, []string{"first:hi", "second:hi"}, got)
}

func TestEventBus_PanicDoesNotStopDelivery(t *testing.T) {
	bus := eventbus.New()

	var panicked []eventbus.Event
	bus.OnPanic(func(e eventbus.Event, _ any, _ any) {
		panicked = append(panicked, e)
	})

	delivered := false
	bus.SubscribeNoticeRemoved(func(eventbus.NoticeRemovedPayload) { panic("bad subscriber") })
	bus.SubscribeNoticeRemoved(func(eventbus.NoticeRemovedPayload) { delivered = true })

	require.NotPanics(t, func() {
		bus.PublishNoticeRemoved(eventbus.NoticeRemovedPayload{})
	})
	assert.True(t, delivered)
	assert.Equal(t, []eventbus.Event{eventbus.EventNoticeRemoved}, panicked)
}

func TestEventBus_NilIsNoop(t *testing.T) {
	var bus *eventbus.EventBus
	assert.NotPanics(t, func() {
		bus.PublishNoticeQueued(eventbus.NoticeQueuedPayload{})
	})
}

func TestEventBus_OnSubscribe(t *testing.T) {
	bus := eventbus.New()

	var subscribed []eventbus.Event
	bus.OnSubscribe(func(e eventbus.Event) { subscribed = append(subscribed, e) })

	bus.SubscribeNoticeVisible(func(eventbus.NoticeVisiblePayload) {})
	bus.SubscribeNoticeEvicted(func(eventbus.NoticeEvictedPayload) {})

	assert.Equal(t, []eventbus.Event{eventbus.EventNoticeVisible, eventbus.EventNoticeEvicted}, subscribed)
}

func TestTestbus_Records(t *testing.T) {
	tb := testbus.New(t)

	tb.PublishNoticeQueued(eventbus.NoticeQueuedPayload{})
	tb.PublishNoticeQueued(eventbus.NoticeQueuedPayload{})
	tb.PublishNoticeRejected(eventbus.NoticeRejectedPayload{})

	assert.Equal(t, 2, tb.Count(eventbus.EventNoticeQueued))
	assert.Equal(t, []eventbus.Event{
		eventbus.EventNoticeQueued,
		eventbus.EventNoticeQueued,
		eventbus.EventNoticeRejected,
	}, tb.Names())
	tb.AssertNotPublished(t, eventbus.EventNoticePreempted)

	tb.Reset()
	assert.Empty(t, tb.Events())
}

func TestEvents_CoversEveryEvent(t *testing.T) {
	assert.Len(t, eventbus.Events, 9)
}
