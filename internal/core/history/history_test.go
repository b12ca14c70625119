package history_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/colonyops/noticeq/internal/core/eventbus"
	"github.com/colonyops/noticeq/internal/core/history"
	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return epoch }

func messages(entries []history.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func TestLog_RecentNewestFirst(t *testing.T) {
	l := history.New(5, fixedNow)
	for _, m := range []string{"a", "b", "c"} {
		l.Add(history.Entry{Message: m})
	}

	assert.Equal(t, []string{"c", "b", "a"}, messages(l.Recent(0)))
	assert.Equal(t, []string{"c", "b"}, messages(l.Recent(2)))
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, epoch, l.Recent(1)[0].At)
}

func TestLog_Wraps(t *testing.T) {
	l := history.New(3, fixedNow)
	for _, m := range []string{"a", "b", "c", "d", "e"} {
		l.Add(history.Entry{Message: m})
	}

	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []string{"e", "d", "c"}, messages(l.Recent(10)))
}

func TestLog_Clear(t *testing.T) {
	l := history.New(2, nil)
	l.Add(history.Entry{Message: "a"})
	l.Add(history.Entry{Message: "b"})
	l.Add(history.Entry{Message: "c"})

	l.Clear()
	assert.Zero(t, l.Len())
	assert.Empty(t, l.Recent(0))

	l.Add(history.Entry{Message: "d"})
	assert.Equal(t, []string{"d"}, messages(l.Recent(0)))
}

func TestLog_DefaultLimit(t *testing.T) {
	l := history.New(0, fixedNow)
	for range history.DefaultLimit + 5 {
		l.Add(history.Entry{})
	}
	assert.Equal(t, history.DefaultLimit, l.Len())
}

func TestLog_Attach(t *testing.T) {
	bus := eventbus.New()
	l := history.New(10, fixedNow)
	l.Attach(bus)

	req := func(id uint64, msg string) notice.Request {
		return notice.Request{ID: id, Message: msg, Kind: notice.KindInfo, Source: "test"}
	}

	bus.PublishNoticeQueued(eventbus.NoticeQueuedPayload{Request: req(1, "queued only")})
	bus.PublishNoticeRemoved(eventbus.NoticeRemovedPayload{Request: req(2, "shown"), Reason: notice.ReasonExpired})
	bus.PublishNoticeEvicted(eventbus.NoticeEvictedPayload{Request: req(3, "evicted"), By: req(9, "x")})
	bus.PublishNoticeRejected(eventbus.NoticeRejectedPayload{Request: req(4, "rejected")})
	bus.PublishNoticeWithdrawn(eventbus.NoticeWithdrawnPayload{Request: req(5, "withdrawn")})

	entries := l.Recent(0)
	require.Len(t, entries, 4)
	assert.Equal(t, []string{"withdrawn", "rejected", "evicted", "shown"}, messages(entries))

	shown := entries[3]
	assert.True(t, shown.Shown())
	assert.Equal(t, notice.ReasonExpired, shown.Reason)
	assert.Equal(t, "test", shown.Source)
	assert.False(t, entries[0].Shown())

	assert.Equal(t, map[notice.State]int{
		notice.StateRemoved:   1,
		notice.StateEvicted:   1,
		notice.StateRejected:  1,
		notice.StateWithdrawn: 1,
	}, l.Counts())
}

func TestLog_AttachNilBus(t *testing.T) {
	l := history.New(1, nil)
	l.Attach(nil)
	assert.Zero(t, l.Len())
}

func TestEntry_JSON(t *testing.T) {
	e := history.Entry{ID: 7, Message: "m", Kind: notice.KindError, Outcome: notice.StateEvicted, At: epoch}

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"outcome":"evicted"`)
	assert.Contains(t, string(data), `"type":"error"`)
	assert.NotContains(t, string(data), "reason")
}
