package feed

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/colonyops/noticeq/internal/core/config"
	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayer_Play(t *testing.T) {
	target := &fakeTarget{}
	p := NewPlayer(target, &inlineRunner{}, config.FeedConfig{Burst: 1})

	err := p.Play(t.Context(), []Step{
		{Message: "first", Ref: "a"},
		{Action: ActionDisable},
		{Message: "second", Type: notice.KindError},
		{Action: ActionEnable},
		{Action: ActionDismiss, Ref: "a"},
		{Action: ActionDismiss, Ref: "missing"},
		{Action: ActionClear},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"show:first", "disable", "show:second", "enable", "dismiss:1", "clear",
	}, target.Calls())
	assert.Equal(t, notice.KindError, target.shown[1].Kind)
}

func TestPlayer_RouterDrops(t *testing.T) {
	target := &fakeTarget{}
	router, err := NewRouter([]config.Rule{{Pattern: "spam/**", Drop: true}})
	require.NoError(t, err)

	var buf bytes.Buffer
	p := NewPlayer(target, &inlineRunner{}, config.FeedConfig{},
		WithRouter(router), WithLogger(zerolog.New(&buf)))

	require.NoError(t, p.Play(t.Context(), []Step{
		{Message: "dropped", Source: "spam/bot", Ref: "x"},
		{Message: "kept", Source: "ops"},
		{Action: ActionDismiss, Ref: "x"},
	}))

	assert.Equal(t, []string{"show:kept"}, target.Calls())
	assert.Contains(t, buf.String(), "notice dropped by rule")
}

func TestPlayer_HonorsDelaysWithSpeed(t *testing.T) {
	target := &fakeTarget{}
	p := NewPlayer(target, &inlineRunner{}, config.FeedConfig{}, WithSpeed(100))

	start := time.Now()
	require.NoError(t, p.Play(t.Context(), []Step{
		{Message: "a"},
		{After: Duration(2 * time.Second), Message: "b"},
	}))

	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
	assert.Equal(t, []string{"show:a", "show:b"}, target.Calls())
}

func TestPlayer_RateLimit(t *testing.T) {
	target := &fakeTarget{}
	p := NewPlayer(target, &inlineRunner{}, config.FeedConfig{Rate: 20, Burst: 1})

	start := time.Now()
	require.NoError(t, p.Play(t.Context(), []Step{
		{Message: "1"}, {Message: "2"}, {Message: "3"},
	}))

	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond, "two waits at 20/s")
	assert.Len(t, target.Calls(), 3)
}

func TestPlayer_CancelledContext(t *testing.T) {
	target := &fakeTarget{}
	p := NewPlayer(target, &inlineRunner{}, config.FeedConfig{})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := p.Play(ctx, []Step{{After: Duration(time.Hour), Message: "never"}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "step 1")
	assert.Empty(t, target.Calls())
}

func TestPlayer_Stream(t *testing.T) {
	target := &fakeTarget{}
	var buf bytes.Buffer
	p := NewPlayer(target, &inlineRunner{}, config.FeedConfig{}, WithLogger(zerolog.New(&buf)))

	input := strings.Join([]string{
		"plain message",
		"",
		"error: broken",
		`{"action":"dismiss"}`,
		`{"message":"tagged","source":"ci"}`,
	}, "\n")

	require.NoError(t, p.Stream(t.Context(), strings.NewReader(input)))

	assert.Equal(t, []string{"show:plain message", "show:broken", "show:tagged"}, target.Calls())
	assert.Equal(t, "stdin", target.shown[0].Source)
	assert.Equal(t, notice.KindError, target.shown[1].Kind)
	assert.Equal(t, "ci", target.shown[2].Source)
	assert.Contains(t, buf.String(), "skipping input line")
}

func TestNewLimiter(t *testing.T) {
	assert.True(t, NewLimiter(config.FeedConfig{}).Allow())
	l := NewLimiter(config.FeedConfig{Rate: 1, Burst: 2})
	assert.Equal(t, 2, l.Burst())
}
