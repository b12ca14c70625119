package clock

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestVirtual_FiresInDueOrder(t *testing.T) {
	v := NewVirtual(epoch)

	var got []string
	v.Schedule(300*time.Millisecond, func() { got = append(got, "c") })
	v.Schedule(100*time.Millisecond, func() { got = append(got, "a") })
	v.Schedule(200*time.Millisecond, func() { got = append(got, "b") })
	v.Schedule(100*time.Millisecond, func() { got = append(got, "a2") })

	fired := v.Advance(250 * time.Millisecond)

	assert.Equal(t, 3, fired)
	assert.Equal(t, []string{"a", "a2", "b"}, got)
	assert.Equal(t, epoch.Add(250*time.Millisecond), v.Now())
	assert.Equal(t, 1, v.Pending())
}

func TestVirtual_Cancel(t *testing.T) {
	v := NewVirtual(epoch)

	called := false
	h := v.Schedule(time.Second, func() { called = true })
	v.Cancel(h)
	v.Cancel(h)      // idempotent
	v.Cancel(123456) // unknown

	v.Advance(2 * time.Second)
	assert.False(t, called)
	assert.Zero(t, v.Pending())
}

func TestVirtual_CancelAfterFire(t *testing.T) {
	v := NewVirtual(epoch)

	count := 0
	h := v.Schedule(0, func() { count++ })
	v.Flush()
	v.Cancel(h)
	v.Flush()

	assert.Equal(t, 1, count)
}

func TestVirtual_NestedScheduling(t *testing.T) {
	v := NewVirtual(epoch)

	var at []time.Duration
	v.Schedule(100*time.Millisecond, func() {
		at = append(at, v.Now().Sub(epoch))
		v.Schedule(50*time.Millisecond, func() {
			at = append(at, v.Now().Sub(epoch))
		})
		v.Schedule(time.Second, func() {
			at = append(at, v.Now().Sub(epoch))
		})
	})

	v.Advance(200 * time.Millisecond)

	assert.Equal(t, []time.Duration{100 * time.Millisecond, 150 * time.Millisecond}, at)
	assert.Equal(t, 1, v.Pending())
}

func TestVirtual_ZeroDelayChain(t *testing.T) {
	v := NewVirtual(epoch)

	steps := 0
	v.Schedule(0, func() {
		steps++
		v.Schedule(0, func() { steps++ })
	})

	assert.Equal(t, 2, v.Flush())
	assert.Equal(t, 2, steps)
	assert.Equal(t, epoch, v.Now())
}

func runLoop(t *testing.T) *Loop {
	t.Helper()

	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = l.Run(ctx)
	}()

	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l
}

func TestLoop_Do(t *testing.T) {
	l := runLoop(t)

	ran := false
	require.NoError(t, l.Do(context.Background(), func() { ran = true }))
	assert.True(t, ran)
}

func TestLoop_ScheduleRunsOnLoop(t *testing.T) {
	l := runLoop(t)

	fired := make(chan struct{})
	l.Schedule(10*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}
}

func TestLoop_CallbacksAreSerialized(t *testing.T) {
	l := runLoop(t)

	var (
		mu      sync.Mutex
		active  int
		overlap bool
		wg      sync.WaitGroup
	)

	for range 20 {
		wg.Add(1)
		l.Schedule(time.Millisecond, func() {
			defer wg.Done()
			mu.Lock()
			active++
			if active > 1 {
				overlap = true
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		})
	}

	wg.Wait()
	assert.False(t, overlap)
}

func TestLoop_Cancel(t *testing.T) {
	l := runLoop(t)

	var called bool
	h := l.Schedule(20*time.Millisecond, func() { called = true })
	l.Cancel(h)

	time.Sleep(60 * time.Millisecond)
	require.NoError(t, l.Do(context.Background(), func() {}))
	assert.False(t, called)
}

func TestLoop_CancelZeroDelayFromLoop(t *testing.T) {
	l := runLoop(t)

	var called bool
	require.NoError(t, l.Do(context.Background(), func() {
		h := l.Schedule(0, func() { called = true })
		l.Cancel(h)
	}))
	require.NoError(t, l.Do(context.Background(), func() {}))
	assert.False(t, called)
}

func TestLoop_PostAfterStop(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	assert.ErrorIs(t, l.Post(func() {}), ErrLoopStopped)
	assert.Zero(t, l.Schedule(time.Second, func() {}))
}
