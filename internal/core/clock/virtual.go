package clock

import (
	"container/heap"
	"time"
)

var _ Clock = (*Virtual)(nil)

type virtualTimer struct {
	handle Handle
	at     time.Time
	seq    uint64
	fn     func()
	index  int
}

type timerHeap []*virtualTimer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if !h[i].at.Equal(h[j].at) {
		return h[i].at.Before(h[j].at)
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*virtualTimer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Virtual is a manually advanced clock. Callbacks run on the goroutine that
// calls Advance, in due-time order with scheduling order as tie-break.
// Callbacks may schedule further callbacks; those due within the advanced
// window run in the same Advance call.
type Virtual struct {
	now    time.Time
	seq    uint64
	next   Handle
	timers timerHeap
	byID   map[Handle]*virtualTimer
}

// NewVirtual returns a virtual clock starting at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{
		now:  start,
		byID: make(map[Handle]*virtualTimer),
	}
}

// Now returns the current virtual time.
func (v *Virtual) Now() time.Time {
	return v.now
}

// Schedule registers fn to run d after the current virtual time.
func (v *Virtual) Schedule(d time.Duration, fn func()) Handle {
	if d < 0 {
		d = 0
	}
	v.next++
	v.seq++
	t := &virtualTimer{
		handle: v.next,
		at:     v.now.Add(d),
		seq:    v.seq,
		fn:     fn,
	}
	heap.Push(&v.timers, t)
	v.byID[t.handle] = t
	return t.handle
}

// Cancel removes a pending callback.
func (v *Virtual) Cancel(h Handle) {
	t, ok := v.byID[h]
	if !ok {
		return
	}
	delete(v.byID, h)
	if t.index >= 0 {
		heap.Remove(&v.timers, t.index)
	}
}

// Advance moves the clock forward by d, firing every callback that falls
// due on the way. It returns the number of callbacks fired.
func (v *Virtual) Advance(d time.Duration) int {
	target := v.now.Add(d)
	fired := 0
	for len(v.timers) > 0 {
		t := v.timers[0]
		if t.at.After(target) {
			break
		}
		heap.Pop(&v.timers)
		delete(v.byID, t.handle)
		if t.at.After(v.now) {
			v.now = t.at
		}
		fired++
		t.fn()
	}
	v.now = target
	return fired
}

// Flush fires every callback due at the current instant.
func (v *Virtual) Flush() int {
	return v.Advance(0)
}

// Pending returns the number of scheduled callbacks.
func (v *Virtual) Pending() int {
	return len(v.timers)
}
