package scheduler

import (
	"testing"

	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func req(id uint64, kind notice.Kind) notice.Request {
	return notice.Request{ID: id, Seq: id, Kind: kind, Priority: kind.Priority(), Message: string(kind)}
}

func ids(reqs []notice.Request) []uint64 {
	out := make([]uint64, len(reqs))
	for i, r := range reqs {
		out[i] = r.ID
	}
	return out
}

func TestAdmissionQueue_Order(t *testing.T) {
	q := newAdmissionQueue(10)

	for _, r := range []notice.Request{
		req(1, notice.KindInfo),
		req(2, notice.KindError),
		req(3, notice.KindWarning),
		req(4, notice.KindSuccess),
		req(5, notice.KindError),
	} {
		_, _, ok := q.enqueue(r)
		require.True(t, ok)
	}

	assert.Equal(t, []uint64{2, 5, 3, 1, 4}, ids(q.snapshot()))

	head, ok := q.peek()
	require.True(t, ok)
	assert.Equal(t, uint64(2), head.ID)
	assert.Equal(t, 5, q.len(), "peek does not remove")

	head, ok = q.dequeue()
	require.True(t, ok)
	assert.Equal(t, uint64(2), head.ID)
	assert.Equal(t, []uint64{5, 3, 1, 4}, ids(q.snapshot()))
}

func TestAdmissionQueue_EvictsOldestOfLowestTier(t *testing.T) {
	q := newAdmissionQueue(3)
	q.enqueue(req(1, notice.KindWarning))
	q.enqueue(req(2, notice.KindInfo))
	q.enqueue(req(3, notice.KindSuccess))

	victim, evicted, ok := q.enqueue(req(4, notice.KindWarning))

	require.True(t, ok)
	require.True(t, evicted)
	assert.Equal(t, uint64(2), victim.ID)
	assert.Equal(t, []uint64{1, 4, 3}, ids(q.snapshot()))
}

func TestAdmissionQueue_RejectsEqualOrLower(t *testing.T) {
	q := newAdmissionQueue(2)
	q.enqueue(req(1, notice.KindWarning))
	q.enqueue(req(2, notice.KindWarning))

	_, evicted, ok := q.enqueue(req(3, notice.KindWarning))
	assert.False(t, ok)
	assert.False(t, evicted)

	_, _, ok = q.enqueue(req(4, notice.KindInfo))
	assert.False(t, ok)

	assert.Equal(t, []uint64{1, 2}, ids(q.snapshot()))
}

func TestAdmissionQueue_RemoveAndClear(t *testing.T) {
	q := newAdmissionQueue(5)
	q.enqueue(req(1, notice.KindInfo))
	q.enqueue(req(2, notice.KindInfo))
	q.enqueue(req(3, notice.KindInfo))

	got, ok := q.remove(2)
	require.True(t, ok)
	assert.Equal(t, uint64(2), got.ID)
	assert.False(t, q.contains(2))
	assert.True(t, q.contains(3))

	_, ok = q.remove(99)
	assert.False(t, ok)

	q.clear()
	assert.Zero(t, q.len())
	_, ok = q.peek()
	assert.False(t, ok)
	_, ok = q.dequeue()
	assert.False(t, ok)
}

func TestAdmissionQueue_ZeroLimitRejects(t *testing.T) {
	q := newAdmissionQueue(0)
	_, _, ok := q.enqueue(req(1, notice.KindError))
	assert.False(t, ok)
}

func TestCapacity_AdmitRelease(t *testing.T) {
	c := newCapacity(2, 1)

	a := &displayed{req: req(1, notice.KindInfo)}
	p := &displayed{req: notice.Request{ID: 2, Kind: notice.KindInfo, Persistent: true}}

	assert.True(t, c.canAdmit(a.req))
	c.admit(a)
	c.admit(p)

	assert.Equal(t, 1, c.transient.len())
	assert.Equal(t, 1, c.persistent.len())
	assert.False(t, c.canAdmit(notice.Request{Persistent: true}))
	assert.True(t, c.canAdmit(notice.Request{}))

	c.release(a)
	c.release(a) // second release is a no-op
	assert.Zero(t, c.transient.len())
	assert.Len(t, c.all(), 1)
}

func TestCapacity_FindPreemptionCandidate(t *testing.T) {
	tests := map[string]struct {
		displayed []notice.Kind
		incoming  notice.Request
		want      uint64 // 0 = none
	}{
		"first low priority in admission order": {
			displayed: []notice.Kind{notice.KindWarning, notice.KindSuccess, notice.KindInfo},
			incoming:  req(10, notice.KindError),
			want:      2,
		},
		"falls back to oldest": {
			displayed: []notice.Kind{notice.KindError, notice.KindWarning, notice.KindWarning},
			incoming:  req(10, notice.KindError),
			want:      1,
		},
		"only errors may preempt": {
			displayed: []notice.Kind{notice.KindInfo, notice.KindInfo, notice.KindInfo},
			incoming:  req(10, notice.KindWarning),
		},
		"pool not full": {
			displayed: []notice.Kind{notice.KindInfo},
			incoming:  req(10, notice.KindError),
		},
		"persistent requests never preempt": {
			displayed: []notice.Kind{notice.KindInfo, notice.KindInfo, notice.KindInfo},
			incoming:  notice.Request{ID: 10, Kind: notice.KindError, Priority: notice.PriorityError, Persistent: true},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := newCapacity(3, 2)
			for i, k := range tt.displayed {
				c.admit(&displayed{req: req(uint64(i+1), k)})
			}
			c.admit(&displayed{req: notice.Request{ID: 99, Kind: notice.KindInfo, Persistent: true}})

			got := c.findPreemptionCandidate(tt.incoming)
			if tt.want == 0 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.req.ID)
		})
	}
}
