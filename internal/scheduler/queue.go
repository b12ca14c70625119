package scheduler

import (
	"sort"

	"github.com/colonyops/noticeq/internal/core/notice"
)

// admissionQueue holds requests that have not been displayed yet. Items are
// kept sorted by (priority desc, seq asc) so the head is always the next
// request to admit.
type admissionQueue struct {
	items []notice.Request
	limit int
}

func newAdmissionQueue(limit int) *admissionQueue {
	return &admissionQueue{
		items: make([]notice.Request, 0, limit),
		limit: limit,
	}
}

// enqueue inserts req in order. When the queue is full the oldest request
// of the lowest priority tier is evicted, but only for a strictly higher
// priority newcomer; otherwise req is rejected and ok is false.
func (q *admissionQueue) enqueue(req notice.Request) (victim notice.Request, evicted bool, ok bool) {
	if q.limit <= 0 {
		return notice.Request{}, false, false
	}

	if len(q.items) >= q.limit {
		idx := q.victimIndex()
		if req.Priority <= q.items[idx].Priority {
			return notice.Request{}, false, false
		}
		victim = q.items[idx]
		q.removeAt(idx)
		evicted = true
	}

	pos := sort.Search(len(q.items), func(i int) bool {
		return req.Before(q.items[i])
	})
	q.items = append(q.items, notice.Request{})
	copy(q.items[pos+1:], q.items[pos:])
	q.items[pos] = req

	return victim, evicted, true
}

// victimIndex returns the oldest entry of the lowest priority tier. The
// queue must not be empty.
func (q *admissionQueue) victimIndex() int {
	lowest := q.items[len(q.items)-1].Priority
	return sort.Search(len(q.items), func(i int) bool {
		return q.items[i].Priority <= lowest
	})
}

func (q *admissionQueue) peek() (notice.Request, bool) {
	if len(q.items) == 0 {
		return notice.Request{}, false
	}
	return q.items[0], true
}

func (q *admissionQueue) dequeue() (notice.Request, bool) {
	head, ok := q.peek()
	if ok {
		q.removeAt(0)
	}
	return head, ok
}

// remove withdraws the request with the given id.
func (q *admissionQueue) remove(id uint64) (notice.Request, bool) {
	for i, req := range q.items {
		if req.ID == id {
			q.removeAt(i)
			return req, true
		}
	}
	return notice.Request{}, false
}

func (q *admissionQueue) contains(id uint64) bool {
	for _, req := range q.items {
		if req.ID == id {
			return true
		}
	}
	return false
}

func (q *admissionQueue) removeAt(i int) {
	copy(q.items[i:], q.items[i+1:])
	q.items[len(q.items)-1] = notice.Request{}
	q.items = q.items[:len(q.items)-1]
}

// clear drops every queued request without running the eviction policy.
func (q *admissionQueue) clear() {
	clear(q.items)
	q.items = q.items[:0]
}

func (q *admissionQueue) len() int {
	return len(q.items)
}

// snapshot returns a copy of the queued requests in admission order.
func (q *admissionQueue) snapshot() []notice.Request {
	out := make([]notice.Request, len(q.items))
	copy(out, q.items)
	return out
}
