package scheduler

import (
	"container/list"

	"github.com/colonyops/noticeq/internal/core/notice"
)

// pool is a bounded set of displayed notices. Membership is tracked by the
// list element stored on each notice, so admit and release are O(1) and
// the list preserves admission order.
type pool struct {
	limit   int
	members *list.List
}

func newPool(limit int) *pool {
	return &pool{limit: limit, members: list.New()}
}

func (p *pool) full() bool {
	return p.members.Len() >= p.limit
}

func (p *pool) len() int {
	return p.members.Len()
}

func (p *pool) each(fn func(d *displayed) bool) {
	for e := p.members.Front(); e != nil; e = e.Next() {
		if !fn(e.Value.(*displayed)) {
			return
		}
	}
}

// capacity tracks the transient and persistent display pools.
type capacity struct {
	transient  *pool
	persistent *pool
}

func newCapacity(maxVisible, maxPersistent int) *capacity {
	return &capacity{
		transient:  newPool(maxVisible),
		persistent: newPool(maxPersistent),
	}
}

func (c *capacity) poolFor(persistent bool) *pool {
	if persistent {
		return c.persistent
	}
	return c.transient
}

// canAdmit reports whether the pool matching req has a free slot.
func (c *capacity) canAdmit(req notice.Request) bool {
	return !c.poolFor(req.Persistent).full()
}

// findPreemptionCandidate picks the transient notice to force out for req.
// Only a maximum priority transient request facing a full transient pool
// may preempt. The first low priority notice in admission order wins,
// falling back to the oldest admitted one. Persistent notices are never
// candidates.
func (c *capacity) findPreemptionCandidate(req notice.Request) *displayed {
	if req.Priority != notice.PriorityMax || req.Persistent || !c.transient.full() {
		return nil
	}

	var candidate *displayed
	c.transient.each(func(d *displayed) bool {
		if d.req.Kind == notice.KindInfo || d.req.Kind == notice.KindSuccess {
			candidate = d
			return false
		}
		return true
	})
	if candidate != nil {
		return candidate
	}

	if front := c.transient.members.Front(); front != nil {
		return front.Value.(*displayed)
	}
	return nil
}

func (c *capacity) admit(d *displayed) {
	d.slot = c.poolFor(d.req.Persistent).members.PushBack(d)
}

func (c *capacity) release(d *displayed) {
	if d.slot == nil {
		return
	}
	c.poolFor(d.req.Persistent).members.Remove(d.slot)
	d.slot = nil
}

// all returns every displayed notice, transient pool first, each in
// admission order.
func (c *capacity) all() []*displayed {
	out := make([]*displayed, 0, c.transient.len()+c.persistent.len())
	collect := func(d *displayed) bool {
		out = append(out, d)
		return true
	}
	c.transient.each(collect)
	c.persistent.each(collect)
	return out
}
