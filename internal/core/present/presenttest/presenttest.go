// Package presenttest provides a recording presentation port for tests.
package presenttest

import (
	"fmt"
	"sync"

	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/colonyops/noticeq/internal/core/present"
)

// Op names a recorded port call.
type Op string

const (
	OpShow    Op = "show"
	OpEntered Op = "entered"
	OpRemove  Op = "remove"
)

// Call is one recorded port call.
type Call struct {
	Op      Op
	ID      uint64
	Message string
}

func (c Call) String() string {
	return fmt.Sprintf("%s:%s", c.Op, c.Message)
}

// Recorder is a present.Port that records calls and tracks live artifacts.
// Artifacts it issues are the request IDs.
type Recorder struct {
	mu       sync.Mutex
	calls    []Call
	live     map[uint64]notice.Request
	messages map[uint64]string

	// OnShow, when set, runs inside Show after the call is recorded.
	OnShow func(req notice.Request)
}

var (
	_ present.Port    = (*Recorder)(nil)
	_ present.Enterer = (*Recorder)(nil)
)

// New creates an empty recorder.
func New() *Recorder {
	return &Recorder{
		live:     make(map[uint64]notice.Request),
		messages: make(map[uint64]string),
	}
}

// Resolver returns a resolver that maps target to r and fails otherwise.
func (r *Recorder) Resolver(target string) present.Resolver {
	return present.ResolverFunc(func(name string) (present.Port, error) {
		if name != target {
			return nil, fmt.Errorf("%w: %q", present.ErrUnknownTarget, name)
		}
		return r, nil
	})
}

func (r *Recorder) Show(req notice.Request) present.Artifact {
	r.mu.Lock()
	r.calls = append(r.calls, Call{Op: OpShow, ID: req.ID, Message: req.Message})
	r.live[req.ID] = req
	r.messages[req.ID] = req.Message
	hook := r.OnShow
	r.mu.Unlock()

	if hook != nil {
		hook(req)
	}
	return req.ID
}

func (r *Recorder) Entered(a present.Artifact) {
	id, _ := a.(uint64)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: OpEntered, ID: id, Message: r.messages[id]})
}

func (r *Recorder) Remove(a present.Artifact) {
	id, _ := a.(uint64)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Call{Op: OpRemove, ID: id, Message: r.messages[id]})
	delete(r.live, id)
}

// Calls returns a copy of every recorded call.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Call, len(r.calls))
	copy(out, r.calls)
	return out
}

// CallsOf returns the messages of recorded calls with the given op, in order.
func (r *Recorder) CallsOf(op Op) []string {
	var out []string
	for _, c := range r.Calls() {
		if c.Op == op {
			out = append(out, c.Message)
		}
	}
	return out
}

// Live returns the number of artifacts shown and not yet removed.
func (r *Recorder) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// Reset forgets recorded calls but keeps live artifacts.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
