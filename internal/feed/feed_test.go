package feed

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/colonyops/noticeq/internal/scheduler"
)

// fakeTarget records calls in the order they were made.
type fakeTarget struct {
	mu    sync.Mutex
	calls []string
	shown []notice.Options
	next  scheduler.Handle
}

func (f *fakeTarget) ShowOptions(message string, o notice.Options) scheduler.Handle {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	f.calls = append(f.calls, "show:"+message)
	f.shown = append(f.shown, o)
	return f.next
}

func (f *fakeTarget) Dismiss(h scheduler.Handle) { f.record(fmt.Sprintf("dismiss:%d", h)) }
func (f *fakeTarget) ClearAll()                  { f.record("clear") }
func (f *fakeTarget) Enable()                    { f.record("enable") }
func (f *fakeTarget) Disable()                   { f.record("disable") }

func (f *fakeTarget) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeTarget) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// inlineRunner runs work on the calling goroutine.
type inlineRunner struct {
	mu sync.Mutex
}

func (r *inlineRunner) Post(fn func()) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
	return nil
}

func (r *inlineRunner) Do(ctx context.Context, fn func()) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.Post(fn)
}

func script(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n"))
}
