package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/colonyops/noticeq/internal/core/present"
	"github.com/colonyops/noticeq/internal/scheduler"
)

type (
	showMsg    struct{ req notice.Request }
	enteredMsg struct{ id uint64 }
	removeMsg  struct{ id uint64 }
	drainMsg   struct{}
)

// StatusMsg carries a scheduler snapshot into the program.
type StatusMsg scheduler.Status

var (
	_ present.Port    = (*Port)(nil)
	_ present.Enterer = (*Port)(nil)
)

// Port is a presentation port feeding a bubbletea program. Calls made on
// the scheduler goroutine are buffered and never wait on the program;
// the model drains them after each signal. Artifacts are request ids.
type Port struct {
	mu      sync.Mutex
	pending []tea.Msg
	signal  chan struct{}
}

func NewPort() *Port {
	return &Port{signal: make(chan struct{}, 1)}
}

func (p *Port) Show(req notice.Request) present.Artifact {
	p.push(showMsg{req: req})
	return req.ID
}

func (p *Port) Entered(a present.Artifact) {
	if id, ok := a.(uint64); ok {
		p.push(enteredMsg{id: id})
	}
}

func (p *Port) Remove(a present.Artifact) {
	if id, ok := a.(uint64); ok {
		p.push(removeMsg{id: id})
	}
}

// PushStatus queues a scheduler snapshot.
func (p *Port) PushStatus(s scheduler.Status) {
	p.push(StatusMsg(s))
}

func (p *Port) push(msg tea.Msg) {
	p.mu.Lock()
	p.pending = append(p.pending, msg)
	p.mu.Unlock()

	select {
	case p.signal <- struct{}{}:
	default:
	}
}

// Drain returns all buffered messages in arrival order and clears the
// buffer.
func (p *Port) Drain() []tea.Msg {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.pending) == 0 {
		return nil
	}

	out := p.pending
	p.pending = nil
	return out
}

// WaitForSignal blocks until there are messages ready to drain.
func (p *Port) WaitForSignal() tea.Cmd {
	return func() tea.Msg {
		<-p.signal
		return drainMsg{}
	}
}
