// Package termview is a presentation port that renders the live notice
// stack with lipgloss and writes a fresh frame to an io.Writer on every
// change.
package termview

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/colonyops/noticeq/internal/core/notice"
	"github.com/colonyops/noticeq/internal/core/present"
	"github.com/colonyops/noticeq/internal/core/styles"
	"golang.org/x/term"
)

// DefaultWidth is the notice width used when none is configured.
const DefaultWidth = 48

const clearScreen = "\x1b[H\x1b[2J"

var (
	_ present.Port    = (*View)(nil)
	_ present.Enterer = (*View)(nil)
)

type item struct {
	req     notice.Request
	entered bool
}

// View keeps displayed notices in show order, persistent ones pinned
// first. It is safe to Render from another goroutine while the scheduler
// drives it.
type View struct {
	mu    sync.Mutex
	w     io.Writer
	items []*item

	width int
	plain bool
	live  bool
	now   func() time.Time
}

// Option configures a [View].
type Option func(*View)

// WithWidth sets the notice width in cells.
func WithWidth(n int) Option {
	return func(v *View) {
		if n > 0 {
			v.width = n
		}
	}
}

// Plain uses ASCII icons instead of nerd font glyphs.
func Plain() Option {
	return func(v *View) {
		v.plain = true
	}
}

// Live clears the screen before each frame instead of appending frames.
func Live() Option {
	return func(v *View) {
		v.live = true
	}
}

// WithNow sets the clock used to stamp appended frames.
func WithNow(now func() time.Time) Option {
	return func(v *View) {
		v.now = now
	}
}

// New creates a view writing frames to w.
func New(w io.Writer, opts ...Option) *View {
	v := &View{w: w, width: DefaultWidth, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// DetectWidth returns the width of f when it is a terminal, capped at
// fallback.
func DetectWidth(f *os.File, fallback int) int {
	if !term.IsTerminal(int(f.Fd())) {
		return fallback
	}
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return min(w-2, fallback)
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Show adds the notice to the stack.
func (v *View) Show(req notice.Request) present.Artifact {
	it := &item{req: req}

	v.mu.Lock()
	v.items = append(v.items, it)
	v.mu.Unlock()

	v.flush()
	return it
}

// Entered marks the notice as fully shown.
func (v *View) Entered(a present.Artifact) {
	it, ok := a.(*item)
	if !ok {
		return
	}

	v.mu.Lock()
	it.entered = true
	v.mu.Unlock()

	v.flush()
}

// Remove drops the notice from the stack.
func (v *View) Remove(a present.Artifact) {
	it, ok := a.(*item)
	if !ok {
		return
	}

	v.mu.Lock()
	before := len(v.items)
	v.items = slices.DeleteFunc(v.items, func(x *item) bool { return x == it })
	changed := len(v.items) != before
	v.mu.Unlock()

	if changed {
		v.flush()
	}
}

// Len returns the number of notices on screen.
func (v *View) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.items)
}

// Render returns the current stack.
func (v *View) Render() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renderLocked()
}

func (v *View) renderLocked() string {
	if len(v.items) == 0 {
		return ""
	}

	ordered := make([]*item, 0, len(v.items))
	for _, it := range v.items {
		if it.req.Persistent {
			ordered = append(ordered, it)
		}
	}
	for _, it := range v.items {
		if !it.req.Persistent {
			ordered = append(ordered, it)
		}
	}

	blocks := make([]string, 0, len(ordered))
	for _, it := range ordered {
		blocks = append(blocks, v.renderItem(it))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (v *View) renderItem(it *item) string {
	content := styles.NoticeIcon(it.req.Kind, v.plain) + " " + it.req.Message
	if it.req.Persistent {
		pin := styles.IconPinned
		if v.plain {
			pin = styles.PlainPinned
		}
		content = pin + " " + content
	}
	if !it.entered {
		content = styles.NoticeEnteringStyle.Render(content)
	}

	return styles.NoticeStyle(it.req.Kind).Width(v.width).Render(content)
}

func (v *View) flush() {
	if v.w == nil {
		return
	}

	v.mu.Lock()
	frame := v.renderLocked()
	count := len(v.items)
	v.mu.Unlock()

	var b strings.Builder
	if v.live {
		b.WriteString(clearScreen)
	} else {
		fmt.Fprintf(&b, "-- %s  %d on screen\n", v.now().Format("15:04:05.000"), count)
	}
	if frame != "" {
		b.WriteString(frame)
		b.WriteString("\n")
	}

	_, _ = io.WriteString(v.w, b.String())
}
