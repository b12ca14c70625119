package tui

import (
	"slices"

	"github.com/colonyops/noticeq/internal/core/notice"
)

const (
	toastWidth = 44
)

type toast struct {
	req     notice.Request
	entered bool
}

// ToastController mirrors the notices the scheduler has placed on screen.
// Timing belongs to the scheduler; the controller only tracks show, enter
// and remove in arrival order.
type ToastController struct {
	toasts []toast
}

func NewToastController() *ToastController {
	return &ToastController{}
}

// Push adds a notice to the bottom of the stack.
func (c *ToastController) Push(req notice.Request) {
	c.toasts = append(c.toasts, toast{req: req})
}

// Enter marks the notice as fully shown. It reports false for unknown ids.
func (c *ToastController) Enter(id uint64) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.toasts[i].entered = true
	return true
}

// Remove drops the notice. It reports false for unknown ids.
func (c *ToastController) Remove(id uint64) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.toasts = slices.Delete(c.toasts, i, i+1)
	return true
}

// Newest returns the most recently pushed dismissible notice.
func (c *ToastController) Newest() (notice.Request, bool) {
	for i := len(c.toasts) - 1; i >= 0; i-- {
		if c.toasts[i].req.Dismissible {
			return c.toasts[i].req, true
		}
	}
	return notice.Request{}, false
}

// HasToasts returns true if there are any notices on screen.
func (c *ToastController) HasToasts() bool {
	return len(c.toasts) > 0
}

// Toasts returns the current stack, oldest first.
func (c *ToastController) Toasts() []toast {
	return c.toasts
}

func (c *ToastController) index(id uint64) int {
	return slices.IndexFunc(c.toasts, func(t toast) bool { return t.req.ID == id })
}
