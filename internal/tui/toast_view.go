package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/noticeq/internal/core/styles"
)

// ToastView renders the notice stack.
type ToastView struct {
	controller *ToastController
	plain      bool
}

func NewToastView(controller *ToastController, plain bool) *ToastView {
	return &ToastView{controller: controller, plain: plain}
}

// View renders the stack as a single string, pinned notices at the top
// and the rest oldest first.
func (v *ToastView) View() string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		if t.req.Persistent {
			rendered = append(rendered, v.renderToast(t))
		}
	}
	for _, t := range toasts {
		if !t.req.Persistent {
			rendered = append(rendered, v.renderToast(t))
		}
	}

	return strings.Join(rendered, "\n")
}

func (v *ToastView) renderToast(t toast) string {
	content := styles.NoticeIcon(t.req.Kind, v.plain) + " " + t.req.Message
	if t.req.Persistent {
		pin := styles.IconPinned
		if v.plain {
			pin = styles.PlainPinned
		}
		content = pin + " " + content
	}
	if !t.entered {
		content = styles.NoticeEnteringStyle.Render(content)
	}
	return styles.NoticeStyle(t.req.Kind).Width(toastWidth).Render(content)
}

// Overlay places the stack to the right of background, bottom aligned
// within height.
func (v *ToastView) Overlay(background string, width, height int) string {
	toastContent := v.View()
	if toastContent == "" {
		return background
	}

	toastW := lipgloss.Width(toastContent)
	bgW := max(width-toastW-1, 0)

	left := lipgloss.NewStyle().Width(bgW).MaxWidth(bgW).Render(background)
	right := lipgloss.PlaceVertical(max(height, lipgloss.Height(toastContent)), lipgloss.Bottom, toastContent)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}
