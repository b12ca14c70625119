// Package styles provides shared lipgloss styles for the terminal
// presenters.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/colonyops/noticeq/internal/core/notice"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

var (
	NoticeInfoStyle    lipgloss.Style
	NoticeSuccessStyle lipgloss.Style
	NoticeWarningStyle lipgloss.Style
	NoticeErrorStyle   lipgloss.Style

	// NoticeEnteringStyle dims a notice that has not finished entering.
	NoticeEnteringStyle lipgloss.Style

	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	TitleStyle  lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Foreground(p.Foreground).
		Padding(0, 1)

	NoticeInfoStyle = toast.BorderForeground(p.Primary)
	NoticeSuccessStyle = toast.BorderForeground(p.Success)
	NoticeWarningStyle = toast.BorderForeground(p.Warning)
	NoticeErrorStyle = toast.BorderForeground(p.Error)

	NoticeEnteringStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		Faint(true)

	StatusStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	HelpStyle = lipgloss.NewStyle().
		Foreground(p.Muted).
		MarginTop(1)
	TitleStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true)
}

// NoticeStyle returns the frame style for a notice kind.
func NoticeStyle(kind notice.Kind) lipgloss.Style {
	switch kind {
	case notice.KindError:
		return NoticeErrorStyle
	case notice.KindWarning:
		return NoticeWarningStyle
	case notice.KindSuccess:
		return NoticeSuccessStyle
	default:
		return NoticeInfoStyle
	}
}

// NoticeIcon returns the icon for a notice kind. plain selects the ASCII
// fallback.
func NoticeIcon(kind notice.Kind, plain bool) string {
	switch kind {
	case notice.KindError:
		return pick(plain, PlainNotifyError, IconNotifyError)
	case notice.KindWarning:
		return pick(plain, PlainNotifyWarning, IconNotifyWarning)
	case notice.KindSuccess:
		return pick(plain, PlainNotifySuccess, IconNotifySuccess)
	default:
		return pick(plain, PlainNotifyInfo, IconNotifyInfo)
	}
}

func pick(plain bool, a, b string) string {
	if plain {
		return a
	}
	return b
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
