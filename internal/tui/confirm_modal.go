package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderConfirmModal renders body above a confirm/cancel button pair. focus
// picks the highlighted button; enter activates it.
func renderConfirmModal(width int, title, body, confirmLabel, cancelLabel string, focus confirmModalFocus) string {
	// No nested borders: some terminals leave background artifacts around them.
	btn := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	active := btn.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm, cancel := btn.Render(confirmLabel), btn.Render(cancelLabel)
	switch focus {
	case confirmFocusConfirm:
		confirm = active.Render(confirmLabel)
	case confirmFocusCancel:
		cancel = active.Render(cancelLabel)
	}
	gap := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, confirm, gap, cancel)

	help := styleMuted().
		Width(modalBodyWidth(width)).
		Render("tab: switch   enter: select   y: confirm   esc/n: cancel")

	return renderModalBox(width, title, strings.Join([]string{body, "", buttons, "", help}, "\n"))
}
