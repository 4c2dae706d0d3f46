package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func modalBodyWidth(width int) int {
	w := width - 12
	if w > 72 {
		w = 72
	}
	if w < 30 {
		w = 30
	}
	return w
}

// renderModalBox draws content under a title bar inside a padded surface.
func renderModalBox(width int, title string, content string) string {
	bodyW := modalBodyWidth(width)
	header := lipgloss.NewStyle().
		Width(bodyW).
		Padding(0, 1).
		Foreground(colorModalHeaderFg).
		Background(colorModalHeaderBg).
		Bold(true).
		Render(title)

	box := lipgloss.NewStyle().
		Padding(1, 2).
		Foreground(colorModalSurfaceFg).
		Background(colorModalSurfaceBg).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder)
	return box.Render(header + "\n\n" + content)
}

func renderModalError(bodyW int, err error) string {
	return lipgloss.NewStyle().
		Width(bodyW).
		Foreground(colorFlashErrorBg).
		Render(err.Error())
}

func renderInputModal(width int, title string, inputView string, err error, busy bool) string {
	bodyW := modalBodyWidth(width)
	lines := []string{renderInputLine(bodyW, inputView)}
	if err != nil {
		lines = append(lines, "", renderModalError(bodyW, err))
	}
	help := "enter: save   esc/ctrl+g: cancel"
	if busy {
		help = "saving…"
	}
	lines = append(lines, "", styleMuted().Width(bodyW).Render(help))
	return renderModalBox(width, title, strings.Join(lines, "\n"))
}
