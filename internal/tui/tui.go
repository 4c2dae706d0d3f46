package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"qbank/internal/nav"
	"qbank/internal/resources"
)

type Options struct {
	API    resources.API
	UserID string
	// Theme is light|dark|auto; QBANK_TUI_THEME overrides it.
	Theme string
	// Log must not write to stdout; the TUI owns it.
	Log zerolog.Logger
	// StartPath is the first route, e.g. /projects/proj-abc/questionBanks.
	StartPath string
	// StartState seeds the first route's display titles.
	StartState map[string]string
	// OnExit receives the route on screen when the program ends.
	OnExit func(nav.Route)
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)

	final, err := tea.NewProgram(newAppModel(opts), tea.WithAltScreen()).Run()
	if m, ok := final.(appModel); ok {
		if m.pane != nil {
			m.pane.Close()
		}
		if opts.OnExit != nil && err == nil {
			opts.OnExit(m.route)
		}
	}
	return err
}
