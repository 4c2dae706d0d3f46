package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qbank/internal/collection"
	"qbank/internal/nav"
)

func (m appModel) View() string {
	header := m.viewHeader()
	footer := styleMuted().Render(m.footerHelp())
	status := m.viewStatus()

	bodyH := m.height - lipgloss.Height(header) - 3
	if bodyH < 3 {
		bodyH = 3
	}

	var body string
	switch {
	case m.modal != modalNone:
		body = lipgloss.Place(m.width, bodyH, lipgloss.Center, lipgloss.Center, m.viewModal())
	case m.placeholder != "":
		body = lipgloss.NewStyle().Foreground(colorFlashErrorBg).Bold(true).Render(m.placeholder)
	case m.view == viewAssessments:
		body = m.viewAssessments()
	case m.loading && len(m.list.Items()) == 0:
		body = styleMuted().Render("Loading…")
	case len(m.list.Items()) == 0:
		body = styleMuted().Render(fmt.Sprintf("No %s yet. Press n to create one.", strings.ToLower(m.pane.Kind().Plural)))
	default:
		body = m.list.View()
	}

	return strings.Join([]string{
		header,
		normalizePane(body, m.width, bodyH),
		status,
		footer,
	}, "\n")
}

func (m appModel) viewHeader() string {
	crumbs := []string{"qbank"}
	switch m.view {
	case viewProjects:
		crumbs = append(crumbs, "Projects")
	case viewAssessments, viewQuestionBanks:
		crumbs = append(crumbs, "Projects", m.projectLabel())
	case viewQuestions:
		crumbs = append(crumbs, "Projects", m.projectLabel(), m.questionBankLabel())
	}
	title := lipgloss.NewStyle().Bold(true).Render(strings.Join(crumbs, " › "))
	if m.toggle == nil {
		return title
	}
	return title + "\n" + renderToggle(m.toggle)
}

func (m appModel) projectLabel() string {
	if t := m.route.StateValue(nav.StateProjectTitle); t != "" {
		return t
	}
	if m.route.ProjectID != "" {
		return m.route.ProjectID
	}
	return "(no project)"
}

func (m appModel) questionBankLabel() string {
	if t := m.route.StateValue(nav.StateQuestionBankTitle); t != "" {
		return t
	}
	return m.route.QuestionBankID
}

func renderToggle(t *collection.Toggle) string {
	on := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)
	off := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorChromeMutedFg)

	var parts []string
	for _, mode := range []collection.ViewMode{collection.ViewResourceBank, collection.ViewAssessment} {
		st := off
		if t.Current() == mode {
			st = on
		}
		parts = append(parts, st.Render(mode.Label()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m appModel) viewAssessments() string {
	return strings.Join([]string{
		lipgloss.NewStyle().Bold(true).Render("Assessments"),
		"",
		styleMuted().Render("Assessments for this project are managed elsewhere."),
		styleMuted().Render("Press v to switch to question banks."),
	}, "\n")
}

func (m appModel) viewStatus() string {
	if m.modal == modalNone && m.pane != nil {
		if err := m.pane.LastError(); err != nil {
			return lipgloss.NewStyle().Foreground(colorFlashErrorBg).Render("Error: " + err.Error())
		}
	}
	if m.pane != nil && m.pane.Busy() {
		return styleMuted().Render("Saving…")
	}
	return styleMuted().Render(m.status)
}

func (m appModel) footerHelp() string {
	if m.modal != modalNone {
		return ""
	}
	var keys []string
	if m.pane != nil {
		keys = append(keys, "n: new", "e: rename", "d: delete", "enter: open", "r: reload")
	}
	if m.toggle != nil {
		keys = append(keys, "v: switch view")
	}
	keys = append(keys, "esc: back", "q: quit")
	return strings.Join(keys, "  ")
}

func (m appModel) viewModal() string {
	kind := collection.Kind{}
	if m.pane != nil {
		kind = m.pane.Kind()
	}
	switch m.modal {
	case modalCreate:
		return renderInputModal(m.width, "New "+strings.ToLower(kind.Label), m.input.View(), m.modalErr, m.pane.Busy())
	case modalRename:
		d := m.pane.RenameState()
		err := d.Err
		if err == nil {
			err = m.modalErr
		}
		return renderInputModal(m.width, fmt.Sprintf("Rename %q", d.Title), m.input.View(), err, m.pane.Busy())
	case modalDelete:
		d := m.pane.DeleteState()
		body := fmt.Sprintf("Delete %s %q? This cannot be undone.", strings.ToLower(kind.Label), d.Title)
		bodyW := modalBodyWidth(m.width)
		body = lipgloss.NewStyle().Width(bodyW).Render(body)
		err := d.Err
		if err == nil {
			err = m.modalErr
		}
		if err != nil {
			body += "\n\n" + renderModalError(bodyW, err)
		}
		return renderConfirmModal(m.width, "Delete "+strings.ToLower(kind.Label), body, "Delete", "Cancel", m.confirmFocus)
	case modalQuestion:
		q, ok := m.selectedQuestion()
		if !ok {
			return renderModalBox(m.width, "Question", styleMuted().Render("(question no longer exists)"))
		}
		desc := renderMarkdown(q.Description, modalBodyWidth(m.width))
		if desc == "" {
			desc = styleMuted().Render("(no description)")
		}
		help := styleMuted().Render("esc/enter: close")
		return renderModalBox(m.width, q.Title, desc+"\n\n"+help)
	}
	return ""
}
