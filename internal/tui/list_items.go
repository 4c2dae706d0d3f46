package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"qbank/internal/model"
)

type resourceItem struct {
	id    string
	title string
	desc  string
}

func (i resourceItem) FilterValue() string { return i.title }
func (i resourceItem) Title() string       { return i.title }
func (i resourceItem) Description() string { return i.desc }

func projectItem(p model.Project) resourceItem {
	return resourceItem{id: p.ID, title: p.Title, desc: p.ID}
}

func questionBankItem(b model.QuestionBank) resourceItem {
	return resourceItem{id: b.ID, title: b.Title, desc: b.ID}
}

func questionItem(q model.Question) resourceItem {
	desc := firstLine(q.Description)
	if desc == "" {
		desc = "(no description)"
	}
	return resourceItem{id: q.ID, title: q.Title, desc: desc}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return strings.TrimLeft(s, "#> ")
}

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	// Header, status line and footer are ours.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(true)
	// n/e/d/v are view keys; typing them must never start a filter.
	l.SetFilteringEnabled(false)
	// ESC is "back" here, not quit.
	l.KeyMap.Quit.SetKeys("q")
	l.KeyMap.ForceQuit.SetKeys("ctrl+c")

	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(cursorUpKeys, "ctrl+p")...)
	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(cursorDownKeys, "ctrl+n")...)
	return l
}

func selectedID(l list.Model) string {
	if it, ok := l.SelectedItem().(resourceItem); ok {
		return it.id
	}
	return ""
}

func selectListItemByID(l *list.Model, id string) {
	for i, it := range l.Items() {
		if ri, ok := it.(resourceItem); ok && ri.id == id {
			l.Select(i)
			return
		}
	}
}
