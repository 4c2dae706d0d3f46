package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"qbank/internal/collection"
	"qbank/internal/model"
	"qbank/internal/nav"
	"qbank/internal/resources"
)

type view int

const (
	viewProjects view = iota
	viewAssessments
	viewQuestionBanks
	viewQuestions
)

type modalKind int

const (
	modalNone modalKind = iota
	modalCreate
	modalRename
	modalDelete
	modalQuestion
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

type appModel struct {
	api    resources.API
	userID string
	log    zerolog.Logger

	width  int
	height int

	history *nav.History
	navq    *navQueue
	route   nav.Route
	view    view
	// gen changes on every mount; results tagged with an older gen are dropped.
	gen int

	pane pane
	// placeholder replaces the collection when its scope is missing.
	placeholder string
	list        list.Model
	toggle      *collection.Toggle

	modal        modalKind
	modalErr     error
	input        textinput.Model
	confirmFocus confirmModalFocus
	questionID   string

	loading bool
	status  string

	initCmd tea.Cmd
}

func newAppModel(opts Options) appModel {
	m := appModel{
		api:     opts.API,
		userID:  strings.TrimSpace(opts.UserID),
		log:     opts.Log,
		history: &nav.History{},
		navq:    &navQueue{},
		width:   80,
		height:  24,
	}
	m.input = newInput()

	start := strings.TrimSpace(opts.StartPath)
	if start == "" {
		start = nav.ProjectsPath()
	}
	r, err := nav.Parse(start)
	if err != nil {
		r, _ = nav.Parse(nav.ProjectsPath())
		m.status = err.Error()
	} else if len(opts.StartState) > 0 {
		r.State = opts.StartState
	}
	if r.Name != nav.RouteProjects {
		// Back from a deep link still lands on the project list.
		root, _ := nav.Parse(nav.ProjectsPath())
		m.history.Push(root)
	}
	m.history.Push(r)
	m.initCmd = m.mount(r)
	return m
}

func newInput() textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 200
	// A blinking cursor would keep a tick command in flight for every keystroke.
	in.Cursor.SetMode(cursor.CursorStatic)
	return in
}

func (m appModel) Init() tea.Cmd { return m.initCmd }

func (m *appModel) mount(r nav.Route) tea.Cmd {
	if m.pane != nil {
		m.pane.Close()
	}
	m.gen++
	m.route = r
	m.pane = nil
	m.placeholder = ""
	m.toggle = nil
	m.closeModal()
	m.loading = false

	projectTitle := r.StateValue(nav.StateProjectTitle)
	q := m.navq
	switch r.Name {
	case nav.RouteProjects:
		m.view = viewProjects
		mgr, err := resources.NewProjectManager(m.api, m.userID, m.navq, m.log)
		if err != nil {
			m.placeholder = resources.ProjectKind.MissingScopeMessage()
			break
		}
		m.pane = newPane(mgr, projectItem)

	case nav.RouteAssessments:
		m.view = viewAssessments
		projectID := r.ProjectID
		m.toggle = collection.NewToggle(collection.ViewAssessment, func(collection.ViewMode) {
			q.NavigateTo(nav.QuestionBanksPath(projectID), map[string]string{nav.StateProjectTitle: projectTitle})
		})

	case nav.RouteQuestionBanks:
		m.view = viewQuestionBanks
		projectID := r.ProjectID
		m.toggle = collection.NewToggle(collection.ViewResourceBank, func(collection.ViewMode) {
			q.NavigateTo(nav.AssessmentsPath(projectID), map[string]string{nav.StateProjectTitle: projectTitle})
		})
		mgr, err := resources.NewQuestionBankManager(m.api, projectID, m.navq, m.log)
		if err != nil {
			m.placeholder = resources.QuestionBankKind.MissingScopeMessage()
			break
		}
		m.pane = newPane(mgr, questionBankItem)

	case nav.RouteQuestions:
		m.view = viewQuestions
		mgr, err := resources.NewQuestionManager(m.api, r.QuestionBankID, m.log)
		if err != nil {
			m.placeholder = resources.QuestionKind.MissingScopeMessage()
			break
		}
		m.pane = newPane(mgr, questionItem)
	}

	title := ""
	if m.pane != nil {
		title = m.pane.Kind().Plural
	}
	m.list = newList(title, []list.Item{})
	m.resizeList()
	if m.pane == nil {
		return nil
	}
	m.loading = true
	return m.pane.Load(m.gen)
}

// navigateTo applies a navigation request. Hops between a project's
// assessments and question banks replace the current history entry.
func (m *appModel) navigateTo(req navRequest) tea.Cmd {
	r, err := nav.Parse(req.path)
	if err != nil {
		m.status = err.Error()
		return nil
	}
	m.status = ""
	state := map[string]string{}
	if r.ProjectID != "" && r.ProjectID == m.route.ProjectID {
		if t := m.route.StateValue(nav.StateProjectTitle); t != "" {
			state[nav.StateProjectTitle] = t
		}
	}
	for k, v := range req.state {
		if v != "" {
			state[k] = v
		}
	}
	r.State = state

	if isSiblingRoute(m.route, r) {
		m.history.Replace(r)
	} else {
		m.history.Push(r)
	}
	return m.mount(r)
}

func isSiblingRoute(a, b nav.Route) bool {
	toggled := func(n nav.RouteName) bool {
		return n == nav.RouteAssessments || n == nav.RouteQuestionBanks
	}
	return toggled(a.Name) && toggled(b.Name) && a.ProjectID == b.ProjectID && a.Name != b.Name
}

func (m *appModel) applyNavigation() tea.Cmd {
	var cmd tea.Cmd
	for _, req := range m.navq.drain() {
		cmd = m.navigateTo(req)
	}
	return cmd
}

func (m *appModel) back() tea.Cmd {
	r, ok := m.history.Back()
	if !ok {
		return nil
	}
	return m.mount(r)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeList()
		return m, nil

	case resultMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.handleResult(msg)
		return m, m.applyNavigation()

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		return m.updateKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *appModel) handleResult(msg resultMsg) {
	if msg.op == collection.OpLoad {
		if errors.Is(msg.err, collection.ErrBusy) {
			return
		}
		m.loading = false
	}
	m.refreshList()

	switch {
	case msg.op == collection.OpCreate && m.modal == modalCreate:
		if msg.err == nil {
			m.closeModal()
			m.status = m.pane.Kind().Label + " created"
			return
		}
		m.modalErr = msg.err
	case msg.op == collection.OpRename && m.modal == modalRename:
		if !m.pane.RenameState().Open {
			m.closeModal()
			m.status = m.pane.Kind().Label + " renamed"
			return
		}
		m.modalErr = msg.err
	case msg.op == collection.OpDelete && m.modal == modalDelete:
		if !m.pane.DeleteState().Open {
			m.closeModal()
			m.status = m.pane.Kind().Label + " deleted"
			return
		}
		m.modalErr = msg.err
	}
}

func (m appModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc", "backspace":
		return m, m.back()
	case "r":
		// A load already in flight will refresh the list on its own.
		if m.pane == nil || m.loading {
			return m, nil
		}
		m.loading = true
		m.status = ""
		return m, m.pane.Load(m.gen)
	case "v", "tab":
		if m.toggle == nil {
			return m, nil
		}
		m.toggle.Flip()
		return m, m.applyNavigation()
	case "a", "b":
		if m.toggle == nil {
			return m, nil
		}
		mode := collection.ViewAssessment
		if msg.String() == "b" {
			mode = collection.ViewResourceBank
		}
		m.toggle.Select(mode)
		return m, m.applyNavigation()
	}

	if m.pane == nil {
		return m, nil
	}

	// Affordance keys are consumed here, before enter activates the row.
	switch msg.String() {
	case "n":
		m.openInputModal(modalCreate, "")
		return m, nil
	case "e":
		if m.pane.BeginRename(selectedID(m.list)) {
			m.openInputModal(modalRename, m.pane.RenameState().Value)
		}
		return m, nil
	case "d":
		if m.pane.BeginDelete(selectedID(m.list)) {
			m.modal = modalDelete
			m.modalErr = nil
			m.confirmFocus = confirmFocusCancel
		}
		return m, nil
	case "enter":
		id := selectedID(m.list)
		if id == "" {
			return m, nil
		}
		if m.view == viewQuestions {
			m.modal = modalQuestion
			m.questionID = id
			return m, nil
		}
		m.pane.Activate(id)
		return m, m.applyNavigation()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalCreate, modalRename:
		switch msg.String() {
		case "esc", "ctrl+g":
			if m.modal == modalCreate {
				m.pane.CancelDraft()
			} else {
				m.pane.CancelRename()
			}
			m.closeModal()
			return m, nil
		case "enter":
			if m.pane.Busy() {
				return m, nil
			}
			m.modalErr = nil
			if m.modal == modalCreate {
				m.pane.SetDraft(m.input.Value())
				return m, m.pane.Create(m.gen)
			}
			m.pane.SetRenameText(m.input.Value())
			return m, m.pane.SaveRename(m.gen)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.modal == modalCreate {
			m.pane.SetDraft(m.input.Value())
		} else {
			m.pane.SetRenameText(m.input.Value())
		}
		return m, cmd

	case modalDelete:
		switch msg.String() {
		case "esc", "ctrl+g", "n":
			m.pane.CancelDelete()
			m.closeModal()
			return m, nil
		case "tab", "shift+tab", "left", "right", "h", "l":
			if m.confirmFocus == confirmFocusConfirm {
				m.confirmFocus = confirmFocusCancel
			} else {
				m.confirmFocus = confirmFocusConfirm
			}
			return m, nil
		case "y":
			return m, m.confirmDelete()
		case "enter":
			if m.confirmFocus == confirmFocusConfirm {
				return m, m.confirmDelete()
			}
			m.pane.CancelDelete()
			m.closeModal()
			return m, nil
		}
		return m, nil

	case modalQuestion:
		switch msg.String() {
		case "esc", "enter", "q", "ctrl+g":
			m.closeModal()
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}
	return m, nil
}

func (m *appModel) confirmDelete() tea.Cmd {
	if m.pane.Busy() {
		return nil
	}
	m.modalErr = nil
	return m.pane.ConfirmDelete(m.gen)
}

func (m *appModel) openInputModal(kind modalKind, value string) {
	m.modal = kind
	m.modalErr = nil
	m.input.Reset()
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Width = modalBodyWidth(m.width) - 2
	_ = m.input.Focus()
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.modalErr = nil
	m.questionID = ""
	m.input.Blur()
}

func (m *appModel) refreshList() {
	if m.pane == nil {
		return
	}
	cur := selectedID(m.list)
	m.list.SetItems(m.pane.Items())
	if cur != "" {
		selectListItemByID(&m.list, cur)
	}
}

func (m *appModel) resizeList() {
	h := m.height - 8
	if h < 4 {
		h = 4
	}
	m.list.SetSize(m.width, h)
}

func (m appModel) selectedQuestion() (model.Question, bool) {
	qp, ok := m.pane.(*managerPane[model.Question])
	if !ok {
		return model.Question{}, false
	}
	return qp.question(m.questionID)
}
