package web

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"qbank/internal/collection"
	"qbank/internal/model"
	"qbank/internal/nav"
	"qbank/internal/resources"
	"qbank/internal/store"
)

// pageHeader is the breadcrumb context of a page: the project and bank the
// request path points into, with their current titles.
type pageHeader struct {
	ProjectID    string
	ProjectTitle string
	BankID       string
	BankTitle    string
}

type crumbVM struct {
	Label string
	Href  string
}

type rowVM struct {
	ID      string
	Title   string
	Summary string
	// Href opens the record. Path is the base of its rename and delete actions.
	Href string
	Path string

	Renaming    bool
	RenameValue string
	RenameError string
}

type toggleVM struct {
	Action  string
	Current collection.ViewMode
	Modes   []collection.ViewMode
}

type listVM struct {
	Title     string
	Crumbs    []crumbVM
	StreamURL string
	Kind      collection.Kind

	CreatePath       string
	Draft            string
	DraftDescription string
	Describe         bool

	Rows        []rowVM
	Error       string
	Placeholder string
	Toggle      *toggleVM
}

type confirmVM struct {
	Title      string
	Crumbs     []crumbVM
	Kind       collection.Kind
	Target     string
	Action     string
	CancelHref string
	Error      string
}

type questionVM struct {
	Title       string
	Crumbs      []crumbVM
	Question    model.Question
	Description template.HTML
	BackHref    string
	Path        string
}

type assessmentsVM struct {
	Title   string
	Crumbs  []crumbVM
	Message string
	Toggle  *toggleVM
}

// collectionPage binds one resource kind to its URLs and its manager.
type collectionPage[R collection.Resource] struct {
	kind    collection.Kind
	idParam string
	// describe adds a markdown description field to the create form.
	describe bool
	toggle   bool

	header  func(s *Server, r *http.Request) (pageHeader, error)
	scope   func(s *Server, h pageHeader) string
	manager func(s *Server, scope string, navigator nav.Navigator) (*collection.Manager[R], error)

	listPath   func(h pageHeader) string
	createPath func(h pageHeader) string
	streamPath func(h pageHeader) string
	rowPath    func(h pageHeader, rec R) string
	rowHref    func(h pageHeader, rec R) string
	summary    func(rec R) string
}

var projectsPage = collectionPage[model.Project]{
	kind:    resources.ProjectKind,
	idParam: "projectId",
	header: func(*Server, *http.Request) (pageHeader, error) {
		return pageHeader{}, nil
	},
	scope: func(s *Server, _ pageHeader) string { return s.cfg.UserID },
	manager: func(s *Server, scope string, navigator nav.Navigator) (*collection.Manager[model.Project], error) {
		return resources.NewProjectManager(s.cfg.API, scope, navigator, s.cfg.Log)
	},
	listPath:   func(pageHeader) string { return nav.ProjectsPath() },
	createPath: func(pageHeader) string { return nav.ProjectsPath() },
	streamPath: func(pageHeader) string { return "/events" },
	rowPath: func(_ pageHeader, p model.Project) string {
		return nav.ProjectsPath() + "/" + url.PathEscape(p.ID)
	},
	rowHref: func(_ pageHeader, p model.Project) string {
		path, _ := resources.ProjectRoute(p)
		return path
	},
	summary: func(model.Project) string { return "" },
}

var questionBanksPage = collectionPage[model.QuestionBank]{
	kind:    resources.QuestionBankKind,
	idParam: "bankId",
	toggle:  true,
	header:  (*Server).projectHeader,
	scope:   func(_ *Server, h pageHeader) string { return h.ProjectID },
	manager: func(s *Server, scope string, navigator nav.Navigator) (*collection.Manager[model.QuestionBank], error) {
		return resources.NewQuestionBankManager(s.cfg.API, scope, navigator, s.cfg.Log)
	},
	listPath:   func(h pageHeader) string { return nav.QuestionBanksPath(h.ProjectID) },
	createPath: func(h pageHeader) string { return nav.QuestionBanksPath(h.ProjectID) },
	streamPath: func(h pageHeader) string { return "/projects/" + url.PathEscape(h.ProjectID) + "/events" },
	rowPath: func(h pageHeader, b model.QuestionBank) string {
		return nav.QuestionBankPath(h.ProjectID, b.ID)
	},
	rowHref: func(_ pageHeader, b model.QuestionBank) string {
		path, _ := resources.QuestionBankRoute(b)
		return path
	},
	summary: func(model.QuestionBank) string { return "" },
}

var questionsPage = collectionPage[model.Question]{
	kind:     resources.QuestionKind,
	idParam:  "questionId",
	describe: true,
	header:   (*Server).bankHeader,
	scope:    func(_ *Server, h pageHeader) string { return h.BankID },
	manager: func(s *Server, scope string, _ nav.Navigator) (*collection.Manager[model.Question], error) {
		return resources.NewQuestionManager(s.cfg.API, scope, s.cfg.Log)
	},
	listPath:   func(h pageHeader) string { return nav.QuestionBankPath(h.ProjectID, h.BankID) },
	createPath: func(h pageHeader) string { return nav.QuestionBankPath(h.ProjectID, h.BankID) + "/questions" },
	streamPath: func(h pageHeader) string { return nav.QuestionBankPath(h.ProjectID, h.BankID) + "/events" },
	rowPath:    questionPath,
	rowHref:    questionPath,
	summary:    func(q model.Question) string { return firstLine(q.Description) },
}

func questionPath(h pageHeader, q model.Question) string {
	return nav.QuestionBankPath(h.ProjectID, h.BankID) + "/questions/" + url.PathEscape(q.ID)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	const limit = 80
	if r := []rune(s); len(r) > limit {
		s = string(r[:limit-1]) + "…"
	}
	return s
}

func (s *Server) projectHeader(r *http.Request) (pageHeader, error) {
	id := strings.TrimSpace(r.PathValue("projectId"))
	if id == "" {
		return pageHeader{}, store.NotFoundError{Kind: "project", ID: id}
	}
	p, err := s.cfg.API.GetProject(r.Context(), id)
	if err != nil {
		return pageHeader{}, err
	}
	return pageHeader{ProjectID: p.ID, ProjectTitle: p.Title}, nil
}

// bankHeader also rejects a bank that lives under a different project than
// the one in the path.
func (s *Server) bankHeader(r *http.Request) (pageHeader, error) {
	h, err := s.projectHeader(r)
	if err != nil {
		return h, err
	}
	id := strings.TrimSpace(r.PathValue("bankId"))
	b, err := s.cfg.API.GetQuestionBank(r.Context(), id)
	if err != nil {
		return h, err
	}
	if b.ProjectID != h.ProjectID {
		return h, store.NotFoundError{Kind: "question bank", ID: id}
	}
	h.BankID = b.ID
	h.BankTitle = b.Title
	return h, nil
}

func (h pageHeader) crumbs() []crumbVM {
	out := []crumbVM{{Label: "Projects", Href: nav.ProjectsPath()}}
	if h.ProjectID == "" {
		return out
	}
	out = append(out, crumbVM{Label: h.ProjectTitle, Href: nav.QuestionBanksPath(h.ProjectID)})
	if h.BankID == "" {
		return out
	}
	return append(out, crumbVM{Label: h.BankTitle, Href: nav.QuestionBankPath(h.ProjectID, h.BankID)})
}

func (pg collectionPage[R]) key(s *Server, h pageHeader) resourceKey {
	return resourceKey{kind: pg.kind.Name, scope: pg.scope(s, h)}
}

func (pg collectionPage[R]) title(h pageHeader) string {
	switch {
	case h.BankTitle != "":
		return h.BankTitle
	case h.ProjectTitle != "":
		return h.ProjectTitle
	default:
		return pg.kind.Plural
	}
}

func (pg collectionPage[R]) baseVM(h pageHeader) listVM {
	vm := listVM{
		Title:      pg.title(h),
		Crumbs:     h.crumbs(),
		StreamURL:  pg.streamPath(h),
		Kind:       pg.kind,
		CreatePath: pg.createPath(h),
		Describe:   pg.describe,
	}
	if pg.toggle {
		vm.Toggle = newToggleVM(h.ProjectID, collection.ViewResourceBank)
	}
	return vm
}

// buildList renders m's current state: records, draft, the open rename dialog
// and the last failure.
func (pg collectionPage[R]) buildList(h pageHeader, m *collection.Manager[R]) listVM {
	vm := pg.baseVM(h)
	vm.Draft = m.Draft()

	dlg := m.RenameDialog()
	for _, rec := range m.Records() {
		row := rowVM{
			ID:      rec.ResourceID(),
			Title:   rec.ResourceTitle(),
			Summary: pg.summary(rec),
			Href:    pg.rowHref(h, rec),
			Path:    pg.rowPath(h, rec),
		}
		if dlg.Open && dlg.Target.ResourceID() == row.ID {
			row.Renaming = true
			row.RenameValue = dlg.Value
			if dlg.Err != nil {
				row.RenameError = dlg.Err.Error()
			}
		}
		vm.Rows = append(vm.Rows, row)
	}
	if err := m.LastError(); err != nil && !(dlg.Open && dlg.Err != nil) {
		vm.Error = err.Error()
	}
	return vm
}

// open resolves the page header and a loaded manager for r. On a missing
// scope the returned manager is nil and err is collection.ErrMissingScope.
func (pg collectionPage[R]) open(s *Server, r *http.Request, navigator nav.Navigator) (pageHeader, *collection.Manager[R], error) {
	h, err := pg.header(s, r)
	if err != nil {
		return h, nil, err
	}
	m, err := pg.manager(s, pg.scope(s, h), navigator)
	if err != nil {
		return h, nil, err
	}
	return h, m, nil
}

// writeOpenError answers a request whose page could not be opened. A missing
// scope renders the placeholder instead of the collection.
func (pg collectionPage[R]) writeOpenError(s *Server, w http.ResponseWriter, h pageHeader, err error, status int) {
	if errors.Is(err, collection.ErrMissingScope) {
		vm := pg.baseVM(h)
		vm.Placeholder = pg.kind.MissingScopeMessage()
		s.writeHTMLTemplate(w, status, "list.html", vm)
		return
	}
	http.Error(w, err.Error(), errStatus(err))
}

func handleList[R collection.Resource](s *Server, pg collectionPage[R]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, m, err := pg.open(s, r, nil)
		if err != nil {
			pg.writeOpenError(s, w, h, err, http.StatusOK)
			return
		}
		defer m.Close()

		status := http.StatusOK
		if err := m.Load(r.Context()); err != nil {
			status = errStatus(err)
		}
		s.writeHTMLTemplate(w, status, "list.html", pg.buildList(h, m))
	}
}

// handleListEvents streams the list's main area, re-rendered from a fresh
// load on connect and after every mutation of the same scope.
func handleListEvents[R collection.Resource](s *Server, pg collectionPage[R]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := pg.header(s, r)
		if err != nil {
			http.Error(w, err.Error(), errStatus(err))
			return
		}
		s.serveListStream(w, r, pg.key(s, h), func() (string, error) {
			m, err := pg.manager(s, pg.scope(s, h), nil)
			if err != nil {
				if !errors.Is(err, collection.ErrMissingScope) {
					return "", err
				}
				vm := pg.baseVM(h)
				vm.Placeholder = pg.kind.MissingScopeMessage()
				return s.renderTemplate("list_main", vm)
			}
			defer m.Close()
			_ = m.Load(r.Context())
			return s.renderTemplate("list_main", pg.buildList(h, m))
		})
	}
}

// handleCreate submits the posted draft. A failure re-renders the list with
// the draft kept; success redirects to wherever the manager navigated, or
// back to the list.
func handleCreate[R collection.Resource](s *Server, pg collectionPage[R]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var target string
		navigator := nav.NavigatorFunc(func(path string, _ map[string]string) { target = path })

		h, m, err := pg.open(s, r, navigator)
		if err != nil {
			pg.writeOpenError(s, w, h, err, http.StatusBadRequest)
			return
		}
		defer m.Close()
		if err := m.Load(r.Context()); err != nil {
			s.writeHTMLTemplate(w, errStatus(err), "list.html", pg.buildList(h, m))
			return
		}

		_ = r.ParseForm()
		m.SetDraft(r.Form.Get("title"))
		d := model.Draft{Title: m.Draft()}
		if pg.describe {
			d.Description = strings.TrimSpace(r.Form.Get("description"))
		}
		if _, err := m.CreateWith(r.Context(), d); err != nil {
			vm := pg.buildList(h, m)
			vm.DraftDescription = d.Description
			s.writeHTMLTemplate(w, errStatus(err), "list.html", vm)
			return
		}
		s.bc.notify(pg.key(s, h))

		if target == "" {
			target = pg.listPath(h)
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
	}
}

// find loads m and looks up the record named by the request path.
func (pg collectionPage[R]) find(r *http.Request, m *collection.Manager[R]) (R, error) {
	var zero R
	if err := m.Load(r.Context()); err != nil {
		return zero, err
	}
	id := strings.TrimSpace(r.PathValue(pg.idParam))
	rec, ok := m.Find(id)
	if !ok {
		return zero, store.NotFoundError{Kind: pg.kind.Name, ID: id}
	}
	return rec, nil
}

func handleRename[R collection.Resource](s *Server, pg collectionPage[R]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, m, err := pg.open(s, r, nil)
		if err != nil {
			pg.writeOpenError(s, w, h, err, http.StatusBadRequest)
			return
		}
		defer m.Close()
		rec, err := pg.find(r, m)
		if err != nil {
			http.Error(w, err.Error(), errStatus(err))
			return
		}

		_ = r.ParseForm()
		m.BeginRename(rec)
		m.SetRenameText(r.Form.Get("title"))
		if _, err := m.SaveRename(r.Context()); err != nil {
			s.writeHTMLTemplate(w, errStatus(err), "list.html", pg.buildList(h, m))
			return
		}
		s.bc.notify(pg.key(s, h))
		http.Redirect(w, r, pg.listPath(h), http.StatusSeeOther)
	}
}

func (pg collectionPage[R]) confirm(h pageHeader, rec R, err error) confirmVM {
	vm := confirmVM{
		Title:      "Delete " + pg.kind.Name,
		Crumbs:     h.crumbs(),
		Kind:       pg.kind,
		Target:     rec.ResourceTitle(),
		Action:     pg.rowPath(h, rec) + "/delete",
		CancelHref: pg.listPath(h),
	}
	if err != nil {
		vm.Error = err.Error()
	}
	return vm
}

// handleDeleteConfirm opens the delete dialog for the record: a page naming
// it, with a confirm button and a way back.
func handleDeleteConfirm[R collection.Resource](s *Server, pg collectionPage[R]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, m, err := pg.open(s, r, nil)
		if err != nil {
			pg.writeOpenError(s, w, h, err, http.StatusOK)
			return
		}
		defer m.Close()
		rec, err := pg.find(r, m)
		if err != nil {
			http.Error(w, err.Error(), errStatus(err))
			return
		}
		m.BeginDelete(rec)
		s.writeHTMLTemplate(w, http.StatusOK, "confirm_delete.html", pg.confirm(h, m.DeleteDialog().Target, nil))
	}
}

// handleDelete deletes only with confirm=yes; anything else goes back to the
// confirmation page.
func handleDelete[R collection.Resource](s *Server, pg collectionPage[R]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, m, err := pg.open(s, r, nil)
		if err != nil {
			pg.writeOpenError(s, w, h, err, http.StatusBadRequest)
			return
		}
		defer m.Close()
		rec, err := pg.find(r, m)
		if err != nil {
			http.Error(w, err.Error(), errStatus(err))
			return
		}

		_ = r.ParseForm()
		if r.Form.Get("confirm") != "yes" {
			http.Redirect(w, r, pg.rowPath(h, rec)+"/delete", http.StatusSeeOther)
			return
		}
		m.BeginDelete(rec)
		if err := m.ConfirmDelete(r.Context()); err != nil {
			s.writeHTMLTemplate(w, errStatus(err), "confirm_delete.html", pg.confirm(h, rec, err))
			return
		}
		s.bc.notify(pg.key(s, h))
		http.Redirect(w, r, pg.listPath(h), http.StatusSeeOther)
	}
}

func newToggleVM(projectID string, current collection.ViewMode) *toggleVM {
	return &toggleVM{
		Action:  "/projects/" + url.PathEscape(projectID) + "/view",
		Current: current,
		Modes:   []collection.ViewMode{collection.ViewAssessment, collection.ViewResourceBank},
	}
}

func (s *Server) handleAssessments(w http.ResponseWriter, r *http.Request) {
	h, err := s.projectHeader(r)
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	s.writeHTMLTemplate(w, http.StatusOK, "assessments.html", assessmentsVM{
		Title:   h.ProjectTitle,
		Crumbs:  h.crumbs(),
		Message: "Assessments for this project are managed elsewhere.",
		Toggle:  newToggleVM(h.ProjectID, collection.ViewAssessment),
	})
}

// handleViewToggle applies a toggle selection posted from either project
// view. Selecting the current mode stays on the same page.
func (s *Server) handleViewToggle(w http.ResponseWriter, r *http.Request) {
	h, err := s.projectHeader(r)
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	_ = r.ParseForm()
	current := collection.ViewMode(r.Form.Get("current"))

	var target string
	toggle := collection.NewToggle(current, func(m collection.ViewMode) {
		if m == collection.ViewAssessment {
			target = nav.AssessmentsPath(h.ProjectID)
			return
		}
		target = nav.QuestionBanksPath(h.ProjectID)
	})
	if !toggle.Select(collection.ViewMode(r.Form.Get("mode"))) {
		if toggle.Current() == collection.ViewAssessment {
			target = nav.AssessmentsPath(h.ProjectID)
		} else {
			target = nav.QuestionBanksPath(h.ProjectID)
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	h, err := s.bankHeader(r)
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	id := strings.TrimSpace(r.PathValue("questionId"))
	q, err := s.cfg.API.GetQuestion(r.Context(), id)
	if err != nil {
		http.Error(w, err.Error(), errStatus(err))
		return
	}
	if q.QuestionBankID != h.BankID {
		http.NotFound(w, r)
		return
	}
	s.writeHTMLTemplate(w, http.StatusOK, "question.html", questionVM{
		Title:       q.Title,
		Crumbs:      h.crumbs(),
		Question:    q,
		Description: renderMarkdownHTML(q.Description),
		BackHref:    nav.QuestionBankPath(h.ProjectID, h.BankID),
		Path:        questionPath(h, q),
	})
}

// errStatus maps a manager or store failure to its HTTP status.
func errStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, collection.ErrDuplicateTitle), errors.Is(err, store.ErrDuplicateTitle):
		return http.StatusConflict
	case errors.Is(err, collection.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, collection.ErrEmptyTitle), errors.Is(err, store.ErrEmptyTitle),
		errors.Is(err, collection.ErrMissingScope), errors.Is(err, store.ErrEmptyScope):
		return http.StatusBadRequest
	case store.IsNotFound(err), errors.Is(err, collection.ErrNotFound):
		return http.StatusNotFound
	case collection.IsRemote(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
