package collection

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"qbank/internal/model"
	"qbank/internal/nav"
)

// RouteFunc maps a record to the detail route its primary area opens.
type RouteFunc[R Resource] func(R) (path string, state map[string]string)

// Manager owns one scope's collection: the store, the create draft, the
// rename/delete dialogs and the mutations that reconcile them with the remote.
//
// Remote calls are made without holding the lock so a bubbletea command can
// settle on its own goroutine while the view keeps reading state.
type Manager[R Resource] struct {
	kind    Kind
	scopeID string
	remote  Remote[R]
	store   *Store[R]

	log         zerolog.Logger
	navigator   nav.Navigator
	route       RouteFunc[R]
	afterCreate func(R)

	mu      sync.Mutex
	draft   string
	dialogs Dialogs[R]
	pending map[Op]bool
	lastErr error
}

type Option[R Resource] func(*Manager[R])

// WithNavigator makes Activate push route(r) onto navigator.
func WithNavigator[R Resource](navigator nav.Navigator, route RouteFunc[R]) Option[R] {
	return func(m *Manager[R]) {
		m.navigator = navigator
		m.route = route
	}
}

func WithLogger[R Resource](log zerolog.Logger) Option[R] {
	return func(m *Manager[R]) { m.log = log }
}

// WithAfterCreate runs fn with the authoritative record after a successful
// create has been reconciled.
func WithAfterCreate[R Resource](fn func(R)) Option[R] {
	return func(m *Manager[R]) { m.afterCreate = fn }
}

// New builds a manager for scopeID. A blank scope is a missing precondition:
// the caller should render an error placeholder instead of the collection.
func New[R Resource](kind Kind, scopeID string, remote Remote[R], opts ...Option[R]) (*Manager[R], error) {
	scopeID = strings.TrimSpace(scopeID)
	if scopeID == "" {
		return nil, ErrMissingScope
	}
	m := &Manager[R]{
		kind:    kind,
		scopeID: scopeID,
		remote:  remote,
		store:   NewStore[R](),
		log:     zerolog.Nop(),
		pending: map[Op]bool{},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.With().Str("kind", kind.Name).Str("scope", scopeID).Logger()
	return m, nil
}

func (m *Manager[R]) Kind() Kind      { return m.kind }
func (m *Manager[R]) ScopeID() string { return m.scopeID }

func (m *Manager[R]) Records() []R { return m.store.Records() }

func (m *Manager[R]) Find(id string) (R, bool) { return m.store.Find(id) }

// Load fetches the scope's listing and replaces the collection with it.
func (m *Manager[R]) Load(ctx context.Context) error {
	if err := m.begin(OpLoad); err != nil {
		return err
	}
	err := m.store.Load(ctx, m.remote, m.scopeID)
	m.end(OpLoad)
	if err != nil {
		return m.fail(&RemoteError{Op: OpLoad, Kind: m.kind.Name, Err: err})
	}
	m.clearError()
	return nil
}

func (m *Manager[R]) Draft() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

func (m *Manager[R]) SetDraft(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = s
}

func (m *Manager[R]) CancelDraft() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = ""
	m.lastErr = nil
}

// Create submits the current draft.
func (m *Manager[R]) Create(ctx context.Context) (R, error) {
	return m.CreateWith(ctx, model.Draft{Title: m.Draft()})
}

// CreateWith submits d in this manager's scope. The draft buffer is cleared
// only when the remote create succeeds.
func (m *Manager[R]) CreateWith(ctx context.Context, d model.Draft) (R, error) {
	var zero R
	title := model.NormalizeTitle(d.Title)
	if title == "" {
		return zero, m.fail(&ValidationError{Op: OpCreate, Kind: m.kind.Name, Err: ErrEmptyTitle})
	}
	if m.store.HasTitle(title, "") {
		return zero, m.fail(&ValidationError{Op: OpCreate, Kind: m.kind.Name, Title: title, Err: ErrDuplicateTitle})
	}
	if err := m.begin(OpCreate); err != nil {
		return zero, err
	}

	d.Title = title
	d.ScopeID = m.scopeID
	r, err := m.remote.Create(ctx, d)
	m.end(OpCreate)
	if err != nil {
		return zero, m.fail(&RemoteError{Op: OpCreate, Kind: m.kind.Name, Err: err})
	}
	if got := r.ResourceScopeID(); got != m.scopeID {
		return zero, m.fail(&RemoteError{Op: OpCreate, Kind: m.kind.Name, Err: fmt.Errorf("%w: %s", ErrScopeMismatch, got)})
	}

	m.store.Insert(r)
	m.mu.Lock()
	m.draft = ""
	m.lastErr = nil
	m.mu.Unlock()
	m.log.Debug().Str("id", r.ResourceID()).Msg("created")

	if m.afterCreate != nil && !m.store.Closed() {
		m.afterCreate(r)
	}
	return r, nil
}

func (m *Manager[R]) BeginRename(r R) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dialogs.OpenRename(r)
}

func (m *Manager[R]) SetRenameText(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dialogs.SetRenameValue(s)
}

func (m *Manager[R]) CancelRename() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dialogs.CloseRename()
}

func (m *Manager[R]) RenameDialog() DialogState[R] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dialogs.Rename()
}

// SaveRename renames the rename target to the dialog's text. On failure the
// dialog stays open with the attempted title.
func (m *Manager[R]) SaveRename(ctx context.Context) (R, error) {
	var zero R
	m.mu.Lock()
	dlg := m.dialogs.Rename()
	m.mu.Unlock()
	if !dlg.Open {
		return zero, m.fail(ErrNoRenameTarget)
	}

	id := dlg.Target.ResourceID()
	title := model.NormalizeTitle(dlg.Value)
	if title == "" {
		return zero, m.failRename(id, &ValidationError{Op: OpRename, Kind: m.kind.Name, Err: ErrEmptyTitle})
	}
	if err := m.begin(OpRename); err != nil {
		return zero, err
	}

	r, err := m.remote.Rename(ctx, id, title)
	m.end(OpRename)
	if err != nil {
		return zero, m.failRename(id, &RemoteError{Op: OpRename, Kind: m.kind.Name, Err: err})
	}
	if got := r.ResourceScopeID(); got != m.scopeID {
		return zero, m.failRename(id, &RemoteError{Op: OpRename, Kind: m.kind.Name, Err: fmt.Errorf("%w: %s", ErrScopeMismatch, got)})
	}

	if err := m.store.Replace(id, r); err != nil {
		// Removed locally while the call was in flight; the remote record stands.
		m.log.Debug().Str("id", id).Msg("renamed record no longer in collection")
	}
	m.mu.Lock()
	if cur := m.dialogs.Rename(); cur.Open && cur.Target.ResourceID() == id {
		m.dialogs.CloseRename()
	}
	m.lastErr = nil
	m.mu.Unlock()
	return r, nil
}

func (m *Manager[R]) BeginDelete(r R) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dialogs.OpenDelete(r)
}

func (m *Manager[R]) CancelDelete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dialogs.CloseDelete()
}

func (m *Manager[R]) DeleteDialog() DialogState[R] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dialogs.Delete()
}

// ConfirmDelete deletes the delete target. Without an open delete dialog it
// does nothing and returns ErrNoDeleteTarget.
func (m *Manager[R]) ConfirmDelete(ctx context.Context) error {
	m.mu.Lock()
	dlg := m.dialogs.Delete()
	m.mu.Unlock()
	if !dlg.Open {
		return m.fail(ErrNoDeleteTarget)
	}
	if err := m.begin(OpDelete); err != nil {
		return err
	}

	id := dlg.Target.ResourceID()
	err := m.remote.Delete(ctx, id)
	m.end(OpDelete)
	if err != nil {
		err = m.fail(&RemoteError{Op: OpDelete, Kind: m.kind.Name, Err: err})
		m.mu.Lock()
		if cur := m.dialogs.Delete(); cur.Open && cur.Target.ResourceID() == id {
			m.dialogs.delete.Err = err
		}
		m.mu.Unlock()
		return err
	}

	m.store.Remove(id)
	m.mu.Lock()
	if cur := m.dialogs.Delete(); cur.Open && cur.Target.ResourceID() == id {
		m.dialogs.CloseDelete()
	}
	m.lastErr = nil
	m.mu.Unlock()
	m.log.Debug().Str("id", id).Msg("deleted")
	return nil
}

// Activate handles a click on the record's primary area: it navigates to the
// record's detail route and never opens or closes a dialog.
func (m *Manager[R]) Activate(r R) bool {
	if m.navigator == nil || m.route == nil || m.store.Closed() {
		return false
	}
	path, state := m.route(r)
	if path == "" {
		return false
	}
	m.navigator.NavigateTo(path, state)
	return true
}

func (m *Manager[R]) Pending(op Op) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[op]
}

// LastError is the most recent failure, cleared by the next success.
func (m *Manager[R]) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Close detaches the manager from its view; in-flight calls still settle but
// no longer change the collection.
func (m *Manager[R]) Close() {
	m.store.Close()
}

func (m *Manager[R]) Closed() bool { return m.store.Closed() }

func (m *Manager[R]) begin(op Op) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending[op] {
		return ErrBusy
	}
	m.pending[op] = true
	return nil
}

func (m *Manager[R]) end(op Op) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, op)
}

func (m *Manager[R]) fail(err error) error {
	if IsRemote(err) {
		m.log.Warn().Err(err).Msg("remote call failed")
	}
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
	return err
}

func (m *Manager[R]) failRename(id string, err error) error {
	err = m.fail(err)
	m.mu.Lock()
	if cur := m.dialogs.Rename(); cur.Open && cur.Target.ResourceID() == id {
		m.dialogs.rename.Err = err
	}
	m.mu.Unlock()
	return err
}

func (m *Manager[R]) clearError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastErr = nil
}
