package collection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qbank/internal/model"
)

var testKind = Kind{Name: "project", Label: "Project", Plural: "Projects", ScopeKey: "userId", ScopeLabel: "User"}

func newTestManager(t *testing.T, remote *fakeRemote, opts ...Option[item]) *Manager[item] {
	t.Helper()
	m, err := New[item](testKind, "u1", remote, opts...)
	require.NoError(t, err)
	require.NoError(t, m.Load(context.Background()))
	return m
}

func titles(records []item) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID+":"+r.Title)
	}
	return out
}

func TestManager_AlphaBetaGammaScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	remote := newFakeRemote(item{ID: "1", Title: "Alpha", Scope: "u1"})
	m := newTestManager(t, remote)
	require.Equal(t, []string{"1:Alpha"}, titles(m.Records()))

	m.SetDraft("Alpha")
	_, err := m.Create(ctx)
	require.ErrorIs(t, err, ErrDuplicateTitle)
	assert.Equal(t, []string{"1:Alpha"}, titles(m.Records()))
	assert.Equal(t, 0, remote.count(OpCreate))

	m.SetDraft("Beta")
	beta, err := m.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, item{ID: "2", Title: "Beta", Scope: "u1"}, beta)
	assert.Equal(t, []string{"1:Alpha", "2:Beta"}, titles(m.Records()))
	assert.Empty(t, m.Draft())

	m.BeginRename(beta)
	assert.Equal(t, "Beta", m.RenameDialog().Value)
	m.SetRenameText("Gamma")
	_, err = m.SaveRename(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1:Alpha", "2:Gamma"}, titles(m.Records()))
	assert.False(t, m.RenameDialog().Open)

	alpha, ok := m.Find("1")
	require.True(t, ok)
	m.BeginDelete(alpha)
	assert.Len(t, m.Records(), 2, "opening the delete dialog must not remove")
	require.NoError(t, m.ConfirmDelete(ctx))
	assert.Equal(t, []string{"2:Gamma"}, titles(m.Records()))
	assert.False(t, m.DeleteDialog().Open)
}

func TestManager_NoDriftAgainstFreshListing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	remote := newFakeRemote(
		item{ID: "1", Title: "One", Scope: "u1"},
		item{ID: "2", Title: "Two", Scope: "u1"},
		item{ID: "3", Title: "Other scope", Scope: "u2"},
	)
	m := newTestManager(t, remote)

	for _, title := range []string{"Three", "Four", "Five"} {
		_, err := m.CreateWith(ctx, model.Draft{Title: title})
		require.NoError(t, err)
	}
	two, _ := m.Find("2")
	m.BeginRename(two)
	m.SetRenameText("  Deux ")
	_, err := m.SaveRename(ctx)
	require.NoError(t, err)

	four, _ := m.Find("5")
	m.BeginDelete(four)
	require.NoError(t, m.ConfirmDelete(ctx))
	one, _ := m.Find("1")
	m.BeginDelete(one)
	require.NoError(t, m.ConfirmDelete(ctx))

	fresh, err := remote.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, fresh, m.Records())
	assert.Equal(t, []string{"2:Deux", "4:Three", "6:Five"}, titles(m.Records()))
}

func TestManager_CreateValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	remote := newFakeRemote(item{ID: "1", Title: "Alpha", Scope: "u1"})
	m := newTestManager(t, remote)

	tests := []struct {
		name  string
		draft string
		want  error
	}{
		{name: "empty", draft: "", want: ErrEmptyTitle},
		{name: "whitespace", draft: "   \t", want: ErrEmptyTitle},
		{name: "duplicate after trim", draft: "  Alpha  ", want: ErrDuplicateTitle},
	}
	for _, tc := range tests {
		m.SetDraft(tc.draft)
		_, err := m.Create(ctx)
		require.ErrorIs(t, err, tc.want, tc.name)
		assert.True(t, IsValidation(err), tc.name)
		assert.Equal(t, tc.draft, m.Draft(), "draft kept: %s", tc.name)
	}
	assert.Equal(t, 0, remote.count(OpCreate))

	// Comparison is case-sensitive.
	_, err := m.CreateWith(ctx, model.Draft{Title: "alpha"})
	require.NoError(t, err)
	assert.Len(t, m.Records(), 2)
}

func TestManager_CreateFailureKeepsDraft(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	remote := newFakeRemote()
	m := newTestManager(t, remote)
	remote.failCreate = true

	m.SetDraft("Beta")
	_, err := m.Create(ctx)
	require.Error(t, err)
	assert.True(t, IsRemote(err))
	assert.ErrorIs(t, err, errRemoteDown)
	assert.Equal(t, "Beta", m.Draft())
	assert.Empty(t, m.Records())
	assert.Equal(t, err, m.LastError())

	remote.failCreate = false
	_, err = m.Create(ctx)
	require.NoError(t, err)
	assert.Nil(t, m.LastError())
	assert.Empty(t, m.Draft())
}

func TestManager_ForeignScopeIsNotReconciled(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	remote := newFakeRemote(item{ID: "1", Title: "Alpha", Scope: "u1"})
	m := newTestManager(t, remote)
	remote.foreignScope = true

	m.SetDraft("Beta")
	_, err := m.Create(ctx)
	require.ErrorIs(t, err, ErrScopeMismatch)
	assert.True(t, IsRemote(err))
	assert.Equal(t, "Beta", m.Draft())
	assert.Equal(t, []string{"1:Alpha"}, titles(m.Records()))

	alpha, _ := m.Find("1")
	m.BeginRename(alpha)
	m.SetRenameText("Gamma")
	_, err = m.SaveRename(ctx)
	require.ErrorIs(t, err, ErrScopeMismatch)
	assert.True(t, m.RenameDialog().Open)
	assert.Equal(t, "Gamma", m.RenameDialog().Value)
	assert.Equal(t, []string{"1:Alpha"}, titles(m.Records()))
}

func TestManager_RenameFailureKeepsDialog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	remote := newFakeRemote(item{ID: "1", Title: "Alpha", Scope: "u1"})
	m := newTestManager(t, remote)
	alpha, _ := m.Find("1")

	m.BeginRename(alpha)
	m.SetRenameText("  ")
	_, err := m.SaveRename(ctx)
	require.ErrorIs(t, err, ErrEmptyTitle)
	assert.Equal(t, 0, remote.count(OpRename))
	assert.True(t, m.RenameDialog().Open)

	remote.failRename = true
	m.SetRenameText("Omega")
	_, err = m.SaveRename(ctx)
	require.ErrorIs(t, err, errRemoteDown)
	dlg := m.RenameDialog()
	assert.True(t, dlg.Open)
	assert.Equal(t, "Omega", dlg.Value)
	assert.Equal(t, err, dlg.Err)
	assert.Equal(t, []string{"1:Alpha"}, titles(m.Records()))

	m.CancelRename()
	assert.False(t, m.RenameDialog().Open)
	_, err = m.SaveRename(ctx)
	assert.ErrorIs(t, err, ErrNoRenameTarget)
}

func TestManager_DeleteRequiresConfirm(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	remote := newFakeRemote(item{ID: "1", Title: "Alpha", Scope: "u1"})
	m := newTestManager(t, remote)

	require.ErrorIs(t, m.ConfirmDelete(ctx), ErrNoDeleteTarget)
	assert.Equal(t, 0, remote.count(OpDelete))

	alpha, _ := m.Find("1")
	m.BeginDelete(alpha)
	m.CancelDelete()
	require.ErrorIs(t, m.ConfirmDelete(ctx), ErrNoDeleteTarget)
	assert.Len(t, m.Records(), 1)

	m.BeginDelete(alpha)
	remote.failDelete = true
	err := m.ConfirmDelete(ctx)
	require.ErrorIs(t, err, errRemoteDown)
	assert.True(t, m.DeleteDialog().Open)
	assert.Equal(t, err, m.DeleteDialog().Err)
	assert.Len(t, m.Records(), 1)

	remote.failDelete = false
	require.NoError(t, m.ConfirmDelete(ctx))
	assert.Empty(t, m.Records())
	assert.False(t, m.DeleteDialog().Open)
}

func TestManager_DialogChannelsAreIndependent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	remote := newFakeRemote(
		item{ID: "1", Title: "Alpha", Scope: "u1"},
		item{ID: "2", Title: "Beta", Scope: "u1"},
	)
	m := newTestManager(t, remote)
	alpha, _ := m.Find("1")
	beta, _ := m.Find("2")

	m.BeginRename(alpha)
	m.BeginDelete(beta)
	assert.Equal(t, "1", m.RenameDialog().Target.ID)
	assert.Equal(t, "2", m.DeleteDialog().Target.ID)

	require.NoError(t, m.ConfirmDelete(ctx))
	assert.True(t, m.RenameDialog().Open, "delete success must not close the rename dialog")
	assert.Equal(t, "Alpha", m.RenameDialog().Value)
}

func TestManager_ActivateNavigatesWithoutDialogs(t *testing.T) {
	t.Parallel()
	navigator := &recordingNavigator{}
	route := func(r item) (string, map[string]string) {
		return "/projects/" + r.ID + "/assessments", map[string]string{"projectTitle": r.Title}
	}
	remote := newFakeRemote(item{ID: "1", Title: "Alpha", Scope: "u1"})
	m := newTestManager(t, remote, WithNavigator[item](navigator, route))
	alpha, _ := m.Find("1")

	m.BeginRename(alpha)
	m.BeginDelete(alpha)
	assert.Empty(t, navigator.paths, "affordances must not navigate")

	m.CancelRename()
	m.CancelDelete()
	require.True(t, m.Activate(alpha))
	assert.Equal(t, []string{"/projects/1/assessments"}, navigator.paths)
	assert.Equal(t, "Alpha", navigator.states[0]["projectTitle"])
	assert.False(t, m.RenameDialog().Open)
	assert.False(t, m.DeleteDialog().Open)
}

func TestManager_AfterCreateHook(t *testing.T) {
	t.Parallel()
	var got []item
	remote := newFakeRemote()
	m := newTestManager(t, remote, WithAfterCreate(func(r item) { got = append(got, r) }))

	m.SetDraft("Bank")
	_, err := m.Create(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bank", got[0].Title)

	m.SetDraft("Bank")
	_, err = m.Create(context.Background())
	require.Error(t, err)
	assert.Len(t, got, 1)
}

func TestManager_MissingScope(t *testing.T) {
	t.Parallel()
	_, err := New[item](testKind, "  ", newFakeRemote())
	require.ErrorIs(t, err, ErrMissingScope)
	assert.Equal(t, "Error: User is missing", testKind.MissingScopeMessage())
}

func TestManager_LoadFailureEmptiesCollection(t *testing.T) {
	t.Parallel()
	remote := newFakeRemote(item{ID: "1", Title: "Alpha", Scope: "u1"})
	m := newTestManager(t, remote)
	require.Len(t, m.Records(), 1)

	remote.failList = true
	err := m.Load(context.Background())
	require.ErrorIs(t, err, errRemoteDown)
	assert.Empty(t, m.Records())
	assert.Equal(t, err, m.LastError())
}

// blockingRemote holds Create until release is closed.
type blockingRemote struct {
	*fakeRemote
	started chan struct{}
	release chan struct{}
}

func (b *blockingRemote) Create(ctx context.Context, d model.Draft) (item, error) {
	close(b.started)
	<-b.release
	return b.fakeRemote.Create(ctx, d)
}

func TestManager_PendingCreateIsBusy(t *testing.T) {
	t.Parallel()
	remote := &blockingRemote{fakeRemote: newFakeRemote(), started: make(chan struct{}), release: make(chan struct{})}
	m, err := New[item](testKind, "u1", remote)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := m.CreateWith(context.Background(), model.Draft{Title: "First"})
		done <- err
	}()
	<-remote.started
	assert.True(t, m.Pending(OpCreate))

	_, err = m.CreateWith(context.Background(), model.Draft{Title: "Second"})
	require.ErrorIs(t, err, ErrBusy)

	close(remote.release)
	require.NoError(t, <-done)
	assert.False(t, m.Pending(OpCreate))
	assert.Equal(t, []string{"1:First"}, titles(m.Records()))
}

func TestManager_LateReconciliationAfterClose(t *testing.T) {
	t.Parallel()
	var hooked bool
	remote := &blockingRemote{fakeRemote: newFakeRemote(), started: make(chan struct{}), release: make(chan struct{})}
	m, err := New[item](testKind, "u1", remote, WithAfterCreate(func(item) { hooked = true }))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := m.CreateWith(context.Background(), model.Draft{Title: "Late"})
		done <- err
	}()
	<-remote.started
	m.Close()
	close(remote.release)
	require.NoError(t, <-done)

	assert.Empty(t, m.Records())
	assert.False(t, hooked)
	assert.True(t, m.Closed())
}
