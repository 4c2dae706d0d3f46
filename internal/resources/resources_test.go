package resources

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qbank/internal/collection"
	"qbank/internal/model"
	"qbank/internal/nav"
	"qbank/internal/store"
)

var _ API = (*store.DB)(nil)

func openDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := (store.Store{Dir: t.TempDir()}).Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func projectTitles(ps []model.Project) []string {
	out := []string{}
	for _, p := range ps {
		out = append(out, p.Title)
	}
	return out
}

func TestProjectManager_AgainstSQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	_, err := db.CreateProject(ctx, model.Draft{Title: "Alpha", ScopeID: "u1"})
	require.NoError(t, err)

	var paths []string
	navigator := nav.NavigatorFunc(func(path string, _ map[string]string) { paths = append(paths, path) })
	m, err := NewProjectManager(db, "u1", navigator, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Load(ctx))

	_, err = m.CreateWith(ctx, model.Draft{Title: "Alpha"})
	require.ErrorIs(t, err, collection.ErrDuplicateTitle)

	beta, err := m.CreateWith(ctx, model.Draft{Title: "Beta"})
	require.NoError(t, err)
	assert.Equal(t, "u1", beta.UserID)
	assert.Empty(t, paths, "creating a project does not open it")

	m.BeginRename(beta)
	m.SetRenameText("Gamma")
	_, err = m.SaveRename(ctx)
	require.NoError(t, err)

	alpha := m.Records()[0]
	m.BeginDelete(alpha)
	require.NoError(t, m.ConfirmDelete(ctx))

	fresh, err := db.ListProjects(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, fresh, m.Records())
	assert.Equal(t, []string{"Gamma"}, projectTitles(m.Records()))

	require.True(t, m.Activate(m.Records()[0]))
	assert.Equal(t, []string{nav.AssessmentsPath(beta.ID)}, paths)
}

func TestQuestionBankManager_OpensNewBank(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	p, err := db.CreateProject(ctx, model.Draft{Title: "P", ScopeID: "u1"})
	require.NoError(t, err)

	var paths []string
	var states []map[string]string
	navigator := nav.NavigatorFunc(func(path string, state map[string]string) {
		paths = append(paths, path)
		states = append(states, state)
	})
	m, err := NewQuestionBankManager(db, p.ID, navigator, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, m.Load(ctx))

	m.SetDraft("Unit 1")
	b, err := m.Create(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{nav.QuestionBankPath(p.ID, b.ID)}, paths)
	assert.Equal(t, "Unit 1", states[0][nav.StateQuestionBankTitle])

	route, err := nav.Parse(paths[0])
	require.NoError(t, err)
	assert.Equal(t, nav.RouteQuestions, route.Name)
	assert.Equal(t, b.ID, route.QuestionBankID)
}

func TestManagers_MissingScope(t *testing.T) {
	t.Parallel()
	db := openDB(t)

	_, err := NewProjectManager(db, "", nil, zerolog.Nop())
	require.ErrorIs(t, err, collection.ErrMissingScope)
	assert.Equal(t, "Error: User is missing", ProjectKind.MissingScopeMessage())

	_, err = NewQuestionBankManager(db, " ", nil, zerolog.Nop())
	require.ErrorIs(t, err, collection.ErrMissingScope)
	assert.Equal(t, "Error: Project ID is missing", QuestionBankKind.MissingScopeMessage())
}

func TestQuestionManager_CreateWithDescription(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	p, _ := db.CreateProject(ctx, model.Draft{Title: "P", ScopeID: "u1"})
	b, _ := db.CreateQuestionBank(ctx, model.Draft{Title: "B", ScopeID: p.ID})

	m, err := NewQuestionManager(db, b.ID, zerolog.Nop())
	require.NoError(t, err)
	q, err := m.CreateWith(ctx, model.Draft{Title: "What is 2+2?", Description: "Show **working**."})
	require.NoError(t, err)
	assert.Equal(t, "Show **working**.", q.Description)
	assert.Equal(t, b.ID, q.QuestionBankID)
	assert.False(t, m.Activate(q), "questions have no detail route")
}
