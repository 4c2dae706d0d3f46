package web

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qbank/internal/collection"
	"qbank/internal/model"
	"qbank/internal/nav"
	"qbank/internal/store"
)

const testUser = "user-1"

func newTestServer(t *testing.T, userID string) (*Server, *store.DB) {
	t.Helper()
	db, err := (store.Store{Dir: t.TempDir()}).Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewServer(ServerConfig{API: db, UserID: userID, Log: zerolog.Nop()})
	require.NoError(t, err)
	return s, db
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func postForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func mustProject(t *testing.T, db *store.DB, title string) model.Project {
	t.Helper()
	p, err := db.CreateProject(context.Background(), model.Draft{Title: title, ScopeID: testUser})
	require.NoError(t, err)
	return p
}

func mustBank(t *testing.T, db *store.DB, projectID, title string) model.QuestionBank {
	t.Helper()
	b, err := db.CreateQuestionBank(context.Background(), model.Draft{Title: title, ScopeID: projectID})
	require.NoError(t, err)
	return b
}

func TestNewServer_RequiresBackend(t *testing.T) {
	t.Parallel()
	_, err := NewServer(ServerConfig{})
	require.Error(t, err)
}

func TestHealthAndAssets(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t, testUser)
	h := s.Handler()

	rec := get(t, h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())

	rec = get(t, h, "/static/app.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")

	rec = get(t, h, "/")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/projects", rec.Header().Get("Location"))
}

func TestProjects_MissingUserShowsPlaceholder(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t, "")

	rec := get(t, s.Handler(), "/projects")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Error: User is missing")
	assert.NotContains(t, rec.Body.String(), `class="create"`)

	rec = postForm(t, s.Handler(), "/projects", url.Values{"title": {"Alpha"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjects_CreateListAndRename(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t, testUser)
	h := s.Handler()
	ctx := context.Background()

	rec := postForm(t, h, "/projects", url.Values{"title": {"  Alpha  "}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/projects", rec.Header().Get("Location"))

	projects, err := db.ListProjects(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	p := projects[0]
	assert.Equal(t, "Alpha", p.Title)

	rec = get(t, h, "/projects")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Alpha")
	assert.Contains(t, body, `href="`+nav.AssessmentsPath(p.ID)+`"`)
	assert.Contains(t, body, `data-init="@get('/events')"`)

	t.Run("duplicate keeps draft", func(t *testing.T) {
		rec := postForm(t, h, "/projects", url.Values{"title": {"Alpha "}})
		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "already exists")
		assert.Contains(t, rec.Body.String(), `value="Alpha "`)

		projects, err := db.ListProjects(ctx, testUser)
		require.NoError(t, err)
		assert.Len(t, projects, 1)
	})

	t.Run("empty rename keeps dialog open", func(t *testing.T) {
		rec := postForm(t, h, "/projects/"+p.ID+"/rename", url.Values{"title": {"   "}})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "title cannot be empty")
		assert.Contains(t, rec.Body.String(), `<details class="rename" open>`)
	})

	t.Run("rename", func(t *testing.T) {
		rec := postForm(t, h, "/projects/"+p.ID+"/rename", url.Values{"title": {"Beta"}})
		require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

		got, err := db.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Beta", got.Title)
	})

	t.Run("unknown record", func(t *testing.T) {
		rec := postForm(t, h, "/projects/nope/rename", url.Values{"title": {"X"}})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t, testUser)
	h := s.Handler()
	p := mustProject(t, db, "Doomed")

	rec := get(t, h, "/projects/"+p.ID+"/delete")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Doomed")
	assert.Contains(t, rec.Body.String(), `name="confirm" value="yes"`)

	rec = postForm(t, h, "/projects/"+p.ID+"/delete", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/projects/"+p.ID+"/delete", rec.Header().Get("Location"))
	_, err := db.GetProject(context.Background(), p.ID)
	require.NoError(t, err)

	rec = postForm(t, h, "/projects/"+p.ID+"/delete", url.Values{"confirm": {"yes"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/projects", rec.Header().Get("Location"))
	_, err = db.GetProject(context.Background(), p.ID)
	assert.True(t, store.IsNotFound(err))
}

func TestQuestionBankCreate_OpensNewBank(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t, testUser)
	p := mustProject(t, db, "Alpha")

	rec := postForm(t, s.Handler(), nav.QuestionBanksPath(p.ID), url.Values{"title": {"Chapter 1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	banks, err := db.ListQuestionBanks(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, banks, 1)
	assert.Equal(t, nav.QuestionBankPath(p.ID, banks[0].ID), rec.Header().Get("Location"))
}

func TestQuestionBanks_RejectsBankFromAnotherProject(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t, testUser)
	a := mustProject(t, db, "A")
	b := mustProject(t, db, "B")
	bank := mustBank(t, db, b.ID, "B's bank")

	rec := get(t, s.Handler(), nav.QuestionBankPath(a.ID, bank.ID))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = get(t, s.Handler(), nav.QuestionBankPath(b.ID, bank.ID))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestQuestions_CreateKeepsDescriptionOnFailure(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t, testUser)
	p := mustProject(t, db, "Alpha")
	bank := mustBank(t, db, p.ID, "Bank")
	path := nav.QuestionBankPath(p.ID, bank.ID) + "/questions"

	rec := postForm(t, s.Handler(), path, url.Values{"title": {""}, "description": {"keep these notes"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "keep these notes")

	rec = postForm(t, s.Handler(), path, url.Values{"title": {"Q1"}, "description": {"keep these notes"}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, nav.QuestionBankPath(p.ID, bank.ID), rec.Header().Get("Location"))

	qs, err := db.ListQuestions(context.Background(), bank.ID)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "keep these notes", qs[0].Description)
}

func TestQuestionPage_RendersMarkdownDescription(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t, testUser)
	ctx := context.Background()
	p := mustProject(t, db, "Alpha")
	bank := mustBank(t, db, p.ID, "Bank")
	other := mustBank(t, db, p.ID, "Other")
	q, err := db.CreateQuestion(ctx, model.Draft{
		Title:       "Capital of France?",
		ScopeID:     bank.ID,
		Description: "Pick **one**.\n\n<script>alert(1)</script>",
	})
	require.NoError(t, err)

	rec := get(t, s.Handler(), nav.QuestionBankPath(p.ID, bank.ID)+"/questions/"+q.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<strong>one</strong>")
	assert.NotContains(t, body, "<script>alert(1)</script>")

	rec = get(t, s.Handler(), nav.QuestionBankPath(p.ID, other.ID)+"/questions/"+q.ID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestViewToggle(t *testing.T) {
	t.Parallel()
	s, db := newTestServer(t, testUser)
	p := mustProject(t, db, "Alpha")
	action := "/projects/" + p.ID + "/view"

	tests := []struct {
		name    string
		current string
		mode    string
		want    string
	}{
		{name: "switch to assessments", current: "resourceBank", mode: "assessment", want: nav.AssessmentsPath(p.ID)},
		{name: "switch to banks", current: "assessment", mode: "resourceBank", want: nav.QuestionBanksPath(p.ID)},
		{name: "same mode stays", current: "assessment", mode: "assessment", want: nav.AssessmentsPath(p.ID)},
		{name: "empty mode ignored", current: "resourceBank", mode: "", want: nav.QuestionBanksPath(p.ID)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(t, s.Handler(), action, url.Values{"current": {tt.current}, "mode": {tt.mode}})
			require.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}

	rec := get(t, s.Handler(), nav.AssessmentsPath(p.ID))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="assessment" aria-pressed="true"`)
}

func TestListEvents_PatchesOnMutation(t *testing.T) {
	s, _ := newTestServer(t, testUser)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	lines := make(chan string, 256)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	waitFor := func(substr string) {
		t.Helper()
		for {
			select {
			case line, ok := <-lines:
				if !ok {
					t.Fatalf("stream ended before %q", substr)
				}
				if strings.Contains(line, substr) {
					return
				}
			case <-ctx.Done():
				t.Fatalf("timed out waiting for %q", substr)
			}
		}
	}

	waitFor("event: datastar-patch-elements")
	waitFor("qbank-main")

	rec := postForm(t, s.Handler(), "/projects", url.Values{"title": {"Streamed project"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	waitFor("Streamed project")
}

func TestErrStatus(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{&collection.ValidationError{Op: collection.OpCreate, Err: collection.ErrDuplicateTitle}, http.StatusConflict},
		{&collection.RemoteError{Op: collection.OpRename, Err: store.ErrDuplicateTitle}, http.StatusConflict},
		{&collection.ValidationError{Op: collection.OpCreate, Err: collection.ErrEmptyTitle}, http.StatusBadRequest},
		{collection.ErrMissingScope, http.StatusBadRequest},
		{collection.ErrBusy, http.StatusConflict},
		{&collection.RemoteError{Op: collection.OpDelete, Err: store.NotFoundError{Kind: "project", ID: "x"}}, http.StatusNotFound},
		{&collection.RemoteError{Op: collection.OpLoad, Err: errors.New("connection refused")}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, errStatus(tt.err), "%v", tt.err)
	}
}

func TestRenderMarkdownHTML(t *testing.T) {
	t.Parallel()
	assert.Empty(t, renderMarkdownHTML("   "))
	assert.Contains(t, string(renderMarkdownHTML("line one\nline two")), "<br")
	assert.NotContains(t, string(renderMarkdownHTML(":tada:")), ":tada:")
}
