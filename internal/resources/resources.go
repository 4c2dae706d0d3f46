// Package resources binds the generic collection manager to the three
// resource kinds and the API that persists them.
package resources

import (
	"context"

	"qbank/internal/collection"
	"qbank/internal/model"
	"qbank/internal/nav"
)

// API is the remote persistence surface. Both the SQLite store and the HTTP
// client implement it.
type API interface {
	ListProjects(ctx context.Context, userID string) ([]model.Project, error)
	CreateProject(ctx context.Context, draft model.Draft) (model.Project, error)
	GetProject(ctx context.Context, id string) (model.Project, error)
	RenameProject(ctx context.Context, id, title string) (model.Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListQuestionBanks(ctx context.Context, projectID string) ([]model.QuestionBank, error)
	CreateQuestionBank(ctx context.Context, draft model.Draft) (model.QuestionBank, error)
	GetQuestionBank(ctx context.Context, id string) (model.QuestionBank, error)
	RenameQuestionBank(ctx context.Context, id, title string) (model.QuestionBank, error)
	DeleteQuestionBank(ctx context.Context, id string) error

	ListQuestions(ctx context.Context, questionBankID string) ([]model.Question, error)
	CreateQuestion(ctx context.Context, draft model.Draft) (model.Question, error)
	GetQuestion(ctx context.Context, id string) (model.Question, error)
	RenameQuestion(ctx context.Context, id, title string) (model.Question, error)
	SetQuestionDescription(ctx context.Context, id, description string) (model.Question, error)
	UpdateQuestion(ctx context.Context, id string, patch model.QuestionPatch) (model.Question, error)
	DeleteQuestion(ctx context.Context, id string) error
}

var (
	ProjectKind = collection.Kind{
		Name:       "project",
		Label:      "Project",
		Plural:     "Projects",
		ScopeKey:   "userId",
		ScopeLabel: "User",
	}
	QuestionBankKind = collection.Kind{
		Name:       "question bank",
		Label:      "Question Bank",
		Plural:     "Question Banks",
		ScopeKey:   "projectId",
		ScopeLabel: "Project ID",
	}
	QuestionKind = collection.Kind{
		Name:       "question",
		Label:      "Question",
		Plural:     "Questions",
		ScopeKey:   "questionBankId",
		ScopeLabel: "Question Bank ID",
	}
)

type projects struct{ api API }

// Projects adapts api to a project collection remote.
func Projects(api API) collection.Remote[model.Project] { return projects{api: api} }

func (p projects) List(ctx context.Context, userID string) ([]model.Project, error) {
	return p.api.ListProjects(ctx, userID)
}

func (p projects) Create(ctx context.Context, d model.Draft) (model.Project, error) {
	return p.api.CreateProject(ctx, d)
}

func (p projects) Rename(ctx context.Context, id, title string) (model.Project, error) {
	return p.api.RenameProject(ctx, id, title)
}

func (p projects) Delete(ctx context.Context, id string) error {
	return p.api.DeleteProject(ctx, id)
}

type questionBanks struct{ api API }

func QuestionBanks(api API) collection.Remote[model.QuestionBank] { return questionBanks{api: api} }

func (b questionBanks) List(ctx context.Context, projectID string) ([]model.QuestionBank, error) {
	return b.api.ListQuestionBanks(ctx, projectID)
}

func (b questionBanks) Create(ctx context.Context, d model.Draft) (model.QuestionBank, error) {
	return b.api.CreateQuestionBank(ctx, d)
}

func (b questionBanks) Rename(ctx context.Context, id, title string) (model.QuestionBank, error) {
	return b.api.RenameQuestionBank(ctx, id, title)
}

func (b questionBanks) Delete(ctx context.Context, id string) error {
	return b.api.DeleteQuestionBank(ctx, id)
}

type questions struct{ api API }

func Questions(api API) collection.Remote[model.Question] { return questions{api: api} }

func (q questions) List(ctx context.Context, questionBankID string) ([]model.Question, error) {
	return q.api.ListQuestions(ctx, questionBankID)
}

func (q questions) Create(ctx context.Context, d model.Draft) (model.Question, error) {
	return q.api.CreateQuestion(ctx, d)
}

func (q questions) Rename(ctx context.Context, id, title string) (model.Question, error) {
	return q.api.RenameQuestion(ctx, id, title)
}

func (q questions) Delete(ctx context.Context, id string) error {
	return q.api.DeleteQuestion(ctx, id)
}

// ProjectRoute opens a project on its assessments view, carrying the title
// for the header.
func ProjectRoute(p model.Project) (string, map[string]string) {
	return nav.AssessmentsPath(p.ID), map[string]string{nav.StateProjectTitle: p.Title}
}

// QuestionBankRoute opens a bank's question list.
func QuestionBankRoute(b model.QuestionBank) (string, map[string]string) {
	return nav.QuestionBankPath(b.ProjectID, b.ID), map[string]string{nav.StateQuestionBankTitle: b.Title}
}
