package client

import (
	"context"
	"net/http"

	"qbank/internal/model"
)

type listResponse[T any] struct {
	Data []T `json:"data"`
}

type titleRequest struct {
	Title string `json:"title"`
}

func (c *Client) ListProjects(ctx context.Context, userID string) ([]model.Project, error) {
	var resp listResponse[model.Project]
	if err := c.doJSON(ctx, http.MethodGet, "/api/users/"+pathID(userID)+"/projects", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) CreateProject(ctx context.Context, draft model.Draft) (model.Project, error) {
	body := map[string]string{"title": draft.Title, "userId": draft.ScopeID}
	var p model.Project
	err := c.doJSON(ctx, http.MethodPost, "/api/projects", body, &p)
	return p, err
}

func (c *Client) GetProject(ctx context.Context, id string) (model.Project, error) {
	var p model.Project
	err := c.doJSON(ctx, http.MethodGet, "/api/projects/"+pathID(id), nil, &p)
	return p, err
}

func (c *Client) RenameProject(ctx context.Context, id, title string) (model.Project, error) {
	var p model.Project
	err := c.doJSON(ctx, http.MethodPut, "/api/projects/"+pathID(id), titleRequest{Title: title}, &p)
	return p, err
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/projects/"+pathID(id), nil, nil)
}

func (c *Client) ListQuestionBanks(ctx context.Context, projectID string) ([]model.QuestionBank, error) {
	var resp listResponse[model.QuestionBank]
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects/"+pathID(projectID)+"/questionBanks", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) CreateQuestionBank(ctx context.Context, draft model.Draft) (model.QuestionBank, error) {
	body := map[string]string{"title": draft.Title, "projectId": draft.ScopeID}
	var b model.QuestionBank
	err := c.doJSON(ctx, http.MethodPost, "/api/questionBanks", body, &b)
	return b, err
}

func (c *Client) GetQuestionBank(ctx context.Context, id string) (model.QuestionBank, error) {
	var b model.QuestionBank
	err := c.doJSON(ctx, http.MethodGet, "/api/questionBanks/"+pathID(id), nil, &b)
	return b, err
}

func (c *Client) RenameQuestionBank(ctx context.Context, id, title string) (model.QuestionBank, error) {
	var b model.QuestionBank
	err := c.doJSON(ctx, http.MethodPut, "/api/questionBanks/"+pathID(id), titleRequest{Title: title}, &b)
	return b, err
}

func (c *Client) DeleteQuestionBank(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/questionBanks/"+pathID(id), nil, nil)
}

func (c *Client) ListQuestions(ctx context.Context, questionBankID string) ([]model.Question, error) {
	var resp listResponse[model.Question]
	if err := c.doJSON(ctx, http.MethodGet, "/api/questionBanks/"+pathID(questionBankID)+"/questions", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *Client) CreateQuestion(ctx context.Context, draft model.Draft) (model.Question, error) {
	body := map[string]string{
		"title":          draft.Title,
		"description":    draft.Description,
		"questionBankId": draft.ScopeID,
	}
	var q model.Question
	err := c.doJSON(ctx, http.MethodPost, "/api/questions", body, &q)
	return q, err
}

func (c *Client) GetQuestion(ctx context.Context, id string) (model.Question, error) {
	var q model.Question
	err := c.doJSON(ctx, http.MethodGet, "/api/questions/"+pathID(id), nil, &q)
	return q, err
}

func (c *Client) RenameQuestion(ctx context.Context, id, title string) (model.Question, error) {
	var q model.Question
	err := c.doJSON(ctx, http.MethodPut, "/api/questions/"+pathID(id), map[string]string{"title": title}, &q)
	return q, err
}

func (c *Client) SetQuestionDescription(ctx context.Context, id, description string) (model.Question, error) {
	return c.UpdateQuestion(ctx, id, model.QuestionPatch{Description: &description})
}

func (c *Client) UpdateQuestion(ctx context.Context, id string, patch model.QuestionPatch) (model.Question, error) {
	var q model.Question
	err := c.doJSON(ctx, http.MethodPut, "/api/questions/"+pathID(id), patch, &q)
	return q, err
}

func (c *Client) DeleteQuestion(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/questions/"+pathID(id), nil, nil)
}
