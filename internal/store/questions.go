package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"qbank/internal/model"
)

func questionFromRow(r row) model.Question {
	return model.Question{
		ID:             r.ID,
		Title:          r.Title,
		QuestionBankID: r.ScopeID,
		Description:    r.Description,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func (d *DB) ListQuestions(ctx context.Context, questionBankID string) ([]model.Question, error) {
	rows, err := d.listRows(ctx, questionsTable, questionBankID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Question, 0, len(rows))
	for _, r := range rows {
		out = append(out, questionFromRow(r))
	}
	return out, nil
}

func (d *DB) CreateQuestion(ctx context.Context, draft model.Draft) (model.Question, error) {
	r, err := d.createRow(ctx, questionsTable, draft.ScopeID, draft.Title, strings.TrimSpace(draft.Description))
	if err != nil {
		return model.Question{}, err
	}
	return questionFromRow(r), nil
}

func (d *DB) GetQuestion(ctx context.Context, id string) (model.Question, error) {
	r, err := d.getRow(ctx, d.sql, questionsTable, strings.TrimSpace(id))
	if err != nil {
		return model.Question{}, err
	}
	return questionFromRow(r), nil
}

func (d *DB) RenameQuestion(ctx context.Context, id, title string) (model.Question, error) {
	r, err := d.renameRow(ctx, questionsTable, id, title)
	if err != nil {
		return model.Question{}, err
	}
	return questionFromRow(r), nil
}

// SetQuestionDescription replaces the markdown description. An empty
// description is allowed.
func (d *DB) SetQuestionDescription(ctx context.Context, id, description string) (model.Question, error) {
	return d.UpdateQuestion(ctx, id, model.QuestionPatch{Description: &description})
}

// UpdateQuestion applies patch in a single transaction: either every set field
// changes or none does.
func (d *DB) UpdateQuestion(ctx context.Context, id string, patch model.QuestionPatch) (model.Question, error) {
	id = strings.TrimSpace(id)
	var title string
	if patch.Title != nil {
		title = strings.TrimSpace(*patch.Title)
		if title == "" {
			return model.Question{}, ErrEmptyTitle
		}
	}

	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return model.Question{}, err
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := d.getRow(ctx, tx, questionsTable, id)
	if err != nil {
		return model.Question{}, err
	}
	if patch.Title != nil && title != cur.Title {
		if err := titleTaken(ctx, tx, questionsTable, cur.ScopeID, title, id); err != nil {
			return model.Question{}, err
		}
		cur.Title = title
	}
	if patch.Description != nil {
		cur.Description = strings.TrimSpace(*patch.Description)
	}

	nowMs := time.Now().UTC().UnixMilli()
	if _, err := tx.ExecContext(ctx,
		`UPDATE questions SET title = ?, description = ?, updated_at_unixms = ? WHERE id = ?`,
		cur.Title, cur.Description, nowMs, id); err != nil {
		return model.Question{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Question{}, err
	}
	cur.UpdatedAt = time.UnixMilli(nowMs).UTC()
	return questionFromRow(cur), nil
}

func (d *DB) DeleteQuestion(ctx context.Context, id string) error {
	return d.deleteRow(ctx, questionsTable, id)
}
