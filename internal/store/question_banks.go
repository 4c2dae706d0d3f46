package store

import (
	"context"

	"qbank/internal/model"
)

func questionBankFromRow(r row) model.QuestionBank {
	return model.QuestionBank{
		ID:        r.ID,
		Title:     r.Title,
		ProjectID: r.ScopeID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (d *DB) ListQuestionBanks(ctx context.Context, projectID string) ([]model.QuestionBank, error) {
	rows, err := d.listRows(ctx, questionBanksTable, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]model.QuestionBank, 0, len(rows))
	for _, r := range rows {
		out = append(out, questionBankFromRow(r))
	}
	return out, nil
}

// CreateQuestionBank fails with NotFoundError when the owning project does not exist.
func (d *DB) CreateQuestionBank(ctx context.Context, draft model.Draft) (model.QuestionBank, error) {
	r, err := d.createRow(ctx, questionBanksTable, draft.ScopeID, draft.Title, "")
	if err != nil {
		return model.QuestionBank{}, err
	}
	return questionBankFromRow(r), nil
}

func (d *DB) GetQuestionBank(ctx context.Context, id string) (model.QuestionBank, error) {
	r, err := d.getRow(ctx, d.sql, questionBanksTable, id)
	if err != nil {
		return model.QuestionBank{}, err
	}
	return questionBankFromRow(r), nil
}

func (d *DB) RenameQuestionBank(ctx context.Context, id, title string) (model.QuestionBank, error) {
	r, err := d.renameRow(ctx, questionBanksTable, id, title)
	if err != nil {
		return model.QuestionBank{}, err
	}
	return questionBankFromRow(r), nil
}

func (d *DB) DeleteQuestionBank(ctx context.Context, id string) error {
	return d.deleteRow(ctx, questionBanksTable, id)
}
