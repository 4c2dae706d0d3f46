package store

import (
	"context"

	"qbank/internal/model"
)

func projectFromRow(r row) model.Project {
	return model.Project{
		ID:        r.ID,
		Title:     r.Title,
		UserID:    r.ScopeID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// ListProjects returns the user's projects in creation order.
func (d *DB) ListProjects(ctx context.Context, userID string) ([]model.Project, error) {
	rows, err := d.listRows(ctx, projectsTable, userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Project, 0, len(rows))
	for _, r := range rows {
		out = append(out, projectFromRow(r))
	}
	return out, nil
}

func (d *DB) CreateProject(ctx context.Context, draft model.Draft) (model.Project, error) {
	r, err := d.createRow(ctx, projectsTable, draft.ScopeID, draft.Title, "")
	if err != nil {
		return model.Project{}, err
	}
	return projectFromRow(r), nil
}

func (d *DB) GetProject(ctx context.Context, id string) (model.Project, error) {
	r, err := d.getRow(ctx, d.sql, projectsTable, id)
	if err != nil {
		return model.Project{}, err
	}
	return projectFromRow(r), nil
}

func (d *DB) RenameProject(ctx context.Context, id, title string) (model.Project, error) {
	r, err := d.renameRow(ctx, projectsTable, id, title)
	if err != nil {
		return model.Project{}, err
	}
	return projectFromRow(r), nil
}

// DeleteProject removes the project together with its question banks and questions.
func (d *DB) DeleteProject(ctx context.Context, id string) error {
	return d.deleteRow(ctx, projectsTable, id)
}
