package cli

import (
	"context"

	"qbank/internal/collection"
)

// The rename and delete commands drive the same dialog flow as the TUI, so
// validation and reconciliation behave identically.

func findRecord[R collection.Resource](ctx context.Context, m *collection.Manager[R], id string) (R, error) {
	if err := m.Load(ctx); err != nil {
		var zero R
		return zero, err
	}
	r, ok := m.Find(id)
	if !ok {
		var zero R
		return zero, errNotFound(m.Kind().Name, id)
	}
	return r, nil
}

func renameRecord[R collection.Resource](ctx context.Context, m *collection.Manager[R], id, title string) (R, error) {
	r, err := findRecord(ctx, m, id)
	if err != nil {
		return r, err
	}
	m.BeginRename(r)
	m.SetRenameText(title)
	return m.SaveRename(ctx)
}

func deleteRecord[R collection.Resource](ctx context.Context, m *collection.Manager[R], id string, confirmed bool) error {
	r, err := findRecord(ctx, m, id)
	if err != nil {
		return err
	}
	m.BeginDelete(r)
	if !confirmed {
		m.CancelDelete()
		return confirmRequiredError{kind: m.Kind().Name, id: id}
	}
	return m.ConfirmDelete(ctx)
}

func createRecord[R collection.Resource](ctx context.Context, m *collection.Manager[R], title string) (R, error) {
	if err := m.Load(ctx); err != nil {
		var zero R
		return zero, err
	}
	m.SetDraft(title)
	return m.Create(ctx)
}

type deleted struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}
