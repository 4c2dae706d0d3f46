package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// table describes one scoped resource table. All three resource kinds share
// the same row shape (id, scope, title, seq, timestamps); questions add a
// description column.
type table struct {
	name     string
	kind     string
	scopeCol string
	prefix   string
	hasDesc  bool
	// parent is the table the scope id must exist in; nil for user-scoped rows.
	parent *table
}

var (
	projectsTable = &table{
		name:     "projects",
		kind:     "project",
		scopeCol: "user_id",
		prefix:   prefixProject,
	}
	questionBanksTable = &table{
		name:     "question_banks",
		kind:     "question bank",
		scopeCol: "project_id",
		prefix:   prefixQuestionBank,
		parent:   projectsTable,
	}
	questionsTable = &table{
		name:     "questions",
		kind:     "question",
		scopeCol: "question_bank_id",
		prefix:   prefixQuestion,
		hasDesc:  true,
		parent:   questionBanksTable,
	}
)

type row struct {
	ID          string
	ScopeID     string
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *table) columns() string {
	if t.hasDesc {
		return "id, " + t.scopeCol + ", title, description, created_at_unixms, updated_at_unixms"
	}
	return "id, " + t.scopeCol + ", title, '', created_at_unixms, updated_at_unixms"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(sc rowScanner) (row, error) {
	var r row
	var created, updated int64
	if err := sc.Scan(&r.ID, &r.ScopeID, &r.Title, &r.Description, &created, &updated); err != nil {
		return row{}, err
	}
	r.CreatedAt = time.UnixMilli(created).UTC()
	r.UpdatedAt = time.UnixMilli(updated).UTC()
	return r, nil
}

func (d *DB) listRows(ctx context.Context, t *table, scopeID string) ([]row, error) {
	scopeID = strings.TrimSpace(scopeID)
	if scopeID == "" {
		return nil, ErrEmptyScope
	}
	rows, err := d.sql.QueryContext(ctx,
		`SELECT `+t.columns()+` FROM `+t.name+` WHERE `+t.scopeCol+` = ? ORDER BY seq ASC`, scopeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []row{}
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) getRow(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, t *table, id string) (row, error) {
	r, err := scanRow(q.QueryRowContext(ctx, `SELECT `+t.columns()+` FROM `+t.name+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return row{}, NotFoundError{Kind: t.kind, ID: id}
	}
	return r, err
}

func (d *DB) createRow(ctx context.Context, t *table, scopeID, title, description string) (row, error) {
	scopeID = strings.TrimSpace(scopeID)
	title = strings.TrimSpace(title)
	if scopeID == "" {
		return row{}, ErrEmptyScope
	}
	if title == "" {
		return row{}, ErrEmptyTitle
	}

	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return row{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if t.parent != nil {
		if _, err := d.getRow(ctx, tx, t.parent, scopeID); err != nil {
			return row{}, err
		}
	}
	if err := titleTaken(ctx, tx, t, scopeID, title, ""); err != nil {
		return row{}, err
	}

	id, err := d.freeID(ctx, tx, t)
	if err != nil {
		return row{}, err
	}
	var seq int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM `+t.name+` WHERE `+t.scopeCol+` = ?`, scopeID).Scan(&seq); err != nil {
		return row{}, err
	}

	now := time.Now().UTC()
	nowMs := now.UnixMilli()
	if t.hasDesc {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO `+t.name+`(id, `+t.scopeCol+`, title, description, seq, created_at_unixms, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			id, scopeID, title, description, seq, nowMs, nowMs)
	} else {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO `+t.name+`(id, `+t.scopeCol+`, title, seq, created_at_unixms, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			id, scopeID, title, seq, nowMs, nowMs)
	}
	if err != nil {
		return row{}, err
	}
	if err := tx.Commit(); err != nil {
		return row{}, err
	}

	r := row{
		ID:        id,
		ScopeID:   scopeID,
		Title:     title,
		CreatedAt: time.UnixMilli(nowMs).UTC(),
		UpdatedAt: time.UnixMilli(nowMs).UTC(),
	}
	if t.hasDesc {
		r.Description = description
	}
	return r, nil
}

func (d *DB) renameRow(ctx context.Context, t *table, id, title string) (row, error) {
	id = strings.TrimSpace(id)
	title = strings.TrimSpace(title)
	if title == "" {
		return row{}, ErrEmptyTitle
	}

	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return row{}, err
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := d.getRow(ctx, tx, t, id)
	if err != nil {
		return row{}, err
	}
	if cur.Title == title {
		return cur, nil
	}
	if err := titleTaken(ctx, tx, t, cur.ScopeID, title, id); err != nil {
		return row{}, err
	}
	nowMs := time.Now().UTC().UnixMilli()
	if _, err := tx.ExecContext(ctx,
		`UPDATE `+t.name+` SET title = ?, updated_at_unixms = ? WHERE id = ?`, title, nowMs, id); err != nil {
		return row{}, err
	}
	if err := tx.Commit(); err != nil {
		return row{}, err
	}
	cur.Title = title
	cur.UpdatedAt = time.UnixMilli(nowMs).UTC()
	return cur, nil
}

func (d *DB) deleteRow(ctx context.Context, t *table, id string) error {
	id = strings.TrimSpace(id)

	d.writeMu.Lock()
	defer d.writeMu.Unlock()

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// foreign_keys is a per-connection pragma, so children are removed explicitly.
	var stmts []string
	switch t {
	case projectsTable:
		stmts = []string{
			`DELETE FROM questions WHERE question_bank_id IN (SELECT id FROM question_banks WHERE project_id = ?)`,
			`DELETE FROM question_banks WHERE project_id = ?`,
		}
	case questionBanksTable:
		stmts = []string{`DELETE FROM questions WHERE question_bank_id = ?`}
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM `+t.name+` WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return NotFoundError{Kind: t.kind, ID: id}
	}
	return tx.Commit()
}

func titleTaken(ctx context.Context, tx *sql.Tx, t *table, scopeID, title, exceptID string) error {
	var n int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM `+t.name+` WHERE `+t.scopeCol+` = ? AND title = ? AND id != ?`,
		scopeID, title, exceptID).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrDuplicateTitle
	}
	return nil
}
