package publish

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"qbank/internal/model"
	"qbank/internal/store"
)

func TestWriteBank_WritesIndexAndQuestionPages(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := (store.Store{Dir: t.TempDir()}).Open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	p, err := db.CreateProject(ctx, model.Draft{Title: "Physics", ScopeID: "u1"})
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	b, err := db.CreateQuestionBank(ctx, model.Draft{Title: "Mechanics", ScopeID: p.ID})
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	q1, err := db.CreateQuestion(ctx, model.Draft{Title: "Newton [1st]", ScopeID: b.ID, Description: "Some **markdown**."})
	if err != nil {
		t.Fatalf("q1: %v", err)
	}
	q2, err := db.CreateQuestion(ctx, model.Draft{Title: "Untitled body", ScopeID: b.ID})
	if err != nil {
		t.Fatalf("q2: %v", err)
	}

	out := t.TempDir()
	res, err := WriteBank(ctx, db, b.ID, out, WriteOptions{})
	if err != nil {
		t.Fatalf("WriteBank: %v", err)
	}
	if len(res.Written) != 3 {
		t.Fatalf("expected index + 2 pages, got %v", res.Written)
	}

	index, err := os.ReadFile(filepath.Join(out, "banks", b.ID, "index.md"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	for _, want := range []string{"# Mechanics", "Physics (" + p.ID + ")", `1. [Newton \[1st\]](questions/` + q1.ID + ".md)", "2. [Untitled body]"} {
		if !strings.Contains(string(index), want) {
			t.Fatalf("expected index to contain %q; got:\n%s", want, index)
		}
	}

	page, err := os.ReadFile(filepath.Join(out, "banks", b.ID, "questions", q1.ID+".md"))
	if err != nil {
		t.Fatalf("read page: %v", err)
	}
	if !strings.Contains(string(page), "## Description\n\nSome **markdown**.") {
		t.Fatalf("expected description section; got:\n%s", page)
	}
	page2, err := os.ReadFile(filepath.Join(out, "banks", b.ID, "questions", q2.ID+".md"))
	if err != nil {
		t.Fatalf("read page2: %v", err)
	}
	if strings.Contains(string(page2), "## Description") {
		t.Fatalf("expected no description section; got:\n%s", page2)
	}

	// A second run refuses to clobber unless asked.
	if _, err := WriteBank(ctx, db, b.ID, out, WriteOptions{}); err == nil || !strings.Contains(err.Error(), "file exists") {
		t.Fatalf("expected file exists error, got %v", err)
	}
	if _, err := WriteBank(ctx, db, b.ID, out, WriteOptions{Overwrite: true}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestWriteBank_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := (store.Store{Dir: t.TempDir()}).Open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if _, err := WriteBank(ctx, db, " ", t.TempDir(), WriteOptions{}); err == nil {
		t.Fatalf("expected missing id error")
	}
	if _, err := WriteBank(ctx, db, "qb-x", "", WriteOptions{}); err == nil {
		t.Fatalf("expected missing --to error")
	}
	if _, err := WriteBank(ctx, db, "qb-missing", t.TempDir(), WriteOptions{}); !store.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRenderBankIndexMarkdown_Empty(t *testing.T) {
	t.Parallel()
	bc := bankContext{
		Project: model.Project{ID: "proj-1", Title: ""},
		Bank:    model.QuestionBank{ID: "qb-1", Title: "Empty"},
	}
	md := RenderBankIndexMarkdown(bc, nil)
	if !strings.Contains(md, "_No questions yet._") || !strings.Contains(md, "- Project: proj-1\n") {
		t.Fatalf("unexpected index:\n%s", md)
	}
}
