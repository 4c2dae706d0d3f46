package publish

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"qbank/internal/model"
	"qbank/internal/resources"
)

// bankContext is the parent chain printed in every page's meta block.
type bankContext struct {
	Project model.Project
	Bank    model.QuestionBank
}

func loadBankContext(ctx context.Context, api resources.API, bankID string) (bankContext, error) {
	b, err := api.GetQuestionBank(ctx, bankID)
	if err != nil {
		return bankContext{}, err
	}
	p, err := api.GetProject(ctx, b.ProjectID)
	if err != nil {
		return bankContext{}, fmt.Errorf("project of %s: %w", b.ID, err)
	}
	return bankContext{Project: p, Bank: b}, nil
}

type mdBuilder struct{ buf bytes.Buffer }

func (m *mdBuilder) line(s string) {
	m.buf.WriteString(s)
	m.buf.WriteString("\n")
}

func (m *mdBuilder) String() string { return m.buf.String() }

// RenderQuestionMarkdown renders one question page.
func RenderQuestionMarkdown(bc bankContext, q model.Question) string {
	var md mdBuilder
	md.line("# " + strings.TrimSpace(q.Title))
	md.line("")
	md.line("## Meta")
	md.line("")
	md.line("- ID: " + q.ID)
	md.line("- Project: " + label(bc.Project.Title, bc.Project.ID))
	md.line("- Question bank: " + label(bc.Bank.Title, bc.Bank.ID))
	md.line("- Updated: " + q.UpdatedAt.UTC().Format(time.RFC3339))
	md.line("")

	if desc := strings.TrimSpace(q.Description); desc != "" {
		md.line("## Description")
		md.line("")
		md.line(desc)
		md.line("")
	}
	return md.String()
}

// RenderBankIndexMarkdown renders the bank's index page linking each question.
func RenderBankIndexMarkdown(bc bankContext, qs []model.Question) string {
	var md mdBuilder
	md.line("# " + strings.TrimSpace(bc.Bank.Title))
	md.line("")
	md.line("- ID: " + bc.Bank.ID)
	md.line("- Project: " + label(bc.Project.Title, bc.Project.ID))
	md.line("")
	md.line("## Questions")
	md.line("")
	if len(qs) == 0 {
		md.line("_No questions yet._")
		md.line("")
		return md.String()
	}
	for i, q := range qs {
		md.line(fmt.Sprintf("%d. [%s](questions/%s.md)", i+1, escapeLinkText(q.Title), q.ID))
	}
	md.line("")
	return md.String()
}

func label(title, id string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return id
	}
	return title + " (" + id + ")"
}

func escapeLinkText(s string) string {
	return strings.NewReplacer("[", `\[`, "]", `\]`).Replace(strings.TrimSpace(s))
}
