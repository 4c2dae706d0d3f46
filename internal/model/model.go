package model

import (
	"strings"
	"time"
)

type Project struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p Project) ResourceID() string      { return p.ID }
func (p Project) ResourceTitle() string   { return p.Title }
func (p Project) ResourceScopeID() string { return p.UserID }

type QuestionBank struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ProjectID string    `json:"projectId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b QuestionBank) ResourceID() string      { return b.ID }
func (b QuestionBank) ResourceTitle() string   { return b.Title }
func (b QuestionBank) ResourceScopeID() string { return b.ProjectID }

type Question struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	QuestionBankID string `json:"questionBankId"`
	// Description is markdown.
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (q Question) ResourceID() string      { return q.ID }
func (q Question) ResourceTitle() string   { return q.Title }
func (q Question) ResourceScopeID() string { return q.QuestionBankID }

// QuestionPatch changes whichever fields are set, in one write.
type QuestionPatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Draft is the payload of a create call: the not-yet-persisted title plus the
// owning scope. Description is only meaningful for questions.
type Draft struct {
	Title       string `json:"title"`
	ScopeID     string `json:"scopeId"`
	Description string `json:"description,omitempty"`
}

// NormalizeTitle is the comparison form of a display title: surrounding
// whitespace removed, case preserved.
func NormalizeTitle(s string) string {
	return strings.TrimSpace(s)
}
