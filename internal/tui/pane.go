package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"qbank/internal/collection"
	"qbank/internal/model"
)

const remoteTimeout = 15 * time.Second

// resultMsg reports a settled remote call. gen ties it to the view that
// issued it; results for an unmounted view are dropped.
type resultMsg struct {
	gen int
	op  collection.Op
	err error
}

// pane adapts a typed collection manager to the untyped view layer.
type pane interface {
	Kind() collection.Kind
	Items() []list.Item
	Load(gen int) tea.Cmd

	SetDraft(s string)
	CancelDraft()
	Create(gen int) tea.Cmd

	BeginRename(id string) bool
	SetRenameText(s string)
	CancelRename()
	RenameState() dialogView
	SaveRename(gen int) tea.Cmd

	BeginDelete(id string) bool
	CancelDelete()
	DeleteState() dialogView
	ConfirmDelete(gen int) tea.Cmd

	Activate(id string) bool
	Busy() bool
	LastError() error
	Close()
}

// dialogView is the untyped DialogState the modals render.
type dialogView struct {
	Open   bool
	Title  string
	Value  string
	Err    error
	Target string
}

type managerPane[R collection.Resource] struct {
	m    *collection.Manager[R]
	item func(R) resourceItem
}

func newPane[R collection.Resource](m *collection.Manager[R], item func(R) resourceItem) *managerPane[R] {
	return &managerPane[R]{m: m, item: item}
}

func (p *managerPane[R]) Kind() collection.Kind { return p.m.Kind() }

func (p *managerPane[R]) Items() []list.Item {
	records := p.m.Records()
	items := make([]list.Item, 0, len(records))
	for _, r := range records {
		items = append(items, p.item(r))
	}
	return items
}

func (p *managerPane[R]) run(gen int, op collection.Op, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
		defer cancel()
		return resultMsg{gen: gen, op: op, err: fn(ctx)}
	}
}

func (p *managerPane[R]) Load(gen int) tea.Cmd {
	return p.run(gen, collection.OpLoad, p.m.Load)
}

func (p *managerPane[R]) SetDraft(s string) { p.m.SetDraft(s) }
func (p *managerPane[R]) CancelDraft()      { p.m.CancelDraft() }

func (p *managerPane[R]) Create(gen int) tea.Cmd {
	return p.run(gen, collection.OpCreate, func(ctx context.Context) error {
		_, err := p.m.Create(ctx)
		return err
	})
}

func (p *managerPane[R]) BeginRename(id string) bool {
	r, ok := p.m.Find(id)
	if ok {
		p.m.BeginRename(r)
	}
	return ok
}

func (p *managerPane[R]) SetRenameText(s string) { p.m.SetRenameText(s) }
func (p *managerPane[R]) CancelRename()          { p.m.CancelRename() }

func (p *managerPane[R]) RenameState() dialogView {
	return toDialogView(p.m.RenameDialog())
}

func (p *managerPane[R]) SaveRename(gen int) tea.Cmd {
	return p.run(gen, collection.OpRename, func(ctx context.Context) error {
		_, err := p.m.SaveRename(ctx)
		return err
	})
}

func (p *managerPane[R]) BeginDelete(id string) bool {
	r, ok := p.m.Find(id)
	if ok {
		p.m.BeginDelete(r)
	}
	return ok
}

func (p *managerPane[R]) CancelDelete() { p.m.CancelDelete() }

func (p *managerPane[R]) DeleteState() dialogView {
	return toDialogView(p.m.DeleteDialog())
}

func (p *managerPane[R]) ConfirmDelete(gen int) tea.Cmd {
	return p.run(gen, collection.OpDelete, p.m.ConfirmDelete)
}

func (p *managerPane[R]) Activate(id string) bool {
	r, ok := p.m.Find(id)
	if !ok {
		return false
	}
	return p.m.Activate(r)
}

func (p *managerPane[R]) Busy() bool {
	for _, op := range []collection.Op{collection.OpCreate, collection.OpRename, collection.OpDelete} {
		if p.m.Pending(op) {
			return true
		}
	}
	return false
}

func (p *managerPane[R]) LastError() error { return p.m.LastError() }
func (p *managerPane[R]) Close()           { p.m.Close() }

func toDialogView[R collection.Resource](d collection.DialogState[R]) dialogView {
	v := dialogView{Open: d.Open, Value: d.Value, Err: d.Err}
	if d.Open {
		v.Title = d.Target.ResourceTitle()
		v.Target = d.Target.ResourceID()
	}
	return v
}

// question returns the full record for the question dialog.
func (p *managerPane[R]) question(id string) (model.Question, bool) {
	r, ok := p.m.Find(id)
	if !ok {
		return model.Question{}, false
	}
	q, ok := any(r).(model.Question)
	return q, ok
}
