package collection

// DialogState is what a presentation layer needs to render one dialog. The
// matching callbacks are Manager methods (SetRenameText, CancelRename,
// SaveRename, CancelDelete, ConfirmDelete).
type DialogState[R Resource] struct {
	Open   bool
	Target R
	// Value is the editable text (rename only).
	Value string
	// Err is the last failed save/confirm for this dialog, cleared on reopen.
	Err error
}

// Dialogs tracks the rename and delete channels. The two are independent:
// opening one never touches the other.
type Dialogs[R Resource] struct {
	rename DialogState[R]
	delete DialogState[R]
}

// OpenRename designates r as the rename target and seeds the text from its
// current title.
func (d *Dialogs[R]) OpenRename(r R) {
	d.rename = DialogState[R]{Open: true, Target: r, Value: r.ResourceTitle()}
}

func (d *Dialogs[R]) SetRenameValue(v string) {
	if !d.rename.Open {
		return
	}
	d.rename.Value = v
}

func (d *Dialogs[R]) CloseRename() {
	d.rename = DialogState[R]{}
}

func (d *Dialogs[R]) OpenDelete(r R) {
	d.delete = DialogState[R]{Open: true, Target: r}
}

func (d *Dialogs[R]) CloseDelete() {
	d.delete = DialogState[R]{}
}

func (d *Dialogs[R]) Rename() DialogState[R] { return d.rename }
func (d *Dialogs[R]) Delete() DialogState[R] { return d.delete }
