package collection

type ViewMode string

const (
	ViewAssessment   ViewMode = "assessment"
	ViewResourceBank ViewMode = "resourceBank"
)

func (m ViewMode) Valid() bool {
	return m == ViewAssessment || m == ViewResourceBank
}

func (m ViewMode) Label() string {
	switch m {
	case ViewAssessment:
		return "Assessment"
	case ViewResourceBank:
		return "Question Bank"
	default:
		return string(m)
	}
}

// Toggle is an exclusive two-valued selector. It is never de-selected and
// never persisted; switching value fires onChange exactly once.
type Toggle struct {
	current  ViewMode
	onChange func(ViewMode)
}

func NewToggle(initial ViewMode, onChange func(ViewMode)) *Toggle {
	if !initial.Valid() {
		initial = ViewResourceBank
	}
	return &Toggle{current: initial, onChange: onChange}
}

func (t *Toggle) Current() ViewMode { return t.current }

// Other is the value Flip would select.
func (t *Toggle) Other() ViewMode {
	if t.current == ViewAssessment {
		return ViewResourceBank
	}
	return ViewAssessment
}

// Select switches to m. An empty or unknown value and the current value are
// ignored. It reports whether the selection changed.
func (t *Toggle) Select(m ViewMode) bool {
	if !m.Valid() || m == t.current {
		return false
	}
	t.current = m
	if t.onChange != nil {
		t.onChange(m)
	}
	return true
}

func (t *Toggle) Flip() bool {
	return t.Select(t.Other())
}
