package nav

// History is a back-stack of visited routes. The zero value is empty.
type History struct {
	stack []Route
}

func (h *History) Push(r Route) {
	h.stack = append(h.stack, r)
}

// Replace swaps the current route without growing the stack. Used for sibling
// routes (assessments <-> question banks) so "back" skips the toggle hop.
func (h *History) Replace(r Route) {
	if len(h.stack) == 0 {
		h.stack = append(h.stack, r)
		return
	}
	h.stack[len(h.stack)-1] = r
}

func (h *History) Current() (Route, bool) {
	if len(h.stack) == 0 {
		return Route{}, false
	}
	return h.stack[len(h.stack)-1], true
}

// Back pops the current route and returns the new current one. The root route
// is never popped.
func (h *History) Back() (Route, bool) {
	if len(h.stack) <= 1 {
		return Route{}, false
	}
	h.stack = h.stack[:len(h.stack)-1]
	return h.stack[len(h.stack)-1], true
}

func (h *History) Len() int { return len(h.stack) }
