package policy

// Engine classifies access attempts against the current index and window.
//
// Evaluate sits on the host runtime's hot path, so it is side-effect-free:
// no allocation beyond the O(1) set lookups, no I/O, no locking. The index
// is swapped as a whole by SetIndex, which the mutation path calls under
// its own lock together with the store change it reflects.
type Engine struct {
	index  *Index
	window *Window
}

// NewEngine creates an Engine over the given index and window.
func NewEngine(index *Index, window *Window) *Engine {
	return &Engine{index: index, window: window}
}

// SetIndex replaces the engine's index. Must be called immediately after
// every store mutation and reload, as part of the same atomic unit.
func (e *Engine) SetIndex(index *Index) {
	e.index = index
}

// Window returns the engine's timed-block window.
func (e *Engine) Window() *Window {
	return e.window
}

// Evaluate classifies one access attempt. Either alias may be empty; the
// host runtime's item metadata is not trusted to always carry both forms.
// Permanent entries take precedence unconditionally, even when the timed
// window would also match.
func (e *Engine) Evaluate(displayAlias, shortAlias string, class ResourceClass) Verdict {
	if e.index.Contains(class, KindPermanent, displayAlias) ||
		e.index.Contains(class, KindPermanent, shortAlias) {
		return VerdictPermanentDeny
	}
	if e.window.Active() &&
		(e.index.Contains(class, KindTimed, displayAlias) ||
			e.index.Contains(class, KindTimed, shortAlias)) {
		return VerdictTimedDeny
	}
	return VerdictAllow
}
