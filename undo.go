package main

const maxViewHistory = 100

// viewHistory holds view snapshots for undo/redo of user navigation.
type viewHistory struct {
	undoStack []ViewState
	redoStack []ViewState
}

// record stores the view as it was before a change.
func (h *viewHistory) record(before ViewState) {
	if n := len(h.undoStack); n > 0 && h.undoStack[n-1] == before {
		return
	}
	h.undoStack = append(h.undoStack, before)
	if len(h.undoStack) > maxViewHistory {
		h.undoStack = h.undoStack[len(h.undoStack)-maxViewHistory:]
	}
	h.redoStack = h.redoStack[:0]
}

func (h *viewHistory) undo(current ViewState) (ViewState, bool) {
	if len(h.undoStack) == 0 {
		return current, false
	}
	last := len(h.undoStack) - 1
	prev := h.undoStack[last]
	h.undoStack = h.undoStack[:last]
	h.redoStack = append(h.redoStack, current)
	return prev, true
}

func (h *viewHistory) redo(current ViewState) (ViewState, bool) {
	if len(h.redoStack) == 0 {
		return current, false
	}
	last := len(h.redoStack) - 1
	next := h.redoStack[last]
	h.redoStack = h.redoStack[:last]
	h.undoStack = append(h.undoStack, current)
	return next, true
}

func (h *viewHistory) clear() {
	h.undoStack = h.undoStack[:0]
	h.redoStack = h.redoStack[:0]
}
