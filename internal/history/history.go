// Package history keeps bounded undo and redo stacks of document snapshots.
// Only user edits are recorded; reflow mutations are never pushed, so one
// undo step always corresponds to one edit.
package history

import "github.com/gompdf/pageflow/internal/doctree"

// DefaultLimit is the number of undo steps kept.
const DefaultLimit = 100

// History is not safe for concurrent use; the editing session guards it.
type History struct {
	limit int
	undo  []*doctree.Document
	redo  []*doctree.Document
}

// New creates a history keeping at most limit undo steps.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Push records the state before an edit and invalidates redo.
func (h *History) Push(before *doctree.Document) {
	h.undo = append(h.undo, before.Clone())
	if len(h.undo) > h.limit {
		h.undo = h.undo[1:]
	}
	h.redo = h.redo[:0]
}

// Undo returns the state before the last edit. current is kept for Redo.
func (h *History) Undo(current *doctree.Document) (*doctree.Document, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	last := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current.Clone())
	return last, true
}

// Redo reapplies the last undone edit. current is kept for Undo.
func (h *History) Redo(current *doctree.Document) (*doctree.Document, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	last := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current.Clone())
	return last, true
}

// CanUndo reports whether an undo step is recorded.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether an undone step can be reapplied.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo = h.undo[:0]
	h.redo = h.redo[:0]
}
