package history

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"kobi/internal/buffer"
	"kobi/internal/logger"
	. "kobi/internal/operations"
)

// Entry is one undo step: a group of operations plus the cursor on both sides.
type Entry struct {
	Ops          EditOperation
	CursorBefore buffer.Position
	CursorAfter  buffer.Position
}

type Options struct {
	Coalesce bool // merge typing bursts into one entry
	Limit    int  // max undo entries kept, 0 means unbounded
}

// Log is a linear undo/redo history. Recording after an undo drops the redo
// stack; there is no branching.
type Log struct {
	undo  []Entry
	redo  []Entry
	opt   Options
	clean int  // undo depth of the saved document, -1 once unreachable
	burst bool // top undo entry may still absorb typed runes
}

func New(opt Options) *Log {
	return &Log{opt: opt}
}

func (h *Log) Record(e Entry) {
	if len(e.Ops) == 0 { return }
	// the saved state sat in the redo stack that is about to go
	if h.clean > len(h.undo) { h.clean = -1 }
	h.redo = nil

	if h.canMerge(e) {
		if h.clean == len(h.undo) { h.clean = -1 }
		top := &h.undo[len(h.undo)-1]
		top.Ops[0].Text += e.Ops[0].Text
		top.CursorAfter = e.CursorAfter
	} else {
		h.undo = append(h.undo, e)
		if h.opt.Limit > 0 && len(h.undo) > h.opt.Limit {
			dropped := len(h.undo) - h.opt.Limit
			h.undo = append([]Entry(nil), h.undo[dropped:]...)
			h.clean -= dropped
			if h.clean < 0 { h.clean = -1 }
		}
	}
	h.burst = h.opt.Coalesce && isTyped(e) && !endsWord(e.Ops[0].Text)
}

func (h *Log) canMerge(e Entry) bool {
	if !h.burst || len(h.undo) == 0 || !isTyped(e) { return false }
	top := h.undo[len(h.undo)-1]
	if len(top.Ops) != 1 || top.Ops[0].Action != Insert { return false }
	return top.Ops[0].End() == e.Ops[0].At && top.CursorAfter == e.CursorBefore
}

// isTyped reports whether e is a single typed rune that is not a line break.
func isTyped(e Entry) bool {
	if len(e.Ops) != 1 || e.Ops[0].Action != Insert { return false }
	text := e.Ops[0].Text
	return utf8.RuneCountInString(text) == 1 && !strings.ContainsAny(text, "\r\n")
}

func endsWord(text string) bool {
	r, _ := utf8.DecodeRuneInString(text)
	return unicode.IsSpace(r)
}

// SetCursorAfter corrects where redo leaves the cursor for the newest entry,
// for edits that move the cursor after the operations ran.
func (h *Log) SetCursorAfter(p buffer.Position) {
	if len(h.undo) == 0 { return }
	h.undo[len(h.undo)-1].CursorAfter = p
}

// Break closes the current typing burst; the next record starts a new entry.
func (h *Log) Break() { h.burst = false }

// Undo reverts the newest entry and returns the cursor to restore. When an
// operation fails the ones already reverted are replayed, so the buffer and
// both stacks stay as they were.
func (h *Log) Undo(b *buffer.Buffer) (buffer.Position, bool, error) {
	h.burst = false
	if len(h.undo) == 0 { return buffer.Position{}, false, nil }

	e := h.undo[len(h.undo)-1]
	for i := len(e.Ops) - 1; i >= 0; i-- {
		if _, err := e.Ops[i].Inverse().Apply(b); err != nil {
			if rerr := e.Ops[i+1:].Replay(b); rerr != nil {
				logger.Log.Error("undo rollback failed:", rerr.Error())
			}
			return e.CursorAfter, false, err
		}
	}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, e)
	return e.CursorBefore, true, nil
}

// Redo reapplies the newest undone entry and returns the cursor to restore.
// A failure reverts what was already applied.
func (h *Log) Redo(b *buffer.Buffer) (buffer.Position, bool, error) {
	h.burst = false
	if len(h.redo) == 0 { return buffer.Position{}, false, nil }

	e := h.redo[len(h.redo)-1]
	for i, op := range e.Ops {
		if _, err := op.Apply(b); err != nil {
			if rerr := e.Ops[:i].Revert(b); rerr != nil {
				logger.Log.Error("redo rollback failed:", rerr.Error())
			}
			return e.CursorBefore, false, err
		}
	}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, e)
	return e.CursorAfter, true, nil
}

func (h *Log) CanUndo() bool { return len(h.undo) > 0 }
func (h *Log) CanRedo() bool { return len(h.redo) > 0 }

// Dirty reports whether the document differs from the last saved state.
// Undoing back to that state makes it clean again.
func (h *Log) Dirty() bool { return h.clean != len(h.undo) }

func (h *Log) MarkClean() { h.clean = len(h.undo); h.burst = false }

// Reset forgets all history, used when a new document is loaded.
func (h *Log) Reset() {
	h.undo, h.redo = nil, nil
	h.clean, h.burst = 0, false
}
