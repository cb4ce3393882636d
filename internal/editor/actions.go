package editor

import (
	"fmt"

	"kobi/internal/buffer"
	"kobi/internal/cursor"
	"kobi/internal/history"
	. "kobi/internal/logger"
	. "kobi/internal/operations"
	. "kobi/internal/utils"
)

// apply runs ops in order as one undo step and moves the cursor to the end
// of the last one.
func (s *Session) apply(ops EditOperation) error {
	if len(ops) == 0 { return nil }
	before := s.cursor.Position()
	after := before
	for i, op := range ops {
		end, err := op.Apply(s.buf)
		if err != nil {
			Log.Error("edit failed:", op.String(), err.Error())
			s.rollback(ops[:i])
			return err
		}
		after = end
	}
	s.cursor.ClearSelection()
	s.cursor.MoveTo(after)
	s.history.Record(history.Entry{Ops: ops, CursorBefore: before, CursorAfter: after})
	s.focus()
	return nil
}

func (s *Session) rollback(done EditOperation) {
	if err := done.Revert(s.buf); err != nil {
		Log.Error("rollback failed:", err.Error())
	}
	s.cursor.Clamp()
}

// replaceSelection returns the delete of the current selection, if any, and
// the position the following insert should use.
func (s *Session) replaceSelection() (EditOperation, buffer.Position, error) {
	at := s.cursor.Position()
	r, ok := s.cursor.SelectedRange()
	if !ok { return EditOperation{}, at, nil }
	removed, err := s.buf.TextOf(r)
	if err != nil { return nil, at, err }
	return EditOperation{NewDelete(r, removed)}, r.Start, nil
}

// TypeText inserts text at the cursor, replacing the selection if there is one.
func (s *Session) TypeText(text string) (Event, error) {
	ops, at, err := s.replaceSelection()
	if err != nil { return Event{}, err }
	if text == "" && len(ops) == 0 { return Event{}, nil }
	if text != "" {
		if len(ops) > 0 {
			// the insert lands where the selection started, after the delete ran
			ops = append(ops, NewInsert(at, text))
		} else {
			ops = EditOperation{NewInsert(at, text)}
		}
	}
	if err := s.apply(ops); err != nil { return Event{}, err }
	return Event{Kind: EventEdited}, nil
}

// Newline breaks the line and repeats the indentation before the cursor.
func (s *Session) Newline() (Event, error) {
	p := s.cursor.Position()
	if r, ok := s.cursor.SelectedRange(); ok { p = r.Start }
	indent := LeadingWhitespace(s.buf.Runes(p.Row))
	if len(indent) > p.Col { indent = indent[:p.Col] }
	return s.TypeText("\n" + string(indent))
}

// Indent inserts a tab at the cursor, or at the start of every selected line.
func (s *Session) Indent() (Event, error) {
	lines := s.cursor.Selection.GetSelectedLines()
	if len(lines) == 0 { return s.TypeText("\t") }

	anchor, active := s.cursor.Selection.Anchor, s.cursor.Selection.Active
	ops := EditOperation{}
	shift := map[int]int{}
	for _, row := range lines {
		ops = append(ops, NewInsert(buffer.Position{Row: row}, "\t"))
		shift[row] = 1
	}
	if err := s.apply(ops); err != nil { return Event{}, err }
	s.reselect(anchor, active, shift)
	return Event{Kind: EventEdited}, nil
}

// Outdent removes one tab or up to TabWidth spaces from the start of the
// current line or of every selected line.
func (s *Session) Outdent() (Event, error) {
	lines := s.cursor.Selection.GetSelectedLines()
	selected := len(lines) > 0
	if !selected { lines = []int{s.cursor.Position().Row} }

	anchor, active := s.cursor.Selection.Anchor, s.cursor.Selection.Active
	cur := s.cursor.Position()
	ops := EditOperation{}
	shift := map[int]int{}
	for _, row := range lines {
		indent := LeadingWhitespace(s.buf.Runes(row))
		n := 0
		if len(indent) > 0 && indent[0] == '\t' {
			n = 1
		} else {
			for n < len(indent) && n < s.opt.TabWidth && indent[n] == ' ' { n++ }
		}
		if n == 0 { continue }
		r := buffer.Range{Start: buffer.Position{Row: row}, End: buffer.Position{Row: row, Col: n}}
		ops = append(ops, NewDelete(r, string(indent[:n])))
		shift[row] = -n
	}
	if len(ops) == 0 { return Event{}, nil }

	if err := s.apply(ops); err != nil { return Event{}, err }
	if selected {
		s.reselect(anchor, active, shift)
	} else {
		s.cursor.MoveTo(buffer.Position{Row: cur.Row, Col: cur.Col + shift[cur.Row]})
		s.history.SetCursorAfter(s.cursor.Position())
		s.focus()
	}
	return Event{Kind: EventEdited}, nil
}

// reselect restores a selection whose lines were shifted by whole columns.
func (s *Session) reselect(anchor, active buffer.Position, shift map[int]int) {
	move := func(p buffer.Position) buffer.Position {
		if p.Col > 0 { p.Col = Max(p.Col+shift[p.Row], 0) }
		return s.buf.Clamp(p)
	}
	s.cursor.MoveTo(move(anchor))
	s.cursor.StartSelection()
	s.cursor.ExtendSelection(move(active))
	s.history.SetCursorAfter(s.cursor.Position())
	s.focus()
}

// DeleteBackward removes the selection, or the rune before the cursor.
func (s *Session) DeleteBackward() (Event, error) {
	if _, ok := s.cursor.SelectedRange(); ok { return s.deleteSelection() }
	s.cursor.ClearSelection()

	end := s.cursor.Position()
	start := end
	switch {
	case end.Col > 0:
		start.Col--
	case end.Row > 0:
		start = buffer.Position{Row: end.Row - 1, Col: s.buf.LineLength(end.Row - 1)}
	default:
		return Event{}, nil
	}
	return s.deleteRange(buffer.Range{Start: start, End: end})
}

// DeleteForward removes the selection, or the rune under the cursor.
func (s *Session) DeleteForward() (Event, error) {
	if _, ok := s.cursor.SelectedRange(); ok { return s.deleteSelection() }
	s.cursor.ClearSelection()

	start := s.cursor.Position()
	end := start
	switch {
	case start.Col < s.buf.LineLength(start.Row):
		end.Col++
	case start.Row < s.buf.LineCount()-1:
		end = buffer.Position{Row: start.Row + 1}
	default:
		return Event{}, nil
	}
	return s.deleteRange(buffer.Range{Start: start, End: end})
}

func (s *Session) deleteRange(r buffer.Range) (Event, error) {
	removed, err := s.buf.TextOf(r)
	if err != nil { return Event{}, err }
	if err := s.apply(EditOperation{NewDelete(r, removed)}); err != nil { return Event{}, err }
	return Event{Kind: EventEdited}, nil
}

func (s *Session) deleteSelection() (Event, error) {
	if _, err := s.cursor.DeleteSelection(); err != nil { return Event{}, err }
	s.focus()
	return Event{Kind: EventEdited}, nil
}

func (s *Session) Undo() (Event, error) {
	p, ok, err := s.history.Undo(s.buf)
	if err != nil {
		Log.Error("undo:", err.Error())
		s.cursor.Clamp()
		return Event{}, err
	}
	if !ok { return event(EventNothingToUndo, "Nothing to undo"), nil }
	s.cursor.ClearSelection()
	s.cursor.MoveTo(p)
	s.focus()
	return event(EventUndo, "Undo"), nil
}

func (s *Session) Redo() (Event, error) {
	p, ok, err := s.history.Redo(s.buf)
	if err != nil {
		Log.Error("redo:", err.Error())
		s.cursor.Clamp()
		return Event{}, err
	}
	if !ok { return event(EventNothingToRedo, "Nothing to redo"), nil }
	s.cursor.ClearSelection()
	s.cursor.MoveTo(p)
	s.focus()
	return event(EventRedo, "Redo"), nil
}

// Find sets the query and jumps to the first match at or after the cursor.
// An empty query clears the search.
func (s *Session) Find(query string) (Event, error) {
	if query == "" {
		s.search.Clear()
		return event(EventSearchCleared, "Search cleared"), nil
	}
	s.search.SetQuery(query)
	p, ok := s.search.NextFrom(s.CursorOffset())
	return s.jumpToMatch(p, ok), nil
}

// FindNext jumps to the match after the cursor, wrapping around the document.
func (s *Session) FindNext() (Event, error) {
	if s.search.Query() == "" { return event(EventNoMatch, "No search"), nil }
	p, ok := s.search.Next(s.CursorOffset())
	return s.jumpToMatch(p, ok), nil
}

func (s *Session) jumpToMatch(p buffer.Position, ok bool) Event {
	if !ok { return event(EventNoMatch, "Not found: %s", s.search.Query()) }
	s.history.Break()
	s.cursor.ClearSelection()
	s.cursor.MoveTo(p)
	s.focus()
	return event(EventFound, "Match %d/%d", s.search.Index(), s.search.Count())
}

// GoToLine moves to the start of the 1-based line n. Lines outside the
// document are reported with ErrOutOfRange and the cursor does not move.
func (s *Session) GoToLine(n int) (Event, error) {
	if n < 1 || n > s.buf.LineCount() {
		return Event{}, fmt.Errorf("%w: %d not in 1..%d", ErrOutOfRange, n, s.buf.LineCount())
	}
	s.history.Break()
	s.cursor.ClearSelection()
	s.cursor.MoveTo(buffer.Position{Row: n - 1})
	s.focus()
	return event(EventLine, "Line %d", n), nil
}

func (s *Session) Copy() (Event, error) {
	text, ok := s.cursor.SelectedText()
	if !ok { return event(EventNoSelection, "No Selection"), nil }
	if err := s.clipboard.SetData(text); err != nil { return Event{}, err }
	return event(EventCopied, "Copied"), nil
}

func (s *Session) Cut() (Event, error) {
	text, ok := s.cursor.SelectedText()
	if !ok { return event(EventNoSelection, "No Selection"), nil }
	if err := s.clipboard.SetData(text); err != nil { return Event{}, err }
	s.history.Break()
	if _, err := s.deleteSelection(); err != nil { return Event{}, err }
	return event(EventCut, "Cut"), nil
}

// Paste inserts the clipboard text as its own undo step.
func (s *Session) Paste() (Event, error) {
	text, ok, err := s.clipboard.GetData()
	if err != nil { return Event{}, err }
	if !ok || text == "" { return event(EventClipboardEmpty, "Clipboard empty"), nil }

	s.history.Break()
	if _, err := s.TypeText(buffer.NormalizeNewlines(text)); err != nil { return Event{}, err }
	s.history.Break()
	return event(EventPasted, "Pasted"), nil
}

// Move applies a cursor motion; extend grows the selection instead of
// dropping it. Moving ends the current typing burst.
func (s *Session) Move(m cursor.Motion, extend bool) Event {
	s.cursor.PageSize = Max(s.view.Height-1, 1)
	s.cursor.Move(m, extend)
	s.history.Break()
	s.focus()
	return Event{}
}

// MoveTo places the cursor at p, extending the selection when asked (mouse).
func (s *Session) MoveTo(p buffer.Position, extend bool) Event {
	if extend {
		s.cursor.ExtendSelection(p)
	} else {
		s.cursor.ClearSelection()
		s.cursor.MoveTo(p)
	}
	s.history.Break()
	s.focus()
	return Event{}
}

// SelectWord selects the word under p (double click).
func (s *Session) SelectWord(p buffer.Position) Event {
	p = s.buf.Clamp(p)
	line := s.buf.Runes(p.Row)
	s.cursor.MoveTo(buffer.Position{Row: p.Row, Col: FindPrevWord(line, p.Col)})
	s.cursor.StartSelection()
	s.cursor.ExtendSelection(buffer.Position{Row: p.Row, Col: FindNextWord(line, p.Col)})
	s.history.Break()
	s.focus()
	return Event{}
}

func (s *Session) SelectAll() Event {
	s.cursor.SelectAll()
	s.history.Break()
	s.focus()
	return Event{}
}

func (s *Session) ClearSelection() { s.cursor.ClearSelection() }
