package cursor

import (
	"kobi/internal/buffer"
	"kobi/internal/history"
	. "kobi/internal/operations"
	. "kobi/internal/selection"
	. "kobi/internal/utils"
)

type Motion int

const (
	Left Motion = iota
	Right
	Up
	Down
	Home
	End
	WordLeft
	WordRight
	PageUp
	PageDown
	DocumentStart
	DocumentEnd
)

// Recorder receives every edit the cursor makes on its own, so that
// selection deletes land in the undo history like any other edit.
type Recorder interface {
	Record(e history.Entry)
}

// Cursor tracks the caret and the selection, always valid against buf.
type Cursor struct {
	buf       *buffer.Buffer
	pos       buffer.Position
	goalCol   int // column kept across vertical moves, -1 when unset
	Selection Selection
	PageSize  int // rows moved by PageUp/PageDown
	recorder  Recorder
}

func New(b *buffer.Buffer) *Cursor {
	return &Cursor{buf: b, goalCol: -1, PageSize: 20}
}

func (c *Cursor) SetRecorder(r Recorder) { c.recorder = r }

func (c *Cursor) Position() buffer.Position { return c.pos }

// MoveTo places the cursor at p clamped to the buffer.
func (c *Cursor) MoveTo(p buffer.Position) {
	c.pos = c.buf.Clamp(p)
	c.goalCol = -1
}

// MoveBy shifts the cursor by rows and columns, clamping at every edge.
func (c *Cursor) MoveBy(deltaRow, deltaCol int) {
	row := Clamp(c.pos.Row+deltaRow, 0, c.buf.LineCount()-1)
	col := Clamp(c.pos.Col+deltaCol, 0, c.buf.LineLength(row))
	c.pos = buffer.Position{Row: row, Col: col}
	c.goalCol = -1
}

// Move applies a motion. With extend the selection grows from its anchor,
// otherwise any selection is dropped.
func (c *Cursor) Move(m Motion, extend bool) {
	if extend {
		if !c.Selection.IsSelected { c.StartSelection() }
	} else {
		c.ClearSelection()
	}

	switch m {
	case Left:
		c.left()
	case Right:
		c.right()
	case Up:
		c.vertical(-1)
	case Down:
		c.vertical(1)
	case Home:
		c.home()
	case End:
		c.MoveTo(buffer.Position{Row: c.pos.Row, Col: c.buf.LineLength(c.pos.Row)})
	case WordLeft:
		c.wordLeft()
	case WordRight:
		c.wordRight()
	case PageUp:
		c.vertical(-Max(c.PageSize, 1))
	case PageDown:
		c.vertical(Max(c.PageSize, 1))
	case DocumentStart:
		c.MoveTo(buffer.Position{})
	case DocumentEnd:
		c.MoveTo(c.buf.End())
	}

	if extend { c.Selection.Extend(c.pos) }
}

func (c *Cursor) left() {
	if c.pos.Col > 0 { c.MoveBy(0, -1); return }
	if c.pos.Row > 0 {
		c.MoveTo(buffer.Position{Row: c.pos.Row - 1, Col: c.buf.LineLength(c.pos.Row - 1)})
	}
}

func (c *Cursor) right() {
	if c.pos.Col < c.buf.LineLength(c.pos.Row) { c.MoveBy(0, 1); return }
	if c.pos.Row < c.buf.LineCount()-1 {
		c.MoveTo(buffer.Position{Row: c.pos.Row + 1})
	}
}

func (c *Cursor) vertical(delta int) {
	goal := c.goalCol
	if goal < 0 { goal = c.pos.Col }

	row := Clamp(c.pos.Row+delta, 0, c.buf.LineCount()-1)
	switch {
	case row == c.pos.Row && delta < 0:
		c.pos.Col, goal = 0, -1
	case row == c.pos.Row && delta > 0:
		c.pos.Col, goal = c.buf.LineLength(row), -1
	default:
		c.pos = buffer.Position{Row: row, Col: Min(goal, c.buf.LineLength(row))}
	}
	c.goalCol = goal
}

// home toggles between the first non-blank column and column 0.
func (c *Cursor) home() {
	indent := len(LeadingWhitespace(c.buf.Runes(c.pos.Row)))
	col := indent
	if c.pos.Col == indent { col = 0 }
	c.MoveTo(buffer.Position{Row: c.pos.Row, Col: col})
}

func (c *Cursor) wordLeft() {
	if c.pos.Col == 0 { c.left(); return }
	c.MoveTo(buffer.Position{Row: c.pos.Row, Col: FindPrevWord(c.buf.Runes(c.pos.Row), c.pos.Col)})
}

func (c *Cursor) wordRight() {
	if c.pos.Col == c.buf.LineLength(c.pos.Row) { c.right(); return }
	c.MoveTo(buffer.Position{Row: c.pos.Row, Col: FindNextWord(c.buf.Runes(c.pos.Row), c.pos.Col)})
}

func (c *Cursor) StartSelection() { c.Selection.Start(c.pos) }

// ExtendSelection moves the cursor to p and makes it the active end.
func (c *Cursor) ExtendSelection(p buffer.Position) {
	if !c.Selection.IsSelected { c.StartSelection() }
	c.MoveTo(p)
	c.Selection.Extend(c.pos)
}

func (c *Cursor) ClearSelection() { c.Selection.CleanSelection() }

func (c *Cursor) SelectAll() {
	c.Selection.Start(buffer.Position{})
	c.MoveTo(c.buf.End())
	c.Selection.Extend(c.pos)
}

// SelectedRange returns the normalized selection, false when there is none.
func (c *Cursor) SelectedRange() (buffer.Range, bool) { return c.Selection.Range() }

func (c *Cursor) SelectedText() (string, bool) {
	r, ok := c.Selection.Range()
	if !ok { return "", false }
	text, err := c.buf.TextOf(r)
	if err != nil { return "", false }
	return text, true
}

// DeleteSelection removes the selected text and leaves the cursor where it
// started. Without a selection it does nothing and returns "".
func (c *Cursor) DeleteSelection() (string, error) {
	r, ok := c.Selection.Range()
	if !ok { c.ClearSelection(); return "", nil }

	before := c.pos
	removed, err := c.buf.Delete(r)
	if err != nil { return "", err }

	c.ClearSelection()
	c.MoveTo(r.Start)
	if c.recorder != nil {
		c.recorder.Record(history.Entry{
			Ops:          EditOperation{NewDelete(r, removed)},
			CursorBefore: before,
			CursorAfter:  c.pos,
		})
	}
	return removed, nil
}

// Clamp re-validates cursor and selection after the buffer changed.
func (c *Cursor) Clamp() {
	c.pos = c.buf.Clamp(c.pos)
	c.Selection.Clamp(c.buf)
}

// Reset binds the cursor to a new buffer at its start.
func (c *Cursor) Reset(b *buffer.Buffer) {
	c.buf = b
	c.pos = buffer.Position{}
	c.goalCol = -1
	c.ClearSelection()
}
