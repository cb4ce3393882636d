package editor

import (
	"kobi/internal/buffer"
	"kobi/internal/cursor"
	"kobi/internal/history"
	"kobi/internal/search"
	. "kobi/internal/utils"
)

type Options struct {
	Coalesce     bool // merge typing bursts into one undo step
	HistoryLimit int
	TabWidth     int
}

// Session is one open document: buffer, cursor, history and search kept in
// step. It is not safe for concurrent use; the host runs it on one loop.
type Session struct {
	Filename string

	buf     *buffer.Buffer
	cursor  *cursor.Cursor
	history *history.Log
	search  *search.Engine
	view    Viewport

	fs        FileSystem
	clipboard Clipboard
	opt       Options

	newline string // line ending the file used, "" means "\n"
	bom     bool   // file started with a UTF-8 byte order mark
}

func New(fs FileSystem, clipboard Clipboard, opt Options) *Session {
	if opt.TabWidth <= 0 { opt.TabWidth = 4 }
	s := &Session{fs: fs, clipboard: clipboard, opt: opt}
	s.history = history.New(history.Options{Coalesce: opt.Coalesce, Limit: opt.HistoryLimit})
	s.reset(buffer.New(""))
	return s
}

func (s *Session) reset(b *buffer.Buffer) {
	s.buf = b
	if s.cursor == nil {
		s.cursor = cursor.New(b)
		s.cursor.SetRecorder(s.history)
	} else {
		s.cursor.Reset(b)
	}
	s.history.Reset()
	s.search = search.NewEngine(b)
	s.view.Top, s.view.Left = 0, 0
}

func (s *Session) Text() string                { return s.buf.Text() }
func (s *Session) Version() uint64             { return s.buf.Version() }
func (s *Session) LineCount() int              { return s.buf.LineCount() }
func (s *Session) Line(row int) string         { return s.buf.Line(row) }
func (s *Session) Runes(row int) []rune        { return s.buf.Runes(row) }
func (s *Session) Cursor() buffer.Position     { return s.cursor.Position() }
func (s *Session) Dirty() bool                 { return s.history.Dirty() }
func (s *Session) CanUndo() bool               { return s.history.CanUndo() }
func (s *Session) CanRedo() bool               { return s.history.CanRedo() }
func (s *Session) Viewport() Viewport          { return s.view }
func (s *Session) TabWidth() int               { return s.opt.TabWidth }
func (s *Session) SearchQuery() string         { return s.search.Query() }
func (s *Session) SearchQueryLength() int      { return s.search.QueryLength() }
func (s *Session) SearchMatches(row int) []int { return s.search.MatchesInLine(row) }

func (s *Session) Selection() (buffer.Range, bool) { return s.cursor.SelectedRange() }

func (s *Session) IsSelected(row, col int) bool { return s.cursor.Selection.IsUnderSelection(col, row) }

func (s *Session) SelectedText() (string, bool) { return s.cursor.SelectedText() }

// CursorOffset is the cursor as a linear document offset.
func (s *Session) CursorOffset() int {
	offset, _ := s.buf.Offset(s.cursor.Position())
	return offset
}

// DisplayColumn is the screen column of the cursor inside its line.
func (s *Session) DisplayColumn() int {
	p := s.cursor.Position()
	return DisplayWidth(s.buf.Runes(p.Row)[:p.Col], s.opt.TabWidth)
}

// Resize sets the text area size in cells and keeps the cursor visible.
func (s *Session) Resize(width, height int) {
	s.view.Width, s.view.Height = width, height
	s.focus()
}

// Scroll moves the view without moving the cursor (mouse wheel).
func (s *Session) Scroll(delta int) {
	s.view.Scroll(delta, s.buf.LineCount())
}

func (s *Session) focus() {
	s.view.Follow(s.cursor.Position().Row, s.DisplayColumn())
}
