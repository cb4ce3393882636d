package ui

import (
	"kobi/internal/cursor"
	"kobi/internal/editor"

	. "github.com/gdamore/tcell"
)

type Command int

const (
	CmdNone Command = iota
	CmdSave
	CmdQuit
	CmdFind
	CmdFindNext
	CmdGoToLine
	CmdCopy
	CmdCut
	CmdPaste
	CmdUndo
	CmdRedo
	CmdSelectAll
	CmdInsert
	CmdNewline
	CmdBackspace
	CmdDelete
	CmdIndent
	CmdOutdent
	CmdEscape
	CmdMove
)

// Action is a decoded key press.
type Action struct {
	Command Command
	Rune    rune          // typed rune for CmdInsert
	Motion  cursor.Motion // for CmdMove
	Extend  bool          // shift held, grow the selection
}

var keymap = map[Key]Command{
	KeyCtrlS:      CmdSave,
	KeyCtrlQ:      CmdQuit,
	KeyCtrlF:      CmdFind,
	KeyCtrlN:      CmdFindNext,
	KeyCtrlG:      CmdGoToLine,
	KeyCtrlC:      CmdCopy,
	KeyCtrlX:      CmdCut,
	KeyCtrlV:      CmdPaste,
	KeyCtrlZ:      CmdUndo,
	KeyCtrlY:      CmdRedo,
	KeyCtrlA:      CmdSelectAll,
	KeyEnter:      CmdNewline,
	KeyBackspace:  CmdBackspace,
	KeyBackspace2: CmdBackspace,
	KeyDelete:     CmdDelete,
	KeyTab:        CmdIndent,
	KeyBacktab:    CmdOutdent,
	KeyEscape:     CmdEscape,
}

var motions = map[Key]cursor.Motion{
	KeyLeft:  cursor.Left,
	KeyRight: cursor.Right,
	KeyUp:    cursor.Up,
	KeyDown:  cursor.Down,
	KeyHome:  cursor.Home,
	KeyEnd:   cursor.End,
	KeyPgUp:  cursor.PageUp,
	KeyPgDn:  cursor.PageDown,
}

// with control held, horizontal moves go by word and home/end by document
var ctrlMotions = map[cursor.Motion]cursor.Motion{
	cursor.Left:  cursor.WordLeft,
	cursor.Right: cursor.WordRight,
	cursor.Home:  cursor.DocumentStart,
	cursor.End:   cursor.DocumentEnd,
}

func ActionFor(ev *EventKey) Action {
	key, modifiers := ev.Key(), ev.Modifiers()

	if key == KeyRune {
		if modifiers&ModAlt != 0 { return Action{} }
		return Action{Command: CmdInsert, Rune: ev.Rune()}
	}
	if motion, ok := motions[key]; ok {
		if modifiers&ModCtrl != 0 {
			if m, ok := ctrlMotions[motion]; ok { motion = m }
		}
		return Action{Command: CmdMove, Motion: motion, Extend: modifiers&ModShift != 0}
	}
	if cmd, ok := keymap[key]; ok { return Action{Command: cmd} }
	return Action{}
}

// Dispatch runs one action against the session. Prompts and quitting are
// handled by the app; everything else maps to one session call.
func (a *App) Dispatch(action Action) (editor.Event, error) {
	s := a.session
	switch action.Command {
	case CmdSave:
		return a.save()
	case CmdFind:
		a.startPrompt("Find: ", s.SearchQuery(), s.Find)
	case CmdFindNext:
		return s.FindNext()
	case CmdGoToLine:
		a.startPrompt("Go to line: ", "", a.goToLine)
	case CmdCopy:
		return s.Copy()
	case CmdCut:
		return s.Cut()
	case CmdPaste:
		return s.Paste()
	case CmdUndo:
		return s.Undo()
	case CmdRedo:
		return s.Redo()
	case CmdSelectAll:
		return s.SelectAll(), nil
	case CmdInsert:
		return s.TypeText(string(action.Rune))
	case CmdNewline:
		return s.Newline()
	case CmdBackspace:
		return s.DeleteBackward()
	case CmdDelete:
		return s.DeleteForward()
	case CmdIndent:
		return s.Indent()
	case CmdOutdent:
		return s.Outdent()
	case CmdEscape:
		s.ClearSelection()
	case CmdMove:
		return s.Move(action.Motion, action.Extend), nil
	}
	return editor.Event{}, nil
}
