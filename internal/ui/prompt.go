package ui

import (
	"kobi/internal/editor"
	. "kobi/internal/utils"

	. "github.com/gdamore/tcell"
)

// prompt is a one-line input on the help bar row (Find, Go to line).
type prompt struct {
	label  string
	text   []rune
	x      int // caret inside text
	onDone func(text string) (editor.Event, error)
}

func (a *App) startPrompt(label, initial string, onDone func(string) (editor.Event, error)) {
	text := []rune(initial)
	a.prompt = &prompt{label: label, text: text, x: len(text), onDone: onDone}
}

// handlePrompt edits the prompt line. Enter runs it, Esc drops it and
// leaves the document untouched.
func (a *App) handlePrompt(ev *EventKey) {
	p := a.prompt
	switch ev.Key() {
	case KeyEscape, KeyCtrlQ:
		a.prompt = nil
		a.status = ""
	case KeyEnter:
		a.prompt = nil
		a.report(p.onDone(string(p.text)))
	case KeyRune:
		p.text = InsertAt(p.text, p.x, ev.Rune())
		p.x++
	case KeyBackspace, KeyBackspace2:
		if p.x == 0 { return }
		p.text = RemoveRange(p.text, p.x-1, p.x)
		p.x--
	case KeyDelete:
		if p.x < len(p.text) { p.text = RemoveRange(p.text, p.x, p.x+1) }
	case KeyLeft:
		p.x = Max(p.x-1, 0)
	case KeyRight:
		p.x = Min(p.x+1, len(p.text))
	case KeyHome:
		p.x = 0
	case KeyEnd:
		p.x = len(p.text)
	}
}

func (a *App) Prompting() bool { return a.prompt != nil }
