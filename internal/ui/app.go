package ui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"kobi/internal/buffer"
	"kobi/internal/config"
	"kobi/internal/editor"
	"kobi/internal/git"
	"kobi/internal/highlighter"
	kio "kobi/internal/io"
	. "kobi/internal/logger"
	. "kobi/internal/utils"

	. "github.com/gdamore/tcell"
)

// fileChanged is posted to the event loop by the file watcher.
type fileChanged struct{}

const doubleClick = 400 * time.Millisecond

// App is the terminal front end: it turns tcell events into session calls
// and draws the session after every event.
type App struct {
	Screen Screen

	session     *editor.Session
	config      config.Config
	highlighter *highlighter.Highlighter
	lexer       *highlighter.Lexer
	watcher     *kio.Watcher

	colors        [][]Color // per-rune colors from the lexer
	colorsVersion uint64
	colorsValid   bool

	gitBase        string // file content in HEAD
	hasGitBase     bool
	changes        map[int]git.Change
	changesVersion uint64
	changesValid   bool

	status    string // last event message, shown in the status bar
	prompt    *prompt
	quitArmed bool // ^Q pressed once on a dirty buffer
	quit      bool

	mouseDown bool
	lastClick time.Time
	lastPos   buffer.Position
}

func NewApp(screen Screen, session *editor.Session, cfg config.Config, h *highlighter.Highlighter) *App {
	a := &App{Screen: screen, session: session, config: cfg, highlighter: h}
	a.layout()
	return a
}

// Open loads path into the session and starts watching it. A missing file is
// opened as a new empty document.
func (a *App) Open(path string) error {
	ev, err := a.session.Load(path)
	if err != nil { return err }
	a.status = ev.String()

	a.lexer, _ = a.highlighter.Lookup(path, a.session.Text())
	a.colorsValid = false

	base, err := git.LastCommitContent(path)
	a.gitBase, a.hasGitBase = buffer.NormalizeNewlines(base), err == nil
	if err != nil { Log.Info("no git base:", err.Error()) }
	a.changesValid = false

	a.layout()

	if a.config.WatchFile { a.watch(path) }
	return nil
}

func (a *App) watch(path string) {
	a.stopWatch()
	w, err := kio.NewWatcher(path)
	if err != nil { Log.Error("watch", path, err.Error()); return }
	err = w.StartWatch(func() { _ = a.Screen.PostEvent(NewEventInterrupt(fileChanged{})) })
	if err != nil { Log.Error("watch", path, err.Error()); return }
	a.watcher = w
}

func (a *App) stopWatch() {
	if a.watcher == nil { return }
	a.watcher.Stop()
	a.watcher = nil
}

// Close releases the watcher. The caller finalizes the screen.
func (a *App) Close() { a.stopWatch() }

func (a *App) Quit() bool { return a.quit }

func (a *App) Status() string { return a.status }

// Run draws and handles events until the user quits or the screen closes.
func (a *App) Run() {
	a.Draw()
	for !a.quit {
		ev := a.Screen.PollEvent()
		if ev == nil { return }
		a.HandleEvent(ev)
		if !a.quit { a.Draw() }
	}
}

func (a *App) HandleEvent(ev Event) {
	switch ev := ev.(type) {
	case *EventResize:
		a.layout()
		a.Screen.Sync()

	case *EventInterrupt:
		if _, ok := ev.Data().(fileChanged); ok { a.status = "[Changed on disk]" }

	case *EventMouse:
		if a.prompt != nil { return }
		mx, my := ev.Position()
		a.HandleMouse(mx, my, ev.Buttons())

	case *EventKey:
		if a.prompt != nil { a.handlePrompt(ev); return }
		a.HandleKey(ev)
	}
}

func (a *App) HandleKey(ev *EventKey) {
	action := ActionFor(ev)
	if action.Command == CmdNone { return }

	if action.Command == CmdQuit {
		if !a.session.Dirty() || a.quitArmed { a.quit = true; return }
		a.quitArmed = true
		a.status = "[Unsaved changes, ^Q again to quit]"
		return
	}
	a.quitArmed = false

	result, err := a.Dispatch(action)
	a.report(result, err)
}

// report turns a session outcome into the status message.
func (a *App) report(ev editor.Event, err error) {
	var failure *editor.IOFailure
	switch {
	case errors.As(err, &failure):
		a.status = "[Error: " + failure.Reason + "]"
	case errors.Is(err, editor.ErrOutOfRange):
		a.status = "[Line out of range]"
	case errors.Is(err, errNotANumber):
		a.status = "[Not a line number]"
	case err != nil:
		Log.Error("command failed:", err.Error())
		a.status = "[Error: " + err.Error() + "]"
	case ev.Kind == editor.EventEdited:
		a.status = ""
	case ev.Message != "":
		a.status = ev.String()
	}
}

func (a *App) save() (editor.Event, error) {
	if a.watcher != nil {
		a.watcher.Suspend()
		defer a.watcher.UpdateStats()
	}
	return a.session.Save()
}

// HandleMouse places the cursor on click, extends the selection on drag,
// selects a word on double click and scrolls with the wheel.
func (a *App) HandleMouse(mx, my int, buttons ButtonMask) {
	if buttons&WheelUp != 0 { a.session.Scroll(-3); return }
	if buttons&WheelDown != 0 { a.session.Scroll(3); return }
	if buttons&Button1 == 0 { a.mouseDown = false; return }

	area := a.textArea()
	if mx < area.x || my < area.y || mx >= area.x+area.width || my >= area.y+area.height {
		return
	}
	view := a.session.Viewport()
	row := Min(my-area.y+view.Top, a.session.LineCount()-1)
	col := columnAt(a.session.Runes(row), mx-area.x+view.Left, a.session.TabWidth())
	p := buffer.Position{Row: row, Col: col}

	if a.mouseDown {
		a.session.MoveTo(p, true)
		return
	}
	a.mouseDown = true

	now := time.Now()
	if p == a.lastPos && now.Sub(a.lastClick) < doubleClick {
		a.session.SelectWord(p)
	} else {
		a.session.MoveTo(p, false)
	}
	a.lastClick, a.lastPos = now, p
}

// columnAt maps a display column back to a rune column of chars.
func columnAt(chars []rune, x, tabWidth int) int {
	w := 0
	for i, ch := range chars {
		cw := CellWidth(ch, w, tabWidth)
		if x < w+cw { return i }
		w += cw
	}
	return len(chars)
}

func (a *App) goToLine(text string) (editor.Event, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return editor.Event{}, fmt.Errorf("%w: %q", errNotANumber, text)
	}
	return a.session.GoToLine(n)
}

var errNotANumber = errors.New("not a line number")
