package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"kobi/internal/buffer"
	"kobi/internal/clipboard"
	"kobi/internal/config"
	"kobi/internal/editor"
	"kobi/internal/highlighter"
	kio "kobi/internal/io"

	. "github.com/gdamore/tcell"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, name, content string) (*App, SimulationScreen, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if content != "" { require.NoError(t, os.WriteFile(path, []byte(content), 0644)) }

	screen := NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)

	cfg := config.DefaultConfig
	cfg.WatchFile = false
	session := editor.New(kio.OSFileSystem{}, &clipboard.Memory{}, editor.Options{
		Coalesce: cfg.UndoCoalesce, HistoryLimit: cfg.HistoryLimit, TabWidth: cfg.TabWidth,
	})
	app := NewApp(screen, session, cfg, highlighter.New(cfg.Theme))
	require.NoError(t, app.Open(path))
	t.Cleanup(app.Close)
	return app, screen, path
}

func press(app *App, k Key) { app.HandleEvent(NewEventKey(k, 0, ModNone)) }

func typeKeys(app *App, text string) {
	for _, r := range text { app.HandleEvent(NewEventKey(KeyRune, r, ModNone)) }
}

func screenRow(s Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		ch, _, _, _ := s.GetContent(x, y)
		b.WriteRune(ch)
	}
	return b.String()
}

func TestTypeAndSave(t *testing.T) {
	app, _, path := newTestApp(t, "new.txt", "")
	assert.Equal(t, "[New file]", app.Status())

	typeKeys(app, "hi")
	assert.Equal(t, "", app.Status())
	press(app, KeyCtrlS)
	assert.Equal(t, "[Saved]", app.Status())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))

	press(app, KeyCtrlZ)
	assert.Equal(t, "", app.session.Text())
	assert.Equal(t, "[Undo]", app.Status())
	press(app, KeyCtrlY)
	assert.Equal(t, "hi", app.session.Text())
}

func TestQuitAsksAgainWhenDirty(t *testing.T) {
	app, _, _ := newTestApp(t, "doc.txt", "abc")
	press(app, KeyCtrlQ)
	assert.True(t, app.Quit(), "clean buffer quits at once")

	app, _, _ = newTestApp(t, "doc.txt", "abc")
	typeKeys(app, "x")
	press(app, KeyCtrlQ)
	assert.False(t, app.Quit())
	assert.Contains(t, app.Status(), "Unsaved changes")

	press(app, KeyLeft)
	press(app, KeyCtrlQ)
	assert.False(t, app.Quit(), "another key disarms quit")
	press(app, KeyCtrlQ)
	assert.True(t, app.Quit())
}

func TestFindPrompt(t *testing.T) {
	app, _, _ := newTestApp(t, "doc.txt", "foo bar foo")

	press(app, KeyCtrlF)
	require.True(t, app.Prompting())
	typeKeys(app, "foo")
	assert.Equal(t, "", app.session.SearchQuery(), "query applies on enter")
	press(app, KeyEnter)

	assert.False(t, app.Prompting())
	assert.Equal(t, "[Match 1/2]", app.Status())
	assert.Equal(t, 0, app.session.CursorOffset())

	press(app, KeyCtrlN)
	assert.Equal(t, 8, app.session.CursorOffset())
	press(app, KeyCtrlN)
	assert.Equal(t, 0, app.session.CursorOffset())

	press(app, KeyCtrlF)
	typeKeys(app, "zz")
	press(app, KeyEnter)
	assert.Equal(t, "[Not found: foozz]", app.Status())
}

func TestPromptEscapeLeavesDocument(t *testing.T) {
	app, _, _ := newTestApp(t, "doc.txt", "foo bar foo")
	press(app, KeyEnd)
	before := app.session.Cursor()

	press(app, KeyCtrlF)
	typeKeys(app, "bar")
	press(app, KeyBackspace2)
	press(app, KeyEscape)

	assert.False(t, app.Prompting())
	assert.Equal(t, before, app.session.Cursor())
	assert.Equal(t, "", app.session.SearchQuery())
	assert.Equal(t, "foo bar foo", app.session.Text())
	assert.False(t, app.session.CanUndo())
}

func TestGoToLinePrompt(t *testing.T) {
	app, _, _ := newTestApp(t, "doc.txt", "1\n2\n3\n4\n5\n6\n7\n8\n9\n10")
	press(app, KeyDown)
	before := app.session.Cursor()

	press(app, KeyCtrlG)
	typeKeys(app, "1000")
	press(app, KeyEnter)
	assert.Equal(t, "[Line out of range]", app.Status())
	assert.Equal(t, before, app.session.Cursor())

	press(app, KeyCtrlG)
	typeKeys(app, "abc")
	press(app, KeyEnter)
	assert.Equal(t, "[Not a line number]", app.Status())

	press(app, KeyCtrlG)
	typeKeys(app, "5")
	press(app, KeyEnter)
	assert.Equal(t, "[Line 5]", app.Status())
	assert.Equal(t, buffer.Position{Row: 4}, app.session.Cursor())
}

func TestClipboardKeys(t *testing.T) {
	app, _, _ := newTestApp(t, "doc.txt", "copy me")

	press(app, KeyCtrlC)
	assert.Equal(t, "[No Selection]", app.Status())

	app.HandleEvent(NewEventKey(KeyRight, 0, ModCtrl|ModShift))
	press(app, KeyCtrlX)
	assert.Equal(t, "[Cut]", app.Status())
	assert.Equal(t, " me", app.session.Text())

	press(app, KeyEnd)
	press(app, KeyCtrlV)
	assert.Equal(t, "[Pasted]", app.Status())
	assert.Equal(t, " mecopy", app.session.Text())
}

func TestDrawLayout(t *testing.T) {
	app, screen, _ := newTestApp(t, "doc.txt", "foo bar foo\n\tx")
	app.Draw()

	assert.Contains(t, screenRow(screen, 0), " Kobi ")
	assert.True(t, strings.HasPrefix(screenRow(screen, 1), "│  1 foo bar foo"), screenRow(screen, 1))
	assert.True(t, strings.HasPrefix(screenRow(screen, 2), "│  2     x"), screenRow(screen, 2))
	assert.True(t, strings.HasPrefix(screenRow(screen, 21), "└──"))
	assert.Contains(t, screenRow(screen, 22), "doc.txt | Ln 1, Col 1 [Loaded 2 lines]")
	assert.True(t, strings.HasPrefix(screenRow(screen, 23), helpText))

	x, y, visible := screen.GetCursor()
	assert.True(t, visible)
	assert.Equal(t, 5, x)
	assert.Equal(t, 1, y)

	press(app, KeyDown)
	press(app, KeyEnd)
	typeKeys(app, "!")
	app.Draw()
	assert.Contains(t, screenRow(screen, 22), "doc.txt* | Ln 2, Col 4")
	x, y, _ = screen.GetCursor()
	assert.Equal(t, 5+6, x)
	assert.Equal(t, 2, y)
}

func TestStatusShowsLanguage(t *testing.T) {
	app, screen, _ := newTestApp(t, "main.go", "package main\n")
	app.Draw()

	status := screenRow(screen, 22)
	assert.True(t, strings.HasSuffix(status, " Go "), status)
	assert.Contains(t, status, "main.go | Ln 1, Col 1")
}

func TestDrawPrompt(t *testing.T) {
	app, screen, _ := newTestApp(t, "doc.txt", "abc")
	press(app, KeyCtrlG)
	typeKeys(app, "12")
	app.Draw()

	assert.True(t, strings.HasPrefix(screenRow(screen, 23), "Go to line: 12 "))
	x, y, _ := screen.GetCursor()
	assert.Equal(t, len("Go to line: 12"), x)
	assert.Equal(t, 23, y)
}

func TestFileChangedOnDisk(t *testing.T) {
	app, _, _ := newTestApp(t, "doc.txt", "abc")
	app.HandleEvent(NewEventInterrupt(fileChanged{}))
	assert.Equal(t, "[Changed on disk]", app.Status())

	app.HandleEvent(NewEventInterrupt("other"))
	assert.Equal(t, "[Changed on disk]", app.Status())
}

func TestMouse(t *testing.T) {
	app, _, _ := newTestApp(t, "doc.txt", "foo bar foo\nsecond")
	area := app.textArea()

	click := func(col, row int, buttons ButtonMask) {
		app.HandleEvent(NewEventMouse(area.x+col, area.y+row, buttons, ModNone))
	}

	click(4, 1, Button1)
	click(4, 1, ButtonNone)
	assert.Equal(t, buffer.Position{Row: 1, Col: 4}, app.session.Cursor())

	click(5, 0, Button1)
	click(5, 0, ButtonNone)
	click(5, 0, Button1)
	click(5, 0, ButtonNone)
	text, ok := app.session.SelectedText()
	require.True(t, ok, "double click selects the word")
	assert.Equal(t, "bar", text)

	click(0, 1, Button1)
	click(3, 1, Button1)
	click(3, 1, ButtonNone)
	text, ok = app.session.SelectedText()
	require.True(t, ok)
	assert.Equal(t, "sec", text)

	click(0, 15, Button1)
	click(0, 15, ButtonNone)
	assert.Equal(t, 1, app.session.Cursor().Row, "clicks below the text land on the last line")
}

func TestResize(t *testing.T) {
	app, screen, _ := newTestApp(t, "doc.txt", "abc")
	screen.SetSize(40, 10)
	app.HandleEvent(NewEventResize(40, 10))

	view := app.session.Viewport()
	assert.Equal(t, 6, view.Height)
	assert.Equal(t, 40-2-4, view.Width)
}

func TestColumnAt(t *testing.T) {
	tests := []struct {
		line string
		x    int
		want int
	}{
		{"abc", 0, 0},
		{"abc", 2, 2},
		{"abc", 10, 3},
		{"\tx", 2, 0},
		{"\tx", 4, 1},
		{"日本", 1, 0},
		{"日本", 2, 1},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, columnAt([]rune(tc.line), tc.x, 4), "%q at %d", tc.line, tc.x)
	}
}

func TestGitChangeMarkers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0644))
	r, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := r.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("doc.txt")
	require.NoError(t, err)
	_, err = wt.Commit("init", &gogit.CommitOptions{
		Author: &object.Signature{Name: "kobi", Email: "kobi@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	screen := NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(80, 24)
	defer screen.Fini()
	cfg := config.DefaultConfig
	cfg.WatchFile = false
	app := NewApp(screen, editor.New(kio.OSFileSystem{}, &clipboard.Memory{}, editor.Options{}), cfg, highlighter.New(cfg.Theme))
	require.NoError(t, app.Open(path))

	app.Draw()
	assert.True(t, strings.HasPrefix(screenRow(screen, 2), "│  2 two"))

	press(app, KeyDown)
	press(app, KeyEnd)
	typeKeys(app, "!")
	app.Draw()
	assert.True(t, strings.HasPrefix(screenRow(screen, 2), "│  2~two!"), screenRow(screen, 2))
	assert.True(t, strings.HasPrefix(screenRow(screen, 1), "│  1 one"))
}
