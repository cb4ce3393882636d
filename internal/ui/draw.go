package ui

import (
	"fmt"
	"path/filepath"
	"strconv"

	"kobi/internal/git"
	. "kobi/internal/utils"

	. "github.com/gdamore/tcell"
	"github.com/mattn/go-runewidth"
)

const (
	title    = " Kobi "
	helpText = " ^S Save  ^Q Quit  ^F Find  ^G GoTo  ^C Copy  ^X Cut  ^V Paste  ^Z Undo  ^Y Redo "
)

var (
	frameStyle     = StyleDefault.Foreground(GetColor("#888888"))
	statusStyle    = StyleDefault.Reverse(true)
	helpStyle      = StyleDefault.Background(GetColor("#444444")).Foreground(ColorWhite)
	lineNumStyle   = StyleDefault.Foreground(ColorDimGray)
	searchStyle    = StyleDefault.Background(ColorYellow).Foreground(ColorBlack)
	scrollbarStyle = StyleDefault.Foreground(ColorGray)
)

var changeMarks = map[git.Change]struct {
	mark  rune
	style Style
}{
	git.Added:    {'+', StyleDefault.Foreground(GetColor("#90EE90"))},
	git.Modified: {'~', StyleDefault.Foreground(GetColor("#00BFFF"))},
	git.Deleted:  {'_', StyleDefault.Foreground(GetColor("#FF69B4"))},
}

type area struct{ x, y, width, height int }

// textArea is the document region: inside the frame, right of the gutter.
// The frame takes the first row, the last three rows hold the bottom border,
// the status bar and the help bar.
func (a *App) textArea() area {
	w, h := a.Screen.Size()
	gutter := a.gutterWidth()
	return area{x: 1 + gutter, y: 1, width: Max(w-2-gutter, 1), height: Max(h-4, 1)}
}

func (a *App) gutterWidth() int {
	if !a.config.LineNumbers { return 0 }
	return Max(Digits(a.session.LineCount()), 3) + 1
}

// layout resizes the session view when the screen or gutter changed size.
func (a *App) layout() {
	area := a.textArea()
	view := a.session.Viewport()
	if view.Width == area.width && view.Height == area.height { return }
	a.session.Resize(area.width, area.height)
}

// Draw renders the whole screen from the session state.
func (a *App) Draw() {
	a.Screen.Clear()
	a.layout()
	a.updateColors()
	a.updateChanges()

	w, h := a.Screen.Size()
	a.drawFrame(w, h)
	a.drawText()
	a.drawScrollbar(w)
	a.drawStatus(w, h)
	if a.prompt != nil {
		a.drawPrompt(w, h)
	} else {
		a.drawBar(0, h-1, w, helpText, helpStyle)
	}
	a.Screen.Show()
}

func (a *App) updateColors() {
	if a.lexer == nil { a.colors = nil; return }
	if a.colorsValid && a.colorsVersion == a.session.Version() { return }
	a.colors = a.lexer.Colorize(a.session.Text())
	a.colorsVersion = a.session.Version()
	a.colorsValid = true
}

func (a *App) updateChanges() {
	if !a.hasGitBase { a.changes = nil; return }
	if a.changesValid && a.changesVersion == a.session.Version() { return }
	a.changes = git.Changes(a.gitBase, a.session.Text())
	a.changesVersion = a.session.Version()
	a.changesValid = true
}

func (a *App) drawFrame(w, h int) {
	bottom := h - 3
	for x := 1; x < w-1; x++ {
		a.Screen.SetContent(x, 0, '─', nil, frameStyle)
		a.Screen.SetContent(x, bottom, '─', nil, frameStyle)
	}
	for y := 1; y < bottom; y++ {
		a.Screen.SetContent(0, y, '│', nil, frameStyle)
		a.Screen.SetContent(w-1, y, '│', nil, frameStyle)
	}
	a.Screen.SetContent(0, 0, '┌', nil, frameStyle)
	a.Screen.SetContent(w-1, 0, '┐', nil, frameStyle)
	a.Screen.SetContent(0, bottom, '└', nil, frameStyle)
	a.Screen.SetContent(w-1, bottom, '┘', nil, frameStyle)
	a.drawString((w-len(title))/2, 0, w-1, title, frameStyle)
}

func (a *App) drawText() {
	area := a.textArea()
	view := a.session.Viewport()
	tabWidth := a.session.TabWidth()
	cur := a.session.Cursor()
	queryLen := a.session.SearchQueryLength()

	for screenRow := 0; screenRow < area.height; screenRow++ {
		row := view.Top + screenRow
		if row >= a.session.LineCount() { break }
		y := area.y + screenRow
		a.drawLineNumber(row, y, row == cur.Row)

		matches := a.session.SearchMatches(row)
		x := 0
		for col, ch := range a.session.Runes(row) {
			cw := CellWidth(ch, x, tabWidth)
			sx := x - view.Left
			x += cw
			if sx < 0 { continue }
			if sx >= area.width { break }

			style := a.styleAt(row, col, matches, queryLen)
			if ch == '\t' {
				for i := 0; i < cw && sx+i < area.width; i++ {
					a.Screen.SetContent(area.x+sx+i, y, ' ', nil, style)
				}
				continue
			}
			if sx+cw > area.width { break }
			if runewidth.RuneWidth(ch) == 0 { ch = '?' }
			a.Screen.SetContent(area.x+sx, y, ch, nil, style)
		}
	}

	if view.Visible(cur.Row) {
		a.Screen.ShowCursor(area.x+a.session.DisplayColumn()-view.Left, area.y+cur.Row-view.Top)
	} else {
		a.Screen.HideCursor()
	}
}

func (a *App) drawLineNumber(row, y int, current bool) {
	gutter := a.gutterWidth()
	if gutter == 0 { return }
	style := lineNumStyle
	if current { style = StyleDefault }
	a.drawString(1, y, 1+gutter, PadLeft(strconv.Itoa(row+1), gutter-1)+" ", style)
	if m, ok := changeMarks[a.changes[row]]; ok {
		a.Screen.SetContent(gutter, y, m.mark, nil, m.style)
	}
}

func (a *App) styleAt(row, col int, matches []int, queryLen int) Style {
	style := StyleDefault
	if row < len(a.colors) && col < len(a.colors[row]) && a.colors[row][col] != ColorDefault {
		style = style.Foreground(a.colors[row][col])
	}
	for _, m := range matches {
		if col >= m && col < m+queryLen { style = searchStyle; break }
	}
	if a.session.IsSelected(row, col) { style = style.Reverse(true) }
	return style
}

// drawScrollbar marks the visible part of the document on the right border.
func (a *App) drawScrollbar(w int) {
	area := a.textArea()
	lines := a.session.LineCount()
	if lines <= area.height { return }
	top := a.session.Viewport().Top
	thumb := Max(area.height*area.height/lines, 1)
	at := top * (area.height - thumb) / Max(lines-area.height, 1)
	for i := 0; i < thumb; i++ {
		a.Screen.SetContent(w-1, area.y+Min(at+i, area.height-1), '█', nil, scrollbarStyle)
	}
}

func (a *App) drawStatus(w, h int) {
	name := filepath.Base(a.session.Filename)
	if a.session.Dirty() { name += "*" }
	cur := a.session.Cursor()
	text := fmt.Sprintf(" %s | Ln %d, Col %d %s ", name, cur.Row+1, cur.Col+1, a.status)
	a.drawBar(0, h-2, w, text, statusStyle)

	if a.lexer == nil { return }
	lang := " " + a.lexer.Name() + " "
	x := w - runewidth.StringWidth(lang)
	if x > runewidth.StringWidth(text) { a.drawString(x, h-2, w, lang, statusStyle) }
}

func (a *App) drawPrompt(w, h int) {
	text := a.prompt.label + string(a.prompt.text)
	a.drawBar(0, h-1, w, text, StyleDefault)
	caret := runewidth.StringWidth(a.prompt.label) + runewidth.StringWidth(string(a.prompt.text[:a.prompt.x]))
	a.Screen.ShowCursor(Min(caret, w-1), h-1)
}

// drawBar fills a whole row with style and writes text from x.
func (a *App) drawBar(x, y, w int, text string, style Style) {
	for i := 0; i < w; i++ { a.Screen.SetContent(i, y, ' ', nil, style) }
	a.drawString(x, y, w, text, style)
}

func (a *App) drawString(x, y, limit int, text string, style Style) {
	for _, ch := range text {
		cw := runewidth.RuneWidth(ch)
		if cw == 0 { cw = 1 }
		if x+cw > limit { return }
		a.Screen.SetContent(x, y, ch, nil, style)
		x += cw
	}
}
